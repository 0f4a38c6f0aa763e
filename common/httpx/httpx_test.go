package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caselaw-ai/legalrag/common/logger"
)

func TestDo_RetryReplaysBody(t *testing.T) {
	logger.Disable()

	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewFromConfig(&ClientConfig{Retry: 2, BackoffMinMs: 1, BackoffMaxMs: 2})
	const payload = `{"text":"guarded","target_ratio":0.5}`
	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(bodies) != 2 {
		t.Fatalf("server saw %d attempts, want 2", len(bodies))
	}
	if bodies[1] != payload {
		t.Errorf("retried body = %q, want %q", bodies[1], payload)
	}
}

func TestDo_HostAllowlist(t *testing.T) {
	logger.Disable()

	c := NewFromConfig(&ClientConfig{HostAllowlist: []string{"api.example.com"}})
	req, err := http.NewRequest(http.MethodGet, "http://evil.example.org/", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Do(req); err != ErrHostNotAllowed {
		t.Fatalf("err = %v, want ErrHostNotAllowed", err)
	}
}

func TestMatchHost(t *testing.T) {
	cases := []struct {
		pattern, host string
		want          bool
	}{
		{"*", "anything.example.com", true},
		{"api.example.com", "API.EXAMPLE.COM", true},
		{"*.example.com", "svc.example.com", true},
		{"*.example.com", "example.com", true},
		{"*.example.com", "example.org", false},
		{"api.example.com", "api.example.org", false},
	}
	for _, tc := range cases {
		if got := matchHost(tc.pattern, tc.host); got != tc.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tc.pattern, tc.host, got, tc.want)
		}
	}
}
