package compress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caselaw-ai/legalrag/config"
	"github.com/caselaw-ai/legalrag/schema"
	"github.com/caselaw-ai/legalrag/tokens"
)

func configFor(method, endpoint string) config.CompressionConfig {
	return config.CompressionConfig{Method: method, TargetRatio: 0.5, Tolerance: 0.05, Endpoint: endpoint}
}

type stubModel struct {
	prune func(text, query string, targetRatio float64) (string, error)
}

func (s *stubModel) ScoreAndPrune(_ context.Context, text, query string, targetRatio float64) (string, error) {
	return s.prune(text, query, targetRatio)
}

func TestDelegated_RoundTrip(t *testing.T) {
	dc := &DelegatedCompressor{
		Model: &stubModel{prune: func(text, _ string, _ float64) (string, error) {
			return text, nil // identity pruning keeps all placeholders
		}},
		Counter: tokens.WordCounter{},
	}
	text := "The court held for the plaintiff. See Brown v. Board, 347 U.S. 483."
	result, err := dc.Compress(context.Background(), text, "", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.CompressedText, "347 U.S. 483") {
		t.Error("citation not restored")
	}
	if strings.Contains(result.CompressedText, "__CITE_") {
		t.Error("placeholder leaked into output")
	}
	if !result.PreservedCitations {
		t.Error("PreservedCitations = false")
	}
}

func TestDelegated_ModelFailureIsUnavailable(t *testing.T) {
	dc := &DelegatedCompressor{
		Model: &stubModel{prune: func(_, _ string, _ float64) (string, error) {
			return "", fmt.Errorf("connection refused")
		}},
		Counter: tokens.WordCounter{},
	}
	_, err := dc.Compress(context.Background(), "Some text.", "", 0.5)
	var unavailable *schema.CompressionUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected CompressionUnavailableError, got %v", err)
	}
}

func TestDelegated_EmptyOutputIsUnavailable(t *testing.T) {
	dc := &DelegatedCompressor{
		Model:   &stubModel{prune: func(_, _ string, _ float64) (string, error) { return "  ", nil }},
		Counter: tokens.WordCounter{},
	}
	_, err := dc.Compress(context.Background(), "Some text.", "", 0.5)
	var unavailable *schema.CompressionUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected CompressionUnavailableError, got %v", err)
	}
}

func TestDelegated_DroppedPlaceholderAborts(t *testing.T) {
	dc := &DelegatedCompressor{
		Model: &stubModel{prune: func(_, _ string, _ float64) (string, error) {
			return "pruned output with no placeholders", nil
		}},
		Counter: tokens.WordCounter{},
	}
	_, err := dc.Compress(context.Background(), "The rule of 347 U.S. 483 applies.", "", 0.5)
	var restoreErr *schema.CitationRestoreError
	if !errors.As(err, &restoreErr) {
		t.Fatalf("expected CitationRestoreError, got %v", err)
	}
}

func TestDelegated_ReinsertsDroppedTerms(t *testing.T) {
	text := "The plaintiff prevailed below. The judgment was affirmed on appeal. Unrelated filler text follows here."
	dc := &DelegatedCompressor{
		Model: &stubModel{prune: func(_, _ string, _ float64) (string, error) {
			// model keeps only the filler, dropping every legal term
			return "Unrelated filler text follows here.", nil
		}},
		Counter:   tokens.WordCounter{},
		Tolerance: 0.1,
	}
	result, err := dc.Compress(context.Background(), text, "", 0.9)
	if err != nil {
		t.Fatal(err)
	}
	for _, term := range []string{"plaintiff", "affirmed"} {
		if !strings.Contains(strings.ToLower(result.CompressedText), term) {
			t.Errorf("dropped term %q was not re-inserted", term)
		}
	}
}

func TestDelegated_ReinsertRespectsTolerance(t *testing.T) {
	text := "The plaintiff prevailed below. The judgment was affirmed on appeal. Unrelated filler text follows here."
	dc := &DelegatedCompressor{
		Model: &stubModel{prune: func(_, _ string, _ float64) (string, error) {
			return "Unrelated filler text follows here.", nil
		}},
		Counter:   tokens.WordCounter{},
		Tolerance: 0.0,
	}
	// budget of 0.3 of the original cannot absorb either dropped sentence
	result, err := dc.Compress(context.Background(), text, "", 0.3)
	if err != nil {
		t.Fatal(err)
	}
	if result.CompressedText != "Unrelated filler text follows here." {
		t.Errorf("re-insertion exceeded the ratio budget: %q", result.CompressedText)
	}
}

func TestHTTPImportanceModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req pruneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.TargetRatio != 0.5 {
			t.Errorf("target_ratio = %f", req.TargetRatio)
		}
		_ = json.NewEncoder(w).Encode(pruneResponse{CompressedText: "pruned: " + req.Text})
	}))
	defer srv.Close()

	m := &HTTPImportanceModel{Endpoint: srv.URL}
	out, err := m.ScoreAndPrune(context.Background(), "guarded text", "q", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if out != "pruned: guarded text" {
		t.Errorf("out = %q", out)
	}
}

func TestHTTPImportanceModel_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := &HTTPImportanceModel{Endpoint: srv.URL}
	if _, err := m.ScoreAndPrune(context.Background(), "text", "", 0.5); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestNewFactory(t *testing.T) {
	cfg := configFor("delegated", "http://compressor.internal/prune")
	if _, ok := New(cfg, nil, tokens.WordCounter{}).(*DelegatedCompressor); !ok {
		t.Error("delegated with endpoint should build DelegatedCompressor")
	}

	cfg = configFor("delegated", "")
	if _, ok := New(cfg, nil, tokens.WordCounter{}).(*FallbackCompressor); !ok {
		t.Error("delegated without endpoint should fall back")
	}

	cfg = configFor("fallback", "")
	if _, ok := New(cfg, nil, tokens.WordCounter{}).(*FallbackCompressor); !ok {
		t.Error("fallback method should build FallbackCompressor")
	}

	cfg = configFor("mystery", "")
	if _, ok := New(cfg, nil, tokens.WordCounter{}).(*FallbackCompressor); !ok {
		t.Error("unknown method should fall back")
	}
}
