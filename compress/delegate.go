package compress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/caselaw-ai/legalrag/citation"
	"github.com/caselaw-ai/legalrag/common/httpx"
	"github.com/caselaw-ai/legalrag/schema"
	"github.com/caselaw-ai/legalrag/tokens"
)

// ImportanceModel is the external token-importance scoring service the
// delegated strategy forwards guarded text to.
type ImportanceModel interface {
	ScoreAndPrune(ctx context.Context, text, query string, targetRatio float64) (string, error)
}

// DelegatedCompressor protects citations, hands the guarded text to the
// external importance model, restores citations on the pruned output, and
// re-inserts dropped allowlisted legal terms while the result stays
// within targetRatio+Tolerance.
//
// An unreachable or failing model surfaces as
// *schema.CompressionUnavailableError so callers can switch to the
// fallback strategy; a corrupted placeholder surfaces as
// *schema.CitationRestoreError and must abort.
type DelegatedCompressor struct {
	Model     ImportanceModel
	Counter   tokens.Counter
	Tolerance float64
}

func (d *DelegatedCompressor) Compress(ctx context.Context, text, query string, targetRatio float64) (*schema.CompressionResult, error) {
	counter := d.Counter
	if counter == nil {
		counter = tokens.WordCounter{}
	}

	guarded, mapping := citation.Protect(text)

	pruned, err := d.Model.ScoreAndPrune(ctx, guarded, query, targetRatio)
	if err != nil {
		return nil, &schema.CompressionUnavailableError{Cause: err}
	}
	if strings.TrimSpace(pruned) == "" {
		return nil, &schema.CompressionUnavailableError{Cause: fmt.Errorf("importance model returned empty output")}
	}

	restored, err := citation.Restore(pruned, mapping)
	if err != nil {
		return nil, err
	}

	restored = d.reinsertDroppedTerms(counter, text, restored, targetRatio)

	return newResult(counter, text, restored, mapping), nil
}

// reinsertDroppedTerms appends, in original order, the first original
// sentence containing each allowlisted term the model dropped, as long as
// the result stays within (targetRatio+Tolerance) of the original tokens.
func (d *DelegatedCompressor) reinsertDroppedTerms(counter tokens.Counter, original, compressed string, targetRatio float64) string {
	lowerOrig := strings.ToLower(original)
	lowerComp := strings.ToLower(compressed)

	var dropped []string
	for term := range legalTerms {
		if strings.Contains(lowerOrig, term) && !strings.Contains(lowerComp, term) {
			dropped = append(dropped, term)
		}
	}
	if len(dropped) == 0 {
		return compressed
	}
	sort.Strings(dropped)

	sentences := splitSentences(original)
	picked := make(map[int]bool)
	for _, term := range dropped {
		for i, s := range sentences {
			if strings.Contains(strings.ToLower(s), term) {
				picked[i] = true
				break
			}
		}
	}

	budget := (targetRatio + d.Tolerance) * float64(counter.Count(original))
	used := counter.Count(compressed)
	for i, s := range sentences {
		if !picked[i] {
			continue
		}
		cost := counter.Count(s)
		if float64(used+cost) > budget {
			continue
		}
		compressed = compressed + " " + s
		used += cost
	}
	return compressed
}

// HTTPImportanceModel talks to an LLMLingua-style compression microservice
// over JSON.
type HTTPImportanceModel struct {
	Endpoint string
	Headers  map[string]string
	Client   *httpx.Client
}

type pruneRequest struct {
	Text        string  `json:"text"`
	Query       string  `json:"query,omitempty"`
	TargetRatio float64 `json:"target_ratio"`
}

type pruneResponse struct {
	CompressedText string `json:"compressed_text"`
}

func (h *HTTPImportanceModel) ScoreAndPrune(ctx context.Context, text, query string, targetRatio float64) (string, error) {
	body, err := json.Marshal(&pruneRequest{Text: text, Query: query, TargetRatio: targetRatio})
	if err != nil {
		return "", fmt.Errorf("importance model marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("importance model new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}

	client := h.Client
	if client == nil {
		client = httpx.NewFromConfig(nil)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("importance model request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("importance model status %d", resp.StatusCode)
	}

	var result pruneResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("importance model decode response: %w", err)
	}
	return result.CompressedText, nil
}
