// Package compress shrinks retrieved legal context to a target token
// ratio while keeping citations intact. Two strategies implement one
// contract: DelegatedCompressor forwards guarded text to an external
// token-importance model, FallbackCompressor selects sentences locally.
package compress

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/caselaw-ai/legalrag/citation"
	"github.com/caselaw-ai/legalrag/common/httpx"
	"github.com/caselaw-ai/legalrag/common/logger"
	"github.com/caselaw-ai/legalrag/config"
	"github.com/caselaw-ai/legalrag/schema"
	"github.com/caselaw-ai/legalrag/tokens"
)

// Compressor is the contract shared by both compression strategies.
type Compressor interface {
	Compress(ctx context.Context, text, query string, targetRatio float64) (*schema.CompressionResult, error)
}

// New builds a Compressor from configuration. "delegated" requires an
// endpoint; anything else resolves to the extractive fallback.
func New(cfg config.CompressionConfig, httpCfg *httpx.ClientConfig, counter tokens.Counter) Compressor {
	switch strings.ToLower(cfg.Method) {
	case "delegated":
		if cfg.Endpoint == "" {
			logger.Warnf("compress: delegated compression requires an endpoint, using fallback")
			return NewFallbackCompressor(counter)
		}
		return &DelegatedCompressor{
			Model: &HTTPImportanceModel{
				Endpoint: cfg.Endpoint,
				Headers:  cfg.Headers,
				Client:   httpx.NewFromConfig(httpCfg),
			},
			Counter:   counter,
			Tolerance: cfg.Tolerance,
		}
	case "fallback", "":
		return NewFallbackCompressor(counter)
	default:
		logger.Warnf("compress: unknown method %q, using fallback", cfg.Method)
		return NewFallbackCompressor(counter)
	}
}

// FormatStats renders one compression pass for logs.
func FormatStats(r *schema.CompressionResult) string {
	savings := (1 - r.AchievedRatio) * 100
	if savings < 0 {
		savings = 0
	}
	return fmt.Sprintf("compression: %d -> %d tokens (%.0f%% of original, %.1f%% savings)",
		r.OriginalTokenCount, r.CompressedTokenCount, r.AchievedRatio*100, savings)
}

var sentenceEnd = regexp.MustCompile(`[.!?]+["')\]]*\s+`)

// splitSentences splits text into trimmed sentences, preserving order.
// Callers protect citations first so abbreviation periods inside them
// cannot produce spurious boundaries.
func splitSentences(text string) []string {
	var out []string
	prev := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[prev:loc[1]]); s != "" {
			out = append(out, s)
		}
		prev = loc[1]
	}
	if tail := strings.TrimSpace(text[prev:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

// preservedCitations reports whether every protected citation survived
// into compressed verbatim.
func preservedCitations(mapping *citation.Mapping, compressed string) bool {
	for _, raw := range mapping.Citations() {
		if !strings.Contains(compressed, raw) {
			return false
		}
	}
	return true
}

func newResult(counter tokens.Counter, original, compressed string, mapping *citation.Mapping) *schema.CompressionResult {
	origTokens := counter.Count(original)
	compTokens := counter.Count(compressed)
	ratio := 1.0
	if origTokens > 0 {
		ratio = float64(compTokens) / float64(origTokens)
	}
	return &schema.CompressionResult{
		OriginalText:         original,
		CompressedText:       compressed,
		OriginalTokenCount:   origTokens,
		CompressedTokenCount: compTokens,
		AchievedRatio:        ratio,
		PreservedCitations:   preservedCitations(mapping, compressed),
	}
}
