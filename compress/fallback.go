package compress

import (
	"context"
	"sort"
	"strings"

	"github.com/caselaw-ai/legalrag/citation"
	"github.com/caselaw-ai/legalrag/schema"
	"github.com/caselaw-ai/legalrag/tokens"
)

// FallbackCompressor is the self-contained extractive strategy: it keeps
// the highest-scoring sentences up to the token budget and emits them in
// original document order. It needs no external service and is the safety
// net when the delegated model is unavailable.
type FallbackCompressor struct {
	Scorer  RelevanceScorer
	Counter tokens.Counter
}

func NewFallbackCompressor(counter tokens.Counter) *FallbackCompressor {
	if counter == nil {
		counter = tokens.WordCounter{}
	}
	return &FallbackCompressor{Counter: counter}
}

// Compress selects sentences greedily in descending score order (ties
// broken by earlier position) until the cumulative token count reaches
// targetRatio of the original, always keeping at least one sentence.
// Sentences carrying a protected citation are always kept, whatever the
// ratio. Selected sentences are re-ordered to document order before
// concatenation so the output stays readable prose.
func (f *FallbackCompressor) Compress(_ context.Context, text, query string, targetRatio float64) (*schema.CompressionResult, error) {
	guarded, mapping := citation.Protect(text)

	sentences := splitSentences(guarded)
	if len(sentences) == 0 {
		return newResult(f.Counter, text, text, mapping), nil
	}

	counts := make([]int, len(sentences))
	total := 0
	for i, s := range sentences {
		counts[i] = f.Counter.Count(s)
		total += counts[i]
	}

	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	scores := make([]float64, len(sentences))
	for i, s := range sentences {
		scores[i] = f.Scorer.Score(s, query)
	}
	sort.SliceStable(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return order[a] < order[b]
	})

	budget := targetRatio * float64(total)
	selected := make(map[int]bool, len(sentences))
	cumulative := 0
	for _, idx := range order {
		if len(selected) > 0 && float64(cumulative) >= budget {
			break
		}
		selected[idx] = true
		cumulative += counts[idx]
	}

	// citation sentences are not droppable
	for i, s := range sentences {
		if !selected[i] && citation.HasCitation(s) {
			selected[i] = true
		}
	}

	kept := make([]string, 0, len(selected))
	for i, s := range sentences {
		if selected[i] {
			kept = append(kept, s)
		}
	}

	restored, err := citation.Restore(strings.Join(kept, " "), mapping)
	if err != nil {
		return nil, err
	}
	return newResult(f.Counter, text, restored, mapping), nil
}
