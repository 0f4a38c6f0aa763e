package compress

import (
	"regexp"
	"strings"

	"github.com/caselaw-ai/legalrag/citation"
)

// Scoring weights. A sentence carrying a citation is rarely droppable, so
// citation presence outweighs legal-term density, which in turn outweighs
// raw query overlap; overlap still breaks ties toward relevance.
const (
	weightTermDensity  = 1.0
	weightCitation     = 2.0
	weightQueryOverlap = 0.5
)

// legalTerms is the fixed legal vocabulary used for density scoring and
// for the delegated compressor's force-preserve allowlist.
var legalTerms = map[string]struct{}{
	"holding": {}, "held": {}, "affirmed": {}, "reversed": {}, "remanded": {},
	"plaintiff": {}, "defendant": {}, "appellant": {}, "appellee": {},
	"judgment": {}, "order": {}, "motion": {}, "petition": {}, "writ": {},
	"statute": {}, "regulation": {}, "constitutional": {}, "amendment": {},
	"precedent": {}, "court": {}, "ruling": {}, "affirm": {}, "dissent": {},
	"concurrence": {}, "remand": {}, "injunction": {}, "certiorari": {},
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "by": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"it": {}, "as": {}, "what": {}, "which": {}, "who": {}, "how": {},
	"did": {}, "does": {}, "do": {},
}

var wordRe = regexp.MustCompile(`[A-Za-z]+`)

// RelevanceScorer scores a sentence against legal-term density, citation
// presence, and query-term overlap. Stateless; safe for concurrent use.
type RelevanceScorer struct{}

// Score returns a non-negative relevance score for sentence. query may be
// empty, in which case the overlap component contributes nothing.
func (RelevanceScorer) Score(sentence, query string) float64 {
	words := wordRe.FindAllString(strings.ToLower(sentence), -1)

	density := 0.0
	if len(words) > 0 {
		hits := 0
		for _, w := range words {
			if _, ok := legalTerms[w]; ok {
				hits++
			}
		}
		density = float64(hits) / float64(len(words))
	}

	cited := 0.0
	if citation.HasCitation(sentence) {
		cited = 1.0
	}

	overlap := 0.0
	if query != "" {
		present := make(map[string]struct{}, len(words))
		for _, w := range words {
			present[w] = struct{}{}
		}
		queryWords := 0
		hits := 0
		for _, q := range wordRe.FindAllString(strings.ToLower(query), -1) {
			if _, stop := stopWords[q]; stop {
				continue
			}
			queryWords++
			if _, ok := present[q]; ok {
				hits++
			}
		}
		if queryWords > 0 {
			overlap = float64(hits) / float64(queryWords)
		}
	}

	return weightTermDensity*density + weightCitation*cited + weightQueryOverlap*overlap
}
