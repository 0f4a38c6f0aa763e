// Package citation detects legal citations and round-trips them through
// placeholder substitution so that lossy compression can never corrupt
// them.
package citation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/caselaw-ai/legalrag/schema"
)

// Detection patterns in precedence order. At any overlap the earliest
// offset wins; at equal offsets the lower-indexed pattern wins.
//
// 1. reporter citations:  <volume> <reporter-abbrev> <page>, covering
//    "347 U.S. 483", "12 F.3d 456", "45 F. Supp. 2d 100"
// 2. statutory citations: "42 U.S.C. § 1983", "29 C.F.R. § 1630"
// 3. short-form references: "Id. at 495", "Id.", "See also", "See", "Cf."
// 4. case names: "Brown v. Board", "Miranda v. Arizona"
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,4}\s+(?:[A-Z][A-Za-z0-9]*\.\s*)+(?:\d{1,2}d\s+)?\d{1,5}`),
	regexp.MustCompile(`\d{1,4}\s+(?:U\.S\.C\.|C\.F\.R\.)\s*§*\s*\d+[a-z]?`),
	regexp.MustCompile(`\bId\.\s+at\s+\d+|\bId\.|\bSee\s+also\b|\bSee\b|\bCf\.`),
	regexp.MustCompile(`\b[A-Z][A-Za-z.']+(?:\s+[A-Z][A-Za-z.']+)?\s+v\.\s+[A-Z][A-Za-z.']+(?:\s+[A-Z][A-Za-z.']+)?`),
}

var placeholderRe = regexp.MustCompile(`__CITE_\d{4}__`)

// Detect returns the citation spans of text in document order. Spans never
// overlap: once a span is accepted, later candidates intersecting it are
// dropped.
func Detect(text string) []schema.CitationSpan {
	type candidate struct {
		start, end, prio int
	}
	var cands []candidate
	for prio, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			cands = append(cands, candidate{start: loc[0], end: loc[1], prio: prio})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].start != cands[j].start {
			return cands[i].start < cands[j].start
		}
		return cands[i].prio < cands[j].prio
	})

	var spans []schema.CitationSpan
	lastEnd := -1
	for _, c := range cands {
		if c.start < lastEnd {
			continue
		}
		spans = append(spans, schema.CitationSpan{
			Start:   c.start,
			End:     c.end,
			RawText: text[c.start:c.end],
		})
		lastEnd = c.end
	}
	return spans
}

// HasCitation reports whether s contains a citation or a protected
// citation placeholder. Guarded text carries placeholders instead of raw
// citations, so both count.
func HasCitation(s string) bool {
	if placeholderRe.MatchString(s) {
		return true
	}
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Mapping records placeholder -> raw citation text in detection order.
type Mapping struct {
	order []string
	raw   map[string]string
}

// Len returns the number of protected citations.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Citations returns the protected raw texts in detection order.
func (m *Mapping) Citations() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.order))
	for _, ph := range m.order {
		out = append(out, m.raw[ph])
	}
	return out
}

// Protect replaces every detected citation with a unique index-coded
// placeholder and returns the guarded text plus the mapping needed to
// undo it. Text without citations passes through untouched.
//
// The placeholder alphabet is reserved: input that already contains a
// literal __CITE_nnnn__ token will be flagged by Restore as an unknown
// placeholder rather than round-tripped.
func Protect(text string) (string, *Mapping) {
	spans := Detect(text)
	mapping := &Mapping{raw: make(map[string]string, len(spans))}
	if len(spans) == 0 {
		return text, mapping
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for i, span := range spans {
		ph := fmt.Sprintf("__CITE_%04d__", i)
		b.WriteString(text[prev:span.Start])
		b.WriteString(ph)
		prev = span.End
		mapping.order = append(mapping.order, ph)
		mapping.raw[ph] = span.RawText
	}
	b.WriteString(text[prev:])
	return b.String(), mapping
}

// Restore substitutes raw citations back for their placeholders.
//
// It fails with *schema.CitationRestoreError when guarded contains a
// placeholder the mapping does not know, or when a mapped placeholder is
// missing from guarded. The latter means an upstream compressor dropped
// or corrupted a protected token, and silently continuing would return
// corrupted output.
func Restore(guarded string, mapping *Mapping) (string, error) {
	for _, ph := range placeholderRe.FindAllString(guarded, -1) {
		if _, ok := mapping.raw[ph]; !ok {
			return "", &schema.CitationRestoreError{Placeholder: ph, Reason: "no mapping entry"}
		}
	}
	for _, ph := range mapping.order {
		if !strings.Contains(guarded, ph) {
			return "", &schema.CitationRestoreError{Placeholder: ph, Reason: "placeholder missing from guarded text"}
		}
	}
	restored := guarded
	for _, ph := range mapping.order {
		restored = strings.ReplaceAll(restored, ph, mapping.raw[ph])
	}
	return restored, nil
}
