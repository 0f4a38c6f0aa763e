// Package chunker turns a sectioned legal document into an ordered
// sequence of retrievable chunks. Splitting is section-first, then
// paragraph-aware, then sentence-aware, and never severs a citation.
package chunker

import (
	"fmt"
	"regexp"

	"github.com/caselaw-ai/legalrag/citation"
	"github.com/caselaw-ai/legalrag/config"
	"github.com/caselaw-ai/legalrag/schema"
)

var (
	paragraphBreak = regexp.MustCompile(`\n[ \t]*\n+`)
	sentenceBreak  = regexp.MustCompile(`[.!?]["')\]]*\s+`)
)

// region is a contiguous slice of the document owned by one chunk,
// excluding overlap.
type region struct {
	start, end int
	label      schema.SectionLabel
}

// Chunk splits a document into chunks of at most cfg.MaxChars characters
// (single sentences and protected citations may push a chunk over the
// limit; boundaries only ever move forward, never backward into a
// citation). Chunk regions are contiguous slices of the document, so
// concatenating all non-overlap regions in order reconstructs RawText
// exactly.
//
// Sections must partition the document; anything else is rejected with
// *schema.MalformedDocumentError.
func Chunk(doc schema.Document, meta schema.Metadata, sections []schema.Section, cfg config.ChunkerConfig) ([]schema.Chunk, error) {
	if err := validateSections(doc, sections); err != nil {
		return nil, err
	}
	if cfg.MaxChars <= 0 {
		return nil, fmt.Errorf("chunker: max_chars must be positive, got %d", cfg.MaxChars)
	}

	spans := meta.Citations
	if spans == nil {
		spans = citation.Detect(doc.RawText)
	}

	regions := splitRegions(doc.RawText, sections, spans, cfg.MaxChars)

	chunks := make([]schema.Chunk, 0, len(regions))
	for i, reg := range regions {
		overlapStart := reg.start
		if i > 0 && cfg.OverlapChars > 0 {
			overlapStart = reg.start - cfg.OverlapChars
			if prev := regions[i-1]; overlapStart < prev.start {
				overlapStart = prev.start
			}
			// the overlap slice must not begin mid-citation; shrink it
			// forward past the span rather than duplicating a torn token
			overlapStart = vetoForward(spans, overlapStart)
			if overlapStart > reg.start {
				overlapStart = reg.start
			}
		}
		overlap := reg.start - overlapStart

		chunk := schema.Chunk{
			ID:              fmt.Sprintf("%s:%d", doc.ID, i),
			DocumentID:      doc.ID,
			SectionLabel:    reg.label,
			Text:            doc.RawText[overlapStart:reg.end],
			Start:           reg.start,
			End:             reg.end,
			OverlapWithPrev: overlap,
			Metadata: map[string]any{
				"document_id": doc.ID,
				"section":     string(reg.label),
			},
		}
		if meta.CaseName != "" {
			chunk.Metadata["case_name"] = meta.CaseName
		}
		if meta.Court != "" {
			chunk.Metadata["court"] = meta.Court
		}
		for _, s := range spans {
			if s.Start >= reg.start && s.End <= reg.end {
				chunk.CitationSpans = append(chunk.CitationSpans, schema.CitationSpan{
					Start:   s.Start - reg.start + overlap,
					End:     s.End - reg.start + overlap,
					RawText: s.RawText,
				})
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func validateSections(doc schema.Document, sections []schema.Section) error {
	if len(sections) == 0 {
		return &schema.MalformedDocumentError{DocumentID: doc.ID, Reason: "no sections"}
	}
	if sections[0].Start != 0 {
		return &schema.MalformedDocumentError{DocumentID: doc.ID, Reason: "first section does not start at offset 0"}
	}
	for i, s := range sections {
		if s.End < s.Start {
			return &schema.MalformedDocumentError{
				DocumentID: doc.ID,
				Reason:     fmt.Sprintf("section %d has end %d before start %d", i, s.End, s.Start),
			}
		}
		if i > 0 && s.Start != sections[i-1].End {
			return &schema.MalformedDocumentError{
				DocumentID: doc.ID,
				Reason:     fmt.Sprintf("section %d starts at %d, previous ends at %d", i, s.Start, sections[i-1].End),
			}
		}
	}
	if last := sections[len(sections)-1]; last.End != len(doc.RawText) {
		return &schema.MalformedDocumentError{
			DocumentID: doc.ID,
			Reason:     fmt.Sprintf("sections end at %d, document has %d characters", last.End, len(doc.RawText)),
		}
	}
	return nil
}

// splitRegions walks the sections in order and emits contiguous chunk
// regions. Section boundaries are soft: when a boundary falls inside a
// citation the region extends into the next section, whose remainder
// shrinks accordingly; citation integrity is the hard constraint.
func splitRegions(text string, sections []schema.Section, spans []schema.CitationSpan, max int) []region {
	var regions []region
	cursor := 0
	for _, sec := range sections {
		start := cursor
		if start < sec.Start {
			start = sec.Start
		}
		end := vetoForward(spans, sec.End)
		if start >= end {
			continue // section swallowed by a veto overrun
		}

		c := &cutter{text: text, spans: spans, max: max, cur: start}
		if end-start > max {
			c.walk(start, end, paragraphBreak, sentenceBreak)
		}

		prev := start
		for _, cut := range c.cuts {
			regions = append(regions, region{start: prev, end: cut, label: sec.Label})
			prev = cut
		}
		// a vetoed flush can land exactly on end, leaving nothing behind it
		if prev < end {
			regions = append(regions, region{start: prev, end: end, label: sec.Label})
		}
		cursor = end
	}
	return regions
}

// cutter accumulates units (paragraphs, then sentences) into a running
// buffer and records a cut whenever adding the next unit would exceed max
// and the buffer is non-empty.
type cutter struct {
	text  string
	spans []schema.CitationSpan
	max   int
	cuts  []int
	cur   int
}

func (c *cutter) flushAt(pos int) {
	pos = vetoForward(c.spans, pos)
	if pos > c.cur {
		c.cuts = append(c.cuts, pos)
		c.cur = pos
	}
}

// walk splits [start,end) at boundaries of re. A single unit longer than
// max is retried at the finer granularity; at the finest level it is left
// whole, so an over-long sentence becomes one oversized chunk instead of
// being cut mid-token.
func (c *cutter) walk(start, end int, re, finer *regexp.Regexp) {
	starts := append([]int{start}, unitStarts(c.text, start, end, re)...)
	for i, uStart := range starts {
		uEnd := end
		if i+1 < len(starts) {
			uEnd = starts[i+1]
		}
		if uStart < c.cur {
			uStart = c.cur // a veto overrun swallowed the head of this unit
		}
		if uStart >= uEnd {
			continue
		}
		if uEnd-c.cur > c.max && uStart > c.cur {
			c.flushAt(uStart)
			if uStart < c.cur {
				uStart = c.cur
			}
			if uStart >= uEnd {
				continue
			}
		}
		if uEnd-c.cur > c.max && finer != nil {
			c.walk(uStart, uEnd, finer, nil)
		}
	}
}

// unitStarts returns the interior unit-start offsets of [start,end) for
// the given delimiter, ascending.
func unitStarts(text string, start, end int, re *regexp.Regexp) []int {
	var out []int
	for _, loc := range re.FindAllStringIndex(text[start:end], -1) {
		b := start + loc[1]
		if b > start && b < end {
			out = append(out, b)
		}
	}
	return out
}

// vetoForward pushes pos forward to the end of the citation it falls
// strictly inside of. Positions at span edges are valid.
func vetoForward(spans []schema.CitationSpan, pos int) int {
	for _, s := range spans {
		if s.Start < pos && pos < s.End {
			return s.End
		}
		if s.Start >= pos {
			break
		}
	}
	return pos
}
