// Package section locates legal section headers and partitions a document
// into labeled spans.
package section

import (
	"regexp"
	"strings"

	"github.com/caselaw-ai/legalrag/schema"
)

// headerLine matches a line that consists of optional leading numbering
// (roman or arabic, possibly dotted), a vocabulary term, and optional
// trailing punctuation. Nothing else may appear on the line.
var headerLine = regexp.MustCompile(`^[\s]*(?:(?:[IVXLCivxlc]+|\d+|[A-Za-z])[.)]\s*)*([A-Za-z ]+?)\s*[:.\-]*\s*$`)

var vocabulary = func() map[string]schema.SectionLabel {
	m := make(map[string]schema.SectionLabel, len(schema.SectionLabels))
	for _, label := range schema.SectionLabels {
		m[string(label)] = label
	}
	return m
}()

// Detect partitions text into labeled sections. Sections run from their
// header's line start to the next header's line start (or document end).
// Text before the first header, or a document without headers, is
// SectionUnlabeled; no byte of the document is ever dropped.
func Detect(text string) []schema.Section {
	if text == "" {
		return []schema.Section{{Label: schema.SectionUnlabeled, Start: 0, End: 0}}
	}

	type header struct {
		label schema.SectionLabel
		start int // line start offset
	}
	var headers []header

	lineStart := 0
	for lineStart <= len(text) {
		lineEnd := strings.IndexByte(text[lineStart:], '\n')
		var line string
		if lineEnd < 0 {
			line = text[lineStart:]
			lineEnd = len(text)
		} else {
			lineEnd += lineStart
			line = text[lineStart:lineEnd]
		}

		if label, ok := matchHeader(line); ok {
			headers = append(headers, header{label: label, start: lineStart})
		}

		if lineEnd >= len(text) {
			break
		}
		lineStart = lineEnd + 1
	}

	if len(headers) == 0 {
		return []schema.Section{{Label: schema.SectionUnlabeled, Start: 0, End: len(text)}}
	}

	var sections []schema.Section
	if headers[0].start > 0 {
		sections = append(sections, schema.Section{
			Label: schema.SectionUnlabeled,
			Start: 0,
			End:   headers[0].start,
		})
	}
	for i, h := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1].start
		}
		sections = append(sections, schema.Section{Label: h.label, Start: h.start, End: end})
	}
	return sections
}

func matchHeader(line string) (schema.SectionLabel, bool) {
	m := headerLine.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	term := strings.ToUpper(strings.TrimSpace(m[1]))
	label, ok := vocabulary[term]
	return label, ok
}
