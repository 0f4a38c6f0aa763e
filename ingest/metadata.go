// Package ingest turns raw legal documents into embedded chunks in the
// vector store.
package ingest

import (
	"regexp"
	"strings"

	"github.com/caselaw-ai/legalrag/citation"
	"github.com/caselaw-ai/legalrag/schema"
)

var (
	// Case captions appear near the top of an opinion, "Plaintiff v. Defendant".
	caseNameRe = regexp.MustCompile(`([A-Z][A-Za-z\s,.']+?)\s+v\.?\s+([A-Z][A-Za-z\s,.']+?)(?:[,\n]|$)`)

	courtRes = []*regexp.Regexp{
		regexp.MustCompile(`Supreme Court of [A-Za-z ]+`),
		regexp.MustCompile(`United States Court of Appeals(?: for the [A-Za-z ]+ Circuit)?`),
		regexp.MustCompile(`United States District Court(?: for the [A-Za-z ]+)?`),
		regexp.MustCompile(`Court of Appeals of [A-Za-z ]+`),
		regexp.MustCompile(`Superior Court of [A-Za-z ]+`),
	}

	decidedDateRe = regexp.MustCompile(`(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}`)
)

const (
	captionWindow = 500
	courtWindow   = 1000
)

// ExtractMetadata pulls the case name, court, decided date, and citation
// spans out of the raw document text. Absent fields stay zero; extraction
// never fails.
func ExtractMetadata(doc schema.Document) schema.Metadata {
	meta := schema.Metadata{}
	text := doc.RawText

	head := text
	if len(head) > captionWindow {
		head = head[:captionWindow]
	}
	if m := caseNameRe.FindStringSubmatch(head); m != nil {
		meta.CaseName = strings.TrimSpace(m[1]) + " v. " + strings.TrimSpace(m[2])
	}

	courtHead := text
	if len(courtHead) > courtWindow {
		courtHead = courtHead[:courtWindow]
	}
	for _, re := range courtRes {
		if m := re.FindString(courtHead); m != "" {
			meta.Court = strings.TrimSpace(m)
			break
		}
	}

	if m := decidedDateRe.FindString(text); m != "" {
		meta.DecidedDate = m
	}

	meta.Citations = citation.Detect(text)
	return meta
}
