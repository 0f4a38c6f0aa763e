package schema

import "time"

// SectionLabel identifies the logical part of a legal opinion a span of
// text belongs to. The vocabulary is fixed; anything outside it maps to
// SectionUnlabeled.
type SectionLabel string

const (
	SectionOpinion     SectionLabel = "OPINION"
	SectionBackground  SectionLabel = "BACKGROUND"
	SectionFacts       SectionLabel = "FACTS"
	SectionAnalysis    SectionLabel = "ANALYSIS"
	SectionDiscussion  SectionLabel = "DISCUSSION"
	SectionHolding     SectionLabel = "HOLDING"
	SectionConclusion  SectionLabel = "CONCLUSION"
	SectionDissent     SectionLabel = "DISSENT"
	SectionConcurrence SectionLabel = "CONCURRENCE"
	SectionUnlabeled   SectionLabel = "UNLABELED"
)

// SectionLabels lists the header vocabulary in a stable order.
// SectionUnlabeled is intentionally absent: it is never matched, only assigned.
var SectionLabels = []SectionLabel{
	SectionOpinion,
	SectionBackground,
	SectionFacts,
	SectionAnalysis,
	SectionDiscussion,
	SectionHolding,
	SectionConclusion,
	SectionDissent,
	SectionConcurrence,
}

// Document is an extracted legal document. Extraction from the container
// format (PDF/DOCX/TXT) happens upstream; RawText is immutable afterwards.
type Document struct {
	ID           string `json:"id"`
	RawText      string `json:"raw_text"`
	SourceFormat string `json:"source_format,omitempty"`
}

// Metadata holds fields derived from a document's text. Optional fields
// stay empty when no pattern matched.
type Metadata struct {
	CaseName    string         `json:"case_name,omitempty"`
	Court       string         `json:"court,omitempty"`
	Citations   []CitationSpan `json:"citations,omitempty"`
	DecidedDate string         `json:"decided_date,omitempty"`
}

// Section is a labeled span of a document. Sections of one document
// partition its text: non-overlapping, ordered, exhaustive.
type Section struct {
	Label SectionLabel `json:"label"`
	Start int          `json:"start_offset"`
	End   int          `json:"end_offset"`
}

// CitationSpan is a detected legal citation. Spans never overlap; detection
// is left-to-right with first match winning.
type CitationSpan struct {
	Start   int    `json:"start_offset"`
	End     int    `json:"end_offset"`
	RawText string `json:"raw_text"`
}

// Chunk is one retrievable unit of a document. Start/End address the
// non-overlap region in document coordinates; Text additionally carries
// OverlapWithPrev characters copied from the end of the previous chunk.
// CitationSpans are rebased to Text-local offsets.
type Chunk struct {
	ID              string         `json:"id"`
	DocumentID      string         `json:"document_id"`
	SectionLabel    SectionLabel   `json:"section_label"`
	Text            string         `json:"text"`
	Start           int            `json:"start_offset"`
	End             int            `json:"end_offset"`
	CitationSpans   []CitationSpan `json:"citation_spans,omitempty"`
	OverlapWithPrev int            `json:"overlap_with_prev"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at,omitempty"`
}

// CompressionResult reports one compression pass. AchievedRatio is
// CompressedTokenCount / OriginalTokenCount. PreservedCitations reports
// whether every citation detected in OriginalText appears verbatim in
// CompressedText.
type CompressionResult struct {
	OriginalText         string  `json:"original_text"`
	CompressedText       string  `json:"compressed_text"`
	OriginalTokenCount   int     `json:"original_token_count"`
	CompressedTokenCount int     `json:"compressed_token_count"`
	AchievedRatio        float64 `json:"achieved_ratio"`
	PreservedCitations   bool    `json:"preserved_citations"`
}
