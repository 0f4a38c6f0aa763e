package ingest

import (
	"strings"
	"testing"

	"github.com/caselaw-ai/legalrag/schema"
)

const sampleOpinion = `SMITH v. JONES INDUSTRIES
Supreme Court of Testland
Decided March 15, 1998

I. BACKGROUND

The plaintiff sued under 42 U.S.C. § 1983 after the incident.
The district court relied on Monroe v. Pape, 365 U.S. 167 (1961).

CONCLUSION

Reversed and remanded.
`

func TestExtractMetadata(t *testing.T) {
	meta := ExtractMetadata(schema.Document{ID: "d", RawText: sampleOpinion})

	if !strings.HasPrefix(meta.CaseName, "SMITH v. JONES") {
		t.Errorf("case name = %q", meta.CaseName)
	}
	if meta.Court != "Supreme Court of Testland" {
		t.Errorf("court = %q", meta.Court)
	}
	if meta.DecidedDate != "March 15, 1998" {
		t.Errorf("decided date = %q", meta.DecidedDate)
	}
	if len(meta.Citations) == 0 {
		t.Fatal("no citations extracted")
	}
	var raws []string
	for _, c := range meta.Citations {
		raws = append(raws, c.RawText)
	}
	joined := strings.Join(raws, " | ")
	if !strings.Contains(joined, "42 U.S.C. § 1983") {
		t.Errorf("statute missing: %s", joined)
	}
	if !strings.Contains(joined, "365 U.S. 167") {
		t.Errorf("reporter citation missing: %s", joined)
	}
}

func TestExtractMetadata_AbsentFields(t *testing.T) {
	meta := ExtractMetadata(schema.Document{ID: "d", RawText: "plain prose without any legal apparatus"})
	if meta.CaseName != "" || meta.Court != "" || meta.DecidedDate != "" {
		t.Errorf("expected zero metadata, got %+v", meta)
	}
	if len(meta.Citations) != 0 {
		t.Errorf("expected no citations, got %+v", meta.Citations)
	}
}

func TestExtractMetadata_CaptionWindow(t *testing.T) {
	// a caption past the first 500 characters must not be picked up
	pad := strings.Repeat("x", 600)
	meta := ExtractMetadata(schema.Document{ID: "d", RawText: pad + "\nLATE v. CAPTION\n"})
	if meta.CaseName != "" {
		t.Errorf("case name = %q, want empty", meta.CaseName)
	}
}
