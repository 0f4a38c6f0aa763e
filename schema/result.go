package schema

import "fmt"

// SearchOptions configures a vector search.
type SearchOptions struct {
	TopK      int     `json:"top_k"`
	Threshold float64 `json:"threshold,omitempty"`
	// Filter restricts matches by metadata equality, e.g. {"case_name": "Brown v. Board"}.
	Filter map[string]string `json:"filter,omitempty"`
}

// SearchResult is one ranked hit from the vector index.
type SearchResult struct {
	ChunkID  string         `json:"chunk_id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Score    float64        `json:"score"`
}

// Source attributes part of an answer to an indexed chunk. Case tags the
// originating case for multi-case queries.
type Source struct {
	ChunkID  string         `json:"chunk_id"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Score    float64        `json:"score"`
	Case     string         `json:"case,omitempty"`
}

// TokenStats accounts for context size before and after compression.
type TokenStats struct {
	Original       int     `json:"original"`
	Compressed     int     `json:"compressed"`
	SavingsPercent float64 `json:"savings_percent"`
}

// NewTokenStats computes savings, clamped to [0, 100].
func NewTokenStats(original, compressed int) TokenStats {
	stats := TokenStats{Original: original, Compressed: compressed}
	if original > 0 {
		stats.SavingsPercent = float64(original-compressed) / float64(original) * 100
	}
	if stats.SavingsPercent < 0 {
		stats.SavingsPercent = 0
	}
	if stats.SavingsPercent > 100 {
		stats.SavingsPercent = 100
	}
	return stats
}

// QueryResponse is the terminal output of one query. It is transient:
// owned by the call that produced it, never cached or mutated afterwards.
type QueryResponse struct {
	Answer     string     `json:"answer"`
	Sources    []Source   `json:"sources"`
	TokenStats TokenStats `json:"token_stats"`
	Query      string     `json:"query"`
}

// String summarizes the response token accounting for logs.
func (s TokenStats) String() string {
	return fmt.Sprintf("%d -> %d tokens (%.1f%% savings)", s.Original, s.Compressed, s.SavingsPercent)
}
