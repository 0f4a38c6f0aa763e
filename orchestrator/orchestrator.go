// Package orchestrator wires retrieval, compression, and answer synthesis
// into the query pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/caselaw-ai/legalrag/common/logger"
	"github.com/caselaw-ai/legalrag/compress"
	"github.com/caselaw-ai/legalrag/llm"
	"github.com/caselaw-ai/legalrag/retriever"
	"github.com/caselaw-ai/legalrag/schema"
	"github.com/caselaw-ai/legalrag/tokens"
)

// State names a stage of one query's lifecycle. Transitions are strictly
// forward; StateNoResults is terminal and skips the generative model.
type State string

const (
	StateReceived   State = "RECEIVED"
	StateRetrieved  State = "RETRIEVED"
	StateCompressed State = "COMPRESSED"
	StateAnswered   State = "ANSWERED"
	StateNoResults  State = "NO_RESULTS"
)

const contextSeparator = "\n\n---\n\n"

// NoResultsAnswer is returned verbatim when retrieval comes back empty.
const NoResultsAnswer = "No relevant documents were found in the corpus for this question."

// Orchestrator executes queries against the indexed corpus.
type Orchestrator struct {
	Retriever  retriever.Retriever
	LLM        llm.Provider
	Compressor compress.Compressor
	// Fallback handles the case where the primary compressor reports
	// itself unavailable mid-query. May equal Compressor.
	Fallback    compress.Compressor
	Counter     tokens.Counter
	TopK        int
	Threshold   float64
	TargetRatio float64
}

// QueryOptions tune a single query.
type QueryOptions struct {
	TopK   int
	Filter map[string]string
}

// Query runs the full pipeline for one question.
func (o *Orchestrator) Query(ctx context.Context, question string, opts *QueryOptions) (*schema.QueryResponse, error) {
	state := StateReceived
	logger.Debugf("query state=%s question=%q", state, question)

	results, err := o.retrieve(ctx, question, opts)
	if errors.Is(err, schema.ErrNoResults) {
		state = StateNoResults
		logger.Infof("query state=%s question=%q", state, question)
		return &schema.QueryResponse{
			Answer:     NoResultsAnswer,
			Sources:    []schema.Source{},
			TokenStats: schema.TokenStats{},
			Query:      question,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	state = StateRetrieved
	logger.Debugf("query state=%s hits=%d", state, len(results))

	rawContext := assembleContext(results)
	compressed, stats, err := o.compressContext(ctx, rawContext, question)
	if err != nil {
		return nil, err
	}
	state = StateCompressed
	logger.Debugf("query state=%s %s", state, stats)

	answer, err := o.LLM.GenerateCompletion(ctx, llm.BuildPrompt(question, compressed))
	if err != nil {
		return nil, fmt.Errorf("answer synthesis: %w", err)
	}
	state = StateAnswered
	logger.Infof("query state=%s hits=%d %s", state, len(results), stats)

	return &schema.QueryResponse{
		Answer:     answer,
		Sources:    toSources(results, ""),
		TokenStats: stats,
		Query:      question,
	}, nil
}

// AnalyzeCase answers a canned analysis question restricted to one case.
func (o *Orchestrator) AnalyzeCase(ctx context.Context, caseName string) (*schema.QueryResponse, error) {
	if strings.TrimSpace(caseName) == "" {
		return nil, fmt.Errorf("case name is required")
	}
	return o.Query(ctx, llm.AnalyzeCaseQuestion(caseName), &QueryOptions{
		Filter: map[string]string{"case_name": caseName},
	})
}

// FindPrecedents searches the corpus for precedents bearing on a legal issue.
func (o *Orchestrator) FindPrecedents(ctx context.Context, legalIssue string) (*schema.QueryResponse, error) {
	if strings.TrimSpace(legalIssue) == "" {
		return nil, fmt.Errorf("legal issue is required")
	}
	return o.Query(ctx, llm.FindPrecedentsQuestion(legalIssue), nil)
}

// CompareCases retrieves both cases separately, merges the contexts, and
// answers a comparative question over the union. Sources are tagged with
// the case each hit came from.
func (o *Orchestrator) CompareCases(ctx context.Context, case1, case2 string) (*schema.QueryResponse, error) {
	if strings.TrimSpace(case1) == "" || strings.TrimSpace(case2) == "" {
		return nil, fmt.Errorf("both case names are required")
	}
	question := llm.CompareCasesQuestion(case1, case2)

	var merged []schema.SearchResult
	var sources []schema.Source
	for _, name := range []string{case1, case2} {
		results, err := o.retrieve(ctx, question, &QueryOptions{
			Filter: map[string]string{"case_name": name},
		})
		if err != nil && !errors.Is(err, schema.ErrNoResults) {
			return nil, err
		}
		merged = append(merged, results...)
		sources = append(sources, toSources(results, name)...)
	}
	if len(merged) == 0 {
		logger.Infof("compare state=%s cases=%q/%q", StateNoResults, case1, case2)
		return &schema.QueryResponse{
			Answer:     NoResultsAnswer,
			Sources:    []schema.Source{},
			TokenStats: schema.TokenStats{},
			Query:      question,
		}, nil
	}

	rawContext := assembleContext(merged)
	compressed, stats, err := o.compressContext(ctx, rawContext, question)
	if err != nil {
		return nil, err
	}
	answer, err := o.LLM.GenerateCompletion(ctx, llm.BuildPrompt(question, compressed))
	if err != nil {
		return nil, fmt.Errorf("answer synthesis: %w", err)
	}
	return &schema.QueryResponse{
		Answer:     answer,
		Sources:    sources,
		TokenStats: stats,
		Query:      question,
	}, nil
}

func (o *Orchestrator) retrieve(ctx context.Context, query string, opts *QueryOptions) ([]schema.SearchResult, error) {
	sopts := &schema.SearchOptions{TopK: o.TopK, Threshold: o.Threshold}
	if opts != nil {
		if opts.TopK > 0 {
			sopts.TopK = opts.TopK
		}
		sopts.Filter = opts.Filter
	}
	results, err := o.Retriever.Search(ctx, query, sopts)
	if err != nil {
		return nil, fmt.Errorf("retrieval: %w", err)
	}
	if len(results) == 0 {
		return nil, schema.ErrNoResults
	}
	return results, nil
}

// compressContext runs the primary compressor and falls back to the
// extractive one on an availability failure. The fallback is attempted at
// most once; integrity errors always propagate.
func (o *Orchestrator) compressContext(ctx context.Context, rawContext, question string) (string, schema.TokenStats, error) {
	result, err := o.Compressor.Compress(ctx, rawContext, question, o.TargetRatio)
	if err != nil {
		var unavailable *schema.CompressionUnavailableError
		if errors.As(err, &unavailable) && o.Fallback != nil && o.Fallback != o.Compressor {
			logger.Warnf("primary compressor unavailable, using extractive fallback: %v", err)
			result, err = o.Fallback.Compress(ctx, rawContext, question, o.TargetRatio)
		}
		if err != nil {
			return "", schema.TokenStats{}, fmt.Errorf("compression: %w", err)
		}
	}
	stats := schema.NewTokenStats(result.OriginalTokenCount, result.CompressedTokenCount)
	return result.CompressedText, stats, nil
}

// assembleContext renders retrieval hits into the model context. Each hit
// gets a numbered header carrying its provenance.
func assembleContext(results []schema.SearchResult) string {
	parts := make([]string, 0, len(results))
	for i, r := range results {
		var info []string
		if v, ok := r.Metadata["case_name"].(string); ok && v != "" {
			info = append(info, "Case: "+v)
		}
		if v, ok := r.Metadata["court"].(string); ok && v != "" {
			info = append(info, "Court: "+v)
		}
		if v, ok := r.Metadata["section"].(string); ok && v != "" {
			info = append(info, "Section: "+v)
		}
		header := fmt.Sprintf("[Document %d]", i+1)
		if len(info) > 0 {
			header += " (" + strings.Join(info, "; ") + ")"
		}
		parts = append(parts, header+"\n"+r.Text)
	}
	return strings.Join(parts, contextSeparator)
}

func toSources(results []schema.SearchResult, caseTag string) []schema.Source {
	sources := make([]schema.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, schema.Source{
			ChunkID:  r.ChunkID,
			Metadata: r.Metadata,
			Score:    r.Score,
			Case:     caseTag,
		})
	}
	return sources
}
