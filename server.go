package legalrag

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/caselaw-ai/legalrag/schema"
)

const Version = "1.0.0"

// NewMCPServer exposes the pipeline as MCP tools over a Client.
func NewMCPServer(c *Client) *server.MCPServer {
	s := server.NewMCPServer(
		"legalrag",
		Version,
		server.WithInstructions("Legal document RAG server: ingest court opinions, then query, analyze, and compare cases with citation-safe context compression"),
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("legal_query",
			mcp.WithDescription("Answer a legal question from the indexed corpus, citing sources"),
			mcp.WithString("question", mcp.Required(), mcp.Description("The legal question to answer")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			question, err := req.RequireString("question")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			resp, err := c.Query(ctx, question)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return responseResult(resp)
		},
	)

	s.AddTool(
		mcp.NewTool("analyze_case",
			mcp.WithDescription("Produce a structured analysis of one case: facts, issues, holding, significance"),
			mcp.WithString("case_name", mcp.Required(), mcp.Description("Case caption, e.g. \"Smith v. Jones\"")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			caseName, err := req.RequireString("case_name")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			resp, err := c.AnalyzeCase(ctx, caseName)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return responseResult(resp)
		},
	)

	s.AddTool(
		mcp.NewTool("compare_cases",
			mcp.WithDescription("Compare and contrast two cases in the corpus"),
			mcp.WithString("case1", mcp.Required(), mcp.Description("First case caption")),
			mcp.WithString("case2", mcp.Required(), mcp.Description("Second case caption")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			case1, err := req.RequireString("case1")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			case2, err := req.RequireString("case2")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			resp, err := c.CompareCases(ctx, case1, case2)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return responseResult(resp)
		},
	)

	s.AddTool(
		mcp.NewTool("find_precedents",
			mcp.WithDescription("Find and analyze case law precedents for a legal issue"),
			mcp.WithString("legal_issue", mcp.Required(), mcp.Description("Description of the legal issue")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			issue, err := req.RequireString("legal_issue")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			resp, err := c.FindPrecedents(ctx, issue)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return responseResult(resp)
		},
	)

	s.AddTool(
		mcp.NewTool("ingest_document",
			mcp.WithDescription("Chunk, embed, and index a legal document given as plain text"),
			mcp.WithString("text", mcp.Required(), mcp.Description("Full document text")),
			mcp.WithString("document_id", mcp.Description("Stable document identifier; generated when absent")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			text, err := req.RequireString("text")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			doc := schema.Document{
				ID:           req.GetString("document_id", ""),
				RawText:      text,
				SourceFormat: "txt",
			}
			report, err := c.IngestDocument(ctx, doc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return jsonResult(report)
		},
	)

	s.AddTool(
		mcp.NewTool("search_chunks",
			mcp.WithDescription("Semantic search over indexed chunks without answer synthesis"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
			mcp.WithNumber("top_k", mcp.Description("Maximum hits to return")),
			mcp.WithNumber("threshold", mcp.Description("Minimum similarity score")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			query, err := req.RequireString("query")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			results, err := c.SearchChunks(ctx, query, req.GetInt("top_k", 0), req.GetFloat("threshold", 0))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return jsonResult(results)
		},
	)

	s.AddTool(
		mcp.NewTool("list_chunks",
			mcp.WithDescription("List indexed chunks, optionally restricted to one document"),
			mcp.WithString("document_id", mcp.Description("Restrict to this document")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			results, err := c.ListChunks(ctx, req.GetString("document_id", ""))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return jsonResult(results)
		},
	)

	s.AddTool(
		mcp.NewTool("delete_chunk",
			mcp.WithDescription("Remove one chunk from the index by id"),
			mcp.WithString("chunk_id", mcp.Required(), mcp.Description("Chunk identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireString("chunk_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := c.DeleteChunk(ctx, id); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("deleted chunk %s", id)), nil
		},
	)

	return s
}

func responseResult(resp *schema.QueryResponse) (*mcp.CallToolResult, error) {
	return jsonResult(resp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(bs)), nil
}
