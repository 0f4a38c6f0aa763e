// Command legalrag runs the pipeline from the terminal: ingest documents,
// then ask questions against the indexed corpus.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	legalrag "github.com/caselaw-ai/legalrag"
	"github.com/caselaw-ai/legalrag/common/logger"
	"github.com/caselaw-ai/legalrag/config"
	"github.com/caselaw-ai/legalrag/schema"
)

const usage = `usage: legalrag [-config path] <command> [args]

commands:
  ingest <file...>            index plain-text legal documents
  query <question>            answer a question over the corpus
  analyze <case name>         structured analysis of one case
  compare <case1> <case2>     compare two cases
  precedents <legal issue>    survey precedents for an issue
  search <query>              raw semantic search, no synthesis
  list [document id]          list indexed chunks
  delete <chunk id>           remove a chunk from the index
`

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file found, using environment variables")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	logger.Init(cfg.Log)

	ctx := context.Background()
	client, err := legalrag.NewClient(ctx, cfg)
	if err != nil {
		fatalf("init: %v", err)
	}
	defer client.Close()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := run(ctx, client, cmd, args); err != nil {
		fatalf("%s: %v", cmd, err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.LLM.APIKey = key
			cfg.Embedding.APIKey = key
		}
		return cfg, cfg.Validate()
	}
	return config.Load(path)
}

func run(ctx context.Context, client *legalrag.Client, cmd string, args []string) error {
	switch cmd {
	case "ingest":
		if len(args) == 0 {
			return fmt.Errorf("at least one file is required")
		}
		return ingestFiles(ctx, client, args)
	case "query":
		return respond(client.Query(ctx, strings.Join(args, " ")))
	case "analyze":
		return respond(client.AnalyzeCase(ctx, strings.Join(args, " ")))
	case "compare":
		if len(args) != 2 {
			return fmt.Errorf("exactly two case names are required")
		}
		return respond(client.CompareCases(ctx, args[0], args[1]))
	case "precedents":
		return respond(client.FindPrecedents(ctx, strings.Join(args, " ")))
	case "search":
		results, err := client.SearchChunks(ctx, strings.Join(args, " "), 0, 0)
		if err != nil {
			return err
		}
		printResults(results)
		return nil
	case "list":
		documentID := ""
		if len(args) > 0 {
			documentID = args[0]
		}
		results, err := client.ListChunks(ctx, documentID)
		if err != nil {
			return err
		}
		printResults(results)
		return nil
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("exactly one chunk id is required")
		}
		return client.DeleteChunk(ctx, args[0])
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func ingestFiles(ctx context.Context, client *legalrag.Client, paths []string) error {
	docs := make([]schema.Document, 0, len(paths))
	for _, p := range paths {
		bs, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		id := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		docs = append(docs, schema.Document{
			ID:           id,
			RawText:      string(bs),
			SourceFormat: strings.TrimPrefix(filepath.Ext(p), "."),
		})
	}
	reports, err := client.IngestDocuments(ctx, docs)
	for _, rep := range reports {
		fmt.Printf("ingested %s: %d chunks", rep.DocumentID, rep.ChunkCount)
		if rep.Metadata.CaseName != "" {
			fmt.Printf(" (%s)", rep.Metadata.CaseName)
		}
		fmt.Println()
	}
	return err
}

func respond(resp *schema.QueryResponse, err error) error {
	if err != nil {
		return err
	}
	fmt.Println(resp.Answer)
	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, s := range resp.Sources {
			line := "  " + s.ChunkID
			if name, ok := s.Metadata["case_name"].(string); ok && name != "" {
				line += " - " + name
			}
			fmt.Printf("%s (score %.3f)\n", line, s.Score)
		}
	}
	fmt.Printf("\nTokens: %s\n", resp.TokenStats)
	return nil
}

func printResults(results []schema.SearchResult) {
	for _, r := range results {
		text := r.Text
		if len(text) > 120 {
			text = text[:120] + "..."
		}
		fmt.Printf("%s\t%.3f\t%s\n", r.ChunkID, r.Score, strings.ReplaceAll(text, "\n", " "))
	}
	fmt.Printf("%d chunks\n", len(results))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
