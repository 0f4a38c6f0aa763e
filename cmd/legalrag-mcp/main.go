// Command legalrag-mcp serves the pipeline as an MCP server over stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	legalrag "github.com/caselaw-ai/legalrag"
	"github.com/caselaw-ai/legalrag/common/logger"
	"github.com/caselaw-ai/legalrag/config"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file found, using environment variables")
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg = config.Default()
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.LLM.APIKey = key
			cfg.Embedding.APIKey = key
		}
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log)

	client, err := legalrag.NewClient(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := server.ServeStdio(legalrag.NewMCPServer(client)); err != nil {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		os.Exit(1)
	}
}
