package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. [%s] %s\n", i+1, err.Field, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateChunker()...)
	errs = append(errs, c.validateCompression()...)
	errs = append(errs, c.validateRAG()...)
	errs = append(errs, c.validateVectorDB()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateChunker() ValidationErrors {
	var errs ValidationErrors
	if c.Chunker.MaxChars <= 0 {
		errs = append(errs, ValidationError{
			Field:   "chunker.max_chars",
			Message: "max_chars must be positive",
		})
	}
	if c.Chunker.OverlapChars < 0 {
		errs = append(errs, ValidationError{
			Field:   "chunker.overlap_chars",
			Message: "overlap_chars must not be negative",
		})
	}
	if c.Chunker.MaxChars > 0 && c.Chunker.OverlapChars >= c.Chunker.MaxChars {
		errs = append(errs, ValidationError{
			Field:   "chunker.overlap_chars",
			Message: "overlap_chars must be smaller than max_chars",
		})
	}
	return errs
}

func (c *Config) validateCompression() ValidationErrors {
	var errs ValidationErrors
	switch c.Compression.Method {
	case "", "delegated", "fallback":
	default:
		errs = append(errs, ValidationError{
			Field:   "compression.method",
			Message: fmt.Sprintf("unknown method %q (want delegated or fallback)", c.Compression.Method),
		})
	}
	if r := c.Compression.TargetRatio; r <= 0 || r > 1 {
		errs = append(errs, ValidationError{
			Field:   "compression.target_ratio",
			Message: "target_ratio must be in (0, 1]",
		})
	}
	if c.Compression.Tolerance < 0 {
		errs = append(errs, ValidationError{
			Field:   "compression.tolerance",
			Message: "tolerance must not be negative",
		})
	}
	if c.Compression.Method == "delegated" && c.Compression.Endpoint == "" {
		errs = append(errs, ValidationError{
			Field:   "compression.endpoint",
			Message: "delegated compression requires an endpoint",
		})
	}
	return errs
}

func (c *Config) validateRAG() ValidationErrors {
	var errs ValidationErrors
	if c.RAG.TopK <= 0 {
		errs = append(errs, ValidationError{
			Field:   "rag.top_k",
			Message: "top_k must be positive",
		})
	}
	if c.RAG.Threshold < 0 || c.RAG.Threshold > 1 {
		errs = append(errs, ValidationError{
			Field:   "rag.threshold",
			Message: "threshold must be in [0, 1]",
		})
	}
	return errs
}

func (c *Config) validateVectorDB() ValidationErrors {
	var errs ValidationErrors
	switch c.VectorDB.Provider {
	case "", "memory":
	case "milvus":
		if c.VectorDB.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "vectordb.host",
				Message: "milvus requires a host",
			})
		}
		if c.VectorDB.Collection == "" {
			errs = append(errs, ValidationError{
				Field:   "vectordb.collection",
				Message: "milvus requires a collection name",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "vectordb.provider",
			Message: fmt.Sprintf("unknown provider %q (want milvus or memory)", c.VectorDB.Provider),
		})
	}
	return errs
}
