package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/caselaw-ai/legalrag/common/logger"
	"github.com/caselaw-ai/legalrag/config"
	"github.com/caselaw-ai/legalrag/schema"
)

const (
	fieldID         = "id"
	fieldDocumentID = "document_id"
	fieldContent    = "content"
	fieldMetadata   = "metadata"
	fieldVector     = "vector"

	maxIDLength      = 256
	maxContentLength = 65535
)

// milvusStore implements VectorStoreProvider on a Milvus collection with
// an HNSW cosine index.
type milvusStore struct {
	client     client.Client
	collection string
	dim        int
}

func newMilvusStore(ctx context.Context, cfg config.VectorDBConfig, dim int) (*milvusStore, error) {
	port := cfg.Port
	if port == 0 {
		port = 19530
	}
	c, err := client.NewClient(ctx, client.Config{
		Address:  fmt.Sprintf("%s:%d", cfg.Host, port),
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("milvus connect: %w", err)
	}
	s := &milvusStore{client: c, collection: cfg.Collection, dim: dim}
	if err := s.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return s, nil
}

func (s *milvusStore) GetProviderType() string { return "milvus" }

func (s *milvusStore) ensureCollection(ctx context.Context) error {
	has, err := s.client.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("milvus has collection: %w", err)
	}
	if !has {
		sch := entity.NewSchema().WithName(s.collection).
			WithField(entity.NewField().WithName(fieldID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxIDLength).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(fieldDocumentID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxIDLength)).
			WithField(entity.NewField().WithName(fieldContent).WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxContentLength)).
			WithField(entity.NewField().WithName(fieldMetadata).WithDataType(entity.FieldTypeJSON)).
			WithField(entity.NewField().WithName(fieldVector).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.dim)))
		if err := s.client.CreateCollection(ctx, sch, 1); err != nil {
			return fmt.Errorf("milvus create collection: %w", err)
		}
		idx, err := entity.NewIndexHNSW(entity.COSINE, 8, 64)
		if err != nil {
			return fmt.Errorf("milvus index params: %w", err)
		}
		if err := s.client.CreateIndex(ctx, s.collection, fieldVector, idx, false); err != nil {
			return fmt.Errorf("milvus create index: %w", err)
		}
		logger.Infof("created milvus collection %s (dim=%d)", s.collection, s.dim)
	}
	if err := s.client.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("milvus load collection: %w", err)
	}
	return nil
}

func (s *milvusStore) AddDocs(ctx context.Context, docs []Doc) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(docs))
	docIDs := make([]string, 0, len(docs))
	contents := make([]string, 0, len(docs))
	metas := make([][]byte, 0, len(docs))
	vectors := make([][]float32, 0, len(docs))
	for _, d := range docs {
		meta, err := json.Marshal(d.Metadata)
		if err != nil {
			return fmt.Errorf("milvus encode metadata for %s: %w", d.ID, err)
		}
		ids = append(ids, d.ID)
		docIDs = append(docIDs, d.DocumentID)
		contents = append(contents, d.Content)
		metas = append(metas, meta)
		vectors = append(vectors, d.Vector)
	}
	_, err := s.client.Upsert(ctx, s.collection, "",
		entity.NewColumnVarChar(fieldID, ids),
		entity.NewColumnVarChar(fieldDocumentID, docIDs),
		entity.NewColumnVarChar(fieldContent, contents),
		entity.NewColumnJSONBytes(fieldMetadata, metas),
		entity.NewColumnFloatVector(fieldVector, s.dim, vectors),
	)
	if err != nil {
		return fmt.Errorf("milvus upsert: %w", err)
	}
	return nil
}

func (s *milvusStore) SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	topK := 10
	threshold := 0.0
	expr := ""
	if opts != nil {
		if opts.TopK > 0 {
			topK = opts.TopK
		}
		threshold = opts.Threshold
		expr = filterExpr(opts.Filter)
	}
	sp, err := entity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, fmt.Errorf("milvus search params: %w", err)
	}
	res, err := s.client.Search(ctx, s.collection, nil, expr,
		[]string{fieldID, fieldContent, fieldMetadata},
		[]entity.Vector{entity.FloatVector(vector)},
		fieldVector, entity.COSINE, topK, sp)
	if err != nil {
		return nil, fmt.Errorf("milvus search: %w", err)
	}

	results := make([]schema.SearchResult, 0, topK)
	for _, rs := range res {
		idCol := varcharColumn(rs.Fields, fieldID)
		contentCol := varcharColumn(rs.Fields, fieldContent)
		metaCol := jsonColumn(rs.Fields, fieldMetadata)
		for i := 0; i < rs.ResultCount; i++ {
			score := float64(rs.Scores[i])
			if score < threshold {
				continue
			}
			r := schema.SearchResult{Score: score}
			if idCol != nil {
				r.ChunkID, _ = idCol.ValueByIdx(i)
			}
			if contentCol != nil {
				r.Text, _ = contentCol.ValueByIdx(i)
			}
			if metaCol != nil {
				if raw, err := metaCol.ValueByIdx(i); err == nil {
					var meta map[string]any
					if json.Unmarshal(raw, &meta) == nil {
						r.Metadata = meta
					}
				}
			}
			results = append(results, r)
		}
	}
	return results, nil
}

func (s *milvusStore) DeleteDocs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = fmt.Sprintf("%q", id)
	}
	expr := fmt.Sprintf("%s in [%s]", fieldID, strings.Join(quoted, ", "))
	if err := s.client.Delete(ctx, s.collection, "", expr); err != nil {
		return fmt.Errorf("milvus delete: %w", err)
	}
	return nil
}

func (s *milvusStore) ListDocs(ctx context.Context, documentID string, limit int) ([]schema.SearchResult, error) {
	expr := fmt.Sprintf("%s != \"\"", fieldID)
	if documentID != "" {
		expr = fmt.Sprintf("%s == %q", fieldDocumentID, documentID)
	}
	qopts := []client.SearchQueryOptionFunc{}
	if limit > 0 {
		qopts = append(qopts, client.WithLimit(int64(limit)))
	}
	cols, err := s.client.Query(ctx, s.collection, nil, expr,
		[]string{fieldID, fieldContent, fieldMetadata}, qopts...)
	if err != nil {
		return nil, fmt.Errorf("milvus query: %w", err)
	}

	idCol := varcharColumn(cols, fieldID)
	contentCol := varcharColumn(cols, fieldContent)
	metaCol := jsonColumn(cols, fieldMetadata)
	if idCol == nil {
		return []schema.SearchResult{}, nil
	}
	results := make([]schema.SearchResult, 0, idCol.Len())
	for i := 0; i < idCol.Len(); i++ {
		r := schema.SearchResult{}
		r.ChunkID, _ = idCol.ValueByIdx(i)
		if contentCol != nil {
			r.Text, _ = contentCol.ValueByIdx(i)
		}
		if metaCol != nil {
			if raw, err := metaCol.ValueByIdx(i); err == nil {
				var meta map[string]any
				if json.Unmarshal(raw, &meta) == nil {
					r.Metadata = meta
				}
			}
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *milvusStore) Close() error {
	return s.client.Close()
}

// filterExpr translates a metadata filter into a Milvus boolean expression
// over the JSON metadata field.
func filterExpr(filter map[string]string) string {
	if len(filter) == 0 {
		return ""
	}
	parts := make([]string, 0, len(filter))
	for k, v := range filter {
		parts = append(parts, fmt.Sprintf("%s[%q] == %q", fieldMetadata, k, v))
	}
	return strings.Join(parts, " and ")
}

func varcharColumn(cols []entity.Column, name string) *entity.ColumnVarChar {
	for _, c := range cols {
		if c.Name() == name {
			if vc, ok := c.(*entity.ColumnVarChar); ok {
				return vc
			}
		}
	}
	return nil
}

func jsonColumn(cols []entity.Column, name string) *entity.ColumnJSONBytes {
	for _, c := range cols {
		if c.Name() == name {
			if jc, ok := c.(*entity.ColumnJSONBytes); ok {
				return jc
			}
		}
	}
	return nil
}
