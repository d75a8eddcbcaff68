// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-corpus/pkg/types"
)

const exportLimit = 10000000

// ExportYAML writes the corpus, or the subset matching opts, to
// corpus/index/export.yaml and returns the path written.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.corpusDir, indexDir, "export.yaml")
	data, err := yaml.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the corpus, or the subset matching opts, to
// corpus/index/export.json and returns the path written.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.corpusDir, indexDir, "export.json")
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRecords(ctx context.Context, opts QueryOptions) ([]types.ArticleRecord, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	records := make([]types.ArticleRecord, len(results))
	for i, r := range results {
		records[i] = r.ArticleRecord
	}
	return records, nil
}

// JSONLWriter writes records as JSON Lines, one record per line. It is safe
// for concurrent use.
type JSONLWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLWriter returns a writer that encodes records to w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{enc: enc}
}

// Write encodes records in order.
func (j *JSONLWriter) Write(ctx context.Context, records []types.ArticleRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding %s: %w", rec.ID, err)
		}
	}
	return nil
}
