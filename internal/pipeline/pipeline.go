// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a parser over many batch files and forwards the
// accepted records to a sink.
package pipeline

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/pubmed-corpus/internal/httputil"
	"github.com/pdiddy/pubmed-corpus/internal/parser"
	"github.com/pdiddy/pubmed-corpus/pkg/types"
)

const defaultWorkers = 4

// StdinPath names standard input in a path list.
const StdinPath = "-"

// Sink receives the records of one batch file at a time. Run serializes
// calls to Write.
type Sink interface {
	Write(ctx context.Context, records []types.ArticleRecord) error
}

// BatchSummary holds counts from a pipeline run.
type BatchSummary struct {
	Processed   int // files parsed successfully
	Failed      int // files that could not be read or parsed
	Records     int // records written to the sink
	EntryErrors int // entries skipped for missing required data
}

// Total returns the number of files attempted.
func (s BatchSummary) Total() int {
	return s.Processed + s.Failed
}

// HasFailures reports whether any file failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Run parses every path with p, up to cfg.Workers files at a time. A file
// that cannot be read or is malformed is counted as failed and skipped;
// entries with missing required data are logged and skipped. A sink error
// or context cancellation stops the run.
func Run(ctx context.Context, p parser.ArticleParser, paths []string, sink Sink, cfg types.ExtractionConfig) (BatchSummary, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	log := cfg.Logger

	var (
		mu      sync.Mutex
		summary BatchSummary
	)

	g, gctx := errgroup.WithContext(log.WithContext(ctx))
	g.SetLimit(workers)

	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := extractFile(gctx, p, path)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Error().Err(err).Str("file", path).Msg("failed")
				mu.Lock()
				summary.Failed++
				mu.Unlock()
				return nil
			}

			for _, entryErr := range result.entryErrors {
				log.Warn().Err(entryErr.Err).Str("file", path).Str("pmid", entryErr.PMID).Msg("skipped entry")
			}

			mu.Lock()
			defer mu.Unlock()
			if err := sink.Write(gctx, result.records); err != nil {
				return fmt.Errorf("writing records from %s: %w", path, err)
			}
			summary.Processed++
			summary.Records += len(result.records)
			summary.EntryErrors += len(result.entryErrors)

			log.Info().Str("file", path).Int("records", len(result.records)).
				Int("entry_errors", len(result.entryErrors)).Msg("extracted")
			return nil
		})
	}

	err := g.Wait()
	return summary, err
}

type fileResult struct {
	records     []types.ArticleRecord
	entryErrors []*parser.EntryError
}

// extractFile reads one batch and drains the parser's sequence.
func extractFile(ctx context.Context, p parser.ArticleParser, path string) (fileResult, error) {
	data, err := readInput(ctx, path)
	if err != nil {
		return fileResult{}, err
	}

	var result fileResult
	for rec, err := range p.Parse(data) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fileResult{}, ctxErr
		}
		if err != nil {
			var entryErr *parser.EntryError
			if errors.As(err, &entryErr) {
				result.entryErrors = append(result.entryErrors, entryErr)
				continue
			}
			return fileResult{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		result.records = append(result.records, rec)
	}
	return result, nil
}

// readInput returns the contents of path, gunzipping ".gz" files. Paths
// that are http(s) URLs are downloaded.
func readInput(ctx context.Context, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case path == StdinPath:
		data, err = io.ReadAll(os.Stdin)
	case httputil.IsRemote(path):
		data, err = httputil.Fetch(ctx, nil, path)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if !strings.HasSuffix(path, ".gz") {
		return data, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening gzip %s: %w", path, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	return out, nil
}
