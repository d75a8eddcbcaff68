// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-corpus/internal/corpus"
	"github.com/pdiddy/pubmed-corpus/internal/parser"
	"github.com/pdiddy/pubmed-corpus/internal/pipeline"
	"github.com/pdiddy/pubmed-corpus/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract non-review article records from XML batch files",
	Long: `Extract parses each batch file (plain or .gz), drops review articles
and entries without a title or abstract, cleans the remaining text, and
writes one record per article.

With --format jsonl (default) records go to --output as JSON Lines; "-"
means stdout. With --format store they are upserted into the corpus
database under --corpus-dir. Without file arguments the batch is read
from stdin.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	pcfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg := pcfg.Extraction
	cfg.Logger = log.Logger
	if len(args) == 0 {
		args = []string{pipeline.StdinPath}
	}

	p, err := parser.DefaultRegistry(log.Logger).Lookup(cfg.Source)
	if err != nil {
		return err
	}

	sink, closeSink, err := openSink(cmd, cfg.Format, pcfg.Corpus)
	if err != nil {
		return err
	}
	defer closeSink()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	summary, err := pipeline.Run(ctx, p, args, sink, cfg)
	log.Info().
		Int("files", summary.Total()).
		Int("failed", summary.Failed).
		Int("records", summary.Records).
		Int("entry_errors", summary.EntryErrors).
		Msg("extraction finished")
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed extraction", summary.Failed)
	}
	return nil
}

// openSink returns the configured record sink and a function releasing it.
func openSink(cmd *cobra.Command, format types.OutputFormat, corpusCfg types.CorpusConfig) (pipeline.Sink, func(), error) {
	switch format {
	case types.OutputJSONL, "":
		output, _ := cmd.Flags().GetString("output")
		if output == "" || output == "-" {
			return corpus.NewJSONLWriter(os.Stdout), func() {}, nil
		}
		f, err := os.Create(output)
		if err != nil {
			return nil, nil, fmt.Errorf("creating output %s: %w", output, err)
		}
		return corpus.NewJSONLWriter(f), func() { closeQuietly(f) }, nil

	case types.OutputStore:
		store, err := corpus.NewStore(corpusCfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { closeQuietly(store) }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported format %q: use jsonl or store", format)
	}
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("close failed")
	}
}

func init() {
	extractCmd.Flags().String("source", types.DefaultSource, "source format of the batch files (see `parsers`)")
	extractCmd.Flags().Int("workers", 4, "number of files parsed concurrently")
	extractCmd.Flags().String("format", string(types.OutputJSONL), "output format: jsonl or store")
	extractCmd.Flags().StringP("output", "o", "-", "JSON Lines output file (- for stdout)")
	extractCmd.Flags().String("corpus-dir", "corpus", "base directory for the corpus (contains index/)")

	configFlag(extractCmd.Flags(), "source", "extraction.source")
	configFlag(extractCmd.Flags(), "workers", "extraction.workers")
	configFlag(extractCmd.Flags(), "format", "extraction.format")
	configFlag(extractCmd.Flags(), "corpus-dir", "corpus.corpus_dir")

	rootCmd.AddCommand(extractCmd)
}
