// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-corpus/internal/corpus"
	"github.com/pdiddy/pubmed-corpus/internal/parser"
	"github.com/pdiddy/pubmed-corpus/internal/pipeline"
	"github.com/pdiddy/pubmed-corpus/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the local article corpus (store, retrieve, export)",
	Long: `Corpus manages a local SQLite database of extracted article records with
an FTS5 index over titles and abstracts. Use subcommands to ingest batch
files, query the corpus, or export it.`,
}

// --- store subcommand ---

var corpusStoreCmd = &cobra.Command{
	Use:   "store [files...]",
	Short: "Extract batch files straight into the corpus",
	Long: `Store runs the same extraction as "extract --format store": every
accepted record is upserted into corpus/index/corpus.db. Re-ingesting a
batch replaces the stored rows of its articles.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCorpusStore,
}

func runCorpusStore(cmd *cobra.Command, args []string) error {
	pcfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := corpus.NewStore(pcfg.Corpus)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := parser.DefaultRegistry(log.Logger).Lookup(pcfg.Extraction.Source)
	if err != nil {
		return err
	}

	cfg := pcfg.Extraction
	cfg.Logger = log.Logger
	summary, err := pipeline.Run(cmd.Context(), p, args, store, cfg)
	if err != nil {
		return err
	}

	total, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "stored: %d, entry errors: %d, failed files: %d, corpus size: %d\n",
		summary.Records, summary.EntryErrors, summary.Failed, total)

	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed extraction", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var corpusRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the corpus with full-text search and filters",
	Long: `Retrieve searches titles and abstracts using FTS5 full-text search,
optionally filtered by journal title or publication year.`,
	RunE: runCorpusRetrieve,
}

func runCorpusRetrieve(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --journal, or --year")
	}

	pcfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := corpus.NewStore(pcfg.Corpus)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	formatTable(os.Stdout, results)
	return nil
}

// formatTable writes results as a fixed-width table. Widths are measured
// in terminal cells so CJK and combining characters stay aligned.
func formatTable(w io.Writer, results []corpus.QueryResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	const (
		titleWidth   = 60
		journalWidth = 30
	)
	fmt.Fprintf(w, "%-4s  %-16s  %s  %s  %s\n", "Rank", "ID",
		runewidth.FillRight("Title", titleWidth), runewidth.FillRight("Journal", journalWidth), "Year")
	fmt.Fprintln(w, strings.Repeat("-", 4+2+16+2+titleWidth+2+journalWidth+2+4))

	for i, r := range results {
		title := r.Title
		if title == "" && len(r.AbstractTexts) > 0 {
			title = r.AbstractTexts[0].Text
		}
		title = runewidth.FillRight(runewidth.Truncate(title, titleWidth, "..."), titleWidth)
		journal := runewidth.FillRight(runewidth.Truncate(r.JournalTitle, journalWidth, "..."), journalWidth)
		fmt.Fprintf(w, "%-4d  %-16s  %s  %s  %s\n", i+1, r.ID, title, journal, r.Date)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// --- export subcommand ---

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the corpus to YAML or JSON",
	Long: `Export writes the full corpus (or a filtered subset) to
corpus/index/export.yaml or export.json. Supports the same filter flags
as retrieve for partial exports.`,
	RunE: runCorpusExport,
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	pcfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := corpus.NewStore(pcfg.Corpus)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) corpus.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	journal, _ := cmd.Flags().GetString("journal")
	year, _ := cmd.Flags().GetString("year")
	limit, _ := cmd.Flags().GetInt("limit")

	return corpus.QueryOptions{
		Query:      queryText,
		Journal:    journal,
		Year:       year,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	corpusCmd.PersistentFlags().String("corpus-dir", "corpus", "base directory for the corpus (contains index/)")
	corpusCmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")
	configFlag(corpusCmd.PersistentFlags(), "corpus-dir", "corpus.corpus_dir")
	configFlag(corpusCmd.PersistentFlags(), "max-results", "corpus.max_results")

	// Store flags.
	corpusStoreCmd.Flags().String("source", types.DefaultSource, "source format of the batch files")
	corpusStoreCmd.Flags().Int("workers", 4, "number of files parsed concurrently")
	configFlag(corpusStoreCmd.Flags(), "source", "extraction.source")
	configFlag(corpusStoreCmd.Flags(), "workers", "extraction.workers")

	// Retrieve flags.
	corpusRetrieveCmd.Flags().String("query", "", "full-text search query")
	corpusRetrieveCmd.Flags().String("journal", "", "filter by journal title")
	corpusRetrieveCmd.Flags().String("year", "", "filter by publication year")
	corpusRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	corpusRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	corpusExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	corpusExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	corpusExportCmd.Flags().String("journal", "", "journal filter for partial export")
	corpusExportCmd.Flags().String("year", "", "year filter for partial export")
	corpusExportCmd.Flags().Int("limit", 0, "maximum records to export (0 = all)")

	corpusCmd.AddCommand(corpusStoreCmd)
	corpusCmd.AddCommand(corpusRetrieveCmd)
	corpusCmd.AddCommand(corpusExportCmd)

	rootCmd.AddCommand(corpusCmd)
}
