// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-corpus/internal/corpus"
	"github.com/pdiddy/pubmed-corpus/pkg/types"
)

func TestSetupLogging(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		assert.NoError(t, setupLogging(level), level)
	}
	assert.Error(t, setupLogging("loud"))
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	formatTable(&buf, nil)
	assert.Equal(t, "No results found.\n", buf.String())

	buf.Reset()
	formatTable(&buf, []corpus.QueryResult{
		{ArticleRecord: types.ArticleRecord{ID: "pubmed_1", Title: "Short title", JournalTitle: "Nature", Date: "2021"}},
		{ArticleRecord: types.ArticleRecord{
			ID:            "pubmed_2",
			AbstractTexts: []types.AbstractSegment{{Text: "Abstract used when the title is empty"}},
			JournalTitle:  strings.Repeat("Journal ", 10),
			Date:          "2019",
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "pubmed_1")
	assert.Contains(t, out, "Short title")
	assert.Contains(t, out, "Abstract used when the title is empty")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "2 results")
}

func newConfigTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{Use: "test"}
	fs := cmd.Flags()
	fs.String("log-level", "info", "")
	fs.String("source", types.DefaultSource, "")
	fs.Int("workers", 4, "")
	fs.String("corpus-dir", "corpus", "")
	fs.Int("max-results", 20, "")
	configFlag(fs, "log-level", "log.level")
	configFlag(fs, "source", "extraction.source")
	configFlag(fs, "workers", "extraction.workers")
	configFlag(fs, "corpus-dir", "corpus.corpus_dir")
	configFlag(fs, "max-results", "corpus.max_results")
	return cmd
}

const testConfigYAML = `
log:
  level: debug
extraction:
  workers: 2
  format: store
corpus:
  corpus_dir: /data/pubmed
  max_results: 50
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newConfigTestCmd(t))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, types.DefaultSource, cfg.Extraction.Source)
	assert.Equal(t, 4, cfg.Extraction.Workers)
	assert.Equal(t, types.CorpusConfig{CorpusDir: "corpus", MaxResults: 20}, cfg.Corpus)
}

func TestLoadConfigPrecedence(t *testing.T) {
	cmd := newConfigTestCmd(t)
	viper.SetConfigType("yaml")
	require.NoError(t, viper.ReadConfig(strings.NewReader(testConfigYAML)))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Extraction.Workers)
	assert.Equal(t, types.OutputStore, cfg.Extraction.Format)
	assert.Equal(t, types.CorpusConfig{CorpusDir: "/data/pubmed", MaxResults: 50}, cfg.Corpus)

	viper.SetEnvPrefix("PUBMED_CORPUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	t.Setenv("PUBMED_CORPUS_EXTRACTION_WORKERS", "8")

	require.NoError(t, cmd.Flags().Set("corpus-dir", "elsewhere"))
	cfg, err = loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Extraction.Workers, "environment beats config file")
	assert.Equal(t, "elsewhere", cfg.Corpus.CorpusDir, "explicit flag beats config file")
	assert.Equal(t, 50, cfg.Corpus.MaxResults)
}
