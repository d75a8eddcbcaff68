// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-corpus pipeline:
// extracted article records and the per-stage configuration.
package types

import "github.com/rs/zerolog"

// DefaultSource is the parser used when no source format is configured.
const DefaultSource = "pubmed"

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// Source selects the registered parser by format tag (default "pubmed").
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// Workers bounds how many batch files are parsed concurrently (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Format selects the record sink of the extract command.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// Logger receives per-file progress and per-entry data errors.
	// The zero value discards everything.
	Logger zerolog.Logger `json:"-" yaml:"-" mapstructure:"-"`
}

// OutputFormat selects how extracted records are written.
type OutputFormat string

const (
	OutputJSONL OutputFormat = "jsonl"
	OutputStore OutputFormat = "store"
)

// CorpusConfig holds settings for the corpus store stage.
type CorpusConfig struct {
	// CorpusDir is the base directory for the corpus (contains index/).
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir" mapstructure:"corpus_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// LogConfig holds logging settings shared by all subcommands.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Corpus     CorpusConfig     `json:"corpus" yaml:"corpus" mapstructure:"corpus"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
