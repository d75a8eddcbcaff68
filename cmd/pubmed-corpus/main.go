// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-corpus CLI. It extracts
// non-review article records from PubMed XML batches and manages a local
// searchable corpus of them.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-corpus/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pubmed-corpus CLI.
var rootCmd = &cobra.Command{
	Use:   "pubmed-corpus",
	Short: "Build a clean corpus of non-review biomedical abstracts",
	Long: `pubmed-corpus reads PubMed XML batch files, drops review articles,
cleans titles and abstracts into plain text, and writes one record per
accepted article. Records can be streamed as JSON Lines or stored in a
local SQLite corpus with full-text search.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return setupLogging(cfg.Log.Level)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubmed-corpus.yaml or ~/.config/pubmed-corpus/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	configFlag(rootCmd.PersistentFlags(), "log-level", "log.level")
}

// configKeyAnnotation marks a flag with the config key it overrides.
const configKeyAnnotation = "pubmed-corpus/config-key"

// configFlag ties flag name in fs to a config key. The binding happens in
// loadConfig for the command being run, so two commands may share a key.
func configFlag(fs *pflag.FlagSet, name, key string) {
	if err := fs.SetAnnotation(name, configKeyAnnotation, []string{key}); err != nil {
		panic(err)
	}
}

// loadConfig binds the annotated flags of cmd and decodes the merged
// settings. Precedence: explicit flag, environment, config file, flag default.
func loadConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if len(keys) == 0 || bindErr != nil {
			return
		}
		bindErr = viper.BindPFlag(keys[0], f)
	})
	if bindErr != nil {
		return types.PipelineConfig{}, fmt.Errorf("binding flags: %w", bindErr)
	}

	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubmed-corpus")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubmed-corpus"))
		}
	}

	viper.SetEnvPrefix("PUBMED_CORPUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging points the global logger at a console writer on stderr.
func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
