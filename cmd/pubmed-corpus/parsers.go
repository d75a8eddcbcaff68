// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-corpus/internal/parser"
)

var parsersCmd = &cobra.Command{
	Use:   "parsers",
	Short: "List the registered source formats",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range parser.DefaultRegistry(log.Logger).Names() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(parsersCmd)
}
