// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bibtex-utils/internal/cite"
	"github.com/pdiddy/bibtex-utils/pkg/types"
)

var citesCmd = &cobra.Command{
	Use:   "get-all-cites-in-dir DIR",
	Short: "List every citation key used in the .tex files below DIR",
	Long: `get-all-cites-in-dir scans every .tex file below DIR (recursively) for
\cite{} macros, ignoring commented-out text, and prints the union of the keys
in sorted order, one per line.`,
	Args: cobra.ExactArgs(1),
	RunE: runCites,
}

func init() {
	citesCmd.Flags().Bool("json", false, "output keys as a JSON array")
	citesCmd.Flags().String("extension", ".tex", "file extension of documents to scan")
	citesCmd.Flags().Bool("skip-unreadable", false, "skip unreadable documents instead of failing")

	rootCmd.AddCommand(citesCmd)
}

func runCites(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd.Flags(), map[string]string{
		"collect.extension":       "extension",
		"collect.skip_unreadable": "skip-unreadable",
	})
	if err != nil {
		return err
	}

	cfg := types.CollectConfig{
		Extension:      viper.GetString("collect.extension"),
		SkipUnreadable: viper.GetBool("collect.skip_unreadable"),
	}
	keys, err := cite.CollectDir(args[0], cfg, logger)
	if err != nil {
		return err
	}

	sorted := keys.Sorted()
	w := cmd.OutOrStdout()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sorted)
	}

	for _, k := range sorted {
		fmt.Fprintln(w, k)
	}
	return nil
}
