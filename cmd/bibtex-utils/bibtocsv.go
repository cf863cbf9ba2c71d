// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bibtex-utils/internal/convert"
	"github.com/pdiddy/bibtex-utils/pkg/types"
)

var bibToCSVCmd = &cobra.Command{
	Use:   "bib-to-csv BIB_FILE [TEX_DIR]",
	Short: "Convert a BibTeX file to CSV, optionally marking cited entries",
	Long: `bib-to-csv loads BIB_FILE and writes it as a table to stdout, one row per
entry. When TEX_DIR is given every .tex file below it is scanned for \cite{}
keys; the table gains a "cited" column and keys missing from the bibliography
appear as extra rows.

With --verify-urls one GET request is sent per entry with a url field and the
response status and body are added as url_response_status and
url_response_content. Failed requests leave both empty.

Nothing is written to stdout unless the whole conversion succeeds.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBibToCSV,
}

func init() {
	bibToCSVCmd.Flags().String("tex-dir", "", "directory of .tex files to scan for citations (alternative to TEX_DIR)")
	bibToCSVCmd.Flags().Bool("verify-urls", false, "send a GET request to every url and record the response")
	bibToCSVCmd.Flags().StringSlice("drop-cols", nil, "columns to drop (comma-separated or repeated)")
	bibToCSVCmd.Flags().String("format", string(types.FormatCSV), "output format: csv, json, or yaml")
	bibToCSVCmd.Flags().String("sqlite", "", "also write the table into this SQLite database")
	bibToCSVCmd.Flags().Duration("timeout", 0, "per-request timeout for URL verification (default 30s)")
	bibToCSVCmd.Flags().String("user-agent", "", "User-Agent header for URL verification")
	bibToCSVCmd.Flags().Int("max-retries", 0, "retries on HTTP 429 during URL verification")
	bibToCSVCmd.Flags().String("extension", ".tex", "file extension of documents to scan")
	bibToCSVCmd.Flags().Bool("skip-unreadable", false, "skip unreadable documents instead of failing")

	rootCmd.AddCommand(bibToCSVCmd)
}

func runBibToCSV(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd.Flags(), map[string]string{
		"verify.timeout":          "timeout",
		"verify.user_agent":       "user-agent",
		"verify.max_retries":      "max-retries",
		"collect.extension":       "extension",
		"collect.skip_unreadable": "skip-unreadable",
		"output.format":           "format",
		"output.sqlite_path":      "sqlite",
	})
	if err != nil {
		return err
	}

	cfg := convertConfig(cmd, args)
	out, err := convert.New(convert.WithLogger(logger)).Render(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// convertConfig assembles the conversion settings from arguments, flags,
// the config file, and the environment.
func convertConfig(cmd *cobra.Command, args []string) types.ConvertConfig {
	texDir, _ := cmd.Flags().GetString("tex-dir")
	if len(args) > 1 {
		texDir = args[1]
	}
	verifyURLs, _ := cmd.Flags().GetBool("verify-urls")
	dropCols, _ := cmd.Flags().GetStringSlice("drop-cols")

	return types.ConvertConfig{
		BibFile:    args[0],
		TexDir:     texDir,
		VerifyURLs: verifyURLs,
		DropCols:   dropCols,
		Verify: types.VerifyConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("verify.timeout"),
				UserAgent: viper.GetString("verify.user_agent"),
			},
			MaxRetries: viper.GetInt("verify.max_retries"),
		},
		Collect: types.CollectConfig{
			Extension:      viper.GetString("collect.extension"),
			SkipUnreadable: viper.GetBool("collect.skip_unreadable"),
		},
		Output: types.OutputConfig{
			Format:     types.OutputFormat(viper.GetString("output.format")),
			SQLitePath: viper.GetString("output.sqlite_path"),
		},
	}
}
