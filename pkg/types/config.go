// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds each individual request. Zero selects the stage default.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bibtex-utils/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// VerifyConfig holds settings for URL verification.
type VerifyConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries is the number of extra attempts on HTTP 429. Zero disables retrying.
	MaxRetries int `json:"max_retries" yaml:"max_retries" validate:"gte=0"`
}

// CollectConfig holds settings for citation collection from a document tree.
type CollectConfig struct {
	// Extension selects the document files to scan (default ".tex").
	// Matching is case-sensitive.
	Extension string `json:"extension" yaml:"extension"`

	// SkipUnreadable logs and skips files that cannot be read instead of
	// aborting the collection.
	SkipUnreadable bool `json:"skip_unreadable" yaml:"skip_unreadable"`
}

// OutputFormat selects the table serialization.
type OutputFormat string

const (
	FormatCSV  OutputFormat = "csv"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// OutputConfig holds settings for rendering the final table.
type OutputConfig struct {
	// Format selects the serialization written to stdout: csv, json, or yaml.
	Format OutputFormat `json:"format" yaml:"format" validate:"omitempty,oneof=csv json yaml"`

	// SQLitePath, when set, additionally writes the table into a SQLite database.
	SQLitePath string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
}

// ConvertConfig groups everything one bibliography conversion needs.
type ConvertConfig struct {
	// BibFile is the path to the BibTeX source.
	BibFile string `json:"bib_file" yaml:"bib_file" validate:"required"`

	// TexDir, when set, is scanned for citations and merged into the table.
	TexDir string `json:"tex_dir,omitempty" yaml:"tex_dir,omitempty"`

	// VerifyURLs issues one GET per record with a url field.
	VerifyURLs bool `json:"verify_urls" yaml:"verify_urls"`

	// DropCols lists columns removed before merging and output.
	DropCols []string `json:"drop_cols,omitempty" yaml:"drop_cols,omitempty"`

	Verify  VerifyConfig  `json:"verify" yaml:"verify"`
	Collect CollectConfig `json:"collect" yaml:"collect"`
	Output  OutputConfig  `json:"output" yaml:"output"`
}
