// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a BibTeX file into a rendered table: load, verify
// URLs, drop columns, merge citations, serialize.
package convert

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pdiddy/bibtex-utils/internal/bib"
	"github.com/pdiddy/bibtex-utils/internal/cite"
	"github.com/pdiddy/bibtex-utils/internal/export"
	"github.com/pdiddy/bibtex-utils/internal/httputil"
	"github.com/pdiddy/bibtex-utils/internal/verify"
	"github.com/pdiddy/bibtex-utils/pkg/types"
)

var validate = validator.New()

// Converter runs bibliography conversions. The zero value is not usable;
// construct with New.
type Converter struct {
	client httputil.Doer
	log    *zap.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithHTTPClient sets the client used for URL verification.
func WithHTTPClient(c httputil.Doer) Option {
	return func(cv *Converter) { cv.client = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(cv *Converter) { cv.log = l }
}

// New returns a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Table runs every step up to serialization and returns the final table.
//
// Steps, in order: load the bibliography and move the preferred columns to
// the front when all are present; fetch record URLs when cfg.VerifyURLs is
// set; drop cfg.DropCols; collect citations from cfg.TexDir and merge them
// when it is set. Any error aborts the whole conversion.
func (c *Converter) Table(ctx context.Context, cfg types.ConvertConfig) (*types.Table, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	t, err := bib.Load(cfg.BibFile, c.log)
	if err != nil {
		return nil, err
	}
	c.log.Debug("loaded bibliography", zap.String("path", cfg.BibFile), zap.Int("entries", t.Len()))

	if !t.ReorderFront(types.FrontColumns) {
		c.log.Info("could not reorder columns", zap.Strings("want", types.FrontColumns))
	}

	if cfg.VerifyURLs {
		c.log.Info("verifying urls")
		v := verify.New(c.client, cfg.Verify, c.log)
		if _, err := v.Annotate(ctx, t); err != nil {
			return nil, fmt.Errorf("verifying urls: %w", err)
		}
	}

	if err := t.Drop(cfg.DropCols); err != nil {
		return nil, err
	}

	if cfg.TexDir != "" {
		cites, err := cite.CollectDir(cfg.TexDir, cfg.Collect, c.log)
		if err != nil {
			return nil, err
		}
		t = bib.Merge(t, cites)
	}

	return t, nil
}

// Render runs Table and serializes the result in cfg.Output.Format. When
// cfg.Output.SQLitePath is set the table is also written there. Nothing is
// returned unless every step succeeded.
func (c *Converter) Render(ctx context.Context, cfg types.ConvertConfig) ([]byte, error) {
	t, err := c.Table(ctx, cfg)
	if err != nil {
		return nil, err
	}

	out, err := export.Render(t, cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	if cfg.Output.SQLitePath != "" {
		if err := export.WriteSQLite(ctx, cfg.Output.SQLitePath, export.DefaultSQLiteTable, t); err != nil {
			return nil, fmt.Errorf("writing %s: %w", cfg.Output.SQLitePath, err)
		}
		c.log.Info("wrote sqlite table",
			zap.String("path", cfg.Output.SQLitePath),
			zap.String("table", export.DefaultSQLiteTable),
			zap.Int("rows", t.Len()))
	}

	return out, nil
}

// BibToCSV converts the BibTeX file at bibFile to CSV text, optionally
// merging citations found under texDir and dropping columns.
func BibToCSV(ctx context.Context, bibFile, texDir string, verifyURLs bool, dropCols []string) (string, error) {
	out, err := New().Render(ctx, types.ConvertConfig{
		BibFile:    bibFile,
		TexDir:     texDir,
		VerifyURLs: verifyURLs,
		DropCols:   dropCols,
		Output:     types.OutputConfig{Format: types.FormatCSV},
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
