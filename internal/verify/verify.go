// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks that bibliography URLs resolve by fetching them.
package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/bibtex-utils/internal/httputil"
	"github.com/pdiddy/bibtex-utils/pkg/types"
)

// Columns added by Annotate.
const (
	ColStatus  = "url_response_status"
	ColContent = "url_response_content"
)

// Defaults applied when the configuration leaves a field zero.
const (
	DefaultUserAgent = "bibtex-utils/0.1"
	DefaultTimeout   = 30 * time.Second
)

// Verifier fetches record URLs one at a time.
type Verifier struct {
	client httputil.Doer
	cfg    types.VerifyConfig
	log    *zap.Logger
}

// New returns a Verifier. When client is nil an *http.Client bounded by
// cfg.Timeout (DefaultTimeout if zero) is used.
func New(client httputil.Doer, cfg types.VerifyConfig, log *zap.Logger) *Verifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Verifier{client: client, cfg: cfg, log: log}
}

// Summary counts the outcome of an Annotate run.
type Summary struct {
	Checked int
	Failed  int
	Skipped int
}

// Annotate issues one GET for every row with a url value and records the
// response status code and raw body in ColStatus and ColContent. Rows
// without a url, and rows whose request fails, keep both columns absent.
// Requests run sequentially. Annotate returns an error only when ctx is
// cancelled.
func (v *Verifier) Annotate(ctx context.Context, t *types.Table) (Summary, error) {
	t.AddColumn(ColStatus)
	t.AddColumn(ColContent)

	var s Summary
	for _, row := range t.Rows {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		u, ok := row.Get(types.ColURL)
		if !ok {
			s.Skipped++
			continue
		}

		status, body, err := v.fetch(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return s, ctx.Err()
			}
			v.log.Warn("url verification failed",
				zap.String("id", row[types.ColID]),
				zap.String("url", u),
				zap.Error(err))
			s.Failed++
			continue
		}

		row[ColStatus] = strconv.Itoa(status)
		row[ColContent] = body
		s.Checked++
		v.log.Debug("verified url",
			zap.String("id", row[types.ColID]),
			zap.String("url", u),
			zap.Int("status", status))
	}

	v.log.Info("verified urls",
		zap.Int("checked", s.Checked),
		zap.Int("failed", s.Failed),
		zap.Int("skipped", s.Skipped))
	return s, nil
}

func (v *Verifier) fetch(ctx context.Context, u string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", v.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, v.client, req, v.cfg.MaxRetries, v.log)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, string(body), nil
}
