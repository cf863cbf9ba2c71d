// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/bibtex-utils/pkg/types"
)

// DefaultExtension selects LaTeX sources.
const DefaultExtension = ".tex"

// CollectDir walks dir recursively, extracts citations from every file whose
// name ends with the configured extension, and returns their union.
//
// Symlinked directories are not descended into. A file that cannot be read
// aborts the walk unless cfg.SkipUnreadable is set, in which case it is
// logged and skipped.
func CollectDir(dir string, cfg types.CollectConfig, log *zap.Logger) (Set, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ext := cfg.Extension
	if ext == "" {
		ext = DefaultExtension
	}

	all := make(Set)
	files := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if cfg.SkipUnreadable && path != dir {
				log.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if cfg.SkipUnreadable {
				log.Warn("skipping unreadable document", zap.String("path", path), zap.Error(err))
				return nil
			}
			return fmt.Errorf("reading %s: %w", path, err)
		}

		keys := Extract(string(data))
		log.Debug("scanned document", zap.String("path", path), zap.Int("keys", len(keys)))
		all.Union(keys)
		files++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting citations in %s: %w", dir, err)
	}

	log.Info("collected citations", zap.String("dir", dir), zap.Int("files", files), zap.Int("keys", len(all)))
	return all, nil
}
