package repository

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
)

// Walker lists source files under a repository root, honoring the scan
// configuration's ignore rules and extension filter.
type Walker struct {
	fs     afs.Service
	config *Config
}

func NewWalker(config *Config) *Walker {
	if config == nil {
		config = DefaultConfig()
	}
	return &Walker{fs: afs.New(), config: config}
}

// List returns the source files under root in listing order.
func (w *Walker) List(ctx context.Context, root string) ([]string, error) {
	var files []string
	if err := w.walk(ctx, root, root, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (w *Walker) walk(ctx context.Context, root, location string, files *[]string) error {
	objects, err := w.fs.List(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", location, err)
	}
	for _, object := range objects {
		rel := relativePath(root, object.URL())
		if rel == "" {
			continue
		}
		if w.ignored(rel) {
			continue
		}
		if object.IsDir() {
			if err := w.walk(ctx, root, object.URL(), files); err != nil {
				return err
			}
			continue
		}
		if w.matchesExtension(object.Name()) {
			*files = append(*files, object.URL())
		}
	}
	return nil
}

func (w *Walker) matchesExtension(name string) bool {
	ext := path.Ext(name)
	for _, allowed := range w.config.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ignored applies the two ignore-rule families: rooted rules glob-match the
// whole relative path, plain rules match any single path segment.
func (w *Walker) ignored(rel string) bool {
	var segments []string
	for _, rule := range w.config.IgnoreRules {
		if strings.HasPrefix(rule, "/") {
			if ok, _ := path.Match(strings.TrimPrefix(rule, "/"), rel); ok {
				return true
			}
			continue
		}
		if segments == nil {
			segments = strings.Split(rel, "/")
		}
		for _, segment := range segments {
			if ok, _ := path.Match(rule, segment); ok {
				return true
			}
		}
	}
	return false
}

// ModuleName derives a logical module name from a file location relative to
// the repository root: separators become dots, the extension is dropped.
func ModuleName(location, root string) string {
	rel := relativePath(root, location)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return strings.ReplaceAll(rel, "/", ".")
}

func relativePath(root, target string) string {
	root = strings.TrimSuffix(trimScheme(root), "/")
	rel := strings.TrimPrefix(trimScheme(target), root)
	return strings.Trim(rel, "/")
}

func trimScheme(location string) string {
	if idx := strings.Index(location, "://"); idx >= 0 {
		return location[idx+3:]
	}
	return location
}
