// Package file loads purchase records from JSON or YAML files.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"purchases/internal/core"
	"purchases/internal/sources"
)

var _ sources.Loader = (*Loader)(nil)

type Loader struct {
	path string
}

func New(path string) *Loader {
	return &Loader{path: path}
}

// Expand builds one loader per path; directories contribute every .json,
// .yaml and .yml file they contain, in lexical order.
func Expand(paths []string) ([]sources.Loader, error) {
	var loaders []sources.Loader
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, &core.SourceError{Source: p, Err: err}
		}
		if !info.IsDir() {
			loaders = append(loaders, New(p))
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, &core.SourceError{Source: p, Err: err}
		}
		for _, e := range entries {
			if e.IsDir() || !supported(e.Name()) {
				continue
			}
			loaders = append(loaders, New(filepath.Join(p, e.Name())))
		}
	}
	return loaders, nil
}

func supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func (l *Loader) Name() string {
	return l.path
}

func (l *Loader) Load(ctx context.Context) ([]core.PurchaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, &core.SourceError{Source: l.path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(l.path)) {
	case ".yaml", ".yml":
		data, err = sources.YAMLToJSON(data)
		if err != nil {
			return nil, &core.SourceError{Source: l.path, Err: err}
		}
	case ".json", "":
	default:
		return nil, &core.SourceError{Source: l.path, Err: fmt.Errorf("unsupported file type %q", filepath.Ext(l.path))}
	}

	records, err := sources.DecodeRecords(data)
	if err != nil {
		return nil, &core.SourceError{Source: l.path, Err: err}
	}

	slog.DebugContext(ctx, "Loaded purchase file", "path", l.path, "records", len(records))
	return records, nil
}
