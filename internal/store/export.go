// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/study-shelf/pkg/types"
)

// ExportFormat selects the serialization for Export.
type ExportFormat string

const (
	FormatYAML ExportFormat = "yaml"
	FormatJSON ExportFormat = "json"
	FormatTOML ExportFormat = "toml"
)

// ParseExportFormat validates a format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case FormatYAML, FormatJSON, FormatTOML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want yaml, json, or toml)", s)
	}
}

const exportLimit = 100000

// ExportYAML writes the resources matching opts to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, opts ListOptions) error {
	resources, err := s.exportResources(ctx, opts)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(resources); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the resources matching opts to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, opts ListOptions) error {
	resources, err := s.exportResources(ctx, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resources); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// tomlDocument wraps the resource list; TOML has no top-level arrays.
type tomlDocument struct {
	Resources []types.Resource `toml:"resources"`
}

// ExportTOML writes the resources matching opts to w as TOML.
func (s *Store) ExportTOML(ctx context.Context, w io.Writer, opts ListOptions) error {
	resources, err := s.exportResources(ctx, opts)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(w).Encode(tomlDocument{Resources: resources}); err != nil {
		return fmt.Errorf("marshaling TOML: %w", err)
	}
	return nil
}

// Export writes the resources matching opts to w in the given format.
func (s *Store) Export(ctx context.Context, w io.Writer, format ExportFormat, opts ListOptions) error {
	switch format {
	case FormatYAML:
		return s.ExportYAML(ctx, w, opts)
	case FormatJSON:
		return s.ExportJSON(ctx, w, opts)
	case FormatTOML:
		return s.ExportTOML(ctx, w, opts)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// ExportFile writes the export to dataDir/export.<format> and returns its
// path. The file is written under an advisory lock so concurrent exports
// do not interleave.
func (s *Store) ExportFile(ctx context.Context, format ExportFormat, opts ListOptions) (string, error) {
	if _, err := ParseExportFormat(string(format)); err != nil {
		return "", err
	}
	path := filepath.Join(s.dataDir, "export."+string(format))

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("locking export file: %w", err)
	}
	defer lock.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := s.Export(ctx, f, format, opts); err != nil {
		return "", err
	}
	return path, f.Close()
}

func (s *Store) exportResources(ctx context.Context, opts ListOptions) ([]types.Resource, error) {
	opts.MaxResults = exportLimit
	resources, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if resources == nil {
		resources = []types.Resource{}
	}
	return resources, nil
}
