// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text
// files. Each file holds one secret: the filename is the key and the
// trimmed contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/study-shelf/internal/logging"
	"github.com/pdiddy/study-shelf/pkg/types"
)

// Recognized key files.
const (
	GoogleBooksAPIKey = "google-books-api-key"
	CrossRefMailto    = "crossref-mailto"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Unreadable files are logged and skipped.
func Load(dir string, logger *log.Logger) (Secrets, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "err", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Apply copies recognized secrets into cfg. Values already set in cfg
// (from the config file or environment) win.
func (s Secrets) Apply(cfg *types.PluginConfig) {
	if cfg.GoogleBooksAPIKey == "" {
		cfg.GoogleBooksAPIKey = s[GoogleBooksAPIKey]
	}
	if cfg.CrossRefMailto == "" {
		cfg.CrossRefMailto = s[CrossRefMailto]
	}
}
