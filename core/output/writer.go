// Package output handles file naming and writing for the data tiers.
// Every page owns one directory per tier:
//
//	<root>/raw/<page>/<topic>.json
//	<root>/stage/<page>/<topic>.csv
//	<root>/processed/<page>/<topic>.csv
//
// Writes replace whole files, so re-running a day overwrites its output.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Tier is one storage layer of the pipeline.
type Tier string

const (
	TierRaw       Tier = "raw"
	TierStage     Tier = "stage"
	TierProcessed Tier = "processed"
	TierReports   Tier = "reports"
)

func (t Tier) ext() string {
	if t == TierRaw {
		return ".json"
	}
	return ".csv"
}

// Store locates and writes tier files below a root directory.
type Store struct {
	Root string
}

// New creates a Store rooted at dir. If dir is empty, it defaults to "data"
// in the current working directory.
func New(dir string) (*Store, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		dir = filepath.Join(wd, "data")
	}

	// Ensure the root directory exists.
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{Root: dir}, nil
}

// Dir returns the directory of a page in a tier.
func (s *Store) Dir(tier Tier, page string) string {
	return filepath.Join(s.Root, string(tier), sanitize(page))
}

// Path returns the file of a topic in a tier.
func (s *Store) Path(tier Tier, page, topic string) string {
	return filepath.Join(s.Dir(tier, page), sanitize(topic)+tier.ext())
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

// WriteReport writes a rendered report for a page and returns its path.
func (s *Store) WriteReport(page string, data []byte, ext string) (string, error) {
	path := filepath.Join(s.Root, string(TierReports), sanitize(page)+ext)
	if err := WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// sanitize replaces characters outside [A-Za-z0-9_-] with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_' || ch == '-' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
