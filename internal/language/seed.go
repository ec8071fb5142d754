package language

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"botstrap/internal/fileutil"
)

//go:embed seed/*.json
var seedFS embed.FS

// SeedCatalogs writes the shipped catalogs into dir. Existing files are never
// replaced so operator translations survive re-provisioning.
func SeedCatalogs(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}
	entries, err := fs.ReadDir(seedFS, "seed")
	if err != nil {
		return nil, fmt.Errorf("read embedded catalogs: %w", err)
	}

	var written []string
	for _, entry := range entries {
		target := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(target); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return written, fmt.Errorf("check catalog %s: %w", target, err)
		}
		data, err := seedFS.ReadFile("seed/" + entry.Name())
		if err != nil {
			return written, fmt.Errorf("read embedded catalog %s: %w", entry.Name(), err)
		}
		if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
			return written, fmt.Errorf("write catalog %s: %w", target, err)
		}
		written = append(written, target)
	}
	return written, nil
}
