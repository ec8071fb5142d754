// Package container emits the Docker build surface for hosts that run the
// bot in a container instead of under systemd.
package container

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"botstrap/internal/fileutil"
)

//go:embed assets
var assets embed.FS

// Asset maps one embedded file to its name in the target directory.
type Asset struct {
	Source string
	Target string
}

// Assets lists everything Write materializes, in write order.
func Assets() []Asset {
	return []Asset{
		{Source: "assets/Dockerfile", Target: "Dockerfile"},
		{Source: "assets/docker-compose.yml", Target: "docker-compose.yml"},
		{Source: "assets/dockerignore", Target: ".dockerignore"},
	}
}

// Write materializes the Docker assets into dir. Existing files are left
// alone unless overwrite is set; the returned list names the files written.
func Write(dir string, overwrite bool) ([]string, error) {
	var written []string
	for _, asset := range Assets() {
		target := filepath.Join(dir, asset.Target)
		if !overwrite {
			if _, err := os.Stat(target); err == nil {
				continue
			}
		}
		contents, err := assets.ReadFile(asset.Source)
		if err != nil {
			return written, fmt.Errorf("read embedded %s: %w", asset.Source, err)
		}
		if err := fileutil.WriteFileAtomic(target, contents, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", target, err)
		}
		written = append(written, asset.Target)
	}
	return written, nil
}
