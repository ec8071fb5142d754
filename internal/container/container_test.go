package container_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"botstrap/internal/container"
)

func TestWriteMaterializesAllAssets(t *testing.T) {
	dir := t.TempDir()
	written, err := container.Write(dir, false)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(written) != len(container.Assets()) {
		t.Fatalf("wrote %d files, want %d", len(written), len(container.Assets()))
	}
	for _, name := range []string{"Dockerfile", "docker-compose.yml", ".dockerignore"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestWritePreservesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	custom := []byte("# hand-edited\n")
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), custom, 0o644); err != nil {
		t.Fatalf("seed Dockerfile: %v", err)
	}

	written, err := container.Write(dir, false)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, name := range written {
		if name == "Dockerfile" {
			t.Error("Dockerfile overwritten without overwrite flag")
		}
	}
	contents, err := os.ReadFile(filepath.Join(dir, "Dockerfile"))
	if err != nil {
		t.Fatalf("read Dockerfile: %v", err)
	}
	if string(contents) != string(custom) {
		t.Error("existing Dockerfile changed")
	}

	if _, err := container.Write(dir, true); err != nil {
		t.Fatalf("Write overwrite: %v", err)
	}
	contents, err = os.ReadFile(filepath.Join(dir, "Dockerfile"))
	if err != nil {
		t.Fatalf("read Dockerfile: %v", err)
	}
	if string(contents) == string(custom) {
		t.Error("overwrite did not replace Dockerfile")
	}
}

func TestProductionStageCarriesNoBuildToolchain(t *testing.T) {
	dir := t.TempDir()
	if _, err := container.Write(dir, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	contents, err := os.ReadFile(filepath.Join(dir, "Dockerfile"))
	if err != nil {
		t.Fatalf("read Dockerfile: %v", err)
	}

	stages := strings.Split(string(contents), "FROM ")
	if len(stages) < 3 {
		t.Fatalf("expected a multi-stage build, got %d stages", len(stages)-1)
	}
	production := stages[len(stages)-1]
	if strings.Contains(production, "build-essential") {
		t.Error("production stage installs a build toolchain")
	}
	if !strings.Contains(production, "ffmpeg") {
		t.Error("production stage missing ffmpeg runtime dependency")
	}
	if !strings.Contains(production, "USER videobot") {
		t.Error("production stage runs as root")
	}
}
