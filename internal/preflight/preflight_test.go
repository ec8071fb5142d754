package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"botstrap/internal/language"
	"botstrap/internal/preflight"
	"botstrap/internal/testsupport"
	"botstrap/internal/workspace"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("Base directory", dir)
	if !result.Passed {
		t.Fatalf("writable directory failed: %s", result.Detail)
	}

	result = preflight.CheckDirectoryAccess("Base directory", filepath.Join(dir, "absent"))
	if result.Passed {
		t.Fatal("missing directory passed")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Errorf("detail = %q", result.Detail)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if result := preflight.CheckDirectoryAccess("Base directory", file); result.Passed {
		t.Fatal("regular file passed as directory")
	}
}

func TestCheckEnvFileMissing(t *testing.T) {
	result := preflight.CheckEnvFile(t.TempDir())
	if result.Passed {
		t.Fatal("missing .env passed")
	}
	if !strings.Contains(result.Detail, "config init") {
		t.Errorf("detail should point at config init, got %q", result.Detail)
	}
}

func TestCheckPython(t *testing.T) {
	testsupport.StubBinaryScript(t, "python3", "#!/bin/sh\necho 'Python 3.11.4'\n")
	result := preflight.CheckPython(context.Background())
	if !result.Passed {
		t.Fatalf("supported interpreter failed: %s", result.Detail)
	}

	testsupport.StubBinaryScript(t, "python3", "#!/bin/sh\necho 'Python 3.7.9'\n")
	if result := preflight.CheckPython(context.Background()); result.Passed {
		t.Fatal("unsupported interpreter passed")
	}
}

func TestCheckVenv(t *testing.T) {
	base := t.TempDir()
	layout := workspace.New(base)

	if result := preflight.CheckVenv(layout); result.Passed {
		t.Fatal("missing venv passed")
	}

	binDir := filepath.Join(layout.VenvDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, contents := range map[string]string{
		"pyvenv.cfg": "home = /usr\n",
		"bin/pip":    "#!/bin/sh\n",
	} {
		if err := os.WriteFile(filepath.Join(layout.VenvDir(), name), []byte(contents), 0o755); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if result := preflight.CheckVenv(layout); !result.Passed {
		t.Fatalf("populated venv failed: %s", result.Detail)
	}
}

func TestCheckLanguageCatalogs(t *testing.T) {
	base := t.TempDir()
	layout := workspace.New(base)
	if err := layout.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if result := preflight.CheckLanguageCatalogs(layout); result.Passed {
		t.Fatal("empty catalog directory passed")
	}

	if _, err := language.SeedCatalogs(layout.Languages()); err != nil {
		t.Fatalf("SeedCatalogs: %v", err)
	}
	result := preflight.CheckLanguageCatalogs(layout)
	if !result.Passed {
		t.Fatalf("seeded catalogs failed: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "en") || !strings.Contains(result.Detail, "fa") {
		t.Errorf("detail should list codes, got %q", result.Detail)
	}
}

func TestCheckDatabase(t *testing.T) {
	base := t.TempDir()
	layout := workspace.New(base)

	if result := preflight.CheckDatabase(layout); result.Passed {
		t.Fatal("missing database passed")
	}

	if err := os.MkdirAll(layout.Database(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(layout.DatabaseFile(), []byte("SQLite format 3\x00"), 0o644); err != nil {
		t.Fatalf("write database: %v", err)
	}
	if result := preflight.CheckDatabase(layout); !result.Passed {
		t.Fatalf("initialized database failed: %s", result.Detail)
	}
}

func TestFailedFilters(t *testing.T) {
	results := []preflight.Result{
		{Name: "a", Passed: true},
		{Name: "b"},
		{Name: "c", Passed: true},
	}
	failed := preflight.Failed(results)
	if len(failed) != 1 || failed[0].Name != "b" {
		t.Fatalf("Failed = %+v", failed)
	}
}
