package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// StubBinaries writes no-op executables for the provided names and prepends
// their directory to PATH for the duration of the test.
func StubBinaries(t testing.TB, names ...string) string {
	t.Helper()

	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	for _, name := range names {
		writeStub(t, binDir, name, "#!/bin/sh\nexit 0\n")
	}
	prependPath(t, binDir)
	return binDir
}

// StubBinaryScript installs a single stub with custom script content and
// prepends its directory to PATH for the duration of the test.
func StubBinaryScript(t testing.TB, name, script string) string {
	t.Helper()

	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	writeStub(t, binDir, name, script)
	prependPath(t, binDir)
	return filepath.Join(binDir, name)
}

func writeStub(t testing.TB, dir, name, script string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
}

func prependPath(t testing.TB, dir string) {
	t.Helper()
	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}
