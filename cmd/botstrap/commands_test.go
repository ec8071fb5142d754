package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"botstrap/internal/keygen"
	"botstrap/internal/testsupport"
	"botstrap/internal/workspace"
)

func TestDirsCommandScaffoldsLayout(t *testing.T) {
	base := t.TempDir()

	out, _, err := runCLI(t, base, "dirs")
	if err != nil {
		t.Fatalf("dirs: %v", err)
	}
	requireContains(t, out, "created:")

	layout := workspace.New(base)
	if missing := layout.Missing(); len(missing) != 0 {
		t.Fatalf("still missing: %v", missing)
	}

	out, _, err = runCLI(t, base, "dirs")
	if err != nil {
		t.Fatalf("dirs rerun: %v", err)
	}
	requireContains(t, out, "already present")
}

func TestDirsCheckReportsMissing(t *testing.T) {
	_, _, err := runCLI(t, t.TempDir(), "dirs", "--check")
	if err == nil {
		t.Fatal("dirs --check passed on empty directory")
	}
}

func TestGenkeyPrintsValidKey(t *testing.T) {
	out, _, err := runCLI(t, t.TempDir(), "genkey")
	if err != nil {
		t.Fatalf("genkey: %v", err)
	}
	if err := keygen.Validate(strings.TrimSpace(out)); err != nil {
		t.Fatalf("generated key invalid: %v", err)
	}
}

func TestGenkeyWriteUpdatesEnv(t *testing.T) {
	base := t.TempDir()
	writeValidEnv(t, base)

	out, _, err := runCLI(t, base, "genkey", "--write")
	if err != nil {
		t.Fatalf("genkey --write: %v", err)
	}
	requireContains(t, out, "ENCRYPTION_KEY")

	if _, _, err := runCLI(t, base, "config", "check"); err != nil {
		t.Fatalf("config check after genkey: %v", err)
	}
}

func TestDBInitAndStats(t *testing.T) {
	base := t.TempDir()

	out, _, err := runCLI(t, base, "db", "init")
	if err != nil {
		t.Fatalf("db init: %v", err)
	}
	requireContains(t, out, "Database ready")

	out, _, err = runCLI(t, base, "db", "stats")
	if err != nil {
		t.Fatalf("db stats: %v", err)
	}
	for _, table := range []string{"users", "downloads", "cookies", "statistics"} {
		requireContains(t, out, table)
	}
}

func TestDockerInitWritesAssets(t *testing.T) {
	base := t.TempDir()

	out, _, err := runCLI(t, base, "docker", "init")
	if err != nil {
		t.Fatalf("docker init: %v", err)
	}
	requireContains(t, out, "Dockerfile")

	if _, err := os.Stat(filepath.Join(base, "docker-compose.yml")); err != nil {
		t.Fatalf("compose file missing: %v", err)
	}

	out, _, err = runCLI(t, base, "docker", "init")
	if err != nil {
		t.Fatalf("docker init rerun: %v", err)
	}
	requireContains(t, out, "already present")
}

func TestLangSeedAndCheck(t *testing.T) {
	base := t.TempDir()

	out, _, err := runCLI(t, base, "lang", "seed")
	if err != nil {
		t.Fatalf("lang seed: %v", err)
	}
	requireContains(t, out, "seeded:")

	out, _, err = runCLI(t, base, "lang", "check")
	if err != nil {
		t.Fatalf("lang check: %v", err)
	}
	requireContains(t, out, "fa")
	requireContains(t, out, "English")
}

func TestServiceUnitPrintsRenderedFile(t *testing.T) {
	base := t.TempDir()

	out, _, err := runCLI(t, base, "service", "unit")
	if err != nil {
		t.Fatalf("service unit: %v", err)
	}
	requireContains(t, out, "[Service]")
	requireContains(t, out, "WantedBy=default.target")

	out, _, err = runCLI(t, base, "service", "unit", "--scope", "system")
	if err != nil {
		t.Fatalf("service unit --scope system: %v", err)
	}
	requireContains(t, out, "WantedBy=multi-user.target")

	if _, _, err := runCLI(t, base, "service", "unit", "--scope", "global"); err == nil {
		t.Fatal("unknown scope accepted")
	}
}

func TestDepsListShowsManifest(t *testing.T) {
	base := t.TempDir()
	manifest := "pyrogram==2.0.106\nyt-dlp>=2024.1.1\n"
	if err := os.WriteFile(filepath.Join(base, "requirements.txt"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write requirements: %v", err)
	}

	out, _, err := runCLI(t, base, "deps", "list")
	if err != nil {
		t.Fatalf("deps list: %v", err)
	}
	requireContains(t, out, "pyrogram")
	requireContains(t, out, "yt-dlp")
}

func TestHistoryWithoutDatabase(t *testing.T) {
	_, _, err := runCLI(t, t.TempDir(), "history")
	if err == nil {
		t.Fatal("history succeeded without a database")
	}
	if !strings.Contains(err.Error(), "nothing has been installed") {
		t.Errorf("err = %v", err)
	}
}

func TestDoctorToolsReportsStubs(t *testing.T) {
	testsupport.StubBinaryScript(t, "python3", "#!/bin/sh\necho 'Python 3.11.4'\n")
	testsupport.StubBinaries(t, "ffmpeg")

	out, _, err := runCLI(t, t.TempDir(), "doctor", "--tools")
	if err != nil {
		t.Fatalf("doctor --tools: %v", err)
	}
	requireContains(t, out, "Python")
	requireContains(t, out, "3.11.4")
	requireContains(t, out, "FFmpeg")
}

func TestDoctorFailsOnUnprovisionedDirectory(t *testing.T) {
	testsupport.StubBinaryScript(t, "python3", "#!/bin/sh\necho 'Python 3.11.4'\n")
	testsupport.StubBinaries(t, "ffmpeg")

	_, _, err := runCLI(t, t.TempDir(), "doctor")
	if err == nil {
		t.Fatal("doctor passed on an empty directory")
	}
	if !strings.Contains(err.Error(), "checks failed") {
		t.Errorf("err = %v", err)
	}
}
