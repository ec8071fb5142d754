package installer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"botstrap/internal/envfile"
	"botstrap/internal/installer"
	"botstrap/internal/profile"
	"botstrap/internal/prompt"
	"botstrap/internal/store"
	"botstrap/internal/testsupport"
	"botstrap/internal/workspace"
)

// fakePython answers --version probes and emulates venv creation, dropping a
// pip stub into the new environment.
const fakePython = `#!/bin/sh
if [ "$1" = "--version" ]; then
    echo "Python 3.11.4"
    exit 0
fi
for last; do :; done
mkdir -p "$last/bin"
echo "home = /usr" > "$last/pyvenv.cfg"
printf '#!/bin/sh\nexit 0\n' > "$last/bin/pip"
chmod +x "$last/bin/pip"
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		APIID:    12345,
		APIHash:  strings.Repeat("a", 32),
		BotToken: "12345:abcdef",
		OwnerID:  67890,
	}
}

func setupHost(t *testing.T) string {
	t.Helper()
	testsupport.StubBinaryScript(t, "python3", fakePython)
	testsupport.StubBinaries(t, "ffmpeg")

	base := t.TempDir()
	manifest := "pyrogram==2.0.106\nyt-dlp>=2024.1.1\n"
	if err := os.WriteFile(filepath.Join(base, "requirements.txt"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write requirements: %v", err)
	}
	return base
}

func TestRunUnattended(t *testing.T) {
	base := setupHost(t)

	inst := installer.New(installer.Options{
		Base:        base,
		Version:     "test",
		Prompter:    &prompt.Scripted{},
		Logger:      quietLogger(),
		Profile:     testProfile(),
		AssumeYes:   true,
		SkipService: true,
	})
	report, err := inst.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Succeeded {
		t.Fatal("report not marked succeeded")
	}

	layout := workspace.New(base)
	env, err := envfile.Load(layout.EnvFile())
	if err != nil {
		t.Fatalf("load .env: %v", err)
	}
	if got, _ := env.Get("API_ID"); got != "12345" {
		t.Errorf("API_ID = %q", got)
	}
	if key, _ := env.Get("ENCRYPTION_KEY"); key == "" {
		t.Error("ENCRYPTION_KEY not generated")
	}

	st, err := store.Open(layout.DatabaseFile())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d journaled runs, want 1", len(runs))
	}
	if runs[0].ID != report.RunID || !runs[0].Succeeded {
		t.Errorf("journaled run = %+v", runs[0])
	}

	statuses := map[string]string{}
	for _, step := range runs[0].Steps {
		statuses[step.Name] = step.Status
	}
	for _, name := range []string{"probe", "scaffold", "database", "venv", "dependencies", "environment", "languages"} {
		if statuses[name] != store.StepOK {
			t.Errorf("step %s status = %q", name, statuses[name])
		}
	}
	if statuses["service"] != store.StepSkipped {
		t.Errorf("service step status = %q", statuses["service"])
	}
}

func TestRerunKeepsExistingEnvFile(t *testing.T) {
	base := setupHost(t)
	opts := installer.Options{
		Base:        base,
		Version:     "test",
		Prompter:    &prompt.Scripted{},
		Logger:      quietLogger(),
		Profile:     testProfile(),
		AssumeYes:   true,
		SkipService: true,
	}

	if _, err := installer.New(opts).Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	layout := workspace.New(base)
	before, err := os.ReadFile(layout.EnvFile())
	if err != nil {
		t.Fatalf("read .env: %v", err)
	}

	report, err := installer.New(opts).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	after, err := os.ReadFile(layout.EnvFile())
	if err != nil {
		t.Fatalf("reread .env: %v", err)
	}
	if string(before) != string(after) {
		t.Error(".env changed on re-run without overwrite")
	}
	for _, step := range report.Steps {
		if step.Name == "environment" && step.Status != store.StepSkipped {
			t.Errorf("environment step status = %q, want skipped", step.Status)
		}
	}
}

func TestOverwriteBacksUpEnvFile(t *testing.T) {
	base := setupHost(t)
	opts := installer.Options{
		Base:        base,
		Version:     "test",
		Prompter:    &prompt.Scripted{},
		Logger:      quietLogger(),
		Profile:     testProfile(),
		AssumeYes:   true,
		SkipService: true,
	}
	if _, err := installer.New(opts).Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	opts.OverwriteEnv = true
	if _, err := installer.New(opts).Run(context.Background()); err != nil {
		t.Fatalf("overwrite Run: %v", err)
	}

	entries, err := filepath.Glob(filepath.Join(base, ".env.bak-*"))
	if err != nil {
		t.Fatalf("glob backups: %v", err)
	}
	if len(entries) == 0 {
		t.Error("no backup written before overwrite")
	}
}

func TestRunAbortsWithoutFFmpeg(t *testing.T) {
	// Restrict PATH to the interpreter stub's directory so ffmpeg cannot be
	// found even when the host has it installed.
	stub := testsupport.StubBinaryScript(t, "python3", fakePython)
	t.Setenv("PATH", filepath.Dir(stub))

	base := t.TempDir()
	inst := installer.New(installer.Options{
		Base:      base,
		Prompter:  &prompt.Scripted{},
		Logger:    quietLogger(),
		Profile:   testProfile(),
		AssumeYes: true,
	})
	report, err := inst.Run(context.Background())
	if !errors.Is(err, installer.ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if len(report.Steps) != 1 || report.Steps[0].Name != "probe" || report.Steps[0].Status != store.StepFailed {
		t.Fatalf("steps = %+v, want a single failed probe", report.Steps)
	}
}

func TestRunRefusesConcurrentInstall(t *testing.T) {
	base := setupHost(t)
	layout := workspace.New(base)

	held := flock.New(layout.LockFile())
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()

	inst := installer.New(installer.Options{
		Base:      base,
		Prompter:  &prompt.Scripted{},
		Logger:    quietLogger(),
		Profile:   testProfile(),
		AssumeYes: true,
	})
	if _, err := inst.Run(context.Background()); !errors.Is(err, installer.ErrLocked) {
		t.Fatalf("err = %v, want ErrLocked", err)
	}
}

func TestMissingManifestAbortsPipeline(t *testing.T) {
	testsupport.StubBinaryScript(t, "python3", fakePython)
	testsupport.StubBinaries(t, "ffmpeg")

	base := t.TempDir()
	inst := installer.New(installer.Options{
		Base:        base,
		Prompter:    &prompt.Scripted{},
		Logger:      quietLogger(),
		Profile:     testProfile(),
		AssumeYes:   true,
		SkipService: true,
	})
	report, err := inst.Run(context.Background())
	if err == nil {
		t.Fatal("missing requirements.txt accepted")
	}

	last := report.Steps[len(report.Steps)-1]
	if last.Name != "dependencies" || last.Status != store.StepFailed {
		t.Errorf("last step = %+v, want failed dependencies", last)
	}

	st, err := store.Open(workspace.New(base).DatabaseFile())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Succeeded {
		t.Fatalf("journal = %+v, want one failed run", runs)
	}
}

func TestInteractivePromptsFillEnv(t *testing.T) {
	base := setupHost(t)
	prompter := &prompt.Scripted{
		Answers: map[string]string{
			"Telegram API ID":        "54321",
			"Owner Telegram user id": "111",
			"Default language":       "en",
			"Default quality":        "720",
		},
		Secrets: map[string]string{
			"Telegram API hash": strings.Repeat("b", 32),
			"Bot token":         "54321:secret",
		},
	}

	inst := installer.New(installer.Options{
		Base:        base,
		Prompter:    prompter,
		Logger:      quietLogger(),
		AssumeYes:   true,
		SkipService: true,
	})
	if _, err := inst.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	env, err := envfile.Load(workspace.New(base).EnvFile())
	if err != nil {
		t.Fatalf("load .env: %v", err)
	}
	for key, want := range map[string]string{
		"API_ID":           "54321",
		"OWNER_ID":         "111",
		"DEFAULT_LANGUAGE": "en",
		"DEFAULT_QUALITY":  "720",
	} {
		if got, _ := env.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}
