package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"botstrap/internal/config"
	"botstrap/internal/envfile"
	"botstrap/internal/keygen"
)

func runCLI(t *testing.T, base string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--dir", base}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// writeValidEnv materializes a .env in base that passes validation.
func writeValidEnv(t *testing.T, base string) {
	t.Helper()
	key, err := keygen.Generate()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	file := envfile.Parse([]byte(config.Template()))
	file.Apply(map[string]string{
		"API_ID":         "12345",
		"API_HASH":       strings.Repeat("a", 32),
		"BOT_TOKEN":      "12345:abcdef",
		"OWNER_ID":       "67890",
		"ENCRYPTION_KEY": key,
	})
	if err := file.WriteTo(filepath.Join(base, ".env")); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, ".env.example"), []byte(config.Template()), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}
