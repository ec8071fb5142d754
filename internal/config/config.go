package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"botstrap/internal/fileutil"
	"botstrap/internal/workspace"
)

//go:embed env.example
var envTemplate string

// Config holds every setting the bot reads from its environment.
type Config struct {
	APIID    int    `env:"API_ID"`
	APIHash  string `env:"API_HASH"`
	BotToken string `env:"BOT_TOKEN"`

	OwnerID  int64   `env:"OWNER_ID"`
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	EncryptionKey string `env:"ENCRYPTION_KEY"`

	DefaultLanguage  string `env:"DEFAULT_LANGUAGE" envDefault:"fa"`
	FallbackLanguage string `env:"FALLBACK_LANGUAGE" envDefault:"en"`
	DefaultQuality   string `env:"DEFAULT_QUALITY" envDefault:"1080"`

	SessionName string `env:"SESSION_NAME" envDefault:"video_downloader_bot"`
	Workers     int    `env:"WORKERS" envDefault:"8"`

	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string `env:"LOG_FORMAT" envDefault:"console"`
	LogMaxMegabytes int    `env:"LOG_MAX_MEGABYTES" envDefault:"10"`
	LogBackups      int    `env:"LOG_BACKUPS" envDefault:"30"`
	LogMaxAgeDays   int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`

	// BaseDir is the installation directory; not part of the env contract.
	BaseDir string `env:"-"`
}

// RequiredKeys are the env keys the installer must fill in before the bot can
// start. The template carries them empty.
func RequiredKeys() []string {
	return []string{"API_ID", "API_HASH", "BOT_TOKEN", "OWNER_ID", "ENCRYPTION_KEY"}
}

// Load reads <base>/.env when present, overlays process environment variables,
// and validates the result. The boolean reports whether the env file existed.
func Load(base string) (*Config, bool, error) {
	resolved, err := ResolveBase(base)
	if err != nil {
		return nil, false, err
	}

	layout := workspace.New(resolved)
	envPath := layout.EnvFile()

	fileValues := map[string]string{}
	exists := false
	if _, statErr := os.Stat(envPath); statErr == nil {
		exists = true
		fileValues, err = godotenv.Read(envPath)
		if err != nil {
			return nil, true, fmt.Errorf("parse %s: %w", envPath, err)
		}
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("stat env file: %w", statErr)
	}

	// Process environment wins over the file, matching the bot's loader.
	// Empty values are dropped so struct defaults still apply.
	merged := make(map[string]string, len(fileValues))
	for key, value := range fileValues {
		if strings.TrimSpace(value) != "" {
			merged[key] = value
		}
	}
	for _, pair := range os.Environ() {
		eq := strings.Index(pair, "=")
		if eq <= 0 {
			continue
		}
		key, value := pair[:eq], pair[eq+1:]
		if isKnownKey(key) && strings.TrimSpace(value) != "" {
			merged[key] = value
		}
	}

	cfg := &Config{BaseDir: resolved}
	if err := env.Parse(cfg, env.Options{Environment: merged}); err != nil {
		return nil, exists, fmt.Errorf("parse configuration: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, exists, err
	}
	return cfg, exists, nil
}

func isKnownKey(key string) bool {
	switch key {
	case "API_ID", "API_HASH", "BOT_TOKEN", "OWNER_ID", "ADMIN_IDS",
		"ENCRYPTION_KEY", "DEFAULT_LANGUAGE", "FALLBACK_LANGUAGE",
		"DEFAULT_QUALITY", "SESSION_NAME", "WORKERS",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_MAX_MEGABYTES", "LOG_BACKUPS", "LOG_MAX_AGE_DAYS":
		return true
	}
	return false
}

// Workspace returns the directory layout rooted at the configured base.
func (c *Config) Workspace() workspace.Layout {
	return workspace.New(c.BaseDir)
}

// ResolveBase expands and absolutizes an installation directory argument.
// An empty base resolves to the current working directory.
func ResolveBase(base string) (string, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "."
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			trimmed = home
		} else if len(trimmed) > 1 && trimmed[1] == '/' {
			trimmed = filepath.Join(home, trimmed[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(trimmed))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", trimmed, err)
	}
	return absolute, nil
}

// WriteTemplate writes the embedded .env.example to path. An existing file is
// only replaced when overwrite is set.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("template already exists at %s", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("check template path: %w", err)
		}
	}
	if err := fileutil.WriteFileAtomic(path, []byte(envTemplate), 0o644); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// Template returns the embedded .env.example content.
func Template() string {
	return envTemplate
}
