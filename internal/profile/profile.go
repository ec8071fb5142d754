// Package profile loads unattended-install answer files. A profile supplies
// the values the installer would otherwise prompt for, so provisioning can run
// non-interactively on fresh hosts and in containers.
package profile

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Profile carries pre-seeded answers for an installer run.
type Profile struct {
	APIID    int    `toml:"api_id"`
	APIHash  string `toml:"api_hash"`
	BotToken string `toml:"bot_token"`
	OwnerID  int64  `toml:"owner_id"`

	DefaultLanguage string `toml:"default_language"`
	DefaultQuality  string `toml:"default_quality"`

	// EncryptionKey overrides the freshly generated key. Leave empty to let
	// the installer mint one.
	EncryptionKey string `toml:"encryption_key"`

	InstallService bool   `toml:"install_service"`
	ServiceScope   string `toml:"service_scope"`

	SkipVenv         bool `toml:"skip_venv"`
	OverwriteEnv     bool `toml:"overwrite_env"`
	ContinueNoFFmpeg bool `toml:"continue_without_ffmpeg"`
}

// Load reads and validates a TOML profile.
func Load(path string) (*Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer file.Close()

	var p Profile
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that the profile can answer every mandatory prompt.
func (p *Profile) Validate() error {
	if p.APIID <= 0 {
		return fmt.Errorf("profile: api_id must be a positive integer")
	}
	if len(strings.TrimSpace(p.APIHash)) != 32 {
		return fmt.Errorf("profile: api_hash must be 32 characters")
	}
	if !strings.Contains(p.BotToken, ":") {
		return fmt.Errorf("profile: bot_token must look like <id>:<secret>")
	}
	if p.OwnerID <= 0 {
		return fmt.Errorf("profile: owner_id must be a positive Telegram user id")
	}
	switch strings.TrimSpace(p.ServiceScope) {
	case "", "user", "system":
	default:
		return fmt.Errorf("profile: service_scope must be \"user\" or \"system\"")
	}
	return nil
}
