package config

import (
	"errors"
	"fmt"
	"strings"

	"botstrap/internal/keygen"
)

// Qualities the bot accepts for DEFAULT_QUALITY.
var supportedQualities = map[string]struct{}{
	"2160": {}, "1440": {}, "1080": {}, "720": {}, "480": {},
	"360": {}, "240": {}, "audio": {}, "best": {}, "auto": {},
}

// Languages shipped with the bot.
var supportedLanguages = map[string]struct{}{
	"fa": {},
	"en": {},
}

// SupportedQuality reports whether value is an accepted quality preset.
func SupportedQuality(value string) bool {
	_, ok := supportedQualities[value]
	return ok
}

// SupportedLanguage reports whether code is a shipped language.
func SupportedLanguage(code string) bool {
	_, ok := supportedLanguages[code]
	return ok
}

// Validate ensures the configuration is usable by the bot process.
func (c *Config) Validate() error {
	if c.APIID <= 0 {
		return errors.New("API_ID must be a positive integer (get one at https://my.telegram.org)")
	}
	if len(c.APIHash) != 32 {
		return fmt.Errorf("API_HASH must be 32 characters, got %d", len(c.APIHash))
	}
	if !strings.Contains(c.BotToken, ":") {
		return errors.New("BOT_TOKEN must look like <id>:<secret> (get one from @BotFather)")
	}
	if c.OwnerID <= 0 {
		return errors.New("OWNER_ID must be a positive Telegram user id")
	}
	for _, id := range c.AdminIDs {
		if id <= 0 {
			return fmt.Errorf("ADMIN_IDS contains invalid id %d", id)
		}
	}
	if c.EncryptionKey == "" {
		return errors.New("ENCRYPTION_KEY is not set (run `botstrap genkey`)")
	}
	if err := keygen.Validate(c.EncryptionKey); err != nil {
		return fmt.Errorf("ENCRYPTION_KEY: %w", err)
	}
	if !SupportedLanguage(c.DefaultLanguage) {
		return fmt.Errorf("DEFAULT_LANGUAGE %q is not shipped with the bot", c.DefaultLanguage)
	}
	if !SupportedLanguage(c.FallbackLanguage) {
		return fmt.Errorf("FALLBACK_LANGUAGE %q is not shipped with the bot", c.FallbackLanguage)
	}
	if !SupportedQuality(c.DefaultQuality) {
		return fmt.Errorf("DEFAULT_QUALITY %q is not a recognized preset", c.DefaultQuality)
	}
	if c.Workers <= 0 {
		return errors.New("WORKERS must be positive")
	}
	if c.LogMaxMegabytes <= 0 {
		return errors.New("LOG_MAX_MEGABYTES must be positive")
	}
	if c.LogBackups < 0 {
		return errors.New("LOG_BACKUPS must be >= 0")
	}
	if c.LogMaxAgeDays < 0 {
		return errors.New("LOG_MAX_AGE_DAYS must be >= 0")
	}
	return nil
}

func (c *Config) normalize() {
	c.APIHash = strings.TrimSpace(c.APIHash)
	c.BotToken = strings.TrimSpace(c.BotToken)
	c.EncryptionKey = strings.TrimSpace(c.EncryptionKey)
	c.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.DefaultLanguage))
	c.FallbackLanguage = strings.ToLower(strings.TrimSpace(c.FallbackLanguage))
	c.DefaultQuality = strings.ToLower(strings.TrimSpace(c.DefaultQuality))
	c.SessionName = strings.TrimSpace(c.SessionName)

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	switch c.LogFormat {
	case "", "console":
		c.LogFormat = "console"
	case "json":
	default:
		c.LogFormat = "console"
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
