// Package config loads and validates the bot's .env configuration.
//
// The contract mirrors what the bot process reads at startup: required
// Telegram credentials, the owner id, the cookie encryption key, and optional
// localization, quality, and logging knobs. The installer materializes the
// same keys into .env, so validation here doubles as the post-install check.
package config
