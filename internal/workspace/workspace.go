// Package workspace defines the fixed directory layout the bot runs out of
// and keeps scaffolding idempotent: running Ensure twice produces the same
// directory set with no error.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Standard directory names inside the bot's base directory.
const (
	TempDirName      = "temp"
	DownloadsDirName = "downloads"
	CookiesDirName   = "cookies"
	LogsDirName      = "logs"
	CacheDirName     = "cache"
	DatabaseDirName  = "database"
	LanguagesDirName = "languages"
)

// Layout resolves paths inside a bot installation directory.
type Layout struct {
	Base string
}

// New returns a Layout rooted at base.
func New(base string) Layout {
	return Layout{Base: base}
}

func (l Layout) Temp() string      { return filepath.Join(l.Base, TempDirName) }
func (l Layout) Downloads() string { return filepath.Join(l.Base, DownloadsDirName) }
func (l Layout) Cookies() string   { return filepath.Join(l.Base, CookiesDirName) }
func (l Layout) Logs() string      { return filepath.Join(l.Base, LogsDirName) }
func (l Layout) Cache() string     { return filepath.Join(l.Base, CacheDirName) }
func (l Layout) Database() string  { return filepath.Join(l.Base, DatabaseDirName) }
func (l Layout) Languages() string { return filepath.Join(l.Base, LanguagesDirName) }

// DatabaseFile is the bot's SQLite database path.
func (l Layout) DatabaseFile() string {
	return filepath.Join(l.Database(), "bot.db")
}

// EnvFile is the runtime configuration file path.
func (l Layout) EnvFile() string {
	return filepath.Join(l.Base, ".env")
}

// EnvTemplate is the configuration template path.
func (l Layout) EnvTemplate() string {
	return filepath.Join(l.Base, ".env.example")
}

// RequirementsFile is the pinned dependency manifest path.
func (l Layout) RequirementsFile() string {
	return filepath.Join(l.Base, "requirements.txt")
}

// VenvDir is the virtual environment path.
func (l Layout) VenvDir() string {
	return filepath.Join(l.Base, "venv")
}

// LockFile guards the base directory against concurrent installer runs.
func (l Layout) LockFile() string {
	return filepath.Join(l.Base, ".botstrap.lock")
}

// Dirs returns every directory the bot expects, in creation order.
func (l Layout) Dirs() []string {
	return []string{
		l.Temp(),
		l.Downloads(),
		l.Cookies(),
		l.Logs(),
		l.Cache(),
		l.Database(),
		l.Languages(),
	}
}

// Ensure creates the full directory set. Cookie storage is created with owner
// only access since it holds exported browser sessions.
func (l Layout) Ensure() error {
	for _, dir := range l.Dirs() {
		mode := os.FileMode(0o755)
		if dir == l.Cookies() {
			mode = 0o700
		}
		if err := os.MkdirAll(dir, mode); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Missing returns the subset of expected directories that do not exist yet.
func (l Layout) Missing() []string {
	var missing []string
	for _, dir := range l.Dirs() {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			missing = append(missing, dir)
		}
	}
	return missing
}
