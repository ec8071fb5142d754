// Package service registers the bot with systemd so a provisioned host can
// supervise it across reboots.
package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"botstrap/internal/fileutil"
	"botstrap/internal/venv"
	"botstrap/internal/workspace"
)

// UnitName is the systemd unit file the registrar manages.
const UnitName = "videobot.service"

// Scope selects where the unit is registered.
type Scope string

const (
	// ScopeUser registers under the invoking user's systemd instance.
	ScopeUser Scope = "user"
	// ScopeSystem registers the unit system-wide. Requires root.
	ScopeSystem Scope = "system"
)

// ErrUnsupportedPlatform is returned when service registration is attempted
// on a host without systemd.
var ErrUnsupportedPlatform = errors.New("service registration requires a Linux host with systemd")

//go:embed unit.tmpl
var templates embed.FS

var unitTemplate = template.Must(template.ParseFS(templates, "unit.tmpl"))

// Unit holds the values rendered into the systemd unit file.
type Unit struct {
	Description      string
	User             string
	WorkingDirectory string
	EnvironmentFile  string
	ExecStart        string
	WantedBy         string
}

// NewUnit builds the unit definition for a provisioned workspace. The bot
// runs with the venv interpreter so the installed dependency set is used.
func NewUnit(layout workspace.Layout, scope Scope) Unit {
	interpreter := venv.New(layout.VenvDir(), "").PythonBinary()
	unit := Unit{
		Description:      "Video Downloader Bot",
		WorkingDirectory: layout.Base,
		EnvironmentFile:  layout.EnvFile(),
		ExecStart:        fmt.Sprintf("%s %s", interpreter, filepath.Join(layout.Base, "bot.py")),
		WantedBy:         "default.target",
	}
	if scope == ScopeSystem {
		unit.WantedBy = "multi-user.target"
		if current := os.Getenv("SUDO_USER"); current != "" {
			unit.User = current
		}
	}
	return unit
}

// Render produces the unit file contents.
func (u Unit) Render() (string, error) {
	var buf bytes.Buffer
	if err := unitTemplate.Execute(&buf, u); err != nil {
		return "", fmt.Errorf("render unit file: %w", err)
	}
	return buf.String(), nil
}

// Registrar installs and removes the unit for one scope.
type Registrar struct {
	Scope Scope
}

// NewRegistrar validates the scope and returns a registrar for it.
func NewRegistrar(scope Scope) (*Registrar, error) {
	switch scope {
	case ScopeUser, ScopeSystem:
		return &Registrar{Scope: scope}, nil
	default:
		return nil, fmt.Errorf("unknown service scope %q", scope)
	}
}

// UnitPath returns where the unit file lives for the registrar's scope.
func (r *Registrar) UnitPath() (string, error) {
	if r.Scope == ScopeSystem {
		return filepath.Join("/etc/systemd/system", UnitName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "systemd", "user", UnitName), nil
}

// Install writes the unit file and enables it. The unit is enabled but not
// started: the operator decides when the bot first runs.
func (r *Registrar) Install(ctx context.Context, unit Unit) (string, error) {
	if runtime.GOOS != "linux" {
		return "", ErrUnsupportedPlatform
	}
	path, err := r.UnitPath()
	if err != nil {
		return "", err
	}
	rendered, err := unit.Render()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create unit directory: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write unit file: %w", err)
	}
	if err := r.systemctl(ctx, "daemon-reload"); err != nil {
		return path, err
	}
	if err := r.systemctl(ctx, "enable", UnitName); err != nil {
		return path, err
	}
	return path, nil
}

// Uninstall disables the unit and removes its file. A unit that was never
// installed is not an error.
func (r *Registrar) Uninstall(ctx context.Context) error {
	if runtime.GOOS != "linux" {
		return ErrUnsupportedPlatform
	}
	path, err := r.UnitPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := r.systemctl(ctx, "disable", "--now", UnitName); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove unit file: %w", err)
	}
	return r.systemctl(ctx, "daemon-reload")
}

func (r *Registrar) systemctl(ctx context.Context, args ...string) error {
	if r.Scope == ScopeUser {
		args = append([]string{"--user"}, args...)
	}
	cmd := exec.CommandContext(ctx, "systemctl", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = "no output"
		}
		return fmt.Errorf("systemctl %s: %w (%s)", strings.Join(args, " "), err, detail)
	}
	return nil
}
