// Package venv manages the bot's isolated Python environment: creation,
// recreation, and installing the pinned dependency manifest into it.
package venv

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Manager drives a virtual environment at a fixed path.
type Manager struct {
	Dir    string
	Python string
}

// New returns a Manager for the venv at dir, created with the given
// interpreter binary.
func New(dir, python string) *Manager {
	if strings.TrimSpace(python) == "" {
		python = "python3"
	}
	return &Manager{Dir: dir, Python: python}
}

// Exists reports whether dir already holds a virtual environment. The
// pyvenv.cfg marker distinguishes a venv from an unrelated directory.
func (m *Manager) Exists() bool {
	info, err := os.Stat(filepath.Join(m.Dir, "pyvenv.cfg"))
	return err == nil && !info.IsDir()
}

// PipBinary returns the pip executable inside the venv.
func (m *Manager) PipBinary() string {
	return filepath.Join(m.Dir, "bin", "pip")
}

// PythonBinary returns the interpreter inside the venv.
func (m *Manager) PythonBinary() string {
	return filepath.Join(m.Dir, "bin", "python")
}

// Create builds a fresh virtual environment. Creating over an existing venv
// is an error; use Recreate for that.
func (m *Manager) Create(ctx context.Context) error {
	if m.Exists() {
		return fmt.Errorf("virtual environment already exists at %s", m.Dir)
	}
	if err := runCommand(ctx, m.Python, "-m", "venv", m.Dir); err != nil {
		return fmt.Errorf("create virtual environment: %w", err)
	}
	return nil
}

// Recreate removes any existing environment and builds a new one.
func (m *Manager) Recreate(ctx context.Context) error {
	if err := os.RemoveAll(m.Dir); err != nil {
		return fmt.Errorf("remove old virtual environment: %w", err)
	}
	if err := runCommand(ctx, m.Python, "-m", "venv", m.Dir); err != nil {
		return fmt.Errorf("recreate virtual environment: %w", err)
	}
	return nil
}

// EnsureCreated creates the venv only when it is not already present.
func (m *Manager) EnsureCreated(ctx context.Context) (created bool, err error) {
	if m.Exists() {
		return false, nil
	}
	if err := m.Create(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// InstallRequirements installs the pinned manifest into the venv. A missing
// manifest is fatal, matching the installer contract.
func (m *Manager) InstallRequirements(ctx context.Context, manifestPath string) (Manifest, error) {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return Manifest{}, err
	}
	if !m.Exists() {
		return manifest, fmt.Errorf("virtual environment missing at %s", m.Dir)
	}
	if err := runCommand(ctx, m.PipBinary(), "install", "--upgrade", "pip"); err != nil {
		return manifest, fmt.Errorf("upgrade pip: %w", err)
	}
	if err := runCommand(ctx, m.PipBinary(), "install", "-r", manifestPath); err != nil {
		return manifest, fmt.Errorf("install requirements: %w", err)
	}
	return manifest, nil
}

// runCommand executes a tool and surfaces the tail of its combined output on
// failure so pip and venv errors stay diagnosable.
func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w (%s)", name, err, outputTail(output.String()))
	}
	return nil
}

func outputTail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	tail := strings.TrimSpace(strings.Join(lines, " | "))
	if tail == "" {
		return "no output"
	}
	return tail
}
