// Package envfile reads and patches flat KEY=value configuration files.
//
// Patching is wholesale line replacement: a Set on an existing key rewrites
// that line as KEY=value and every other line is carried through byte-identical
// to the source. Repeated patches with the same values are idempotent.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"botstrap/internal/fileutil"
)

// File is a parsed env file that preserves ordering, comments, and the
// formatting of every line it does not touch.
type File struct {
	lines         []line
	index         map[string]int
	trailingEmpty bool
}

type line struct {
	raw string
	key string
}

// Parse builds a File from raw env file content.
func Parse(data []byte) *File {
	text := string(data)
	f := &File{index: make(map[string]int)}

	rows := strings.Split(text, "\n")
	if len(rows) > 0 && rows[len(rows)-1] == "" {
		// Final newline is restored on render.
		f.trailingEmpty = true
		rows = rows[:len(rows)-1]
	}

	for _, raw := range rows {
		entry := line{raw: raw, key: parseKey(raw)}
		if entry.key != "" {
			if _, seen := f.index[entry.key]; !seen {
				f.index[entry.key] = len(f.lines)
			}
		}
		f.lines = append(f.lines, entry)
	}
	return f
}

// Load reads and parses the env file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return Parse(data), nil
}

func parseKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return ""
	}
	eq := strings.Index(trimmed, "=")
	if eq <= 0 {
		return ""
	}
	key := strings.TrimSpace(trimmed[:eq])
	if key == "" || strings.ContainsAny(key, " \t") {
		return ""
	}
	return key
}

// Get returns the value for key and whether the key is present.
func (f *File) Get(key string) (string, bool) {
	pos, ok := f.index[key]
	if !ok {
		return "", false
	}
	raw := strings.TrimSpace(f.lines[pos].raw)
	eq := strings.Index(raw, "=")
	value := strings.TrimSpace(raw[eq+1:])
	return unquote(value), true
}

// Keys returns all keys in file order.
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.index))
	for _, entry := range f.lines {
		if entry.key != "" {
			keys = append(keys, entry.key)
		}
	}
	return keys
}

// Has reports whether key is present.
func (f *File) Has(key string) bool {
	_, ok := f.index[key]
	return ok
}

// Set overwrites the line holding key, or appends a new line when the key is
// absent. The replacement line is always rendered as KEY=value.
func (f *File) Set(key, value string) {
	rendered := key + "=" + value
	if pos, ok := f.index[key]; ok {
		f.lines[pos] = line{raw: rendered, key: key}
		return
	}
	f.index[key] = len(f.lines)
	f.lines = append(f.lines, line{raw: rendered, key: key})
}

// Apply sets every key/value pair from values.
func (f *File) Apply(values map[string]string) {
	for key, value := range values {
		f.Set(key, value)
	}
}

// Render serializes the file back to bytes.
func (f *File) Render() []byte {
	var b strings.Builder
	for i, entry := range f.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(entry.raw)
	}
	if f.trailingEmpty || len(f.lines) == 0 {
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// WriteTo atomically writes the rendered file to path with mode 0600. Env
// files hold credentials, so group/world access is never granted.
func (f *File) WriteTo(path string) error {
	if err := fileutil.WriteFileAtomic(path, f.Render(), 0o600); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	return nil
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// Materialize copies the template at templatePath to targetPath with the given
// values patched in. A missing template is fatal. When the target already
// exists and overwrite is false, ErrTargetExists is returned and the target is
// left untouched.
func Materialize(templatePath, targetPath string, values map[string]string, overwrite bool) error {
	file, err := Load(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("template %s not found: %w", templatePath, err)
		}
		return err
	}

	if _, err := os.Stat(targetPath); err == nil {
		if !overwrite {
			return ErrTargetExists
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat target: %w", err)
	}

	for key := range values {
		if !file.Has(key) {
			return fmt.Errorf("template is missing key %s", key)
		}
	}

	file.Apply(values)
	return file.WriteTo(targetPath)
}

// ErrTargetExists signals that the target env file already exists and the
// caller declined to overwrite it.
var ErrTargetExists = fmt.Errorf("target env file already exists")
