package venv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Package is one requirement line from the manifest.
type Package struct {
	Name string
	// Spec is the version constraint, e.g. "==2.1.0" or ">=4.0". Empty when
	// the line is unpinned.
	Spec string
	Raw  string
}

// Pinned reports whether the package is locked to an exact version.
func (p Package) Pinned() bool {
	return strings.HasPrefix(p.Spec, "==")
}

// Manifest is a parsed requirements.txt.
type Manifest struct {
	Path     string
	Packages []Package
}

// PinnedCount returns how many packages carry exact pins.
func (m Manifest) PinnedCount() int {
	count := 0
	for _, pkg := range m.Packages {
		if pkg.Pinned() {
			count++
		}
	}
	return count
}

// LoadManifest reads and parses a requirements file.
func LoadManifest(path string) (Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open requirements manifest: %w", err)
	}
	defer file.Close()

	manifest, err := ParseManifest(file)
	if err != nil {
		return Manifest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	manifest.Path = path
	return manifest, nil
}

// ParseManifest reads requirement lines, skipping comments and blank lines.
// Option lines (-r, --index-url, ...) are carried through unparsed.
func ParseManifest(r io.Reader) (Manifest, error) {
	var manifest Manifest
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		entry := strings.TrimSpace(raw)
		if comment := strings.Index(entry, "#"); comment >= 0 {
			entry = strings.TrimSpace(entry[:comment])
		}
		if entry == "" {
			continue
		}
		if strings.HasPrefix(entry, "-") {
			manifest.Packages = append(manifest.Packages, Package{Raw: entry})
			continue
		}

		pkg, err := parsePackage(entry)
		if err != nil {
			return Manifest{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		manifest.Packages = append(manifest.Packages, pkg)
	}
	if err := scanner.Err(); err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return manifest, nil
}

var versionOperators = []string{"==", ">=", "<=", "~=", "!=", ">", "<"}

func parsePackage(entry string) (Package, error) {
	pkg := Package{Raw: entry}

	// Environment markers bind to the requirement but not the name.
	name := entry
	if semi := strings.Index(name, ";"); semi >= 0 {
		name = strings.TrimSpace(name[:semi])
	}

	for _, op := range versionOperators {
		if idx := strings.Index(name, op); idx >= 0 {
			pkg.Spec = strings.TrimSpace(name[idx:])
			name = strings.TrimSpace(name[:idx])
			break
		}
	}

	// Strip extras like package[socks].
	if bracket := strings.Index(name, "["); bracket >= 0 {
		name = name[:bracket]
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Package{}, fmt.Errorf("requirement %q has no package name", entry)
	}
	pkg.Name = strings.ToLower(name)
	return pkg, nil
}
