// Package language loads the bot's translation catalogs.
//
// A catalog is a JSON document under languages/: a "_meta" section describing
// the language plus named string sections ("start", "help", ...). The default
// language is Persian with English as the fallback, matching the shipped
// catalogs.
package language

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Meta identifies a catalog.
type Meta struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Flag       string `json:"flag"`
	RTL        bool   `json:"rtl"`
	Version    string `json:"version"`
}

// Catalog is a parsed translation file.
type Catalog struct {
	Meta     Meta
	Sections map[string]map[string]string
}

// Lookup returns the string at section/key.
func (c *Catalog) Lookup(section, key string) (string, bool) {
	entries, ok := c.Sections[section]
	if !ok {
		return "", false
	}
	value, ok := entries[key]
	return value, ok
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	metaRaw, ok := raw["_meta"]
	if !ok {
		return nil, errors.New("catalog has no _meta section")
	}
	var meta Meta
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return nil, fmt.Errorf("decode _meta: %w", err)
	}
	if strings.TrimSpace(meta.Code) == "" {
		return nil, errors.New("_meta.code is empty")
	}
	if _, err := language.Parse(meta.Code); err != nil {
		return nil, fmt.Errorf("_meta.code %q is not a valid language tag: %w", meta.Code, err)
	}
	if strings.TrimSpace(meta.Name) == "" {
		return nil, errors.New("_meta.name is empty")
	}

	catalog := &Catalog{Meta: meta, Sections: make(map[string]map[string]string)}
	for name, payload := range raw {
		if name == "_meta" {
			continue
		}
		var section map[string]string
		if err := json.Unmarshal(payload, &section); err != nil {
			return nil, fmt.Errorf("decode section %q: %w", name, err)
		}
		catalog.Sections[name] = section
	}
	if len(catalog.Sections) == 0 {
		return nil, errors.New("catalog has no string sections")
	}
	return catalog, nil
}

// LoadFile reads and parses a single catalog. The file name must match the
// declared language code (<code>.json).
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	catalog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	base := strings.TrimSuffix(filepath.Base(path), ".json")
	if base != catalog.Meta.Code {
		return nil, fmt.Errorf("%s: file name does not match _meta.code %q", filepath.Base(path), catalog.Meta.Code)
	}
	return catalog, nil
}

// Set holds every catalog found in a languages directory.
type Set struct {
	catalogs map[string]*Catalog
	matcher  language.Matcher
	fallback string
}

// LoadDir parses every *.json catalog in dir. fallback must be present in the
// loaded set.
func LoadDir(dir, fallback string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read languages directory: %w", err)
	}

	set := &Set{catalogs: make(map[string]*Catalog), fallback: fallback}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		catalog, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		set.catalogs[catalog.Meta.Code] = catalog
	}
	if len(set.catalogs) == 0 {
		return nil, fmt.Errorf("no catalogs found in %s", dir)
	}
	if _, ok := set.catalogs[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no catalog", fallback)
	}

	tags := make([]language.Tag, 0, len(set.catalogs))
	for _, code := range set.Codes() {
		tags = append(tags, language.MustParse(code))
	}
	set.matcher = language.NewMatcher(tags)
	return set, nil
}

// Codes lists available catalog codes in sorted order.
func (s *Set) Codes() []string {
	codes := make([]string, 0, len(s.catalogs))
	for code := range s.catalogs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Resolve picks the best catalog for a requested code, falling back to the
// configured fallback language when nothing acceptable matches.
func (s *Set) Resolve(code string) *Catalog {
	if catalog, ok := s.catalogs[code]; ok {
		return catalog
	}
	if tag, err := language.Parse(code); err == nil {
		_, index, confidence := s.matcher.Match(tag)
		if confidence >= language.High {
			return s.catalogs[s.Codes()[index]]
		}
	}
	return s.catalogs[s.fallback]
}
