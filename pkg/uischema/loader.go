package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Title    string                    `json:"title" yaml:"title"`
	Sections map[string]SectionOverlay `json:"sections" yaml:"sections"`
	Fields   map[string]FieldOverlay   `json:"fields" yaml:"fields"`
}

// Load reads overlays from path, which may be a single document or a
// directory walked for .json, .yaml and .yml files.
func Load(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("uischema: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadFS(os.DirFS(path))
	}
	return loadFiles(os.DirFS(filepath.Dir(path)), []string{filepath.Base(path)})
}

// LoadFS walks the provided filesystem and parses JSON/YAML overlay files.
// When fsys is nil or holds no overlay files, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	if fsys == nil {
		return &Store{forms: make(map[string]FormOverlay)}, nil
	}
	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() && isOverlayFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loadFiles(fsys, paths)
}

func loadFiles(fsys fs.FS, paths []string) (*Store, error) {
	store := &Store{forms: make(map[string]FormOverlay)}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("uischema: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return nil, err
		}
		for rawID, raw := range doc.Forms {
			id := strings.TrimSpace(rawID)
			if id == "" {
				return nil, fmt.Errorf("uischema: file %s defines an empty form id", path)
			}
			if _, exists := store.forms[id]; exists {
				return nil, fmt.Errorf("uischema: duplicate form %q (file %s)", id, path)
			}
			overlay, err := normaliseForm(raw, id, path)
			if err != nil {
				return nil, err
			}
			store.forms[id] = overlay
		}
	}
	return store, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if strings.TrimSpace(string(data)) == "" {
		return doc, fmt.Errorf("uischema: file %s is empty", source)
	}
	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("uischema: parse %s: %w", source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("uischema: parse %s: %w", source, err)
	}
	return doc, nil
}

func normaliseForm(raw formFile, id, source string) (FormOverlay, error) {
	overlay := FormOverlay{
		ID:       id,
		Source:   source,
		Title:    strings.TrimSpace(raw.Title),
		Sections: make(map[string]SectionOverlay, len(raw.Sections)),
		Fields:   make(map[string]FieldOverlay, len(raw.Fields)),
	}
	for key, section := range raw.Sections {
		sectionID := strings.TrimSpace(key)
		if sectionID == "" {
			return FormOverlay{}, fmt.Errorf("uischema: form %q (file %s) defines a section without id", id, source)
		}
		seen := make(map[string]struct{}, len(section.FieldOrder))
		for idx, fieldID := range section.FieldOrder {
			if _, dup := seen[fieldID]; dup {
				return FormOverlay{}, fmt.Errorf("uischema: form %q (file %s) section %q lists %q twice", id, source, sectionID, fieldID)
			}
			if strings.TrimSpace(fieldID) == "" {
				return FormOverlay{}, fmt.Errorf("uischema: form %q (file %s) section %q has an empty fieldOrder entry at index %d", id, source, sectionID, idx)
			}
			seen[fieldID] = struct{}{}
		}
		overlay.Sections[sectionID] = section
	}
	for key, field := range raw.Fields {
		fieldID := strings.TrimSpace(key)
		if fieldID == "" {
			return FormOverlay{}, fmt.Errorf("uischema: form %q (file %s) defines a field without id", id, source)
		}
		overlay.Fields[fieldID] = field
	}
	return overlay, nil
}

func isOverlayFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
