package settings

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// FileStore loads and saves the settings document as a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore for path, or for DefaultPath when path is empty.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileStore{path: path}, nil
}

// DefaultPath returns ~/.promptdeck/settings.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".promptdeck", "settings.json"), nil
}

// Path returns the file the store reads and writes.
func (f *FileStore) Path() string { return f.path }

// Load reads the settings file. A missing file yields DefaultSettings.
func (f *FileStore) Load() (Settings, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("could not read settings file %q: %w", f.path, err)
	}
	return Decode(data)
}

// Save writes s to the settings file, replacing it atomically.
func (f *FileStore) Save(s Settings) error {
	if s.Commands == nil {
		s.Commands = []Command{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".settings-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}

// Decode validates a settings document against the embedded schema and decodes it.
func Decode(data []byte) (Settings, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return Settings{}, fmt.Errorf("error parsing settings: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return Settings{}, fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("error parsing settings: %w", err)
	}
	if s.Commands == nil {
		s.Commands = []Command{}
	}
	seen := make(map[string]bool, len(s.Commands))
	for _, c := range s.Commands {
		if seen[c.Name] {
			return Settings{}, fmt.Errorf("invalid settings: %w", &DuplicateNameError{Name: c.Name})
		}
		seen[c.Name] = true
	}
	return s, nil
}
