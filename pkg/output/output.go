// Package output writes the version views as indented JSON files.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/orderedmap"
)

const (
	ByReleaseDateFile = "macos_versions_by_release_date.json"
	ByVersionFile     = "macos_versions_by_version_number.json"
)

// Marshal encodes v with four-space indentation and without HTML escaping,
// so links keep their literal "&" characters.
func Marshal(v any) ([]byte, error) {
	if m, ok := v.(*orderedmap.OrderedMap); ok {
		m.SetEscapeHTML(false)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteFile marshals v into dir/name, replacing any previous file, and
// returns the path written.
func WriteFile(dir, name string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("error marshaling %s: %w", name, err)
	}
	path := name
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("error creating output directory %s: %w", dir, err)
		}
		path = filepath.Join(dir, name)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("error writing JSON to file %s: %w", path, err)
	}
	return path, nil
}
