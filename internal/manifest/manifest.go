// Package manifest reads the parts of package.json that drive completion
// discovery: script names and the presence of a workspaces declaration.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/samber/lo"
)

const FileName = "package.json"

var (
	// ErrNotFound is returned when a directory has no package.json.
	ErrNotFound = errors.New("manifest not found")
	// ErrParse is returned when package.json exists but cannot be decoded.
	ErrParse = errors.New("invalid manifest")
)

// Manifest is a partial view of package.json. Unknown fields are ignored.
type Manifest struct {
	Name string `json:"name,omitempty"`
	// Scripts keeps bodies raw: only the names are used, so a body of any
	// JSON type is accepted.
	Scripts map[string]json.RawMessage `json:"scripts,omitempty"`
	// Workspaces is kept raw: its shape differs between package managers and
	// only its presence matters here.
	Workspaces json.RawMessage `json:"workspaces,omitempty"`
}

// Load reads and parses dir/package.json.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes package.json content.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &m, nil
}

// ScriptNames returns the script names in sorted order.
func (m *Manifest) ScriptNames() []string {
	names := lo.Keys(m.Scripts)
	sort.Strings(names)
	return names
}

// HasWorkspaces reports whether the manifest declares workspaces at all.
func (m *Manifest) HasWorkspaces() bool {
	raw := bytes.TrimSpace(m.Workspaces)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
