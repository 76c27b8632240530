// Package store persists the command tree as a pretty-printed JSON document.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atinylittleshell/yarn-autocomplete/internal/tree"
)

// ErrMalformed is returned by Load when the document exists but is not a
// valid command tree.
var ErrMalformed = errors.New("malformed command tree")

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the whole tree. A missing document yields an empty tree.
func (s *Store) Load() (tree.Tree, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return tree.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading command tree: %w", err)
	}

	var t tree.Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}
	if t == nil {
		t = tree.New()
	}

	return t, nil
}

// Save overwrites the document with t, indented by two spaces. The write is
// a direct overwrite; a crash mid-write can leave a truncated file. It
// returns the number of bytes written.
func (s *Store) Save(t tree.Tree) (int, error) {
	if t == nil {
		t = tree.New()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return 0, fmt.Errorf("encoding command tree: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return 0, fmt.Errorf("creating store directory: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return 0, fmt.Errorf("writing command tree: %w", err)
	}

	return buf.Len(), nil
}
