package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a tree to indented JSON bytes.
func Marshal(root *Entity) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(root, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a tree as JSON to w.
func Write(root *Entity, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a tree to a JSON file.
func WriteFile(root *Entity, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(root, f)
}

// ReadFile reads a JSON file and returns the decoded, validated tree.
func ReadFile(path string) (*Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSON tree from r and validates it. Blank names below the
// root are replaced by their fallbacks (see [FillNames]).
func Read(r io.Reader) (*Entity, error) {
	var root Entity
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	FillNames(&root)
	if err := Validate(&root); err != nil {
		return nil, err
	}
	return &root, nil
}
