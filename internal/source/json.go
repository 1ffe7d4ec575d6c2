// Package source reads and writes the JSON source files under
// reference_information. Loading failures are reported as *LoadError so
// callers can tell a missing or malformed source apart from downstream
// pipeline errors.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadError reports a source file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("source: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ReadJSON decodes the JSON file at path into v. Any failure, from a
// missing file to malformed JSON, is returned as a *LoadError carrying the
// path and the underlying cause.
func ReadJSON(path string, v any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return &LoadError{Path: path, Err: fmt.Errorf("file is empty")}
	}
	if err := json.Unmarshal(content, v); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	return nil
}

// WriteJSON marshals v with four-space indentation and writes it to path,
// creating parent directories as needed. The file is fully replaced.
func WriteJSON(path string, v any) error {
	content, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("source: encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("source: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("source: write %s: %w", path, err)
	}
	return nil
}
