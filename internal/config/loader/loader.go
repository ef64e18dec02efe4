// Package loader reads user tabline configuration from files.
//
// Three formats are supported: TOML, JSON, and Lua. The Lua form is the
// richest; it can declare buffer groups with predicate functions. All
// loaders return the configuration as a nested map ready for the merge
// layer stack.
package loader

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (map[string]any, error)
}

// ReaderLoader is the interface for loaders that read from io.Reader.
type ReaderLoader interface {
	// LoadFromReader reads configuration from a reader.
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// ForPath returns a loader selected by the path's extension.
func ForPath(path string) (Loader, error) {
	switch filepath.Ext(path) {
	case ".toml":
		return NewTOMLLoader(path), nil
	case ".json":
		return NewJSONLoader(path), nil
	case ".lua":
		return NewLuaLoader(path), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string

	// Message describes the failure.
	Message string

	// Err is the underlying parser error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
