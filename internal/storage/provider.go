// Package storage defines the local file-system abstraction used for
// downloaded attachments and the Markdown vault.
package storage

// Provider is the interface for output file operations.
type Provider interface {
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root),
	// creating parent directories as needed.
	Write(path string, content []byte) error
	// Exists reports whether a regular file is present at path.
	Exists(path string) bool
	// Abs resolves path against the root.
	Abs(path string) (string, error)
	// Glob returns the root-relative paths matching pattern.
	Glob(pattern string) ([]string, error)
	// Remove deletes the file at path. A missing file is not an error.
	Remove(path string) error
}
