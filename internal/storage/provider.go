// Package storage defines the read-only corpus file-system abstraction.
//
// The checker never mutates the tree it validates, so the provider
// deliberately exposes no write operations.
package storage

import "github.com/starford/ansuz/internal/models"

// Provider is the interface for corpus file access.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to the
	// corpus root), sorted by slash-separated relative path.
	List(dir string) ([]models.DocumentMeta, error)
	// Read returns the raw bytes of the file at path (relative to the corpus root).
	Read(path string) ([]byte, error)
	// Exists reports whether a file (of any type) exists at path.
	Exists(path string) bool
}
