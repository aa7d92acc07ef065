// Package storage defines the corpus directory abstraction.
package storage

import "time"

// FileInfo is lightweight metadata for one recipe document on disk.
type FileInfo struct {
	Path      string
	Checksum  string
	UpdatedAt time.Time
}

// Provider is the interface for corpus file operations.
type Provider interface {
	// List returns metadata for every recipe document under dir (relative
	// to the corpus root).
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the document at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the document at path.
	Delete(path string) error
}
