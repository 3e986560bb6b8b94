package storage

import (
	"context"
	"io"
	"io/fs"
	"time"
)

// FileInfo represents metadata about a tree entry
type FileInfo struct {
	Path         string
	Size         int64
	ModTime      time.Time
	Mode         fs.FileMode
	RelativePath string
}

// IsDir reports whether the entry is a directory
func (f FileInfo) IsDir() bool {
	return f.Mode.IsDir()
}

// IsRegular reports whether the entry is a regular file.
// Symlinks, devices, sockets and named pipes are not.
func (f FileInfo) IsRegular() bool {
	return f.Mode.IsRegular()
}

// Backend defines the read operations a tree scan needs
type Backend interface {
	// List returns every entry below path recursively, without following symlinks
	List(ctx context.Context, path string) ([]FileInfo, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Root returns the absolute root the backend reads from
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
