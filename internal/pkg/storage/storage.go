package storage

import (
	"context"
	"io"
)

// FileStorage keeps generated documents such as archived payroll sheets.
type FileStorage interface {
	// Upload stores file under path and returns the cleaned key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
