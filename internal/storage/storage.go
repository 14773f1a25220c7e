// Package storage uploads post images and returns their public URLs.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Object is a file to upload.
type Object struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores an object and returns a URL anyone can fetch it from.
type Uploader interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

// ObjectKey names an upload by a random UUID, keeping the original extension.
func ObjectKey(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		return uuid.NewString()
	}
	return uuid.NewString() + "." + ext
}
