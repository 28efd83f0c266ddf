package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileUploader stores uploaded images under opaque keys and serves them
// from a public base URL.
type FileUploader interface {
	// Upload streams the file into storage under a fresh key within the
	// given prefix ("courts", "news", "users") and returns the key.
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, prefix string) (string, error)

	Delete(ctx context.Context, key string) error

	PublicURL(key string) string
}

// objectKey builds a collision-free key, keeping the original extension so
// content type inference keeps working on the CDN side.
func objectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.NewString(), ext)
}
