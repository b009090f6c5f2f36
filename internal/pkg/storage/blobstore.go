package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore is the boundary to the object storage holding uploaded cover
// images. Records reference blobs by key; a blob is referenced by at most one
// post and is deleted explicitly when superseded.
type BlobStore interface {
	// GenerateUploadURL issues a one-time URL the caller PUTs the blob to.
	GenerateUploadURL(ctx context.Context, key, contentType string) (string, error)
	// ResolveURL returns a fetchable URL for an existing blob.
	ResolveURL(ctx context.Context, key string) (string, error)
	// Delete removes a blob. Used as best-effort cleanup for superseded covers.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob is present.
	Exists(ctx context.Context, key string) (bool, error)
}

const (
	coverKeyPrefix = "covers/"

	// UploadURLTTL bounds how long an issued upload URL stays usable.
	UploadURLTTL = 15 * time.Minute

	resolveURLTTL = 1 * time.Hour
)

// NewCoverKey builds a fresh object key for an uploaded cover image. The
// extension is derived from the declared content type.
func NewCoverKey(contentType string) string {
	return fmt.Sprintf("%s%s%s", coverKeyPrefix, uuid.New().String(), extensionFor(contentType))
}

// IsCoverKey reports whether key points into the cover namespace. Guards
// delete calls against keys coming from client input.
func IsCoverKey(key string) bool {
	return strings.HasPrefix(key, coverKeyPrefix) && len(key) > len(coverKeyPrefix)
}

func extensionFor(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/avif":
		return ".avif"
	default:
		return ".bin"
	}
}
