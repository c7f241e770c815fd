// Package storage specifies the object-storage collaborator at its interface
// boundary. Workout items reference exercise images by object key; the
// actual bytes never pass through this system, only presigned URLs do.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// MediaStorage is the interface to the object store holding exercise images.
type MediaStorage interface {
	// PresignUpload returns a temporary URL allowing a direct PUT of the
	// object to the storage provider.
	PresignUpload(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error)

	// PresignDownload returns a temporary URL allowing a direct GET of the
	// object from the storage provider.
	PresignDownload(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// NewImageKey mints an object key for a coach's exercise image.
func NewImageKey(coachID string) string {
	return "images/" + coachID + "/" + uuid.NewString()
}
