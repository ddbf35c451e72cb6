package listing

import "context"

// AllowedImageTypes is the whitelist of image content types accepted at
// intake. SVG is excluded because it can carry scripts.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// MaxImageSize is the upload size cap in bytes (10MB)
const MaxImageSize = 10 * 1024 * 1024

// ObjectStorageService defines the interface for image asset storage.
// Implemented by the infrastructure layer (S3 or a local stub).
type ObjectStorageService interface {
	// PutObject stores an object under the given key
	PutObject(ctx context.Context, storageKey string, data []byte, contentType string) error

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)

	// PublicURL returns the externally reachable URL for a stored object
	PublicURL(storageKey string) string
}
