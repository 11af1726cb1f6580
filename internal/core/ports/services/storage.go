package services

import (
	"context"
	"io"
)

// FileStorage persists uploaded document images (photos, Aadhaar/PAN scans,
// payment proofs) and returns an opaque reference that is stored verbatim on
// the owning record.
type FileStorage interface {
	// Save writes the content under a generated key within the category
	// (e.g. "kyc", "proofs") and returns the stored reference.
	Save(ctx context.Context, category, filename string, content io.Reader) (string, error)

	// Open reads back a previously stored reference.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)

	// Remove deletes a stored reference. Missing references are not an error.
	Remove(ctx context.Context, ref string) error
}
