package ports

import (
	"context"
	"io"

	"esxforge/internal/domain"
)

// ArtifactStore publishes encoded plugins to remote storage
type ArtifactStore interface {
	// Put uploads r under key. Existing keys are not overwritten.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (domain.ArtifactInfo, error)

	// Driver names the backend, e.g. "s3"
	Driver() string
}
