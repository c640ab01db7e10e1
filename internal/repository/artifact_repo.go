package repository

import (
	"context"
	"errors"
)

// ErrArtifactNotFound is returned by Load when no artifact has the given name.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactRepository defines the interface for the shared output directory
// that holds purged stylesheets.
type ArtifactRepository interface {
	// Save writes the artifact under name, replacing any previous content.
	Save(ctx context.Context, name string, data []byte) error
	// Load returns the content of a previously saved artifact.
	Load(ctx context.Context, name string) ([]byte, error)
}
