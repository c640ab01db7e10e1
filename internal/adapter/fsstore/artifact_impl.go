package fsstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/user/css-purge-service/internal/repository"
)

// ArtifactRepoImpl stores artifacts as flat files in one shared directory.
// Writes are not locked; concurrent saves of the same name race and the
// last writer wins.
type ArtifactRepoImpl struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
}

// NewArtifactRepo creates a store rooted at dir on fsys.
func NewArtifactRepo(fsys afero.Fs, dir string, logger *zap.Logger) *ArtifactRepoImpl {
	return &ArtifactRepoImpl{fs: fsys, dir: dir, logger: logger}
}

// Save writes data under name, creating the directory on first use.
func (r *ArtifactRepoImpl) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := r.path(name)
	if err != nil {
		return err
	}
	if err := r.ensureDir(); err != nil {
		return err
	}
	if err := afero.WriteFile(r.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	return nil
}

// Load reads a previously written artifact.
func (r *ArtifactRepoImpl) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := r.path(name)
	if err != nil {
		return nil, repository.ErrArtifactNotFound
	}
	data, err := afero.ReadFile(r.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repository.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}
	return data, nil
}

func (r *ArtifactRepoImpl) ensureDir() error {
	exists, err := afero.DirExists(r.fs, r.dir)
	if err != nil {
		return fmt.Errorf("stat output directory: %w", err)
	}
	if exists {
		return nil
	}
	if err := r.fs.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	r.logger.Info("created output directory", zap.String("dir", r.dir))
	return nil
}

// path keeps every artifact a direct child of the output directory.
func (r *ArtifactRepoImpl) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	return filepath.Join(r.dir, name), nil
}
