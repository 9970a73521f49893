package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalProvider writes objects under a base directory.
type LocalProvider struct {
	basePath string
}

// NewLocalProvider creates basePath with its parents.
func NewLocalProvider(basePath string) (*LocalProvider, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalProvider{basePath: basePath}, nil
}

// BasePath returns the storage root.
func (p *LocalProvider) BasePath() string {
	return p.basePath
}

// Upload writes the object through a temporary file and renames it into
// place, so a failed write never leaves a partial image behind. Existing
// files are replaced.
func (p *LocalProvider) Upload(ctx context.Context, input UploadInput) (UploadOutput, error) {
	if err := ctx.Err(); err != nil {
		return UploadOutput{}, err
	}

	fullPath := filepath.Join(p.basePath, input.Folder, input.Filename)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return UploadOutput{}, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+input.Filename+".*")
	if err != nil {
		return UploadOutput{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, input.File)
	if err != nil {
		tmp.Close()
		return UploadOutput{}, fmt.Errorf("failed to write file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return UploadOutput{}, fmt.Errorf("failed to write file content: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return UploadOutput{}, fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return UploadOutput{}, fmt.Errorf("failed to move file into place: %w", err)
	}

	return UploadOutput{
		URL:  fullPath,
		Path: filepath.ToSlash(filepath.Join(input.Folder, input.Filename)),
		Size: size,
	}, nil
}

// Exists checks if a file exists.
func (p *LocalProvider) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(filepath.Join(p.basePath, path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Delete removes a file. Missing files are not an error.
func (p *LocalProvider) Delete(ctx context.Context, path string) error {
	err := os.Remove(filepath.Join(p.basePath, path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (p *LocalProvider) Name() string {
	return "local"
}
