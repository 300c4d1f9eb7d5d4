package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalProvider serves export files from a local directory, used for offline
// analysis runs and tests.
type LocalProvider struct {
	baseDir string
}

// NewLocalProvider creates a provider rooted at baseDir
func NewLocalProvider(baseDir string) *LocalProvider {
	return &LocalProvider{baseDir: baseDir}
}

// Fetch copies baseDir/key to localPath
func (p *LocalProvider) Fetch(ctx context.Context, key, localPath string) (string, error) {
	src, err := os.Open(filepath.Join(p.baseDir, key))
	if err != nil {
		return "", fmt.Errorf("failed to open local object %s: %w", key, err)
	}
	defer src.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create local file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("failed to copy %s: %w", key, err)
	}
	return localPath, nil
}

// GetProviderName returns the provider name
func (p *LocalProvider) GetProviderName() string {
	return "local"
}
