package storage

import "context"

// Provider defines the interface for blob-storage backends holding raw POS
// export files.
type Provider interface {
	// Fetch downloads the object at key to localPath and returns the local path
	Fetch(ctx context.Context, key, localPath string) (string, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}
