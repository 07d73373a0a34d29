package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tna-cash/treatsend/pkg/storage/repository"
)

// FileStorage implements the storage.Storage interface using one JSON
// file per batch under <workspace>/batches.
type FileStorage struct {
	workspacePath string
	batches       repository.BatchRepository
}

// NewFileStorage creates a new file-based storage instance.
func NewFileStorage(filePath string) (*FileStorage, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path is required for file-based storage")
	}

	batchesDir := filepath.Join(filePath, "batches")
	if err := os.MkdirAll(batchesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create batches directory: %w", err)
	}

	return &FileStorage{
		workspacePath: filePath,
		batches:       NewBatchRepository(batchesDir),
	}, nil
}

// Connect initializes the file-based storage. Directories are created
// at construction, so this is a no-op.
func (fs *FileStorage) Connect(ctx context.Context) error {
	return nil
}

// Close closes the file-based storage (no-op for files).
func (fs *FileStorage) Close() error {
	return nil
}

// Ping verifies the workspace is still accessible.
func (fs *FileStorage) Ping(ctx context.Context) error {
	if _, err := os.Stat(fs.workspacePath); err != nil {
		return fmt.Errorf("workspace not accessible: %w", err)
	}
	return nil
}

// Batches returns the batch history repository.
func (fs *FileStorage) Batches() repository.BatchRepository {
	return fs.batches
}
