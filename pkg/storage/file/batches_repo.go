package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tna-cash/treatsend/pkg/storage/repository"
)

// batchRepository stores each batch as <dir>/<id>.json.
type batchRepository struct {
	mu  sync.RWMutex
	dir string
}

// NewBatchRepository creates a file-backed batch repository rooted at
// dir.
func NewBatchRepository(dir string) repository.BatchRepository {
	return &batchRepository{dir: dir}
}

func (r *batchRepository) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}

func (r *batchRepository) Save(ctx context.Context, batch *repository.BatchRecord) error {
	if batch == nil || batch.ID == "" {
		return fmt.Errorf("batch record requires an ID")
	}
	if strings.ContainsAny(batch.ID, "/\\") {
		return fmt.Errorf("invalid batch ID %q", batch.ID)
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return os.WriteFile(r.path(batch.ID), data, 0644)
}

func (r *batchRepository) Get(ctx context.Context, id string) (*repository.BatchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var batch repository.BatchRecord
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("corrupt batch record %s: %w", id, err)
	}
	return &batch, nil
}

func (r *batchRepository) List(ctx context.Context) ([]repository.BatchInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var infos []repository.BatchInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			continue
		}
		var batch repository.BatchRecord
		if err := json.Unmarshal(data, &batch); err != nil {
			// Skip corrupt records rather than failing the listing
			continue
		}
		infos = append(infos, batch.Info())
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].StartedAt.After(infos[j].StartedAt)
	})

	return infos, nil
}

func (r *batchRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}
