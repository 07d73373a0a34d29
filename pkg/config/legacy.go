package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// loadLegacyConfig reads a plaintext config.json left behind by
// releases that predate the encrypted store. Fields absent from the
// file keep their defaults.
func loadLegacyConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("legacy config %s is not valid JSON: %w", path, err)
	}
	return cfg, nil
}

// migrateLegacyConfig imports a plaintext config.json into the
// encrypted store on first run. After a successful import the file is
// renamed to .bak so the migration happens exactly once; when the
// rename fails a marker file is dropped beside it instead.
func migrateLegacyConfig(ctx context.Context, store *configStore, legacyPath string) (*Config, bool, error) {
	if legacyPath == "" {
		return nil, false, nil
	}

	cfg, err := loadLegacyConfig(legacyPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if err := store.save(ctx, cfg); err != nil {
		return nil, false, err
	}

	if err := os.Rename(legacyPath, legacyPath+".bak"); err != nil {
		_ = os.WriteFile(legacyPath+".migrated", []byte("config migrated to the treatsend config store"), 0644)
	}

	return cfg, true, nil
}
