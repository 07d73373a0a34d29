package config

import "strings"

type secretAccessor struct {
	Path string
	Get  func(*Config) string
	Set  func(*Config, string)
}

// The mnemonic is intentionally absent here: it is never part of the
// config and never persisted, so there is nothing to mask or update.
var secretAccessors = []secretAccessor{
	{
		Path: "dashboard.token",
		Get:  func(c *Config) string { return c.Dashboard.Token },
		Set:  func(c *Config, v string) { c.Dashboard.Token = v },
	},
	{
		Path: "storage.database_url",
		Get:  func(c *Config) string { return c.Storage.DatabaseURL },
		Set:  func(c *Config, v string) { c.Storage.DatabaseURL = v },
	},
}

func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 5 {
		return "*****" + value
	}
	return "*****" + value[len(value)-5:]
}

func SecretMaskMap(cfg *Config) map[string]string {
	result := make(map[string]string)
	if cfg == nil {
		return result
	}
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	for _, accessor := range secretAccessors {
		value := accessor.Get(cfg)
		if value != "" {
			result[accessor.Path] = MaskSecret(value)
		}
	}
	return result
}

func ApplySecretUpdates(cfg *Config, updates map[string]string) {
	if cfg == nil || len(updates) == 0 {
		return
	}
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	for _, accessor := range secretAccessors {
		if value, ok := updates[accessor.Path]; ok && strings.TrimSpace(value) != "" {
			accessor.Set(cfg, strings.TrimSpace(value))
		}
	}
}

func ClearSecrets(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	for _, accessor := range secretAccessors {
		accessor.Set(cfg, "")
	}
}
