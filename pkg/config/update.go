package config

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

// EnsureDashboardToken generates a dashboard token if none is set.
// Returns the new token and true when one was generated.
func (c *Config) EnsureDashboardToken() (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(c.Dashboard.Token) != "" {
		return "", false, nil
	}

	token, err := generateToken(24)
	if err != nil {
		return "", false, err
	}

	c.Dashboard.Token = token
	return token, true, nil
}

// RotateDashboardToken replaces the dashboard token with a fresh one.
func (c *Config) RotateDashboardToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, err := generateToken(24)
	if err != nil {
		return "", err
	}

	c.Dashboard.Token = token
	return token, nil
}

func generateToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ApplyUpdate copies the editable sections of update into c. Secrets
// are applied separately through ApplySecretUpdates so masked values
// round-tripping from the dashboard never overwrite real ones.
func (c *Config) ApplyUpdate(update *Config, secretUpdates map[string]string) {
	if c == nil || update == nil {
		return
	}

	c.mu.Lock()

	c.Relay = update.Relay
	c.Transfer = update.Transfer

	c.Dashboard.Enabled = update.Dashboard.Enabled
	c.Dashboard.Host = update.Dashboard.Host
	c.Dashboard.Port = update.Dashboard.Port

	c.Storage.Type = update.Storage.Type
	c.Storage.FilePath = update.Storage.FilePath
	c.Storage.SSLEnabled = update.Storage.SSLEnabled

	c.Log = update.Log

	c.mu.Unlock()

	ApplySecretUpdates(c, secretUpdates)
}
