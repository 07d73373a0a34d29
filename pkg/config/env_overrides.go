package config

import (
	"os"
	"strconv"
	"strings"
)

// applyEnvOverrides applies selected runtime environment variables into config.
// It returns true when any value changed so callers can persist updated config.
func applyEnvOverrides(cfg *Config) bool {
	if cfg == nil {
		return false
	}

	changed := false

	setString := func(dst *string, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		if *dst != value {
			*dst = value
			changed = true
		}
	}
	setInt := func(dst *int, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		if *dst != parsed {
			*dst = parsed
			changed = true
		}
	}
	setBool := func(dst *bool, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return
		}
		if *dst != parsed {
			*dst = parsed
			changed = true
		}
	}

	env := func(keys ...string) string {
		for _, key := range keys {
			if value := strings.TrimSpace(os.Getenv(key)); value != "" {
				return value
			}
		}
		return ""
	}

	setString(&cfg.Relay.URL, env("TREATSEND_RELAY_URL"))
	setString(&cfg.Transfer.RecipientNpub, env("TREATSEND_RECIPIENT_NPUB"))
	setString(&cfg.Transfer.RoutingTag, env("TREATSEND_ROUTING_TAG"))

	setString(&cfg.Storage.Type, env("TREATSEND_STORAGE_TYPE"))
	setString(&cfg.Storage.DatabaseURL, env("TREATSEND_STORAGE_DATABASE_URL", "TREATSEND_CONFIG_DATABASE_URL"))
	setString(&cfg.Storage.FilePath, env("TREATSEND_STORAGE_FILE_PATH"))
	setBool(&cfg.Storage.SSLEnabled, env("TREATSEND_STORAGE_SSL_ENABLED"))

	setString(&cfg.Dashboard.Token, env("TREATSEND_DASHBOARD_TOKEN", "DASHBOARD_TOKEN"))
	setString(&cfg.Dashboard.Host, env("TREATSEND_DASHBOARD_HOST"))
	setInt(&cfg.Dashboard.Port, env("TREATSEND_DASHBOARD_PORT"))
	setBool(&cfg.Dashboard.Enabled, env("TREATSEND_DASHBOARD_ENABLED"))

	setString(&cfg.Log.Level, env("TREATSEND_LOG_LEVEL"))

	return changed
}
