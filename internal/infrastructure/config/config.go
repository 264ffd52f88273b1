package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/codepulse/internal/util"
)

// Database holds libsql database configuration. URL defaults to a local
// file database under the XDG data dir; a Turso URL plus auth token
// switches to remote mode.
type Database struct {
	URL       string `envconfig:"CODEPULSE_DATABASE_URL"`
	AuthToken string `envconfig:"CODEPULSE_AUTH_TOKEN"`
}

// Server holds web server configuration. TimezoneOffsetMin is the
// default offset (minutes east of UTC) used for day bucketing when a
// request doesn't carry its own.
type Server struct {
	Port              int `envconfig:"CODEPULSE_PORT" default:"8080"`
	TimezoneOffsetMin int `envconfig:"CODEPULSE_TZ_OFFSET" default:"0"`
}

// Hook holds configuration for the hook event producer.
type Hook struct {
	Agent string `envconfig:"CODEPULSE_AGENT" default:"claude-code"`
}

// App is the full application configuration.
type App struct {
	Database Database
	Server   Server
	Hook     Hook
}

// Load reads configuration from environment variables, filling in the
// local database default when no URL is set.
func Load() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Hook); err != nil {
		return nil, err
	}

	if cfg.Database.URL == "" {
		url, err := defaultDatabaseURL()
		if err != nil {
			return nil, err
		}
		cfg.Database.URL = url
	}

	return &cfg, nil
}

func defaultDatabaseURL() (string, error) {
	dataDir, err := util.GetXDGDataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return "file:" + filepath.Join(dataDir, "codepulse.db"), nil
}
