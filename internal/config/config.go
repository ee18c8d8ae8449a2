// Package config loads client configuration from environment variables.
package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds everything the client needs at startup.
type Config struct {
	// APIBaseURL is the backend root, including the version prefix.
	APIBaseURL string `env:"AMIGOS_API_URL, default=http://localhost:8080/api/v1"`

	// HTTPTimeout bounds every outbound request.
	HTTPTimeout time.Duration `env:"AMIGOS_HTTP_TIMEOUT, default=15s"`

	LogLevel  string `env:"AMIGOS_LOG_LEVEL, default=info"`
	LogPretty bool   `env:"AMIGOS_LOG_PRETTY, default=true"`

	// DataDir is where local state lives. Defaults to ~/.amigos.
	DataDir string `env:"AMIGOS_DATA_DIR"`

	// CredentialBackend selects the credential store: auto, keyring or
	// sqlite. "auto" probes the OS keyring and falls back to sqlite.
	CredentialBackend string `env:"AMIGOS_CREDENTIAL_BACKEND, default=auto"`
}

// Load reads the configuration from the environment and fills in the
// default data directory when none is set.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = filepath.Join(homeDir, ".amigos")
	}

	return &cfg, nil
}
