package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the process-wide settings. It is resolved once at startup
// and never mutated afterward.
type Config struct {
	StoreDriver           string
	StoreConnectionString string
	Port                  int
	UploadsRoot           string
}

const (
	defaultStoreDriver = "sqlite3"
	defaultStoreDSN    = "students.db"
	defaultPort        = 8000
	defaultUploadsRoot = "Marksheets"
)

// Load resolves configuration from the environment, falling back to
// defaults for anything unset. Callers are expected to have loaded a .env
// file beforehand if they want one.
func Load() *Config {
	cfg := &Config{
		StoreDriver:           getEnv("STORE_DRIVER", defaultStoreDriver),
		StoreConnectionString: getEnv("STORE_CONNECTION_STRING", defaultStoreDSN),
		Port:                  defaultPort,
		UploadsRoot:           getEnv("UPLOADS_ROOT", defaultUploadsRoot),
	}
	if raw := os.Getenv("PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 {
			cfg.Port = port
		}
	}
	return cfg
}

// UploadsRootName is the base name of the uploads root directory. It is the
// token the list normalization recognizes and the first segment of every
// stored marks file path.
func (c *Config) UploadsRootName() string {
	return filepath.Base(filepath.Clean(c.UploadsRoot))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
