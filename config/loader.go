package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	mu       sync.Mutex
	instance Config
)

// Load builds the process configuration once: each file is read in order
// (YAML or .env, empty paths skipped) and environment variables win over all
// of them. Later calls return the same Config until Reset.
func Load(paths ...string) (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance, nil
	}

	cfg := &config{}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	instance = cfg
	return instance, nil
}

// Reset forgets the loaded configuration. Tests call it between environments.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}

// MustGet returns the configuration loaded by Load.
func MustGet() Config {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		panic(errors.New("config not loaded, call Load first"))
	}
	return instance
}
