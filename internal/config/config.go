package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the daemon settings. Everything has a working default so a
// bare `porter daemon` runs without a config file.
type Config struct {
	Socket    string `yaml:"socket"`     // control socket path
	DBPath    string `yaml:"db_path"`    // sqlite database path
	LogLevel  string `yaml:"log_level"`  // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `yaml:"pretty_log"` // true => colored dev output, false => JSON
}

func Default() Config {
	return Config{
		Socket:    "/tmp/porter.sock",
		DBPath:    "porter.db",
		LogLevel:  "info",
		PrettyLog: true,
	}
}

// Load reads a YAML config file, filling unset fields from defaults. An
// empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Socket == "" {
		cfg.Socket = Default().Socket
	}
	if cfg.DBPath == "" {
		cfg.DBPath = Default().DBPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = Default().LogLevel
	}
	return cfg, nil
}
