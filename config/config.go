// Package config resolves cmdref settings from the config file, the
// environment and a local .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cmdref/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// Dir is the directory name under XDG_CONFIG_HOME.
	Dir = "cmdref"
	// File is the config file name.
	File = "config.yml"

	// DataDir holds the store under the user's home directory.
	DataDir = ".cmdref"
)

type Config struct {
	StorePath string `yaml:"store_path,omitempty"`
	Backend   string `yaml:"backend,omitempty"`   // "json" | "sqlite"
	LogLevel  string `yaml:"log_level,omitempty"` // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `yaml:"pretty_log,omitempty"`
	LogFile   string `yaml:"log_file,omitempty"`
	Shell     string `yaml:"shell,omitempty"`
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, Dir, File)
}

// Load reads .env (if any), the config file (if any) and then the
// CMDREF_* environment variables, later sources winning.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(Path())
}

// LoadFile is Load without the .env step, reading the config file at path.
// A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.StorePath = getenv("CMDREF_FILE", cfg.StorePath)
	cfg.Backend = getenv("CMDREF_BACKEND", cfg.Backend)
	cfg.LogLevel = getenv("CMDREF_LOG_LEVEL", cfg.LogLevel)
	cfg.PrettyLog = mustBool("CMDREF_PRETTY_LOG", cfg.PrettyLog)
	cfg.LogFile = getenv("CMDREF_LOG_FILE", cfg.LogFile)
	cfg.Shell = getenv("CMDREF_SHELL", cfg.Shell)

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = "json"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.Shell == "" {
		c.Shell = getenv("SHELL", "sh")
	}
	if c.StorePath == "" {
		c.StorePath = DefaultStorePath(c.Backend)
	}
	c.StorePath = ExpandTilde(c.StorePath)
	c.LogFile = ExpandTilde(c.LogFile)
}

// Validate checks values that cannot be defaulted. Callers run it once every
// override, including command line flags, has been applied.
func (c *Config) Validate() error {
	switch c.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("invalid backend %q (want json or sqlite)", c.Backend)
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

// DefaultStorePath is ~/.cmdref/listings.json, or listings.db for sqlite.
func DefaultStorePath(backend string) string {
	name := "listings.json"
	if backend == "sqlite" {
		name = "listings.db"
	}
	return filepath.Join("~", DataDir, name)
}

// ExpandTilde replaces a leading ~ with the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
