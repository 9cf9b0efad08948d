package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophprofile/internal/flagx"
)

const (
	DefaultDataDir = ".gophprofile"
	dbFileName     = "profile.db"
	keyFileName    = "device.key"
)

// Config holds runtime settings for the gophprofile CLI.
type Config struct {
	DataDir       string
	StorageDriver string
	StorageDSN    string
	KeyFile       string
	Insecure      bool

	Logger    string
	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with defaults. Paths that depend on DataDir are
// resolved later by finalize.
func (c *Config) LoadDefaults() {
	c.DataDir = DefaultDataDir
	c.StorageDriver = "sqlite"
	c.StorageDSN = ""
	c.KeyFile = ""
	c.Insecure = false
	c.Logger = "slog"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

func (c *Config) finalize() {
	if c.StorageDSN == "" && c.StorageDriver == "sqlite" {
		c.StorageDSN = filepath.Join(c.DataDir, dbFileName)
	}
	if c.KeyFile == "" {
		c.KeyFile = filepath.Join(c.DataDir, keyFileName)
	}
}

// LoadConfig applies defaults, then the config file named by -c/-config (if
// any), then command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, flagx.ConfigFilePath(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	cfg.finalize()
	return cfg, nil
}
