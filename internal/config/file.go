package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for decoding. Pointer fields tell an omitted key
// apart from a zero value, so a partial file only overrides what it names.
type fileConfig struct {
	DataDir       *string `json:"data_dir" yaml:"data_dir"`
	StorageDriver *string `json:"storage_driver" yaml:"storage_driver"`
	StorageDSN    *string `json:"storage_dsn" yaml:"storage_dsn"`
	KeyFile       *string `json:"key_file" yaml:"key_file"`
	Insecure      *bool   `json:"insecure" yaml:"insecure"`
	Logger        *string `json:"logger" yaml:"logger"`
	LogLevel      *string `json:"log_level" yaml:"log_level"`
	LogFormat     *string `json:"log_format" yaml:"log_format"`
}

// parseFile overlays cfg with the file at path. An empty path is a no-op.
func parseFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.StorageDriver, fc.StorageDriver)
	setString(&cfg.StorageDSN, fc.StorageDSN)
	setString(&cfg.KeyFile, fc.KeyFile)
	if fc.Insecure != nil {
		cfg.Insecure = *fc.Insecure
	}
	setString(&cfg.Logger, fc.Logger)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
