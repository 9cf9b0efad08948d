// Package config loads runtime configuration for the gophprofile CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags, which override earlier values.
//
// StorageDSN and KeyFile left empty after all sources are applied are placed
// inside DataDir.
//
// Supported flags
//
//	-d string     data directory
//	-s string     storage driver: sqlite, pgx or memory
//	-dsn string   storage DSN (file path for sqlite, URL for pgx)
//	-k string     device key file
//	-l string     log level: debug, info, warn, error
//	-insecure     store the profile without sealing it
//
// # File schema
//
//	data_dir: .gophprofile
//	storage_driver: sqlite
//	storage_dsn: ""
//	key_file: ""
//	insecure: false
//	logger: slog
//	log_level: info
//	log_format: text
package config
