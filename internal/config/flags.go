package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophprofile/internal/flagx"
)

var knownFlags = []string{"-d", "-s", "-dsn", "-k", "-l", "-insecure"}

// parseFlags overlays cfg with the flags it recognises in args. Unknown
// arguments are filtered out beforehand with flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "storage driver: sqlite, pgx or memory")
	fs.StringVar(&cfg.StorageDSN, "dsn", cfg.StorageDSN, "storage DSN")
	fs.StringVar(&cfg.KeyFile, "k", cfg.KeyFile, "device key file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.Insecure, "insecure", cfg.Insecure, "store the profile without sealing it")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}
