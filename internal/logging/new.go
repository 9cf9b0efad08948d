package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"

	FormatText = "text"
	FormatJSON = "json"
)

// Options selects the logger backend, its minimum level and output format.
type Options struct {
	Backend string
	Level   string
	Format  string
}

func parseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if level == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// New builds a Logger writing to w.
func New(opts Options, w io.Writer) (Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(opts.Backend) {
	case "", BackendSlog:
		ho := &slog.HandlerOptions{Level: level}
		var h slog.Handler
		if opts.Format == FormatJSON {
			h = slog.NewJSONHandler(w, ho)
		} else {
			h = slog.NewTextHandler(w, ho)
		}
		return NewSlogLogger(slog.New(h)), nil

	case BackendZap:
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		var enc zapcore.Encoder
		if opts.Format == FormatJSON {
			enc = zapcore.NewJSONEncoder(ec)
		} else {
			enc = zapcore.NewConsoleEncoder(ec)
		}
		core := zapcore.NewCore(enc, zapcore.AddSync(w), zapLevel(level))
		return NewZapLogger(zap.New(core)), nil

	default:
		return nil, fmt.Errorf("unknown logger backend %q", opts.Backend)
	}
}

func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l <= slog.LevelDebug:
		return zapcore.DebugLevel
	case l <= slog.LevelInfo:
		return zapcore.InfoLevel
	case l <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
