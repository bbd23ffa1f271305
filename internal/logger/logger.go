// Package logger builds the zap loggers used by the calc command and server.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where and how to log.
type Config struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // json, console
	Output     string `yaml:"output"` // stderr, file, both
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
}

// DefaultConfig logs warnings and errors to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "console",
		Output: "stderr",
	}
}

// New creates a logger. A nil cfg means DefaultConfig. The returned close
// function flushes the logger and releases any log file; the logger must not
// be used after calling it.
func New(cfg *Config) (*zap.Logger, func(), error) {
	if cfg == nil {
		d := DefaultConfig()
		cfg = &d
	}

	level := zapcore.WarnLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console", "":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	var cores []zapcore.Core
	var w *lumberjack.Logger
	switch cfg.Output {
	case "stderr", "":
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
	case "file", "both":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("log output %q needs a file path", cfg.Output)
		}
		w = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(w), level))
		if cfg.Output == "both" {
			cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
		}
	default:
		return nil, nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	closeFn := func() {
		// Syncing stderr fails on some terminals and pipes.
		_ = log.Sync()
		if w != nil {
			_ = w.Close()
		}
	}
	return log, closeFn, nil
}
