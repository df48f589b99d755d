// Package logger builds the structured logger used across the simulator.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"

	"github.com/shreekarashastry/ledgersim/config"
)

// New returns a logrus logger for cfg. When cfg.File is set, output goes to
// a size rotated file instead of stderr.
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfgOr(cfg.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetOutput(output(cfg))

	switch strings.ToLower(cfgOr(cfg.Format, "text")) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
			DisableColors:   cfg.File != "",
		})
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	return log, nil
}

func output(cfg config.LogConfig) io.Writer {
	if cfg.File == "" {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		LocalTime:  true,
	}
}

func cfgOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
