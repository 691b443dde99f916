package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogWriter returns a rotating file writer when a filename is provided,
// otherwise a console writer on stderr.
func newLogWriter(filename string) (io.Writer, error) {
	if filename == "" {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, nil
	}

	err := os.MkdirAll(filepath.Dir(filename), 0o755)
	if err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}, nil
}

// setupLogger configures the global logger with the provided level and output file.
func setupLogger(level string, filename string) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("parsing log level: %w", err)
		}
		lvl = parsed
	}

	w, err := newLogWriter(filename)
	if err != nil {
		return err
	}

	log.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()

	return nil
}
