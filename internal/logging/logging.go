// Package logging builds the charmbracelet loggers used across the overworld.
// Interactive sessions own the terminal, so their logs go to a rotating file;
// the SSH server logs to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vovakirdan/tui-overworld/internal/config"
)

// Options configures a logger.
type Options struct {
	Prefix     string
	Level      string
	File       string // empty = write to Stderr
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Stderr     io.Writer // console target when File is empty; defaults to os.Stderr
}

// FromConfig builds Options from the log section of the configuration.
func FromConfig(cfg config.LogConfig, prefix string) Options {
	return Options{
		Prefix:     prefix,
		Level:      cfg.Level,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
	}
}

// New creates a logger and the closer for its sink.
// Close the returned closer on shutdown to release the log file.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = log.InfoLevel
	}

	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)

	if opts.File != "" {
		path := config.ExpandHome(opts.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, err
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			LocalTime:  true,
		}
		w, closer = rot, rot
	} else {
		w = opts.Stderr
		if w == nil {
			w = os.Stderr
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          opts.Prefix,
		Level:           level,
	})
	return logger, closer, nil
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
