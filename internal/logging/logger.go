// Package logging provides the application-wide zerolog logger.
//
// The terminal UI owns stdout, so interactive runs log to a dated file next
// to the executable. Server runs log to stderr. Until Init is called every
// helper is a no-op, which keeps tests and library callers quiet.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	Level string

	// Format is console or json.
	Format string

	// File writes to movie-recommender-YYYY-MM-DD.log beside the executable
	// instead of Output.
	File bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

var (
	log     = zerolog.Nop()
	logFile *os.File
	mu      sync.RWMutex
)

// Init configures the global logger. It may be called again to reconfigure.
func Init(cfg Config) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var file *os.File
	if cfg.File {
		file, err = openLogFile()
		if err != nil {
			return err
		}
		out = file
	}

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05.000000",
			NoColor:    cfg.File,
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
	}
	logFile = file
	log = zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Info().Msg("=== Movie Recommender Log Started ===")

	return nil
}

func openLogFile() (*os.File, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exeDir := filepath.Dir(exePath)
	logPath := filepath.Join(exeDir, fmt.Sprintf("movie-recommender-%s.log", time.Now().Format("2006-01-02")))

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With returns a child logger context.
func With() zerolog.Context {
	l := Logger()
	return l.With()
}

// Debug starts a debug level event.
func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

// Info starts an info level event.
func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

// Warn starts a warn level event.
func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

// Error starts an error level event.
func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}

// Close closes the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		log.Info().Msg("=== Movie Recommender Log Ended ===")
		logFile.Close()
		logFile = nil
	}
	log = zerolog.Nop()
}
