// Package logging configures the process-wide structured logger.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu       sync.RWMutex
	current  = New(os.Stderr, log.WarnLevel)
	logFile  *os.File
	levelSet = log.WarnLevel
)

// New builds a logger writing to w at level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, log.FatalLevel)
}

// Default returns the process logger.
func Default() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetDefault replaces the process logger.
func SetDefault(l *log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// For returns the process logger prefixed with a component name.
func For(component string) *log.Logger {
	return Default().WithPrefix(component)
}

// ParseLevel accepts debug, info, warn, error and fatal.
func ParseLevel(s string) (log.Level, error) {
	if s == "" {
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("parsing log level: %w", err)
	}
	return lvl, nil
}

// Init points the process logger at a dated file in dir, in addition to
// stderr for warnings and above. Call Close on shutdown.
func Init(dir string, level log.Level) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	name := fmt.Sprintf("naming-nosferatu-%s.log", time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	mu.Lock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	levelSet = level
	current = New(io.MultiWriter(f, levelFilter{w: os.Stderr}), level)
	mu.Unlock()
	return nil
}

// Level returns the level last passed to Init.
func Level() log.Level {
	mu.RLock()
	defer mu.RUnlock()
	return levelSet
}

// Close flushes and closes the log file opened by Init.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	current = New(os.Stderr, log.WarnLevel)
}

// levelFilter forwards only WARN/ERRO/FATA lines so the terminal stays quiet
// while the file gets everything.
type levelFilter struct {
	w io.Writer
}

func (f levelFilter) Write(p []byte) (int, error) {
	for _, tag := range [][]byte{[]byte("WARN"), []byte("ERRO"), []byte("FATA")} {
		if bytes.Contains(p, tag) {
			return f.w.Write(p)
		}
	}
	return len(p), nil
}
