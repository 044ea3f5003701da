// Package audit writes the append-only submission trail: one JSON line per
// attempt, never read back by the service.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/riztech/portfolio-api/internal/models"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is an append-only sink for submission records. A mutex serializes
// appends so concurrent requests never interleave partial lines.
type Log struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// New creates a file-backed audit log at path with size-based rotation.
func New(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     90, // days
		Compress:   true,
	}

	return &Log{w: writer, c: writer}, nil
}

// NewWithWriter creates an audit log over an arbitrary writer. Used by tests
// and by the stdout fallback when no log path is configured.
func NewWithWriter(w io.Writer) *Log {
	return &Log{w: w}
}

// Append writes one submission record as a JSON line. The record is
// write-once: nothing in the service reads the log back.
func (l *Log) Append(entry models.SubmissionLogEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.w.Write(line); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file, if any.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.c == nil {
		return nil
	}
	return l.c.Close()
}
