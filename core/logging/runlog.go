// Package logging — append-only CSV run log.
// Each pipeline step records one "messages,timestamps" row so operators can
// audit a day's runs without the process logs.
package logging

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
)

// TimestampFormat is the run log's timestamp layout (YYYY-MM-DD HH:MM:SS).
const TimestampFormat = "2006-01-02 15:04:05"

var runLogHeader = []string{"messages", "timestamps"}

// RunLog appends timestamped messages to a CSV file.
type RunLog struct {
	path   string
	prefix string
	clock  clockwork.Clock
	mu     sync.Mutex
}

// NewRunLog creates a RunLog writing to path. Messages are prefixed with the
// upper-cased environment, e.g. "(DEV): ". A nil clock uses real time.
func NewRunLog(path, env string, clock clockwork.Clock) *RunLog {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	prefix := ""
	if env != "" {
		prefix = "(" + strings.ToUpper(env) + "): "
	}
	return &RunLog{path: path, prefix: prefix, clock: clock}
}

// Path returns the CSV file location.
func (l *RunLog) Path() string {
	return l.path
}

// Record appends one message. The header is written when the file is new.
func (l *RunLog) Record(format string, args ...any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("creating run log directory: %w", err)
	}

	_, statErr := os.Stat(l.path)
	isNew := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(runLogHeader); err != nil {
			return fmt.Errorf("writing run log header: %w", err)
		}
	}
	msg := l.prefix + fmt.Sprintf(format, args...)
	if err := w.Write([]string{msg, l.clock.Now().Format(TimestampFormat)}); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}
	w.Flush()
	return w.Error()
}
