package poller

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// PollLog is the append-only record of poll outcomes, one "<epoch>,<True|False>" line per attempt
type PollLog struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// OpenPollLog opens the log at path for appending, creating it and its directory if needed
func OpenPollLog(path string) (*PollLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("unable to create poll log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open poll log %s: %w", path, err)
	}
	return &PollLog{path: path, file: file}, nil
}

// Record appends the outcome of the poll made at epoch
func (l *PollLog) Record(epoch int64, ok bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := fmt.Fprintf(l.file, "%d,%s\n", epoch, formatOutcome(ok)); err != nil {
		return fmt.Errorf("unable to write to poll log %s: %w", l.path, err)
	}
	return nil
}

// Close syncs and closes the log
func (l *PollLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.file.Sync(); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}
