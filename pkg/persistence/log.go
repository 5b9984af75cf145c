// Package persistence implements the append-only trip log: a frame-based
// binary file that records every dataset mutation (trips, vendors,
// locations, users) so the in-memory store can be rebuilt at startup.
package persistence

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// LogWriter manages appends to the trip log file. Appends are buffered;
// Flush pushes them to the OS and Sync forces them to disk.
type LogWriter struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
	fw   *FrameWriter
	path string
}

// NewLogWriter opens or creates a trip log at the given path.
func NewLogWriter(path string) (*LogWriter, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o666)
	if err != nil {
		return nil, fmt.Errorf("failed to open trip log: %w", err)
	}

	buf := bufio.NewWriter(file)
	return &LogWriter{
		file: file,
		buf:  buf,
		fw:   NewFrameWriter(buf),
		path: path,
	}, nil
}

// Append writes one record frame to the log.
func (l *LogWriter) Append(op byte, payload []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fw.WriteFrame(op, payload)
}

// Flush pushes buffered frames to the OS file descriptor.
func (l *LogWriter) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Flush()
}

// Sync flushes and then forces the file to disk (fsync).
func (l *LogWriter) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.buf.Flush(); err != nil {
		return err
	}
	return l.file.Sync()
}

// Close flushes pending frames and closes the underlying file.
func (l *LogWriter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.buf.Flush(); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

// Path returns the log file path.
func (l *LogWriter) Path() string { return l.path }

// Replay reads the log at path and invokes fn for every valid frame, in
// write order. A missing file is an empty log, not an error.
//
// A truncated final frame is tolerated: it is the expected artifact of a
// crash mid-append, so replay stops there with a warning instead of failing.
// Corruption in the middle of the file (bad magic, checksum mismatch) aborts
// the replay, because everything after it is untrustworthy.
func Replay(path string, fn func(op byte, payload []byte) error) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to open trip log: %w", err)
	}
	defer file.Close()

	r := bufio.NewReader(file)
	replayed := 0
	for {
		op, payload, _, err := ReadFrame(r)
		if err != nil {
			if err == io.EOF {
				return replayed, nil
			}
			if errors.Is(err, ErrIncompleteFrame) {
				slog.Warn("trip log ends with a truncated frame, dropping it",
					"path", path, "replayed", replayed)
				return replayed, nil
			}
			return replayed, fmt.Errorf("trip log corrupt after %d records: %w", replayed, err)
		}

		if err := fn(op, payload); err != nil {
			return replayed, err
		}
		replayed++
	}
}
