// Package logger provides the line-capped file writer behind every log file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogRotator appends to a log file and, once it has seen twice maxLines
// lines, rewrites the file to hold only the most recent maxLines lines.
// A maxLines of zero or less disables trimming.
type LogRotator struct {
	mu       sync.Mutex
	file     *os.File
	path     string
	maxLines int
	recent   []string // circular, len == maxLines
	next     int
	held     int
	seen     int
}

// Open opens (or creates) the log file at path.
func Open(path string, maxLines int) (*LogRotator, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	r := &LogRotator{file: file, path: path, maxLines: maxLines}
	if maxLines > 0 {
		r.recent = make([]string, maxLines)
	}

	return r, nil
}

// Write implements io.Writer.
func (r *LogRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, err := r.file.Write(p)
	if err != nil || r.maxLines <= 0 {
		return n, err
	}

	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}

		r.remember(line)

		if r.seen >= r.maxLines*2 {
			if err := r.trim(); err != nil {
				return n, fmt.Errorf("failed to rotate log file: %w", err)
			}
			r.seen = r.held
		}
	}

	return n, nil
}

// Sync flushes the file to disk.
func (r *LogRotator) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.file.Sync()
}

// Close closes the underlying file.
func (r *LogRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.file.Close()
}

func (r *LogRotator) remember(line string) {
	r.recent[r.next] = line
	r.next = (r.next + 1) % r.maxLines
	r.held = min(r.held+1, r.maxLines)
	r.seen++
}

// lines returns the held lines oldest first.
func (r *LogRotator) lines() []string {
	out := make([]string, 0, r.held)
	start := (r.next - r.held + r.maxLines) % r.maxLines

	for i := range r.held {
		out = append(out, r.recent[(start+i)%r.maxLines])
	}

	return out
}

// trim replaces the file with the held lines via a temp file and rename.
func (r *LogRotator) trim() error {
	temp, err := os.CreateTemp(filepath.Dir(r.path), "temp-log-")
	if err != nil {
		return err
	}

	tempPath := temp.Name()

	if _, err := io.WriteString(temp, strings.Join(r.lines(), "\n")+"\n"); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return err
	}

	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}

	_ = r.file.Close()

	// Windows refuses to rename over an existing file
	_ = os.Remove(r.path)

	if err := os.Rename(tempPath, r.path); err != nil {
		return err
	}

	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	r.file = file

	return nil
}
