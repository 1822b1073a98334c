package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/ports"
)

// DefaultMessageLogName is the log file name used when none is configured.
const DefaultMessageLogName = "messages.txt"

// MessageLogFile implements ports.MessageLog using an append-mode file.
// The handle is opened once and held until Close.
type MessageLogFile struct {
	path string
	file *os.File
}

// OpenMessageLog opens path for appending, creating it (and its directory) if absent.
func OpenMessageLog(path string) (*MessageLogFile, error) {
	if path == "" {
		path = DefaultMessageLogName
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open message log: %w", err)
	}
	return &MessageLogFile{path: path, file: f}, nil
}

// Append writes record and a trailing newline in a single write, then syncs
// the file so the line is durable before the next message is handled.
func (l *MessageLogFile) Append(record []byte) error {
	if l.file == nil {
		return fmt.Errorf("append %s: %w", l.path, os.ErrClosed)
	}

	line := make([]byte, 0, len(record)+1)
	line = append(line, record...)
	line = append(line, '\n')

	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("append %s: %w", l.path, err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", l.path, err)
	}
	return nil
}

// Path returns the log file path.
func (l *MessageLogFile) Path() string {
	return l.path
}

// Close closes the file. Calling Close more than once is a no-op.
func (l *MessageLogFile) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

var _ ports.MessageLog = (*MessageLogFile)(nil)
