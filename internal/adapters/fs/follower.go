package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/ports"
)

// Follower reads complete lines appended to a file, like tail -f.
// Bytes after the last newline are held back until the line is completed.
type Follower struct {
	path    string
	fromEnd bool
	logger  ports.Logger

	offset  int64
	partial []byte
	ready   chan struct{}
}

// NewFollower creates a follower for path. With fromEnd set, lines already in
// the file when Follow starts are skipped.
func NewFollower(path string, fromEnd bool, logger ports.Logger) *Follower {
	return &Follower{
		path:    path,
		fromEnd: fromEnd,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Ready is closed once the watch is installed and existing content has been read.
func (f *Follower) Ready() <-chan struct{} {
	return f.ready
}

// Follow calls handle once per complete line until ctx is cancelled or handle
// returns an error. The file does not need to exist yet. handle must not
// retain line after it returns. Follow may be called only once.
func (f *Follower) Follow(ctx context.Context, handle func(line []byte) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so creation and rotation of the file are seen.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(f.path), err)
	}

	if f.fromEnd {
		if st, err := os.Stat(f.path); err == nil {
			f.offset = st.Size()
		}
	}
	if err := f.drain(handle); err != nil {
		return err
	}
	close(f.ready)
	f.logger.Info("following message log",
		ports.String("path", f.path),
		ports.Bool("from_end", f.fromEnd),
		ports.Int64("offset", f.offset),
	)

	name := filepath.Base(f.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				f.reset()
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := f.drain(handle); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("watcher error", ports.Err(err))
		}
	}
}

func (f *Follower) reset() {
	f.offset = 0
	f.partial = nil
}

// drain reads everything past the current offset.
func (f *Follower) drain(handle func(line []byte) error) error {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	st, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.path, err)
	}
	if st.Size() < f.offset {
		f.logger.Info("file truncated, reading from start",
			ports.String("path", f.path),
			ports.Int64("size", st.Size()),
			ports.Int64("offset", f.offset),
		)
		f.reset()
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek %s: %w", f.path, err)
	}

	buf := make([]byte, 32*1024)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			f.offset += int64(n)
			if herr := f.split(buf[:n], handle); herr != nil {
				return herr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", f.path, err)
		}
	}
}

func (f *Follower) split(chunk []byte, handle func(line []byte) error) error {
	for {
		i := bytes.IndexByte(chunk, '\n')
		if i < 0 {
			f.partial = append(f.partial, chunk...)
			return nil
		}
		line := chunk[:i]
		if len(f.partial) > 0 {
			line = append(f.partial, line...)
			f.partial = nil
		}
		if err := handle(line); err != nil {
			return err
		}
		chunk = chunk[i+1:]
	}
}
