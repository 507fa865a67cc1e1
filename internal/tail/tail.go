// Package tail follows a growing log file line by line.
package tail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultPollInterval bounds how long Follow sleeps at EOF without a
// filesystem notification.
const DefaultPollInterval = 250 * time.Millisecond

// Options configures Follow.
type Options struct {
	// FromStart reads the existing contents instead of seeking to the end.
	FromStart bool
	// Follow keeps waiting for new lines at EOF; otherwise Follow returns.
	Follow bool
	// PollInterval is the fallback wake-up at EOF; zero means DefaultPollInterval.
	PollInterval time.Duration
	Logger       *zap.Logger
}

// Follow sends every complete line of the file at path to out, without the
// trailing newline. When the file shrinks (the client restarted and
// truncated it) or is replaced, reading restarts at offset zero.
//
// Follow returns nil at EOF when not following, and ctx.Err() when ctx ends.
// It never closes out.
func Follow(ctx context.Context, path string, opts Options, out chan<- string) error {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	f := &follower{path: filepath.Clean(path), opts: opts, logger: opts.Logger.Named("tail")}
	if err := f.open(!opts.FromStart); err != nil {
		return err
	}
	defer f.close()

	var events <-chan fsnotify.Event
	if opts.Follow {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()
		// watch the directory so that a recreated file is noticed
		if err := watcher.Add(filepath.Dir(f.path)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(f.path), err)
		}
		events = watcher.Events
		go drainErrors(ctx, watcher.Errors, f.logger)
	}

	for {
		line, err := f.readLine()
		if err == nil {
			select {
			case out <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		if !errors.Is(err, io.EOF) {
			return err
		}

		if !opts.Follow {
			if rest := f.flushPartial(); rest != "" {
				select {
				case out <- rest:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		}

		if err := f.wait(ctx, events); err != nil {
			return err
		}
		if err := f.checkRotation(); err != nil {
			return err
		}
	}
}

type follower struct {
	path    string
	opts    Options
	logger  *zap.Logger
	file    *os.File
	reader  *bufio.Reader
	offset  int64
	partial strings.Builder
}

func (f *follower) open(seekEnd bool) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	var offset int64
	if seekEnd {
		offset, err = file.Seek(0, io.SeekEnd)
		if err != nil {
			file.Close()
			return fmt.Errorf("seek %s: %w", f.path, err)
		}
	}
	f.file = file
	f.reader = bufio.NewReaderSize(file, 64*1024)
	f.offset = offset
	f.partial.Reset()
	f.logger.Debug("opened log", zap.String("path", f.path), zap.Int64("offset", offset))
	return nil
}

func (f *follower) close() {
	if f.file != nil {
		f.file.Close()
		f.file = nil
	}
}

// readLine returns the next complete line. Text after the last newline is
// kept until the rest of the line is written.
func (f *follower) readLine() (string, error) {
	chunk, err := f.reader.ReadString('\n')
	f.offset += int64(len(chunk))
	if err != nil {
		f.partial.WriteString(chunk)
		return "", err
	}
	if f.partial.Len() > 0 {
		f.partial.WriteString(chunk)
		chunk = f.partial.String()
		f.partial.Reset()
	}
	return strings.TrimRight(chunk, "\r\n"), nil
}

func (f *follower) flushPartial() string {
	rest := strings.TrimRight(f.partial.String(), "\r\n")
	f.partial.Reset()
	return rest
}

// wait blocks until the file may have changed.
func (f *follower) wait(ctx context.Context, events <-chan fsnotify.Event) error {
	timer := time.NewTimer(f.opts.PollInterval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == f.path {
				return nil
			}
		}
	}
}

// checkRotation reopens the file when it was truncated or replaced.
func (f *follower) checkRotation() error {
	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// the client deletes the log on restart; wait for it to reappear
			return nil
		}
		return fmt.Errorf("stat %s: %w", f.path, err)
	}

	current, err := f.file.Stat()
	if err != nil {
		return fmt.Errorf("stat open file: %w", err)
	}

	switch {
	case !os.SameFile(info, current):
		f.logger.Info("log replaced, reopening", zap.String("path", f.path))
		f.close()
		return f.open(false)
	case info.Size() < f.offset:
		f.logger.Info("log truncated, rewinding",
			zap.String("path", f.path),
			zap.Int64("size", info.Size()),
			zap.Int64("offset", f.offset),
		)
		if _, err := f.file.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind %s: %w", f.path, err)
		}
		f.reader.Reset(f.file)
		f.offset = 0
		f.partial.Reset()
	}
	return nil
}

func drainErrors(ctx context.Context, errs <-chan error, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}
