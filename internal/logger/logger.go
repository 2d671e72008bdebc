package logger

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Options configures Setup. An empty Filename logs to stdout only.
type Options struct {
	Filename   string
	MaxSizeMB  int64
	MaxBackups int
	Level      string // DEBUG, INFO
}

var debugEnabled atomic.Bool

// SetLevel toggles debug output. Anything other than DEBUG means INFO.
func SetLevel(level string) {
	debugEnabled.Store(strings.EqualFold(strings.TrimSpace(level), "DEBUG"))
}

func DebugEnabled() bool { return debugEnabled.Load() }

// Debugf logs only when the level is DEBUG.
func Debugf(format string, args ...any) {
	if debugEnabled.Load() {
		log.Output(2, "[DEBUG] "+fmt.Sprintf(format, args...))
	}
}

// Setup points the standard logger at stdout and, when a file is configured,
// a size-rotated log file. The returned closer releases the file.
func Setup(opts Options) (io.Closer, error) {
	SetLevel(opts.Level)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if opts.Filename == "" {
		log.SetOutput(os.Stdout)
		return io.NopCloser(nil), nil
	}

	rotator := NewRotator(opts.Filename, opts.MaxSizeMB, opts.MaxBackups)
	if err := rotator.openExistingOrNew(); err != nil {
		log.SetOutput(os.Stdout)
		return io.NopCloser(nil), fmt.Errorf("open log file %s: %w", opts.Filename, err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator, nil
}

// Rotator is an io.Writer that rolls the file over once it would exceed
// MaxSize, keeping MaxBackups numbered copies (file.1 is the newest).
type Rotator struct {
	Filename   string
	MaxSize    int64 // bytes
	MaxBackups int

	mu   sync.Mutex
	file *os.File
	size int64
}

func NewRotator(filename string, maxSizeMB int64, maxBackups int) *Rotator {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &Rotator{
		Filename:   filename,
		MaxSize:    maxSizeMB * 1024 * 1024,
		MaxBackups: maxBackups,
	}
}

func (r *Rotator) openExistingOrNew() error {
	info, err := os.Stat(r.Filename)
	if os.IsNotExist(err) {
		return r.openNew()
	}
	if err != nil {
		return err
	}

	f, err := os.OpenFile(r.Filename, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	r.file = f
	r.size = info.Size()
	return nil
}

func (r *Rotator) openNew() error {
	f, err := os.OpenFile(r.Filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	r.file = f
	r.size = 0
	return nil
}

func (r *Rotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.openExistingOrNew(); err != nil {
			return 0, err
		}
	}

	if r.size > 0 && r.size+int64(len(p)) > r.MaxSize {
		if err := r.rotate(); err != nil {
			// Keep writing to whatever is open rather than dropping the line.
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
		if r.file == nil {
			return 0, os.ErrClosed
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *Rotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotate must be called with mu held. If shifting the backups fails the
// current file is reopened for append, so the caller always has a handle.
func (r *Rotator) rotate() error {
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}

	if err := r.shiftBackups(); err != nil {
		if reopenErr := r.openExistingOrNew(); reopenErr != nil {
			return errors.Join(err, reopenErr)
		}
		return err
	}
	return r.openNew()
}

func (r *Rotator) shiftBackups() error {
	if r.MaxBackups <= 0 {
		return nil
	}

	// file.2 -> file.3, file.1 -> file.2; the oldest falls off the end.
	for i := r.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", r.Filename, i)
		if _, err := os.Stat(oldPath); os.IsNotExist(err) {
			continue
		}
		if err := os.Rename(oldPath, fmt.Sprintf("%s.%d", r.Filename, i+1)); err != nil {
			return err
		}
	}

	if _, err := os.Stat(r.Filename); err == nil {
		if err := os.Rename(r.Filename, r.Filename+".1"); err != nil {
			return err
		}
	}
	return nil
}
