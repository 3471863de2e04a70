// Package fs provides filesystem adapters used by the CLI.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eykd/timeid-go/internal/lock"
)

// Locker is the advisory lock held while a file is written.
type Locker interface {
	Acquire(ctx context.Context, timeout time.Duration) error
	Unlock() error
}

// LockFunc returns the Locker guarding path.
type LockFunc func(path string) Locker

// FileLock is the default LockFunc, backed by path+lock.Suffix.
func FileLock(path string) Locker {
	return lock.ForFile(path)
}

// OSAppender appends lines to files under an advisory lock so that
// concurrent timeid processes never interleave partial writes.
type OSAppender struct {
	Lock LockFunc
}

// AppendLinesImpl appends each line, newline-terminated, to path, creating
// the file and its directory as needed. It waits up to lockTimeout for the
// lock.
func (a *OSAppender) AppendLinesImpl(ctx context.Context, path string, lines []string, lockTimeout time.Duration) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	lockFn := a.Lock
	if lockFn == nil {
		lockFn = FileLock
	}
	l := lockFn(path)
	if err := l.Acquire(ctx, lockTimeout); err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}
	defer func() {
		if uerr := l.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// AppendLines delegates to AppendLinesImpl.
func (a *OSAppender) AppendLines(ctx context.Context, path string, lines []string, lockTimeout time.Duration) error {
	return a.AppendLinesImpl(ctx, path, lines, lockTimeout)
}
