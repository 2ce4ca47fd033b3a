// Package filelock provides advisory file locking and atomic replacement of
// export files, so a failed export never leaves a half-written destination.
package filelock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockTimeout is returned when a lock could not be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// lockRetryDelay is the polling interval used by LockWithTimeout.
const lockRetryDelay = 25 * time.Millisecond

// DefaultLockTimeout bounds how long WithLock waits for another writer.
const DefaultLockTimeout = 30 * time.Second

// FileLock wraps a flock file lock for coordinating access to files.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created at the specified path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// LockWithTimeout polls for the lock until it is acquired or timeout elapses.
// A timeout returns an error wrapping ErrLockTimeout.
func (fl *FileLock) LockWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	acquired, err := fl.flock.TryLockContext(ctx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	if !acquired {
		return fmt.Errorf("lock %s after %s: %w", fl.path, timeout, ErrLockTimeout)
	}
	return nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWriteFunc streams content produced by write into a temp file in the
// destination directory, syncs it, and renames it over path.
//
// The temp file is closed and removed on every failure path; an existing file at
// path is left untouched unless the rename succeeds.
func AtomicWriteFunc(path string, write func(w io.Writer) error) error {
	return ReplaceWith(path, func(tempPath string) error {
		f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("failed to open temp file: %w", err)
		}

		if err := write(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to write to temp file: %w", err)
		}

		// Sync to ensure data is written to disk
		if err := f.Sync(); err != nil {
			f.Close()
			return fmt.Errorf("failed to sync temp file: %w", err)
		}

		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close temp file: %w", err)
		}
		return nil
	})
}

// ReplaceWith reserves an empty temp file next to path, lets build populate it
// by name, and renames it over path when build succeeds. This suits writers that
// need a filename rather than an io.Writer, such as database drivers.
func ReplaceWith(path string, build func(tempPath string) error) error {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory keeps the rename on one filesystem
	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tempPath)
		}
	}()

	if err := build(tempPath); err != nil {
		return err
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	renamed = true

	return nil
}

// WithLock runs fn while holding the lock file path + ".lock", waiting at most
// DefaultLockTimeout for it.
func WithLock(path string, fn func() error) error {
	return WithLockTimeout(path, DefaultLockTimeout, fn)
}

// WithLockTimeout is WithLock with an explicit wait. A lock still held when
// timeout elapses yields an error wrapping ErrLockTimeout and fn is not run.
// The lock file is removed once the lock is released, including on error.
func WithLockTimeout(path string, timeout time.Duration, fn func() error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	lock := NewFileLock(path + ".lock")

	if err := lock.LockWithTimeout(timeout); err != nil {
		return err
	}
	defer func() {
		lock.Unlock()
		os.Remove(lock.Path())
	}()

	return fn()
}

// LockAndReplace acquires the lock for path and runs ReplaceWith.
func LockAndReplace(path string, build func(tempPath string) error) error {
	return WithLock(path, func() error {
		return ReplaceWith(path, build)
	})
}
