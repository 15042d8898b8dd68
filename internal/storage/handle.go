package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DisabledPath turns persistent storage off entirely
const DisabledPath = "none"

var (
	sharedOnce  sync.Once
	sharedStore Store
	sharedErr   error
)

// Shared returns the process-wide store. The first call checks the
// environment and opens dbPath; every later call returns that same store (or
// the same error) and ignores its argument. The store is never reopened.
func Shared(dbPath string) (Store, error) {
	sharedOnce.Do(func() {
		sharedStore, sharedErr = Open(dbPath)
	})
	return sharedStore, sharedErr
}

// CloseShared closes the process-wide store if one was opened.
// Shared keeps returning the closed store afterwards.
func CloseShared() error {
	if sharedStore == nil {
		return nil
	}
	return sharedStore.Close()
}

// Open checks the environment and opens a store at dbPath. It returns a nil
// Store and an error wrapping ErrUnavailable when the runtime has no usable
// persistent storage.
func Open(dbPath string) (Store, error) {
	resolved, err := CheckEnvironment(dbPath)
	if err != nil {
		return nil, err
	}

	s, err := NewSQLiteStorage(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return s, nil
}

// CheckEnvironment verifies that dbPath can hold a database and returns the
// resolved path. The parent directory is created when missing and probed for
// writability.
func CheckEnvironment(dbPath string) (string, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" || strings.EqualFold(dbPath, DisabledPath) {
		return "", fmt.Errorf("%w: no database path configured", ErrUnavailable)
	}
	if dbPath == MemoryPath {
		return dbPath, nil
	}

	resolved, err := ExpandPath(dbPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("%w: create database directory: %w", ErrUnavailable, err)
	}

	probe, err := os.CreateTemp(dir, ".patientdb-probe-*")
	if err != nil {
		return "", fmt.Errorf("%w: database directory not writable: %w", ErrUnavailable, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	if info, err := os.Stat(resolved); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrUnavailable, resolved)
	}

	return resolved, nil
}

// ExpandPath replaces a leading "~" with the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
