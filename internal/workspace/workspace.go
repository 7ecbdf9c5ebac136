// Package workspace manages the directory that holds rendered analyses.
//
// The directory is created on first use and never deleted. Each run purges
// the HTML files left by previous runs before writing its own, so at most
// one document survives a successful run.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for workspace operations.
var (
	ErrWorkspace  = errors.New("workspace directory unavailable")
	ErrCreateFile = errors.New("failed to create document file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: the browser must be able to read it
)

// DirName is the workspace directory created under the user's home.
const DirName = "screenshot_analysis"

// Document file naming.
const (
	FilePrefix    = "analysis_"
	FileExtension = ".html"
	timestampFmt  = "20060102_150405"
	maxSuffix     = 1000
)

// DefaultDir returns the workspace path under the user's home directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: resolving home directory: %v", ErrWorkspace, err)
	}
	return filepath.Join(home, DirName), nil
}

// Ensure creates dir (and parents) when absent and returns its absolute path.
// An existing directory is not an error.
func Ensure(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%w: empty path", ErrWorkspace)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkspace, err)
	}

	if err := os.MkdirAll(abs, dirPermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkspace, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkspace, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrWorkspace, abs)
	}

	return abs, nil
}

// RemoveError records a stale document that could not be deleted.
type RemoveError struct {
	Path string
	Err  error
}

func (e *RemoveError) Error() string {
	return fmt.Sprintf("removing %s: %v", e.Path, e.Err)
}

func (e *RemoveError) Unwrap() error { return e.Err }

// CleanupReport summarizes a cleanup pass.
type CleanupReport struct {
	Removed []string
	Failed  []*RemoveError
	// ListErr is set when the directory itself could not be read.
	ListErr error
}

// Err joins every failure of the pass, or returns nil when all removals succeeded.
func (r CleanupReport) Err() error {
	errs := make([]error, 0, len(r.Failed)+1)
	if r.ListErr != nil {
		errs = append(errs, r.ListErr)
	}
	for _, f := range r.Failed {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Cleanup deletes every .html file directly inside dir.
// Other files and subdirectories are left alone. Failures are collected in
// the report; Cleanup itself never fails.
func Cleanup(dir string) CleanupReport {
	var report CleanupReport

	entries, err := os.ReadDir(dir)
	if err != nil {
		report.ListErr = fmt.Errorf("listing %s: %w", dir, err)
		return report
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsDocument(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			report.Failed = append(report.Failed, &RemoveError{Path: path, Err: err})
			continue
		}
		report.Removed = append(report.Removed, path)
	}

	return report
}

// IsDocument reports whether name carries the rendered document extension.
func IsDocument(name string) bool {
	return strings.EqualFold(filepath.Ext(name), FileExtension)
}

// FileName returns the document name for a capture taken at t.
// A suffix n > 1 disambiguates captures within the same second.
func FileName(t time.Time, n int) string {
	base := FilePrefix + t.Format(timestampFmt)
	if n > 1 {
		base += "_" + strconv.Itoa(n)
	}
	return base + FileExtension
}

// Create exclusively creates a new document file in dir named after t.
// When the name is taken, numbered suffixes are tried so a run never
// overwrites another run's file.
func Create(dir string, t time.Time) (*os.File, error) {
	for n := 1; n <= maxSuffix; n++ {
		path := filepath.Join(dir, FileName(t, n))
		// #nosec G304 -- path is built from the workspace dir and a timestamp
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePermissions)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %v", ErrCreateFile, err)
		}
	}
	return nil, fmt.Errorf("%w: no free name for %s", ErrCreateFile, FileName(t, 1))
}
