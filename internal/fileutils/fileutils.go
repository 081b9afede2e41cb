// Package fileutils collects statement files from disk and creates export files.
package fileutils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileExists reports whether path names a regular file or a link to one.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirectoryExists reports whether path names a directory.
func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EnsureDirectoryExists creates dir and its parents when missing.
func EnsureDirectoryExists(dir string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// ReadFile returns the contents of a statement file. A missing file or a
// directory is reported as os.ErrNotExist.
func ReadFile(path string) ([]byte, error) {
	if !FileExists(path) {
		return nil, fmt.Errorf("file does not exist: %s: %w", path, os.ErrNotExist)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool reads user-provided paths
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// CreateFile creates or truncates path for writing, creating parent
// directories as needed.
func CreateFile(path string) (*os.File, error) {
	if err := EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return nil, err
	}

	file, err := os.Create(path) // #nosec G304 -- CLI tool writes user-provided paths
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return file, nil
}

// ListFilesWithExtension returns the files under dir whose extension matches,
// ignoring case, sorted by path. Hidden files and directories are skipped, as
// are office lock files ("~$report.csv", ".~lock.report.csv#").
func ListFilesWithExtension(dir, extension string) ([]string, error) {
	if !DirectoryExists(dir) {
		return nil, fmt.Errorf("directory does not exist: %s: %w", dir, os.ErrNotExist)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && skipped(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files in %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

func skipped(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$")
}
