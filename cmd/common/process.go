// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/finance-summary/internal/fileutils"
	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/processor"
)

// StatementExtension is the extension picked up when scanning an input directory.
const StatementExtension = ".csv"

// LoadInputs reads the named files followed by every CSV file under dir, in
// that order. Files are named by their base name, as they were uploaded.
// A file that cannot be read fails the whole command: it is a usage error,
// unlike a file whose content cannot be parsed.
func LoadInputs(files []string, dir string, logger logging.Logger) ([]processor.Input, error) {
	paths := append([]string{}, files...)

	if dir != "" {
		found, err := fileutils.ListFilesWithExtension(dir, StatementExtension)
		if err != nil {
			return nil, err
		}
		logger.Info("Found files for processing",
			logging.F(logging.FieldCount, len(found)),
			logging.F("directory", dir))
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files: pass file paths or --input <directory>")
	}

	inputs := make([]processor.Input, 0, len(paths))
	for _, path := range paths {
		data, err := fileutils.ReadFile(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, processor.Input{Name: filepath.Base(path), Data: data})
	}
	return inputs, nil
}

// OpenOutput returns the file at path, or stdout when path is empty. The
// returned close function is always safe to call.
func OpenOutput(path string, stdout io.Writer, logger logging.Logger) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	file, err := fileutils.CreateFile(path)
	if err != nil {
		return nil, nil, err
	}
	return file, func() {
		if cerr := file.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close output file", logging.F(logging.FieldOutputFile, path))
		}
	}, nil
}
