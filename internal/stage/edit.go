// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RemoveAll deletes path and everything below it. Missing paths are fine.
func RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// RemoveFile deletes a single file. Missing files are fine.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ReplaceInFile replaces every occurrence of old with new in path. A missing
// file is left alone.
func ReplaceInFile(path, old, new string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	replaced := strings.ReplaceAll(string(data), old, new)
	if replaced == string(data) {
		return nil
	}
	return os.WriteFile(path, []byte(replaced), info.Mode().Perm())
}

// AppendText appends text to path, creating it when needed.
func AppendText(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// AppendLines appends each line followed by a newline.
func AppendLines(path string, lines ...string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return AppendText(path, b.String())
}

// WriteLines replaces path with lines, one per line.
func WriteLines(path string, lines ...string) error {
	if err := RemoveFile(path); err != nil {
		return err
	}
	return AppendLines(path, lines...)
}

// MkdirAll creates path and its parents.
func MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}
