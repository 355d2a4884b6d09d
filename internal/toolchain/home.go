// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// HomeConfigDir is the per-user directory holding the SDK pointer file.
	HomeConfigDir = ".urhonet_config"
	// HomePointerFile lists candidate SDK roots, one per line.
	HomePointerFile = "urhonethome"
)

// ErrHomeNotFound is returned when no SDK home can be resolved.
var ErrHomeNotFound = errors.New("URHONET home not found")

type (
	// HomeSources carries every place the SDK home may come from.
	HomeSources struct {
		// Flag is the --home command-line value.
		Flag string
		// Config is the "home" config key.
		Config string
		// Env is URHONET_HOME.
		Env string
		// UserHome is the user's home directory. Empty means os.UserHomeDir.
		UserHome string
	}

	// HomeError reports an explicitly configured home that is not a directory.
	HomeError struct {
		Source string
		Path   string
	}
)

func (e *HomeError) Error() string {
	return fmt.Sprintf("%s home %q is not a directory", e.Source, e.Path)
}

func (e *HomeError) Unwrap() error {
	return ErrHomeNotFound
}

// ResolveHome returns the absolute SDK home. The first non-empty explicit
// source wins and must name an existing directory; without one, the pointer
// file under the user's home is consulted.
func ResolveHome(src HomeSources) (string, error) {
	explicit := []struct {
		name  string
		value string
	}{
		{"flag", src.Flag},
		{"config", src.Config},
		{"URHONET_HOME", src.Env},
	}
	for _, e := range explicit {
		if e.value == "" {
			continue
		}
		if !isDir(e.value) {
			return "", &HomeError{Source: e.name, Path: e.value}
		}
		return filepath.Abs(e.value)
	}

	userHome := src.UserHome
	if userHome == "" {
		var err error
		if userHome, err = os.UserHomeDir(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrHomeNotFound, err)
		}
	}
	pointer := PointerFilePath(userHome)
	data, err := os.ReadFile(pointer)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s does not exist", ErrHomeNotFound, pointer)
		}
		return "", fmt.Errorf("%w: %w", ErrHomeNotFound, err)
	}
	if home, ok := firstDirLine(data); ok {
		return filepath.Abs(home)
	}
	return "", fmt.Errorf("%w: no existing directory listed in %s", ErrHomeNotFound, pointer)
}

// PointerFilePath returns ~/.urhonet_config/urhonethome for userHome.
func PointerFilePath(userHome string) string {
	return filepath.Join(userHome, HomeConfigDir, HomePointerFile)
}

func firstDirLine(data []byte) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && isDir(line) {
			return line, true
		}
	}
	return "", false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
