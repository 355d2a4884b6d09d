// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is returned by ValidateName.
var ErrInvalidName = errors.New("invalid name")

// WindowsReservedNames are filenames that cannot be used on Windows,
// regardless of extension.
var WindowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName checks the base name (extension stripped).
func IsWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.LastIndex(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	return WindowsReservedNames[upper]
}

// ValidateName checks that name can be used as a single path element on
// every host: project names become Xcode project and gradle module names,
// plugin names become directory names.
func ValidateName(kind, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty %s", ErrInvalidName, kind)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %s %q", ErrInvalidName, kind, name)
	case strings.ContainsAny(name, `/\:*?"<>|`):
		return fmt.Errorf("%w: %s %q contains a path or reserved character", ErrInvalidName, kind, name)
	case IsWindowsReservedName(name):
		return fmt.Errorf("%w: %s %q is reserved on Windows", ErrInvalidName, kind, name)
	}
	return nil
}
