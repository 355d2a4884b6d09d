// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"testing"
)

func TestRequire(t *testing.T) {
	t.Parallel()

	if err := Require("ios", "darwin", "darwin"); err != nil {
		t.Errorf("Require(darwin) error: %v", err)
	}
	err := Require("ios", "linux", "darwin")
	if !errors.Is(err, ErrHostNotSupported) {
		t.Fatalf("error = %v, want ErrHostNotSupported", err)
	}
	var he *HostNotSupportedError
	if !errors.As(err, &he) || he.Host != "linux" || he.Target != "ios" {
		t.Errorf("unexpected error detail: %#v", err)
	}
}

func TestIsWindowsReservedName(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"CON":      true,
		"con.txt":  true,
		"LPT9.dll": true,
		"Game":     false,
		"CONSOLE":  false,
	}
	for name, want := range tests {
		if got := IsWindowsReservedName(name); got != want {
			t.Errorf("IsWindowsReservedName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	valid := []string{"Game", "My-Game_2", "Admob"}
	for _, n := range valid {
		if err := ValidateName("project name", n); err != nil {
			t.Errorf("ValidateName(%q) error: %v", n, err)
		}
	}
	invalid := []string{"", "..", "a/b", `a\b`, "what?", "NUL"}
	for _, n := range invalid {
		if err := ValidateName("project name", n); !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", n, err)
		}
	}
}
