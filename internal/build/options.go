// SPDX-License-Identifier: MPL-2.0

package build

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidBuildType is returned by ParseType.
	ErrInvalidBuildType = errors.New("build type must be debug or release")
	// ErrInvalidOptions is wrapped by every Options.Validate failure.
	ErrInvalidOptions = errors.New("invalid build options")
)

// Type is the build flavor.
type Type string

const (
	Debug   Type = "debug"
	Release Type = "release"
)

type (
	// Options are the user's choices for one build.
	Options struct {
		Type Type
		// Install deploys to a connected device after building.
		Install bool
		// Debug installs and attaches a debugger (iOS only).
		Debug bool
		// Obfuscate runs obfuscar over the game module before staging.
		Obfuscate bool
		// Encrypt stages Game.dlle, XORed with the key at EncryptKey.
		Encrypt    bool
		EncryptKey string
		// KeyStore enables Android bundle signing (see android.ResolveKeystore).
		KeyStore string
		// DeveloperID is the Apple development team.
		DeveloperID string
		// Graphics selects the iOS renderer: "gles" (default) or "metal".
		Graphics string
		// Architectures are the default Android ABIs when the project names none.
		Architectures []string
		// GradleArgs are appended to the gradle bundle invocation.
		GradleArgs []string
		// AOTJobs bounds parallel iOS AOT compilations; 0 means one per CPU.
		AOTJobs int
		// MinIOSVersion is passed to clang as -miphoneos-version-min.
		MinIOSVersion string
		// ExtraRoots are searched after the platform's built-in roots.
		ExtraRoots []string
		// Exclude holds doublestar patterns skipped when staging assets.
		Exclude []string
	}
)

// ParseType accepts "debug" or "release" in any case.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Debug, Release:
		return t, nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrInvalidBuildType, s)
	}
}

// Configuration returns the dotnet/xcode configuration name.
func (t Type) Configuration() string {
	if t == Release {
		return "Release"
	}
	return "Debug"
}

// Gradle returns the gradle bundle task for t.
func (t Type) Gradle() string {
	if t == Release {
		return "bundleRelease"
	}
	return "bundleDebug"
}

// Validate checks option combinations.
func (o Options) Validate() error {
	if _, err := ParseType(string(o.Type)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if o.Encrypt && strings.TrimSpace(o.EncryptKey) == "" {
		return fmt.Errorf("%w: --encrypt needs --encrypt-key", ErrInvalidOptions)
	}
	switch o.Graphics {
	case "", "gles", "metal":
	default:
		return fmt.Errorf("%w: graphics backend must be gles or metal, got %q", ErrInvalidOptions, o.Graphics)
	}
	if o.AOTJobs < 0 {
		return fmt.Errorf("%w: AOT jobs must not be negative", ErrInvalidOptions)
	}
	return nil
}

// Backend returns the iOS renderer, defaulting to gles.
func (o Options) Backend() string {
	if o.Graphics == "metal" {
		return "metal"
	}
	return "gles"
}
