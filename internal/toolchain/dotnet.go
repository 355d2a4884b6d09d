// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/urhonet/cooker/internal/shell"
)

// MinDotnetVersion is the oldest SDK that understands the game project format.
const MinDotnetVersion = "v6.0.0"

var (
	// ErrInvalidVersion indicates a version string that is not semver.
	ErrInvalidVersion = errors.New("invalid semantic version")
	// ErrDotnetTooOld indicates the installed SDK predates MinDotnetVersion.
	ErrDotnetTooOld = errors.New("dotnet SDK too old")
)

// CanonicalVersion converts "8.0.100" style output into canonical semver.
func CanonicalVersion(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if i := strings.IndexAny(v, " \r\n"); i >= 0 {
		v = v[:i]
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}
	return semver.Canonical(v), nil
}

// CheckDotnet runs "dotnet --version" and verifies it meets MinDotnetVersion.
// It returns the canonical version found.
func CheckDotnet(ctx context.Context, r shell.Runner, dotnet string) (string, error) {
	res, err := shell.Run(ctx, r, shell.Command{
		Label: "dotnet",
		Name:  dotnet,
		Args:  []string{"--version"},
		Quiet: true,
	})
	if err != nil {
		return "", err
	}
	v, err := CanonicalVersion(res.Output)
	if err != nil {
		return "", err
	}
	if semver.Compare(v, MinDotnetVersion) < 0 {
		return v, fmt.Errorf("%w: found %s, need %s or newer", ErrDotnetTooOld, v, MinDotnetVersion)
	}
	return v, nil
}
