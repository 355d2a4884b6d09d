// SPDX-License-Identifier: MPL-2.0

package ios

import (
	"errors"
	"fmt"
)

var (
	// ErrXcodeNotFound is wrapped by every Xcode discovery failure.
	ErrXcodeNotFound = errors.New("xcode not found")
	// ErrNoDevelopmentTeam means neither --developer nor a previous
	// build's ios_env_vars.sh supplied a development team.
	ErrNoDevelopmentTeam = errors.New("apple development team not provided")
)

// XcodeToolError reports a toolchain component missing from the Xcode install.
type XcodeToolError struct {
	Tool string
	Path string
}

func (e *XcodeToolError) Error() string {
	return fmt.Sprintf("%s not found, searched in %s", e.Tool, e.Path)
}

func (e *XcodeToolError) Unwrap() error {
	return ErrXcodeNotFound
}
