// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrHostNotSupported is wrapped by HostNotSupportedError.
var ErrHostNotSupported = errors.New("host not supported")

// HostNotSupportedError reports a target that cannot be built on this host.
type HostNotSupportedError struct {
	Target string
	Host   string
	Need   []string
}

func (e *HostNotSupportedError) Error() string {
	return fmt.Sprintf("%s builds need a %s host, running on %s", e.Target, strings.Join(e.Need, " or "), e.Host)
}

func (e *HostNotSupportedError) Unwrap() error {
	return ErrHostNotSupported
}

// Require checks that goos (runtime.GOOS when empty) is one of allowed.
func Require(target, goos string, allowed ...string) error {
	if goos == "" {
		goos = runtime.GOOS
	}
	for _, a := range allowed {
		if goos == a {
			return nil
		}
	}
	return &HostNotSupportedError{Target: target, Host: goos, Need: allowed}
}

// IsWindows reports whether goos (runtime.GOOS when empty) is Windows.
func IsWindows(goos string) bool {
	if goos == "" {
		goos = runtime.GOOS
	}
	return goos == "windows"
}
