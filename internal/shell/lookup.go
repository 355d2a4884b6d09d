// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"os/exec"
	"strings"
)

// ErrToolNotFound is wrapped by MissingToolsError.
var ErrToolNotFound = errors.New("required tool not found")

type (
	// MissingToolsError lists every required command that is not on PATH.
	MissingToolsError struct {
		Tools []string
	}

	// LookPathFunc resolves a command name to a path.
	LookPathFunc func(name string) (string, error)
)

func (e *MissingToolsError) Error() string {
	return "required tools not found on PATH: " + strings.Join(e.Tools, ", ")
}

func (e *MissingToolsError) Unwrap() error {
	return ErrToolNotFound
}

// RequireTools checks that every name resolves via lookPath (exec.LookPath
// when nil). All missing tools are reported at once.
func RequireTools(lookPath LookPathFunc, names ...string) error {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	var missing []string
	for _, name := range names {
		if _, err := lookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingToolsError{Tools: missing}
	}
	return nil
}
