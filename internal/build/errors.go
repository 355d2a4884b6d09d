// SPDX-License-Identifier: MPL-2.0

package build

import (
	"errors"
	"strings"
)

// ErrTemplateMissing is wrapped by TemplateMissingError.
var ErrTemplateMissing = errors.New("SDK template missing")

// TemplateMissingError lists required SDK directories that do not exist.
type TemplateMissingError struct {
	Paths []string
}

func (e *TemplateMissingError) Error() string {
	return "missing SDK template directories: " + strings.Join(e.Paths, ", ")
}

func (e *TemplateMissingError) Unwrap() error {
	return ErrTemplateMissing
}
