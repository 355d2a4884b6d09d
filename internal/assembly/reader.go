// SPDX-License-Identifier: MPL-2.0

package assembly

import (
	"context"
	"os"
)

type (
	// MetadataReader lists the direct assembly references of a compiled module.
	// Returned names may be empty or carry surrounding whitespace or quotes;
	// the resolver normalizes them.
	MetadataReader interface {
		ReadReferences(ctx context.Context, modulePath string) ([]string, error)
	}

	// ReaderFunc adapts a function to the MetadataReader interface.
	ReaderFunc func(ctx context.Context, modulePath string) ([]string, error)

	// Prober reports whether a candidate module file exists.
	Prober interface {
		Exists(path string) bool
	}

	// OSProber probes the local filesystem. Only regular files count.
	OSProber struct{}
)

// ReadReferences calls f(ctx, modulePath).
func (f ReaderFunc) ReadReferences(ctx context.Context, modulePath string) ([]string, error) {
	return f(ctx, modulePath)
}

// Exists implements Prober.
func (OSProber) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
