// SPDX-License-Identifier: MPL-2.0

package assembly

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
)

var (
	// ErrModuleNotFound is returned when the entry module does not exist.
	ErrModuleNotFound = errors.New("module not found")

	// ErrNoSearchRoots is returned when Resolve is called without search roots.
	ErrNoSearchRoots = errors.New("no search roots")
)

type (
	// ModuleNotFoundError reports a missing entry module.
	ModuleNotFoundError struct {
		Path string
	}

	// Resolver computes dependency closures. A Resolver holds no per-call
	// state and may be used from multiple goroutines.
	Resolver struct {
		reader   MetadataReader
		prober   Prober
		observer Observer
		logger   *log.Logger
	}

	// Option configures a Resolver.
	Option func(*Resolver)
)

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("entry module %q not found", e.Path)
}

func (e *ModuleNotFoundError) Unwrap() error {
	return ErrModuleNotFound
}

// WithProber replaces the filesystem prober.
func WithProber(p Prober) Option {
	return func(r *Resolver) {
		if p != nil {
			r.prober = p
		}
	}
}

// WithObserver registers an Observer for resolution events.
func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithLogger sets the logger used for dropped references and read failures.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver that reads references with reader.
func NewResolver(reader MetadataReader, opts ...Option) *Resolver {
	r := &Resolver{
		reader:   reader,
		prober:   OSProber{},
		observer: NopObserver{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the transitive closure of modules referenced by the module
// at rootPath, locating each reference in roots (first root wins).
//
// Every logical name ("Foo", "Foo.dll" and "Foo.exe" share one) is attempted
// at most once, whether it resolves or not, which both deduplicates the
// closure and terminates reference cycles. A file reached under two names is
// added once.
// References naming the entry module are ignored at every depth. A module
// whose references cannot be read contributes no references.
func (r *Resolver) Resolve(ctx context.Context, rootPath string, roots []string) (*Closure, error) {
	if !r.prober.Exists(rootPath) {
		return nil, &ModuleNotFoundError{Path: rootPath}
	}
	if len(roots) == 0 {
		return nil, ErrNoSearchRoots
	}

	absRoots := make([]string, len(roots))
	for i, root := range roots {
		if abs, err := filepath.Abs(root); err == nil {
			absRoots[i] = abs
		} else {
			absRoots[i] = root
		}
	}

	entry := LogicalName(rootPath)
	closure := newClosure()
	attempted := make(map[string]struct{})

	var walk func(modulePath string) error
	walk = func(modulePath string) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		refs, err := r.reader.ReadReferences(ctx, modulePath)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			r.logger.Warn("cannot read module references", "module", modulePath, "err", err)
			r.observer.ReadFailed(modulePath, err)
			return nil
		}

		for _, ref := range refs {
			name := Normalize(ref)
			if name == "" {
				continue
			}
			key := LogicalName(name)
			if key == entry {
				continue
			}
			if _, done := attempted[key]; done {
				continue
			}
			attempted[key] = struct{}{}

			path, ok := Locate(r.prober, name, absRoots)
			if !ok {
				r.logger.Debug("reference not found in search roots", "name", name, "referrer", filepath.Base(modulePath))
				r.observer.Dropped(name, modulePath)
				continue
			}

			m := Module{Name: name, Path: path}
			if !closure.add(m) {
				continue
			}
			r.observer.Resolved(m)

			if err := walk(path); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(rootPath); err != nil {
		return nil, err
	}
	return closure, nil
}
