// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/urhonet/cooker/internal/assembly"
	"github.com/urhonet/cooker/internal/project"
	"github.com/urhonet/cooker/internal/shell"
	"github.com/urhonet/cooker/internal/toolchain"
)

type (
	// Env is everything a platform builder needs.
	Env struct {
		Project *project.Project
		Tools   *toolchain.Tools
		Runner  shell.Runner
		Logger  *log.Logger
		Options Options
		// Reader reads module references. Nil means monodis from Tools.
		Reader assembly.MetadataReader
		// Observer receives closure resolution events. Nil discards them.
		Observer assembly.Observer
		// GOOS overrides the host OS for tests. Empty means runtime.GOOS.
		GOOS string
		// LookPath finds host tools. Nil means exec.LookPath.
		LookPath shell.LookPathFunc
	}

	// Result summarizes a finished build.
	Result struct {
		// Closure holds the resolved managed modules.
		Closure *assembly.Closure
		// Staged lists the staged module paths in closure order.
		Staged []string
		// Artifacts lists produced bundles or apps.
		Artifacts []string
	}
)

// Template returns a path under the SDK template directory.
func (e *Env) Template(elem ...string) string {
	return filepath.Join(append([]string{e.Tools.Home, "template"}, elem...)...)
}

// Log returns the logger, never nil.
func (e *Env) Log() *log.Logger {
	if e.Logger == nil {
		e.Logger = log.New(io.Discard)
	}
	return e.Logger
}

// Run executes cmd and fails on a non-zero exit.
func (e *Env) Run(ctx context.Context, cmd shell.Command) (*shell.Result, error) {
	return shell.Run(ctx, e.Runner, cmd)
}

// Try executes cmd and only logs a non-zero exit.
func (e *Env) Try(ctx context.Context, cmd shell.Command) {
	if _, err := e.Run(ctx, cmd); err != nil {
		e.Log().Warn("ignored failure", "cmd", cmd.String(), "err", err)
	}
}

// RequireTools checks that every named tool is on PATH.
func (e *Env) RequireTools(names ...string) error {
	return shell.RequireTools(e.LookPath, names...)
}

func (e *Env) reader() assembly.MetadataReader {
	if e.Reader != nil {
		return e.Reader
	}
	return &assembly.MonodisReader{Runner: e.Runner, Path: e.Tools.Monodis}
}

func (e *Env) observer() assembly.Observer {
	if e.Observer != nil {
		return e.Observer
	}
	return assembly.NopObserver{}
}
