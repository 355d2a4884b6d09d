// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urhonet/cooker/internal/assembly"
	"github.com/urhonet/cooker/internal/shell"
	"github.com/urhonet/cooker/internal/stage"
)

const obfuscatorOutput = "Obfuscator_Output"

// DotnetBuild compiles the game project for mobile.
func (e *Env) DotnetBuild(ctx context.Context) error {
	_, err := e.Run(ctx, shell.Command{
		Label: "dotnet-build",
		Name:  e.Tools.Dotnet,
		Args: []string{
			"build",
			"--configuration", e.Options.Type.Configuration(),
			"-p:DefineConstants=_MOBILE_",
		},
		Dir: e.Project.Path,
	})
	return err
}

// Obfuscate runs obfuscar with the project's obfuscar.xml and replaces
// Intermediate/Game.dll with the obfuscated module.
func (e *Env) Obfuscate(ctx context.Context) error {
	if _, err := e.Run(ctx, shell.Command{
		Label: "obfuscar",
		Name:  e.Tools.Mono,
		Args:  []string{e.Tools.Obfuscar, "obfuscar.xml"},
		Dir:   e.Project.Path,
	}); err != nil {
		return err
	}
	out := e.Project.Join(obfuscatorOutput)
	if err := stage.CopyFile(filepath.Join(out, "Game.dll"), e.Project.EntryModule()); err != nil {
		return fmt.Errorf("obfuscated module: %w", err)
	}
	return stage.RemoveAll(out)
}

// SearchRoots returns roots followed by the configured extra roots.
func (e *Env) SearchRoots(roots ...string) []string {
	out := make([]string, 0, len(roots)+len(e.Options.ExtraRoots))
	out = append(out, roots...)
	for _, r := range e.Options.ExtraRoots {
		out = append(out, e.Project.Rel(r))
	}
	return out
}

// ResolveClosure resolves the closure of entry over roots.
func (e *Env) ResolveClosure(ctx context.Context, entry string, roots []string) (*assembly.Closure, error) {
	r := assembly.NewResolver(e.reader(),
		assembly.WithObserver(e.observer()),
		assembly.WithLogger(e.Log()),
	)
	closure, err := r.Resolve(ctx, entry, roots)
	if err != nil {
		return nil, err
	}
	e.Log().Info("resolved managed modules", "count", closure.Len(), "entry", filepath.Base(entry))
	return closure, nil
}

// StageClosure copies every closure module into dir, skipping identical
// files, and returns the staged paths in closure order.
func (e *Env) StageClosure(closure *assembly.Closure, dir string) ([]string, error) {
	staged := make([]string, 0, closure.Len())
	copied := 0
	for _, m := range closure.Modules() {
		dst := filepath.Join(dir, filepath.Base(m.Path))
		ok, err := stage.CopyIfDifferent(m.Path, dst)
		if err != nil {
			return staged, fmt.Errorf("stage %s: %w", m.Name, err)
		}
		if ok {
			copied++
		}
		staged = append(staged, dst)
	}
	e.Log().Debug("staged managed modules", "dir", dir, "copied", copied, "unchanged", len(staged)-copied)
	return staged, nil
}

// RequireDirs checks that every path is an existing directory.
func RequireDirs(paths ...string) error {
	var missing []string
	for _, p := range paths {
		if !stage.IsDir(p) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &TemplateMissingError{Paths: missing}
	}
	return nil
}
