// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/urhonet/cooker/internal/android"
	"github.com/urhonet/cooker/internal/assembly"
	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/ios"
	"github.com/urhonet/cooker/internal/project"
	"github.com/urhonet/cooker/internal/report"
	"github.com/urhonet/cooker/internal/watch"
)

// depsFlags configure "cooker deps".
type depsFlags struct {
	path        string
	platform    string
	entry       string
	format      string
	showDropped bool
	raw         bool
	width       int
	watch       bool
	debounce    time.Duration
}

// depsRun resolves and reports one closure.
type depsRun struct {
	env    *build.Env
	rec    *assembly.Recorder
	entry  string
	roots  []string
	format report.Format
	opts   report.Options
	out    io.Writer
}

func newDepsCommand(app *App, flags *globalFlags) *cobra.Command {
	f := &depsFlags{}
	depsCmd := &cobra.Command{
		Use:   "deps",
		Short: "Show the managed modules a game needs",
		Long: `Show the managed modules a game needs.

The closure of the entry module (Intermediate/Game.dll by default) is
resolved over the platform's search roots exactly as a build would: the SDK
class libraries, the Urho.Net bindings, the project's References directory and
any search.extra_roots from the config. Nothing is copied.

With --watch the closure is printed again whenever a module under the entry
directory or a search root changes.`,
		Example: `  cooker deps --path ./MyGame
  cooker deps --platform ios --format json
  cooker deps --show-dropped --format markdown
  cooker deps --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeps(cmd, app, flags, f)
		},
	}
	depsCmd.Flags().StringVarP(&f.path, "path", "p", ".", "game project directory")
	depsCmd.Flags().StringVar(&f.platform, "platform", string(project.PlatformAndroid), "search roots to use: android or ios")
	depsCmd.Flags().StringVar(&f.entry, "entry", "", "entry module, relative to the project (default is Intermediate/Game.dll)")
	depsCmd.Flags().StringVarP(&f.format, "format", "f", string(report.FormatText), "output format: text, json, toml or markdown")
	depsCmd.Flags().BoolVar(&f.showDropped, "show-dropped", false, "list references no search root provides and unreadable modules")
	depsCmd.Flags().BoolVar(&f.raw, "raw", false, "print markdown without terminal rendering")
	depsCmd.Flags().IntVar(&f.width, "width", 0, "wrap markdown output at this width")
	depsCmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "re-resolve when modules change")
	depsCmd.Flags().DurationVar(&f.debounce, "debounce", watch.DefaultDebounce, "quiet period before re-resolving in --watch mode")
	return depsCmd
}

func runDeps(cmd *cobra.Command, app *App, flags *globalFlags, f *depsFlags) error {
	ctx := cmd.Context()
	s, err := app.newSession(ctx, flags, true)
	if err != nil {
		return app.fail(cmd, err, nil, flags.verbose)
	}
	run, err := s.newDepsRun(f, cmd.OutOrStdout())
	if err != nil {
		return app.fail(cmd, err, s.cfg, s.verbose)
	}
	if err := run.once(ctx); err != nil {
		return app.fail(cmd, err, s.cfg, s.verbose)
	}
	if !f.watch {
		return nil
	}
	if err := s.watchDeps(ctx, run, f.debounce); err != nil {
		return app.fail(cmd, err, s.cfg, s.verbose)
	}
	return nil
}

func (s *session) newDepsRun(f *depsFlags, out io.Writer) (*depsRun, error) {
	format, err := report.ParseFormat(f.format)
	if err != nil {
		return nil, err
	}
	p, err := project.Load(f.path, "")
	if err != nil {
		return nil, err
	}

	rec := &assembly.Recorder{}
	env := s.buildEnv(p, build.Options{Type: build.Debug}, rec)

	var roots []string
	switch project.Platform(strings.ToLower(f.platform)) {
	case project.PlatformAndroid:
		roots = android.New(env).SearchRoots()
	case project.PlatformIOS:
		roots = ios.New(env).SearchRoots()
	default:
		return nil, fmt.Errorf("unknown platform %q (want android or ios)", f.platform)
	}

	entry := p.EntryModule()
	if f.entry != "" {
		entry = p.Rel(f.entry)
	}

	return &depsRun{
		env:    env,
		rec:    rec,
		entry:  entry,
		roots:  roots,
		format: format,
		opts: report.Options{
			ShowDropped: f.showDropped,
			Width:       f.width,
			Raw:         f.raw,
		},
		out: out,
	}, nil
}

func (r *depsRun) once(ctx context.Context) error {
	r.rec.Reset()
	closure, err := r.env.ResolveClosure(ctx, r.entry, r.roots)
	if err != nil {
		return err
	}
	return report.Write(r.out, report.New(r.entry, r.roots, closure, r.rec), r.format, r.opts)
}

// watchDeps re-runs r whenever a module under the entry directory or a
// search root changes, until ctx is cancelled.
func (s *session) watchDeps(ctx context.Context, r *depsRun, debounce time.Duration) error {
	roots := append([]string{filepath.Dir(r.entry)}, r.roots...)
	w, err := watch.New(watch.Config{
		Roots:    roots,
		Debounce: debounce,
		Logger:   s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			s.logger.Info("modules changed", "count", len(changed))
			for _, c := range changed {
				s.logger.Debug("changed", "path", c)
			}
			return r.once(ctx)
		},
	})
	if err != nil {
		return err
	}
	s.logger.Info("watching for module changes", "roots", len(w.Roots()))
	return w.Run(ctx)
}
