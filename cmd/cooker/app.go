// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/urhonet/cooker/internal/assembly"
	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/config"
	"github.com/urhonet/cooker/internal/project"
	"github.com/urhonet/cooker/internal/shell"
	"github.com/urhonet/cooker/internal/toolchain"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and builds
	// its per-invocation session from it.
	App struct {
		Config ConfigProvider
		// Runner executes external tools. Nil means a host runner that logs
		// through the session logger.
		Runner shell.Runner
		// Reader reads module references. Nil means monodis from the SDK.
		Reader assembly.MetadataReader
		// LookPath resolves host tools. Nil means exec.LookPath.
		LookPath shell.LookPathFunc
		// GOOS overrides the host OS. Empty means runtime.GOOS.
		GOOS   string
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Runner   shell.Runner
		Reader   assembly.MetadataReader
		LookPath shell.LookPathFunc
		GOOS     string
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// globalFlags are the persistent root flags.
	globalFlags struct {
		verbose    bool
		configPath string
		home       string
	}

	// session is the state one command invocation works with.
	session struct {
		cfg     *config.Config
		verbose bool
		logger  *log.Logger
		home    string
		tools   *toolchain.Tools
		runner  shell.Runner
		app     *App
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:   deps.Config,
		Runner:   deps.Runner,
		Reader:   deps.Reader,
		LookPath: deps.LookPath,
		GOOS:     deps.GOOS,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}, nil
}

// loadConfig reads the configuration named by --config, or the default file.
func (a *App) loadConfig(ctx context.Context, flags *globalFlags) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
}

// newLogger builds the process logger and installs it as the slog default.
func (a *App) newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix:          "cooker",
		Level:           level,
		ReportTimestamp: verbose,
	})
	slog.SetDefault(slog.New(logger))
	return logger
}

// newSession loads configuration and builds the logger. When withHome is
// set, the SDK home and tool layout are resolved too.
func (a *App) newSession(ctx context.Context, flags *globalFlags, withHome bool) (*session, error) {
	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}
	verbose := flags.verbose || cfg.UI.Verbose
	s := &session{
		cfg:     cfg,
		verbose: verbose,
		logger:  a.newLogger(verbose),
		app:     a,
	}
	s.runner = a.Runner
	if s.runner == nil {
		s.runner = shell.NewRunner(s.logger)
	}
	if !withHome {
		return s, nil
	}

	env, err := toolchain.LoadEnv()
	if err != nil {
		return nil, err
	}
	home, err := toolchain.ResolveHome(toolchain.HomeSources{
		Flag:   flags.home,
		Config: cfg.Home,
		Env:    env.Home,
	})
	if err != nil {
		return nil, err
	}
	s.home = home
	s.tools = toolchain.NewTools(home, a.GOOS, env, toolchain.Overrides{
		Monodis: cfg.Tools.Monodis,
		Dotnet:  cfg.Tools.Dotnet,
		Java:    cfg.Tools.Java,
		Adb:     cfg.Tools.Adb,
		Mono:    cfg.Tools.Mono,
	})
	s.logger.Debug("resolved SDK home", "home", home)
	return s, nil
}

// options layers the configured defaults under the per-build choices.
func (s *session) options(o build.Options) build.Options {
	o.Architectures = s.cfg.Android.Architectures
	o.GradleArgs = s.cfg.Android.GradleArgs
	o.AOTJobs = s.cfg.IOS.AOTJobs
	o.MinIOSVersion = s.cfg.IOS.MinVersion
	o.ExtraRoots = s.cfg.Search.ExtraRoots
	o.Exclude = s.cfg.Staging.Exclude
	return o
}

// buildEnv assembles the builder environment for p.
func (s *session) buildEnv(p *project.Project, o build.Options, observer assembly.Observer) *build.Env {
	return &build.Env{
		Project:  p,
		Tools:    s.tools,
		Runner:   s.runner,
		Logger:   s.logger,
		Options:  s.options(o),
		Reader:   s.app.Reader,
		Observer: observer,
		GOOS:     s.app.GOOS,
		LookPath: s.app.LookPath,
	}
}
