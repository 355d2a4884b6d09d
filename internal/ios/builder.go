// SPDX-License-Identifier: MPL-2.0

package ios

import (
	"context"

	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/pipeline"
	"github.com/urhonet/cooker/internal/platform"
	"github.com/urhonet/cooker/internal/project"
)

// RequiredTools must be on PATH for an iOS build.
var RequiredTools = []string{"cmake", "xcodebuild", "ios-deploy", "codesign", "dotnet", "plutil"}

// Builder produces and optionally deploys an iOS app for one project.
type Builder struct {
	env     *build.Env
	layout  Layout
	xcode   Xcode
	team    Team
	modules []string
	result  build.Result
}

// New creates a Builder. The project must already be loaded.
func New(env *build.Env) *Builder {
	return &Builder{env: env, layout: NewLayout(env.Project)}
}

// Layout returns the generated tree's layout.
func (b *Builder) Layout() Layout { return b.layout }

// Build runs every step and returns what was produced.
func (b *Builder) Build(ctx context.Context) (*build.Result, error) {
	if err := platform.Require("ios", b.env.GOOS, "darwin"); err != nil {
		return nil, err
	}
	if err := b.env.Options.Validate(); err != nil {
		return nil, err
	}
	if err := b.env.Project.Validate(project.PlatformIOS); err != nil {
		return nil, err
	}
	if _, err := b.Pipeline().Run(ctx); err != nil {
		return &b.result, err
	}
	return &b.result, nil
}

// Pipeline declares the iOS build steps.
func (b *Builder) Pipeline() *pipeline.Pipeline {
	opts := b.env.Options
	return pipeline.New("ios", pipeline.WithLogger(b.env.Log())).MustAdd(
		pipeline.Step{Name: "xcode", Run: b.findXcode},
		pipeline.Step{Name: "team", Run: b.resolveTeam},
		pipeline.Step{Name: "tools", Run: b.requireTools},
		pipeline.Step{Name: "xcode-project", After: []string{"xcode", "team", "tools"}, Run: b.copyXcodeProject},
		pipeline.Step{Name: "plugins", After: []string{"xcode-project"}, Run: b.copyPlugins},
		pipeline.Step{Name: "plist", After: []string{"plugins"}, Run: b.updatePlist},
		pipeline.Step{Name: "engine", After: []string{"xcode-project"}, Run: b.stageEngine},
		pipeline.Step{Name: "signing", After: []string{"xcode-project"}, Run: b.writeSigning},
		pipeline.Step{Name: "dotnet-build", After: []string{"signing"}, Run: b.env.DotnetBuild},
		pipeline.Step{Name: "obfuscate", After: []string{"dotnet-build"}, When: func() bool { return opts.Obfuscate }, Run: b.env.Obfuscate},
		pipeline.Step{Name: "game-module", After: []string{"obfuscate"}, Run: b.stageGameModule},
		pipeline.Step{Name: "resolve", After: []string{"game-module"}, Run: b.resolve},
		pipeline.Step{Name: "aot", After: []string{"resolve"}, Run: b.aot},
		pipeline.Step{Name: "codegen", After: []string{"aot", "plugins"}, Run: b.generateSources},
		pipeline.Step{Name: "cmake", After: []string{"codegen", "plist", "engine"}, Run: b.cmake},
		pipeline.Step{Name: "xcodebuild", After: []string{"cmake"}, Run: b.xcodebuild},
		pipeline.Step{Name: "deploy", After: []string{"xcodebuild"}, When: func() bool { return opts.Install || opts.Debug }, Run: b.deploy},
	)
}

// commandEnv is layered over the environment of every tool invocation.
func (b *Builder) commandEnv() map[string]string {
	return map[string]string{
		"MONO_PATH":   b.layout.DotNet("ios"),
		"URHO3D_HOME": b.layout.Root,
	}
}

func (b *Builder) findXcode(ctx context.Context) error {
	x, err := FindXcode(ctx, b.env)
	if err != nil {
		return err
	}
	b.xcode = x
	b.env.Log().Debug("xcode found", "dir", x.Dir)
	return nil
}

func (b *Builder) resolveTeam(context.Context) error {
	t, err := ResolveTeam(b.env.Options.DeveloperID, b.layout.EnvVars())
	if err != nil {
		return err
	}
	b.team = t
	b.env.Log().Info("signing", "team", t.DevelopmentTeam)
	return nil
}

func (b *Builder) requireTools(context.Context) error {
	return b.env.RequireTools(RequiredTools...)
}
