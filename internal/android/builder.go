// SPDX-License-Identifier: MPL-2.0

package android

import (
	"context"
	"fmt"
	"slices"

	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/config"
	"github.com/urhonet/cooker/internal/pipeline"
	"github.com/urhonet/cooker/internal/project"
)

// DefaultArchitecture is built when neither the project nor the config
// names an ABI.
const DefaultArchitecture = "armeabi-v7a"

// Builder produces an Android App Bundle for one project.
type Builder struct {
	env    *build.Env
	layout Layout
	abis   []string
	signed bool
	result build.Result
}

// New creates a Builder. The project must already be loaded.
func New(env *build.Env) *Builder {
	return &Builder{env: env, layout: NewLayout(env.Project)}
}

// Layout returns the generated tree's layout.
func (b *Builder) Layout() Layout { return b.layout }

// Build runs every step and returns what was produced.
func (b *Builder) Build(ctx context.Context) (*build.Result, error) {
	if err := b.env.Options.Validate(); err != nil {
		return nil, err
	}
	if err := b.env.Project.Validate(project.PlatformAndroid); err != nil {
		return nil, err
	}
	abis, err := Architectures(b.env.Project.Architectures(), b.env.Options.Architectures)
	if err != nil {
		return nil, err
	}
	b.abis = abis

	if _, err := b.Pipeline().Run(ctx); err != nil {
		return &b.result, err
	}
	return &b.result, nil
}

// Pipeline declares the Android build steps.
func (b *Builder) Pipeline() *pipeline.Pipeline {
	opts := b.env.Options
	return pipeline.New("android", pipeline.WithLogger(b.env.Log())).MustAdd(
		pipeline.Step{Name: "dotnet-build", Run: b.env.DotnetBuild},
		pipeline.Step{Name: "check-template", Run: b.checkTemplate},
		pipeline.Step{Name: "gradle-project", After: []string{"check-template"}, Run: b.copyGradleProject},
		pipeline.Step{Name: "build-gradle", After: []string{"gradle-project"}, Run: b.writeBuildGradle},
		pipeline.Step{Name: "overwrites", After: []string{"gradle-project"}, Run: b.applyOverwrites},
		pipeline.Step{Name: "plugins", After: []string{"gradle-project"}, Run: b.stagePlugins},
		pipeline.Step{Name: "runtime", After: []string{"gradle-project"}, Run: b.stageRuntime},
		pipeline.Step{Name: "manifest", After: []string{"gradle-project"}, Run: b.writeManifest},
		pipeline.Step{Name: "platform-java", After: []string{"gradle-project"}, Run: b.copyPlatformJava},
		pipeline.Step{Name: "assets", After: []string{"plugins"}, Run: b.stageAssets},
		pipeline.Step{Name: "prune-assets", After: []string{"assets"}, Run: b.pruneAssets},
		pipeline.Step{Name: "resolve", After: []string{"dotnet-build", "prune-assets"}, Run: b.resolve},
		pipeline.Step{Name: "obfuscate", After: []string{"resolve"}, When: func() bool { return opts.Obfuscate }, Run: b.env.Obfuscate},
		pipeline.Step{Name: "game-module", After: []string{"obfuscate"}, Run: b.stageGameModule},
		pipeline.Step{Name: "bundle", After: []string{"game-module", "build-gradle", "manifest", "runtime"}, Run: b.bundle},
		pipeline.Step{Name: "sign", After: []string{"bundle"}, When: func() bool { return opts.KeyStore != "" }, Run: b.sign},
		pipeline.Step{Name: "install", After: []string{"sign"}, When: func() bool { return opts.Install }, Run: b.install},
	)
}

// Architectures picks the ABIs to build: the project's list, else the
// configured defaults, else DefaultArchitecture. Unknown ABIs are rejected
// and duplicates dropped.
func Architectures(fromProject, fromConfig []string) ([]string, error) {
	abis := fromProject
	if len(abis) == 0 {
		abis = fromConfig
	}
	if len(abis) == 0 {
		abis = []string{DefaultArchitecture}
	}
	out := make([]string, 0, len(abis))
	for _, abi := range abis {
		if !config.ValidArchitecture(abi) {
			return nil, &config.InvalidArchitectureError{Value: abi}
		}
		if !slices.Contains(out, abi) {
			out = append(out, abi)
		}
	}
	return out, nil
}

// unusedArchitectures returns every known ABI not in abis.
func unusedArchitectures(abis []string) []string {
	var out []string
	for _, abi := range config.Architectures {
		if !slices.Contains(abis, abi) {
			out = append(out, abi)
		}
	}
	return out
}

func (b *Builder) checkTemplate(context.Context) error {
	if err := build.RequireDirs(
		b.env.Template("libs", "dotnet", "bcl", "android"),
		b.env.Template("Android"),
	); err != nil {
		return fmt.Errorf("android: %w", err)
	}
	return nil
}
