// SPDX-License-Identifier: MPL-2.0

package android

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urhonet/cooker/internal/project"
	"github.com/urhonet/cooker/internal/stage"
)

// stagePlugins copies each plugin's Java sources and native libraries and
// rewrites the project's Assets/Data/plugins.cfg. Plugins without an android
// directory in the SDK are skipped.
func (b *Builder) stagePlugins(context.Context) error {
	p := b.env.Project
	plugins := p.Plugins()
	if len(plugins) == 0 {
		return nil
	}
	cfg := p.Join("Assets", "Data", "plugins.cfg")
	if err := stage.RemoveFile(cfg); err != nil {
		return err
	}
	if err := stage.MkdirAll(b.layout.PluginJava()); err != nil {
		return err
	}
	for _, plugin := range plugins {
		src := b.env.Template("Plugins", plugin, "android")
		if !stage.IsDir(src) {
			b.env.Log().Warn("plugin has no android sources, skipping", "plugin", plugin)
			continue
		}
		javaDir := b.layout.PluginJava(plugin)
		if _, err := stage.CopyDir(filepath.Join(src, "java"), javaDir, stage.Options{}); err != nil {
			return fmt.Errorf("plugin %s: %w", plugin, err)
		}
		if lib := filepath.Join(src, "lib"); stage.IsDir(lib) {
			if _, err := stage.CopyDir(lib, b.layout.JNILibs(), stage.Options{}); err != nil {
				return fmt.Errorf("plugin %s: %w", plugin, err)
			}
		}
		if err := stage.ReplaceInFile(filepath.Join(javaDir, plugin+".java"), "TEMPLATE_UUID", p.UUID); err != nil {
			return err
		}
		if err := stage.AppendLines(cfg, plugin); err != nil {
			return err
		}
	}
	return nil
}

// stageRuntime installs the managed runtime and native libraries for every
// selected ABI and removes those of the other ABIs.
func (b *Builder) stageRuntime(context.Context) error {
	bcl := b.env.Template("libs", "dotnet", "bcl", "android")
	if _, err := stage.CopyDir(filepath.Join(bcl, "common"), filepath.Join(b.layout.ProjectBCL, "common"), stage.Options{}); err != nil {
		return err
	}

	for _, abi := range b.abis {
		projectABI := filepath.Join(b.layout.ProjectBCL, abi)
		if !stage.IsDir(projectABI) {
			if _, err := stage.CopyDir(filepath.Join(bcl, abi), projectABI, stage.Options{}); err != nil {
				return fmt.Errorf("abi %s: %w", abi, err)
			}
		}
		if _, err := stage.CopyDir(b.env.Template("libs", "android", abi), b.layout.JNILibs(abi), stage.Options{}); err != nil {
			return fmt.Errorf("abi %s: %w", abi, err)
		}
		if _, err := stage.CopyDir(filepath.Join(bcl, abi), b.layout.DotNet("android", abi), stage.Options{}); err != nil {
			return fmt.Errorf("abi %s: %w", abi, err)
		}
	}

	for _, abi := range unusedArchitectures(b.abis) {
		for _, dir := range []string{
			filepath.Join(b.layout.ProjectBCL, abi),
			b.layout.DotNet("android", abi),
			b.layout.JNILibs(abi),
		} {
			if err := stage.RemoveAll(dir); err != nil {
				return err
			}
		}
	}
	return nil
}

// stageAssets mirrors <project>/Assets into the app's assets.
func (b *Builder) stageAssets(context.Context) error {
	stats, err := stage.CopyDirIfDifferent(b.env.Project.AssetsDir(), b.layout.Assets(), b.env.Options.Exclude...)
	if err != nil {
		return err
	}
	b.env.Log().Debug("assets staged", "copied", stats.Copied, "unchanged", stats.Skipped)
	return nil
}

// pruneAssets removes iOS modules and stale game modules from the assets.
func (b *Builder) pruneAssets(context.Context) error {
	if err := stage.RemoveAll(b.layout.DotNet("ios")); err != nil {
		return err
	}
	return stage.RemoveFile(b.layout.DotNet(project.EntryModuleName))
}

// SearchRoots returns the Android search roots in priority order.
func (b *Builder) SearchRoots() []string {
	return b.env.SearchRoots(
		b.env.Template("libs", "dotnet", "bcl", "android", "common"),
		b.env.Template("libs", "dotnet", "urho", "mobile", "android"),
		b.env.Project.ReferencesDir(),
	)
}

// resolve stages the closure of Game.dll into assets/Data/DotNet/android.
func (b *Builder) resolve(ctx context.Context) error {
	closure, err := b.env.ResolveClosure(ctx, b.env.Project.EntryModule(), b.SearchRoots())
	if err != nil {
		return err
	}
	staged, err := b.env.StageClosure(closure, b.layout.DotNet("android"))
	if err != nil {
		return err
	}
	b.result.Closure = closure
	b.result.Staged = staged
	return nil
}

// stageGameModule copies Game.dll, or writes the encrypted Game.dlle.
func (b *Builder) stageGameModule(context.Context) error {
	p := b.env.Project
	opts := b.env.Options
	if opts.Encrypt {
		if err := stage.RemoveFile(b.layout.DotNet(project.EntryModuleName)); err != nil {
			return err
		}
		return stage.EncryptFile(p.EntryModule(), b.layout.DotNet(project.EntryModuleName+"e"), p.Rel(opts.EncryptKey))
	}
	if err := stage.RemoveFile(b.layout.DotNet(project.EntryModuleName + "e")); err != nil {
		return err
	}
	return stage.CopyFile(p.EntryModule(), b.layout.DotNet(project.EntryModuleName))
}
