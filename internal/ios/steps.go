// SPDX-License-Identifier: MPL-2.0

package ios

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"mvdan.cc/sh/v3/syntax"

	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/project"
	"github.com/urhonet/cooker/internal/shell"
	"github.com/urhonet/cooker/internal/stage"
)

const (
	// aotArchive collects every AOT object; the Xcode project links it from libs/ios.
	aotArchive = "lib-urho3d-mono-aot.a"
	engineLib  = "libUrho3D.a"

	trackingUsage = "This identifier will be used to deliver personalized ads to you."
)

// copyXcodeProject creates <output>/IOS from the SDK template on the first
// build and prepares the cmake scripts, the asset links and libs/ios.
func (b *Builder) copyXcodeProject(ctx context.Context) error {
	p := b.env.Project
	if !stage.IsDir(b.layout.Root) {
		src := b.env.Template("IOS")
		if err := build.RequireDirs(src); err != nil {
			return err
		}
		b.env.Log().Info("creating xcode project", "dir", b.layout.Root)
		if _, err := stage.CopyDir(src, b.layout.Root, stage.Options{}); err != nil {
			return err
		}
	}
	if err := stage.ReplaceInFile(b.layout.Join("CMakeLists.txt"), "TEMPLATE_PROJECT_NAME", p.Name); err != nil {
		return err
	}
	if err := makeExecutable(b.layout.Script()); err != nil {
		return err
	}

	bin := b.layout.Join("bin")
	if err := stage.MkdirAll(bin); err != nil {
		return err
	}
	b.env.Try(ctx, shell.Command{Label: "link-assets", Script: "ln -sf ../../Assets/* .", Dir: bin})

	if !stage.IsDir(b.layout.ProjectLibs) {
		src := b.env.Template("libs", "ios")
		if err := build.RequireDirs(src); err != nil {
			return err
		}
		if _, err := stage.CopyDir(src, b.layout.ProjectLibs, stage.Options{}); err != nil {
			return err
		}
	}
	return nil
}

// makeExecutable marks the cmake helper scripts executable.
func makeExecutable(dir string) error {
	scripts, err := doublestar.FilepathGlob(filepath.Join(dir, "*.sh"))
	if err != nil {
		return err
	}
	if helpers := filepath.Join(dir, ".bash_helpers.sh"); stage.Exists(helpers) {
		scripts = append(scripts, helpers)
	}
	for _, s := range scripts {
		if err := os.Chmod(s, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// copyPlugins copies each plugin's sources from the SDK into IOS/Plugins.
// Plugins already present are kept.
func (b *Builder) copyPlugins(context.Context) error {
	plugins := b.env.Project.Plugins()
	if len(plugins) == 0 {
		return nil
	}
	for _, plugin := range plugins {
		src := b.env.Template("Plugins", plugin)
		if err := build.RequireDirs(src); err != nil {
			return fmt.Errorf("plugin %s: %w", plugin, err)
		}
		dst := b.layout.Join("Plugins", plugin)
		if stage.IsDir(dst) {
			continue
		}
		if _, err := stage.CopyDir(src, dst, stage.Options{}); err != nil {
			return fmt.Errorf("plugin %s: %w", plugin, err)
		}
	}
	return nil
}

// updatePlist sets the tracking usage description and the AdMob keys of
// the bundle Info.plist template.
func (b *Builder) updatePlist(ctx context.Context) error {
	plist := b.layout.Plist()
	plutil := func(args ...string) shell.Command {
		return shell.Command{
			Label: "plist-update",
			Name:  "plutil",
			Args:  append(args, plist),
			Dir:   b.layout.Root,
			Env:   b.commandEnv(),
		}
	}

	// Removing an absent key fails; that is expected on a fresh template.
	for _, key := range []string{"NSUserTrackingUsageDescription", "GADIsAdManagerApp", "GADApplicationIdentifier"} {
		b.env.Try(ctx, plutil("-remove", key))
	}
	if _, err := b.env.Run(ctx, plutil("-replace", "NSUserTrackingUsageDescription", "-string", trackingUsage)); err != nil {
		return err
	}

	id := b.env.Project.GADApplicationID()
	if id == "" {
		return nil
	}
	if _, err := b.env.Run(ctx, plutil("-replace", "GADIsAdManagerApp", "-bool", "true")); err != nil {
		return err
	}
	_, err := b.env.Run(ctx, plutil("-replace", "GADApplicationIdentifier", "-string", id))
	return err
}

// stageEngine installs libUrho3D.a for the selected backend. Debug builds
// ship the library split in parts which are concatenated here.
func (b *Builder) stageEngine(ctx context.Context) error {
	opts := b.env.Options
	src := b.env.Template("libs", "ios", "urho3d", opts.Backend(), string(opts.Type))
	if err := build.RequireDirs(src); err != nil {
		return err
	}
	dst := b.layout.Join("lib", engineLib)
	if err := stage.MkdirAll(filepath.Dir(dst)); err != nil {
		return err
	}
	if opts.Type == build.Release {
		return stage.CopyFile(filepath.Join(src, engineLib), dst)
	}

	if err := stage.RemoveFile(dst); err != nil {
		return err
	}
	quoted, err := syntax.Quote(dst, syntax.LangBash)
	if err != nil {
		return err
	}
	_, err = b.env.Run(ctx, shell.Command{
		Label:  "engine-lib",
		Script: "cat libUrho3D.split.?? > " + quoted,
		Dir:    src,
	})
	return err
}

// writeSigning writes ios_env_vars.sh for an explicit developer ID and the
// entitlements file.
func (b *Builder) writeSigning(context.Context) error {
	envVars := b.layout.EnvVars()
	if err := stage.MkdirAll(b.layout.Build()); err != nil {
		return err
	}
	if id := b.env.Options.DeveloperID; id != "" {
		if err := stage.CopyFile(b.layout.Script("ios_env_vars.sh"), envVars); err != nil {
			return err
		}
		for _, r := range [][2]string{
			{"T_DEVELOPMENT_TEAM", b.team.DevelopmentTeam},
			{"T_CODE_SIGN_IDENTITY", ""},
			{"T_PROVISIONING_PROFILE_SPECIFIER", ""},
		} {
			if err := stage.ReplaceInFile(envVars, r[0], r[1]); err != nil {
				return err
			}
		}
	} else if !stage.Exists(envVars) {
		return ErrNoDevelopmentTeam
	}

	entitlements := b.layout.Build("ios.entitlements")
	if err := stage.CopyFile(b.layout.Script("ios.entitlements"), entitlements); err != nil {
		return err
	}
	if err := stage.ReplaceInFile(entitlements, "T_DEVELOPER_ID", b.team.DevelopmentTeam); err != nil {
		return err
	}
	return stage.ReplaceInFile(entitlements, "T_UUID", b.env.Project.UUID)
}

// stageGameModule copies the compiled game module into the bundle data.
func (b *Builder) stageGameModule(context.Context) error {
	if err := stage.MkdirAll(b.layout.DotNet("ios")); err != nil {
		return err
	}
	_, err := stage.CopyIfDifferent(b.env.Project.EntryModule(), b.layout.DotNet(project.EntryModuleName))
	return err
}

// SearchRoots returns the iOS search roots in priority order.
func (b *Builder) SearchRoots() []string {
	return b.env.SearchRoots(
		b.env.Template("libs", "dotnet", "urho", "mobile", "ios"),
		b.env.Template("libs", "dotnet", "bcl", "ios"),
		b.env.Project.ReferencesDir(),
	)
}

// resolve stages the closure of the staged game module into DotNet/ios.
func (b *Builder) resolve(ctx context.Context) error {
	closure, err := b.env.ResolveClosure(ctx, b.layout.DotNet(project.EntryModuleName), b.SearchRoots())
	if err != nil {
		return err
	}
	staged, err := b.env.StageClosure(closure, b.layout.DotNet("ios"))
	if err != nil {
		return err
	}
	b.modules = staged
	b.result.Closure = closure
	b.result.Staged = staged
	return nil
}

// aot compiles every staged module and the game module, then archives the
// objects into libs/ios.
func (b *Builder) aot(ctx context.Context) error {
	opts := b.env.Options
	c := &Compiler{
		env:        b.env,
		xcode:      b.xcode,
		Dir:        b.layout.Intermediate(),
		Jobs:       opts.AOTJobs,
		MinVersion: opts.MinIOSVersion,
		Env:        b.commandEnv(),
	}
	if err := stage.MkdirAll(c.Dir); err != nil {
		return err
	}
	modules := append(append([]string(nil), b.modules...), b.layout.DotNet(project.EntryModuleName))
	objs, err := c.Compile(ctx, modules)
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(objs))
	skipped := 0
	for _, o := range objs {
		paths = append(paths, o.Path)
		if o.Skipped {
			skipped++
		}
	}
	b.env.Log().Info("aot compiled", "modules", len(objs), "up-to-date", skipped)

	archive := filepath.Join(c.Dir, aotArchive)
	if err := stage.RemoveFile(archive); err != nil {
		return err
	}
	if _, err := b.env.Run(ctx, shell.Command{
		Label: "ar-objects",
		Name:  b.xcode.Ar,
		Args:  append([]string{"cr", aotArchive}, paths...),
		Dir:   c.Dir,
	}); err != nil {
		return err
	}
	if err := stage.MkdirAll(b.layout.ProjectLibs); err != nil {
		return err
	}
	return stage.Move(archive, filepath.Join(b.layout.ProjectLibs, aotArchive))
}

// generateSources writes the AOT and plugin registration units.
func (b *Builder) generateSources(context.Context) error {
	if err := WriteAOTRegistration(b.layout.Root, b.modules); err != nil {
		return err
	}
	return WritePluginRegistration(b.layout.Root, b.env.Project.Plugins())
}

func (b *Builder) cmake(ctx context.Context) error {
	_, err := b.env.Run(ctx, shell.Command{
		Label: "cmake-ios",
		Name:  b.layout.Script("cmake_ios_dotnet.sh"),
		Args:  append([]string{b.layout.Build()}, b.team.CMakeArgs()...),
		Dir:   b.env.Project.OutputPath,
		Env:   b.commandEnv(),
	})
	return err
}

func (b *Builder) xcodebuild(ctx context.Context) error {
	name := b.env.Project.Name
	if _, err := b.env.Run(ctx, shell.Command{
		Label: "xcode-build",
		Name:  "xcodebuild",
		Args:  []string{"-project", b.layout.XcodeProject(name), "-configuration", b.env.Options.Type.Configuration()},
		Dir:   b.env.Project.OutputPath,
		Env:   b.commandEnv(),
	}); err != nil {
		return err
	}
	app := b.layout.App(name)
	b.result.Artifacts = append(b.result.Artifacts, app)
	b.env.Log().Info("app ready", "path", app)
	return nil
}

// deploy installs and launches the app, or starts it under the debugger.
func (b *Builder) deploy(ctx context.Context) error {
	args := []string{"--debug", "--bundle", b.layout.App(b.env.Project.Name)}
	if b.env.Options.Install {
		args = append([]string{"--justlaunch"}, args...)
	}
	_, err := b.env.Run(ctx, shell.Command{
		Label: "ios-deploy",
		Name:  "ios-deploy",
		Args:  args,
		Dir:   b.env.Project.OutputPath,
		Env:   b.commandEnv(),
	})
	return err
}
