// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/urhonet/cooker/internal/android"
	"github.com/urhonet/cooker/internal/assembly"
	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/ios"
	"github.com/urhonet/cooker/internal/platform"
	"github.com/urhonet/cooker/internal/project"
	"github.com/urhonet/cooker/internal/toolchain"
)

// buildFlags are shared by "build android" and "build ios".
type buildFlags struct {
	path       string
	output     string
	buildType  string
	install    bool
	debug      bool
	obfuscate  bool
	encrypt    bool
	encryptKey string
	keystore   string
	developer  string
	graphics   string
}

func newBuildCommand(app *App, flags *globalFlags) *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build a game for a mobile platform",
		Long: `Build a game for a mobile platform.

The game project is compiled with dotnet, every managed module reachable from
Intermediate/Game.dll is gathered from the SDK and the project's References
directory, and the platform tree is generated under <output>/Android or
<output>/IOS.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	androidFlags := &buildFlags{}
	androidCmd := &cobra.Command{
		Use:   "android",
		Short: "Build an Android App Bundle",
		Example: `  cooker build android --path ./MyGame
  cooker build android --type release --keystore . --install`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, app, flags, project.PlatformAndroid, androidFlags)
		},
	}
	addCommonBuildFlags(androidCmd, androidFlags)
	androidCmd.Flags().StringVar(&androidFlags.keystore, "keystore", "", "sign the bundle with a .jks file or a directory holding android-release-key.jks ('.' is the project)")
	androidCmd.Flags().BoolVar(&androidFlags.encrypt, "encrypt", false, "stage Game.dlle encrypted with --encrypt-key instead of Game.dll")
	androidCmd.Flags().StringVar(&androidFlags.encryptKey, "encrypt-key", "", "key file used by --encrypt, relative to the project")

	iosFlags := &buildFlags{}
	iosCmd := &cobra.Command{
		Use:   "ios",
		Short: "Build an iOS app (macOS only)",
		Example: `  cooker build ios --path ./MyGame --developer ABCDE12345
  cooker build ios --graphics metal --debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, app, flags, project.PlatformIOS, iosFlags)
		},
	}
	addCommonBuildFlags(iosCmd, iosFlags)
	iosCmd.Flags().StringVar(&iosFlags.developer, "developer", "", "Apple development team id (default from the previous build)")
	iosCmd.Flags().StringVar(&iosFlags.graphics, "graphics", "gles", "renderer: gles or metal")
	iosCmd.Flags().BoolVar(&iosFlags.debug, "debug", false, "install and attach the debugger")

	buildCmd.AddCommand(androidCmd, iosCmd)
	return buildCmd
}

func addCommonBuildFlags(cmd *cobra.Command, f *buildFlags) {
	cmd.Flags().StringVarP(&f.path, "path", "p", ".", "game project directory")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "directory receiving the platform tree (default is the project)")
	cmd.Flags().StringVarP(&f.buildType, "type", "t", string(build.Debug), "build type: debug or release")
	cmd.Flags().BoolVar(&f.install, "install", false, "install on a connected device")
	cmd.Flags().BoolVar(&f.obfuscate, "obfuscate", false, "obfuscate Game.dll with obfuscar.xml")
}

func runBuild(cmd *cobra.Command, app *App, flags *globalFlags, target project.Platform, f *buildFlags) error {
	ctx := cmd.Context()
	s, err := app.newSession(ctx, flags, true)
	if err != nil {
		return app.fail(cmd, err, nil, flags.verbose)
	}

	res, err := s.build(ctx, target, f)
	if err != nil {
		return app.fail(cmd, err, s.cfg, s.verbose)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s %s build finished\n", SuccessStyle.Render("✓"), target, f.buildType)
	if res.Closure != nil {
		fmt.Fprintf(out, "  %s %d managed modules staged\n", CmdStyle.Render("modules:"), res.Closure.Len())
	}
	for _, a := range res.Artifacts {
		fmt.Fprintf(out, "  %s %s\n", CmdStyle.Render("artifact:"), a)
	}
	return nil
}

func (s *session) build(ctx context.Context, target project.Platform, f *buildFlags) (*build.Result, error) {
	t, err := build.ParseType(f.buildType)
	if err != nil {
		return nil, err
	}
	if target == project.PlatformIOS {
		if err := platform.Require("ios", s.goos(), "darwin"); err != nil {
			return nil, err
		}
	}
	p, err := project.Load(f.path, f.output)
	if err != nil {
		return nil, err
	}
	v, err := toolchain.CheckDotnet(ctx, s.runner, s.tools.Dotnet)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("dotnet SDK", "version", v)

	rec := &assembly.Recorder{}
	env := s.buildEnv(p, build.Options{
		Type:        t,
		Install:     f.install,
		Debug:       f.debug,
		Obfuscate:   f.obfuscate,
		Encrypt:     f.encrypt,
		EncryptKey:  f.encryptKey,
		KeyStore:    f.keystore,
		DeveloperID: f.developer,
		Graphics:    f.graphics,
	}, rec)

	var res *build.Result
	switch target {
	case project.PlatformIOS:
		res, err = ios.New(env).Build(ctx)
	default:
		res, err = android.New(env).Build(ctx)
	}
	s.logDropped(rec)
	return res, err
}

// logDropped reports references no search root could satisfy.
func (s *session) logDropped(rec *assembly.Recorder) {
	dropped := rec.DroppedReferences()
	if len(dropped) == 0 {
		return
	}
	s.logger.Warn("unresolved managed references", "count", len(dropped))
	for _, d := range dropped {
		s.logger.Debug("unresolved", "name", d.Name, "referrer", d.Referrer)
	}
}

func (s *session) goos() string {
	if s.app.GOOS != "" {
		return s.app.GOOS
	}
	return runtime.GOOS
}
