// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/urhonet/cooker/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the cooker command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "cooker",
		Short: "Package Urho.Net games for Android and iOS",
		Long: TitleStyle.Render("cooker") + SubtitleStyle.Render(" - package Urho.Net games for Android and iOS") + `

cooker compiles a game project, gathers every managed module the game
references from the SDK and the project, and produces an Android App Bundle
or an iOS app with ahead-of-time compiled modules.

` + SubtitleStyle.Render("Examples:") + `
  cooker build android --path ./MyGame           Debug bundle for armeabi-v7a
  cooker build android --type release --install  Release bundle, installed on device
  cooker build ios --developer ABCDE12345        iOS app signed for a team
  cooker deps --path ./MyGame --show-dropped     Managed module closure
  cooker clean --path ./MyGame                   Remove generated trees`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/cooker/config.cue)")
	rootCmd.PersistentFlags().StringVar(&flags.home, "home", "", "URHONET SDK directory (default from config, URHONET_HOME or ~/.urhonet_config/urhonethome)")

	rootCmd.AddCommand(
		newBuildCommand(app, flags),
		newCleanCommand(app, flags),
		newDepsCommand(app, flags),
		newConfigCommand(app, flags),
		newVersionCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the cooker command line and exits the process on failure.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
	os.Exit(run(context.Background(), app, os.Args[1:]))
}

// run executes args against a fresh command tree and returns the exit code.
func run(ctx context.Context, app *App, args []string) int {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// errorHandler leaves already reported failures alone and hands usage
// errors to fang.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
