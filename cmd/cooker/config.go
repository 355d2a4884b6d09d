// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/urhonet/cooker/internal/config"
	"github.com/urhonet/cooker/internal/toolchain"
)

// newConfigCommand creates the `cooker config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cooker configuration",
		Long: `Manage cooker configuration.

Configuration is stored in:
  - Linux: ~/.config/cooker/config.cue
  - macOS: ~/Library/Application Support/cooker/config.cue
  - Windows: %APPDATA%\cooker\config.cue

Every key can also be set through the environment, e.g. COOKER_UI_VERBOSE=true
or COOKER_IOS_AOT_JOBS=4.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig("")
			if err != nil {
				return app.fail(cmd, fmt.Errorf("failed to create config: %w", err), nil, flags.verbose)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd.OutOrStdout(), flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

List keys (android.architectures, android.gradle_args, search.extra_roots,
staging.exclude) take a comma separated value.`,
		Example: `  cooker config set home ~/Urho.Net
  cooker config set android.architectures arm64-v8a,armeabi-v7a
  cooker config set ios.aot_jobs 4`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := setConfigValue(cmd.Context(), app, flags, args[0], args[1])
			if err != nil {
				return app.fail(cmd, err, nil, flags.verbose)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s = %s in %s\n",
				SuccessStyle.Render("✓"), CmdStyle.Render(args[0]), args[1], path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, nil, flags.verbose)
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, flags *globalFlags) error {
	ctx := cmd.Context()
	cfg, err := app.loadConfig(ctx, flags)
	if err != nil {
		return app.fail(cmd, err, nil, flags.verbose)
	}

	w := cmd.OutOrStdout()
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	none := SubtitleStyle.Render("(not set)")
	value := func(s string) string {
		if s == "" {
			return none
		}
		return valueStyle.Render(s)
	}
	list := func(items []string) string {
		if len(items) == 0 {
			return none
		}
		return valueStyle.Render(strings.Join(items, ", "))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, _ := config.Resolve(config.LoadOptions{ConfigFilePath: flags.configPath})
	if path == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	}

	env, _ := toolchain.LoadEnv()
	home, homeErr := toolchain.ResolveHome(toolchain.HomeSources{Flag: flags.home, Config: cfg.Home, Env: env.Home})
	if homeErr != nil {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("SDK home"), WarningStyle.Render("(not found)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("SDK home"), home)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("home"), value(cfg.Home))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("tools"))
	fmt.Fprintf(w, "  monodis: %s\n", value(cfg.Tools.Monodis))
	fmt.Fprintf(w, "  dotnet: %s\n", value(cfg.Tools.Dotnet))
	fmt.Fprintf(w, "  java: %s\n", value(cfg.Tools.Java))
	fmt.Fprintf(w, "  adb: %s\n", value(cfg.Tools.Adb))
	fmt.Fprintf(w, "  mono: %s\n", value(cfg.Tools.Mono))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("android"))
	fmt.Fprintf(w, "  architectures: %s\n", list(cfg.Android.Architectures))
	fmt.Fprintf(w, "  gradle_args: %s\n", list(cfg.Android.GradleArgs))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ios"))
	fmt.Fprintf(w, "  aot_jobs: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.IOS.AOTJobs)))
	fmt.Fprintf(w, "  min_version: %s\n", value(cfg.IOS.MinVersion))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("search"))
	fmt.Fprintf(w, "  extra_roots: %s\n", list(cfg.Search.ExtraRoots))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("staging"))
	fmt.Fprintf(w, "  exclude: %s\n", list(cfg.Staging.Exclude))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func showConfigPath(w io.Writer, flags *globalFlags) error {
	if flags.configPath != "" {
		fmt.Fprintf(w, "Config file: %s\n", flags.configPath)
		return nil
	}
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "Config file: %s\n", config.FilePath(cfgDir))
	if userHome, err := os.UserHomeDir(); err == nil {
		fmt.Fprintf(w, "SDK pointer file: %s\n", toolchain.PointerFilePath(userHome))
	}
	return nil
}

// setConfigValue updates one key and writes the file back. It returns the
// file written.
func setConfigValue(ctx context.Context, app *App, flags *globalFlags, key, value string) (string, error) {
	cfg, err := app.loadConfig(ctx, flags)
	if err != nil {
		return "", err
	}
	if err := cfg.Set(key, value); err != nil {
		return "", err
	}
	if ok, errs := cfg.IsValid(); !ok {
		return "", errs[0]
	}
	if flags.configPath != "" {
		return flags.configPath, config.SaveFile(cfg, flags.configPath)
	}
	return config.Save(cfg, "")
}
