// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/urhonet/cooker/internal/cueutil"
	"github.com/urhonet/cooker/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "cooker"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. COOKER_UI_VERBOSE.
	EnvPrefix = "COOKER"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the cooker configuration directory using platform
// conventions: %APPDATA% on Windows, ~/Library/Application Support on macOS,
// and $XDG_CONFIG_HOME (default ~/.config) elsewhere.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string
	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the config file path inside dir.
func FilePath(dir string) string {
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
}

func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("home", defaults.Home)
	v.SetDefault("tools.monodis", defaults.Tools.Monodis)
	v.SetDefault("tools.dotnet", defaults.Tools.Dotnet)
	v.SetDefault("tools.java", defaults.Tools.Java)
	v.SetDefault("tools.adb", defaults.Tools.Adb)
	v.SetDefault("tools.mono", defaults.Tools.Mono)
	v.SetDefault("android.architectures", defaults.Android.Architectures)
	v.SetDefault("android.gradle_args", defaults.Android.GradleArgs)
	v.SetDefault("ios.aot_jobs", defaults.IOS.AOTJobs)
	v.SetDefault("ios.min_version", defaults.IOS.MinVersion)
	v.SetDefault("search.extra_roots", defaults.Search.ExtraRoots)
	v.SetDefault("staging.exclude", defaults.Staging.Exclude)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadWithOptions loads defaults, then the config file (explicit path, then
// the config directory), then environment overrides. A missing config file
// is not an error.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()
	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'cooker config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		if p := FilePath(cfgDir); fileExists(p) {
			resolvedPath = p
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Run 'cooker config dump' to compare with a valid file").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if ok, errs := cfg.IsValid(); !ok {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check COOKER_* environment variables as well as the config file").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config", path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file into dir ("" means
// ConfigDir) unless one exists. It returns the file path.
func CreateDefaultConfig(dir string) (string, error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", err
	}
	cfgPath := FilePath(cfgDir)
	if fileExists(cfgPath) {
		return cfgPath, nil
	}
	return cfgPath, writeConfig(cfgPath, DefaultConfig())
}

// Save writes cfg into dir ("" means ConfigDir) and returns the file path.
func Save(cfg *Config, dir string) (string, error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", err
	}
	cfgPath := FilePath(cfgDir)
	return cfgPath, writeConfig(cfgPath, cfg)
}

// SaveFile writes cfg to path.
func SaveFile(cfg *Config, path string) error {
	return writeConfig(path, cfg)
}

func writeConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE renders cfg as a config file accepted by the schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// cooker configuration file\n\n")

	if cfg.Home != "" {
		fmt.Fprintf(&sb, "home: %q\n\n", cfg.Home)
	}

	tools := [][2]string{
		{"monodis", cfg.Tools.Monodis},
		{"dotnet", cfg.Tools.Dotnet},
		{"java", cfg.Tools.Java},
		{"adb", cfg.Tools.Adb},
		{"mono", cfg.Tools.Mono},
	}
	var toolLines []string
	for _, kv := range tools {
		if kv[1] != "" {
			toolLines = append(toolLines, fmt.Sprintf("\t%s: %q\n", kv[0], kv[1]))
		}
	}
	if len(toolLines) > 0 {
		sb.WriteString("tools: {\n")
		for _, l := range toolLines {
			sb.WriteString(l)
		}
		sb.WriteString("}\n\n")
	}

	sb.WriteString("android: {\n")
	fmt.Fprintf(&sb, "\tarchitectures: %s\n", cueList(cfg.Android.Architectures))
	if len(cfg.Android.GradleArgs) > 0 {
		fmt.Fprintf(&sb, "\tgradle_args: %s\n", cueList(cfg.Android.GradleArgs))
	}
	sb.WriteString("}\n\n")

	sb.WriteString("ios: {\n")
	fmt.Fprintf(&sb, "\taot_jobs: %d\n", cfg.IOS.AOTJobs)
	if cfg.IOS.MinVersion != "" {
		fmt.Fprintf(&sb, "\tmin_version: %q\n", cfg.IOS.MinVersion)
	}
	sb.WriteString("}\n\n")

	if len(cfg.Search.ExtraRoots) > 0 {
		fmt.Fprintf(&sb, "search: extra_roots: %s\n\n", cueList(cfg.Search.ExtraRoots))
	}

	fmt.Fprintf(&sb, "staging: exclude: %s\n\n", cueList(cfg.Staging.Exclude))

	sb.WriteString("ui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
