// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidArchitecture is returned for an unknown Android ABI.
	ErrInvalidArchitecture = errors.New("invalid android architecture")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnknownKey is returned by Set for keys it does not manage.
	ErrUnknownKey = errors.New("unknown config key")

	// Architectures lists every Android ABI the runtime ships for.
	Architectures = []string{"arm64-v8a", "armeabi-v7a", "x86", "x86_64"}
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidArchitectureError is returned for an unknown Android ABI.
	InvalidArchitectureError struct {
		Value string
	}

	// InvalidConfigError collects every field error found in a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the complete cooker configuration.
	Config struct {
		// Home is the URHONET SDK root.
		Home string `json:"home" mapstructure:"home"`
		// Tools overrides external tool locations.
		Tools ToolsConfig `json:"tools" mapstructure:"tools"`
		// Android configures Android packaging.
		Android AndroidConfig `json:"android" mapstructure:"android"`
		// IOS configures iOS packaging.
		IOS IOSConfig `json:"ios" mapstructure:"ios"`
		// Search configures assembly search roots.
		Search SearchConfig `json:"search" mapstructure:"search"`
		// Staging configures asset staging.
		Staging StagingConfig `json:"staging" mapstructure:"staging"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ToolsConfig holds explicit tool paths. Empty means auto-detect.
	ToolsConfig struct {
		Monodis string `json:"monodis" mapstructure:"monodis"`
		Dotnet  string `json:"dotnet" mapstructure:"dotnet"`
		Java    string `json:"java" mapstructure:"java"`
		Adb     string `json:"adb" mapstructure:"adb"`
		Mono    string `json:"mono" mapstructure:"mono"`
	}

	// AndroidConfig configures Android packaging defaults.
	AndroidConfig struct {
		Architectures []string `json:"architectures" mapstructure:"architectures"`
		GradleArgs    []string `json:"gradle_args" mapstructure:"gradle_args"`
	}

	// IOSConfig configures iOS packaging defaults.
	IOSConfig struct {
		// AOTJobs bounds parallel AOT compilations; 0 means one per CPU.
		AOTJobs    int    `json:"aot_jobs" mapstructure:"aot_jobs"`
		MinVersion string `json:"min_version" mapstructure:"min_version"`
	}

	// SearchConfig configures additional assembly search roots.
	SearchConfig struct {
		ExtraRoots []string `json:"extra_roots" mapstructure:"extra_roots"`
	}

	// StagingConfig configures which assets are staged.
	StagingConfig struct {
		Exclude []string `json:"exclude" mapstructure:"exclude"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Android: AndroidConfig{
			Architectures: []string{"armeabi-v7a"},
		},
		IOS: IOSConfig{
			MinVersion: "10.0",
		},
		Staging: StagingConfig{
			Exclude: []string{"**/.DS_Store", "**/Thumbs.db"},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined values.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func (e *InvalidArchitectureError) Error() string {
	return fmt.Sprintf("invalid android architecture %q (valid: %s)", e.Value, strings.Join(Architectures, ", "))
}

func (e *InvalidArchitectureError) Unwrap() error { return ErrInvalidArchitecture }

// ValidArchitecture reports whether abi is a supported Android ABI.
func ValidArchitecture(abi string) bool {
	return slices.Contains(Architectures, abi)
}

// IsValid validates every field of the configuration.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	for _, abi := range c.Android.Architectures {
		if !ValidArchitecture(abi) {
			errs = append(errs, &InvalidArchitectureError{Value: abi})
		}
	}
	if c.IOS.AOTJobs < 0 {
		errs = append(errs, fmt.Errorf("ios.aot_jobs must not be negative, got %d", c.IOS.AOTJobs))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Set assigns a single scalar or list value by its dotted key, as used by
// "cooker config set". List values are comma separated.
func (c *Config) Set(key, value string) error {
	list := func() []string {
		var out []string
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}

	switch key {
	case "home":
		c.Home = value
	case "tools.monodis":
		c.Tools.Monodis = value
	case "tools.dotnet":
		c.Tools.Dotnet = value
	case "tools.java":
		c.Tools.Java = value
	case "tools.adb":
		c.Tools.Adb = value
	case "tools.mono":
		c.Tools.Mono = value
	case "android.architectures":
		c.Android.Architectures = list()
	case "android.gradle_args":
		c.Android.GradleArgs = list()
	case "ios.aot_jobs":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fmt.Errorf("ios.aot_jobs: %q is not a number", value)
		}
		c.IOS.AOTJobs = n
	case "ios.min_version":
		c.IOS.MinVersion = value
	case "search.extra_roots":
		c.Search.ExtraRoots = list()
	case "staging.exclude":
		c.Staging.Exclude = list()
	case "ui.color_scheme":
		c.UI.ColorScheme = ColorScheme(value)
	case "ui.verbose":
		c.UI.Verbose = value == "true" || value == "1"
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}
