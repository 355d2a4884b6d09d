// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urhonet/cooker/internal/platform"
)

// Well-known vars file keys.
const (
	KeyUUID                = "PROJECT_UUID"
	KeyName                = "PROJECT_NAME"
	KeyJavaPackagePath     = "JAVA_PACKAGE_PATH"
	KeyVersionCode         = "VERSION_CODE"
	KeyVersionName         = "VERSION_NAME"
	KeyPlugins             = "PLUGINS"
	KeyAndroidArchitecture = "ANDROID_ARCHITECTURE"
	KeyAndroidPermissions  = "ANDROID_PERMISSIONS"
	KeyAndroidDependencies = "ANDROID_DEPENDENCIES"
	KeyAndroidNDKVersion   = "ANDROID_NDK_VERSION"
	KeyReferenceAssemblies = "DOTNET_REFERENCE_DLL"
	KeyGADApplicationID    = "GAD_APPLICATION_ID"

	DefaultVersionCode = "1"
	DefaultVersionName = "1.0.0"

	// EntryModuleName is the compiled game assembly.
	EntryModuleName = "Game.dll"
)

// ErrInvalidProject is wrapped by MissingVarsError.
var ErrInvalidProject = errors.New("invalid project")

type (
	// Platform selects which vars are mandatory.
	Platform string

	// Project is a loaded game project.
	Project struct {
		// Path is the absolute project directory.
		Path string
		// OutputPath receives generated platform trees (Android/, IOS/).
		OutputPath string
		// Vars holds every assignment from script/project_vars.sh.
		Vars *Vars

		UUID            string
		Name            string
		JavaPackagePath string
		VersionCode     string
		VersionName     string
	}

	// MissingVarsError lists mandatory keys that are empty or unassigned.
	MissingVarsError struct {
		File string
		Keys []string
	}
)

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

func (e *MissingVarsError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.File, strings.Join(e.Keys, ", "))
}

func (e *MissingVarsError) Unwrap() error {
	return ErrInvalidProject
}

// VarsPath returns the vars file location for a project directory.
func VarsPath(projectPath string) string {
	return filepath.Join(projectPath, "script", "project_vars.sh")
}

// Load reads the project at projectPath. An empty outputPath means the
// project directory; the output directory is created when absent.
func Load(projectPath, outputPath string) (*Project, error) {
	abs, err := filepath.Abs(strings.TrimSpace(projectPath))
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}
	out := strings.TrimSpace(outputPath)
	if out == "" {
		out = abs
	}
	if out, err = filepath.Abs(out); err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}

	vars, err := LoadVars(VarsPath(abs))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("create output path: %w", err)
	}
	return New(abs, out, vars), nil
}

// New builds a Project from already-parsed vars.
func New(path, outputPath string, vars *Vars) *Project {
	return &Project{
		Path:            path,
		OutputPath:      outputPath,
		Vars:            vars,
		UUID:            vars.Get(KeyUUID),
		Name:            vars.Get(KeyName),
		JavaPackagePath: vars.Get(KeyJavaPackagePath),
		VersionCode:     vars.GetOr(KeyVersionCode, DefaultVersionCode),
		VersionName:     vars.GetOr(KeyVersionName, DefaultVersionName),
	}
}

// Validate reports every mandatory key that is empty for platform.
func (p *Project) Validate(platform Platform) error {
	required := [][2]string{{KeyUUID, p.UUID}, {KeyName, p.Name}}
	if platform == PlatformAndroid {
		required = append(required, [2]string{KeyJavaPackagePath, p.JavaPackagePath})
	}
	var missing []string
	for _, r := range required {
		if r[1] == "" {
			missing = append(missing, r[0])
		}
	}
	if len(missing) > 0 {
		return &MissingVarsError{File: VarsPath(p.Path), Keys: missing}
	}
	if err := platform.ValidateName("project name", p.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}
	for _, plugin := range p.Plugins() {
		if err := platform.ValidateName("plugin", plugin); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProject, err)
		}
	}
	return nil
}

// Plugins returns the native plugins to bundle.
func (p *Project) Plugins() []string { return p.Vars.List(KeyPlugins) }

// Architectures returns the Android ABIs requested by the project.
func (p *Project) Architectures() []string { return p.Vars.List(KeyAndroidArchitecture) }

// Permissions returns the Android permissions to declare.
func (p *Project) Permissions() []string { return p.Vars.List(KeyAndroidPermissions) }

// Dependencies returns extra gradle implementation coordinates.
func (p *Project) Dependencies() []string { return p.Vars.List(KeyAndroidDependencies) }

// ReferenceAssemblies returns DOTNET_REFERENCE_DLL entries.
func (p *Project) ReferenceAssemblies() []string { return p.Vars.List(KeyReferenceAssemblies) }

// NDKVersion returns ANDROID_NDK_VERSION or "".
func (p *Project) NDKVersion() string { return p.Vars.Get(KeyAndroidNDKVersion) }

// GADApplicationID returns the Google ads application id or "".
func (p *Project) GADApplicationID() string { return p.Vars.Get(KeyGADApplicationID) }

// Join returns a path inside the project directory.
func (p *Project) Join(elem ...string) string {
	return filepath.Join(append([]string{p.Path}, elem...)...)
}

// OutputJoin returns a path inside the output directory.
func (p *Project) OutputJoin(elem ...string) string {
	return filepath.Join(append([]string{p.OutputPath}, elem...)...)
}

// IntermediateDir holds the compiled game assembly.
func (p *Project) IntermediateDir() string { return p.Join("Intermediate") }

// EntryModule is the compiled game assembly the closure starts from.
func (p *Project) EntryModule() string { return p.Join("Intermediate", EntryModuleName) }

// ReferencesDir holds project-local assemblies, searched last.
func (p *Project) ReferencesDir() string { return p.Join("References") }

// AssetsDir holds the game data staged into each platform tree.
func (p *Project) AssetsDir() string { return p.Join("Assets") }

// Rel resolves a user-supplied path against the project directory. "." is
// the project itself; absolute paths are returned cleaned.
func (p *Project) Rel(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == "." {
		return p.Path
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.Path, path)
}
