// SPDX-License-Identifier: MPL-2.0

package ios

import (
	"path/filepath"

	"github.com/urhonet/cooker/internal/project"
)

// Layout names the files and directories of a generated iOS tree.
type Layout struct {
	// Root is <output>/IOS.
	Root string
	// ProjectLibs is <project>/libs/ios, which receives the AOT archive.
	ProjectLibs string
}

// NewLayout derives the iOS layout for p.
func NewLayout(p *project.Project) Layout {
	return Layout{
		Root:        p.OutputJoin("IOS"),
		ProjectLibs: p.Join("libs", "ios"),
	}
}

// Join returns a path under Root.
func (l Layout) Join(elem ...string) string {
	return filepath.Join(append([]string{l.Root}, elem...)...)
}

// Script is IOS/script.
func (l Layout) Script(elem ...string) string { return l.Join(append([]string{"script"}, elem...)...) }

// Build is IOS/build, the cmake binary directory.
func (l Layout) Build(elem ...string) string { return l.Join(append([]string{"build"}, elem...)...) }

// Intermediate holds AOT assembly and object files.
func (l Layout) Intermediate(elem ...string) string {
	return l.Build(append([]string{"intermediate"}, elem...)...)
}

// DotNet is IOS/bin/Data/DotNet.
func (l Layout) DotNet(elem ...string) string {
	return l.Join(append([]string{"bin", "Data", "DotNet"}, elem...)...)
}

// EnvVars is the signing settings script read by cmake.
func (l Layout) EnvVars() string { return l.Build("ios_env_vars.sh") }

// Plist is the bundle Info.plist template edited with plutil.
func (l Layout) Plist() string {
	return l.Join("CMake", "Modules", "iOSBundleInfo.plist.template")
}

// XcodeProject is the project cmake generates for name.
func (l Layout) XcodeProject(name string) string { return l.Build(name + ".xcodeproj") }

// App is the application bundle xcodebuild produces for name.
func (l Layout) App(name string) string { return l.Build("bin", name+".app") }
