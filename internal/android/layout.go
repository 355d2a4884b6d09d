// SPDX-License-Identifier: MPL-2.0

package android

import (
	"path/filepath"

	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/project"
)

// Layout names the files and directories of a generated Android tree.
type Layout struct {
	// Root is <output>/Android, the gradle project.
	Root string
	// Main is app/src/main.
	Main string
	// ProjectOutput is <project>/output/Android, where bundles are collected.
	ProjectOutput string
	// ProjectBCL is <project>/libs/dotnet/bcl/android.
	ProjectBCL string
}

// NewLayout derives the Android layout for p.
func NewLayout(p *project.Project) Layout {
	root := p.OutputJoin("Android")
	return Layout{
		Root:          root,
		Main:          filepath.Join(root, "app", "src", "main"),
		ProjectOutput: p.Join("output", "Android"),
		ProjectBCL:    p.Join("libs", "dotnet", "bcl", "android"),
	}
}

// BuildGradle is app/build.gradle.
func (l Layout) BuildGradle() string { return filepath.Join(l.Root, "app", "build.gradle") }

// Manifest is app/src/main/AndroidManifest.xml.
func (l Layout) Manifest() string { return filepath.Join(l.Main, "AndroidManifest.xml") }

// JNILibs holds the native libraries per ABI.
func (l Layout) JNILibs(elem ...string) string {
	return filepath.Join(append([]string{l.Main, "jniLibs"}, elem...)...)
}

// Assets is app/src/main/assets.
func (l Layout) Assets(elem ...string) string {
	return filepath.Join(append([]string{l.Main, "assets"}, elem...)...)
}

// DotNet is assets/Data/DotNet.
func (l Layout) DotNet(elem ...string) string {
	return l.Assets(append([]string{"Data", "DotNet"}, elem...)...)
}

// PluginJava is java/com/urho3d/plugin.
func (l Layout) PluginJava(elem ...string) string {
	return filepath.Join(append([]string{l.Main, "java", "com", "urho3d", "plugin"}, elem...)...)
}

// GradleBundle is the bundle gradle writes for t.
func (l Layout) GradleBundle(t build.Type) string {
	return filepath.Join(l.Root, "app", "build", "outputs", "bundle", string(t), "app-"+string(t)+".aab")
}

// BundleName is the collected bundle's base name, without extension.
func BundleName(t build.Type, signed bool) string {
	name := "app-" + string(t)
	if signed {
		name += "-signed"
	}
	return name
}
