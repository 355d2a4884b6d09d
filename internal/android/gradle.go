// SPDX-License-Identifier: MPL-2.0

package android

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urhonet/cooker/internal/stage"
)

// kotlinSources are the template sources moved under the java package path.
var kotlinSources = []struct {
	set  string
	file string
}{
	{"main", "MainActivity.kt"},
	{"main", "UrhoMainActivity.kt"},
	{"androidTest", "ExampleInstrumentedTest.kt"},
	{"test", "ExampleUnitTest.kt"},
}

// copyGradleProject creates <output>/Android from the SDK template on the
// first build, then resets jniLibs.
func (b *Builder) copyGradleProject(context.Context) error {
	p := b.env.Project
	root := b.layout.Root
	if !stage.IsDir(root) {
		b.env.Log().Info("creating gradle project", "dir", root)
		if _, err := stage.CopyDir(b.env.Template("Android"), root, stage.Options{}); err != nil {
			return err
		}

		src := filepath.Join(root, "app", "src")
		for _, k := range kotlinSources {
			from := filepath.Join(src, k.set, k.file)
			to := filepath.Join(src, k.set, filepath.FromSlash(p.JavaPackagePath), k.file)
			if !stage.Exists(from) {
				continue
			}
			if err := stage.Move(from, to); err != nil {
				return fmt.Errorf("move %s: %w", k.file, err)
			}
			if err := stage.ReplaceInFile(to, "TEMPLATE_UUID", p.UUID); err != nil {
				return err
			}
		}

		for _, f := range []string{b.layout.Manifest(), b.layout.BuildGradle()} {
			if err := stage.ReplaceInFile(f, "TEMPLATE_UUID", p.UUID); err != nil {
				return err
			}
		}
		for _, f := range []string{
			filepath.Join(root, "settings.gradle"),
			filepath.Join(b.layout.Main, "res", "values", "strings.xml"),
		} {
			if err := stage.ReplaceInFile(f, "TEMPLATE_PROJECT_NAME", p.Name); err != nil {
				return err
			}
		}
	}

	if err := stage.RemoveAll(b.layout.JNILibs()); err != nil {
		return err
	}
	return stage.MkdirAll(b.layout.JNILibs())
}

// writeBuildGradle renders app/build.gradle, including the project's extra
// gradle dependencies and NDK version.
func (b *Builder) writeBuildGradle(context.Context) error {
	p := b.env.Project
	return renderTo(b.layout.BuildGradle(), "build.gradle.tmpl", gradleData{
		UUID:         p.UUID,
		VersionCode:  p.VersionCode,
		VersionName:  p.VersionName,
		Dependencies: p.Dependencies(),
		NDKVersion:   p.NDKVersion(),
	})
}

// applyOverwrites replaces the template resources with <project>/overwrite/res.
func (b *Builder) applyOverwrites(context.Context) error {
	src := b.env.Project.Join("overwrite", "res")
	if !stage.IsDir(src) {
		return nil
	}
	dst := filepath.Join(b.layout.Main, "res")
	if err := stage.RemoveAll(dst); err != nil {
		return err
	}
	_, err := stage.CopyDir(src, dst, stage.Options{})
	return err
}

// writeManifest generates AndroidManifest.xml. Optional fragments from
// platform/android/manifest are spliced in verbatim.
func (b *Builder) writeManifest(context.Context) error {
	p := b.env.Project
	fragments := p.Join("platform", "android", "manifest")
	extra, err := readOptional(filepath.Join(fragments, "AndroidManifest.xml"))
	if err != nil {
		return err
	}
	filters, err := readOptional(filepath.Join(fragments, "IntentFilters.xml"))
	if err != nil {
		return err
	}
	return renderTo(b.layout.Manifest(), "AndroidManifest.xml.tmpl", manifestData{
		UUID:             p.UUID,
		Permissions:      p.Permissions(),
		ExtraManifest:    extra,
		GADApplicationID: p.GADApplicationID(),
		IntentFilters:    filters,
	})
}

// copyPlatformJava copies <project>/platform/android/java into the app sources.
func (b *Builder) copyPlatformJava(context.Context) error {
	src := b.env.Project.Join("platform", "android", "java")
	if !stage.IsDir(src) {
		return nil
	}
	_, err := stage.CopyDir(src, filepath.Join(b.layout.Main, "java"), stage.Options{})
	return err
}
