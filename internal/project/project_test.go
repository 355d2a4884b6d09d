// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/urhonet/cooker/internal/testutil"
)

const sampleVars = `#!/usr/bin/env bash
# project settings
export PROJECT_UUID='com.elix22.game'
export PROJECT_NAME='Game'
export JAVA_PACKAGE_PATH='com/elix22/game'
export VERSION_CODE=7
export PLUGINS=('Admob', 'Billing')
export ANDROID_PERMISSIONS=(
  'android.permission.INTERNET'
  'android.permission.VIBRATE'
)
export ANDROID_DEPENDENCIES=('com.google.android.gms:play-services-ads:21.0.0')
GAD_APPLICATION_ID="ca-app-pub-123~456"
echo "not an assignment"
`

func TestParseVars(t *testing.T) {
	t.Parallel()

	v := ParseVars([]byte(sampleVars), "project_vars.sh")

	tests := map[string]string{
		KeyUUID:             "com.elix22.game",
		KeyName:             "Game",
		KeyJavaPackagePath:  "com/elix22/game",
		KeyVersionCode:      "7",
		KeyGADApplicationID: "ca-app-pub-123~456",
	}
	for key, want := range tests {
		if got := v.Get(key); got != want {
			t.Errorf("Get(%s) = %q, want %q", key, got, want)
		}
	}
	if got, want := v.List(KeyPlugins), []string{"Admob", "Billing"}; !slices.Equal(got, want) {
		t.Errorf("List(PLUGINS) = %v, want %v", got, want)
	}
	if got, want := v.List(KeyAndroidPermissions), []string{"android.permission.INTERNET", "android.permission.VIBRATE"}; !slices.Equal(got, want) {
		t.Errorf("List(ANDROID_PERMISSIONS) = %v, want %v", got, want)
	}
	if _, ok := v.Lookup(KeyVersionName); ok {
		t.Error("VERSION_NAME should be unassigned")
	}
	if v.Keys()[0] != KeyUUID {
		t.Errorf("Keys() should keep assignment order, got %v", v.Keys())
	}
}

func TestParseVars_LineFallback(t *testing.T) {
	t.Parallel()

	// Unbalanced parenthesis: the shell parser rejects the file.
	data := []byte("export PROJECT_UUID='com.x'\nexport PLUGINS=('A', 'B'\nexport BROKEN # comment=1\nexport PROJECT_NAME = 'X'\n")
	v := ParseVars(data, "project_vars.sh")

	if got := v.Get(KeyUUID); got != "com.x" {
		t.Errorf("Get(PROJECT_UUID) = %q", got)
	}
	if got := v.Get(KeyName); got != "X" {
		t.Errorf("Get(PROJECT_NAME) = %q, want X", got)
	}
	if got, want := v.List(KeyPlugins), []string{"A", "B"}; !slices.Equal(got, want) {
		t.Errorf("List(PLUGINS) = %v, want %v", got, want)
	}
	if _, ok := v.Lookup("BROKEN"); ok {
		t.Error("lines containing '#' must be skipped")
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"('a', 'b', 'c')", []string{"a", "b", "c"}},
		{"a b  c", []string{"a", "b", "c"}},
		{"( arm64-v8a )", []string{"arm64-v8a"}},
		{`("x" "y")`, []string{"x", "y"}},
	}
	for _, tt := range tests {
		got := SplitList(tt.in)
		if !slices.Equal(got, tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, VarsPath(dir), sampleVars)
	out := filepath.Join(t.TempDir(), "build")

	p, err := Load(dir, out)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.OutputPath != out || !testutil.Exists(out) {
		t.Errorf("output path %q not created", out)
	}
	if p.VersionCode != "7" || p.VersionName != DefaultVersionName {
		t.Errorf("versions = %q/%q", p.VersionCode, p.VersionName)
	}
	if got := p.EntryModule(); got != filepath.Join(dir, "Intermediate", "Game.dll") {
		t.Errorf("EntryModule() = %q", got)
	}
	if err := p.Validate(PlatformAndroid); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoad_DefaultOutputIsProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, VarsPath(dir), "export PROJECT_UUID=a\n")
	p, err := Load(dir, "  ")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.OutputPath != p.Path {
		t.Errorf("OutputPath = %q, want project path %q", p.OutputPath, p.Path)
	}
	if p.VersionCode != DefaultVersionCode {
		t.Errorf("VersionCode = %q, want default", p.VersionCode)
	}
}

func TestLoad_MissingVars(t *testing.T) {
	t.Parallel()

	if _, err := Load(t.TempDir(), ""); !errors.Is(err, ErrVarsNotFound) {
		t.Errorf("error = %v, want ErrVarsNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	v := NewVars()
	v.Set(KeyUUID, "'com.x'")
	p := New("/p", "/p", v)

	err := p.Validate(PlatformAndroid)
	var mv *MissingVarsError
	if !errors.As(err, &mv) {
		t.Fatalf("error = %v, want MissingVarsError", err)
	}
	if want := []string{KeyName, KeyJavaPackagePath}; !slices.Equal(mv.Keys, want) {
		t.Errorf("missing = %v, want %v", mv.Keys, want)
	}
	if !errors.Is(err, ErrInvalidProject) {
		t.Error("MissingVarsError should wrap ErrInvalidProject")
	}

	v.Set(KeyName, "Game")
	if err := New("/p", "/p", v).Validate(PlatformIOS); err != nil {
		t.Errorf("iOS does not need JAVA_PACKAGE_PATH, got %v", err)
	}
}

func TestRel(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/work/game")
	p := &Project{Path: root}
	tests := map[string]string{
		"":           root,
		".":          root,
		"./keys":     filepath.Join(root, "keys"),
		"keys/k.jks": filepath.Join(root, "keys", "k.jks"),
	}
	for in, want := range tests {
		if got := p.Rel(in); got != want {
			t.Errorf("Rel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate_RejectsUnsafeNames(t *testing.T) {
	t.Parallel()

	v := NewVars()
	v.Set(KeyUUID, "com.x")
	v.Set(KeyName, "my/game")
	if err := New("/p", "/p", v).Validate(PlatformIOS); !errors.Is(err, ErrInvalidProject) {
		t.Errorf("error = %v, want ErrInvalidProject for path separator", err)
	}

	v.Set(KeyName, "Game")
	v.Set(KeyPlugins, "('Admob', '../etc')")
	if err := New("/p", "/p", v).Validate(PlatformIOS); !errors.Is(err, ErrInvalidProject) {
		t.Errorf("error = %v, want ErrInvalidProject for plugin", err)
	}
}
