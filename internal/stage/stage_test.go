// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/urhonet/cooker/internal/testutil"
)

func TestCopyIfDifferent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src", "UrhoDotNet.dll")
	dst := filepath.Join(dir, "dst", "nested", "UrhoDotNet.dll")
	testutil.MustWriteFile(t, src, "v1")

	copied, err := CopyIfDifferent(src, dst)
	if err != nil || !copied {
		t.Fatalf("first copy = %v, %v; want copied", copied, err)
	}
	copied, err = CopyIfDifferent(src, dst)
	if err != nil || copied {
		t.Fatalf("identical copy = %v, %v; want skipped", copied, err)
	}

	testutil.MustWriteFile(t, src, "v2")
	copied, err = CopyIfDifferent(src, dst)
	if err != nil || !copied {
		t.Fatalf("changed copy = %v, %v; want copied", copied, err)
	}
	if got := testutil.MustReadFile(t, dst); got != "v2" {
		t.Errorf("dst = %q, want v2", got)
	}
}

func TestCopyIfDifferent_MissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := CopyIfDifferent(filepath.Join(dir, "nope.dll"), filepath.Join(dir, "out.dll"))
	if !errors.Is(err, ErrSourceMissing) {
		t.Errorf("error = %v, want ErrSourceMissing", err)
	}
}

func TestCopyDir_Exclude(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(src, "Data", "Textures", "a.png"), "a")
	testutil.MustWriteFile(t, filepath.Join(src, "Data", ".DS_Store"), "x")
	testutil.MustWriteFile(t, filepath.Join(src, "CoreData", "shader.glsl"), "s")
	testutil.MustWriteFile(t, filepath.Join(src, "Cache", "big.bin"), "b")

	stats, err := CopyDir(src, dst, Options{Exclude: []string{"**/.DS_Store", "Cache"}})
	if err != nil {
		t.Fatalf("CopyDir() error: %v", err)
	}
	if stats.Copied != 2 {
		t.Errorf("Copied = %d, want 2", stats.Copied)
	}
	if !testutil.Exists(filepath.Join(dst, "Data", "Textures", "a.png")) {
		t.Error("a.png not copied")
	}
	if testutil.Exists(filepath.Join(dst, "Data", ".DS_Store")) {
		t.Error(".DS_Store should be excluded")
	}
	if testutil.Exists(filepath.Join(dst, "Cache")) {
		t.Error("Cache directory should be skipped")
	}
}

func TestCopyDirIfDifferent_Stats(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(src, "a.txt"), "a")
	testutil.MustWriteFile(t, filepath.Join(src, "sub", "b.txt"), "b")

	if _, err := CopyDirIfDifferent(src, dst); err != nil {
		t.Fatal(err)
	}
	testutil.MustWriteFile(t, filepath.Join(src, "a.txt"), "changed")

	stats, err := CopyDirIfDifferent(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	if stats != (Stats{Copied: 1, Skipped: 1}) {
		t.Errorf("stats = %+v, want 1 copied 1 skipped", stats)
	}
}

func TestCopyDir_RecreatesSymlinks(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on Windows")
	}

	src := t.TempDir()
	dst := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(src, "Versions", "A", "Headers", "Urho3D.h"), "header")
	if err := os.Symlink(filepath.Join("Versions", "A"), filepath.Join(src, "Current")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join("Versions", "A", "Headers", "Urho3D.h"), filepath.Join(src, "Urho3D.h")); err != nil {
		t.Fatal(err)
	}

	stats, err := CopyDir(src, dst, Options{})
	if err != nil {
		t.Fatalf("CopyDir() error = %v", err)
	}
	if stats.Copied != 3 {
		t.Errorf("stats = %+v, want 3 copied", stats)
	}
	for link, want := range map[string]string{
		"Current":  filepath.Join("Versions", "A"),
		"Urho3D.h": filepath.Join("Versions", "A", "Headers", "Urho3D.h"),
	} {
		got, err := os.Readlink(filepath.Join(dst, link))
		if err != nil {
			t.Errorf("Readlink(%s) error = %v", link, err)
			continue
		}
		if got != want {
			t.Errorf("Readlink(%s) = %q, want %q", link, got, want)
		}
	}
	if got := testutil.MustReadFile(t, filepath.Join(dst, "Current", "Headers", "Urho3D.h")); got != "header" {
		t.Errorf("content through link = %q, want header", got)
	}

	stats, err = CopyDirIfDifferent(src, dst)
	if err != nil {
		t.Fatalf("CopyDirIfDifferent() error = %v", err)
	}
	if stats != (Stats{Skipped: 3}) {
		t.Errorf("second copy stats = %+v, want 3 skipped", stats)
	}
}

func TestCopyDir_InvalidPattern(t *testing.T) {
	t.Parallel()

	if _, err := CopyDir(t.TempDir(), t.TempDir(), Options{Exclude: []string{"[unterminated"}}); err == nil {
		t.Error("expected invalid pattern error")
	}
}

func TestCopyDir_MissingSource(t *testing.T) {
	t.Parallel()

	_, err := CopyDir(filepath.Join(t.TempDir(), "missing"), t.TempDir(), Options{})
	if !errors.Is(err, ErrSourceMissing) {
		t.Errorf("error = %v, want ErrSourceMissing", err)
	}
}

func TestCopyFile_PreservesMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "gradlew")
	if err := os.WriteFile(src, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "out", "gradlew")
	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 && os.PathSeparator == '/' {
		t.Errorf("mode = %v, want executable", info.Mode())
	}
}

func TestMove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "MainActivity.kt")
	dst := filepath.Join(dir, "com", "x", "MainActivity.kt")
	testutil.MustWriteFile(t, src, "class MainActivity")
	if err := Move(src, dst); err != nil {
		t.Fatal(err)
	}
	if testutil.Exists(src) || !testutil.Exists(dst) {
		t.Error("Move() did not relocate the file")
	}
}

func TestReplaceInFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.gradle")
	testutil.MustWriteFile(t, path, "rootProject.name='TEMPLATE_PROJECT_NAME'\ninclude ':TEMPLATE_PROJECT_NAME'\n")

	if err := ReplaceInFile(path, "TEMPLATE_PROJECT_NAME", "Game"); err != nil {
		t.Fatal(err)
	}
	want := "rootProject.name='Game'\ninclude ':Game'\n"
	if got := testutil.MustReadFile(t, path); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
	if err := ReplaceInFile(filepath.Join(dir, "missing"), "a", "b"); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}

func TestAppendAndWriteLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plugins.cfg")
	if err := AppendLines(path, "Admob"); err != nil {
		t.Fatal(err)
	}
	if err := AppendLines(path, "Billing"); err != nil {
		t.Fatal(err)
	}
	if got := testutil.MustReadFile(t, path); got != "Admob\nBilling\n" {
		t.Errorf("content = %q", got)
	}
	if err := WriteLines(path, "only"); err != nil {
		t.Fatal(err)
	}
	if got := testutil.MustReadFile(t, path); got != "only\n" {
		t.Errorf("content after WriteLines = %q", got)
	}
}

func TestRemove_MissingIsFine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := RemoveFile(filepath.Join(dir, "nope")); err != nil {
		t.Errorf("RemoveFile() error: %v", err)
	}
	if err := RemoveAll(filepath.Join(dir, "nope", "deeper")); err != nil {
		t.Errorf("RemoveAll() error: %v", err)
	}
}

func TestEncryptFile_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "Game.dll")
	keyFile := filepath.Join(dir, "key.txt")
	dst := filepath.Join(dir, "out", "Game.dlle")
	plain := []byte("MZ\x90\x00 managed module bytes")
	if err := os.WriteFile(src, plain, 0o644); err != nil {
		t.Fatal(err)
	}
	testutil.MustWriteFile(t, keyFile, "secret")

	if err := EncryptFile(src, dst, keyFile); err != nil {
		t.Fatalf("EncryptFile() error: %v", err)
	}
	enc, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(enc, plain) {
		t.Fatal("output equals input")
	}
	if enc[0] != plain[0]^'s' || enc[6] != plain[6]^'s' {
		t.Error("key should repeat every len(key) bytes")
	}
	XOR(enc, []byte("secret"))
	if !bytes.Equal(enc, plain) {
		t.Error("XOR with the same key should restore the input")
	}
}

func TestEncryptFile_EmptyKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "Game.dll"), "x")
	testutil.MustWriteFile(t, filepath.Join(dir, "key"), "")
	err := EncryptFile(filepath.Join(dir, "Game.dll"), filepath.Join(dir, "o"), filepath.Join(dir, "key"))
	if !errors.Is(err, ErrEmptyKey) {
		t.Errorf("error = %v, want ErrEmptyKey", err)
	}
}
