// SPDX-License-Identifier: MPL-2.0

package android

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// DefaultKeystoreName is used when the keystore path names a directory.
	DefaultKeystoreName = "android-release-key.jks"
	// KeystorePassword protects generated keystores and keys.
	KeystorePassword = "Android"
	// KeyAlias names the signing key inside the keystore.
	KeyAlias = "my-alias"
)

// ErrInvalidKeystore is returned for a keystore path with a non-.jks extension.
var ErrInvalidKeystore = errors.New("keystore must be a .jks file or a directory")

// Keystore locates a signing keystore.
type Keystore struct {
	Dir  string
	Name string
}

// Path returns the keystore file path.
func (k Keystore) Path() string { return filepath.Join(k.Dir, k.Name) }

// ResolveKeystore interprets a --keystore value. "." is the project
// directory and relative paths are relative to it. A path ending in ".jks"
// names the keystore file; any other extension is rejected; a path without
// extension is a directory holding android-release-key.jks.
func ResolveKeystore(projectPath, value string) (Keystore, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "." {
		return Keystore{Dir: projectPath, Name: DefaultKeystoreName}, nil
	}
	path := value
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectPath, path)
	}

	ext := filepath.Ext(path)
	if ext != "" && ext != ".jks" {
		return Keystore{}, fmt.Errorf("%w: %s", ErrInvalidKeystore, value)
	}
	k := Keystore{Dir: path, Name: DefaultKeystoreName}
	if ext == ".jks" {
		k.Dir, k.Name = filepath.Dir(path), filepath.Base(path)
	}
	if k.Dir == "" || k.Dir == "." {
		k.Dir = projectPath
	}
	return k, nil
}
