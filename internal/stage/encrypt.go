// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyKey is returned when an encryption key file has no content.
var ErrEmptyKey = errors.New("encryption key is empty")

// XOR applies key repeatedly over data in place.
func XOR(data, key []byte) {
	if len(key) == 0 {
		return
	}
	for i := range data {
		data[i] ^= key[i%len(key)]
	}
}

// EncryptFile writes src XORed with the content of keyFile to dst. The game
// runtime applies the same transform to load the module.
func EncryptFile(src, dst, keyFile string) error {
	key, err := os.ReadFile(keyFile)
	if err != nil {
		return fmt.Errorf("read key: %w", err)
	}
	if len(key) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyKey, keyFile)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceMissing, src)
	}
	XOR(data, key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
