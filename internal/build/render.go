// SPDX-License-Identifier: MPL-2.0

package build

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// Render executes the named template of t.
func Render(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// RenderTo executes the named template of t into path, creating parent
// directories as needed.
func RenderTo(t *template.Template, path, name string, data any) error {
	out, err := Render(t, name, data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
