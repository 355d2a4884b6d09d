// SPDX-License-Identifier: MPL-2.0

package assembly

import (
	"path/filepath"
	"strings"
)

const (
	dllExt = ".dll"
	exeExt = ".exe"
)

// Normalize trims surrounding whitespace and quote characters from a raw
// reference as reported by a metadata reader. Case is preserved.
func Normalize(ref string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(ref), `"'`))
}

// ProbeName returns the file name to look for when locating name: the name
// itself when it already ends in .dll or .exe, otherwise name + ".dll".
func ProbeName(name string) string {
	if strings.HasSuffix(name, dllExt) || strings.HasSuffix(name, exeExt) {
		return name
	}
	return name + dllExt
}

// LogicalName returns the module name of a path or reference: its base name
// without a trailing .dll or .exe.
func LogicalName(path string) string {
	base := filepath.Base(path)
	if stem, ok := strings.CutSuffix(base, dllExt); ok {
		return stem
	}
	if stem, ok := strings.CutSuffix(base, exeExt); ok {
		return stem
	}
	return base
}

// Locate probes each root in order for the file backing name and returns the
// first hit.
func Locate(prober Prober, name string, roots []string) (string, bool) {
	file := ProbeName(name)
	for _, root := range roots {
		candidate := filepath.Join(root, file)
		if prober.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
