// SPDX-License-Identifier: MPL-2.0

package ios

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/shell"
	"github.com/urhonet/cooker/internal/stage"
)

// Xcode holds the toolchain paths of the selected Xcode install.
type Xcode struct {
	// Dir is the developer directory printed by xcode-select.
	Dir   string
	Clang string
	Ar    string
	Lipo  string
	// SDK is the iPhoneOS SDK root passed to clang as -isysroot.
	SDK string
}

// NewXcode lays out the toolchain under a developer directory.
func NewXcode(dir string) Xcode {
	bin := filepath.Join(dir, "Toolchains", "XcodeDefault.xctoolchain", "usr", "bin")
	return Xcode{
		Dir:   dir,
		Clang: filepath.Join(bin, "clang"),
		Ar:    filepath.Join(bin, "ar"),
		Lipo:  filepath.Join(bin, "lipo"),
		SDK:   filepath.Join(dir, "Platforms", "iPhoneOS.platform", "Developer", "SDKs", "iPhoneOS.sdk"),
	}
}

// Check verifies that every toolchain component exists.
func (x Xcode) Check() error {
	for _, tool := range []struct{ name, path string }{
		{"clang", x.Clang},
		{"ar", x.Ar},
		{"lipo", x.Lipo},
	} {
		if !stage.Exists(tool.path) {
			return &XcodeToolError{Tool: tool.name, Path: tool.path}
		}
	}
	if !stage.IsDir(x.SDK) {
		return &XcodeToolError{Tool: "iOS SDK", Path: x.SDK}
	}
	return nil
}

// FindXcode asks xcode-select for the active developer directory and checks
// the toolchain under it.
func FindXcode(ctx context.Context, env *build.Env) (Xcode, error) {
	res, err := env.Run(ctx, shell.Command{
		Label: "find-xcode",
		Name:  "xcode-select",
		Args:  []string{"--print-path"},
		Dir:   env.Project.Path,
		Quiet: true,
	})
	if err != nil {
		return Xcode{}, fmt.Errorf("%w: %w", ErrXcodeNotFound, err)
	}
	dir := strings.TrimSpace(res.Output)
	if dir == "" {
		return Xcode{}, fmt.Errorf("%w: xcode-select printed no path", ErrXcodeNotFound)
	}
	x := NewXcode(dir)
	if err := x.Check(); err != nil {
		return Xcode{}, err
	}
	return x, nil
}
