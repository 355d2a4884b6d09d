// SPDX-License-Identifier: MPL-2.0

package ios

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/shell"
)

// DefaultMinIOSVersion is the deployment target when none is configured.
const DefaultMinIOSVersion = "10.0"

// aotFlags are the mono full-AOT options for static arm64 iOS linking.
const aotFlags = "asmonly,full,direct-icalls,direct-pinvoke,static,mtriple=arm64-ios"

type (
	// Compiler AOT-compiles managed modules into arm64 object files.
	Compiler struct {
		env   *build.Env
		xcode Xcode
		// Dir receives the .s and .o files.
		Dir string
		// Jobs bounds concurrent compilations. Zero means one per CPU.
		Jobs int
		// MinVersion is the iOS deployment target.
		MinVersion string
		// Env is layered over the environment of every command.
		Env map[string]string
	}

	// Object is the outcome of compiling one module.
	Object struct {
		Module string
		Path   string
		// Skipped means the object was newer than the module and reused.
		Skipped bool
	}
)

// ObjectPath returns the object file for module.
func (c *Compiler) ObjectPath(module string) string {
	return filepath.Join(c.Dir, filepath.Base(module)+".o")
}

// Compile compiles every module. Results keep the order of modules. The
// first failure cancels compilations that have not started yet.
func (c *Compiler) Compile(ctx context.Context, modules []string) ([]Object, error) {
	jobs := c.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	objs := make([]Object, len(modules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, m := range modules {
		g.Go(func() error {
			obj, err := c.compile(gctx, m)
			if err != nil {
				return fmt.Errorf("aot %s: %w", filepath.Base(m), err)
			}
			objs[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return objs, nil
}

func (c *Compiler) compile(ctx context.Context, module string) (Object, error) {
	obj := Object{Module: module, Path: c.ObjectPath(module)}
	if upToDate(module, obj.Path) {
		obj.Skipped = true
		return obj, nil
	}
	if err := ctx.Err(); err != nil {
		return obj, err
	}

	asm := filepath.Join(c.Dir, filepath.Base(module)+".s")
	if _, err := c.env.Run(ctx, shell.Command{
		Label: "aot-assembler",
		Name:  c.env.Tools.AOTCompiler,
		Args:  []string{"--aot=" + aotFlags + ",outfile=" + asm, "-O=gsharedvt", module},
		Dir:   c.env.Project.Path,
		Env:   c.Env,
	}); err != nil {
		return obj, err
	}

	minVersion := c.MinVersion
	if minVersion == "" {
		minVersion = DefaultMinIOSVersion
	}
	_, err := c.env.Run(ctx, shell.Command{
		Label: "aot-object",
		Name:  c.xcode.Clang,
		Args: []string{
			"-isysroot", c.xcode.SDK,
			"-Qunused-arguments",
			"-miphoneos-version-min=" + minVersion,
			"-arch", "arm64",
			"-c", "-o", obj.Path,
			"-x", "assembler", asm,
		},
		Dir: c.env.Project.Path,
		Env: c.Env,
	})
	return obj, err
}

// upToDate reports whether obj exists and is not older than module.
func upToDate(module, obj string) bool {
	oi, err := os.Stat(obj)
	if err != nil {
		return false
	}
	mi, err := os.Stat(module)
	if err != nil {
		return false
	}
	return !mi.ModTime().After(oi.ModTime())
}
