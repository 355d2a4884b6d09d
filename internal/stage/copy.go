// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"bytes"
	"crypto/sha512"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrSourceMissing is returned when a copy source does not exist.
var ErrSourceMissing = errors.New("copy source not found")

type (
	// Options tunes a directory copy.
	Options struct {
		// Exclude holds doublestar patterns relative to the source root.
		Exclude []string
		// IfDifferent skips files whose destination content is identical.
		IfDifferent bool
	}

	// Stats counts the outcome of a copy.
	Stats struct {
		Copied  int
		Skipped int
	}
)

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Copied += other.Copied
	s.Skipped += other.Skipped
}

// CopyFile copies src to dst, replacing dst and creating its parent.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, src)
		}
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}

// CopyIfDifferent copies src to dst unless dst already has the same content.
// It reports whether a copy happened.
func CopyIfDifferent(src, dst string) (bool, error) {
	srcSum, err := fileHash(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", ErrSourceMissing, src)
		}
		return false, err
	}
	dstSum, err := fileHash(dst)
	if err == nil && bytes.Equal(srcSum, dstSum) {
		return false, nil
	}
	if err := CopyFile(src, dst); err != nil {
		return false, err
	}
	return true, nil
}

func fileHash(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h := sha512.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// CopyDir copies the tree under src into dst. Existing files are replaced,
// or left alone when opts.IfDifferent is set and their content matches.
// Symbolic links are recreated, not followed.
func CopyDir(src, dst string, opts Options) (Stats, error) {
	var stats Stats
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, fmt.Errorf("%w: %s", ErrSourceMissing, src)
		}
		return stats, err
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("%s is not a directory", src)
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return stats, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel != "." && excluded(opts.Exclude, filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if d.Type()&fs.ModeSymlink != 0 {
			copied, err := copySymlink(path, target, opts.IfDifferent)
			if err != nil {
				return err
			}
			if copied {
				stats.Copied++
			} else {
				stats.Skipped++
			}
			return nil
		}
		if opts.IfDifferent {
			copied, err := CopyIfDifferent(path, target)
			if err != nil {
				return err
			}
			if copied {
				stats.Copied++
			} else {
				stats.Skipped++
			}
			return nil
		}
		if err := CopyFile(path, target); err != nil {
			return err
		}
		stats.Copied++
		return nil
	})
	return stats, err
}

// copySymlink recreates the link at src as dst with the same target. With
// ifDifferent an existing link to the same target is left alone. It reports
// whether dst was written.
func copySymlink(src, dst string, ifDifferent bool) (bool, error) {
	link, err := os.Readlink(src)
	if err != nil {
		return false, err
	}
	if ifDifferent {
		if cur, err := os.Readlink(dst); err == nil && cur == link {
			return false, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}
	if err := os.RemoveAll(dst); err != nil {
		return false, err
	}
	if err := os.Symlink(link, dst); err != nil {
		return false, fmt.Errorf("link %s: %w", dst, err)
	}
	return true, nil
}

// CopyDirIfDifferent is CopyDir with IfDifferent set.
func CopyDirIfDifferent(src, dst string, exclude ...string) (Stats, error) {
	return CopyDir(src, dst, Options{Exclude: exclude, IfDifferent: true})
}

func excluded(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Move renames src to dst, falling back to copy and delete across devices.
func Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
