// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/urhonet/cooker/internal/assembly"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects the report encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatTOML     Format = "toml"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatTOML, FormatMarkdown}

type (
	// Module is one closure entry.
	Module struct {
		Name string `json:"name" toml:"name"`
		Path string `json:"path" toml:"path"`
		// Root is the search root the module was found under.
		Root string `json:"root,omitempty" toml:"root,omitempty"`
	}

	// Report describes the closure of one entry module.
	Report struct {
		Entry    string                      `json:"entry" toml:"entry"`
		Roots    []string                    `json:"roots" toml:"roots"`
		Modules  []Module                    `json:"modules" toml:"modules"`
		Dropped  []assembly.DroppedReference `json:"dropped,omitempty" toml:"dropped,omitempty"`
		Failures []assembly.ReadFailure      `json:"read_failures,omitempty" toml:"read_failures,omitempty"`
	}

	// Options tune rendering.
	Options struct {
		// ShowDropped includes unresolved references and read failures.
		ShowDropped bool
		// Width wraps Markdown output; zero keeps glamour's default.
		Width int
		// Raw skips glamour and writes plain Markdown.
		Raw bool
	}
)

// ParseFormat accepts a format name in any case. "md" is an alias for markdown.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		return FormatMarkdown, nil
	}
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, s, formatNames())
}

func formatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// New builds a report. rec may be nil when dropped references were not recorded.
func New(entry string, roots []string, closure *assembly.Closure, rec *assembly.Recorder) *Report {
	r := &Report{Entry: entry, Roots: slices.Clone(roots)}
	for _, m := range closure.Modules() {
		r.Modules = append(r.Modules, Module{Name: m.Name, Path: m.Path, Root: rootOf(m.Path, roots)})
	}
	if rec != nil {
		r.Dropped = rec.DroppedReferences()
		r.Failures = rec.ReadFailures()
	}
	return r
}

// rootOf returns the first root containing path.
func rootOf(path string, roots []string) string {
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}

// Write renders r to w in format f.
func Write(w io.Writer, r *Report, f Format, opts Options) error {
	out := *r
	if !opts.ShowDropped {
		out.Dropped = nil
		out.Failures = nil
	}
	switch f {
	case FormatText, "":
		_, err := io.WriteString(w, Text(&out))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&out); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return nil
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		if err := enc.Encode(&out); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return nil
	case FormatMarkdown:
		md := Markdown(&out)
		if !opts.Raw {
			rendered, err := renderMarkdown(md, opts.Width)
			if err != nil {
				return err
			}
			md = rendered
		}
		_, err := io.WriteString(w, md)
		return err
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}
