// SPDX-License-Identifier: MPL-2.0

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/urhonet/cooker/internal/assembly"
	"github.com/urhonet/cooker/internal/testutil"
)

// resolved resolves Game.dll over two roots; System.Missing is dropped and
// Broken.dll cannot be read.
func resolved(t *testing.T) *Report {
	t.Helper()
	dir := t.TempDir()
	bcl := filepath.Join(dir, "bcl")
	refs := filepath.Join(dir, "References")
	entry := filepath.Join(dir, "Game.dll")
	testutil.MustWriteFile(t, entry, "")
	testutil.MustWriteFile(t, filepath.Join(bcl, "mscorlib.dll"), "")
	testutil.MustWriteFile(t, filepath.Join(refs, "Broken.dll"), "")

	reader := assembly.ReaderFunc(func(_ context.Context, p string) ([]string, error) {
		switch filepath.Base(p) {
		case "Game.dll":
			return []string{"mscorlib", "Broken", "System.Missing"}, nil
		case "Broken.dll":
			return nil, errors.New("bad metadata")
		}
		return nil, nil
	})
	rec := &assembly.Recorder{}
	roots := []string{bcl, refs}
	closure, err := assembly.NewResolver(reader, assembly.WithObserver(rec)).Resolve(context.Background(), entry, roots)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	return New(entry, roots, closure, rec)
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := resolved(t)
	if len(r.Modules) != 2 {
		t.Fatalf("modules = %+v", r.Modules)
	}
	if m := r.Modules[0]; m.Name != "mscorlib" || m.Root != r.Roots[0] {
		t.Errorf("modules[0] = %+v", m)
	}
	if m := r.Modules[1]; m.Name != "Broken" || m.Root != r.Roots[1] {
		t.Errorf("modules[1] = %+v", m)
	}
	if len(r.Dropped) != 1 || r.Dropped[0].Name != "System.Missing" {
		t.Errorf("dropped = %+v", r.Dropped)
	}
	if len(r.Failures) != 1 || !strings.Contains(r.Failures[0].Err, "bad metadata") {
		t.Errorf("failures = %+v", r.Failures)
	}
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	r := resolved(t)
	var buf bytes.Buffer
	if err := Write(&buf, r, FormatJSON, Options{}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(got.Modules) != 2 || got.Entry != r.Entry {
		t.Errorf("decoded = %+v", got)
	}
	if strings.Contains(buf.String(), "dropped") {
		t.Error("dropped references written without ShowDropped")
	}
	if r.Dropped == nil {
		t.Error("Write must not modify the report")
	}

	buf.Reset()
	if err := Write(&buf, r, FormatJSON, Options{ShowDropped: true}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"read_failures"`) || !strings.Contains(buf.String(), `"System.Missing"`) {
		t.Errorf("ShowDropped output =\n%s", buf.String())
	}
}

func TestWrite_TOML(t *testing.T) {
	t.Parallel()

	r := resolved(t)
	var buf bytes.Buffer
	if err := Write(&buf, r, FormatTOML, Options{ShowDropped: true}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !strings.Contains(buf.String(), "[[modules]]") {
		t.Errorf("no modules table:\n%s", buf.String())
	}
	var got Report
	if err := toml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not TOML: %v\n%s", err, buf.String())
	}
	if len(got.Modules) != 2 || got.Modules[1].Name != "Broken" || len(got.Dropped) != 1 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestWrite_Markdown(t *testing.T) {
	t.Parallel()

	r := resolved(t)
	var buf bytes.Buffer
	if err := Write(&buf, r, FormatMarkdown, Options{Raw: true, ShowDropped: true}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	md := buf.String()
	for _, want := range []string{
		"# Closure of Game.dll\n",
		"| 1 | mscorlib | " + r.Modules[0].Path + " |\n",
		"| System.Missing | Game.dll |\n",
		"## Unreadable modules\n",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	buf.Reset()
	if err := Write(&buf, r, FormatMarkdown, Options{Width: 120}); err != nil {
		t.Fatalf("Write() rendered error: %v", err)
	}
	if !strings.Contains(buf.String(), "mscorlib") {
		t.Errorf("rendered markdown =\n%s", buf.String())
	}
}

func TestWrite_Text(t *testing.T) {
	t.Parallel()

	r := resolved(t)
	var buf bytes.Buffer
	if err := Write(&buf, r, FormatText, Options{}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Game.dll: 2 modules") || !strings.Contains(out, r.Modules[1].Path) {
		t.Errorf("text =\n%s", out)
	}
	if strings.Contains(out, "System.Missing") {
		t.Error("dropped reference shown without ShowDropped")
	}

	buf.Reset()
	if err := Write(&buf, r, FormatText, Options{ShowDropped: true}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !strings.Contains(buf.String(), "1 references not found:") || !strings.Contains(buf.String(), "System.Missing") {
		t.Errorf("text =\n%s", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{
		"text":     FormatText,
		"JSON":     FormatJSON,
		" toml ":   FormatTOML,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
	} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("yaml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(yaml) error = %v", err)
	}
}
