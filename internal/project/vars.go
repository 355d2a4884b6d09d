// SPDX-License-Identifier: MPL-2.0

package project

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrVarsNotFound is returned when a vars file does not exist.
var ErrVarsNotFound = errors.New("project vars file not found")

// Vars holds the assignments of a vars file. Values keep their source text;
// quotes are stripped on read.
type Vars struct {
	values map[string]string
	order  []string
}

// NewVars returns an empty Vars.
func NewVars() *Vars {
	return &Vars{values: make(map[string]string)}
}

// LoadVars reads and parses the vars file at path.
func LoadVars(path string) (*Vars, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrVarsNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseVars(data, path), nil
}

// ParseVars parses shell assignments from data. Top-level "export KEY=VALUE"
// and plain "KEY=VALUE" statements are recorded; anything else is ignored.
// Files the shell parser rejects are read line by line instead, keeping only
// "export" lines without a '#'.
func ParseVars(data []byte, name string) *Vars {
	v := NewVars()
	f, err := syntax.NewParser(syntax.KeepComments(false)).Parse(bytes.NewReader(data), name)
	if err != nil {
		v.parseLines(data)
		return v
	}
	for _, stmt := range f.Stmts {
		switch cmd := stmt.Cmd.(type) {
		case *syntax.DeclClause:
			if cmd.Variant == nil || cmd.Variant.Value != "export" {
				continue
			}
			for _, as := range cmd.Args {
				v.assign(data, as)
			}
		case *syntax.CallExpr:
			if len(cmd.Args) > 0 {
				continue
			}
			for _, as := range cmd.Assigns {
				v.assign(data, as)
			}
		}
	}
	return v
}

func (v *Vars) assign(src []byte, as *syntax.Assign) {
	if as.Name == nil || as.Naked {
		return
	}
	var node syntax.Node
	switch {
	case as.Array != nil:
		node = as.Array
	case as.Value != nil:
		node = as.Value
	default:
		v.Set(as.Name.Value, "")
		return
	}
	start, end := node.Pos().Offset(), node.End().Offset()
	if int(end) > len(src) || start > end {
		return
	}
	v.Set(as.Name.Value, strings.TrimSpace(string(src[start:end])))
}

func (v *Vars) parseLines(data []byte) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.Contains(line, "#") {
			continue
		}
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "export") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimPrefix(line, "export"), "=")
		if !ok {
			continue
		}
		v.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
}

// Set records key. Later assignments overwrite earlier ones.
func (v *Vars) Set(key, value string) {
	if _, ok := v.values[key]; !ok {
		v.order = append(v.order, key)
	}
	v.values[key] = value
}

// Lookup returns the unquoted value of key and whether it was assigned.
func (v *Vars) Lookup(key string) (string, bool) {
	raw, ok := v.values[key]
	if !ok {
		return "", false
	}
	return unquote(raw), true
}

// Get returns the unquoted value of key, or "".
func (v *Vars) Get(key string) string {
	s, _ := v.Lookup(key)
	return s
}

// GetOr returns Get(key), or fallback when that is empty.
func (v *Vars) GetOr(key, fallback string) string {
	if s := v.Get(key); s != "" {
		return s
	}
	return fallback
}

// List splits the value of key into its entries (see SplitList).
func (v *Vars) List(key string) []string {
	return SplitList(v.Get(key))
}

// Keys returns the assigned keys in first-assignment order.
func (v *Vars) Keys() []string {
	return slices.Clone(v.order)
}

// Len returns the number of assigned keys.
func (v *Vars) Len() int {
	return len(v.order)
}

// SplitList turns "('a', 'b', 'c')" or "a b c" into [a b c]. Quotes and
// commas are dropped, the surrounding parentheses trimmed, and the rest split
// on whitespace.
func SplitList(value string) []string {
	value = strings.NewReplacer("'", "", `"`, "", ",", "").Replace(value)
	value = strings.TrimSpace(value)
	value = strings.TrimSpace(strings.Trim(value, "()"))
	return strings.Fields(value)
}

func unquote(s string) string {
	return strings.TrimSpace(strings.NewReplacer("'", "", `"`, "").Replace(s))
}
