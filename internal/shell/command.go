// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrCommandFailed is the sentinel wrapped by CommandError.
var ErrCommandFailed = errors.New("command failed")

type (
	// Command describes one external invocation.
	Command struct {
		// Label prefixes log lines and error messages (e.g. "gradle").
		Label string
		// Name is the executable to run. Ignored when Script is set.
		Name string
		// Args are passed to Name.
		Args []string
		// Script is a POSIX shell command line run by the embedded interpreter.
		Script string
		// Dir is the working directory. Empty means the current directory.
		Dir string
		// Env holds variables layered over the process environment.
		Env map[string]string
		// Quiet suppresses per-line logging of the command output.
		Quiet bool
	}

	// Result is the outcome of a command that was started.
	Result struct {
		// ExitCode is the process (or script) exit status.
		ExitCode int
		// Output is the combined stdout and stderr, trailing newlines trimmed.
		Output string
	}

	// Runner executes commands. Run returns an error only when the command
	// could not be started; a non-zero exit is reported through Result.
	Runner interface {
		Run(ctx context.Context, cmd Command) (*Result, error)
	}

	// CommandError is returned by Check for a non-zero exit.
	CommandError struct {
		Label    string
		Line     string
		ExitCode int
		Output   string
	}
)

// String renders the command the way a user would type it.
func (c Command) String() string {
	if c.Script != "" {
		return c.Script
	}
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

func (c Command) label() string {
	if c.Label != "" {
		return c.Label
	}
	if c.Script != "" {
		return "sh"
	}
	return c.Name
}

// envList returns base with Env layered over it, sorted by key for stable output.
func (c Command) envList(base []string) []string {
	if len(c.Env) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(c.Env))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := c.Env[key]; overridden {
			continue
		}
		out = append(out, kv)
	}
	for _, key := range slices.Sorted(maps.Keys(c.Env)) {
		out = append(out, key+"="+c.Env[key])
	}
	return out
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Label, e.ExitCode)
	if e.Output != "" {
		msg += ": " + lastLines(e.Output, 5)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return ErrCommandFailed
}

// Run executes cmd on r and converts a non-zero exit into a *CommandError.
func Run(ctx context.Context, r Runner, cmd Command) (*Result, error) {
	res, err := r.Run(ctx, cmd)
	return Check(cmd, res, err)
}

// Check converts a non-zero exit into a *CommandError.
func Check(cmd Command, res *Result, err error) (*Result, error) {
	if err != nil {
		return res, fmt.Errorf("%s: %w", cmd.label(), err)
	}
	if res.ExitCode != 0 {
		return res, &CommandError{
			Label:    cmd.label(),
			Line:     cmd.String(),
			ExitCode: res.ExitCode,
			Output:   res.Output,
		}
	}
	return res, nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
