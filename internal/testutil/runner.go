// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/urhonet/cooker/internal/shell"
)

type (
	// FakeRunner is a shell.Runner that records commands instead of running
	// them. Responses are matched by substring against Command.String().
	FakeRunner struct {
		mu        sync.Mutex
		calls     []shell.Command
		responses []fakeResponse
		// OnRun, when set, is invoked for every command before a response is
		// chosen. Tests use it to create the files a real tool would produce.
		OnRun func(cmd shell.Command)
	}

	fakeResponse struct {
		match  string
		result *shell.Result
		err    error
	}
)

// Respond registers the result for commands whose rendered line contains
// match. Earlier registrations take precedence.
func (f *FakeRunner) Respond(match string, res *shell.Result, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{match: match, result: res, err: err})
	return f
}

// Run implements shell.Runner. Unmatched commands succeed with empty output.
func (f *FakeRunner) Run(_ context.Context, cmd shell.Command) (*shell.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	hook := f.OnRun
	responses := f.responses
	f.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}
	line := cmd.String()
	for _, r := range responses {
		if strings.Contains(line, r.match) {
			res := r.result
			if res == nil {
				res = &shell.Result{}
			}
			return res, r.err
		}
	}
	return &shell.Result{}, nil
}

// Calls returns a copy of every command run so far.
func (f *FakeRunner) Calls() []shell.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]shell.Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// Lines returns the rendered command lines run so far.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Ran reports whether any command line contains match.
func (f *FakeRunner) Ran(match string) bool {
	for _, l := range f.Lines() {
		if strings.Contains(l, match) {
			return true
		}
	}
	return false
}
