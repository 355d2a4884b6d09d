// SPDX-License-Identifier: MPL-2.0

package assembly

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/urhonet/cooker/internal/shell"
)

const monodisOutput = "AssemblyRef Table\r\n" +
	"1: Version=4.0.0.0\r\n" +
	"\tName=mscorlib\r\n" +
	"\tFlags=0x00000000\r\n" +
	"\tPublic Key:\r\n" +
	"2: Version=1.0.0.0\r\n" +
	"\tName=UrhoDotNet\r\n" +
	"3: Version=4.0.0.0\r\n" +
	"\tName= System.Core \r\n"

type scriptedRunner struct {
	res  *shell.Result
	err  error
	seen []shell.Command
}

func (r *scriptedRunner) Run(_ context.Context, cmd shell.Command) (*shell.Result, error) {
	r.seen = append(r.seen, cmd)
	return r.res, r.err
}

func TestParseAssemblyRefs(t *testing.T) {
	t.Parallel()
	got := ParseAssemblyRefs(monodisOutput)
	want := []string{"mscorlib", "UrhoDotNet", "System.Core"}
	if !slices.Equal(got, want) {
		t.Errorf("ParseAssemblyRefs() = %v, want %v", got, want)
	}
}

func TestParseAssemblyRefs_Empty(t *testing.T) {
	t.Parallel()
	if got := ParseAssemblyRefs("AssemblyRef Table\n"); len(got) != 0 {
		t.Errorf("ParseAssemblyRefs() = %v, want none", got)
	}
}

func TestMonodisReader_ReadReferences(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{res: &shell.Result{Output: monodisOutput}}
	reader := &MonodisReader{Runner: runner, Path: "/home/tools/monodis/linux/monodis"}

	refs, err := reader.ReadReferences(context.Background(), "/p/Game.dll")
	if err != nil {
		t.Fatalf("ReadReferences() error: %v", err)
	}
	if len(refs) != 3 {
		t.Errorf("got %d refs, want 3", len(refs))
	}
	if len(runner.seen) != 1 {
		t.Fatalf("runner called %d times, want 1", len(runner.seen))
	}
	cmd := runner.seen[0]
	if cmd.Name != reader.Path || !slices.Equal(cmd.Args, []string{"--assemblyref", "/p/Game.dll"}) {
		t.Errorf("unexpected command: %s", cmd)
	}
}

func TestMonodisReader_NonZeroExit(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{res: &shell.Result{ExitCode: 2, Output: "cannot open image"}}
	reader := &MonodisReader{Runner: runner, Path: "monodis"}

	_, err := reader.ReadReferences(context.Background(), "/p/native.so")
	if !errors.Is(err, shell.ErrCommandFailed) {
		t.Fatalf("error = %v, want ErrCommandFailed", err)
	}
}
