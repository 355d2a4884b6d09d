// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// ExecRunner runs commands on the host.
	ExecRunner struct {
		logger *log.Logger
	}

	// lineLogger forwards complete output lines to a logger.
	lineLogger struct {
		mu     sync.Mutex
		logger *log.Logger
		buf    []byte
	}
)

// NewRunner creates an ExecRunner that streams command output to logger at
// debug level. A nil logger discards output logging.
func NewRunner(logger *log.Logger) *ExecRunner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ExecRunner{logger: logger}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	var out bytes.Buffer
	var w io.Writer = &out
	var lw *lineLogger
	if !cmd.Quiet {
		lw = &lineLogger{logger: r.logger.WithPrefix(cmd.label())}
		w = io.MultiWriter(&out, lw)
	}

	r.logger.Debug("running", "cmd", cmd.String(), "dir", cmd.Dir)

	var (
		code int
		err  error
	)
	if cmd.Script != "" {
		code, err = runScript(ctx, cmd, w)
	} else {
		code, err = runExec(ctx, cmd, w)
	}
	if lw != nil {
		lw.flush()
	}
	if err != nil {
		return nil, err
	}
	return &Result{ExitCode: code, Output: strings.TrimRight(out.String(), "\r\n")}, nil
}

func runExec(ctx context.Context, cmd Command, w io.Writer) (int, error) {
	if cmd.Name == "" {
		return 0, errors.New("no command given")
	}
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.envList(os.Environ())
	c.Stdout = w
	c.Stderr = w

	err := c.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	return 0, err
}

func runScript(ctx context.Context, cmd Command, w io.Writer) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(cmd.Script), cmd.label())
	if err != nil {
		return 0, fmt.Errorf("parse script: %w", err)
	}

	dir := cmd.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return 0, err
		}
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(cmd.envList(os.Environ())...)),
		interp.StdIO(nil, w, w),
	)
	if err != nil {
		return 0, fmt.Errorf("create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return int(status), nil
		}
		return 0, err
	}
	return 0, nil
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = append(l.buf, p...)
	for {
		i := bytes.IndexByte(l.buf, '\n')
		if i < 0 {
			break
		}
		l.emit(l.buf[:i])
		l.buf = l.buf[i+1:]
	}
	return len(p), nil
}

func (l *lineLogger) flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emit(l.buf)
	l.buf = nil
}

func (l *lineLogger) emit(line []byte) {
	s := strings.TrimRight(string(line), "\r")
	if strings.TrimSpace(s) == "" {
		return
	}
	l.logger.Debug(s)
}
