// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/urhonet/cooker/internal/dag"
)

// ErrDuplicateStep is returned by Add for a name already in the pipeline.
var ErrDuplicateStep = errors.New("duplicate step")

type (
	// Step is one unit of build work.
	Step struct {
		// Name identifies the step in logs, errors and After lists.
		Name string
		// After lists steps that must finish first.
		After []string
		// When gates the step; nil means always run.
		When func() bool
		// Run does the work.
		Run func(ctx context.Context) error
	}

	// StepError wraps the failure of a named step.
	StepError struct {
		Step string
		Err  error
	}

	// Outcome records what happened to one step.
	Outcome struct {
		Step     string
		Skipped  bool
		Duration time.Duration
		Err      error
	}

	// Pipeline is an ordered collection of steps. It is not safe for
	// concurrent use.
	Pipeline struct {
		name   string
		steps  []Step
		logger *log.Logger
	}

	// Option configures a Pipeline.
	Option func(*Pipeline)
)

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// WithLogger sets the logger used for step progress.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates an empty pipeline named name.
func New(name string, opts ...Option) *Pipeline {
	p := &Pipeline{name: name, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add appends steps. Names must be unique.
func (p *Pipeline) Add(steps ...Step) error {
	for _, s := range steps {
		if slices.ContainsFunc(p.steps, func(o Step) bool { return o.Name == s.Name }) {
			return fmt.Errorf("%w: %s", ErrDuplicateStep, s.Name)
		}
		p.steps = append(p.steps, s)
	}
	return nil
}

// MustAdd is Add for statically declared pipelines.
func (p *Pipeline) MustAdd(steps ...Step) *Pipeline {
	if err := p.Add(steps...); err != nil {
		panic(err)
	}
	return p
}

// Order returns the step names in execution order.
func (p *Pipeline) Order() ([]string, error) {
	g := dag.New()
	for _, s := range p.steps {
		g.AddNode(s.Name)
	}
	for _, s := range p.steps {
		for _, a := range s.After {
			g.AddEdge(a, s.Name)
		}
	}
	return g.Sort()
}

// Run executes every step in order and returns one Outcome per step reached.
// It stops at the first failing step or when ctx is canceled.
func (p *Pipeline) Run(ctx context.Context) ([]Outcome, error) {
	order, err := p.Order()
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", p.name, err)
	}
	byName := make(map[string]Step, len(p.steps))
	for _, s := range p.steps {
		byName[s.Name] = s
	}

	outcomes := make([]Outcome, 0, len(order))
	started := time.Now()
	for i, name := range order {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		s := byName[name]
		if s.When != nil && !s.When() {
			p.logger.Debug("skip", "step", name)
			outcomes = append(outcomes, Outcome{Step: name, Skipped: true})
			continue
		}

		p.logger.Info(name, "step", fmt.Sprintf("%d/%d", i+1, len(order)))
		t0 := time.Now()
		runErr := s.Run(ctx)
		o := Outcome{Step: name, Duration: time.Since(t0), Err: runErr}
		outcomes = append(outcomes, o)
		if runErr != nil {
			p.logger.Error("step failed", "step", name, "err", runErr)
			return outcomes, &StepError{Step: name, Err: runErr}
		}
		p.logger.Debug("done", "step", name, "took", o.Duration.Round(time.Millisecond))
	}
	p.logger.Info("finished", "pipeline", p.name, "took", time.Since(started).Round(time.Millisecond))
	return outcomes, nil
}
