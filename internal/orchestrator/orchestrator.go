package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/suspenders-cli/suspenders/internal/builder"
	"github.com/suspenders-cli/suspenders/internal/options"
	"github.com/suspenders-cli/suspenders/internal/plan"
	"github.com/suspenders-cli/suspenders/internal/reporter"
)

// Result is the outcome of one run.
type Result struct {
	RunID    string
	State    State
	Executed []string // steps the builder ran successfully, in order
	Skipped  []string // steps whose guard was false
	Failure  *StepFailure
	Started  time.Time
	Duration time.Duration
}

func (r *Result) transition(to State) error {
	if !CanTransition(r.State, to) {
		return fmt.Errorf("illegal run state transition %s -> %s", r.State, to)
	}
	r.State = to
	return nil
}

// Orchestrator executes plans. The zero value is not usable; call New.
type Orchestrator struct {
	reporter reporter.Reporter
	log      zerolog.Logger
	outro    []string
	now      func() time.Time
	newID    func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReporter sets the progress reporter. Reporter errors are logged and
// ignored.
func WithReporter(r reporter.Reporter) Option {
	return func(o *Orchestrator) { o.reporter = r }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithOutro sets the messages announced after a successful run.
func WithOutro(lines ...string) Option {
	return func(o *Orchestrator) { o.outro = lines }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New returns an Orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		reporter: reporter.Discard,
		log:      zerolog.Nop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.reporter = reporter.Safe(o.reporter, o.log)
	return o
}

// Execute runs root against cfg using b. On a builder failure it returns
// the partial Result together with a *StepFailure; steps declared after the
// failing one are never invoked.
func (o *Orchestrator) Execute(ctx context.Context, root *plan.Phase, reg *plan.Registry, cfg options.Config, b builder.Builder) (*Result, error) {
	res := &Result{RunID: o.newID(), State: NotStarted, Started: o.now()}
	log := o.log.With().Str("run", res.RunID).Logger()

	if b == nil {
		return res, fmt.Errorf("executing plan: nil builder")
	}
	if err := plan.Validate(root, reg); err != nil {
		return res, fmt.Errorf("executing plan: %w", err)
	}
	if err := res.transition(Running); err != nil {
		return res, err
	}
	log.Debug().Str("database", cfg.Database).Str("app", cfg.AppName).Msg("run started")

	err := plan.Walk(root, reg, cfg, plan.Visitor{
		Phase: func(p *plan.Phase, path []string) error {
			log.Debug().Str("phase", p.Name).Int("depth", len(path)-1).Msg("entering phase")
			if p.Label != "" {
				_ = o.reporter.Announce(p.Label)
			}
			return nil
		},
		Step: func(s plan.Step, enabled bool, path []string) error {
			if !enabled {
				log.Debug().Str("step", s.Name).Msg("guard false, skipping")
				res.Skipped = append(res.Skipped, s.Name)
				return nil
			}
			if err := ctx.Err(); err != nil {
				return &StepFailure{Step: s.Name, Phase: path, Cause: err}
			}

			start := o.now()
			log.Debug().Str("step", s.Name).Msg("running step")
			if err := b.Run(ctx, s.Name, s.ResolveArgs(cfg)); err != nil {
				log.Error().Err(err).Str("step", s.Name).Msg("step failed")
				return &StepFailure{Step: s.Name, Phase: path, Cause: err}
			}
			log.Debug().Str("step", s.Name).Dur("took", o.now().Sub(start)).Msg("step done")
			res.Executed = append(res.Executed, s.Name)
			return nil
		},
	})
	res.Duration = o.now().Sub(res.Started)

	if err != nil {
		var failure *StepFailure
		if !errors.As(err, &failure) {
			failure = &StepFailure{Step: "", Cause: err}
		}
		res.Failure = failure
		if terr := res.transition(Failed); terr != nil {
			return res, terr
		}
		return res, failure
	}

	if err := res.transition(Succeeded); err != nil {
		return res, err
	}
	for _, line := range o.outro {
		_ = o.reporter.Announce(line)
	}
	log.Debug().Int("executed", len(res.Executed)).Int("skipped", len(res.Skipped)).Dur("took", res.Duration).Msg("run finished")
	return res, nil
}
