package cucumber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robotomize/go-junit/internal/formatter"
	"github.com/robotomize/go-junit/internal/slice"
)

// Failure types recorded for negative step results.
const (
	FailureAssertion = "AssertionFailed"
	FailurePanic     = "Panic"
	FailureAmbiguous = "AmbiguousStep"
	FailureHook      = "HookFailed"
)

type Option func(*Driver)

func WithLogger(logger zerolog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithOutput sets where step output is written while its feature is open, usually the
// stdout side of a capture.Buffer.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) {
		d.output = w
	}
}

// WithUIDNames names features and scenarios after their uid tag, see formatter.UIDName.
func WithUIDNames() Option {
	return func(d *Driver) {
		d.uidNames = true
	}
}

// NewDriver returns a driver that replays reports through lc. The clock must be the one lc
// reads time from; the driver advances it by the recorded step durations.
func NewDriver(lc formatter.Lifecycle, clock *formatter.ManualClock, opts ...Option) *Driver {
	d := Driver{
		lc:     lc,
		clock:  clock,
		logger: zerolog.Nop(),
		output: io.Discard,
	}

	for _, o := range opts {
		o(&d)
	}

	return &d
}

type Driver struct {
	lc       formatter.Lifecycle
	clock    *formatter.ManualClock
	logger   zerolog.Logger
	output   io.Writer
	uidNames bool
}

// Drive emits the lifecycle of every feature in order. It stops at the first error and aborts
// the feature that was open.
func (d *Driver) Drive(ctx context.Context, features []Feature) error {
	for _, feature := range features {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := d.feature(ctx, feature); err != nil {
			err = fmt.Errorf("feature %s: %w", location(feature.URI, feature.Line), err)
			if abortErr := d.lc.Abort(); abortErr != nil {
				err = errors.Join(err, fmt.Errorf("Lifecycle Abort: %w", abortErr))
			}

			return err
		}
	}

	return nil
}

func (d *Driver) feature(ctx context.Context, feature Feature) error {
	featureTags := tagNames(feature.Tags)

	name, err := d.name(feature.Name, featureTags)
	if err != nil {
		return err
	}

	if err = d.lc.FeatureStarted(name); err != nil {
		return err
	}

	d.logger.Debug().Str("uri", feature.URI).Int("elements", len(feature.Elements)).Msg("replaying feature")

	// background steps run before, and belong to, the scenario that follows them
	var background []Step
	for _, el := range feature.Elements {
		if el.IsBackground() {
			background = append(background, el.Steps...)
			continue
		}

		steps := make([]Step, 0, len(background)+len(el.Steps))
		steps = append(steps, background...)
		steps = append(steps, el.Steps...)
		background = nil

		// scenario tags repeat the feature tags
		own := slice.Filter(
			tagNames(el.Tags), func(tag string) bool {
				_, inherited := slice.Find(featureTags, func(t string) bool { return t == tag })
				return !inherited
			},
		)

		if err = d.scenario(feature.URI, el, own, steps); err != nil {
			return fmt.Errorf("scenario %s: %w", location(feature.URI, el.Line), err)
		}
	}

	return d.lc.FeatureFinished(ctx)
}

// scenario records the before hooks, the steps and the after hooks of el in run order. A
// scenario whose steps never ran is skipped unless one of its hooks failed.
func (d *Driver) scenario(uri string, el Element, tags []string, steps []Step) error {
	name, err := d.name(el.Name, tags)
	if err != nil {
		return err
	}

	if err = d.lc.ScenarioStarted(name); err != nil {
		return err
	}

	_, hookFailed := slice.Find(slice.Flat([][]Hook{el.Before, el.After}), Hook.Failed)
	if !hookFailed && notExecuted(steps) {
		if err = d.lc.ScenarioSkipped(); err != nil {
			return err
		}
	}

	fallback := location(uri, el.Line)
	if err = d.hooks(el.Before, "before hook failed", fallback); err != nil {
		return err
	}

	for _, step := range steps {
		d.clock.Advance(step.Result.Elapsed())
		d.writeOutput(step.Output)

		if err = d.step(uri, step); err != nil {
			return err
		}
	}

	if err = d.hooks(el.After, "after hook failed", fallback); err != nil {
		return err
	}

	return d.lc.ScenarioFinished()
}

func (d *Driver) hooks(hooks []Hook, defaultMessage, fallback string) error {
	for _, h := range hooks {
		d.clock.Advance(h.Result.Elapsed())
		d.writeOutput(h.Output)

		if !h.Failed() {
			continue
		}

		message, loc := h.Result.ErrorMessage, h.Match.Location
		if message == "" {
			message = defaultMessage
		}

		if loc == "" {
			loc = fallback
		}

		if err := d.lc.StepOutcome(formatter.OutcomeErrored, FailureHook, message, loc); err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) step(uri string, step Step) error {
	loc := location(uri, step.Line)
	message := step.Result.ErrorMessage

	switch step.Result.Status {
	case StatusUndefined:
		return d.lc.StepOutcome(formatter.OutcomeUndefined, formatter.UndefinedStepName, step.Text(), loc)
	case StatusFailed:
		if formatter.LooksLikePanic(strings.Split(message, "\n")...) {
			return d.lc.StepOutcome(formatter.OutcomeErrored, FailurePanic, message, loc)
		}

		return d.lc.StepOutcome(formatter.OutcomeFailed, FailureAssertion, message, loc)
	case StatusAmbiguous:
		if message == "" {
			message = step.Text()
		}

		return d.lc.StepOutcome(formatter.OutcomeErrored, FailureAmbiguous, message, loc)
	default:
		return nil
	}
}

func (d *Driver) name(name string, tags []string) (string, error) {
	if !d.uidNames {
		return name, nil
	}

	return formatter.UIDName(name, tags)
}

func (d *Driver) writeOutput(lines []string) {
	for _, line := range lines {
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}

		if _, err := io.WriteString(d.output, line); err != nil {
			d.logger.Warn().Err(err).Msg("write step output")
			return
		}
	}
}

// notExecuted reports whether a scenario has steps and none of them ran.
func notExecuted(steps []Step) bool {
	if len(steps) == 0 {
		return false
	}

	_, ran := slice.Find(
		steps, func(s Step) bool {
			return s.Result.Status != StatusSkipped && s.Result.Status != StatusPending
		},
	)

	return !ran
}
