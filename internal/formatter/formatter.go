package formatter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/robotomize/go-junit/internal/junit"
)

var (
	ErrSuiteOpen = errors.New("formatter: a feature is already running")
	ErrNoSuite   = errors.New("formatter: no feature is running")
	ErrCaseOpen  = errors.New("formatter: a scenario is already running")
	ErrNoCase    = errors.New("formatter: no scenario is running")
)

// SuiteWriter persists a finished suite, e.g. as a report file.
type SuiteWriter interface {
	WriteSuite(ctx context.Context, suite *junit.Suite) error
}

// Lifecycle is the callback sequence a driver emits for every feature:
// FeatureStarted, then per scenario ScenarioStarted, any number of step outcomes or one
// ScenarioSkipped, ScenarioFinished; and finally FeatureFinished. A driver that stops halfway
// calls Abort.
type Lifecycle interface {
	FeatureStarted(name string) error
	ScenarioStarted(name string) error
	StepOutcome(outcome Outcome, name, message, location string) error
	ScenarioSkipped() error
	ScenarioFinished() error
	FeatureFinished(ctx context.Context) error
	Abort() error
}

var _ Lifecycle = (*Formatter)(nil)

type Option func(*Formatter)

func WithLogger(logger zerolog.Logger) Option {
	return func(f *Formatter) {
		f.logger = logger
	}
}

// WithCapture attaches c to every suite. Leave it unset to disable capture.
func WithCapture(c junit.Capturer) Option {
	return func(f *Formatter) {
		f.capture = c
	}
}

func WithClock(now func() time.Time) Option {
	return func(f *Formatter) {
		f.now = now
	}
}

func New(w SuiteWriter, opts ...Option) *Formatter {
	f := Formatter{
		writer: w,
		logger: zerolog.Nop(),
		now:    time.Now,
	}

	for _, o := range opts {
		o(&f)
	}

	return &f
}

// Formatter turns lifecycle callbacks into junit suites. It holds at most one open suite and
// one open case and is not safe for concurrent use.
type Formatter struct {
	writer  SuiteWriter
	logger  zerolog.Logger
	capture junit.Capturer
	now     func() time.Time

	suite    *junit.Suite
	scenario *junit.Case
}

func (f *Formatter) FeatureStarted(name string) error {
	if f.suite != nil {
		return ErrSuiteOpen
	}

	opts := []junit.Option{junit.WithClock(f.now)}
	if f.capture != nil {
		opts = append(opts, junit.WithCapture(f.capture))
	}

	suite := junit.NewSuite(name, opts...)
	if err := suite.Start(); err != nil {
		return fmt.Errorf("suite Start: %w", err)
	}

	f.suite = suite
	f.logger.Debug().Str("feature", name).Msg("feature started")

	return nil
}

func (f *Formatter) ScenarioStarted(name string) error {
	if f.suite == nil {
		return ErrNoSuite
	}

	if f.scenario != nil {
		return ErrCaseOpen
	}

	scenario := junit.NewCase(name, junit.WithClock(f.now))
	if err := scenario.Start(); err != nil {
		return fmt.Errorf("case Start: %w", err)
	}

	f.scenario = scenario
	f.logger.Debug().Str("scenario", name).Msg("scenario started")

	return nil
}

// StepOutcome records a negative step outcome on the open scenario, classified by outcome.
func (f *Formatter) StepOutcome(outcome Outcome, name, message, location string) error {
	if f.scenario == nil {
		return ErrNoCase
	}

	if err := f.scenario.AppendFailure(outcome.Kind(), name, message, location); err != nil {
		return fmt.Errorf("case AppendFailure: %w", err)
	}

	f.logger.Debug().
		Str("scenario", f.scenario.Name).
		Stringer("outcome", outcome).
		Str("type", name).
		Msg("step recorded")

	return nil
}

// StepUndefined records a step without an implementation. It is always an error.
func (f *Formatter) StepUndefined(step, location string) error {
	return f.StepOutcome(OutcomeUndefined, UndefinedStepName, step, location)
}

// StepFailed records a step whose assertion did not hold.
func (f *Formatter) StepFailed(name, message, location string) error {
	return f.StepOutcome(OutcomeFailed, name, message, location)
}

// StepErrored records a step that raised an unexpected fault.
func (f *Formatter) StepErrored(name, message, location string) error {
	return f.StepOutcome(OutcomeErrored, name, message, location)
}

func (f *Formatter) ScenarioSkipped() error {
	if f.scenario == nil {
		return ErrNoCase
	}

	if err := f.scenario.MarkSkipped(); err != nil {
		return fmt.Errorf("case MarkSkipped: %w", err)
	}

	return nil
}

// ScenarioFinished finishes the open case and appends it to the open suite.
func (f *Formatter) ScenarioFinished() error {
	if f.scenario == nil {
		return ErrNoCase
	}

	scenario := f.scenario
	f.scenario = nil

	if err := scenario.Finish(); err != nil {
		return fmt.Errorf("case Finish: %w", err)
	}

	if err := f.suite.AppendCase(scenario); err != nil {
		return fmt.Errorf("suite AppendCase: %w", err)
	}

	f.logger.Debug().
		Str("scenario", scenario.Name).
		Float64("time", scenario.Time).
		Int("failures", scenario.FailureCount()).
		Int("errors", scenario.ErrorCount()).
		Bool("skipped", scenario.IsSkipped()).
		Msg("scenario finished")

	return nil
}

// FeatureFinished finishes the open suite and hands it to the SuiteWriter.
func (f *Formatter) FeatureFinished(ctx context.Context) error {
	if f.suite == nil {
		return ErrNoSuite
	}

	if f.scenario != nil {
		return ErrCaseOpen
	}

	suite := f.suite
	f.suite = nil

	if err := suite.Finish(); err != nil {
		return fmt.Errorf("suite Finish: %w", err)
	}

	f.logger.Debug().
		Str("feature", suite.Name).
		Int("tests", suite.Tests).
		Int("failures", suite.Failures).
		Int("errors", suite.Errors).
		Int("skipped", suite.Skipped).
		Msg("feature finished")

	if err := f.writer.WriteSuite(ctx, suite); err != nil {
		return fmt.Errorf("SuiteWriter WriteSuite: %w", err)
	}

	return nil
}

// Abort drops the open feature and scenario without writing them. The suite is still finished
// so its capture gives back os.Stdout and os.Stderr. Without an open feature it does nothing.
func (f *Formatter) Abort() error {
	if f.suite == nil {
		return nil
	}

	suite := f.suite
	f.suite, f.scenario = nil, nil

	if err := suite.Finish(); err != nil {
		return fmt.Errorf("suite Finish: %w", err)
	}

	f.logger.Debug().Str("feature", suite.Name).Int("tests", suite.Tests).Msg("feature aborted")

	return nil
}
