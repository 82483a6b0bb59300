package gotest

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

// Failure types recorded for failed tests.
const (
	FailureTest       = "TestFailed"
	FailurePanic      = "Panic"
	FailurePackage    = "PackageFailed"
	FailureUnfinished = "TestUnfinished"
)

const (
	defaultTestMessage       = "test failed"
	defaultPackageMessage    = "package failed"
	defaultUnfinishedMessage = "test did not finish"
)

type Option func(*Driver)

func WithLogger(logger zerolog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithOutput sets where package-level output is written while its suite is open.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) {
		d.output = w
	}
}

// NewDriver returns a driver that replays packages through lc. The clock must be the one lc
// reads time from; the driver moves it along the event timestamps.
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
	lc     formatter.Lifecycle
	clock  *formatter.ManualClock
	logger zerolog.Logger
	output io.Writer
}

// Drive emits one suite per package. Packages without finished tests are left out unless they
// failed, e.g. on a build error. On error the open package suite is aborted.
func (d *Driver) Drive(ctx context.Context, packages []*Package) error {
	for _, pkg := range packages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := d.pkg(ctx, pkg); err != nil {
			err = fmt.Errorf("package %s: %w", pkg.Name, err)
			if abortErr := d.lc.Abort(); abortErr != nil {
				err = errors.Join(err, fmt.Errorf("Lifecycle Abort: %w", abortErr))
			}

			return err
		}
	}

	return nil
}

func (d *Driver) pkg(ctx context.Context, pkg *Package) error {
	if pkg.Empty() && pkg.Status != ActionFail {
		d.logger.Debug().Str("package", pkg.Name).Str("status", pkg.Status).Msg("no tests, package skipped")
		return nil
	}

	d.clock.Set(pkg.Start)

	if err := d.lc.FeatureStarted(pkg.Name); err != nil {
		return err
	}

	for _, line := range pkg.Output {
		if _, err := io.WriteString(d.output, line); err != nil {
			d.logger.Warn().Err(err).Msg("write package output")
			break
		}
	}

	var failed bool
	for _, tc := range pkg.Tests {
		if !tc.Done() && pkg.Status != ActionFail {
			d.logger.Warn().Str("test", tc.FullName()).Msg("test did not finish, left out")
			continue
		}

		recorded, err := d.test(tc, pkg)
		if err != nil {
			return fmt.Errorf("test %s: %w", tc.Name, err)
		}

		failed = failed || recorded
	}

	if pkg.Status == ActionFail && !failed {
		if err := d.packageFailure(pkg); err != nil {
			return err
		}
	}

	d.clock.Set(pkg.Start.Add(pkg.Elapsed))

	return d.lc.FeatureFinished(ctx)
}

// test records one test and reports whether it was recorded as a failure or an error. A test
// without a final event in a failed package, e.g. one killed by -timeout, is an error that
// lasts until the package ended.
func (d *Driver) test(tc *Test, pkg *Package) (bool, error) {
	start, end := tc.Start, tc.Start.Add(tc.Elapsed)
	if !tc.Done() {
		if start.IsZero() {
			start = pkg.Start
		}

		end = pkg.Start.Add(pkg.Elapsed)
		if end.Before(start) {
			end = start
		}
	}

	d.clock.Set(start)

	if err := d.lc.ScenarioStarted(tc.Name); err != nil {
		return false, err
	}

	var failed bool
	switch tc.Status {
	case ActionSkip:
		if err := d.lc.ScenarioSkipped(); err != nil {
			return false, err
		}
	case ActionFail:
		outcome, name := formatter.OutcomeFailed, FailureTest
		if formatter.LooksLikePanic(tc.Output...) {
			outcome, name = formatter.OutcomeErrored, FailurePanic
		}

		message := failureMessage(tc.Output, outcome == formatter.OutcomeErrored)
		if err := d.lc.StepOutcome(outcome, name, message, joinOutput(tc.Output)); err != nil {
			return false, err
		}

		failed = true
	case ActionPass:
	default:
		message := failureMessage(tc.Output, true)
		if message == defaultTestMessage {
			message = defaultUnfinishedMessage
		}

		err := d.lc.StepOutcome(formatter.OutcomeErrored, FailureUnfinished, message, joinOutput(tc.Output))
		if err != nil {
			return false, err
		}

		failed = true
	}

	d.clock.Set(end)

	return failed, d.lc.ScenarioFinished()
}

// packageFailure records a failed package as a single errored case. It covers build errors and
// failures no test owns, e.g. an os.Exit in TestMain or a race report after the tests.
func (d *Driver) packageFailure(pkg *Package) error {
	if err := d.lc.ScenarioStarted(pkg.Name); err != nil {
		return err
	}

	message := defaultPackageMessage
	if pkg.FailedBuild != "" {
		message = "build failed: " + pkg.FailedBuild
	}

	location := joinOutput(append(append([]string(nil), pkg.BuildOutput...), pkg.Output...))

	err := d.lc.StepOutcome(formatter.OutcomeErrored, FailurePackage, message, location)
	if err != nil {
		return err
	}

	return d.lc.ScenarioFinished()
}

// failureMessage picks the panic line of a panicked test, otherwise the first assertion line,
// "cart_test.go:42: expected 1 item, got 2".
func failureMessage(output []string, panicked bool) string {
	lines := slice.Map(output, strings.TrimSpace)

	if panicked {
		if line, ok := slice.Find(lines, func(s string) bool { return strings.HasPrefix(s, "panic:") }); ok {
			return line
		}
	}

	if line, ok := slice.Find(lines, func(s string) bool { return strings.Contains(s, "_test.go:") }); ok {
		return line
	}

	return defaultTestMessage
}
