package junit

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Suite is one top-level test group (a feature) and its test cases.
// Counts, time and timestamp are derived in Finish and are zero before it.
type Suite struct {
	Name       string
	Tests      int
	Time       float64
	Failures   int
	Errors     int
	Skipped    int
	Assertions *int
	Timestamp  string
	Cases      []*Case
	Stdout     string
	Stderr     string

	now     func() time.Time
	capture Capturer
	stdout  CaptureHandle
	stderr  CaptureHandle
	start   time.Time
	state   state
}

func NewSuite(name string, opts ...Option) *Suite {
	o := newOptions(opts)

	return &Suite{
		Name:    name,
		Cases:   make([]*Case, 0),
		now:     o.now,
		capture: o.capture,
	}
}

// Start records the begin instant and, when a Capturer is set, starts capturing stdout and stderr.
func (s *Suite) Start() error {
	if err := s.state.checkStart(); err != nil {
		return err
	}

	if s.capture != nil {
		stdout, err := s.capture.Capture(StreamStdout)
		if err != nil {
			return fmt.Errorf("capture %s: %w", StreamStdout, err)
		}

		stderr, err := s.capture.Capture(StreamStderr)
		if err != nil {
			_, _ = stdout.Finish()
			return fmt.Errorf("capture %s: %w", StreamStderr, err)
		}

		s.stdout, s.stderr = stdout, stderr
	}

	s.start = s.now()
	s.state = stateStarted

	return nil
}

// AppendCase adds a finished case. Cases keep the order they were appended in.
func (s *Suite) AppendCase(c *Case) error {
	if err := s.state.checkOpen(); err != nil {
		return err
	}

	if c == nil || !c.Finished() {
		return ErrCaseNotFinished
	}

	s.Cases = append(s.Cases, c)

	return nil
}

// Finish derives counts, time and timestamp from the appended cases and releases the capture.
// It must be called exactly once, after Start.
func (s *Suite) Finish() error {
	if err := s.state.checkOpen(); err != nil {
		return err
	}

	stop := s.now()

	s.Tests = len(s.Cases)
	s.Time = elapsedSeconds(s.start, stop)
	s.Timestamp = s.start.Format(time.RFC3339)
	s.Failures, s.Errors, s.Skipped = 0, 0, 0
	for _, c := range s.Cases {
		s.Failures += c.FailureCount()
		s.Errors += c.ErrorCount()
		if c.IsSkipped() {
			s.Skipped++
		}
	}

	s.state = stateFinished

	var errs []error
	if s.stdout != nil {
		out, err := s.stdout.Finish()
		if err != nil {
			errs = append(errs, fmt.Errorf("capture %s: %w", StreamStdout, err))
		}
		s.Stdout = out
	}

	if s.stderr != nil {
		out, err := s.stderr.Finish()
		if err != nil {
			errs = append(errs, fmt.Errorf("capture %s: %w", StreamStderr, err))
		}
		s.Stderr = out
	}

	s.stdout, s.stderr = nil, nil

	return errors.Join(errs...)
}

func (s *Suite) Finished() bool {
	return s.state == stateFinished
}

func (s *Suite) Attrs() []Attr {
	attrs := []Attr{
		{Name: "name", Value: s.Name},
		{Name: "tests"},
		{Name: "time"},
		{Name: "failures"},
		{Name: "errors"},
		{Name: "skipped"},
		{Name: "assertions", Value: formatOptionalInt(s.Assertions)},
		{Name: "timestamp", Value: s.Timestamp},
	}

	if s.state == stateFinished {
		attrs[1].Value = strconv.Itoa(s.Tests)
		attrs[2].Value = formatSeconds(s.Time)
		attrs[3].Value = strconv.Itoa(s.Failures)
		attrs[4].Value = strconv.Itoa(s.Errors)
		attrs[5].Value = strconv.Itoa(s.Skipped)
	}

	return attrs
}
