package junit

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrNotStarted      = errors.New("junit: not started")
	ErrAlreadyStarted  = errors.New("junit: already started")
	ErrFinished        = errors.New("junit: already finished")
	ErrNotFinished     = errors.New("junit: not finished")
	ErrCaseNotFinished = errors.New("junit: test case not finished")
	ErrUnknownKind     = errors.New("junit: unknown failure kind")
)

// Kind classifies a recorded failure.
type Kind string

const (
	KindFailed Kind = "failed"
	KindError  Kind = "error"
)

func (k Kind) valid() bool {
	return k == KindFailed || k == KindError
}

// Failure - one failed, errored or undefined step of a test case.
type Failure struct {
	Kind     Kind
	Name     string
	Message  string
	Location string
}

func (f Failure) IsFailure() bool {
	return f.Kind == KindFailed
}

func (f Failure) IsError() bool {
	return f.Kind == KindError
}

// Text returns the element body: the message, the failure name and the trace.
func (f Failure) Text() string {
	return f.Message + " (" + f.Name + ")\n" + f.Location
}

func (f Failure) Attrs() []Attr {
	return []Attr{
		{Name: "type", Value: f.Name},
		{Name: "message", Value: f.Message},
	}
}

// Stream names a process output stream for capture.
type Stream int

const (
	StreamStdout Stream = iota + 1
	StreamStderr
)

func (s Stream) String() string {
	switch s {
	case StreamStdout:
		return "stdout"
	case StreamStderr:
		return "stderr"
	default:
		return "stream(" + strconv.Itoa(int(s)) + ")"
	}
}

// Capturer redirects an output stream for the lifetime of a suite.
type Capturer interface {
	Capture(stream Stream) (CaptureHandle, error)
}

// CaptureHandle stops a capture and returns what was written.
type CaptureHandle interface {
	Finish() (string, error)
}

type Option func(*options)

type options struct {
	now     func() time.Time
	capture Capturer
}

// WithClock replaces time.Now as the source of start and finish instants.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithCapture captures stdout and stderr between Suite.Start and Suite.Finish.
// Test cases ignore it.
func WithCapture(c Capturer) Option {
	return func(o *options) {
		o.capture = c
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

type state int

const (
	stateNew state = iota
	stateStarted
	stateFinished
)

func (s state) checkOpen() error {
	switch s {
	case stateNew:
		return ErrNotStarted
	case stateFinished:
		return ErrFinished
	default:
		return nil
	}
}

func (s state) checkStart() error {
	if s != stateNew {
		return ErrAlreadyStarted
	}

	return nil
}

func elapsedSeconds(start, stop time.Time) float64 {
	return stop.Sub(start).Seconds()
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}

	return strconv.Itoa(*v)
}

func kindError(kind Kind) error {
	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
