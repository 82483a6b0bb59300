package junit

import (
	"time"
)

// Case is one test case (a scenario) of a suite.
type Case struct {
	Name       string
	Time       float64
	Assertions *int
	Failures   []Failure
	Skipped    bool

	now   func() time.Time
	start time.Time
	state state
}

func NewCase(name string, opts ...Option) *Case {
	o := newOptions(opts)

	return &Case{Name: name, now: o.now}
}

// Start records the beginning of the single execution attempt of the case.
func (c *Case) Start() error {
	if err := c.state.checkStart(); err != nil {
		return err
	}

	c.start = c.now()
	c.state = stateStarted

	return nil
}

// Finish computes the elapsed time. It must be called exactly once, after Start.
func (c *Case) Finish() error {
	if err := c.state.checkOpen(); err != nil {
		return err
	}

	c.Time = elapsedSeconds(c.start, c.now())
	c.state = stateFinished

	return nil
}

// AppendFailure records a failure in encounter order.
func (c *Case) AppendFailure(kind Kind, name, message, location string) error {
	if err := c.state.checkOpen(); err != nil {
		return err
	}

	if !kind.valid() {
		return kindError(kind)
	}

	c.Failures = append(
		c.Failures, Failure{
			Kind:     kind,
			Name:     name,
			Message:  message,
			Location: location,
		},
	)

	return nil
}

// MarkSkipped flags the case as not executed. Recorded failures are kept but never rendered.
func (c *Case) MarkSkipped() error {
	if err := c.state.checkOpen(); err != nil {
		return err
	}

	c.Skipped = true

	return nil
}

func (c *Case) IsFailure() bool {
	return c.FailureCount() > 0
}

func (c *Case) IsError() bool {
	return c.ErrorCount() > 0
}

func (c *Case) IsSkipped() bool {
	return c.Skipped
}

func (c *Case) FailureCount() int {
	var n int
	for _, f := range c.Failures {
		if f.IsFailure() {
			n++
		}
	}

	return n
}

func (c *Case) ErrorCount() int {
	var n int
	for _, f := range c.Failures {
		if f.IsError() {
			n++
		}
	}

	return n
}

func (c *Case) Finished() bool {
	return c.state == stateFinished
}

func (c *Case) Attrs() []Attr {
	return []Attr{
		{Name: "name", Value: c.Name},
		{Name: "time", Value: c.timeValue()},
		{Name: "assertions", Value: formatOptionalInt(c.Assertions)},
	}
}

func (c *Case) timeValue() string {
	if c.state != stateFinished {
		return ""
	}

	return formatSeconds(c.Time)
}
