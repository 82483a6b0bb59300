package formatter

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robotomize/go-junit/internal/junit"
	"github.com/robotomize/go-junit/internal/slice"
)

// UndefinedStepName is the failure type of steps without an implementation.
const UndefinedStepName = "UndefinedStep"

// Outcome is the negative result of a single step.
type Outcome int

const (
	// OutcomeUndefined - no step definition matched.
	OutcomeUndefined Outcome = iota + 1
	// OutcomeFailed - the step ran and its assertion did not hold.
	OutcomeFailed
	// OutcomeErrored - the step raised an unexpected fault.
	OutcomeErrored
)

// Kind maps an outcome to the recorded failure kind. Undefined steps are errors, never failures.
func (o Outcome) Kind() junit.Kind {
	if o == OutcomeFailed {
		return junit.KindFailed
	}

	return junit.KindError
}

func (o Outcome) String() string {
	switch o {
	case OutcomeUndefined:
		return "undefined"
	case OutcomeFailed:
		return "failed"
	case OutcomeErrored:
		return "errored"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// LooksLikePanic reports whether captured output shows a panic, which turns a failed step
// into an errored one.
func LooksLikePanic(lines ...string) bool {
	_, ok := slice.Find(
		lines, func(v string) bool {
			return strings.Contains(v, "panic:") || strings.Contains(v, "[recovered]")
		},
	)

	return ok
}

var ErrMissingUID = errors.New("formatter: no uid tag")

// UIDName appends the first uid tag to name: "Login succeeds" with @uid:42 becomes
// "Login succeeds (uid:42)". There is no fallback when the tag is missing.
func UIDName(name string, tags []string) (string, error) {
	tag, ok := slice.Find(
		slice.Map(tags, normalizeTag), func(t string) bool {
			return t == "uid" || strings.HasPrefix(t, "uid:")
		},
	)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingUID, name)
	}

	return fmt.Sprintf("%s (%s)", name, tag), nil
}

func normalizeTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "@")
}

// ManualClock is a clock that only moves when a driver moves it. Drivers replaying recorded
// results use it so that suite and case times match the recorded durations.
type ManualClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{t: t}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = t
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(d)
}
