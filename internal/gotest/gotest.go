package gotest

import (
	"math"
	"strings"
	"time"
)

const (
	ActionStart  = "start"
	ActionRun    = "run"
	ActionOutput = "output"
	ActionPass   = "pass"
	ActionFail   = "fail"
	ActionSkip   = "skip"

	// ActionBuildOutput carries compiler output keyed by ImportPath instead of Package.
	ActionBuildOutput = "build-output"
)

// Entry is one event of go test -json.
type Entry struct {
	Time        time.Time
	TestName    string `json:"Test"`
	Action      string
	Package     string
	Elapsed     float64
	Output      string
	FailedBuild string
	ImportPath  string
}

type Test struct {
	Name    string
	Package string
	Start   time.Time
	Status  string
	Elapsed time.Duration
	Output  []string
}

func (t *Test) FullName() string {
	return t.Package + "/" + t.Name
}

// Done reports whether the test reached pass, fail or skip.
func (t *Test) Done() bool {
	return isTerminal(t.Status)
}

func (t *Test) Update(row Entry) {
	switch row.Action {
	case ActionRun:
		t.Start = row.Time
	case ActionOutput:
		t.Output = append(t.Output, row.Output)
	case ActionPass, ActionFail, ActionSkip:
		if t.Start.IsZero() {
			t.Start = row.Time
		}

		t.Status = row.Action
		t.Elapsed = seconds(row.Elapsed)
	}
}

// Package holds the tests of one package in the order they first ran.
type Package struct {
	Name        string
	Start       time.Time
	Status      string
	Elapsed     time.Duration
	FailedBuild string
	BuildOutput []string
	Output      []string
	Tests       []*Test

	byName map[string]*Test
}

func newPackage(name string) *Package {
	return &Package{Name: name, byName: make(map[string]*Test)}
}

func (p *Package) Done() bool {
	return isTerminal(p.Status)
}

func (p *Package) update(row Entry) {
	if p.Start.IsZero() && !row.Time.IsZero() {
		p.Start = row.Time
	}

	if row.TestName != "" {
		tc, ok := p.byName[row.TestName]
		if !ok {
			tc = &Test{Name: row.TestName, Package: p.Name}
			p.byName[row.TestName] = tc
			p.Tests = append(p.Tests, tc)
		}

		tc.Update(row)

		return
	}

	switch row.Action {
	case ActionOutput:
		p.Output = append(p.Output, row.Output)
	case ActionPass, ActionFail, ActionSkip:
		p.Status = row.Action
		p.Elapsed = seconds(row.Elapsed)
		p.FailedBuild = row.FailedBuild
	}
}

// Empty reports a package without a single finished test.
func (p *Package) Empty() bool {
	for _, tc := range p.Tests {
		if tc.Done() {
			return false
		}
	}

	return true
}

func isTerminal(action string) bool {
	return action == ActionPass || action == ActionFail || action == ActionSkip
}

func seconds(v float64) time.Duration {
	return time.Duration(math.Round(v * float64(time.Second)))
}

func joinOutput(lines []string) string {
	return strings.TrimRight(strings.Join(lines, ""), "\n")
}
