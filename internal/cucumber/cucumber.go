package cucumber

import (
	"fmt"
	"time"
)

const (
	StatusPassed    = "passed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
	StatusPending   = "pending"
	StatusUndefined = "undefined"
	StatusAmbiguous = "ambiguous"
)

const (
	ElementScenario   = "scenario"
	ElementBackground = "background"
)

// Feature is one entry of a cucumber JSON report, as written by godog --format cucumber
// and cucumber-js/-jvm.
type Feature struct {
	URI         string    `json:"uri"`
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Line        int       `json:"line"`
	Tags        []Tag     `json:"tags"`
	Elements    []Element `json:"elements"`
}

type Element struct {
	ID          string `json:"id"`
	Keyword     string `json:"keyword"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Line        int    `json:"line"`
	Type        string `json:"type"`
	Tags        []Tag  `json:"tags"`
	Before      []Hook `json:"before"`
	Steps       []Step `json:"steps"`
	After       []Hook `json:"after"`
}

func (e Element) IsBackground() bool {
	return e.Type == ElementBackground
}

type Tag struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

type Step struct {
	Keyword string   `json:"keyword"`
	Name    string   `json:"name"`
	Line    int      `json:"line"`
	Output  []string `json:"output"`
	Match   Match    `json:"match"`
	Result  Result   `json:"result"`
}

// Text is the step as written in the feature file, e.g. "Given I am logged in".
func (s Step) Text() string {
	return s.Keyword + s.Name
}

// Hook is a Before or After hook run around a scenario by cucumber-js and cucumber-jvm.
type Hook struct {
	Output []string `json:"output"`
	Match  Match    `json:"match"`
	Result Result   `json:"result"`
}

func (h Hook) Failed() bool {
	return h.Result.Status == StatusFailed
}

type Match struct {
	Location string `json:"location"`
}

type Result struct {
	Status       string `json:"status"`
	Duration     int64  `json:"duration"`
	ErrorMessage string `json:"error_message"`
}

// Elapsed is the recorded step duration. Reports store nanoseconds.
func (r Result) Elapsed() time.Duration {
	if r.Duration < 0 {
		return 0
	}

	return time.Duration(r.Duration)
}

func location(uri string, line int) string {
	if line <= 0 {
		return uri
	}

	return fmt.Sprintf("%s:%d", uri, line)
}

func tagNames(tags []Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}

	return names
}
