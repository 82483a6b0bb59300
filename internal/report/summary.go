package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/robotomize/go-junit/internal/junit"
)

type Row struct {
	Suite    string
	Tests    int
	Failures int
	Errors   int
	Skipped  int
	Time     float64
	File     string
}

// Summary collects the counts of every written suite.
type Summary struct {
	rows []Row
}

func (s *Summary) Add(suite *junit.Suite, file string) {
	s.rows = append(
		s.rows, Row{
			Suite:    suite.Name,
			Tests:    suite.Tests,
			Failures: suite.Failures,
			Errors:   suite.Errors,
			Skipped:  suite.Skipped,
			Time:     suite.Time,
			File:     file,
		},
	)
}

func (s *Summary) Rows() []Row {
	rows := make([]Row, len(s.rows))
	copy(rows, s.rows)

	return rows
}

func (s *Summary) Total() Row {
	total := Row{Suite: "TOTAL"}
	for _, r := range s.rows {
		total.Tests += r.Tests
		total.Failures += r.Failures
		total.Errors += r.Errors
		total.Skipped += r.Skipped
		total.Time += r.Time
	}

	return total
}

// Failed reports whether any suite has a failure or an error.
func (s *Summary) Failed() bool {
	total := s.Total()
	return total.Failures > 0 || total.Errors > 0
}

func (s *Summary) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("JUnit reports")
	t.AppendHeader(table.Row{"Suite", "Tests", "Failures", "Errors", "Skipped", "Time", "File"})
	t.SetColumnConfigs(
		[]table.ColumnConfig{
			{Name: "Suite", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
			{Name: "Tests", Align: text.AlignRight},
			{Name: "Failures", Align: text.AlignRight},
			{Name: "Errors", Align: text.AlignRight},
			{Name: "Skipped", Align: text.AlignRight},
			{Name: "Time", Align: text.AlignRight},
		},
	)

	for _, r := range s.rows {
		t.AppendRow(table.Row{r.Suite, r.Tests, r.Failures, r.Errors, r.Skipped, formatTime(r.Time), r.File})
	}

	total := s.Total()
	t.AppendFooter(
		table.Row{
			total.Suite, total.Tests, total.Failures, total.Errors, total.Skipped, formatTime(total.Time), "",
		},
	)

	t.SetStyle(table.StyleLight)
	t.Render()
}

func formatTime(v float64) string {
	return fmt.Sprintf("%.3fs", v)
}
