package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotomize/go-junit/internal/config"
	"github.com/robotomize/go-junit/internal/fs"
	"github.com/robotomize/go-junit/internal/logging"
)

const checkoutFeature = `[
  {
    "uri": "features/checkout.feature",
    "name": "Checkout",
    "line": 2,
    "tags": [{"name": "@uid:40"}],
    "elements": [
      {
        "name": "pays by card",
        "line": 4,
        "type": "scenario",
        "tags": [{"name": "@uid:41"}],
        "steps": [
          {"keyword": "When ", "name": "I pay", "line": 5, "output": ["\u001b[32mcharged 10 EUR\u001b[0m"], "result": {"status": "passed", "duration": 1000000}},
          {"keyword": "Then ", "name": "I get a receipt", "line": 6, "result": {"status": "undefined"}}
        ]
      }
    ]
  }
]`

const goTestEvents = `{"Action":"run","Package":"example.com/pay","Test":"TestPay"}
{"Action":"output","Package":"example.com/pay","Test":"TestPay","Output":"    pay_test.go:9: declined\n"}
{"Action":"fail","Package":"example.com/pay","Test":"TestPay","Elapsed":0.5}
{"Action":"output","Package":"example.com/pay","Output":"FAIL\n"}
{"Action":"fail","Package":"example.com/pay","Elapsed":0.6}
`

func testParams(t *testing.T, format string) (params, string) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "results", "nightly"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "results", "nightly", "checkout.json"), []byte(checkoutFeature), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "results", "pay.jsonl"), []byte(goTestEvents), 0o644))

	cfg := config.Default()
	cfg.ReportDir = filepath.Join(root, "reports")

	return params{
		cfg:    cfg,
		format: format,
		fsys:   fs.New(root),
		stdin:  strings.NewReader(""),
		logger: logging.Nop(),
	}, cfg.ReportDir
}

func TestRun_Cucumber(t *testing.T) {
	t.Parallel()

	p, dir := testParams(t, FormatCucumber)
	p.patterns = []string{"results/**/*.json"}
	p.cfg.UIDNames = true
	p.cfg.StripANSI = true

	summary, err := run(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, summary.Failed())

	data, err := os.ReadFile(filepath.Join(dir, "TEST-Checkout-uid-40.xml"))
	require.NoError(t, err)

	report := string(data)
	assert.Contains(t, report, `<testsuite name="Checkout (uid:40)" tests="1" time="0.001" failures="0" errors="1" skipped="0"`)
	assert.Contains(t, report, `<testcase name="pays by card (uid:41)" time="0.001">`)
	assert.Contains(t, report, `<error type="UndefinedStep" message="Then I get a receipt">`)
	assert.Contains(t, report, "<system-out>charged 10 EUR\n</system-out>")
}

func TestRun_CaptureOff(t *testing.T) {
	t.Parallel()

	p, dir := testParams(t, FormatCucumber)
	p.patterns = []string{"results/**/*.json"}
	p.cfg.Capture = false

	_, err := run(context.Background(), p)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "TEST-Checkout.xml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<system-out>")
}

func TestRun_GoTestStdin(t *testing.T) {
	t.Parallel()

	p, dir := testParams(t, FormatGoTest)
	p.stdin = strings.NewReader(goTestEvents + "not an event\n")
	p.cfg.Prefix = "unit"

	summary, err := run(context.Background(), p)
	require.NoError(t, err)

	rows := summary.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "example.com/pay", rows[0].Suite)
	assert.Equal(t, 1, rows[0].Failures)
	assert.Equal(t, filepath.Join(dir, "unit-example-com-pay.xml"), rows[0].File)

	data, err := os.ReadFile(rows[0].File)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<failure type="TestFailed" message="pay_test.go:9: declined">`)
}

func TestRun_GoTestFiles(t *testing.T) {
	t.Parallel()

	p, _ := testParams(t, FormatGoTest)
	p.patterns = []string{"results/*.jsonl"}

	summary, err := run(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, summary.Rows(), 1)
	assert.Equal(t, 0.6, summary.Rows()[0].Time)
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		format   string
		patterns []string
		expected error
	}{
		{
			name:     "test_unknown_format",
			format:   "allure",
			expected: ErrUnknownFormat,
		},
		{
			name:     "test_no_match",
			format:   FormatCucumber,
			patterns: []string{"missing/*.json"},
			expected: ErrNoInput,
		},
		{
			name:     "test_absolute_pattern",
			format:   FormatCucumber,
			patterns: []string{"/results/*.json"},
			expected: fs.ErrAbsolutePattern,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				p, _ := testParams(t, tc.format)
				p.patterns = tc.patterns

				_, err := run(context.Background(), p)
				assert.ErrorIs(t, err, tc.expected)
			},
		)
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	assert.True(t, strings.HasPrefix(version(), "gojunitctl version "))
}
