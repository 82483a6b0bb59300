package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		verbose   bool
		withDebug bool
	}{
		{
			name:      "test_verbose",
			verbose:   true,
			withDebug: true,
		},
		{
			name:      "test_quiet",
			verbose:   false,
			withDebug: false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				var buf bytes.Buffer
				logger := New(&buf, tc.verbose)
				logger.Debug().Str("suite", "login").Msg("suite started")
				logger.Info().Msg("report written")

				out := buf.String()
				if got := strings.Contains(out, "suite started"); got != tc.withDebug {
					t.Errorf("got debug line: %v, want: %v\n%s", got, tc.withDebug, out)
				}

				if !strings.Contains(out, "report written") {
					t.Errorf("missing info line:\n%s", out)
				}
			},
		)
	}
}
