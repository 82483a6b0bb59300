package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotomize/go-junit/internal/junit"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	pth := filepath.Join(t.TempDir(), "gojunit.yaml")
	require.NoError(t, os.WriteFile(pth, []byte(body), 0o644))

	return pth
}

func TestLoad(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		body     string
		expected Config
		err      bool
	}{
		{
			name:     "test_empty_file",
			body:     "",
			expected: Default(),
		},
		{
			name: "test_overrides",
			body: "report_dir: build/junit\nprefix: features\nlayout: wrapped\ncapture: false\ncapture_limit: 4096\nuid_names: true\n",
			expected: Config{
				ReportDir:    "build/junit",
				Prefix:       "features",
				Layout:       "wrapped",
				Capture:      false,
				CaptureLimit: 4096,
				UIDNames:     true,
			},
		},
		{
			name: "test_partial",
			body: "strip_ansi: true\n",
			expected: Config{
				ReportDir: "test/reports",
				Prefix:    "TEST",
				Layout:    "single",
				Capture:   true,
				StripANSI: true,
			},
		},
		{
			name: "test_unknown_field",
			body: "reports: build\n",
			err:  true,
		},
		{
			name: "test_malformed",
			body: "prefix: [\n",
			err:  true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				cfg, err := Load(writeConfig(t, tc.body))
				if tc.err {
					require.Error(t, err)
					return
				}

				require.NoError(t, err)
				assert.Equal(t, tc.expected, cfg)
			},
		)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		env         map[string]string
		capture     bool
		expectedDir string
	}{
		{
			name:        "test_unset",
			capture:     true,
			expectedDir: "test/reports",
		},
		{
			name:        "test_capture_off",
			env:         map[string]string{EnvCapture: "off"},
			capture:     false,
			expectedDir: "test/reports",
		},
		{
			name:        "test_capture_other_value",
			env:         map[string]string{EnvCapture: "no"},
			capture:     true,
			expectedDir: "test/reports",
		},
		{
			name:        "test_capture_uppercase",
			env:         map[string]string{EnvCapture: "OFF"},
			capture:     true,
			expectedDir: "test/reports",
		},
		{
			name:        "test_reports_dir",
			env:         map[string]string{EnvReports: "out/junit"},
			capture:     true,
			expectedDir: "out/junit",
		},
		{
			name:        "test_empty_reports_dir",
			env:         map[string]string{EnvReports: ""},
			capture:     true,
			expectedDir: "test/reports",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				cfg := Default()
				cfg.ApplyEnv(
					func(key string) (string, bool) {
						v, ok := tc.env[key]
						return v, ok
					},
				)

				assert.Equal(t, tc.capture, cfg.Capture)
				assert.Equal(t, tc.expectedDir, cfg.ReportDir)
			},
		)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, junit.LayoutSingle, cfg.JUnitLayout())

	cfg.Layout = "Wrapped"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, junit.LayoutWrapped, cfg.JUnitLayout())

	cfg.Layout = "nested"
	cfg.CaptureLimit = -1
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, "layout")
	assert.ErrorContains(t, err, "capture_limit")
}
