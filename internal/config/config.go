package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robotomize/go-junit/internal/junit"
	"github.com/robotomize/go-junit/internal/report"
)

const (
	// EnvCapture set to "off" disables output capture.
	EnvCapture = "CI_CAPTURE"
	// EnvReports overrides the report directory.
	EnvReports = "CI_REPORTS"

	CaptureOff = "off"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	ReportDir    string `yaml:"report_dir"`
	Prefix       string `yaml:"prefix"`
	Layout       string `yaml:"layout"`
	Capture      bool   `yaml:"capture"`
	CaptureLimit int    `yaml:"capture_limit"`
	StripANSI    bool   `yaml:"strip_ansi"`
	UIDNames     bool   `yaml:"uid_names"`
}

func Default() Config {
	return Config{
		ReportDir: report.DefaultDir,
		Prefix:    report.DefaultPrefix,
		Layout:    junit.LayoutSingle.String(),
		Capture:   true,
	}
}

// Load returns the defaults overlaid with the YAML file at pth. An empty pth skips the file.
func Load(pth string) (Config, error) {
	cfg := Default()
	if pth == "" {
		return cfg, nil
	}

	f, err := os.Open(pth)
	if err != nil {
		return Config{}, fmt.Errorf("os.Open: %w", err)
	}

	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config file %s: %w", pth, err)
	}

	return cfg, nil
}

// ApplyEnv overlays the environment read through lookup, usually os.LookupEnv.
// CI_CAPTURE only ever disables capture: any value other than "off" leaves it as configured.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvCapture); ok && v == CaptureOff {
		c.Capture = false
	}

	if v, ok := lookup(EnvReports); ok && v != "" {
		c.ReportDir = v
	}
}

func (c Config) Validate() error {
	var errs []error

	if _, err := junit.ParseLayout(c.Layout); err != nil {
		errs = append(errs, fmt.Errorf("%w: layout: %w", ErrInvalid, err))
	}

	if c.CaptureLimit < 0 {
		errs = append(errs, fmt.Errorf("%w: capture_limit %d is negative", ErrInvalid, c.CaptureLimit))
	}

	return errors.Join(errs...)
}

// JUnitLayout is the parsed Layout. Call Validate first.
func (c Config) JUnitLayout() junit.Layout {
	layout, _ := junit.ParseLayout(c.Layout)
	return layout
}
