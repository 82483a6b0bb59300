package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/robotomize/go-junit/internal/capture"
	"github.com/robotomize/go-junit/internal/config"
	"github.com/robotomize/go-junit/internal/cucumber"
	"github.com/robotomize/go-junit/internal/formatter"
	"github.com/robotomize/go-junit/internal/fs"
	"github.com/robotomize/go-junit/internal/gotest"
	"github.com/robotomize/go-junit/internal/report"
)

const (
	FormatCucumber = "cucumber"
	FormatGoTest   = "gotest"
)

var (
	ErrUnknownFormat = errors.New("unknown input format")
	ErrNoInput       = errors.New("no input files match")
)

type params struct {
	cfg      config.Config
	format   string
	patterns []string
	fsys     fs.FS
	stdin    io.Reader
	logger   zerolog.Logger
}

// run converts the input into report files. Without patterns the input is read from stdin.
func run(ctx context.Context, p params) (*report.Summary, error) {
	if p.format != FormatCucumber && p.format != FormatGoTest {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, p.format)
	}

	var paths []string
	if len(p.patterns) > 0 {
		matches, err := fs.Glob(p.fsys, p.patterns...)
		if err != nil {
			return nil, fmt.Errorf("fs.Glob: %w", err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrNoInput, p.patterns)
		}

		paths = matches
	}

	writer := report.NewWriter(
		report.WithDir(p.cfg.ReportDir),
		report.WithPrefix(p.cfg.Prefix),
		report.WithLayout(p.cfg.JUnitLayout()),
		report.WithLogger(p.logger),
	)

	clock := formatter.NewManualClock(time.Now())
	formatterOpts := []formatter.Option{formatter.WithLogger(p.logger), formatter.WithClock(clock.Now)}

	output := io.Discard
	if p.cfg.Capture {
		captureOpts := []capture.Option{capture.WithLimit(p.cfg.CaptureLimit)}
		if p.cfg.StripANSI {
			captureOpts = append(captureOpts, capture.WithStripANSI())
		}

		buf := capture.NewBuffer(captureOpts...)
		formatterOpts = append(formatterOpts, formatter.WithCapture(buf))
		output = buf.Stdout()
	}

	lc := formatter.New(writer, formatterOpts...)

	p.logger.Debug().Str("format", p.format).Strs("files", paths).Bool("capture", p.cfg.Capture).Msg("converting")

	switch p.format {
	case FormatCucumber:
		features, err := readCucumber(ctx, p, paths)
		if err != nil {
			return nil, err
		}

		driverOpts := []cucumber.Option{cucumber.WithLogger(p.logger), cucumber.WithOutput(output)}
		if p.cfg.UIDNames {
			driverOpts = append(driverOpts, cucumber.WithUIDNames())
		}

		if err = cucumber.NewDriver(lc, clock, driverOpts...).Drive(ctx, features); err != nil {
			return writer.Summary(), fmt.Errorf("cucumber Drive: %w", err)
		}
	case FormatGoTest:
		packages, err := readGoTest(ctx, p, paths)
		if err != nil {
			return nil, err
		}

		driver := gotest.NewDriver(lc, clock, gotest.WithLogger(p.logger), gotest.WithOutput(output))
		if err = driver.Drive(ctx, packages); err != nil {
			return writer.Summary(), fmt.Errorf("gotest Drive: %w", err)
		}
	}

	return writer.Summary(), nil
}

func readCucumber(ctx context.Context, p params, paths []string) ([]cucumber.Feature, error) {
	if len(paths) == 0 {
		features, err := cucumber.Read(p.stdin)
		if err != nil {
			return nil, fmt.Errorf("cucumber Read stdin: %w", err)
		}

		return features, nil
	}

	features, err := cucumber.ReadFiles(ctx, p.fsys, paths)
	if err != nil {
		return nil, fmt.Errorf("cucumber ReadFiles: %w", err)
	}

	return features, nil
}

func readGoTest(ctx context.Context, p params, paths []string) ([]*gotest.Package, error) {
	if len(paths) == 0 {
		return readGoTestStream(ctx, p.logger, "stdin", p.stdin)
	}

	var packages []*gotest.Package
	for _, pth := range paths {
		f, err := p.fsys.Open(pth)
		if err != nil {
			return nil, fmt.Errorf("fs Open: %w", err)
		}

		read, err := readGoTestStream(ctx, p.logger, pth, f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}

		packages = append(packages, read...)
	}

	return packages, nil
}

func readGoTestStream(ctx context.Context, logger zerolog.Logger, name string, r io.Reader) ([]*gotest.Package, error) {
	set, err := gotest.NewReader(r).ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("gotest ReadAll %s: %w", name, err)
	}

	if set.Err != nil {
		logger.Warn().Err(set.Err).Str("input", name).Msg("skipped lines that are not go test events")
	}

	return set.Packages, nil
}
