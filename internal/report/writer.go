package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robotomize/go-junit/internal/formatter"
	"github.com/robotomize/go-junit/internal/junit"
)

const (
	DefaultDir    = "test/reports"
	DefaultPrefix = "TEST"

	fallbackName = "suite"
	fileExt      = ".xml"
)

var _ formatter.SuiteWriter = (*Writer)(nil)

type Option func(*Writer)

// WithDir sets the report directory. An empty dir writes no files, only mirrors.
func WithDir(dir string) Option {
	return func(w *Writer) {
		w.dir = dir
	}
}

func WithPrefix(prefix string) Option {
	return func(w *Writer) {
		w.prefix = prefix
	}
}

func WithLayout(layout junit.Layout) Option {
	return func(w *Writer) {
		w.layout = layout
	}
}

// WithMirror also writes every rendered report to writers, e.g. os.Stdout.
func WithMirror(writers ...io.Writer) Option {
	return func(w *Writer) {
		w.mirrors = append(w.mirrors, writers...)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

func NewWriter(opts ...Option) *Writer {
	w := Writer{
		dir:     DefaultDir,
		prefix:  DefaultPrefix,
		logger:  zerolog.Nop(),
		summary: &Summary{},
		names:   make(map[string]struct{}),
	}

	for _, o := range opts {
		o(&w)
	}

	return &w
}

// Writer renders finished suites and stores one report file per suite.
type Writer struct {
	dir     string
	prefix  string
	layout  junit.Layout
	mirrors []io.Writer
	logger  zerolog.Logger
	summary *Summary
	names   map[string]struct{}
}

func (w *Writer) Summary() *Summary {
	return w.summary
}

// WriteSuite writes <dir>/<prefix>-<sanitized suite name>.xml and copies the document to the mirrors.
func (w *Writer) WriteSuite(ctx context.Context, suite *junit.Suite) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := junit.Render(suite, w.layout)
	if err != nil {
		return fmt.Errorf("junit.Render: %w", err)
	}

	var pth string
	if w.dir != "" {
		if err = mkdir(w.dir); err != nil {
			return err
		}

		pth = filepath.Join(w.dir, w.fileName(suite.Name))
		if err = writeFile(pth, data); err != nil {
			return fmt.Errorf("writeFile %s: %w", pth, err)
		}
	}

	for _, m := range w.mirrors {
		if _, err = m.Write(data); err != nil {
			return fmt.Errorf("mirror Write: %w", err)
		}
	}

	w.summary.Add(suite, pth)

	w.logger.Debug().
		Str("suite", suite.Name).
		Str("file", pth).
		Int("bytes", len(data)).
		Msg("report written")

	return nil
}

// fileName is unique for the lifetime of the writer; a repeated name gets a uuid suffix.
func (w *Writer) fileName(suiteName string) string {
	name := Sanitize(suiteName)
	if name == "" {
		name = fallbackName
	}

	if w.prefix != "" {
		name = w.prefix + "-" + name
	}

	if _, ok := w.names[name]; ok {
		name = name + "-" + uuid.NewString()
	}

	w.names[name] = struct{}{}

	return name + fileExt
}

func writeFile(pth string, data []byte) (err error) {
	file, err := os.OpenFile(pth, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("os.OpenFile: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("file Close: %w", closeErr)
		}
	}()

	if _, err = file.Write(data); err != nil {
		return fmt.Errorf("file Write: %w", err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("file Sync: %w", err)
	}

	return nil
}
