// Package capture implements the output capture used by junit suites: either the process-level
// stdout/stderr redirected through a pipe, or in-memory streams filled by a driver.
package capture

import (
	"errors"
	"fmt"
	"io"

	"github.com/acarl005/stripansi"

	"github.com/robotomize/go-junit/internal/junit"
)

var (
	ErrHandleFinished = errors.New("capture: handle already finished")
	ErrUnknownStream  = errors.New("capture: unknown stream")
)

type Option func(*options)

type options struct {
	limit     int
	stripANSI bool
	echo      bool
}

// WithLimit keeps only the last n bytes of every captured stream. Zero means unbounded.
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// WithStripANSI removes terminal escape sequences from the captured text.
func WithStripANSI() Option {
	return func(o *options) {
		o.stripANSI = true
	}
}

// WithoutEcho stops Process from copying captured output to the original stream.
func WithoutEcho() Option {
	return func(o *options) {
		o.echo = false
	}
}

func newOptions(opts []Option) options {
	o := options{echo: true}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func (o options) text(b []byte) string {
	s := string(b)
	if o.stripANSI {
		s = stripansi.Strip(s)
	}

	return s
}

var (
	_ junit.Capturer = (*Buffer)(nil)
	_ junit.Capturer = (*Process)(nil)
)

// Buffer is a Capturer over in-memory streams. Drivers write into Stdout and Stderr while a
// suite is open; each capture window starts empty.
type Buffer struct {
	opts   options
	stdout *tailBuffer
	stderr *tailBuffer
}

func NewBuffer(opts ...Option) *Buffer {
	o := newOptions(opts)

	return &Buffer{
		opts:   o,
		stdout: newTailBuffer(o.limit),
		stderr: newTailBuffer(o.limit),
	}
}

func (b *Buffer) Stdout() io.Writer {
	return b.stdout
}

func (b *Buffer) Stderr() io.Writer {
	return b.stderr
}

func (b *Buffer) Capture(stream junit.Stream) (junit.CaptureHandle, error) {
	buf, err := b.stream(stream)
	if err != nil {
		return nil, err
	}

	buf.Reset()

	return &bufferHandle{buf: buf, opts: b.opts}, nil
}

func (b *Buffer) stream(stream junit.Stream) (*tailBuffer, error) {
	switch stream {
	case junit.StreamStdout:
		return b.stdout, nil
	case junit.StreamStderr:
		return b.stderr, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStream, stream)
	}
}

type bufferHandle struct {
	buf      *tailBuffer
	opts     options
	finished bool
}

func (h *bufferHandle) Finish() (string, error) {
	if h.finished {
		return "", ErrHandleFinished
	}

	h.finished = true
	text := h.opts.text(h.buf.Bytes())
	h.buf.Reset()

	return text, nil
}
