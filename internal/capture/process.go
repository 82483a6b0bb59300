package capture

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/robotomize/go-junit/internal/junit"
)

// Process captures the process-level os.Stdout and os.Stderr. While a handle is open the
// stream variable points at a pipe; everything written to it is buffered and, unless
// WithoutEcho is set, copied to the original file.
//
// Only one handle per stream may be open at a time.
type Process struct {
	opts options
}

func NewProcess(opts ...Option) *Process {
	return &Process{opts: newOptions(opts)}
}

func (p *Process) Capture(stream junit.Stream) (junit.CaptureHandle, error) {
	target, err := processStream(stream)
	if err != nil {
		return nil, err
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("os.Pipe: %w", err)
	}

	h := &pipeHandle{
		target: target,
		orig:   *target,
		r:      r,
		w:      w,
		buf:    newTailBuffer(p.opts.limit),
		opts:   p.opts,
		done:   make(chan struct{}),
	}

	*target = w

	go h.drain()

	return h, nil
}

func processStream(stream junit.Stream) (**os.File, error) {
	switch stream {
	case junit.StreamStdout:
		return &os.Stdout, nil
	case junit.StreamStderr:
		return &os.Stderr, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStream, stream)
	}
}

type pipeHandle struct {
	target **os.File
	orig   *os.File
	r, w   *os.File
	buf    *tailBuffer
	opts   options

	done     chan struct{}
	readErr  error
	finished bool
}

// drain copies the pipe until the write end is closed. Echo errors are ignored so a broken
// terminal never blocks the writers.
func (h *pipeHandle) drain() {
	defer close(h.done)

	const chunkSize = 32 * 1024

	chunk := make([]byte, chunkSize)
	for {
		n, err := h.r.Read(chunk)
		if n > 0 {
			_, _ = h.buf.Write(chunk[:n])
			if h.opts.echo && h.orig != nil {
				_, _ = h.orig.Write(chunk[:n])
			}
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.readErr = err
			}
			return
		}
	}
}

func (h *pipeHandle) Finish() (string, error) {
	if h.finished {
		return "", ErrHandleFinished
	}

	h.finished = true
	*h.target = h.orig

	var errs []error
	if err := h.w.Close(); err != nil {
		errs = append(errs, fmt.Errorf("pipe writer Close: %w", err))
	}

	<-h.done

	if err := h.r.Close(); err != nil {
		errs = append(errs, fmt.Errorf("pipe reader Close: %w", err))
	}

	if h.readErr != nil {
		errs = append(errs, fmt.Errorf("pipe Read: %w", h.readErr))
	}

	return h.opts.text(h.buf.Bytes()), errors.Join(errs...)
}
