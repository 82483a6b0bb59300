package junit

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	elementTestSuites = "testsuites"
	elementTestSuite  = "testsuite"
	elementTestCase   = "testcase"
	elementFailure    = "failure"
	elementError      = "error"
	elementSkipped    = "skipped"
	elementSystemOut  = "system-out"
	elementSystemErr  = "system-err"
)

// Layout selects the document shape.
type Layout int

const (
	// LayoutSingle renders testsuite as the root element.
	LayoutSingle Layout = iota
	// LayoutWrapped renders a testsuites envelope around the single testsuite.
	LayoutWrapped
)

func (l Layout) String() string {
	switch l {
	case LayoutWrapped:
		return "wrapped"
	default:
		return "single"
	}
}

// ParseLayout accepts "single" (or empty) and "wrapped".
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single":
		return LayoutSingle, nil
	case "wrapped":
		return LayoutWrapped, nil
	default:
		return LayoutSingle, fmt.Errorf("junit: unknown layout %q", s)
	}
}

// Render returns the UTF-8 XML report of a finished suite.
func Render(s *Suite, layout Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s, layout); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Encode writes the XML report of a finished suite to w.
func Encode(w io.Writer, s *Suite, layout Layout) error {
	if s == nil || !s.Finished() {
		return ErrNotFinished
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	e := encoder{enc: enc}
	if layout == LayoutWrapped {
		e.start(startElement(elementTestSuites, nil))
	}

	e.suite(s)

	if layout == LayoutWrapped {
		e.end(elementTestSuites)
	}

	if e.err != nil {
		return fmt.Errorf("xml encode: %w", e.err)
	}

	if err := enc.Flush(); err != nil {
		return fmt.Errorf("xml.Encoder Flush: %w", err)
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write trailer: %w", err)
	}

	return nil
}

// encoder keeps the first token error so the document can be written without checking every call.
type encoder struct {
	enc *xml.Encoder
	err error
}

func (e *encoder) token(t xml.Token) {
	if e.err != nil {
		return
	}

	e.err = e.enc.EncodeToken(t)
}

func (e *encoder) start(el xml.StartElement) {
	e.token(el)
}

func (e *encoder) end(name string) {
	e.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (e *encoder) text(name string, attrs []Attr, body string) {
	e.start(startElement(name, attrs))
	e.token(xml.CharData(body))
	e.end(name)
}

func (e *encoder) suite(s *Suite) {
	e.start(startElement(elementTestSuite, s.Attrs()))

	for _, c := range s.Cases {
		e.testCase(c)
	}

	if s.Stdout != "" {
		e.text(elementSystemOut, nil, s.Stdout)
	}

	if s.Stderr != "" {
		e.text(elementSystemErr, nil, s.Stderr)
	}

	e.end(elementTestSuite)
}

func (e *encoder) testCase(c *Case) {
	e.start(startElement(elementTestCase, c.Attrs()))

	if c.IsSkipped() {
		e.start(startElement(elementSkipped, nil))
		e.end(elementSkipped)
	} else {
		for _, f := range c.Failures {
			name := elementFailure
			if f.IsError() {
				name = elementError
			}

			e.text(name, f.Attrs(), f.Text())
		}
	}

	e.end(elementTestCase)
}
