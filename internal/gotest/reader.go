package gotest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const maxLineSize = 4 << 20

type Set struct {
	Err      error
	Packages []*Package
}

func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Reader{r: s}
}

type Reader struct {
	r *bufio.Scanner
}

// ReadAll groups the events by package in first-seen order. Lines that are not events are
// collected into Set.Err and do not stop the read. Compiler output is attached to the package
// whose build it broke.
func (r *Reader) ReadAll(ctx context.Context) (Set, error) {
	var errs []error

	var packages []*Package
	byName := make(map[string]*Package)
	builds := make(map[string][]string)

	var lineNo int
	for r.r.Scan() {
		select {
		case <-ctx.Done():
			return Set{}, ctx.Err()
		default:
		}

		lineNo++

		line := r.r.Bytes()
		if len(line) == 0 {
			continue
		}

		var row Entry
		if err := json.Unmarshal(line, &row); err != nil {
			errs = append(errs, fmt.Errorf("line %d: json.Unmarshal: %w", lineNo, err))
			continue
		}

		if row.Package == "" {
			if row.Action == ActionBuildOutput && row.ImportPath != "" {
				builds[row.ImportPath] = append(builds[row.ImportPath], row.Output)
			}

			continue
		}

		pkg, ok := byName[row.Package]
		if !ok {
			pkg = newPackage(row.Package)
			byName[row.Package] = pkg
			packages = append(packages, pkg)
		}

		pkg.update(row)
	}

	if err := r.r.Err(); err != nil {
		return Set{}, fmt.Errorf("bufio.Scanner: %w", err)
	}

	for _, pkg := range packages {
		if pkg.FailedBuild != "" {
			pkg.BuildOutput = builds[pkg.FailedBuild]
		}
	}

	return Set{
		Err:      errors.Join(errs...), // nolint
		Packages: packages,
	}, nil
}
