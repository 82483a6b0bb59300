package cucumber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/robotomize/go-junit/internal/slice"
)

// Read decodes a single cucumber JSON report.
func Read(r io.Reader) ([]Feature, error) {
	var features []Feature
	if err := json.NewDecoder(r).Decode(&features); err != nil {
		if errors.Is(err, io.EOF) {
			return []Feature{}, nil
		}

		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return features, nil
}

// ReadFiles decodes the reports at paths concurrently. Features come back in the order of
// paths, then in file order.
func ReadFiles(ctx context.Context, fsys fs.FS, paths []string) ([]Feature, error) {
	results := make([][]Feature, len(paths))

	wg, childCtx := errgroup.WithContext(ctx)
	wg.SetLimit(runtime.NumCPU())

OuterLoop:
	for idx, pth := range paths {
		idx, pth := idx, pth

		select {
		case <-childCtx.Done():
			break OuterLoop
		default:
		}

		wg.Go(
			func() error {
				select {
				case <-childCtx.Done():
					return nil
				default:
				}

				features, err := readFile(fsys, pth)
				if err != nil {
					return err
				}

				results[idx] = features

				return nil
			},
		)
	}

	if err := wg.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return slice.Flat(results), nil
}

func readFile(fsys fs.FS, pth string) ([]Feature, error) {
	f, err := fsys.Open(pth)
	if err != nil {
		return nil, fmt.Errorf("fs Open: %w", err)
	}

	defer f.Close()

	features, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pth, err)
	}

	return features, nil
}
