package gotest

import (
	"context"
	_ "embed"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/robotomize/go-junit/internal/slice"
)

//go:embed testdata/shop.jsonl
var shopEvents string

func TestReader_ReadAll(t *testing.T) {
	t.Parallel()

	set, err := NewReader(strings.NewReader(shopEvents)).ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if set.Err == nil {
		t.Errorf("malformed line not reported")
	}

	type testSummary struct {
		Name    string
		Status  string
		Elapsed time.Duration
	}

	type packageSummary struct {
		Name        string
		Status      string
		Elapsed     time.Duration
		FailedBuild string
		Empty       bool
		Tests       []testSummary
	}

	got := slice.Map(
		set.Packages, func(p *Package) packageSummary {
			return packageSummary{
				Name:        p.Name,
				Status:      p.Status,
				Elapsed:     p.Elapsed,
				FailedBuild: p.FailedBuild,
				Empty:       p.Empty(),
				Tests: slice.Map(
					p.Tests, func(tc *Test) testSummary {
						return testSummary{Name: tc.Name, Status: tc.Status, Elapsed: tc.Elapsed}
					},
				),
			}
		},
	)

	expected := []packageSummary{
		{
			Name:    "example.com/shop/cart",
			Status:  ActionFail,
			Elapsed: 120 * time.Millisecond,
			Tests: []testSummary{
				{Name: "TestAdd", Status: ActionPass, Elapsed: 10 * time.Millisecond},
				{Name: "TestRemove", Status: ActionFail, Elapsed: 30 * time.Millisecond},
				{Name: "TestRemove/missing", Status: ActionFail, Elapsed: 20 * time.Millisecond},
				{Name: "TestCheckout", Status: ActionSkip},
				{Name: "TestPanics", Status: ActionFail, Elapsed: 40 * time.Millisecond},
			},
		},
		{
			Name:   "example.com/shop/docs",
			Status: ActionSkip,
			Empty:  true,
			Tests:  []testSummary{},
		},
		{
			Name:        "example.com/shop/api",
			Status:      ActionFail,
			FailedBuild: "example.com/shop/api [example.com/shop/api.test]",
			Empty:       true,
			Tests:       []testSummary{},
		},
	}

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	cart := set.Packages[0]
	if diff := cmp.Diff([]string{"FAIL\n", "FAIL\texample.com/shop/cart\t0.120s\n"}, cart.Output); diff != "" {
		t.Errorf("package output mismatch (-want, +got):\n%s", diff)
	}

	api := set.Packages[2]
	expectedBuild := []string{
		"# example.com/shop/api [example.com/shop/api.test]\n",
		"api/handler.go:12:2: undefined: Cart\n",
	}
	if diff := cmp.Diff(expectedBuild, api.BuildOutput); diff != "" {
		t.Errorf("build output mismatch (-want, +got):\n%s", diff)
	}

	if cart.BuildOutput != nil {
		t.Errorf("got: %q, want no build output", cart.BuildOutput)
	}

	if diff := cmp.Diff(time.Date(2026, 10, 15, 10, 0, 0, 10_000_000, time.UTC), cart.Tests[0].Start.UTC()); diff != "" {
		t.Errorf("start mismatch (-want, +got):\n%s", diff)
	}
}

func TestReader_ReadAll_Malformed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		packages int
		err      bool
	}{
		{
			name:     "test_valid",
			input:    `{"Action":"pass","Package":"example.com/a","Test":"TestA","Elapsed":0.1}`,
			packages: 1,
		},
		{
			name:     "test_garbage_only",
			input:    "no Go files in /src\n",
			packages: 0,
			err:      true,
		},
		{
			name:     "test_garbage_between_events",
			input:    "{\"Action\":\"run\",\"Package\":\"example.com/a\",\"Test\":\"TestA\"}\n{broken\n{\"Action\":\"pass\",\"Package\":\"example.com/b\",\"Test\":\"TestB\"}\n",
			packages: 2,
			err:      true,
		},
		{
			name:     "test_empty_lines",
			input:    "\n\n",
			packages: 0,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				set, err := NewReader(strings.NewReader(tc.input)).ReadAll(context.Background())
				if err != nil {
					t.Fatalf("ReadAll: %v", err)
				}

				if (set.Err != nil) != tc.err {
					t.Errorf("got: %v, want error: %v", set.Err, tc.err)
				}

				if len(set.Packages) != tc.packages {
					t.Errorf("got: %d packages, want: %d", len(set.Packages), tc.packages)
				}
			},
		)
	}
}

func TestReader_ReadAll_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(strings.NewReader(shopEvents)).ReadAll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got: %v, want: %v", err, context.Canceled)
	}
}
