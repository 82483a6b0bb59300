package slice

import (
	"reflect"
	"strings"
	"testing"
)

func TestMap(t *testing.T) {
	t.Parallel()

	trimTag := func(s string) string {
		return strings.TrimPrefix(s, "@")
	}

	testCases := []struct {
		name     string
		f        func(string) string
		input    []string
		expected []string
	}{
		{
			name:     "test_ok",
			f:        trimTag,
			input:    []string{"@uid:1", "@smoke", "wip"},
			expected: []string{"uid:1", "smoke", "wip"},
		},
		{
			name:     "test_func_nil",
			input:    []string{"@uid:1"},
			expected: []string{},
		},
		{
			name:     "test_nil_input",
			f:        trimTag,
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				converted := Map(tc.input, tc.f)
				if !reflect.DeepEqual(converted, tc.expected) {
					t.Errorf("got: %v, want: %v", converted, tc.expected)
				}
			},
		)
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	nonEmpty := func(s string) bool { return s != "" }

	tests := []struct {
		name     string
		input    []string
		fn       func(string) bool
		expected []string
	}{
		{
			name:     "test_filtered",
			input:    []string{"features/*.json", "", "reports/**/*.json"},
			fn:       nonEmpty,
			expected: []string{"features/*.json", "reports/**/*.json"},
		},
		{
			name:     "test_filtered_empty",
			input:    []string{"", ""},
			fn:       nonEmpty,
			expected: []string{},
		},
		{
			name:     "test_nil_func",
			input:    []string{"a", ""},
			expected: []string{"a", ""},
		},
		{
			name:     "test_nil_input",
			input:    nil,
			fn:       nonEmpty,
			expected: []string{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				output := Filter(tc.input, tc.fn)
				if !reflect.DeepEqual(output, tc.expected) {
					t.Errorf("got: %v, want: %v", output, tc.expected)
				}
			},
		)
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	isUID := func(s string) bool { return strings.HasPrefix(s, "uid") }

	tests := []struct {
		name          string
		input         []string
		expectedValue string
		expectedExist bool
	}{
		{
			name:          "test_first_match_wins",
			input:         []string{"smoke", "uid:1", "uid:2"},
			expectedValue: "uid:1",
			expectedExist: true,
		},
		{
			name:          "test_not_found",
			input:         []string{"smoke", "wip"},
			expectedExist: false,
		},
		{
			name:          "test_nil_input",
			input:         nil,
			expectedExist: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				output, ok := Find(tc.input, isUID)
				if ok != tc.expectedExist {
					t.Errorf("got: %v, want: %v", ok, tc.expectedExist)
				}
				if output != tc.expectedValue {
					t.Errorf("got: %v, want: %v", output, tc.expectedValue)
				}
			},
		)
	}
}

func TestFlat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    [][]int
		expected []int
	}{
		{
			name:     "test_rows_0",
			input:    [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
			expected: []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
		},
		{
			name:     "test_rows_1",
			input:    [][]int{{}, {}, {1, 2, 3}},
			expected: []int{1, 2, 3},
		},
		{
			name:     "test_input_nil",
			input:    nil,
			expected: []int{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				output := Flat(tc.input)
				if !reflect.DeepEqual(output, tc.expected) {
					t.Errorf("Flat(%v) = %v, expected %v", tc.input, output, tc.expected)
				}
			},
		)
	}
}

func TestUniq(t *testing.T) {
	t.Parallel()

	output := Uniq([]string{"b.json", "a.json", "b.json", "c.json", "a.json"})
	expected := []string{"b.json", "a.json", "c.json"}

	if !reflect.DeepEqual(output, expected) {
		t.Errorf("got: %v, want: %v", output, expected)
	}
}
