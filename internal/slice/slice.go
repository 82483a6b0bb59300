package slice

// Map applies f to every element and returns the results in order. A nil f yields an empty slice.
func Map[T, R any](list []T, f func(t T) R) []R {
	if f == nil {
		return make([]R, 0)
	}

	output := make([]R, 0, len(list))
	for idx := range list {
		output = append(output, f(list[idx]))
	}

	return output
}

// Filter returns the elements accepted by filterFn, keeping their order. A nil filterFn accepts everything.
func Filter[T any](list []T, filterFn func(v T) bool) []T {
	output := make([]T, 0, len(list))
	for _, v := range list {
		if filterFn == nil || filterFn(v) {
			output = append(output, v)
		}
	}

	return output
}

// Find returns the first element satisfying f.
func Find[T any](list []T, f func(t T) bool) (T, bool) {
	var found T
	for idx := range list {
		if f(list[idx]) {
			return list[idx], true
		}
	}

	return found, false
}

// Flat concatenates the inner slices in order.
func Flat[T any](list [][]T) []T {
	var size int
	for idx := range list {
		size += len(list[idx])
	}

	output := make([]T, 0, size)
	for idx := range list {
		output = append(output, list[idx]...)
	}

	return output
}

// Uniq drops repeated elements, keeping the first occurrence.
func Uniq[T comparable](list []T) []T {
	seen := make(map[T]struct{}, len(list))
	output := make([]T, 0, len(list))
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		output = append(output, v)
	}

	return output
}
