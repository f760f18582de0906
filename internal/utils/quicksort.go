package utils

import "golang.org/x/exp/constraints"

// Quicksort sorts s ascending in place using Lomuto partitioning with the
// last element as pivot. It is not stable.
func Quicksort[T constraints.Ordered](s []T) {
	for len(s) > 1 {
		p := partition(s)
		// Recurse into the smaller side to keep stack depth logarithmic.
		if p < len(s)-p-1 {
			Quicksort(s[:p])
			s = s[p+1:]
		} else {
			Quicksort(s[p+1:])
			s = s[:p]
		}
	}
}

// partition places every element <= pivot before it and returns the pivot's
// final index.
func partition[T constraints.Ordered](s []T) int {
	last := len(s) - 1
	pivot := s[last]
	store := 0
	for i := 0; i < last; i++ {
		if s[i] <= pivot {
			s[store], s[i] = s[i], s[store]
			store++
		}
	}
	s[store], s[last] = s[last], s[store]
	return store
}
