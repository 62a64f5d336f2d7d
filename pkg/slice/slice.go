// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

/*
Package slice compliments the standard [slices] package by providing functional
programming utilities (Map, Filter, Diff) leveraging generics.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter filters a slice, returning only elements where the predicate function evaluates to true.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	// Not pre-allocating to full length to avoid excessive memory on heavy filters
	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// Diff returns the elements of a that are not present in b, preserving order.
// It is used for set-difference style bookkeeping (e.g. orphaned content rows).
func Diff[T comparable](a []T, b []T) []T {
	if a == nil {
		return nil
	}

	seen := make(map[T]struct{}, len(b))
	for _, v := range b {
		seen[v] = struct{}{}
	}

	var result []T
	for _, v := range a {
		if _, found := seen[v]; !found {
			result = append(result, v)
		}
	}

	return result
}
