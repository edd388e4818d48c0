// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with Map, Filter
and a tag-list normaliser built from them.
*/
package slice

import (
	"slices"
	"strings"
)

// Map maps a slice of type T to a slice of type U.
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

// Filter returns only elements where predicate is true.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// CleanStrings trims every entry and drops the empty ones. Order is kept and
// the result is never nil.
func CleanStrings(input []string) []string {
	cleaned := Filter(Map(input, strings.TrimSpace), func(s string) bool { return s != "" })
	if cleaned == nil {
		return []string{}
	}
	return cleaned
}

// SplitList splits a comma-separated string into cleaned entries.
//
//	slice.SplitList(" go, ,postgres ") // ["go", "postgres"]
func SplitList(raw string) []string {
	return CleanStrings(strings.Split(raw, ","))
}

// SortedUnique returns a sorted copy of input with duplicates removed.
func SortedUnique(input []string) []string {
	out := slices.Clone(input)
	slices.Sort(out)
	return slices.Compact(out)
}
