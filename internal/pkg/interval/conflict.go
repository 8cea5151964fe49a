package interval

import (
	"slices"
	"strings"
)

// ConflictPair holds two intervals that overlap. First never starts after Second.
type ConflictPair struct {
	First  Interval
	Second Interval
}

// Conflicts returns every pair of strictly overlapping intervals, ordered by
// the start of the first and then of the second interval.
func Conflicts(ivs []Interval) []ConflictPair {
	sorted := SortByStart(ivs)

	var pairs []ConflictPair
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if !sorted[j].start.Before(sorted[i].end) {
				break
			}
			if Overlaps(sorted[i], sorted[j]) {
				pairs = append(pairs, ConflictPair{First: sorted[i], Second: sorted[j]})
			}
		}
	}
	return pairs
}

// FirstConflict returns the earliest interval in existing that overlaps candidate.
func FirstConflict(candidate Interval, existing []Interval) (Interval, bool) {
	for _, iv := range SortByStart(existing) {
		if Overlaps(candidate, iv) {
			return iv, true
		}
	}
	return Interval{}, false
}

// SortByStart returns a copy of ivs ordered by start, then end, then tag.
func SortByStart(ivs []Interval) []Interval {
	out := slices.Clone(ivs)
	slices.SortStableFunc(out, compare)
	return out
}

// GroupByTag groups intervals by tag; each group is sorted by start.
func GroupByTag(ivs []Interval) map[string][]Interval {
	groups := make(map[string][]Interval)
	for _, iv := range SortByStart(ivs) {
		groups[iv.tag] = append(groups[iv.tag], iv)
	}
	return groups
}

func compare(a, b Interval) int {
	if c := a.start.Compare(b.start); c != 0 {
		return c
	}
	if c := a.end.Compare(b.end); c != 0 {
		return c
	}
	return strings.Compare(a.tag, b.tag)
}
