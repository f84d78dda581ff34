package curve

import "sort"

// lowerBound returns the index of the first time >= target, or len(times) if none.
func lowerBound(times []float64, target float64) int {
	return sort.Search(len(times), func(i int) bool {
		return times[i] >= target
	})
}

// findExact returns the insertion index for target and whether a pillar already sits there.
func findExact(times []float64, target float64) (int, bool) {
	idx := lowerBound(times, target)
	return idx, idx < len(times) && times[idx] == target
}
