package metrics

import "sort"

// Gini computes the standard Gini coefficient over nonnegative integer
// counts (spec §4.6, §4.10, Glossary): 0 is perfect balance. Uses the
// rank-sum formula, O(n log n):
//
//	G = (2*Σ(i*x_i))/(n*Σx_i) - (n+1)/n
//
// with x sorted ascending and i 1-indexed. Returns 0 for an empty input or
// when every value is zero (no meaningful inequality to report).
func Gini(counts []int) float64 {
	n := len(counts)
	if n == 0 {
		return 0
	}
	sorted := append([]int{}, counts...)
	sort.Ints(sorted)

	var sum, weighted int64
	for i, x := range sorted {
		sum += int64(x)
		weighted += int64(i+1) * int64(x)
	}
	if sum == 0 {
		return 0
	}
	return (2*float64(weighted))/(float64(n)*float64(sum)) - float64(n+1)/float64(n)
}
