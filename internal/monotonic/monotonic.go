// Package monotonic
package monotonic

// Slice returns the maximal contiguous subsequence of seq whose key falls in
// the half-open interval [lower, upper): elements whose key equals lower are
// included, elements whose key equals upper are excluded. seq must already be
// ordered so that key(seq[i]) is non-decreasing in i; cmp follows the
// convention of the standard cmp package (negative when a < b, zero when
// a == b, positive when a > b).
//
// The result is a subslice of seq, not a copy, preserving the original order.
// Runs in O(log n) using two binary searches over the index space.
func Slice[E, K any](seq []E, lower, upper K, key func(E) K, cmp func(K, K) int) []E {
	if len(seq) == 0 || cmp(lower, upper) >= 0 {
		return nil
	}

	// No element can match when the whole sequence lies below lower or
	// at/above upper.
	if cmp(key(seq[len(seq)-1]), lower) < 0 {
		return nil
	}
	if cmp(key(seq[0]), upper) >= 0 {
		return nil
	}

	// bisect returns 0 or the rightmost index whose key is below needle.
	bisect := func(needle K) int {
		start, end := 0, len(seq)
		for start+1 < end {
			mid := (start + end) / 2
			if cmp(key(seq[mid]), needle) < 0 {
				start = mid
			} else {
				end = mid
			}
		}
		return start
	}

	start := bisect(lower)
	if cmp(key(seq[start]), lower) < 0 {
		start++
	}
	end := bisect(upper)
	if cmp(key(seq[end]), upper) < 0 {
		end++
	}

	if start >= end {
		return nil
	}
	return seq[start:end]
}
