package circularprogress

// Clamp restricts v to the range [low, high]. Values below low return low,
// values above high return high, everything else passes through unchanged.
//
// Callers are expected to pass an ordered range; when low > high the
// result is unspecified.
func Clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
