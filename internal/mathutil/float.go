package mathutil

import "math"

// Clamp limits v to [lo, hi] (search: float-math).
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt limits v to [lo, hi] (search: int-math).
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundToInt rounds to the nearest int, halves away from zero (search: float-math).
func RoundToInt(v float32) int {
	return int(math.Round(float64(v)))
}

// Lerp interpolates linearly between a and b by t in [0, 1] (search: float-math).
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
