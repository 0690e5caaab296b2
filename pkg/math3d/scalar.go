package math3d

// Clamp limits value to [lo, hi]. NaN is returned unchanged.
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
