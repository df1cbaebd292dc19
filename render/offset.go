package render

// Offset returns the fractional position along a cell edge at which the
// density field crosses threshold, given the edge endpoint densities v1
// and v2. When both endpoints hold the same density any point on the
// edge suffices, so the raw threshold value is returned rather than
// dividing by zero.
//
// The result is intentionally not clamped to [0,1]: endpoint densities
// that do not bracket the threshold are a case table bug on the caller's
// side and clamping here would mask it.
func Offset(threshold, v1, v2 float64) float64 {
	delta := v2 - v1
	if delta == 0 {
		return threshold
	}
	return (threshold - v1) / delta
}
