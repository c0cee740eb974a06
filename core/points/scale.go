package points

// DefaultScale returns a scale with sensible intervals for assigning points out of `total`.
func DefaultScale(total float64) []float64 {
	var incr float64
	switch {
	case total <= 5:
		incr = 0.25
	case total <= 10:
		incr = 0.5
	case total <= 20:
		incr = 1
	default:
		incr = 5
	}

	n := int(total / incr)
	if n < 0 {
		n = 0
	}
	scale := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		scale = append(scale, float64(i)*incr)
	}
	return append(scale, total)
}
