package payment

import "math"

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Allocate divides total into n cent-exact parts. The last part absorbs the
// rounding remainder so the parts always sum back to total.
func Allocate(total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	each := roundCents(total / float64(n))
	parts := make([]float64, n)
	for i := 0; i < n-1; i++ {
		parts[i] = each
	}
	parts[n-1] = roundCents(total - each*float64(n-1))
	return parts
}
