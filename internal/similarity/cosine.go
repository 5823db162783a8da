// Package similarity computes the semantic closeness of two texts from
// their embedding vectors.
package similarity

import "math"

// Cosine returns the cosine of the angle between a and b. Vectors of
// different length or with a zero norm yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	c := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if c > 1 {
		return 1
	}
	if c < -1 {
		return -1
	}
	return c
}
