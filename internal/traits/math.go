package traits

import (
	"fmt"
	"math"
)

// Cosine calcula similitud coseno entre dos vectores.
// Longitudes distintas o magnitud cero devuelven 0, nunca error:
// "sin similitud" es un resultado definido, no una falla.
func Cosine(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Combine mezcla dos vectores punto a punto: alpha*a + (1-alpha)*b.
func Combine(a, b Vector, alpha float64) (Vector, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("combine: length mismatch %d != %d", len(a), len(b))
	}
	out := make(Vector, len(a))
	for i := range a {
		out[i] = alpha*a[i] + (1-alpha)*b[i]
	}
	return out, nil
}
