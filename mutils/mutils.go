package mutils

import "golang.org/x/exp/constraints"

type number interface {
	constraints.Integer | constraints.Float
}

func Clamp[T number](x, lo, hi T) T {
	return min(hi, max(lo, x))
}

func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// Fround rounds x to the nearest single precision value.
func Fround(x float64) float64 {
	return float64(float32(x))
}
