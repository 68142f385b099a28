package mutils

import (
	"math"

	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

func Clamp[T number](x, minV, maxV T) T {
	return min(maxV, max(minV, x))
}

func Lerp[T constraints.Float](min, max, t T) T {
	return min + (max-min)*t
}

func Abs[T constraints.Signed | constraints.Float](a T) T {
	if a < 0 {
		return -a
	}

	return a
}

// PowMean is an Lp-norm style sum of two values.
func PowMean(a, b, power float64) float64 {
	return math.Pow(math.Pow(a, power)+math.Pow(b, power), 1.0/power)
}

// Logistic returns maxValue / (1 + e^(multiplier*(midpoint - x))).
func Logistic(x, midpoint, multiplier, maxValue float64) float64 {
	return maxValue / (1 + math.Exp(multiplier*(midpoint-x)))
}

// SafeDiv returns 0 instead of Inf/NaN when the denominator is zero.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}

	return a / b
}
