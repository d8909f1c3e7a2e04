package engine

import "math"

// DefaultRatio is the span/deflection ratio used when none is given.
const DefaultRatio = 300.0

// Check is the outcome of a serviceability deflection check.
type Check struct {
	Limit float64 // m
	OK    bool
}

// CheckDeflection compares deltaMax with length/ratio. Equality passes.
func CheckDeflection(deltaMax, length, ratio float64) (Check, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return Check{}, fieldErr(ErrInvalidGeometry, "L", length)
	}
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return Check{}, fieldErr(ErrInvalidRatio, "limit_L_over", ratio)
	}
	limit := length / ratio
	return Check{Limit: limit, OK: deltaMax <= limit}, nil
}
