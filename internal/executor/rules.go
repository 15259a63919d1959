package executor

import "golang.org/x/exp/constraints"

// Rule merges two partial results into one.
// It must be associative, and also commutative for a deterministic final value.
// The engine never passes an absent partial to a Rule; an absent partial is skipped.
type Rule[R any] func(a, b R) R

// Number is any integer or floating-point type
type Number interface {
	constraints.Integer | constraints.Float
}

// And combines booleans with logical AND. The default for an absent result is false.
func And() Rule[bool] {
	return func(a, b bool) bool {
		return a && b
	}
}

// Or combines booleans with logical OR. The default for an absent result is false.
func Or() Rule[bool] {
	return func(a, b bool) bool {
		return a || b
	}
}

// Sum adds integers. The default for an absent result is zero.
func Sum[T constraints.Integer]() Rule[T] {
	return func(a, b T) T {
		return a + b
	}
}

// FloatSum adds floating-point values. The default for an absent result is zero.
// Rounding depends on merge order, so results across thread counts agree only
// within accumulation tolerance.
func FloatSum[T constraints.Float]() Rule[T] {
	return func(a, b T) T {
		return a + b
	}
}

// Product multiplies numbers
func Product[T Number]() Rule[T] {
	return func(a, b T) T {
		return a * b
	}
}

// Min keeps the smaller value
func Min[T constraints.Ordered]() Rule[T] {
	return func(a, b T) T {
		if b < a {
			return b
		}
		return a
	}
}

// Max keeps the larger value
func Max[T constraints.Ordered]() Rule[T] {
	return func(a, b T) T {
		if b > a {
			return b
		}
		return a
	}
}
