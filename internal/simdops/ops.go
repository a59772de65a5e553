// Package simdops provides generic SIMD operations for float32 and float64 weight tables.
// Kernel weights are built in float64; frame planes may be either precision.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// Ops provides SIMD-accelerated operations for type F.
type Ops[F Float] struct {
	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []F) F

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []F, s F)
}

var (
	ops32 = Ops[float32]{
		DotProductUnsafe: f32.DotProductUnsafe,
		Sum:              f32.Sum,
		Scale:            f32.Scale,
	}
	ops64 = Ops[float64]{
		DotProductUnsafe: f64.DotProductUnsafe,
		Sum:              f64.Sum,
		Scale:            f64.Scale,
	}
)

// For returns the Ops instance for type F.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}

// Normalize scales weights in place so they sum to one. A zero sum leaves
// the weights untouched and reports false.
func Normalize[F Float](weights []F) bool {
	ops := For[F]()
	sum := ops.Sum(weights)
	if sum == 0 {
		return false
	}
	ops.Scale(weights, weights, 1/sum)
	return true
}

// Dot returns the dot product of two equal-length slices.
func Dot[F Float](a, b []F) F {
	if len(a) != len(b) {
		panic("simdops: length mismatch")
	}
	if len(a) == 0 {
		return 0
	}
	return For[F]().DotProductUnsafe(a, b)
}
