// Package testutil provides reusable assertion helpers for kernel tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	SplineTolerance  = 1e-9
	PixelTolerance   = 1e-6
)

// probeStep is the spacing of sample points used by the kernel probes.
const probeStep = 0.0625

// AssertSymmetric verifies that a slice is symmetric (s[i] == s[n-1-i]).
func AssertSymmetric(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	n := len(s)
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance,
			"slice not symmetric: s[%d]=%f != s[%d]=%f", i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertEven verifies fn(x) == fn(-x) on a grid covering [0, limit].
func AssertEven(t *testing.T, fn func(float64) float64, limit, tolerance float64) bool {
	t.Helper()
	for x := 0.0; x <= limit; x += probeStep {
		if !assert.InDelta(t, fn(x), fn(-x), tolerance, "kernel not even at x=%v", x) {
			return false
		}
	}
	return true
}

// AssertZeroBeyond verifies fn(x) is exactly zero for every probed |x| >= radius.
func AssertZeroBeyond(t *testing.T, fn func(float64) float64, radius float64) bool {
	t.Helper()
	for x := radius; x <= radius+4; x += probeStep {
		if v := fn(x); v != 0 {
			return assert.Fail(t, "kernel non-zero outside support", "k(%v)=%v, radius %v", x, v, radius)
		}
		if v := fn(-x); v != 0 {
			return assert.Fail(t, "kernel non-zero outside support", "k(%v)=%v, radius %v", -x, v, radius)
		}
	}
	return true
}

// AssertDCGain verifies that the sum of coefficients equals the expected gain.
func AssertDCGain(t *testing.T, coeffs []float64, expectedGain, tolerance float64) bool {
	t.Helper()
	var sum float64
	for _, c := range coeffs {
		sum += c
	}
	return assert.InDelta(t, expectedGain, sum, tolerance, "DC gain = %f, want %f", sum, expectedGain)
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// AssertSlicesInDelta compares two slices element-wise.
func AssertSlicesInDelta(t *testing.T, expected, actual []float64, tolerance float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		if !assert.InDelta(t, expected[i], actual[i], tolerance, "index %d", i) {
			return false
		}
	}
	return true
}
