// Package spline derives piecewise-cubic interpolation kernels from natural cubic splines.
//
// A kernel with n taps is obtained by fitting a natural cubic spline through a
// unit impulse placed on a grid of 2n samples and reading off the polynomial
// pieces that cover distances 0..n from the impulse.
package spline

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// coeffsPerPiece is the number of coefficients of a cubic piece (x³, x², x, 1).
const coeffsPerPiece = 4

// NaturalCubicSpline fits a natural cubic spline through values sampled at
// x = 0, 1, ..., len(values)-1 and returns the coefficients of every piece in
// order, each piece as [x³, x², x, 1] in absolute x.
//
// The system has 4n equations for n pieces: n left values, n right values,
// n-1 first-derivative matches, n-1 second-derivative matches and the two
// natural boundary conditions. A solver failure means the system was built
// wrong and panics.
func NaturalCubicSpline(values []float64) []float64 {
	n := len(values) - 1
	if n < 1 {
		panic(fmt.Sprintf("spline: need at least 2 values, got %d", len(values)))
	}
	size := coeffsPerPiece * n

	rhs := make([]float64, 0, size)
	rhs = append(rhs, values[:n]...)
	rhs = append(rhs, values[1:]...)
	rhs = append(rhs, make([]float64, 2*n)...)

	eqns := make([][]float64, 0, size)
	row := func(col int, coeffs ...float64) []float64 {
		r := make([]float64, size)
		copy(r[col:], coeffs)
		return r
	}

	// left value = sample
	for i := range n {
		x := float64(i)
		eqns = append(eqns, row(coeffsPerPiece*i, x*x*x, x*x, x, 1))
	}
	// right value = sample
	for i := range n {
		x := float64(i + 1)
		eqns = append(eqns, row(coeffsPerPiece*i, x*x*x, x*x, x, 1))
	}
	// first derivatives match
	for i := range n - 1 {
		x := float64(i + 1)
		eqns = append(eqns, row(coeffsPerPiece*i,
			3*x*x, 2*x, 1, 0, -3*x*x, -2*x, -1, 0))
	}
	// second derivatives match
	for i := range n - 1 {
		x := float64(i + 1)
		eqns = append(eqns, row(coeffsPerPiece*i, 6*x, 2, 0, 0, -6*x, -2, 0, 0))
	}
	// natural boundaries
	eqns = append(eqns, row(0, 0, 2, 0, 0))
	nf := float64(n)
	eqns = append(eqns, row(coeffsPerPiece*(n-1), 6*nf, 2, 0, 0))

	if len(eqns) != len(rhs) {
		panic(fmt.Sprintf("spline: %d equations for %d unknowns", len(eqns), len(rhs)))
	}

	a := mat.NewDense(size, size, nil)
	for i, r := range eqns {
		a.SetRow(i, r)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, mat.NewVecDense(size, rhs)); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			panic(fmt.Sprintf("spline: solve failed: %v", err))
		}
	}

	out := make([]float64, size)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out
}

// ShiftPolynomial returns the coefficients of Q(x) = P(x - shift), where P is
// given highest power first.
func ShiftPolynomial(coeffs []float64, shift float64) []float64 {
	n := len(coeffs)
	out := make([]float64, n)
	for m := range n {
		var sum float64
		for k := m; k < n; k++ {
			c := coeffs[n-1-k]
			sum += c * binomial(k, m) * pow(-shift, k-m)
		}
		out[n-1-m] = sum
	}
	return out
}

// KernelCoefficients returns the coefficient table of an n-tap spline kernel:
// 4·taps values, piece i covering |x| in [i, i+1) as [x³, x², x, 1].
func KernelCoefficients(taps int) []float64 {
	if taps < 1 {
		panic(fmt.Sprintf("spline: invalid taps %d", taps))
	}

	coeffs := make([]float64, 0, coeffsPerPiece*taps)
	for i := range taps {
		samplept := taps - i - 1
		samples := make([]float64, 2*taps)
		samples[samplept] = 1

		solved := NaturalCubicSpline(samples)
		piece := solved[coeffsPerPiece*(taps-1) : coeffsPerPiece*taps]
		coeffs = append(coeffs, ShiftPolynomial(piece, float64(i-(taps-1)))...)
	}
	return coeffs
}

// Eval evaluates a coefficient table produced by KernelCoefficients at x.
func Eval(coeffs []float64, taps int, x float64) float64 {
	if x < 0 {
		x = -x
	}
	// Negated so NaN falls through to zero.
	if !(x < float64(taps)) {
		return 0.0
	}
	tap := int(x)
	c := coeffs[coeffsPerPiece*tap : coeffsPerPiece*tap+coeffsPerPiece]
	return c[3] + x*(c[2]+x*(c[1]+x*c[0]))
}

func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}
	return r
}

func pow(x float64, n int) float64 {
	r := 1.0
	for range n {
		r *= x
	}
	return r
}
