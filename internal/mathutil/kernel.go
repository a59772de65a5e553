package mathutil

import "math"

// Sinc returns the normalised sinc function sin(πx)/(πx), with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if math.Abs(x) < sincZeroThreshold {
		return 1.0
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// Jinc returns the radial counterpart of sinc, 2·J1(πx)/(πx), with Jinc(0) = 1.
// EWA kernels are defined on it.
func Jinc(x float64) float64 {
	if math.Abs(x) < sincZeroThreshold {
		return 1.0
	}
	px := math.Pi * x
	return jincScale * math.J1(px) / px
}

// Poly3 evaluates c0 + c1·x + c2·x² + c3·x³ in Horner form.
func Poly3(x, c0, c1, c2, c3 float64) float64 {
	return c0 + x*(c1+x*(c2+x*c3))
}

// BicubicInner returns the coefficients (p0, p1, p2, p3) of the |x| < 1 piece
// of the Mitchell-Netravali cubic with parameters b and c. p1 is always zero.
func BicubicInner(b, c float64) (p0, p1, p2, p3 float64) {
	p0 = (6.0 - 2.0*b) / bicubicDivisor
	p2 = (-18.0 + 12.0*b + 6.0*c) / bicubicDivisor
	p3 = (12.0 - 9.0*b - 6.0*c) / bicubicDivisor
	return p0, 0, p2, p3
}

// BicubicOuter returns the coefficients (q0, q1, q2, q3) of the 1 <= |x| < 2 piece.
func BicubicOuter(b, c float64) (q0, q1, q2, q3 float64) {
	q0 = (8.0*b + 24.0*c) / bicubicDivisor
	q1 = (-12.0*b - 48.0*c) / bicubicDivisor
	q2 = (6.0*b + 30.0*c) / bicubicDivisor
	q3 = (-b - 6.0*c) / bicubicDivisor
	return q0, q1, q2, q3
}

// Bicubic evaluates the Mitchell-Netravali cubic at x.
func Bicubic(x, b, c float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 1.0:
		p0, p1, p2, p3 := BicubicInner(b, c)
		return Poly3(x, p0, p1, p2, p3)
	case x < 2.0:
		q0, q1, q2, q3 := BicubicOuter(b, c)
		return Poly3(x, q0, q1, q2, q3)
	}
	return 0.0
}

// RoundHalfUp rounds x to the nearest integer, ties toward positive infinity.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
