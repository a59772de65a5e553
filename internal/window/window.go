// Package window provides the window weights applied to sinc for the windowed kernel families.
//
// Every window takes the normalised distance t = |x|/taps and is defined on
// [0, 1). Callers are responsible for the cutoff at t >= 1.
package window

import (
	"math"

	"github.com/tphakala/go-video-kernels/internal/mathutil"
)

// Func is a window weight over normalised distance.
type Func func(t float64) float64

// Generalised cosine window coefficients (symmetric, centred form).
const (
	hannA0 = 0.5
	hannA1 = 0.5

	hammingA0 = 0.54
	hammingA1 = 0.46

	blackmanA0 = 0.42
	blackmanA1 = 0.5
	blackmanA2 = 0.08

	// 3-term minimum side-lobe Blackman (Nuttall).
	blackmanMinLobeA0 = 0.4243801
	blackmanMinLobeA1 = 0.4973406
	blackmanMinLobeA2 = 0.0782793
)

// Hann returns 0.5 + 0.5·cos(πt).
func Hann(t float64) float64 {
	return hannA0 + hannA1*math.Cos(math.Pi*t)
}

// Hamming returns 0.54 + 0.46·cos(πt).
func Hamming(t float64) float64 {
	return hammingA0 + hammingA1*math.Cos(math.Pi*t)
}

// Blackman returns the classic three-term Blackman window.
func Blackman(t float64) float64 {
	return blackmanA0 + blackmanA1*math.Cos(math.Pi*t) + blackmanA2*math.Cos(2*math.Pi*t)
}

// BlackmanMinLobe returns the three-term Blackman variant with minimal side lobes.
func BlackmanMinLobe(t float64) float64 {
	return blackmanMinLobeA0 + blackmanMinLobeA1*math.Cos(math.Pi*t) + blackmanMinLobeA2*math.Cos(2*math.Pi*t)
}

// Cosine returns cos(πt/2).
func Cosine(t float64) float64 {
	return math.Cos(math.Pi * t / 2)
}

// Bohman returns (1-t)·cos(πt) + sin(πt)/π.
func Bohman(t float64) float64 {
	return (1-t)*math.Cos(math.Pi*t) + math.Sin(math.Pi*t)/math.Pi
}

// Kaiser returns the Kaiser window with shape parameter beta:
// I₀(β·sqrt(1 - t²)) / I₀(β).
func Kaiser(beta float64) Func {
	i0Beta := mathutil.BesselI0(beta)
	return func(t float64) float64 {
		if t >= 1 {
			return 0
		}
		return mathutil.BesselI0(beta*math.Sqrt(1.0-t*t)) / i0Beta
	}
}

// Sinc multiplies sinc(x) by the window w over taps, with an exact zero at |x| >= taps.
func Sinc(w Func, taps float64) func(x float64) float64 {
	return func(x float64) float64 {
		ax := math.Abs(x)
		if ax >= taps {
			return 0
		}
		return mathutil.Sinc(ax) * w(ax/taps)
	}
}
