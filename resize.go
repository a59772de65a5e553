package kernels

import (
	"math"

	"github.com/tphakala/go-video-kernels/internal/mathutil"
)

// NewPoint returns the nearest neighbour kernel. It has no inverse: a descale
// request resizes with it instead.
func NewPoint(opts ...KernelOption) *Kernel {
	k := newKernel(TypePoint, func(float64) float64 { return 1.0 }, 0, constRadius(0))
	k.scaler = resizeStrategy{filter: pointFilter}
	k.descaler = resizeStrategy{filter: pointFilter, descaleAsScale: true}
	k.resampler = resizeStrategy{filter: pointFilter}
	k.features = featuresComplex
	return k.apply(opts)
}

// NewBilinear returns the triangle kernel.
func NewBilinear(opts ...KernelOption) *Kernel {
	k := newKernel(TypeBilinear, func(x float64) float64 {
		return math.Max(1.0-math.Abs(x), 0.0)
	}, 0, constRadius(1))
	s := resizeStrategy{filter: "bilinear"}
	k.scaler, k.descaler, k.resampler = s, s, s
	k.features = featuresComplex
	return k.apply(opts)
}

// NewLanczos returns the Lanczos kernel, sinc windowed by a wider sinc over
// taps lobes.
func NewLanczos(taps int, opts ...KernelOption) *Kernel {
	t := float64(taps)
	k := newKernel(TypeLanczos, func(x float64) float64 {
		x = math.Abs(x)
		if x >= t {
			return 0.0
		}
		return mathutil.Sinc(x) * mathutil.Sinc(x/t)
	}, 0, constRadius(taps))

	k.params = func(op operation) Args {
		if op == opDescale {
			return Args{"taps": taps}
		}
		return Args{"filter_param_a": taps}
	}

	s := resizeStrategy{filter: "lanczos"}
	k.scaler, k.descaler, k.resampler = s, s, s
	k.features = featuresComplex
	return k.apply(opts)
}
