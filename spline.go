package kernels

import (
	"fmt"
	"sync"

	"github.com/tphakala/go-video-kernels/internal/spline"
)

// Precomputed natural spline coefficient tables, 4 per tap as [x³, x², x, 1].
var (
	spline16Coeffs = []float64{
		0.9999999999999988, -1.799999999999999, -0.1999999999999993, 1.0000000000000004,
		-0.333333333333333, 1.7999999999999985, -3.066666666666665, 1.5999999999999994,
	}

	spline36Coeffs = []float64{
		1.1818181818181834, -2.1674641148325353, -0.014354066985642788, 1.0,
		-0.5454545454545451, 2.928229665071767, -4.9665071770334865, 2.583732057416266,
		0.09090909090909075, -0.760765550239233, 2.0765550239234405, -1.837320574162675,
	}

	spline64Coeffs = []float64{
		1.195121951219515, -2.1940913775334927, -0.0010305736860232173, 0.9999999999999929,
		-0.5853658536585364, 3.141188594984538, -5.326004809343863, 2.7701820680178617,
		0.1463414634146341, -1.2243215389900368, 3.3411198900721373, -2.9556853315011997,
		-0.02439024390243902, 0.27722432153898985, -1.0381312263826854, 1.277911370663001,
	}
)

// NewSpline returns the natural cubic spline kernel with the given taps. The
// coefficient table is solved on first use.
func NewSpline(taps int, opts ...KernelOption) (*Kernel, error) {
	if taps < 1 {
		return nil, fmt.Errorf("%w: spline taps must be at least 1, got %d", ErrInvalidConfig, taps)
	}
	return solvedSpline(TypeSpline, taps, opts), nil
}

func newSpline(typ KernelType, taps int, coeffs func() []float64, opts []KernelOption) *Kernel {
	k := newKernel(typ, func(x float64) float64 {
		return spline.Eval(coeffs(), taps, x)
	}, 0, constRadius(taps))
	k.scaler, k.descaler, k.resampler = customStrategy{}, customStrategy{}, customStrategy{}
	k.features = featuresComplex
	return k.apply(opts)
}

func staticSpline(typ KernelType, taps int, coeffs []float64, opts []KernelOption) *Kernel {
	return newSpline(typ, taps, func() []float64 { return coeffs }, opts)
}

func solvedSpline(typ KernelType, taps int, opts []KernelOption) *Kernel {
	return newSpline(typ, taps, sync.OnceValue(func() []float64 {
		return spline.KernelCoefficients(taps)
	}), opts)
}

// NewSpline16 returns the 2-tap spline.
func NewSpline16(opts ...KernelOption) *Kernel { return staticSpline(TypeSpline16, 2, spline16Coeffs, opts) }

// NewSpline36 returns the 3-tap spline.
func NewSpline36(opts ...KernelOption) *Kernel { return staticSpline(TypeSpline36, 3, spline36Coeffs, opts) }

// NewSpline64 returns the 4-tap spline.
func NewSpline64(opts ...KernelOption) *Kernel { return staticSpline(TypeSpline64, 4, spline64Coeffs, opts) }

// NewSpline100 returns the 5-tap spline.
func NewSpline100(opts ...KernelOption) *Kernel { return solvedSpline(TypeSpline100, 5, opts) }

// NewSpline144 returns the 6-tap spline.
func NewSpline144(opts ...KernelOption) *Kernel { return solvedSpline(TypeSpline144, 6, opts) }

// NewSpline196 returns the 7-tap spline.
func NewSpline196(opts ...KernelOption) *Kernel { return solvedSpline(TypeSpline196, 7, opts) }

// NewSpline256 returns the 8-tap spline.
func NewSpline256(opts ...KernelOption) *Kernel { return solvedSpline(TypeSpline256, 8, opts) }
