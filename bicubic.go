package kernels

import (
	"fmt"
	"math"

	"github.com/tphakala/go-video-kernels/internal/mathutil"
)

// Bicubic preset parameters.
var (
	robidouxSoftB = (9 - 3*math.Sqrt2) / 7
	robidouxSoftC = (1 - robidouxSoftB) / 2

	robidouxB = 12 / (19 + 9*math.Sqrt2)
	robidouxC = 113 / (58 + 216*math.Sqrt2)

	robidouxSharpB = 6 / (13 + 7*math.Sqrt2)
	robidouxSharpC = 7 / (2 + 12*math.Sqrt2)
)

// BicubicRadius returns the support radius of the cubic with parameters b
// and c: 1 when the outer piece vanishes, 2 otherwise.
func BicubicRadius(b, c float64) int {
	if b == 0 && c == 0 {
		return 1
	}
	return 2
}

// NewBicubic returns the Mitchell-Netravali cubic with parameters b and c,
// dispatched to the runtime's bicubic resizer.
func NewBicubic(b, c float64, opts ...KernelOption) *Kernel {
	return newBicubic(TypeBicubic, b, c, opts)
}

func newBicubic(typ KernelType, b, c float64, opts []KernelOption) *Kernel {
	k := newKernel(typ, func(x float64) float64 {
		return mathutil.Bicubic(x, b, c)
	}, 0, constRadius(BicubicRadius(b, c)))

	k.params = func(op operation) Args {
		if op == opDescale {
			return Args{"b": b, "c": c}
		}
		return Args{"filter_param_a": b, "filter_param_b": c}
	}

	s := resizeStrategy{filter: "bicubic"}
	k.scaler, k.descaler, k.resampler = s, s, s
	k.features = featuresComplex
	return k.apply(opts)
}

// NewCatrom returns the Catmull-Rom spline (b=0, c=0.5).
func NewCatrom(opts ...KernelOption) *Kernel { return newBicubic(TypeCatrom, 0, defaultCatromC, opts) }

// NewMitchell returns the Mitchell-Netravali filter (b=c=1/3).
func NewMitchell(opts ...KernelOption) *Kernel { return newBicubic(TypeMitchell, 1.0/3, 1.0/3, opts) }

// NewBSpline returns the cubic B-spline (b=1, c=0).
func NewBSpline(opts ...KernelOption) *Kernel { return newBicubic(TypeBSpline, 1, 0, opts) }

// NewHermite returns the Hermite cubic (b=c=0), the only preset with radius 1.
func NewHermite(opts ...KernelOption) *Kernel { return newBicubic(TypeHermite, 0, 0, opts) }

// NewFFmpegBicubic returns FFmpeg's default bicubic (b=0, c=0.6).
func NewFFmpegBicubic(opts ...KernelOption) *Kernel {
	return newBicubic(TypeFFmpegBicubic, 0, 0.6, opts)
}

// NewAdobeBicubic returns Adobe's bicubic (b=0, c=0.75).
func NewAdobeBicubic(opts ...KernelOption) *Kernel {
	return newBicubic(TypeAdobeBicubic, 0, 0.75, opts)
}

// NewBicubicSharp returns the sharp bicubic (b=0, c=1).
func NewBicubicSharp(opts ...KernelOption) *Kernel {
	return newBicubic(TypeBicubicSharp, 0, 1, opts)
}

// NewRobidouxSoft returns the soft Robidoux cubic.
func NewRobidouxSoft(opts ...KernelOption) *Kernel {
	return newBicubic(TypeRobidouxSoft, robidouxSoftB, robidouxSoftC, opts)
}

// NewRobidoux returns the Robidoux cubic.
func NewRobidoux(opts ...KernelOption) *Kernel {
	return newBicubic(TypeRobidoux, robidouxB, robidouxC, opts)
}

// NewRobidouxSharp returns the sharp Robidoux cubic.
func NewRobidouxSharp(opts ...KernelOption) *Kernel {
	return newBicubic(TypeRobidouxSharp, robidouxSharpB, robidouxSharpC, opts)
}

// NewBicubicDidee returns the b=-0.5, c=0.25 cubic, meant for downscaling
// (b + 2c = 0).
func NewBicubicDidee(opts ...KernelOption) *Kernel {
	return newBicubic(TypeBicubicDidee, -0.5, 0.25, opts)
}

// NewBicubicZopti returns the b=-0.6, c=0.4 cubic tuned for 2160p to 720p.
// It adds local contrast.
func NewBicubicZopti(opts ...KernelOption) *Kernel {
	return newBicubic(TypeBicubicZopti, -0.6, 0.4, opts)
}

// NewBicubicZoptiNeutral returns the b=-0.6, c=0.3 cubic.
func NewBicubicZoptiNeutral(opts ...KernelOption) *Kernel {
	return newBicubic(TypeBicubicZoptiNeutral, -0.6, 0.3, opts)
}

// AutoBC derives the missing bicubic parameter so that b + 2c = target.
// Giving both is an error; giving neither yields Catmull-Rom.
func AutoBC(b, c *float64, target float64) (float64, float64, error) {
	switch {
	case b != nil && c != nil:
		return 0, 0, fmt.Errorf("%w: b and c cannot both be specified", ErrInvalidConfig)
	case b != nil:
		return *b, (target - *b) / 2, nil
	case c != nil:
		return target - 2*(*c), *c, nil
	default:
		return 0, defaultCatromC, nil
	}
}

// NewBicubicAuto returns the cubic following b + 2c = target, with the
// missing parameter derived from the given one.
func NewBicubicAuto(b, c *float64, target float64, opts ...KernelOption) (*Kernel, error) {
	autoB, autoC, err := AutoBC(b, c, target)
	if err != nil {
		return nil, err
	}
	return newBicubic(TypeBicubicAuto, autoB, autoC, opts), nil
}
