package kernels

import (
	"fmt"
	"math"

	"github.com/tphakala/go-video-kernels/internal/mathutil"
	"github.com/tphakala/go-video-kernels/internal/window"
)

// newFmtConv builds a kernel dispatched to the runtime's fmtconv-style
// resampler under the given kernel name.
func newFmtConv(typ KernelType, name string, fn KernelFunc, taps int, radius func() int, opts []KernelOption) *Kernel {
	k := newKernel(typ, fn, 0, radius)
	k.args["taps"] = taps
	s := fmtcStrategy{kernel: name}
	k.scaler, k.descaler = s, s
	k.features = featureFields
	return k.apply(opts)
}

// NewBox returns the box filter. Its radius is fixed at 1.
func NewBox(opts ...KernelOption) *Kernel {
	return newFmtConv(TypeBox, "box", func(x float64) float64 {
		if math.Abs(x) < 0.5 {
			return 1.0
		}
		return 0.0
	}, defaultWindowTaps, constRadius(1), opts)
}

// NewBlackMan returns sinc windowed by the Blackman window.
func NewBlackMan(taps int, opts ...KernelOption) *Kernel {
	return newFmtConv(TypeBlackMan, "blackman", window.Sinc(window.Blackman, float64(taps)), taps, constRadius(taps), opts)
}

// NewBlackManMinLobe returns sinc windowed by the minimum side-lobe Blackman window.
func NewBlackManMinLobe(taps int, opts ...KernelOption) *Kernel {
	return newFmtConv(TypeBlackManMinLobe, "blackmanminlobe",
		window.Sinc(window.BlackmanMinLobe, float64(taps)), taps, constRadius(taps), opts)
}

// NewSinc returns the sinc function truncated at taps.
func NewSinc(taps int, opts ...KernelOption) *Kernel {
	t := float64(taps)
	return newFmtConv(TypeSinc, "sinc", func(x float64) float64 {
		if math.Abs(x) >= t {
			return 0.0
		}
		return mathutil.Sinc(x)
	}, taps, constRadius(taps), opts)
}

// NewGaussian returns the gaussian with standard deviation sigma (ImageMagick
// scaling). The runtime receives it as an fmtconv curve, which must be in [1, 100].
func NewGaussian(sigma float64, taps int, opts ...KernelOption) (*Kernel, error) {
	curve := GaussianSigmaToFmtc(sigma)
	if curve < gaussianCurveMin || curve > gaussianCurveMax {
		return nil, fmt.Errorf("%w: sigma must be in range %.4f-%.4f (inclusive), got %v", ErrInvalidConfig,
			GaussianSigmaFromFmtc(gaussianCurveMax), GaussianSigmaFromFmtc(gaussianCurveMin), sigma)
	}
	return newGaussian(sigma, curve, taps, opts), nil
}

// NewGaussianCurve returns the gaussian with the given fmtconv curve value.
func NewGaussianCurve(curve float64, taps int, opts ...KernelOption) (*Kernel, error) {
	if curve < gaussianCurveMin || curve > gaussianCurveMax {
		return nil, fmt.Errorf("%w: curve must be in range %.0f-%.0f (inclusive), got %v", ErrInvalidConfig,
			gaussianCurveMin, gaussianCurveMax, curve)
	}
	return newGaussian(GaussianSigmaFromFmtc(curve), curve, taps, opts), nil
}

func newGaussian(sigma, curve float64, taps int, opts []KernelOption) *Kernel {
	t := float64(taps)
	twoSigmaSq := gaussianNormalizeFactor * sigma * sigma
	scale := 1 / (sigma * sqrtTwoPi)
	k := newFmtConv(TypeGaussian, "gaussian", func(x float64) float64 {
		if math.Abs(x) >= t {
			return 0.0
		}
		return scale * math.Exp(-x*x/twoSigmaSq)
	}, taps, constRadius(taps), nil)
	k.args["a1"] = curve
	return k.apply(opts)
}

// GaussianSigmaToFmtc converts a sigma to an fmtconv curve value.
func GaussianSigmaToFmtc(sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	return gaussianCurveScale / (gaussianNormalizeFactor * math.Ln2 * sigma * sigma)
}

// GaussianSigmaFromFmtc converts an fmtconv curve value to a sigma.
func GaussianSigmaFromFmtc(curve float64) float64 {
	if curve == 0 {
		return 0
	}
	return math.Sqrt(1 / (gaussianNormalizeFactor * (curve / gaussianCurveScale) * math.Ln2))
}

// GaussianSigmaToPlacebo converts a sigma to libplacebo's gaussian parameter.
func GaussianSigmaToPlacebo(sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	return gaussianPlaceboFactor * sigma * sigma
}

// GaussianSigmaFromPlacebo converts libplacebo's gaussian parameter to a sigma.
func GaussianSigmaFromPlacebo(param float64) float64 {
	if param == 0 {
		return 0
	}
	return math.Sqrt(param / gaussianPlaceboFactor)
}

// newWindowed builds a windowed sinc evaluated through the custom kernel path.
func newWindowed(typ KernelType, w window.Func, taps float64, opts []KernelOption) *Kernel {
	k := newKernel(typ, window.Sinc(w, taps), taps, ceilRadius(taps))
	k.scaler, k.descaler, k.resampler = customStrategy{}, customStrategy{}, customStrategy{}
	k.features = featuresComplex
	return k.apply(opts)
}

// NewHann returns sinc windowed by the Hann window.
func NewHann(taps float64, opts ...KernelOption) *Kernel {
	return newWindowed(TypeHann, window.Hann, taps, opts)
}

// NewHamming returns sinc windowed by the Hamming window.
func NewHamming(taps float64, opts ...KernelOption) *Kernel {
	return newWindowed(TypeHamming, window.Hamming, taps, opts)
}

// NewCosine returns sinc windowed by the cosine window.
func NewCosine(taps float64, opts ...KernelOption) *Kernel {
	return newWindowed(TypeCosine, window.Cosine, taps, opts)
}

// NewBohman returns sinc windowed by the Bohman window.
func NewBohman(taps float64, opts ...KernelOption) *Kernel {
	return newWindowed(TypeBohman, window.Bohman, taps, opts)
}

// NewKaiser returns sinc windowed by the Kaiser window of shape beta.
func NewKaiser(taps, beta float64, opts ...KernelOption) *Kernel {
	return newWindowed(TypeKaiser, window.Kaiser(beta), taps, opts)
}

// NewWelch returns the Welch parabola 1 - x² over [-1, 1].
func NewWelch(opts ...KernelOption) *Kernel {
	k := newKernel(TypeWelch, func(x float64) float64 {
		if math.Abs(x) >= 1 {
			return 0.0
		}
		return 1.0 - x*x
	}, 0, constRadius(1))
	k.scaler, k.descaler, k.resampler = customStrategy{}, customStrategy{}, customStrategy{}
	k.features = featuresComplex
	return k.apply(opts)
}
