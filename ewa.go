package kernels

import (
	"math"

	"github.com/tphakala/go-video-kernels/internal/mathutil"
	"github.com/tphakala/go-video-kernels/internal/window"
)

// lanczosJincZero is the first zero of jinc, used to stretch the jinc window
// of EWA Lanczos onto the kernel radius.
const lanczosJincZero = 1.2196698912665045

// EWAConfig holds the filter settings of an EWA (libplacebo) kernel. Nil
// kernel parameters are left to the runtime's defaults.
type EWAConfig struct {
	Taps *float64
	B    *float64
	C    *float64

	Clamp    float64
	Blur     float64
	Taper    float64
	Antiring float64
}

func (c EWAConfig) radius() int {
	switch {
	case c.Taps != nil:
		return int(math.Ceil(*c.Taps))
	case (c.B != nil && *c.B != 0) || (c.C != nil && *c.C != 0):
		return BicubicRadius(valueOr(c.B, 0), valueOr(c.C, defaultCatromC))
	default:
		return fallbackRadius
	}
}

func (c EWAConfig) params(filter string) Args {
	args := Args{
		"filter":   filter,
		"clamp":    c.Clamp,
		"taper":    c.Taper,
		"blur":     c.Blur,
		"antiring": c.Antiring,
	}
	if c.Taps != nil {
		args["radius"] = *c.Taps
	}
	if c.B != nil {
		args["param1"] = *c.B
	}
	if c.C != nil {
		args["param2"] = *c.C
	}
	return args
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func ptr(v float64) *float64 { return &v }

// ewaFilters maps EWA kernel types to the runtime filter names.
var ewaFilters = map[KernelType]string{
	TypeEwaBicubic:       "ewa_robidoux",
	TypeEwaJinc:          "ewa_jinc",
	TypeEwaLanczos:       "ewa_lanczos",
	TypeEwaGinseng:       "ewa_ginseng",
	TypeEwaHann:          "ewa_hann",
	TypeEwaHannSoft:      "haasnsoft",
	TypeEwaRobidoux:      "ewa_robidoux",
	TypeEwaRobidouxSharp: "ewa_robidouxsharp",
}

// IsEWA reports whether kernels of typ are applied radially rather than
// separably.
func IsEWA(typ KernelType) bool {
	_, ok := ewaFilters[typ]
	return ok
}

// NewEWA builds an EWA kernel of the given type. It scales in linear light
// with the default sigmoid curve unless the request says otherwise.
func NewEWA(typ KernelType, cfg EWAConfig, opts ...KernelOption) *Kernel {
	filter, ok := ewaFilters[typ]
	if !ok {
		filter = ewaFilters[TypeEwaLanczos]
	}

	radius := cfg.radius()
	support := float64(radius)
	if cfg.Taps != nil {
		support = *cfg.Taps
	}

	k := newKernel(typ, ewaFunc(typ, support, cfg), support, constRadius(radius))
	k.params = func(operation) Args { return cfg.params(filter) }
	k.scaler = placeboStrategy{filter: filter}
	k.features = featureLinear
	k.defaults = []Option{WithLinear(true), WithDefaultSigmoid(), WithTransfer(TransferBT709)}
	return k.apply(opts)
}

func ewaFunc(typ KernelType, support float64, cfg EWAConfig) KernelFunc {
	var fn KernelFunc
	switch typ {
	case TypeEwaJinc:
		fn = mathutil.Jinc
	case TypeEwaGinseng:
		fn = func(x float64) float64 { return mathutil.Jinc(x) * mathutil.Sinc(x/support) }
	case TypeEwaHann, TypeEwaHannSoft:
		fn = func(x float64) float64 { return mathutil.Jinc(x) * window.Hann(math.Abs(x)/support) }
	case TypeEwaRobidoux:
		fn = func(x float64) float64 { return mathutil.Bicubic(x, robidouxB, robidouxC) }
	case TypeEwaRobidouxSharp:
		fn = func(x float64) float64 { return mathutil.Bicubic(x, robidouxSharpB, robidouxSharpC) }
	case TypeEwaBicubic:
		b, c := valueOr(cfg.B, 0), valueOr(cfg.C, defaultCatromC)
		fn = func(x float64) float64 { return mathutil.Bicubic(x, b, c) }
	default:
		fn = func(x float64) float64 {
			return mathutil.Jinc(x) * mathutil.Jinc(x*lanczosJincZero/support)
		}
	}
	return func(x float64) float64 {
		if math.Abs(x) >= support {
			return 0.0
		}
		return fn(x)
	}
}

// NewEwaLanczos returns jinc windowed by jinc.
func NewEwaLanczos(taps float64, opts ...KernelOption) *Kernel {
	return NewEWA(TypeEwaLanczos, EWAConfig{Taps: ptr(taps)}, opts...)
}

// NewEwaJinc returns the unwindowed jinc truncated at taps.
func NewEwaJinc(taps float64, opts ...KernelOption) *Kernel {
	return NewEWA(TypeEwaJinc, EWAConfig{Taps: ptr(taps)}, opts...)
}

// NewEwaGinseng returns jinc windowed by sinc.
func NewEwaGinseng(taps float64, opts ...KernelOption) *Kernel {
	return NewEWA(TypeEwaGinseng, EWAConfig{Taps: ptr(taps)}, opts...)
}

// NewEwaHann returns jinc windowed by the Hann window.
func NewEwaHann(taps float64, opts ...KernelOption) *Kernel {
	return NewEWA(TypeEwaHann, EWAConfig{Taps: ptr(taps)}, opts...)
}

// NewEwaHannSoft returns the softer jinc-Hann variant.
func NewEwaHannSoft(taps float64, opts ...KernelOption) *Kernel {
	return NewEWA(TypeEwaHannSoft, EWAConfig{Taps: ptr(taps)}, opts...)
}

// NewEwaRobidoux returns the Robidoux cubic applied radially.
func NewEwaRobidoux(opts ...KernelOption) *Kernel {
	return NewEWA(TypeEwaRobidoux, EWAConfig{}, opts...)
}

// NewEwaRobidouxSharp returns the sharp Robidoux cubic applied radially.
func NewEwaRobidouxSharp(opts ...KernelOption) *Kernel {
	return NewEWA(TypeEwaRobidouxSharp, EWAConfig{}, opts...)
}

// NewEwaBicubic returns the cubic (b, c) applied radially. A zero radius
// derives it from b and c.
func NewEwaBicubic(b, c float64, radius int, opts ...KernelOption) *Kernel {
	if radius <= 0 {
		radius = BicubicRadius(b, c)
	}
	return NewEWA(TypeEwaBicubic, EWAConfig{Taps: ptr(float64(radius)), B: ptr(b), C: ptr(c)}, opts...)
}
