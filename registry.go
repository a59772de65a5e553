package kernels

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// KernelType names a registered kernel type.
type KernelType string

// Abstract base types. They can be named but never instantiated.
const (
	TypeKernelBase  KernelType = "Kernel"
	TypeCustomBase  KernelType = "CustomKernel"
	TypeComplexBase KernelType = "ComplexKernel"
	TypeFmtConvBase KernelType = "FmtConv"
	TypePlaceboBase KernelType = "Placebo"
)

// Concrete kernel types.
const (
	TypePoint    KernelType = "Point"
	TypeBilinear KernelType = "Bilinear"
	TypeLanczos  KernelType = "Lanczos"

	TypeBicubic             KernelType = "Bicubic"
	TypeBSpline             KernelType = "BSpline"
	TypeHermite             KernelType = "Hermite"
	TypeMitchell            KernelType = "Mitchell"
	TypeCatrom              KernelType = "Catrom"
	TypeFFmpegBicubic       KernelType = "FFmpegBicubic"
	TypeAdobeBicubic        KernelType = "AdobeBicubic"
	TypeBicubicSharp        KernelType = "BicubicSharp"
	TypeRobidouxSoft        KernelType = "RobidouxSoft"
	TypeRobidoux            KernelType = "Robidoux"
	TypeRobidouxSharp       KernelType = "RobidouxSharp"
	TypeBicubicDidee        KernelType = "BicubicDidee"
	TypeBicubicZopti        KernelType = "BicubicZopti"
	TypeBicubicZoptiNeutral KernelType = "BicubicZoptiNeutral"
	TypeBicubicAuto         KernelType = "BicubicAuto"

	TypeSpline    KernelType = "Spline"
	TypeSpline16  KernelType = "Spline16"
	TypeSpline36  KernelType = "Spline36"
	TypeSpline64  KernelType = "Spline64"
	TypeSpline100 KernelType = "Spline100"
	TypeSpline144 KernelType = "Spline144"
	TypeSpline196 KernelType = "Spline196"
	TypeSpline256 KernelType = "Spline256"

	TypeBox             KernelType = "Box"
	TypeBlackMan        KernelType = "BlackMan"
	TypeBlackManMinLobe KernelType = "BlackManMinLobe"
	TypeSinc            KernelType = "Sinc"
	TypeGaussian        KernelType = "Gaussian"

	TypeHann    KernelType = "Hann"
	TypeHamming KernelType = "Hamming"
	TypeWelch   KernelType = "Welch"
	TypeCosine  KernelType = "Cosine"
	TypeBohman  KernelType = "Bohman"
	TypeKaiser  KernelType = "Kaiser"

	TypeEwaBicubic       KernelType = "EwaBicubic"
	TypeEwaJinc          KernelType = "EwaJinc"
	TypeEwaLanczos       KernelType = "EwaLanczos"
	TypeEwaGinseng       KernelType = "EwaGinseng"
	TypeEwaHann          KernelType = "EwaHann"
	TypeEwaHannSoft      KernelType = "EwaHannSoft"
	TypeEwaRobidoux      KernelType = "EwaRobidoux"
	TypeEwaRobidouxSharp KernelType = "EwaRobidouxSharp"
)

// Factory builds a kernel from construction parameters. Parameters the
// factory does not consume become the kernel's own runtime arguments.
type Factory func(params Args) (*Kernel, error)

type registration struct {
	typ      KernelType
	factory  Factory
	abstract bool
}

var registry = struct {
	sync.RWMutex
	byName map[string]registration

	// defaults caches the default-parameter instance of each type.
	defaults map[KernelType]*Kernel
}{byName: map[string]registration{}, defaults: map[KernelType]*Kernel{}}

func init() {
	for _, typ := range []KernelType{
		TypeKernelBase, TypeCustomBase, TypeComplexBase, TypeFmtConvBase, TypePlaceboBase,
	} {
		registry.byName[normalizeName(string(typ))] = registration{typ: typ, abstract: true}
	}
	for typ, f := range builtinFactories() {
		registry.byName[normalizeName(string(typ))] = registration{typ: typ, factory: f}
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a kernel type. Registering an existing name replaces it.
func Register(typ KernelType, factory Factory) error {
	name := normalizeName(string(typ))
	if name == "" {
		return fmt.Errorf("%w: empty kernel name", ErrInvalidConfig)
	}
	if factory == nil {
		return fmt.Errorf("%w: nil factory for %q", ErrInvalidConfig, typ)
	}

	registry.Lock()
	defer registry.Unlock()
	if r, ok := registry.byName[name]; ok && r.abstract {
		return fmt.Errorf("%w: %q", ErrAbstractKernel, typ)
	}
	registry.byName[name] = registration{typ: typ, factory: factory}
	delete(registry.defaults, typ)
	return nil
}

func lookup(name string) (registration, bool) {
	registry.RLock()
	defer registry.RUnlock()
	r, ok := registry.byName[normalizeName(name)]
	return r, ok
}

// FromParam resolves a kernel name, ignoring case and surrounding space.
// Abstract base types are not resolvable.
func FromParam(name string) (KernelType, error) {
	r, ok := lookup(name)
	if !ok || r.abstract {
		return "", fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
	return r.typ, nil
}

// NewKernel instantiates a registered kernel type with construction parameters.
func NewKernel(typ KernelType, params Args) (*Kernel, error) {
	r, ok := lookup(string(typ))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, typ)
	}
	if r.abstract {
		return nil, fmt.Errorf("%w: %q", ErrAbstractKernel, typ)
	}
	return r.factory(params)
}

// EnsureKernel returns a kernel instance for v, which may be a *Kernel, a
// KernelType or a kernel name. Types and names get default parameters.
func EnsureKernel(v any) (*Kernel, error) {
	switch k := v.(type) {
	case *Kernel:
		if k == nil {
			return nil, fmt.Errorf("%w: nil kernel", ErrInvalidConfig)
		}
		return k, nil
	case KernelType:
		return defaultKernel(k)
	case string:
		if r, ok := lookup(k); ok && r.abstract {
			return nil, fmt.Errorf("%w: %q", ErrAbstractKernel, k)
		}
		typ, err := FromParam(k)
		if err != nil {
			return nil, err
		}
		return defaultKernel(typ)
	default:
		return nil, fmt.Errorf("%w: cannot make a kernel from %T", ErrInvalidConfig, v)
	}
}

func defaultKernel(typ KernelType) (*Kernel, error) {
	registry.RLock()
	k, ok := registry.defaults[typ]
	registry.RUnlock()
	if ok {
		return k, nil
	}

	k, err := NewKernel(typ, nil)
	if err != nil {
		return nil, err
	}
	registry.Lock()
	registry.defaults[typ] = k
	registry.Unlock()
	return k, nil
}

// Types returns the instantiable kernel types, sorted by name.
func Types() []KernelType {
	registry.RLock()
	defer registry.RUnlock()

	out := make([]KernelType, 0, len(registry.byName))
	for _, r := range registry.byName {
		if !r.abstract {
			out = append(out, r.typ)
		}
	}
	slices.Sort(out)
	return out
}

// ScalerFromName resolves name to a kernel that can scale.
func ScalerFromName(name string) (*Kernel, error) {
	return fromNameWith(name, (*Kernel).CanScale, "scale")
}

// DescalerFromName resolves name to a kernel that can descale.
func DescalerFromName(name string) (*Kernel, error) {
	return fromNameWith(name, (*Kernel).CanDescale, "descale")
}

// ResamplerFromName resolves name to a kernel that can resample.
func ResamplerFromName(name string) (*Kernel, error) {
	return fromNameWith(name, (*Kernel).CanResample, "resample")
}

func fromNameWith(name string, can func(*Kernel) bool, op string) (*Kernel, error) {
	k, err := EnsureKernel(name)
	if err != nil {
		return nil, err
	}
	if !can(k) {
		return nil, k.unsupported(op)
	}
	return k, nil
}

// paramReader consumes typed construction parameters and keeps the rest.
type paramReader struct {
	rest Args
	err  error
}

func readParams(params Args) *paramReader {
	return &paramReader{rest: params.Clone()}
}

func (r *paramReader) optFloat(key string) *float64 {
	v, ok := r.rest.pop(key)
	if !ok || v == nil {
		return nil
	}
	f, err := toFloat(v)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("%s: %w", key, err)
		}
		return nil
	}
	return &f
}

func (r *paramReader) float(key string, def float64) float64 {
	return valueOr(r.optFloat(key), def)
}

func (r *paramReader) int(key string, def int) int {
	if f := r.optFloat(key); f != nil {
		return int(*f)
	}
	return def
}

// options returns the unconsumed parameters as kernel arguments.
func (r *paramReader) options() []KernelOption {
	if len(r.rest) == 0 {
		return nil
	}
	return []KernelOption{WithKernelArgs(r.rest)}
}

func preset(ctor func(...KernelOption) *Kernel) Factory {
	return func(params Args) (*Kernel, error) {
		return ctor(readParams(params).options()...), nil
	}
}

func builtinFactories() map[KernelType]Factory {
	ewa := func(typ KernelType, withTaps bool) Factory {
		return func(params Args) (*Kernel, error) {
			r := readParams(params)
			cfg := EWAConfig{
				B:        r.optFloat("b"),
				C:        r.optFloat("c"),
				Clamp:    r.float("clamp", 0),
				Blur:     r.float("blur", 0),
				Taper:    r.float("taper", 0),
				Antiring: r.float("antiring", 0),
			}
			if withTaps {
				cfg.Taps = ptr(r.float("taps", defaultEWATaps))
			}
			if r.err != nil {
				return nil, r.err
			}
			return NewEWA(typ, cfg, r.options()...), nil
		}
	}
	fmtc := func(ctor func(int, ...KernelOption) *Kernel) Factory {
		return func(params Args) (*Kernel, error) {
			r := readParams(params)
			taps := r.int("taps", defaultWindowTaps)
			if r.err != nil {
				return nil, r.err
			}
			return ctor(taps, r.options()...), nil
		}
	}
	windowed := func(ctor func(float64, ...KernelOption) *Kernel) Factory {
		return func(params Args) (*Kernel, error) {
			r := readParams(params)
			taps := r.float("taps", defaultWindowTaps)
			if r.err != nil {
				return nil, r.err
			}
			return ctor(taps, r.options()...), nil
		}
	}

	return map[KernelType]Factory{
		TypePoint:    preset(NewPoint),
		TypeBilinear: preset(NewBilinear),
		TypeLanczos: func(params Args) (*Kernel, error) {
			r := readParams(params)
			taps := r.int("taps", defaultLanczosTaps)
			if r.err != nil {
				return nil, r.err
			}
			return NewLanczos(taps, r.options()...), nil
		},

		TypeBicubic: func(params Args) (*Kernel, error) {
			r := readParams(params)
			b, c := r.float("b", 0), r.float("c", defaultCatromC)
			if r.err != nil {
				return nil, r.err
			}
			return NewBicubic(b, c, r.options()...), nil
		},
		TypeBSpline:             preset(NewBSpline),
		TypeHermite:             preset(NewHermite),
		TypeMitchell:            preset(NewMitchell),
		TypeCatrom:              preset(NewCatrom),
		TypeFFmpegBicubic:       preset(NewFFmpegBicubic),
		TypeAdobeBicubic:        preset(NewAdobeBicubic),
		TypeBicubicSharp:        preset(NewBicubicSharp),
		TypeRobidouxSoft:        preset(NewRobidouxSoft),
		TypeRobidoux:            preset(NewRobidoux),
		TypeRobidouxSharp:       preset(NewRobidouxSharp),
		TypeBicubicDidee:        preset(NewBicubicDidee),
		TypeBicubicZopti:        preset(NewBicubicZopti),
		TypeBicubicZoptiNeutral: preset(NewBicubicZoptiNeutral),
		TypeBicubicAuto: func(params Args) (*Kernel, error) {
			r := readParams(params)
			b, c := r.optFloat("b"), r.optFloat("c")
			target := r.float("target", defaultAutoTarget)
			if r.err != nil {
				return nil, r.err
			}
			return NewBicubicAuto(b, c, target, r.options()...)
		},

		TypeSpline: func(params Args) (*Kernel, error) {
			r := readParams(params)
			taps := r.int("taps", defaultSplineTaps)
			if r.err != nil {
				return nil, r.err
			}
			return NewSpline(taps, r.options()...)
		},
		TypeSpline16:  preset(NewSpline16),
		TypeSpline36:  preset(NewSpline36),
		TypeSpline64:  preset(NewSpline64),
		TypeSpline100: preset(NewSpline100),
		TypeSpline144: preset(NewSpline144),
		TypeSpline196: preset(NewSpline196),
		TypeSpline256: preset(NewSpline256),

		TypeBox:             preset(NewBox),
		TypeBlackMan:        fmtc(NewBlackMan),
		TypeBlackManMinLobe: fmtc(NewBlackManMinLobe),
		TypeSinc:            fmtc(NewSinc),
		TypeGaussian: func(params Args) (*Kernel, error) {
			r := readParams(params)
			sigma := r.float("sigma", defaultGaussianSigma)
			taps := r.int("taps", defaultGaussianTaps)
			curve := r.optFloat("curve")
			if r.err != nil {
				return nil, r.err
			}
			if curve != nil {
				return NewGaussianCurve(*curve, taps, r.options()...)
			}
			return NewGaussian(sigma, taps, r.options()...)
		},

		TypeHann:    windowed(NewHann),
		TypeHamming: windowed(NewHamming),
		TypeCosine:  windowed(NewCosine),
		TypeBohman:  windowed(NewBohman),
		TypeWelch:   preset(NewWelch),
		TypeKaiser: func(params Args) (*Kernel, error) {
			r := readParams(params)
			taps := r.float("taps", defaultWindowTaps)
			beta := r.float("beta", defaultKaiserBeta)
			if r.err != nil {
				return nil, r.err
			}
			return NewKaiser(taps, beta, r.options()...), nil
		},

		TypeEwaJinc:          ewa(TypeEwaJinc, true),
		TypeEwaLanczos:       ewa(TypeEwaLanczos, true),
		TypeEwaGinseng:       ewa(TypeEwaGinseng, true),
		TypeEwaHann:          ewa(TypeEwaHann, true),
		TypeEwaHannSoft:      ewa(TypeEwaHannSoft, true),
		TypeEwaRobidoux:      ewa(TypeEwaRobidoux, false),
		TypeEwaRobidouxSharp: ewa(TypeEwaRobidouxSharp, false),
		TypeEwaBicubic: func(params Args) (*Kernel, error) {
			r := readParams(params)
			b, c := r.float("b", 0), r.float("c", defaultCatromC)
			radius := r.int("radius", r.int("taps", 0))
			if r.err != nil {
				return nil, r.err
			}
			return NewEwaBicubic(b, c, radius, r.options()...), nil
		},
	}
}
