package kernels

import (
	"context"
	"errors"
	"fmt"
	"math"
)

type scaleStrategy interface {
	scaleArgs(k *Kernel, shift Shift, width, height int, extra Args) Args
	scale(ctx context.Context, rt Runtime, k *Kernel, clip Frame, args Args) (Frame, error)
}

type descaleStrategy interface {
	descaleArgs(k *Kernel, shift Shift, width, height int, extra Args) Args
	descale(ctx context.Context, rt Runtime, k *Kernel, clip Frame, width, height int, args Args) (Frame, error)
}

type resampleStrategy interface {
	resampleArgs(k *Kernel, format VideoFormat, matrix, matrixIn Matrix, extra Args) Args
	resample(ctx context.Context, rt Runtime, k *Kernel, clip Frame, args Args) (Frame, error)
}

func shiftArgs(k *Kernel, shift Shift) Args {
	if k.noShift {
		shift = Shift{}
	}
	return Args{"src_top": shift.Top, "src_left": shift.Left}
}

func sizeArgs(width, height int) Args {
	args := Args{}
	if width > 0 {
		args["width"] = width
	}
	if height > 0 {
		args["height"] = height
	}
	return args
}

func formatArgs(format VideoFormat, matrix, matrixIn Matrix) Args {
	args := Args{"format": format}
	if matrix != MatrixUnspecified {
		args["matrix"] = matrix
	}
	if matrixIn != MatrixUnspecified {
		args["matrix_in"] = matrixIn
	}
	return args
}

// descaleError rewrites a runtime dimension failure into a descriptive error.
func descaleError(err error, clip Frame, width, height int) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDimension) {
		return fmt.Errorf("%w: output dimension (%dx%d) must be less than or equal to input dimension (%dx%d)",
			ErrDimension, width, height, clip.Width(), clip.Height())
	}
	return err
}

// resizeStrategy dispatches to the runtime's built-in resizers by filter name.
type resizeStrategy struct {
	filter string

	// descaleAsScale marks filters without an inverse; descaling becomes a
	// plain resize.
	descaleAsScale bool
}

var (
	_ scaleStrategy    = resizeStrategy{}
	_ descaleStrategy  = resizeStrategy{}
	_ resampleStrategy = resizeStrategy{}
)

func (s resizeStrategy) scaleArgs(k *Kernel, shift Shift, width, height int, extra Args) Args {
	return shiftArgs(k, shift).
		Merge(resizeParams.clean(k.args), sizeArgs(width, height), k.familyParams(opScale), extra).
		without("border_handling", "blur", "ignore_mask")
}

func (s resizeStrategy) scale(ctx context.Context, rt Runtime, _ *Kernel, clip Frame, args Args) (Frame, error) {
	return rt.NamedFilter(ctx, clip, s.filter, args)
}

func (s resizeStrategy) descaleArgs(k *Kernel, shift Shift, width, height int, extra Args) Args {
	if s.descaleAsScale {
		return s.scaleArgs(k, shift, width, height, extra)
	}
	return shiftArgs(k, shift).
		Merge(descaleParams.clean(k.args), sizeArgs(width, height), k.familyParams(opDescale), extra)
}

func (s resizeStrategy) descale(ctx context.Context, rt Runtime, _ *Kernel, clip Frame, width, height int, args Args) (Frame, error) {
	if s.descaleAsScale {
		return rt.NamedFilter(ctx, clip, s.filter, args)
	}
	out, err := rt.Descale(ctx, clip, width, height, DescaleFilter{Name: s.filter}, args)
	return out, descaleError(err, clip, width, height)
}

func (s resizeStrategy) resampleArgs(k *Kernel, format VideoFormat, matrix, matrixIn Matrix, extra Args) Args {
	return formatArgs(format, matrix, matrixIn).
		Merge(resizeParams.clean(k.args), k.familyParams(opResample), extra)
}

func (s resizeStrategy) resample(ctx context.Context, rt Runtime, _ *Kernel, clip Frame, args Args) (Frame, error) {
	return rt.NamedFilter(ctx, clip, s.filter, args)
}

// customStrategy hands the kernel function itself to the runtime.
type customStrategy struct{}

var (
	_ scaleStrategy    = customStrategy{}
	_ descaleStrategy  = customStrategy{}
	_ resampleStrategy = customStrategy{}
)

func (customStrategy) scaleArgs(k *Kernel, shift Shift, width, height int, extra Args) Args {
	return shiftArgs(k, shift).
		Merge(customScaleParams.clean(k.args), sizeArgs(width, height), k.familyParams(opScale), extra).
		without("border_handling", "ignore_mask")
}

func (customStrategy) scale(ctx context.Context, rt Runtime, k *Kernel, clip Frame, args Args) (Frame, error) {
	fn, support, rest, err := k.customFunc(args)
	if err != nil {
		return nil, err
	}
	return rt.CustomFilter(ctx, clip, fn, support, rest)
}

func (customStrategy) descaleArgs(k *Kernel, shift Shift, width, height int, extra Args) Args {
	return shiftArgs(k, shift).
		Merge(descaleParams.clean(k.args), sizeArgs(width, height), k.familyParams(opDescale), extra)
}

func (customStrategy) descale(ctx context.Context, rt Runtime, k *Kernel, clip Frame, width, height int, args Args) (Frame, error) {
	fn, support, rest, err := k.customFunc(args)
	if err != nil {
		return nil, err
	}
	out, err := rt.Descale(ctx, clip, width, height, DescaleFilter{Name: k.Name(), Func: fn, Support: support}, rest)
	return out, descaleError(err, clip, width, height)
}

func (customStrategy) resampleArgs(k *Kernel, format VideoFormat, matrix, matrixIn Matrix, extra Args) Args {
	return formatArgs(format, matrix, matrixIn).
		Merge(customScaleParams.clean(k.args), k.familyParams(opResample), extra)
}

func (customStrategy) resample(ctx context.Context, rt Runtime, k *Kernel, clip Frame, args Args) (Frame, error) {
	fn, support, rest, err := k.customFunc(args)
	if err != nil {
		return nil, err
	}
	return rt.CustomFilter(ctx, clip, fn, support, rest)
}

// customFunc consumes the blur and taps arguments and returns the kernel
// function stretched by blur together with its integer support.
func (k *Kernel) customFunc(args Args) (KernelFunc, int, Args, error) {
	rest := args.Clone()

	blur := 1.0
	if v, ok := rest.pop("blur"); ok {
		f, err := toFloat(v)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("blur: %w", err)
		}
		if f <= 0 {
			return nil, 0, nil, fmt.Errorf("%w: blur must be positive, got %v", ErrInvalidConfig, f)
		}
		blur = f
	}

	taps := k.Radius()
	if v, ok := rest.pop("taps"); ok {
		f, err := toFloat(v)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("taps: %w", err)
		}
		taps = int(f)
	}

	support := int(math.Ceil(float64(taps) * blur))
	if blur == 1.0 {
		return k.fn, support, rest, nil
	}
	fn := k.fn
	return func(x float64) float64 { return fn(x / blur) }, support, rest, nil
}

// fmtcStrategy dispatches to the runtime's fmtconv-style named filters.
type fmtcStrategy struct {
	kernel string
}

var (
	_ scaleStrategy   = fmtcStrategy{}
	_ descaleStrategy = fmtcStrategy{}
)

func (s fmtcStrategy) scaleArgs(k *Kernel, shift Shift, width, height int, extra Args) Args {
	if k.noShift {
		shift = Shift{}
	}
	dims := Args{}
	if width > 0 {
		dims["w"] = width
	}
	if height > 0 {
		dims["h"] = height
	}
	return Args{"sx": shift.Left, "sy": shift.Top, "kernel": s.kernel}.
		Merge(fmtcParams.clean(k.args), dims, k.familyParams(opScale), extra)
}

func (s fmtcStrategy) scale(ctx context.Context, rt Runtime, _ *Kernel, clip Frame, args Args) (Frame, error) {
	return rt.NamedFilter(ctx, clip, s.kernel, args)
}

func (s fmtcStrategy) descaleArgs(k *Kernel, shift Shift, width, height int, extra Args) Args {
	return Args{"invks": true, "invkstaps": inverseTaps(k)}.
		Merge(
			s.scaleArgs(k, shift, width, height, extra),
			Args{"w": width, "h": height, "sw": width, "sh": height},
			extra,
		)
}

// inverseTaps is the kernel's configured tap count, falling back to its
// support for kernels constructed without one.
func inverseTaps(k *Kernel) int {
	if taps, ok := k.args["taps"].(int); ok && taps > 0 {
		return taps
	}
	return int(math.Ceil(k.Support()))
}

func (s fmtcStrategy) descale(ctx context.Context, rt Runtime, _ *Kernel, clip Frame, width, height int, args Args) (Frame, error) {
	out, err := rt.Descale(ctx, clip, width, height, DescaleFilter{Name: s.kernel}, args)
	return out, descaleError(err, clip, width, height)
}

// placeboStrategy dispatches to the runtime's EWA (libplacebo) resampler.
type placeboStrategy struct {
	filter string
}

var _ scaleStrategy = placeboStrategy{}

func (s placeboStrategy) scaleArgs(k *Kernel, shift Shift, width, height int, extra Args) Args {
	if k.noShift {
		shift = Shift{}
	}
	return Args{"sx": shift.Left, "sy": shift.Top}.
		Merge(placeboParams.clean(k.args), sizeArgs(width, height), k.familyParams(opScale), extra)
}

func (s placeboStrategy) scale(ctx context.Context, rt Runtime, _ *Kernel, clip Frame, args Args) (Frame, error) {
	return rt.NamedFilter(ctx, clip, s.filter, args)
}
