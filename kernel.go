package kernels

import (
	"context"
	"fmt"
	"math"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Shift is a sub-pixel source offset, in source pixels.
type Shift struct {
	Top  float64
	Left float64
}

type operation int

const (
	opScale operation = iota
	opDescale
	opResample
	opShift
)

// feature flags the request pipeline stages a kernel family supports.
type feature uint8

const (
	featureLinear feature = 1 << iota
	featureFraming        // aspect ratio crop, sample grid, border handling
	featureFields

	featuresComplex = featureLinear | featureFraming | featureFields
)

func (f feature) has(x feature) bool { return f&x == x }

// Kernel is a resampling kernel descriptor. It evaluates its continuous
// kernel function and builds the requests its family dispatches to the
// runtime. A Kernel is immutable after construction.
type Kernel struct {
	typ     KernelType
	fn      KernelFunc
	radius  func() int
	support float64

	// args are the kernel's own runtime parameters. Each request keeps only
	// the ones its runtime call accepts.
	args Args

	// params returns the family-specific request parameters.
	params func(op operation) Args

	scaler    scaleStrategy
	descaler  descaleStrategy
	resampler resampleStrategy

	features feature
	defaults []Option

	noShift bool
	noScale bool
}

// KernelOption configures a kernel at construction.
type KernelOption func(*Kernel)

// WithKernelArgs adds runtime parameters forwarded with every request that
// accepts them.
func WithKernelArgs(args Args) KernelOption {
	return func(k *Kernel) {
		k.args = k.args.Merge(args)
	}
}

func newKernel(typ KernelType, fn KernelFunc, support float64, radius func() int) *Kernel {
	return &Kernel{
		typ:     typ,
		fn:      fn,
		radius:  radius,
		support: support,
		args:    Args{},
	}
}

func (k *Kernel) apply(opts []KernelOption) *Kernel {
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func constRadius(r int) func() int {
	return func() int { return r }
}

func ceilRadius(taps float64) func() int {
	r := int(math.Ceil(taps))
	return func() int { return r }
}

// Type returns the registered type of the kernel.
func (k *Kernel) Type() KernelType { return k.typ }

// Name returns the kernel type name.
func (k *Kernel) Name() string { return string(k.typ) }

func (k *Kernel) String() string { return k.Name() }

// At evaluates the kernel function at x.
func (k *Kernel) At(x float64) float64 { return k.fn(x) }

// Func returns the kernel function.
func (k *Kernel) Func() KernelFunc { return k.fn }

// Radius returns the integer support radius. The kernel is zero for |x| >= Radius.
func (k *Kernel) Radius() int { return k.radius() }

// Support returns the exact support of the kernel, which may be fractional.
func (k *Kernel) Support() float64 {
	if k.support > 0 {
		return k.support
	}
	return float64(k.Radius())
}

// Args returns a copy of the kernel's own runtime parameters.
func (k *Kernel) Args() Args { return k.args.Clone() }

// CanScale reports whether the kernel can build scale and shift requests.
func (k *Kernel) CanScale() bool { return k.scaler != nil }

// CanDescale reports whether the kernel can build descale requests.
func (k *Kernel) CanDescale() bool { return k.descaler != nil }

// CanResample reports whether the kernel can build format conversion requests.
func (k *Kernel) CanResample() bool { return k.resampler != nil }

func (k *Kernel) familyParams(op operation) Args {
	if k.params == nil {
		return nil
	}
	return k.params(op)
}

func (k *Kernel) clone() *Kernel {
	c := *k
	c.args = k.args.Clone()
	c.defaults = append([]Option(nil), k.defaults...)
	return &c
}

func (k *Kernel) unsupported(op string) error {
	return fmt.Errorf("%w: %s cannot %s", ErrNotSupported, k.Name(), op)
}

// ScaleArgs returns the runtime arguments of a scale request without
// running any of the request pipeline stages.
func (k *Kernel) ScaleArgs(shift Shift, width, height int, extra Args) (Args, error) {
	if k.scaler == nil {
		return nil, k.unsupported("scale")
	}
	return k.scaler.scaleArgs(k, shift, width, height, extra), nil
}

// DescaleArgs returns the runtime arguments of a descale request.
func (k *Kernel) DescaleArgs(shift Shift, width, height int, extra Args) (Args, error) {
	if k.descaler == nil {
		return nil, k.unsupported("descale")
	}
	return k.descaler.descaleArgs(k, shift, width, height, extra), nil
}

// ResampleArgs returns the runtime arguments of a format conversion request.
func (k *Kernel) ResampleArgs(format VideoFormat, matrix, matrixIn Matrix, extra Args) (Args, error) {
	if k.resampler == nil {
		return nil, k.unsupported("resample")
	}
	return k.resampler.resampleArgs(k, format, matrix, matrixIn, extra), nil
}

// Scale resizes clip to width x height, sampling the source at the given
// shift. Zero dimensions keep the input size.
func (k *Kernel) Scale(
	ctx context.Context,
	rt Runtime,
	clip Frame,
	width, height int,
	shift Shift,
	opts ...Option,
) (_ Frame, _err error) {
	logger.Tracef(ctx, "Scale[%s](%dx%d -> %dx%d, %v)", k, clip.Width(), clip.Height(), width, height, shift)
	defer func() { logger.Tracef(ctx, "/Scale[%s]: %v", k, _err) }()

	if k.scaler == nil {
		return nil, k.unsupported("scale")
	}
	cfg, err := k.newRequest(opScale, opts)
	if err != nil {
		return nil, err
	}

	width, height = normalizeSize(clip, width, height)
	if k.noScale {
		out, err := k.scale(ctx, rt, clip, clip.Width(), clip.Height(), shift, cfg)
		if err != nil {
			logger.Debugf(ctx, "%s: keeping the input: %v", k, err)
			return clip, nil
		}
		return out, nil
	}
	return k.scale(ctx, rt, clip, width, height, shift, cfg)
}

// Descale inverts an upscale of clip from width x height. Field-based input
// is descaled per field.
func (k *Kernel) Descale(
	ctx context.Context,
	rt Runtime,
	clip Frame,
	width, height int,
	shift Shift,
	opts ...Option,
) (_ Frame, _err error) {
	logger.Tracef(ctx, "Descale[%s](%dx%d -> %dx%d, %v)", k, clip.Width(), clip.Height(), width, height, shift)
	defer func() { logger.Tracef(ctx, "/Descale[%s]: %v", k, _err) }()

	if k.descaler == nil {
		return nil, k.unsupported("descale")
	}
	cfg, err := k.newRequest(opDescale, opts)
	if err != nil {
		return nil, err
	}

	width, height = normalizeSize(clip, width, height)
	return k.descale(ctx, rt, clip, width, height, shift, cfg)
}

// Resample converts clip to format, optionally converting between matrices.
func (k *Kernel) Resample(
	ctx context.Context,
	rt Runtime,
	clip Frame,
	format VideoFormat,
	matrix, matrixIn Matrix,
	opts ...Option,
) (_ Frame, _err error) {
	logger.Tracef(ctx, "Resample[%s](%s -> %s)", k, clip.Format(), format)
	defer func() { logger.Tracef(ctx, "/Resample[%s]: %v", k, _err) }()

	if k.resampler == nil {
		return nil, k.unsupported("resample")
	}
	cfg, err := k.newRequest(opResample, opts)
	if err != nil {
		return nil, err
	}

	args := k.resampler.resampleArgs(k, format, matrix, matrixIn, cfg.args)
	logger.Debugf(ctx, "%s resample args: %v", k, args)
	return k.resampler.resample(ctx, rt, k, clip, args)
}

// Shift moves every plane of clip by the same sub-pixel offset.
func (k *Kernel) Shift(ctx context.Context, rt Runtime, clip Frame, shift Shift, opts ...Option) (_ Frame, _err error) {
	logger.Tracef(ctx, "Shift[%s](%v)", k, shift)
	defer func() { logger.Tracef(ctx, "/Shift[%s]: %v", k, _err) }()

	if k.scaler == nil {
		return nil, k.unsupported("shift")
	}
	cfg, err := k.newRequest(opShift, opts)
	if err != nil {
		return nil, err
	}
	return k.shift(ctx, rt, clip, shift, cfg)
}

// ShiftPlanes shifts each plane by its own offset. Offset lists shorter than
// the plane count repeat their last value, longer ones are truncated and
// empty ones mean no shift. Uniform offsets collapse into a single request.
func (k *Kernel) ShiftPlanes(
	ctx context.Context,
	rt Runtime,
	clip Frame,
	tops, lefts []float64,
	opts ...Option,
) (_ Frame, _err error) {
	logger.Tracef(ctx, "ShiftPlanes[%s](%v, %v)", k, tops, lefts)
	defer func() { logger.Tracef(ctx, "/ShiftPlanes[%s]: %v", k, _err) }()

	if k.scaler == nil {
		return nil, k.unsupported("shift")
	}
	cfg, err := k.newRequest(opShift, opts)
	if err != nil {
		return nil, err
	}

	n := clip.Format().NumPlanes()
	tops = broadcastShifts(tops, n)
	lefts = broadcastShifts(lefts, n)

	if n == 1 || (uniform(tops) && uniform(lefts)) {
		return k.shift(ctx, rt, clip, Shift{Top: tops[0], Left: lefts[0]}, cfg)
	}

	planes, err := rt.SplitPlanes(ctx, clip)
	if err != nil {
		return nil, fmt.Errorf("unable to split planes: %w", err)
	}
	for i, plane := range planes {
		if tops[i] == 0 && lefts[i] == 0 {
			continue
		}
		planes[i], err = k.shift(ctx, rt, plane, Shift{Top: tops[i], Left: lefts[i]}, cfg)
		if err != nil {
			return nil, fmt.Errorf("unable to shift plane %d: %w", i, err)
		}
	}
	return rt.MergePlanes(ctx, planes, clip.Format().Family)
}

func (k *Kernel) shift(ctx context.Context, rt Runtime, clip Frame, shift Shift, cfg *requestConfig) (Frame, error) {
	args := k.scaler.scaleArgs(k, shift, 0, 0, cfg.args)
	logger.Debugf(ctx, "%s shift args: %v", k, args)
	return k.scaler.scale(ctx, rt, k, clip, args)
}

// broadcastShifts fits a per-plane offset list to n planes.
func broadcastShifts(values []float64, n int) []float64 {
	out := make([]float64, n)
	if len(values) == 0 {
		return out
	}
	for i := range out {
		if i < len(values) {
			out[i] = values[i]
		} else {
			out[i] = values[len(values)-1]
		}
	}
	return out
}

func uniform(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func normalizeSize(clip Frame, width, height int) (int, int) {
	if width <= 0 {
		width = clip.Width()
	}
	if height <= 0 {
		height = clip.Height()
	}
	return width, height
}
