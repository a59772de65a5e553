package imagert

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/xsync"
	"gonum.org/v1/gonum/mat"

	kernels "github.com/tphakala/go-video-kernels"
	"github.com/tphakala/go-video-kernels/internal/filter"
)

// Runtime executes kernel requests on Clips. The zero value is ready to use
// and safe for concurrent use.
type Runtime struct {
	weightCache xsync.Map[weightKey, *mat.Dense]
}

var _ kernels.Runtime = (*Runtime)(nil)

// New returns a Runtime.
func New() *Runtime {
	return &Runtime{}
}

func asClip(f kernels.Frame) (*Clip, error) {
	c, ok := f.(*Clip)
	if !ok || c == nil {
		return nil, fmt.Errorf("%w: frame %T was not created by this runtime", kernels.ErrInvalidConfig, f)
	}
	return c, nil
}

// NamedFilter resizes with a built-in filter, then converts format, matrix
// and transfer. Subsampled targets whose size does not fit the source's
// subsampling are converted before resizing.
func (r *Runtime) NamedFilter(
	ctx context.Context,
	src kernels.Frame,
	name string,
	args kernels.Args,
) (_ kernels.Frame, _err error) {
	logger.Tracef(ctx, "NamedFilter(%s)", name)
	defer func() { logger.Tracef(ctx, "/NamedFilter(%s): %v", name, _err) }()

	c, err := asClip(src)
	if err != nil {
		return nil, err
	}
	k, err := namedKernel(name, args)
	if err != nil {
		return nil, err
	}
	return r.resample(ctx, c, k, args)
}

// CustomFilter resizes with fn, which is zero outside [-support, support].
func (r *Runtime) CustomFilter(
	ctx context.Context,
	src kernels.Frame,
	fn kernels.KernelFunc,
	support int,
	args kernels.Args,
) (_ kernels.Frame, _err error) {
	logger.Tracef(ctx, "CustomFilter(support=%d)", support)
	defer func() { logger.Tracef(ctx, "/CustomFilter(support=%d): %v", support, _err) }()

	c, err := asClip(src)
	if err != nil {
		return nil, err
	}
	if fn == nil || support < 0 {
		return nil, fmt.Errorf("%w: custom filter needs a function and a non-negative support", kernels.ErrInvalidConfig)
	}
	return r.resample(ctx, c, resizeKernel{fn: filter.KernelFunc(fn), support: float64(support)}, args)
}

func (r *Runtime) resample(ctx context.Context, c *Clip, k resizeKernel, args kernels.Args) (*Clip, error) {
	g := parseGeometry(c, args)
	conv, err := parseConversion(c, args)
	if err != nil {
		return nil, err
	}

	resize := func(c *Clip) (*Clip, error) {
		if g.identity(c) && !k.radial {
			return c, nil
		}
		logger.Debugf(ctx, "resizing %dx%d -> %dx%d", c.width, c.height, g.width, g.height)
		return r.resizeClip(c, g, k, filter.EdgeMirror)
	}

	if kernels.CheckSubsampling(c.format, g.width, g.height) != nil {
		converted, err := r.convert(c, conv, k)
		if err != nil {
			return nil, err
		}
		return resize(converted)
	}

	resized, err := resize(c)
	if err != nil {
		return nil, err
	}
	return r.convert(resized, conv, k)
}

// Descale finds the width x height clip whose upscale with the filter best
// matches src in the least-squares sense.
func (r *Runtime) Descale(
	ctx context.Context,
	src kernels.Frame,
	width, height int,
	f kernels.DescaleFilter,
	args kernels.Args,
) (_ kernels.Frame, _err error) {
	logger.Tracef(ctx, "Descale(%dx%d)", width, height)
	defer func() { logger.Tracef(ctx, "/Descale(%dx%d): %v", width, height, _err) }()

	c, err := asClip(src)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || width > c.width || height > c.height {
		return nil, fmt.Errorf("%w: cannot descale %dx%d to %dx%d", kernels.ErrDimension, c.width, c.height, width, height)
	}
	if err := kernels.CheckSubsampling(c.format, width, height); err != nil {
		return nil, err
	}
	k, err := descaleKernel(f, args)
	if err != nil {
		return nil, err
	}
	edge, err := edgeArg(args)
	if err != nil {
		return nil, err
	}

	g := parseGeometry(c, args)
	out := c.derive(width, height, c.format)
	for n, pic := range c.Frames {
		dst := make(Picture, len(pic))
		for i, p := range pic {
			w, h := out.PlaneSize(i)
			x, y := g.x, g.y
			if isChroma(c.format, i) {
				x, y = x.subsampled(c.format.SubsamplingW), y.subsampled(c.format.SubsamplingH)
			}
			plane, err := r.descalePlane(ctx, p, w, h, k, x, y, edge)
			if err != nil {
				return nil, err
			}
			dst[i] = plane
		}
		out.Frames[n] = dst
	}
	return out, nil
}

// descalePlane solves A_v X A_hᵀ = P for X, one dimension at a time.
func (r *Runtime) descalePlane(
	ctx context.Context,
	p Plane,
	width, height int,
	k resizeKernel,
	x, y axis,
	edge filter.Edge,
) (Plane, error) {
	ah, err := r.weights(k, width, p.Width, x, edge)
	if err != nil {
		return Plane{}, err
	}
	av, err := r.weights(k, height, p.Height, y, edge)
	if err != nil {
		return Plane{}, err
	}

	var cols mat.Dense
	if err := solve(ctx, &cols, ah, p.dense().T()); err != nil {
		return Plane{}, err
	}
	var out mat.Dense
	if err := solve(ctx, &out, av, cols.T()); err != nil {
		return Plane{}, err
	}
	return planeFromDense(&out), nil
}

func solve(ctx context.Context, dst *mat.Dense, a, b mat.Matrix) error {
	err := dst.Solve(a, b)
	var cond mat.Condition
	if errors.As(err, &cond) {
		logger.Warnf(ctx, "descale is ill-conditioned (condition number %g)", float64(cond))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", kernels.ErrDimension, err)
	}
	return nil
}

func edgeArg(args kernels.Args) (filter.Edge, error) {
	mode, ok := args.Int("border_handling")
	if !ok {
		return filter.EdgeMirror, nil
	}
	switch kernels.BorderHandling(mode) {
	case kernels.BorderMirror:
		return filter.EdgeMirror, nil
	case kernels.BorderZero:
		return filter.EdgeZero, nil
	case kernels.BorderRepeat:
		return filter.EdgeRepeat, nil
	default:
		return 0, fmt.Errorf("%w: border handling %d", kernels.ErrInvalidConfig, mode)
	}
}

// SeparateFields splits every frame into two half-height fields, the first
// one first.
func (r *Runtime) SeparateFields(ctx context.Context, src kernels.Frame, topFirst bool) (_ kernels.Frame, _err error) {
	logger.Tracef(ctx, "SeparateFields(tff=%t)", topFirst)
	defer func() { logger.Tracef(ctx, "/SeparateFields(tff=%t): %v", topFirst, _err) }()

	c, err := asClip(src)
	if err != nil {
		return nil, err
	}
	if c.height%(2<<c.format.SubsamplingH) != 0 {
		return nil, fmt.Errorf("%w: height %d cannot be split into fields of %s", kernels.ErrDimension, c.height, c.format)
	}

	out := c.derive(c.width, c.height/2, c.format)
	out.props.FieldOrder = kernels.FieldProgressive
	out.Frames = make([]Picture, 0, 2*len(c.Frames))
	first, second := 1, 0
	if topFirst {
		first, second = 0, 1
	}
	for _, pic := range c.Frames {
		out.Frames = append(out.Frames, fieldOf(pic, first), fieldOf(pic, second))
	}
	return out, nil
}

// fieldOf returns the rows of pic with the given parity.
func fieldOf(pic Picture, parity int) Picture {
	out := make(Picture, len(pic))
	for i, p := range pic {
		field := NewPlane(p.Width, p.Height/2)
		for y := range field.Height {
			copy(field.Row(y), p.Row(2*y+parity))
		}
		out[i] = field
	}
	return out
}

// WeaveFields pairs every field with its successor; the last field pairs
// with its predecessor. Even fields are top fields when topFirst.
func (r *Runtime) WeaveFields(ctx context.Context, src kernels.Frame, topFirst bool) (_ kernels.Frame, _err error) {
	logger.Tracef(ctx, "WeaveFields(tff=%t)", topFirst)
	defer func() { logger.Tracef(ctx, "/WeaveFields(tff=%t): %v", topFirst, _err) }()

	c, err := asClip(src)
	if err != nil {
		return nil, err
	}
	n := len(c.Frames)
	if n < 2 {
		return nil, fmt.Errorf("%w: weaving needs at least two fields, got %d", kernels.ErrInvalidConfig, n)
	}

	isTop := func(i int) bool { return (i%2 == 0) == topFirst }
	out := c.derive(c.width, 2*c.height, c.format)
	for k := range n {
		a, b := k, k+1
		if b == n {
			a, b = k-1, k
		}
		top, bottom := c.Frames[a], c.Frames[b]
		if !isTop(a) {
			top, bottom = bottom, top
		}
		out.Frames[k] = weave(top, bottom)
	}
	order := kernels.FieldBottomFirst
	if topFirst {
		order = kernels.FieldTopFirst
	}
	out.props.FieldOrder = order
	return out, nil
}

func weave(top, bottom Picture) Picture {
	out := make(Picture, len(top))
	for i := range top {
		t, b := top[i], bottom[i]
		frame := NewPlane(t.Width, 2*t.Height)
		for y := range t.Height {
			copy(frame.Row(2*y), t.Row(y))
			copy(frame.Row(2*y+1), b.Row(y))
		}
		out[i] = frame
	}
	return out
}

// Interleave alternates the frames of clips of identical geometry and length.
func (r *Runtime) Interleave(ctx context.Context, clips ...kernels.Frame) (_ kernels.Frame, _err error) {
	logger.Tracef(ctx, "Interleave(%d)", len(clips))
	defer func() { logger.Tracef(ctx, "/Interleave(%d): %v", len(clips), _err) }()

	if len(clips) == 0 {
		return nil, fmt.Errorf("%w: nothing to interleave", kernels.ErrInvalidConfig)
	}
	cs := make([]*Clip, len(clips))
	for i, f := range clips {
		c, err := asClip(f)
		if err != nil {
			return nil, err
		}
		if i > 0 && (c.width != cs[0].width || c.height != cs[0].height ||
			c.format != cs[0].format || len(c.Frames) != len(cs[0].Frames)) {
			return nil, fmt.Errorf("%w: interleaved clips differ", kernels.ErrDimension)
		}
		cs[i] = c
	}

	out := cs[0].derive(cs[0].width, cs[0].height, cs[0].format)
	out.Frames = make([]Picture, 0, len(cs)*len(cs[0].Frames))
	for n := range cs[0].Frames {
		for _, c := range cs {
			out.Frames = append(out.Frames, c.Frames[n])
		}
	}
	return out, nil
}

// SelectEvery keeps the frames at offsets of every cycle.
func (r *Runtime) SelectEvery(ctx context.Context, src kernels.Frame, cycle int, offsets ...int) (_ kernels.Frame, _err error) {
	logger.Tracef(ctx, "SelectEvery(%d, %v)", cycle, offsets)
	defer func() { logger.Tracef(ctx, "/SelectEvery(%d, %v): %v", cycle, offsets, _err) }()

	c, err := asClip(src)
	if err != nil {
		return nil, err
	}
	if cycle < 1 || len(offsets) == 0 {
		return nil, fmt.Errorf("%w: select every %d at %v", kernels.ErrInvalidConfig, cycle, offsets)
	}
	for _, o := range offsets {
		if o < 0 || o >= cycle {
			return nil, fmt.Errorf("%w: offset %d outside cycle %d", kernels.ErrInvalidConfig, o, cycle)
		}
	}

	out := c.derive(c.width, c.height, c.format)
	out.Frames = nil
	for base := 0; base < len(c.Frames); base += cycle {
		for _, o := range offsets {
			if base+o < len(c.Frames) {
				out.Frames = append(out.Frames, c.Frames[base+o])
			}
		}
	}
	if len(out.Frames) == 0 {
		return nil, fmt.Errorf("%w: selection is empty", kernels.ErrDimension)
	}
	return out, nil
}

// SetProps replaces the clip properties.
func (r *Runtime) SetProps(_ context.Context, src kernels.Frame, props kernels.Props) (kernels.Frame, error) {
	c, err := asClip(src)
	if err != nil {
		return nil, err
	}
	return c.WithProps(props), nil
}

// SplitPlanes returns one gray clip per plane.
func (r *Runtime) SplitPlanes(ctx context.Context, src kernels.Frame) (_ []kernels.Frame, _err error) {
	logger.Tracef(ctx, "SplitPlanes")
	defer func() { logger.Tracef(ctx, "/SplitPlanes: %v", _err) }()

	c, err := asClip(src)
	if err != nil {
		return nil, err
	}
	gray := kernels.VideoFormat{Family: kernels.ColorFamilyGray, Sample: c.format.Sample, Bits: c.format.Bits}
	out := make([]kernels.Frame, c.format.NumPlanes())
	for i := range out {
		w, h := c.PlaneSize(i)
		plane := c.derive(w, h, gray)
		for n, pic := range c.Frames {
			plane.Frames[n] = Picture{pic[i]}
		}
		out[i] = plane
	}
	return out, nil
}

// MergePlanes combines gray clips into a clip of family. Chroma
// subsampling is derived from the plane sizes.
func (r *Runtime) MergePlanes(
	ctx context.Context,
	planes []kernels.Frame,
	family kernels.ColorFamily,
) (_ kernels.Frame, _err error) {
	logger.Tracef(ctx, "MergePlanes(%s)", family)
	defer func() { logger.Tracef(ctx, "/MergePlanes(%s): %v", family, _err) }()

	cs := make([]*Clip, len(planes))
	for i, f := range planes {
		c, err := asClip(f)
		if err != nil {
			return nil, err
		}
		if c.format.NumPlanes() != 1 {
			return nil, fmt.Errorf("%w: plane %d has %d planes", kernels.ErrInvalidConfig, i, c.format.NumPlanes())
		}
		cs[i] = c
	}

	format := kernels.VideoFormat{Family: family}
	if len(cs) != format.NumPlanes() {
		return nil, fmt.Errorf("%w: %s needs %d planes, got %d", kernels.ErrInvalidConfig, family, format.NumPlanes(), len(cs))
	}
	luma := cs[0]
	format.Sample, format.Bits = luma.format.Sample, luma.format.Bits

	if len(cs) > 1 {
		ssW, okW := subsampling(luma.width, cs[1].width)
		ssH, okH := subsampling(luma.height, cs[1].height)
		if !okW || !okH || (family != kernels.ColorFamilyYUV && (ssW != 0 || ssH != 0)) {
			return nil, fmt.Errorf("%w: plane sizes %dx%d and %dx%d do not form %s",
				kernels.ErrDimension, luma.width, luma.height, cs[1].width, cs[1].height, family)
		}
		format.SubsamplingW, format.SubsamplingH = ssW, ssH
	}

	out := luma.derive(luma.width, luma.height, format)
	for i, c := range cs {
		w, h := out.PlaneSize(i)
		if c.width != w || c.height != h || len(c.Frames) != len(luma.Frames) {
			return nil, fmt.Errorf("%w: plane %d is %dx%d with %d frames", kernels.ErrDimension, i, c.width, c.height, len(c.Frames))
		}
	}
	for n := range out.Frames {
		pic := make(Picture, len(cs))
		for i, c := range cs {
			pic[i] = c.Frames[n][0]
		}
		out.Frames[n] = pic
	}
	return out, nil
}

// subsampling returns log2(full/sub) when it is an exact power of two.
func subsampling(full, sub int) (int, bool) {
	if sub <= 0 || full%sub != 0 {
		return 0, false
	}
	ratio := uint(full / sub)
	if ratio&(ratio-1) != 0 {
		return 0, false
	}
	return bits.TrailingZeros(ratio), true
}

// Pad extends every plane; chroma padding is scaled by the subsampling.
func (r *Runtime) Pad(
	ctx context.Context,
	src kernels.Frame,
	pad kernels.Padding,
	mode kernels.BorderHandling,
) (_ kernels.Frame, _err error) {
	logger.Tracef(ctx, "Pad(%+v, %s)", pad, mode)
	defer func() { logger.Tracef(ctx, "/Pad(%+v, %s): %v", pad, mode, _err) }()

	c, err := asClip(src)
	if err != nil {
		return nil, err
	}
	if pad.Left < 0 || pad.Right < 0 || pad.Top < 0 || pad.Bottom < 0 {
		return nil, fmt.Errorf("%w: negative padding %+v", kernels.ErrInvalidConfig, pad)
	}
	width, height := c.width+pad.Left+pad.Right, c.height+pad.Top+pad.Bottom
	if err := kernels.CheckSubsampling(c.format, pad.Left, pad.Top); err != nil {
		return nil, err
	}
	if err := kernels.CheckSubsampling(c.format, width, height); err != nil {
		return nil, err
	}
	edge, err := edgeArg(kernels.Args{"border_handling": int(mode)})
	if err != nil {
		return nil, err
	}

	out := c.derive(width, height, c.format)
	for n, pic := range c.Frames {
		dst := make(Picture, len(pic))
		for i, p := range pic {
			left, top := pad.Left, pad.Top
			if isChroma(c.format, i) {
				left >>= c.format.SubsamplingW
				top >>= c.format.SubsamplingH
			}
			w, h := out.PlaneSize(i)
			dst[i] = padPlane(p, w, h, left, top, edge)
		}
		out.Frames[n] = dst
	}
	return out, nil
}

func padPlane(p Plane, width, height, left, top int, edge filter.Edge) Plane {
	out := NewPlane(width, height)
	for y := range height {
		sy, ok := edge.Fold(y-top, p.Height)
		if !ok {
			continue
		}
		src, dst := p.Row(sy), out.Row(y)
		for x := range width {
			if sx, ok := edge.Fold(x-left, p.Width); ok {
				dst[x] = src[sx]
			}
		}
	}
	return out
}

// PointTransform applies fn to every sample of every plane.
func (r *Runtime) PointTransform(ctx context.Context, src kernels.Frame, fn kernels.PixelFunc) (_ kernels.Frame, _err error) {
	logger.Tracef(ctx, "PointTransform")
	defer func() { logger.Tracef(ctx, "/PointTransform: %v", _err) }()

	c, err := asClip(src)
	if err != nil {
		return nil, err
	}
	return c.mapPictures(c.format, func(pic Picture) Picture {
		out := pic.clone()
		for _, p := range out {
			for i, v := range p.Data {
				p.Data[i] = fn(v)
			}
		}
		return out
	}), nil
}
