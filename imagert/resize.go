package imagert

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	kernels "github.com/tphakala/go-video-kernels"
	"github.com/tphakala/go-video-kernels/internal/filter"
)

// resizeKernel is a kernel resolved for one runtime call.
type resizeKernel struct {
	// id identifies the kernel in the weight cache. Empty disables caching.
	id      string
	fn      filter.KernelFunc
	support float64

	// radial kernels are applied on the distance to the sample instead of
	// separably.
	radial bool
}

var pointKernel = resizeKernel{id: "point"}

func fromKernel(k *kernels.Kernel, id string) resizeKernel {
	return resizeKernel{id: id, fn: filter.KernelFunc(k.Func()), support: k.Support()}
}

// blurred stretches the kernel by blur.
func (k resizeKernel) blurred(blur float64) resizeKernel {
	if blur <= 0 || blur == 1 || k.support == 0 {
		return k
	}
	fn := k.fn
	k.fn = func(x float64) float64 { return fn(x / blur) }
	k.support *= blur
	if k.id != "" {
		k.id = fmt.Sprintf("%s*%g", k.id, blur)
	}
	return k
}

// fmtcKernels maps fmtconv kernel names to kernel types.
var fmtcKernels = map[string]kernels.KernelType{
	"box":             kernels.TypeBox,
	"blackman":        kernels.TypeBlackMan,
	"blackmanminlobe": kernels.TypeBlackManMinLobe,
	"sinc":            kernels.TypeSinc,
	"gaussian":        kernels.TypeGaussian,
}

// ewaKernels maps libplacebo filter names to kernel types.
var ewaKernels = map[string]kernels.KernelType{
	"ewa_lanczos":       kernels.TypeEwaLanczos,
	"ewa_jinc":          kernels.TypeEwaJinc,
	"ewa_ginseng":       kernels.TypeEwaGinseng,
	"ewa_hann":          kernels.TypeEwaHann,
	"haasnsoft":         kernels.TypeEwaHannSoft,
	"ewa_robidoux":      kernels.TypeEwaRobidoux,
	"ewa_robidouxsharp": kernels.TypeEwaRobidouxSharp,
}

// namedKernel resolves a built-in filter name and the arguments that
// parametrise it.
func namedKernel(name string, args kernels.Args) (resizeKernel, error) {
	switch name {
	case "point":
		return pointKernel, nil
	case "bilinear":
		return fromKernel(kernels.NewBilinear(), name), nil
	case "bicubic":
		b := firstFloat(args, 0, "filter_param_a", "b")
		c := firstFloat(args, 0.5, "filter_param_b", "c")
		return fromKernel(kernels.NewBicubic(b, c), fmt.Sprintf("bicubic(%g,%g)", b, c)), nil
	case "lanczos":
		taps := int(firstFloat(args, 3, "filter_param_a", "taps"))
		if taps < 1 {
			return resizeKernel{}, fmt.Errorf("%w: lanczos taps must be at least 1, got %d", kernels.ErrInvalidConfig, taps)
		}
		return fromKernel(kernels.NewLanczos(taps), fmt.Sprintf("lanczos(%d)", taps)), nil
	}

	if typ, ok := fmtcKernels[name]; ok {
		params := kernels.Args{}
		if taps, ok := args.Float("taps"); ok {
			params["taps"] = taps
		}
		if curve, ok := args.Float("a1"); ok && typ == kernels.TypeGaussian {
			params["curve"] = curve
		}
		k, err := kernels.NewKernel(typ, params)
		if err != nil {
			return resizeKernel{}, err
		}
		return fromKernel(k, fmt.Sprintf("%s%v", name, params)), nil
	}

	if _, ok := ewaKernels[name]; ok {
		return ewaKernel(name, args)
	}
	return resizeKernel{}, fmt.Errorf("%w: unknown filter %q", kernels.ErrNotSupported, name)
}

func ewaKernel(name string, args kernels.Args) (resizeKernel, error) {
	typ := ewaKernels[name]
	params := kernels.Args{}
	if radius, ok := args.Float("radius"); ok {
		params["taps"] = radius
	}
	b, hasB := args.Float("param1")
	c, hasC := args.Float("param2")
	if name == "ewa_robidoux" && (hasB || hasC) {
		typ = kernels.TypeEwaBicubic
	}
	if hasB {
		params["b"] = b
	}
	if hasC {
		params["c"] = c
	}

	k, err := kernels.NewKernel(typ, params)
	if err != nil {
		return resizeKernel{}, err
	}
	rk := fromKernel(k, fmt.Sprintf("%s%v", name, params))
	rk.radial = true
	return rk.blurred(firstFloat(args, 0, "blur")), nil
}

// descaleKernel resolves the kernel of a descale request.
func descaleKernel(f kernels.DescaleFilter, args kernels.Args) (resizeKernel, error) {
	if f.Func != nil {
		return resizeKernel{fn: filter.KernelFunc(f.Func), support: float64(f.Support)}, nil
	}
	k, err := namedKernel(f.Name, args)
	if err != nil {
		return resizeKernel{}, err
	}
	if k.radial {
		return resizeKernel{}, fmt.Errorf("%w: %s cannot descale", kernels.ErrNotSupported, f.Name)
	}
	return k, nil
}

func firstFloat(args kernels.Args, def float64, keys ...string) float64 {
	for _, key := range keys {
		if v, ok := args.Float(key); ok {
			return v
		}
	}
	return def
}

// axis is the source window of one dimension. A zero window is the whole
// source.
type axis struct {
	offset float64
	window float64
}

func (a axis) identity(src, dst int) bool {
	return src == dst && a.offset == 0 && (a.window == 0 || a.window == float64(src))
}

// subsampled maps the axis onto a plane subsampled by 2^ss.
func (a axis) subsampled(ss int) axis {
	if ss == 0 {
		return a
	}
	f := float64(int(1) << ss)
	return axis{offset: a.offset / f, window: a.window / f}
}

// geometry is the target size and source window of a resize request.
type geometry struct {
	width, height int
	x, y          axis
}

// parseGeometry reads the target size and source window, accepting both the
// resize and the fmtconv argument names.
func parseGeometry(c *Clip, args kernels.Args) geometry {
	g := geometry{
		width:  int(firstFloat(args, float64(c.width), "width", "w")),
		height: int(firstFloat(args, float64(c.height), "height", "h")),
		x:      axis{offset: firstFloat(args, 0, "src_left", "sx"), window: firstFloat(args, 0, "src_width", "sw")},
		y:      axis{offset: firstFloat(args, 0, "src_top", "sy"), window: firstFloat(args, 0, "src_height", "sh")},
	}
	g.x.window = math.Max(g.x.window, 0)
	g.y.window = math.Max(g.y.window, 0)
	return g
}

func (g geometry) identity(c *Clip) bool {
	return g.x.identity(c.width, g.width) && g.y.identity(c.height, g.height)
}

type weightKey struct {
	id       string
	src, dst int
	offset   float64
	window   float64
	edge     filter.Edge
}

// weights returns the dst x src resize matrix, cached per kernel.
func (r *Runtime) weights(k resizeKernel, src, dst int, a axis, edge filter.Edge) (*mat.Dense, error) {
	key := weightKey{id: k.id, src: src, dst: dst, offset: a.offset, window: a.window, edge: edge}
	if k.id != "" {
		if m, ok := r.weightCache.Load(key); ok {
			return m, nil
		}
	}
	m, err := filter.ResizeMatrix(filter.ResizeParams{
		Kernel:  k.fn,
		Support: k.support,
		SrcLen:  src,
		DstLen:  dst,
		Offset:  a.offset,
		Window:  a.window,
		Edge:    edge,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kernels.ErrDimension, err)
	}
	if k.id != "" {
		r.weightCache.Store(key, m)
	}
	return m, nil
}

// resizePlane resizes p to width x height.
func (r *Runtime) resizePlane(p Plane, width, height int, k resizeKernel, x, y axis, edge filter.Edge) (Plane, error) {
	if k.radial {
		return ewaPlane(p, width, height, k, x, y), nil
	}
	if x.identity(p.Width, width) && y.identity(p.Height, height) {
		return p.clone(), nil
	}

	wh, err := r.weights(k, p.Width, width, x, edge)
	if err != nil {
		return Plane{}, err
	}
	wv, err := r.weights(k, p.Height, height, y, edge)
	if err != nil {
		return Plane{}, err
	}

	var rows mat.Dense
	rows.Mul(p.dense(), wh.T())
	var out mat.Dense
	out.Mul(wv, &rows)
	return planeFromDense(&out), nil
}

// resizeClip resizes every plane of c to g, keeping c's format.
func (r *Runtime) resizeClip(c *Clip, g geometry, k resizeKernel, edge filter.Edge) (*Clip, error) {
	if g.width <= 0 || g.height <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", kernels.ErrDimension, g.width, g.height)
	}
	if err := kernels.CheckSubsampling(c.format, g.width, g.height); err != nil {
		return nil, err
	}

	out := c.derive(g.width, g.height, c.format)
	for n, pic := range c.Frames {
		dst := make(Picture, len(pic))
		for i, p := range pic {
			w, h := out.PlaneSize(i)
			x, y := g.x, g.y
			if isChroma(c.format, i) {
				x, y = x.subsampled(c.format.SubsamplingW), y.subsampled(c.format.SubsamplingH)
			}
			plane, err := r.resizePlane(p, w, h, k, x, y, edge)
			if err != nil {
				return nil, err
			}
			dst[i] = plane
		}
		out.Frames[n] = dst
	}
	return out, nil
}

// ewaPlane filters p with a radial kernel: every output sample weights the
// source samples by their elliptical distance. Edges mirror.
func ewaPlane(p Plane, width, height int, k resizeKernel, x, y axis) Plane {
	stepX := windowOf(x, p.Width) / float64(width)
	stepY := windowOf(y, p.Height) / float64(height)
	stretchX, stretchY := math.Max(stepX, 1), math.Max(stepY, 1)
	reachX, reachY := k.support*stretchX, k.support*stretchY

	out := NewPlane(width, height)
	for j := range height {
		py := y.offset + (float64(j)+0.5)*stepY - 0.5
		y0, y1 := int(math.Floor(py-reachY)), int(math.Ceil(py+reachY))
		row := out.Row(j)
		for i := range width {
			px := x.offset + (float64(i)+0.5)*stepX - 0.5
			x0, x1 := int(math.Floor(px-reachX)), int(math.Ceil(px+reachX))

			var sum, total float64
			for sy := y0; sy <= y1; sy++ {
				dy := (float64(sy) - py) / stretchY
				yy, _ := filter.EdgeMirror.Fold(sy, p.Height)
				src := p.Row(yy)
				for sx := x0; sx <= x1; sx++ {
					dx := (float64(sx) - px) / stretchX
					w := k.fn(math.Hypot(dx, dy))
					if w == 0 {
						continue
					}
					xx, _ := filter.EdgeMirror.Fold(sx, p.Width)
					sum += w * src[xx]
					total += w
				}
			}
			if total != 0 {
				row[i] = sum / total
			}
		}
	}
	return out
}

func windowOf(a axis, n int) float64 {
	if a.window > 0 {
		return a.window
	}
	return float64(n)
}
