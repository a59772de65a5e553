package kernels

import "context"

// KernelFunc is a continuous, even kernel function.
type KernelFunc func(x float64) float64

// PixelFunc maps one sample value to another.
type PixelFunc func(v float64) float64

// DescaleFilter selects the inverse filter of a descale request: either a
// named runtime filter, or a kernel function with its integer support.
type DescaleFilter struct {
	Name    string
	Func    KernelFunc
	Support int
}

// Padding is the number of samples added on each side of a frame.
type Padding struct {
	Left, Right, Top, Bottom int
}

// Runtime is the frame-processing host that owns pixel buffers and executes
// the requests the kernels build. Implementations return errors wrapping
// ErrDimension for impossible geometry.
type Runtime interface {
	// NamedFilter runs a built-in resizer. It also performs format, matrix
	// and transfer conversions requested through args.
	NamedFilter(ctx context.Context, src Frame, name string, args Args) (Frame, error)

	// CustomFilter resizes with a caller-supplied kernel function.
	CustomFilter(ctx context.Context, src Frame, fn KernelFunc, support int, args Args) (Frame, error)

	// Descale inverts an upscale to width x height.
	Descale(ctx context.Context, src Frame, width, height int, filter DescaleFilter, args Args) (Frame, error)

	// SeparateFields splits every frame into its two fields.
	SeparateFields(ctx context.Context, src Frame, topFirst bool) (Frame, error)

	// WeaveFields double-weaves fields: every field is paired with both of its
	// neighbours, so frame n holds fields n and n+1.
	WeaveFields(ctx context.Context, src Frame, topFirst bool) (Frame, error)

	// Interleave alternates frames of the given clips.
	Interleave(ctx context.Context, clips ...Frame) (Frame, error)

	// SelectEvery keeps the frames at the given offsets of every cycle.
	SelectEvery(ctx context.Context, src Frame, cycle int, offsets ...int) (Frame, error)

	// SetProps replaces the frame properties.
	SetProps(ctx context.Context, src Frame, props Props) (Frame, error)

	// SplitPlanes returns one single-plane frame per plane.
	SplitPlanes(ctx context.Context, src Frame) ([]Frame, error)

	// MergePlanes combines single-plane frames into one frame of the family.
	MergePlanes(ctx context.Context, planes []Frame, family ColorFamily) (Frame, error)

	// Pad extends the frame borders, filling with zeros or repeating edges.
	Pad(ctx context.Context, src Frame, pad Padding, mode BorderHandling) (Frame, error)

	// PointTransform applies fn to every sample.
	PointTransform(ctx context.Context, src Frame, fn PixelFunc) (Frame, error)
}
