package kernels

import (
	"context"
	"errors"
	"fmt"
)

type fakeFrame struct {
	width, height int
	format        VideoFormat
	props         Props
}

func (f *fakeFrame) Width() int          { return f.width }
func (f *fakeFrame) Height() int         { return f.height }
func (f *fakeFrame) Format() VideoFormat { return f.format }
func (f *fakeFrame) Props() Props        { return f.props }

func newFakeFrame(width, height int, format VideoFormat) *fakeFrame {
	return &fakeFrame{width: width, height: height, format: format}
}

func (f *fakeFrame) with(mod func(*fakeFrame)) *fakeFrame {
	c := *f
	mod(&c)
	return &c
}

// runtimeCall is one recorded runtime invocation.
type runtimeCall struct {
	op     string
	name   string
	args   Args
	width  int
	height int
	filter DescaleFilter
	pad    Padding
	border BorderHandling
	cycle  int
	offset []int
	props  Props
}

var errFakeRuntime = errors.New("fake runtime failure")

// recordingRuntime records every call and returns frames with plausible
// geometry, without touching pixels.
type recordingRuntime struct {
	calls []runtimeCall

	// failOp makes the named operation fail.
	failOp string
}

var _ Runtime = (*recordingRuntime)(nil)

func (r *recordingRuntime) record(c runtimeCall) error {
	r.calls = append(r.calls, c)
	if r.failOp == c.op {
		return fmt.Errorf("%s: %w", c.op, errFakeRuntime)
	}
	return nil
}

func (r *recordingRuntime) ops() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.op
		if c.name != "" {
			out[i] += ":" + c.name
		}
	}
	return out
}

func (r *recordingRuntime) find(op string) []runtimeCall {
	var out []runtimeCall
	for _, c := range r.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func resized(src Frame, args Args) *fakeFrame {
	f := src.(*fakeFrame)
	return f.with(func(c *fakeFrame) {
		for _, key := range []string{"width", "w"} {
			if v, ok := args.Int(key); ok {
				c.width = v
			}
		}
		for _, key := range []string{"height", "h"} {
			if v, ok := args.Int(key); ok {
				c.height = v
			}
		}
		if v, ok := args["format"].(VideoFormat); ok {
			c.format = v
		}
	})
}

func (r *recordingRuntime) NamedFilter(_ context.Context, src Frame, name string, args Args) (Frame, error) {
	if err := r.record(runtimeCall{op: "NamedFilter", name: name, args: args}); err != nil {
		return nil, err
	}
	return resized(src, args), nil
}

func (r *recordingRuntime) CustomFilter(_ context.Context, src Frame, _ KernelFunc, support int, args Args) (Frame, error) {
	if err := r.record(runtimeCall{op: "CustomFilter", args: args, filter: DescaleFilter{Support: support}}); err != nil {
		return nil, err
	}
	return resized(src, args), nil
}

func (r *recordingRuntime) Descale(_ context.Context, src Frame, width, height int, filter DescaleFilter, args Args) (Frame, error) {
	if err := r.record(runtimeCall{op: "Descale", name: filter.Name, args: args, width: width, height: height, filter: filter}); err != nil {
		return nil, err
	}
	if width > src.Width() || height > src.Height() {
		return nil, fmt.Errorf("%w: output dimension must be smaller", ErrDimension)
	}
	return src.(*fakeFrame).with(func(c *fakeFrame) {
		c.width, c.height = width, height
	}), nil
}

func (r *recordingRuntime) SeparateFields(_ context.Context, src Frame, topFirst bool) (Frame, error) {
	if err := r.record(runtimeCall{op: "SeparateFields", args: Args{"tff": topFirst}}); err != nil {
		return nil, err
	}
	return src.(*fakeFrame).with(func(c *fakeFrame) { c.height /= 2 }), nil
}

func (r *recordingRuntime) WeaveFields(_ context.Context, src Frame, topFirst bool) (Frame, error) {
	if err := r.record(runtimeCall{op: "WeaveFields", args: Args{"tff": topFirst}}); err != nil {
		return nil, err
	}
	return src.(*fakeFrame).with(func(c *fakeFrame) { c.height *= 2 }), nil
}

func (r *recordingRuntime) Interleave(_ context.Context, clips ...Frame) (Frame, error) {
	if err := r.record(runtimeCall{op: "Interleave", cycle: len(clips)}); err != nil {
		return nil, err
	}
	return clips[0], nil
}

func (r *recordingRuntime) SelectEvery(_ context.Context, src Frame, cycle int, offsets ...int) (Frame, error) {
	if err := r.record(runtimeCall{op: "SelectEvery", cycle: cycle, offset: offsets}); err != nil {
		return nil, err
	}
	return src, nil
}

func (r *recordingRuntime) SetProps(_ context.Context, src Frame, props Props) (Frame, error) {
	if err := r.record(runtimeCall{op: "SetProps", props: props}); err != nil {
		return nil, err
	}
	return src.(*fakeFrame).with(func(c *fakeFrame) { c.props = props }), nil
}

func (r *recordingRuntime) SplitPlanes(_ context.Context, src Frame) ([]Frame, error) {
	if err := r.record(runtimeCall{op: "SplitPlanes"}); err != nil {
		return nil, err
	}
	planes := make([]Frame, src.Format().NumPlanes())
	for i := range planes {
		planes[i] = src.(*fakeFrame).with(func(c *fakeFrame) {
			c.format = VideoFormat{Family: ColorFamilyGray, Sample: c.format.Sample, Bits: c.format.Bits}
		})
	}
	return planes, nil
}

func (r *recordingRuntime) MergePlanes(_ context.Context, planes []Frame, family ColorFamily) (Frame, error) {
	if err := r.record(runtimeCall{op: "MergePlanes", cycle: len(planes)}); err != nil {
		return nil, err
	}
	return planes[0].(*fakeFrame).with(func(c *fakeFrame) { c.format.Family = family }), nil
}

func (r *recordingRuntime) Pad(_ context.Context, src Frame, pad Padding, mode BorderHandling) (Frame, error) {
	if err := r.record(runtimeCall{op: "Pad", pad: pad, border: mode}); err != nil {
		return nil, err
	}
	return src.(*fakeFrame).with(func(c *fakeFrame) {
		c.width += pad.Left + pad.Right
		c.height += pad.Top + pad.Bottom
	}), nil
}

func (r *recordingRuntime) PointTransform(_ context.Context, src Frame, _ PixelFunc) (Frame, error) {
	if err := r.record(runtimeCall{op: "PointTransform"}); err != nil {
		return nil, err
	}
	return src, nil
}
