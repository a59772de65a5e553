package kernels

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const argTolerance = 1e-9

func TestScaleArgs_MergeOrder(t *testing.T) {
	k := NewCatrom(WithKernelArgs(Args{
		"dither_type":     "error_diffusion",
		"border_handling": 1,
		"ignore_mask":     true,
		"not_a_param":     42,
	}))

	args, err := k.ScaleArgs(Shift{Top: 0.5, Left: 0.25}, 1920, 1080, Args{"filter_param_b": 0.6})
	require.NoError(t, err)

	assert.Equal(t, Args{
		"src_top":        0.5,
		"src_left":       0.25,
		"width":          1920,
		"height":         1080,
		"filter_param_a": 0.0,
		"filter_param_b": 0.6,
		"dither_type":    "error_diffusion",
	}, args)
}

func TestDescaleArgs_KeepsDescaleParams(t *testing.T) {
	k := NewCatrom(WithKernelArgs(Args{"dither_type": "none", "border_handling": 1}))

	args, err := k.DescaleArgs(Shift{}, 1280, 720, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, args["border_handling"])
	assert.Equal(t, 0.0, args["b"])
	assert.Equal(t, 0.5, args["c"])
	assert.NotContains(t, args, "dither_type")
	assert.NotContains(t, args, "filter_param_a")
}

func TestScaleArgs_ZeroSizeOmitted(t *testing.T) {
	args, err := NewBilinear().ScaleArgs(Shift{}, 0, 0, nil)
	require.NoError(t, err)
	assert.NotContains(t, args, "width")
	assert.NotContains(t, args, "height")
}

func TestNoShift(t *testing.T) {
	k := NoShift(NewCatrom())
	args, err := k.ScaleArgs(Shift{Top: 1, Left: 2}, 10, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, args["src_top"])
	assert.Equal(t, 0.0, args["src_left"])

	orig, err := NewCatrom().ScaleArgs(Shift{Top: 1, Left: 2}, 10, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, orig["src_top"])
}

func TestNoScale(t *testing.T) {
	ctx := context.Background()
	clip := newFakeFrame(640, 480, FormatYUV444P8)

	rt := &recordingRuntime{}
	out, err := NoScale(NewCatrom()).Scale(ctx, rt, clip, 1920, 1080, Shift{})
	require.NoError(t, err)
	assert.Equal(t, 640, out.Width())
	assert.Equal(t, 480, out.Height())

	rt = &recordingRuntime{failOp: "NamedFilter"}
	out, err = NoScale(NewCatrom()).Scale(ctx, rt, clip, 1920, 1080, Shift{})
	require.NoError(t, err)
	assert.Same(t, clip, out)
}

func TestCustomKernel_Dispatch(t *testing.T) {
	ctx := context.Background()
	rt := &recordingRuntime{}
	clip := newFakeFrame(640, 480, FormatGray16)

	_, err := NewSpline36().Scale(ctx, rt, clip, 1280, 960, Shift{}, WithBlur(1.5))
	require.NoError(t, err)

	calls := rt.find("CustomFilter")
	require.Len(t, calls, 1)
	assert.Equal(t, 5, calls[0].filter.Support)
	assert.NotContains(t, calls[0].args, "blur")
	assert.NotContains(t, calls[0].args, "taps")
	assert.Equal(t, 1280, calls[0].args["width"])
}

func TestCustomKernel_InvalidBlur(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(64, 64, FormatGray8)
	_, err := NewSpline16().Scale(context.Background(), rt, clip, 128, 128, Shift{}, WithBlur(-1))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFmtConv_Args(t *testing.T) {
	k := NewBlackMan(4)

	scale, err := k.ScaleArgs(Shift{Top: 0.5, Left: 0.25}, 1280, 720, nil)
	require.NoError(t, err)
	assert.Equal(t, Args{
		"sx": 0.25, "sy": 0.5, "kernel": "blackman", "taps": 4, "w": 1280, "h": 720,
	}, scale)

	descale, err := k.DescaleArgs(Shift{}, 1280, 720, nil)
	require.NoError(t, err)
	assert.Equal(t, true, descale["invks"])
	assert.Equal(t, 4, descale["invkstaps"])
	assert.Equal(t, 1280, descale["sw"])
	assert.Equal(t, 720, descale["sh"])
	assert.False(t, k.CanResample())
}

func TestFmtConv_RejectsFraming(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(64, 64, FormatGray8)
	_, err := NewBox().Scale(context.Background(), rt, clip, 128, 128, Shift{}, WithKeepAR(true))
	require.ErrorIs(t, err, ErrNotSupported)
	assert.Empty(t, rt.calls)
}

func TestScale_KeepAR(t *testing.T) {
	ctx := context.Background()
	rt := &recordingRuntime{}
	clip := newFakeFrame(640, 480, FormatYUV444P8)

	_, err := NewCatrom().Scale(ctx, rt, clip, 1920, 1080, Shift{}, WithKeepAR(true))
	require.NoError(t, err)

	require.Equal(t, []string{"NamedFilter:bicubic"}, rt.ops())
	args := rt.calls[0].args
	assert.InDelta(t, 60.0, args["src_top"], argTolerance)
	assert.InDelta(t, 0.0, args["src_left"], argTolerance)
	assert.InDelta(t, 640.0, args["src_width"], argTolerance)
	assert.InDelta(t, 360.0, args["src_height"], argTolerance)

	srcWidth, _ := args.Float("src_width")
	srcHeight, _ := args.Float("src_height")
	assert.InDelta(t, 16.0/9.0, srcWidth/srcHeight, argTolerance)
}

func TestScale_KeepARWiderSource(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 800, FormatYUV444P8)

	_, err := NewCatrom().Scale(context.Background(), rt, clip, 1280, 720, Shift{Left: 1}, WithKeepAR(true))
	require.NoError(t, err)

	args := rt.calls[0].args
	crop := 1920 - 800*16.0/9.0
	assert.InDelta(t, 1+crop/2, args["src_left"], argTolerance)
	assert.InDelta(t, 1920-crop, args["src_width"], argTolerance)
	assert.InDelta(t, 800.0, args["src_height"], argTolerance)
}

func TestScale_AnamorphicSource(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(720, 480, FormatYUV444P8)
	clip.props.SAR = Ratio{Num: 32, Den: 27}

	out, err := NewCatrom().Scale(context.Background(), rt, clip, 720, 480, Shift{}, WithKeepAR(true))
	require.NoError(t, err)

	assert.Equal(t, []string{"NamedFilter:bicubic", "SetProps"}, rt.ops())
	assert.Equal(t, Square, out.Props().SAR)
}

func TestScale_WithoutKeepARKeepsWindow(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(640, 480, FormatYUV444P8)

	_, err := NewCatrom().Scale(context.Background(), rt, clip, 1920, 1080, Shift{Top: 0.5})
	require.NoError(t, err)

	args := rt.calls[0].args
	assert.InDelta(t, 0.5, args["src_top"], argTolerance)
	assert.InDelta(t, 480.0, args["src_height"], argTolerance)
}

func TestScale_SubsamplingCheck(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(640, 480, FormatYUV420P8)

	_, err := NewCatrom().Scale(context.Background(), rt, clip, 641, 480, Shift{})
	require.ErrorIs(t, err, ErrDimension)
	assert.Empty(t, rt.calls)
}

func TestScale_BorderPadding(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatYUV444P8)

	_, err := NewCatrom().Scale(context.Background(), rt, clip, 1280, 720, Shift{}, WithBorderHandling(BorderZero))
	require.NoError(t, err)

	require.Equal(t, []string{"Pad", "NamedFilter:bicubic"}, rt.ops())
	assert.Equal(t, Padding{Left: 8, Right: 8, Top: 8, Bottom: 8}, rt.calls[0].pad)
	assert.Equal(t, BorderZero, rt.calls[0].border)

	args := rt.calls[1].args
	assert.InDelta(t, 8.0, args["src_left"], argTolerance)
	assert.InDelta(t, 8.0, args["src_top"], argTolerance)
	assert.InDelta(t, 1920.0, args["src_width"], argTolerance)
	assert.InDelta(t, 1080.0, args["src_height"], argTolerance)
}

func TestBorderHandling_PadAmount(t *testing.T) {
	tests := []struct {
		mode   BorderHandling
		size   int
		radius int
		want   int
	}{
		{BorderMirror, 1920, 2, 0},
		{BorderZero, 1920, 2, 8},
		{BorderRepeat, 1080, 2, 8},
		{BorderZero, 1000, 4, 8},
		{BorderZero, 1004, 4, 4},
		{BorderRepeat, 1001, 3, 7},
	}

	for _, tt := range tests {
		got := tt.mode.PadAmount(tt.size, tt.radius)
		assert.Equal(t, tt.want, got, "%s size=%d radius=%d", tt.mode, tt.size, tt.radius)
		if tt.mode != BorderMirror {
			assert.Zero(t, (tt.size+got)%padAlignment)
			assert.GreaterOrEqual(t, got, tt.radius)
		}
	}
}

func TestScale_MatchCenters(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatYUV444P8)

	_, err := NewCatrom().Scale(context.Background(), rt, clip, 1280, 720, Shift{}, WithSampleGrid(MatchCenters))
	require.NoError(t, err)

	args := rt.calls[0].args
	wantW := 1280 * (1920.0 - 1) / (1280 - 1)
	wantH := 720 * (1080.0 - 1) / (720 - 1)
	assert.InDelta(t, wantW, args["src_width"], argTolerance)
	assert.InDelta(t, wantH, args["src_height"], argTolerance)
	assert.InDelta(t, (1920-wantW)/2, args["src_left"], argTolerance)
	assert.InDelta(t, (1080-wantH)/2, args["src_top"], argTolerance)

	// The first and last sample centers of both grids coincide.
	step := wantW / 1280
	first := (1920-wantW)/2 + step/2 - 0.5
	last := (1920-wantW)/2 + step*(1280-0.5) - 0.5
	assert.InDelta(t, 0.0, first, argTolerance)
	assert.InDelta(t, 1919.0, last, argTolerance)
}

func TestMatchCenters_Degenerate(t *testing.T) {
	w, off, ok := matchCenters(1920, 1)
	assert.False(t, ok)
	assert.Equal(t, 1920.0, w)
	assert.Zero(t, off)

	_, _, ok = matchCenters(1, 720)
	assert.False(t, ok)
}

func TestDescale_Progressive(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatGray16)

	out, err := NewCatrom().Descale(context.Background(), rt, clip, 1280, 720, Shift{})
	require.NoError(t, err)

	assert.Equal(t, []string{"NamedFilter:point", "Descale:bicubic", "NamedFilter:point"}, rt.ops())
	assert.Equal(t, FormatGrayS, rt.calls[0].args["format"])
	assert.Equal(t, FormatGray16, rt.calls[2].args["format"])
	assert.Equal(t, int(BorderMirror), rt.calls[1].args["border_handling"])
	assert.Equal(t, FormatGray16, out.Format())
	assert.Equal(t, 1280, out.Width())
}

func TestDescale_FloatInputSkipsConversion(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatGrayS)

	_, err := NewLanczos(3).Descale(context.Background(), rt, clip, 1280, 720, Shift{}, WithBorderHandling(BorderRepeat))
	require.NoError(t, err)

	assert.Equal(t, []string{"Descale:lanczos"}, rt.ops())
	assert.Equal(t, int(BorderRepeat), rt.calls[0].args["border_handling"])
	assert.Equal(t, 3, rt.calls[0].args["taps"])
}

func TestDescale_FmtConvConvertsToFloat(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatGray16)

	out, err := NewBlackMan(4).Descale(context.Background(), rt, clip, 1280, 720, Shift{})
	require.NoError(t, err)

	assert.Equal(t, []string{"NamedFilter:point", "Descale:blackman", "NamedFilter:point"}, rt.ops())
	assert.Equal(t, FormatGrayS, rt.calls[0].args["format"])
	assert.Equal(t, FormatGray16, rt.calls[2].args["format"])
	assert.NotContains(t, rt.calls[1].args, "border_handling")
	assert.Equal(t, FormatGray16, out.Format())
}

func TestDescaleArgs_FmtConvInverseTaps(t *testing.T) {
	args, err := NewBox().DescaleArgs(Shift{}, 1280, 720, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, args["invkstaps"])
	assert.Equal(t, true, args["invks"])

	args, err = NewBlackMan(6).DescaleArgs(Shift{}, 1280, 720, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, args["invkstaps"])
}

func TestDescale_CustomKernel(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatGrayS)

	_, err := NewSpline36().Descale(context.Background(), rt, clip, 1280, 720, Shift{})
	require.NoError(t, err)

	calls := rt.find("Descale")
	require.Len(t, calls, 1)
	assert.Equal(t, "Spline36", calls[0].filter.Name)
	assert.Equal(t, 3, calls[0].filter.Support)
	assert.NotNil(t, calls[0].filter.Func)
}

func TestDescale_LargerThanInput(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1280, 720, FormatGrayS)

	_, err := NewCatrom().Descale(context.Background(), rt, clip, 1920, 1080, Shift{})
	require.ErrorIs(t, err, ErrDimension)
	assert.Contains(t, err.Error(), "(1920x1080)")
	assert.Empty(t, rt.calls)
}

func TestDescale_InterlacedOddHeight(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatYUV444P8)
	clip.props.FieldOrder = FieldTopFirst

	_, err := NewCatrom().Descale(context.Background(), rt, clip, 1280, 11, Shift{})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Empty(t, rt.calls)
}

func TestDescale_FieldShiftsOnProgressive(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatYUV444P8)

	_, err := NewCatrom().Descale(context.Background(), rt, clip, 1280, 720, Shift{},
		WithFieldShifts(Shift{Top: 0.1}, Shift{Top: -0.1}))
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Empty(t, rt.calls)
}

func TestDescale_Interlaced(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatYUV444P8)
	clip.props.FieldOrder = FieldTopFirst

	out, err := NewCatrom().Descale(context.Background(), rt, clip, 1280, 720, Shift{Top: 0.25})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"NamedFilter:point",
		"SeparateFields",
		"SelectEvery", "Descale:bicubic",
		"SelectEvery", "Descale:bicubic",
		"Interleave",
		"WeaveFields",
		"SelectEvery",
		"SetProps",
		"NamedFilter:point",
	}, rt.ops())

	fieldShift := fieldShiftFactor * 720.0 / 1080.0
	descales := rt.find("Descale")
	require.Len(t, descales, 2)
	assert.Equal(t, 360, descales[0].height)
	assert.Equal(t, 360, descales[1].height)
	assert.InDelta(t, 0.25+fieldShift, descales[0].args["src_top"], argTolerance)
	assert.InDelta(t, 0.25-fieldShift, descales[1].args["src_top"], argTolerance)

	assert.Equal(t, true, rt.find("SeparateFields")[0].args["tff"])
	selects := rt.find("SelectEvery")
	assert.Equal(t, []int{0}, selects[0].offset)
	assert.Equal(t, []int{1}, selects[1].offset)
	assert.Equal(t, []int{0}, selects[2].offset)

	assert.Equal(t, FieldProgressive, out.Props().FieldOrder)
	assert.Equal(t, 720, out.Height())
	assert.Equal(t, FormatYUV444P8, out.Format())
}

func TestDescale_PerFieldShifts(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatGrayS)

	_, err := NewCatrom().Descale(context.Background(), rt, clip, 1280, 720, Shift{},
		WithFieldOrder(FieldBottomFirst),
		WithFieldShifts(Shift{Top: 0.5, Left: 0.1}, Shift{Top: -0.5, Left: 0.2}))
	require.NoError(t, err)

	fieldShift := fieldShiftFactor * 720.0 / 1080.0
	descales := rt.find("Descale")
	require.Len(t, descales, 2)
	assert.InDelta(t, 0.5+fieldShift, descales[0].args["src_top"], argTolerance)
	assert.InDelta(t, 0.1, descales[0].args["src_left"], argTolerance)
	assert.InDelta(t, -0.5-fieldShift, descales[1].args["src_top"], argTolerance)
	assert.InDelta(t, 0.2, descales[1].args["src_left"], argTolerance)
	assert.Equal(t, false, rt.find("SeparateFields")[0].args["tff"])
}

func TestDescale_PointScales(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatGrayS)

	_, err := NewPoint().Descale(context.Background(), rt, clip, 960, 540, Shift{})
	require.NoError(t, err)
	assert.Equal(t, []string{"NamedFilter:point"}, rt.ops())
	assert.NotContains(t, rt.calls[0].args, "border_handling")
}

func TestDescale_RuntimeDimensionError(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatGrayS)
	k := NewBlackMan(4)

	// Calling the strategy directly bypasses the up-front size check.
	_, err := k.descaler.descale(context.Background(), rt, k, clip, 3840, 2160, Args{})
	require.ErrorIs(t, err, ErrDimension)
	assert.Contains(t, err.Error(), "(3840x2160)")
}

func TestShiftPlanes(t *testing.T) {
	ctx := context.Background()
	clip := newFakeFrame(1920, 1080, FormatYUV420P8)

	t.Run("uniform collapses", func(t *testing.T) {
		rt := &recordingRuntime{}
		_, err := NewCatrom().ShiftPlanes(ctx, rt, clip, []float64{0.5}, []float64{0.25, 0.25, 0.25})
		require.NoError(t, err)
		require.Equal(t, []string{"NamedFilter:bicubic"}, rt.ops())
		assert.Equal(t, 0.5, rt.calls[0].args["src_top"])
		assert.Equal(t, 0.25, rt.calls[0].args["src_left"])
		assert.NotContains(t, rt.calls[0].args, "width")
	})

	t.Run("per plane", func(t *testing.T) {
		rt := &recordingRuntime{}
		_, err := NewCatrom().ShiftPlanes(ctx, rt, clip, []float64{0, 0.5}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"SplitPlanes", "NamedFilter:bicubic", "NamedFilter:bicubic", "MergePlanes",
		}, rt.ops())
		assert.Equal(t, 0.5, rt.calls[1].args["src_top"])
		assert.Equal(t, 0.5, rt.calls[2].args["src_top"])
	})

	t.Run("gray clip", func(t *testing.T) {
		rt := &recordingRuntime{}
		gray := newFakeFrame(64, 64, FormatGray8)
		_, err := NewCatrom().ShiftPlanes(ctx, rt, gray, []float64{1, 2, 3}, []float64{4})
		require.NoError(t, err)
		require.Equal(t, []string{"NamedFilter:bicubic"}, rt.ops())
		assert.Equal(t, 1.0, rt.calls[0].args["src_top"])
		assert.Equal(t, 4.0, rt.calls[0].args["src_left"])
	})
}

func TestShift_RejectsScaleOptions(t *testing.T) {
	ctx := context.Background()
	clip := newFakeFrame(1920, 1080, FormatYUV420P8)

	tests := []struct {
		name string
		opt  Option
	}{
		{"linear", WithLinear(true)},
		{"sigmoid", WithDefaultSigmoid()},
		{"border", WithBorderHandling(BorderZero)},
		{"sample grid", WithSampleGrid(MatchCenters)},
		{"keep ar", WithKeepAR(true)},
		{"dar", WithDAR(ARAuto())},
		{"field order", WithFieldOrder(FieldTopFirst)},
		{"field shifts", WithFieldShifts(Shift{}, Shift{Top: 0.5})},
		{"format", WithFormat(FormatRGBS)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &recordingRuntime{}
			_, err := NewCatrom().Shift(ctx, rt, clip, Shift{Top: 0.5}, tt.opt)
			require.ErrorIs(t, err, ErrNotSupported)

			_, err = NewCatrom().ShiftPlanes(ctx, rt, clip, []float64{0, 0.5}, nil, tt.opt)
			require.ErrorIs(t, err, ErrNotSupported)
			assert.Empty(t, rt.calls)
		})
	}
}

func TestShift_KernelDefaultsAllowed(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatRGBS)

	_, err := NewEwaLanczos(3).Shift(context.Background(), rt, clip, Shift{Left: 0.25}, WithArgs(Args{"antiring": 0.5}))
	require.NoError(t, err)
	require.Len(t, rt.calls, 1)
	assert.Equal(t, 0.5, rt.calls[0].args["antiring"])
}

func TestBroadcastShifts(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0}, broadcastShifts(nil, 3))
	assert.Equal(t, []float64{1, 2, 2}, broadcastShifts([]float64{1, 2}, 3))
	assert.Equal(t, []float64{1, 2, 3}, broadcastShifts([]float64{1, 2, 3, 4}, 3))
	assert.Equal(t, []float64{5}, broadcastShifts([]float64{5, 6}, 1))
}

func TestResample(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(1920, 1080, FormatYUV420P8)

	out, err := NewCatrom().Resample(context.Background(), rt, clip, FormatRGBS, MatrixUnspecified, MatrixBT709)
	require.NoError(t, err)
	assert.Equal(t, FormatRGBS, out.Format())

	args := rt.calls[0].args
	assert.Equal(t, FormatRGBS, args["format"])
	assert.Equal(t, MatrixBT709, args["matrix_in"])
	assert.NotContains(t, args, "matrix")
	assert.NotContains(t, args, "src_top")
}

func TestResampleTo(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		from VideoFormat
		to   VideoFormat
		ops  []string
	}{
		{"same format", FormatYUV420P8, FormatYUV420P8, []string{}},
		{"depth only", FormatYUV420P8, FormatYUV420P10, []string{"NamedFilter:point"}},
		{"to rgb", FormatYUV420P8, FormatRGB24, []string{"NamedFilter:point"}},
		{"to subsampled", FormatRGBS, FormatYUV420P8, []string{"NamedFilter:bicubic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &recordingRuntime{}
			out, err := ResampleTo(ctx, rt, newFakeFrame(64, 64, tt.from), tt.to, MatrixBT709, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.to, out.Format())
			assert.Equal(t, tt.ops, rt.ops())
		})
	}
}

func TestUnsupportedOperations(t *testing.T) {
	rt := &recordingRuntime{}
	clip := newFakeFrame(64, 64, FormatGray8)
	ctx := context.Background()

	_, err := NewEwaLanczos(3).Descale(ctx, rt, clip, 32, 32, Shift{})
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = NewBox().Resample(ctx, rt, clip, FormatGray16, MatrixUnspecified, MatrixUnspecified)
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = NewBox().Scale(ctx, rt, clip, 32, 32, Shift{}, WithLinear(true))
	require.ErrorIs(t, err, ErrNotSupported)
	assert.Empty(t, rt.calls)
}
