package kernels

import (
	"context"
	"fmt"
)

type arMode int

const (
	arUnset arMode = iota
	arOff
	arAuto
	arValue
)

// ARParam is an aspect ratio request parameter: unset, off, derived from the
// frames, or a fixed value.
type ARParam struct {
	mode  arMode
	value float64
}

// AROff disables the parameter.
func AROff() ARParam { return ARParam{mode: arOff} }

// ARAuto derives the parameter from the frames.
func ARAuto() ARParam { return ARParam{mode: arAuto} }

// ARValue fixes the parameter.
func ARValue(v float64) ARParam { return ARParam{mode: arValue, value: v} }

func (p ARParam) set() bool { return p.mode != arUnset }

// resolve returns the parameter value, with ok false when it must be derived.
func (p ARParam) resolve(off float64) (float64, bool) {
	switch p.mode {
	case arOff:
		return off, true
	case arValue:
		return p.value, true
	default:
		return 0, false
	}
}

// cropForAspect crops the source window so the output keeps the source
// display aspect ratio. It returns the corrected shift, the arguments with the
// source window set, and whether the output must be tagged with square pixels.
func cropForAspect(clip Frame, width, height int, shift Shift, args Args, sarP, darP, darInP ARParam) (Shift, Args, bool) {
	args = args.Clone()

	top := takeFloat(args, "src_top", shift.Top)
	left := takeFloat(args, "src_left", shift.Left)
	srcWidth := takeFloat(args, "src_width", float64(clip.Width()))
	srcHeight := takeFloat(args, "src_height", float64(clip.Height()))

	srcSAR, ok := sarP.resolve(1)
	if !ok {
		srcSAR = SampleAspect(clip)
	}

	outDAR, ok := darP.resolve(0)
	if !ok || outDAR == 0 {
		outDAR = dar(width, height)
	}

	srcDAR, ok := darInP.resolve(outDAR)
	if !ok {
		srcDAR = dar(clip.Width(), clip.Height())
	}

	squareOut := false
	if srcSAR != 0 && srcSAR != 1 {
		if srcSAR > 1 {
			outDAR = (float64(width) / srcSAR) / float64(height)
		} else {
			outDAR = float64(width) / (float64(height) * srcSAR)
		}
		squareOut = true
	}

	if !sameFloat(srcDAR, outDAR) {
		if srcDAR > outDAR {
			crop := srcWidth - srcHeight*outDAR
			left += crop / 2
			srcWidth -= crop
		} else {
			crop := srcHeight - srcWidth/outDAR
			top += crop / 2
			srcHeight -= crop
		}
	}

	args["src_width"] = srcWidth
	args["src_height"] = srcHeight
	return Shift{Top: top, Left: left}, args, squareOut
}

// takeFloat removes key from args and returns its value, or def when absent.
func takeFloat(args Args, key string, def float64) float64 {
	v, ok := args.pop(key)
	if !ok {
		return def
	}
	f, err := toFloat(v)
	if err != nil {
		return def
	}
	return f
}

// SampleGridModel selects how sample grids of different resolutions align.
type SampleGridModel int

// Sample grid models.
const (
	// MatchEdges aligns the outer edges of the first and last samples.
	MatchEdges SampleGridModel = iota
	// MatchCenters aligns the centers of the first and last samples.
	MatchCenters
)

// forDst adjusts a scale request from the source clip to width x height.
func (m SampleGridModel) forDst(clip Frame, width, height int, shift Shift, args Args) (Shift, Args) {
	return m.apply(clip.Width(), clip.Height(), width, height, shift, args)
}

// forSrc adjusts a descale request of a srcWidth x srcHeight clip to
// width x height. The window lives in the descaled grid, so the roles of
// the two sizes swap.
func (m SampleGridModel) forSrc(srcWidth, srcHeight, width, height int, shift Shift, args Args) (Shift, Args) {
	if m != MatchCenters {
		return shift, args
	}
	args = args.Clone()
	if w, off, ok := matchCenters(windowOf(args, "src_width", width), srcWidth); ok {
		args["src_width"] = w
		shift.Left += off
	}
	if h, off, ok := matchCenters(windowOf(args, "src_height", height), srcHeight); ok {
		args["src_height"] = h
		shift.Top += off
	}
	return shift, args
}

func (m SampleGridModel) apply(srcWidth, srcHeight, width, height int, shift Shift, args Args) (Shift, Args) {
	if m != MatchCenters {
		return shift, args
	}
	args = args.Clone()
	if w, off, ok := matchCenters(windowOf(args, "src_width", srcWidth), width); ok {
		args["src_width"] = w
		shift.Left += off
	}
	if h, off, ok := matchCenters(windowOf(args, "src_height", srcHeight), height); ok {
		args["src_height"] = h
		shift.Top += off
	}
	return shift, args
}

// matchCenters returns the source window that maps the first and last
// sample centers of a window-sized grid onto those of a dst-sized grid,
// and the shift correction that centers it.
func matchCenters(window float64, dst int) (float64, float64, bool) {
	if dst <= 1 || window <= 1 {
		return window, 0, false
	}
	d := float64(dst)
	w := d * (window - 1) / (d - 1)
	return w, (window - w) / 2, true
}

func windowOf(args Args, key string, def int) float64 {
	if f, ok := args.Float(key); ok {
		return f
	}
	return float64(def)
}

// BorderHandling selects how frame edges are extended beyond the picture.
type BorderHandling int

// Border handling modes, numbered as the runtime's descale filter expects.
const (
	BorderMirror BorderHandling = iota
	BorderZero
	BorderRepeat
)

func (b BorderHandling) String() string {
	switch b {
	case BorderMirror:
		return "mirror"
	case BorderZero:
		return "zero"
	case BorderRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("BorderHandling(%d)", int(b))
	}
}

// PadAmount returns the padding added on each side of a dimension of the
// given size: enough for minPad samples, rounded so the padded size is a
// multiple of 8. Mirroring needs no padding.
func (b BorderHandling) PadAmount(size, minPad int) int {
	if b == BorderMirror {
		return 0
	}
	return ((size + minPad + padAlignment - 1) &^ (padAlignment - 1)) - size
}

// prepare pads clip for the border mode.
func (b BorderHandling) prepare(ctx context.Context, rt Runtime, clip Frame, minPad int) (Frame, error) {
	padW := b.PadAmount(clip.Width(), minPad)
	padH := b.PadAmount(clip.Height(), minPad)
	if padW == 0 && padH == 0 {
		return clip, nil
	}
	out, err := rt.Pad(ctx, clip, Padding{Left: padW, Right: padW, Top: padH, Bottom: padH}, b)
	if err != nil {
		return nil, fmt.Errorf("unable to pad with %s borders: %w", b, err)
	}
	return out, nil
}
