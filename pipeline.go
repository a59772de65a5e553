package kernels

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// pointFilter is the runtime's nearest-neighbour resizer, also used for
// plain format and transfer conversions.
const pointFilter = "point"

// scale runs the scale request pipeline: linear light around aspect ratio
// correction, sample grid alignment and border padding.
func (k *Kernel) scale(
	ctx context.Context,
	rt Runtime,
	clip Frame,
	width, height int,
	shift Shift,
	cfg *requestConfig,
) (Frame, error) {
	return withLinearLight(ctx, rt, k, clip, cfg, func(clip Frame) (Frame, error) {
		return k.scaleFramed(ctx, rt, clip, width, height, shift, cfg)
	})
}

func (k *Kernel) scaleFramed(
	ctx context.Context,
	rt Runtime,
	clip Frame,
	width, height int,
	shift Shift,
	cfg *requestConfig,
) (Frame, error) {
	extra := cfg.args
	squareOut := false

	if k.features.has(featureFraming) {
		if err := CheckSubsampling(clip.Format(), width, height); err != nil {
			return nil, err
		}

		if clip.Width() != 0 && clip.Height() != 0 {
			sar, dar, darIn := cfg.aspectParams(ctx, k)
			shift, extra, squareOut = cropForAspect(clip, width, height, shift, extra, sar, dar, darIn)
			shift, extra = cfg.grid.forDst(clip, width, height, shift, extra)

			padded, err := cfg.border.prepare(ctx, rt, clip, k.Radius())
			if err != nil {
				return nil, err
			}
			shift.Top += float64((padded.Height() - clip.Height()) / 2)
			shift.Left += float64((padded.Width() - clip.Width()) / 2)
			clip = padded
		}
	}

	args := k.scaler.scaleArgs(k, shift, width, height, extra)
	logger.Debugf(ctx, "%s scale args: %v", k, args)

	out, err := k.scaler.scale(ctx, rt, k, clip, args)
	if err != nil {
		return nil, err
	}
	if !squareOut {
		return out, nil
	}

	props := out.Props()
	props.SAR = Square
	return rt.SetProps(ctx, out, props)
}

// descale validates the request before any runtime call, then runs it in
// linear light when asked to.
func (k *Kernel) descale(
	ctx context.Context,
	rt Runtime,
	clip Frame,
	width, height int,
	shift Shift,
	cfg *requestConfig,
) (Frame, error) {
	order := clip.Props().FieldOrder
	if cfg.fieldOrder != nil {
		order = *cfg.fieldOrder
	}

	if width > clip.Width() || height > clip.Height() {
		return nil, fmt.Errorf("%w: output dimension (%dx%d) must be less than or equal to input dimension (%dx%d)",
			ErrDimension, width, height, clip.Width(), clip.Height())
	}
	if order.Interlaced() && height%2 != 0 {
		return nil, fmt.Errorf("%w: descaling interlaced content requires an even height, got %d", ErrInvalidConfig, height)
	}
	if !order.Interlaced() && cfg.fieldShifts != nil {
		return nil, fmt.Errorf("%w: per-field shifts need field-based input", ErrInvalidConfig)
	}

	return withLinearLight(ctx, rt, k, clip, cfg, func(clip Frame) (Frame, error) {
		return k.descaleFramed(ctx, rt, clip, width, height, shift, order, cfg)
	})
}

func (k *Kernel) descaleFramed(
	ctx context.Context,
	rt Runtime,
	clip Frame,
	width, height int,
	shift Shift,
	order FieldOrder,
	cfg *requestConfig,
) (Frame, error) {
	framing := k.features.has(featureFraming)

	srcFormat := clip.Format()
	work, err := toFormat(ctx, rt, clip, srcFormat.WithDepth(floatBits, SampleFloat))
	if err != nil {
		return nil, err
	}

	extra := cfg.args
	if framing {
		extra = Args{"border_handling": int(cfg.border)}.Merge(extra)
	}

	var out Frame
	switch {
	case order.Interlaced():
		out, err = k.descaleFields(ctx, rt, work, width, height, shift, order, cfg, extra)
	case framing:
		shift, extra = cfg.grid.forSrc(work.Width(), work.Height(), width, height, shift, extra)
		out, err = k.descaleOnce(ctx, rt, work, width, height, shift, extra)
	default:
		out, err = k.descaleOnce(ctx, rt, work, width, height, shift, extra)
	}
	if err != nil {
		return nil, err
	}
	return toFormat(ctx, rt, out, srcFormat)
}

// descaleFields descales each field to half the target height, offsetting
// the two field grids against each other, and weaves the results.
func (k *Kernel) descaleFields(
	ctx context.Context,
	rt Runtime,
	clip Frame,
	width, height int,
	shift Shift,
	order FieldOrder,
	cfg *requestConfig,
	extra Args,
) (Frame, error) {
	tff := order == FieldTopFirst

	shifts := [2]Shift{shift, shift}
	if cfg.fieldShifts != nil {
		shifts = *cfg.fieldShifts
	}
	fieldShift := fieldShiftFactor * float64(height) / float64(clip.Height())
	shifts[0].Top += fieldShift
	shifts[1].Top -= fieldShift

	fields, err := rt.SeparateFields(ctx, clip, tff)
	if err != nil {
		return nil, fmt.Errorf("unable to separate fields: %w", err)
	}

	descaled := make([]Frame, fieldCycle)
	for i := range descaled {
		field, err := rt.SelectEvery(ctx, fields, fieldCycle, i)
		if err != nil {
			return nil, fmt.Errorf("unable to select field %d: %w", i, err)
		}
		fieldHeight := height / fieldCycle
		s, fieldArgs := cfg.grid.forSrc(field.Width(), field.Height(), width, fieldHeight, shifts[i], extra)
		logger.Debugf(ctx, "%s descaling field %d with shift %v", k, i, s)
		descaled[i], err = k.descaleOnce(ctx, rt, field, width, fieldHeight, s, fieldArgs)
		if err != nil {
			return nil, err
		}
	}

	interleaved, err := rt.Interleave(ctx, descaled...)
	if err != nil {
		return nil, fmt.Errorf("unable to interleave fields: %w", err)
	}
	woven, err := rt.WeaveFields(ctx, interleaved, tff)
	if err != nil {
		return nil, fmt.Errorf("unable to weave fields: %w", err)
	}
	// Weaving pairs every field with both neighbours; the even frames are the
	// original field pairs.
	frames, err := rt.SelectEvery(ctx, woven, fieldCycle, 0)
	if err != nil {
		return nil, fmt.Errorf("unable to drop woven duplicates: %w", err)
	}

	props := frames.Props()
	props.FieldOrder = FieldProgressive
	return rt.SetProps(ctx, frames, props)
}

func (k *Kernel) descaleOnce(
	ctx context.Context,
	rt Runtime,
	clip Frame,
	width, height int,
	shift Shift,
	extra Args,
) (Frame, error) {
	args := k.descaler.descaleArgs(k, shift, width, height, extra)
	logger.Debugf(ctx, "%s descale args: %v", k, args)
	return k.descaler.descale(ctx, rt, k, clip, width, height, args)
}

// toFormat converts clip to format without resizing.
func toFormat(ctx context.Context, rt Runtime, clip Frame, format VideoFormat) (Frame, error) {
	if clip.Format() == format {
		return clip, nil
	}
	out, err := rt.NamedFilter(ctx, clip, pointFilter, Args{"format": format})
	if err != nil {
		return nil, fmt.Errorf("unable to convert %s to %s: %w", clip.Format(), format, err)
	}
	return out, nil
}

// ResampleTo converts clip to format with the cheapest sufficient filter:
// a depth conversion within a colour family, a point conversion to a
// non-subsampled target, and resampler otherwise.
func ResampleTo(ctx context.Context, rt Runtime, clip Frame, format VideoFormat, matrix Matrix, resampler *Kernel) (Frame, error) {
	src := clip.Format()
	switch {
	case src == format:
		return clip, nil
	case src.Family == format.Family:
		return toFormat(ctx, rt, clip, format)
	case !format.Subsampled():
		return NewPoint().Resample(ctx, rt, clip, format, matrix, MatrixUnspecified)
	}

	if resampler == nil {
		resampler = NewCatrom()
	}
	return resampler.Resample(ctx, rt, clip, format, matrix, MatrixUnspecified)
}
