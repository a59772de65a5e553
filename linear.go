package kernels

import (
	"context"
	"fmt"
	"math"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Sigmoid is a sigmoidal contrast curve applied on top of linear light to
// reduce ringing around bright edges.
type Sigmoid struct {
	Slope  float64
	Center float64
}

// DefaultSigmoid returns the curve with slope 6.5 and center 0.75.
func DefaultSigmoid() Sigmoid {
	return Sigmoid{Slope: defaultSigmoidSlope, Center: defaultSigmoidCenter}
}

// Validate checks the slope and center ranges.
func (s Sigmoid) Validate() error {
	if s.Slope < minSigmoidSlope || s.Slope > maxSigmoidSlope {
		return fmt.Errorf("%w: sigmoid slope has to be in range %.1f-%.1f (inclusive), got %v",
			ErrInvalidConfig, minSigmoidSlope, maxSigmoidSlope, s.Slope)
	}
	if s.Center < minSigmoidCenter || s.Center > maxSigmoidCenter {
		return fmt.Errorf("%w: sigmoid center has to be in range %.1f-%.1f (inclusive), got %v",
			ErrInvalidConfig, minSigmoidCenter, maxSigmoidCenter, s.Center)
	}
	return nil
}

func (s Sigmoid) offsetScale() (offset, scale float64) {
	offset = 1 / (1 + math.Exp(s.Slope*s.Center))
	scale = 1/(1+math.Exp(s.Slope*(s.Center-1))) - offset
	return offset, scale
}

// Forward maps a linear value into sigmoid space.
func (s Sigmoid) Forward(x float64) float64 {
	offset, scale := s.offsetScale()
	return clamp01(s.Center - math.Log(1/(x*scale+offset)-1)/s.Slope)
}

// Inverse maps a sigmoid-space value back to linear light.
func (s Sigmoid) Inverse(x float64) float64 {
	offset, scale := s.offsetScale()
	return clamp01((1/(1+math.Exp(s.Slope*(s.Center-x))) - offset) / scale)
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Min(1, math.Max(0, x))
}

// LinearLightOptions configures a linear light session.
type LinearLightOptions struct {
	// Linear converts the clip from its transfer curve to linear light.
	Linear bool

	// Sigmoid additionally applies sigmoidal contrast. It implies Linear.
	Sigmoid *Sigmoid

	// Resampler converts between YUV and RGB. Catrom when nil.
	Resampler *Kernel

	// Format is the output format. The input format when nil.
	Format *VideoFormat
}

type sessionState int

const (
	sessionOpen sessionState = iota
	sessionClosed
)

// LinearLightSession converts a clip to RGB linear light, lets the caller
// replace the converted clip, and converts the result back.
//
// The linear clip is only replaceable while the session is open, and the
// output is only available after Close.
type LinearLightSession struct {
	ctx context.Context
	rt  Runtime

	opts   LinearLightOptions
	format VideoFormat
	curve  Transfer
	matrix Matrix

	linear    Frame
	processed Frame
	out       Frame
	state     sessionState
}

// BeginLinearLight opens a session on clip and computes its linear light version.
func BeginLinearLight(ctx context.Context, rt Runtime, clip Frame, opts LinearLightOptions) (_ *LinearLightSession, _err error) {
	logger.Tracef(ctx, "BeginLinearLight(%s)", clip.Format())
	defer func() { logger.Tracef(ctx, "/BeginLinearLight: %v", _err) }()

	if opts.Sigmoid != nil {
		if err := opts.Sigmoid.Validate(); err != nil {
			return nil, err
		}
		opts.Linear = true
	}
	if opts.Resampler == nil {
		opts.Resampler = NewCatrom()
	}
	if !opts.Resampler.CanResample() {
		return nil, opts.Resampler.unsupported("resample")
	}

	s := &LinearLightSession{
		ctx:    ctx,
		rt:     rt,
		opts:   opts,
		format: clip.Format(),
		curve:  TransferOf(clip),
	}
	if opts.Format != nil {
		s.format = *opts.Format
	}
	s.matrix = clip.Props().Matrix
	if s.matrix == MatrixUnspecified {
		s.matrix = MatrixFromTransfer(s.curve)
	}
	if opts.Sigmoid != nil && s.curve.IsHDR() {
		return nil, fmt.Errorf("%w: sigmoid curves are not defined for HDR transfer %d", ErrNotSupported, s.curve.Code())
	}

	linear, err := s.toLinear(clip)
	if err != nil {
		return nil, err
	}
	s.linear = linear
	return s, nil
}

func (s *LinearLightSession) toLinear(clip Frame) (Frame, error) {
	var err error
	if s.opts.Sigmoid != nil && !clip.Format().IsFloat32() {
		clip, err = toFormat(s.ctx, s.rt, clip, clip.Format().WithDepth(floatBits, SampleFloat))
		if err != nil {
			return nil, err
		}
	}

	if clip.Format().Family == ColorFamilyYUV {
		clip, err = s.opts.Resampler.Resample(s.ctx, s.rt, clip, FormatRGBS, MatrixUnspecified, s.matrix)
		if err != nil {
			return nil, fmt.Errorf("unable to convert to RGB: %w", err)
		}
	}

	if s.opts.Linear {
		clip, err = s.rt.NamedFilter(s.ctx, clip, pointFilter, Args{"transfer_in": s.curve, "transfer": TransferLinear})
		if err != nil {
			return nil, fmt.Errorf("unable to linearize: %w", err)
		}
	}

	if s.opts.Sigmoid != nil {
		clip, err = s.rt.PointTransform(s.ctx, clip, s.opts.Sigmoid.Forward)
		if err != nil {
			return nil, fmt.Errorf("unable to apply the sigmoid curve: %w", err)
		}
	}
	return clip, nil
}

// Linear returns the clip in linear light, or the replacement set by SetLinear.
func (s *LinearLightSession) Linear() Frame {
	if s.processed != nil {
		return s.processed
	}
	return s.linear
}

// SetLinear replaces the linear clip with a processed one.
func (s *LinearLightSession) SetLinear(processed Frame) error {
	if s.state == sessionClosed {
		return fmt.Errorf("%w: the linear clip cannot be set after the session is closed", ErrSessionState)
	}
	s.processed = processed
	return nil
}

// Close ends the processing stage of the session.
func (s *LinearLightSession) Close() error {
	s.state = sessionClosed
	return nil
}

// Out converts the processed clip back to the source curve and the output
// format. The conversion runs once.
func (s *LinearLightSession) Out() (_ Frame, _err error) {
	if s.state != sessionClosed {
		return nil, fmt.Errorf("%w: the output is not available while the session is open", ErrSessionState)
	}
	if s.processed == nil {
		return nil, fmt.Errorf("%w: the linear clip has to be set before getting the output", ErrSessionState)
	}
	if s.out != nil {
		return s.out, nil
	}

	logger.Tracef(s.ctx, "LinearLightSession.Out")
	defer func() { logger.Tracef(s.ctx, "/LinearLightSession.Out: %v", _err) }()

	clip := s.processed
	var err error
	if s.opts.Sigmoid != nil {
		clip, err = s.rt.PointTransform(s.ctx, clip, s.opts.Sigmoid.Inverse)
		if err != nil {
			return nil, fmt.Errorf("unable to invert the sigmoid curve: %w", err)
		}
	}
	if s.opts.Linear {
		clip, err = s.rt.NamedFilter(s.ctx, clip, pointFilter, Args{"transfer_in": TransferLinear, "transfer": s.curve})
		if err != nil {
			return nil, fmt.Errorf("unable to delinearize: %w", err)
		}
	}

	out, err := ResampleTo(s.ctx, s.rt, clip, s.format, s.matrix, s.opts.Resampler)
	if err != nil {
		return nil, err
	}
	s.out = out
	return out, nil
}

// withLinearLight runs op on the linear light version of clip when the
// request asks for it.
func withLinearLight(
	ctx context.Context,
	rt Runtime,
	k *Kernel,
	clip Frame,
	cfg *requestConfig,
	op func(Frame) (Frame, error),
) (Frame, error) {
	if !cfg.wantsLinear() {
		return op(clip)
	}

	opts := LinearLightOptions{Linear: cfg.linear, Sigmoid: cfg.sigmoid, Format: cfg.format}
	if k.CanResample() {
		opts.Resampler = k
	}
	session, err := BeginLinearLight(ctx, rt, clip, opts)
	if err != nil {
		return nil, err
	}

	processed, err := op(session.Linear())
	if err != nil {
		return nil, err
	}
	if err := session.SetLinear(processed); err != nil {
		return nil, err
	}
	if err := session.Close(); err != nil {
		return nil, err
	}
	return session.Out()
}
