package kernels

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Option configures a single scale, descale, shift or resample request.
type Option func(*requestConfig)

type requestConfig struct {
	linear  bool
	sigmoid *Sigmoid

	border BorderHandling
	grid   SampleGridModel

	keepAR          *bool
	sar, dar, darIn ARParam

	args Args

	fieldOrder  *FieldOrder
	fieldShifts *[2]Shift

	format *VideoFormat
}

// WithLinear processes the request in linear light.
func WithLinear(on bool) Option {
	return func(c *requestConfig) { c.linear = on }
}

// WithSigmoid processes the request in linear light with sigmoidal contrast
// compression of the given slope and center.
func WithSigmoid(slope, center float64) Option {
	return func(c *requestConfig) { c.sigmoid = &Sigmoid{Slope: slope, Center: center} }
}

// WithDefaultSigmoid enables sigmoid processing with slope 6.5 and center 0.75.
func WithDefaultSigmoid() Option {
	return func(c *requestConfig) {
		s := DefaultSigmoid()
		c.sigmoid = &s
	}
}

// WithoutSigmoid disables sigmoid processing.
func WithoutSigmoid() Option {
	return func(c *requestConfig) { c.sigmoid = nil }
}

// WithBorderHandling selects how the frame edges are extended.
func WithBorderHandling(b BorderHandling) Option {
	return func(c *requestConfig) { c.border = b }
}

// WithSampleGrid selects the sample grid alignment.
func WithSampleGrid(m SampleGridModel) Option {
	return func(c *requestConfig) { c.grid = m }
}

// WithKeepAR sets the default of the SAR, DAR and input DAR parameters:
// true derives them from the frames, false disables aspect correction.
func WithKeepAR(on bool) Option {
	return func(c *requestConfig) { c.keepAR = &on }
}

// WithSAR sets the source sample aspect ratio parameter.
func WithSAR(p ARParam) Option {
	return func(c *requestConfig) { c.sar = p }
}

// WithDAR sets the output display aspect ratio parameter.
func WithDAR(p ARParam) Option {
	return func(c *requestConfig) { c.dar = p }
}

// WithDARIn sets the input display aspect ratio parameter.
func WithDARIn(p ARParam) Option {
	return func(c *requestConfig) { c.darIn = p }
}

// WithArgs adds caller arguments. They override every derived argument.
func WithArgs(args Args) Option {
	return func(c *requestConfig) { c.args = c.args.Merge(args) }
}

// WithBlur stretches the kernel by blur. Only custom kernel dispatch honours it.
func WithBlur(blur float64) Option {
	return WithArgs(Args{"blur": blur})
}

// WithFieldOrder overrides the field order read from the frame properties.
func WithFieldOrder(o FieldOrder) Option {
	return func(c *requestConfig) { c.fieldOrder = &o }
}

// WithFieldShifts gives the top and bottom fields of an interlaced descale
// their own shifts.
func WithFieldShifts(top, bottom Shift) Option {
	return func(c *requestConfig) { c.fieldShifts = &[2]Shift{top, bottom} }
}

// WithFormat sets the output format of a linear light request.
func WithFormat(f VideoFormat) Option {
	return func(c *requestConfig) { c.format = &f }
}

// WithTransfer sets the transfer curve an EWA request linearises from.
func WithTransfer(t Transfer) Option {
	return WithArgs(Args{"trc": t.LibplaceboValue()})
}

func (k *Kernel) newRequest(op operation, opts []Option) (*requestConfig, error) {
	if op == opShift {
		if err := validateShift(k, opts); err != nil {
			return nil, err
		}
	}

	cfg := &requestConfig{args: Args{}}
	for _, opt := range k.defaults {
		opt(cfg)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(k, op); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *requestConfig) wantsLinear() bool {
	return c.linear || c.sigmoid != nil
}

func (c *requestConfig) framing() bool {
	return c.border != BorderMirror || c.grid != MatchEdges || c.keepAR != nil ||
		c.sar.set() || c.dar.set() || c.darIn.set()
}

// validateShift rejects caller options a shift cannot honour. Kernel
// defaults are exempt: they configure scaling, not shifting.
func validateShift(k *Kernel, opts []Option) error {
	c := &requestConfig{args: Args{}}
	for _, opt := range opts {
		opt(c)
	}
	switch {
	case c.wantsLinear():
		return fmt.Errorf("%w: %s cannot shift in linear light", ErrNotSupported, k)
	case c.framing():
		return fmt.Errorf("%w: %s shift takes no aspect ratio, sample grid or border handling", ErrNotSupported, k)
	case c.fieldOrder != nil || c.fieldShifts != nil:
		return fmt.Errorf("%w: %s shift takes no field options", ErrNotSupported, k)
	case c.format != nil:
		return fmt.Errorf("%w: %s shift keeps the input format", ErrNotSupported, k)
	}
	return nil
}

func (c *requestConfig) validate(k *Kernel, op operation) error {
	if c.sigmoid != nil {
		if err := c.sigmoid.Validate(); err != nil {
			return err
		}
	}
	if op == opResample {
		return nil
	}

	if c.wantsLinear() && !k.features.has(featureLinear) {
		return fmt.Errorf("%w: %s has no linear light processing", ErrNotSupported, k)
	}
	if c.framing() && !k.features.has(featureFraming) {
		return fmt.Errorf("%w: %s has no aspect ratio, sample grid or border handling", ErrNotSupported, k)
	}
	if c.border < BorderMirror || c.border > BorderRepeat {
		return fmt.Errorf("%w: unknown border handling %d", ErrInvalidConfig, c.border)
	}
	if op == opDescale && (c.fieldOrder != nil || c.fieldShifts != nil) && !k.features.has(featureFields) {
		return fmt.Errorf("%w: %s has no field-based descale", ErrNotSupported, k)
	}
	return nil
}

// aspectParams resolves the SAR, DAR and input DAR parameters, filling the
// unset ones from the keep-AR default.
func (c *requestConfig) aspectParams(ctx context.Context, k *Kernel) (sar, dar, darIn ARParam) {
	sar, dar, darIn = c.sar, c.dar, c.darIn

	fallback := AROff()
	if c.keepAR != nil {
		if sar.set() && dar.set() && darIn.set() {
			logger.Warnf(ctx, "%s: keep-AR has no effect when SAR, DAR and input DAR are all set", k)
		}
		if *c.keepAR {
			fallback = ARAuto()
		}
	}

	if !sar.set() {
		sar = fallback
	}
	if !dar.set() {
		dar = fallback
	}
	if !darIn.set() {
		darIn = fallback
	}
	return sar, dar, darIn
}
