package imagert

import (
	"fmt"
	"math"

	kernels "github.com/tphakala/go-video-kernels"
	"github.com/tphakala/go-video-kernels/internal/filter"
)

type lumaCoeffs struct {
	kr, kb float64
}

func (l lumaCoeffs) kg() float64 { return 1 - l.kr - l.kb }

func coefficients(m kernels.Matrix) (lumaCoeffs, error) {
	switch m {
	case kernels.MatrixBT709:
		return lumaCoeffs{bt709Kr, bt709Kb}, nil
	case kernels.MatrixBT470BG, kernels.MatrixSMPTE170M:
		return lumaCoeffs{bt601Kr, bt601Kb}, nil
	case kernels.MatrixBT2020NC:
		return lumaCoeffs{bt2020Kr, bt2020Kb}, nil
	case kernels.MatrixFCC:
		return lumaCoeffs{fccKr, fccKb}, nil
	case kernels.MatrixSMPTE240M:
		return lumaCoeffs{smpte240Kr, smpte240Kb}, nil
	default:
		return lumaCoeffs{}, fmt.Errorf("%w: matrix %d", kernels.ErrNotSupported, m.Code())
	}
}

// conversion is the format, matrix and transfer part of a NamedFilter call.
type conversion struct {
	format   kernels.VideoFormat
	matrixIn kernels.Matrix
	matrix   kernels.Matrix

	transferIn kernels.Transfer
	transfer   kernels.Transfer
}

func parseConversion(c *Clip, args kernels.Args) (conversion, error) {
	conv := conversion{format: c.format}
	if v, ok := args["format"]; ok {
		switch f := v.(type) {
		case kernels.VideoFormat:
			conv.format = f
		case *kernels.VideoFormat:
			conv.format = *f
		default:
			return conv, fmt.Errorf("%w: format %v (%T)", kernels.ErrInvalidConfig, v, v)
		}
	}

	var err error
	if conv.matrixIn, err = matrixArg(args, "matrix_in"); err != nil {
		return conv, err
	}
	if conv.matrixIn == kernels.MatrixUnspecified {
		conv.matrixIn = kernels.MatrixOf(c)
	}
	if conv.matrix, err = matrixArg(args, "matrix"); err != nil {
		return conv, err
	}
	if conv.matrix == kernels.MatrixUnspecified {
		conv.matrix = conv.matrixIn
		if conv.matrix == kernels.MatrixRGB {
			conv.matrix = kernels.MatrixFromResolution(conv.format, c.width, c.height)
		}
	}

	if conv.transferIn, err = transferArg(args, "transfer_in"); err != nil {
		return conv, err
	}
	if conv.transferIn == kernels.TransferUnspecified {
		conv.transferIn = kernels.TransferOf(c)
	}
	if conv.transfer, err = transferArg(args, "transfer"); err != nil {
		return conv, err
	}
	if conv.transfer == kernels.TransferUnspecified {
		conv.transfer = conv.transferIn
	}
	return conv, nil
}

func matrixArg(args kernels.Args, key string) (kernels.Matrix, error) {
	v, ok := args[key]
	if !ok {
		return kernels.MatrixUnspecified, nil
	}
	switch m := v.(type) {
	case kernels.Matrix:
		return m, nil
	case int:
		return kernels.MatrixFromCode(m), nil
	default:
		return 0, fmt.Errorf("%w: %s %v (%T)", kernels.ErrInvalidConfig, key, v, v)
	}
}

func transferArg(args kernels.Args, key string) (kernels.Transfer, error) {
	v, ok := args[key]
	if !ok {
		return kernels.TransferUnspecified, nil
	}
	switch t := v.(type) {
	case kernels.Transfer:
		return t, nil
	case int:
		for _, cand := range transfers {
			if cand.Code() == t {
				return cand, nil
			}
		}
		return kernels.TransferUnspecified, nil
	default:
		return 0, fmt.Errorf("%w: %s %v (%T)", kernels.ErrInvalidConfig, key, v, v)
	}
}

var transfers = []kernels.Transfer{
	kernels.TransferBT709, kernels.TransferBT470M, kernels.TransferBT470BG, kernels.TransferBT601,
	kernels.TransferSMPTE240M, kernels.TransferLinear, kernels.TransferLog100, kernels.TransferLog316,
	kernels.TransferXVYCC, kernels.TransferSRGB, kernels.TransferBT2020_10, kernels.TransferBT2020_12,
	kernels.TransferST2084, kernels.TransferARIBB67,
}

func (conv conversion) transferChange() bool { return conv.transfer != conv.transferIn }

func (conv conversion) matrixChange(src kernels.VideoFormat) bool {
	return src.Family == kernels.ColorFamilyYUV &&
		conv.format.Family == kernels.ColorFamilyYUV &&
		conv.matrix != conv.matrixIn
}

// convert applies conv to c. Chroma planes are resampled with k.
func (r *Runtime) convert(c *Clip, conv conversion, k resizeKernel) (*Clip, error) {
	dst := conv.format
	if err := kernels.CheckSubsampling(dst, c.width, c.height); err != nil {
		return nil, err
	}

	var err error
	cur := c
	src := c.format

	switch {
	case src.Family == kernels.ColorFamilyYUV && dst.Family == kernels.ColorFamilyGray && !conv.transferChange():
		cur = cur.mapPictures(kernels.FormatGrayS, func(pic Picture) Picture { return Picture{pic[0].clone()} })
	case src.Family == kernels.ColorFamilyYUV &&
		(dst.Family != kernels.ColorFamilyYUV || conv.transferChange() || conv.matrixChange(src)):
		if cur, err = r.yuvToRGB(cur, conv.matrixIn, k); err != nil {
			return nil, err
		}
	case src.Family == kernels.ColorFamilyGray && dst.Family != kernels.ColorFamilyGray:
		cur = cur.mapPictures(kernels.FormatRGBS, func(pic Picture) Picture {
			return Picture{pic[0].clone(), pic[0].clone(), pic[0].clone()}
		})
	}

	if conv.transferChange() {
		if cur, err = applyTransfer(cur, conv.transferIn, conv.transfer); err != nil {
			return nil, err
		}
	}

	switch {
	case cur.format.Family == kernels.ColorFamilyRGB && dst.Family == kernels.ColorFamilyYUV:
		if cur, err = r.rgbToYUV(cur, conv.matrix, dst, k); err != nil {
			return nil, err
		}
	case cur.format.Family == kernels.ColorFamilyRGB && dst.Family == kernels.ColorFamilyGray:
		coeffs, err := coefficients(conv.matrix)
		if err != nil {
			coeffs = lumaCoeffs{bt709Kr, bt709Kb}
		}
		cur = cur.mapPictures(kernels.FormatGrayS, func(pic Picture) Picture {
			return Picture{luma(pic, coeffs)}
		})
	case cur.format.Family == kernels.ColorFamilyYUV && dst.Family == kernels.ColorFamilyYUV &&
		(cur.format.SubsamplingW != dst.SubsamplingW || cur.format.SubsamplingH != dst.SubsamplingH):
		if cur, err = r.resampleChroma(cur, dst, k); err != nil {
			return nil, err
		}
	}

	out := *cur
	out.format = dst
	out.props = c.props
	switch dst.Family {
	case kernels.ColorFamilyYUV:
		out.props.Matrix = conv.matrix
	case kernels.ColorFamilyRGB:
		out.props.Matrix = kernels.MatrixRGB
	}
	out.props.Transfer = conv.transfer
	if dst.Sample == kernels.SampleInteger {
		if out.Frames, err = quantize(cur, dst); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// mapPictures returns a clip of format with every picture replaced by fn.
func (c *Clip) mapPictures(format kernels.VideoFormat, fn func(Picture) Picture) *Clip {
	out := c.derive(c.width, c.height, format)
	for n, pic := range c.Frames {
		out.Frames[n] = fn(pic)
	}
	return out
}

func (r *Runtime) yuvToRGB(c *Clip, m kernels.Matrix, k resizeKernel) (*Clip, error) {
	coeffs, err := coefficients(m)
	if err != nil {
		return nil, fmt.Errorf("unable to convert YUV to RGB: %w", err)
	}
	full, err := r.resampleChroma(c, kernels.FormatYUV444PS, k)
	if err != nil {
		return nil, err
	}

	crScale := 2 * (1 - coeffs.kr)
	cbScale := 2 * (1 - coeffs.kb)
	return full.mapPictures(kernels.FormatRGBS, func(pic Picture) Picture {
		rgb := Picture{NewPlane(c.width, c.height), NewPlane(c.width, c.height), NewPlane(c.width, c.height)}
		for i, y := range pic[0].Data {
			cb, cr := pic[1].Data[i], pic[2].Data[i]
			rv := y + crScale*cr
			bv := y + cbScale*cb
			rgb[0].Data[i] = rv
			rgb[1].Data[i] = (y - coeffs.kr*rv - coeffs.kb*bv) / coeffs.kg()
			rgb[2].Data[i] = bv
		}
		return rgb
	}), nil
}

func (r *Runtime) rgbToYUV(c *Clip, m kernels.Matrix, dst kernels.VideoFormat, k resizeKernel) (*Clip, error) {
	coeffs, err := coefficients(m)
	if err != nil {
		return nil, fmt.Errorf("unable to convert RGB to YUV: %w", err)
	}

	full := kernels.FormatYUV444PS
	yuv := c.mapPictures(full, func(pic Picture) Picture {
		out := Picture{NewPlane(c.width, c.height), NewPlane(c.width, c.height), NewPlane(c.width, c.height)}
		for i := range pic[0].Data {
			rv, gv, bv := pic[0].Data[i], pic[1].Data[i], pic[2].Data[i]
			y := coeffs.kr*rv + coeffs.kg()*gv + coeffs.kb*bv
			out[0].Data[i] = y
			out[1].Data[i] = (bv - y) / (2 * (1 - coeffs.kb))
			out[2].Data[i] = (rv - y) / (2 * (1 - coeffs.kr))
		}
		return out
	})
	return r.resampleChroma(yuv, dst, k)
}

// resampleChroma resizes the chroma planes of a YUV clip to the
// subsampling of dst.
func (r *Runtime) resampleChroma(c *Clip, dst kernels.VideoFormat, k resizeKernel) (*Clip, error) {
	target := c.format
	target.SubsamplingW, target.SubsamplingH = dst.SubsamplingW, dst.SubsamplingH
	if target == c.format {
		return c, nil
	}
	if err := kernels.CheckSubsampling(target, c.width, c.height); err != nil {
		return nil, err
	}

	// Chroma planes are resized separably even for radial kernels.
	k.radial = false
	out := c.derive(c.width, c.height, target)
	for n, pic := range c.Frames {
		dstPic := make(Picture, len(pic))
		dstPic[0] = pic[0]
		for i := 1; i < len(pic); i++ {
			w, h := out.PlaneSize(i)
			plane, err := r.resizePlane(pic[i], w, h, k, axis{}, axis{}, filter.EdgeMirror)
			if err != nil {
				return nil, err
			}
			dstPic[i] = plane
		}
		out.Frames[n] = dstPic
	}
	return out, nil
}

func luma(pic Picture, coeffs lumaCoeffs) Plane {
	out := NewPlane(pic[0].Width, pic[0].Height)
	for i := range out.Data {
		out.Data[i] = coeffs.kr*pic[0].Data[i] + coeffs.kg()*pic[1].Data[i] + coeffs.kb*pic[2].Data[i]
	}
	return out
}

func applyTransfer(c *Clip, from, to kernels.Transfer) (*Clip, error) {
	if c.format.Family == kernels.ColorFamilyYUV {
		return nil, fmt.Errorf("%w: transfer conversion of YUV samples", kernels.ErrNotSupported)
	}
	toLinear, err := eotf(from)
	if err != nil {
		return nil, err
	}
	fromLinear, err := oetf(to)
	if err != nil {
		return nil, err
	}
	return c.mapPictures(c.format, func(pic Picture) Picture {
		out := pic.clone()
		for _, p := range out {
			for i, v := range p.Data {
				p.Data[i] = fromLinear(toLinear(v))
			}
		}
		return out
	}), nil
}

// symmetric extends a curve defined on [0, 1] to negative values.
func symmetric(fn func(float64) float64) func(float64) float64 {
	return func(v float64) float64 {
		if v < 0 {
			return -fn(-v)
		}
		return fn(v)
	}
}

func eotf(t kernels.Transfer) (func(float64) float64, error) {
	switch t {
	case kernels.TransferLinear:
		return func(v float64) float64 { return v }, nil
	case kernels.TransferBT709, kernels.TransferBT601, kernels.TransferBT2020_10, kernels.TransferBT2020_12:
		return symmetric(func(v float64) float64 {
			if v < rec709LinearCut {
				return v / rec709Slope
			}
			return math.Pow((v+rec709Alpha-1)/rec709Alpha, 1/rec709Exponent)
		}), nil
	case kernels.TransferSRGB:
		return symmetric(func(v float64) float64 {
			if v <= srgbLinearCut {
				return v / srgbSlope
			}
			return math.Pow((v+srgbAlpha-1)/srgbAlpha, 1/srgbExponent)
		}), nil
	case kernels.TransferBT470M:
		return symmetric(func(v float64) float64 { return math.Pow(v, gamma22) }), nil
	case kernels.TransferBT470BG:
		return symmetric(func(v float64) float64 { return math.Pow(v, gamma28) }), nil
	default:
		return nil, fmt.Errorf("%w: transfer %d", kernels.ErrNotSupported, t.Code())
	}
}

func oetf(t kernels.Transfer) (func(float64) float64, error) {
	switch t {
	case kernels.TransferLinear:
		return func(v float64) float64 { return v }, nil
	case kernels.TransferBT709, kernels.TransferBT601, kernels.TransferBT2020_10, kernels.TransferBT2020_12:
		return symmetric(func(v float64) float64 {
			if v < rec709Beta {
				return v * rec709Slope
			}
			return rec709Alpha*math.Pow(v, rec709Exponent) - (rec709Alpha - 1)
		}), nil
	case kernels.TransferSRGB:
		return symmetric(func(v float64) float64 {
			if v <= srgbBeta {
				return v * srgbSlope
			}
			return srgbAlpha*math.Pow(v, srgbExponent) - (srgbAlpha - 1)
		}), nil
	case kernels.TransferBT470M:
		return symmetric(func(v float64) float64 { return math.Pow(v, 1/gamma22) }), nil
	case kernels.TransferBT470BG:
		return symmetric(func(v float64) float64 { return math.Pow(v, 1/gamma28) }), nil
	default:
		return nil, fmt.Errorf("%w: transfer %d", kernels.ErrNotSupported, t.Code())
	}
}

// quantize rounds every sample of c to the integer depth of f.
func quantize(c *Clip, f kernels.VideoFormat) ([]Picture, error) {
	if f.Bits < 1 || f.Bits > maxIntegerBits {
		return nil, fmt.Errorf("%w: %d-bit integer samples", kernels.ErrNotSupported, f.Bits)
	}
	levels := float64(int(1)<<f.Bits - 1)
	mid := float64(int(1) << (f.Bits - 1))

	frames := make([]Picture, len(c.Frames))
	for n, pic := range c.Frames {
		out := pic.clone()
		for i, p := range out {
			chroma := isChroma(f, i)
			for j, v := range p.Data {
				if chroma {
					code := math.Min(math.Max(math.Round(v*levels+mid), 0), levels)
					p.Data[j] = (code - mid) / levels
					continue
				}
				p.Data[j] = math.Min(math.Max(math.Round(v*levels), 0), levels) / levels
			}
		}
		frames[n] = out
	}
	return frames, nil
}
