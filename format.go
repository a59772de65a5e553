package kernels

import (
	"fmt"
	"math"
)

// ColorFamily is the colour model of a video format.
type ColorFamily int

// Supported colour families.
const (
	ColorFamilyUndefined ColorFamily = iota
	ColorFamilyGray
	ColorFamilyRGB
	ColorFamilyYUV
)

// String returns the family name.
func (c ColorFamily) String() string {
	switch c {
	case ColorFamilyGray:
		return "Gray"
	case ColorFamilyRGB:
		return "RGB"
	case ColorFamilyYUV:
		return "YUV"
	default:
		return "Undefined"
	}
}

// SampleType distinguishes integer and floating-point samples.
type SampleType int

// Sample types.
const (
	SampleInteger SampleType = iota
	SampleFloat
)

// VideoFormat describes the sample layout of a frame.
type VideoFormat struct {
	Family       ColorFamily
	Sample       SampleType
	Bits         int
	SubsamplingW int // log2 horizontal chroma subsampling
	SubsamplingH int // log2 vertical chroma subsampling
}

// Common formats.
var (
	FormatGray8     = VideoFormat{Family: ColorFamilyGray, Sample: SampleInteger, Bits: 8}
	FormatGray16    = VideoFormat{Family: ColorFamilyGray, Sample: SampleInteger, Bits: 16}
	FormatGrayS     = VideoFormat{Family: ColorFamilyGray, Sample: SampleFloat, Bits: 32}
	FormatYUV420P8  = VideoFormat{Family: ColorFamilyYUV, Sample: SampleInteger, Bits: 8, SubsamplingW: 1, SubsamplingH: 1}
	FormatYUV420P10 = VideoFormat{Family: ColorFamilyYUV, Sample: SampleInteger, Bits: 10, SubsamplingW: 1, SubsamplingH: 1}
	FormatYUV422P8  = VideoFormat{Family: ColorFamilyYUV, Sample: SampleInteger, Bits: 8, SubsamplingW: 1}
	FormatYUV444P8  = VideoFormat{Family: ColorFamilyYUV, Sample: SampleInteger, Bits: 8}
	FormatYUV444P16 = VideoFormat{Family: ColorFamilyYUV, Sample: SampleInteger, Bits: 16}
	FormatYUV444PS  = VideoFormat{Family: ColorFamilyYUV, Sample: SampleFloat, Bits: 32}
	FormatRGB24     = VideoFormat{Family: ColorFamilyRGB, Sample: SampleInteger, Bits: 8}
	FormatRGB48     = VideoFormat{Family: ColorFamilyRGB, Sample: SampleInteger, Bits: 16}
	FormatRGBS      = VideoFormat{Family: ColorFamilyRGB, Sample: SampleFloat, Bits: 32}
)

// NumPlanes returns the plane count of the format.
func (f VideoFormat) NumPlanes() int {
	if f.Family == ColorFamilyGray {
		return 1
	}
	return 3
}

// Subsampled reports whether chroma planes are smaller than luma.
func (f VideoFormat) Subsampled() bool {
	return f.SubsamplingW != 0 || f.SubsamplingH != 0
}

// WithDepth returns the format with a different sample depth.
func (f VideoFormat) WithDepth(bits int, sample SampleType) VideoFormat {
	f.Bits = bits
	f.Sample = sample
	return f
}

// IsFloat32 reports whether samples are single-precision floats.
func (f VideoFormat) IsFloat32() bool {
	return f.Sample == SampleFloat && f.Bits == floatBits
}

func (f VideoFormat) String() string {
	st := "P"
	if f.Sample == SampleFloat {
		st = "PS"
	}
	return fmt.Sprintf("%s%s%d(ss %d,%d)", f.Family, st, f.Bits, f.SubsamplingW, f.SubsamplingH)
}

// CheckSubsampling verifies that width and height are multiples of the
// format's chroma subsampling factors.
func CheckSubsampling(f VideoFormat, width, height int) error {
	if width%(1<<f.SubsamplingW) != 0 {
		return fmt.Errorf("%w: width %d is not divisible by the horizontal subsampling of %s", ErrDimension, width, f)
	}
	if height%(1<<f.SubsamplingH) != 0 {
		return fmt.Errorf("%w: height %d is not divisible by the vertical subsampling of %s", ErrDimension, height, f)
	}
	return nil
}

// FieldOrder describes whether a frame holds progressive content or interleaved fields.
type FieldOrder int

// Field orders.
const (
	FieldProgressive FieldOrder = iota
	FieldBottomFirst
	FieldTopFirst
)

// Interlaced reports whether the frame is field-based.
func (o FieldOrder) Interlaced() bool {
	return o == FieldBottomFirst || o == FieldTopFirst
}

// Ratio is a rational number such as a sample aspect ratio.
type Ratio struct {
	Num int
	Den int
}

// Float returns the ratio value, or 0 for a zero denominator.
func (r Ratio) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// IsZero reports whether the ratio is unset.
func (r Ratio) IsZero() bool {
	return r.Num == 0 && r.Den == 0
}

// Square is the 1:1 ratio.
var Square = Ratio{Num: 1, Den: 1}

// Props are per-frame properties consulted by the request pipeline.
type Props struct {
	FieldOrder FieldOrder
	SAR        Ratio
	Matrix     Matrix
	Transfer   Transfer
}

// Frame is an opaque frame handle owned by the runtime.
type Frame interface {
	Width() int
	Height() int
	Format() VideoFormat
	Props() Props
}

// SampleAspect returns the frame's sample aspect ratio, 1 when unset.
func SampleAspect(f Frame) float64 {
	if sar := f.Props().SAR.Float(); sar > 0 {
		return sar
	}
	return 1
}

// Matrix identifies YUV matrix coefficients. The zero value is unspecified.
type Matrix int

// Matrix coefficients.
const (
	MatrixUnspecified Matrix = iota
	MatrixRGB
	MatrixBT709
	MatrixFCC
	MatrixBT470BG
	MatrixSMPTE170M
	MatrixSMPTE240M
	MatrixYCgCo
	MatrixBT2020NC
	MatrixBT2020C
	MatrixChromaNCL
	MatrixChromaCL
	MatrixICtCp
)

var matrixCodes = map[Matrix]int{
	MatrixRGB:         0,
	MatrixBT709:       1,
	MatrixUnspecified: 2,
	MatrixFCC:         4,
	MatrixBT470BG:     5,
	MatrixSMPTE170M:   6,
	MatrixSMPTE240M:   7,
	MatrixYCgCo:       8,
	MatrixBT2020NC:    9,
	MatrixBT2020C:     10,
	MatrixChromaNCL:   12,
	MatrixChromaCL:    13,
	MatrixICtCp:       14,
}

// Code returns the ITU-T H.273 code point.
func (m Matrix) Code() int {
	return matrixCodes[m]
}

// MatrixFromCode maps an ITU-T H.273 code point to a Matrix.
func MatrixFromCode(code int) Matrix {
	for m, c := range matrixCodes {
		if c == code {
			return m
		}
	}
	return MatrixUnspecified
}

// MatrixFromResolution guesses matrix coefficients from frame dimensions the
// way broadcast content is usually tagged.
func MatrixFromResolution(f VideoFormat, width, height int) Matrix {
	switch {
	case f.Family == ColorFamilyRGB:
		return MatrixRGB
	case width <= sdMaxWidth && height <= sdMaxHeight:
		return MatrixSMPTE170M
	case width <= hdMaxWidth && height <= hdMaxHeight:
		return MatrixBT709
	default:
		return MatrixBT2020NC
	}
}

// MatrixFromTransfer returns the matrix conventionally paired with a transfer curve.
func MatrixFromTransfer(t Transfer) Matrix {
	switch t {
	case TransferBT470M:
		return MatrixFCC
	case TransferBT470BG:
		return MatrixBT470BG
	case TransferBT601:
		return MatrixSMPTE170M
	case TransferSMPTE240M:
		return MatrixSMPTE240M
	case TransferBT2020_10, TransferBT2020_12, TransferST2084, TransferARIBB67:
		return MatrixBT2020NC
	case TransferSRGB:
		return MatrixRGB
	default:
		return MatrixBT709
	}
}

// MatrixOf returns the frame's tagged matrix, guessing from its size when untagged.
func MatrixOf(f Frame) Matrix {
	if m := f.Props().Matrix; m != MatrixUnspecified {
		return m
	}
	return MatrixFromResolution(f.Format(), f.Width(), f.Height())
}

// Transfer identifies a transfer characteristic. The zero value is unspecified.
type Transfer int

// Transfer characteristics.
const (
	TransferUnspecified Transfer = iota
	TransferBT709
	TransferBT470M
	TransferBT470BG
	TransferBT601
	TransferSMPTE240M
	TransferLinear
	TransferLog100
	TransferLog316
	TransferXVYCC
	TransferSRGB
	TransferBT2020_10
	TransferBT2020_12
	TransferST2084
	TransferARIBB67
)

var transferCodes = map[Transfer]int{
	TransferBT709:       1,
	TransferUnspecified: 2,
	TransferBT470M:      4,
	TransferBT470BG:     5,
	TransferBT601:       6,
	TransferSMPTE240M:   7,
	TransferLinear:      8,
	TransferLog100:      9,
	TransferLog316:      10,
	TransferXVYCC:       11,
	TransferSRGB:        13,
	TransferBT2020_10:   14,
	TransferBT2020_12:   15,
	TransferST2084:      16,
	TransferARIBB67:     18,
}

// Code returns the ITU-T H.273 code point.
func (t Transfer) Code() int {
	return transferCodes[t]
}

// IsHDR reports whether the curve is a high dynamic range curve (PQ or HLG).
func (t Transfer) IsHDR() bool {
	return t == TransferST2084 || t == TransferARIBB67
}

// libplacebo pl_color_transfer values.
const (
	placeboTRCUnknown = 0
	placeboTRCBT1886  = 1
	placeboTRCSRGB    = 2
	placeboTRCLinear  = 3
	placeboTRCGamma22 = 6
	placeboTRCGamma28 = 9
	placeboTRCPQ      = 12
	placeboTRCHLG     = 13
)

// LibplaceboValue returns the libplacebo transfer enum for the curve.
func (t Transfer) LibplaceboValue() int {
	switch t {
	case TransferBT709, TransferBT601, TransferBT2020_10, TransferBT2020_12:
		return placeboTRCBT1886
	case TransferSRGB:
		return placeboTRCSRGB
	case TransferLinear:
		return placeboTRCLinear
	case TransferBT470M:
		return placeboTRCGamma22
	case TransferBT470BG:
		return placeboTRCGamma28
	case TransferST2084:
		return placeboTRCPQ
	case TransferARIBB67:
		return placeboTRCHLG
	default:
		return placeboTRCUnknown
	}
}

// TransferFromResolution guesses a transfer curve from frame dimensions.
func TransferFromResolution(f VideoFormat, width, height int) Transfer {
	switch {
	case f.Family == ColorFamilyRGB:
		return TransferSRGB
	case width <= sdMaxWidth && height <= sdMaxHeight:
		return TransferBT601
	default:
		return TransferBT709
	}
}

// TransferOf returns the frame's tagged transfer, guessing from its size when untagged.
func TransferOf(f Frame) Transfer {
	if t := f.Props().Transfer; t != TransferUnspecified {
		return t
	}
	return TransferFromResolution(f.Format(), f.Width(), f.Height())
}

// dar returns width/height as a float, 0 for a zero height.
func dar(width, height int) float64 {
	if height == 0 {
		return 0
	}
	return float64(width) / float64(height)
}

// sameFloat compares aspect ratios with a tolerance for rounding noise.
func sameFloat(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
