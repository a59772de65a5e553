// Package filter builds sampled weight tables from continuous kernel functions.
package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-video-kernels/internal/simdops"
)

const (
	// Default number of phases for polyphase filter bank
	defaultNumPhases = 256

	// Interpolation orders
	interpOrderNone   = 0 // No coefficient interpolation
	interpOrderLinear = 1 // Linear interpolation between phases
	interpOrderCubic  = 3 // Cubic interpolation between phases

	minNumPhases = 2
	maxNumPhases = 8192

	// Phase neighbours used by the interpolation polynomials
	nextPhaseOffset       = 1
	prevPhaseLookback     = 1
	secondNextPhaseOffset = 2

	// Interpolation polynomial coefficients
	cubicCenterCoeff = 0.5
	cubicDCoeff      = 1.0 / 6.0
	cubicCMultiplier = 4.0

	// Frequency response calculation
	frequencyNyquistDivisor = 2
	defaultResponsePoints   = 512

	// minTaps keeps zero-support kernels addressable as a two-tap bank.
	minTaps = 2
)

// KernelFunc is a continuous, even kernel function.
type KernelFunc func(x float64) float64

// InterpOrder represents the coefficient interpolation order.
type InterpOrder int

const (
	// InterpNone means no interpolation (nearest phase)
	InterpNone InterpOrder = interpOrderNone
	// InterpLinear means linear interpolation between adjacent phases
	InterpLinear InterpOrder = interpOrderLinear
	// InterpCubic means cubic interpolation between phases
	InterpCubic InterpOrder = interpOrderCubic
)

// PolyphaseFilterBank is a kernel sampled at NumPhases sub-sample offsets.
//
// Phase p holds the weights of the TapsPerPhase integer source positions
// around a sample point at fractional offset p/NumPhases. Tap t sits at
// distance t - (TapsPerPhase/2 - 1) - p/NumPhases from the sample point.
//
// Coefficient storage format (per tap, per phase):
//   - InterpNone:   [coef]
//   - InterpLinear: [coef, delta]  where value = coef + delta*x
//   - InterpCubic:  [coef, b, c, d] where value = coef + (b + (c + d*x)*x)*x
type PolyphaseFilterBank struct {
	// Coeffs stores all coefficients in a flat array.
	// Layout: [phase0_tap0_coefs...][phase0_tap1_coefs...]...[phaseN_tapM_coefs...]
	Coeffs []float64

	// NumPhases is the number of phases (sub-sample offsets)
	NumPhases int

	// TapsPerPhase is the number of integer source positions per phase
	TapsPerPhase int

	// InterpOrder is the coefficient interpolation order (0, 1, or 3)
	InterpOrder InterpOrder

	// Support is the kernel support the bank was sampled over
	Support float64

	// Normalized reports whether every phase was scaled to unit DC gain
	Normalized bool
}

// PolyphaseParams holds parameters for polyphase filter bank design.
type PolyphaseParams struct {
	// Kernel is the continuous kernel to sample
	Kernel KernelFunc

	// Support is the kernel's support; the kernel is zero beyond it
	Support float64

	// NumPhases is the number of sub-sample offsets (e.g., 64, 256, 1024).
	// Zero selects 256.
	NumPhases int

	// InterpOrder specifies coefficient interpolation (0, 1, or 3)
	InterpOrder InterpOrder

	// Normalize scales every phase so its taps sum to one
	Normalize bool
}

// Validate checks if polyphase parameters are valid.
func (pp *PolyphaseParams) Validate() error {
	if pp.Kernel == nil {
		return fmt.Errorf("kernel function is nil")
	}
	if pp.NumPhases < minNumPhases || pp.NumPhases > maxNumPhases {
		return fmt.Errorf("number of phases %d out of range [%d, %d]",
			pp.NumPhases, minNumPhases, maxNumPhases)
	}
	if pp.Support < 0 || math.IsNaN(pp.Support) || math.IsInf(pp.Support, 0) {
		return fmt.Errorf("support %v must be finite and non-negative", pp.Support)
	}
	if pp.InterpOrder != InterpNone && pp.InterpOrder != InterpLinear && pp.InterpOrder != InterpCubic {
		return fmt.Errorf("invalid interpolation order %d (must be 0, 1, or 3)", pp.InterpOrder)
	}
	return nil
}

// DesignPolyphaseFilterBank samples the kernel into a polyphase filter bank.
func DesignPolyphaseFilterBank(params PolyphaseParams) (*PolyphaseFilterBank, error) {
	if params.NumPhases == 0 {
		params.NumPhases = defaultNumPhases
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid polyphase parameters: %w", err)
	}

	taps := max(2*int(math.Ceil(params.Support)), minTaps)
	pfb := &PolyphaseFilterBank{
		NumPhases:    params.NumPhases,
		TapsPerPhase: taps,
		InterpOrder:  params.InterpOrder,
		Support:      params.Support,
		Normalized:   params.Normalize,
	}

	// Rows for phases -1 .. NumPhases+1 so every phase has its neighbours.
	rows := make([][]float64, params.NumPhases+prevPhaseLookback+secondNextPhaseOffset)
	for i := range rows {
		rows[i] = pfb.sampleRow(params, i-prevPhaseLookback)
	}
	pfb.Coeffs = decomposePolyphase(rows, params.NumPhases, taps, params.InterpOrder)
	return pfb, nil
}

// sampleRow evaluates the taps of one phase. Phases outside [0, NumPhases)
// are the neighbouring offsets, used only for interpolation.
func (pfb *PolyphaseFilterBank) sampleRow(params PolyphaseParams, phase int) []float64 {
	row := make([]float64, pfb.TapsPerPhase)
	frac := float64(phase) / float64(params.NumPhases)
	center := pfb.TapsPerPhase/2 - 1
	for t := range row {
		row[t] = params.Kernel(float64(t-center) - frac)
	}
	if params.Normalize {
		simdops.Normalize(row)
	}
	return row
}

// decomposePolyphase computes the interpolation coefficients of every tap
// and phase from the sampled rows. rows[i] holds phase i-1.
func decomposePolyphase(rows [][]float64, numPhases, tapsPerPhase int, interpOrder InterpOrder) []float64 {
	coeffsPerTap := int(interpOrder) + 1
	coeffs := make([]float64, tapsPerPhase*numPhases*coeffsPerTap)

	at := func(phase, tap int) float64 {
		return rows[phase+prevPhaseLookback][tap]
	}

	for tap := range tapsPerPhase {
		for phase := range numPhases {
			f0 := at(phase, tap)
			f1 := at(phase+nextPhaseOffset, tap)
			fm1 := at(phase-prevPhaseLookback, tap)
			f2 := at(phase+secondNextPhaseOffset, tap)

			baseIdx := (tap*numPhases + phase) * coeffsPerTap

			switch interpOrder {
			case InterpNone:
				coeffs[baseIdx] = f0

			case InterpLinear:
				coeffs[baseIdx] = f0
				coeffs[baseIdx+1] = f1 - f0

			case InterpCubic:
				// Centered finite differences through fm1, f0, f1, f2.
				c := cubicCenterCoeff*(f1+fm1) - f0
				d := cubicDCoeff * (f2 - f1 + fm1 - f0 - cubicCMultiplier*c)
				b := f1 - f0 - d - c

				coeffs[baseIdx] = f0
				coeffs[baseIdx+1] = b
				coeffs[baseIdx+2] = c
				coeffs[baseIdx+3] = d
			}
		}
	}

	return coeffs
}

// GetCoefficient returns the interpolated coefficient for a given tap and fractional phase.
//
// Parameters:
//   - tap: The tap index (0 to TapsPerPhase-1)
//   - phase: The integer phase index (0 to NumPhases-1)
//   - frac: The fractional phase position [0, 1) for sub-phase interpolation
func (pfb *PolyphaseFilterBank) GetCoefficient(tap, phase int, frac float64) float64 {
	coeffsPerTap := int(pfb.InterpOrder) + 1
	baseIdx := (tap*pfb.NumPhases + phase) * coeffsPerTap

	switch pfb.InterpOrder {
	case InterpLinear:
		return pfb.Coeffs[baseIdx] + pfb.Coeffs[baseIdx+1]*frac

	case InterpCubic:
		// Horner's method
		f0 := pfb.Coeffs[baseIdx]
		b := pfb.Coeffs[baseIdx+1]
		c := pfb.Coeffs[baseIdx+2]
		d := pfb.Coeffs[baseIdx+3]
		return f0 + (b+(c+d*frac)*frac)*frac

	default:
		return pfb.Coeffs[baseIdx]
	}
}

// Weights returns the tap weights for a sample point at fractional offset
// offset in [0, 1), interpolating between phases.
func (pfb *PolyphaseFilterBank) Weights(offset float64) []float64 {
	pos := offset * float64(pfb.NumPhases)
	phase := int(math.Floor(pos))
	frac := pos - float64(phase)
	phase = min(max(phase, 0), pfb.NumPhases-1)

	out := make([]float64, pfb.TapsPerPhase)
	for tap := range out {
		out[tap] = pfb.GetCoefficient(tap, phase, frac)
	}
	return out
}

// Phase returns the uninterpolated taps of one phase.
func (pfb *PolyphaseFilterBank) Phase(phase int) []float64 {
	out := make([]float64, pfb.TapsPerPhase)
	for tap := range out {
		out[tap] = pfb.GetCoefficient(tap, phase, 0)
	}
	return out
}

// PhaseGain returns the DC gain of one phase, the sum of its taps.
func (pfb *PolyphaseFilterBank) PhaseGain(phase int) float64 {
	return simdops.For[float64]().Sum(pfb.Phase(phase))
}

// ComputeFrequencyResponse computes the frequency response of one phase,
// the fractional delay filter the phase applies.
func (pfb *PolyphaseFilterBank) ComputeFrequencyResponse(phase, numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}
	return ComputeFrequencyResponse(pfb.Phase(phase), numPoints)
}

// GetMemoryUsage returns the approximate memory usage in bytes.
func (pfb *PolyphaseFilterBank) GetMemoryUsage() int64 {
	const bytesPerFloat64 = 8
	return int64(len(pfb.Coeffs)) * bytesPerFloat64
}
