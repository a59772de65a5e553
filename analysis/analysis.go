// Package analysis measures the spatial and frequency behaviour of kernels:
// sampled impulse responses, frequency responses, the DC gain of every
// sub-pixel phase and the normalised tap weights a resizer would use.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	kernels "github.com/tphakala/go-video-kernels"
	"github.com/tphakala/go-video-kernels/internal/filter"
	"github.com/tphakala/go-video-kernels/internal/simdops"
)

const (
	// DefaultOversample is the number of impulse samples per source pixel.
	DefaultOversample = 64
	// DefaultPoints is the default frequency response resolution.
	DefaultPoints = 512
	// DefaultPhases is the default number of sub-pixel phases.
	DefaultPhases = 64

	minTaps = 2
)

// ImpulseResponse is a kernel sampled on a regular grid centered on zero.
type ImpulseResponse struct {
	// Step is the distance between samples in source pixels.
	Step float64
	// Samples[i] is the kernel at (i - len(Samples)/2) * Step.
	Samples []float64
}

// Impulse samples k over its support at oversample points per pixel.
func Impulse(k *kernels.Kernel, oversample int) (ImpulseResponse, error) {
	if oversample < 1 {
		return ImpulseResponse{}, fmt.Errorf("%w: oversample must be at least 1, got %d", kernels.ErrInvalidConfig, oversample)
	}
	half := int(math.Ceil(k.Support() * float64(oversample)))
	step := 1 / float64(oversample)
	samples := make([]float64, 2*half+1)
	for i := range samples {
		samples[i] = k.At(float64(i-half) * step)
	}
	// Point samples as 1 everywhere; its impulse is the unit sample.
	if half == 0 {
		samples[0] = 1
	}
	return ImpulseResponse{Step: step, Samples: samples}, nil
}

// Response is a magnitude and phase response over frequency.
type Response struct {
	// Frequencies in cycles per source pixel; 0.5 is the source Nyquist.
	Frequencies []float64
	// Magnitude relative to the DC gain.
	Magnitude []float64
	// Phase in radians.
	Phase []float64
}

// FrequencyResponse returns the spectrum of the impulse response of k from
// DC up to 0.5 cycles per pixel, in points bins. The impulse is sampled at
// oversample points per pixel and zero padded for the transform.
func FrequencyResponse(k *kernels.Kernel, oversample, points int) (Response, error) {
	if points < 1 {
		return Response{}, fmt.Errorf("%w: points must be at least 1, got %d", kernels.ErrInvalidConfig, points)
	}
	imp, err := Impulse(k, oversample)
	if err != nil {
		return Response{}, err
	}

	// points bins span [0, 0.5) cycles per pixel, so the transform covers
	// oversample cycles per pixel in 2*points*oversample bins.
	n := max(2*points*oversample, len(imp.Samples))
	seq := make([]float64, n)
	copy(seq, imp.Samples)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	dc := cmplx.Abs(coeffs[0])
	if dc == 0 {
		return Response{}, fmt.Errorf("%w: %s has no DC gain", kernels.ErrInvalidConfig, k)
	}
	center := float64(len(imp.Samples) / 2)

	resp := Response{
		Frequencies: make([]float64, points),
		Magnitude:   make([]float64, points),
		Phase:       make([]float64, points),
	}
	for i := range points {
		c := coeffs[i]
		freq := fft.Freq(i) * float64(oversample)
		// Undo the delay of the centre sample so symmetric kernels have
		// zero phase.
		c *= cmplx.Rect(1, 2*math.Pi*fft.Freq(i)*center)
		resp.Frequencies[i] = freq
		resp.Magnitude[i] = cmplx.Abs(c) / dc
		resp.Phase[i] = cmplx.Phase(c)
	}
	return resp, nil
}

// MagnitudeDB converts a linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	return filter.MagnitudeDB(magnitude)
}

func bank(k *kernels.Kernel, phases int, normalize bool) (*filter.PolyphaseFilterBank, error) {
	pfb, err := filter.DesignPolyphaseFilterBank(filter.PolyphaseParams{
		Kernel:    filter.KernelFunc(k.Func()),
		Support:   k.Support(),
		NumPhases: phases,
		Normalize: normalize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kernels.ErrInvalidConfig, err)
	}
	return pfb, nil
}

// PhaseGains returns the sum of the integer tap weights of k at each of
// phases evenly spaced sub-pixel offsets. An interpolating kernel that
// reproduces flat fields has a gain of 1 at every phase.
func PhaseGains(k *kernels.Kernel, phases int) ([]float64, error) {
	pfb, err := bank(k, phases, false)
	if err != nil {
		return nil, err
	}
	gains := make([]float64, phases)
	for p := range gains {
		gains[p] = pfb.PhaseGain(p)
	}
	return gains, nil
}

// PhaseResponse returns the frequency response of the fractional delay
// filter k applies at one sub-pixel phase.
func PhaseResponse(k *kernels.Kernel, phases, phase, points int) (filter.FilterResponse, error) {
	if phase < 0 || phase >= phases {
		return filter.FilterResponse{}, fmt.Errorf("%w: phase %d of %d", kernels.ErrInvalidConfig, phase, phases)
	}
	pfb, err := bank(k, phases, true)
	if err != nil {
		return filter.FilterResponse{}, err
	}
	return pfb.ComputeFrequencyResponse(phase, points), nil
}

// Weights returns the normalised tap weights of k for a sample point at
// fractional offset in [0, 1). Tap t sits at distance
// t - (len/2 - 1) - offset from the sample point.
func Weights(k *kernels.Kernel, offset float64) ([]float64, error) {
	if offset < 0 || offset >= 1 {
		return nil, fmt.Errorf("%w: offset %v outside [0, 1)", kernels.ErrInvalidConfig, offset)
	}
	taps := max(2*int(math.Ceil(k.Support())), minTaps)
	center := taps/2 - 1
	w := make([]float64, taps)

	if k.Support() == 0 {
		nearest := center + int(math.Round(offset))
		w[nearest] = 1
		return w, nil
	}
	for t := range w {
		w[t] = k.At(float64(t-center) - offset)
	}
	if !simdops.Normalize(w) {
		return nil, fmt.Errorf("%w: %s weights sum to zero at offset %v", kernels.ErrInvalidConfig, k, offset)
	}
	return w, nil
}
