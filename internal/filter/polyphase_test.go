package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-video-kernels/internal/mathutil"
	"github.com/tphakala/go-video-kernels/internal/testutil"
)

const (
	testNumPhases64  = 64
	testNumPhases256 = 256

	coeffTolerance = 1e-10
	interpTolerance = 1e-9
)

func triangle(x float64) float64 { return math.Max(1-math.Abs(x), 0) }

func catrom(x float64) float64 { return mathutil.Bicubic(x, 0, 0.5) }

func lanczos3(x float64) float64 {
	x = math.Abs(x)
	if x >= 3 {
		return 0
	}
	return mathutil.Sinc(x) * mathutil.Sinc(x/3)
}

// TestPolyphaseParams_Validate tests parameter validation.
func TestPolyphaseParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  PolyphaseParams
		wantErr bool
	}{
		{
			name:   "valid_params",
			params: PolyphaseParams{Kernel: catrom, Support: 2, NumPhases: testNumPhases256, InterpOrder: InterpLinear},
		},
		{
			name:    "too_few_phases",
			params:  PolyphaseParams{Kernel: catrom, Support: 2, NumPhases: 1},
			wantErr: true,
		},
		{
			name:    "too_many_phases",
			params:  PolyphaseParams{Kernel: catrom, Support: 2, NumPhases: 10000},
			wantErr: true,
		},
		{
			name:    "nil_kernel",
			params:  PolyphaseParams{Support: 2, NumPhases: testNumPhases256},
			wantErr: true,
		},
		{
			name:    "negative_support",
			params:  PolyphaseParams{Kernel: catrom, Support: -1, NumPhases: testNumPhases256},
			wantErr: true,
		},
		{
			name: "invalid_interp_order",
			params: PolyphaseParams{
				Kernel:      catrom,
				Support:     2,
				NumPhases:   testNumPhases256,
				InterpOrder: InterpOrder(2), // Invalid: only 0, 1, 3 allowed
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err, "expected validation error")
			} else {
				assert.NoError(t, err, "unexpected validation error")
			}
		})
	}
}

// TestDesignPolyphaseFilterBank tests basic polyphase filter bank design.
func TestDesignPolyphaseFilterBank(t *testing.T) {
	params := PolyphaseParams{Kernel: lanczos3, Support: 3, NumPhases: testNumPhases64, InterpOrder: InterpCubic}

	pfb, err := DesignPolyphaseFilterBank(params)
	require.NoError(t, err)

	assert.Equal(t, testNumPhases64, pfb.NumPhases)
	assert.Equal(t, 6, pfb.TapsPerPhase)
	assert.Equal(t, 6*testNumPhases64*4, len(pfb.Coeffs))
	testutil.AssertNoNaNOrInf(t, pfb.Coeffs)

	_, err = DesignPolyphaseFilterBank(PolyphaseParams{Support: 2})
	assert.Error(t, err)
}

func TestDesignPolyphaseFilterBank_DefaultPhases(t *testing.T) {
	pfb, err := DesignPolyphaseFilterBank(PolyphaseParams{Kernel: triangle, Support: 1})
	require.NoError(t, err)
	assert.Equal(t, defaultNumPhases, pfb.NumPhases)
	assert.Equal(t, 2, pfb.TapsPerPhase)

	pfb, err = DesignPolyphaseFilterBank(PolyphaseParams{Kernel: func(float64) float64 { return 1 }})
	require.NoError(t, err)
	assert.Equal(t, minTaps, pfb.TapsPerPhase, "zero support keeps two taps")
}

// TestPolyphaseFilterBank_Structure checks which source positions the taps address.
func TestPolyphaseFilterBank_Structure(t *testing.T) {
	pfb, err := DesignPolyphaseFilterBank(PolyphaseParams{Kernel: triangle, Support: 2, NumPhases: testNumPhases256})
	require.NoError(t, err)

	testutil.AssertSlicesInDelta(t, []float64{0, 1, 0, 0}, pfb.Phase(0), coeffTolerance)
	testutil.AssertSlicesInDelta(t, []float64{0, 0.5, 0.5, 0}, pfb.Phase(testNumPhases256/2), coeffTolerance)
	testutil.AssertSlicesInDelta(t, []float64{0, 0.25, 0.75, 0}, pfb.Phase(3*testNumPhases256/4), coeffTolerance)
}

// TestPolyphaseFilterBank_InterpolationOrders checks sub-phase interpolation
// against the kernel itself.
func TestPolyphaseFilterBank_InterpolationOrders(t *testing.T) {
	tests := []struct {
		name   string
		kernel KernelFunc
		order  InterpOrder
	}{
		// Piecewise linear kernels are reproduced by linear interpolation.
		{"linear_triangle", triangle, InterpLinear},
		// Piecewise cubic kernels are reproduced by cubic interpolation
		// away from the knots.
		{"cubic_catrom", catrom, InterpCubic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pfb, err := DesignPolyphaseFilterBank(PolyphaseParams{
				Kernel:      tt.kernel,
				Support:     2,
				NumPhases:   testNumPhases64,
				InterpOrder: tt.order,
			})
			require.NoError(t, err)

			const phase, frac = 20, 0.3
			offset := (phase + frac) / testNumPhases64
			weights := pfb.Weights(offset)
			for tap, w := range weights {
				want := tt.kernel(float64(tap-1) - offset)
				assert.InDelta(t, want, w, interpTolerance, "tap %d", tap)
			}
		})
	}
}

// TestPolyphaseFilterBank_GetCoefficient verifies phase-boundary values.
func TestPolyphaseFilterBank_GetCoefficient(t *testing.T) {
	pfb, err := DesignPolyphaseFilterBank(PolyphaseParams{
		Kernel:      catrom,
		Support:     2,
		NumPhases:   testNumPhases64,
		InterpOrder: InterpLinear,
	})
	require.NoError(t, err)

	for phase := range testNumPhases64 - 1 {
		for tap := range pfb.TapsPerPhase {
			end := pfb.GetCoefficient(tap, phase, 1)
			next := pfb.GetCoefficient(tap, phase+1, 0)
			assert.InDelta(t, next, end, coeffTolerance, "phase %d tap %d", phase, tap)
		}
	}
}

// TestPolyphaseFilterBank_DCGain checks per-phase normalization.
func TestPolyphaseFilterBank_DCGain(t *testing.T) {
	raw, err := DesignPolyphaseFilterBank(PolyphaseParams{Kernel: lanczos3, Support: 3, NumPhases: testNumPhases64})
	require.NoError(t, err)
	norm, err := DesignPolyphaseFilterBank(PolyphaseParams{
		Kernel: lanczos3, Support: 3, NumPhases: testNumPhases64, Normalize: true,
	})
	require.NoError(t, err)

	assert.False(t, raw.Normalized)
	assert.True(t, norm.Normalized)

	deviates := false
	for phase := range testNumPhases64 {
		if math.Abs(raw.PhaseGain(phase)-1) > 1e-6 {
			deviates = true
		}
		assert.InDelta(t, 1.0, norm.PhaseGain(phase), coeffTolerance, "phase %d", phase)
	}
	assert.True(t, deviates, "lanczos is not a partition of unity")
}

// TestPolyphaseFilterBank_FrequencyResponse tests frequency response computation.
func TestPolyphaseFilterBank_FrequencyResponse(t *testing.T) {
	pfb, err := DesignPolyphaseFilterBank(PolyphaseParams{Kernel: triangle, Support: 1, NumPhases: testNumPhases64})
	require.NoError(t, err)

	// Phase 0 is a pure pass-through.
	resp := pfb.ComputeFrequencyResponse(0, 0)
	require.Len(t, resp.Magnitude, defaultResponsePoints)
	for k, m := range resp.Magnitude {
		assert.InDelta(t, 1.0, m, coeffTolerance, "bin %d", k)
	}

	// The half-sample phase averages two taps and nulls Nyquist.
	resp = pfb.ComputeFrequencyResponse(testNumPhases64/2, 64)
	assert.InDelta(t, 1.0, resp.Magnitude[0], coeffTolerance)
	assert.Less(t, resp.Magnitude[63], 0.05)
	for k := 1; k < len(resp.Magnitude); k++ {
		assert.LessOrEqual(t, resp.Magnitude[k], resp.Magnitude[k-1]+coeffTolerance)
	}
}

// TestPolyphaseFilterBank_MemoryUsage tests memory usage calculation.
func TestPolyphaseFilterBank_MemoryUsage(t *testing.T) {
	pfb, err := DesignPolyphaseFilterBank(PolyphaseParams{Kernel: catrom, Support: 2, NumPhases: testNumPhases256})
	require.NoError(t, err)
	assert.Equal(t, int64(len(pfb.Coeffs))*8, pfb.GetMemoryUsage())
}

func TestMagnitudeDB(t *testing.T) {
	assert.InDelta(t, 0.0, MagnitudeDB(1), coeffTolerance)
	assert.InDelta(t, -20.0, MagnitudeDB(0.1), coeffTolerance)
	assert.InDelta(t, -200.0, MagnitudeDB(0), coeffTolerance)
}

func BenchmarkDesignPolyphaseFilterBank(b *testing.B) {
	params := PolyphaseParams{Kernel: lanczos3, Support: 3, NumPhases: testNumPhases256, InterpOrder: InterpCubic}
	b.ResetTimer()
	for b.Loop() {
		_, _ = DesignPolyphaseFilterBank(params)
	}
}

func BenchmarkPolyphaseWeights(b *testing.B) {
	pfb, err := DesignPolyphaseFilterBank(PolyphaseParams{
		Kernel: lanczos3, Support: 3, NumPhases: testNumPhases256, InterpOrder: InterpCubic,
	})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for b.Loop() {
		_ = pfb.Weights(0.37)
	}
}
