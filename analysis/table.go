package analysis

import (
	"fmt"
	"math"
	"strings"

	kernels "github.com/tphakala/go-video-kernels"
	"github.com/tphakala/go-video-kernels/internal/filter"
)

// Interp is the order a weight table interpolates between its phases with.
type Interp int

// Interpolation orders.
const (
	InterpNone   = Interp(filter.InterpNone)
	InterpLinear = Interp(filter.InterpLinear)
	InterpCubic  = Interp(filter.InterpCubic)
)

// DefaultTableSamples is the number of offsets TableError checks.
const DefaultTableSamples = 1024

func (i Interp) String() string {
	switch i {
	case InterpNone:
		return "none"
	case InterpLinear:
		return "linear"
	case InterpCubic:
		return "cubic"
	default:
		return fmt.Sprintf("Interp(%d)", int(i))
	}
}

// ParseInterp parses "none", "linear" or "cubic", case-insensitively.
func ParseInterp(s string) (Interp, error) {
	for _, i := range []Interp{InterpNone, InterpLinear, InterpCubic} {
		if strings.EqualFold(strings.TrimSpace(s), i.String()) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown interpolation %q", kernels.ErrInvalidConfig, s)
}

// TableAccuracy describes a precomputed weight table.
type TableAccuracy struct {
	Phases int
	Interp Interp
	// MaxError is the largest absolute difference between a table weight
	// and the exact normalised weight.
	MaxError float64
	// Bytes is the size of the table's coefficients.
	Bytes int64
}

// TableError measures a weight lookup table of k with the given phase
// count and interpolation against exact weights at samples offsets, each
// centred in its own slice of [0, 1).
func TableError(k *kernels.Kernel, phases int, interp Interp, samples int) (TableAccuracy, error) {
	if samples < 1 {
		return TableAccuracy{}, fmt.Errorf("%w: samples must be at least 1, got %d", kernels.ErrInvalidConfig, samples)
	}
	pfb, err := filter.DesignPolyphaseFilterBank(filter.PolyphaseParams{
		Kernel:      filter.KernelFunc(k.Func()),
		Support:     k.Support(),
		NumPhases:   phases,
		InterpOrder: filter.InterpOrder(interp),
		Normalize:   true,
	})
	if err != nil {
		return TableAccuracy{}, fmt.Errorf("%w: %w", kernels.ErrInvalidConfig, err)
	}

	acc := TableAccuracy{Phases: phases, Interp: interp, Bytes: pfb.GetMemoryUsage()}
	for i := range samples {
		offset := (float64(i) + 0.5) / float64(samples)
		exact, err := Weights(k, offset)
		if err != nil {
			return TableAccuracy{}, err
		}
		for t, w := range pfb.Weights(offset) {
			acc.MaxError = math.Max(acc.MaxError, math.Abs(w-exact[t]))
		}
	}
	return acc, nil
}
