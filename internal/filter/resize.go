package filter

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-video-kernels/internal/simdops"
)

// Edge selects how taps that fall outside the source are handled.
type Edge int

const (
	// EdgeMirror reflects positions about the outer sample edges.
	EdgeMirror Edge = iota
	// EdgeZero treats samples outside the source as zero.
	EdgeZero
	// EdgeRepeat extends the outermost samples.
	EdgeRepeat
)

// Fold maps position i onto a source of length n.
func (e Edge) Fold(i, n int) (int, bool) {
	if i >= 0 && i < n {
		return i, true
	}
	switch e {
	case EdgeZero:
		return 0, false
	case EdgeRepeat:
		return min(max(i, 0), n-1), true
	default:
		period := 2 * n
		i %= period
		if i < 0 {
			i += period
		}
		if i >= n {
			i = period - 1 - i
		}
		return i, true
	}
}

// ResizeParams describe one dimension of a resize.
type ResizeParams struct {
	// Kernel is the continuous kernel. A zero Support selects nearest neighbour.
	Kernel  KernelFunc
	Support float64

	SrcLen int
	DstLen int

	// Offset and Window select the source region mapped onto the
	// destination, in source samples. A zero Window is the whole source.
	Offset float64
	Window float64

	Edge Edge
}

// Validate checks the resize parameters.
func (p *ResizeParams) Validate() error {
	if p.Kernel == nil && p.Support > 0 {
		return fmt.Errorf("kernel function is nil")
	}
	if p.SrcLen <= 0 || p.DstLen <= 0 {
		return fmt.Errorf("lengths must be positive, got %d -> %d", p.SrcLen, p.DstLen)
	}
	if p.Window < 0 || math.IsNaN(p.Window) || math.IsNaN(p.Offset) {
		return fmt.Errorf("invalid source window %v at %v", p.Window, p.Offset)
	}
	if p.Support < 0 {
		return fmt.Errorf("support %v must be non-negative", p.Support)
	}
	return nil
}

// ResizeMatrix returns the DstLen x SrcLen weight matrix of the resize.
// Row j holds the contributions of every source sample to destination
// sample j. Rows sum to one, except where EdgeZero drops taps.
func ResizeMatrix(p ResizeParams) (*mat.Dense, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resize parameters: %w", err)
	}

	window := p.Window
	if window == 0 {
		window = float64(p.SrcLen)
	}
	step := window / float64(p.DstLen)

	// Downscaling widens the kernel to filter the source down to the
	// destination's bandwidth.
	stretch := math.Max(step, 1)
	support := p.Support * stretch

	ops := simdops.For[float64]()
	m := mat.NewDense(p.DstLen, p.SrcLen, nil)
	row := make([]float64, p.SrcLen)

	for j := range p.DstLen {
		clear(row)
		pos := p.Offset + (float64(j)+0.5)*step - 0.5

		if p.Support == 0 {
			if idx, ok := p.Edge.Fold(int(math.Floor(pos+0.5)), p.SrcLen); ok {
				row[idx] = 1
			}
			m.SetRow(j, row)
			continue
		}

		total := 0.0
		lo := int(math.Floor(pos - support))
		hi := int(math.Ceil(pos + support))
		for i := lo; i <= hi; i++ {
			w := p.Kernel((float64(i) - pos) / stretch)
			if w == 0 {
				continue
			}
			total += w
			if idx, ok := p.Edge.Fold(i, p.SrcLen); ok {
				row[idx] += w
			}
		}
		if total != 0 {
			ops.Scale(row, row, 1/total)
		}
		m.SetRow(j, row)
	}
	return m, nil
}
