package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func rowSums(m *mat.Dense) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = floats.Sum(m.RawRowView(i))
	}
	return out
}

func TestEdge_Fold(t *testing.T) {
	tests := []struct {
		edge   Edge
		i, n   int
		want   int
		wantOK bool
	}{
		{EdgeMirror, 2, 4, 2, true},
		{EdgeMirror, -1, 4, 0, true},
		{EdgeMirror, -2, 4, 1, true},
		{EdgeMirror, 4, 4, 3, true},
		{EdgeMirror, 5, 4, 2, true},
		{EdgeMirror, 9, 4, 1, true},
		{EdgeMirror, -9, 4, 0, true},
		{EdgeRepeat, -3, 4, 0, true},
		{EdgeRepeat, 7, 4, 3, true},
		{EdgeZero, -1, 4, 0, false},
		{EdgeZero, 4, 4, 0, false},
		{EdgeZero, 3, 4, 3, true},
	}

	for _, tt := range tests {
		got, ok := tt.edge.Fold(tt.i, tt.n)
		assert.Equal(t, tt.wantOK, ok, "edge %d Fold(%d, %d)", tt.edge, tt.i, tt.n)
		if ok {
			assert.Equal(t, tt.want, got, "edge %d Fold(%d, %d)", tt.edge, tt.i, tt.n)
		}
	}
}

func TestResizeMatrix_Identity(t *testing.T) {
	m, err := ResizeMatrix(ResizeParams{Kernel: catrom, Support: 2, SrcLen: 7, DstLen: 7})
	require.NoError(t, err)

	for i := range 7 {
		for j := range 7 {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, m.At(i, j), coeffTolerance, "(%d, %d)", i, j)
		}
	}
}

func TestResizeMatrix_Edges(t *testing.T) {
	base := ResizeParams{Kernel: triangle, Support: 1, SrcLen: 4, DstLen: 8}

	mirror, err := ResizeMatrix(base)
	require.NoError(t, err)
	// The first output sample sits at -0.25; its left tap folds back onto sample 0.
	assert.InDelta(t, 1.0, mirror.At(0, 0), coeffTolerance)
	for _, s := range rowSums(mirror) {
		assert.InDelta(t, 1.0, s, coeffTolerance)
	}

	base.Edge = EdgeRepeat
	repeat, err := ResizeMatrix(base)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, repeat.At(0, 0), coeffTolerance)

	base.Edge = EdgeZero
	zero, err := ResizeMatrix(base)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, zero.At(0, 0), coeffTolerance)
	sums := rowSums(zero)
	assert.InDelta(t, 0.75, sums[0], coeffTolerance)
	assert.InDelta(t, 1.0, sums[3], coeffTolerance)
	assert.InDelta(t, 0.75, sums[7], coeffTolerance)
}

func TestResizeMatrix_Downscale(t *testing.T) {
	m, err := ResizeMatrix(ResizeParams{Kernel: triangle, Support: 1, SrcLen: 8, DstLen: 4})
	require.NoError(t, err)

	// Halving doubles the kernel width: output 1 sits at 2.5 and reaches
	// samples 1 through 4 with weights 1:3:3:1.
	row := m.RawRowView(1)
	assert.InDelta(t, 0.125, row[1], coeffTolerance)
	assert.InDelta(t, 0.375, row[2], coeffTolerance)
	assert.InDelta(t, 0.375, row[3], coeffTolerance)
	assert.InDelta(t, 0.125, row[4], coeffTolerance)
	for _, s := range rowSums(m) {
		assert.InDelta(t, 1.0, s, coeffTolerance)
	}
}

func TestResizeMatrix_Window(t *testing.T) {
	// A shifted window of half the source maps samples 2..5 one to one.
	m, err := ResizeMatrix(ResizeParams{
		Kernel: catrom, Support: 2, SrcLen: 8, DstLen: 4, Offset: 2, Window: 4,
	})
	require.NoError(t, err)
	for j := range 4 {
		assert.InDelta(t, 1.0, m.At(j, j+2), coeffTolerance, "row %d", j)
	}
}

func TestResizeMatrix_Nearest(t *testing.T) {
	m, err := ResizeMatrix(ResizeParams{SrcLen: 4, DstLen: 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.At(0, 1))
	assert.Equal(t, 1.0, m.At(1, 3))
	for _, s := range rowSums(m) {
		assert.Equal(t, 1.0, s)
	}
}

func TestResizeParams_Validate(t *testing.T) {
	bad := []ResizeParams{
		{Support: 2, SrcLen: 4, DstLen: 4},
		{Kernel: catrom, Support: 2, SrcLen: 0, DstLen: 4},
		{Kernel: catrom, Support: 2, SrcLen: 4, DstLen: -1},
		{Kernel: catrom, Support: 2, SrcLen: 4, DstLen: 4, Window: -1},
		{Kernel: catrom, Support: -2, SrcLen: 4, DstLen: 4},
	}
	for i, p := range bad {
		_, err := ResizeMatrix(p)
		assert.Error(t, err, "case %d", i)
	}
}
