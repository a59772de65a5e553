package simdops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	w := []float64{1, 2, 1}
	assert.True(t, Normalize(w))
	assert.InDeltaSlice(t, []float64{0.25, 0.5, 0.25}, w, 1e-12)

	w32 := []float32{2, 2}
	assert.True(t, Normalize(w32))
	assert.InDelta(t, 0.5, float64(w32[0]), 1e-6)

	zero := []float64{1, -1}
	assert.False(t, Normalize(zero))
	assert.Equal(t, []float64{1, -1}, zero)
}

func TestDot(t *testing.T) {
	assert.InDelta(t, 32.0, Dot([]float64{1, 2, 3}, []float64{4, 5, 6}), 1e-12)
	assert.InDelta(t, 0.0, Dot([]float64{}, []float64{}), 0)
	assert.Panics(t, func() { Dot([]float64{1}, []float64{1, 2}) })
}
