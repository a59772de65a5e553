package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kernels "github.com/tphakala/go-video-kernels"
)

func TestWriteImpulse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bilinear.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	cfg := config{oversample: 4, rate: defaultRate, bitDepth: bitsPerSample16, repeat: 2}
	n, err := writeImpulse(f, kernels.NewBilinear(), cfg)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	// 9 impulse samples plus 9 of silence, twice.
	assert.Equal(t, 36, n)

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	dec := wav.NewDecoder(in)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	require.Len(t, buf.Data, n)
	assert.Equal(t, defaultRate, buf.Format.SampleRate)
	assert.Equal(t, 32767, buf.Data[4])
	assert.Equal(t, 16384, buf.Data[2])
	assert.Equal(t, 32767, buf.Data[18+4])
	assert.Zero(t, buf.Data[12])
}

func TestWriteImpulse_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = writeImpulse(f, kernels.NewBilinear(), config{oversample: 4, rate: defaultRate, bitDepth: 8, repeat: 1})
	assert.Error(t, err)
	_, err = writeImpulse(f, kernels.NewBilinear(), config{oversample: 4, rate: defaultRate, bitDepth: 16, repeat: 0})
	assert.Error(t, err)
	_, err = writeImpulse(f, kernels.NewBilinear(), config{oversample: 0, rate: defaultRate, bitDepth: 16, repeat: 1})
	require.ErrorIs(t, err, kernels.ErrInvalidConfig)
}
