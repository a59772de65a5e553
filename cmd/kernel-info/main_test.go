package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kernels "github.com/tphakala/go-video-kernels"
)

func TestParseParams(t *testing.T) {
	args := parseParams(map[string]string{"taps": "4", "name": "x"})
	assert.Equal(t, kernels.Args{"taps": 4.0, "name": "x"}, args)
}

func TestList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, list(&buf))
	out := buf.String()
	assert.Contains(t, out, "Catrom")
	assert.Contains(t, out, "EwaLanczos")
	assert.NotContains(t, out, "FmtConv ")
}

func TestDescribe(t *testing.T) {
	k, err := kernels.NewKernel(kernels.TypeLanczos, parseParams(map[string]string{"taps": "4"}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, describe(&buf, k, 1280, 720))
	out := buf.String()
	assert.Contains(t, out, "Radius: 4")
	assert.Contains(t, out, "Scale request:")
	assert.Contains(t, out, "Descale request:")
	assert.Contains(t, out, "width = 1280")
}
