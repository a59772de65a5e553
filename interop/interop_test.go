package interop

import (
	"image"
	"image/color"
	"testing"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	kernels "github.com/tphakala/go-video-kernels"
)

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDrawInterpolator(t *testing.T) {
	interp, err := DrawInterpolator(kernels.NewCatrom())
	require.NoError(t, err)
	k, ok := interp.(*draw.Kernel)
	require.True(t, ok)
	assert.Equal(t, 2.0, k.Support)
	assert.InDelta(t, 1.0, k.At(0), 1e-12)
	assert.InDelta(t, 0.0, k.At(1), 1e-12)

	interp, err = DrawInterpolator(kernels.NewPoint())
	require.NoError(t, err)
	assert.Equal(t, draw.NearestNeighbor, interp)

	_, err = DrawInterpolator(kernels.NewEwaLanczos(3))
	require.ErrorIs(t, err, kernels.ErrNotSupported)
}

func TestImagingFilter(t *testing.T) {
	f, err := ImagingFilter(kernels.NewLanczos(3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, f.Support)

	red := color.NRGBA{R: 200, G: 10, B: 30, A: 255}
	out := imaging.Resize(uniform(8, 8, red), 20, 12, f)
	assert.Equal(t, 20, out.Bounds().Dx())
	assert.Equal(t, red, out.NRGBAAt(10, 6))

	f, err = ImagingFilter(kernels.NewPoint())
	require.NoError(t, err)
	assert.Equal(t, 0.0, f.Support)

	_, err = ImagingFilter(kernels.NewEwaRobidoux())
	require.ErrorIs(t, err, kernels.ErrNotSupported)
}

func TestBildFilter(t *testing.T) {
	f, err := BildFilter(kernels.NewSpline36())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f.Fn(0), 1e-9)

	gray := color.NRGBA{R: 90, G: 90, B: 90, A: 255}
	out := transform.Resize(uniform(6, 6, gray), 9, 9, f)
	assert.Equal(t, color.RGBA{R: 90, G: 90, B: 90, A: 255}, out.RGBAAt(4, 4))

	_, err = BildFilter(kernels.NewEwaJinc(3))
	require.ErrorIs(t, err, kernels.ErrNotSupported)
}

func TestResize(t *testing.T) {
	blue := color.NRGBA{B: 255, A: 255}
	out, err := Resize(uniform(4, 4, blue), 7, 5, kernels.NewMitchell())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 7, 5), out.Bounds())
	px := out.NRGBA64At(3, 2)
	assert.LessOrEqual(t, px.R, uint16(1))
	assert.GreaterOrEqual(t, px.B, uint16(0xfffe))
	assert.GreaterOrEqual(t, px.A, uint16(0xfffe))

	_, err = Resize(uniform(4, 4, blue), 0, 5, kernels.NewMitchell())
	require.ErrorIs(t, err, kernels.ErrDimension)
}
