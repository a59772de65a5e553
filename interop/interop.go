// Package interop exposes kernels as the resampling filters of the Go image
// libraries: golang.org/x/image/draw, disintegration/imaging and
// anthonynsimon/bild.
//
// Those libraries resize separably on gamma-encoded 8 or 16-bit images, so
// only the kernel function and its support carry over. Radial (EWA) kernels
// have no separable equivalent and are rejected.
package interop

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	kernels "github.com/tphakala/go-video-kernels"
)

func separable(k *kernels.Kernel) error {
	if kernels.IsEWA(k.Type()) {
		return fmt.Errorf("%w: %s is a radial kernel", kernels.ErrNotSupported, k)
	}
	return nil
}

func isPoint(k *kernels.Kernel) bool {
	return k.Type() == kernels.TypePoint
}

// DrawInterpolator returns k as an x/image/draw interpolator. Point maps to
// draw.NearestNeighbor.
func DrawInterpolator(k *kernels.Kernel) (draw.Interpolator, error) {
	if err := separable(k); err != nil {
		return nil, err
	}
	if isPoint(k) {
		return draw.NearestNeighbor, nil
	}
	return &draw.Kernel{Support: k.Support(), At: k.Func()}, nil
}

// ImagingFilter returns k as an imaging resample filter.
func ImagingFilter(k *kernels.Kernel) (imaging.ResampleFilter, error) {
	if err := separable(k); err != nil {
		return imaging.ResampleFilter{}, err
	}
	if isPoint(k) {
		return imaging.NearestNeighbor, nil
	}
	return imaging.ResampleFilter{Support: k.Support(), Kernel: k.Func()}, nil
}

// BildFilter returns k as a bild resample filter.
func BildFilter(k *kernels.Kernel) (transform.ResampleFilter, error) {
	if err := separable(k); err != nil {
		return transform.ResampleFilter{}, err
	}
	if isPoint(k) {
		return transform.NearestNeighbor, nil
	}
	return transform.ResampleFilter{Support: k.Support(), Fn: k.Func()}, nil
}

// Resize scales img to width x height with k through x/image/draw.
func Resize(img image.Image, width, height int, k *kernels.Kernel) (*image.NRGBA64, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", kernels.ErrDimension, width, height)
	}
	interp, err := DrawInterpolator(k)
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA64(image.Rect(0, 0, width, height))
	interp.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}
