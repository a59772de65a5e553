package imagert

import (
	"fmt"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	kernels "github.com/tphakala/go-video-kernels"
)

const maxSample16 = 0xffff

// FromImage returns a single-frame clip of img. Gray images become Gray16
// clips; everything else is RGB48 with alpha discarded. The clip is tagged
// with the sRGB transfer.
func FromImage(img image.Image) (*Clip, error) {
	b := img.Bounds()
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		c, err := NewClip(b.Dx(), b.Dy(), kernels.FormatGray16, 1)
		if err != nil {
			return nil, err
		}
		gray := image.NewGray16(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Copy(gray, image.Point{}, img, b, xdraw.Src, nil)
		p := c.Frames[0][0]
		for y := range p.Height {
			row := p.Row(y)
			for x := range row {
				row[x] = float64(gray.Gray16At(x, y).Y) / maxSample16
			}
		}
		c.props.Transfer = kernels.TransferSRGB
		return c, nil
	}

	c, err := NewClip(b.Dx(), b.Dy(), kernels.FormatRGB48, 1)
	if err != nil {
		return nil, err
	}
	rgba := image.NewNRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(rgba, image.Point{}, img, b, xdraw.Src, nil)
	pic := c.Frames[0]
	for y := range b.Dy() {
		for x := range b.Dx() {
			px := rgba.NRGBA64At(x, y)
			pic[0].Set(x, y, float64(px.R)/maxSample16)
			pic[1].Set(x, y, float64(px.G)/maxSample16)
			pic[2].Set(x, y, float64(px.B)/maxSample16)
		}
	}
	c.props.Matrix = kernels.MatrixRGB
	c.props.Transfer = kernels.TransferSRGB
	return c, nil
}

// Image renders frame n of an RGB or Gray clip. Samples are clamped to the
// nominal range.
func (c *Clip) Image(n int) (image.Image, error) {
	if n < 0 || n >= len(c.Frames) {
		return nil, fmt.Errorf("%w: frame %d of %d", kernels.ErrInvalidConfig, n, len(c.Frames))
	}
	pic := c.Frames[n]
	rect := image.Rect(0, 0, c.width, c.height)

	switch c.format.Family {
	case kernels.ColorFamilyGray:
		img := image.NewGray16(rect)
		for y := range c.height {
			for x := range c.width {
				img.SetGray16(x, y, color.Gray16{Y: to16(pic[0].At(x, y))})
			}
		}
		return img, nil
	case kernels.ColorFamilyRGB:
		img := image.NewNRGBA64(rect)
		for y := range c.height {
			for x := range c.width {
				img.SetNRGBA64(x, y, color.NRGBA64{
					R: to16(pic[0].At(x, y)),
					G: to16(pic[1].At(x, y)),
					B: to16(pic[2].At(x, y)),
					A: maxSample16,
				})
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: %s frames have to be converted to RGB first", kernels.ErrNotSupported, c.format.Family)
	}
}

func to16(v float64) uint16 {
	return uint16(math.Round(math.Min(math.Max(v, 0), 1) * maxSample16))
}
