// Package imagert is a software reference implementation of the kernels
// Runtime on planar float64 frames.
//
// Samples are normalised regardless of the declared bit depth: luma, gray
// and RGB samples span [0, 1] and chroma samples are centered on zero,
// spanning [-0.5, 0.5]. Integer formats are quantised to their bit depth
// on conversion. All ranges are full range.
//
// The runtime is meant for tests, tools and small images: resizing builds
// dense weight matrices, and descaling solves dense least-squares problems.
package imagert

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	kernels "github.com/tphakala/go-video-kernels"
)

// Plane is one row-major plane of samples.
type Plane struct {
	Width  int
	Height int
	Data   []float64
}

// NewPlane allocates a zeroed plane.
func NewPlane(width, height int) Plane {
	return Plane{Width: width, Height: height, Data: make([]float64, width*height)}
}

// At returns the sample at (x, y).
func (p Plane) At(x, y int) float64 { return p.Data[y*p.Width+x] }

// Set stores the sample at (x, y).
func (p Plane) Set(x, y int, v float64) { p.Data[y*p.Width+x] = v }

// Row returns row y, sharing the plane's storage.
func (p Plane) Row(y int) []float64 { return p.Data[y*p.Width : (y+1)*p.Width] }

func (p Plane) clone() Plane {
	return Plane{Width: p.Width, Height: p.Height, Data: append([]float64(nil), p.Data...)}
}

// dense views the plane as a Height x Width matrix sharing its storage.
func (p Plane) dense() *mat.Dense {
	return mat.NewDense(p.Height, p.Width, p.Data)
}

func planeFromDense(m mat.Matrix) Plane {
	r, c := m.Dims()
	p := NewPlane(c, r)
	for y := range r {
		row := p.Row(y)
		for x := range c {
			row[x] = m.At(y, x)
		}
	}
	return p
}

// Picture holds the planes of one frame.
type Picture []Plane

func (pic Picture) clone() Picture {
	out := make(Picture, len(pic))
	for i, p := range pic {
		out[i] = p.clone()
	}
	return out
}

// Clip is a sequence of frames sharing a format, size and properties. Clips
// are treated as immutable: operations return new clips, which may share
// planes with their source.
type Clip struct {
	width  int
	height int
	format kernels.VideoFormat
	props  kernels.Props

	Frames []Picture
}

var _ kernels.Frame = (*Clip)(nil)

// NewClip allocates a clip of zeroed frames.
func NewClip(width, height int, format kernels.VideoFormat, frames int) (*Clip, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: clip size %dx%d", kernels.ErrDimension, width, height)
	}
	if err := kernels.CheckSubsampling(format, width, height); err != nil {
		return nil, err
	}
	if frames < 1 {
		return nil, fmt.Errorf("%w: a clip needs at least one frame, got %d", kernels.ErrInvalidConfig, frames)
	}

	c := &Clip{width: width, height: height, format: format}
	c.Frames = make([]Picture, frames)
	for i := range c.Frames {
		c.Frames[i] = c.newPicture()
	}
	return c, nil
}

func (c *Clip) Width() int                  { return c.width }
func (c *Clip) Height() int                 { return c.height }
func (c *Clip) Format() kernels.VideoFormat { return c.format }
func (c *Clip) Props() kernels.Props        { return c.props }

// NumFrames returns the number of frames.
func (c *Clip) NumFrames() int { return len(c.Frames) }

// Plane returns plane i of frame n.
func (c *Clip) Plane(n, i int) Plane { return c.Frames[n][i] }

// PlaneSize returns the dimensions of plane i.
func (c *Clip) PlaneSize(i int) (int, int) {
	return planeSize(c.format, c.width, c.height, i)
}

func planeSize(f kernels.VideoFormat, width, height, i int) (int, int) {
	if i == 0 || f.Family != kernels.ColorFamilyYUV {
		return width, height
	}
	return width >> f.SubsamplingW, height >> f.SubsamplingH
}

// Fill sets every sample from fn.
func (c *Clip) Fill(fn func(frame, plane, x, y int) float64) {
	for n, pic := range c.Frames {
		for i, p := range pic {
			for y := range p.Height {
				row := p.Row(y)
				for x := range row {
					row[x] = fn(n, i, x, y)
				}
			}
		}
	}
}

// WithProps returns a clip sharing c's frames with different properties.
func (c *Clip) WithProps(props kernels.Props) *Clip {
	out := *c
	out.props = props
	return &out
}

func (c *Clip) newPicture() Picture {
	pic := make(Picture, c.format.NumPlanes())
	for i := range pic {
		w, h := c.PlaneSize(i)
		pic[i] = NewPlane(w, h)
	}
	return pic
}

// derive returns an empty clip of the given geometry and format with c's
// properties and frame count.
func (c *Clip) derive(width, height int, format kernels.VideoFormat) *Clip {
	return &Clip{
		width:  width,
		height: height,
		format: format,
		props:  c.props,
		Frames: make([]Picture, len(c.Frames)),
	}
}

// isChroma reports whether plane i of format f carries chroma samples.
func isChroma(f kernels.VideoFormat, i int) bool {
	return f.Family == kernels.ColorFamilyYUV && i > 0
}
