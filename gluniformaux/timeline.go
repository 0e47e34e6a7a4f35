package gluniformaux

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/soypat/gluniform"
)

// Timeline records the values of a set's variables once per frame and renders
// them as an image with one column per frame and one horizontal band per
// variable. Float vec3 and vec4 variables are drawn as the color they encode.
// Other variables are drawn with their first component mapped onto a gradient
// spanning the range of values recorded. Unreadable values are red.
type Timeline struct {
	names  []string
	frames [][]sample // frames[i][j] is variable j at frame i.
	c0, c1 color.Color
}

type sample struct {
	v   [3]float64
	rgb bool
	ok  bool
}

// NewTimeline returns a timeline for the variables currently in set, in name order.
func NewTimeline(set *gluniform.Set) *Timeline {
	return &Timeline{
		names: set.Names(),
		c0:    color.RGBA{A: 255},
		c1:    white,
	}
}

// SetGradient sets the colors of the lowest and highest recorded values. Defaults to black and white.
func (tl *Timeline) SetGradient(c0, c1 color.Color) {
	tl.c0, tl.c1 = c0, c1
}

// Frames returns the amount of frames recorded.
func (tl *Timeline) Frames() int { return len(tl.frames) }

// Record samples the current values of the timeline's variables in set.
func (tl *Timeline) Record(set *gluniform.Set) {
	col := make([]sample, len(tl.names))
	var buf []float64
	for j, name := range tl.names {
		v, ok := set.Lookup(name)
		if !ok {
			continue
		}
		var err error
		buf, err = v.Floats(buf[:0], 0)
		if err != nil {
			continue
		}
		s := &col[j]
		s.ok = true
		shape := v.Shape()
		s.rgb = v.Elem() == gluniform.ElemFloat && (shape == gluniform.ShapeVec3 || shape == gluniform.ShapeVec4)
		copy(s.v[:], buf)
	}
	tl.frames = append(tl.frames, col)
}

// Render draws the recorded frames into img. Each frame spans an equal share
// of the image width and each variable an equal share of its height.
func (tl *Timeline) Render(img interface {
	image.Image
	Set(x, y int, c color.Color)
}) error {
	bb := img.Bounds()
	nf, nv := len(tl.frames), len(tl.names)
	if nf == 0 || nv == 0 {
		return errors.New("empty timeline")
	} else if bb.Dx() < nf || bb.Dy() < nv {
		return errors.New("image smaller than timeline")
	}
	grads := make([]func(float32) color.Color, nv)
	for j := range grads {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, col := range tl.frames {
			if col[j].ok {
				lo = min(lo, col[j].v[0])
				hi = max(hi, col[j].v[0])
			}
		}
		if hi <= lo {
			// Constant values are drawn with the middle color.
			lo, hi = lo-1, lo+1
		}
		grads[j] = ValueGradient(float32(lo), float32(hi), tl.c0, tl.c1)
	}
	for x := 0; x < bb.Dx(); x++ {
		col := tl.frames[x*nf/bb.Dx()]
		for y := 0; y < bb.Dy(); y++ {
			j := y * nv / bb.Dy()
			img.Set(x+bb.Min.X, y+bb.Min.Y, tl.color(col[j], grads[j]))
		}
	}
	return nil
}

func (tl *Timeline) color(s sample, grad func(float32) color.Color) color.Color {
	switch {
	case !s.ok:
		return red
	case s.rgb:
		c := rgbToC(float32(s.v[0]), float32(s.v[1]), float32(s.v[2]))
		return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
	}
	return grad(float32(s.v[0]))
}

// WritePNG renders the timeline with bandHeight pixels per variable and
// one pixel column per frame and writes it to w as a PNG.
func (tl *Timeline) WritePNG(w io.Writer, bandHeight int) error {
	if bandHeight <= 0 {
		return errors.New("band height must be positive")
	}
	img := image.NewRGBA(image.Rect(0, 0, len(tl.frames), bandHeight*len(tl.names)))
	err := tl.Render(img)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
