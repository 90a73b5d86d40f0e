package graphics

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Texture is a CPU-side RGBA image sampled by the raycaster.
type Texture struct {
	img  *image.RGBA
	w, h int
}

// NewTexture copies src into a square texture of the given size. A size of
// zero or less keeps the source dimensions.
func NewTexture(src image.Image, size int) *Texture {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if size > 0 {
		w, h = size, size
	}
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if b.Dx() == w && b.Dy() == h {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	} else {
		// Nearest neighbour keeps pixel art crisp.
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	}
	return &Texture{img: dst, w: w, h: h}
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.w }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.h }

// Image exposes the backing image.
func (t *Texture) Image() *image.RGBA { return t.img }

// At returns the texel at (x, y), wrapping both coordinates.
func (t *Texture) At(x, y int) color.RGBA {
	x %= t.w
	if x < 0 {
		x += t.w
	}
	y %= t.h
	if y < 0 {
		y += t.h
	}
	i := y*t.img.Stride + x*4
	p := t.img.Pix[i : i+4 : i+4]
	return color.RGBA{p[0], p[1], p[2], p[3]}
}

// Sample returns the texel at fractional coordinates, wrapping into [0, 1).
func (t *Texture) Sample(u, v float64) color.RGBA {
	u -= math.Floor(u)
	v -= math.Floor(v)
	return t.At(int(u*float64(t.w)), int(v*float64(t.h)))
}

// SubTexture copies r out of t into a new texture.
func (t *Texture) SubTexture(r image.Rectangle) *Texture {
	r = r.Intersect(t.img.Bounds())
	return NewTexture(t.img.SubImage(r), 0)
}
