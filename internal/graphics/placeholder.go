package graphics

import (
	"hash/fnv"
	"image"
	"image/color"
)

// Theme carries the level's palette used to tint generated placeholders.
type Theme struct {
	Primary    color.RGBA
	Secondary  color.RGBA
	Atmosphere string
}

// DefaultTheme is a neutral grey palette that leaves placeholders untinted.
func DefaultTheme() Theme {
	return Theme{
		Primary:    color.RGBA{128, 128, 128, 255},
		Secondary:  color.RGBA{128, 128, 128, 255},
		Atmosphere: "fantasy",
	}
}

// Tint blends c toward t by amount in [0, 1]. A fully transparent t
// (an unset theme colour) leaves c unchanged.
func Tint(c, t color.RGBA, amount float64) color.RGBA {
	if amount <= 0 || t.A == 0 {
		return c
	}
	if amount > 1 {
		amount = 1
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-amount) + float64(b)*amount)
	}
	return color.RGBA{mix(c.R, t.R), mix(c.G, t.G), mix(c.B, t.B), c.A}
}

// Shade scales the RGB channels by f, keeping alpha.
func Shade(c color.RGBA, f float64) color.RGBA {
	if f < 0 {
		f = 0
	}
	scale := func(v uint8) uint8 {
		s := float64(v) * f
		if s > 255 {
			return 255
		}
		return uint8(s)
	}
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), c.A}
}

// KeyColor derives a stable mid-tone colour from a key.
func KeyColor(key string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(key))
	sum := h.Sum32()
	return color.RGBA{
		R: uint8(64 + sum&0x7f),
		G: uint8(64 + (sum>>8)&0x7f),
		B: uint8(64 + (sum>>16)&0x7f),
		A: 255,
	}
}

// SolidTexture is a single-colour square texture.
func SolidTexture(size int, c color.RGBA) *Texture {
	if size <= 0 {
		size = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return &Texture{img: img, w: size, h: size}
}

// BrickTexture is a solid colour with darker mortar lines, used for walls
// whose art is missing so block edges stay readable.
func BrickTexture(size int, c color.RGBA) *Texture {
	tex := SolidTexture(size, c)
	if size < 8 {
		return tex
	}
	mortar := Shade(c, 0.6)
	course := size / 4
	for y := 0; y < size; y++ {
		row := y / course
		offset := 0
		if row%2 == 1 {
			offset = size / 4
		}
		for x := 0; x < size; x++ {
			if y%course == 0 || (x+offset)%(size/2) == 0 {
				tex.img.SetRGBA(x, y, mortar)
			}
		}
	}
	return tex
}

// FigureTexture draws an opaque rounded body on a transparent background,
// used for characters without a sprite sheet.
func FigureTexture(size int, c color.RGBA) *Texture {
	if size <= 0 {
		size = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cx := float64(size) / 2
	head := Shade(c, 1.25)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			// body: ellipse over the lower two thirds
			bx := (fx - cx) / (float64(size) * 0.3)
			by := (fy - float64(size)*0.62) / (float64(size) * 0.36)
			// head: circle near the top
			hx := (fx - cx) / (float64(size) * 0.16)
			hy := (fy - float64(size)*0.2) / (float64(size) * 0.16)
			switch {
			case hx*hx+hy*hy <= 1:
				img.SetRGBA(x, y, head)
			case bx*bx+by*by <= 1:
				img.SetRGBA(x, y, c)
			}
		}
	}
	return &Texture{img: img, w: size, h: size}
}
