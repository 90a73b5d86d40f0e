package graphics

import (
	"image"
)

// Frame is one of the four directional views in a sprite sheet.
type Frame int

const (
	FrameFront Frame = iota
	FrameBack
	FrameLeft
	FrameRight
)

func (f Frame) String() string {
	switch f {
	case FrameFront:
		return "front"
	case FrameBack:
		return "back"
	case FrameLeft:
		return "left"
	case FrameRight:
		return "right"
	}
	return "unknown"
}

// SpriteSheet holds either a single frame or four directional frames.
// Four-frame sheets are laid out as a 2x2 grid: front, back on the top row
// and left, right on the bottom row.
type SpriteSheet struct {
	ID     string
	Type   string
	frames []*Texture
}

// NewSpriteSheet slices src into frames. Any frame count other than 4 is
// treated as a single-frame sheet.
func NewSpriteSheet(id, typ string, src image.Image, frameCount, size int) *SpriteSheet {
	sheet := &SpriteSheet{ID: id, Type: typ}
	if frameCount != 4 {
		sheet.frames = []*Texture{NewTexture(src, size)}
		return sheet
	}

	b := src.Bounds()
	halfW, halfH := b.Dx()/2, b.Dy()/2
	origins := [4]image.Point{
		{b.Min.X, b.Min.Y},
		{b.Min.X + halfW, b.Min.Y},
		{b.Min.X, b.Min.Y + halfH},
		{b.Min.X + halfW, b.Min.Y + halfH},
	}
	for _, o := range origins {
		cell := image.Rect(o.X, o.Y, o.X+halfW, o.Y+halfH)
		sheet.frames = append(sheet.frames, NewTexture(subImage(src, cell), size))
	}
	return sheet
}

// SingleFrameSheet wraps one texture as a sheet.
func SingleFrameSheet(id, typ string, tex *Texture) *SpriteSheet {
	return &SpriteSheet{ID: id, Type: typ, frames: []*Texture{tex}}
}

// FrameCount reports 1 or 4.
func (s *SpriteSheet) FrameCount() int { return len(s.frames) }

// Frame returns the texture for the requested view, falling back to the
// only frame on single-frame sheets.
func (s *SpriteSheet) Frame(f Frame) *Texture {
	if len(s.frames) == 1 || f < 0 || int(f) >= len(s.frames) {
		return s.frames[0]
	}
	return s.frames[f]
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func subImage(src image.Image, r image.Rectangle) image.Image {
	if si, ok := src.(subImager); ok {
		return si.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			dst.Set(x, y, src.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	return dst
}
