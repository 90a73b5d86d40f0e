package raycast

import (
	"image/color"
	"math"
	"sort"

	"raydungeon/internal/graphics"
)

// spriteDepthEpsilon discards sprites at or behind the camera plane.
const spriteDepthEpsilon = 1e-4

// Sprite is a billboard in world space.
type Sprite struct {
	X, Y             float64
	FacingX, FacingY float64
	Sheet            *graphics.SpriteSheet
	Scale            float64 // fraction of a wall's height, 0 means 1
	Flash            float64 // 0..1 white blend, used for hit feedback
}

type projectedSprite struct {
	sprite  *Sprite
	screenX int
	depth   float64
	frame   graphics.Frame
}

// Project transforms a world point into camera space with the inverse of
// the [plane; dir] matrix. It returns the screen column of the point, the
// perpendicular depth, and whether the point is in front of the camera.
func Project(cam Camera, x, y float64, width int) (screenX int, depth float64, ok bool) {
	dx := x - cam.PosX
	dy := y - cam.PosY

	invDet := 1.0 / (cam.PlaneX*cam.DirY - cam.DirX*cam.PlaneY)
	transformX := invDet * (cam.DirY*dx - cam.DirX*dy)
	transformY := invDet * (-cam.PlaneY*dx + cam.PlaneX*dy)

	if transformY <= spriteDepthEpsilon {
		return 0, transformY, false
	}
	screenX = int(float64(width) / 2 * (1 + transformX/transformY))
	return screenX, transformY, true
}

// FrameFor picks the directional frame from the angle between the vector
// toward the camera and the sprite's facing: front within 45 degrees, back
// beyond 135, otherwise the side the camera is on.
func FrameFor(cam Camera, s Sprite) graphics.Frame {
	if s.FacingX == 0 && s.FacingY == 0 {
		return graphics.FrameFront
	}
	toCamX := cam.PosX - s.X
	toCamY := cam.PosY - s.Y
	cross := s.FacingX*toCamY - s.FacingY*toCamX
	dot := s.FacingX*toCamX + s.FacingY*toCamY
	a := math.Atan2(cross, dot)

	switch abs := math.Abs(a); {
	case abs <= math.Pi/4:
		return graphics.FrameFront
	case abs >= 3*math.Pi/4:
		return graphics.FrameBack
	case a > 0:
		return graphics.FrameRight
	default:
		return graphics.FrameLeft
	}
}

// drawSprites projects, sorts far-to-near and draws every sprite with a
// per-column depth test. Returns how many sprites put at least one pixel
// on screen.
func (r *Renderer) drawSprites(scene Scene) int {
	if !r.zbuf.Valid(r.frame) {
		return 0
	}

	r.visible = r.visible[:0]
	for i := range scene.Sprites {
		s := &scene.Sprites[i]
		if s.Sheet == nil {
			continue
		}
		screenX, depth, ok := Project(scene.Camera, s.X, s.Y, r.opts.Width)
		if !ok {
			continue
		}
		r.visible = append(r.visible, projectedSprite{
			sprite:  s,
			screenX: screenX,
			depth:   depth,
			frame:   FrameFor(scene.Camera, *s),
		})
	}

	sort.Slice(r.visible, func(i, j int) bool {
		return r.visible[i].depth > r.visible[j].depth
	})

	drawn := 0
	for _, ps := range r.visible {
		if r.drawSprite(ps) {
			drawn++
		}
	}
	return drawn
}

func (r *Renderer) drawSprite(ps projectedSprite) bool {
	w, h := r.opts.Width, r.opts.Height
	tex := ps.sprite.Sheet.Frame(ps.frame)

	scale := ps.sprite.Scale
	if scale <= 0 {
		scale = 1
	}
	full := float64(h) / ps.depth
	size := full * scale
	if size < 1 {
		return false
	}
	// sprites stand on the floor regardless of scale
	bottom := float64(h)/2 + full/2
	top := bottom - size
	left := float64(ps.screenX) - size/2

	x0 := int(math.Max(0, math.Floor(left)))
	x1 := int(math.Min(float64(w), math.Ceil(left+size)))
	y0 := int(math.Max(0, math.Floor(top)))
	y1 := int(math.Min(float64(h), math.Ceil(bottom)))

	shade := r.fog(ps.depth)
	flash := ps.sprite.Flash
	white := color.RGBA{255, 255, 255, 255}
	tw, th := float64(tex.Width()), float64(tex.Height())

	visible := false
	for x := x0; x < x1; x++ {
		if ps.depth >= r.zbuf.At(x) {
			continue
		}
		texX := int((float64(x) + 0.5 - left) / size * tw)
		if texX < 0 || texX >= tex.Width() {
			continue
		}
		for y := y0; y < y1; y++ {
			texY := int((float64(y) + 0.5 - top) / size * th)
			if texY < 0 || texY >= tex.Height() {
				continue
			}
			c := tex.At(texX, texY)
			if c.A == 0 {
				continue
			}
			out := graphics.Shade(c, shade)
			if flash > 0 {
				out = graphics.Tint(out, white, flash)
			}
			r.blend(x, y, out)
			visible = true
		}
	}
	return visible
}
