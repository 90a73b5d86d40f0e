package raycast

import (
	"image"
	"image/color"
	"math"
	"time"

	"raydungeon/internal/config"
	"raydungeon/internal/graphics"
	"raydungeon/internal/threading/monitoring"
	"raydungeon/internal/threading/rendering"
	"raydungeon/internal/world"
)

// TextureSource resolves the surfaces the renderer draws.
type TextureSource interface {
	WallTexture(code int) *graphics.Texture
	FloorTexture() *graphics.Texture
	CeilingTexture() *graphics.Texture
}

// Options controls resolution, march bound and shading.
type Options struct {
	Width, Height int
	MaxSteps      int
	FogDistance   float64
	FogMin        float64
	SideShade     float64
	PortalColor   color.RGBA
	PortalPulseHz float64
}

// OptionsFromConfig reads the internal resolution and render tuning.
func OptionsFromConfig(cfg *config.Config) Options {
	pc := cfg.Render.PortalColor
	return Options{
		Width:         cfg.Display.RenderWidth,
		Height:        cfg.Display.RenderHeight,
		MaxSteps:      cfg.Render.MaxSteps,
		FogDistance:   cfg.Render.FogDistance,
		FogMin:        cfg.Render.FogMin,
		SideShade:     cfg.Render.SideShade,
		PortalColor:   color.RGBA{uint8(pc[0]), uint8(pc[1]), uint8(pc[2]), 255},
		PortalPulseHz: cfg.Render.PortalPulseHz,
	}
}

// Scene is everything one frame needs.
type Scene struct {
	Grid     Grid
	Camera   Camera
	Textures TextureSource
	Sprites  []Sprite
	Time     time.Duration // drives the portal pulse
}

// FrameStats describes the last rendered frame.
type FrameStats struct {
	Frame         uint64
	WallColumns   int
	PortalColumns int
	SpritesDrawn  int
}

// Renderer draws scenes into a reusable RGBA frame.
type Renderer struct {
	opts     Options
	img      *image.RGBA
	hits     []ColumnHit
	zbuf     ZBuffer
	frame    uint64
	parallel *rendering.ParallelRenderer
	monitor  *monitoring.PerformanceMonitor
	visible  []projectedSprite
	stats    FrameStats
}

// NewRenderer creates a renderer. parallel and monitor may be nil, in which
// case columns are marched inline and nothing is timed.
func NewRenderer(opts Options, parallel *rendering.ParallelRenderer, monitor *monitoring.PerformanceMonitor) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 320
	}
	if opts.Height <= 0 {
		opts.Height = 200
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = 64
	}
	if opts.SideShade <= 0 {
		opts.SideShade = 0.7
	}
	return &Renderer{
		opts:     opts,
		img:      image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		hits:     make([]ColumnHit, opts.Width),
		parallel: parallel,
		monitor:  monitor,
	}
}

// Options returns the renderer's settings.
func (r *Renderer) Options() Options { return r.opts }

// Image returns the frame buffer of the last Render call.
func (r *Renderer) Image() *image.RGBA { return r.img }

// ZBuffer exposes the per-column wall depths of the last frame.
func (r *Renderer) ZBuffer() *ZBuffer { return &r.zbuf }

// Frame is the number of frames rendered so far.
func (r *Renderer) Frame() uint64 { return r.frame }

// Stats describes the last frame.
func (r *Renderer) Stats() FrameStats { return r.stats }

// Hit returns the march result for a column of the last frame.
func (r *Renderer) Hit(col int) ColumnHit { return r.hits[col] }

// Render draws one frame: march every column (filling the z-buffer), then
// floor and ceiling, walls, portal glow and finally sprites.
func (r *Renderer) Render(scene Scene) *image.RGBA {
	w, h := r.opts.Width, r.opts.Height
	r.frame++
	r.stats = FrameStats{Frame: r.frame}
	r.zbuf.Reset(w, r.frame)

	var timer *monitoring.RaycastTimer
	if r.monitor != nil {
		timer = r.monitor.StartRaycast(w)
	}
	r.columns(w, func(col int) {
		dx, dy := scene.Camera.RayDir(col, w)
		hit := CastColumn(scene.Grid, scene.Camera, dx, dy, r.opts.MaxSteps)
		r.hits[col] = hit
		r.zbuf.Set(col, hit.Dist())
	})
	// every column is joined here before anything is drawn

	r.profile(monitoring.StageFloor, func() {
		r.rows(h-h/2, func(i int) {
			r.drawFloorRow(scene, h/2+i)
		})
	})

	r.columns(w, func(col int) {
		r.drawWallColumn(scene, col)
	})
	pulse := r.pulse(scene.Time)
	r.columns(w, func(col int) {
		r.drawPortalColumn(col, pulse)
	})
	if timer != nil {
		timer.EndRaycast()
	}

	for _, hit := range r.hits {
		if hit.HasWall {
			r.stats.WallColumns++
		}
		if r.portalVisible(hit) {
			r.stats.PortalColumns++
		}
	}

	r.profile(monitoring.StageSprites, func() {
		r.stats.SpritesDrawn = r.drawSprites(scene)
	})
	return r.img
}

func (r *Renderer) columns(n int, fn func(int)) {
	if r.parallel == nil {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	r.parallel.RenderColumns(n, fn)
}

func (r *Renderer) rows(n int, fn func(int)) {
	if r.parallel == nil {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	r.parallel.RenderRows(n, fn)
}

func (r *Renderer) profile(stage string, fn func()) {
	if r.monitor == nil {
		fn()
		return
	}
	r.monitor.ProfiledFunction(stage, fn)
}

// fog is the linear distance falloff clamped to [FogMin, 1].
func (r *Renderer) fog(dist float64) float64 {
	if r.opts.FogDistance <= 0 {
		return 1
	}
	f := 1 - dist/r.opts.FogDistance
	if f < r.opts.FogMin {
		f = r.opts.FogMin
	}
	if f > 1 {
		f = 1
	}
	return f
}

func (r *Renderer) pulse(t time.Duration) float64 {
	return 0.45 + 0.25*math.Sin(2*math.Pi*r.opts.PortalPulseHz*t.Seconds())
}

func (r *Renderer) set(x, y int, c color.RGBA) {
	i := y*r.img.Stride + x*4
	p := r.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, 255
}

func (r *Renderer) blend(x, y int, c color.RGBA) {
	if c.A == 255 {
		r.set(x, y, c)
		return
	}
	i := y*r.img.Stride + x*4
	p := r.img.Pix[i : i+4 : i+4]
	a := uint32(c.A)
	p[0] = uint8((uint32(c.R)*a + uint32(p[0])*(255-a)) / 255)
	p[1] = uint8((uint32(c.G)*a + uint32(p[1])*(255-a)) / 255)
	p[2] = uint8((uint32(c.B)*a + uint32(p[2])*(255-a)) / 255)
	p[3] = 255
}

func (r *Renderer) add(x, y int, c color.RGBA, amount float64) {
	i := y*r.img.Stride + x*4
	p := r.img.Pix[i : i+4 : i+4]
	addc := func(dst, src uint8) uint8 {
		v := float64(dst) + float64(src)*amount
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	p[0] = addc(p[0], c.R)
	p[1] = addc(p[1], c.G)
	p[2] = addc(p[2], c.B)
}

// drawFloorRow inverse-projects screen row y onto the floor plane and
// mirrors it for the ceiling.
func (r *Renderer) drawFloorRow(scene Scene, y int) {
	w, h := r.opts.Width, r.opts.Height
	cam := scene.Camera

	// pixel centre keeps p away from zero on the horizon row
	p := float64(y) - float64(h)/2 + 0.5
	rowDist := 0.5 * float64(h) / p

	rayDirX0, rayDirY0 := cam.DirX-cam.PlaneX, cam.DirY-cam.PlaneY
	rayDirX1, rayDirY1 := cam.DirX+cam.PlaneX, cam.DirY+cam.PlaneY

	stepX := rowDist * (rayDirX1 - rayDirX0) / float64(w)
	stepY := rowDist * (rayDirY1 - rayDirY0) / float64(w)
	floorX := cam.PosX + rowDist*rayDirX0
	floorY := cam.PosY + rowDist*rayDirY0

	floorTex := scene.Textures.FloorTexture()
	ceilTex := scene.Textures.CeilingTexture()
	shade := r.fog(rowDist)
	ceilY := h - 1 - y
	glow := r.pulse(scene.Time) * shade

	for x := 0; x < w; x++ {
		cellX := math.Floor(floorX)
		cellY := math.Floor(floorY)
		u, v := floorX-cellX, floorY-cellY

		r.set(x, y, graphics.Shade(floorTex.Sample(u, v), shade))
		if ceilY >= 0 && ceilY != y {
			r.set(x, ceilY, graphics.Shade(ceilTex.Sample(u, v), shade))
		}
		if scene.Grid.At(int(cellX), int(cellY)) == world.TilePortal {
			r.add(x, y, r.opts.PortalColor, glow)
		}

		floorX += stepX
		floorY += stepY
	}
}

// span returns the clamped vertical extent of a wall at dist and the
// unclamped top used for texture mapping.
func (r *Renderer) span(dist float64) (top, bottom int, lineHeight, rawTop float64) {
	h := float64(r.opts.Height)
	if dist < 1e-6 {
		dist = 1e-6
	}
	lineHeight = h / dist
	rawTop = h/2 - lineHeight/2
	t := math.Max(0, rawTop)
	b := math.Min(h, h/2+lineHeight/2)
	return int(t), int(math.Ceil(b)), lineHeight, rawTop
}

func (r *Renderer) drawWallColumn(scene Scene, col int) {
	hit := r.hits[col]
	if !hit.HasWall {
		return
	}
	wall := hit.Wall
	tex := scene.Textures.WallTexture(wall.Code)
	texX := wall.TexX(hit.RayDirX, hit.RayDirY, tex.Width())

	shade := r.fog(wall.Dist)
	if wall.Side == SideY {
		shade *= r.opts.SideShade
	}

	top, bottom, lineHeight, rawTop := r.span(wall.Dist)
	texH := float64(tex.Height())
	for y := top; y < bottom && y < r.opts.Height; y++ {
		texY := int((float64(y) + 0.5 - rawTop) / lineHeight * texH)
		if texY >= tex.Height() {
			texY = tex.Height() - 1
		}
		r.set(col, y, graphics.Shade(tex.At(texX, texY), shade))
	}
}

func (r *Renderer) portalVisible(hit ColumnHit) bool {
	return hit.HasPortal && (!hit.HasWall || hit.Portal.Dist < hit.Wall.Dist)
}

// drawPortalColumn adds the animated glow over the span the portal cell
// would occupy if it were a wall.
func (r *Renderer) drawPortalColumn(col int, pulse float64) {
	hit := r.hits[col]
	if !r.portalVisible(hit) {
		return
	}
	top, bottom, lineHeight, _ := r.span(hit.Portal.Dist)
	mid := float64(r.opts.Height) / 2
	base := pulse * r.fog(hit.Portal.Dist)
	for y := top; y < bottom && y < r.opts.Height; y++ {
		// brightest at the horizon, fading toward the top and bottom
		edge := math.Abs(float64(y)+0.5-mid) / (lineHeight / 2)
		amount := base * (1 - 0.6*math.Min(edge, 1))
		r.add(col, y, r.opts.PortalColor, amount)
	}
}
