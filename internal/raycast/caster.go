package raycast

import (
	"math"

	"raydungeon/internal/world"
)

// MaxDistance is reported when a ray leaves the grid or runs out of steps.
const MaxDistance = math.MaxFloat64

// Grid is the read-only view of the level the caster marches through.
type Grid interface {
	At(x, y int) int
	InBounds(x, y int) bool
	Size() int
}

// Side records which grid line a ray crossed last.
type Side int

const (
	SideX Side = iota // crossed a vertical grid line (east/west face)
	SideY             // crossed a horizontal grid line (north/south face)
)

// Surface is one face a ray struck.
type Surface struct {
	TileX, TileY int
	Code         int
	Dist         float64 // perpendicular distance, no fisheye
	Side         Side
	WallX        float64 // where along the face the ray struck, [0, 1)
}

// TexX maps WallX to a texture column, mirrored so textures read the same
// way on every face.
func (s Surface) TexX(rayDirX, rayDirY float64, texWidth int) int {
	u := s.WallX
	if s.Side == SideX && rayDirX > 0 {
		u = 1 - u
	}
	if s.Side == SideY && rayDirY < 0 {
		u = 1 - u
	}
	x := int(u * float64(texWidth))
	if x >= texWidth {
		x = texWidth - 1
	}
	if x < 0 {
		x = 0
	}
	return x
}

// ColumnHit is the result of marching one ray.
type ColumnHit struct {
	RayDirX, RayDirY float64
	Wall             Surface
	HasWall          bool
	Portal           Surface
	HasPortal        bool
}

// Dist is the solid wall distance or MaxDistance when nothing was hit.
func (h ColumnHit) Dist() float64 {
	if !h.HasWall {
		return MaxDistance
	}
	return h.Wall.Dist
}

// CastColumn marches one ray with DDA from the camera position. The first
// portal cell crossed is recorded as an overlay and marching continues to
// the next solid wall. Leaving the grid or exceeding maxSteps is no hit.
func CastColumn(grid Grid, cam Camera, rayDirX, rayDirY float64, maxSteps int) ColumnHit {
	hit := ColumnHit{RayDirX: rayDirX, RayDirY: rayDirY}

	mapX := int(math.Floor(cam.PosX))
	mapY := int(math.Floor(cam.PosY))

	// How far the ray travels to cross one grid line on each axis
	deltaDistX, deltaDistY := 1e30, 1e30
	if rayDirX != 0 {
		deltaDistX = math.Abs(1 / rayDirX)
	}
	if rayDirY != 0 {
		deltaDistY = math.Abs(1 / rayDirY)
	}

	var stepX, stepY int
	var sideDistX, sideDistY float64
	if rayDirX < 0 {
		stepX = -1
		sideDistX = (cam.PosX - float64(mapX)) * deltaDistX
	} else {
		stepX = 1
		sideDistX = (float64(mapX) + 1 - cam.PosX) * deltaDistX
	}
	if rayDirY < 0 {
		stepY = -1
		sideDistY = (cam.PosY - float64(mapY)) * deltaDistY
	} else {
		stepY = 1
		sideDistY = (float64(mapY) + 1 - cam.PosY) * deltaDistY
	}

	side := SideX
	for steps := 0; steps < maxSteps; steps++ {
		if sideDistX < sideDistY {
			sideDistX += deltaDistX
			mapX += stepX
			side = SideX
		} else {
			sideDistY += deltaDistY
			mapY += stepY
			side = SideY
		}

		if !grid.InBounds(mapX, mapY) {
			return hit
		}
		code := grid.At(mapX, mapY)
		if code == world.TileFloor {
			continue
		}

		s := surfaceAt(cam, rayDirX, rayDirY, mapX, mapY, stepX, stepY, side)
		s.Code = code

		if code == world.TilePortal {
			if !hit.HasPortal {
				hit.Portal = s
				hit.HasPortal = true
			}
			continue
		}
		if world.IsWallCode(code) {
			hit.Wall = s
			hit.HasWall = true
			return hit
		}
	}
	return hit
}

func surfaceAt(cam Camera, rayDirX, rayDirY float64, mapX, mapY, stepX, stepY int, side Side) Surface {
	var perp float64
	if side == SideX {
		perp = (float64(mapX) - cam.PosX + float64(1-stepX)/2) / rayDirX
	} else {
		perp = (float64(mapY) - cam.PosY + float64(1-stepY)/2) / rayDirY
	}

	var wallX float64
	if side == SideX {
		wallX = cam.PosY + perp*rayDirY
	} else {
		wallX = cam.PosX + perp*rayDirX
	}
	wallX -= math.Floor(wallX)

	return Surface{TileX: mapX, TileY: mapY, Dist: perp, Side: side, WallX: wallX}
}
