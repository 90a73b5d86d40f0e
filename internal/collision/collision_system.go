package collision

import (
	"math"
)

// TileChecker is the read-only map view collision queries need.
// *world.TileGrid satisfies it.
type TileChecker interface {
	IsOpaque(tileX, tileY int) bool
	IsFloor(tileX, tileY int) bool
	IsWalkable(tileX, tileY int) bool
	Size() int
}

// RayHit describes the first opaque tile a segment enters.
type RayHit struct {
	TileX, TileY int
	Dist         float64 // distance from the segment start to the tile boundary
}

// HasLineOfSight samples the segment at half-tile spacing, ceil(dist*2)+1
// points including both ends, and fails on any sample that is not plain
// floor. Walls, the portal and out-of-bounds cells all block. Endpoints are put in a fixed order first so A->B and B->A sample
// exactly the same points.
func HasLineOfSight(tc TileChecker, x1, y1, x2, y2 float64) bool {
	if x2 < x1 || (x2 == x1 && y2 < y1) {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Sqrt(dx*dx + dy*dy)

	steps := int(math.Ceil(dist * 2))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		tx := int(math.Floor(x1 + dx*t))
		ty := int(math.Floor(y1 + dy*t))
		if !tc.IsFloor(tx, ty) {
			return false
		}
	}
	return true
}

// CastRay walks every tile the segment crosses, in order, and reports the
// first opaque one. The start tile is never reported.
func CastRay(tc TileChecker, x1, y1, x2, y2 float64) (RayHit, bool) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return RayHit{}, false
	}
	dirX := dx / length
	dirY := dy / length

	mapX := int(math.Floor(x1))
	mapY := int(math.Floor(y1))
	endX := int(math.Floor(x2))
	endY := int(math.Floor(y2))

	deltaDistX := math.Inf(1)
	if dirX != 0 {
		deltaDistX = math.Abs(1 / dirX)
	}
	deltaDistY := math.Inf(1)
	if dirY != 0 {
		deltaDistY = math.Abs(1 / dirY)
	}

	var stepX, stepY int
	var sideDistX, sideDistY float64
	if dirX < 0 {
		stepX = -1
		sideDistX = (x1 - float64(mapX)) * deltaDistX
	} else {
		stepX = 1
		sideDistX = (float64(mapX) + 1 - x1) * deltaDistX
	}
	if dirY < 0 {
		stepY = -1
		sideDistY = (y1 - float64(mapY)) * deltaDistY
	} else {
		stepY = 1
		sideDistY = (float64(mapY) + 1 - y1) * deltaDistY
	}

	// Bound the walk by the number of tile boundaries the segment can cross.
	maxSteps := int(math.Abs(float64(endX-mapX))+math.Abs(float64(endY-mapY))) + 1
	for i := 0; i < maxSteps; i++ {
		var dist float64
		if sideDistX < sideDistY {
			dist = sideDistX
			sideDistX += deltaDistX
			mapX += stepX
		} else {
			dist = sideDistY
			sideDistY += deltaDistY
			mapY += stepY
		}
		if dist > length {
			break
		}
		if tc.IsOpaque(mapX, mapY) {
			return RayHit{TileX: mapX, TileY: mapY, Dist: dist}, true
		}
	}
	return RayHit{}, false
}

// CanOccupy reports whether the player may stand at a continuous position:
// floor or portal, in bounds.
func CanOccupy(tc TileChecker, x, y float64) bool {
	return tc.IsWalkable(int(math.Floor(x)), int(math.Floor(y)))
}

// CanEnemyOccupy reports whether an enemy may stand at a continuous
// position. Enemies never enter the portal.
func CanEnemyOccupy(tc TileChecker, x, y float64) bool {
	return tc.IsFloor(int(math.Floor(x)), int(math.Floor(y)))
}

// SlideMove applies (dx, dy) one axis at a time, discarding an axis whose
// destination cannot be occupied. It returns the resulting position.
func SlideMove(tc TileChecker, x, y, dx, dy float64) (float64, float64) {
	if dx != 0 && CanOccupy(tc, x+dx, y) {
		x += dx
	}
	if dy != 0 && CanOccupy(tc, x, y+dy) {
		y += dy
	}
	return x, y
}
