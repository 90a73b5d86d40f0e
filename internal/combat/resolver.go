package combat

import (
	"math"

	"raydungeon/internal/collision"
	"raydungeon/internal/enemy"
)

// Hit is the outcome of a hit-scan.
type Hit struct {
	Hit      bool
	Enemy    *enemy.Enemy
	Distance float64
}

// Resolver holds the aim tolerances. The zero value is not useful; use
// DefaultResolver or fill both fields.
type Resolver struct {
	ConeDot   float64 // minimum cosine between aim and target direction
	Tolerance float64 // maximum perpendicular offset from the aim ray, tiles
}

func DefaultResolver() Resolver {
	return Resolver{ConeDot: 0.9, Tolerance: 0.5}
}

// RaycastShoot resolves a shot with the default tolerances.
func RaycastShoot(x, y, dirX, dirY float64, enemies []*enemy.Enemy, maxDistance float64, grid collision.TileChecker) Hit {
	return DefaultResolver().Shoot(x, y, dirX, dirY, enemies, maxDistance, grid)
}

// Shoot picks the nearest live enemy inside range, with nothing opaque in
// between, inside the aim cone and close to the aim ray.
func (r Resolver) Shoot(x, y, dirX, dirY float64, enemies []*enemy.Enemy, maxDistance float64, grid collision.TileChecker) Hit {
	l := math.Hypot(dirX, dirY)
	if l == 0 {
		return Hit{}
	}
	dirX /= l
	dirY /= l

	best := Hit{Distance: math.Inf(1)}
	for _, e := range enemies {
		if e == nil || !e.IsAlive() {
			continue
		}
		dx := e.X - x
		dy := e.Y - y
		dist := math.Hypot(dx, dy)
		if dist > maxDistance || dist >= best.Distance {
			continue
		}
		if !collision.HasLineOfSight(grid, x, y, e.X, e.Y) {
			continue
		}
		if dist > 1e-9 {
			if (dx*dirX+dy*dirY)/dist <= r.ConeDot {
				continue
			}
			if math.Abs(dx*dirY-dy*dirX) >= r.Tolerance {
				continue
			}
		}
		best = Hit{Hit: true, Enemy: e, Distance: dist}
	}
	if !best.Hit {
		return Hit{}
	}
	return best
}
