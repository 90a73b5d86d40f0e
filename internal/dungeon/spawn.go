package dungeon

import (
	"math/rand"

	"raydungeon/internal/world"
)

// EnemySpawnPoints samples count floor cells inside rooms, skipping the
// start and exit rooms when there are at least three rooms. Fewer points are
// returned when the candidate rooms run out of free floor.
func (r *Result) EnemySpawnPoints(count int, rng *rand.Rand) []world.Point {
	if count <= 0 || len(r.Rooms) == 0 {
		return nil
	}
	candidates := r.Rooms
	if len(r.Rooms) >= 3 {
		candidates = r.Rooms[1 : len(r.Rooms)-1]
	}

	used := map[world.Point]bool{r.PlayerStart: true, r.Exit: true}
	points := make([]world.Point, 0, count)
	for attempt := 0; attempt < count*10 && len(points) < count; attempt++ {
		room := candidates[rng.Intn(len(candidates))]
		p := world.Point{
			X: room.X + rng.Intn(room.Width),
			Y: room.Y + rng.Intn(room.Height),
		}
		if used[p] || !r.Grid.IsFloor(p.X, p.Y) {
			continue
		}
		used[p] = true
		points = append(points, p)
	}
	return points
}

// ExitRoom returns the room holding the portal.
func (r *Result) ExitRoom() world.Room {
	return r.Rooms[len(r.Rooms)-1]
}

// ReachableFrom flood-fills 4-connected walkable cells starting at start.
func ReachableFrom(grid *world.TileGrid, start world.Point) map[world.Point]bool {
	seen := make(map[world.Point]bool)
	if !grid.IsWalkable(start.X, start.Y) {
		return seen
	}
	queue := []world.Point{start}
	seen[start] = true
	dirs := [4]world.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range dirs {
			n := world.Point{X: p.X + d.X, Y: p.Y + d.Y}
			if seen[n] || !grid.IsWalkable(n.X, n.Y) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return seen
}
