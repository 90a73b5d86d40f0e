package enemy

import (
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"raydungeon/internal/logger"
	"raydungeon/internal/mathutil"
	"raydungeon/internal/world"
)

// DefaultMaxEnemies caps a single spawn call when the tuning leaves it unset.
const DefaultMaxEnemies = 10

// Manager owns every enemy of a level. Dead enemies stay in the collection
// until PruneDead is called.
type Manager struct {
	enemies []*Enemy
	nextID  int
	rng     *rand.Rand
	tuning  Tuning
	paths   *Pathfinder
	drained uint64
	log     logrus.FieldLogger
}

// NewManager creates an empty manager. rng drives patrol headings.
func NewManager(rng *rand.Rand, tuning Tuning, log logrus.FieldLogger) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if tuning.MaxEnemies <= 0 {
		tuning.MaxEnemies = DefaultMaxEnemies
	}
	return &Manager{
		nextID: 1,
		rng:    rng,
		tuning: tuning,
		paths:  NewPathfinder(tuning.PathNodeBudget),
		log:    logger.Component(log, "enemy"),
	}
}

// Tuning returns the behaviour constants in use.
func (m *Manager) Tuning() Tuning { return m.tuning }

// SpawnEnemies places one enemy at the center of each position, cycling
// through types. A call creates at most min(len(types), MaxEnemies)
// enemies; an empty table counts as one default type.
func (m *Manager) SpawnEnemies(positions []world.Point, types []Stats) []*Enemy {
	if len(types) == 0 {
		types = []Stats{{Key: "default"}}
	}
	count := min(len(positions), len(types), m.tuning.MaxEnemies)

	spawned := make([]*Enemy, 0, count)
	for i := 0; i < count; i++ {
		s := types[i%len(types)].WithDefaults(m.tuning)
		p := positions[i]
		e := New(m.nextID, mathutil.TileCenter(p.X), mathutil.TileCenter(p.Y), s)
		m.nextID++
		m.enemies = append(m.enemies, e)
		spawned = append(spawned, e)
	}
	m.log.WithFields(logrus.Fields{
		"requested": len(positions),
		"spawned":   len(spawned),
		"types":     len(types),
	}).Info("enemies spawned")
	return spawned
}

// Add inserts an existing enemy, keeping ids monotonic. Used on restore.
func (m *Manager) Add(e *Enemy) {
	if e.ID >= m.nextID {
		m.nextID = e.ID + 1
	}
	m.enemies = append(m.enemies, e)
}

// Update advances every live enemy and returns the damage they dealt.
func (m *Manager) Update(playerX, playerY float64, grid Grid, dt float64, now time.Duration) int {
	tick := Tick{
		PlayerX: playerX,
		PlayerY: playerY,
		Grid:    grid,
		DT:      dt,
		Now:     now,
		Rng:     m.rng,
		Tuning:  &m.tuning,
		Paths:   m.paths,
	}
	total := 0
	for _, e := range m.enemies {
		if !e.IsAlive() {
			continue
		}
		if dmg := e.Update(tick); dmg > 0 {
			total += dmg
			m.log.WithFields(logrus.Fields{"id": e.ID, "damage": dmg}).Debug("enemy attack")
		}
	}
	return total
}

// DrainPathSearches returns the A* searches run since the previous call.
func (m *Manager) DrainPathSearches() int {
	total := m.paths.Searches()
	n := total - m.drained
	m.drained = total
	return int(n)
}

// All returns every enemy, dead or alive.
func (m *Manager) All() []*Enemy {
	out := make([]*Enemy, len(m.enemies))
	copy(out, m.enemies)
	return out
}

// Alive returns only the living enemies.
func (m *Manager) Alive() []*Enemy {
	out := make([]*Enemy, 0, len(m.enemies))
	for _, e := range m.enemies {
		if e.IsAlive() {
			out = append(out, e)
		}
	}
	return out
}

func (m *Manager) AliveCount() int {
	n := 0
	for _, e := range m.enemies {
		if e.IsAlive() {
			n++
		}
	}
	return n
}

// NearestWithin returns the closest live enemy no farther than tolerance
// from (x, y), or nil.
func (m *Manager) NearestWithin(x, y, tolerance float64) *Enemy {
	var best *Enemy
	bestDist := math.Inf(1)
	for _, e := range m.enemies {
		if !e.IsAlive() {
			continue
		}
		d := mathutil.Distance(x, y, e.X, e.Y)
		if d <= tolerance && d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

// ByID returns the enemy with the given id, or nil.
func (m *Manager) ByID(id int) *Enemy {
	for _, e := range m.enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// PruneDead drops dead enemies and returns how many were removed.
func (m *Manager) PruneDead() int {
	kept := m.enemies[:0]
	for _, e := range m.enemies {
		if e.IsAlive() {
			kept = append(kept, e)
		}
	}
	removed := len(m.enemies) - len(kept)
	for i := len(kept); i < len(m.enemies); i++ {
		m.enemies[i] = nil
	}
	m.enemies = kept
	return removed
}
