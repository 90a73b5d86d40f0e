package combat

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"raydungeon/internal/collision"
	"raydungeon/internal/enemy"
	"raydungeon/internal/logger"
)

// ErrUnknownWeapon is returned when equipping a weapon key not in the table.
var ErrUnknownWeapon = errors.New("unknown weapon")

// ReasonCooldown is reported when a shot is refused by the fire rate.
const ReasonCooldown = "cooldown"

// ShotResult describes one trigger pull.
type ShotResult struct {
	Fired    bool
	Reason   string
	Hit      bool
	Enemy    *enemy.Enemy
	Distance float64
	Damage   int
	Killed   bool
}

// Manager tracks the equipped weapon, its cooldown and the kill count.
type Manager struct {
	weapons  map[string]Weapon
	current  string
	lastShot time.Duration
	hasShot  bool
	kills    int
	resolver Resolver
	log      logrus.FieldLogger
}

// NewManager equips defaultWeapon from weapons.
func NewManager(weapons map[string]Weapon, defaultWeapon string, resolver Resolver, log logrus.FieldLogger) (*Manager, error) {
	if len(weapons) == 0 {
		weapons = DefaultWeapons()
	}
	if _, ok := weapons[defaultWeapon]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWeapon, defaultWeapon)
	}
	return &Manager{
		weapons:  weapons,
		current:  defaultWeapon,
		resolver: resolver,
		log:      logger.Component(log, "combat"),
	}, nil
}

// Weapon returns the equipped weapon.
func (m *Manager) Weapon() Weapon { return m.weapons[m.current] }

// Weapons returns the weapon table.
func (m *Manager) Weapons() map[string]Weapon { return m.weapons }

func (m *Manager) Kills() int { return m.kills }

// Equip switches weapons. The cooldown carries over.
func (m *Manager) Equip(key string) error {
	if _, ok := m.weapons[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWeapon, key)
	}
	m.current = key
	return nil
}

// Ready reports whether the equipped weapon may fire at now.
func (m *Manager) Ready(now time.Duration) bool {
	return !m.hasShot || now-m.lastShot >= m.Weapon().FireRate
}

// Shoot fires the equipped weapon along (dirX, dirY) unless it is cooling
// down. A fired shot always updates the cooldown; a hit applies damage and
// counts the kill when it is lethal.
func (m *Manager) Shoot(now time.Duration, x, y, dirX, dirY float64, enemies []*enemy.Enemy, grid collision.TileChecker) ShotResult {
	if !m.Ready(now) {
		return ShotResult{Fired: false, Reason: ReasonCooldown}
	}
	m.lastShot = now
	m.hasShot = true

	w := m.Weapon()
	hit := m.resolver.Shoot(x, y, dirX, dirY, enemies, w.Range, grid)
	res := ShotResult{Fired: true, Hit: hit.Hit, Enemy: hit.Enemy, Distance: hit.Distance}
	if !hit.Hit {
		return res
	}

	res.Damage = w.Damage
	res.Killed = hit.Enemy.TakeDamage(w.Damage)
	if res.Killed {
		m.kills++
		m.log.WithFields(logrus.Fields{
			"enemy":  hit.Enemy.ID,
			"weapon": w.Key,
			"kills":  m.kills,
		}).Info("enemy killed")
	}
	return res
}

// Aim previews what a shot would hit without firing.
func (m *Manager) Aim(x, y, dirX, dirY float64, enemies []*enemy.Enemy, grid collision.TileChecker) Hit {
	return m.resolver.Shoot(x, y, dirX, dirY, enemies, m.Weapon().Range, grid)
}

// State is the serialisable part of the manager.
type State struct {
	Weapon     string `json:"weapon"`
	LastShotMs int64  `json:"lastShotMs"`
	HasShot    bool   `json:"hasShot"`
	Kills      int    `json:"kills"`
}

func (m *Manager) State() State {
	return State{
		Weapon:     m.current,
		LastShotMs: m.lastShot.Milliseconds(),
		HasShot:    m.hasShot,
		Kills:      m.kills,
	}
}

// Restore applies a saved state. An unknown weapon keeps the current one.
func (m *Manager) Restore(s State) error {
	if err := m.Equip(s.Weapon); err != nil {
		return err
	}
	m.lastShot = time.Duration(s.LastShotMs) * time.Millisecond
	m.hasShot = s.HasShot
	m.kills = s.Kills
	return nil
}
