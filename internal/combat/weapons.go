package combat

import (
	"sort"
	"time"

	"raydungeon/internal/config"
)

// Weapon is a static weapon definition.
type Weapon struct {
	Key      string
	Name     string
	Damage   int
	FireRate time.Duration // minimum time between shots
	Range    float64       // tiles
	Cost     int           // shop price in gold
}

// DefaultWeapons returns the built-in pistol, shotgun and rifle.
func DefaultWeapons() map[string]Weapon {
	return WeaponsFromConfig(config.Default().Combat)
}

// WeaponsFromConfig converts the combat.weapons table.
func WeaponsFromConfig(c config.CombatConfig) map[string]Weapon {
	out := make(map[string]Weapon, len(c.Weapons))
	for key, w := range c.Weapons {
		name := w.Name
		if name == "" {
			name = key
		}
		out[key] = Weapon{
			Key:      key,
			Name:     name,
			Damage:   w.Damage,
			FireRate: time.Duration(w.FireRateMs) * time.Millisecond,
			Range:    w.Range,
			Cost:     w.Cost,
		}
	}
	return out
}

// SortedWeapons lists weapons by price, then key, for menus.
func SortedWeapons(weapons map[string]Weapon) []Weapon {
	out := make([]Weapon, 0, len(weapons))
	for _, w := range weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].Key < out[j].Key
	})
	return out
}
