package enemy

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"raydungeon/internal/config"
)

//go:embed default_enemies.yaml
var defaultTypeTableYAML []byte

// ErrInvalidTypeTable is returned for type tables with unusable entries.
var ErrInvalidTypeTable = errors.New("invalid enemy type table")

// Stats is a map-independent enemy descriptor.
type Stats struct {
	Key              string  `yaml:"-" json:"key"`
	Name             string  `yaml:"name" json:"name"`
	Health           int     `yaml:"health" json:"health"`
	Damage           int     `yaml:"damage" json:"damage"`
	Speed            float64 `yaml:"speed" json:"speed"` // tiles per second
	DetectionRange   float64 `yaml:"detection_range" json:"detectionRange"`
	AttackRange      float64 `yaml:"attack_range" json:"attackRange"`
	AttackCooldownMs int     `yaml:"attack_cooldown_ms" json:"attackCooldownMs"`
	Sprite           string  `yaml:"sprite" json:"sprite"`
}

// AttackCooldown returns the cooldown as a duration.
func (s Stats) AttackCooldown() time.Duration {
	return time.Duration(s.AttackCooldownMs) * time.Millisecond
}

// WithDefaults fills zero or negative fields from the tuning defaults.
func (s Stats) WithDefaults(t Tuning) Stats {
	if s.Name == "" {
		s.Name = "Enemy"
	}
	if s.Health <= 0 {
		s.Health = 50
	}
	if s.Damage < 0 {
		s.Damage = 0
	}
	if s.Speed <= 0 {
		s.Speed = t.ChaseSpeed
	}
	if s.DetectionRange <= 0 {
		s.DetectionRange = t.DefaultDetection
	}
	if s.AttackRange <= 0 {
		s.AttackRange = t.DefaultAttackRange
	}
	if s.AttackCooldownMs <= 0 {
		s.AttackCooldownMs = int(t.DefaultAttackCooldown / time.Millisecond)
	}
	return s
}

// Tuning holds the behaviour constants shared by all enemies of a manager.
type Tuning struct {
	MaxEnemies            int
	ChaseSpeed            float64
	PatrolSpeedFactor     float64
	PatrolMin             time.Duration
	PatrolMax             time.Duration
	LoseTargetFactor      float64
	AttackExitFactor      float64
	RepathInterval        time.Duration
	WaypointTolerance     float64
	PathNodeBudget        int
	DefaultDetection      float64
	DefaultAttackRange    float64
	DefaultAttackCooldown time.Duration
}

// TuningFromConfig converts the enemy_ai config section.
func TuningFromConfig(c config.EnemyAIConfig) Tuning {
	return Tuning{
		MaxEnemies:            c.MaxEnemies,
		ChaseSpeed:            c.ChaseSpeed,
		PatrolSpeedFactor:     c.PatrolSpeedFactor,
		PatrolMin:             time.Duration(c.PatrolMinSeconds * float64(time.Second)),
		PatrolMax:             time.Duration(c.PatrolMaxSeconds * float64(time.Second)),
		LoseTargetFactor:      c.LoseTargetFactor,
		AttackExitFactor:      c.AttackExitFactor,
		RepathInterval:        time.Duration(c.RepathIntervalMs) * time.Millisecond,
		WaypointTolerance:     c.WaypointTolerance,
		PathNodeBudget:        c.PathNodeBudget,
		DefaultDetection:      c.DefaultDetection,
		DefaultAttackRange:    c.DefaultAttackRange,
		DefaultAttackCooldown: time.Duration(c.DefaultAttackCooldMs) * time.Millisecond,
	}
}

// DefaultTuning returns the tuning of the default configuration.
func DefaultTuning() Tuning {
	return TuningFromConfig(config.Default().EnemyAI)
}

// TypeTable is the set of enemy kinds a level can spawn.
type TypeTable struct {
	Enemies map[string]Stats `yaml:"enemies"`
}

func parseTypeTable(data []byte) (*TypeTable, error) {
	var table TypeTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse enemy types: %w", err)
	}
	for key, s := range table.Enemies {
		s.Key = key
		table.Enemies[key] = s
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

// LoadTypeTable loads enemy types from a YAML file.
func LoadTypeTable(filename string) (*TypeTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemy type file: %w", err)
	}
	return parseTypeTable(data)
}

// DefaultTypeTable returns the built-in enemy types.
func DefaultTypeTable() *TypeTable {
	table, err := parseTypeTable(defaultTypeTableYAML)
	if err != nil {
		panic("embedded enemy table is invalid: " + err.Error())
	}
	return table
}

// Validate checks every entry for usable values.
func (t *TypeTable) Validate() error {
	if len(t.Enemies) == 0 {
		return fmt.Errorf("%w: no enemies defined", ErrInvalidTypeTable)
	}
	for key, s := range t.Enemies {
		switch {
		case s.Health <= 0:
			return fmt.Errorf("%w: %s: health must be positive", ErrInvalidTypeTable, key)
		case s.Damage < 0:
			return fmt.Errorf("%w: %s: damage must not be negative", ErrInvalidTypeTable, key)
		case s.Speed < 0 || s.DetectionRange < 0 || s.AttackRange < 0:
			return fmt.Errorf("%w: %s: speed and ranges must not be negative", ErrInvalidTypeTable, key)
		case s.AttackRange > 0 && s.DetectionRange > 0 && s.AttackRange >= s.DetectionRange:
			return fmt.Errorf("%w: %s: attack range must be below detection range", ErrInvalidTypeTable, key)
		}
	}
	return nil
}

// Keys returns the type keys in sorted order.
func (t *TypeTable) Keys() []string {
	keys := make([]string, 0, len(t.Enemies))
	for key := range t.Enemies {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// List returns the stats in key order, which is the spawn rotation order.
func (t *TypeTable) List() []Stats {
	keys := t.Keys()
	out := make([]Stats, 0, len(keys))
	for _, key := range keys {
		out = append(out, t.Enemies[key])
	}
	return out
}

// Get returns the stats for key.
func (t *TypeTable) Get(key string) (Stats, bool) {
	s, ok := t.Enemies[key]
	return s, ok
}
