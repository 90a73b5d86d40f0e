package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all game configuration values
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Dungeon  DungeonConfig  `yaml:"dungeon"`
	Movement MovementConfig `yaml:"movement"`
	Camera   CameraConfig   `yaml:"camera"`
	Combat   CombatConfig   `yaml:"combat"`
	EnemyAI  EnemyAIConfig  `yaml:"enemy_ai"`
	Render   RenderConfig   `yaml:"render"`
	Session  SessionConfig  `yaml:"session"`
	Tiles    TileConfig     `yaml:"tiles"`
	Logging  LoggingConfig  `yaml:"logging"`
	Storage  StorageConfig  `yaml:"storage"`
	Assets   AssetsConfig   `yaml:"assets"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	RenderWidth  int    `yaml:"render_width"`  // internal framebuffer width
	RenderHeight int    `yaml:"render_height"` // internal framebuffer height
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	TPS          int    `yaml:"tps"`
}

type DungeonConfig struct {
	Size           int   `yaml:"size"`
	MinRoomSize    int   `yaml:"min_room_size"`
	MaxRoomSize    int   `yaml:"max_room_size"`
	RecursionDepth int   `yaml:"recursion_depth"`
	Seed           int64 `yaml:"seed"` // 0 picks a seed from the clock
	WallVariants   int   `yaml:"wall_variants"`
	SizeStep       int   `yaml:"size_step"` // growth per completed level
	MaxSize        int   `yaml:"max_size"`
}

type MovementConfig struct {
	MoveSpeed     float64 `yaml:"move_speed"`     // tiles per second
	RotationSpeed float64 `yaml:"rotation_speed"` // radians per second
}

type CameraConfig struct {
	FieldOfViewDegrees float64 `yaml:"field_of_view_degrees"`
}

type CombatConfig struct {
	DefaultWeapon string                  `yaml:"default_weapon"`
	Weapons       map[string]WeaponConfig `yaml:"weapons"`
	AimConeDot    float64                 `yaml:"aim_cone_dot"`
	AimTolerance  float64                 `yaml:"aim_tolerance"`
	GoldPerKill   int                     `yaml:"gold_per_kill"`
}

type WeaponConfig struct {
	Name       string  `yaml:"name"`
	Damage     int     `yaml:"damage"`
	FireRateMs int     `yaml:"fire_rate_ms"`
	Range      float64 `yaml:"range"`
	Cost       int     `yaml:"cost"`
}

type EnemyAIConfig struct {
	MaxEnemies           int     `yaml:"max_enemies"`
	SpawnPerLevel        int     `yaml:"spawn_per_level"`
	SpawnGrowth          int     `yaml:"spawn_growth"` // extra spawns per level number
	ChaseSpeed           float64 `yaml:"chase_speed"`  // tiles per second when a type omits speed
	PatrolSpeedFactor    float64 `yaml:"patrol_speed_factor"`
	PatrolMinSeconds     float64 `yaml:"patrol_min_seconds"`
	PatrolMaxSeconds     float64 `yaml:"patrol_max_seconds"`
	LoseTargetFactor     float64 `yaml:"lose_target_factor"`
	AttackExitFactor     float64 `yaml:"attack_exit_factor"`
	RepathIntervalMs     int     `yaml:"repath_interval_ms"`
	WaypointTolerance    float64 `yaml:"waypoint_tolerance"`
	PathNodeBudget       int     `yaml:"path_node_budget"`
	DefaultDetection     float64 `yaml:"default_detection_range"`
	DefaultAttackRange   float64 `yaml:"default_attack_range"`
	DefaultAttackCooldMs int     `yaml:"default_attack_cooldown_ms"`
}

type RenderConfig struct {
	MaxSteps      int     `yaml:"max_steps"`
	FogDistance   float64 `yaml:"fog_distance"`
	FogMin        float64 `yaml:"fog_min"`
	SideShade     float64 `yaml:"side_shade"`
	Workers       int     `yaml:"workers"` // 0 uses one worker per CPU, 1 marches inline
	FloorColor    [3]int  `yaml:"floor_color"`
	CeilingColor  [3]int  `yaml:"ceiling_color"`
	PortalColor   [3]int  `yaml:"portal_color"`
	PortalPulseHz float64 `yaml:"portal_pulse_hz"`
}

type SessionConfig struct {
	MaxStepMs          int     `yaml:"max_step_ms"`
	SnapshotIntervalMs int     `yaml:"snapshot_interval_ms"`
	PlayerMaxHealth    int     `yaml:"player_max_health"`
	ShopRadius         float64 `yaml:"shop_radius"`
	DamageFlashMs      int     `yaml:"damage_flash_ms"`
	MuzzleFlashMs      int     `yaml:"muzzle_flash_ms"`
	HitMarkerMs        int     `yaml:"hit_marker_ms"`
	ShakeMs            int     `yaml:"shake_ms"`
	HealPrice          int     `yaml:"heal_price"`
	HealAmount         int     `yaml:"heal_amount"`
}

type TileConfig struct {
	Walls map[int]TileData `yaml:"walls"`
}

type TileData struct {
	Name    string `yaml:"name"`
	Texture string `yaml:"texture"`
	Color   [3]int `yaml:"color"`
	Letter  string `yaml:"letter"` // glyph for the terminal previewer
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StorageConfig struct {
	Dir      string `yaml:"dir"`
	PlayerID string `yaml:"player_id"`
}

type AssetsConfig struct {
	EnemiesFile string `yaml:"enemies_file"`
	ContentFile string `yaml:"content_file"`
	TextureSize int    `yaml:"texture_size"`
}

// Default returns a configuration with every value populated.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  960,
			ScreenHeight: 600,
			RenderWidth:  320,
			RenderHeight: 200,
			WindowTitle:  "Ray Dungeon",
			Resizable:    true,
			TPS:          60,
		},
		Dungeon: DungeonConfig{
			Size:           24,
			MinRoomSize:    4,
			MaxRoomSize:    8,
			RecursionDepth: 4,
			WallVariants:   3,
			SizeStep:       4,
			MaxSize:        48,
		},
		Movement: MovementConfig{
			MoveSpeed:     3.0,
			RotationSpeed: 2.5,
		},
		Camera: CameraConfig{FieldOfViewDegrees: 66},
		Combat: CombatConfig{
			DefaultWeapon: "pistol",
			Weapons: map[string]WeaponConfig{
				"pistol":  {Name: "Pistol", Damage: 25, FireRateMs: 400, Range: 12, Cost: 0},
				"shotgun": {Name: "Shotgun", Damage: 60, FireRateMs: 900, Range: 6, Cost: 120},
				"rifle":   {Name: "Rifle", Damage: 35, FireRateMs: 150, Range: 18, Cost: 200},
			},
			AimConeDot:   0.9,
			AimTolerance: 0.5,
			GoldPerKill:  10,
		},
		EnemyAI: EnemyAIConfig{
			MaxEnemies:           10,
			SpawnPerLevel:        5,
			SpawnGrowth:          1,
			ChaseSpeed:           1.5,
			PatrolSpeedFactor:    0.3,
			PatrolMinSeconds:     2,
			PatrolMaxSeconds:     4,
			LoseTargetFactor:     1.5,
			AttackExitFactor:     1.2,
			RepathIntervalMs:     500,
			WaypointTolerance:    0.3,
			PathNodeBudget:       200,
			DefaultDetection:     8,
			DefaultAttackRange:   1.2,
			DefaultAttackCooldMs: 1000,
		},
		Render: RenderConfig{
			MaxSteps:      64,
			FogDistance:   12,
			FogMin:        0.15,
			SideShade:     0.7,
			FloorColor:    [3]int{70, 60, 50},
			CeilingColor:  [3]int{35, 35, 45},
			PortalColor:   [3]int{120, 60, 255},
			PortalPulseHz: 1.5,
		},
		Session: SessionConfig{
			MaxStepMs:          100,
			SnapshotIntervalMs: 200,
			PlayerMaxHealth:    100,
			ShopRadius:         1.5,
			DamageFlashMs:      200,
			MuzzleFlashMs:      80,
			HitMarkerMs:        150,
			ShakeMs:            250,
			HealPrice:          40,
			HealAmount:         50,
		},
		Tiles: TileConfig{
			Walls: map[int]TileData{
				1: {Name: "stone", Texture: "wall_stone", Color: [3]int{110, 110, 120}, Letter: "#"},
				2: {Name: "brick", Texture: "wall_brick", Color: [3]int{140, 70, 50}, Letter: "%"},
				3: {Name: "moss", Texture: "wall_moss", Color: [3]int{70, 110, 70}, Letter: "&"},
			},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{Dir: "saves", PlayerID: "local"},
		Assets: AssetsConfig{
			EnemiesFile: "assets/enemies.yaml",
			ContentFile: "assets/level.json",
			TextureSize: 64,
		},
	}
}

// LoadConfig loads the configuration from a YAML file on top of Default.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", filename, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	cfg, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// Validate reports the first out-of-range value.
func (c *Config) Validate() error {
	switch {
	case c.Display.RenderWidth <= 0 || c.Display.RenderHeight <= 0:
		return fmt.Errorf("display: render size must be positive, got %dx%d", c.Display.RenderWidth, c.Display.RenderHeight)
	case c.Dungeon.MinRoomSize <= 0 || c.Dungeon.MaxRoomSize < c.Dungeon.MinRoomSize:
		return fmt.Errorf("dungeon: invalid room size range [%d, %d]", c.Dungeon.MinRoomSize, c.Dungeon.MaxRoomSize)
	case c.Dungeon.Size < c.Dungeon.MinRoomSize+2:
		return fmt.Errorf("dungeon: size %d too small for min room size %d", c.Dungeon.Size, c.Dungeon.MinRoomSize)
	case c.Dungeon.WallVariants <= 0 || c.Dungeon.WallVariants > 8:
		return fmt.Errorf("dungeon: wall_variants must be in [1, 8], got %d", c.Dungeon.WallVariants)
	case c.Camera.FieldOfViewDegrees <= 0 || c.Camera.FieldOfViewDegrees >= 180:
		return fmt.Errorf("camera: field of view must be in (0, 180), got %v", c.Camera.FieldOfViewDegrees)
	case c.EnemyAI.MaxEnemies < 0:
		return fmt.Errorf("enemy_ai: max_enemies must not be negative")
	case c.Session.MaxStepMs <= 0:
		return fmt.Errorf("session: max_step_ms must be positive")
	}
	if _, ok := c.Combat.Weapons[c.Combat.DefaultWeapon]; !ok {
		return fmt.Errorf("combat: default weapon %q is not in the weapon table", c.Combat.DefaultWeapon)
	}
	return nil
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

// FOVRadians returns the horizontal field of view in radians.
func (c *Config) FOVRadians() float64 {
	return c.Camera.FieldOfViewDegrees * math.Pi / 180
}

func (c *Config) MaxStep() time.Duration {
	return time.Duration(c.Session.MaxStepMs) * time.Millisecond
}

func (c *Config) SnapshotInterval() time.Duration {
	return time.Duration(c.Session.SnapshotIntervalMs) * time.Millisecond
}

// LevelSize returns the dungeon size for a 1-based level number.
func (c *Config) LevelSize(level int) int {
	size := c.Dungeon.Size + (level-1)*c.Dungeon.SizeStep
	if c.Dungeon.MaxSize > 0 && size > c.Dungeon.MaxSize {
		size = c.Dungeon.MaxSize
	}
	return size
}

// SpawnCount returns how many enemies a level asks for, capped by MaxEnemies.
func (c *Config) SpawnCount(level int) int {
	n := c.EnemyAI.SpawnPerLevel + (level-1)*c.EnemyAI.SpawnGrowth
	if n > c.EnemyAI.MaxEnemies {
		n = c.EnemyAI.MaxEnemies
	}
	return n
}
