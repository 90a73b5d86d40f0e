package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("dungeon:\n  size: 32\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Dungeon.Size != 32 {
		t.Errorf("expected dungeon size 32, got %d", cfg.Dungeon.Size)
	}
	if cfg.Dungeon.MinRoomSize != 4 {
		t.Errorf("expected default min room size 4, got %d", cfg.Dungeon.MinRoomSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug log level, got %q", cfg.Logging.Level)
	}
	if w := cfg.Combat.Weapons["pistol"]; w.Damage != 25 || w.FireRateMs != 400 {
		t.Errorf("pistol defaults lost: %+v", w)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"min above max", func(c *Config) { c.Dungeon.MinRoomSize = 9 }},
		{"size too small", func(c *Config) { c.Dungeon.Size = 5 }},
		{"zero fov", func(c *Config) { c.Camera.FieldOfViewDegrees = 0 }},
		{"unknown default weapon", func(c *Config) { c.Combat.DefaultWeapon = "bow" }},
		{"zero step", func(c *Config) { c.Session.MaxStepMs = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestLevelScaling(t *testing.T) {
	cfg := Default()
	if got := cfg.LevelSize(1); got != 24 {
		t.Errorf("level 1 size = %d, want 24", got)
	}
	if got := cfg.LevelSize(2); got != 28 {
		t.Errorf("level 2 size = %d, want 28", got)
	}
	if got := cfg.LevelSize(50); got != cfg.Dungeon.MaxSize {
		t.Errorf("size should cap at %d, got %d", cfg.Dungeon.MaxSize, got)
	}
	if got := cfg.SpawnCount(100); got != cfg.EnemyAI.MaxEnemies {
		t.Errorf("spawn count should cap at %d, got %d", cfg.EnemyAI.MaxEnemies, got)
	}
}
