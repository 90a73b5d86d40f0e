package content

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"raydungeon/internal/combat"
	"raydungeon/internal/graphics"
)

const samplePack = `{
  "game_id": "5b0c",
  "story": {"title": "Crypt of Ash", "narrative": "Smoke hangs low."},
  "theme": {"primary_color": "#804020", "secondary_color": "bad", "atmosphere": "gothic"},
  "enemies": [
    {"id": "ash_wraith", "name": "Ash Wraith", "health": 40, "damage": 12, "speed": 0.3},
    {"name": "Cinder Hound", "health": 0, "damage": 6, "detection_range": 9, "attack_range": 1, "attack_cooldown": 600}
  ],
  "items": [
    {"type": "weapon", "name": "Ember Staff", "damage": 45, "cost": 150},
    {"type": "health", "name": "Tonic", "heal": 60, "cost": 40},
    {"type": "key", "name": "Bone Key"}
  ],
  "npcs": [{"name": "Old Mara", "role": "shopkeeper"}],
  "dungeon": {"size": 32, "seed": 77, "layout": "rooms"},
  "textures": [
    {"id": "wall_1", "url": "data:image/png;base64,AAAA"},
    {"id": "floor", "path": "floor.png"},
    {"id": "ceiling"}
  ],
  "sprites": [
    {"id": "ash_wraith", "type": "enemy", "sprite_sheet": "data:image/png;base64,AAAA", "frame_count": 4},
    {"id": "old_mara", "type": "npc", "path": "mara.png", "frame_count": 2},
    {"id": "cinder_hound", "type": "enemy", "sprite_sheet": "data:text/plain;base64,AAAA", "frame_count": 1, "error": "generation failed"}
  ]
}`

func TestParseAppliesDefaults(t *testing.T) {
	p, err := Parse([]byte(samplePack))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Story.WinCondition != "Find the portal" {
		t.Errorf("WinCondition = %q", p.Story.WinCondition)
	}
	if p.Enemies[1].ID != "cinder_hound" {
		t.Errorf("derived enemy id = %q, want cinder_hound", p.Enemies[1].ID)
	}
	if p.NPCs[0].ID != "old_mara" || p.NPCs[0].Greeting == "" {
		t.Errorf("npc defaults not applied: %+v", p.NPCs[0])
	}
	if p.Sprites[1].FrameCount != 1 {
		t.Errorf("frame_count 2 should normalise to 1, got %d", p.Sprites[1].FrameCount)
	}
	if p.Dungeon.Size != 32 || p.Dungeon.Seed != 77 {
		t.Errorf("dungeon = %+v", p.Dungeon)
	}
	if npc, ok := p.Shopkeeper(); !ok || npc.Name != "Old Mara" {
		t.Errorf("Shopkeeper = %+v, %v", npc, ok)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	p, found, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Error("found should be false")
	}
	if p.Story.Title == "" || len(p.Enemies) != 0 {
		t.Errorf("default pack = %+v", p)
	}
	if _, ok := p.EnemyTypes(); ok {
		t.Error("default pack has no enemy types")
	}
	if _, ok := p.Shopkeeper(); ok {
		t.Error("default pack has no shopkeeper")
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestEnemyTypesIgnoreBackendSpeed(t *testing.T) {
	p, _ := Parse([]byte(samplePack))
	table, ok := p.EnemyTypes()
	if !ok {
		t.Fatal("expected enemy types")
	}

	wraith, ok := table.Get("ash_wraith")
	if !ok {
		t.Fatal("ash_wraith missing")
	}
	if wraith.Speed != 0 {
		t.Errorf("speed = %v, want 0 so the configured chase speed applies", wraith.Speed)
	}
	if wraith.Health != 40 || wraith.Damage != 12 || wraith.Sprite != "ash_wraith" {
		t.Errorf("wraith = %+v", wraith)
	}

	hound, _ := table.Get("cinder_hound")
	if hound.Health != 50 {
		t.Errorf("zero health should default to 50, got %d", hound.Health)
	}
	if hound.AttackCooldown() != 600*time.Millisecond {
		t.Errorf("cooldown = %v", hound.AttackCooldown())
	}
}

func TestEnemyTypesRejectInvalid(t *testing.T) {
	p := &Pack{Enemies: []EnemyDescriptor{{ID: "x", Health: 10, DetectionRange: 2, AttackRange: 3}}}
	if _, ok := p.EnemyTypes(); ok {
		t.Error("attack range above detection range should be rejected")
	}
}

func TestGraphicsTheme(t *testing.T) {
	p, _ := Parse([]byte(samplePack))
	theme := p.GraphicsTheme()

	if theme.Primary != (color.RGBA{0x80, 0x40, 0x20, 255}) {
		t.Errorf("primary = %v", theme.Primary)
	}
	if theme.Secondary != graphics.DefaultTheme().Secondary {
		t.Errorf("unparseable secondary should keep the default, got %v", theme.Secondary)
	}
	if theme.Atmosphere != "gothic" {
		t.Errorf("atmosphere = %q", theme.Atmosphere)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0080", color.RGBA{255, 0, 128, 255}, false},
		{"00ff00", color.RGBA{0, 255, 0, 255}, false},
		{"#FFF", color.RGBA{}, true},
		{"#GG0000", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHexColor(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShopItems(t *testing.T) {
	p, _ := Parse([]byte(samplePack))
	base := combat.Weapon{FireRate: 400 * time.Millisecond, Range: 12}

	weapons := p.Weapons(base)
	if len(weapons) != 1 {
		t.Fatalf("weapons = %+v", weapons)
	}
	w := weapons[0]
	if w.Key != "ember_staff" || w.Damage != 45 || w.Cost != 150 || w.FireRate != base.FireRate || w.Range != 12 {
		t.Errorf("weapon = %+v", w)
	}

	heals := p.HealItems()
	if len(heals) != 1 || heals[0].Amount != 60 || heals[0].Cost != 40 {
		t.Errorf("heal items = %+v", heals)
	}
}

func TestAssetRefs(t *testing.T) {
	p, _ := Parse([]byte(samplePack))
	refs := p.AssetRefs()

	byID := map[string]graphics.AssetRef{}
	for _, r := range refs {
		byID[r.ID] = r
	}
	if len(refs) != 4 {
		t.Fatalf("got %d refs, want 4: %+v", len(refs), refs)
	}
	if _, ok := byID["ceiling"]; ok {
		t.Error("texture without a source should be skipped")
	}
	if _, ok := byID["cinder_hound"]; ok {
		t.Error("sprite with a generation error should be skipped")
	}
	if r := byID["ash_wraith"]; r.Kind != graphics.KindSprite || r.FrameCount != 4 {
		t.Errorf("ash_wraith ref = %+v", r)
	}
	if r := byID["floor"]; r.Source != "floor.png" || r.Kind != graphics.KindTexture {
		t.Errorf("floor ref = %+v", r)
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("  Cinder   Hound ", "x"); got != "cinder_hound" {
		t.Errorf("Slug = %q", got)
	}
	if got := Slug("", "enemy"); got != "enemy" {
		t.Errorf("Slug empty = %q", got)
	}
}
