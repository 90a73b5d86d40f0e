// Package content reads the level packs produced by the generation backend:
// story text, a colour theme, enemy and NPC descriptors, shop items and
// references to texture and sprite art.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Pack is one generated level description. Every section is optional.
type Pack struct {
	GameID   string            `json:"game_id"`
	Story    Story             `json:"story"`
	Theme    ThemeDescriptor   `json:"theme"`
	Enemies  []EnemyDescriptor `json:"enemies"`
	Items    []ItemDescriptor  `json:"items"`
	NPCs     []NPCDescriptor   `json:"npcs"`
	Dungeon  DungeonDescriptor `json:"dungeon"`
	Textures []TextureRef      `json:"textures"`
	Sprites  []SpriteRef       `json:"sprites"`
}

type Story struct {
	Title        string `json:"title"`
	Narrative    string `json:"narrative"`
	WinCondition string `json:"win_condition"`
}

type ThemeDescriptor struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	Atmosphere     string `json:"atmosphere"`
}

// EnemyDescriptor mirrors the backend's enemy entry. Speed is read but not
// used; see enemy stats conversion.
type EnemyDescriptor struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Health         int     `json:"health"`
	Damage         int     `json:"damage"`
	Speed          float64 `json:"speed"`
	Description    string  `json:"description"`
	DetectionRange float64 `json:"detection_range"`
	AttackRange    float64 `json:"attack_range"`
	AttackCooldown int     `json:"attack_cooldown"` // milliseconds
}

// ItemDescriptor is a shop entry: "weapon", "health" or "key".
type ItemDescriptor struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Damage int    `json:"damage"`
	Heal   int    `json:"heal"`
	Cost   int    `json:"cost"`
}

type NPCDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Personality string `json:"personality"`
	Greeting    string `json:"greeting"`
}

type DungeonDescriptor struct {
	Size   int    `json:"size"`
	Seed   int64  `json:"seed"`
	Layout string `json:"layout"`
}

// TextureRef names a surface texture. URL may be a data URL; Path is a
// file relative to the pack.
type TextureRef struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Path string `json:"path"`
}

// SpriteRef names a character sprite sheet with 1 or 4 frames.
type SpriteRef struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	SpriteSheet string `json:"sprite_sheet"`
	Path        string `json:"path"`
	FrameCount  int    `json:"frame_count"`
	Error       string `json:"error,omitempty"`
}

// Default is the pack used when no content file exists.
func Default() *Pack {
	p := &Pack{}
	p.applyDefaults()
	return p
}

// Load reads a pack from disk. A missing file yields the default pack and
// found=false; malformed JSON is an error.
func Load(filename string) (pack *Pack, found bool, err error) {
	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read content pack %s: %w", filename, err)
	}
	pack, err = Parse(data)
	if err != nil {
		return nil, false, fmt.Errorf("content pack %s: %w", filename, err)
	}
	return pack, true, nil
}

// Parse decodes a pack and fills defaults for absent fields.
func Parse(data []byte) (*Pack, error) {
	var p Pack
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse content pack: %w", err)
	}
	p.applyDefaults()
	return &p, nil
}

func (p *Pack) applyDefaults() {
	if p.Story.Title == "" {
		p.Story.Title = "The Dungeon"
	}
	if p.Story.WinCondition == "" {
		p.Story.WinCondition = "Find the portal"
	}
	if p.Theme.Atmosphere == "" {
		p.Theme.Atmosphere = "fantasy"
	}
	for i := range p.Enemies {
		e := &p.Enemies[i]
		if e.ID == "" {
			e.ID = Slug(e.Name, "enemy")
		}
		if e.Name == "" {
			e.Name = e.ID
		}
	}
	for i := range p.NPCs {
		n := &p.NPCs[i]
		if n.ID == "" {
			n.ID = Slug(n.Name, "npc")
		}
		if n.Name == "" {
			n.Name = "Stranger"
		}
		if n.Role == "" {
			n.Role = "shopkeeper"
		}
		if n.Greeting == "" {
			n.Greeting = "Need supplies?"
		}
	}
	for i := range p.Sprites {
		if p.Sprites[i].FrameCount != 4 {
			p.Sprites[i].FrameCount = 1
		}
	}
}

// Slug lowercases name and joins words with underscores, as the backend
// does for ids. Empty names fall back to def.
func Slug(name, def string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return def
	}
	return strings.Join(strings.Fields(s), "_")
}

// Shopkeeper returns the first NPC whose role is shopkeeper, or the first
// NPC, or false when there are none.
func (p *Pack) Shopkeeper() (NPCDescriptor, bool) {
	for _, n := range p.NPCs {
		if n.Role == "shopkeeper" {
			return n, true
		}
	}
	if len(p.NPCs) > 0 {
		return p.NPCs[0], true
	}
	return NPCDescriptor{}, false
}
