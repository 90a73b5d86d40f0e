package content

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"raydungeon/internal/combat"
	"raydungeon/internal/enemy"
	"raydungeon/internal/graphics"
)

// ParseHexColor parses "#RRGGBB" or "RRGGBB".
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// GraphicsTheme converts the theme, keeping default colours for anything
// that does not parse.
func (p *Pack) GraphicsTheme() graphics.Theme {
	theme := graphics.DefaultTheme()
	if c, err := ParseHexColor(p.Theme.PrimaryColor); err == nil {
		theme.Primary = c
	}
	if c, err := ParseHexColor(p.Theme.SecondaryColor); err == nil {
		theme.Secondary = c
	}
	theme.Atmosphere = p.Theme.Atmosphere
	return theme
}

// Stats converts a descriptor into enemy stats. Speed is left unset so the
// configured chase speed applies; the backend's speed values are not in
// tiles per second. Other zero fields are filled when the enemy spawns.
func (d EnemyDescriptor) Stats() enemy.Stats {
	health := d.Health
	if health <= 0 {
		health = 50
	}
	damage := d.Damage
	if damage < 0 {
		damage = 0
	}
	return enemy.Stats{
		Key:              d.ID,
		Name:             d.Name,
		Health:           health,
		Damage:           damage,
		DetectionRange:   d.DetectionRange,
		AttackRange:      d.AttackRange,
		AttackCooldownMs: d.AttackCooldown,
		Sprite:           d.ID,
	}
}

// EnemyTypes builds a type table from the pack's enemies. It returns false
// when the pack has no usable enemies so the caller keeps its own table.
func (p *Pack) EnemyTypes() (*enemy.TypeTable, bool) {
	if len(p.Enemies) == 0 {
		return nil, false
	}
	table := &enemy.TypeTable{Enemies: make(map[string]enemy.Stats, len(p.Enemies))}
	for _, d := range p.Enemies {
		table.Enemies[d.ID] = d.Stats()
	}
	if err := table.Validate(); err != nil {
		return nil, false
	}
	return table, true
}

// Weapons converts weapon items into shop weapons. Fire rate and range are
// not part of the descriptor, so they come from base.
func (p *Pack) Weapons(base combat.Weapon) []combat.Weapon {
	var out []combat.Weapon
	for _, item := range p.Items {
		if item.Type != "weapon" || item.Damage <= 0 {
			continue
		}
		out = append(out, combat.Weapon{
			Key:      Slug(item.Name, "weapon"),
			Name:     item.Name,
			Damage:   item.Damage,
			FireRate: base.FireRate,
			Range:    base.Range,
			Cost:     max(0, item.Cost),
		})
	}
	return out
}

// HealItem is a consumable sold by the shopkeeper.
type HealItem struct {
	Name   string
	Amount int
	Cost   int
}

// HealItems lists the health items in the pack.
func (p *Pack) HealItems() []HealItem {
	var out []HealItem
	for _, item := range p.Items {
		if item.Type != "health" || item.Heal <= 0 {
			continue
		}
		out = append(out, HealItem{Name: item.Name, Amount: item.Heal, Cost: max(0, item.Cost)})
	}
	return out
}

// AssetRefs lists every texture and sprite the pack references. Entries
// without a source are skipped; they resolve to placeholders.
func (p *Pack) AssetRefs() []graphics.AssetRef {
	var refs []graphics.AssetRef
	for _, t := range p.Textures {
		src := t.URL
		if src == "" {
			src = t.Path
		}
		if t.ID == "" || src == "" {
			continue
		}
		refs = append(refs, graphics.AssetRef{ID: t.ID, Kind: graphics.KindTexture, Source: src})
	}
	for _, s := range p.Sprites {
		src := s.SpriteSheet
		if src == "" {
			src = s.Path
		}
		if s.ID == "" || src == "" || s.Error != "" {
			continue
		}
		refs = append(refs, graphics.AssetRef{
			ID:         s.ID,
			Kind:       graphics.KindSprite,
			Type:       s.Type,
			Source:     src,
			FrameCount: s.FrameCount,
		})
	}
	return refs
}
