package game

import (
	"image"
	"time"

	"raydungeon/internal/graphics"
	"raydungeon/internal/mathutil"
	"raydungeon/internal/raycast"
)

// SpriteSource resolves sprite keys. *graphics.AssetStore satisfies it.
type SpriteSource interface {
	Sprite(key string) *graphics.SpriteSheet
}

const npcScale = 0.9

// Camera is the player's view.
func (s *Session) Camera() raycast.Camera {
	return raycast.NewCamera(s.player.X, s.player.Y, s.player.Angle, s.cfg.FOVRadians())
}

// Scene collects what the renderer needs for one frame: live enemies and the
// shopkeeper as billboards.
func (s *Session) Scene(textures raycast.TextureSource, sprites SpriteSource, t time.Duration) raycast.Scene {
	alive := s.enemies.Alive()
	list := make([]raycast.Sprite, 0, len(alive)+1)
	flash := s.effects.Strength(EffectHitMarker)
	for _, e := range alive {
		key := e.Sprite
		if key == "" {
			key = e.Type
		}
		fx, fy := e.Facing.Vector()
		sp := raycast.Sprite{X: e.X, Y: e.Y, FacingX: fx, FacingY: fy, Sheet: sprites.Sprite(key)}
		if e.ID == s.lastHit {
			sp.Flash = flash
		}
		list = append(list, sp)
	}

	// The shopkeeper always faces the player.
	fx, fy := mathutil.Normalize(s.player.X-s.npc.X, s.player.Y-s.npc.Y)
	list = append(list, raycast.Sprite{
		X: s.npc.X, Y: s.npc.Y,
		FacingX: fx, FacingY: fy,
		Sheet: sprites.Sprite(s.npc.ID),
		Scale: npcScale,
	})

	return raycast.Scene{
		Grid:     s.dungeon.Grid,
		Camera:   s.Camera(),
		Textures: textures,
		Sprites:  list,
		Time:     t,
	}
}

// Render draws the current view. It works in every phase so paused screens
// keep the world behind them.
func (s *Session) Render(r *raycast.Renderer, textures raycast.TextureSource, sprites SpriteSource, t time.Duration) *image.RGBA {
	img := r.Render(s.Scene(textures, sprites, t))
	if s.monitor != nil {
		s.monitor.UpdateWorldMetrics(s.enemies.AliveCount(), r.Stats().SpritesDrawn)
	}
	return img
}
