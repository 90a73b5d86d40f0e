package graphics

import (
	"image/color"

	"raydungeon/internal/world"
)

// Surface texture keys used by the content pack.
const (
	FloorKey   = "floor"
	CeilingKey = "ceiling"
)

// WorldTextures resolves tile codes to textures for the renderer. It is
// built once per level so per-column lookups do not touch the store's lock.
type WorldTextures struct {
	walls   map[int]*Texture
	floor   *Texture
	ceiling *Texture
	store   *AssetStore
	tiles   *world.TileManager
}

// NewWorldTextures registers the tile palette as placeholder colours and
// resolves every known wall code plus the floor and ceiling.
func NewWorldTextures(store *AssetStore, tiles *world.TileManager, floor, ceiling color.RGBA) *WorldTextures {
	wt := &WorldTextures{
		walls: make(map[int]*Texture),
		store: store,
		tiles: tiles,
	}
	for _, code := range tiles.Codes() {
		key := tiles.TextureKey(code)
		store.SetFallbackColor(key, tiles.GetWallColor(code))
		wt.walls[code] = store.Texture(key)
	}
	store.SetFallbackColor(FloorKey, floor)
	store.SetFallbackColor(CeilingKey, ceiling)
	wt.floor = store.Texture(FloorKey)
	wt.ceiling = store.Texture(CeilingKey)
	return wt
}

// WallTexture returns the texture for a wall code. Codes missing from the
// palette fall through to the store, which is safe but slower.
func (wt *WorldTextures) WallTexture(code int) *Texture {
	if tex, ok := wt.walls[code]; ok {
		return tex
	}
	return wt.store.Texture(wt.tiles.TextureKey(code))
}

func (wt *WorldTextures) FloorTexture() *Texture   { return wt.floor }
func (wt *WorldTextures) CeilingTexture() *Texture { return wt.ceiling }
