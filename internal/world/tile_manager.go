package world

import (
	"fmt"
	"image/color"
	"sort"

	"raydungeon/internal/config"
)

// TileManager resolves wall codes to their configured name, texture and
// fallback colour.
type TileManager struct {
	tileData map[int]*config.TileData
}

// NewTileManager builds a manager from the tiles section of the config.
func NewTileManager(cfg config.TileConfig) *TileManager {
	tm := &TileManager{tileData: make(map[int]*config.TileData)}
	for code, data := range cfg.Walls {
		// Make a copy to avoid pointer issues
		tileCopy := data
		tm.tileData[code] = &tileCopy
	}
	return tm
}

// GetTileData returns the configuration for a wall code, or nil.
func (tm *TileManager) GetTileData(code int) *config.TileData {
	return tm.tileData[code]
}

// Codes returns the configured wall codes in ascending order.
func (tm *TileManager) Codes() []int {
	codes := make([]int, 0, len(tm.tileData))
	for code := range tm.tileData {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// TextureKey returns the texture id for a wall code. Unknown codes get a
// synthetic key so the asset store can still hand back a placeholder.
func (tm *TileManager) TextureKey(code int) string {
	if data := tm.GetTileData(code); data != nil && data.Texture != "" {
		return data.Texture
	}
	return fmt.Sprintf("wall_%d", code)
}

// GetWallColor returns the solid colour used when no texture is available.
func (tm *TileManager) GetWallColor(code int) color.RGBA {
	if data := tm.GetTileData(code); data != nil {
		c := data.Color
		if c[0] != 0 || c[1] != 0 || c[2] != 0 {
			return color.RGBA{uint8(c[0]), uint8(c[1]), uint8(c[2]), 255}
		}
	}
	// Deterministic per-code fallback
	h := uint8(code * 53)
	return color.RGBA{90 + h%80, 80 + (h/3)%60, 70 + (h/7)%50, 255}
}

// Letter returns the glyph used to draw a cell in text views.
func (tm *TileManager) Letter(code int) rune {
	switch code {
	case TileFloor:
		return '.'
	case TilePortal:
		return '>'
	}
	if data := tm.GetTileData(code); data != nil && data.Letter != "" {
		return []rune(data.Letter)[0]
	}
	return '#'
}
