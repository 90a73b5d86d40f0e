package graphics

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"raydungeon/internal/logger"
)

// AssetKind separates surface textures from character sprite sheets.
type AssetKind string

const (
	KindTexture AssetKind = "texture"
	KindSprite  AssetKind = "sprite"
)

// AssetRef points at one piece of art: a data URL or a file path.
type AssetRef struct {
	ID         string
	Kind       AssetKind
	Type       string // enemy or npc for sprites
	Source     string
	FrameCount int
}

// AssetStore owns decoded textures and sprite sheets and hands out
// deterministic placeholders for anything missing.
type AssetStore struct {
	mu        sync.RWMutex
	textures  map[string]*Texture
	sprites   map[string]*SpriteSheet
	fallbacks map[string]color.RGBA
	generated map[string]bool

	size    int
	baseDir string
	theme   Theme
	log     logrus.FieldLogger
	limit   int
}

// NewAssetStore creates an empty store. Relative file sources resolve
// against baseDir.
func NewAssetStore(textureSize int, baseDir string, theme Theme, log logrus.FieldLogger) *AssetStore {
	if textureSize <= 0 {
		textureSize = 64
	}
	return &AssetStore{
		textures:  make(map[string]*Texture),
		sprites:   make(map[string]*SpriteSheet),
		fallbacks: make(map[string]color.RGBA),
		generated: make(map[string]bool),
		size:      textureSize,
		baseDir:   baseDir,
		theme:     theme,
		log:       logger.Component(log, "assets"),
		limit:     4,
	}
}

// TextureSize is the edge length every texture is normalised to.
func (s *AssetStore) TextureSize() int { return s.size }

// Theme returns the palette used for placeholders.
func (s *AssetStore) Theme() Theme { return s.theme }

// SetFallbackColor sets the base colour of the placeholder for key.
// Placeholders already handed out are discarded so the next lookup uses it.
func (s *AssetStore) SetFallbackColor(key string, c color.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallbacks[key] = c
	if s.generated[key] {
		delete(s.textures, key)
		delete(s.generated, key)
	}
	if sheet, ok := s.sprites[key]; ok && sheet.Type == placeholderType {
		delete(s.sprites, key)
	}
}

// LoadAll decodes every ref concurrently and joins before returning.
// Individual decode failures are logged and leave the asset to its
// placeholder; only cancellation is reported as an error.
func (s *AssetStore) LoadAll(ctx context.Context, refs []AssetRef) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)

	for _, ref := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := s.decode(ref.Source)
			if err != nil {
				s.log.WithFields(logrus.Fields{
					"asset": ref.ID,
					"kind":  ref.Kind,
				}).WithError(err).Warn("Asset unavailable, using placeholder")
				return nil
			}
			s.store(ref, img)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	s.log.WithField("count", len(refs)).Info("Assets loaded")
	return nil
}

func (s *AssetStore) store(ref AssetRef, img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ref.Kind {
	case KindSprite:
		s.sprites[ref.ID] = NewSpriteSheet(ref.ID, ref.Type, img, ref.FrameCount, s.size)
	default:
		s.textures[ref.ID] = NewTexture(img, s.size)
		delete(s.generated, ref.ID)
	}
}

func (s *AssetStore) decode(source string) (image.Image, error) {
	if source == "" {
		return nil, fmt.Errorf("empty source")
	}

	var data []byte
	if strings.HasPrefix(source, "data:") {
		comma := strings.IndexByte(source, ',')
		if comma < 0 || !strings.Contains(source[:comma], ";base64") {
			return nil, fmt.Errorf("unsupported data url")
		}
		raw, err := base64.StdEncoding.DecodeString(source[comma+1:])
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
		data = raw
	} else {
		path := source
		if !filepath.IsAbs(path) && s.baseDir != "" {
			path = filepath.Join(s.baseDir, path)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		data = raw
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// HasTexture reports whether key was loaded from real art.
func (s *AssetStore) HasTexture(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.textures[key]
	return ok && !s.generated[key]
}

// HasSprite reports whether key was loaded from real art.
func (s *AssetStore) HasSprite(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sheet, ok := s.sprites[key]
	return ok && sheet.Type != placeholderType
}

const placeholderType = "placeholder"

// Texture returns the texture for key or a generated placeholder. Wall keys
// get a brick pattern; everything else is a flat colour.
func (s *AssetStore) Texture(key string) *Texture {
	s.mu.RLock()
	tex, ok := s.textures[key]
	s.mu.RUnlock()
	if ok {
		return tex
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tex, ok := s.textures[key]; ok {
		return tex
	}
	base, ok := s.fallbacks[key]
	if !ok {
		base = KeyColor(key)
	}
	if strings.HasPrefix(key, "wall") {
		tex = BrickTexture(s.size, Tint(base, s.theme.Primary, 0.35))
	} else {
		tex = SolidTexture(s.size, Tint(base, s.theme.Secondary, 0.35))
	}
	s.generated[key] = true
	s.textures[key] = tex
	return tex
}

// Sprite returns the sheet for key or a single-frame figure placeholder.
func (s *AssetStore) Sprite(key string) *SpriteSheet {
	s.mu.RLock()
	sheet, ok := s.sprites[key]
	s.mu.RUnlock()
	if ok {
		return sheet
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sheet, ok := s.sprites[key]; ok {
		return sheet
	}
	base, ok := s.fallbacks[key]
	if !ok {
		base = KeyColor(key)
	}
	sheet = SingleFrameSheet(key, placeholderType, FigureTexture(s.size, Tint(base, s.theme.Primary, 0.25)))
	s.sprites[key] = sheet
	return sheet
}
