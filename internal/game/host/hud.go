package host

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"raydungeon/internal/game"
)

var (
	hudText       = color.RGBA{230, 230, 230, 255}
	hudDim        = color.RGBA{150, 150, 160, 255}
	hudGold       = color.RGBA{240, 200, 80, 255}
	hudPanel      = color.RGBA{0, 0, 0, 170}
	hudHighlight  = color.RGBA{200, 180, 80, 220}
	crosshairIdle = color.RGBA{220, 220, 220, 200}
	crosshairAim  = color.RGBA{255, 60, 60, 230}
)

// maxShakePixels is the screen offset at full shake strength, per 1000 px
// of screen width.
const maxShakePixels = 12.0

// shakeOffset is a deterministic jitter from the session clock.
func shakeOffset(strength float64, clock time.Duration, screenWidth int) (float64, float64) {
	if strength <= 0 {
		return 0, 0
	}
	amp := strength * maxShakePixels * float64(screenWidth) / 1000
	t := clock.Seconds()
	return amp * math.Sin(t*91), amp * math.Cos(t*73)
}

// healthColor fades from green to red as health drops.
func healthColor(health, maxHealth int) color.RGBA {
	if maxHealth <= 0 {
		return color.RGBA{200, 40, 40, 255}
	}
	f := math.Max(0, math.Min(1, float64(health)/float64(maxHealth)))
	return color.RGBA{R: uint8(220 * (1 - f)), G: uint8(40 + 160*f), B: 40, A: 255}
}

func drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	face := basicfont.Face7x13
	ebitext.Draw(screen, s, face, x, y+face.Ascent, c)
}

func drawCentered(screen *ebiten.Image, s string, y int, c color.Color) {
	w := font.MeasureString(basicfont.Face7x13, s).Round()
	drawText(screen, s, (screen.Bounds().Dx()-w)/2, y, c)
}

func fillRect(screen *ebiten.Image, x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (a *App) drawHUD(screen *ebiten.Image) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	fx := a.session.Effects()

	if s := fx.Strength(game.EffectDamageFlash); s > 0 {
		fillRect(screen, 0, 0, float64(sw), float64(sh), color.RGBA{200, 0, 0, uint8(120 * s)})
	}
	if s := fx.Strength(game.EffectMuzzleFlash); s > 0 {
		r := 40 * s
		fillRect(screen, float64(sw)/2-r, float64(sh)-2*r-40, 2*r, 2*r, color.RGBA{255, 220, 120, uint8(200 * s)})
	}
	a.drawCrosshair(screen, fx.Strength(game.EffectHitMarker))

	snap := a.snapshot
	p := a.session.Player()
	barW := 200.0
	fillRect(screen, 10, float64(sh)-34, barW+4, 24, hudPanel)
	fillRect(screen, 12, float64(sh)-32, barW*float64(p.Health)/float64(max(1, p.MaxHealth)), 20, healthColor(p.Health, p.MaxHealth))
	drawText(screen, fmt.Sprintf("HP %d/%d", p.Health, p.MaxHealth), 16, sh-30, hudText)

	fillRect(screen, float64(sw)-230, 8, 222, 70, hudPanel)
	drawText(screen, fmt.Sprintf("Level %d", snap.Level), sw-222, 12, hudText)
	drawText(screen, fmt.Sprintf("Weapon: %s", snap.Weapon), sw-222, 28, hudText)
	drawText(screen, fmt.Sprintf("Kills %d  Enemies %d", snap.Kills, snap.EnemiesAlive), sw-222, 44, hudDim)
	drawText(screen, fmt.Sprintf("Gold %d", snap.Gold), sw-222, 60, hudGold)

	if a.session.Phase() == game.PhasePlaying && a.session.NearShop() {
		drawCentered(screen, fmt.Sprintf("Press E to trade with %s", a.session.NPC().Name), sh-70, hudGold)
	}
	if a.message != "" && time.Now().Before(a.messageUntil) {
		drawCentered(screen, a.message, 40, hudText)
	}
}

func (a *App) drawCrosshair(screen *ebiten.Image, hit float64) {
	cx := float64(screen.Bounds().Dx()) / 2
	cy := float64(screen.Bounds().Dy()) / 2
	c := crosshairIdle
	if a.session.Aim().Hit {
		c = crosshairAim
	}
	fillRect(screen, cx-8, cy-1, 16, 2, c)
	fillRect(screen, cx-1, cy-8, 2, 16, c)
	if hit > 0 {
		m := color.RGBA{255, 255, 255, uint8(255 * hit)}
		for _, d := range [][2]float64{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
			fillRect(screen, cx+d[0]*10-2, cy+d[1]*10-2, 4, 4, m)
		}
	}
}

func (a *App) drawPhase(screen *ebiten.Image) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	phase := a.session.Phase()
	if phase == game.PhasePlaying {
		return
	}
	fillRect(screen, 0, 0, float64(sw), float64(sh), color.RGBA{0, 0, 0, 150})
	mid := sh / 3

	switch phase {
	case game.PhaseIntro:
		story := a.session.Pack().Story
		drawCentered(screen, story.Title, mid, hudGold)
		y := mid + 30
		for _, line := range wrap(story.Narrative, (sw-80)/7) {
			drawCentered(screen, line, y, hudText)
			y += 16
		}
		drawCentered(screen, "Goal: "+story.WinCondition, y+16, hudDim)
		drawCentered(screen, "Press Enter to begin", y+48, hudText)
	case game.PhaseShopOpen:
		a.drawShop(screen, mid)
	case game.PhaseLevelComplete:
		st := a.session.Stats()
		drawCentered(screen, fmt.Sprintf("Level %d complete", st.Level), mid, hudGold)
		drawCentered(screen, fmt.Sprintf("Kills %d  Gold %d  Time %s", st.Kills, st.Gold, st.TimeElapsed.Round(time.Second)), mid+24, hudText)
		drawCentered(screen, "Press Enter to descend", mid+56, hudDim)
	case game.PhaseGameOver:
		st := a.session.Stats()
		drawCentered(screen, "You died", mid, crosshairAim)
		drawCentered(screen, fmt.Sprintf("Reached level %d with %d kills", st.Level, a.snapshot.Kills), mid+24, hudText)
		drawCentered(screen, "Press Enter to start over, F9 to load", mid+56, hudDim)
	}
}

func (a *App) drawShop(screen *ebiten.Image, top int) {
	npc := a.session.NPC()
	drawCentered(screen, npc.Name, top, hudGold)
	drawCentered(screen, npc.Greeting, top+18, hudDim)
	x := screen.Bounds().Dx()/2 - 150
	y := top + 48
	for i, o := range a.session.Catalog() {
		if i == a.shopIndex {
			fillRect(screen, float64(x-6), float64(y-2), 312, 18, hudHighlight)
		}
		label := fmt.Sprintf("%s (+%d HP)", o.Name, o.Amount)
		if o.Kind == game.OfferWeapon {
			label = fmt.Sprintf("%s (%d dmg)", o.Name, o.Amount)
		}
		drawText(screen, label, x, y, hudText)
		drawText(screen, fmt.Sprintf("%4dg", o.Cost), x+260, y, hudGold)
		y += 20
	}
	ebitenutil.DebugPrintAt(screen, "Up/Down select  Enter buy  E/Esc leave", x, y+12)
}

// wrap splits s into lines of at most width runes on spaces.
func wrap(s string, width int) []string {
	if width <= 0 || s == "" {
		return nil
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
