package host

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"raydungeon/internal/game"
)

// mouseSensitivity is radians per pixel of captured cursor movement.
const mouseSensitivity = 0.003

func axis(neg, pos bool) float64 {
	switch {
	case neg && !pos:
		return -1
	case pos && !neg:
		return 1
	}
	return 0
}

func anyPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func (a *App) readInput() game.Input {
	in := game.Input{
		Move:   axis(anyPressed(ebiten.KeyS, ebiten.KeyArrowDown), anyPressed(ebiten.KeyW, ebiten.KeyArrowUp)),
		Strafe: axis(anyPressed(ebiten.KeyA), anyPressed(ebiten.KeyD)),
		Turn:   axis(anyPressed(ebiten.KeyArrowLeft, ebiten.KeyQ), anyPressed(ebiten.KeyArrowRight)),
		Fire:   ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	}
	if a.mouseCapture {
		x, _ := ebiten.CursorPosition()
		in.MouseTurn = float64(x-a.mouseX) * mouseSensitivity
		a.mouseX = x
	}
	return in
}

func (a *App) toggleMouseCapture() {
	a.mouseCapture = !a.mouseCapture
	if a.mouseCapture {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		a.mouseX, _ = ebiten.CursorPosition()
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
}

func (a *App) updateShop() {
	offers := a.session.Catalog()
	if a.shopIndex >= len(offers) {
		a.shopIndex = 0
	}
	switch {
	case a.keys.IsKeyJustPressed(ebiten.KeyEscape), a.keys.IsKeyJustPressed(ebiten.KeyE):
		_ = a.session.CloseShop()
	case a.keys.IsKeyJustPressed(ebiten.KeyArrowUp), a.keys.IsKeyJustPressed(ebiten.KeyW):
		a.shopIndex = (a.shopIndex + len(offers) - 1) % len(offers)
	case a.keys.IsKeyJustPressed(ebiten.KeyArrowDown), a.keys.IsKeyJustPressed(ebiten.KeyS):
		a.shopIndex = (a.shopIndex + 1) % len(offers)
	case a.keys.IsKeyJustPressed(ebiten.KeyEnter):
		offer := offers[a.shopIndex]
		err := a.session.ApplyPurchase(offer.Purchase())
		switch {
		case errors.Is(err, game.ErrInsufficientGold):
			a.notify("Not enough gold")
		case err != nil:
			a.notify("Cannot buy that")
		default:
			a.notify(fmt.Sprintf("Bought %s", offer.Name))
		}
	}
}
