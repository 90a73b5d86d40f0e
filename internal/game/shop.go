package game

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"raydungeon/internal/combat"
	"raydungeon/internal/mathutil"
)

// OfferKind distinguishes shop entries.
type OfferKind int

const (
	OfferHeal OfferKind = iota
	OfferWeapon
)

// Offer is one line of the shop catalogue.
type Offer struct {
	Kind   OfferKind
	Key    string // weapon key for weapon offers
	Name   string
	Amount int // health restored for heal offers, damage for weapons
	Cost   int
}

// Purchase is what the UI asks the session to apply.
type Purchase struct {
	Heal   int
	Weapon string
	Cost   int
}

// Purchase converts the offer into a purchase request.
func (o Offer) Purchase() Purchase {
	if o.Kind == OfferWeapon {
		return Purchase{Weapon: o.Key, Cost: o.Cost}
	}
	return Purchase{Heal: o.Amount, Cost: o.Cost}
}

// NearShop reports whether the player can talk to the shopkeeper.
func (s *Session) NearShop() bool {
	return mathutil.Distance(s.player.X, s.player.Y, s.npc.X, s.npc.Y) <= s.cfg.Session.ShopRadius
}

// OpenShop pauses the session in the shop phase.
func (s *Session) OpenShop() error {
	if s.phase != PhasePlaying {
		return ErrWrongPhase
	}
	if !s.NearShop() {
		return ErrNotNearShop
	}
	s.phase = PhaseShopOpen
	s.log.WithField("npc", s.npc.Name).Debug("Shop opened")
	return nil
}

// CloseShop resumes play.
func (s *Session) CloseShop() error {
	if s.phase != PhaseShopOpen {
		return ErrWrongPhase
	}
	s.phase = PhasePlaying
	return nil
}

// Catalog lists the configured heal, the pack's heal items and every weapon
// that is not equipped, weapons ordered by price.
func (s *Session) Catalog() []Offer {
	offers := []Offer{{
		Kind:   OfferHeal,
		Key:    "heal",
		Name:   "Healing draught",
		Amount: s.cfg.Session.HealAmount,
		Cost:   s.cfg.Session.HealPrice,
	}}
	for _, h := range s.pack.HealItems() {
		offers = append(offers, Offer{Kind: OfferHeal, Key: h.Name, Name: h.Name, Amount: h.Amount, Cost: h.Cost})
	}
	equipped := s.combat.Weapon().Key
	for _, w := range combat.SortedWeapons(s.combat.Weapons()) {
		if w.Key == equipped {
			continue
		}
		offers = append(offers, Offer{Kind: OfferWeapon, Key: w.Key, Name: w.Name, Amount: w.Damage, Cost: w.Cost})
	}
	return offers
}

// ApplyPurchase charges the player and applies the purchase. Nothing
// changes when it fails.
func (s *Session) ApplyPurchase(p Purchase) error {
	if s.phase != PhaseShopOpen {
		return ErrWrongPhase
	}
	if p.Cost < 0 {
		return fmt.Errorf("invalid cost %d", p.Cost)
	}
	if p.Cost > s.player.Gold {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientGold, p.Cost, s.player.Gold)
	}
	if p.Weapon != "" {
		if err := s.combat.Equip(p.Weapon); err != nil {
			return err
		}
	}
	healed := s.player.Heal(p.Heal)
	s.player.Gold -= p.Cost

	s.log.WithFields(logrus.Fields{
		"weapon": p.Weapon,
		"healed": healed,
		"cost":   p.Cost,
		"gold":   s.player.Gold,
	}).Info("Purchase applied")
	s.emitSnapshotNow()
	return nil
}
