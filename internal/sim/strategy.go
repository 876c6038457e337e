// Package sim plays the shop automatically: a Strategy answers every
// customer and a Runner drives whole days through the progression engine.
package sim

import (
	"math"

	"haggle-shop/internal/bargain"
	"haggle-shop/internal/model"
)

// Action is a move in a negotiation.
type Action string

const (
	Accept  Action = "accept"
	Counter Action = "counter"
	Walk    Action = "walk"
)

// Move is a strategy's answer to the offer on the table.
type Move struct {
	Action Action
	Price  int
}

// Player is what a strategy may know about the shop owner.
type Player struct {
	Cash  int
	Level int
}

// Strategy decides how the shop negotiates. Implementations must be
// stateless; the session carries everything about the current customer.
type Strategy interface {
	// Name is the registry key, e.g. "fair".
	Name() string

	// Description is a one-line summary for listings.
	Description() string

	// Decide answers the customer's current offer.
	Decide(sess *bargain.Session, p Player) Move
}

// buying reports whether the shop is the buyer in this session.
func buying(sess *bargain.Session) bool {
	return sess.Customer().Intent == model.IntentSell
}

func marketPrice(sess *bargain.Session, level int) int {
	return bargain.NewQuote(sess.Item(), level).MarketPrice
}

func scale(v int, f float64) int {
	return int(math.Round(float64(v) * f))
}

// affordable walks away from sellers the shop cannot pay.
func affordable(sess *bargain.Session, p Player) bool {
	return !buying(sess) || sess.CustomerOffer() <= p.Cash
}

// Fair takes reasonable offers and haggles once otherwise.
type Fair struct{}

func (Fair) Name() string        { return "fair" }
func (Fair) Description() string { return "accepts fair prices, counters once" }

func (Fair) Decide(sess *bargain.Session, p Player) Move {
	if !affordable(sess, p) {
		return Move{Action: Walk}
	}
	market := marketPrice(sess, p.Level)
	offer := sess.CustomerOffer()

	if buying(sess) {
		if offer <= scale(market, 0.9) || sess.Round() > 0 {
			return Move{Action: Accept}
		}
		return Move{Action: Counter, Price: scale(offer, 0.85)}
	}
	if offer >= market || sess.Round() > 0 {
		return Move{Action: Accept}
	}
	return Move{Action: Counter, Price: scale(market, 1.05)}
}

// Greedy pushes hard every round and only settles on the last one.
type Greedy struct{}

func (Greedy) Name() string        { return "greedy" }
func (Greedy) Description() string { return "counters aggressively until the final round" }

func (Greedy) Decide(sess *bargain.Session, p Player) Move {
	if !affordable(sess, p) {
		return Move{Action: Walk}
	}
	if sess.Round() >= sess.Config().MaxRounds-1 {
		return Move{Action: Accept}
	}
	market := marketPrice(sess, p.Level)
	if buying(sess) {
		return Move{Action: Counter, Price: scale(sess.CustomerOffer(), 0.7)}
	}
	return Move{Action: Counter, Price: scale(market, 1.3)}
}

// Pushover takes every opening offer it can pay for.
type Pushover struct{}

func (Pushover) Name() string        { return "pushover" }
func (Pushover) Description() string { return "accepts the opening offer" }

func (Pushover) Decide(sess *bargain.Session, p Player) Move {
	if !affordable(sess, p) {
		return Move{Action: Walk}
	}
	return Move{Action: Accept}
}
