// Package bargain implements the negotiation engine: level-scaled offer
// bands, customer opening offers, counter-offer rounds and the session
// state machine that drives them.
package bargain

import "math"

const (
	// MaxRounds is the number of counter rounds before the customer leaves.
	MaxRounds = 3

	// HardFailGap is the price gap above which a final round always fails.
	HardFailGap = 0.2

	// NegativeGap is the price gap above which the customer reacts negatively.
	NegativeGap = 0.15

	// HaggleCap is the most haggle attempts any customer tolerates.
	HaggleCap = 5

	maxDifficulty = 0.25
	minTolerance  = 0.05
	maxTolerance  = 0.15
)

// Config is the per-negotiation band. It is derived on every call and never stored.
type Config struct {
	OfferMin           float64 `json:"offerMin"`
	OfferMax           float64 `json:"offerMax"`
	ToleranceThreshold float64 `json:"toleranceThreshold"`
	MaxRounds          int     `json:"maxRounds"`
}

// Contains reports whether price lies inside the band.
func (c Config) Contains(price float64) bool {
	return price >= c.OfferMin && price <= c.OfferMax
}

// Clamp moves price into the band.
func (c Config) Clamp(price float64) float64 {
	return clamp(price, c.OfferMin, c.OfferMax)
}

// Difficulty returns the interpolation weight for a player level, 0 at
// level 1 rising by 0.05 per level up to 0.25.
func Difficulty(playerLevel int) float64 {
	return clamp(0.05*float64(playerLevel-1), 0, maxDifficulty)
}

// ToleranceThreshold returns the accepted fractional gap from market price
// for a player level: 0.15 at level 1 shrinking by 0.02 per level to 0.05.
func ToleranceThreshold(playerLevel int) float64 {
	return clamp(maxTolerance-float64(playerLevel-1)*0.02, minTolerance, maxTolerance)
}

// CalculateLevelBasedOfferRange derives the negotiation band.
//
// The base band [buy×0.9, market×1.1] is interpolated towards the tighter
// [buy×0.6, market×0.8] as difficulty rises, widened by 5% per side for
// items rarer than common, and clamped to [buy×0.6, market×1.05]. When a
// buy price far above market would invert the band, the band collapses to
// its upper edge.
func CalculateLevelBasedOfferRange(playerLevel int, buyPrice, marketPrice, rarityMultiplier float64) Config {
	difficulty := Difficulty(playerLevel)

	offerMin := lerp(buyPrice*0.9, buyPrice*0.6, difficulty)
	offerMax := lerp(marketPrice*1.1, marketPrice*0.8, difficulty)

	if rarityMultiplier > 1 {
		offerMin *= 0.95
		offerMax *= 1.05
	}

	offerMin = math.Max(offerMin, buyPrice*0.6)
	offerMax = math.Min(offerMax, marketPrice*1.05)
	if offerMin > offerMax {
		offerMin = offerMax
	}

	return Config{
		OfferMin:           offerMin,
		OfferMax:           offerMax,
		ToleranceThreshold: ToleranceThreshold(playerLevel),
		MaxRounds:          MaxRounds,
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
