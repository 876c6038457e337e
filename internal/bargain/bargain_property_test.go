// Property-based tests for the negotiation engine.
package bargain

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
)

var (
	rarities = []model.Rarity{
		model.RarityCommon, model.RarityRare, model.RarityVeryRare, model.RarityLegendary,
	}
	authenticities = []model.Authenticity{model.Authentic, model.Fake, model.Suspicious}
	customerTypes  = []model.CustomerType{
		model.CustomerCollector, model.CustomerStudent, model.CustomerTrader, model.CustomerNostalgic,
		model.CustomerHunter, model.CustomerTourist, model.CustomerExpert,
	}
)

func drawSource(t *rapid.T) rng.Source {
	draws := rapid.SliceOfN(rapid.Float64Range(0, 0.999999), 1, 32).Draw(t, "draws")
	return rng.NewSequence(draws...)
}

func drawItem(t *rapid.T) model.Item {
	return model.Item{
		ID:           "item",
		BaseValue:    rapid.IntRange(1, 5000).Draw(t, "baseValue"),
		Condition:    rapid.IntRange(0, 100).Draw(t, "condition"),
		Rarity:       rapid.SampledFrom(rarities).Draw(t, "rarity"),
		Authenticity: rapid.SampledFrom(authenticities).Draw(t, "authenticity"),
	}
}

func drawCustomer(t *rapid.T) model.Customer {
	return model.Customer{
		ID:        "c",
		Type:      rapid.SampledFrom(customerTypes).Draw(t, "type"),
		Intent:    rapid.SampledFrom([]model.Intent{model.IntentBuy, model.IntentSell}).Draw(t, "intent"),
		Patience:  rapid.IntRange(0, 100).Draw(t, "patience"),
		Budget:    rapid.IntRange(0, 20000).Draw(t, "budget"),
		Knowledge: rapid.IntRange(0, 100).Draw(t, "knowledge"),
	}
}

// TestOfferBandOrderedProperty: offerMin never exceeds offerMax and tolerance stays in range.
func TestOfferBandOrderedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(1, 20).Draw(t, "level")
		buy := rapid.Float64Range(0, 1e6).Draw(t, "buy")
		market := rapid.Float64Range(0, 1e6).Draw(t, "market")
		rarity := rapid.SampledFrom([]float64{0.9, 1.2, 1.4, 1.5}).Draw(t, "rarity")

		cfg := CalculateLevelBasedOfferRange(level, buy, market, rarity)
		if cfg.OfferMin > cfg.OfferMax {
			t.Fatalf("band inverted: [%f, %f]", cfg.OfferMin, cfg.OfferMax)
		}
		if cfg.ToleranceThreshold < 0.05 || cfg.ToleranceThreshold > 0.15 {
			t.Fatalf("tolerance %f out of range at level %d", cfg.ToleranceThreshold, level)
		}
		if cfg.OfferMax > market*1.05+1e-9 {
			t.Fatalf("offerMax %f above market cap %f", cfg.OfferMax, market*1.05)
		}
	})
}

// TestInitialOfferInsideBandProperty: the opening offer lands inside the floored band.
func TestInitialOfferInsideBandProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		item := drawItem(t)
		c := drawCustomer(t)
		level := rapid.IntRange(1, 10).Draw(t, "level")

		cfg := NewQuote(item, level).Config
		offer := GenerateBalancedInitialOffer(drawSource(t), c, item, level)

		if float64(offer) > cfg.OfferMax {
			t.Fatalf("offer %d above band max %f", offer, cfg.OfferMax)
		}
		if offer < int(math.Floor(cfg.OfferMin)) {
			t.Fatalf("offer %d below band min %f", offer, cfg.OfferMin)
		}
	})
}

// TestCounterOfferBoundedProperty: a counter never exceeds the band and never goes negative.
func TestCounterOfferBoundedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		item := drawItem(t)
		c := drawCustomer(t)
		level := rapid.IntRange(1, 10).Draw(t, "level")
		round := rapid.IntRange(1, MaxRounds).Draw(t, "round")
		player := rapid.IntRange(0, 50000).Draw(t, "player")
		last := rapid.IntRange(0, 50000).Draw(t, "last")

		cfg := NewQuote(item, level).Config
		res := GenerateBalancedCounterOffer(drawSource(t), c, item, player, last, level, round)

		if IsExpertFake(c, item) && (res.Accepted || !res.Final) {
			t.Fatalf("expert accepted a fake: %+v", res)
		}
		if res.Accepted && res.Final {
			t.Fatalf("result both accepted and final: %+v", res)
		}
		if res.HasCounter() {
			if res.CounterOffer < 0 || float64(res.CounterOffer) > cfg.OfferMax {
				t.Fatalf("counter %d outside [0, %f]", res.CounterOffer, cfg.OfferMax)
			}
			if c.Intent == model.IntentBuy && float64(res.CounterOffer) > float64(c.Budget)*0.9 {
				t.Fatalf("counter %d above 90%% of budget %d", res.CounterOffer, c.Budget)
			}
		}
	})
}

// TestExpertFakeHaggleProperty: an expert buyer never accepts a fake,
// whatever the offer.
func TestExpertFakeHaggleProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		item := drawItem(t)
		item.Authenticity = model.Fake
		c := drawCustomer(t)
		c.Type = model.CustomerExpert
		c.Intent = model.IntentBuy

		res := GenerateHaggleResponse(drawSource(t), c, item,
			rapid.IntRange(0, 100000).Draw(t, "offer"), rapid.IntRange(0, 10).Draw(t, "count"))
		if res.Accepted {
			t.Fatalf("expert accepted fake at %+v", res)
		}
		if res.ReputationDelta >= 0 || res.TrustDelta >= 0 {
			t.Fatalf("expected penalties, got rep %d trust %d", res.ReputationDelta, res.TrustDelta)
		}
	})
}

// TestSessionTerminatesProperty: any sequence of player counters ends the
// session within MaxRounds rounds.
func TestSessionTerminatesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		item := drawItem(t)
		c := drawCustomer(t)
		level := rapid.IntRange(1, 10).Draw(t, "level")
		offers := rapid.SliceOfN(rapid.IntRange(0, 20000), MaxRounds+2, MaxRounds+2).Draw(t, "offers")

		s := NewSession(drawSource(t), c, item, level)
		if _, err := s.Present(); err != nil {
			t.Fatalf("present: %v", err)
		}
		for _, o := range offers {
			if s.Done() {
				break
			}
			if _, err := s.Counter(o); err != nil {
				t.Fatalf("counter: %v", err)
			}
		}
		if !s.Done() {
			t.Fatalf("session still %s after %d rounds", s.State(), s.Round())
		}
		if s.Round() > MaxRounds {
			t.Fatalf("session ran %d rounds", s.Round())
		}
	})
}
