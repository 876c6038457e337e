package bargain

import (
	"math"

	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
	"haggle-shop/internal/shop"
)

// Penalties applied when an expert is shown a fake.
const (
	ExpertFakeReputationPenalty = -10
	ExpertFakeTrustPenalty      = -15
)

// archetypeModifiers scale the customer's opening offer.
var archetypeModifiers = map[model.CustomerType]float64{
	model.CustomerCollector: 0.95,
	model.CustomerStudent:   0.8,
	model.CustomerTrader:    0.75,
	model.CustomerNostalgic: 1.05,
	model.CustomerHunter:    0.85,
	model.CustomerTourist:   1.1,
	model.CustomerExpert:    0.9,
}

// ArchetypeModifier returns the opening offer multiplier of a customer type.
// Collectors pay a premium for legendary pieces.
func ArchetypeModifier(t model.CustomerType, rarity model.Rarity) float64 {
	if t == model.CustomerCollector && rarity == model.RarityLegendary {
		return 1.1
	}
	if m, ok := archetypeModifiers[t]; ok {
		return m
	}
	return 1
}

// Quote bundles the prices a negotiation over one item is computed from.
type Quote struct {
	MarketPrice int
	BuyPrice    float64
	Config      Config
}

// NewQuote values the item and derives the band for the player level.
func NewQuote(item model.Item, playerLevel int) Quote {
	market := shop.CalculateItemValue(item)
	buy := shop.BuyPrice(item, market)
	return Quote{
		MarketPrice: market,
		BuyPrice:    buy,
		Config: CalculateLevelBasedOfferRange(
			playerLevel, buy, float64(market), shop.BargainRarityMultiplier(item.Rarity),
		),
	}
}

// IsExpertFake reports whether the expert pre-check rejects the negotiation:
// an expert buyer is being shown a fake. An expert selling their own item
// is not checked.
func IsExpertFake(c model.Customer, item model.Item) bool {
	return c.Type == model.CustomerExpert && c.Intent == model.IntentBuy && item.Authenticity == model.Fake
}

// GenerateBalancedInitialOffer returns the customer's opening price: a
// uniform draw inside the band, scaled by the archetype modifier, capped at
// 80% of the customer's budget and finally clamped into the band.
func GenerateBalancedInitialOffer(src rng.Source, c model.Customer, item model.Item, playerLevel int) int {
	q := NewQuote(item, playerLevel)
	cfg := q.Config

	base := rng.Between(src, cfg.OfferMin, cfg.OfferMax)
	offer := base * ArchetypeModifier(c.Type, item.Rarity)
	offer = math.Min(offer, float64(c.Budget)*0.8)
	offer = cfg.Clamp(offer)

	return int(math.Floor(offer))
}

// CounterResult is the customer's answer to a player price.
type CounterResult struct {
	Accepted        bool     `json:"accepted"`
	Final           bool     `json:"final"`
	CounterOffer    int      `json:"counterOffer,omitempty"`
	Reaction        Reaction `json:"reaction"`
	Message         string   `json:"message"`
	Emoji           string   `json:"emoji"`
	PriceDifference float64  `json:"priceDifference"`
	ReputationDelta int      `json:"reputationDelta,omitempty"`
	TrustDelta      int      `json:"trustDelta,omitempty"`
}

// HasCounter reports whether the customer put a new price on the table.
func (r CounterResult) HasCounter() bool {
	return !r.Accepted && !r.Final
}

// PriceDifference returns |offer - market| / market. A worthless item
// compares against a market price of 1.
func PriceDifference(offer, marketPrice int) float64 {
	market := float64(marketPrice)
	if market <= 0 {
		market = 1
	}
	return math.Abs(float64(offer)-market) / market
}

// GenerateBalancedCounterOffer evaluates one negotiation round.
//
// An expert shown a fake always refuses. On the final round a gap above 20%
// always ends the negotiation. Otherwise a buying customer accepts a price
// within budget and tolerance, and a selling customer accepts a price at or
// above the band floor within tolerance. Anything else is countered near the
// midpoint of player offer and market price.
func GenerateBalancedCounterOffer(
	src rng.Source,
	c model.Customer,
	item model.Item,
	playerOffer, lastCustomerOffer int,
	playerLevel, round int,
) CounterResult {
	if IsExpertFake(c, item) {
		return CounterResult{
			Final:           true,
			Reaction:        ReactionNegative,
			Message:         MsgExpertFake,
			Emoji:           ReactionNegative.Emoji(),
			ReputationDelta: ExpertFakeReputationPenalty,
			TrustDelta:      ExpertFakeTrustPenalty,
		}
	}

	q := NewQuote(item, playerLevel)
	cfg := q.Config
	diff := PriceDifference(playerOffer, q.MarketPrice)
	reaction := classify(diff, cfg.ToleranceThreshold)

	if round >= cfg.MaxRounds && diff > HardFailGap {
		return CounterResult{
			Final:           true,
			Reaction:        ReactionNegative,
			Message:         MsgFinalNoDeal,
			Emoji:           ReactionNegative.Emoji(),
			PriceDifference: diff,
		}
	}

	var accepted bool
	switch c.Intent {
	case model.IntentSell:
		accepted = float64(playerOffer) >= cfg.OfferMin && diff <= cfg.ToleranceThreshold
	default:
		accepted = playerOffer <= c.Budget && diff <= cfg.ToleranceThreshold
	}

	result := CounterResult{
		Accepted:        accepted,
		Reaction:        reaction,
		Message:         PickMessage(src, c.Intent, reaction),
		Emoji:           reaction.Emoji(),
		PriceDifference: diff,
	}
	if accepted {
		result.CounterOffer = playerOffer
		return result
	}

	result.CounterOffer = counterPrice(src, c, q, playerOffer, lastCustomerOffer)
	return result
}

// counterPrice moves towards the midpoint of the player's offer and the
// market price, nudged 1-3% of market towards the customer's side.
func counterPrice(src rng.Source, c model.Customer, q Quote, playerOffer, lastCustomerOffer int) int {
	market := float64(q.MarketPrice)
	mid := (float64(playerOffer) + market) / 2
	nudge := market * rng.Between(src, 0.01, 0.03)

	counter := mid + nudge
	if playerOffer > lastCustomerOffer {
		counter = mid - nudge
	}

	counter = q.Config.Clamp(counter)
	if c.Intent != model.IntentSell {
		counter = math.Min(counter, float64(c.Budget)*0.9)
	}
	if counter < 0 {
		counter = 0
	}
	return int(math.Floor(counter))
}
