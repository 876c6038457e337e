package bargain

import (
	"math"

	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
	"haggle-shop/internal/shop"
)

// PatienceDecay is the patience a customer loses per haggle attempt.
const PatienceDecay = 12

// HaggleResponse is the answer of the quick haggle variant.
type HaggleResponse struct {
	Accepted        bool   `json:"accepted"`
	WalkedOut       bool   `json:"walkedOut"`
	CounterOffer    int    `json:"counterOffer,omitempty"`
	Message         string `json:"message"`
	Emoji           string `json:"emoji"`
	ReputationDelta int    `json:"reputationDelta"`
	TrustDelta      int    `json:"trustDelta"`
	Patience        int    `json:"patience"`
}

// RemainingPatience is the customer's patience after haggleCount attempts.
// It is derived for the decision only; the customer is never modified.
func RemainingPatience(c model.Customer, haggleCount int) int {
	return c.Patience - haggleCount*PatienceDecay
}

// knowledgeTolerance narrows with customer knowledge: 0.2 for a novice, 0.1
// for a customer who knows everything.
func knowledgeTolerance(knowledge int) float64 {
	return 0.2 - float64(model.ClampPercent(knowledge))/1000
}

// GenerateHaggleResponse answers a single haggle attempt without a session.
// An expert shown a fake refuses before any price is considered.
func GenerateHaggleResponse(src rng.Source, c model.Customer, item model.Item, offer, haggleCount int) HaggleResponse {
	if IsExpertFake(c, item) {
		return HaggleResponse{
			Message:         MsgExpertFake,
			Emoji:           ReactionNegative.Emoji(),
			ReputationDelta: ExpertFakeReputationPenalty,
			TrustDelta:      ExpertFakeTrustPenalty,
			Patience:        RemainingPatience(c, haggleCount),
		}
	}

	patience := RemainingPatience(c, haggleCount)
	if patience <= 0 || haggleCount >= HaggleCap {
		return HaggleResponse{
			WalkedOut:  true,
			Message:    MsgHaggleWalkout,
			Emoji:      ReactionNegative.Emoji(),
			TrustDelta: -2,
			Patience:   patience,
		}
	}

	market := float64(shop.CalculateItemValue(item))
	if market <= 0 {
		market = 1
	}
	tol := knowledgeTolerance(c.Knowledge)
	ratio := float64(offer) / market
	reaction := classify(math.Abs(ratio-1), tol)

	resp := HaggleResponse{
		Emoji:    reaction.Emoji(),
		Patience: patience,
	}

	if c.Intent == model.IntentSell {
		floor := market * (0.6 + float64(model.ClampPercent(c.Knowledge))/500)
		if float64(offer) >= floor {
			resp.Accepted = true
			resp.Message = MsgHaggleAccept
			resp.TrustDelta = 1
			if ratio >= 0.9 {
				resp.ReputationDelta = 1
			}
			return resp
		}
		if ratio < 0.4 {
			resp.TrustDelta = -1
		}
		resp.CounterOffer = int(math.Floor(floor + (market-floor)/2))
		resp.Message = PickMessage(src, c.Intent, reaction)
		return resp
	}

	if offer <= c.Budget && ratio <= 1+tol {
		resp.Accepted = true
		resp.Message = MsgHaggleAccept
		resp.ReputationDelta = 1
		if ratio <= 1 {
			resp.TrustDelta = 2
		}
		return resp
	}
	if ratio > 1.5 {
		resp.TrustDelta = -1
	}
	resp.CounterOffer = int(math.Floor(math.Min(float64(c.Budget), market*(1+tol/2))))
	resp.Message = PickMessage(src, c.Intent, reaction)
	return resp
}
