package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"haggle-shop/internal/bargain"
	"haggle-shop/internal/event"
	"haggle-shop/internal/model"
	"haggle-shop/internal/progression"
	"haggle-shop/internal/shop"
)

// Negotiation actions accepted by HandleCounter.
const (
	ActionCounter = "counter"
	ActionAccept  = "accept"
	ActionWalk    = "walk"
)

// NegotiationView is the client's picture of a running or finished negotiation.
type NegotiationView struct {
	Customer      model.Customer `json:"customer"`
	Item          model.Item     `json:"item"`
	State         bargain.State  `json:"state"`
	Round         int            `json:"round"`
	CustomerOffer int            `json:"customerOffer"`
	OfferMin      float64        `json:"offerMin"`
	OfferMax      float64        `json:"offerMax"`
	Reaction      string         `json:"reaction,omitempty"`
	Emoji         string         `json:"emoji,omitempty"`
	Message       string         `json:"message,omitempty"`
	Closing       string         `json:"closing,omitempty"`
	FinalPrice    int            `json:"finalPrice,omitempty"`
	Traded        bool           `json:"traded"`
}

// CounterRequest is the body of HandleCounter.
type CounterRequest struct {
	Action string `json:"action"`
	Offer  int    `json:"offer"`
}

// DayResponse is returned by HandleAdvanceDay.
type DayResponse struct {
	LeveledUp  bool                   `json:"leveledUp"`
	Level      int                    `json:"level"`
	Settlement progression.Settlement `json:"settlement"`
	Cash       int                    `json:"cash"`
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleState returns the whole player state of the slot.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(g *game) (any, error) {
		return g.engine.State(), nil
	})
}

// HandleMissions returns the active missions with translated titles.
func (h *Handler) HandleMissions(w http.ResponseWriter, r *http.Request) {
	locale := h.localeOf(r)
	h.run(w, r, func(g *game) (any, error) {
		missions := append([]model.Mission(nil), g.engine.Missions()...)
		for i := range missions {
			missions[i].Title = h.translator.Translate(missions[i].Title, locale)
		}
		return map[string]any{"missions": missions}, nil
	})
}

// HandleClaimMission pays out a completed mission.
func (h *Handler) HandleClaimMission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.run(w, r, func(g *game) (any, error) {
		if !g.engine.ClaimMissionReward(id) {
			return nil, failure(http.StatusConflict, "api.mission_not_claimable")
		}
		s := g.engine.State()
		return map[string]any{
			"claimed":    id,
			"cash":       s.Cash,
			"reputation": s.Reputation,
			"experience": s.Experience,
		}, nil
	})
}

// HandleUpgradeSkill spends a skill point.
func (h *Handler) HandleUpgradeSkill(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.run(w, r, func(g *game) (any, error) {
		if !g.engine.UpgradeSkill(id) {
			return nil, failure(http.StatusConflict, "api.skill_not_upgradable")
		}
		return map[string]any{
			"skill":       id,
			"level":       g.engine.SkillLevel(id),
			"skillPoints": g.engine.State().SkillPoints,
		}, nil
	})
}

// HandleNextCustomer lets the next customer in and opens a negotiation.
func (h *Handler) HandleNextCustomer(w http.ResponseWriter, r *http.Request) {
	locale := h.localeOf(r)
	h.run(w, r, func(g *game) (any, error) {
		if g.session != nil && !g.session.Done() {
			return nil, failure(http.StatusConflict, "api.negotiation_in_progress")
		}
		enc, ok := g.engine.NextCustomer()
		if !ok {
			return nil, failure(http.StatusConflict, "api.day_end_pending")
		}

		g.session = g.engine.StartNegotiation(enc)
		if _, err := g.session.Present(); err != nil {
			return nil, err
		}
		g.events.Emit(event.Click, "customer")
		return h.settle(g, locale), nil
	})
}

// HandleCounter plays one move of the open negotiation.
func (h *Handler) HandleCounter(w http.ResponseWriter, r *http.Request) {
	var req CounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, h.slotOf(r), failure(http.StatusBadRequest, "api.bad_request"))
		return
	}
	if req.Action == "" {
		req.Action = ActionCounter
	}

	locale := h.localeOf(r)
	h.run(w, r, func(g *game) (any, error) {
		if g.session == nil {
			return nil, failure(http.StatusConflict, "api.no_negotiation")
		}

		var err error
		switch req.Action {
		case ActionCounter:
			if req.Offer < 0 {
				return nil, failure(http.StatusBadRequest, "api.bad_request")
			}
			_, err = g.session.Counter(req.Offer)
		case ActionAccept:
			_, err = g.session.Accept()
		case ActionWalk:
			err = g.session.Walk()
		default:
			return nil, failure(http.StatusBadRequest, "api.bad_request")
		}
		if errors.Is(err, bargain.ErrSessionClosed) || errors.Is(err, bargain.ErrNoOffer) {
			return nil, failure(http.StatusConflict, "api.negotiation_closed")
		}
		if err != nil {
			return nil, err
		}
		return h.settle(g, locale), nil
	})
}

// HandleAppraise pays for an appraisal of the item under negotiation.
func (h *Handler) HandleAppraise(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(g *game) (any, error) {
		if g.session == nil || g.session.Done() {
			return nil, failure(http.StatusConflict, "api.no_negotiation")
		}
		appraisal, ok := g.engine.UseAppraisal(g.session.Item())
		if !ok {
			return nil, failure(http.StatusConflict, "api.insufficient_funds")
		}
		return struct {
			shop.Appraisal
			Cost int `json:"cost"`
			Cash int `json:"cash"`
		}{appraisal, g.engine.AppraisalCost(), g.engine.State().Cash}, nil
	})
}

// HandleAdvanceDay closes the shop: level-up check, settlement and the next day.
// An open negotiation is dropped.
func (h *Handler) HandleAdvanceDay(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(g *game) (any, error) {
		g.session = nil
		leveled, settlement := g.engine.EndDay()
		s := g.engine.State()
		return DayResponse{
			LeveledUp:  leveled,
			Level:      s.Level,
			Settlement: settlement,
			Cash:       s.Cash,
		}, nil
	})
}

// HandleEvents drains the slot's event queue.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(g *game) (any, error) {
		events := g.events.Drain()
		if events == nil {
			events = []event.Event{}
		}
		return map[string]any{"events": events}, nil
	})
}

// settle builds the view of the current session and, once it is over,
// applies its outcome to the player.
func (h *Handler) settle(g *game, locale string) NegotiationView {
	sess := g.session
	cfg := sess.Config()
	view := NegotiationView{
		Customer:      sess.Customer(),
		Item:          sess.Item(),
		State:         sess.State(),
		Round:         sess.Round(),
		CustomerOffer: sess.CustomerOffer(),
		OfferMin:      cfg.OfferMin,
		OfferMax:      cfg.OfferMax,
	}
	if last := sess.Last(); last != nil {
		view.Reaction = string(last.Reaction)
		view.Emoji = last.Emoji
		view.Message = h.translator.Translate(last.Message, locale)
	}

	if sess.Done() {
		view.Closing = h.translator.Translate(sess.Closing(), locale)
		view.FinalPrice = sess.FinalPrice()
		view.Traded = g.engine.CompleteNegotiation(sess)
		g.session = nil
		log.Debug().
			Str("customer", string(view.Customer.Type)).
			Str("state", string(view.State)).
			Int("price", view.FinalPrice).
			Bool("traded", view.Traded).
			Msg("Negotiation finished")
	}
	return view
}
