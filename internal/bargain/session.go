package bargain

import (
	"errors"

	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
)

// State of a negotiation session.
type State string

const (
	StateIdle           State = "idle"
	StateOfferPresented State = "offer_presented"
	StateCounterOffered State = "counter_offered"
	StateAccepted       State = "accepted"
	StateRejected       State = "rejected"
)

// Session errors
var (
	ErrSessionClosed = errors.New("negotiation already finished")
	ErrNoOffer       = errors.New("no customer offer on the table")
)

// Session drives one negotiation. All of its state is local; a caller may
// drop a session at any point without cleanup. A Session is not safe for
// concurrent use.
type Session struct {
	src      rng.Source
	customer model.Customer
	item     model.Item
	level    int
	config   Config

	state         State
	round         int
	haggleCount   int
	haggleCap     int
	customerOffer int
	finalPrice    int
	last          *CounterResult

	reputationDelta int
	trustDelta      int
}

// NewSession prepares a negotiation over item with customer.
func NewSession(src rng.Source, c model.Customer, item model.Item, playerLevel int) *Session {
	return &Session{
		src:       src,
		customer:  c,
		item:      item,
		level:     playerLevel,
		config:    NewQuote(item, playerLevel).Config,
		state:     StateIdle,
		haggleCap: haggleCapFor(c),
	}
}

// haggleCapFor derives how many counters a customer sits through from patience.
func haggleCapFor(c model.Customer) int {
	n := c.Patience / 15
	if n < 1 {
		n = 1
	}
	if n > HaggleCap {
		n = HaggleCap
	}
	return n
}

// Present puts the customer's opening offer on the table. An expert shown a
// fake ends the session immediately and Present returns 0.
func (s *Session) Present() (int, error) {
	if s.state != StateIdle {
		return 0, ErrSessionClosed
	}
	if IsExpertFake(s.customer, s.item) {
		s.reputationDelta += ExpertFakeReputationPenalty
		s.trustDelta += ExpertFakeTrustPenalty
		s.state = StateRejected
		s.last = &CounterResult{
			Final:           true,
			Reaction:        ReactionNegative,
			Message:         MsgExpertFake,
			Emoji:           ReactionNegative.Emoji(),
			ReputationDelta: ExpertFakeReputationPenalty,
			TrustDelta:      ExpertFakeTrustPenalty,
		}
		return 0, nil
	}

	s.customerOffer = GenerateBalancedInitialOffer(s.src, s.customer, s.item, s.level)
	s.state = StateOfferPresented
	return s.customerOffer, nil
}

// Counter answers the customer's offer with a player price.
func (s *Session) Counter(playerOffer int) (CounterResult, error) {
	switch s.state {
	case StateAccepted, StateRejected:
		return CounterResult{}, ErrSessionClosed
	case StateIdle:
		return CounterResult{}, ErrNoOffer
	}

	s.round++
	s.haggleCount++
	res := GenerateBalancedCounterOffer(s.src, s.customer, s.item, playerOffer, s.customerOffer, s.level, s.round)
	s.reputationDelta += res.ReputationDelta
	s.trustDelta += res.TrustDelta

	switch {
	case res.Accepted:
		s.state = StateAccepted
		s.finalPrice = playerOffer
	case res.Final:
		s.state = StateRejected
	case s.round >= s.config.MaxRounds || s.haggleCount >= s.haggleCap:
		res.Final = true
		res.Message = MsgHaggleWalkout
		res.CounterOffer = 0
		s.state = StateRejected
	default:
		s.customerOffer = res.CounterOffer
		s.state = StateCounterOffered
	}

	s.last = &res
	return res, nil
}

// Accept takes the customer's current offer and returns the agreed price.
func (s *Session) Accept() (int, error) {
	switch s.state {
	case StateAccepted, StateRejected:
		return 0, ErrSessionClosed
	case StateIdle:
		return 0, ErrNoOffer
	}
	s.finalPrice = s.customerOffer
	s.state = StateAccepted
	return s.finalPrice, nil
}

// Walk ends the negotiation without a deal.
func (s *Session) Walk() error {
	if s.Done() {
		return ErrSessionClosed
	}
	s.state = StateRejected
	return nil
}

// Done reports whether the session reached a terminal state.
func (s *Session) Done() bool {
	return s.state == StateAccepted || s.state == StateRejected
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Round returns the number of counter rounds played.
func (s *Session) Round() int { return s.round }

// CustomerOffer returns the price the customer currently offers.
func (s *Session) CustomerOffer() int { return s.customerOffer }

// FinalPrice returns the agreed price once accepted.
func (s *Session) FinalPrice() int { return s.finalPrice }

// Config returns the session band.
func (s *Session) Config() Config { return s.config }

// Customer returns the customer being negotiated with.
func (s *Session) Customer() model.Customer { return s.customer }

// Item returns the item under negotiation.
func (s *Session) Item() model.Item { return s.item }

// Last returns the most recent customer answer, if any.
func (s *Session) Last() *CounterResult { return s.last }

// Deltas returns the reputation and trust changes accumulated by the session.
func (s *Session) Deltas() (reputation, trust int) {
	return s.reputationDelta, s.trustDelta
}

// Closing returns the message key said when the session ends.
func (s *Session) Closing() string {
	return ClosingMessage(s.state == StateAccepted)
}
