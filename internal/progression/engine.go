package progression

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"haggle-shop/internal/event"
	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
	"haggle-shop/internal/quest"
	"haggle-shop/internal/repository"
)

// Options are the starting values of a fresh save.
type Options struct {
	StartCash       int
	StartReputation int
	StartTrust      int
}

// DefaultOptions returns the standard starting values.
func DefaultOptions() Options {
	return Options{StartCash: 1000, StartReputation: 50, StartTrust: 50}
}

// Engine applies gameplay operations to one player state. Every mutation is
// a single synchronous transition; callers serialise access to an Engine.
type Engine struct {
	state  *model.PlayerState
	src    rng.Source
	quests *quest.Generator
	events *event.Queue
	dirty  bool
}

// New wraps a player state. A nil queue drops events.
func New(state *model.PlayerState, src rng.Source, events *event.Queue) *Engine {
	normalize(state)
	return &Engine{
		state:  state,
		src:    src,
		quests: quest.NewGenerator(src),
		events: events,
	}
}

// NewPlayerState creates a fresh level 1 save on day 1 with its first
// missions and customer limit.
func NewPlayerState(opts Options, src rng.Source) *model.PlayerState {
	s := &model.PlayerState{
		Level:           1,
		ExperienceLevel: 1,
		Cash:            opts.StartCash,
		Reputation:      model.ClampPercent(opts.StartReputation),
		Trust:           model.ClampPercent(opts.StartTrust),
		Day:             1,
		PlayerSkills:    map[string]int{},
		Unlocks:         UnlocksUpTo(1),
	}

	gen := quest.NewGenerator(src)
	p := snapshotOf(s)
	s.Missions = append(s.Missions, gen.DailyMissions(p, s.Day)...)
	s.Missions = append(s.Missions, gen.WeeklyMissions(p, s.Day)...)
	s.Missions = append(s.Missions, gen.AchievementMissions(p)...)

	cfg := Level(s.Level)
	s.DailyCustomerLimit = rng.IntRange(src, cfg.MinCustomers, cfg.MaxCustomers)
	return s
}

// Loader reads a saved slot.
type Loader interface {
	Load(ctx context.Context, slot string) (*model.SaveData, error)
}

// LoadOrNew loads the slot or, when that fails for any reason, starts a
// fresh state. The bool reports whether a save was loaded.
func LoadOrNew(ctx context.Context, l Loader, slot string, opts Options, src rng.Source) (*model.PlayerState, bool) {
	data, err := l.Load(ctx, slot)
	if err == nil && data != nil {
		normalize(&data.State)
		return &data.State, true
	}
	if err != nil && !errors.Is(err, repository.ErrSaveNotFound) {
		log.Warn().Err(err).Str("slot", slot).Msg("save unreadable, starting fresh")
	}
	return NewPlayerState(opts, src), false
}

// normalize fills nil collections and clamps bounded fields of a decoded state.
func normalize(s *model.PlayerState) {
	if s.PlayerSkills == nil {
		s.PlayerSkills = map[string]int{}
	}
	if s.Level < 1 {
		s.Level = 1
	}
	if s.ExperienceLevel < 1 {
		s.ExperienceLevel = s.Experience/100 + 1
	}
	if s.Day < 1 {
		s.Day = 1
	}
	s.Reputation = model.ClampPercent(s.Reputation)
	s.Trust = model.ClampPercent(s.Trust)
}

// State returns the live player state. Mutate it only through the Engine.
func (e *Engine) State() *model.PlayerState { return e.state }

// Events returns the queue the engine emits to.
func (e *Engine) Events() *event.Queue { return e.events }

// Dirty reports whether the state changed since the last MarkSaved.
func (e *Engine) Dirty() bool { return e.dirty }

// MarkSaved clears the dirty flag after the caller persisted the state.
func (e *Engine) MarkSaved() { e.dirty = false }

func (e *Engine) markDirty() { e.dirty = true }

func (e *Engine) emit(name event.Name, detail string) {
	e.events.Emit(name, detail)
}

func (e *Engine) snapshot() quest.PlayerSnapshot {
	return snapshotOf(e.state)
}

// snapshotOf captures the quest inputs of s, capped by the customers its
// level really brings in a day.
func snapshotOf(s *model.PlayerState) quest.PlayerSnapshot {
	p := quest.Snapshot(s)
	p.MaxCustomers = Level(s.Level).MaxCustomers
	return p
}

// progress feeds an amount into every mission listening to req.
func (e *Engine) progress(req model.RequirementType, amount int) {
	e.state.Missions = quest.UpdateMissionProgress(e.state.Missions, req, amount)
}

// record appends a ledger entry for the current day.
func (e *Engine) record(typ, category string, amount int, desc string) {
	e.state.Financials = append(e.state.Financials, model.FinancialRecord{
		ID:          uuid.NewString(),
		Day:         e.state.Day,
		Type:        typ,
		Category:    category,
		Amount:      amount,
		Description: desc,
	})
}

// checkLevels logs when the experience path and the cash/reputation path
// report different levels.
func (e *Engine) checkLevels() {
	if e.state.ExperienceLevel != e.state.Level {
		log.Warn().
			Int("level", e.state.Level).
			Int("experience_level", e.state.ExperienceLevel).
			Int("experience", e.state.Experience).
			Msg("leveling paths disagree")
	}
}
