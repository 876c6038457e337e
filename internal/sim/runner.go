package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"haggle-shop/internal/model"
	"haggle-shop/internal/progression"
)

// Saver persists the player state after each simulated day.
type Saver interface {
	Save(ctx context.Context, slot string, state *model.PlayerState) error
}

// DayReport summarises one simulated day.
type DayReport struct {
	Day        int                    `json:"day"`
	Customers  int                    `json:"customers"`
	Trades     int                    `json:"trades"`
	Claimed    int                    `json:"claimed"`
	LeveledUp  bool                   `json:"leveledUp"`
	Settlement progression.Settlement `json:"settlement"`
	Cash       int                    `json:"cash"`
	Level      int                    `json:"level"`
	Reputation int                    `json:"reputation"`
}

// Report summarises a whole run.
type Report struct {
	Strategy  string      `json:"strategy"`
	StartCash int         `json:"startCash"`
	EndCash   int         `json:"endCash"`
	EndLevel  int         `json:"endLevel"`
	Trades    int         `json:"trades"`
	Days      []DayReport `json:"days"`
}

// Runner plays days on one engine. A nil saver skips persistence.
type Runner struct {
	engine   *progression.Engine
	strategy Strategy
	saver    Saver
	slot     string
}

// NewRunner creates a Runner.
func NewRunner(engine *progression.Engine, strategy Strategy, saver Saver, slot string) *Runner {
	return &Runner{engine: engine, strategy: strategy, saver: saver, slot: slot}
}

// Run plays the given number of days and stops early when ctx is done.
func (r *Runner) Run(ctx context.Context, days int) (Report, error) {
	s := r.engine.State()
	report := Report{Strategy: r.strategy.Name(), StartCash: s.Cash}

	for i := 0; i < days; i++ {
		day, err := r.PlayDay(ctx)
		if err != nil {
			return report, err
		}
		report.Days = append(report.Days, day)
		report.Trades += day.Trades
	}

	report.EndCash = s.Cash
	report.EndLevel = s.Level
	return report, nil
}

// PlayDay serves every customer of the current day, claims finished
// missions, spends skill points and closes the day.
func (r *Runner) PlayDay(ctx context.Context) (DayReport, error) {
	s := r.engine.State()
	report := DayReport{Day: s.Day}

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		enc, ok := r.engine.NextCustomer()
		if !ok {
			break
		}
		report.Customers++
		if r.negotiate(enc) {
			report.Trades++
		}
	}

	report.Claimed = r.claimMissions()
	r.spendSkillPoints()
	report.LeveledUp, report.Settlement = r.engine.EndDay()
	report.Cash = s.Cash
	report.Level = s.Level
	report.Reputation = s.Reputation

	if r.saver != nil && r.engine.Dirty() {
		if err := r.saver.Save(ctx, r.slot, s); err != nil {
			return report, fmt.Errorf("save after day %d: %w", report.Day, err)
		}
		r.engine.MarkSaved()
	}

	log.Debug().
		Int("day", report.Day).
		Int("customers", report.Customers).
		Int("trades", report.Trades).
		Int("cash", report.Cash).
		Int("level", report.Level).
		Msg("Simulated day")
	return report, nil
}

func (r *Runner) negotiate(enc progression.Encounter) bool {
	sess := r.engine.StartNegotiation(enc)
	if _, err := sess.Present(); err != nil {
		return false
	}

	s := r.engine.State()
	for !sess.Done() {
		move := r.strategy.Decide(sess, Player{Cash: s.Cash, Level: s.Level})
		var err error
		switch move.Action {
		case Accept:
			_, err = sess.Accept()
		case Counter:
			_, err = sess.Counter(move.Price)
		default:
			err = sess.Walk()
		}
		if err != nil {
			log.Warn().Err(err).Str("strategy", r.strategy.Name()).Msg("Move rejected, walking away")
			_ = sess.Walk()
		}
	}
	return r.engine.CompleteNegotiation(sess)
}

func (r *Runner) claimMissions() int {
	var ready []string
	for _, m := range r.engine.Missions() {
		if m.Completed {
			ready = append(ready, m.ID)
		}
	}
	claimed := 0
	for _, id := range ready {
		if r.engine.ClaimMissionReward(id) {
			claimed++
		}
	}
	return claimed
}

func (r *Runner) spendSkillPoints() {
	for r.engine.State().SkillPoints > 0 {
		upgraded := false
		for _, sk := range progression.Skills() {
			if r.engine.State().SkillPoints > 0 && r.engine.UpgradeSkill(sk.ID) {
				upgraded = true
			}
		}
		if !upgraded {
			return
		}
	}
}
