package progression

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"haggle-shop/internal/event"
	"haggle-shop/internal/model"
)

// ExperiencePerLevel is the experience that separates two experience levels.
const ExperiencePerLevel = 100

// SpendCash deducts amount if the player can afford it. It is the only
// fallible economy operation: on insufficient funds nothing changes, an
// error cue is emitted and false is returned.
func (e *Engine) SpendCash(amount int) bool {
	if amount < 0 {
		return false
	}
	if e.state.Cash < amount {
		e.emit(event.Error, "insufficient_funds")
		log.Debug().Int("cash", e.state.Cash).Int("amount", amount).Msg("insufficient funds")
		return false
	}
	e.state.Cash -= amount
	e.markDirty()
	return true
}

// AddCash credits amount.
func (e *Engine) AddCash(amount int) {
	if amount == 0 {
		return
	}
	e.state.Cash += amount
	e.markDirty()
}

// UpdateReputation applies delta and clamps the result to [0,100].
func (e *Engine) UpdateReputation(delta int) int {
	e.state.Reputation = model.ClampPercent(e.state.Reputation + delta)
	e.markDirty()
	return e.state.Reputation
}

// UpdateTrust applies delta and clamps the result to [0,100].
func (e *Engine) UpdateTrust(delta int) int {
	e.state.Trust = model.ClampPercent(e.state.Trust + delta)
	e.markDirty()
	return e.state.Trust
}

// ExperienceLevelFor maps total experience to an experience level.
func ExperienceLevelFor(experience int) int {
	if experience < 0 {
		experience = 0
	}
	return experience/ExperiencePerLevel + 1
}

// AddExperience adds experience and recomputes the experience level. When it
// rises, the difference in floor(level/2) is awarded as skill points. This
// path is independent of CheckLevelUp; a disagreement is logged.
func (e *Engine) AddExperience(amount int) bool {
	if amount <= 0 {
		return false
	}
	s := e.state
	s.Experience += amount
	e.markDirty()

	before := s.ExperienceLevel
	after := ExperienceLevelFor(s.Experience)
	if after <= before {
		return false
	}

	s.SkillPoints += after/2 - before/2
	s.ExperienceLevel = after
	e.emit(event.LevelUp, fmt.Sprintf("experience_level:%d", after))
	e.emit(event.Notification, "experience_level_up")
	log.Info().Int("experience_level", after).Int("skill_points", s.SkillPoints).Msg("experience level up")
	e.checkLevels()
	return true
}

// UpgradeSkill spends a skill point on a skill below its max level.
func (e *Engine) UpgradeSkill(id string) bool {
	skill, ok := LookupSkill(id)
	if !ok {
		return false
	}
	s := e.state
	if s.PlayerSkills[id] >= skill.MaxLevel || s.SkillPoints < SkillUpgradeCost {
		return false
	}
	s.SkillPoints -= SkillUpgradeCost
	s.PlayerSkills[id]++
	e.markDirty()
	e.emit(event.Click, "skill:"+id)
	log.Debug().Str("skill", id).Int("level", s.PlayerSkills[id]).Msg("skill upgraded")
	return true
}

// SkillLevel returns the player's level in a skill.
func (e *Engine) SkillLevel(id string) int {
	return e.state.PlayerSkills[id]
}
