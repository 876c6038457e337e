package progression

import (
	"github.com/rs/zerolog/log"

	"haggle-shop/internal/event"
	"haggle-shop/internal/model"
	"haggle-shop/internal/quest"
	"haggle-shop/internal/shop"
)

// Missions returns the active missions.
func (e *Engine) Missions() []model.Mission {
	return e.state.Missions
}

// ClaimMissionReward pays out a completed mission once. Unknown, incomplete
// or already claimed missions are a no-op returning false. A claimed
// mission leaves the active list and its id is remembered.
func (e *Engine) ClaimMissionReward(id string) bool {
	s := e.state
	if s.IsClaimed(id) {
		return false
	}
	idx := quest.FindMission(s.Missions, id)
	if idx < 0 || !s.Missions[idx].Completed {
		return false
	}

	m := s.Missions[idx]
	s.Missions = append(s.Missions[:idx:idx], s.Missions[idx+1:]...)
	s.ClaimedMissions = append(s.ClaimedMissions, id)

	for _, r := range m.Rewards {
		switch r.Type {
		case model.RewardCash:
			e.AddCash(r.Amount)
			e.record(model.RecordIncome, model.LedgerMissionReward, r.Amount, m.ID)
			e.emit(event.Coin, m.ID)
		case model.RewardReputation:
			e.UpdateReputation(r.Amount)
		case model.RewardExperience:
			e.AddExperience(r.Amount)
		case model.RewardItem:
			item := shop.GenerateRareItem(e.src, s.UnlockedCategories(), s.Trends)
			zero := 0
			item.PurchasePrice = &zero
			s.Inventory = append(s.Inventory, item)
		}
	}
	e.markDirty()
	e.emit(event.Notification, "mission_claimed:"+id)
	log.Info().Str("mission_id", id).Msg("mission reward claimed")
	return true
}
