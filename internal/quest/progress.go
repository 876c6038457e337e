package quest

import "haggle-shop/internal/model"

// UpdateMissionProgress adds amount to every unfinished requirement of type
// req, clamped to [0, target], and recomputes progress and completion.
// The input slice is never modified; when nothing matches it is returned as is.
func UpdateMissionProgress(missions []model.Mission, req model.RequirementType, amount int) []model.Mission {
	if amount == 0 {
		return missions
	}

	var out []model.Mission
	for i, m := range missions {
		if m.Completed || !hasOpenRequirement(m, req) {
			continue
		}
		if out == nil {
			out = make([]model.Mission, len(missions))
			copy(out, missions)
		}

		reqs := make([]model.Requirement, len(m.Requirements))
		copy(reqs, m.Requirements)
		for j := range reqs {
			if reqs[j].Type != req || reqs[j].Current >= reqs[j].Target {
				continue
			}
			reqs[j].Current = clampInt(reqs[j].Current+amount, 0, reqs[j].Target)
		}
		m.Requirements = reqs
		out[i] = recompute(m)
	}

	if out == nil {
		return missions
	}
	return out
}

func hasOpenRequirement(m model.Mission, req model.RequirementType) bool {
	for _, r := range m.Requirements {
		if r.Type == req && r.Current < r.Target {
			return true
		}
	}
	return false
}

func recompute(m model.Mission) model.Mission {
	done := len(m.Requirements) > 0
	progress := 0
	for _, r := range m.Requirements {
		progress += r.Current
		if r.Current < r.Target {
			done = false
		}
	}
	m.Progress = progress
	m.MaxProgress = totalTarget(m.Requirements)
	m.Completed = done
	return m
}

func totalTarget(reqs []model.Requirement) int {
	total := 0
	for _, r := range reqs {
		total += r.Target
	}
	return total
}

// FindMission returns the index of the mission with id, or -1.
func FindMission(missions []model.Mission, id string) int {
	for i, m := range missions {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// MergeByID appends the missions of add whose id is not yet in base.
func MergeByID(base, add []model.Mission) []model.Mission {
	out := append([]model.Mission(nil), base...)
	for _, m := range add {
		if FindMission(out, m.ID) < 0 {
			out = append(out, m)
		}
	}
	return out
}
