package usecases

import (
	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
)

// ToTeamResponse splits the coach row from the roster and renders every
// member with the same summary shape whichever person table backs it.
func ToTeamResponse(team *entities.Team) *entities.TeamResponse {
	if team == nil {
		return nil
	}
	resp := &entities.TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		CoachLabel:  team.CoachLabel,
		Category:    team.Category,
		Phone:       team.Phone,
		Description: team.Description,
		Status:      team.Status,
		Kind:        team.Kind,
		Roster:      make([]*entities.PersonSummary, 0, len(team.Members)),
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}

	for _, m := range team.Members {
		summary := memberSummary(m)
		if m.Role.IsCoach() {
			resp.Coach = summary
			continue
		}
		resp.Roster = append(resp.Roster, summary)
	}
	resp.RosterCount = len(resp.Roster)
	resp.HasCoach = resp.Coach != nil
	return resp
}

// ToTeamResponses maps a page of teams.
func ToTeamResponses(teams []*entities.Team) []*entities.TeamResponse {
	out := make([]*entities.TeamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, ToTeamResponse(t))
	}
	return out
}

func memberSummary(m *entities.TeamMember) *entities.PersonSummary {
	if m.Person != nil {
		return m.Person
	}
	// person row missing from the preload
	return &entities.PersonSummary{ID: m.Ref.ID, Kind: m.Ref.Kind}
}
