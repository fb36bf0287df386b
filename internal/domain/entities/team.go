package entities

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

// TeamKind tells which person records a team's roster references.
type TeamKind string

const (
	TeamKindFoundation TeamKind = "Fundacion"
	TeamKindTemporary  TeamKind = "Temporal"
)

// ParseTeamKind accepts the spellings clients send ("fundacion", "Fundación",
// "temporal", "temporary", ...) and returns the canonical kind.
func ParseTeamKind(raw string) (TeamKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fundacion", "fundación", "foundation":
		return TeamKindFoundation, true
	case "temporal", "temporary", "temporales":
		return TeamKindTemporary, true
	default:
		return "", false
	}
}

// MemberKind is the person kind a roster of this team must consist of.
func (k TeamKind) MemberKind() PersonKind {
	if k == TeamKindTemporary {
		return PersonKindTemporary
	}
	return PersonKindAthlete
}

// CoachKind is the person kind allowed in the coach slot.
func (k TeamKind) CoachKind() PersonKind {
	if k == TeamKindTemporary {
		return PersonKindTemporary
	}
	return PersonKindEmployee
}

// TeamStatus represents team lifecycle status
type TeamStatus string

const (
	TeamStatusActive   TeamStatus = "Active"
	TeamStatusInactive TeamStatus = "Inactive"
)

// ParseTeamStatus accepts English and Spanish spellings.
func ParseTeamStatus(raw string) (TeamStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active", "activo":
		return TeamStatusActive, true
	case "inactive", "inactivo":
		return TeamStatusInactive, true
	default:
		return "", false
	}
}

// Team represents a team entity with its membership rows
type Team struct {
	ID          uint          `json:"id"`
	Name        string        `json:"nombre"`
	CoachLabel  null.String   `json:"entrenador"`
	Category    null.String   `json:"categoria"`
	Phone       null.String   `json:"telefono"`
	Description null.String   `json:"descripcion"`
	Status      TeamStatus    `json:"estado"`
	Kind        TeamKind      `json:"teamType"`
	Members     []*TeamMember `json:"-"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	DeletedAt   null.Time     `json:"-"`
}

// IsActive reports whether the team counts for exclusivity checks.
func (t *Team) IsActive() bool {
	return t.Status == TeamStatusActive && !t.DeletedAt.Valid
}

// Coach returns the membership row holding the coach slot, if any.
func (t *Team) Coach() *TeamMember {
	for _, m := range t.Members {
		if m.Role.IsCoach() {
			return m
		}
	}
	return nil
}

// Roster returns the ordinary membership rows.
func (t *Team) Roster() []*TeamMember {
	out := make([]*TeamMember, 0, len(t.Members))
	for _, m := range t.Members {
		if !m.Role.IsCoach() {
			out = append(out, m)
		}
	}
	return out
}

// TemporaryPersonIDs lists every temporary person referenced by the team,
// coach included.
func (t *Team) TemporaryPersonIDs() []uint {
	var ids []uint
	for _, m := range t.Members {
		if m.Ref.Kind == PersonKindTemporary {
			ids = append(ids, m.Ref.ID)
		}
	}
	return ids
}

// TeamFilter narrows team listings
type TeamFilter struct {
	Search string
	Status TeamStatus
	Kind   TeamKind
	Limit  int
	Offset int
}

// TeamStats aggregates team counts. Total includes soft-deleted teams; the
// rest only count non-deleted ones.
type TeamStats struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	Inactive   int64 `json:"inactive"`
	Foundation int64 `json:"fundacion"`
	Temporary  int64 `json:"temporal"`
	Deleted    int64 `json:"deleted"`
}
