package entities

import "time"

// PersonKind tags which person table a membership points at.
type PersonKind string

const (
	PersonKindAthlete   PersonKind = "Deportista"
	PersonKindEmployee  PersonKind = "Empleado"
	PersonKindTemporary PersonKind = "Temporal"
)

// MemberRef references exactly one person of exactly one kind.
type MemberRef struct {
	Kind PersonKind `json:"kind"`
	ID   uint       `json:"id"`
}

func AthleteRef(id uint) MemberRef   { return MemberRef{Kind: PersonKindAthlete, ID: id} }
func EmployeeRef(id uint) MemberRef  { return MemberRef{Kind: PersonKindEmployee, ID: id} }
func TemporaryRef(id uint) MemberRef { return MemberRef{Kind: PersonKindTemporary, ID: id} }

// MemberRole distinguishes the coach slot from ordinary roster rows.
type MemberRole string

const (
	MemberRoleCoach  MemberRole = "Entrenador"
	MemberRoleMember MemberRole = "Miembro"
)

func (r MemberRole) IsCoach() bool {
	return r == MemberRoleCoach
}

// TeamMember is one membership row of a team
type TeamMember struct {
	ID       uint           `json:"id"`
	TeamID   uint           `json:"teamId"`
	Ref      MemberRef      `json:"ref"`
	Role     MemberRole     `json:"role"`
	IsActive bool           `json:"isActive"`
	JoinedAt time.Time      `json:"joinedAt"`
	Person   *PersonSummary `json:"person,omitempty"`
}

// TeamAssignment names the active team a temporary person already belongs to.
type TeamAssignment struct {
	TeamID   uint
	TeamName string
}
