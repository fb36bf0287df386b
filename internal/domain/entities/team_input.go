package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

// RosterEntry is one item of deportistasIds. Clients send either a bare id,
// whose kind follows the team kind, or {"id": 7, "type": "temporal"}.
type RosterEntry struct {
	ID   uint   `json:"id"`
	Type string `json:"type,omitempty"`
}

func (e *RosterEntry) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var aux struct {
			ID   uint   `json:"id"`
			Type string `json:"type"`
		}
		if err := json.Unmarshal(b, &aux); err != nil {
			return err
		}
		e.ID, e.Type = aux.ID, aux.Type
		return nil
	}

	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid member id %s", string(b))
	}
	e.ID = uint(id)
	e.Type = ""
	return nil
}

// Ref resolves the entry against the team kind.
func (e RosterEntry) Ref(kind TeamKind) (MemberRef, bool) {
	if strings.TrimSpace(e.Type) == "" {
		return MemberRef{Kind: kind.MemberKind(), ID: e.ID}, true
	}
	pk, ok := parseRosterKind(e.Type)
	return MemberRef{Kind: pk, ID: e.ID}, ok
}

func parseRosterKind(raw string) (PersonKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fundacion", "fundación", "foundation", "deportista", "athlete":
		return PersonKindAthlete, true
	case "temporal", "temporary", "temporales":
		return PersonKindTemporary, true
	case "empleado", "employee":
		return PersonKindEmployee, true
	default:
		return "", false
	}
}

// CoachInput is the entrenadorData object: type "fundacion" points at an
// employee, "temporal" at a temporary person.
type CoachInput struct {
	ID   uint   `json:"id" binding:"required"`
	Type string `json:"type"`
}

// Ref resolves the coach slot against the team kind.
func (c CoachInput) Ref(kind TeamKind) (MemberRef, bool) {
	switch strings.ToLower(strings.TrimSpace(c.Type)) {
	case "":
		return MemberRef{Kind: kind.CoachKind(), ID: c.ID}, true
	case "fundacion", "fundación", "foundation", "empleado", "employee":
		return EmployeeRef(c.ID), true
	case "temporal", "temporary", "temporales":
		return TemporaryRef(c.ID), true
	default:
		return MemberRef{}, false
	}
}

// CreateTeamInput represents input for team creation
type CreateTeamInput struct {
	Name        string        `json:"nombre" binding:"required,min=2,max=100"`
	TeamType    string        `json:"teamType" binding:"required,teamkind"`
	Status      string        `json:"estado" binding:"omitempty,teamstatus"`
	CoachLabel  string        `json:"entrenador" binding:"max=150"`
	MemberIDs   []RosterEntry `json:"deportistasIds"`
	Coach       *CoachInput   `json:"entrenadorData"`
	Phone       string        `json:"telefono" binding:"max=20"`
	Category    string        `json:"categoria" binding:"max=100"`
	Description string        `json:"descripcion" binding:"max=500"`
}

// UpdateTeamInput represents a partial update. A nil MemberIDs keeps the
// current roster; a non-nil one replaces it and must not be empty.
type UpdateTeamInput struct {
	Name        *string       `json:"nombre" binding:"omitempty,min=2,max=100"`
	TeamType    *string       `json:"teamType" binding:"omitempty,teamkind"`
	Status      *string       `json:"estado" binding:"omitempty,teamstatus"`
	CoachLabel  *string       `json:"entrenador" binding:"omitempty,max=150"`
	MemberIDs   []RosterEntry `json:"deportistasIds"`
	Coach       *CoachInput   `json:"entrenadorData"`
	Phone       *string       `json:"telefono" binding:"omitempty,max=20"`
	Category    *string       `json:"categoria" binding:"omitempty,max=100"`
	Description *string       `json:"descripcion" binding:"omitempty,max=500"`
}

// TeamResponse is the transformed team returned to clients
type TeamResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"nombre"`
	CoachLabel  null.String      `json:"entrenador"`
	Category    null.String      `json:"categoria"`
	Phone       null.String      `json:"telefono"`
	Description null.String      `json:"descripcion"`
	Status      TeamStatus       `json:"estado"`
	Kind        TeamKind         `json:"teamType"`
	Coach       *PersonSummary   `json:"coach"`
	Roster      []*PersonSummary `json:"deportistas"`
	RosterCount int              `json:"cantidadDeportistas"`
	HasCoach    bool             `json:"hasCoach"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// NameAvailability answers the check-name query
type NameAvailability struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// TeamListQuery carries the list filters of GET /teams
type TeamListQuery struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	TeamType string `form:"teamType"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}
