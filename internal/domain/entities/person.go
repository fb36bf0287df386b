package entities

import (
	"strings"

	"github.com/volatiletech/null/v8"
)

// PersonStatus is shared by athletes, employees and temporary persons
type PersonStatus string

const (
	PersonStatusActive   PersonStatus = "Active"
	PersonStatusInactive PersonStatus = "Inactive"
)

// TemporaryPersonType separates athlete-like from coach-like temporary persons.
type TemporaryPersonType string

const (
	TemporaryPersonAthlete TemporaryPersonType = "Deportista"
	TemporaryPersonCoach   TemporaryPersonType = "Entrenador"
)

// Athlete is a foundation athlete
type Athlete struct {
	ID             uint         `json:"id"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Identification string       `json:"identification"`
	Category       string       `json:"category"`
	Status         PersonStatus `json:"status"`
}

// Employee is a foundation employee, eligible as coach of foundation teams
type Employee struct {
	ID             uint         `json:"id"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Identification string       `json:"identification"`
	Position       string       `json:"position"`
	Status         PersonStatus `json:"status"`
}

// TemporaryPerson is a person without a user account. Category and Team are
// denormalized labels of the person's current team assignment.
type TemporaryPerson struct {
	ID             uint                `json:"id"`
	FirstName      string              `json:"firstName"`
	LastName       string              `json:"lastName"`
	Identification string              `json:"identification"`
	PersonType     TemporaryPersonType `json:"personType"`
	Status         PersonStatus        `json:"status"`
	Category       null.String         `json:"category"`
	Team           null.String         `json:"team"`
}

// PersonSummary is the display shape shared by all three person kinds.
type PersonSummary struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Identification string     `json:"identification"`
	Category       string     `json:"category"`
	Kind           PersonKind `json:"kind"`
	// Active and TemporaryType are used by validation and not rendered.
	Active        bool                `json:"-"`
	TemporaryType TemporaryPersonType `json:"-"`
}

func fullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func (a *Athlete) Summary() *PersonSummary {
	return &PersonSummary{
		ID:             a.ID,
		Name:           fullName(a.FirstName, a.LastName),
		Identification: a.Identification,
		Category:       a.Category,
		Kind:           PersonKindAthlete,
		Active:         a.Status == PersonStatusActive,
	}
}

func (e *Employee) Summary() *PersonSummary {
	return &PersonSummary{
		ID:             e.ID,
		Name:           fullName(e.FirstName, e.LastName),
		Identification: e.Identification,
		Category:       e.Position,
		Kind:           PersonKindEmployee,
		Active:         e.Status == PersonStatusActive,
	}
}

func (p *TemporaryPerson) Summary() *PersonSummary {
	return &PersonSummary{
		ID:             p.ID,
		Name:           fullName(p.FirstName, p.LastName),
		Identification: p.Identification,
		Category:       p.Category.String,
		Kind:           PersonKindTemporary,
		Active:         p.Status == PersonStatusActive,
		TemporaryType:  p.PersonType,
	}
}
