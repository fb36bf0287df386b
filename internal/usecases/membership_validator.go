package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
	domainerrors "github.com/helljxnn/astrostar-backend-sub000/internal/domain/errors"
	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/repositories"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/metrics"
)

// Composition is the membership set requested for a team. Inactive
// compositions skip exclusivity; it is checked again on reactivation.
type Composition struct {
	Kind     entities.TeamKind
	Roster   []entities.MemberRef
	Coach    *entities.MemberRef
	Inactive bool
}

// TemporaryIDs returns the temporary persons of roster and coach.
func (c Composition) TemporaryIDs() []uint {
	var ids []uint
	for _, ref := range c.Roster {
		if ref.Kind == entities.PersonKindTemporary {
			ids = append(ids, ref.ID)
		}
	}
	if c.Coach != nil && c.Coach.Kind == entities.PersonKindTemporary {
		ids = append(ids, c.Coach.ID)
	}
	return ids
}

// Candidate is a member reference resolved against its person record.
type Candidate struct {
	Ref    entities.MemberRef
	Role   entities.MemberRole
	Person *entities.PersonSummary
}

// MembershipValidator enforces the roster rules of a team composition.
type MembershipValidator struct {
	memberRepo repositories.TeamMemberRepository
	personRepo repositories.PersonRepository
}

func NewMembershipValidator(
	memberRepo repositories.TeamMemberRepository,
	personRepo repositories.PersonRepository,
) *MembershipValidator {
	return &MembershipValidator{
		memberRepo: memberRepo,
		personRepo: personRepo,
	}
}

// Validate runs existence, roster exclusivity, coach exclusivity and
// homogeneity in that order. Exclusivity is skipped for inactive teams. The first failing check ends validation with
// every problem of that check in one message.
func (v *MembershipValidator) Validate(ctx context.Context, comp Composition, excludeTeamID uint) ([]Candidate, error) {
	candidates, err := v.ValidateMembersExist(ctx, comp)
	if err != nil {
		return nil, rejected("existence", err)
	}

	if !comp.Inactive {
		roster, coach := splitCandidates(candidates)
		if err := v.ValidateExclusivity(ctx, roster, comp.Kind, excludeTeamID); err != nil {
			return nil, rejected("exclusivity", err)
		}
		if err := v.ValidateCoachExclusivity(ctx, coach, comp.Kind, excludeTeamID); err != nil {
			return nil, rejected("coach_exclusivity", err)
		}
	}
	if err := v.ValidateHomogeneity(comp.Kind, candidates); err != nil {
		return nil, rejected("homogeneity", err)
	}
	return candidates, nil
}

func rejected(check string, err error) error {
	if errors.Is(err, domainerrors.ErrValidation) || errors.Is(err, domainerrors.ErrConflict) {
		metrics.ObserveMembershipRejection(check)
	}
	return err
}

// ValidateMembersExist resolves every reference and requires the person to
// exist and be Active. Repeated references are rejected as well.
func (v *MembershipValidator) ValidateMembersExist(ctx context.Context, comp Composition) ([]Candidate, error) {
	var problems []string
	candidates := make([]Candidate, 0, len(comp.Roster)+1)
	seen := make(map[entities.MemberRef]bool, len(comp.Roster)+1)

	check := func(ref entities.MemberRef, role entities.MemberRole) error {
		if seen[ref] {
			if role.IsCoach() {
				problems = append(problems, fmt.Sprintf("%s %d cannot be both coach and roster member", kindLabel(ref.Kind), ref.ID))
			} else {
				problems = append(problems, fmt.Sprintf("%s %d is listed more than once", kindLabel(ref.Kind), ref.ID))
			}
			return nil
		}
		seen[ref] = true

		person, err := v.lookup(ctx, ref)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				problems = append(problems, fmt.Sprintf("%s %d does not exist", kindLabel(ref.Kind), ref.ID))
				return nil
			}
			return domainerrors.Persistence(err)
		}
		if !person.Active {
			problems = append(problems, fmt.Sprintf("%s %s (%d) is not active", kindLabel(ref.Kind), person.Name, ref.ID))
			return nil
		}
		candidates = append(candidates, Candidate{Ref: ref, Role: role, Person: person})
		return nil
	}

	for _, ref := range comp.Roster {
		if err := check(ref, entities.MemberRoleMember); err != nil {
			return nil, err
		}
	}
	if comp.Coach != nil {
		if err := check(*comp.Coach, entities.MemberRoleCoach); err != nil {
			return nil, err
		}
	}

	if len(problems) > 0 {
		return nil, domainerrors.Validation(strings.Join(problems, "; "))
	}
	return candidates, nil
}

func (v *MembershipValidator) lookup(ctx context.Context, ref entities.MemberRef) (*entities.PersonSummary, error) {
	switch ref.Kind {
	case entities.PersonKindAthlete:
		a, err := v.personRepo.GetAthlete(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return a.Summary(), nil
	case entities.PersonKindEmployee:
		e, err := v.personRepo.GetEmployee(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return e.Summary(), nil
	case entities.PersonKindTemporary:
		p, err := v.personRepo.GetTemporaryPerson(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return p.Summary(), nil
	default:
		return nil, domainerrors.ErrNotFound
	}
}

// ValidateExclusivity rejects temporary persons already holding an active
// membership in another active team. Foundation teams are never checked.
func (v *MembershipValidator) ValidateExclusivity(ctx context.Context, roster []Candidate, kind entities.TeamKind, excludeTeamID uint) error {
	if kind != entities.TeamKindTemporary {
		return nil
	}
	var conflicts []string
	for _, c := range roster {
		msg, err := v.assignmentConflict(ctx, c, excludeTeamID)
		if err != nil {
			return err
		}
		if msg != "" {
			conflicts = append(conflicts, msg)
		}
	}
	if len(conflicts) > 0 {
		return domainerrors.Conflict(strings.Join(conflicts, "; "))
	}
	return nil
}

// ValidateCoachExclusivity applies the same rule to a temporary coach.
func (v *MembershipValidator) ValidateCoachExclusivity(ctx context.Context, coach *Candidate, kind entities.TeamKind, excludeTeamID uint) error {
	if coach == nil || kind != entities.TeamKindTemporary {
		return nil
	}
	msg, err := v.assignmentConflict(ctx, *coach, excludeTeamID)
	if err != nil {
		return err
	}
	if msg != "" {
		return domainerrors.Conflict(msg)
	}
	return nil
}

func (v *MembershipValidator) assignmentConflict(ctx context.Context, c Candidate, excludeTeamID uint) (string, error) {
	if c.Ref.Kind != entities.PersonKindTemporary {
		return "", nil
	}
	assignment, err := v.memberRepo.FindActiveAssignment(ctx, c.Ref.ID, excludeTeamID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return "", nil
		}
		return "", domainerrors.Persistence(err)
	}
	return fmt.Sprintf("%s already belongs to the active team %q", displayName(c), assignment.TeamName), nil
}

// ValidateHomogeneity checks that the roster uses one person kind matching
// the team kind, that temporary roster members are athletes and a temporary
// coach is a coach, and that foundation athletes share a category.
func (v *MembershipValidator) ValidateHomogeneity(kind entities.TeamKind, candidates []Candidate) error {
	var problems []string
	roster, coach := splitCandidates(candidates)

	kinds := map[entities.PersonKind]bool{}
	for _, c := range roster {
		kinds[c.Ref.Kind] = true
	}
	if len(kinds) > 1 {
		problems = append(problems, "the roster cannot mix "+joinKinds(kinds))
	}
	want := kind.MemberKind()
	for k := range kinds {
		if k != want {
			problems = append(problems, fmt.Sprintf("a %s team only accepts %s, got %s", teamKindLabel(kind), pluralKind(want), pluralKind(k)))
		}
	}

	for _, c := range roster {
		if c.Ref.Kind == entities.PersonKindTemporary && c.Person.TemporaryType != entities.TemporaryPersonAthlete {
			problems = append(problems, fmt.Sprintf("%s is registered as a coach and cannot join the roster", displayName(c)))
		}
	}

	if coach != nil {
		if coach.Ref.Kind != kind.CoachKind() {
			problems = append(problems, fmt.Sprintf("the coach of a %s team must be a %s", teamKindLabel(kind), kindLabel(kind.CoachKind())))
		} else if coach.Ref.Kind == entities.PersonKindTemporary && coach.Person.TemporaryType != entities.TemporaryPersonCoach {
			problems = append(problems, fmt.Sprintf("%s is not registered as a coach", displayName(*coach)))
		}
	}

	if kind == entities.TeamKindFoundation {
		categories := map[string]bool{}
		for _, c := range roster {
			if c.Ref.Kind == entities.PersonKindAthlete {
				categories[c.Person.Category] = true
			}
		}
		if len(categories) > 1 {
			names := make([]string, 0, len(categories))
			for name := range categories {
				names = append(names, name)
			}
			sort.Strings(names)
			problems = append(problems, "all athletes must share one category, got "+strings.Join(names, ", "))
		}
	}

	if len(problems) > 0 {
		return domainerrors.Validation(strings.Join(problems, "; "))
	}
	return nil
}

// SharedCategory returns the category common to every foundation athlete
// among the candidates.
func SharedCategory(candidates []Candidate) (string, bool) {
	category := ""
	for _, c := range candidates {
		if c.Role.IsCoach() || c.Ref.Kind != entities.PersonKindAthlete {
			continue
		}
		if category == "" {
			category = c.Person.Category
		} else if category != c.Person.Category {
			return "", false
		}
	}
	return category, category != ""
}

func splitCandidates(candidates []Candidate) ([]Candidate, *Candidate) {
	roster := make([]Candidate, 0, len(candidates))
	var coach *Candidate
	for i := range candidates {
		if candidates[i].Role.IsCoach() {
			coach = &candidates[i]
			continue
		}
		roster = append(roster, candidates[i])
	}
	return roster, coach
}

func displayName(c Candidate) string {
	if c.Person != nil && c.Person.Name != "" {
		return fmt.Sprintf("%s %s (%d)", kindLabel(c.Ref.Kind), c.Person.Name, c.Ref.ID)
	}
	return fmt.Sprintf("%s %d", kindLabel(c.Ref.Kind), c.Ref.ID)
}

func kindLabel(k entities.PersonKind) string {
	switch k {
	case entities.PersonKindAthlete:
		return "athlete"
	case entities.PersonKindEmployee:
		return "employee"
	default:
		return "temporary person"
	}
}

func teamKindLabel(k entities.TeamKind) string {
	if k == entities.TeamKindTemporary {
		return "temporary"
	}
	return "foundation"
}

func pluralKind(k entities.PersonKind) string {
	switch k {
	case entities.PersonKindAthlete:
		return "athletes"
	case entities.PersonKindEmployee:
		return "employees"
	default:
		return "temporary persons"
	}
}

func joinKinds(kinds map[entities.PersonKind]bool) string {
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, pluralKind(k))
	}
	sort.Strings(names)
	return strings.Join(names, " and ")
}
