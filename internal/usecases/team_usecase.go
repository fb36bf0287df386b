package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
	domainerrors "github.com/helljxnn/astrostar-backend-sub000/internal/domain/errors"
	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/repositories"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/logger"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/metrics"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/utils"
	"github.com/jonboulle/clockwork"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

const emptyRosterMessage = "the team must have at least one athlete"

// TeamUsecase composes teams: validation, membership rows and the labels
// on temporary persons, always inside one transaction.
type TeamUsecase struct {
	teamRepo   repositories.TeamRepository
	memberRepo repositories.TeamMemberRepository
	personRepo repositories.PersonRepository
	uow        repositories.UnitOfWork
	validator  *MembershipValidator
	clock      clockwork.Clock
}

// NewTeamUsecase creates a new team usecase
func NewTeamUsecase(
	teamRepo repositories.TeamRepository,
	memberRepo repositories.TeamMemberRepository,
	personRepo repositories.PersonRepository,
	uow repositories.UnitOfWork,
	clock clockwork.Clock,
) *TeamUsecase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TeamUsecase{
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		personRepo: personRepo,
		uow:        uow,
		validator:  NewMembershipValidator(memberRepo, personRepo),
		clock:      clock,
	}
}

// CreateTeam validates the composition and persists team, members and labels
// atomically.
func (u *TeamUsecase) CreateTeam(ctx context.Context, input *entities.CreateTeamInput) (*entities.TeamResponse, error) {
	team, err := u.createTeam(ctx, input)
	if err := u.finish(ctx, "create", err); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Team created",
		zap.Uint("team_id", team.ID),
		zap.String("team_type", string(team.Kind)),
		zap.Int("members", len(team.Members)),
	)
	return ToTeamResponse(team), nil
}

func (u *TeamUsecase) createTeam(ctx context.Context, input *entities.CreateTeamInput) (*entities.Team, error) {
	if input == nil {
		return nil, domainerrors.Validation("request body is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.Validation("team name is required")
	}
	kind, err := parseKind(input.TeamType)
	if err != nil {
		return nil, err
	}
	status := entities.TeamStatusActive
	if strings.TrimSpace(input.Status) != "" {
		if status, err = parseStatus(input.Status); err != nil {
			return nil, err
		}
	}
	if err := u.ensureNameAvailable(ctx, name, 0); err != nil {
		return nil, err
	}

	comp, err := buildComposition(kind, input.MemberIDs, coachRef(kind, input.Coach))
	if err != nil {
		return nil, err
	}
	comp.Inactive = status != entities.TeamStatusActive
	candidates, err := u.validator.Validate(ctx, comp, 0)
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	team := &entities.Team{
		Name:        name,
		CoachLabel:  optionalString(input.CoachLabel),
		Category:    optionalString(input.Category),
		Phone:       optionalString(input.Phone),
		Description: optionalString(input.Description),
		Status:      status,
		Kind:        kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	fillDerivedFields(team, candidates)

	var created *entities.Team
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.lockAndRecheck(txCtx, comp, candidates, 0); err != nil {
			return err
		}
		if err := u.teamRepo.Create(txCtx, team); err != nil {
			return err
		}
		if err := u.memberRepo.CreateBatch(txCtx, buildMembers(team.ID, candidates, nil, now)); err != nil {
			return err
		}
		if err := u.writeLabels(txCtx, team, comp.TemporaryIDs()); err != nil {
			return err
		}
		var err error
		created, err = u.teamRepo.GetByID(txCtx, team.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTeam applies a partial update. A supplied roster replaces the
// current one; retained members keep their joinedAt.
func (u *TeamUsecase) UpdateTeam(ctx context.Context, id uint, input *entities.UpdateTeamInput) (*entities.TeamResponse, error) {
	team, err := u.updateTeam(ctx, id, input)
	if err := u.finish(ctx, "update", err); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Team updated", zap.Uint("team_id", id))
	return ToTeamResponse(team), nil
}

func (u *TeamUsecase) updateTeam(ctx context.Context, id uint, input *entities.UpdateTeamInput) (*entities.Team, error) {
	if input == nil {
		return nil, domainerrors.Validation("request body is required")
	}
	current, err := u.loadTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	team := *current
	if input.Name != nil {
		team.Name = strings.TrimSpace(*input.Name)
		if team.Name == "" {
			return nil, domainerrors.Validation("team name is required")
		}
		if err := u.ensureNameAvailable(ctx, team.Name, id); err != nil {
			return nil, err
		}
	}
	if input.TeamType != nil {
		if team.Kind, err = parseKind(*input.TeamType); err != nil {
			return nil, err
		}
	}
	kindChanged := team.Kind != current.Kind
	if kindChanged && input.MemberIDs == nil {
		return nil, domainerrors.Validation("changing the team type requires a new roster")
	}
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		if team.Status, err = parseStatus(*input.Status); err != nil {
			return nil, err
		}
	}
	if input.CoachLabel != nil {
		team.CoachLabel = optionalString(*input.CoachLabel)
	}
	if input.Category != nil {
		team.Category = optionalString(*input.Category)
	}
	if input.Phone != nil {
		team.Phone = optionalString(*input.Phone)
	}
	if input.Description != nil {
		team.Description = optionalString(*input.Description)
	}

	var coach *entities.MemberRef
	switch {
	case input.Coach != nil:
		coach = coachRef(team.Kind, input.Coach)
	case !kindChanged:
		if c := current.Coach(); c != nil {
			ref := c.Ref
			coach = &ref
		}
	}

	var comp Composition
	if input.MemberIDs != nil {
		comp, err = buildComposition(team.Kind, input.MemberIDs, coach)
	} else {
		comp, err = currentComposition(current, coach)
	}
	if err != nil {
		return nil, err
	}
	comp.Inactive = !team.IsActive()
	candidates, err := u.validator.Validate(ctx, comp, id)
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	team.UpdatedAt = now
	fillDerivedFields(&team, candidates)

	var updated *entities.Team
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		locked, err := u.teamRepo.GetByID(u.uow.WithLock(txCtx), id)
		if err != nil {
			return teamNotFound(id, err)
		}
		if err := u.lockAndRecheck(txCtx, comp, candidates, id); err != nil {
			return err
		}

		newIDs := comp.TemporaryIDs()
		removed := difference(locked.TemporaryPersonIDs(), newIDs)
		if err := u.releaseLabels(txCtx, removed, id); err != nil {
			return err
		}
		if err := u.memberRepo.DeleteByTeamID(txCtx, id); err != nil {
			return err
		}
		if err := u.memberRepo.CreateBatch(txCtx, buildMembers(id, candidates, joinedAtIndex(locked), now)); err != nil {
			return err
		}
		if err := u.teamRepo.Update(txCtx, &team); err != nil {
			return err
		}
		if err := u.writeLabels(txCtx, &team, newIDs); err != nil {
			return err
		}
		updated, err = u.teamRepo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTeam soft-deletes the team: members removed, temporary labels
// cleared, status Inactive. Deleted teams are not found again.
func (u *TeamUsecase) DeleteTeam(ctx context.Context, id uint) error {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		team, err := u.teamRepo.GetByID(u.uow.WithLock(txCtx), id)
		if err != nil {
			return teamNotFound(id, err)
		}
		if err := u.memberRepo.DeleteByTeamID(txCtx, id); err != nil {
			return err
		}
		if err := u.releaseLabels(txCtx, team.TemporaryPersonIDs(), id); err != nil {
			return err
		}
		if err := u.teamRepo.SoftDelete(txCtx, id, u.clock.Now()); err != nil {
			return teamNotFound(id, err)
		}
		return nil
	})
	if err := u.finish(ctx, "delete", err); err != nil {
		return err
	}
	logger.Info(ctx, "Team deleted", zap.Uint("team_id", id))
	return nil
}

// ChangeStatus flips Active/Inactive without touching the roster. A
// temporary team becoming active again must not steal members that joined
// another active team meanwhile.
func (u *TeamUsecase) ChangeStatus(ctx context.Context, id uint, rawStatus string) (*entities.TeamResponse, error) {
	team, err := u.changeStatus(ctx, id, rawStatus)
	if err := u.finish(ctx, "change_status", err); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Team status changed", zap.Uint("team_id", id), zap.String("status", string(team.Status)))
	return ToTeamResponse(team), nil
}

func (u *TeamUsecase) changeStatus(ctx context.Context, id uint, rawStatus string) (*entities.Team, error) {
	status, err := parseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	var updated *entities.Team
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		team, err := u.teamRepo.GetByID(u.uow.WithLock(txCtx), id)
		if err != nil {
			return teamNotFound(id, err)
		}
		if status == entities.TeamStatusActive && team.Status != entities.TeamStatusActive && team.Kind == entities.TeamKindTemporary {
			if err := u.personRepo.LockTemporaryPersons(txCtx, team.TemporaryPersonIDs()); err != nil {
				return err
			}
			roster, coach := splitCandidates(membersAsCandidates(team))
			if err := u.validator.ValidateExclusivity(txCtx, roster, team.Kind, id); err != nil {
				return err
			}
			if err := u.validator.ValidateCoachExclusivity(txCtx, coach, team.Kind, id); err != nil {
				return err
			}
			// labels may have been cleared while the team was inactive
			if err := u.personRepo.UpdateTemporaryLabels(txCtx, team.TemporaryPersonIDs(), team.Category, null.StringFrom(team.Name)); err != nil {
				return err
			}
		}
		if err := u.teamRepo.UpdateStatus(txCtx, id, status); err != nil {
			return teamNotFound(id, err)
		}
		updated, err = u.teamRepo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetTeam returns one transformed team
func (u *TeamUsecase) GetTeam(ctx context.Context, id uint) (*entities.TeamResponse, error) {
	team, err := u.loadTeam(ctx, id)
	if err != nil {
		return nil, domainerrors.AsAppError(err)
	}
	return ToTeamResponse(team), nil
}

// ListTeams returns a filtered page of teams
func (u *TeamUsecase) ListTeams(ctx context.Context, query entities.TeamListQuery) ([]*entities.TeamResponse, utils.PaginationMeta, error) {
	filter := entities.TeamFilter{Search: strings.TrimSpace(query.Search)}
	if strings.TrimSpace(query.Status) != "" {
		status, err := parseStatus(query.Status)
		if err != nil {
			return nil, utils.PaginationMeta{}, err
		}
		filter.Status = status
	}
	if strings.TrimSpace(query.TeamType) != "" {
		kind, err := parseKind(query.TeamType)
		if err != nil {
			return nil, utils.PaginationMeta{}, err
		}
		filter.Kind = kind
	}

	pagination := utils.GetPaginationParams(query.Page, query.Limit)
	filter.Limit = pagination.Limit
	filter.Offset = pagination.CalculateOffset()

	teams, total, err := u.teamRepo.List(ctx, filter)
	if err != nil {
		logger.Error(ctx, "Failed to list teams", zap.Error(err))
		return nil, utils.PaginationMeta{}, domainerrors.Persistence(err)
	}
	return ToTeamResponses(teams), pagination.Meta(total), nil
}

// CheckNameAvailability reports whether name is free among non-deleted
// teams, ignoring excludeID.
func (u *TeamUsecase) CheckNameAvailability(ctx context.Context, name string, excludeID uint) (*entities.NameAvailability, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("name is required")
	}
	existing, err := u.teamRepo.FindByName(ctx, name, excludeID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return &entities.NameAvailability{Available: true, Message: "Name is available"}, nil
		}
		return nil, domainerrors.Persistence(err)
	}
	return &entities.NameAvailability{
		Available: false,
		Message:   fmt.Sprintf("The name %q is already used by another team", existing.Name),
	}, nil
}

// GetStats returns aggregate team counts
func (u *TeamUsecase) GetStats(ctx context.Context) (*entities.TeamStats, error) {
	stats, err := u.teamRepo.Stats(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to load team stats", zap.Error(err))
		return nil, domainerrors.Persistence(err)
	}
	return stats, nil
}

func (u *TeamUsecase) loadTeam(ctx context.Context, id uint) (*entities.Team, error) {
	team, err := u.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, teamNotFound(id, err)
	}
	return team, nil
}

func (u *TeamUsecase) ensureNameAvailable(ctx context.Context, name string, excludeID uint) error {
	_, err := u.teamRepo.FindByName(ctx, name, excludeID)
	switch {
	case err == nil:
		return domainerrors.DuplicateName(fmt.Sprintf("a team named %q already exists", name))
	case errors.Is(err, domainerrors.ErrNotFound):
		return nil
	default:
		return domainerrors.Persistence(err)
	}
}

// lockAndRecheck serializes compositions touching the same temporary persons
// and repeats exclusivity once the rows are held.
func (u *TeamUsecase) lockAndRecheck(ctx context.Context, comp Composition, candidates []Candidate, excludeTeamID uint) error {
	ids := comp.TemporaryIDs()
	if len(ids) == 0 || comp.Inactive {
		return nil
	}
	if err := u.personRepo.LockTemporaryPersons(ctx, ids); err != nil {
		return err
	}
	roster, coach := splitCandidates(candidates)
	if err := u.validator.ValidateExclusivity(ctx, roster, comp.Kind, excludeTeamID); err != nil {
		return err
	}
	return u.validator.ValidateCoachExclusivity(ctx, coach, comp.Kind, excludeTeamID)
}

// writeLabels stamps the team's category and name on its temporary persons.
// An inactive team leaves them alone so the labels of an active team win.
func (u *TeamUsecase) writeLabels(ctx context.Context, team *entities.Team, ids []uint) error {
	if !team.IsActive() {
		return nil
	}
	return u.personRepo.UpdateTemporaryLabels(ctx, ids, team.Category, null.StringFrom(team.Name))
}

// releaseLabels clears category/team on persons leaving teamID, except those
// still active in another team whose labels describe that team.
func (u *TeamUsecase) releaseLabels(ctx context.Context, ids []uint, teamID uint) error {
	var released []uint
	for _, id := range ids {
		_, err := u.memberRepo.FindActiveAssignment(ctx, id, teamID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		released = append(released, id)
	}
	return u.personRepo.UpdateTemporaryLabels(ctx, released, null.String{}, null.String{})
}

func (u *TeamUsecase) finish(ctx context.Context, op string, err error) error {
	if err == nil {
		metrics.ObserveTeamOperation(op, metrics.OutcomeSuccess)
		return nil
	}
	appErr := domainerrors.AsAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		metrics.ObserveTeamOperation(op, metrics.OutcomeError)
		logger.Error(ctx, "Team operation failed", zap.String("operation", op), zap.Error(err))
	} else {
		metrics.ObserveTeamOperation(op, metrics.OutcomeRejected)
		logger.Debug(ctx, "Team operation rejected", zap.String("operation", op), zap.String("reason", appErr.Message))
	}
	return appErr
}

func teamNotFound(id uint, err error) error {
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound(fmt.Sprintf("team %d not found", id))
	}
	return err
}

func parseKind(raw string) (entities.TeamKind, error) {
	kind, ok := entities.ParseTeamKind(raw)
	if !ok {
		return "", domainerrors.Validation(fmt.Sprintf("invalid team type %q, expected fundacion or temporal", raw))
	}
	return kind, nil
}

func parseStatus(raw string) (entities.TeamStatus, error) {
	status, ok := entities.ParseTeamStatus(raw)
	if !ok {
		return "", domainerrors.Validation(fmt.Sprintf("invalid status %q, expected Active or Inactive", raw))
	}
	return status, nil
}

// coachRef resolves entrenadorData. An unknown type yields a zero ref that
// buildComposition reports.
func coachRef(kind entities.TeamKind, in *entities.CoachInput) *entities.MemberRef {
	if in == nil {
		return nil
	}
	ref, ok := in.Ref(kind)
	if !ok {
		ref = entities.MemberRef{ID: in.ID}
	}
	return &ref
}

func buildComposition(kind entities.TeamKind, entries []entities.RosterEntry, coach *entities.MemberRef) (Composition, error) {
	comp := Composition{Kind: kind, Coach: coach}
	if len(entries) == 0 {
		return comp, domainerrors.Validation(emptyRosterMessage)
	}

	var problems []string
	for _, e := range entries {
		if e.ID == 0 {
			problems = append(problems, "member ids must be positive integers")
			continue
		}
		ref, ok := e.Ref(kind)
		if !ok {
			problems = append(problems, fmt.Sprintf("unknown member type %q for id %d", e.Type, e.ID))
			continue
		}
		comp.Roster = append(comp.Roster, ref)
	}
	if coach != nil {
		if coach.ID == 0 {
			problems = append(problems, "coach id must be a positive integer")
		} else if coach.Kind == "" {
			problems = append(problems, fmt.Sprintf("unknown coach type for id %d", coach.ID))
		}
	}
	if len(problems) > 0 {
		return comp, domainerrors.Validation(strings.Join(problems, "; "))
	}
	return comp, nil
}

func currentComposition(team *entities.Team, coach *entities.MemberRef) (Composition, error) {
	comp := Composition{Kind: team.Kind, Coach: coach}
	for _, m := range team.Roster() {
		comp.Roster = append(comp.Roster, m.Ref)
	}
	if len(comp.Roster) == 0 {
		return comp, domainerrors.Validation(emptyRosterMessage)
	}
	return comp, nil
}

func membersAsCandidates(team *entities.Team) []Candidate {
	out := make([]Candidate, 0, len(team.Members))
	for _, m := range team.Members {
		out = append(out, Candidate{Ref: m.Ref, Role: m.Role, Person: memberSummary(m)})
	}
	return out
}

func buildMembers(teamID uint, candidates []Candidate, joined map[entities.MemberRef]time.Time, now time.Time) []*entities.TeamMember {
	members := make([]*entities.TeamMember, 0, len(candidates))
	for _, c := range candidates {
		joinedAt := now
		if at, ok := joined[c.Ref]; ok {
			joinedAt = at
		}
		members = append(members, &entities.TeamMember{
			TeamID:   teamID,
			Ref:      c.Ref,
			Role:     c.Role,
			IsActive: true,
			JoinedAt: joinedAt,
			Person:   c.Person,
		})
	}
	return members
}

func joinedAtIndex(team *entities.Team) map[entities.MemberRef]time.Time {
	idx := make(map[entities.MemberRef]time.Time, len(team.Members))
	for _, m := range team.Members {
		idx[m.Ref] = m.JoinedAt
	}
	return idx
}

// fillDerivedFields defaults the category of foundation teams to the
// athletes' shared category and the coach label to the coach's name.
func fillDerivedFields(team *entities.Team, candidates []Candidate) {
	if !team.Category.Valid && team.Kind == entities.TeamKindFoundation {
		if category, ok := SharedCategory(candidates); ok {
			team.Category = null.StringFrom(category)
		}
	}
	if !team.CoachLabel.Valid {
		for _, c := range candidates {
			if c.Role.IsCoach() && c.Person != nil && c.Person.Name != "" {
				team.CoachLabel = null.StringFrom(c.Person.Name)
			}
		}
	}
}

func optionalString(s string) null.String {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

func difference(a, b []uint) []uint {
	keep := make(map[uint]bool, len(b))
	for _, id := range b {
		keep[id] = true
	}
	var out []uint
	for _, id := range a {
		if !keep[id] {
			out = append(out, id)
		}
	}
	return out
}
