package repositories

import (
	"context"

	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
	domainerrors "github.com/helljxnn/astrostar-backend-sub000/internal/domain/errors"
	"github.com/helljxnn/astrostar-backend-sub000/internal/infrastructure/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamMemberRepository implements membership row operations
type TeamMemberRepository struct {
	db *gorm.DB
}

// NewTeamMemberRepository creates a new team member repository
func NewTeamMemberRepository(db *gorm.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

func (r *TeamMemberRepository) conn(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).WithContext(ctx)
}

// CreateBatch inserts membership rows and writes the generated ids back.
func (r *TeamMemberRepository) CreateBatch(ctx context.Context, members []*entities.TeamMember) error {
	if len(members) == 0 {
		return nil
	}
	ms := make([]models.TeamMember, 0, len(members))
	for _, m := range members {
		ms = append(ms, memberToModel(m))
	}
	if err := r.conn(ctx).Omit(clause.Associations).Create(&ms).Error; err != nil {
		return err
	}
	for i := range ms {
		members[i].ID = ms[i].ID
	}
	return nil
}

// DeleteByTeamID removes every membership row of a team
func (r *TeamMemberRepository) DeleteByTeamID(ctx context.Context, teamID uint) error {
	return r.conn(ctx).Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error
}

// FindActiveAssignment looks for an active membership of the temporary
// person in an active, non-deleted team other than excludeTeamID.
func (r *TeamMemberRepository) FindActiveAssignment(ctx context.Context, temporaryPersonID, excludeTeamID uint) (*entities.TeamAssignment, error) {
	var rows []struct {
		TeamID   uint
		TeamName string
	}
	query := r.conn(ctx).
		Table("team_members AS tm").
		Select("t.id AS team_id, t.name AS team_name").
		Joins("JOIN teams t ON t.id = tm.team_id").
		Where("tm.temporary_person_id = ? AND tm.is_active = ?", temporaryPersonID, true).
		Where("t.status = ? AND t.deleted_at IS NULL", string(entities.TeamStatusActive))
	if excludeTeamID != 0 {
		query = query.Where("t.id <> ?", excludeTeamID)
	}
	if err := query.Order("t.id ASC").Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return &entities.TeamAssignment{TeamID: rows[0].TeamID, TeamName: rows[0].TeamName}, nil
}

func memberToModel(e *entities.TeamMember) models.TeamMember {
	m := models.TeamMember{
		ID:       e.ID,
		TeamID:   e.TeamID,
		Role:     string(e.Role),
		IsActive: e.IsActive,
		JoinedAt: e.JoinedAt,
	}
	id := e.Ref.ID
	switch e.Ref.Kind {
	case entities.PersonKindAthlete:
		m.AthleteID = &id
	case entities.PersonKindEmployee:
		m.EmployeeID = &id
	case entities.PersonKindTemporary:
		m.TemporaryPersonID = &id
	}
	return m
}

func memberToEntity(m *models.TeamMember) *entities.TeamMember {
	e := &entities.TeamMember{
		ID:       m.ID,
		TeamID:   m.TeamID,
		Role:     entities.MemberRole(m.Role),
		IsActive: m.IsActive,
		JoinedAt: m.JoinedAt,
	}
	switch {
	case m.AthleteID != nil:
		e.Ref = entities.AthleteRef(*m.AthleteID)
		if m.Athlete != nil {
			e.Person = athleteToEntity(m.Athlete).Summary()
		}
	case m.EmployeeID != nil:
		e.Ref = entities.EmployeeRef(*m.EmployeeID)
		if m.Employee != nil {
			e.Person = employeeToEntity(m.Employee).Summary()
		}
	case m.TemporaryPersonID != nil:
		e.Ref = entities.TemporaryRef(*m.TemporaryPersonID)
		if m.TemporaryPerson != nil {
			e.Person = temporaryPersonToEntity(m.TemporaryPerson).Summary()
		}
	}
	return e
}
