package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
	domainerrors "github.com/helljxnn/astrostar-backend-sub000/internal/domain/errors"
	"github.com/helljxnn/astrostar-backend-sub000/internal/infrastructure/models"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) conn(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).WithContext(ctx)
}

func (r *TeamRepository) Create(ctx context.Context, team *entities.Team) error {
	m := r.toModel(team)
	if err := r.conn(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.DuplicateName("a team with this name already exists")
		}
		return err
	}
	team.ID = m.ID
	team.CreatedAt = m.CreatedAt
	team.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id uint) (*entities.Team, error) {
	var m models.Team
	err := withLocking(ctx, r.conn(ctx)).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("team_members.id ASC") }).
		Preload("Members.Athlete").
		Preload("Members.Employee").
		Preload("Members.TemporaryPerson").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *TeamRepository) FindByName(ctx context.Context, name string, excludeID uint) (*entities.Team, error) {
	var m models.Team
	query := r.conn(ctx).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *TeamRepository) List(ctx context.Context, filter entities.TeamFilter) ([]*entities.Team, int64, error) {
	var total int64
	if err := applyTeamFilter(r.conn(ctx).Model(&models.Team{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Team
	query := applyTeamFilter(r.conn(ctx), filter).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("team_members.id ASC") }).
		Preload("Members.Athlete").
		Preload("Members.Employee").
		Preload("Members.TemporaryPerson").
		Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.Team, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, total, nil
}

func applyTeamFilter(query *gorm.DB, filter entities.TeamFilter) *gorm.DB {
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(category, '')) LIKE ?", like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Kind != "" {
		query = query.Where("team_type = ?", string(filter.Kind))
	}
	return query
}

func (r *TeamRepository) Update(ctx context.Context, team *entities.Team) error {
	updates := map[string]interface{}{
		"name":        team.Name,
		"coach_label": team.CoachLabel,
		"category":    team.Category,
		"phone":       team.Phone,
		"description": team.Description,
		"status":      string(team.Status),
		"team_type":   string(team.Kind),
		"updated_at":  team.UpdatedAt,
	}
	if team.UpdatedAt.IsZero() {
		updates["updated_at"] = time.Now()
	}

	result := r.conn(ctx).
		Model(&models.Team{}).
		Where("id = ?", team.ID).
		Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerrors.DuplicateName("a team with this name already exists")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) UpdateStatus(ctx context.Context, id uint, status entities.TeamStatus) error {
	result := r.conn(ctx).
		Model(&models.Team{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SoftDelete flips the team to Inactive and stamps deleted_at. The row is
// kept; already deleted teams report ErrNotFound.
func (r *TeamRepository) SoftDelete(ctx context.Context, id uint, at time.Time) error {
	result := r.conn(ctx).
		Model(&models.Team{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(entities.TeamStatusInactive),
			"deleted_at": at,
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) Stats(ctx context.Context) (*entities.TeamStats, error) {
	var rows []struct {
		Status   string
		TeamType string
		Deleted  int
		Count    int64
	}
	err := r.conn(ctx).
		Unscoped().
		Model(&models.Team{}).
		Select("status, team_type, CASE WHEN deleted_at IS NULL THEN 0 ELSE 1 END AS deleted, COUNT(*) AS count").
		Group("status, team_type, CASE WHEN deleted_at IS NULL THEN 0 ELSE 1 END").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &entities.TeamStats{}
	for _, row := range rows {
		stats.Total += row.Count
		if row.Deleted == 1 {
			stats.Deleted += row.Count
			continue
		}
		switch entities.TeamStatus(row.Status) {
		case entities.TeamStatusActive:
			stats.Active += row.Count
		case entities.TeamStatusInactive:
			stats.Inactive += row.Count
		}
		switch entities.TeamKind(row.TeamType) {
		case entities.TeamKindFoundation:
			stats.Foundation += row.Count
		case entities.TeamKindTemporary:
			stats.Temporary += row.Count
		}
	}
	return stats, nil
}

func (r *TeamRepository) toEntity(m *models.Team) *entities.Team {
	var deletedAt null.Time
	if m.DeletedAt.Valid {
		deletedAt = null.TimeFrom(m.DeletedAt.Time)
	}
	team := &entities.Team{
		ID:          m.ID,
		Name:        m.Name,
		CoachLabel:  null.StringFromPtr(m.CoachLabel),
		Category:    null.StringFromPtr(m.Category),
		Phone:       null.StringFromPtr(m.Phone),
		Description: null.StringFromPtr(m.Description),
		Status:      entities.TeamStatus(m.Status),
		Kind:        entities.TeamKind(m.TeamType),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAt,
	}
	if len(m.Members) > 0 {
		team.Members = make([]*entities.TeamMember, 0, len(m.Members))
		for i := range m.Members {
			team.Members = append(team.Members, memberToEntity(&m.Members[i]))
		}
	}
	return team
}

func (r *TeamRepository) toModel(e *entities.Team) *models.Team {
	return &models.Team{
		ID:          e.ID,
		Name:        e.Name,
		CoachLabel:  e.CoachLabel.Ptr(),
		Category:    e.Category.Ptr(),
		Phone:       e.Phone.Ptr(),
		Description: e.Description.Ptr(),
		Status:      string(e.Status),
		TeamType:    string(e.Kind),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
