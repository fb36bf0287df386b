package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
	domainerrors "github.com/helljxnn/astrostar-backend-sub000/internal/domain/errors"
	"github.com/helljxnn/astrostar-backend-sub000/internal/infrastructure/models"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PersonRepository reads athletes, employees and temporary persons
type PersonRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

func (r *PersonRepository) conn(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).WithContext(ctx)
}

func (r *PersonRepository) GetAthlete(ctx context.Context, id uint) (*entities.Athlete, error) {
	var m models.Athlete
	if err := r.conn(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return athleteToEntity(&m), nil
}

func (r *PersonRepository) GetEmployee(ctx context.Context, id uint) (*entities.Employee, error) {
	var m models.Employee
	if err := r.conn(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return employeeToEntity(&m), nil
}

func (r *PersonRepository) GetTemporaryPerson(ctx context.Context, id uint) (*entities.TemporaryPerson, error) {
	var m models.TemporaryPerson
	if err := withLocking(ctx, r.conn(ctx)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return temporaryPersonToEntity(&m), nil
}

// LockTemporaryPersons issues SELECT ... FOR UPDATE on the given rows so
// concurrent compositions touching the same persons serialize.
func (r *PersonRepository) LockTemporaryPersons(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var locked []uint
	return r.conn(ctx).
		Model(&models.TemporaryPerson{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Pluck("id", &locked).Error
}

// UpdateTemporaryLabels writes the category/team labels; null values clear them.
func (r *PersonRepository) UpdateTemporaryLabels(ctx context.Context, ids []uint, category, team null.String) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(ctx).
		Model(&models.TemporaryPerson{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"category":   category,
			"team":       team,
			"updated_at": time.Now(),
		}).Error
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound
	}
	return err
}

func athleteToEntity(m *models.Athlete) *entities.Athlete {
	return &entities.Athlete{
		ID:             m.ID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Identification: m.Identification,
		Category:       m.Category,
		Status:         entities.PersonStatus(m.Status),
	}
}

func employeeToEntity(m *models.Employee) *entities.Employee {
	return &entities.Employee{
		ID:             m.ID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Identification: m.Identification,
		Position:       m.Position,
		Status:         entities.PersonStatus(m.Status),
	}
}

func temporaryPersonToEntity(m *models.TemporaryPerson) *entities.TemporaryPerson {
	return &entities.TemporaryPerson{
		ID:             m.ID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Identification: m.Identification,
		PersonType:     entities.TemporaryPersonType(m.PersonType),
		Status:         entities.PersonStatus(m.Status),
		Category:       null.StringFromPtr(m.Category),
		Team:           null.StringFromPtr(m.Team),
	}
}
