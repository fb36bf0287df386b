package repositories

import (
	"context"

	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
	"github.com/volatiletech/null/v8"
)

// PersonRepository reads the three person kinds a team can reference and
// writes the temporary-person assignment labels.
type PersonRepository interface {
	GetAthlete(ctx context.Context, id uint) (*entities.Athlete, error)
	GetEmployee(ctx context.Context, id uint) (*entities.Employee, error)
	GetTemporaryPerson(ctx context.Context, id uint) (*entities.TemporaryPerson, error)
	// LockTemporaryPersons takes row locks on the given persons for the
	// current transaction.
	LockTemporaryPersons(ctx context.Context, ids []uint) error
	UpdateTemporaryLabels(ctx context.Context, ids []uint, category, team null.String) error
}
