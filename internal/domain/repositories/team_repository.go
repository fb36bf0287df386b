package repositories

import (
	"context"
	"time"

	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
)

// TeamRepository persists teams. Soft-deleted teams are invisible to every
// read except Stats.
type TeamRepository interface {
	Create(ctx context.Context, team *entities.Team) error
	// GetByID loads the team with its membership rows and their persons.
	GetByID(ctx context.Context, id uint) (*entities.Team, error)
	// FindByName matches case-insensitively; excludeID 0 excludes nothing.
	FindByName(ctx context.Context, name string, excludeID uint) (*entities.Team, error)
	List(ctx context.Context, filter entities.TeamFilter) ([]*entities.Team, int64, error)
	Update(ctx context.Context, team *entities.Team) error
	UpdateStatus(ctx context.Context, id uint, status entities.TeamStatus) error
	SoftDelete(ctx context.Context, id uint, at time.Time) error
	Stats(ctx context.Context) (*entities.TeamStats, error)
}

// TeamMemberRepository persists membership rows
type TeamMemberRepository interface {
	CreateBatch(ctx context.Context, members []*entities.TeamMember) error
	DeleteByTeamID(ctx context.Context, teamID uint) error
	// FindActiveAssignment returns the active team (other than excludeTeamID)
	// holding an active membership of the temporary person, or ErrNotFound.
	FindActiveAssignment(ctx context.Context, temporaryPersonID, excludeTeamID uint) (*entities.TeamAssignment, error)
}
