package usecases_test

import (
	"context"
	"time"

	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	args := m.Called(ctx)
	return args.Get(0).(context.Context) // Return mocked context
}

// Mock TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *entities.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id uint) (*entities.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *MockTeamRepository) FindByName(ctx context.Context, name string, excludeID uint) (*entities.Team, error) {
	args := m.Called(ctx, name, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context, filter entities.TeamFilter) ([]*entities.Team, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Team), args.Get(1).(int64), args.Error(2)
}

func (m *MockTeamRepository) Update(ctx context.Context, team *entities.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) UpdateStatus(ctx context.Context, id uint, status entities.TeamStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTeamRepository) SoftDelete(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockTeamRepository) Stats(ctx context.Context) (*entities.TeamStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TeamStats), args.Error(1)
}

// Mock TeamMemberRepository
type MockTeamMemberRepository struct {
	mock.Mock
}

func (m *MockTeamMemberRepository) CreateBatch(ctx context.Context, members []*entities.TeamMember) error {
	args := m.Called(ctx, members)
	return args.Error(0)
}

func (m *MockTeamMemberRepository) DeleteByTeamID(ctx context.Context, teamID uint) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

func (m *MockTeamMemberRepository) FindActiveAssignment(ctx context.Context, temporaryPersonID, excludeTeamID uint) (*entities.TeamAssignment, error) {
	args := m.Called(ctx, temporaryPersonID, excludeTeamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TeamAssignment), args.Error(1)
}

// Mock PersonRepository
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) GetAthlete(ctx context.Context, id uint) (*entities.Athlete, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Athlete), args.Error(1)
}

func (m *MockPersonRepository) GetEmployee(ctx context.Context, id uint) (*entities.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Employee), args.Error(1)
}

func (m *MockPersonRepository) GetTemporaryPerson(ctx context.Context, id uint) (*entities.TemporaryPerson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TemporaryPerson), args.Error(1)
}

func (m *MockPersonRepository) LockTemporaryPersons(ctx context.Context, ids []uint) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockPersonRepository) UpdateTemporaryLabels(ctx context.Context, ids []uint, category, team null.String) error {
	args := m.Called(ctx, ids, category, team)
	return args.Error(0)
}
