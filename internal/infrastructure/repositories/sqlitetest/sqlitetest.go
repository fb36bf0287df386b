// Package sqlitetest opens in-memory SQLite databases carrying the teams
// schema, for repository and usecase tests.
package sqlitetest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/helljxnn/astrostar-backend-sub000/internal/infrastructure/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens an isolated in-memory database without any tables.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

// NewSchemaDB opens an in-memory database with the full teams schema.
func NewSchemaDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := NewDB(t)
	CreateSchema(t, db)
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

// CreateSchema mirrors the postgres migration in SQLite syntax.
func CreateSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE athletes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		identification TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Active',
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		identification TEXT NOT NULL UNIQUE,
		position TEXT,
		status TEXT NOT NULL DEFAULT 'Active',
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE temporary_persons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		identification TEXT NOT NULL,
		person_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Active',
		category TEXT,
		team TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		coach_label TEXT,
		category TEXT,
		phone TEXT,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'Active',
		team_type TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE UNIQUE INDEX idx_teams_name_live ON teams (LOWER(name)) WHERE deleted_at IS NULL;`)
	mustExec(t, db, `CREATE TABLE team_members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		team_id INTEGER NOT NULL REFERENCES teams(id),
		athlete_id INTEGER REFERENCES athletes(id),
		employee_id INTEGER REFERENCES employees(id),
		temporary_person_id INTEGER REFERENCES temporary_persons(id),
		role TEXT NOT NULL DEFAULT 'Miembro',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		joined_at DATETIME NOT NULL,
		CHECK ((athlete_id IS NOT NULL) + (employee_id IS NOT NULL) + (temporary_person_id IS NOT NULL) = 1)
	);`)
}

// SeedAthlete inserts an active foundation athlete.
func SeedAthlete(t *testing.T, db *gorm.DB, first, last, category string) *models.Athlete {
	t.Helper()
	m := &models.Athlete{
		FirstName:      first,
		LastName:       last,
		Identification: fmt.Sprintf("A-%s-%d", first, time.Now().UnixNano()),
		Category:       category,
		Status:         "Active",
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// SeedEmployee inserts an active employee.
func SeedEmployee(t *testing.T, db *gorm.DB, first, last string) *models.Employee {
	t.Helper()
	m := &models.Employee{
		FirstName:      first,
		LastName:       last,
		Identification: fmt.Sprintf("E-%s-%d", first, time.Now().UnixNano()),
		Position:       "Entrenador",
		Status:         "Active",
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// SeedTemporaryPerson inserts an active, unassigned temporary person of the
// given type ("Deportista" or "Entrenador").
func SeedTemporaryPerson(t *testing.T, db *gorm.DB, first, last, personType string) *models.TemporaryPerson {
	t.Helper()
	m := &models.TemporaryPerson{
		FirstName:      first,
		LastName:       last,
		Identification: fmt.Sprintf("T-%s-%d", first, time.Now().UnixNano()),
		PersonType:     personType,
		Status:         "Active",
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// SetStatus overwrites the status column of any person or team table.
func SetStatus(t *testing.T, db *gorm.DB, table string, id uint, status string) {
	t.Helper()
	mustExec(t, db, "UPDATE "+table+" SET status = ? WHERE id = ?", status, id)
}
