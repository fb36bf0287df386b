package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/helljxnn/astrostar-backend-sub000/internal/config"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

var (
	sqlOpen = sql.Open
	dbPing  = func(db *sql.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	}
)

// NewConnection opens a database/sql handle over lib/pq. It is used by the
// migration runner; the API talks to postgres through gorm.
func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sqlOpen("postgres", cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := dbPing(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrator applies the embedded goose migrations.
type Migrator struct {
	db *sql.DB
}

func NewMigrator(db *sql.DB) (*Migrator, error) {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	return &Migrator{db: db}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	return goose.UpContext(ctx, m.db, migrationsDir)
}

// Down rolls back the latest migration.
func (m *Migrator) Down(ctx context.Context) error {
	return goose.DownContext(ctx, m.db, migrationsDir)
}

// Status prints the state of every migration.
func (m *Migrator) Status(ctx context.Context) error {
	return goose.StatusContext(ctx, m.db, migrationsDir)
}

// Version returns the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	return goose.GetDBVersionContext(ctx, m.db)
}

// MigrationFiles lists the embedded migration files in apply order.
func MigrationFiles() ([]string, error) {
	entries, err := embedMigrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
