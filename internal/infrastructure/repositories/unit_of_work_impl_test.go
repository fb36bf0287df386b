package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/helljxnn/astrostar-backend-sub000/internal/infrastructure/repositories/sqlitetest"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func insertTeamRow(ctx context.Context, db *gorm.DB, name string) error {
	return GetDB(ctx, db).Exec("INSERT INTO teams(name, status, team_type) VALUES (?, 'Active', 'Fundacion')", name).Error
}

func TestUnitOfWork_DoCommitAndRollback(t *testing.T) {
	db := sqlitetest.NewSchemaDB(t)
	u := &UnitOfWorkImpl{db: db}

	// commit path
	err := u.Do(context.Background(), func(ctx context.Context) error {
		return insertTeamRow(ctx, db, "Halcones")
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Table("teams").Count(&count).Error)
	require.Equal(t, int64(1), count)

	// rollback path
	err = u.Do(context.Background(), func(ctx context.Context) error {
		if err := insertTeamRow(ctx, db, "Condores"); err != nil {
			return err
		}
		return errors.New("force rollback")
	})
	require.Error(t, err)

	require.NoError(t, db.Table("teams").Count(&count).Error)
	require.Equal(t, int64(1), count, "second insert must be rolled back")
}

func TestUnitOfWork_NestedDoJoinsOuterTransaction(t *testing.T) {
	db := sqlitetest.NewSchemaDB(t)
	u := &UnitOfWorkImpl{db: db}

	err := u.Do(context.Background(), func(ctx context.Context) error {
		outer := GetDB(ctx, db)
		return u.Do(ctx, func(inner context.Context) error {
			require.Same(t, outer, GetDB(inner, db))
			if err := insertTeamRow(inner, db, "Pumas"); err != nil {
				return err
			}
			return errors.New("inner failure")
		})
	})
	require.EqualError(t, err, "inner failure")

	var count int64
	require.NoError(t, db.Table("teams").Count(&count).Error)
	require.Zero(t, count)
}

func TestUnitOfWork_PanicRollsBack(t *testing.T) {
	db := sqlitetest.NewSchemaDB(t)
	u := &UnitOfWorkImpl{db: db}

	require.Panics(t, func() {
		_ = u.Do(context.Background(), func(ctx context.Context) error {
			_ = insertTeamRow(ctx, db, "Jaguares")
			panic("boom")
		})
	})

	var count int64
	require.NoError(t, db.Table("teams").Count(&count).Error)
	require.Zero(t, count)
}

func TestUnitOfWork_WithLockAndGetDB(t *testing.T) {
	db := sqlitetest.NewDB(t)
	u := &UnitOfWorkImpl{db: db}

	ctx := u.WithLock(context.Background())
	locked, _ := ctx.Value(lockKey).(bool)
	require.True(t, locked)
	require.Equal(t, db, GetDB(ctx, db))

	plainDB := u.GetDB(context.Background())
	require.Equal(t, db, plainDB)

	tx := db.Begin()
	txCtx := context.WithValue(context.Background(), txKey, tx)
	require.Equal(t, tx, u.GetDB(txCtx))
	tx.Rollback()
}

func TestWithLocking_AddsClauseOnlyWhenLocked(t *testing.T) {
	db := sqlitetest.NewDB(t)
	u := &UnitOfWorkImpl{db: db}

	plain := withLocking(context.Background(), db.Session(&gorm.Session{}))
	_, ok := plain.Statement.Clauses["FOR"]
	require.False(t, ok)

	locked := withLocking(u.WithLock(context.Background()), db.Session(&gorm.Session{}))
	_, ok = locked.Statement.Clauses["FOR"]
	require.True(t, ok)
}

func TestUnitOfWork_DoBeginFailure(t *testing.T) {
	db := sqlitetest.NewDB(t)
	u := &UnitOfWorkImpl{db: db}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = u.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to begin transaction")
}

func TestUnitOfWork_DoCommitFailure_WithHook(t *testing.T) {
	db := sqlitetest.NewSchemaDB(t)
	u := &UnitOfWorkImpl{db: db}

	origCommit := commitTx
	t.Cleanup(func() { commitTx = origCommit })
	commitTx = func(tx *gorm.DB) error {
		tx.Rollback()
		return errors.New("forced commit fail")
	}

	err := u.Do(context.Background(), func(ctx context.Context) error {
		return insertTeamRow(ctx, db, "Tiburones")
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to commit transaction")
}
