package repositories

import (
	"context"
	"fmt"

	domainRepos "github.com/helljxnn/astrostar-backend-sub000/internal/domain/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contextKey string

const (
	txKey   contextKey = "tx_db"
	lockKey contextKey = "tx_lock"
)

var commitTx = func(tx *gorm.DB) error {
	return tx.Commit().Error
}

// UnitOfWorkImpl implements UnitOfWork using GORM
type UnitOfWorkImpl struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(db *gorm.DB) domainRepos.UnitOfWork {
	return &UnitOfWorkImpl{db: db}
}

// Do executes the given function within a transaction scope. A nested Do
// joins the outer transaction.
func (u *UnitOfWorkImpl) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	txCtx := context.WithValue(ctx, txKey, tx)
	if err := fn(txCtx); err != nil {
		tx.Rollback()
		return err
	}

	if err := commitTx(tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithLock makes repository reads issued with the returned context take row
// locks. Only meaningful inside Do.
func (u *UnitOfWorkImpl) WithLock(ctx context.Context) context.Context {
	return context.WithValue(ctx, lockKey, true)
}

// GetDB returns the transaction bound to ctx, or the base DB.
func (u *UnitOfWorkImpl) GetDB(ctx context.Context) *gorm.DB {
	return GetDB(ctx, u.db)
}

// GetDB extracts the Transaction DB from context if present, otherwise returns fallback
func GetDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

func withLocking(ctx context.Context, db *gorm.DB) *gorm.DB {
	if locked, _ := ctx.Value(lockKey).(bool); locked {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
