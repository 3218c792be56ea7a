package db

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Transactor is a unit of work: every repository call made with the ctx handed
// to fn runs inside the same database transaction, committed when fn returns
// nil and rolled back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type PgxTransactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) *PgxTransactor {
	return &PgxTransactor{pool: pool}
}

func (t *PgxTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	// nested units of work join the outer transaction
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		log.Error("Transactor: Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("unit of work: failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Transactor: Recovered from panic during transaction", zap.Any("panic", r))
			_ = tx.Rollback(ctx)
			panic(r)
		}
		// the failing step already logged its own error, only the rollback is logged here
		if err != nil {
			log.Warn("Transactor: Rolling back transaction due to error", zap.Error(err))
			_ = tx.Rollback(ctx)
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			log.Error("Transactor: Failed to commit transaction", zap.Error(commitErr))
			err = fmt.Errorf("unit of work: failed to commit transaction: %w", commitErr)
			return
		}
		log.Debug("Transactor: Transaction committed successfully")
	}()

	err = fn(WithTx(ctx, tx))
	return err
}
