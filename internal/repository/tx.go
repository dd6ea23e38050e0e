package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/jmoiron/sqlx"
)

type txCtxKey struct{}

// executor is the query surface shared by *sqlx.DB and *sqlx.Tx.
type executor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// executorFrom returns the transaction bound to ctx, or db when there is none.
func executorFrom(ctx context.Context, db *sqlx.DB) executor {
	if tx, ok := ctx.Value(txCtxKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

type transactor struct {
	db *sqlx.DB
}

func newTransactor(db *sqlx.DB) *transactor {
	return &transactor{
		db: db,
	}
}

// WithinTx runs fn in a transaction. A nested call joins the outer
// transaction. Any error from fn rolls everything back and is returned
// wrapped in domain.ErrTransactionAborted.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	const op = "repository.transactor.WithinTx"

	if _, ok := ctx.Value(txCtxKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin failed: %w: %w", op, domain.ErrTransactionAborted, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
		}
		return fmt.Errorf("%w: %w", domain.ErrTransactionAborted, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit failed: %w: %w", op, domain.ErrTransactionAborted, err)
	}

	return nil
}
