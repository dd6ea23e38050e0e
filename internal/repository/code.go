package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/db"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/jmoiron/sqlx"
)

var codeTables = map[domain.CodePurpose]string{
	domain.PurposeConfirmation:  "confirmation_code",
	domain.PurposeUpdate:        "update_code",
	domain.PurposeUnsubscribe:   "unsubscribe_code",
	domain.PurposePendingUpdate: "pending_update",
}

func codeTable(purpose domain.CodePurpose) (string, error) {
	table, ok := codeTables[purpose]
	if !ok {
		return "", fmt.Errorf("%w: unknown code purpose %q", domain.ErrValidation, purpose)
	}
	return table, nil
}

func codeColumn(by domain.LookupBy) (string, error) {
	switch by.Kind {
	case domain.LookupBySubID:
		return "sub_id", nil
	case domain.LookupByCode:
		return "code", nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedLookup, by.Kind)
}

type codeRepository struct {
	db *sqlx.DB
}

func newCodeRepository(db *sqlx.DB) *codeRepository {
	return &codeRepository{
		db: db,
	}
}

// GetOne returns the row regardless of expiry; callers decide liveness.
func (r *codeRepository) GetOne(ctx context.Context, purpose domain.CodePurpose, by domain.LookupBy) (*domain.Code, error) {
	const op = "repository.code.GetOne"

	table, column, err := resolveCodeLookup(purpose, by)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
	SELECT sub_id, code, date_created, date_expires
	FROM ` + table + `
	WHERE ` + column + ` = ?
	`

	var code domain.Code
	if err := executorFrom(ctx, r.db).GetContext(ctx, &code, query, by.Arg()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select %s failed: %w", op, table, err)
	}

	return &code, nil
}

func (r *codeRepository) Create(ctx context.Context, purpose domain.CodePurpose, code *domain.Code) error {
	const op = "repository.code.Create"

	if purpose == domain.PurposePendingUpdate {
		return fmt.Errorf("%s: %w: pending updates carry measurements", op, domain.ErrValidation)
	}

	table, err := codeTable(purpose)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
	INSERT INTO ` + table + ` (sub_id, code, date_created, date_expires)
	VALUES (:sub_id, :code, :date_created, :date_expires)
	`

	if _, err := executorFrom(ctx, r.db).NamedExecContext(ctx, query, code); err != nil {
		if db.IsDuplicateEntry(err) {
			return domain.ErrDuplicateEntry
		}
		if db.IsForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%s: insert %s failed: %w", op, table, err)
	}

	return nil
}

// Upsert replaces the subscriber's row in place, inserting it when absent.
func (r *codeRepository) Upsert(ctx context.Context, purpose domain.CodePurpose, code *domain.Code) error {
	const op = "repository.code.Upsert"

	if !purpose.Upserted() {
		return fmt.Errorf("%s: %w: %s codes are not upserted", op, domain.ErrValidation, purpose)
	}

	table, err := codeTable(purpose)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
	UPDATE ` + table + `
	SET code = ?, date_created = ?, date_expires = ?
	WHERE sub_id = ?
	`

	res, err := executorFrom(ctx, r.db).ExecContext(ctx, query, code.Code, code.DateCreated, code.DateExpires, code.SubID)
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("%s: update %s failed: %w", op, table, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows > 0 {
		return nil
	}

	return r.Create(ctx, purpose, code)
}

func (r *codeRepository) Delete(ctx context.Context, purpose domain.CodePurpose, by domain.LookupBy) (int64, error) {
	const op = "repository.code.Delete"

	table, column, err := resolveCodeLookup(purpose, by)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `DELETE FROM ` + table + ` WHERE ` + column + ` = ?`

	res, err := executorFrom(ctx, r.db).ExecContext(ctx, query, by.Arg())
	if err != nil {
		return 0, fmt.Errorf("%s: delete %s failed: %w", op, table, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	return rows, nil
}

func (r *codeRepository) ListExpired(ctx context.Context, purpose domain.CodePurpose, now time.Time) ([]domain.Code, error) {
	const op = "repository.code.ListExpired"

	table, err := codeTable(purpose)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
	SELECT sub_id, code, date_created, date_expires
	FROM ` + table + `
	WHERE date_expires <= ?
	ORDER BY date_expires
	`

	var codes []domain.Code
	if err := executorFrom(ctx, r.db).SelectContext(ctx, &codes, query, now); err != nil {
		return nil, fmt.Errorf("%s: select %s failed: %w", op, table, err)
	}

	return codes, nil
}

func resolveCodeLookup(purpose domain.CodePurpose, by domain.LookupBy) (string, string, error) {
	table, err := codeTable(purpose)
	if err != nil {
		return "", "", err
	}

	if err := by.Validate(); err != nil {
		return "", "", err
	}

	column, err := codeColumn(by)
	if err != nil {
		return "", "", err
	}

	return table, column, nil
}
