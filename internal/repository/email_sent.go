package repository

import (
	"context"
	"fmt"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/jmoiron/sqlx"
)

type emailSentRepository struct {
	db *sqlx.DB
}

func newEmailSentRepository(db *sqlx.DB) *emailSentRepository {
	return &emailSentRepository{
		db: db,
	}
}

func (r *emailSentRepository) Create(ctx context.Context, email *domain.EmailSent) error {
	const op = "repository.email_sent.Create"

	const query = `
	INSERT INTO email_sent (date_sent, category, recipient, subject, contents)
	VALUES (:date_sent, :category, :recipient, :subject, :contents)
	`

	res, err := executorFrom(ctx, r.db).NamedExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("%s: insert email_sent failed: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s: get last insert id failed: %w", op, err)
	}

	email.ID = id
	return nil
}
