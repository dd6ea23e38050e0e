package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) (*repository.Repositories, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return repository.NewRepositories(sqlx.NewDb(conn, "mysql")), mock
}

func TestWithinTxCommits(t *testing.T) {
	ctx := context.Background()
	repos, mock := setupRepos(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO subscriber").
		WithArgs("a@b.com", int64(1)).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	subscriber := &domain.Subscriber{Email: "a@b.com", FreqID: 1}
	err := repos.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		_, err := repos.Subscribers.Create(ctx, subscriber)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), subscriber.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackOnDuplicate(t *testing.T) {
	ctx := context.Background()
	repos, mock := setupRepos(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO subscriber").
		WithArgs("a@b.com", int64(1)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err := repos.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		_, err := repos.Subscribers.Create(ctx, &domain.Subscriber{Email: "a@b.com", FreqID: 1})
		return err
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransactionAborted)
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxNestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	repos, mock := setupRepos(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM subscriber").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repos.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		return repos.Transactor.WithinTx(ctx, func(ctx context.Context) error {
			_, err := repos.Subscribers.Delete(ctx, 3)
			return err
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberGetOneNotFound(t *testing.T) {
	repos, mock := setupRepos(t)

	mock.ExpectQuery("FROM subscriber").
		WithArgs("missing@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "freq_id", "confirmed", "date_confirmed"}))

	_, err := repos.Subscribers.GetOne(context.Background(), domain.ByEmail("missing@b.com"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberGetOneRejectsCodeLookup(t *testing.T) {
	repos, mock := setupRepos(t)

	_, err := repos.Subscribers.GetOne(context.Background(), domain.ByCode(12345678))

	assert.ErrorIs(t, err, domain.ErrUnsupportedLookup)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberConfirmAlreadyConfirmed(t *testing.T) {
	repos, mock := setupRepos(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE subscriber").
		WithArgs(now, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repos.Subscribers.Confirm(context.Background(), 5, now)

	assert.ErrorIs(t, err, domain.ErrNoRowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCodeUpsertInsertsWhenMissing(t *testing.T) {
	repos, mock := setupRepos(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	code := &domain.Code{SubID: 4, Code: 12345678, DateCreated: now, DateExpires: now.Add(30 * time.Minute)}

	mock.ExpectExec("UPDATE unsubscribe_code").
		WithArgs(code.Code, code.DateCreated, code.DateExpires, code.SubID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO unsubscribe_code").
		WithArgs(code.SubID, code.Code, code.DateCreated, code.DateExpires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repos.Codes.Upsert(context.Background(), domain.PurposeUnsubscribe, code)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCodeUpsertReplacesExisting(t *testing.T) {
	repos, mock := setupRepos(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	code := &domain.Code{SubID: 4, Code: 87654321, DateCreated: now, DateExpires: now.Add(7 * 24 * time.Hour)}

	mock.ExpectExec("UPDATE update_code").
		WithArgs(code.Code, code.DateCreated, code.DateExpires, code.SubID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repos.Codes.Upsert(context.Background(), domain.PurposeUpdate, code)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCodeUpsertRejectsConfirmation(t *testing.T) {
	repos, mock := setupRepos(t)

	err := repos.Codes.Upsert(context.Background(), domain.PurposeConfirmation, &domain.Code{SubID: 1, Code: 12345678})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCodeLookupValidation(t *testing.T) {
	repos, mock := setupRepos(t)
	ctx := context.Background()

	_, err := repos.Codes.GetOne(ctx, domain.PurposeUpdate, domain.ByCode(42))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = repos.Codes.GetOne(ctx, domain.PurposeUpdate, domain.ByEmail("a@b.com"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedLookup)

	_, err = repos.Codes.Delete(ctx, domain.CodePurpose("bogus"), domain.BySubID(1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCodeDeleteByCode(t *testing.T) {
	repos, mock := setupRepos(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM pending_update WHERE code = ?")).
		WithArgs(int64(12345678)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repos.Codes.Delete(context.Background(), domain.PurposePendingUpdate, domain.ByCode(12345678))

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCodeListExpired(t *testing.T) {
	repos, mock := setupRepos(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"sub_id", "code", "date_created", "date_expires"}).
		AddRow(int64(1), int64(11111111), now.Add(-8*24*time.Hour), now.Add(-24*time.Hour)).
		AddRow(int64(2), int64(22222222), now.Add(-7*24*time.Hour), now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM confirmation_code WHERE date_expires <= ?")).
		WithArgs(now).
		WillReturnRows(rows)

	codes, err := repos.Codes.ListExpired(context.Background(), domain.PurposeConfirmation, now)

	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, int64(11111111), codes[0].Code)
	assert.Equal(t, int64(2), codes[1].SubID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderListDue(t *testing.T) {
	repos, mock := setupRepos(t)
	before := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"sub_id", "date_scheduled"}).
		AddRow(int64(9), before.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduled_reminder WHERE date_scheduled < ?")).
		WithArgs(before).
		WillReturnRows(rows)

	reminders, err := repos.Reminders.ListDue(context.Background(), before)

	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, int64(9), reminders[0].SubID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeasurementsUpdateField(t *testing.T) {
	repos, mock := setupRepos(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE measurements SET est_bmr = ? WHERE sub_id = ?")).
		WithArgs(1900, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repos.Measurements.UpdateField(context.Background(), 3, domain.FieldChange{Field: domain.FieldEstBMR, Value: 1900})
	require.NoError(t, err)

	err = repos.Measurements.UpdateField(context.Background(), 3, domain.FieldChange{Field: domain.MeasurementField(99), Value: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownMeasurement)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFrequencyGetByDescriptorNotFound(t *testing.T) {
	repos, mock := setupRepos(t)

	mock.ExpectQuery("FROM frequency").
		WithArgs("weekly").
		WillReturnRows(sqlmock.NewRows([]string{"id", "descriptor", "interval_days"}))

	_, err := repos.Frequencies.GetByDescriptor(context.Background(), "weekly")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
