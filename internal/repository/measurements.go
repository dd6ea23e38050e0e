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

// measurementColumns maps each editable field to its column. Fields outside
// the map are rejected before a statement is built.
var measurementColumns = map[domain.MeasurementField]string{
	domain.FieldSex:     "sex",
	domain.FieldAge:     "age",
	domain.FieldSystem:  "measurement_sys",
	domain.FieldWeight:  "weight_value",
	domain.FieldHeight:  "height_value",
	domain.FieldEstBMR:  "est_bmr",
	domain.FieldEstTDEE: "est_tdee",
}

type measurementsRepository struct {
	db *sqlx.DB
}

func newMeasurementsRepository(db *sqlx.DB) *measurementsRepository {
	return &measurementsRepository{
		db: db,
	}
}

func (r *measurementsRepository) Create(ctx context.Context, measurements *domain.Measurements) error {
	const op = "repository.measurements.Create"

	const query = `
	INSERT INTO measurements (sub_id, sex, age, measurement_sys, weight_value, height_value, est_bmr, est_tdee, date_last_updated)
	VALUES (:sub_id, :sex, :age, :measurement_sys, :weight_value, :height_value, :est_bmr, :est_tdee, :date_last_updated)
	`

	res, err := executorFrom(ctx, r.db).NamedExecContext(ctx, query, measurements)
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("%s: insert measurements failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows != 1 {
		return fmt.Errorf("%s: expected 1 row affected, got %d", op, rows)
	}

	return nil
}

func (r *measurementsRepository) GetBySubID(ctx context.Context, subID int64) (*domain.Measurements, error) {
	const op = "repository.measurements.GetBySubID"

	const query = `
	SELECT sub_id, sex, age, measurement_sys, weight_value, height_value, est_bmr, est_tdee, date_last_updated
	FROM measurements
	WHERE sub_id = ?
	`

	var measurements domain.Measurements
	if err := executorFrom(ctx, r.db).GetContext(ctx, &measurements, query, subID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select measurements failed: %w", op, err)
	}

	return &measurements, nil
}

// Replace overwrites every editable column of the row in place.
func (r *measurementsRepository) Replace(ctx context.Context, subID int64, values domain.MeasurementValues, at time.Time) error {
	const op = "repository.measurements.Replace"

	const query = `
	UPDATE measurements
	SET sex = ?, age = ?, measurement_sys = ?, weight_value = ?, height_value = ?, est_bmr = ?, est_tdee = ?, date_last_updated = ?
	WHERE sub_id = ?
	`

	res, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		values.Sex,
		values.Age,
		values.System,
		values.Weight,
		values.Height,
		values.EstBMR,
		values.EstTDEE,
		at,
		subID,
	)
	if err != nil {
		return fmt.Errorf("%s: update measurements failed: %w", op, err)
	}

	return expectOneRow(op, res)
}

func (r *measurementsRepository) UpdateField(ctx context.Context, subID int64, change domain.FieldChange) error {
	const op = "repository.measurements.UpdateField"

	column, ok := measurementColumns[change.Field]
	if !ok {
		return fmt.Errorf("%s: %w: %d", op, domain.ErrUnknownMeasurement, change.Field)
	}

	query := `UPDATE measurements SET ` + column + ` = ? WHERE sub_id = ?`

	res, err := executorFrom(ctx, r.db).ExecContext(ctx, query, change.Value, subID)
	if err != nil {
		return fmt.Errorf("%s: update %s failed: %w", op, column, err)
	}

	return expectOneRow(op, res)
}

func (r *measurementsRepository) Touch(ctx context.Context, subID int64, at time.Time) error {
	const op = "repository.measurements.Touch"

	const query = `UPDATE measurements SET date_last_updated = ? WHERE sub_id = ?`

	res, err := executorFrom(ctx, r.db).ExecContext(ctx, query, at, subID)
	if err != nil {
		return fmt.Errorf("%s: update date_last_updated failed: %w", op, err)
	}

	return expectOneRow(op, res)
}

func expectOneRow(op string, res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}
