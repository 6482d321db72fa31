package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, rental_number, customer_id, car_id, branch_id, created_by,
	start_date, end_date, daily_rate_cents, with_driver,
	COALESCE(driver_name, ''), COALESCE(driver_phone, ''), COALESCE(driver_daily_rate_cents, 0),
	total_amount_cents, deposit_amount_cents,
	paid_amount_cents, remaining_amount_cents, payment_status, status,
	confirmed_by, confirmed_on, activated_by, activated_on,
	completed_by, completed_on, cancelled_by, cancelled_on,
	COALESCE(cancellation_reason, ''), odometer_start, odometer_end,
	fuel_level_start, fuel_level_end,
	COALESCE(pickup_condition_note, ''), COALESCE(return_condition_note, ''),
	actual_return_date, COALESCE(notes, ''), created_on, updated_on`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var (
		odoStart, odoEnd   sql.NullInt64
		fuelStart, fuelEnd sql.NullString
	)
	err := row.Scan(
		&rt.ID, &rt.RentalNumber, &rt.CustomerID, &rt.CarID, &rt.BranchID, &rt.CreatedBy,
		&rt.StartDate, &rt.EndDate, &rt.DailyRateCents, &rt.WithDriver,
		&rt.DriverName, &rt.DriverPhone, &rt.DriverDailyRateCents,
		&rt.TotalAmountCents, &rt.DepositAmountCents,
		&rt.PaidAmountCents, &rt.RemainingAmountCents, &rt.PaymentStatus, &rt.Status,
		&rt.ConfirmedBy, &rt.ConfirmedOn, &rt.ActivatedBy, &rt.ActivatedOn,
		&rt.CompletedBy, &rt.CompletedOn, &rt.CancelledBy, &rt.CancelledOn,
		&rt.CancellationReason, &odoStart, &odoEnd,
		&fuelStart, &fuelEnd,
		&rt.PickupConditionNote, &rt.ReturnConditionNote,
		&rt.ActualReturnDate, &rt.Notes, &rt.CreatedOn, &rt.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	if odoStart.Valid {
		rt.OdometerStart = &odoStart.Int64
	}
	if odoEnd.Valid {
		rt.OdometerEnd = &odoEnd.Int64
	}
	if fuelStart.Valid {
		lvl := domain.FuelLevel(fuelStart.String)
		rt.FuelLevelStart = &lvl
	}
	if fuelEnd.Valid {
		lvl := domain.FuelLevel(fuelEnd.String)
		rt.FuelLevelEnd = &lvl
	}
	return rt, nil
}

// blockingStatusList renders the blocking statuses for an IN clause.
func blockingStatusList() string {
	quoted := make([]string, len(domain.BlockingStatuses))
	for i, s := range domain.BlockingStatuses {
		quoted[i] = "'" + string(s) + "'"
	}
	return strings.Join(quoted, ", ")
}

// overlapCount counts rentals in a blocking status whose half-open interval
// intersects the requested one. Must run under the car row lock when the
// answer has to hold for a subsequent write.
func overlapCount(ctx context.Context, q execer, query repository.OverlapQuery) (int32, error) {
	sqlQuery := fmt.Sprintf(
		`SELECT count(*) FROM rentals
		 WHERE car_id = $1 AND id <> $2 AND status IN (%s)
		   AND start_date < $3 AND end_date > $4`, blockingStatusList())
	var count int32
	err := q.QueryRowContext(ctx, sqlQuery, query.CarID, query.ExcludeRentalID, query.End, query.Start).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count overlapping rentals: %w", err)
	}
	return count, nil
}

// lockCar takes the per-car row lock that serializes all interval claims
// for one car.
func lockCar(ctx context.Context, tx *sql.Tx, carID int32) error {
	var id int32
	err := tx.QueryRowContext(ctx, `SELECT id FROM cars WHERE id = $1 FOR UPDATE`, carID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("car %d: %w", carID, domain.ErrNotFound)
		}
		return fmt.Errorf("lock car row: %w", err)
	}
	return nil
}

func (r *rentalRepository) CreateIfAvailable(ctx context.Context, rt *domain.Rental, initialPayments []*domain.Payment) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockCar(ctx, tx, rt.CarID); err != nil {
			return err
		}

		count, err := overlapCount(ctx, tx, repository.OverlapQuery{
			CarID: rt.CarID,
			Start: rt.StartDate,
			End:   rt.EndDate,
		})
		if err != nil {
			return err
		}
		if count > 0 {
			return &domain.UnavailableError{Reason: domain.ReasonCarNotAvailable}
		}

		query := `INSERT INTO rentals (rental_number, customer_id, car_id, branch_id, created_by,
			start_date, end_date, daily_rate_cents, with_driver, driver_name, driver_phone, driver_daily_rate_cents,
			total_amount_cents, deposit_amount_cents, paid_amount_cents, remaining_amount_cents, payment_status,
			status, notes, created_on, updated_on)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 0, $13, $15, $16, $17, NOW(), NOW())
		  RETURNING id, created_on, updated_on`
		err = tx.QueryRowContext(ctx, query,
			rt.RentalNumber, rt.CustomerID, rt.CarID, rt.BranchID, rt.CreatedBy,
			rt.StartDate, rt.EndDate, rt.DailyRateCents, rt.WithDriver,
			nullString(rt.DriverName), nullString(rt.DriverPhone), rt.DriverDailyRateCents,
			rt.TotalAmountCents, rt.DepositAmountCents, domain.PaymentStatusPending,
			rt.Status, nullString(rt.Notes),
		).Scan(&rt.ID, &rt.CreatedOn, &rt.UpdatedOn)
		if err != nil {
			return fmt.Errorf("insert rental: %w", err)
		}

		for _, p := range initialPayments {
			p.RentalID = rt.ID
			if err := insertPayment(ctx, tx, p); err != nil {
				return err
			}
		}

		summary, err := recomputeLedger(ctx, tx, rt.ID)
		if err != nil {
			return err
		}
		rt.PaidAmountCents = summary.PaidCents
		rt.RemainingAmountCents = summary.RemainingCents
		rt.PaymentStatus = summary.Status
		return nil
	})
}

func (r *rentalRepository) ApplyExtension(ctx context.Context, rt *domain.Rental, ext *domain.Extension) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockCar(ctx, tx, rt.CarID); err != nil {
			return err
		}

		// Re-read the rental under the lock; a concurrent extension may
		// have moved the end date since the caller's advisory check.
		var currentEnd time.Time
		var currentStatus domain.RentalStatus
		err := tx.QueryRowContext(ctx, `SELECT end_date, status FROM rentals WHERE id = $1 FOR UPDATE`, rt.ID).
			Scan(&currentEnd, &currentStatus)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("reload rental: %w", err)
		}
		if !currentEnd.Equal(ext.OriginalEndDate) || (currentStatus != domain.RentalStatusActive && currentStatus != domain.RentalStatusExtended) {
			return domain.ErrConflict
		}

		count, err := overlapCount(ctx, tx, repository.OverlapQuery{
			CarID:           rt.CarID,
			Start:           ext.OriginalEndDate,
			End:             ext.NewEndDate,
			ExcludeRentalID: rt.ID,
		})
		if err != nil {
			return err
		}
		if count > 0 {
			return &domain.UnavailableError{Reason: domain.ReasonCarNotAvailable}
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO extensions (rental_id, original_end_date, new_end_date, extension_days, amount_cents, payment_status, approved_by, created_on)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING id, created_on`,
			ext.RentalID, ext.OriginalEndDate, ext.NewEndDate, ext.ExtensionDays,
			ext.AmountCents, ext.PaymentStatus, ext.ApprovedBy,
		).Scan(&ext.ID, &ext.CreatedOn)
		if err != nil {
			return fmt.Errorf("insert extension: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE rentals SET end_date = $1, total_amount_cents = total_amount_cents + $2, status = $3, updated_on = NOW() WHERE id = $4`,
			ext.NewEndDate, ext.AmountCents, domain.RentalStatusExtended, rt.ID)
		if err != nil {
			return fmt.Errorf("apply extension to rental: %w", err)
		}

		// The total moved, so the derived payment fields move with it.
		summary, err := recomputeLedger(ctx, tx, rt.ID)
		if err != nil {
			return err
		}
		rt.EndDate = ext.NewEndDate
		rt.TotalAmountCents = summary.TotalCents
		rt.PaidAmountCents = summary.PaidCents
		rt.RemainingAmountCents = summary.RemainingCents
		rt.PaymentStatus = summary.Status
		rt.Status = domain.RentalStatusExtended
		return nil
	})
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := fmt.Sprintf(`SELECT %s FROM rentals WHERE id = $1`, rentalColumns)
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rental %d: %w", id, err)
	}
	return rt, nil
}

func (r *rentalRepository) GetByNumber(ctx context.Context, number string) (*domain.Rental, error) {
	query := fmt.Sprintf(`SELECT %s FROM rentals WHERE rental_number = $1`, rentalColumns)
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rental %s: %w", number, err)
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental, from domain.RentalStatus) error {
	query := `UPDATE rentals SET status = $1,
		confirmed_by = $2, confirmed_on = $3, activated_by = $4, activated_on = $5,
		completed_by = $6, completed_on = $7, cancelled_by = $8, cancelled_on = $9,
		cancellation_reason = $10, odometer_start = $11, odometer_end = $12,
		fuel_level_start = $13, fuel_level_end = $14,
		pickup_condition_note = $15, return_condition_note = $16,
		actual_return_date = $17, notes = $18, updated_on = NOW()
		WHERE id = $19 AND status = $20`
	res, err := r.db.ExecContext(ctx, query,
		rt.Status,
		rt.ConfirmedBy, rt.ConfirmedOn, rt.ActivatedBy, rt.ActivatedOn,
		rt.CompletedBy, rt.CompletedOn, rt.CancelledBy, rt.CancelledOn,
		nullString(rt.CancellationReason), rt.OdometerStart, rt.OdometerEnd,
		fuelValue(rt.FuelLevelStart), fuelValue(rt.FuelLevelEnd),
		nullString(rt.PickupConditionNote), nullString(rt.ReturnConditionNote),
		rt.ActualReturnDate, nullString(rt.Notes), rt.ID, from)
	if err != nil {
		return fmt.Errorf("update rental %d: %w", rt.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// The status moved (or the row vanished) since the caller read it.
		return domain.ErrConflict
	}
	return nil
}

func (r *rentalRepository) Delete(ctx context.Context, id int32) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		// Children first; payments and extensions belong to the rental.
		if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE rental_id = $1`, id); err != nil {
			return fmt.Errorf("delete rental payments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM extensions WHERE rental_id = $1`, id); err != nil {
			return fmt.Errorf("delete rental extensions: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete rental %d: %w", id, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *rentalRepository) List(ctx context.Context, filter repository.RentalFilter, page, pageSize int32) ([]domain.Rental, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.CustomerID != 0 {
		where += fmt.Sprintf(" AND customer_id = $%d", argIdx)
		args = append(args, filter.CustomerID)
		argIdx++
	}
	if filter.CarID != 0 {
		where += fmt.Sprintf(" AND car_id = $%d", argIdx)
		args = append(args, filter.CarID)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM rentals " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count rentals: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM rentals %s ORDER BY created_on DESC LIMIT $%d OFFSET $%d",
		rentalColumns, where, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rentals: %w", err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, count, rows.Err()
}

func (r *rentalRepository) FindOverlapping(ctx context.Context, q repository.OverlapQuery) ([]domain.Rental, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM rentals
		 WHERE car_id = $1 AND id <> $2 AND status IN (%s)
		   AND start_date < $3 AND end_date > $4
		 ORDER BY start_date`, rentalColumns, blockingStatusList())
	rows, err := r.db.QueryContext(ctx, query, q.CarID, q.ExcludeRentalID, q.End, q.Start)
	if err != nil {
		return nil, fmt.Errorf("find overlapping rentals: %w", err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Rental, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM rentals
		 WHERE status IN ('%s', '%s') AND end_date >= $1 AND end_date < $2
		 ORDER BY end_date`, rentalColumns, domain.RentalStatusActive, domain.RentalStatusExtended)
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list ending rentals: %w", err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM rentals
		 WHERE status IN ('%s', '%s') AND end_date < $1
		 ORDER BY end_date`, rentalColumns, domain.RentalStatusActive, domain.RentalStatusExtended)
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("list overdue rentals: %w", err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func fuelValue(lvl *domain.FuelLevel) interface{} {
	if lvl == nil {
		return nil
	}
	return string(*lvl)
}
