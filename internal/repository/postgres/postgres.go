package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.PaymentRepository
	repository.ExtensionRepository
	repository.CarRepository
	repository.CustomerRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		RentalRepository:       NewRentalRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		ExtensionRepository:    NewExtensionRepository(db),
		CarRepository:          NewCarRepository(db),
		CustomerRepository:     NewCustomerRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// inTx runs fn inside a transaction and rolls back on error or panic.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return mapConflict(err)
	}
	if err := tx.Commit(); err != nil {
		return mapConflict(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// mapConflict translates postgres serialization and deadlock failures into
// the retryable domain conflict error. Everything else passes through.
func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return domain.ErrConflict
		case "23505": // unique_violation, e.g. the rental number
			return domain.ErrConflict
		}
	}
	return err
}

// recomputeLedger re-derives paid/remaining/payment_status for one rental
// from the payments table. Callers must hold the surrounding transaction of
// whatever ledger mutation triggered the recompute.
func recomputeLedger(ctx context.Context, q execer, rentalID int32) (*domain.LedgerSummary, error) {
	var total int64
	err := q.QueryRowContext(ctx, `SELECT total_amount_cents FROM rentals WHERE id = $1`, rentalID).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read rental total: %w", err)
	}

	var paid int64
	err = q.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE rental_id = $1`, rentalID).Scan(&paid)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}

	remaining := total - paid
	if remaining < 0 {
		remaining = 0
	}
	status := domain.ClassifyPayment(paid, total)

	_, err = q.ExecContext(ctx,
		`UPDATE rentals SET paid_amount_cents = $1, remaining_amount_cents = $2, payment_status = $3, updated_on = NOW() WHERE id = $4`,
		paid, remaining, status, rentalID)
	if err != nil {
		return nil, fmt.Errorf("write ledger fields: %w", err)
	}

	return &domain.LedgerSummary{
		TotalCents:     total,
		PaidCents:      paid,
		RemainingCents: remaining,
		Status:         status,
	}, nil
}
