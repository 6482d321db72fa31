package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, rental_id, amount_cents, type, method_id, paid_on,
	COALESCE(receipt_number, ''), COALESCE(note, ''), created_by, created_on`

func insertPayment(ctx context.Context, q execer, p *domain.Payment) error {
	query := `INSERT INTO payments (rental_id, amount_cents, type, method_id, paid_on, receipt_number, note, created_by, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW()) RETURNING id, created_on`
	err := q.QueryRowContext(ctx, query,
		p.RentalID, p.AmountCents, p.Type, p.MethodID, p.PaidOn,
		nullString(p.ReceiptNumber), nullString(p.Note), p.CreatedBy,
	).Scan(&p.ID, &p.CreatedOn)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) Post(ctx context.Context, p *domain.Payment) (*domain.LedgerSummary, error) {
	var summary *domain.LedgerSummary
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := insertPayment(ctx, tx, p); err != nil {
			return err
		}
		var err error
		summary, err = recomputeLedger(ctx, tx, p.RentalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *paymentRepository) Delete(ctx context.Context, rentalID, paymentID int32) (*domain.LedgerSummary, error) {
	var summary *domain.LedgerSummary
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM payments WHERE id = $1 AND rental_id = $2`, paymentID, rentalID)
		if err != nil {
			return fmt.Errorf("delete payment %d: %w", paymentID, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrNotFound
		}
		summary, err = recomputeLedger(ctx, tx, rentalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)
	p := &domain.Payment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.RentalID, &p.AmountCents, &p.Type, &p.MethodID, &p.PaidOn,
		&p.ReceiptNumber, &p.Note, &p.CreatedBy, &p.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	return p, nil
}

func (r *paymentRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE rental_id = $1 ORDER BY paid_on, id`, paymentColumns)
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(
			&p.ID, &p.RentalID, &p.AmountCents, &p.Type, &p.MethodID, &p.PaidOn,
			&p.ReceiptNumber, &p.Note, &p.CreatedBy, &p.CreatedOn); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
