package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/repository"
)

type extensionRepository struct {
	db *sql.DB
}

func NewExtensionRepository(db *sql.DB) repository.ExtensionRepository {
	return &extensionRepository{db: db}
}

const extensionColumns = `id, rental_id, original_end_date, new_end_date, extension_days, amount_cents, payment_status, approved_by, created_on`

func (r *extensionRepository) GetByID(ctx context.Context, id int32) (*domain.Extension, error) {
	query := fmt.Sprintf(`SELECT %s FROM extensions WHERE id = $1`, extensionColumns)
	ext := &domain.Extension{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ext.ID, &ext.RentalID, &ext.OriginalEndDate, &ext.NewEndDate,
		&ext.ExtensionDays, &ext.AmountCents, &ext.PaymentStatus, &ext.ApprovedBy, &ext.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get extension %d: %w", id, err)
	}
	return ext, nil
}

func (r *extensionRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.Extension, error) {
	query := fmt.Sprintf(`SELECT %s FROM extensions WHERE rental_id = $1 ORDER BY created_on, id`, extensionColumns)
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, fmt.Errorf("list extensions: %w", err)
	}
	defer rows.Close()

	var exts []domain.Extension
	for rows.Next() {
		var ext domain.Extension
		if err := rows.Scan(
			&ext.ID, &ext.RentalID, &ext.OriginalEndDate, &ext.NewEndDate,
			&ext.ExtensionDays, &ext.AmountCents, &ext.PaymentStatus, &ext.ApprovedBy, &ext.CreatedOn); err != nil {
			return nil, err
		}
		exts = append(exts, ext)
	}
	return exts, rows.Err()
}
