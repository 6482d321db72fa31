package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/repository"
)

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	car := &domain.Car{}
	query := `SELECT id, plate_number, model, branch_id, daily_rate_cents, status, created_on, updated_on FROM cars WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&car.ID, &car.PlateNumber, &car.Model, &car.BranchID,
		&car.DailyRateCents, &car.Status, &car.CreatedOn, &car.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get car %d: %w", id, err)
	}
	return car, nil
}

func (r *carRepository) List(ctx context.Context, branchID int32, page, pageSize int32) ([]domain.Car, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM cars WHERE branch_id = $1`, branchID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count cars: %w", err)
	}

	query := `SELECT id, plate_number, model, branch_id, daily_rate_cents, status, created_on, updated_on
	          FROM cars WHERE branch_id = $1 ORDER BY plate_number LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, branchID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var car domain.Car
		if err := rows.Scan(&car.ID, &car.PlateNumber, &car.Model, &car.BranchID,
			&car.DailyRateCents, &car.Status, &car.CreatedOn, &car.UpdatedOn); err != nil {
			return nil, 0, err
		}
		cars = append(cars, car)
	}
	return cars, count, rows.Err()
}

func (r *carRepository) Update(ctx context.Context, car *domain.Car) error {
	query := `UPDATE cars SET plate_number = $1, model = $2, branch_id = $3, daily_rate_cents = $4, status = $5, updated_on = NOW() WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query,
		car.PlateNumber, car.Model, car.BranchID, car.DailyRateCents, car.Status, car.ID)
	if err != nil {
		return fmt.Errorf("update car %d: %w", car.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
