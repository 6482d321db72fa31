package repository

import (
	"context"
	"time"

	"carfleet-backend/internal/domain"
)

// OverlapQuery describes an availability probe: does any rental in a
// blocking status claim [Start, End) on this car, ignoring ExcludeRentalID?
type OverlapQuery struct {
	CarID           int32
	Start           time.Time
	End             time.Time
	ExcludeRentalID int32 // 0 means exclude nothing
}

// RentalFilter narrows List results.
type RentalFilter struct {
	Status     domain.RentalStatus
	CustomerID int32
	CarID      int32
}

type RentalRepository interface {
	// CreateIfAvailable runs the availability check and the insert in one
	// transaction holding a lock on the car row, together with any initial
	// payments and the ledger recompute. It returns UnavailableError when
	// the interval is taken and ErrConflict when a concurrent writer won.
	CreateIfAvailable(ctx context.Context, rental *domain.Rental, initialPayments []*domain.Payment) error

	// ApplyExtension moves the rental's end date forward inside one
	// transaction: lock car row, re-check the delta interval, insert the
	// extension row, bump end/total, recompute the payment status.
	ApplyExtension(ctx context.Context, rental *domain.Rental, ext *domain.Extension) error

	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	GetByNumber(ctx context.Context, number string) (*domain.Rental, error)

	// Update commits a lifecycle transition. The write lands only while the
	// stored status still equals from; a racing transition that moved the
	// status first surfaces as ErrConflict.
	Update(ctx context.Context, rental *domain.Rental, from domain.RentalStatus) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter RentalFilter, page, pageSize int32) ([]domain.Rental, int32, error)
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]domain.Rental, error)
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Rental, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
}

type PaymentRepository interface {
	// Post inserts the payment and recomputes the owning rental's derived
	// amounts in the same transaction.
	Post(ctx context.Context, payment *domain.Payment) (*domain.LedgerSummary, error)
	// Delete hard-removes the payment scoped to rentalID and recomputes the
	// ledger in the same transaction. Unknown or out-of-scope payments
	// surface ErrNotFound.
	Delete(ctx context.Context, rentalID, paymentID int32) (*domain.LedgerSummary, error)
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error)
}

type ExtensionRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Extension, error)
	ListByRental(ctx context.Context, rentalID int32) ([]domain.Extension, error)
}

type CarRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	List(ctx context.Context, branchID int32, page, pageSize int32) ([]domain.Car, int32, error)
	Update(ctx context.Context, car *domain.Car) error
}

type CustomerRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
