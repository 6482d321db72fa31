package service

import (
	"context"
	"time"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/repository"
)

// BookingPolicy carries the reservation bounds and deposit rule. It is
// handed to the services at construction time by the caller that owns
// configuration; the services never read ambient settings.
type BookingPolicy struct {
	MinDays           int32
	MaxDays           int32
	DepositPercentage int32
}

// InitialPayment describes a posting made atomically with rental creation.
type InitialPayment struct {
	AmountCents   int64
	Type          domain.PaymentType
	MethodID      *int32
	ReceiptNumber string
	Note          string
}

type CreateRentalInput struct {
	CustomerID           int32
	CarID                int32
	BranchID             int32
	StartDate            time.Time
	EndDate              time.Time
	DailyRateCents       int64 // 0 means take the car's current rate
	WithDriver           bool
	DriverName           string
	DriverPhone          string
	DriverDailyRateCents int64
	Notes                string
	InitialPayments      []InitialPayment
}

type ActivateInput struct {
	OdometerStart int64
	FuelLevel     domain.FuelLevel
	ConditionNote string
}

type CompleteInput struct {
	OdometerEnd   int64
	FuelLevel     domain.FuelLevel
	ConditionNote string
}

type RentalService interface {
	Create(ctx context.Context, actorID int32, in CreateRentalInput) (*domain.Rental, error)
	Confirm(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error)
	Activate(ctx context.Context, actorID, rentalID int32, in ActivateInput) (*domain.Rental, error)
	Extend(ctx context.Context, actorID, rentalID int32, newEnd time.Time) (*domain.Rental, *domain.Extension, error)
	Complete(ctx context.Context, actorID, rentalID int32, in CompleteInput) (*domain.Rental, error)
	Cancel(ctx context.Context, actorID, rentalID int32, reason string) (*domain.Rental, error)
	Delete(ctx context.Context, actorID, rentalID int32) error
	Get(ctx context.Context, rentalID int32) (*domain.Rental, error)
	GetByNumber(ctx context.Context, number string) (*domain.Rental, error)
	List(ctx context.Context, filter repository.RentalFilter, page, pageSize int32) ([]domain.Rental, int32, error)
}

// AvailabilityService answers whether a car is free for an interval. A
// standalone answer is advisory only: the binding check happens inside the
// repository's check-and-reserve transaction.
type AvailabilityService interface {
	IsAvailable(ctx context.Context, carID int32, start, end time.Time, excludeRentalID int32) (bool, error)
}

// ExtendCheck is the outcome of an extension feasibility probe.
type ExtendCheck struct {
	Allowed    bool   `json:"allowed"`
	ReasonCode string `json:"reason_code,omitempty"`
}

type ExtensionService interface {
	CanExtend(ctx context.Context, rentalID int32, newEnd time.Time) (*ExtendCheck, error)
	Apply(ctx context.Context, actorID, rentalID int32, newEnd time.Time) (*domain.Rental, *domain.Extension, error)
	ListByRental(ctx context.Context, rentalID int32) ([]domain.Extension, error)
}

type PostPaymentInput struct {
	RentalID      int32
	AmountCents   int64
	Type          domain.PaymentType
	MethodID      *int32
	PaidOn        time.Time
	ReceiptNumber string
	Note          string
}

type PaymentService interface {
	Post(ctx context.Context, actorID int32, in PostPaymentInput) (*domain.Payment, *domain.LedgerSummary, error)
	Delete(ctx context.Context, actorID, rentalID, paymentID int32) (*domain.LedgerSummary, error)
	ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendRentalCreated(ctx context.Context, to, customerName, rentalNumber string, start, end time.Time) error
	SendRentalConfirmed(ctx context.Context, to, customerName, rentalNumber string) error
	SendRentalExtended(ctx context.Context, to, customerName, rentalNumber string, newEnd time.Time) error
	SendRentalCancelled(ctx context.Context, to, customerName, rentalNumber, reason string) error
	SendReturnReminder(ctx context.Context, to, customerName, rentalNumber string, end time.Time) error
	SendOverdueNotice(ctx context.Context, to, customerName, rentalNumber string, end time.Time) error
}
