package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "PENDING"
	RentalStatusConfirmed RentalStatus = "CONFIRMED"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusExtended  RentalStatus = "EXTENDED"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// BlockingStatuses are the statuses in which a rental claims its car's
// interval. Completed and cancelled rentals never block availability.
var BlockingStatuses = []RentalStatus{
	RentalStatusPending,
	RentalStatusConfirmed,
	RentalStatusActive,
	RentalStatusExtended,
}

// IsTerminal reports whether no further transition is permitted.
func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

type FuelLevel string

const (
	FuelLevelEmpty         FuelLevel = "EMPTY"
	FuelLevelQuarter       FuelLevel = "QUARTER"
	FuelLevelHalf          FuelLevel = "HALF"
	FuelLevelThreeQuarters FuelLevel = "THREE_QUARTERS"
	FuelLevelFull          FuelLevel = "FULL"
)

// ValidFuelLevel reports whether lvl is one of the known capture values.
func ValidFuelLevel(lvl FuelLevel) bool {
	switch lvl {
	case FuelLevelEmpty, FuelLevelQuarter, FuelLevelHalf, FuelLevelThreeQuarters, FuelLevelFull:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// ClassifyPayment derives the three-way payment status from the ledger sums.
func ClassifyPayment(paidCents, totalCents int64) PaymentStatus {
	switch {
	case paidCents <= 0:
		return PaymentStatusPending
	case paidCents >= totalCents:
		return PaymentStatusPaid
	default:
		return PaymentStatusPartial
	}
}

type Rental struct {
	ID           int32  `json:"id"`
	RentalNumber string `json:"rental_number"`
	CustomerID   int32  `json:"customer_id"`
	CarID        int32  `json:"car_id"`
	BranchID     int32  `json:"branch_id"`
	CreatedBy    int32  `json:"created_by"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	DailyRateCents int64 `json:"daily_rate_cents"`
	// Driver fields are meaningful only when WithDriver is true.
	WithDriver           bool   `json:"with_driver"`
	DriverName           string `json:"driver_name,omitempty"`
	DriverPhone          string `json:"driver_phone,omitempty"`
	DriverDailyRateCents int64  `json:"driver_daily_rate_cents,omitempty"`

	TotalAmountCents   int64 `json:"total_amount_cents"`
	DepositAmountCents int64 `json:"deposit_amount_cents"`

	// Ledger-derived. Recomputed from the payments table inside every
	// mutating transaction; never edited directly.
	PaidAmountCents      int64         `json:"paid_amount_cents"`
	RemainingAmountCents int64         `json:"remaining_amount_cents"`
	PaymentStatus        PaymentStatus `json:"payment_status"`

	Status RentalStatus `json:"status"`

	ConfirmedBy *int32     `json:"confirmed_by,omitempty"`
	ConfirmedOn *time.Time `json:"confirmed_on,omitempty"`
	ActivatedBy *int32     `json:"activated_by,omitempty"`
	ActivatedOn *time.Time `json:"activated_on,omitempty"`
	CompletedBy *int32     `json:"completed_by,omitempty"`
	CompletedOn *time.Time `json:"completed_on,omitempty"`
	CancelledBy *int32     `json:"cancelled_by,omitempty"`
	CancelledOn *time.Time `json:"cancelled_on,omitempty"`

	CancellationReason  string     `json:"cancellation_reason,omitempty"`
	OdometerStart       *int64     `json:"odometer_start,omitempty"`
	OdometerEnd         *int64     `json:"odometer_end,omitempty"`
	FuelLevelStart      *FuelLevel `json:"fuel_level_start,omitempty"`
	FuelLevelEnd        *FuelLevel `json:"fuel_level_end,omitempty"`
	PickupConditionNote string     `json:"pickup_condition_note,omitempty"`
	ReturnConditionNote string     `json:"return_condition_note,omitempty"`
	ActualReturnDate    *time.Time `json:"actual_return_date,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// EffectiveDailyRateCents is the per-day charge including the driver
// surcharge when the rental was booked with a driver.
func (r *Rental) EffectiveDailyRateCents() int64 {
	if r.WithDriver {
		return r.DailyRateCents + r.DriverDailyRateCents
	}
	return r.DailyRateCents
}
