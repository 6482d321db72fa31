package domain

import "time"

type PaymentType string

const (
	PaymentTypeRental  PaymentType = "RENTAL"
	PaymentTypeDeposit PaymentType = "DEPOSIT"
	PaymentTypeFine    PaymentType = "FINE"
	PaymentTypeExtra   PaymentType = "EXTRA"
)

// ValidPaymentType reports whether t is one of the known posting kinds.
func ValidPaymentType(t PaymentType) bool {
	switch t {
	case PaymentTypeRental, PaymentTypeDeposit, PaymentTypeFine, PaymentTypeExtra:
		return true
	}
	return false
}

// Payment is a single ledger posting against a rental. Postings are
// immutable once created; the only mutation is a hard delete, which
// recomputes the owning rental's derived amounts.
type Payment struct {
	ID            int32       `json:"id"`
	RentalID      int32       `json:"rental_id"`
	AmountCents   int64       `json:"amount_cents"`
	Type          PaymentType `json:"type"`
	MethodID      *int32      `json:"method_id,omitempty"` // nil means cash
	PaidOn        time.Time   `json:"paid_on"`
	ReceiptNumber string      `json:"receipt_number,omitempty"`
	Note          string      `json:"note,omitempty"`
	CreatedBy     int32       `json:"created_by"`
	CreatedOn     time.Time   `json:"created_on"`
}

// LedgerSummary is the recomputed financial view of one rental.
type LedgerSummary struct {
	TotalCents     int64         `json:"total_cents"`
	PaidCents      int64         `json:"paid_cents"`
	RemainingCents int64         `json:"remaining_cents"`
	Status         PaymentStatus `json:"status"`
}
