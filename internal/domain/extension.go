package domain

import "time"

// Extension records a forward move of a rental's end date together with
// the incremental charge. Rows are append-only: a rental may accumulate
// several extensions and none is ever edited or removed.
type Extension struct {
	ID              int32         `json:"id"`
	RentalID        int32         `json:"rental_id"`
	OriginalEndDate time.Time     `json:"original_end_date"`
	NewEndDate      time.Time     `json:"new_end_date"`
	ExtensionDays   int32         `json:"extension_days"`
	AmountCents     int64         `json:"amount_cents"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	ApprovedBy      int32         `json:"approved_by"`
	CreatedOn       time.Time     `json:"created_on"`
}
