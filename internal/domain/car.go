package domain

import "time"

type CarStatus string

const (
	CarStatusAvailable   CarStatus = "AVAILABLE"
	CarStatusMaintenance CarStatus = "MAINTENANCE"
	CarStatusRetired     CarStatus = "RETIRED"
)

type Car struct {
	ID             int32     `json:"id"`
	PlateNumber    string    `json:"plate_number"`
	Model          string    `json:"model"`
	BranchID       int32     `json:"branch_id"`
	DailyRateCents int64     `json:"daily_rate_cents"`
	Status         CarStatus `json:"status"`
	CreatedOn      time.Time `json:"created_on"`
	UpdatedOn      time.Time `json:"updated_on"`
}
