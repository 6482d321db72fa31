package utils

import (
	"fmt"
	"time"
)

// RentalDays computes the chargeable day count for an interval, counting
// both the start and the end day: floor(end-start) + 1.
func RentalDays(start, end time.Time) (int32, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("end date must be on or after start date")
	}
	return int32(end.Sub(start).Hours()/24) + 1, nil
}

// DeltaDays computes the additional chargeable days when an end date moves
// from oldEnd to newEnd: days(start,newEnd) - days(start,oldEnd), which
// collapses to the floor difference between the two end dates.
func DeltaDays(oldEnd, newEnd time.Time) (int32, error) {
	if !newEnd.After(oldEnd) {
		return 0, fmt.Errorf("new end date must be after current end date")
	}
	return int32(newEnd.Sub(oldEnd).Hours() / 24), nil
}

// RentalCost multiplies the effective daily rate by the day count.
// Pricing is linear; tiered week/month rates are not part of this fleet.
func RentalCost(days int32, dailyRateCents, driverDailyRateCents int64, withDriver bool) int64 {
	rate := dailyRateCents
	if withDriver {
		rate += driverDailyRateCents
	}
	return rate * int64(days)
}

// DepositAmount computes the refundable hold as a percentage of the total,
// truncated to whole cents.
func DepositAmount(totalCents int64, percentage int32) int64 {
	if percentage <= 0 {
		return 0
	}
	return totalCents * int64(percentage) / 100
}

// SameDay reports whether two timestamps fall on the same calendar day in UTC.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
