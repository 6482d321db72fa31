package jobs

import (
	"context"
	"fmt"
	"time"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/logger"
)

// SendReturnReminders emails customers whose rental ends within the next
// day. The jobs only notify; rental status is mutated exclusively through
// the request-driven lifecycle operations.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		now := time.Now()

		rentals, err := jr.rentalRepo.ListEndingBetween(ctx, now, now.Add(24*time.Hour))
		if err != nil {
			logger.Error("Failed to list ending rentals", "error", err)
			return
		}

		count := 0
		for i := range rentals {
			rt := &rentals[i]
			if jr.notifyCustomer(ctx, rt, false) {
				count++
			}
		}
		logger.Info("Return reminders sent", "count", count)
	})
}

// SendOverdueReturnNotices emails customers whose rental end date has
// passed while the car is still out.
func (jr *JobRunner) SendOverdueReturnNotices() {
	jr.runWithRecovery("SendOverdueReturnNotices", func() {
		ctx := context.Background()

		rentals, err := jr.rentalRepo.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		count := 0
		for i := range rentals {
			rt := &rentals[i]
			if jr.notifyCustomer(ctx, rt, true) {
				count++
			}
			logger.Debug("Overdue rental",
				"rental_id", rt.ID, "customer_id", rt.CustomerID, "end_date", rt.EndDate.Format("2006-01-02"))
		}
		logger.Info("Overdue notices sent", "count", count)
	})
}

func (jr *JobRunner) notifyCustomer(ctx context.Context, rt *domain.Rental, overdue bool) bool {
	customer, err := jr.customerRepo.GetByID(ctx, rt.CustomerID)
	if err != nil {
		logger.Error("Failed to load customer", "customer_id", rt.CustomerID, "error", err)
		return false
	}

	title := "Return Reminder"
	noteType := "RETURN_REMINDER"
	message := fmt.Sprintf("Rental %s is due back on %s", rt.RentalNumber, rt.EndDate.Format("2006-01-02"))
	if overdue {
		title = "Overdue Return"
		noteType = "OVERDUE_RETURN"
		message = fmt.Sprintf("Rental %s was due back on %s", rt.RentalNumber, rt.EndDate.Format("2006-01-02"))
	}
	note := &domain.Notification{
		UserID:   rt.CreatedBy,
		BranchID: rt.BranchID,
		Title:    title,
		Message:  message,
		Attributes: map[string]string{
			"type":      noteType,
			"rental_id": fmt.Sprintf("%d", rt.ID),
		},
	}
	if err := jr.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to store notification", "rental_id", rt.ID, "error", err)
	}

	if customer.Email == "" {
		return false
	}
	if overdue {
		err = jr.emailSvc.SendOverdueNotice(ctx, customer.Email, customer.Name, rt.RentalNumber, rt.EndDate)
	} else {
		err = jr.emailSvc.SendReturnReminder(ctx, customer.Email, customer.Name, rt.RentalNumber, rt.EndDate)
	}
	if err != nil {
		logger.Warn("Failed to send reminder email", "rental_id", rt.ID, "error", err)
		return false
	}
	return true
}
