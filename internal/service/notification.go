package service

import (
	"context"
	"fmt"
	"log/slog"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/logger"
	"carfleet-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.noteRepo.List(ctx, userID, pageSize, (page-1)*pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

// notifierSink forwards committed domain events to in-app notifications
// and customer email. Delivery failures are logged and swallowed; they
// never fail the transition that produced the event.
type notifierSink struct {
	noteRepo     repository.NotificationRepository
	customerRepo repository.CustomerRepository
	emailSvc     EmailService
	log          *slog.Logger
}

func NewNotifierSink(
	noteRepo repository.NotificationRepository,
	customerRepo repository.CustomerRepository,
	emailSvc EmailService,
) EventSink {
	return &notifierSink{
		noteRepo:     noteRepo,
		customerRepo: customerRepo,
		emailSvc:     emailSvc,
		log:          logger.WithService("notifier"),
	}
}

var eventTitles = map[EventType]string{
	EventRentalCreated:   "New Rental",
	EventRentalConfirmed: "Rental Confirmed",
	EventRentalActivated: "Rental Activated",
	EventRentalExtended:  "Rental Extended",
	EventRentalCompleted: "Rental Completed",
	EventRentalCancelled: "Rental Cancelled",
	EventPaymentPosted:   "Payment Posted",
	EventPaymentDeleted:  "Payment Deleted",
}

func (s *notifierSink) Publish(ctx context.Context, ev Event) {
	rt := ev.Rental
	if rt == nil {
		return
	}

	title, ok := eventTitles[ev.Type]
	if !ok {
		title = string(ev.Type)
	}
	attrs := map[string]string{
		"type":      string(ev.Type),
		"rental_id": fmt.Sprintf("%d", rt.ID),
	}
	for k, v := range ev.Attributes {
		attrs[k] = v
	}
	note := &domain.Notification{
		UserID:     ev.ActorID,
		BranchID:   rt.BranchID,
		Title:      title,
		Message:    fmt.Sprintf("Rental %s is now %s", rt.RentalNumber, rt.Status),
		Attributes: attrs,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		s.log.Error("Failed to store notification", "event", ev.Type, "rental_id", rt.ID, "error", err)
	}

	if s.emailSvc == nil {
		return
	}
	customer, err := s.customerRepo.GetByID(ctx, rt.CustomerID)
	if err != nil || customer.Email == "" {
		return
	}

	switch ev.Type {
	case EventRentalCreated:
		err = s.emailSvc.SendRentalCreated(ctx, customer.Email, customer.Name, rt.RentalNumber, rt.StartDate, rt.EndDate)
	case EventRentalConfirmed:
		err = s.emailSvc.SendRentalConfirmed(ctx, customer.Email, customer.Name, rt.RentalNumber)
	case EventRentalExtended:
		err = s.emailSvc.SendRentalExtended(ctx, customer.Email, customer.Name, rt.RentalNumber, rt.EndDate)
	case EventRentalCancelled:
		err = s.emailSvc.SendRentalCancelled(ctx, customer.Email, customer.Name, rt.RentalNumber, ev.Attributes["reason"])
	default:
		return
	}
	if err != nil {
		// Email delivery is best effort; the transition already committed.
		s.log.Warn("Failed to send event email", "event", ev.Type, "rental_id", rt.ID, "error", err)
	}
}
