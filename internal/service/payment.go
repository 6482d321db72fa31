package service

import (
	"context"
	"time"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/logger"
	"carfleet-backend/internal/repository"
)

type paymentService struct {
	paymentRepo repository.PaymentRepository
	rentalRepo  repository.RentalRepository
	events      EventSink
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	rentalRepo repository.RentalRepository,
	events EventSink,
) PaymentService {
	if events == nil {
		events = NopSink{}
	}
	return &paymentService{paymentRepo: paymentRepo, rentalRepo: rentalRepo, events: events}
}

func (s *paymentService) Post(ctx context.Context, actorID int32, in PostPaymentInput) (*domain.Payment, *domain.LedgerSummary, error) {
	ve := domain.NewValidationError()
	if in.RentalID == 0 {
		ve.Add("rental_id", "required")
	}
	if in.AmountCents <= 0 {
		ve.Add("amount", "must be positive")
	}
	if !domain.ValidPaymentType(in.Type) {
		ve.Add("type", "unknown payment type")
	}
	if ve.HasErrors() {
		return nil, nil, ve
	}

	rt, err := s.rentalRepo.GetByID(ctx, in.RentalID)
	if err != nil {
		return nil, nil, err
	}

	paidOn := in.PaidOn
	if paidOn.IsZero() {
		paidOn = time.Now()
	}
	p := &domain.Payment{
		RentalID:      rt.ID,
		AmountCents:   in.AmountCents,
		Type:          in.Type,
		MethodID:      in.MethodID, // nil means cash
		PaidOn:        paidOn,
		ReceiptNumber: in.ReceiptNumber,
		Note:          in.Note,
		CreatedBy:     actorID,
	}

	summary, err := s.paymentRepo.Post(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	rt.PaidAmountCents = summary.PaidCents
	rt.RemainingAmountCents = summary.RemainingCents
	rt.PaymentStatus = summary.Status

	logger.InfoContext(ctx, "Payment posted",
		"payment_id", p.ID, "rental_id", rt.ID, "amount_cents", p.AmountCents, "type", p.Type)
	s.events.Publish(ctx, Event{
		Type: EventPaymentPosted, Rental: rt, ActorID: actorID, OccurredOn: time.Now(),
		Attributes: map[string]string{"payment_type": string(p.Type)},
	})
	return p, summary, nil
}

func (s *paymentService) Delete(ctx context.Context, actorID, rentalID, paymentID int32) (*domain.LedgerSummary, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	summary, err := s.paymentRepo.Delete(ctx, rentalID, paymentID)
	if err != nil {
		return nil, err
	}
	rt.PaidAmountCents = summary.PaidCents
	rt.RemainingAmountCents = summary.RemainingCents
	rt.PaymentStatus = summary.Status

	logger.InfoContext(ctx, "Payment deleted",
		"payment_id", paymentID, "rental_id", rentalID)
	s.events.Publish(ctx, Event{
		Type: EventPaymentDeleted, Rental: rt, ActorID: actorID, OccurredOn: time.Now(),
	})
	return summary, nil
}

func (s *paymentService) ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	return s.paymentRepo.ListByRental(ctx, rentalID)
}
