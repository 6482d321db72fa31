package service

import (
	"context"
	"time"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/logger"
	"carfleet-backend/internal/repository"
	"carfleet-backend/internal/utils"
)

type extensionService struct {
	rentalRepo repository.RentalRepository
	extRepo    repository.ExtensionRepository
	events     EventSink
}

func NewExtensionService(
	rentalRepo repository.RentalRepository,
	extRepo repository.ExtensionRepository,
	events EventSink,
) ExtensionService {
	if events == nil {
		events = NopSink{}
	}
	return &extensionService{rentalRepo: rentalRepo, extRepo: extRepo, events: events}
}

// CanExtend probes whether the rental's end may move to newEnd. Only the
// delta interval [current end, newEnd) is checked against availability;
// the rental already owns everything before its current end.
func (s *extensionService) CanExtend(ctx context.Context, rentalID int32, newEnd time.Time) (*ExtendCheck, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(rt.Status, domain.ActionExtend) {
		return nil, &domain.TransitionError{Current: rt.Status, Action: domain.ActionExtend}
	}
	if !newEnd.After(rt.EndDate) {
		return &ExtendCheck{Allowed: false, ReasonCode: domain.ReasonNewEndBeforeCurrent}, nil
	}

	overlapping, err := s.rentalRepo.FindOverlapping(ctx, repository.OverlapQuery{
		CarID:           rt.CarID,
		Start:           rt.EndDate,
		End:             newEnd,
		ExcludeRentalID: rt.ID,
	})
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return &ExtendCheck{Allowed: false, ReasonCode: domain.ReasonCarNotAvailable}, nil
	}
	return &ExtendCheck{Allowed: true}, nil
}

func (s *extensionService) Apply(ctx context.Context, actorID, rentalID int32, newEnd time.Time) (*domain.Rental, *domain.Extension, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanTransition(rt.Status, domain.ActionExtend) {
		return nil, nil, &domain.TransitionError{Current: rt.Status, Action: domain.ActionExtend}
	}
	if !newEnd.After(rt.EndDate) {
		return nil, nil, &domain.UnavailableError{Reason: domain.ReasonNewEndBeforeCurrent}
	}

	days, err := utils.DeltaDays(rt.EndDate, newEnd)
	if err != nil {
		return nil, nil, &domain.UnavailableError{Reason: domain.ReasonNewEndBeforeCurrent}
	}
	amount := int64(days) * rt.EffectiveDailyRateCents()

	ext := &domain.Extension{
		RentalID:        rt.ID,
		OriginalEndDate: rt.EndDate,
		NewEndDate:      newEnd,
		ExtensionDays:   days,
		AmountCents:     amount,
		PaymentStatus:   domain.PaymentStatusPending,
		ApprovedBy:      actorID,
	}

	// The repository re-checks the delta interval under the car row lock,
	// so a concurrent booking cannot slip in between the probe and the
	// write.
	if err := s.rentalRepo.ApplyExtension(ctx, rt, ext); err != nil {
		return nil, nil, err
	}

	logger.InfoContext(ctx, "Rental extended",
		"rental_id", rt.ID, "extension_days", days, "amount_cents", amount)
	s.events.Publish(ctx, Event{
		Type: EventRentalExtended, Rental: rt, ActorID: actorID, OccurredOn: time.Now(),
		Attributes: map[string]string{"new_end_date": newEnd.Format("2006-01-02")},
	})
	return rt, ext, nil
}

func (s *extensionService) ListByRental(ctx context.Context, rentalID int32) ([]domain.Extension, error) {
	return s.extRepo.ListByRental(ctx, rentalID)
}
