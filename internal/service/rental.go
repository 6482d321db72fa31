package service

import (
	"context"
	"strings"
	"time"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/logger"
	"carfleet-backend/internal/repository"
	"carfleet-backend/internal/utils"

	"github.com/google/uuid"
)

type rentalService struct {
	rentalRepo   repository.RentalRepository
	carRepo      repository.CarRepository
	customerRepo repository.CustomerRepository
	extensions   ExtensionService
	policy       BookingPolicy
	events       EventSink
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	carRepo repository.CarRepository,
	customerRepo repository.CustomerRepository,
	extensions ExtensionService,
	policy BookingPolicy,
	events EventSink,
) RentalService {
	if events == nil {
		events = NopSink{}
	}
	return &rentalService{
		rentalRepo:   rentalRepo,
		carRepo:      carRepo,
		customerRepo: customerRepo,
		extensions:   extensions,
		policy:       policy,
		events:       events,
	}
}

// newRentalNumber produces the human-readable unique reservation number.
func newRentalNumber() string {
	return "RNT-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *rentalService) Create(ctx context.Context, actorID int32, in CreateRentalInput) (*domain.Rental, error) {
	ve := domain.NewValidationError()
	if in.CustomerID == 0 {
		ve.Add("customer_id", "required")
	}
	if in.CarID == 0 {
		ve.Add("car_id", "required")
	}
	if in.EndDate.Before(in.StartDate) {
		ve.Add("end_date", "must be on or after start_date")
	}
	if in.WithDriver {
		if in.DriverName == "" {
			ve.Add("driver_name", "required when with_driver is set")
		}
		if in.DriverPhone == "" {
			ve.Add("driver_phone", "required when with_driver is set")
		}
		if in.DriverDailyRateCents <= 0 {
			ve.Add("driver_daily_rate", "must be positive when with_driver is set")
		}
	}
	for _, p := range in.InitialPayments {
		if p.AmountCents <= 0 {
			ve.Add("initial_payments", "amounts must be positive")
		}
		if !domain.ValidPaymentType(p.Type) {
			ve.Add("initial_payments", "unknown payment type")
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	car, err := s.carRepo.GetByID(ctx, in.CarID)
	if err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.GetByID(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	dailyRate := in.DailyRateCents
	if dailyRate == 0 {
		dailyRate = car.DailyRateCents
	}
	if dailyRate <= 0 {
		return nil, domain.NewValidationError().Add("daily_rate", "must be positive")
	}

	days, err := utils.RentalDays(in.StartDate, in.EndDate)
	if err != nil {
		return nil, domain.NewValidationError().Add("end_date", err.Error())
	}
	if days < s.policy.MinDays {
		return nil, domain.NewValidationError().Add("end_date", "rental shorter than minimum allowed days")
	}
	if s.policy.MaxDays > 0 && days > s.policy.MaxDays {
		return nil, domain.NewValidationError().Add("end_date", "rental longer than maximum allowed days")
	}

	total := utils.RentalCost(days, dailyRate, in.DriverDailyRateCents, in.WithDriver)
	deposit := utils.DepositAmount(total, s.policy.DepositPercentage)

	branchID := in.BranchID
	if branchID == 0 {
		branchID = car.BranchID
	}

	rt := &domain.Rental{
		RentalNumber:         newRentalNumber(),
		CustomerID:           in.CustomerID,
		CarID:                in.CarID,
		BranchID:             branchID,
		CreatedBy:            actorID,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		DailyRateCents:       dailyRate,
		WithDriver:           in.WithDriver,
		DriverName:           in.DriverName,
		DriverPhone:          in.DriverPhone,
		DriverDailyRateCents: in.DriverDailyRateCents,
		TotalAmountCents:     total,
		DepositAmountCents:   deposit,
		PaymentStatus:        domain.PaymentStatusPending,
		Status:               domain.RentalStatusPending,
		Notes:                in.Notes,
	}

	var payments []*domain.Payment
	for _, p := range in.InitialPayments {
		payments = append(payments, &domain.Payment{
			AmountCents:   p.AmountCents,
			Type:          p.Type,
			MethodID:      p.MethodID,
			PaidOn:        time.Now(),
			ReceiptNumber: p.ReceiptNumber,
			Note:          p.Note,
			CreatedBy:     actorID,
		})
	}

	if err := s.rentalRepo.CreateIfAvailable(ctx, rt, payments); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Rental created",
		"rental_id", rt.ID, "rental_number", rt.RentalNumber, "car_id", rt.CarID, "days", days)
	s.events.Publish(ctx, Event{
		Type: EventRentalCreated, Rental: rt, ActorID: actorID, OccurredOn: time.Now(),
	})
	return rt, nil
}

func (s *rentalService) Confirm(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	next, err := domain.NextStatus(rt.Status, domain.ActionConfirm)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	from := rt.Status
	rt.Status = next
	rt.ConfirmedBy = &actorID
	rt.ConfirmedOn = &now
	if err := s.rentalRepo.Update(ctx, rt, from); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Rental confirmed", "rental_id", rt.ID)
	s.events.Publish(ctx, Event{Type: EventRentalConfirmed, Rental: rt, ActorID: actorID, OccurredOn: now})
	return rt, nil
}

func (s *rentalService) Activate(ctx context.Context, actorID, rentalID int32, in ActivateInput) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	next, err := domain.NextStatus(rt.Status, domain.ActionActivate)
	if err != nil {
		return nil, err
	}

	ve := domain.NewValidationError()
	if in.OdometerStart < 0 {
		ve.Add("odometer_start", "must not be negative")
	}
	if !domain.ValidFuelLevel(in.FuelLevel) {
		ve.Add("fuel_level_start", "required")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	now := time.Now()
	fuel := in.FuelLevel
	from := rt.Status
	rt.Status = next
	rt.ActivatedBy = &actorID
	rt.ActivatedOn = &now
	rt.OdometerStart = &in.OdometerStart
	rt.FuelLevelStart = &fuel
	rt.PickupConditionNote = in.ConditionNote
	if err := s.rentalRepo.Update(ctx, rt, from); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Rental activated", "rental_id", rt.ID, "odometer_start", in.OdometerStart)
	s.events.Publish(ctx, Event{Type: EventRentalActivated, Rental: rt, ActorID: actorID, OccurredOn: now})
	return rt, nil
}

func (s *rentalService) Extend(ctx context.Context, actorID, rentalID int32, newEnd time.Time) (*domain.Rental, *domain.Extension, error) {
	return s.extensions.Apply(ctx, actorID, rentalID, newEnd)
}

func (s *rentalService) Complete(ctx context.Context, actorID, rentalID int32, in CompleteInput) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	next, err := domain.NextStatus(rt.Status, domain.ActionComplete)
	if err != nil {
		return nil, err
	}

	ve := domain.NewValidationError()
	if !domain.ValidFuelLevel(in.FuelLevel) {
		ve.Add("fuel_level_end", "required")
	}
	if rt.OdometerStart != nil && in.OdometerEnd < *rt.OdometerStart {
		ve.Add("odometer_end", "must be at least the start odometer reading")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	now := time.Now()
	fuel := in.FuelLevel
	from := rt.Status
	rt.Status = next
	rt.CompletedBy = &actorID
	rt.CompletedOn = &now
	rt.OdometerEnd = &in.OdometerEnd
	rt.FuelLevelEnd = &fuel
	rt.ReturnConditionNote = in.ConditionNote
	rt.ActualReturnDate = &now
	if err := s.rentalRepo.Update(ctx, rt, from); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Rental completed", "rental_id", rt.ID, "odometer_end", in.OdometerEnd)
	s.events.Publish(ctx, Event{Type: EventRentalCompleted, Rental: rt, ActorID: actorID, OccurredOn: now})
	return rt, nil
}

func (s *rentalService) Cancel(ctx context.Context, actorID, rentalID int32, reason string) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	next, err := domain.NextStatus(rt.Status, domain.ActionCancel)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, domain.NewValidationError().Add("cancellation_reason", "required")
	}

	now := time.Now()
	from := rt.Status
	rt.Status = next
	rt.CancelledBy = &actorID
	rt.CancelledOn = &now
	rt.CancellationReason = reason
	if err := s.rentalRepo.Update(ctx, rt, from); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Rental cancelled", "rental_id", rt.ID, "reason", reason)
	s.events.Publish(ctx, Event{
		Type: EventRentalCancelled, Rental: rt, ActorID: actorID, OccurredOn: now,
		Attributes: map[string]string{"reason": reason},
	})
	return rt, nil
}

func (s *rentalService) Delete(ctx context.Context, actorID, rentalID int32) error {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return err
	}
	// Hard delete removes the record instead of marking it terminal. While
	// ACTIVE or EXTENDED the car is out with a customer and the rental must
	// be completed or cancelled first.
	if rt.Status == domain.RentalStatusActive || rt.Status == domain.RentalStatusExtended {
		return &domain.TransitionError{Current: rt.Status, Action: "delete"}
	}
	if err := s.rentalRepo.Delete(ctx, rentalID); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Rental deleted", "rental_id", rentalID, "actor_id", actorID)
	return nil
}

func (s *rentalService) Get(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	return s.rentalRepo.GetByID(ctx, rentalID)
}

func (s *rentalService) GetByNumber(ctx context.Context, number string) (*domain.Rental, error) {
	return s.rentalRepo.GetByNumber(ctx, number)
}

func (s *rentalService) List(ctx context.Context, filter repository.RentalFilter, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.List(ctx, filter, page, pageSize)
}
