package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/repository"
	"carfleet-backend/internal/service"
)

func newExtensionFixture() (*MockRentalRepo, *MockExtensionRepo, *recordingSink, service.ExtensionService) {
	rentalRepo := new(MockRentalRepo)
	extRepo := new(MockExtensionRepo)
	sink := &recordingSink{}
	svc := service.NewExtensionService(rentalRepo, extRepo, sink)
	return rentalRepo, extRepo, sink, svc
}

func activeRental(end time.Time) *domain.Rental {
	return &domain.Rental{
		ID:             5,
		CarID:          2,
		Status:         domain.RentalStatusActive,
		EndDate:        end,
		DailyRateCents: 5000,
	}
}

func TestExtensionService_CanExtend(t *testing.T) {
	ctx := context.Background()
	end := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("Allowed", func(t *testing.T) {
		rentalRepo, _, _, svc := newExtensionFixture()
		rentalRepo.On("GetByID", ctx, int32(5)).Return(activeRental(end), nil)
		// Only the delta interval is probed, excluding the rental itself.
		newEnd := end.Add(3 * 24 * time.Hour)
		rentalRepo.On("FindOverlapping", ctx, repository.OverlapQuery{
			CarID: 2, Start: end, End: newEnd, ExcludeRentalID: 5,
		}).Return([]domain.Rental{}, nil)

		check, err := svc.CanExtend(ctx, 5, newEnd)
		assert.NoError(t, err)
		assert.True(t, check.Allowed)
		assert.Empty(t, check.ReasonCode)
		rentalRepo.AssertExpectations(t)
	})

	t.Run("DeltaTaken", func(t *testing.T) {
		rentalRepo, _, _, svc := newExtensionFixture()
		rentalRepo.On("GetByID", ctx, int32(5)).Return(activeRental(end), nil)
		rentalRepo.On("FindOverlapping", ctx, mock.AnythingOfType("repository.OverlapQuery")).
			Return([]domain.Rental{{ID: 9}}, nil)

		check, err := svc.CanExtend(ctx, 5, end.Add(3*24*time.Hour))
		assert.NoError(t, err)
		assert.False(t, check.Allowed)
		assert.Equal(t, domain.ReasonCarNotAvailable, check.ReasonCode)
	})

	t.Run("NewEndNotForward", func(t *testing.T) {
		rentalRepo, _, _, svc := newExtensionFixture()
		rentalRepo.On("GetByID", ctx, int32(5)).Return(activeRental(end), nil)

		check, err := svc.CanExtend(ctx, 5, end)
		assert.NoError(t, err)
		assert.False(t, check.Allowed)
		assert.Equal(t, domain.ReasonNewEndBeforeCurrent, check.ReasonCode)
		rentalRepo.AssertNotCalled(t, "FindOverlapping", ctx, mock.Anything)
	})

	t.Run("PendingRental", func(t *testing.T) {
		rentalRepo, _, _, svc := newExtensionFixture()
		rt := activeRental(end)
		rt.Status = domain.RentalStatusPending
		rentalRepo.On("GetByID", ctx, int32(5)).Return(rt, nil)

		_, err := svc.CanExtend(ctx, 5, end.Add(24*time.Hour))
		assert.True(t, domain.IsTransition(err))
	})
}

func TestExtensionService_Apply(t *testing.T) {
	ctx := context.Background()
	end := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		rentalRepo, _, sink, svc := newExtensionFixture()
		rentalRepo.On("GetByID", ctx, int32(5)).Return(activeRental(end), nil)
		rentalRepo.On("ApplyExtension", ctx, mock.AnythingOfType("*domain.Rental"), mock.AnythingOfType("*domain.Extension")).Return(nil)

		_, ext, err := svc.Apply(ctx, 7, 5, end.Add(3*24*time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, int32(3), ext.ExtensionDays)
		assert.Equal(t, int64(15000), ext.AmountCents)
		assert.Equal(t, end, ext.OriginalEndDate)
		assert.Equal(t, domain.PaymentStatusPending, ext.PaymentStatus)
		assert.Equal(t, int32(7), ext.ApprovedBy)
		assert.Equal(t, []service.EventType{service.EventRentalExtended}, sink.types())
	})

	t.Run("DriverRateIncluded", func(t *testing.T) {
		rentalRepo, _, _, svc := newExtensionFixture()
		rt := activeRental(end)
		rt.WithDriver = true
		rt.DriverDailyRateCents = 1500
		rentalRepo.On("GetByID", ctx, int32(5)).Return(rt, nil)
		rentalRepo.On("ApplyExtension", ctx, mock.AnythingOfType("*domain.Rental"), mock.AnythingOfType("*domain.Extension")).Return(nil)

		_, ext, err := svc.Apply(ctx, 7, 5, end.Add(2*24*time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, int64(13000), ext.AmountCents) // (5000+1500)*2
	})

	// Two consecutive extensions charge the same as one covering both spans.
	t.Run("Additive", func(t *testing.T) {
		rentalRepo, _, _, svc := newExtensionFixture()
		first := activeRental(end)
		rentalRepo.On("GetByID", ctx, int32(5)).Return(first, nil).Once()
		rentalRepo.On("ApplyExtension", ctx, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				rt := args.Get(1).(*domain.Rental)
				ext := args.Get(2).(*domain.Extension)
				rt.EndDate = ext.NewEndDate
				rt.Status = domain.RentalStatusExtended
				rt.TotalAmountCents += ext.AmountCents
			}).Return(nil)

		_, ext1, err := svc.Apply(ctx, 7, 5, end.Add(2*24*time.Hour))
		assert.NoError(t, err)

		rentalRepo.On("GetByID", ctx, int32(5)).Return(first, nil).Once()
		_, ext2, err := svc.Apply(ctx, 7, 5, end.Add(5*24*time.Hour))
		assert.NoError(t, err)

		assert.Equal(t, int64(25000), ext1.AmountCents+ext2.AmountCents) // 5 days total
		assert.Equal(t, int32(5), ext1.ExtensionDays+ext2.ExtensionDays)
	})

	t.Run("NewEndNotForward", func(t *testing.T) {
		rentalRepo, _, sink, svc := newExtensionFixture()
		rentalRepo.On("GetByID", ctx, int32(5)).Return(activeRental(end), nil)

		_, _, err := svc.Apply(ctx, 7, 5, end.Add(-24*time.Hour))
		assert.True(t, domain.IsUnavailable(err))
		assert.Empty(t, sink.events)
	})

	t.Run("LostRaceSurfacesConflict", func(t *testing.T) {
		rentalRepo, _, sink, svc := newExtensionFixture()
		rentalRepo.On("GetByID", ctx, int32(5)).Return(activeRental(end), nil)
		rentalRepo.On("ApplyExtension", ctx, mock.Anything, mock.Anything).Return(domain.ErrConflict)

		_, _, err := svc.Apply(ctx, 7, 5, end.Add(24*time.Hour))
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Empty(t, sink.events)
	})

	t.Run("CompletedRental", func(t *testing.T) {
		rentalRepo, _, _, svc := newExtensionFixture()
		rt := activeRental(end)
		rt.Status = domain.RentalStatusCompleted
		rentalRepo.On("GetByID", ctx, int32(5)).Return(rt, nil)

		_, _, err := svc.Apply(ctx, 7, 5, end.Add(24*time.Hour))
		assert.True(t, domain.IsTransition(err))
	})
}

func TestExtensionService_ListByRental(t *testing.T) {
	ctx := context.Background()
	_, extRepo, _, svc := newExtensionFixture()
	extRepo.On("ListByRental", ctx, int32(5)).Return([]domain.Extension{{ID: 1}, {ID: 2}}, nil)

	exts, err := svc.ListByRental(ctx, 5)
	assert.NoError(t, err)
	assert.Len(t, exts, 2)
}
