package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/service"
)

func newPaymentFixture() (*MockPaymentRepo, *MockRentalRepo, *recordingSink, service.PaymentService) {
	paymentRepo := new(MockPaymentRepo)
	rentalRepo := new(MockRentalRepo)
	sink := &recordingSink{}
	svc := service.NewPaymentService(paymentRepo, rentalRepo, sink)
	return paymentRepo, rentalRepo, sink, svc
}

func TestPaymentService_Post(t *testing.T) {
	ctx := context.Background()
	rental := &domain.Rental{ID: 5, TotalAmountCents: 25000, PaymentStatus: domain.PaymentStatusPending}

	t.Run("PartialPayment", func(t *testing.T) {
		paymentRepo, rentalRepo, sink, svc := newPaymentFixture()
		rentalRepo.On("GetByID", ctx, int32(5)).Return(rental, nil)
		paymentRepo.On("Post", ctx, mock.AnythingOfType("*domain.Payment")).Return(&domain.LedgerSummary{
			TotalCents:     25000,
			PaidCents:      10000,
			RemainingCents: 15000,
			Status:         domain.PaymentStatusPartial,
		}, nil)

		p, summary, err := svc.Post(ctx, 7, service.PostPaymentInput{
			RentalID:    5,
			AmountCents: 10000,
			Type:        domain.PaymentTypeRental,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(10000), p.AmountCents)
		assert.Nil(t, p.MethodID) // cash
		assert.False(t, p.PaidOn.IsZero())
		assert.Equal(t, int64(15000), summary.RemainingCents)
		assert.Equal(t, domain.PaymentStatusPartial, summary.Status)
		assert.Equal(t, []service.EventType{service.EventPaymentPosted}, sink.types())
	})

	t.Run("SettlesInFull", func(t *testing.T) {
		paymentRepo, rentalRepo, _, svc := newPaymentFixture()
		rentalRepo.On("GetByID", ctx, int32(5)).Return(rental, nil)
		paymentRepo.On("Post", ctx, mock.AnythingOfType("*domain.Payment")).Return(&domain.LedgerSummary{
			TotalCents:     25000,
			PaidCents:      25000,
			RemainingCents: 0,
			Status:         domain.PaymentStatusPaid,
		}, nil)

		methodID := int32(3)
		paidOn := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
		p, summary, err := svc.Post(ctx, 7, service.PostPaymentInput{
			RentalID:      5,
			AmountCents:   25000,
			Type:          domain.PaymentTypeRental,
			MethodID:      &methodID,
			PaidOn:        paidOn,
			ReceiptNumber: "RCP-001",
		})
		assert.NoError(t, err)
		assert.Equal(t, paidOn, p.PaidOn)
		assert.Equal(t, domain.PaymentStatusPaid, summary.Status)
		assert.Equal(t, int64(0), summary.RemainingCents)
	})

	t.Run("ValidationFailures", func(t *testing.T) {
		_, _, _, svc := newPaymentFixture()
		_, _, err := svc.Post(ctx, 7, service.PostPaymentInput{
			AmountCents: -100,
			Type:        "GIFT",
		})
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "rental_id")
		assert.Contains(t, ve.Fields, "amount")
		assert.Contains(t, ve.Fields, "type")
	})

	t.Run("RentalNotFound", func(t *testing.T) {
		_, rentalRepo, _, svc := newPaymentFixture()
		rentalRepo.On("GetByID", ctx, int32(5)).Return(nil, domain.ErrNotFound)

		_, _, err := svc.Post(ctx, 7, service.PostPaymentInput{
			RentalID:    5,
			AmountCents: 10000,
			Type:        domain.PaymentTypeRental,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPaymentService_Delete(t *testing.T) {
	ctx := context.Background()
	rental := &domain.Rental{ID: 5, TotalAmountCents: 25000}

	t.Run("Success", func(t *testing.T) {
		paymentRepo, rentalRepo, sink, svc := newPaymentFixture()
		rentalRepo.On("GetByID", ctx, int32(5)).Return(rental, nil)
		paymentRepo.On("Delete", ctx, int32(5), int32(11)).Return(&domain.LedgerSummary{
			TotalCents:     25000,
			PaidCents:      0,
			RemainingCents: 25000,
			Status:         domain.PaymentStatusPending,
		}, nil)

		summary, err := svc.Delete(ctx, 7, 5, 11)
		assert.NoError(t, err)
		// Removing the only payment drops the rental back to PENDING.
		assert.Equal(t, domain.PaymentStatusPending, summary.Status)
		assert.Equal(t, []service.EventType{service.EventPaymentDeleted}, sink.types())
	})

	t.Run("UnknownPayment", func(t *testing.T) {
		paymentRepo, rentalRepo, _, svc := newPaymentFixture()
		rentalRepo.On("GetByID", ctx, int32(5)).Return(rental, nil)
		paymentRepo.On("Delete", ctx, int32(5), int32(99)).Return(nil, domain.ErrNotFound)

		_, err := svc.Delete(ctx, 7, 5, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
