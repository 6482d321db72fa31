package http_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/repository"
	"carfleet-backend/internal/service"
)

// MockRentalService
type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) Create(ctx context.Context, actorID int32, in service.CreateRentalInput) (*domain.Rental, error) {
	args := m.Called(ctx, actorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) Confirm(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, actorID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) Activate(ctx context.Context, actorID, rentalID int32, in service.ActivateInput) (*domain.Rental, error) {
	args := m.Called(ctx, actorID, rentalID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) Extend(ctx context.Context, actorID, rentalID int32, newEnd time.Time) (*domain.Rental, *domain.Extension, error) {
	args := m.Called(ctx, actorID, rentalID, newEnd)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Rental), args.Get(1).(*domain.Extension), args.Error(2)
}
func (m *MockRentalService) Complete(ctx context.Context, actorID, rentalID int32, in service.CompleteInput) (*domain.Rental, error) {
	args := m.Called(ctx, actorID, rentalID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) Cancel(ctx context.Context, actorID, rentalID int32, reason string) (*domain.Rental, error) {
	args := m.Called(ctx, actorID, rentalID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) Delete(ctx context.Context, actorID, rentalID int32) error {
	args := m.Called(ctx, actorID, rentalID)
	return args.Error(0)
}
func (m *MockRentalService) Get(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) GetByNumber(ctx context.Context, number string) (*domain.Rental, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) List(ctx context.Context, filter repository.RentalFilter, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

// MockExtensionService
type MockExtensionService struct {
	mock.Mock
}

func (m *MockExtensionService) CanExtend(ctx context.Context, rentalID int32, newEnd time.Time) (*service.ExtendCheck, error) {
	args := m.Called(ctx, rentalID, newEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtendCheck), args.Error(1)
}
func (m *MockExtensionService) Apply(ctx context.Context, actorID, rentalID int32, newEnd time.Time) (*domain.Rental, *domain.Extension, error) {
	args := m.Called(ctx, actorID, rentalID, newEnd)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Rental), args.Get(1).(*domain.Extension), args.Error(2)
}
func (m *MockExtensionService) ListByRental(ctx context.Context, rentalID int32) ([]domain.Extension, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.Extension), args.Error(1)
}

// MockAvailabilityService
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) IsAvailable(ctx context.Context, carID int32, start, end time.Time, excludeRentalID int32) (bool, error) {
	args := m.Called(ctx, carID, start, end, excludeRentalID)
	return args.Bool(0), args.Error(1)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Post(ctx context.Context, actorID int32, in service.PostPaymentInput) (*domain.Payment, *domain.LedgerSummary, error) {
	args := m.Called(ctx, actorID, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Payment), args.Get(1).(*domain.LedgerSummary), args.Error(2)
}
func (m *MockPaymentService) Delete(ctx context.Context, actorID, rentalID, paymentID int32) (*domain.LedgerSummary, error) {
	args := m.Called(ctx, actorID, rentalID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSummary), args.Error(1)
}
func (m *MockPaymentService) ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}
