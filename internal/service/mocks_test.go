package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/repository"
	"carfleet-backend/internal/service"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) CreateIfAvailable(ctx context.Context, rental *domain.Rental, initialPayments []*domain.Payment) error {
	args := m.Called(ctx, rental, initialPayments)
	return args.Error(0)
}
func (m *MockRentalRepo) ApplyExtension(ctx context.Context, rental *domain.Rental, ext *domain.Extension) error {
	args := m.Called(ctx, rental, ext)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) GetByNumber(ctx context.Context, number string) (*domain.Rental, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, rental *domain.Rental, from domain.RentalStatus) error {
	args := m.Called(ctx, rental, from)
	return args.Error(0)
}
func (m *MockRentalRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRepo) List(ctx context.Context, filter repository.RentalFilter, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) FindOverlapping(ctx context.Context, q repository.OverlapQuery) ([]domain.Rental, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Post(ctx context.Context, payment *domain.Payment) (*domain.LedgerSummary, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSummary), args.Error(1)
}
func (m *MockPaymentRepo) Delete(ctx context.Context, rentalID, paymentID int32) (*domain.LedgerSummary, error) {
	args := m.Called(ctx, rentalID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSummary), args.Error(1)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// MockExtensionRepo
type MockExtensionRepo struct {
	mock.Mock
}

func (m *MockExtensionRepo) GetByID(ctx context.Context, id int32) (*domain.Extension, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Extension), args.Error(1)
}
func (m *MockExtensionRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.Extension, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.Extension), args.Error(1)
}

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) List(ctx context.Context, branchID int32, page, pageSize int32) ([]domain.Car, int32, error) {
	args := m.Called(ctx, branchID, page, pageSize)
	return args.Get(0).([]domain.Car), args.Get(1).(int32), args.Error(2)
}
func (m *MockCarRepo) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRentalCreated(ctx context.Context, to, customerName, rentalNumber string, start, end time.Time) error {
	args := m.Called(ctx, to, customerName, rentalNumber, start, end)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalConfirmed(ctx context.Context, to, customerName, rentalNumber string) error {
	args := m.Called(ctx, to, customerName, rentalNumber)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalExtended(ctx context.Context, to, customerName, rentalNumber string, newEnd time.Time) error {
	args := m.Called(ctx, to, customerName, rentalNumber, newEnd)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalCancelled(ctx context.Context, to, customerName, rentalNumber, reason string) error {
	args := m.Called(ctx, to, customerName, rentalNumber, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReminder(ctx context.Context, to, customerName, rentalNumber string, end time.Time) error {
	args := m.Called(ctx, to, customerName, rentalNumber, end)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueNotice(ctx context.Context, to, customerName, rentalNumber string, end time.Time) error {
	args := m.Called(ctx, to, customerName, rentalNumber, end)
	return args.Error(0)
}

// recordingSink captures published events for assertions.
type recordingSink struct {
	events []service.Event
}

func (s *recordingSink) Publish(_ context.Context, ev service.Event) {
	s.events = append(s.events, ev)
}

func (s *recordingSink) types() []service.EventType {
	out := make([]service.EventType, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Type)
	}
	return out
}
