package service

import (
	"context"
	"time"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/repository"
)

type availabilityService struct {
	rentalRepo repository.RentalRepository
}

func NewAvailabilityService(rentalRepo repository.RentalRepository) AvailabilityService {
	return &availabilityService{rentalRepo: rentalRepo}
}

// IsAvailable probes for rentals in a blocking status whose half-open
// interval [start, end) intersects the requested one. The answer is
// advisory; only the repository's check-and-reserve transaction can turn
// it into a guarantee.
func (s *availabilityService) IsAvailable(ctx context.Context, carID int32, start, end time.Time, excludeRentalID int32) (bool, error) {
	if !start.Before(end) {
		return false, domain.NewValidationError().Add("end_date", "must be after start_date")
	}
	overlapping, err := s.rentalRepo.FindOverlapping(ctx, repository.OverlapQuery{
		CarID:           carID,
		Start:           start,
		End:             end,
		ExcludeRentalID: excludeRentalID,
	})
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}
