package order

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/fleet"
	"github.com/icepoint/backend/internal/domain/order"
	"github.com/icepoint/backend/internal/domain/shared"
)

// AvailabilityService answers which physical carts are free on a given date.
// A cart is busy for the whole day before and after its booking, covering
// delivery, the event itself and pickup.
type AvailabilityService struct {
	cartRepo  fleet.CartRepository
	orderRepo order.Repository
	logger    *zap.Logger
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(cartRepo fleet.CartRepository, orderRepo order.Repository, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// Check reports availability for every cart on the requested date
func (s *AvailabilityService) Check(ctx context.Context, dateStr string) (*AvailabilityResponse, error) {
	date, err := time.Parse(scheduledDateLayout, dateStr)
	if err != nil {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", dateStr))
	}

	carts, err := s.cartRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// the blocking window spans one full day on each side of the booking
	busyIDs, err := s.orderRepo.BusyCartIDs(ctx, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	busy := make(map[int64]struct{}, len(busyIDs))
	for _, id := range busyIDs {
		busy[id] = struct{}{}
	}

	resp := &AvailabilityResponse{
		Date:    date.Format(scheduledDateLayout),
		ByColor: make(map[string]int),
		Details: make([]AvailabilityDetail, 0, len(carts)),
	}
	for i := range carts {
		c := &carts[i]
		_, isBusy := busy[c.ID]
		available := c.Status == fleet.CartStatusAvailable && !isBusy
		if available {
			resp.TotalAvailable++
			resp.ByColor[c.Color]++
		}
		resp.Details = append(resp.Details, toAvailabilityDetail(c, available))
	}
	return resp, nil
}
