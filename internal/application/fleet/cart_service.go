// Package fleet hosts the administration workflows for the physical carts.
package fleet

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/fleet"
	"github.com/icepoint/backend/internal/domain/shared"
)

// CreateCartRequest registers a new physical cart
type CreateCartRequest struct {
	Label    string `json:"label" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
	Color    string `json:"color"`
}

// UpdateCartRequest partially updates a cart; nil fields are untouched
type UpdateCartRequest struct {
	Label    *string `json:"label"`
	Capacity *int    `json:"capacity"`
	Color    *string `json:"color"`
	Status   *string `json:"status"`
}

// CartResponse is the physical cart wire shape
type CartResponse struct {
	ID        int64            `json:"id"`
	Label     string           `json:"label"`
	Capacity  int              `json:"capacity"`
	Color     string           `json:"color"`
	Status    fleet.CartStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ToCartResponse maps a cart to its wire shape
func ToCartResponse(c *fleet.Cart) CartResponse {
	return CartResponse{
		ID:        c.ID,
		Label:     c.Label,
		Capacity:  c.Capacity,
		Color:     c.Color,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}

// Service manages the cart fleet
type Service struct {
	cartRepo fleet.CartRepository
	logger   *zap.Logger
}

// NewService creates a new fleet Service
func NewService(cartRepo fleet.CartRepository, logger *zap.Logger) *Service {
	return &Service{cartRepo: cartRepo, logger: logger}
}

// List returns every cart, retired ones included
func (s *Service) List(ctx context.Context) ([]CartResponse, error) {
	carts, err := s.cartRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CartResponse, 0, len(carts))
	for i := range carts {
		views = append(views, ToCartResponse(&carts[i]))
	}
	return views, nil
}

// Get returns one cart by id
func (s *Service) Get(ctx context.Context, id int64) (*CartResponse, error) {
	c, err := s.findCart(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(c)
	return &resp, nil
}

// Create registers a new cart
func (s *Service) Create(ctx context.Context, req CreateCartRequest) (*CartResponse, error) {
	c, err := fleet.NewCart(req.Label, req.Capacity, req.Color)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("cart registered", zap.Int64("cart_id", c.ID), zap.String("label", c.Label))
	resp := ToCartResponse(c)
	return &resp, nil
}

// Update applies a partial update to a cart
func (s *Service) Update(ctx context.Context, id int64, req UpdateCartRequest) (*CartResponse, error) {
	c, err := s.findCart(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		if *req.Label == "" {
			return nil, shared.NewValidationError("Cart label cannot be empty")
		}
		c.Label = *req.Label
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, shared.NewValidationError("Cart capacity must be positive")
		}
		c.Capacity = *req.Capacity
	}
	if req.Color != nil {
		c.Color = *req.Color
	}
	if req.Status != nil {
		if err := c.ChangeStatus(fleet.CartStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCartResponse(c)
	return &resp, nil
}

// Delete removes a cart from the fleet. Past orders keep their allocation
// rows through the join table, so deletion is restricted to unused carts by
// the database constraint.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.cartRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Cart not found")
		}
		return err
	}
	return nil
}

func (s *Service) findCart(ctx context.Context, id int64) (*fleet.Cart, error) {
	c, err := s.cartRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Cart not found")
		}
		return nil, err
	}
	return c, nil
}
