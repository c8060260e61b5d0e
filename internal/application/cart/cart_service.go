// Package cart reconciles client-declared shopping carts against the
// customer's pending order aggregate.
package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/catalog"
	"github.com/icepoint/backend/internal/domain/order"
	"github.com/icepoint/backend/internal/domain/shared"
)

// Service synchronizes the client's cart state into the pending order.
// The stored line-item set always mirrors the last synced payload; the
// client never patches items one by one.
type Service struct {
	orderRepo   order.Repository
	productRepo catalog.ProductRepository
	uow         shared.UnitOfWork
	logger      *zap.Logger
}

// NewService creates a new cart Service
func NewService(orderRepo order.Repository, productRepo catalog.ProductRepository, uow shared.UnitOfWork, logger *zap.Logger) *Service {
	return &Service{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		uow:         uow,
		logger:      logger,
	}
}

// Get returns the customer's open cart, or an empty response when none exists
func (s *Service) Get(ctx context.Context, customerID string) (*CartResponse, error) {
	pending, err := s.orderRepo.FindPendingByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			empty := CartResponse{Items: []ItemResponse{}, Subtotal: decimal.Zero, Total: decimal.Zero}
			return &empty, nil
		}
		return nil, err
	}
	resp := ToCartResponse(pending)
	return &resp, nil
}

// Sync replaces the customer's cart with the declared item list. Entries with
// non-positive quantity are dropped silently. Calling Sync twice with the
// same payload leaves identical stored state.
func (s *Service) Sync(ctx context.Context, customerID string, items []ItemInput) (*CartResponse, error) {
	if customerID == "" {
		return nil, shared.NewValidationError("Customer id is required")
	}

	var resp CartResponse
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		pending, err := s.findOrCreatePending(ctx, customerID)
		if err != nil {
			return err
		}

		lineItems, err := s.buildLineItems(ctx, items)
		if err != nil {
			return err
		}
		if err := pending.ReplaceItems(lineItems); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, pending); err != nil {
			return err
		}

		resp = ToCartResponse(pending)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cart synced",
		zap.String("customer_id", customerID),
		zap.Int64("order_id", resp.OrderID),
		zap.Int("items", len(resp.Items)),
	)
	return &resp, nil
}

// Transfer merges a guest's locally accumulated cart into the authenticated
// customer's pending order. Same replace-not-merge semantics as Sync: the
// transferred list wins wholesale.
func (s *Service) Transfer(ctx context.Context, customerID string, items []ItemInput) (*CartResponse, error) {
	return s.Sync(ctx, customerID, items)
}

func (s *Service) findOrCreatePending(ctx context.Context, customerID string) (*order.Order, error) {
	pending, err := s.orderRepo.FindPendingByCustomer(ctx, customerID)
	if err == nil {
		return pending, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return order.NewPendingOrder(customerID), nil
}

// buildLineItems resolves current catalog prices for the surviving entries.
// A missing product freezes a zero price instead of failing the sync, so a
// stale product reference never blocks the cart.
func (s *Service) buildLineItems(ctx context.Context, items []ItemInput) ([]order.Item, error) {
	surviving := make([]ItemInput, 0, len(items))
	ids := make([]int64, 0, len(items))
	for _, in := range items {
		if in.Quantity <= 0 {
			continue
		}
		surviving = append(surviving, in)
		ids = append(ids, in.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	priceByID := make(map[int64]decimal.Decimal, len(products))
	for i := range products {
		priceByID[products[i].ID] = products[i].Price
	}

	lineItems := make([]order.Item, 0, len(surviving))
	for _, in := range surviving {
		price, ok := priceByID[in.ProductID]
		if !ok {
			s.logger.Warn("cart references unknown product, freezing zero price",
				zap.Int64("product_id", in.ProductID))
			price = decimal.Zero
		}
		item, err := order.NewItem(in.ProductID, in.Quantity, price)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, *item)
	}
	return lineItems, nil
}
