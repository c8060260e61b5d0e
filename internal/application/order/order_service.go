package order

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/identity"
	"github.com/icepoint/backend/internal/domain/order"
	"github.com/icepoint/backend/internal/domain/shared"
)

// Actor identifies who is performing an order operation
type Actor struct {
	UserID string
	Email  string
	Role   identity.Role
}

// CanAccess reports whether the actor may read or mutate the order
func (a Actor) CanAccess(o *order.Order) bool {
	return a.Role.IsElevated() || o.IsOwnedBy(a.UserID, a.Email)
}

// OrderListResponse splits a customer's placed orders into ongoing and closed
type OrderListResponse struct {
	Active  []OrderResponse `json:"emAndamento"`
	History []OrderResponse `json:"historico"`
}

// OrderService manages placed orders after checkout
type OrderService struct {
	orderRepo order.Repository
	uow       shared.UnitOfWork
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.Repository, uow shared.UnitOfWork, publisher shared.EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// ListForUser returns the actor's placed orders split into ongoing and closed
func (s *OrderService) ListForUser(ctx context.Context, actor Actor) (*OrderListResponse, error) {
	if actor.Email == "" {
		return nil, shared.NewValidationError("Customer email is required")
	}
	orders, err := s.orderRepo.FindNonPendingByEmail(ctx, actor.Email)
	if err != nil {
		return nil, err
	}

	resp := &OrderListResponse{
		Active:  make([]OrderResponse, 0, len(orders)),
		History: make([]OrderResponse, 0),
	}
	for i := range orders {
		view := ToOrderResponse(&orders[i])
		if orders[i].Status.IsFinal() {
			resp.History = append(resp.History, view)
		} else {
			resp.Active = append(resp.Active, view)
		}
	}
	return resp, nil
}

// Get returns one order, enforcing ownership for non-staff actors
func (s *OrderService) Get(ctx context.Context, actor Actor, orderID int64) (*OrderResponse, error) {
	o, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(o) {
		return nil, shared.NewForbiddenError("You do not have access to this order")
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// List returns a paginated page of orders for the staff dashboard
func (s *OrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		views = append(views, ToOrderResponse(&orders[i]))
	}
	page := shared.NewPaginated(views, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Cancel cancels an order with a reason. Owners and staff may cancel;
// cancellation side effects run after the commit.
func (s *OrderService) Cancel(ctx context.Context, actor Actor, orderID int64, req CancelRequest) (*OrderResponse, error) {
	var cancelled *order.Order
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		o, err := s.findOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(o) {
			return shared.NewForbiddenError("You do not have access to this order")
		}
		if err := o.Cancel(req.Motivo); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, cancelled)
	s.logger.Info("order cancelled",
		zap.Int64("order_id", cancelled.ID),
		zap.String("reason", cancelled.CancelReason),
	)

	resp := ToOrderResponse(cancelled)
	return &resp, nil
}

// UpdateStatus moves the order along its lifecycle, staff only
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, req UpdateStatusRequest) (*OrderResponse, error) {
	var updated *order.Order
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		o, err := s.findOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.TransitionTo(order.Status(req.Status)); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.Int64("order_id", updated.ID),
		zap.String("status", updated.Status.String()),
	)
	resp := ToOrderResponse(updated)
	return &resp, nil
}

// UpdatePaymentStatus flips the payment status, staff only
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID int64, req UpdatePaymentStatusRequest) (*OrderResponse, error) {
	var updated *order.Order
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		o, err := s.findOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.SetPaymentStatus(order.PaymentStatus(req.Status)); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(updated)
	return &resp, nil
}

func (s *OrderService) findOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Order not found")
		}
		return nil, err
	}
	return o, nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.Int64("order_id", o.ID), zap.Error(err))
	}
	o.ClearDomainEvents()
}
