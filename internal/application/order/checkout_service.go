// Package order hosts the order workflows: checkout, lifecycle management
// and physical cart availability.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/catalog"
	"github.com/icepoint/backend/internal/domain/fleet"
	"github.com/icepoint/backend/internal/domain/identity"
	"github.com/icepoint/backend/internal/domain/order"
	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/icepoint/backend/internal/domain/shared/valueobject"
	"github.com/icepoint/backend/internal/infrastructure/config"
	"github.com/icepoint/backend/internal/infrastructure/telemetry"
)

// guestName is the customer snapshot fallback when neither the payload nor
// an account profile provides one
const guestName = "Cliente Convidado"

const scheduledDateLayout = "2006-01-02"

// CheckoutService converts a pending cart into a scheduled order
type CheckoutService struct {
	orderRepo   order.Repository
	productRepo catalog.ProductRepository
	cartRepo    fleet.CartRepository
	userRepo    identity.UserRepository
	uow         shared.UnitOfWork
	publisher   shared.EventPublisher
	pricing     config.PricingConfig
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	orderRepo order.Repository,
	productRepo catalog.ProductRepository,
	cartRepo fleet.CartRepository,
	userRepo identity.UserRepository,
	uow shared.UnitOfWork,
	publisher shared.EventPublisher,
	pricing config.PricingConfig,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		userRepo:    userRepo,
		uow:         uow,
		publisher:   publisher,
		pricing:     pricing,
		logger:      logger,
	}
}

// Finalize runs the whole checkout inside one transaction. customerID may be
// empty for guest checkout. Notification side effects are published after
// the commit and never fail the checkout.
func (s *CheckoutService) Finalize(ctx context.Context, customerID string, req CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "finalize")
	defer span.End()

	scheduledDate, err := time.Parse(scheduledDateLayout, req.DataAgendada)
	if err != nil {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid scheduled date %q, expected YYYY-MM-DD", req.DataAgendada))
	}

	var account *identity.User
	if customerID != "" {
		account, err = s.userRepo.FindByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewNotFoundError("Customer account not found")
			}
			return nil, err
		}
	}

	var finalized *order.Order
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		pending, err := s.findOrCreatePending(ctx, customerID)
		if err != nil {
			return err
		}

		s.applySnapshot(pending, account, req.PersonalData)

		if err := pending.Schedule(scheduledDate, req.HoraAgendada); err != nil {
			return err
		}
		if err := pending.SetDeliveryMethod(order.DeliveryMethod(req.MetodoEntrega)); err != nil {
			return err
		}
		if err := pending.SetPaymentMethod(order.PaymentMethod(req.MetodoPagamento)); err != nil {
			return err
		}
		if pending.DeliveryMethod == order.DeliveryDelivery {
			pending.SetDeliveryAddress(req.Address())
		}

		if err := s.allocateCarts(ctx, pending, req.CartIDs); err != nil {
			return err
		}

		items, err := s.buildLineItems(ctx, req.Items)
		if err != nil {
			return err
		}
		if err := pending.ReplaceItems(items); err != nil {
			return err
		}

		fee, discount := s.computeCharges(pending)
		if err := pending.ApplyCharges(fee, discount); err != nil {
			return err
		}

		if err := pending.Finalize(); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, pending); err != nil {
			return err
		}

		finalized = pending
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, finalized)

	s.logger.Info("order checked out",
		zap.Int64("order_id", finalized.ID),
		zap.String("status", finalized.Status.String()),
		zap.String("payment_method", string(finalized.PaymentMethod)),
		zap.String("total", finalized.Total.String()),
	)

	return &CheckoutResponse{
		OrderID:     finalized.ID,
		Status:      finalized.Status,
		Subtotal:    finalized.Subtotal,
		DeliveryFee: finalized.DeliveryFee,
		Discount:    finalized.Discount,
		Total:       finalized.Total,
	}, nil
}

func (s *CheckoutService) findOrCreatePending(ctx context.Context, customerID string) (*order.Order, error) {
	if customerID == "" {
		return order.NewPendingOrder(""), nil
	}
	pending, err := s.orderRepo.FindPendingByCustomer(ctx, customerID)
	if err == nil {
		return pending, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return order.NewPendingOrder(customerID), nil
}

// applySnapshot fills the denormalized customer fields: payload first, then
// the account profile, then the guest fallback
func (s *CheckoutService) applySnapshot(o *order.Order, account *identity.User, data *PersonalData) {
	if account != nil {
		o.SetCustomerSnapshot(account.Name, account.Email, account.Phone, account.TaxID, account.BirthDate)
	}
	if data != nil {
		var birth *time.Time
		if data.BirthDate != "" {
			if parsed, err := time.Parse(scheduledDateLayout, data.BirthDate); err == nil {
				birth = &parsed
			}
		}
		o.SetCustomerSnapshot(data.FullName, data.Email, data.Phone, data.CPF, birth)
	}
	if o.CustomerName == "" {
		o.CustomerName = guestName
	}
}

// allocateCarts verifies every requested cart id exists and attaches the set.
// Any miss rejects the whole checkout.
func (s *CheckoutService) allocateCarts(ctx context.Context, o *order.Order, cartIDs []int64) error {
	if len(cartIDs) == 0 {
		o.AllocateCarts(nil)
		return nil
	}

	carts, err := s.cartRepo.FindByIDs(ctx, cartIDs)
	if err != nil {
		return err
	}
	if len(carts) != len(uniqueIDs(cartIDs)) {
		return shared.NewValidationError("One or more selected carts do not exist")
	}
	o.AllocateCarts(carts)
	return nil
}

// buildLineItems freezes current catalog prices onto the declared items.
// Unknown products freeze a zero price, mirroring cart sync.
func (s *CheckoutService) buildLineItems(ctx context.Context, items []CheckoutItem) ([]order.Item, error) {
	ids := make([]int64, 0, len(items))
	for _, in := range items {
		if in.Quantity > 0 {
			ids = append(ids, in.ProductID)
		}
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	priceByID := make(map[int64]decimal.Decimal, len(products))
	for i := range products {
		priceByID[products[i].ID] = products[i].Price
	}

	lineItems := make([]order.Item, 0, len(items))
	for _, in := range items {
		if in.Quantity <= 0 {
			continue
		}
		price, ok := priceByID[in.ProductID]
		if !ok {
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

// computeCharges resolves the delivery fee and the payment-method discount.
// PIX and CASH earn the configured percentage off the products subtotal;
// ONLINE pays full price. Delivery adds the configured flat fee.
func (s *CheckoutService) computeCharges(o *order.Order) (fee, discount decimal.Decimal) {
	feeMoney := valueobject.ZeroBRL()
	if o.DeliveryMethod == order.DeliveryDelivery {
		feeMoney = valueobject.NewMoneyBRLFromFloat(s.pricing.DeliveryBaseFee)
	}

	discountMoney := valueobject.ZeroBRL()
	if o.PaymentMethod == order.PaymentPix || o.PaymentMethod == order.PaymentCash {
		percent := decimal.NewFromFloat(s.pricing.DiscountPercent)
		discountMoney = valueobject.NewMoneyBRL(o.Subtotal).Percent(percent)
	}
	return feeMoney.Amount(), discountMoney.Amount()
}

func (s *CheckoutService) publishEvents(ctx context.Context, o *order.Order) {
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

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
