package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/catalog"
	"github.com/icepoint/backend/internal/domain/fleet"
	"github.com/icepoint/backend/internal/domain/identity"
	"github.com/icepoint/backend/internal/domain/order"
	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/icepoint/backend/internal/infrastructure/config"
)

func testProduct(id int64, price string) catalog.Product {
	p := catalog.Product{Price: decimal.RequireFromString(price)}
	p.ID = id
	return p
}

func testCart(id int64, label, color string) fleet.Cart {
	c := fleet.Cart{Label: label, Capacity: 6, Color: color, Status: fleet.CartStatusAvailable}
	c.ID = id
	return c
}

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		DiscountPercent: 10,
		DeliveryBaseFee: 20,
	}
}

type checkoutFixture struct {
	orderRepo   *MockOrderRepository
	productRepo *MockProductRepository
	cartRepo    *MockCartRepository
	userRepo    *MockUserRepository
	publisher   *recordingPublisher
	service     *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		orderRepo:   new(MockOrderRepository),
		productRepo: new(MockProductRepository),
		cartRepo:    new(MockCartRepository),
		userRepo:    new(MockUserRepository),
		publisher:   &recordingPublisher{},
	}
	f.service = NewCheckoutService(
		f.orderRepo, f.productRepo, f.cartRepo, f.userRepo,
		passthroughUnitOfWork{}, f.publisher, testPricing(), zap.NewNop(),
	)
	return f
}

func TestCheckoutService_Finalize(t *testing.T) {
	ctx := context.Background()

	t.Run("pix pickup earns the discount and confirms immediately", func(t *testing.T) {
		f := newCheckoutFixture()
		f.orderRepo.On("FindPendingByCustomer", mock.Anything, "user-1").
			Return(nil, shared.ErrNotFound)
		account, err := identity.NewUser("user-1", "Ana Conta", "ana@example.com")
		require.NoError(t, err)
		f.userRepo.On("FindByID", mock.Anything, "user-1").Return(account, nil)
		f.productRepo.On("FindByIDs", mock.Anything, []int64{1}).
			Return([]catalog.Product{testProduct(1, "50.00")}, nil)

		var saved *order.Order
		f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*order.Order) }).
			Return(nil)

		resp, err := f.service.Finalize(ctx, "user-1", CheckoutRequest{
			Items:           []CheckoutItem{{ProductID: 1, Quantity: 2}},
			DataAgendada:    "2026-10-15",
			HoraAgendada:    "14:00",
			MetodoEntrega:   "PICKUP",
			MetodoPagamento: "PIX",
			PersonalData:    &PersonalData{FullName: "Ana Souza", Email: "ana@example.com"},
		})
		require.NoError(t, err)

		assert.Equal(t, order.StatusConfirmed, resp.Status)
		assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("100.00")))
		assert.True(t, resp.DeliveryFee.IsZero())
		assert.True(t, resp.Discount.Equal(decimal.RequireFromString("10.00")))
		assert.True(t, resp.Total.Equal(decimal.RequireFromString("90.00")))

		require.NotNil(t, saved)
		assert.Equal(t, "Ana Souza", saved.CustomerName)
		assert.Equal(t, "ana@example.com", saved.CustomerEmail)
		assert.Equal(t, "14:00", saved.ScheduledTime)

		events := f.publisher.Events()
		require.Len(t, events, 1)
		assert.Equal(t, order.EventCheckedOut, events[0].EventType())
	})

	t.Run("online delivery pays full price plus the delivery fee and awaits payment", func(t *testing.T) {
		f := newCheckoutFixture()
		f.productRepo.On("FindByIDs", mock.Anything, []int64{2}).
			Return([]catalog.Product{testProduct(2, "50.00")}, nil)
		f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

		resp, err := f.service.Finalize(ctx, "", CheckoutRequest{
			Items:              []CheckoutItem{{ProductID: 2, Quantity: 1}},
			DataAgendada:       "2026-10-15",
			HoraAgendada:       "10:00",
			MetodoEntrega:      "DELIVERY",
			MetodoPagamento:    "ONLINE",
			PersonalData:       &PersonalData{FullName: "Bruno Lima", Email: "bruno@example.com"},
			EnderecoCep:        "01310-100",
			EnderecoLogradouro: "Av. Paulista",
			EnderecoNumero:     "1000",
			EnderecoCidade:     "São Paulo",
			EnderecoEstado:     "SP",
		})
		require.NoError(t, err)

		assert.Equal(t, order.StatusAwaitingPayment, resp.Status)
		assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("50.00")))
		assert.True(t, resp.DeliveryFee.Equal(decimal.RequireFromString("20.00")))
		assert.True(t, resp.Discount.IsZero())
		assert.True(t, resp.Total.Equal(decimal.RequireFromString("70.00")))
	})

	t.Run("unknown cart ids reject the whole checkout", func(t *testing.T) {
		f := newCheckoutFixture()
		f.cartRepo.On("FindByIDs", mock.Anything, []int64{7, 8}).
			Return([]fleet.Cart{testCart(7, "Azul 1", "azul")}, nil)

		_, err := f.service.Finalize(ctx, "", CheckoutRequest{
			Items:           []CheckoutItem{{ProductID: 1, Quantity: 1}},
			CartIDs:         []int64{7, 8},
			DataAgendada:    "2026-10-15",
			HoraAgendada:    "10:00",
			MetodoEntrega:   "PICKUP",
			MetodoPagamento: "CASH",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("requested carts are allocated to the order", func(t *testing.T) {
		f := newCheckoutFixture()
		carts := []fleet.Cart{testCart(7, "Azul 1", "azul"), testCart(9, "Rosa 2", "rosa")}
		f.cartRepo.On("FindByIDs", mock.Anything, []int64{7, 9}).Return(carts, nil)
		f.productRepo.On("FindByIDs", mock.Anything, []int64{1}).
			Return([]catalog.Product{testProduct(1, "10.00")}, nil)

		var saved *order.Order
		f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*order.Order) }).
			Return(nil)

		_, err := f.service.Finalize(ctx, "", CheckoutRequest{
			Items:           []CheckoutItem{{ProductID: 1, Quantity: 1}},
			CartIDs:         []int64{7, 9},
			DataAgendada:    "2026-10-15",
			HoraAgendada:    "10:00",
			MetodoEntrega:   "PICKUP",
			MetodoPagamento: "CASH",
			PersonalData:    &PersonalData{FullName: "Carla Dias", Email: "carla@example.com"},
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		require.Len(t, saved.Carts, 2)
		assert.Equal(t, int64(7), saved.Carts[0].ID)
		assert.Equal(t, int64(9), saved.Carts[1].ID)
	})

	t.Run("invalid scheduled date fails before any repository call", func(t *testing.T) {
		f := newCheckoutFixture()

		_, err := f.service.Finalize(ctx, "", CheckoutRequest{
			Items:           []CheckoutItem{{ProductID: 1, Quantity: 1}},
			DataAgendada:    "15/10/2026",
			HoraAgendada:    "10:00",
			MetodoEntrega:   "PICKUP",
			MetodoPagamento: "PIX",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
		f.orderRepo.AssertNotCalled(t, "FindPendingByCustomer", mock.Anything, mock.Anything)
	})

	t.Run("guest checkout without a name falls back to the guest label", func(t *testing.T) {
		f := newCheckoutFixture()
		f.productRepo.On("FindByIDs", mock.Anything, []int64{1}).
			Return([]catalog.Product{testProduct(1, "10.00")}, nil)

		var saved *order.Order
		f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*order.Order) }).
			Return(nil)

		_, err := f.service.Finalize(ctx, "", CheckoutRequest{
			Items:           []CheckoutItem{{ProductID: 1, Quantity: 1}},
			DataAgendada:    "2026-10-15",
			HoraAgendada:    "10:00",
			MetodoEntrega:   "PICKUP",
			MetodoPagamento: "CASH",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "Cliente Convidado", saved.CustomerName)
	})
}
