package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderapp "github.com/icepoint/backend/internal/application/order"
	"github.com/icepoint/backend/internal/domain/fleet"
	"github.com/icepoint/backend/internal/domain/order"
	"github.com/icepoint/backend/internal/domain/shared"
)

type stubOrderRepository struct {
	mock.Mock
}

func (m *stubOrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *stubOrderRepository) FindPendingByCustomer(ctx context.Context, customerID string) (*order.Order, error) {
	args := m.Called(ctx, customerID)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *stubOrderRepository) FindNonPendingByEmail(ctx context.Context, email string) ([]order.Order, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *stubOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *stubOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *stubOrderRepository) BusyCartIDs(ctx context.Context, from, to time.Time) ([]int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]int64), args.Error(1)
}

type stubCartRepository struct {
	mock.Mock
}

func (m *stubCartRepository) FindByID(ctx context.Context, id int64) (*fleet.Cart, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*fleet.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *stubCartRepository) FindByIDs(ctx context.Context, ids []int64) ([]fleet.Cart, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]fleet.Cart), args.Error(1)
}

func (m *stubCartRepository) FindAll(ctx context.Context) ([]fleet.Cart, error) {
	args := m.Called(ctx)
	return args.Get(0).([]fleet.Cart), args.Error(1)
}

func (m *stubCartRepository) FindByStatus(ctx context.Context, status fleet.CartStatus) ([]fleet.Cart, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]fleet.Cart), args.Error(1)
}

func (m *stubCartRepository) Save(ctx context.Context, cart *fleet.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *stubCartRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func fleetCart(id int64, color string) fleet.Cart {
	cart, err := fleet.NewCart("Carrinho "+color, 120, color)
	if err != nil {
		panic(err)
	}
	cart.ID = id
	return *cart
}

func availabilityRouter(orderRepo order.Repository, cartRepo fleet.CartRepository) *gin.Engine {
	svc := orderapp.NewAvailabilityService(cartRepo, orderRepo, zap.NewNop())
	h := NewAvailabilityHandler(svc)

	engine := gin.New()
	engine.GET("/api/disponibilidade", h.Check)
	return engine
}

func TestAvailabilityCheckEndpoint(t *testing.T) {
	orderRepo := new(stubOrderRepository)
	cartRepo := new(stubCartRepository)

	cartRepo.On("FindAll", mock.Anything).Return([]fleet.Cart{
		fleetCart(1, "azul"),
		fleetCart(2, "rosa"),
	}, nil)
	orderRepo.On("BusyCartIDs", mock.Anything, mock.Anything, mock.Anything).
		Return([]int64{2}, nil)

	engine := availabilityRouter(orderRepo, cartRepo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/disponibilidade?date=2026-10-15", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["totalAvailable"])
}

func TestAvailabilityCheckRequiresDate(t *testing.T) {
	engine := availabilityRouter(new(stubOrderRepository), new(stubCartRepository))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/disponibilidade", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityCheckRejectsMalformedDate(t *testing.T) {
	engine := availabilityRouter(new(stubOrderRepository), new(stubCartRepository))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/disponibilidade?date=15-10-2026", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
