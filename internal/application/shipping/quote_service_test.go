package shipping

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/icepoint/backend/internal/infrastructure/config"
	"github.com/icepoint/backend/internal/infrastructure/maps"
)

// MockMapsClient is a mock implementation of maps.Client
type MockMapsClient struct {
	mock.Mock
}

func (m *MockMapsClient) DrivingDistanceMeters(ctx context.Context, origin string) (int, error) {
	args := m.Called(ctx, origin)
	return args.Int(0), args.Error(1)
}

func (m *MockMapsClient) PlaceReviews(ctx context.Context) (*maps.PlaceSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*maps.PlaceSummary), args.Error(1)
}

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		DeliveryBaseFee:        20,
		DeliveryExtendedFee:    35,
		DistanceThresholdMeter: 10000,
	}
}

func TestQuoteService_Quote(t *testing.T) {
	ctx := context.Background()

	t.Run("nearby address pays the base fee", func(t *testing.T) {
		client := new(MockMapsClient)
		svc := NewQuoteService(client, testPricing(), zap.NewNop())
		client.On("DrivingDistanceMeters", mock.Anything, "Av. Paulista, 1000, São Paulo, SP, 01310-100").
			Return(4500, nil)

		resp, err := svc.Quote(ctx, QuoteRequest{
			Cep:        "01310-100",
			Logradouro: "Av. Paulista",
			Numero:     "1000",
			Cidade:     "São Paulo",
			Estado:     "SP",
		})
		require.NoError(t, err)
		assert.Equal(t, 4500, resp.DistanceMeters)
		assert.True(t, resp.Fee.Equal(decimal.NewFromInt(20)))
		assert.False(t, resp.Extended)
	})

	t.Run("far address pays the extended fee", func(t *testing.T) {
		client := new(MockMapsClient)
		svc := NewQuoteService(client, testPricing(), zap.NewNop())
		client.On("DrivingDistanceMeters", mock.Anything, "04538-133").Return(15200, nil)

		resp, err := svc.Quote(ctx, QuoteRequest{Cep: "04538-133"})
		require.NoError(t, err)
		assert.True(t, resp.Fee.Equal(decimal.NewFromInt(35)))
		assert.True(t, resp.Extended)
	})

	t.Run("threshold itself is extended", func(t *testing.T) {
		client := new(MockMapsClient)
		svc := NewQuoteService(client, testPricing(), zap.NewNop())
		client.On("DrivingDistanceMeters", mock.Anything, "04538-133").Return(10000, nil)

		resp, err := svc.Quote(ctx, QuoteRequest{Cep: "04538-133"})
		require.NoError(t, err)
		assert.True(t, resp.Extended)
	})

	t.Run("empty request is rejected", func(t *testing.T) {
		svc := NewQuoteService(new(MockMapsClient), testPricing(), zap.NewNop())
		_, err := svc.Quote(ctx, QuoteRequest{})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
	})
}
