package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/icepoint/backend/internal/infrastructure/cache"
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

func testSummary() *maps.PlaceSummary {
	return &maps.PlaceSummary{
		Name:   "Ice Point",
		Rating: 4.8,
		Total:  132,
		Reviews: []maps.Review{
			{Author: "Maria", Rating: 5, Text: "Melhor picolé da cidade"},
		},
	}
}

func TestReviewService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("miss hits the API and fills the cache", func(t *testing.T) {
		client := new(MockMapsClient)
		c := cache.NewMemoryCache()
		svc := NewService(client, c, time.Hour, zap.NewNop())
		client.On("PlaceReviews", mock.Anything).Return(testSummary(), nil).Once()

		got, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Ice Point", got.Name)

		// second call is served from cache, the API is not called again
		got, err = svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 132, got.Total)
		client.AssertNumberOfCalls(t, "PlaceReviews", 1)
	})

	t.Run("upstream failure with a warm cache serves stale data", func(t *testing.T) {
		client := new(MockMapsClient)
		c := cache.NewMemoryCache()
		svc := NewService(client, c, time.Nanosecond, zap.NewNop())

		client.On("PlaceReviews", mock.Anything).Return(testSummary(), nil).Once()
		_, err := svc.Get(ctx)
		require.NoError(t, err)

		// let the tiny TTL elapse, then break the upstream
		time.Sleep(time.Millisecond)
		client.On("PlaceReviews", mock.Anything).Return(nil, assert.AnError)

		got, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Ice Point", got.Name)
	})

	t.Run("upstream failure with a cold cache surfaces an error", func(t *testing.T) {
		client := new(MockMapsClient)
		svc := NewService(client, cache.NewMemoryCache(), time.Hour, zap.NewNop())
		client.On("PlaceReviews", mock.Anything).Return(nil, assert.AnError)

		_, err := svc.Get(ctx)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeExternalService, domainErr.Code)
	})
}
