// Package reviews serves the shop's public Google reviews with a cache in
// front of the Places API.
package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/icepoint/backend/internal/infrastructure/cache"
	"github.com/icepoint/backend/internal/infrastructure/maps"
	"github.com/icepoint/backend/internal/infrastructure/telemetry"
)

const cacheKey = "reviews:place"

// defaultTTL keeps the Places quota low; reviews change slowly anyway
const defaultTTL = 6 * time.Hour

// Service serves the shop's listing summary, cached
type Service struct {
	maps   maps.Client
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewService creates a new reviews Service
func NewService(mapsClient maps.Client, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{maps: mapsClient, cache: c, ttl: ttl, logger: logger}
}

// Get returns the listing summary. Fresh cache wins; on a miss the Places
// API is queried and cached. When the upstream fails, an expired cache entry
// is served rather than an error.
func (s *Service) Get(ctx context.Context) (*maps.PlaceSummary, error) {
	if data, err := s.cache.Get(ctx, cacheKey); err == nil {
		var summary maps.PlaceSummary
		if err := json.Unmarshal(data, &summary); err == nil {
			return &summary, nil
		}
		s.logger.Warn("discarding corrupt cached reviews", zap.Error(err))
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "reviews", "fetch_place_reviews")
	defer span.End()

	summary, err := s.maps.PlaceReviews(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		if stale := s.fromStale(ctx); stale != nil {
			s.logger.Warn("serving stale reviews, upstream failed", zap.Error(err))
			return stale, nil
		}
		return nil, shared.NewExternalServiceError("Reviews are temporarily unavailable")
	}

	if data, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, cacheKey, data, s.ttl); err != nil {
			s.logger.Warn("failed to cache reviews", zap.Error(err))
		}
	}
	return summary, nil
}

func (s *Service) fromStale(ctx context.Context) *maps.PlaceSummary {
	data, err := s.cache.GetStale(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("stale reviews lookup failed", zap.Error(err))
		}
		return nil
	}
	var summary maps.PlaceSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil
	}
	return &summary
}
