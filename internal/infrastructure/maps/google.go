// Package maps wraps the Google Maps APIs used for delivery distance and
// place reviews.
package maps

import (
	"context"
	"errors"
	"fmt"

	gmaps "googlemaps.github.io/maps"

	"github.com/icepoint/backend/internal/domain/shared"
	infraconfig "github.com/icepoint/backend/internal/infrastructure/config"
)

// Review is a single customer review fetched from the place listing
type Review struct {
	Author       string `json:"author"`
	Rating       int    `json:"rating"`
	Text         string `json:"text"`
	RelativeTime string `json:"relative_time"`
	ProfileURL   string `json:"profile_url"`
	PhotoURL     string `json:"photo_url"`
	Language     string `json:"language"`
	Time         int    `json:"time"`
}

// PlaceSummary is the shop's public listing snapshot
type PlaceSummary struct {
	Name    string   `json:"name"`
	Rating  float32  `json:"rating"`
	Total   int      `json:"total_ratings"`
	Reviews []Review `json:"reviews"`
}

// Client talks to the Google Maps APIs
type Client interface {
	// DrivingDistanceMeters returns the driving distance from origin to the
	// configured shop address
	DrivingDistanceMeters(ctx context.Context, origin string) (int, error)
	// PlaceReviews fetches the shop's listing with its most recent reviews
	PlaceReviews(ctx context.Context) (*PlaceSummary, error)
}

// GoogleClient implements Client on googlemaps.github.io/maps
type GoogleClient struct {
	client      *gmaps.Client
	placeID     string
	destination string
}

// NewGoogleClient creates a Google Maps client from configuration
func NewGoogleClient(cfg *infraconfig.MapsConfig) (*GoogleClient, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("maps api key is required")
	}
	client, err := gmaps.NewClient(gmaps.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleClient{
		client:      client,
		placeID:     cfg.PlaceID,
		destination: cfg.Destination,
	}, nil
}

// DrivingDistanceMeters returns the driving distance from origin to the shop
func (c *GoogleClient) DrivingDistanceMeters(ctx context.Context, origin string) (int, error) {
	if origin == "" {
		return 0, shared.NewValidationError("Origin address is required")
	}

	resp, err := c.client.DistanceMatrix(ctx, &gmaps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{c.destination},
		Mode:         gmaps.TravelModeDriving,
	})
	if err != nil {
		return 0, shared.NewExternalServiceError(fmt.Sprintf("distance lookup failed: %v", err))
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, shared.NewExternalServiceError("distance lookup returned no routes")
	}
	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, shared.NewValidationError(fmt.Sprintf("address could not be routed: %s", element.Status))
	}
	return element.Distance.Meters, nil
}

// PlaceReviews fetches the shop's listing with its most recent reviews
func (c *GoogleClient) PlaceReviews(ctx context.Context) (*PlaceSummary, error) {
	if c.placeID == "" {
		return nil, errors.New("maps place id is not configured")
	}

	resp, err := c.client.PlaceDetails(ctx, &gmaps.PlaceDetailsRequest{
		PlaceID:  c.placeID,
		Language: "pt-BR",
		Fields: []gmaps.PlaceDetailsFieldMask{
			gmaps.PlaceDetailsFieldMaskName,
			gmaps.PlaceDetailsFieldMaskRatings,
			gmaps.PlaceDetailsFieldMaskUserRatingsTotal,
			gmaps.PlaceDetailsFieldMaskReviews,
		},
	})
	if err != nil {
		return nil, shared.NewExternalServiceError(fmt.Sprintf("place lookup failed: %v", err))
	}

	summary := &PlaceSummary{
		Name:    resp.Name,
		Rating:  resp.Rating,
		Total:   resp.UserRatingsTotal,
		Reviews: make([]Review, 0, len(resp.Reviews)),
	}
	for _, r := range resp.Reviews {
		summary.Reviews = append(summary.Reviews, Review{
			Author:       r.AuthorName,
			Rating:       r.Rating,
			Text:         r.Text,
			RelativeTime: r.RelativeTimeDescription,
			ProfileURL:   r.AuthorURL,
			PhotoURL:     r.AuthorProfilePhoto,
			Language:     r.Language,
			Time:         r.Time,
		})
	}
	return summary, nil
}

// Ensure GoogleClient implements Client
var _ Client = (*GoogleClient)(nil)
