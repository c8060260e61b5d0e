// Package shipping quotes delivery fees from the driving distance between
// the customer address and the shop.
package shipping

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/icepoint/backend/internal/domain/shared/valueobject"
	"github.com/icepoint/backend/internal/infrastructure/config"
	"github.com/icepoint/backend/internal/infrastructure/maps"
)

// QuoteRequest asks for a delivery fee. A full address is preferred; a bare
// CEP works as a coarser fallback.
type QuoteRequest struct {
	Cep        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Numero     string `json:"numero"`
	Cidade     string `json:"cidade"`
	Estado     string `json:"estado"`
}

// QuoteResponse is the quoted fee with the measured distance
type QuoteResponse struct {
	DistanceMeters int             `json:"distanceMeters"`
	Fee            decimal.Decimal `json:"taxaEntrega"`
	Extended       bool            `json:"extended"`
}

// QuoteService computes delivery fees
type QuoteService struct {
	maps    maps.Client
	pricing config.PricingConfig
	logger  *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(mapsClient maps.Client, pricing config.PricingConfig, logger *zap.Logger) *QuoteService {
	return &QuoteService{maps: mapsClient, pricing: pricing, logger: logger}
}

// Quote measures the driving distance and picks the base or extended fee.
// Addresses past the configured threshold pay the extended fee.
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	origin := buildOrigin(req)
	if origin == "" {
		return nil, shared.NewValidationError("An address or CEP is required")
	}

	distance, err := s.maps.DrivingDistanceMeters(ctx, origin)
	if err != nil {
		return nil, err
	}

	extended := distance >= s.pricing.DistanceThresholdMeter
	fee := valueobject.NewMoneyBRLFromFloat(s.pricing.DeliveryBaseFee)
	if extended {
		fee = valueobject.NewMoneyBRLFromFloat(s.pricing.DeliveryExtendedFee)
	}

	s.logger.Debug("delivery quoted",
		zap.String("origin", origin),
		zap.Int("distance_m", distance),
		zap.Bool("extended", extended),
	)

	return &QuoteResponse{
		DistanceMeters: distance,
		Fee:            fee.Amount(),
		Extended:       extended,
	}, nil
}

// buildOrigin assembles the geocodable origin string, falling back to the
// bare CEP when no street is given
func buildOrigin(req QuoteRequest) string {
	if req.Logradouro != "" {
		parts := []string{req.Logradouro}
		if req.Numero != "" {
			parts[0] = fmt.Sprintf("%s, %s", req.Logradouro, req.Numero)
		}
		if req.Cidade != "" {
			parts = append(parts, req.Cidade)
		}
		if req.Estado != "" {
			parts = append(parts, req.Estado)
		}
		if req.Cep != "" {
			parts = append(parts, req.Cep)
		}
		return strings.Join(parts, ", ")
	}
	return strings.TrimSpace(req.Cep)
}
