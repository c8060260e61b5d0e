// Package payment integrates the Mercado Pago checkout.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/icepoint/backend/internal/domain/order"
	"github.com/icepoint/backend/internal/domain/shared"
	infraconfig "github.com/icepoint/backend/internal/infrastructure/config"
)

// Preference is the created checkout session
type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// Gateway creates hosted checkout sessions for online payment
type Gateway interface {
	// CreatePreference builds a checkout session for the order. The order id
	// travels as the external reference so the webhook can find it back.
	CreatePreference(ctx context.Context, o *order.Order) (*Preference, error)
}

// MercadoPagoGateway implements Gateway on the Mercado Pago SDK
type MercadoPagoGateway struct {
	client      preference.Client
	frontendURL string
	descriptor  string
}

// NewMercadoPagoGateway creates a gateway from configuration
func NewMercadoPagoGateway(cfg *infraconfig.PaymentConfig) (*MercadoPagoGateway, error) {
	if cfg == nil || cfg.AccessToken == "" {
		return nil, errors.New("payment access token is required")
	}

	mpCfg, err := mpconfig.New(cfg.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create mercado pago config: %w", err)
	}

	return &MercadoPagoGateway{
		client:      preference.NewClient(mpCfg),
		frontendURL: cfg.FrontendURL,
		descriptor:  cfg.Descriptor,
	}, nil
}

// CreatePreference builds a checkout session for the order
func (g *MercadoPagoGateway) CreatePreference(ctx context.Context, o *order.Order) (*Preference, error) {
	if len(o.Items) == 0 {
		return nil, shared.NewValidationError("Order has no items to pay for")
	}

	items := make([]preference.ItemRequest, 0, len(o.Items)+1)
	for _, item := range o.Items {
		unitPrice, _ := item.UnitPrice.Float64()
		items = append(items, preference.ItemRequest{
			ID:         strconv.FormatInt(item.ProductID, 10),
			Title:      fmt.Sprintf("Produto %d", item.ProductID),
			Quantity:   item.Quantity,
			UnitPrice:  unitPrice,
			CurrencyID: "BRL",
		})
	}
	if o.DeliveryFee.IsPositive() {
		fee, _ := o.DeliveryFee.Float64()
		items = append(items, preference.ItemRequest{
			ID:         "delivery-fee",
			Title:      "Taxa de entrega",
			Quantity:   1,
			UnitPrice:  fee,
			CurrencyID: "BRL",
		})
	}

	req := preference.Request{
		Items:               items,
		ExternalReference:   strconv.FormatInt(o.ID, 10),
		StatementDescriptor: g.descriptor,
		BackURLs: &preference.BackURLsRequest{
			Success: g.frontendURL + "/pedido/confirmado",
			Pending: g.frontendURL + "/pedido/pendente",
			Failure: g.frontendURL + "/pedido/erro",
		},
		AutoReturn: "approved",
	}
	if o.CustomerEmail != "" {
		req.Payer = &preference.PayerRequest{
			Name:  o.CustomerName,
			Email: o.CustomerEmail,
		}
	}

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		return nil, shared.NewExternalServiceError(fmt.Sprintf("payment preference creation failed: %v", err))
	}

	return &Preference{ID: resp.ID, InitPoint: resp.InitPoint}, nil
}

// Ensure MercadoPagoGateway implements Gateway
var _ Gateway = (*MercadoPagoGateway)(nil)
