package cart

import (
	"github.com/shopspring/decimal"

	"github.com/icepoint/backend/internal/domain/order"
)

// ItemInput is one client-declared cart entry
type ItemInput struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// SyncRequest is the full client-declared cart state
type SyncRequest struct {
	Items []ItemInput `json:"items"`
}

// ItemResponse is one stored line item
type ItemResponse struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"precoUnitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse is the stored state of the open cart
type CartResponse struct {
	OrderID  int64           `json:"orderId"`
	Items    []ItemResponse  `json:"items"`
	Subtotal decimal.Decimal `json:"valorProdutos"`
	Total    decimal.Decimal `json:"valorTotal"`
}

// ToCartResponse maps the pending aggregate to its wire shape
func ToCartResponse(o *order.Order) CartResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, ItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	return CartResponse{
		OrderID:  o.ID,
		Items:    items,
		Subtotal: o.Subtotal,
		Total:    o.Total,
	}
}
