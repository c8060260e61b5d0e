package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/icepoint/backend/internal/domain/fleet"
	"github.com/icepoint/backend/internal/domain/order"
)

// CheckoutItem is one client-declared line item in the checkout payload
type CheckoutItem struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// PersonalData is the customer snapshot carried in the checkout payload.
// Omitted fields fall back to the stored account profile.
type PersonalData struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	CPF       string `json:"cpf"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthDate"`
}

// CheckoutRequest converts the pending cart into a scheduled order.
// Field names follow the storefront wire contract.
type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items" binding:"required"`
	CartIDs         []int64        `json:"cartIds"`
	DataAgendada    string         `json:"dataAgendada" binding:"required"`
	HoraAgendada    string         `json:"horaAgendada" binding:"required"`
	MetodoEntrega   string         `json:"metodoEntrega" binding:"required,oneof=PICKUP DELIVERY"`
	MetodoPagamento string         `json:"metodoPagamento" binding:"required,oneof=PIX CASH ONLINE"`
	PersonalData    *PersonalData  `json:"personalData"`

	EnderecoCep         string `json:"enderecoCep" binding:"omitempty,cep"`
	EnderecoLogradouro  string `json:"enderecoLogradouro"`
	EnderecoNumero      string `json:"enderecoNumero"`
	EnderecoComplemento string `json:"enderecoComplemento"`
	EnderecoBairro      string `json:"enderecoBairro"`
	EnderecoCidade      string `json:"enderecoCidade"`
	EnderecoEstado      string `json:"enderecoEstado"`
}

// Address returns the delivery address snapshot from the payload
func (r *CheckoutRequest) Address() order.Address {
	return order.Address{
		PostalCode:   r.EnderecoCep,
		Street:       r.EnderecoLogradouro,
		Number:       r.EnderecoNumero,
		Complement:   r.EnderecoComplemento,
		Neighborhood: r.EnderecoBairro,
		City:         r.EnderecoCidade,
		State:        r.EnderecoEstado,
	}
}

// CheckoutResponse reports the checkout outcome with its financial breakdown
type CheckoutResponse struct {
	OrderID     int64           `json:"orderId"`
	Status      order.Status    `json:"status"`
	Subtotal    decimal.Decimal `json:"valorProdutos"`
	DeliveryFee decimal.Decimal `json:"taxaEntrega"`
	Discount    decimal.Decimal `json:"valorDesconto"`
	Total       decimal.Decimal `json:"valorTotal"`
}

// CancelRequest carries the mandatory cancellation reason
type CancelRequest struct {
	Motivo string `json:"motivo" binding:"required"`
}

// UpdateStatusRequest moves the order along its lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest flips the payment status
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING PAID"`
}

// ItemResponse is one stored line item on an order
type ItemResponse struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"precoUnitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartAllocationResponse is one physical cart reserved by the order
type CartAllocationResponse struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// AddressResponse is the delivery address snapshot
type AddressResponse struct {
	Cep         string `json:"cep,omitempty"`
	Logradouro  string `json:"logradouro,omitempty"`
	Numero      string `json:"numero,omitempty"`
	Complemento string `json:"complemento,omitempty"`
	Bairro      string `json:"bairro,omitempty"`
	Cidade      string `json:"cidade,omitempty"`
	Estado      string `json:"estado,omitempty"`
}

// OrderResponse is the full order view
type OrderResponse struct {
	ID              int64                    `json:"id"`
	CustomerName    string                   `json:"nomeCliente"`
	CustomerEmail   string                   `json:"emailCliente"`
	CustomerPhone   string                   `json:"telefoneCliente,omitempty"`
	ScheduledDate   string                   `json:"dataAgendada,omitempty"`
	ScheduledTime   string                   `json:"horaAgendada,omitempty"`
	DeliveryMethod  order.DeliveryMethod     `json:"metodoEntrega"`
	DeliveryAddress *AddressResponse         `json:"endereco,omitempty"`
	Subtotal        decimal.Decimal          `json:"valorProdutos"`
	DeliveryFee     decimal.Decimal          `json:"taxaEntrega"`
	Discount        decimal.Decimal          `json:"valorDesconto"`
	Total           decimal.Decimal          `json:"valorTotal"`
	PaymentMethod   order.PaymentMethod      `json:"metodoPagamento"`
	PaymentStatus   order.PaymentStatus      `json:"statusPagamento"`
	Status          order.Status             `json:"status"`
	CancelReason    string                   `json:"motivoCancelamento,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
	Items           []ItemResponse           `json:"items"`
	Carts           []CartAllocationResponse `json:"carrinhos"`
}

// ToOrderResponse maps the aggregate to its wire shape
func ToOrderResponse(o *order.Order) OrderResponse {
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

	carts := make([]CartAllocationResponse, 0, len(o.Carts))
	for i := range o.Carts {
		carts = append(carts, CartAllocationResponse{
			ID:    o.Carts[i].ID,
			Label: o.Carts[i].Label,
			Color: o.Carts[i].Color,
		})
	}

	resp := OrderResponse{
		ID:             o.ID,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		CustomerPhone:  o.CustomerPhone,
		ScheduledTime:  o.ScheduledTime,
		DeliveryMethod: o.DeliveryMethod,
		Subtotal:       o.Subtotal,
		DeliveryFee:    o.DeliveryFee,
		Discount:       o.Discount,
		Total:          o.Total,
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		Status:         o.Status,
		CancelReason:   o.CancelReason,
		CreatedAt:      o.CreatedAt,
		Items:          items,
		Carts:          carts,
	}
	if o.ScheduledDate != nil {
		resp.ScheduledDate = o.ScheduledDate.Format("2006-01-02")
	}
	if o.DeliveryMethod == order.DeliveryDelivery {
		resp.DeliveryAddress = &AddressResponse{
			Cep:         o.DeliveryAddress.PostalCode,
			Logradouro:  o.DeliveryAddress.Street,
			Numero:      o.DeliveryAddress.Number,
			Complemento: o.DeliveryAddress.Complement,
			Bairro:      o.DeliveryAddress.Neighborhood,
			Cidade:      o.DeliveryAddress.City,
			Estado:      o.DeliveryAddress.State,
		}
	}
	return resp
}

// AvailabilityDetail is one cart's availability on the requested date
type AvailabilityDetail struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	Capacity  int    `json:"capacity"`
	Available bool   `json:"available"`
}

// AvailabilityResponse reports which physical carts are free for a date
type AvailabilityResponse struct {
	Date           string               `json:"date"`
	TotalAvailable int                  `json:"totalAvailable"`
	ByColor        map[string]int       `json:"byColor"`
	Details        []AvailabilityDetail `json:"details"`
}

// toAvailabilityDetail maps a cart plus its busy flag
func toAvailabilityDetail(c *fleet.Cart, available bool) AvailabilityDetail {
	return AvailabilityDetail{
		ID:        c.ID,
		Label:     c.Label,
		Color:     c.Color,
		Capacity:  c.Capacity,
		Available: available,
	}
}
