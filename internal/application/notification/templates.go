// Package notification reacts to order events with emails and calendar
// entries. Handlers are best effort: a failed side effect is logged and
// never breaks the order flow that produced the event.
package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/icepoint/backend/internal/domain/order"
)

// emailItem is one rendered line item
type emailItem struct {
	Quantity  int
	ProductID int64
	UnitPrice string
	Subtotal  string
}

// emailData feeds the confirmation and cancellation templates
type emailData struct {
	OrderID       int64
	CustomerName  string
	ScheduledDate string
	ScheduledTime string
	Delivery      bool
	AddressLine   string
	Items         []emailItem
	Subtotal      string
	DeliveryFee   string
	Discount      string
	HasDiscount   bool
	Total         string
	Reason        string
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<h2>Olá, {{.CustomerName}}!</h2>
<p>Recebemos a sua encomenda <strong>#{{.OrderID}}</strong> para o dia
<strong>{{.ScheduledDate}}</strong> às <strong>{{.ScheduledTime}}</strong>.</p>
{{if .Delivery}}<p>Entrega em: {{.AddressLine}}</p>{{else}}<p>Retirada no ponto de venda.</p>{{end}}
<table>
{{range .Items}}<tr><td>{{.Quantity}}x produto {{.ProductID}}</td><td>R$ {{.Subtotal}}</td></tr>
{{end}}</table>
<p>Produtos: R$ {{.Subtotal}}<br>
{{if .Delivery}}Taxa de entrega: R$ {{.DeliveryFee}}<br>{{end}}
{{if .HasDiscount}}Desconto: R$ {{.Discount}}<br>{{end}}
<strong>Total: R$ {{.Total}}</strong></p>
<p>Obrigado pela preferência!</p>
`))

var staffTmpl = template.Must(template.New("staff").Parse(`
<h2>Nova encomenda #{{.OrderID}}</h2>
<p>Cliente: {{.CustomerName}}</p>
<p>Agendada para {{.ScheduledDate}} às {{.ScheduledTime}}.</p>
{{if .Delivery}}<p>Entrega em: {{.AddressLine}}</p>{{else}}<p>Retirada no ponto de venda.</p>{{end}}
<p><strong>Total: R$ {{.Total}}</strong></p>
`))

var cancellationTmpl = template.Must(template.New("cancellation").Parse(`
<h2>Encomenda #{{.OrderID}} cancelada</h2>
<p>Olá, {{.CustomerName}}. A encomenda agendada para {{.ScheduledDate}}
foi cancelada.</p>
<p>Motivo: {{.Reason}}</p>
<p>Se isso foi um engano, entre em contato conosco.</p>
`))

func buildEmailData(o *order.Order) emailData {
	items := make([]emailItem, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, emailItem{
			Quantity:  item.Quantity,
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal().StringFixed(2),
		})
	}

	data := emailData{
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		ScheduledTime: o.ScheduledTime,
		Delivery:      o.DeliveryMethod == order.DeliveryDelivery,
		Items:         items,
		Subtotal:      o.Subtotal.StringFixed(2),
		DeliveryFee:   o.DeliveryFee.StringFixed(2),
		Discount:      o.Discount.StringFixed(2),
		HasDiscount:   o.Discount.GreaterThan(decimal.Zero),
		Total:         o.Total.StringFixed(2),
		Reason:        o.CancelReason,
	}
	if o.ScheduledDate != nil {
		data.ScheduledDate = o.ScheduledDate.Format("02/01/2006")
	}
	if data.Delivery {
		data.AddressLine = formatAddress(o.DeliveryAddress)
	}
	return data
}

// formatAddress renders the snapshot as a single human-readable line
func formatAddress(a order.Address) string {
	line := a.Street
	if a.Number != "" {
		line = fmt.Sprintf("%s, %s", line, a.Number)
	}
	if a.Complement != "" {
		line = fmt.Sprintf("%s - %s", line, a.Complement)
	}
	if a.Neighborhood != "" {
		line = fmt.Sprintf("%s, %s", line, a.Neighborhood)
	}
	if a.City != "" {
		line = fmt.Sprintf("%s, %s/%s", line, a.City, a.State)
	}
	if a.PostalCode != "" {
		line = fmt.Sprintf("%s - CEP %s", line, a.PostalCode)
	}
	return line
}

func render(tmpl *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
