package notify

import (
	"html/template"

	"paynotify/internal/model"
)

type ownerView struct {
	SiteName     string
	Order        model.OrderNotification
	Amount       string
	BuyerEmail   string
	EnvelopeID   string
	EnvelopeType string
	ReceivedAt   string
	Raw          string
}

type buyerView struct {
	SiteName string
	Order    model.OrderNotification
	Amount   string
}

var ownerTemplate = template.Must(template.New("owner").Parse(`<h2>New order{{if .SiteName}} on {{.SiteName}}{{end}}</h2>
<table>
  <tr><td>Provider</td><td>{{.Order.Provider}}</td></tr>
  <tr><td>Event</td><td>{{.Order.EventName}}</td></tr>
  <tr><td>Website type</td><td>{{.Order.WebsiteType}}</td></tr>
  <tr><td>Amount</td><td>{{.Amount}} {{.Order.Currency}}</td></tr>
  <tr><td>Buyer</td><td>{{.BuyerEmail}}</td></tr>
  <tr><td>Received</td><td>{{.ReceivedAt}}</td></tr>
  <tr><td>Event id</td><td>{{.EnvelopeID}} ({{.EnvelopeType}})</td></tr>
</table>
<h3>Raw event</h3>
<pre>{{.Raw}}</pre>
`))

var buyerTemplate = template.Must(template.New("buyer").Parse(`<p>Hi,</p>
<p>Thanks for your order at {{.SiteName}}. We received your payment of {{.Amount}} {{.Order.Currency}}
for a <strong>{{.Order.WebsiteType}}</strong> website and will be in touch shortly.</p>
`))
