package lemonsqueezy

import (
	"encoding/json"
	"fmt"

	"paynotify/internal/ingest"
	"paynotify/internal/model"
	"paynotify/internal/providers/shared"

	"github.com/shopspring/decimal"
)

const provider = "lemonsqueezy"

var successfulEvents = map[string]bool{
	"order_created":                true,
	"subscription_payment_success": true,
}

// Event is a LemonSqueezy webhook body. Every field is optional and decodes
// leniently: a value of the wrong JSON type reads as absent.
type Event struct {
	Meta        *Meta       `json:"meta,omitempty"`
	LegacyEvent shared.Text `json:"event"`
	Data        *Data       `json:"data,omitempty"`

	raw json.RawMessage
}

type Meta struct {
	EventName  shared.Text   `json:"event_name"`
	CustomData shared.Fields `json:"custom_data,omitempty"`
}

type Data struct {
	Attributes *Attributes `json:"attributes,omitempty"`
}

type Attributes struct {
	UserEmail     shared.Text   `json:"user_email"`
	CustomerEmail shared.Text   `json:"customer_email"`
	Currency      shared.Text   `json:"currency"`
	Total         shared.Amount `json:"total"`
	Custom        shared.Fields `json:"custom,omitempty"`
}

func (m *Meta) UnmarshalJSON(b []byte) error {
	type plain Meta
	var p plain
	if shared.IsObject(b) {
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
	}
	*m = Meta(p)
	return nil
}

func (d *Data) UnmarshalJSON(b []byte) error {
	type plain Data
	var p plain
	if shared.IsObject(b) {
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
	}
	*d = Data(p)
	return nil
}

func (a *Attributes) UnmarshalJSON(b []byte) error {
	type plain Attributes
	var p plain
	if shared.IsObject(b) {
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
	}
	*a = Attributes(p)
	return nil
}

func (m *Meta) GetEventName() string {
	if m == nil {
		return ""
	}
	return m.EventName.String()
}

func (m *Meta) GetCustomData() map[string]any {
	if m == nil {
		return nil
	}
	return m.CustomData
}

func (e *Event) GetMeta() *Meta {
	if e == nil {
		return nil
	}
	return e.Meta
}

func (e *Event) GetLegacyEvent() string {
	if e == nil {
		return ""
	}
	return e.LegacyEvent.String()
}

func (e *Event) GetAttributes() *Attributes {
	if e == nil || e.Data == nil {
		return nil
	}
	return e.Data.Attributes
}

func (a *Attributes) GetUserEmail() string {
	if a == nil {
		return ""
	}
	return a.UserEmail.String()
}

func (a *Attributes) GetCustomerEmail() string {
	if a == nil {
		return ""
	}
	return a.CustomerEmail.String()
}

func (a *Attributes) GetCurrency() string {
	if a == nil {
		return ""
	}
	return a.Currency.String()
}

// GetTotal is the order total in minor currency units.
func (a *Attributes) GetTotal() decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	return a.Total.Decimal()
}

func (a *Attributes) GetCustom() map[string]any {
	if a == nil {
		return nil
	}
	return a.Custom
}

func (e *Event) Provider() string { return provider }

// Name is meta.event_name exactly as sent, falling back to the legacy
// top-level event field when meta.event_name is empty.
func (e *Event) Name() string {
	if name := e.GetMeta().GetEventName(); name != "" {
		return name
	}
	return e.GetLegacyEvent()
}

func (e *Event) Successful() bool {
	return successfulEvents[e.Name()]
}

func (e *Event) Order() model.OrderNotification {
	attrs := e.GetAttributes()
	websiteType := shared.NonEmpty(
		shared.StringField(attrs.GetCustom(), "websiteType"),
		shared.StringField(e.GetMeta().GetCustomData(), "websiteType"),
	)
	return model.OrderNotification{
		Provider:    provider,
		EventName:   e.Name(),
		BuyerEmail:  shared.NonEmpty(attrs.GetUserEmail(), attrs.GetCustomerEmail()),
		WebsiteType: shared.NonEmpty(websiteType, shared.UnknownWebsiteType),
		Amount:      attrs.GetTotal().Shift(-2),
		Currency:    shared.NonEmpty(attrs.GetCurrency(), shared.DefaultCurrency),
		Raw:         e.raw,
	}
}

type Parser struct{}

func (Parser) Parse(body []byte) (model.WebhookEvent, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, fmt.Errorf("%w: lemonsqueezy: %v", ingest.ErrMalformedPayload, err)
	}
	e.raw = append(json.RawMessage(nil), body...)
	return &e, nil
}
