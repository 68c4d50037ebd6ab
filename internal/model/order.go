package model

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/shopspring/decimal"
)

// WebhookEvent is a verified, parsed provider payload. Each provider package
// supplies its own variant.
type WebhookEvent interface {
	Provider() string
	// Name is the provider's event name or payment status.
	Name() string
	// Successful reports whether the event is a completed payment.
	Successful() bool
	Order() OrderNotification
}

type OrderNotification struct {
	Provider    string          `json:"provider"`
	EventName   string          `json:"event_name"`
	BuyerEmail  string          `json:"buyer_email,omitempty"`
	WebsiteType string          `json:"website_type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Raw         json.RawMessage `json:"raw"`
}

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func LooksLikeEmail(s string) bool {
	return emailShape.MatchString(s)
}

func (o OrderNotification) BuyerEmailValid() bool {
	return o.BuyerEmail != "" && LooksLikeEmail(o.BuyerEmail)
}

// PrettyRaw renders the original payload indented. Invalid JSON is returned
// verbatim.
func (o OrderNotification) PrettyRaw() string {
	if len(o.Raw) == 0 {
		return "{}"
	}
	var v any
	if err := json.Unmarshal(o.Raw, &v); err != nil {
		return string(o.Raw)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(o.Raw)
	}
	return string(b)
}

func (o OrderNotification) ToCloudEvent(id string, at time.Time) (event.Event, error) {
	ce := cloudevents.NewEvent()
	ce.SetID(id)
	ce.SetSource("/webhook/" + o.Provider)
	ce.SetType("paynotify.order." + strings.ReplaceAll(strings.ToLower(o.EventName), " ", "_"))
	ce.SetTime(at)
	ce.SetSubject(o.WebsiteType)

	ce.SetExtension("provider", o.Provider)
	ce.SetExtension("currency", o.Currency)
	ce.SetExtension("amount", o.Amount.String())

	if err := ce.SetData(cloudevents.ApplicationJSON, []byte(o.Raw)); err != nil {
		return ce, err
	}
	return ce, ce.Validate()
}
