package nowpayments

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"paynotify/internal/ingest"
	"paynotify/internal/model"
	"paynotify/internal/providers/shared"

	"github.com/shopspring/decimal"
)

const (
	provider       = "nowpayments"
	finishedStatus = "finished"
)

var websiteTypePattern = regexp.MustCompile(`(?i)type=(\w+)`)

// Event is an IPN callback body. Amounts are in major units. Fields decode
// leniently: a value of the wrong JSON type reads as absent.
type Event struct {
	PaymentStatus    shared.Text   `json:"payment_status"`
	CustomerEmail    shared.Text   `json:"customer_email"`
	PriceAmount      shared.Amount `json:"price_amount"`
	PriceCurrency    shared.Text   `json:"price_currency"`
	OrderDescription shared.Text   `json:"order_description"`

	raw json.RawMessage
}

func (e *Event) GetPaymentStatus() string {
	if e == nil {
		return ""
	}
	return e.PaymentStatus.String()
}

func (e *Event) GetCustomerEmail() string {
	if e == nil {
		return ""
	}
	return e.CustomerEmail.String()
}

func (e *Event) GetPriceAmount() decimal.Decimal {
	if e == nil {
		return decimal.Zero
	}
	return e.PriceAmount.Decimal()
}

func (e *Event) GetPriceCurrency() string {
	if e == nil {
		return ""
	}
	return e.PriceCurrency.String()
}

func (e *Event) GetOrderDescription() string {
	if e == nil {
		return ""
	}
	return e.OrderDescription.String()
}

func (e *Event) Provider() string { return provider }

// Name is the payment status exactly as sent.
func (e *Event) Name() string { return e.GetPaymentStatus() }

func (e *Event) Successful() bool { return e.Name() == finishedStatus }

func (e *Event) Order() model.OrderNotification {
	return model.OrderNotification{
		Provider:    provider,
		EventName:   e.Name(),
		BuyerEmail:  strings.TrimSpace(e.GetCustomerEmail()),
		WebsiteType: WebsiteType(e.GetOrderDescription()),
		Amount:      e.GetPriceAmount(),
		Currency:    shared.NonEmpty(e.GetPriceCurrency(), shared.DefaultCurrency),
		Raw:         e.raw,
	}
}

// WebsiteType pulls the lower-cased word out of a "type=<word>" token in a
// free-text order description.
func WebsiteType(description string) string {
	m := websiteTypePattern.FindStringSubmatch(description)
	if len(m) < 2 {
		return shared.UnknownWebsiteType
	}
	return strings.ToLower(m[1])
}

type Parser struct{}

func (Parser) Parse(body []byte) (model.WebhookEvent, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, fmt.Errorf("%w: nowpayments: %v", ingest.ErrMalformedPayload, err)
	}
	e.raw = append(json.RawMessage(nil), body...)
	return &e, nil
}
