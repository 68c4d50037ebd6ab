package lemonsqueezy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"paynotify/internal/ingest"
	"paynotify/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		body       string
		name       string
		successful bool
	}{
		{`{"meta":{"event_name":"order_created"}}`, "order_created", true},
		{`{"meta":{"event_name":"subscription_payment_success"}}`, "subscription_payment_success", true},
		{`{"meta":{"event_name":"order_refunded"}}`, "order_refunded", false},
		{`{"meta":{"event_name":"subscription_created"}}`, "subscription_created", false},
		{`{"meta":{"event_name":"Order_Created"}}`, "Order_Created", false},
		{`{"event":"order_created"}`, "order_created", true},
		{`{"meta":{"event_name":"order_refunded"},"event":"order_created"}`, "order_refunded", false},
		{`{"meta":{"event_name":""},"event":"subscription_payment_success"}`, "subscription_payment_success", true},
		{`{"meta":{"event_name":" order_created "}}`, " order_created ", false},
		{`{"meta":{"event_name":7},"event":"order_created"}`, "order_created", true},
		{`{}`, "", false},
		{`null`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			ev := parse(t, tt.body)
			assert.Equal(t, "lemonsqueezy", ev.Provider())
			assert.Equal(t, tt.name, ev.Name())
			assert.Equal(t, tt.successful, ev.Successful())
		})
	}
}

func TestOrderFromFixture(t *testing.T) {
	body := readFixture(t, "order_created.json")
	ev := parse(t, string(body))
	require.True(t, ev.Successful())

	o := ev.Order()
	assert.Equal(t, "lemonsqueezy", o.Provider)
	assert.Equal(t, "order_created", o.EventName)
	assert.Equal(t, "gernser@yahoo.com", o.BuyerEmail)
	assert.Equal(t, "portfolio", o.WebsiteType)
	assert.Equal(t, "EUR", o.Currency)
	assert.True(t, o.Amount.Equal(decimal.NewFromInt(50)), "amount %s", o.Amount)
	assert.Equal(t, string(body), string(o.Raw))
}

func TestOrderExtraction(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		email       string
		websiteType string
		currency    string
		amount      string
	}{
		{
			name:        "minor units scaled",
			body:        `{"data":{"attributes":{"total":2500}}}`,
			websiteType: "unknown",
			currency:    "USD",
			amount:      "25",
		},
		{
			name:        "odd cents",
			body:        `{"data":{"attributes":{"total":1999,"currency":"GBP"}}}`,
			websiteType: "unknown",
			currency:    "GBP",
			amount:      "19.99",
		},
		{
			name:        "string total",
			body:        `{"data":{"attributes":{"total":"5000"}}}`,
			websiteType: "unknown",
			currency:    "USD",
			amount:      "50",
		},
		{
			name:        "missing total",
			body:        `{"data":{"attributes":{}}}`,
			websiteType: "unknown",
			currency:    "USD",
			amount:      "0",
		},
		{
			name:        "garbage total",
			body:        `{"data":{"attributes":{"total":"n/a"}}}`,
			websiteType: "unknown",
			currency:    "USD",
			amount:      "0",
		},
		{
			name:        "customer email fallback",
			body:        `{"data":{"attributes":{"customer_email":"a@b.com"}}}`,
			email:       "a@b.com",
			websiteType: "unknown",
			currency:    "USD",
			amount:      "0",
		},
		{
			name:        "user email wins",
			body:        `{"data":{"attributes":{"user_email":"u@b.com","customer_email":"c@b.com"}}}`,
			email:       "u@b.com",
			websiteType: "unknown",
			currency:    "USD",
			amount:      "0",
		},
		{
			name:        "meta custom data fallback",
			body:        `{"meta":{"custom_data":{"websiteType":"shop"}},"data":{"attributes":{}}}`,
			websiteType: "shop",
			currency:    "USD",
			amount:      "0",
		},
		{
			name:        "attributes custom wins",
			body:        `{"meta":{"custom_data":{"websiteType":"shop"}},"data":{"attributes":{"custom":{"websiteType":"blog"}}}}`,
			websiteType: "blog",
			currency:    "USD",
			amount:      "0",
		},
		{
			name:        "non-string website type",
			body:        `{"meta":{"custom_data":{"websiteType":42}}}`,
			websiteType: "unknown",
			currency:    "USD",
			amount:      "0",
		},
		{
			name:        "empty currency",
			body:        `{"data":{"attributes":{"currency":""}}}`,
			websiteType: "unknown",
			currency:    "USD",
			amount:      "0",
		},
		{
			name:        "no data at all",
			body:        `{"meta":{"event_name":"order_created"}}`,
			websiteType: "unknown",
			currency:    "USD",
			amount:      "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := parse(t, tt.body).Order()
			assert.Equal(t, tt.email, o.BuyerEmail)
			assert.Equal(t, tt.websiteType, o.WebsiteType)
			assert.Equal(t, tt.currency, o.Currency)
			assert.True(t, o.Amount.Equal(decimal.RequireFromString(tt.amount)), "amount got %s want %s", o.Amount, tt.amount)
		})
	}
}

func TestWrongTypedFieldsDoNotFailParse(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		email       string
		websiteType string
		currency    string
		amount      string
	}{
		{
			name:        "numeric data id",
			body:        `{"meta":{"event_name":"order_created"},"data":{"id":42,"attributes":{"total":5000}}}`,
			websiteType: "unknown",
			currency:    "USD",
			amount:      "50",
		},
		{
			name:        "null user email falls through to customer email",
			body:        `{"meta":{"event_name":"order_created"},"data":{"attributes":{"user_email":null,"customer_email":"a@b.com","total":5000}}}`,
			email:       "a@b.com",
			websiteType: "unknown",
			currency:    "USD",
			amount:      "50",
		},
		{
			name:        "numeric user email",
			body:        `{"meta":{"event_name":"order_created"},"data":{"attributes":{"user_email":7,"total":5000}}}`,
			email:       "7",
			websiteType: "unknown",
			currency:    "USD",
			amount:      "50",
		},
		{
			name:        "object currency",
			body:        `{"meta":{"event_name":"order_created"},"data":{"attributes":{"currency":{"code":"EUR"},"total":5000}}}`,
			websiteType: "unknown",
			currency:    "USD",
			amount:      "50",
		},
		{
			name:        "string custom data",
			body:        `{"meta":{"event_name":"order_created","custom_data":"portfolio"},"data":{"attributes":{"custom":[1],"total":5000}}}`,
			websiteType: "unknown",
			currency:    "USD",
			amount:      "50",
		},
		{
			name:        "attributes not an object",
			body:        `{"meta":{"event_name":"order_created"},"data":{"attributes":"n/a"}}`,
			websiteType: "unknown",
			currency:    "USD",
			amount:      "0",
		},
		{
			name:        "data not an object",
			body:        `{"meta":{"event_name":"order_created","custom_data":{"websiteType":"blog"}},"data":[1,2]}`,
			websiteType: "blog",
			currency:    "USD",
			amount:      "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := parse(t, tt.body)
			require.True(t, ev.Successful())
			o := ev.Order()
			assert.Equal(t, tt.email, o.BuyerEmail)
			assert.Equal(t, tt.websiteType, o.WebsiteType)
			assert.Equal(t, tt.currency, o.Currency)
			assert.True(t, o.Amount.Equal(decimal.RequireFromString(tt.amount)), "amount got %s want %s", o.Amount, tt.amount)
		})
	}
}

func TestMetaNotAnObjectReadsAsAbsent(t *testing.T) {
	ev := parse(t, `{"meta":"order_created","event":"order_created"}`)
	assert.Equal(t, "order_created", ev.Name())
	assert.True(t, ev.Successful())
}

func TestParseMalformed(t *testing.T) {
	for _, body := range []string{`{"meta":`, `[]`, `"order_created"`, ``} {
		_, err := Parser{}.Parse([]byte(body))
		require.Error(t, err, body)
		assert.True(t, errors.Is(err, ingest.ErrMalformedPayload), body)
	}
}

func parse(t *testing.T, body string) model.WebhookEvent {
	t.Helper()
	ev, err := Parser{}.Parse([]byte(body))
	require.NoError(t, err)
	return ev
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return b
}
