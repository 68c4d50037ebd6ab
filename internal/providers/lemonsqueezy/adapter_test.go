package lemonsqueezy

import (
	"errors"
	"net/http"
	"testing"

	"paynotify/internal/ingest"
	"paynotify/internal/providers/shared"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	body := []byte(`{"meta":{"event_name":"order_created"}}`)
	secret := "ls-signing-secret"

	tests := []struct {
		name    string
		secret  string
		header  string
		value   string
		wantErr bool
	}{
		{"valid", secret, "X-Signature", shared.Sign(shared.SHA256, secret, body), false},
		{"lowercase header name", secret, "x-signature", shared.Sign(shared.SHA256, secret, body), false},
		{"sha512 digest", secret, "X-Signature", shared.Sign(shared.SHA512, secret, body), true},
		{"wrong secret", secret, "X-Signature", shared.Sign(shared.SHA256, "other", body), true},
		{"missing header", secret, "", "", true},
		{"unset secret", "", "X-Signature", shared.Sign(shared.SHA256, "", body), true},
		{"nowpayments header", secret, "X-Nowpayments-Sig", shared.Sign(shared.SHA256, secret, body), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set(tt.header, tt.value)
			}
			err := NewAdapter(tt.secret).Authorize(h, body)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ingest.ErrInvalidSignature), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAdapterDefaults(t *testing.T) {
	a := Adapter{Secret: "s"}
	assert.Equal(t, "lemonsqueezy", a.Provider())
	assert.Equal(t, "X-Signature", a.SignatureHeader())

	body := []byte(`{"event":"order_created"}`)
	h := http.Header{}
	h.Set("X-Signature", shared.Sign(shared.SHA256, "s", body))
	assert.NoError(t, a.Authorize(h, body))

	ev, err := a.Parse(body)
	assert.NoError(t, err)
	assert.True(t, ev.Successful())
}
