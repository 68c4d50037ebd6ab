package ingest

import (
	"errors"
	"testing"

	"paynotify/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct{ name string }

func (s stubAdapter) Provider() string        { return s.name }
func (s stubAdapter) SignatureHeader() string { return "X-Test" }
func (s stubAdapter) Authorize(HeaderReader, []byte) error {
	return nil
}
func (s stubAdapter) Parse([]byte) (model.WebhookEvent, error) { return nil, nil }

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	require.Error(t, r.MustHaveProviders())

	r.Register(stubAdapter{name: " NowPayments "})
	r.Register(stubAdapter{name: "lemonsqueezy"})
	r.Register(nil)
	require.NoError(t, r.MustHaveProviders())

	a, err := r.Adapter("NOWPAYMENTS")
	require.NoError(t, err)
	assert.Equal(t, " NowPayments ", a.Provider())
	assert.Equal(t, []string{"lemonsqueezy", "nowpayments"}, r.Providers())

	_, err = r.Adapter("stripe")
	assert.True(t, errors.Is(err, ErrUnsupportedProvider))
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	_, err := r.Adapter("lemonsqueezy")
	assert.Error(t, err)
	assert.Error(t, r.MustHaveProviders())
	assert.Nil(t, r.Providers())
	r.Register(stubAdapter{name: "x"})
}
