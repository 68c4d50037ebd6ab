package ingest

import (
	"errors"

	"paynotify/internal/model"
)

var (
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrMalformedPayload    = errors.New("malformed webhook payload")
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

type Parser interface {
	Parse(body []byte) (model.WebhookEvent, error)
}

type HeaderReader interface {
	Get(key string) string
}

type WebhookAdapter interface {
	Provider() string
	SignatureHeader() string
	Authorize(headers HeaderReader, body []byte) error
	Parse(body []byte) (model.WebhookEvent, error)
}
