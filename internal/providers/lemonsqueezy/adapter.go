package lemonsqueezy

import (
	"strings"

	"paynotify/internal/ingest"
	"paynotify/internal/model"
	"paynotify/internal/providers/shared"
)

const defaultSignatureHeader = "X-Signature"

type Adapter struct {
	Parser    ingest.Parser
	Algorithm shared.Algorithm
	Header    string
	Secret    string
}

func NewAdapter(secret string) Adapter {
	return Adapter{
		Parser:    Parser{},
		Algorithm: shared.SHA256,
		Header:    defaultSignatureHeader,
		Secret:    secret,
	}
}

func (a Adapter) Provider() string { return provider }

func (a Adapter) SignatureHeader() string {
	return nonEmpty(a.Header, defaultSignatureHeader)
}

func (a Adapter) Authorize(headers ingest.HeaderReader, body []byte) error {
	header := headers.Get(a.SignatureHeader())
	if !shared.ValidHexSignature(a.algorithm(), strings.TrimSpace(a.Secret), body, header) {
		return ingest.ErrInvalidSignature
	}
	return nil
}

func (a Adapter) Parse(body []byte) (model.WebhookEvent, error) {
	p := a.Parser
	if p == nil {
		p = Parser{}
	}
	return p.Parse(body)
}

func (a Adapter) algorithm() shared.Algorithm {
	if a.Algorithm == "" {
		return shared.SHA256
	}
	return a.Algorithm
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
