package nowpayments

import (
	"strings"

	"paynotify/internal/ingest"
	"paynotify/internal/model"
	"paynotify/internal/providers/shared"
)

const defaultSignatureHeader = "X-Nowpayments-Sig"

type Adapter struct {
	Parser    ingest.Parser
	Algorithm shared.Algorithm
	Header    string
	Secret    string
}

func NewAdapter(secret string) Adapter {
	return Adapter{
		Parser:    Parser{},
		Algorithm: shared.SHA512,
		Header:    defaultSignatureHeader,
		Secret:    secret,
	}
}

func (a Adapter) Provider() string { return provider }

func (a Adapter) SignatureHeader() string {
	if strings.TrimSpace(a.Header) == "" {
		return defaultSignatureHeader
	}
	return a.Header
}

func (a Adapter) Authorize(headers ingest.HeaderReader, body []byte) error {
	alg := a.Algorithm
	if alg == "" {
		alg = shared.SHA512
	}
	if !shared.ValidHexSignature(alg, strings.TrimSpace(a.Secret), body, headers.Get(a.SignatureHeader())) {
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
