package shared

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"
)

type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
)

func (a Algorithm) hasher() func() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New
	case SHA512:
		return sha512.New
	default:
		return nil
	}
}

// Sign returns the lowercase hex HMAC of body under secret.
// It returns "" for an unknown algorithm.
func Sign(alg Algorithm, secret string, body []byte) string {
	h := alg.hasher()
	if h == nil {
		return ""
	}
	mac := hmac.New(h, []byte(secret))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidHexSignature reports whether header carries the hex HMAC of body.
// A missing secret, header or body is always a rejection.
func ValidHexSignature(alg Algorithm, secret string, body []byte, header string) bool {
	header = strings.TrimSpace(header)
	if secret == "" || header == "" || len(body) == 0 {
		return false
	}
	expected := Sign(alg, secret, body)
	if expected == "" {
		return false
	}
	// hmac.Equal only short-circuits on length, which is public.
	return hmac.Equal([]byte(expected), []byte(header))
}
