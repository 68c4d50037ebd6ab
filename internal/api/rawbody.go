package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// RawRequest is the request body exactly as received plus its headers.
// Signatures are computed over Body, so it must never be re-encoded.
type RawRequest struct {
	Body   []byte
	Header http.Header
}

type ctxKey int

const (
	rawRequestKey ctxKey = iota
	parsedJSONKey
)

func RawRequestFrom(ctx context.Context) (RawRequest, bool) {
	raw, ok := ctx.Value(rawRequestKey).(RawRequest)
	return raw, ok
}

// parsedJSON returns the eagerly decoded body of a non-webhook JSON request.
func parsedJSON(ctx context.Context) (any, bool) {
	v, ok := ctx.Value(parsedJSONKey).(parsedBody)
	return v.value, ok
}

type parsedBody struct{ value any }

// captureBody buffers request bodies once, before any handler decodes them.
// Requests under prefix keep their exact bytes for signature checks; other
// JSON requests are decoded eagerly and keep the bytes as well.
func captureBody(prefix string, limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			webhook := strings.HasPrefix(r.URL.Path, prefix)
			if r.Body == nil || r.Body == http.NoBody || (!webhook && !isJSONContentType(r.Header.Get("Content-Type"))) {
				next.ServeHTTP(w, r)
				return
			}
			body, err := readBodyLimited(w, r, limit)
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					writeText(w, http.StatusRequestEntityTooLarge, "payload too large")
					return
				}
				writeText(w, http.StatusBadRequest, "unable to read body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			ctx := context.WithValue(r.Context(), rawRequestKey, RawRequest{
				Body:   body,
				Header: r.Header.Clone(),
			})
			if !webhook && len(body) > 0 {
				var v any
				if err := json.Unmarshal(body, &v); err != nil {
					writeText(w, http.StatusBadRequest, "invalid JSON body")
					return
				}
				ctx = context.WithValue(ctx, parsedJSONKey, parsedBody{value: v})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
