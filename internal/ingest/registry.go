package ingest

import (
	"fmt"
	"sort"
	"strings"
)

type Registry struct {
	providers map[string]WebhookAdapter
}

func NewRegistry() *Registry {
	return &Registry{providers: map[string]WebhookAdapter{}}
}

func (r *Registry) Register(adapter WebhookAdapter) {
	if r == nil || adapter == nil {
		return
	}
	if r.providers == nil {
		r.providers = map[string]WebhookAdapter{}
	}
	r.providers[strings.ToLower(strings.TrimSpace(adapter.Provider()))] = adapter
}

func (r *Registry) Adapter(provider string) (WebhookAdapter, error) {
	if r == nil {
		return nil, fmt.Errorf("nil registry")
	}
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	return p, nil
}

func (r *Registry) Providers() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) MustHaveProviders() error {
	if r == nil {
		return fmt.Errorf("nil registry")
	}
	if len(r.providers) == 0 {
		return fmt.Errorf("empty provider registry")
	}
	return nil
}
