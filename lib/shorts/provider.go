package shorts

import (
	"context"
	"fmt"
	"time"
)

// TimeFrame selects the window a provider should report positions for.
// The zero value means "currently alive positions".
type TimeFrame struct {
	// Since selects historical positions opened after this instant. When
	// zero, only currently alive positions are requested.
	Since time.Time
}

// Current reports whether the time frame asks for alive positions only.
func (tf TimeFrame) Current() bool {
	return tf.Since.IsZero()
}

// Provider yields the short positions disclosed against a company over a time
// frame. Each regulator publishes disclosures differently, so there is one
// implementation per supported source.
type Provider interface {
	Positions(ctx context.Context, company Company, tf TimeFrame) (AliveShortPositions, error)
}

// Registry links regulators to the provider that scrapes their disclosures.
type Registry struct {
	providers map[Regulator]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: map[Regulator]Provider{}}
}

func (r *Registry) Register(reg Regulator, p Provider) {
	r.providers[reg] = p
}

// Lookup resolves the provider for a company through its regulator.
func (r *Registry) Lookup(company Company) (Provider, error) {
	reg := company.Regulator()
	p, ok := r.providers[reg]
	if !ok {
		return nil, fmt.Errorf("no provider registered for regulator %q (company %s)", reg, company)
	}
	return p, nil
}
