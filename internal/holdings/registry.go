package holdings

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Registry maps ETF symbols to their provider configuration.
type Registry struct {
	etfs  map[string]ETF
	order []string // insertion order for deterministic iteration
}

// NewRegistry creates a registry populated with the default ETF table.
func NewRegistry() *Registry {
	r := &Registry{etfs: make(map[string]ETF)}

	// SSGA daily holdings workbooks.
	r.Register(ETF{Symbol: "spy", Provider: SSGA, URL: "https://www.ssga.com/us/en/individual/library-content/products/fund-data/etfs/us/holdings-daily-us-en-spy.xlsx"})
	r.Register(ETF{Symbol: "mdy", Provider: SSGA, URL: "https://www.ssga.com/us/en/individual/library-content/products/fund-data/etfs/us/holdings-daily-us-en-mdy.xlsx"})
	r.Register(ETF{Symbol: "spsm", Provider: SSGA, URL: "https://www.ssga.com/us/en/individual/library-content/products/fund-data/etfs/us/holdings-daily-us-en-spsm.xlsx"})

	// Delimited feeds. QQQ uses the Direxion-style aliased-column CSV format.
	r.Register(ETF{Symbol: "qqq", Provider: Direxion, URL: "https://www.invesco.com/us/financial-products/etfs/holdings/main/holdings/0?audienceType=Investor&action=download&ticker=QQQ"})
	r.Register(ETF{Symbol: "iwm", Provider: IShares, URL: "https://www.ishares.com/us/products/239710/ishares-russell-2000-etf/1467271812596.ajax?fileType=csv&fileName=IWM_holdings&dataType=fund"})

	return r
}

// Register adds or replaces an ETF entry. Symbols are stored lowercase.
// The zero Registry is usable.
func (r *Registry) Register(e ETF) {
	if r.etfs == nil {
		r.etfs = make(map[string]ETF)
	}
	sym := strings.ToLower(strings.TrimSpace(e.Symbol))
	e.Symbol = sym
	if _, exists := r.etfs[sym]; !exists {
		r.order = append(r.order, sym)
	}
	r.etfs[sym] = e
}

// Get returns the ETF config for a symbol, case-insensitively.
func (r *Registry) Get(symbol string) (ETF, error) {
	e, ok := r.etfs[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok {
		return ETF{}, eris.Errorf("unknown ETF symbol %q (configured: %s)", symbol, strings.Join(r.Symbols(), ", "))
	}
	return e, nil
}

// Select returns the named ETFs, or all of them when symbols is empty.
func (r *Registry) Select(symbols []string) ([]ETF, error) {
	if len(symbols) == 0 {
		return r.All(), nil
	}
	result := make([]ETF, 0, len(symbols))
	for _, sym := range symbols {
		e, err := r.Get(sym)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

// All returns every ETF in registration order.
func (r *Registry) All() []ETF {
	result := make([]ETF, 0, len(r.order))
	for _, sym := range r.order {
		result = append(result, r.etfs[sym])
	}
	return result
}

// Symbols returns all registered symbols in registration order.
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
