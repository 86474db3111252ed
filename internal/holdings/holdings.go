// Package holdings downloads ETF holdings feeds, normalizes them to a
// canonical {Ticker, Name, Weight} schema, and drives the per-symbol
// report pipeline.
package holdings

import (
	"github.com/rotisserie/eris"
)

// Provider identifies the publisher format of a holdings feed.
type Provider int

const (
	// SSGA publishes daily holdings as an XLSX workbook with a 4-row title block.
	SSGA Provider = iota + 1
	// IShares publishes a CSV with 9 rows of fund metadata above the header.
	IShares
	// Direxion publishes a plain CSV whose column names changed in 2025.
	Direxion
)

// String returns the lowercase provider name used in config and logs.
func (p Provider) String() string {
	switch p {
	case SSGA:
		return "ssga"
	case IShares:
		return "ishares"
	case Direxion:
		return "direxion"
	default:
		return "unknown"
	}
}

// ParseProvider converts a config string into a Provider.
func ParseProvider(s string) (Provider, error) {
	switch s {
	case "ssga":
		return SSGA, nil
	case "ishares":
		return IShares, nil
	case "direxion":
		return Direxion, nil
	default:
		return 0, eris.Errorf("unknown provider: %q (valid: ssga, ishares, direxion)", s)
	}
}

// ETF is one immutable configuration entry: which provider serves the
// holdings feed for a symbol, and where.
type ETF struct {
	Symbol   string
	Provider Provider
	URL      string
}

// RawTable is a provider-native holdings table: the header row plus every
// data row, with all original columns preserved. It only exists between a
// loader and the normalizer.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Holding is one canonical holdings record. Ticker is uppercase and
// non-empty; Weight is a portfolio percentage in [0, 100].
type Holding struct {
	Ticker string
	Name   string
	Weight float64
}
