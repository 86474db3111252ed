package holdings

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Column aliases across provider feed vintages, resolved case-insensitively.
// The canonical names come first so normalizing an already-canonical table
// is a no-op.
var (
	tickerAliases = []string{"Ticker", "Holding Ticker", "StockTicker"}
	nameAliases   = []string{"Name", "Description", "SecurityDescription"}
	weightAliases = []string{"Weight", "Weight (%)", "% of Net Assets", "HoldingsPercent"}
)

// Providers mark residual cash and placeholder rows with these tickers.
var cashSentinels = map[string]bool{
	"-":    true,
	"CASH": true,
	"USD":  true,
}

// currencyColumn names the advisory currency column for providers that mix
// listings; rows are kept only when it reads USD. Direxion feeds are
// USD-only and carry no such column.
func currencyColumn(p Provider) string {
	switch p {
	case SSGA:
		return "Local Currency"
	case IShares:
		return "Market Currency"
	default:
		return ""
	}
}

// Normalize maps a provider-native table onto the canonical
// {Ticker, Name, Weight} schema: renames columns via the alias tables,
// drops cash/placeholder and non-USD rows, uppercases tickers, parses
// weights as percentages, removes exact duplicate rows, and sorts by
// weight descending with ticker as tie-break.
//
// All supported feeds publish weights as 0-100 percentages, so no unit
// rescaling is applied; rows outside that range are dropped as invalid.
func Normalize(table *RawTable, p Provider) ([]Holding, error) {
	colIdx := mapColumns(table.Header)

	tickerCol, ok := findColumn(colIdx, tickerAliases)
	if !ok {
		return nil, eris.Wrapf(ErrSchema, "normalize %s: no ticker column in header %v", p, table.Header)
	}
	nameCol, ok := findColumn(colIdx, nameAliases)
	if !ok {
		return nil, eris.Wrapf(ErrSchema, "normalize %s: no name column in header %v", p, table.Header)
	}
	weightCol, ok := findColumn(colIdx, weightAliases)
	if !ok {
		return nil, eris.Wrapf(ErrSchema, "normalize %s: no weight column in header %v", p, table.Header)
	}

	ccyCol := -1
	if name := currencyColumn(p); name != "" {
		if idx, ok := colIdx[normalizeColumn(name)]; ok {
			ccyCol = idx
		}
	}

	seen := make(map[Holding]bool, len(table.Rows))
	records := make([]Holding, 0, len(table.Rows))

	for _, row := range table.Rows {
		ticker := strings.ToUpper(strings.TrimSpace(cellAt(row, tickerCol)))
		if ticker == "" || cashSentinels[ticker] {
			continue
		}

		if ccyCol >= 0 && cellAt(row, ccyCol) != "USD" {
			continue
		}

		weight, ok := parseWeight(cellAt(row, weightCol))
		if !ok || weight < 0 || weight > 100 {
			continue
		}

		h := Holding{
			Ticker: ticker,
			Name:   strings.TrimSpace(cellAt(row, nameCol)),
			Weight: weight,
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		records = append(records, h)
	}

	sortHoldings(records)
	return records, nil
}

// sortHoldings orders records by weight descending, then ticker, then name,
// so identical inputs always produce identical reports.
func sortHoldings(records []Holding) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Weight != records[j].Weight {
			return records[i].Weight > records[j].Weight
		}
		if records[i].Ticker != records[j].Ticker {
			return records[i].Ticker < records[j].Ticker
		}
		return records[i].Name < records[j].Name
	})
}

// parseWeight parses a feed weight value, tolerating thousands separators
// and a trailing percent sign.
func parseWeight(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizeColumn lowercases and collapses whitespace for cross-vintage
// column matching: "Weight (%)" and "weight (%)" resolve identically.
func normalizeColumn(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// mapColumns builds a normalized column name -> index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[normalizeColumn(col)] = i
	}
	return m
}

// findColumn returns the index of the first alias present in the header.
func findColumn(colIdx map[string]int, aliases []string) (int, bool) {
	for _, name := range aliases {
		if idx, ok := colIdx[normalizeColumn(name)]; ok {
			return idx, true
		}
	}
	return -1, false
}

// cellAt returns the field at idx, or empty when the row is short (provider
// footers truncate rows).
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
