// Package report serializes canonical holdings tables to CSV and Markdown
// files named after the ETF symbol.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rotisserie/eris"

	"github.com/sells-group/holdings-cli/internal/holdings"
)

// FixedWeight renders a portfolio weight with three decimal places in CSV
// output, matching the published report convention.
type FixedWeight float64

// MarshalCSV implements gocsv.TypeMarshaller.
func (w FixedWeight) MarshalCSV() (string, error) {
	return strconv.FormatFloat(float64(w), 'f', 3, 64), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (w *FixedWeight) UnmarshalCSV(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return eris.Wrapf(err, "parse weight %q", s)
	}
	*w = FixedWeight(v)
	return nil
}

// Row is the CSV row schema for a holdings report.
type Row struct {
	Ticker string      `csv:"Ticker"`
	Name   string      `csv:"Name"`
	Weight FixedWeight `csv:"Weight"`
}

// Write persists one symbol's holdings as {symbol}.csv and {symbol}.md in
// outputDir, creating the directory if needed and overwriting any previous
// report unconditionally.
func Write(symbol string, records []holdings.Holding, outputDir string) error {
	symbol = strings.ToLower(symbol)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return writeErr(err, "create output dir %s", outputDir)
	}

	if err := writeCSV(filepath.Join(outputDir, symbol+".csv"), records); err != nil {
		return err
	}
	return writeMarkdown(filepath.Join(outputDir, symbol+".md"), records)
}

func writeCSV(path string, records []holdings.Holding) error {
	rows := make([]Row, len(records))
	for i, h := range records {
		rows[i] = Row{Ticker: h.Ticker, Name: h.Name, Weight: FixedWeight(h.Weight)}
	}

	f, err := os.Create(path)
	if err != nil {
		return writeErr(err, "create %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return writeErr(err, "write csv %s", path)
	}
	return nil
}

func writeMarkdown(path string, records []holdings.Holding) error {
	var b strings.Builder
	b.WriteString("| Holding Ticker | Name | Weight |\n")
	b.WriteString("|---|---|---|\n")
	for _, h := range records {
		fmt.Fprintf(&b, "| %s | %s | %.3f |\n", h.Ticker, h.Name, h.Weight)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return writeErr(err, "write markdown %s", path)
	}
	return nil
}

func writeErr(err error, format string, args ...any) error {
	return eris.Wrapf(errors.Join(holdings.ErrWrite, err), format, args...)
}
