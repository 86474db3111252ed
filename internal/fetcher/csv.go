// Package fetcher downloads and parses provider holdings feeds from HTTP,
// CSV, and XLSX sources.
package fetcher

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVOptions configures the delimited-text parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	SkipRows   int  // preamble rows above the header (iShares buries it under 9)
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// ReadCSV parses a delimited feed and returns the header row plus all data
// rows. Provider files carry disclaimer footers with short rows, so rows
// are not required to match the header width. The reader tolerates a UTF-8
// byte order mark, which iShares prepends to its downloads.
func ReadCSV(r io.Reader, opts CSVOptions) ([]string, [][]string, error) {
	bomAware := transform.NewReader(r, unicode.UTF8BOM.NewDecoder())

	reader := csv.NewReader(bomAware)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	var header []string
	var rows [][]string
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "csv: read row")
		}

		if line < opts.SkipRows {
			line++
			continue
		}
		line++

		if opts.TrimSpace {
			for i, field := range record {
				record[i] = strings.TrimSpace(field)
			}
		}

		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}

	if header == nil {
		return nil, nil, eris.Errorf("csv: no header row found after skipping %d rows", opts.SkipRows)
	}

	return header, rows, nil
}
