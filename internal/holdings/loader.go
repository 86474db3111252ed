package holdings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sells-group/holdings-cli/internal/fetcher"
)

// Loader downloads one provider's feed and decodes it into a RawTable.
// No filtering happens here; every original column and row is preserved.
type Loader interface {
	Load(ctx context.Context, f fetcher.Fetcher, url string) (*RawTable, error)
}

// loaderFor returns the loader matching a provider's wire format.
func loaderFor(p Provider) Loader {
	switch p {
	case SSGA:
		return &ssgaLoader{}
	case IShares:
		return &isharesLoader{}
	default:
		return &direxionLoader{}
	}
}

// ssgaLoader reads SSGA daily holdings workbooks. The first sheet carries a
// 4-row title block (fund name, date, blank lines) above the column header.
type ssgaLoader struct{}

const ssgaTitleRows = 4

func (l *ssgaLoader) Load(ctx context.Context, f fetcher.Fetcher, url string) (*RawTable, error) {
	tmp, err := os.MkdirTemp("", "holdings-ssga-")
	if err != nil {
		return nil, fetchErr(err, "ssga: create temp dir")
	}
	defer os.RemoveAll(tmp) //nolint:errcheck

	path := filepath.Join(tmp, "holdings.xlsx")
	if _, err := f.DownloadToFile(ctx, url, path); err != nil {
		return nil, fetchErr(err, "ssga: download %s", url)
	}

	header, rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SkipRows: ssgaTitleRows})
	if err != nil {
		return nil, parseErr(err, "ssga: parse workbook from %s", url)
	}

	return &RawTable{Header: header, Rows: rows}, nil
}

// isharesLoader reads iShares holdings CSVs. The download starts with 9
// rows of fund metadata before the header and ends with disclaimer text.
type isharesLoader struct{}

const isharesPreambleRows = 9

func (l *isharesLoader) Load(ctx context.Context, f fetcher.Fetcher, url string) (*RawTable, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, fetchErr(err, "ishares: download %s", url)
	}
	defer body.Close() //nolint:errcheck

	header, rows, err := fetcher.ReadCSV(body, fetcher.CSVOptions{
		SkipRows:   isharesPreambleRows,
		LazyQuotes: true,
		TrimSpace:  true,
	})
	if err != nil {
		return nil, parseErr(err, "ishares: parse csv from %s", url)
	}

	return &RawTable{Header: header, Rows: rows}, nil
}

// direxionLoader reads Direxion-style holdings CSVs: header on the first
// row, column names varying by feed vintage. Alias resolution is the
// normalizer's job.
type direxionLoader struct{}

func (l *direxionLoader) Load(ctx context.Context, f fetcher.Fetcher, url string) (*RawTable, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, fetchErr(err, "direxion: download %s", url)
	}
	defer body.Close() //nolint:errcheck

	header, rows, err := fetcher.ReadCSV(body, fetcher.CSVOptions{
		LazyQuotes: true,
		TrimSpace:  true,
	})
	if err != nil {
		return nil, parseErr(err, "direxion: parse csv from %s", url)
	}

	return &RawTable{Header: header, Rows: rows}, nil
}

// Load fetches and decodes the feed for one configured ETF.
func Load(ctx context.Context, f fetcher.Fetcher, e ETF) (*RawTable, error) {
	if e.URL == "" {
		return nil, fetchErr(fmt.Errorf("empty source url"), "%s: no feed configured", e.Symbol)
	}
	return loaderFor(e.Provider).Load(ctx, f, e.URL)
}
