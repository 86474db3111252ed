package holdings

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/holdings-cli/internal/fetcher"
)

func testFetcher() fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  "test-agent",
		Timeout:    5 * time.Second,
		MaxRetries: 1,
	})
}

// ssgaWorkbook builds an SSGA-style daily holdings workbook: a 4-row title
// block, then the header, then data.
func ssgaWorkbook(t *testing.T) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("holdings")
	require.NoError(t, err)

	rows := [][]string{
		{"Fund Name:", "SPDR S&P 500 ETF Trust"},
		{"Ticker Symbol:", "SPY"},
		{"Holdings:", "As of 28-Aug-2026"},
		{""},
		{"Name", "Ticker", "Identifier", "Weight", "Local Currency"},
		{"NVIDIA CORP", "NVDA", "67066G104", "7.897", "USD"},
		{"APPLE INC", "AAPL", "037833100", "7.539", "USD"},
		{"US DOLLAR", "-", "", "0.107", "USD"},
	}
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestLoadSSGA(t *testing.T) {
	workbook := ssgaWorkbook(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Write(workbook)
	}))
	defer srv.Close()

	table, err := Load(context.Background(), testFetcher(), ETF{Symbol: "spy", Provider: SSGA, URL: srv.URL + "/holdings.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Ticker", "Identifier", "Weight", "Local Currency"}, table.Header)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "NVDA", table.Rows[0][1])
}

func TestLoadIShares(t *testing.T) {
	body := "iShares Russell 2000 ETF\n" +
		"IWM\n" +
		"Fund Holdings as of,\"Aug 28, 2026\"\n" +
		"Inception Date,\"May 22, 2000\"\n" +
		"Shares Outstanding,\"295,450,000\"\n" +
		"Stock,\"-\"\n" +
		"Bond,\"-\"\n" +
		"Cash,\"-\"\n" +
		"Other,\"-\"\n" +
		"Ticker,Name,Sector,Asset Class,Market Value,Weight (%),Market Currency\n" +
		"FIX,COMFORT SYSTEMS USA INC,Industrials,Equity,\"601,196,967.84\",0.62,USD\n" +
		"INSM,INSMED INC,Health Care,Equity,\"540,110,830.40\",0.56,USD\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	table, err := Load(context.Background(), testFetcher(), ETF{Symbol: "iwm", Provider: IShares, URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "Ticker", table.Header[0])
	assert.Equal(t, "Weight (%)", table.Header[5])
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "FIX", table.Rows[0][0])
}

func TestLoadDirexion(t *testing.T) {
	body := "TradeDate,StockTicker,SecurityDescription,Shares,HoldingsPercent\n" +
		"08/28/2026,NVDA,NVIDIA CORP,1000,9.21\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	table, err := Load(context.Background(), testFetcher(), ETF{Symbol: "qqq", Provider: Direxion, URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, []string{"TradeDate", "StockTicker", "SecurityDescription", "Shares", "HoldingsPercent"}, table.Header)
	require.Len(t, table.Rows, 1)
}

func TestLoadHTTPErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	for _, p := range []Provider{SSGA, IShares, Direxion} {
		_, err := Load(context.Background(), testFetcher(), ETF{Symbol: "x", Provider: p, URL: srv.URL})
		require.Error(t, err, p)
		assert.True(t, errors.Is(err, ErrFetch), p)
		assert.Equal(t, "fetch", ErrorKind(err), p)
	}
}

func TestLoadBadBodyIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a workbook"))
	}))
	defer srv.Close()

	// SSGA expects an XLSX workbook.
	_, err := Load(context.Background(), testFetcher(), ETF{Symbol: "spy", Provider: SSGA, URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))

	// iShares expects at least the 9 preamble rows plus a header.
	_, err = Load(context.Background(), testFetcher(), ETF{Symbol: "iwm", Provider: IShares, URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestLoadMissingURL(t *testing.T) {
	_, err := Load(context.Background(), testFetcher(), ETF{Symbol: "spy", Provider: SSGA})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))
}
