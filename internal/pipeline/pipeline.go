// Package pipeline orchestrates the per-symbol load -> normalize -> write
// run across the configured ETFs.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/holdings-cli/internal/fetcher"
	"github.com/sells-group/holdings-cli/internal/holdings"
	"github.com/sells-group/holdings-cli/internal/report"
)

// Engine drives holdings report runs.
type Engine struct {
	fetcher   fetcher.Fetcher
	reg       *holdings.Registry
	outputDir string
}

// NewEngine creates an engine writing reports to outputDir.
func NewEngine(f fetcher.Fetcher, reg *holdings.Registry, outputDir string) *Engine {
	return &Engine{fetcher: f, reg: reg, outputDir: outputDir}
}

// SymbolResult is the outcome for one ETF symbol.
type SymbolResult struct {
	Symbol  string
	Records int
	Elapsed time.Duration
	Err     error
}

// RunSummary aggregates one engine run.
type RunSummary struct {
	RunID     uuid.UUID
	Results   []SymbolResult
	Succeeded int
	Failed    int
}

// Run processes the named symbols sequentially, or every registered ETF
// when symbols is empty. A failure for one symbol is logged and recorded
// but does not stop the rest; the returned error is non-nil when any
// symbol failed, so callers can exit non-zero for the external scheduler.
func (e *Engine) Run(ctx context.Context, symbols []string) (*RunSummary, error) {
	summary := &RunSummary{RunID: uuid.New()}
	log := zap.L().With(zap.String("run_id", summary.RunID.String()))

	if len(symbols) == 0 {
		symbols = e.reg.Symbols()
	}

	log.Info("starting holdings run",
		zap.Strings("symbols", symbols),
		zap.String("output_dir", e.outputDir),
	)

	for _, sym := range symbols {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		res := e.runSymbol(ctx, log, sym)
		summary.Results = append(summary.Results, res)
		if res.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}

	log.Info("holdings run complete",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)

	if summary.Failed > 0 {
		return summary, eris.Errorf("%d of %d symbols failed", summary.Failed, len(summary.Results))
	}
	return summary, nil
}

func (e *Engine) runSymbol(ctx context.Context, log *zap.Logger, sym string) SymbolResult {
	start := time.Now()
	res := SymbolResult{Symbol: sym}

	etf, err := e.reg.Get(sym)
	if err != nil {
		res.Err = err
		res.Elapsed = time.Since(start)
		log.Error("symbol not configured", zap.String("symbol", sym), zap.Error(err))
		return res
	}

	symLog := log.With(
		zap.String("symbol", etf.Symbol),
		zap.String("provider", etf.Provider.String()),
	)
	symLog.Info("processing symbol")

	table, err := holdings.Load(ctx, e.fetcher, etf)
	if err == nil {
		var records []holdings.Holding
		records, err = holdings.Normalize(table, etf.Provider)
		if err == nil {
			res.Records = len(records)
			err = report.Write(etf.Symbol, records, e.outputDir)
		}
	}

	res.Elapsed = time.Since(start)
	if err != nil {
		res.Err = err
		symLog.Error("symbol failed",
			zap.String("kind", holdings.ErrorKind(err)),
			zap.Duration("elapsed", res.Elapsed),
			zap.Error(err),
		)
		return res
	}

	symLog.Info("symbol complete",
		zap.Int("records", res.Records),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res
}
