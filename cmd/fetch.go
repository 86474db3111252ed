package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/holdings-cli/internal/config"
	"github.com/sells-group/holdings-cli/internal/fetcher"
	"github.com/sells-group/holdings-cli/internal/holdings"
	"github.com/sells-group/holdings-cli/internal/pipeline"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and write holdings reports",
	Long: `Download the holdings feed for each configured ETF, normalize it, and
write {symbol}.csv and {symbol}.md to the output directory.

A failure for one symbol does not stop the others; the exit code is
non-zero when any symbol failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		symbols, err := parseSymbols(cmd)
		if err != nil {
			return err
		}

		outputDir, _ := cmd.Flags().GetString("output")
		if outputDir == "" {
			outputDir = cfg.Output.Dir
		}

		reg, err := buildRegistry(cfg)
		if err != nil {
			return err
		}

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:  cfg.HTTP.UserAgent,
			Timeout:    time.Duration(cfg.HTTP.TimeoutSecs) * time.Second,
			MaxRetries: cfg.HTTP.MaxRetries,
		})

		engine := pipeline.NewEngine(f, reg, outputDir)

		summary, runErr := engine.Run(ctx, symbols)
		if summary != nil {
			formatRunSummary(cmd.OutOrStdout(), summary)
		}
		if runErr != nil {
			return eris.Wrap(runErr, "fetch")
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("symbols", "", "comma-separated ETF symbols (default: all configured)")
	fetchCmd.Flags().String("output", "", "output directory for reports (default: config output.dir)")
	rootCmd.AddCommand(fetchCmd)
}

// parseSymbols splits the --symbols flag into a trimmed list.
func parseSymbols(cmd *cobra.Command) ([]string, error) {
	raw, err := cmd.Flags().GetString("symbols")
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols, nil
}

// buildRegistry starts from the default ETF table and applies config
// additions and overrides in a stable order.
func buildRegistry(cfg *config.Config) (*holdings.Registry, error) {
	reg := holdings.NewRegistry()

	symbols := make([]string, 0, len(cfg.ETFs))
	for sym := range cfg.ETFs {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		ec := cfg.ETFs[sym]
		provider, err := holdings.ParseProvider(ec.Provider)
		if err != nil {
			return nil, eris.Wrapf(err, "config: etf %s", sym)
		}
		reg.Register(holdings.ETF{Symbol: sym, Provider: provider, URL: ec.URL})
	}

	return reg, nil
}

// formatRunSummary prints a per-symbol result table.
func formatRunSummary(w io.Writer, summary *pipeline.RunSummary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tSTATUS\tRECORDS\tELAPSED\tERROR")
	for _, res := range summary.Results {
		status := "ok"
		detail := ""
		if res.Err != nil {
			status = "failed"
			detail = fmt.Sprintf("%s: %s", holdings.ErrorKind(res.Err), res.Err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			res.Symbol, status, res.Records, res.Elapsed.Round(time.Millisecond), detail)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d succeeded, %d failed (run %s)\n",
		summary.Succeeded, summary.Failed, summary.RunID)

	if summary.Failed > 0 {
		zap.L().Warn("run finished with failures", zap.Int("failed", summary.Failed))
	}
}
