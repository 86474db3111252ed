package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/holdings-cli/internal/holdings"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured ETFs",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := buildRegistry(cfg)
		if err != nil {
			return err
		}
		formatETFList(cmd.OutOrStdout(), reg.All())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func formatETFList(w io.Writer, etfs []holdings.ETF) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tPROVIDER\tURL")
	for _, e := range etfs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Symbol, e.Provider, e.URL)
	}
	_ = tw.Flush()
}
