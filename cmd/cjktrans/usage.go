package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cjk-translator/internal/config"
	"cjk-translator/internal/pricing"
	"cjk-translator/internal/usage"
)

func newUsageCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show token usage and budget status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := openLedger(configPath)
			if err != nil {
				return err
			}
			ledger.WriteReport(os.Stdout)
			return nil
		},
	}

	var limit int
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Show recent call records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := openLedger(configPath)
			if err != nil {
				return err
			}

			records := ledger.RecentSessions(limit)
			if len(records) == 0 {
				fmt.Println("No usage recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIMESTAMP\tMODEL\tPROMPT\tCOMPLETION\tTOTAL\tCOST")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t$%.4f\n",
					r.Timestamp, r.Model, r.PromptTokens, r.CompletionTokens, r.TotalTokens, r.TotalCost)
			}
			return w.Flush()
		},
	}
	sessionsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "max records to show")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.AddCommand(sessionsCmd)
	return cmd
}

// openLedger loads the config, pricing catalog, and usage ledger.
func openLedger(configPath string) (*usage.Ledger, error) {
	mgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	catalog, err := pricing.NewCatalog(cfg.PricingConfigPath)
	if err != nil {
		return nil, err
	}
	return usage.NewLedger(cfg.UsageDataPath, catalog)
}
