package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cjk-translator/internal/config"
	"cjk-translator/internal/pricing"
	"cjk-translator/internal/types"
)

func newPricingCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Show and update model pricing",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the pricing catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := openCatalog(configPath)
			if err != nil {
				return err
			}

			models := catalog.Models()
			names := make([]string, 0, len(models))
			for name := range models {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Printf("Pricing unit: per %.0f tokens\n", catalog.GetPricingUnit())
			fmt.Printf("Monthly limit: $%.2f\n\n", catalog.GetMonthlyLimit())

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tINPUT\tOUTPUT")
			for _, name := range names {
				e := models[name]
				fmt.Fprintf(w, "%s\t$%.2f\t$%.2f\n", name, e.Input, e.Output)
			}
			return w.Flush()
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <model> <input-rate> <output-rate>",
		Short: "Set per-unit rates for a model (takes effect on the next call)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid input rate", args[1], err)
			}
			outputRate, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid output rate", args[2], err)
			}

			catalog, err := openCatalog(configPath)
			if err != nil {
				return err
			}
			if err := catalog.UpdatePricing(args[0], input, outputRate); err != nil {
				return err
			}
			fmt.Printf("Pricing updated: %s input=$%.2f output=$%.2f\n", args[0], input, outputRate)
			return nil
		},
	}

	limitCmd := &cobra.Command{
		Use:   "limit <dollars>",
		Short: "Set the monthly budget limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := strconv.ParseFloat(args[0], 64)
			if err != nil || limit < 0 {
				return types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid monthly limit", args[0], err)
			}

			catalog, err := openCatalog(configPath)
			if err != nil {
				return err
			}
			if err := catalog.SetMonthlyLimit(limit); err != nil {
				return err
			}
			fmt.Printf("Monthly limit set to $%.2f\n", limit)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.AddCommand(showCmd, setCmd, limitCmd)
	return cmd
}

func openCatalog(configPath string) (*pricing.Catalog, error) {
	mgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	return pricing.NewCatalog(mgr.Get().PricingConfigPath)
}
