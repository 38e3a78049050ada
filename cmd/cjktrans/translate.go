package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cjk-translator/internal/config"
	"cjk-translator/internal/extractor"
	"cjk-translator/internal/logger"
	"cjk-translator/internal/output"
	"cjk-translator/internal/pricing"
	"cjk-translator/internal/translator"
	"cjk-translator/internal/types"
	"cjk-translator/internal/usage"
)

func newTranslateCmd() *cobra.Command {
	var (
		configPath   string
		model        string
		format       string
		outPath      string
		pages        string
		abstract     string
		autoAbstract bool
		ignoreBudget bool
	)

	cmd := &cobra.Command{
		Use:   "translate <file> <direction>",
		Short: "Translate a document (direction is a 2-letter code, e.g. CE = Chinese to English)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]

			source, target, err := types.ParseDirection(args[1])
			if err != nil {
				return err
			}

			mgr, err := config.NewManager(configPath)
			if err != nil {
				return err
			}
			if err := mgr.Load(); err != nil {
				return err
			}
			cfg := mgr.Get()
			if model != "" {
				cfg.Model = model
			}
			if cfg.APIKey == "" {
				return types.NewAppError(types.ErrConfig,
					"no API key configured, set OPENAI_API_KEY or run: cjktrans config set api-key <key>", nil)
			}

			outputFormat, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			if outputFormat == types.OutputPDF && !strings.EqualFold(filepath.Ext(inputPath), ".pdf") {
				return types.NewAppError(types.ErrInvalidInput,
					"PDF output requires a PDF input file", nil)
			}

			catalog, err := pricing.NewCatalog(cfg.PricingConfigPath)
			if err != nil {
				return err
			}
			ledger, err := usage.NewLedger(cfg.UsageDataPath, catalog)
			if err != nil {
				return err
			}

			if ledger.IsMonthlyLimitExceeded() {
				if !ignoreBudget {
					return types.NewAppErrorWithDetails(types.ErrPricing,
						"monthly budget limit reached",
						fmt.Sprintf("$%.4f of $%.2f used, rerun with --ignore-budget to proceed",
							ledger.GetMonthlyUsage("").TotalCost, catalog.GetMonthlyLimit()),
						nil)
				}
				logger.Warn("monthly budget limit reached, proceeding anyway")
			}

			chunks, err := extractor.Extract(inputPath, cfg.TargetPageSize)
			if err != nil {
				return err
			}
			if pages != "" {
				pr, err := extractor.ParsePageRange(pages)
				if err != nil {
					return err
				}
				chunks = pr.Apply(chunks)
				if len(chunks) == 0 {
					return types.NewAppErrorWithDetails(types.ErrInvalidInput,
						"page range selects no pages", pages, nil)
				}
			}
			fmt.Fprintf(os.Stderr, "Translating %d page(s): %s -> %s (%s)\n",
				len(chunks), source, target, cfg.Model)

			ctx := context.Background()
			if autoAbstract && abstract == "" {
				summary, err := translator.NewSummarizer(cfg).Summarize(ctx, chunks[0].Text, target)
				if err != nil {
					logger.Warn("auto-abstract unavailable, falling back to page context", logger.Err(err))
				} else {
					abstract = summary
				}
			}

			engine := translator.NewEngine(cfg, translator.NewOpenAIBackend(cfg), ledger)
			translated, err := engine.TranslateDocument(ctx, chunks, abstract, source, target, outputFormat,
				func(page, totalPages int) {
					fmt.Fprintf(os.Stderr, "  page %d/%d done\n", page, totalPages)
				})
			if err != nil {
				return err
			}

			switch outputFormat {
			case types.OutputTXT:
				if outPath == "" {
					outPath = output.DefaultOutputPath(inputPath, ".txt")
				}
				if err := output.WriteTXT(translated, outPath); err != nil {
					return err
				}
				fmt.Fprintln(os.Stderr, "Written to", outPath)
			case types.OutputPDF:
				if outPath == "" {
					outPath = output.DefaultOutputPath(inputPath, ".pdf")
				}
				if err := output.NewPDFOverlay().WritePDF(inputPath, translated, outPath); err != nil {
					return err
				}
				fmt.Fprintln(os.Stderr, "Written to", outPath)
			default:
				output.WriteConsole(translated)
			}

			monthly := ledger.GetMonthlyUsage("")
			fmt.Fprintf(os.Stderr, "Monthly spend: $%.4f of $%.2f (%.1f%%)\n",
				monthly.TotalCost, catalog.GetMonthlyLimit(), ledger.MonthlyUsagePercentage())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&model, "model", "", "override the configured model")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format: console, txt, or pdf")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file path (txt and pdf formats)")
	cmd.Flags().StringVarP(&pages, "pages", "p", "", "page range to translate, e.g. 3 or 2-7")
	cmd.Flags().StringVar(&abstract, "abstract", "", "document abstract used as translation context for every page")
	cmd.Flags().BoolVar(&autoAbstract, "auto-abstract", false, "summarize the first page and use it as the abstract")
	cmd.Flags().BoolVar(&ignoreBudget, "ignore-budget", false, "translate even when the monthly budget is exhausted")
	return cmd
}

func parseOutputFormat(s string) (types.OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "console":
		return types.OutputConsole, nil
	case "txt", "text":
		return types.OutputTXT, nil
	case "pdf":
		return types.OutputPDF, nil
	default:
		return "", types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"unknown output format, use console, txt, or pdf", s, nil)
	}
}
