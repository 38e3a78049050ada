package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cjk-translator/internal/logger"
)

var version = "dev"

func main() {
	if err := logger.Init(logger.DefaultConfig()); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
	}
	defer logger.Close()

	root := &cobra.Command{
		Use:     "cjktrans",
		Short:   "Translate PDF, DOCX, and text documents between Chinese, Japanese, Korean, and English",
		Version: version,
	}

	root.AddCommand(
		newTranslateCmd(),
		newUsageCmd(),
		newPricingCmd(),
		newConfigCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
