package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cjk-translator/internal/config"
	"cjk-translator/internal/types"
)

func newConfigCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and update configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager(configPath)
			if err != nil {
				return err
			}
			if err := mgr.Load(); err != nil {
				return err
			}
			cfg := mgr.Get()

			fmt.Println("Config file:      ", mgr.ConfigPath())
			fmt.Println("API key:          ", maskKey(cfg.APIKey))
			fmt.Println("Base URL:         ", cfg.BaseURL)
			fmt.Println("Model:            ", cfg.Model)
			fmt.Printf("Temperature/TopP:  %.2f / %.2f\n", cfg.Temperature, cfg.TopP)
			fmt.Println("Max tokens:       ", cfg.MaxTokens)
			fmt.Printf("Context fraction:  %.2f\n", cfg.ContextPercentage)
			fmt.Println("Target page size: ", cfg.TargetPageSize)
			fmt.Println("Max retries:      ", cfg.MaxRetries)
			fmt.Println("Pricing catalog:  ", cfg.PricingConfigPath)
			fmt.Println("Usage data:       ", cfg.UsageDataPath)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (api-key, base-url, model, temperature, max-tokens, target-page-size)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager(configPath)
			if err != nil {
				return err
			}
			if err := mgr.Load(); err != nil {
				return err
			}
			cfg := mgr.Get()

			key, value := args[0], args[1]
			switch key {
			case "api-key":
				cfg.APIKey = value
			case "base-url":
				cfg.BaseURL = value
			case "model":
				cfg.Model = value
			case "temperature":
				t, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid temperature", value, err)
				}
				cfg.Temperature = t
			case "max-tokens":
				n, err := strconv.Atoi(value)
				if err != nil || n <= 0 {
					return types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid max-tokens", value, err)
				}
				cfg.MaxTokens = n
			case "target-page-size":
				n, err := strconv.Atoi(value)
				if err != nil || n <= 0 {
					return types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid target-page-size", value, err)
				}
				cfg.TargetPageSize = n
			default:
				return types.NewAppErrorWithDetails(types.ErrInvalidInput, "unknown configuration key", key, nil)
			}

			if err := mgr.Save(); err != nil {
				return err
			}
			fmt.Println("Saved to", mgr.ConfigPath())
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.AddCommand(showCmd, setCmd)
	return cmd
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
