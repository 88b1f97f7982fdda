package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/poiskkino-client/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "test [path]",
		Short: "Validate configuration file",
		Long:  "Validates config.toml syntax, value ranges and environment variable substitution without contacting PoiskKino.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			} else {
				discovered, err := config.Discover()
				if err != nil {
					return err
				}
				if discovered == "" {
					return fmt.Errorf("no config file found (searched %s)", config.SearchPaths())
				}
				path = discovered
			}
			return runConfigTest(cmd.OutOrStdout(), path)
		},
	})
	return cmd
}

func runConfigTest(out io.Writer, path string) error {
	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.Error
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(out io.Writer, e *config.Error) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(out, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(out, "  - %s\n", m)
		}
		fmt.Fprintln(out)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(out, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(out, "  - %s\n", err)
		}
		fmt.Fprintln(out)
	}
}

func printConfigSummary(out io.Writer, cfg *config.Config) {
	apiKey := "not set"
	if cfg.PoiskKino.APIKey != "" {
		apiKey = "set"
	}
	quota := "in-process"
	if cfg.Quota.RedisAddr != "" {
		quota = "redis " + cfg.Quota.RedisAddr
	}

	fmt.Fprintln(out, "Configuration Summary:")
	fmt.Fprintf(out, "  API:     %s (key %s, timeout %s)\n", cfg.PoiskKino.BaseURL, apiKey, cfg.PoiskKino.Timeout)
	fmt.Fprintf(out, "  Cache:   found %s, not found %s\n", cfg.Cache.PositiveTTL, cfg.Cache.NegativeTTL)
	fmt.Fprintf(out, "  Quota:   %d/day (%s)\n", cfg.Quota.DailyLimit, quota)
	fmt.Fprintf(out, "  Server:  %s (log: %s)\n", cfg.Addr(), cfg.Log.Level)
}
