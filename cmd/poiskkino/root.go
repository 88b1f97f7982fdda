package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/poiskkino-client/internal/config"
	"github.com/Sternrassler/poiskkino-client/pkg/logging"
)

type globalFlags struct {
	configPath string
	jsonOutput bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "poiskkino",
		Short: "Movie and series metadata from PoiskKino",
		Long: `poiskkino - metadata lookups against the PoiskKino API

Lookups go through a shared response cache and a single request slot,
so bursts of commands never hit the upstream concurrently.

The API key is read from poiskkino.api_key in the config file or from
the POISKKINO_API_KEY environment variable.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default: discovered)")
	root.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "Output as JSON")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	root.Version = version
	root.SetVersionTemplate("poiskkino {{.Version}}\n")

	root.AddCommand(
		newSearchCmd(flags),
		newMovieCmd(flags),
		newSeasonCmd(flags),
		newEpisodeCmd(flags),
		newWarmCmd(flags),
		newServeCmd(flags),
		newConfigCmd(),
	)
	return root
}

// loadConfig resolves --config, falling back to discovery and then to defaults.
// It also configures global logging from the result.
func (f *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := f.configPath
	if path == "" {
		discovered, err := config.Discover()
		if err != nil {
			return nil, fmt.Errorf("discover config: %w", err)
		}
		path = discovered
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.LoggingConfig()
	logCfg.Output = cmd.ErrOrStderr()
	if f.logLevel != "" {
		level, err := logging.ParseLevel(f.logLevel)
		if err != nil {
			return nil, err
		}
		logCfg.Level = level
	}
	logging.Setup(logCfg)
	return cfg, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
