package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/poiskkino-client/internal/config"
	"github.com/Sternrassler/poiskkino-client/internal/provider"
	"github.com/Sternrassler/poiskkino-client/pkg/client"
	"github.com/Sternrassler/poiskkino-client/pkg/models"
)

// withBackend loads the configuration, builds the backend and runs fn with it.
func (f *globalFlags) withBackend(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, b *backend) error) error {
	cfg, err := f.loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := newBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	return fn(ctx, cfg, b)
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	var (
		year int
		kind string
	)

	cmd := &cobra.Command{
		Use:   "search [flags] <title>...",
		Short: "Search movies and series by title",
		Long: `Search movies and series by title.

Examples:
  poiskkino search "The Matrix"
  poiskkino search "The Matrix" --year 1999
  poiskkino search --kind series "Game of Thrones"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return flags.withBackend(cmd, func(ctx context.Context, cfg *config.Config, b *backend) error {
				return runSearch(ctx, cmd.OutOrStdout(), flags.jsonOutput, cfg, b, title, year, kind)
			})
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Release year")
	cmd.Flags().StringVar(&kind, "kind", "", "Restrict to movie or series")
	return cmd
}

func runSearch(ctx context.Context, out io.Writer, jsonOutput bool, cfg *config.Config, b *backend, title string, year int, kind string) error {
	opts := providerOptions(cfg)

	var (
		hits []provider.SearchResult
		err  error
	)
	switch kind {
	case "":
		res := b.Search(ctx, title, year, opts.APIKey)
		if res.NotFound() {
			break
		}
		if !res.OK() {
			return fmt.Errorf("search %q: %w", title, res.Err)
		}
		if jsonOutput {
			return printJSON(out, res.Value)
		}
		printItems(out, title, res.Value.Docs)
		return nil
	case "movie":
		hits, err = provider.NewMovieProvider(b, opts).Search(ctx, title, year)
	case "series":
		hits, err = provider.NewSeriesProvider(b, opts).Search(ctx, title, year)
	default:
		return fmt.Errorf("unknown kind %q (want movie or series)", kind)
	}
	if err != nil {
		return fmt.Errorf("search %q: %w", title, err)
	}

	if jsonOutput {
		if hits == nil {
			hits = []provider.SearchResult{}
		}
		return printJSON(out, hits)
	}
	if len(hits) == 0 {
		fmt.Fprintf(out, "No results for %q\n", title)
		return nil
	}
	fmt.Fprintf(out, "Found %d results for %q:\n\n", len(hits), title)
	for i, h := range hits {
		fmt.Fprintf(out, " %2d  %-8s  %s%s\n", i+1, h.ProviderIDs[provider.ProviderPoiskKino], h.Name, yearSuffix(h.Year))
	}
	return nil
}

func printItems(out io.Writer, title string, docs []models.Item) {
	if len(docs) == 0 {
		fmt.Fprintf(out, "No results for %q\n", title)
		return
	}
	fmt.Fprintf(out, "Found %d results for %q:\n\n", len(docs), title)
	for i, item := range docs {
		kind := "movie"
		if item.Series() {
			kind = "series"
		}
		year := 0
		if item.Year != nil {
			year = *item.Year
		}
		fmt.Fprintf(out, " %2d  %-8d  %-6s  %s%s\n", i+1, item.ID, kind, item.DisplayName(), yearSuffix(year))
	}
}

func newMovieCmd(flags *globalFlags) *cobra.Command {
	var images bool

	cmd := &cobra.Command{
		Use:   "movie <id>",
		Short: "Show a movie or series by PoiskKino id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			return flags.withBackend(cmd, func(ctx context.Context, cfg *config.Config, b *backend) error {
				out := cmd.OutOrStdout()
				opts := providerOptions(cfg)

				if images {
					imgs, err := provider.NewImageProvider(b, opts).Images(ctx, provider.ItemRef{
						Kind:        provider.ItemMovie,
						ProviderIDs: map[string]string{provider.ProviderPoiskKino: strconv.Itoa(id)},
					})
					if err != nil {
						return fmt.Errorf("images for %d: %w", id, err)
					}
					if flags.jsonOutput {
						return printJSON(out, imgs)
					}
					for _, img := range imgs {
						fmt.Fprintf(out, "%-8s  %s\n", img.Type, img.URL)
					}
					return nil
				}

				res := b.GetByID(ctx, id, opts.APIKey)
				if !res.OK() {
					return fmt.Errorf("movie %d: %w", id, res.Err)
				}
				if flags.jsonOutput {
					return printJSON(out, res.Value)
				}
				printMovie(out, res.Value)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&images, "images", false, "List poster and backdrop URLs instead")
	return cmd
}

func printMovie(out io.Writer, m *models.Movie) {
	year := 0
	if m.Year != nil {
		year = *m.Year
	}
	fmt.Fprintf(out, "%s%s\n", firstNonEmpty(m.Name, m.EnName, m.AlternativeName), yearSuffix(year))
	if m.EnName != "" && m.EnName != m.Name {
		fmt.Fprintf(out, "  Original:  %s\n", m.EnName)
	}
	fmt.Fprintf(out, "  ID:        %d (%s)\n", m.ID, m.Type)
	if m.Rating != nil {
		if m.Rating.Kinopoisk != nil {
			fmt.Fprintf(out, "  Kinopoisk: %.1f\n", *m.Rating.Kinopoisk)
		}
		if m.Rating.IMDb != nil {
			fmt.Fprintf(out, "  IMDb:      %.1f\n", *m.Rating.IMDb)
		}
	}
	if len(m.Genres) > 0 {
		fmt.Fprintf(out, "  Genres:    %s\n", joinNames(m.Genres))
	}
	if len(m.Countries) > 0 {
		fmt.Fprintf(out, "  Countries: %s\n", joinNames(m.Countries))
	}
	if m.Slogan != "" {
		fmt.Fprintf(out, "  Tagline:   %s\n", m.Slogan)
	}
	if m.Description != "" {
		fmt.Fprintf(out, "\n%s\n", m.Description)
	}
}

func newSeasonCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "season <seriesId> <number>",
		Short: "Show a season with its episodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seriesID, err := parseID("seriesId", args[0])
			if err != nil {
				return err
			}
			number, err := parseNumber("number", args[1])
			if err != nil {
				return err
			}
			return flags.withBackend(cmd, func(ctx context.Context, cfg *config.Config, b *backend) error {
				out := cmd.OutOrStdout()

				res := b.GetSeason(ctx, seriesID, number, cfg.PoiskKino.APIKey)
				if !res.OK() {
					return fmt.Errorf("season %d of %d: %w", number, seriesID, res.Err)
				}
				if flags.jsonOutput {
					return printJSON(out, res.Value)
				}

				s := res.Value
				fmt.Fprintf(out, "%s\n", firstNonEmpty(s.Name, s.EnName, fmt.Sprintf("Season %d", s.Number)))
				for _, ep := range s.Episodes {
					fmt.Fprintf(out, " %3d  %-10s  %s\n", ep.Number, shortDate(ep.AirDate), firstNonEmpty(ep.Name, ep.EnName))
				}
				return nil
			})
		},
	}
}

func newEpisodeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "episode <seriesId> <season> <episode>",
		Short: "Show a single episode",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			seriesID, err := parseID("seriesId", args[0])
			if err != nil {
				return err
			}
			season, err := parseNumber("season", args[1])
			if err != nil {
				return err
			}
			episode, err := parseNumber("episode", args[2])
			if err != nil {
				return err
			}
			return flags.withBackend(cmd, func(ctx context.Context, cfg *config.Config, b *backend) error {
				opts := providerOptions(cfg)
				if opts.APIKey == "" {
					return client.ErrUnconfigured
				}

				md, err := provider.NewEpisodeProvider(b, opts).Metadata(ctx, seriesID, season, episode)
				if err != nil {
					return fmt.Errorf("episode %d of season %d: %w", episode, season, err)
				}
				if !md.HasMetadata {
					return fmt.Errorf("episode %d of season %d: %w", episode, season, client.ErrNotFound)
				}

				out := cmd.OutOrStdout()
				if flags.jsonOutput {
					return printJSON(out, md)
				}
				fmt.Fprintf(out, "S%02dE%02d  %s\n", md.SeasonNumber, md.Number, md.Name)
				if md.PremiereDate != nil {
					fmt.Fprintf(out, "  Aired:  %s\n", md.PremiereDate.Format("2006-01-02"))
				}
				if md.ImageURL != "" {
					fmt.Fprintf(out, "  Still:  %s\n", md.ImageURL)
				}
				if md.Overview != "" {
					fmt.Fprintf(out, "\n%s\n", md.Overview)
				}
				return nil
			})
		},
	}
}

func providerOptions(cfg *config.Config) provider.Options {
	return provider.Options{
		APIKey:           cfg.PoiskKino.APIKey,
		IgnoreTMDbImages: cfg.PoiskKino.IgnoreTMDbImages,
	}
}

func parseID(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", name, s)
	}
	return v, nil
}

// parseNumber accepts zero, which PoiskKino uses for specials.
func parseNumber(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a number, got %q", name, s)
	}
	return v, nil
}

func yearSuffix(year int) string {
	if year <= 0 {
		return ""
	}
	return fmt.Sprintf(" (%d)", year)
}

func joinNames(names []models.Name) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n.Name != "" {
			out = append(out, n.Name)
		}
	}
	return strings.Join(out, ", ")
}

func shortDate(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
