package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/poiskkino-client/internal/config"
	"github.com/Sternrassler/poiskkino-client/pkg/prefetch"
)

func newWarmCmd(flags *globalFlags) *cobra.Command {
	var (
		seasons []string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "warm [flags] <id>...",
		Short: "Fetch a batch of items and seasons once",
		Long: `Fetch a batch of items and seasons once, reporting what was found.

The batch stops early when PoiskKino reports the quota as exhausted.

Examples:
  poiskkino warm 301 464963
  poiskkino warm --season 464963:1 --season 464963:2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var jobs []prefetch.Job
			for _, a := range args {
				id, err := parseID("id", a)
				if err != nil {
					return err
				}
				jobs = append(jobs, prefetch.Items(id)...)
			}
			for _, s := range seasons {
				parent, number, ok := strings.Cut(s, ":")
				if !ok {
					return fmt.Errorf("season must be <seriesId>:<number>, got %q", s)
				}
				id, err := parseID("seriesId", parent)
				if err != nil {
					return err
				}
				n, err := parseNumber("number", number)
				if err != nil {
					return err
				}
				jobs = append(jobs, prefetch.Seasons(id, n)...)
			}
			if len(jobs) == 0 {
				return fmt.Errorf("nothing to warm: pass ids or --season")
			}

			return flags.withBackend(cmd, func(ctx context.Context, cfg *config.Config, b *backend) error {
				w := prefetch.New(b, prefetch.Config{Workers: workers})
				report := w.Warm(ctx, cfg.PoiskKino.APIKey, jobs...)

				out := cmd.OutOrStdout()
				if flags.jsonOutput {
					if err := printJSON(out, reportJSON(report)); err != nil {
						return err
					}
				} else {
					fmt.Fprintf(out, "Warmed %d jobs in %s: %d fetched, %d cached, %d not found, %d failed, %d skipped\n",
						report.Total, report.Duration.Round(time.Millisecond), report.Fetched, report.Cached, report.NotFound, len(report.Failed), report.Skipped)
					for _, f := range failedJobs(report) {
						fmt.Fprintf(out, "  %s\n", f)
					}
				}

				if report.StoppedBy != "" {
					return fmt.Errorf("warm-up stopped: %w", report.StoppedBy.Sentinel())
				}
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&seasons, "season", nil, "Season to warm as <seriesId>:<number> (repeatable)")
	cmd.Flags().IntVar(&workers, "workers", prefetch.DefaultConfig().Workers, "Lookups queued at once")
	return cmd
}

func failedJobs(r prefetch.Report) []string {
	out := make([]string, 0, len(r.Failed))
	for job, outcome := range r.Failed {
		out = append(out, fmt.Sprintf("%s: %s", job, outcome))
	}
	sort.Strings(out)
	return out
}

func reportJSON(r prefetch.Report) map[string]any {
	return map[string]any{
		"total":     r.Total,
		"fetched":   r.Fetched,
		"cached":    r.Cached,
		"notFound":  r.NotFound,
		"skipped":   r.Skipped,
		"failed":    failedJobs(r),
		"stoppedBy": string(r.StoppedBy),
	}
}
