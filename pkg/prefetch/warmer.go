package prefetch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/poiskkino-client/pkg/client"
	"github.com/Sternrassler/poiskkino-client/pkg/logging"
	"github.com/Sternrassler/poiskkino-client/pkg/models"
)

// Config holds warmer configuration.
type Config struct {
	// Workers is the number of lookups queued on the client at once.
	Workers int

	// ProgressEvery logs progress after this many finished jobs.
	ProgressEvery int
}

// DefaultConfig returns the default warmer configuration.
func DefaultConfig() Config {
	return Config{
		Workers:       4,
		ProgressEvery: 50,
	}
}

// Fetcher is the part of the client the warmer drives.
type Fetcher interface {
	GetByID(ctx context.Context, id int, apiKey string) client.Result[models.Movie]
	GetSeason(ctx context.Context, parentID, seasonNumber int, apiKey string) client.Result[models.Season]
}

var _ Fetcher = (*client.Client)(nil)

// Job is one item or season to warm. Season is ignored for item jobs.
type Job struct {
	ID     int
	Season int
	season bool
}

// Items returns item jobs for ids.
func Items(ids ...int) []Job {
	jobs := make([]Job, 0, len(ids))
	for _, id := range ids {
		jobs = append(jobs, Job{ID: id})
	}
	return jobs
}

// Seasons returns season jobs for the given seasons of parentID.
func Seasons(parentID int, numbers ...int) []Job {
	jobs := make([]Job, 0, len(numbers))
	for _, n := range numbers {
		jobs = append(jobs, Job{ID: parentID, Season: n, season: true})
	}
	return jobs
}

// IsSeason reports whether the job warms a season record.
func (j Job) IsSeason() bool {
	return j.season
}

func (j Job) String() string {
	if j.season {
		return fmt.Sprintf("season:%d:%d", j.ID, j.Season)
	}
	return fmt.Sprintf("movie:%d", j.ID)
}

// Report summarises a Warm call.
type Report struct {
	Total int

	// Fetched and Cached count found items, by whether the client had to call out.
	Fetched int
	Cached  int

	// NotFound counts confirmed absences, cached or not.
	NotFound int

	Skipped int

	// Failed maps each failed job to its outcome.
	Failed map[Job]client.Outcome

	// StoppedBy is set when an outcome ended the batch early.
	StoppedBy client.Outcome

	Duration time.Duration
}

type jobResult struct {
	job     Job
	outcome client.Outcome
	cached  bool
}

// Warmer runs batches of lookups through a worker pool.
type Warmer struct {
	fetcher Fetcher
	config  Config
	logger  zerolog.Logger
}

// New creates a Warmer. Non-positive config values fall back to the defaults.
func New(fetcher Fetcher, config Config) *Warmer {
	def := DefaultConfig()
	if config.Workers <= 0 {
		config.Workers = def.Workers
	}
	if config.ProgressEvery <= 0 {
		config.ProgressEvery = def.ProgressEvery
	}

	return &Warmer{
		fetcher: fetcher,
		config:  config,
		logger:  logging.NewLogger("prefetch"),
	}
}

// Warm looks up every job once. It returns when all jobs finished, were
// skipped, or ctx is done.
func (w *Warmer) Warm(ctx context.Context, apiKey string, jobs ...Job) Report {
	start := time.Now()
	report := Report{Total: len(jobs), Failed: make(map[Job]client.Outcome)}
	if len(jobs) == 0 {
		return report
	}

	w.logger.Info().
		Int("jobs", len(jobs)).
		Int("workers", w.config.Workers).
		Msg("Starting cache warm-up")

	queue := make(chan Job, len(jobs))
	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	results := make(chan jobResult, len(jobs))
	var stop atomic.Value // client.Outcome

	var wg sync.WaitGroup
	for i := 0; i < w.config.Workers; i++ {
		wg.Add(1)
		go w.worker(ctx, apiKey, queue, results, &stop, &wg, i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for r := range results {
		done++
		switch r.outcome {
		case "":
			report.Skipped++
		case client.OutcomeOK:
			if r.cached {
				report.Cached++
			} else {
				report.Fetched++
			}
		case client.OutcomeNotFound:
			report.NotFound++
		default:
			report.Failed[r.job] = r.outcome
		}

		if done%w.config.ProgressEvery == 0 {
			w.logger.Info().
				Int("done", done).
				Int("total", len(jobs)).
				Float64("progress_pct", float64(done)/float64(len(jobs))*100).
				Msg("Warm-up progress")
		}
	}

	if o, ok := stop.Load().(client.Outcome); ok {
		report.StoppedBy = o
	}
	report.Duration = time.Since(start)

	w.logger.Info().
		Int("fetched", report.Fetched).
		Int("cached", report.Cached).
		Int("not_found", report.NotFound).
		Int("failed", len(report.Failed)).
		Int("skipped", report.Skipped).
		Dur(logging.FieldDuration, report.Duration).
		Msg("Warm-up complete")

	return report
}

// worker drains the queue. Once a stopping outcome was seen, or ctx is done,
// the remaining jobs are passed through as skipped.
func (w *Warmer) worker(ctx context.Context, apiKey string, queue <-chan Job, results chan<- jobResult, stop *atomic.Value, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	processed := 0

	for job := range queue {
		if stop.Load() != nil || ctx.Err() != nil {
			results <- jobResult{job: job}
			continue
		}

		outcome, cached := w.fetch(ctx, apiKey, job)
		if stops(outcome) {
			if stop.CompareAndSwap(nil, outcome) {
				w.logger.Warn().
					Str(logging.FieldOutcome, string(outcome)).
					Int("worker_id", workerID).
					Msg("Stopping warm-up")
			}
		}
		results <- jobResult{job: job, outcome: outcome, cached: cached}
		processed++
	}

	if processed > 0 {
		w.logger.Debug().
			Int("worker_id", workerID).
			Int("jobs_processed", processed).
			Msg("Worker completed")
	}
}

func (w *Warmer) fetch(ctx context.Context, apiKey string, job Job) (client.Outcome, bool) {
	if job.season {
		res := w.fetcher.GetSeason(ctx, job.ID, job.Season, apiKey)
		return res.Outcome, res.Cached
	}
	res := w.fetcher.GetByID(ctx, job.ID, apiKey)
	return res.Outcome, res.Cached
}

// stops reports whether sending further requests would be pointless.
func stops(o client.Outcome) bool {
	return o == client.OutcomeRateLimited || o == client.OutcomeUnconfigured
}
