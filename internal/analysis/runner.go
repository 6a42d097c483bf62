package analysis

import (
	"context"
	"log/slog"
	"sync"

	"stortingspuls/internal/storting"
)

// Runner coordinates one analysis run: fetch the session's cases, fan out
// over them with a bounded worker pool, and reduce per-worker partial
// aggregates into a single snapshot. Fetch failures degrade the completeness
// of the aggregates, never the availability of the run.
type Runner struct {
	client  *storting.Client
	workers int
}

// NewRunner creates a runner backed by the given client.
// workers < 1 falls back to sequential processing.
func NewRunner(client *storting.Client, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{client: client, workers: workers}
}

// Run analyzes up to limit cases from the session and returns the merged
// aggregates. limit < 1 means no cap. The returned aggregates are always
// non-nil and exportable, even when every fetch failed or ctx was cancelled;
// cancellation lets in-flight cases drain without corrupting partials.
func (r *Runner) Run(ctx context.Context, sessionID string, limit int) *Aggregates {
	total := NewAggregates()

	cases, err := r.client.Cases(ctx, sessionID)
	if err != nil {
		slog.Error("Failed to fetch case list, exporting empty aggregates",
			"session", sessionID,
			"error", err,
		)
		return total
	}
	if limit > 0 && len(cases) > limit {
		cases = cases[:limit]
	}

	slog.Info("Analysis run starting",
		"session", sessionID,
		"cases", len(cases),
		"workers", r.workers,
	)

	jobs := make(chan storting.Case)
	partials := make([]*Aggregates, r.workers)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		partials[i] = NewAggregates()
		wg.Add(1)
		go func(agg *Aggregates) {
			defer wg.Done()
			for c := range jobs {
				r.processCase(ctx, c, agg)
			}
		}(partials[i])
	}

	dispatched := 0
feed:
	for _, c := range cases {
		select {
		case jobs <- c:
			dispatched++
			if dispatched%10 == 0 {
				slog.Info("Progress", "dispatched", dispatched, "total", len(cases))
			}
		case <-ctx.Done():
			slog.Warn("Run cancelled, draining in-flight cases",
				"dispatched", dispatched,
				"total", len(cases),
			)
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for _, p := range partials {
		total.Merge(p)
	}

	slog.Info("Analysis run complete",
		"cases_analyzed", total.CasesAnalyzed,
		"events_analyzed", total.EventsAnalyzed,
		"ballots_counted", total.BallotsCounted,
		"rebels", len(total.Rebels),
	)

	return total
}

// processCase fetches one case's voting events and ballots and folds them
// into the worker's partial aggregates. Any failure is logged and the
// resource treated as absent; nothing escapes the per-case boundary.
func (r *Runner) processCase(ctx context.Context, c storting.Case, agg *Aggregates) {
	events, err := r.client.VotingEvents(ctx, c.ID)
	if err != nil {
		slog.Warn("Failed to fetch voting events, skipping case",
			"case_id", c.ID,
			"error", err,
		)
		return
	}

	for _, ev := range events {
		raw, err := r.client.Ballots(ctx, ev.ID)
		if err != nil {
			slog.Warn("Failed to fetch ballots, skipping voting event",
				"case_id", c.ID,
				"voting_id", ev.ID,
				"error", err,
			)
			continue
		}
		agg.ProcessEvent(c, ev, ExtractBallots(raw))
	}

	agg.CasesAnalyzed++
}
