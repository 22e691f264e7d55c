package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/verilens/verilens/internal/client/history"
	"github.com/verilens/verilens/internal/client/migration"
	"github.com/verilens/verilens/internal/client/models"
	"github.com/verilens/verilens/internal/client/services"
)

func sortArgs(args []string) (key, order string) {
	key = history.SortByDate
	order = history.OrderDesc
	if len(args) > 0 {
		key = args[0]
	}
	if len(args) > 1 {
		order = args[1]
	}
	return key, order
}

// History loads and prints the user's analysis records. Optional arguments
// select the sort key and order, e.g. "history confidence asc".
func (a *App) History(ctx context.Context, args []string) {
	id := a.session.Current()
	if id == nil {
		printlnFn("Log in to see your history.")
		return
	}

	key, order := sortArgs(args)
	records := a.history.Load(ctx, id.Username, key, order)
	a.printRecords(records)
}

// Sort re-orders the already loaded history without re-fetching.
func (a *App) Sort(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: sort <key> [asc|desc]")
		return
	}
	key, order := sortArgs(args)
	a.printRecords(a.history.Resort(ctx, key, order))
}

func (a *App) printRecords(records []models.AnalysisRecord) {
	if len(records) == 0 {
		printlnFn("No analyses yet.")
		return
	}

	// relabeling is a viewer-side presentation concern, so the threshold
	// comes from whoever is looking, not from the records' owners
	viewer := migration.GuestUser
	if id := a.session.Current(); id != nil {
		viewer = id.Username
	}
	threshold := a.analysis.Preferences(context.Background(), viewer).ConfidenceThreshold()

	for _, r := range records {
		verdict := services.DisplayVerdict(r.Verdict, r.Confidence, threshold)
		ts := ""
		if !r.Timestamp.IsZero() {
			ts = r.Timestamp.Format("2006-01-02 15:04")
		}
		printlnFn(fmt.Sprintf("%-16s %-12s %5.0f%%  %s", ts, verdict, r.Confidence*100, r.Title))
	}
}

// Stats prints the dashboard verdict breakdown, noting when it was derived
// from the local cache.
func (a *App) Stats(ctx context.Context) {
	reqCtx, cancel := a.requestCtx(ctx)
	defer cancel()

	stats, err := a.dashboard.Stats(reqCtx)
	if err != nil {
		log.Printf("Stats unavailable: %s", err.Error())
		return
	}

	printlnFn(fmt.Sprintf("Total: %d, fake: %d, real: %d (avg confidence %.0f%%)",
		stats.Stats.Total, stats.Stats.Fake, stats.Stats.Real, stats.Stats.AverageConfidence*100))
	if stats.Source == services.StatsSourceCache {
		printlnFn("(derived from local cache; backend unreachable)")
	}
}
