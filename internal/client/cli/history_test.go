package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verilens/verilens/internal/client/api/apitest"
	"github.com/verilens/verilens/internal/client/cache"
	"github.com/verilens/verilens/internal/client/events"
	"github.com/verilens/verilens/internal/client/migration"
	"github.com/verilens/verilens/internal/client/models"
	"github.com/verilens/verilens/internal/client/notify"
	"github.com/verilens/verilens/internal/client/services"
	"github.com/verilens/verilens/internal/client/session"
	"github.com/verilens/verilens/internal/logging"
)

func newPrintApp(t *testing.T) *App {
	t.Helper()
	c, err := cache.Open(cache.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	fake := &apitest.Fake{}
	sess := session.NewStore(fake, c, migration.NewEngine(c, log), consoleNavigator{}, log)
	analysis := services.NewAnalysisService(fake, c, sess, events.NewBus(log), notify.NewSink(), log)

	return &App{
		api:      fake,
		cache:    c,
		session:  sess,
		analysis: analysis,
		log:      log,
		reader:   bufio.NewReader(strings.NewReader("")),
	}
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	old := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = old })
	return &lines
}

func TestPrintRecords_UsesViewerThreshold(t *testing.T) {
	app := newPrintApp(t)
	ctx := context.Background()

	_, err := app.session.Login(ctx, "viewer", "pw")
	require.NoError(t, err)

	// the viewer demands high confidence; the record's owner accepts anything
	require.NoError(t, app.analysis.SavePreferences(ctx, "viewer", models.Preferences{
		DefaultAnalysisMode:        models.ModeHybrid,
		AnalysisTimeoutSeconds:     30,
		ConfidenceThresholdPercent: 90,
	}))
	require.NoError(t, app.analysis.SavePreferences(ctx, "other", models.Preferences{
		DefaultAnalysisMode:        models.ModeHybrid,
		AnalysisTimeoutSeconds:     30,
		ConfidenceThresholdPercent: 10,
	}))

	lines := captureOutput(t)
	app.printRecords([]models.AnalysisRecord{
		{Username: "other", Title: "someone else's", Verdict: models.VerdictFake, Confidence: 0.5},
	})

	out := strings.Join(*lines, "")
	require.Contains(t, out, models.VerdictInconclusive, "relabel must use the viewer's threshold")
	require.NotContains(t, out, models.VerdictFake)
}
