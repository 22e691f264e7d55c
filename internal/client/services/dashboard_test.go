package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verilens/verilens/internal/client/api"
	"github.com/verilens/verilens/internal/client/api/apitest"
	"github.com/verilens/verilens/internal/client/cache"
	"github.com/verilens/verilens/internal/client/events"
	"github.com/verilens/verilens/internal/client/models"
	"github.com/verilens/verilens/internal/client/notify"
	"github.com/verilens/verilens/internal/common"
)

func newTestDashboard(t *testing.T, client *apitest.Fake) (*DashboardService, cache.Store, *fakeSession, *notify.Sink) {
	t.Helper()
	c, err := cache.Open(cache.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	sess := &fakeSession{identity: &models.Identity{Username: "alice"}}
	sink := notify.NewSink()
	return NewDashboardService(client, c, sess, sink, testLogger()), c, sess, sink
}

func TestStats_Backend(t *testing.T) {
	client := &apitest.Fake{
		UserStatsFn: func(ctx context.Context) (*api.UserStats, error) {
			return &api.UserStats{Total: 7, Fake: 3, Real: 4}, nil
		},
	}
	d, _, _, _ := newTestDashboard(t, client)

	stats, err := d.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatsSourceBackend, stats.Source)
	require.Equal(t, 7, stats.Stats.Total)
}

func TestStats_FallbackDerivesFromPartition(t *testing.T) {
	client := &apitest.Fake{
		UserStatsFn: func(ctx context.Context) (*api.UserStats, error) {
			return nil, common.ErrUnavailable
		},
	}
	d, c, _, _ := newTestDashboard(t, client)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, cache.PartitionKey("alice"), []models.AnalysisRecord{
		{Verdict: models.VerdictFake, Confidence: 0.8},
		{Verdict: models.VerdictDeepfake, Confidence: 0.9},
		{Verdict: models.VerdictReal, Confidence: 0.7},
		{Verdict: models.VerdictAuthentic, Confidence: 0.6},
	}))

	stats, err := d.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, StatsSourceCache, stats.Source)
	require.Equal(t, 4, stats.Stats.Total)
	require.Equal(t, 2, stats.Stats.Fake, "fake and deepfake both count as fake")
	require.Equal(t, 2, stats.Stats.Real)
	require.InDelta(t, 50, stats.Stats.FakePercentage, 1e-9)
	require.InDelta(t, 0.75, stats.Stats.AverageConfidence, 1e-9)
}

func TestStats_AnonymousIsUnauthorized(t *testing.T) {
	d, _, sess, _ := newTestDashboard(t, &apitest.Fake{})
	sess.identity = nil

	_, err := d.Stats(context.Background())
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestStats_BackendDenialForcesLogout(t *testing.T) {
	client := &apitest.Fake{
		UserStatsFn: func(ctx context.Context) (*api.UserStats, error) {
			return nil, common.ErrorUnauthorized
		},
	}
	d, _, sess, sink := newTestDashboard(t, client)

	_, err := d.Stats(context.Background())
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.Equal(t, []string{"session expired"}, sess.forced)

	active := sink.Active()
	require.Len(t, active, 1, "session loss must be visible to the user")
	require.Equal(t, models.SeverityWarning, active[0].Severity)
	require.Equal(t, notify.DisconnectionText, active[0].Message)
}

func TestBind_RefreshesSnapshotOnAnalysisCompleted(t *testing.T) {
	total := 1
	client := &apitest.Fake{
		UserStatsFn: func(ctx context.Context) (*api.UserStats, error) {
			return &api.UserStats{Total: total}, nil
		},
	}
	d, _, _, _ := newTestDashboard(t, client)

	bus := events.NewBus(testLogger())
	unsubscribe := d.Bind(bus)
	defer unsubscribe()

	_, err := d.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, d.Snapshot().Stats.Total)

	total = 2
	bus.Publish(events.AnalysisCompleted{})
	require.Equal(t, 2, d.Snapshot().Stats.Total)
}
