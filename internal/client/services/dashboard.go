package services

import (
	"context"
	"errors"
	"sync"

	"github.com/verilens/verilens/internal/client/api"
	"github.com/verilens/verilens/internal/client/cache"
	"github.com/verilens/verilens/internal/client/events"
	"github.com/verilens/verilens/internal/client/models"
	"github.com/verilens/verilens/internal/client/notify"
	"github.com/verilens/verilens/internal/common"
	"github.com/verilens/verilens/internal/logging"
)

// Stats sources reported by DashboardStats.
const (
	StatsSourceBackend = "backend"
	StatsSourceCache   = "cache"
)

// DashboardStats is the verdict breakdown shown on the dashboard, together
// with where it came from.
type DashboardStats struct {
	Stats  api.UserStats
	Source string
}

// DashboardService fetches per-user statistics, preferring the backend and
// deriving a breakdown from the local partition when it is unreachable.
type DashboardService struct {
	api   api.Client
	cache cache.Store
	sess  Session
	sink  *notify.Sink
	log   logging.Logger

	mu   sync.Mutex
	last *DashboardStats
}

func NewDashboardService(client api.Client, c cache.Store, sess Session, sink *notify.Sink, log logging.Logger) *DashboardService {
	return &DashboardService{api: client, cache: c, sess: sess, sink: sink, log: log}
}

// Bind refreshes the cached snapshot whenever an analysis completes.
func (d *DashboardService) Bind(bus events.Bus) (unsubscribe func()) {
	return bus.Subscribe(func(events.AnalysisCompleted) {
		d.Stats(context.Background())
	})
}

// Stats returns the current user's verdict breakdown. A 401 forces logout;
// every other backend failure falls back to counting the local partition, so
// the dashboard renders offline.
func (d *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	id := d.sess.Current()
	if id == nil {
		return nil, common.ErrorUnauthorized
	}

	stats, err := d.api.UserStats(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			d.sink.DisconnectionAlert()
			d.sess.ForceLogout("session expired")
			return nil, err
		}
		d.log.Warn(ctx, "user stats unavailable, deriving from cache", "user", id.Username, "error", err)
		return d.fromPartition(ctx, id.Username)
	}

	out := &DashboardStats{Stats: *stats, Source: StatsSourceBackend}
	d.setLast(out)
	return out, nil
}

// Snapshot returns the most recent stats without a network call, or nil when
// none have been loaded yet.
func (d *DashboardService) Snapshot() *DashboardStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return nil
	}
	out := *d.last
	return &out
}

func (d *DashboardService) fromPartition(ctx context.Context, username string) (*DashboardStats, error) {
	var records []models.AnalysisRecord
	if _, err := d.cache.Get(ctx, cache.PartitionKey(username), &records); err != nil {
		return nil, err
	}

	var breakdown models.VerdictStats
	var confidence float64
	for _, r := range records {
		breakdown.Count(r.Verdict)
		confidence += r.Confidence
	}

	stats := api.UserStats{
		Total: breakdown.Total,
		Fake:  breakdown.Fake + breakdown.Deepfake,
		Real:  breakdown.Real + breakdown.Authentic,
	}
	if breakdown.Total > 0 {
		stats.FakePercentage = float64(stats.Fake) / float64(breakdown.Total) * 100
		stats.AverageConfidence = confidence / float64(breakdown.Total)
	}

	out := &DashboardStats{Stats: stats, Source: StatsSourceCache}
	d.setLast(out)
	return out, nil
}

func (d *DashboardService) setLast(s *DashboardStats) {
	d.mu.Lock()
	d.last = s
	d.mu.Unlock()
}
