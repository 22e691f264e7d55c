// Package history fetches a user's analysis records from the backend with a
// deterministic fallback to the local cache partition. An unauthorized
// response is treated as session loss and routed through forced logout; the
// synchronizer itself never surfaces a raw network error to the view layer.
package history

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

// ReasonSessionExpired is the forced-logout reason used on a 401.
const ReasonSessionExpired = "session expired"

// Session is the slice of the session store the synchronizer depends on:
// sequencing behind the login-time migration and session-loss handling.
type Session interface {
	WaitReady(ctx context.Context) error
	ForceLogout(reason string)
}

// Synchronizer loads, caches, and re-sorts one user's history.
type Synchronizer struct {
	api   api.Client
	cache cache.Store
	sess  Session
	sink  *notify.Sink
	log   logging.Logger

	mu        sync.Mutex
	username  string
	sortKey   string
	sortOrder string
	loaded    []models.AnalysisRecord
}

func NewSynchronizer(client api.Client, c cache.Store, sess Session, sink *notify.Sink, log logging.Logger) *Synchronizer {
	return &Synchronizer{api: client, cache: c, sess: sess, sink: sink, log: log}
}

// Bind subscribes the synchronizer to completed-analysis events so a new
// analysis refreshes the loaded history without a reload.
func (s *Synchronizer) Bind(bus events.Bus) (unsubscribe func()) {
	return bus.Subscribe(func(events.AnalysisCompleted) {
		s.Refresh(context.Background())
	})
}

// Load fetches username's records, preferring the backend and falling back
// to the local partition on any non-auth failure. The result is sorted
// client-side by sortKey/sortOrder. Load never returns an error: sync
// problems surface as notifications, and session loss clears the result so
// callers cannot render records as belonging to a logged-out user.
func (s *Synchronizer) Load(ctx context.Context, username, sortKey, sortOrder string) []models.AnalysisRecord {
	if username == "" {
		s.setLoaded("", sortKey, sortOrder, nil)
		return nil
	}

	// the login-time migration must finish before the first fetch
	if err := s.sess.WaitReady(ctx); err != nil {
		s.log.Warn(ctx, "history load cancelled while waiting for migration", "error", err)
		return nil
	}

	records, err := s.api.UserHistory(ctx)
	if err != nil {
		var remote *api.RemoteError
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			s.log.Warn(ctx, "history fetch unauthorized, forcing logout", "user", username)
			s.sink.DisconnectionAlert()
			s.sess.ForceLogout(ReasonSessionExpired)
			s.setLoaded("", sortKey, sortOrder, nil)
			return nil
		case errors.As(err, &remote):
			s.log.Error(ctx, "history fetch failed", "user", username, "status", remote.StatusCode)
			s.sink.Error("could not load history: " + remote.Message)
			records = s.fallback(ctx, username)
		default:
			s.log.Warn(ctx, "backend unreachable, using cached history", "user", username, "error", err)
			records = s.fallback(ctx, username)
		}
	}

	for i := range records {
		if records[i].Username == "" {
			records[i].Username = username
		}
	}
	sortRecords(records, sortKey, sortOrder)

	s.setLoaded(username, sortKey, sortOrder, records)
	return s.snapshot()
}

// Resort re-orders the already-loaded data without re-fetching. An empty
// data set falls through to a full Load, everything else is sorted in place.
func (s *Synchronizer) Resort(ctx context.Context, sortKey, sortOrder string) []models.AnalysisRecord {
	s.mu.Lock()
	username := s.username
	empty := len(s.loaded) == 0
	if !empty {
		sortRecords(s.loaded, sortKey, sortOrder)
		s.sortKey = sortKey
		s.sortOrder = sortOrder
	}
	s.mu.Unlock()

	if empty {
		if username == "" {
			return nil
		}
		return s.Load(ctx, username, sortKey, sortOrder)
	}
	return s.snapshot()
}

// Refresh reloads with the last username and sort settings.
func (s *Synchronizer) Refresh(ctx context.Context) []models.AnalysisRecord {
	s.mu.Lock()
	username, sortKey, sortOrder := s.username, s.sortKey, s.sortOrder
	s.mu.Unlock()

	if username == "" {
		return nil
	}
	return s.Load(ctx, username, sortKey, sortOrder)
}

// Loaded returns the current result set without touching the network.
func (s *Synchronizer) Loaded() []models.AnalysisRecord {
	return s.snapshot()
}

// fallback reads the user's partition. It never fails: a cache error
// surfaces as an error notification and yields an empty sequence.
func (s *Synchronizer) fallback(ctx context.Context, username string) []models.AnalysisRecord {
	var records []models.AnalysisRecord
	ok, err := s.cache.Get(ctx, cache.PartitionKey(username), &records)
	if err != nil {
		s.log.Error(ctx, "history fallback failed", "user", username, "error", err)
		s.sink.Error("could not load history")
		return nil
	}
	if !ok {
		return nil
	}
	s.log.Info(ctx, "history served from local cache", "user", username, "count", len(records))
	return records
}

func (s *Synchronizer) setLoaded(username, sortKey, sortOrder string, records []models.AnalysisRecord) {
	s.mu.Lock()
	s.username = username
	s.sortKey = sortKey
	s.sortOrder = sortOrder
	s.loaded = records
	s.mu.Unlock()
}

func (s *Synchronizer) snapshot() []models.AnalysisRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AnalysisRecord, len(s.loaded))
	copy(out, s.loaded)
	return out
}
