// Package session owns the authenticated identity and reconciles it against
// the backend session. The backend is always authoritative; the cached copy
// under the loggedUser key exists only so the identity survives restarts.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/verilens/verilens/internal/client/api"
	"github.com/verilens/verilens/internal/client/cache"
	"github.com/verilens/verilens/internal/client/migration"
	"github.com/verilens/verilens/internal/client/models"
	"github.com/verilens/verilens/internal/common"
	"github.com/verilens/verilens/internal/logging"
)

// defaultGraceDelay is how long a forced logout waits before navigation, so
// the triggering notification stays visible first.
const defaultGraceDelay = 2 * time.Second

// Navigator receives navigation intents from the store. Decoupling this from
// the store keeps the synchronization core independent of the rendering layer.
type Navigator interface {
	NavigateToLogin()
}

// Status is the result of a session probe.
type Status struct {
	Authenticated bool
	Identity      *models.Identity
}

// Store reconciles the in-memory identity, the cached identity, and the
// backend session. States are Anonymous and Authenticated only; every
// transition to Anonymous clears the identity fully.
type Store struct {
	api        api.Client
	cache      cache.Store
	engine     *migration.Engine
	nav        Navigator
	log        logging.Logger
	graceDelay time.Duration

	mu       sync.Mutex
	identity *models.Identity
	forcing  bool
	migrated chan struct{}
}

func NewStore(client api.Client, c cache.Store, engine *migration.Engine, nav Navigator, log logging.Logger) *Store {
	return &Store{
		api:        client,
		cache:      c,
		engine:     engine,
		nav:        nav,
		log:        log,
		graceDelay: defaultGraceDelay,
	}
}

// Restore loads a previously cached identity into memory, typically at
// startup. The cached copy is provisional until CheckSession confirms it.
func (s *Store) Restore(ctx context.Context) {
	var id models.Identity
	ok, err := s.cache.Get(ctx, cache.KeyLoggedUser, &id)
	if err != nil {
		s.log.Warn(ctx, "could not restore cached identity", "error", err)
		return
	}
	if !ok {
		return
	}
	s.mu.Lock()
	s.identity = &id
	s.mu.Unlock()
}

// Current returns a copy of the identity, or nil when anonymous.
func (s *Store) Current() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// CheckSession probes the backend session and reconciles the local state
// with it. The store wins over the cache: a differing backend identity
// overwrites the cached one, and a denied session clears it. Network
// failures are absorbed; the probe never returns an error so opportunistic
// render-path checks cannot be blocked by it.
func (s *Store) CheckSession(ctx context.Context) Status {
	info, err := s.api.CheckSession(ctx)
	if err != nil {
		s.log.Debug(ctx, "session check failed", "error", err)
		return Status{}
	}

	if info.Authenticated {
		id := info.Identity()

		s.mu.Lock()
		changed := s.identity == nil || s.identity.Username != id.Username
		s.identity = &id
		// re-entering Authenticated re-arms the forced-logout latch, the same
		// as Login does
		s.forcing = false
		s.mu.Unlock()

		if changed {
			if err := s.cache.Set(ctx, cache.KeyLoggedUser, id); err != nil {
				s.log.Warn(ctx, "could not cache identity", "user", id.Username, "error", err)
			}
		}
		return Status{Authenticated: true, Identity: &id}
	}

	if s.Current() != nil {
		s.log.Info(ctx, "backend denied cached session, clearing identity")
		s.clearIdentity(ctx)
	}
	return Status{}
}

// Login authenticates against the backend. On success the identity is set in
// memory and cache, and the partition migration is scheduled as a deferred
// task that never delays the returned result; WaitReady sequences it before
// the first history fetch.
func (s *Store) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	info, err := s.api.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, fmt.Errorf("invalid credentials: %w", err)
		}
		return nil, err
	}

	id := info.Identity()
	done := make(chan struct{})

	s.mu.Lock()
	s.identity = &id
	s.forcing = false
	s.migrated = done
	s.mu.Unlock()

	if err := s.cache.Set(ctx, cache.KeyLoggedUser, id); err != nil {
		s.log.Warn(ctx, "could not cache identity", "user", id.Username, "error", err)
	}

	migrateCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		if _, err := s.engine.Migrate(migrateCtx, id.Username); err != nil {
			s.log.Warn(migrateCtx, "login-time migration failed", "user", id.Username, "error", err)
		}
	}()

	return &id, nil
}

// WaitReady blocks until the login-scheduled migration has completed or
// no-opped. It returns immediately when no migration is pending.
func (s *Store) WaitReady(ctx context.Context) error {
	s.mu.Lock()
	ch := s.migrated
	s.mu.Unlock()

	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Register creates an account without signing it in, and initializes an
// empty partition for the new user so later flows find a well-formed value.
func (s *Store) Register(ctx context.Context, username, password string, admin bool) error {
	if err := s.api.Register(ctx, username, password, admin); err != nil {
		return err
	}

	var existing []models.AnalysisRecord
	ok, err := s.cache.Get(ctx, cache.PartitionKey(username), &existing)
	if err == nil && !ok {
		if err := s.cache.Set(ctx, cache.PartitionKey(username), []models.AnalysisRecord{}); err != nil {
			s.log.Warn(ctx, "could not initialize partition", "user", username, "error", err)
		}
	}
	return nil
}

// Logout notifies the backend, then unconditionally clears the identity from
// memory and cache regardless of the network outcome. Analysis partitions
// are untouched: logout affects identity only, never historical data.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn(ctx, "backend logout failed, clearing local session anyway", "error", err)
	}
	s.clearIdentity(ctx)
}

// ForceLogout synchronously clears the identity and schedules navigation to
// the login entry point after the grace delay. Repeated calls, including
// re-entrant ones from in-flight fetch error handlers, have the same effect
// as a single call.
func (s *Store) ForceLogout(reason string) {
	s.mu.Lock()
	if s.forcing {
		s.mu.Unlock()
		return
	}
	s.forcing = true
	s.identity = nil
	s.mu.Unlock()

	ctx := context.Background()
	if err := s.cache.Delete(ctx, cache.KeyLoggedUser); err != nil {
		s.log.Warn(ctx, "could not clear cached identity", "error", err)
	}
	s.log.Warn(ctx, "forced logout", "reason", reason)

	time.AfterFunc(s.graceDelay, s.nav.NavigateToLogin)
}

func (s *Store) clearIdentity(ctx context.Context) {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	if err := s.cache.Delete(ctx, cache.KeyLoggedUser); err != nil {
		s.log.Warn(ctx, "could not clear cached identity", "error", err)
	}
}
