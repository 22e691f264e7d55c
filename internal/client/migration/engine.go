// Package migration moves records from the legacy global analysis log into
// per-user partitions. The engine runs on every login, before the first
// history fetch, and derives idempotence purely from partition
// non-emptiness: there is no separate "already migrated" marker.
package migration

import (
	"context"
	"strings"

	"github.com/verilens/verilens/internal/client/cache"
	"github.com/verilens/verilens/internal/client/models"
	"github.com/verilens/verilens/internal/logging"
)

// GuestUser is excluded from migration along with empty usernames.
const GuestUser = "guest"

// Engine performs the one-time partition migration plus the bulk operations
// used by administrative tooling. All cache reads are best effort: a failed
// read counts as "nothing to migrate" and never blocks login.
type Engine struct {
	cache cache.Store
	log   logging.Logger
}

func NewEngine(c cache.Store, log logging.Logger) *Engine {
	return &Engine{cache: c, log: log}
}

// Migrate ensures the user's partition exists. If the partition already has
// records it returns their count unchanged; repeated calls never run with
// effect. Otherwise it copies the user's records out of the global log,
// preserving order and leaving the log untouched.
//
// Note the accepted quirk: a partition legitimately emptied by a cleanup
// operation will be re-populated from the global log on the next login.
func (e *Engine) Migrate(ctx context.Context, username string) (int, error) {
	if username == "" || username == GuestUser {
		return 0, nil
	}

	existing := e.readRecords(ctx, cache.PartitionKey(username))
	if len(existing) > 0 {
		e.log.Debug(ctx, "partition already populated", "user", username, "count", len(existing))
		return len(existing), nil
	}

	var moved []models.AnalysisRecord
	for _, r := range e.readRecords(ctx, cache.KeyGlobalLog) {
		if r.Username == username {
			moved = append(moved, r)
		}
	}
	if len(moved) == 0 {
		return 0, nil
	}

	if err := e.cache.Set(ctx, cache.PartitionKey(username), moved); err != nil {
		return 0, err
	}
	e.log.Info(ctx, "migrated legacy records", "user", username, "count", len(moved))
	return len(moved), nil
}

// IsMigrated reports whether the user's partition is non-empty. This
// deliberately conflates "migrated" with "has data"; see the package comment.
func (e *Engine) IsMigrated(ctx context.Context, username string) bool {
	return len(e.readRecords(ctx, cache.PartitionKey(username))) > 0
}

// Usernames enumerates the distinct non-orphaned usernames appearing in the
// global log, in first-appearance order.
func (e *Engine) Usernames(ctx context.Context) []string {
	seen := make(map[string]struct{})
	var users []string
	for _, r := range e.readRecords(ctx, cache.KeyGlobalLog) {
		if isOrphaned(r.Username) {
			continue
		}
		if _, ok := seen[r.Username]; ok {
			continue
		}
		seen[r.Username] = struct{}{}
		users = append(users, r.Username)
	}
	return users
}

// Stats computes per-user verdict counts over the global log. Records with
// an orphaned username are grouped under "unknown".
func (e *Engine) Stats(ctx context.Context) map[string]models.VerdictStats {
	stats := make(map[string]models.VerdictStats)
	for _, r := range e.readRecords(ctx, cache.KeyGlobalLog) {
		name := r.Username
		if isOrphaned(name) {
			name = "unknown"
		}
		s := stats[name]
		s.Count(r.Verdict)
		stats[name] = s
	}
	return stats
}

// CleanupReport summarizes a CleanupOrphaned pass.
type CleanupReport struct {
	Removed   int
	Remaining int
	Total     int
}

// CleanupOrphaned rewrites the global log without records whose username is
// empty, "guest", or "unknown". The log is re-read immediately before the
// write so an intervening append is never lost.
func (e *Engine) CleanupOrphaned(ctx context.Context) (CleanupReport, error) {
	all := e.readRecords(ctx, cache.KeyGlobalLog)

	valid := make([]models.AnalysisRecord, 0, len(all))
	for _, r := range all {
		if !isOrphaned(r.Username) {
			valid = append(valid, r)
		}
	}

	report := CleanupReport{
		Removed:   len(all) - len(valid),
		Remaining: len(valid),
		Total:     len(all),
	}
	if report.Removed == 0 {
		return report, nil
	}

	if err := e.cache.Set(ctx, cache.KeyGlobalLog, valid); err != nil {
		return report, err
	}
	e.log.Info(ctx, "removed orphaned records", "removed", report.Removed, "remaining", report.Remaining)
	return report, nil
}

// MigrateAllReport summarizes a MigrateAll pass.
type MigrateAllReport struct {
	Users   int
	Records int
}

// MigrateAll migrates every user discovered in the global log in one pass.
func (e *Engine) MigrateAll(ctx context.Context) (MigrateAllReport, error) {
	users := e.Usernames(ctx)

	var report MigrateAllReport
	report.Users = len(users)
	for _, u := range users {
		n, err := e.Migrate(ctx, u)
		if err != nil {
			return report, err
		}
		report.Records += n
	}
	return report, nil
}

func (e *Engine) readRecords(ctx context.Context, key string) []models.AnalysisRecord {
	var records []models.AnalysisRecord
	ok, err := e.cache.Get(ctx, key, &records)
	if err != nil {
		e.log.Warn(ctx, "cache read failed, treating as empty", "key", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return records
}

func isOrphaned(username string) bool {
	switch strings.TrimSpace(username) {
	case "", GuestUser, "unknown":
		return true
	}
	return false
}
