package cli

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// Admin dispatches the administrative subcommands. All of them require an
// admin session; the backend enforces this too.
func (a *App) Admin(ctx context.Context, args []string) {
	if !a.isAdmin() {
		printlnFn("Admin privileges required.")
		return
	}
	if len(args) == 0 {
		printlnFn("Usage: admin users|stats|recent|aihealth|createadmin")
		return
	}

	switch args[0] {
	case "users":
		a.adminUsers(ctx)
	case "stats":
		a.adminStats(ctx)
	case "recent":
		a.adminRecent(ctx)
	case "aihealth":
		a.adminAIHealth(ctx)
	case "createadmin":
		a.adminCreateAdmin(ctx)
	default:
		printlnFn("Unknown admin command:", args[0])
	}
}

func (a *App) adminUsers(ctx context.Context) {
	reqCtx, cancel := a.requestCtx(ctx)
	defer cancel()

	users, err := a.api.AdminUsers(reqCtx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	for _, u := range users {
		printlnFn(fmt.Sprintf("%-20s %-6s analyses: %d, last login: %s", u.Username, u.Role, u.TotalAnalyses, u.LastLogin))
	}
}

func (a *App) adminStats(ctx context.Context) {
	reqCtx, cancel := a.requestCtx(ctx)
	defer cancel()

	stats, err := a.api.AdminSystemStats(reqCtx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	printlnFn(fmt.Sprintf("Users: %d, analyses: %d, today: %d", stats.TotalUsers, stats.TotalAnalyses, stats.AnalysesToday))

	// local per-user breakdown from the cache, useful when auditing offline data
	byUser := a.engine.Stats(ctx)
	usernames := make([]string, 0, len(byUser))
	for u := range byUser {
		usernames = append(usernames, u)
	}
	sort.Strings(usernames)
	for _, u := range usernames {
		s := byUser[u]
		printlnFn(fmt.Sprintf("  cached %-16s total: %d, fake: %d, real: %d", u, s.Total, s.Fake+s.Deepfake, s.Real+s.Authentic))
	}
}

func (a *App) adminRecent(ctx context.Context) {
	reqCtx, cancel := a.requestCtx(ctx)
	defer cancel()

	records, err := a.api.AdminRecentAnalyses(reqCtx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	a.printRecords(records)
}

func (a *App) adminAIHealth(ctx context.Context) {
	reqCtx, cancel := a.requestCtx(ctx)
	defer cancel()

	health, err := a.api.AdminAIHealth(reqCtx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	printlnFn("AI service status:", health.Status)
}

func (a *App) adminCreateAdmin(ctx context.Context) {
	reqCtx, cancel := a.requestCtx(ctx)
	defer cancel()

	if err := a.api.AdminCreateAdmin(reqCtx); err != nil {
		log.Printf("error: %v", err)
		return
	}
	printlnFn("Default admin account ensured.")
}

// MigrateAll moves every user's records out of the shared log into their
// partitions.
func (a *App) MigrateAll(ctx context.Context) {
	if !a.isAdmin() {
		printlnFn("Admin privileges required.")
		return
	}

	report, err := a.engine.MigrateAll(ctx)
	if err != nil {
		log.Printf("Migration failed: %s", err.Error())
		return
	}
	printlnFn(fmt.Sprintf("Migrated %d records for %d users.", report.Records, report.Users))
}

// CleanupOrphaned drops shared-log records that belong to no real user.
func (a *App) CleanupOrphaned(ctx context.Context) {
	if !a.isAdmin() {
		printlnFn("Admin privileges required.")
		return
	}

	report, err := a.engine.CleanupOrphaned(ctx)
	if err != nil {
		log.Printf("Cleanup failed: %s", err.Error())
		return
	}
	printlnFn(fmt.Sprintf("Removed %d orphaned records, %d of %d remain.", report.Removed, report.Remaining, report.Total))
}
