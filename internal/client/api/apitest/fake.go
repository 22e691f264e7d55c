// Package apitest provides a configurable fake of the api.Client interface
// for unit tests.
package apitest

import (
	"context"
	"sync"

	"github.com/verilens/verilens/internal/client/api"
	"github.com/verilens/verilens/internal/client/models"
)

// Fake implements api.Client. Each call delegates to the matching Fn when
// set and returns zero values otherwise. Method names are recorded in Calls.
type Fake struct {
	mu    sync.Mutex
	Calls []string

	CheckSessionFn        func(ctx context.Context) (*api.SessionInfo, error)
	LoginFn               func(ctx context.Context, username, password string) (*api.SessionInfo, error)
	RegisterFn            func(ctx context.Context, username, password string, admin bool) error
	LogoutFn              func(ctx context.Context) error
	AnalyzeTextFn         func(ctx context.Context, req api.TextAnalysisRequest) (*api.AnalysisResult, error)
	AnalyzeVideoFn        func(ctx context.Context, req api.VideoAnalysisRequest) (*api.AnalysisResult, error)
	UserHistoryFn         func(ctx context.Context) ([]models.AnalysisRecord, error)
	UserStatsFn           func(ctx context.Context) (*api.UserStats, error)
	SystemStatusFn        func(ctx context.Context) (*api.SystemStatus, error)
	AdminSystemStatsFn    func(ctx context.Context) (*api.AdminSystemStats, error)
	AdminUsersFn          func(ctx context.Context) ([]api.AdminUser, error)
	AdminRecentAnalysesFn func(ctx context.Context) ([]models.AnalysisRecord, error)
	AdminCreateAdminFn    func(ctx context.Context) error
	AdminAIHealthFn       func(ctx context.Context) (*api.AIHealth, error)
}

var _ api.Client = (*Fake)(nil)

func (f *Fake) record(name string) {
	f.mu.Lock()
	f.Calls = append(f.Calls, name)
	f.mu.Unlock()
}

// CallCount returns how many times the named method was invoked.
func (f *Fake) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int
	for _, c := range f.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *Fake) CheckSession(ctx context.Context) (*api.SessionInfo, error) {
	f.record("CheckSession")
	if f.CheckSessionFn != nil {
		return f.CheckSessionFn(ctx)
	}
	return &api.SessionInfo{}, nil
}

func (f *Fake) Login(ctx context.Context, username, password string) (*api.SessionInfo, error) {
	f.record("Login")
	if f.LoginFn != nil {
		return f.LoginFn(ctx, username, password)
	}
	return &api.SessionInfo{Authenticated: true, Username: username}, nil
}

func (f *Fake) Register(ctx context.Context, username, password string, admin bool) error {
	f.record("Register")
	if f.RegisterFn != nil {
		return f.RegisterFn(ctx, username, password, admin)
	}
	return nil
}

func (f *Fake) Logout(ctx context.Context) error {
	f.record("Logout")
	if f.LogoutFn != nil {
		return f.LogoutFn(ctx)
	}
	return nil
}

func (f *Fake) AnalyzeText(ctx context.Context, req api.TextAnalysisRequest) (*api.AnalysisResult, error) {
	f.record("AnalyzeText")
	if f.AnalyzeTextFn != nil {
		return f.AnalyzeTextFn(ctx, req)
	}
	return &api.AnalysisResult{}, nil
}

func (f *Fake) AnalyzeVideo(ctx context.Context, req api.VideoAnalysisRequest) (*api.AnalysisResult, error) {
	f.record("AnalyzeVideo")
	if f.AnalyzeVideoFn != nil {
		return f.AnalyzeVideoFn(ctx, req)
	}
	return &api.AnalysisResult{}, nil
}

func (f *Fake) UserHistory(ctx context.Context) ([]models.AnalysisRecord, error) {
	f.record("UserHistory")
	if f.UserHistoryFn != nil {
		return f.UserHistoryFn(ctx)
	}
	return nil, nil
}

func (f *Fake) UserStats(ctx context.Context) (*api.UserStats, error) {
	f.record("UserStats")
	if f.UserStatsFn != nil {
		return f.UserStatsFn(ctx)
	}
	return &api.UserStats{}, nil
}

func (f *Fake) SystemStatus(ctx context.Context) (*api.SystemStatus, error) {
	f.record("SystemStatus")
	if f.SystemStatusFn != nil {
		return f.SystemStatusFn(ctx)
	}
	return &api.SystemStatus{}, nil
}

func (f *Fake) AdminSystemStats(ctx context.Context) (*api.AdminSystemStats, error) {
	f.record("AdminSystemStats")
	if f.AdminSystemStatsFn != nil {
		return f.AdminSystemStatsFn(ctx)
	}
	return &api.AdminSystemStats{}, nil
}

func (f *Fake) AdminUsers(ctx context.Context) ([]api.AdminUser, error) {
	f.record("AdminUsers")
	if f.AdminUsersFn != nil {
		return f.AdminUsersFn(ctx)
	}
	return nil, nil
}

func (f *Fake) AdminRecentAnalyses(ctx context.Context) ([]models.AnalysisRecord, error) {
	f.record("AdminRecentAnalyses")
	if f.AdminRecentAnalysesFn != nil {
		return f.AdminRecentAnalysesFn(ctx)
	}
	return nil, nil
}

func (f *Fake) AdminCreateAdmin(ctx context.Context) error {
	f.record("AdminCreateAdmin")
	if f.AdminCreateAdminFn != nil {
		return f.AdminCreateAdminFn(ctx)
	}
	return nil
}

func (f *Fake) AdminAIHealth(ctx context.Context) (*api.AIHealth, error) {
	f.record("AdminAIHealth")
	if f.AdminAIHealthFn != nil {
		return f.AdminAIHealthFn(ctx)
	}
	return &api.AIHealth{}, nil
}

func (f *Fake) Close() error {
	f.record("Close")
	return nil
}
