// Package api defines the Remote Data Service surface consumed by the
// client: session management, analysis submission, history/statistics
// retrieval, and the administrative endpoints. The backend is a JSON HTTP
// API with cookie-based sessions; every unauthorized response must be
// treated by callers as a session-loss signal.
package api

import (
	"context"

	"github.com/verilens/verilens/internal/client/models"
)

// Client is the remote detection service.
//
// Error contract: implementations translate transport and protocol failures
// into the sentinel errors of internal/common (ErrorUnauthorized,
// ErrUnavailable, ErrTimeout) or into *RemoteError for non-2xx responses
// carrying a backend message. Raw transport errors never escape.
type Client interface {
	CheckSession(ctx context.Context) (*SessionInfo, error)
	Login(ctx context.Context, username, password string) (*SessionInfo, error)
	Register(ctx context.Context, username, password string, admin bool) error
	Logout(ctx context.Context) error

	AnalyzeText(ctx context.Context, req TextAnalysisRequest) (*AnalysisResult, error)
	AnalyzeVideo(ctx context.Context, req VideoAnalysisRequest) (*AnalysisResult, error)

	UserHistory(ctx context.Context) ([]models.AnalysisRecord, error)
	UserStats(ctx context.Context) (*UserStats, error)
	SystemStatus(ctx context.Context) (*SystemStatus, error)

	AdminSystemStats(ctx context.Context) (*AdminSystemStats, error)
	AdminUsers(ctx context.Context) ([]AdminUser, error)
	AdminRecentAnalyses(ctx context.Context) ([]models.AnalysisRecord, error)
	AdminCreateAdmin(ctx context.Context) error
	AdminAIHealth(ctx context.Context) (*AIHealth, error)

	Close() error
}

// SessionInfo is the backend's view of the current session.
type SessionInfo struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
	IsAdmin       bool   `json:"is_admin"`
}

// Identity converts the session info into an Identity snapshot.
func (s *SessionInfo) Identity() models.Identity {
	role := models.RoleUser
	if s.IsAdmin {
		role = models.RoleAdmin
	}
	return models.Identity{Username: s.Username, Role: role}
}

// TextAnalysisRequest submits an article body or URL for detection.
// Exactly one of Text or URL must be set.
type TextAnalysisRequest struct {
	Text        string             `json:"text,omitempty"`
	URL         string             `json:"url,omitempty"`
	Mode        string             `json:"mode"`
	Preferences models.Preferences `json:"userPreferences"`
}

// VideoAnalysisRequest submits a video file for deepfake analysis.
type VideoAnalysisRequest struct {
	Filename string
	Data     []byte
}

// AnalysisResult is the backend's detection response. Hybrid-mode runs carry
// the optional consensus fields.
type AnalysisResult struct {
	Verdict          string  `json:"verdict"`
	Confidence       float64 `json:"confidence"`
	Explanation      string  `json:"explanation"`
	AnalysisMode     string  `json:"analysis_mode"`
	DetectedLanguage string  `json:"detected_language"`
	ProcessingTime   float64 `json:"processing_time"`

	RiskLevel         string  `json:"risk_level,omitempty"`
	AIMLAgreement     bool    `json:"ai_ml_agreement,omitempty"`
	ConsensusStrength string  `json:"consensus_strength,omitempty"`
	EnsembleScore     float64 `json:"ensemble_score,omitempty"`
}

// UserStats is the backend's per-user statistics payload.
type UserStats struct {
	Total             int            `json:"total"`
	Fake              int            `json:"fake"`
	Real              int            `json:"real"`
	Inconclusive      int            `json:"inconclusive"`
	FakePercentage    float64        `json:"fake_percentage"`
	AverageConfidence float64        `json:"average_confidence"`
	LanguageDist      map[string]int `json:"language_distribution"`
	ModeDist          map[string]int `json:"analysis_mode_distribution"`
}

// SystemStatus reports which analyzers the backend currently offers.
type SystemStatus struct {
	MLAvailable     bool     `json:"ml_available"`
	AIAvailable     bool     `json:"ai_available"`
	HybridAvailable bool     `json:"hybrid_available"`
	Modes           []string `json:"modes,omitempty"`
}

// AdminSystemStats is the cross-user statistics payload for the admin panel.
type AdminSystemStats struct {
	TotalUsers    int `json:"total_users"`
	TotalAnalyses int `json:"total_analyses"`
	AnalysesToday int `json:"analyses_today"`
}

// AdminUser is one row of the admin user listing.
type AdminUser struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	CreatedAt     string `json:"created_at"`
	LastLogin     string `json:"last_login"`
	TotalAnalyses int    `json:"total_analyses"`
}

// AIHealth reports the state of the backend's external AI service.
type AIHealth struct {
	Status string `json:"status"`
}
