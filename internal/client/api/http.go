package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/verilens/verilens/internal/client/models"
	"github.com/verilens/verilens/internal/common"
	"github.com/verilens/verilens/internal/logging"
)

// HTTPClient is the Client implementation over the backend's JSON API.
// The cookie jar carries the backend session cookie across calls.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	log     logging.Logger
}

func NewHTTPClient(baseURL string, log logging.Logger) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Jar: jar},
		log:     log,
	}, nil
}

// send executes the request and decodes a JSON response into out (if non-nil),
// mapping failures onto the shared error taxonomy:
//
//   - caller-side deadline        -> common.ErrTimeout
//   - transport-level failure     -> common.ErrUnavailable
//   - 401/403                     -> common.ErrorUnauthorized (message preserved)
//   - other non-2xx with a body   -> *RemoteError (backend message verbatim)
func (c *HTTPClient) send(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || req.Context().Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, common.ErrTimeout)
		}
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, common.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s: %w", backendMessage(resp.Body), common.ErrorUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{StatusCode: resp.StatusCode, Message: backendMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// backendMessage extracts the "error" field of an error body, best effort.
func backendMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil || payload.Error == "" {
		return "request failed"
	}
	return payload.Error
}

func (c *HTTPClient) CheckSession(ctx context.Context) (*SessionInfo, error) {
	var info SessionInfo
	if err := c.doJSON(ctx, http.MethodGet, "/check-auth", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*SessionInfo, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Message  string `json:"message"`
		Username string `json:"username"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return nil, err
	}
	return &SessionInfo{Authenticated: true, Username: resp.Username, IsAdmin: resp.IsAdmin}, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, password string, admin bool) error {
	body := map[string]any{"username": username, "password": password, "is_admin": admin}
	return c.doJSON(ctx, http.MethodPost, "/register", body, nil)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/logout", nil, nil)
}

func (c *HTTPClient) AnalyzeText(ctx context.Context, req TextAnalysisRequest) (*AnalysisResult, error) {
	var result AnalysisResult
	if err := c.doJSON(ctx, http.MethodPost, "/predict", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) AnalyzeVideo(ctx context.Context, req VideoAnalysisRequest) (*AnalysisResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("video", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("build video form: %w", err)
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, fmt.Errorf("write video form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close video form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-video", &buf)
	if err != nil {
		return nil, fmt.Errorf("build /analyze-video request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	var result AnalysisResult
	if err := c.send(httpReq, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// wireRecord is the history record as serialized by the backend.
type wireRecord struct {
	ID               int     `json:"id"`
	Username         string  `json:"username"`
	ContentType      string  `json:"content_type"`
	Title            string  `json:"title"`
	Verdict          string  `json:"verdict"`
	Confidence       float64 `json:"confidence"`
	Explanation      string  `json:"explanation"`
	AnalysisMode     string  `json:"analysis_mode"`
	DetectedLanguage string  `json:"detected_language"`
	ProcessingTime   float64 `json:"processing_time"`
	CreatedAt        string  `json:"created_at"`
}

func (w wireRecord) toModel() models.AnalysisRecord {
	return models.AnalysisRecord{
		ID:               fmt.Sprintf("%d", w.ID),
		Username:         w.Username,
		ContentType:      w.ContentType,
		Title:            w.Title,
		Verdict:          w.Verdict,
		Confidence:       w.Confidence,
		Explanation:      w.Explanation,
		AnalysisMode:     w.AnalysisMode,
		DetectedLanguage: w.DetectedLanguage,
		ProcessingTime:   w.ProcessingTime,
		Timestamp:        parseBackendTime(w.CreatedAt),
	}
}

// parseBackendTime accepts the formats the backend emits. A zero time is
// returned when nothing matches; sorting treats it as an undefined key.
func parseBackendTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (c *HTTPClient) UserHistory(ctx context.Context) ([]models.AnalysisRecord, error) {
	var resp struct {
		Success  bool         `json:"success"`
		Analyses []wireRecord `json:"analyses"`
		Total    int          `json:"total"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/user-history", nil, &resp); err != nil {
		return nil, err
	}
	records := make([]models.AnalysisRecord, 0, len(resp.Analyses))
	for _, w := range resp.Analyses {
		records = append(records, w.toModel())
	}
	return records, nil
}

func (c *HTTPClient) UserStats(ctx context.Context) (*UserStats, error) {
	var stats UserStats
	if err := c.doJSON(ctx, http.MethodGet, "/user-stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	var status SystemStatus
	if err := c.doJSON(ctx, http.MethodGet, "/system-status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *HTTPClient) AdminSystemStats(ctx context.Context) (*AdminSystemStats, error) {
	var stats AdminSystemStats
	if err := c.doJSON(ctx, http.MethodGet, "/admin/system-stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) AdminUsers(ctx context.Context) ([]AdminUser, error) {
	var resp struct {
		Users []AdminUser `json:"users"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/admin/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *HTTPClient) AdminRecentAnalyses(ctx context.Context) ([]models.AnalysisRecord, error) {
	var resp struct {
		Analyses []wireRecord `json:"analyses"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/admin/recent-analyses", nil, &resp); err != nil {
		return nil, err
	}
	records := make([]models.AnalysisRecord, 0, len(resp.Analyses))
	for _, w := range resp.Analyses {
		records = append(records, w.toModel())
	}
	return records, nil
}

func (c *HTTPClient) AdminCreateAdmin(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/create-admin", nil, nil)
}

func (c *HTTPClient) AdminAIHealth(ctx context.Context) (*AIHealth, error) {
	var health AIHealth
	if err := c.doJSON(ctx, http.MethodGet, "/admin/openai-status", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}
