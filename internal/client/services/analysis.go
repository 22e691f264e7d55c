// Package services implements the flows that sit between the CLI and the
// synchronization core: analysis submission with preference-derived timeouts
// and offline fallback, per-user preference storage, and dashboard
// statistics.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/verilens/verilens/internal/client/api"
	"github.com/verilens/verilens/internal/client/cache"
	"github.com/verilens/verilens/internal/client/events"
	"github.com/verilens/verilens/internal/client/migration"
	"github.com/verilens/verilens/internal/client/models"
	"github.com/verilens/verilens/internal/client/notify"
	"github.com/verilens/verilens/internal/common"
	"github.com/verilens/verilens/internal/logging"
)

// Session is the slice of the session store the services depend on.
type Session interface {
	Current() *models.Identity
	ForceLogout(reason string)
}

// TextInput is a text or URL submission. Exactly one of Text and URL must be
// set; Mode is optional and defaults to the user's preferred mode.
type TextInput struct {
	Text string `validate:"required_without=URL,excluded_with=URL,omitempty,min=50"`
	URL  string `validate:"required_without=Text,omitempty,url"`
	Mode string `validate:"omitempty,oneof=traditional ai hybrid"`
}

// VideoInput is a video file submission for deepfake analysis.
type VideoInput struct {
	Filename string `validate:"required"`
	Data     []byte `validate:"required"`
}

// Outcome is a finished analysis as the caller should present it. Record
// carries the backend verdict; DisplayVerdict is the threshold-adjusted label
// and is never persisted.
type Outcome struct {
	Record         models.AnalysisRecord
	DisplayVerdict string
	Result         *api.AnalysisResult
	Demo           bool
}

// AnalysisService runs the submission flow: validate, load preferences,
// submit with a preference-derived timeout, publish the completion event.
type AnalysisService struct {
	api      api.Client
	cache    cache.Store
	sess     Session
	bus      events.Bus
	sink     *notify.Sink
	log      logging.Logger
	validate *validator.Validate
}

func NewAnalysisService(client api.Client, c cache.Store, sess Session, bus events.Bus, sink *notify.Sink, log logging.Logger) *AnalysisService {
	return &AnalysisService{
		api:      client,
		cache:    c,
		sess:     sess,
		bus:      bus,
		sink:     sink,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// AnalyzeText submits a text or URL. Validation failures never reach the
// network. There is no offline fallback for text: the detection models live
// on the backend.
func (s *AnalysisService) AnalyzeText(ctx context.Context, input TextInput) (*Outcome, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrValidation, validationMessage(err))
	}

	username := s.username()
	prefs := s.Preferences(ctx, username)

	mode := input.Mode
	if mode == "" {
		mode = prefs.DefaultAnalysisMode
	}

	ctx, cancel := context.WithTimeout(ctx, prefs.AnalysisTimeout())
	defer cancel()

	result, err := s.api.AnalyzeText(ctx, api.TextAnalysisRequest{
		Text:        input.Text,
		URL:         input.URL,
		Mode:        mode,
		Preferences: prefs,
	})
	if err != nil {
		return nil, s.submitError(ctx, err, "text analysis")
	}

	record := s.buildRecord(username, contentTitle(input), "text", result)
	outcome := &Outcome{
		Record:         record,
		DisplayVerdict: DisplayVerdict(result.Verdict, result.Confidence, prefs.ConfidenceThreshold()),
		Result:         result,
	}

	s.bus.Publish(events.AnalysisCompleted{Analysis: record, Result: result, Timestamp: time.Now()})
	s.sink.Success("Analysis complete")
	return outcome, nil
}

// AnalyzeVideo submits a video. When the backend is unreachable or the
// analysis times out, a clearly marked demo record is produced and appended
// to the user's partition so the flow stays usable offline.
func (s *AnalysisService) AnalyzeVideo(ctx context.Context, input VideoInput) (*Outcome, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrValidation, validationMessage(err))
	}

	username := s.username()
	prefs := s.Preferences(ctx, username)

	callCtx, cancel := context.WithTimeout(ctx, prefs.AnalysisTimeout())
	defer cancel()

	result, err := s.api.AnalyzeVideo(callCtx, api.VideoAnalysisRequest{
		Filename: input.Filename,
		Data:     input.Data,
	})
	if err != nil {
		if errors.Is(err, common.ErrUnavailable) || errors.Is(err, common.ErrTimeout) {
			return s.demoVideoOutcome(ctx, username, input)
		}
		return nil, s.submitError(ctx, err, "video analysis")
	}

	record := s.buildRecord(username, input.Filename, "video", result)
	outcome := &Outcome{
		Record:         record,
		DisplayVerdict: DisplayVerdict(result.Verdict, result.Confidence, prefs.ConfidenceThreshold()),
		Result:         result,
	}

	s.bus.Publish(events.AnalysisCompleted{Analysis: record, Result: result, Timestamp: time.Now()})
	s.sink.Success("Analysis complete")
	return outcome, nil
}

// Preferences loads the user's stored preferences, falling back to the
// documented defaults when no set is stored or the read fails.
func (s *AnalysisService) Preferences(ctx context.Context, username string) models.Preferences {
	var prefs models.Preferences
	ok, err := s.cache.Get(ctx, cache.PreferencesKey(username), &prefs)
	if err != nil {
		s.log.Warn(ctx, "could not read preferences, using defaults", "user", username, "error", err)
		return models.DefaultPreferences()
	}
	if !ok {
		return models.DefaultPreferences()
	}
	return prefs
}

// SavePreferences validates and persists the user's preference set.
func (s *AnalysisService) SavePreferences(ctx context.Context, username string, prefs models.Preferences) error {
	switch prefs.DefaultAnalysisMode {
	case models.ModeTraditional, models.ModeAI, models.ModeHybrid:
	default:
		return fmt.Errorf("%w: unknown analysis mode %q", common.ErrValidation, prefs.DefaultAnalysisMode)
	}
	if prefs.ConfidenceThresholdPercent < 0 || prefs.ConfidenceThresholdPercent > 100 {
		return fmt.Errorf("%w: confidence threshold must be between 0 and 100", common.ErrValidation)
	}

	if err := s.cache.Set(ctx, cache.PreferencesKey(username), prefs); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	s.sink.Success("Settings saved")
	return nil
}

// demoVideoOutcome builds the offline stand-in result and appends it to the
// user's partition.
func (s *AnalysisService) demoVideoOutcome(ctx context.Context, username string, input VideoInput) (*Outcome, error) {
	result := &api.AnalysisResult{
		Verdict:      models.VerdictAuthentic,
		Confidence:   0.5,
		Explanation:  "Demo result: the detection backend was unreachable, so this verdict was generated locally and is not a real analysis.",
		AnalysisMode: "demo",
	}

	record := s.buildRecord(username, input.Filename, "video", result)
	record.ID = uuid.NewString()

	if err := s.appendToPartition(ctx, username, record); err != nil {
		s.log.Error(ctx, "could not store demo record", "user", username, "error", err)
		s.sink.Error("could not save analysis locally")
		return nil, fmt.Errorf("storing demo record: %w", err)
	}

	s.log.Info(ctx, "backend unreachable, produced demo video result", "user", username, "file", input.Filename)
	s.bus.Publish(events.AnalysisCompleted{Analysis: record, Result: result, Timestamp: time.Now()})
	s.sink.Notify("Backend unreachable: showing a demo result", models.SeverityWarning, notify.DefaultTTL)

	return &Outcome{
		Record:         record,
		DisplayVerdict: models.VerdictInconclusive,
		Result:         result,
		Demo:           true,
	}, nil
}

// appendToPartition re-reads the partition immediately before appending, so
// a concurrent write through the same store is not silently dropped.
func (s *AnalysisService) appendToPartition(ctx context.Context, username string, record models.AnalysisRecord) error {
	var records []models.AnalysisRecord
	if _, err := s.cache.Get(ctx, cache.PartitionKey(username), &records); err != nil {
		return err
	}
	return s.cache.Set(ctx, cache.PartitionKey(username), append(records, record))
}

func (s *AnalysisService) buildRecord(username, title, contentType string, result *api.AnalysisResult) models.AnalysisRecord {
	return models.AnalysisRecord{
		Username:         username,
		ContentType:      contentType,
		Title:            title,
		Verdict:          result.Verdict,
		Confidence:       result.Confidence,
		Explanation:      result.Explanation,
		AnalysisMode:     result.AnalysisMode,
		DetectedLanguage: result.DetectedLanguage,
		ProcessingTime:   result.ProcessingTime,
		Timestamp:        time.Now().UTC(),
	}
}

func (s *AnalysisService) submitError(ctx context.Context, err error, what string) error {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		s.sink.DisconnectionAlert()
		s.sess.ForceLogout("session expired")
		return fmt.Errorf("%s: %w", what, err)
	case errors.Is(err, common.ErrTimeout):
		s.sink.Error(what + " timed out")
		return fmt.Errorf("%s: %w", what, err)
	case errors.Is(err, common.ErrUnavailable):
		s.sink.Error("detection backend unreachable")
		return fmt.Errorf("%s: %w", what, err)
	default:
		var remote *api.RemoteError
		if errors.As(err, &remote) {
			s.sink.Error(remote.Message)
		} else {
			s.sink.Error(what + " failed")
		}
		return fmt.Errorf("%s: %w", what, err)
	}
}

func (s *AnalysisService) username() string {
	if id := s.sess.Current(); id != nil {
		return id.Username
	}
	return migration.GuestUser
}

// DisplayVerdict relabels a verdict whose confidence falls below the user's
// threshold as inconclusive. The relabel is display-only; the stored record
// keeps the backend verdict.
func DisplayVerdict(verdict string, confidence, threshold float64) string {
	if confidence < threshold {
		return models.VerdictInconclusive
	}
	return verdict
}

func contentTitle(input TextInput) string {
	if input.URL != "" {
		return input.URL
	}
	title := input.Text
	if len(title) > 60 {
		title = title[:60] + "..."
	}
	return title
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return fmt.Sprintf("field %s failed on %s", f.Field(), f.Tag())
	}
	return err.Error()
}
