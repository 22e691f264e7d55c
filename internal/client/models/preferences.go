package models

import "time"

// Analysis modes accepted by the backend.
const (
	ModeTraditional = "traditional"
	ModeAI          = "ai"
	ModeHybrid      = "hybrid"
)

// Preferences is the per-user settings set read at the start of any
// analysis-initiating flow. Absence of a stored set implies the documented
// defaults from DefaultPreferences.
type Preferences struct {
	DefaultAnalysisMode        string   `json:"defaultAnalysisMode"`
	AnalysisTimeoutSeconds     int      `json:"analysisTimeout"`
	ConfidenceThresholdPercent int      `json:"confidenceThreshold"`
	PreferredLanguages         []string `json:"preferredLanguages"`
}

// DefaultPreferences returns the documented defaults: hybrid mode,
// 30 second timeout, 70% confidence threshold.
func DefaultPreferences() Preferences {
	return Preferences{
		DefaultAnalysisMode:        ModeHybrid,
		AnalysisTimeoutSeconds:     30,
		ConfidenceThresholdPercent: 70,
		PreferredLanguages:         []string{"en"},
	}
}

// AnalysisTimeout returns the configured timeout as a duration, falling back
// to the default when the stored value is non-positive.
func (p Preferences) AnalysisTimeout() time.Duration {
	secs := p.AnalysisTimeoutSeconds
	if secs <= 0 {
		secs = DefaultPreferences().AnalysisTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

// ConfidenceThreshold returns the threshold as a fraction in [0,1].
func (p Preferences) ConfidenceThreshold() float64 {
	return float64(p.ConfidenceThresholdPercent) / 100
}
