package models

import "time"

// Verdict values produced by the detection backend. VerdictInconclusive is
// assigned client-side when a result's confidence falls below the user's
// configured threshold; it is a display-time relabel and is never written
// back to the stored record.
const (
	VerdictFake         = "fake"
	VerdictReal         = "real"
	VerdictDeepfake     = "deepfake"
	VerdictAuthentic    = "authentic"
	VerdictInconclusive = "inconclusive"
)

// AnalysisRecord is one completed analysis belonging to exactly one user.
// Records are immutable once created. They are persisted by the backend on
// the primary path; in fallback/demo situations they are appended directly
// to the user's local partition.
type AnalysisRecord struct {
	ID               string    `json:"id,omitempty"`
	Username         string    `json:"username"`
	ContentType      string    `json:"contentType"`
	Title            string    `json:"title"`
	Verdict          string    `json:"verdict"`
	Confidence       float64   `json:"confidence"`
	Explanation      string    `json:"explanation"`
	AnalysisMode     string    `json:"analysisMode"`
	DetectedLanguage string    `json:"detectedLanguage"`
	ProcessingTime   float64   `json:"processingTime"`
	Timestamp        time.Time `json:"timestamp"`
}

// VerdictStats is a per-user breakdown of verdict counts.
type VerdictStats struct {
	Total     int `json:"total"`
	Fake      int `json:"fake"`
	Real      int `json:"real"`
	Deepfake  int `json:"deepfake"`
	Authentic int `json:"authentic"`
}

// Count registers one record's verdict in the breakdown.
func (s *VerdictStats) Count(verdict string) {
	s.Total++
	switch verdict {
	case VerdictFake:
		s.Fake++
	case VerdictReal:
		s.Real++
	case VerdictDeepfake:
		s.Deepfake++
	case VerdictAuthentic:
		s.Authentic++
	}
}
