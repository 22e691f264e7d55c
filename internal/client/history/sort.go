package history

import (
	"sort"
	"strings"

	"github.com/verilens/verilens/internal/client/models"
)

// Well-known sort keys. Any other AnalysisRecord field name is accepted;
// unknown keys compare equal, which leaves the prior order intact.
const (
	SortByDate       = "date"
	SortByConfidence = "confidence"
	SortByVerdict    = "verdict"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// sortRecords orders records in place. The sort is stable: records whose
// sort key is undefined, or that tie, keep their prior relative order.
func sortRecords(records []models.AnalysisRecord, key, order string) {
	desc := order != OrderAsc
	sort.SliceStable(records, func(i, j int) bool {
		c := compareRecords(records[i], records[j], key)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareRecords(a, b models.AnalysisRecord, key string) int {
	switch key {
	case SortByDate, "timestamp", "":
		// a zero timestamp counts as undefined
		if a.Timestamp.IsZero() || b.Timestamp.IsZero() {
			return 0
		}
		if a.Timestamp.Before(b.Timestamp) {
			return -1
		}
		if a.Timestamp.After(b.Timestamp) {
			return 1
		}
		return 0
	case SortByConfidence:
		return compareFloat(a.Confidence, b.Confidence)
	case "processingTime":
		return compareFloat(a.ProcessingTime, b.ProcessingTime)
	default:
		av, aok := stringField(a, key)
		bv, bok := stringField(b, key)
		if !aok || !bok {
			return 0
		}
		return strings.Compare(av, bv)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func stringField(r models.AnalysisRecord, key string) (string, bool) {
	switch key {
	case SortByVerdict:
		return r.Verdict, true
	case "title":
		return r.Title, true
	case "username":
		return r.Username, true
	case "contentType":
		return r.ContentType, true
	case "analysisMode":
		return r.AnalysisMode, true
	case "detectedLanguage":
		return r.DetectedLanguage, true
	case "explanation":
		return r.Explanation, true
	case "id":
		return r.ID, true
	default:
		return "", false
	}
}
