package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verilens/verilens/internal/client/models"
)

func titles(records []models.AnalysisRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestSortRecords_ByDate(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	records := []models.AnalysisRecord{
		{Title: "mid", Timestamp: base.Add(time.Hour)},
		{Title: "old", Timestamp: base},
		{Title: "new", Timestamp: base.Add(2 * time.Hour)},
	}

	sortRecords(records, SortByDate, OrderDesc)
	require.Equal(t, []string{"new", "mid", "old"}, titles(records))

	sortRecords(records, SortByDate, OrderAsc)
	require.Equal(t, []string{"old", "mid", "new"}, titles(records))
}

func TestSortRecords_TiesKeepInsertionOrder(t *testing.T) {
	records := []models.AnalysisRecord{
		{Title: "first", Confidence: 0.9},
		{Title: "second", Confidence: 0.9},
		{Title: "third", Confidence: 0.9},
		{Title: "low", Confidence: 0.1},
	}

	sortRecords(records, SortByConfidence, OrderDesc)
	require.Equal(t, []string{"first", "second", "third", "low"}, titles(records))
}

func TestSortRecords_UndefinedKeyLeavesOrderIntact(t *testing.T) {
	records := []models.AnalysisRecord{
		{Title: "a"},
		{Title: "b"},
		{Title: "c"},
	}

	sortRecords(records, "noSuchField", OrderDesc)
	require.Equal(t, []string{"a", "b", "c"}, titles(records))

	// zero timestamps are undefined too
	sortRecords(records, SortByDate, OrderAsc)
	require.Equal(t, []string{"a", "b", "c"}, titles(records))
}

func TestSortRecords_ByVerdict(t *testing.T) {
	records := []models.AnalysisRecord{
		{Title: "r", Verdict: models.VerdictReal},
		{Title: "f", Verdict: models.VerdictFake},
		{Title: "d", Verdict: models.VerdictDeepfake},
	}

	sortRecords(records, SortByVerdict, OrderAsc)
	require.Equal(t, []string{"d", "f", "r"}, titles(records))
}

func TestSortRecords_IsDeterministic(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mk := func() []models.AnalysisRecord {
		return []models.AnalysisRecord{
			{Title: "a", Confidence: 0.7, Timestamp: base},
			{Title: "b", Confidence: 0.7, Timestamp: base.Add(time.Minute)},
			{Title: "c", Confidence: 0.3, Timestamp: base.Add(2 * time.Minute)},
		}
	}

	first := mk()
	sortRecords(first, SortByConfidence, OrderDesc)
	for i := 0; i < 10; i++ {
		again := mk()
		sortRecords(again, SortByConfidence, OrderDesc)
		require.Equal(t, titles(first), titles(again))
	}
}
