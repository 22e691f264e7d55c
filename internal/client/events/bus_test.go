package events

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verilens/verilens/internal/client/models"
	"github.com/verilens/verilens/internal/logging"
)

func newTestBus() Bus {
	return NewBus(logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestBus_DeliversInRegistrationOrder(t *testing.T) {
	b := newTestBus()

	var order []string
	b.Subscribe(func(AnalysisCompleted) { order = append(order, "first") })
	b.Subscribe(func(AnalysisCompleted) { order = append(order, "second") })
	b.Subscribe(func(AnalysisCompleted) { order = append(order, "third") })

	b.Publish(AnalysisCompleted{Timestamp: time.Now()})

	require.Equal(t, []string{"first", "second", "third"}, order)
}

func TestBus_PanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	b := newTestBus()

	var delivered int
	b.Subscribe(func(AnalysisCompleted) { panic("boom") })
	b.Subscribe(func(AnalysisCompleted) { delivered++ })

	b.Publish(AnalysisCompleted{})

	require.Equal(t, 1, delivered)
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := newTestBus()

	var a, c int
	unsub := b.Subscribe(func(AnalysisCompleted) { a++ })
	b.Subscribe(func(AnalysisCompleted) { c++ })

	b.Publish(AnalysisCompleted{})
	unsub()
	unsub() // second call is a no-op
	b.Publish(AnalysisCompleted{})

	require.Equal(t, 1, a)
	require.Equal(t, 2, c)
}

func TestBus_NoSubscribersEventIsLost(t *testing.T) {
	b := newTestBus()
	b.Publish(AnalysisCompleted{Analysis: models.AnalysisRecord{Username: "alice"}})

	var late int
	b.Subscribe(func(AnalysisCompleted) { late++ })
	require.Equal(t, 0, late, "events are fire-and-forget, not replayed")
}

func TestBus_PayloadReachesSubscriber(t *testing.T) {
	b := newTestBus()

	var got AnalysisCompleted
	b.Subscribe(func(evt AnalysisCompleted) { got = evt })

	sent := AnalysisCompleted{
		Analysis:  models.AnalysisRecord{Username: "alice", Verdict: models.VerdictFake},
		Timestamp: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}
	b.Publish(sent)

	require.Equal(t, sent.Analysis, got.Analysis)
	require.Equal(t, sent.Timestamp, got.Timestamp)
}
