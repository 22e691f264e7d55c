// Package events implements the process-wide publish/subscribe channel that
// lets a completed analysis refresh the history and dashboard views without
// a reload. The bus is an explicit, injectable dependency rather than a
// package-level singleton so tests can assert delivery in isolation.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/verilens/verilens/internal/client/api"
	"github.com/verilens/verilens/internal/client/models"
	"github.com/verilens/verilens/internal/logging"
)

// NameAnalysisCompleted is the cross-component signal name.
const NameAnalysisCompleted = "analysisCompleted"

// AnalysisCompleted is the payload published after a detection call finishes.
type AnalysisCompleted struct {
	Analysis  models.AnalysisRecord
	Result    *api.AnalysisResult
	Timestamp time.Time
}

// Handler consumes one published event.
type Handler func(AnalysisCompleted)

// Bus delivers events synchronously to subscribers in registration order.
// Events published while no subscriber is registered are lost; there is no
// queuing or persistence.
type Bus interface {
	// Subscribe registers h and returns a function that unregisters it.
	// Unsubscribing twice is a no-op.
	Subscribe(h Handler) (unsubscribe func())

	// Publish delivers evt to every current subscriber. A panicking
	// subscriber does not prevent delivery to the remaining ones.
	Publish(evt AnalysisCompleted)
}

type subscriber struct {
	id int
	h  Handler
}

type bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber
	log    logging.Logger
}

func NewBus(log logging.Logger) Bus {
	return &bus{log: log}
}

func (b *bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, h: h})

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *bus) Publish(evt AnalysisCompleted) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(s, evt)
	}
}

func (b *bus) deliver(s subscriber, evt AnalysisCompleted) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(context.Background(), "event subscriber panicked",
				"event", NameAnalysisCompleted, "subscriber", s.id, "panic", r)
		}
	}()
	s.h(evt)
}
