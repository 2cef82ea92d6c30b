package cardgate

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cardgate/cardgate/card"
	"github.com/cardgate/cardgate/token"
)

// Registry is the in-memory keyed store of Cards, built atop exactly one
// hardware [Backend]. Store operations (Put, Get, Unbind, Contains, Cards,
// Len) touch memory only; the bridge operations (Sync, Push, Sense) are the
// explicit points where a physical card event meets the store.
//
// Every entry's key equals its Card's id: Put keys on the card itself, so the
// invariant holds structurally after any operation sequence. Put and Unbind
// are the only writers; the read operations may run concurrently with each
// other.
type Registry struct {
	mu    sync.RWMutex
	cards map[uint16]card.Card

	backend Backend
	audit   *auditDispatcher
	metrics *Metrics
	tokens  *token.Manager
}

// New constructs an empty registry over the reference [NoopBackend].
func New() *Registry {
	return NewWith(NoopBackend{})
}

// NewWith constructs an empty registry over the chosen backend. A nil
// backend falls back to [NoopBackend]: the registry never runs without one.
// For audit, metrics, and token support, construct through [Builder.Build]
// instead.
func NewWith(backend Backend) *Registry {
	if backend == nil {
		backend = NoopBackend{}
	}
	return &Registry{
		cards:   make(map[uint16]card.Card),
		backend: backend,
	}
}

// Backend returns the backend this registry was constructed with.
func (r *Registry) Backend() Backend {
	return r.backend
}

// Put inserts the card, silently replacing any existing entry for the same
// id. Last write wins; Put never fails.
func (r *Registry) Put(c card.Card) {
	r.mu.Lock()
	_, overwrote := r.cards[c.ID()]
	r.cards[c.ID()] = c
	r.mu.Unlock()

	r.metrics.Inc(MetricCardPut)
	if overwrote {
		r.metrics.Inc(MetricCardOverwrite)
		r.emit(eventCardPut, c.ID(), true, nil, map[string]string{"overwrite": "true"})
		return
	}
	r.emit(eventCardPut, c.ID(), true, nil, nil)
}

// Get returns the card bound to id, or false if absent.
func (r *Registry) Get(cardID uint16) (card.Card, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cards[cardID]
	return c, ok
}

// Unbind removes and returns the entry for id, or false if absent.
func (r *Registry) Unbind(cardID uint16) (card.Card, bool) {
	r.mu.Lock()
	c, ok := r.cards[cardID]
	if ok {
		delete(r.cards, cardID)
	}
	r.mu.Unlock()

	if ok {
		r.metrics.Inc(MetricCardUnbind)
		r.emit(eventCardUnbind, cardID, true, nil, nil)
	}
	return c, ok
}

// Contains reports whether an entry for id exists.
func (r *Registry) Contains(cardID uint16) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cards[cardID]
	return ok
}

// Len returns the number of bound cards.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cards)
}

// Cards returns a snapshot of all bound cards in ascending id order.
func (r *Registry) Cards() []card.Card {
	r.mu.RLock()
	out := make([]card.Card, 0, len(r.cards))
	for _, c := range r.cards {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Sync bridges a physical card event into the store: it reads the live card
// state through the backend and binds the result. The backend's strict
// decode guarantees a malformed card never reaches the store.
func (r *Registry) Sync(ctx context.Context, cardID uint16) (card.Card, error) {
	start := time.Now()
	c, err := r.backend.Read(ctx, cardID)
	r.metrics.Observe(MetricSyncLatency, time.Since(start))
	if err != nil {
		r.metrics.Inc(MetricBackendReadFailure)
		r.emit(eventBackendSync, cardID, false, err, nil)
		return card.Card{}, err
	}

	r.metrics.Inc(MetricBackendReadSuccess)
	r.Put(c)
	r.emit(eventBackendSync, cardID, true, nil, nil)
	return c, nil
}

// Push writes the bound card's canonical encoding out through the backend.
// It fails with [ErrCardNotFound] when the id is not bound, and with the
// backend's [*KernelError] when the physical write fails.
func (r *Registry) Push(ctx context.Context, cardID uint16) error {
	c, ok := r.Get(cardID)
	if !ok {
		return ErrCardNotFound
	}

	if err := r.backend.Write(ctx, c, c.Encode()); err != nil {
		r.metrics.Inc(MetricBackendWriteFailure)
		r.emit(eventBackendPush, cardID, false, err, nil)
		return err
	}

	r.metrics.Inc(MetricBackendWriteSuccess)
	r.emit(eventBackendPush, cardID, true, nil, nil)
	return nil
}

// Sense asks the backend to probe for cards in range. It has no result
// contract beyond "attempted a scan" and always terminates.
func (r *Registry) Sense(ctx context.Context) {
	r.backend.Sense(ctx)
	r.metrics.Inc(MetricSenseProbe)
	r.emit(eventBackendSense, 0, true, nil, nil)
}

// Close drains and stops the audit dispatcher, if one is configured.
// Registries built through the New constructors have nothing to close.
func (r *Registry) Close() {
	if r == nil {
		return
	}
	r.audit.Close()
}

// AuditDropped returns the number of audit events dropped under backpressure.
func (r *Registry) AuditDropped() uint64 {
	if r == nil {
		return 0
	}
	return r.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (r *Registry) MetricsSnapshot() MetricsSnapshot {
	if r == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return r.metrics.Snapshot()
}

func (r *Registry) emit(eventType string, cardID uint16, success bool, opErr error, metadata map[string]string) {
	if r.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		CardID:    cardID,
		Success:   success,
		Metadata:  metadata,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	r.audit.Emit(context.Background(), event)
}
