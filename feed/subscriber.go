// Package feed delivers row-level change events for the actions table.
// Consumers treat every event as a hint to re-fetch the joined list, not
// as an incremental patch, so the payload carries the flat row only.
package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// ActionsChannel is the gateway channel the actions trigger publishes on.
const ActionsChannel = "actions_changes"

// Kind classifies a change event. Values match the gateway's TG_OP.
type Kind string

const (
	KindInsert Kind = "INSERT"
	KindUpdate Kind = "UPDATE"
	KindDelete Kind = "DELETE"
)

// Row is the flat actions row carried in a change payload. For deletes
// it holds the old row, otherwise the new one.
type Row struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	IssueID          *string   `json:"issue_id"`
	ProposedVendorID *string   `json:"proposed_vendor_id"`
	Type             string    `json:"action_type"`
	Title            string    `json:"title"`
	Detail           *string   `json:"detail"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Event is one classified change.
type Event struct {
	Kind Kind
	Row  Row
}

// Handlers receives dispatched events. Nil callbacks are skipped. The
// unified OnChange fires before the per-kind callback.
type Handlers struct {
	OnInsert func(Event)
	OnUpdate func(Event)
	OnDelete func(Event)
	OnChange func(Event)
}

// Listener delivers raw change payloads from one named channel until the
// context is cancelled, then closes the returned channel. Reconnection is
// the transport's concern, not the subscriber's.
type Listener interface {
	Listen(ctx context.Context, channel string) (<-chan []byte, error)
}

// Subscriber owns at most one live subscription to a change channel and
// fans events out to the registered handlers. The handler registry is
// decoupled from the channel lifecycle: handlers can be swapped at any
// time without resubscribing.
type Subscriber struct {
	listener Listener
	channel  string

	// lifecycle serializes Start/Stop so two concurrent starts cannot
	// leave two live subscriptions behind.
	lifecycle sync.Mutex

	mu       sync.Mutex
	handlers Handlers
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSubscriber builds a subscriber over listener for channel. An empty
// channel defaults to ActionsChannel.
func NewSubscriber(listener Listener, channel string) *Subscriber {
	if channel == "" {
		channel = ActionsChannel
	}
	return &Subscriber{listener: listener, channel: channel}
}

// SetHandlers replaces the handler registry. Safe to call while the
// subscription is live.
func (s *Subscriber) SetHandlers(h Handlers) {
	s.mu.Lock()
	s.handlers = h
	s.mu.Unlock()
}

// Start opens the subscription. Starting while already started stops the
// prior subscription first, so there is never more than one live channel
// per subscriber and never a duplicate refresh storm.
func (s *Subscriber) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.stop()

	subCtx, cancel := context.WithCancel(ctx)
	payloads, err := s.listener.Listen(subCtx, s.channel)
	if err != nil {
		cancel()
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for payload := range payloads {
			s.dispatch(payload)
		}
	}()

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()
	return nil
}

// Stop releases the subscription and waits for in-flight dispatch to
// drain. Idempotent.
func (s *Subscriber) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.stop()
}

func (s *Subscriber) stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// payloadEnvelope mirrors the trigger's jsonb_build_object shape.
type payloadEnvelope struct {
	Op  Kind `json:"op"`
	Row Row  `json:"row"`
}

func (s *Subscriber) dispatch(payload []byte) {
	var env payloadEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return // malformed payloads are dropped, not fatal
	}

	event := Event{Kind: env.Op, Row: env.Row}

	s.mu.Lock()
	h := s.handlers
	s.mu.Unlock()

	if h.OnChange != nil {
		h.OnChange(event)
	}

	switch env.Op {
	case KindInsert:
		if h.OnInsert != nil {
			h.OnInsert(event)
		}
	case KindUpdate:
		if h.OnUpdate != nil {
			h.OnUpdate(event)
		}
	case KindDelete:
		if h.OnDelete != nil {
			h.OnDelete(event)
		}
	}
}
