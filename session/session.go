// Package session drives the one-record-at-a-time review flow over an
// ordered snapshot of approval records.
package session

import (
	"context"

	"github.com/nicolu0/bedrock-mobile/approval"
)

// DecideFunc applies a decision to the record id at the cursor. The
// executor's Approve and Deny both satisfy it.
type DecideFunc func(ctx context.Context, id string) error

// Session is a forward-only cursor over a snapshot of records, which
// callers supply oldest-first. The cursor advances exactly one position
// per completed decision; once it passes the end the session is complete
// and a new one must be constructed to review again.
type Session struct {
	records []approval.Record
	cursor  int
}

// New copies records into a fresh session. An empty snapshot starts
// complete.
func New(records []approval.Record) *Session {
	s := &Session{records: make([]approval.Record, len(records))}
	copy(s.records, records)
	return s
}

// Current returns the record at the cursor, or false when complete.
func (s *Session) Current() (approval.Record, bool) {
	if s.IsComplete() {
		return approval.Record{}, false
	}
	return s.records[s.cursor], true
}

// Position returns the zero-based cursor position.
func (s *Session) Position() int {
	return s.cursor
}

// Total returns the snapshot length.
func (s *Session) Total() int {
	return len(s.records)
}

// IsComplete reports whether every record has been decided.
func (s *Session) IsComplete() bool {
	return s.cursor >= len(s.records)
}

// Advance moves the cursor one position forward. No-op once complete.
func (s *Session) Advance() {
	if !s.IsComplete() {
		s.cursor++
	}
}

// Resolve applies decide to the current record and advances only when it
// succeeds; on failure the same record stays current for another
// attempt. Calling Resolve on a complete session does nothing.
func (s *Session) Resolve(ctx context.Context, decide DecideFunc) error {
	current, ok := s.Current()
	if !ok {
		return nil
	}
	if err := decide(ctx, current.ID); err != nil {
		return err
	}
	s.Advance()
	return nil
}

// Rebind swaps in a refreshed snapshot, e.g. after a change event forced
// a re-fetch. When the new list is shorter than the cursor the cursor
// clamps to the last record, which can re-present a different record at
// the same index; that is accepted behavior, not an error.
func (s *Session) Rebind(records []approval.Record) {
	s.records = make([]approval.Record, len(records))
	copy(s.records, records)
	if len(s.records) == 0 {
		s.cursor = 0
	} else if s.cursor >= len(s.records) {
		s.cursor = len(s.records) - 1
	}
}
