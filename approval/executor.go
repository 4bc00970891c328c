package approval

import (
	"context"
	"fmt"
	"time"
)

// DecisionGateway defines the data access the executor requires. The
// repository satisfies it; tests substitute a fake.
type DecisionGateway interface {
	GetByID(ctx context.Context, id string) (Record, error)
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error
	MarkIssueInProgress(ctx context.Context, issueID string, vendorID *string) error
}

// PartialFailure reports that the action status committed but the linked
// issue transition failed. The status write is not rolled back, so the
// action and its issue are out of step until the issue write is retried
// or reconciled externally.
type PartialFailure struct {
	ApprovalID string
	IssueID    string
	Err        error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("approval: decision on %s committed but issue %s update failed: %v", e.ApprovalID, e.IssueID, e.Err)
}

func (e *PartialFailure) Unwrap() error {
	return e.Err
}

// Executor applies approve/deny decisions as two sequential writes: the
// action status first, then the linked issue transition. The gateway
// offers no multi-table transaction across the two, so a failure between
// them is surfaced as *PartialFailure rather than hidden.
type Executor struct {
	gw  DecisionGateway
	now func() time.Time
}

// NewExecutor builds an executor over the given gateway.
func NewExecutor(gw DecisionGateway) *Executor {
	return &Executor{gw: gw, now: time.Now}
}

// WithClock substitutes the updated_at source, primarily for tests.
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	return e
}

// Approve marks the record approved and, when it links an issue, moves
// the issue to in progress and assigns the proposed vendor if one exists.
func (e *Executor) Approve(ctx context.Context, id string) error {
	return e.decide(ctx, id, StatusApproved, true)
}

// Deny marks the record denied and, when it links an issue, moves the
// issue back to in progress so the AI can propose an alternative. No
// vendor is assigned.
func (e *Executor) Deny(ctx context.Context, id string) error {
	return e.decide(ctx, id, StatusDenied, false)
}

func (e *Executor) decide(ctx context.Context, id string, status Status, assignVendor bool) error {
	rec, err := e.gw.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("approval: load record for decision: %w", err)
	}

	if err := e.gw.UpdateStatus(ctx, id, status, e.now().UTC()); err != nil {
		return fmt.Errorf("approval: write decision: %w", err)
	}

	if rec.IssueID == nil {
		return nil
	}

	var vendorID *string
	if assignVendor {
		vendorID = rec.ProposedVendorID
	}
	if err := e.gw.MarkIssueInProgress(ctx, *rec.IssueID, vendorID); err != nil {
		return &PartialFailure{ApprovalID: id, IssueID: *rec.IssueID, Err: err}
	}

	return nil
}
