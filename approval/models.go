package approval

import "time"

// Status represents the decision lifecycle of an action. Only pending
// records accept a client decision; everything else is terminal here.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
	StatusExecuted Status = "executed"
	StatusFailed   Status = "failed"
)

// Terminal reports whether no client-side transition leaves the status.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// StatusScope selects which statuses a fetch returns.
type StatusScope string

// ScopeAll disables the status filter entirely.
const ScopeAll StatusScope = "all"

// ScopeOf narrows a fetch to a single status.
func ScopeOf(s Status) StatusScope {
	return StatusScope(s)
}

// Urgency classifies issue priority.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Rank orders urgencies for sorting, high first. Unrecognized values
// (including the empty urgency of an issueless record) sort last.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyHigh:
		return 0
	case UrgencyMedium:
		return 1
	case UrgencyLow:
		return 2
	default:
		return 3
	}
}

// Building is the denormalized buildings row joined onto a record.
type Building struct {
	ID      string
	Name    string
	Address *string
}

// Unit nests its building so the projection engine can filter on
// building id without a second fetch.
type Unit struct {
	ID         string
	Name       string
	BuildingID string
	Building   Building
}

// Tenant identifies who reported the issue.
type Tenant struct {
	ID    string
	Name  string
	Email string
	Phone *string
}

// Vendor is either the issue's assigned vendor or the AI's suggestion.
type Vendor struct {
	ID    string
	Name  string
	Trade *string
	Email *string
	Phone *string
}

// Issue is the read-only issue view joined onto a record. This client
// only ever mutates it as a side effect of a decision (status and vendor
// assignment through the Executor).
type Issue struct {
	ID              string
	Name            string
	Description     *string
	Status          string
	Urgency         Urgency
	Unit            Unit
	Tenant          Tenant
	Vendor          *Vendor
	SuggestedVendor *Vendor
}

// IssueStatusInProgress is the status a linked issue transitions to on
// either decision: approve because vendor dispatch begins a new phase,
// deny because the AI is expected to re-propose.
const IssueStatusInProgress = "in progress"

// Record mirrors the actions row with its joined issue detail. Issue is
// nil for records not linked to an issue.
type Record struct {
	ID               string
	UserID           string
	IssueID          *string
	ProposedVendorID *string
	Type             string
	Title            string
	Detail           *string
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Issue            *Issue
}

// Trade returns the vendor trade used for filtering and facet counts,
// preferring the assigned vendor and falling back to the suggestion.
// Empty when the record has no issue or neither vendor carries a trade.
func (r Record) Trade() string {
	if r.Issue == nil {
		return ""
	}
	if r.Issue.Vendor != nil && r.Issue.Vendor.Trade != nil {
		return *r.Issue.Vendor.Trade
	}
	if r.Issue.SuggestedVendor != nil && r.Issue.SuggestedVendor.Trade != nil {
		return *r.Issue.SuggestedVendor.Trade
	}
	return ""
}
