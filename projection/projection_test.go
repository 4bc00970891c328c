package projection

import (
	"reflect"
	"testing"
	"time"

	"github.com/nicolu0/bedrock-mobile/approval"
)

var baseTime = time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)

func rec(id string, status approval.Status, createdOffset time.Duration) approval.Record {
	return approval.Record{
		ID:        id,
		Status:    status,
		CreatedAt: baseTime.Add(createdOffset),
	}
}

func withIssue(r approval.Record, buildingID, buildingName string, urgency approval.Urgency, trade string) approval.Record {
	issue := &approval.Issue{
		ID:      "issue-" + r.ID,
		Urgency: urgency,
		Unit: approval.Unit{
			BuildingID: buildingID,
			Building:   approval.Building{ID: buildingID, Name: buildingName},
		},
	}
	if trade != "" {
		issue.SuggestedVendor = &approval.Vendor{ID: "sv-" + r.ID, Trade: &trade}
	}
	r.Issue = issue
	return r
}

func ids(records []approval.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApply_FiltersCommute(t *testing.T) {
	records := []approval.Record{
		withIssue(rec("a1", approval.StatusPending, 0), "b1", "Alder House", approval.UrgencyHigh, "plumbing"),
		withIssue(rec("a2", approval.StatusApproved, time.Minute), "b1", "Alder House", approval.UrgencyLow, "electrical"),
		withIssue(rec("a3", approval.StatusPending, 2*time.Minute), "b2", "Birch Court", approval.UrgencyHigh, "plumbing"),
		rec("a4", approval.StatusPending, 3*time.Minute),
	}

	filters := []FilterState{
		{Status: approval.ScopeOf(approval.StatusPending)},
		{BuildingID: "b1"},
		{Urgency: approval.UrgencyHigh},
		{Trade: "plumbing"},
	}

	for i, f1 := range filters {
		for j, f2 := range filters {
			oneWay := Apply(Apply(records, f1), f2)
			otherWay := Apply(Apply(records, f2), f1)
			if !reflect.DeepEqual(ids(oneWay), ids(otherWay)) {
				t.Errorf("filters %d and %d do not commute: %v vs %v", i, j, ids(oneWay), ids(otherWay))
			}
		}
	}
}

func TestApply_MissingIssueNeverMatchesSpecificValue(t *testing.T) {
	records := []approval.Record{
		rec("bare", approval.StatusPending, 0),
		withIssue(rec("linked", approval.StatusPending, time.Minute), "b1", "Alder House", approval.UrgencyHigh, "plumbing"),
	}

	for _, f := range []FilterState{
		{BuildingID: "b1"},
		{Urgency: approval.UrgencyHigh},
		{Trade: "plumbing"},
	} {
		got := Apply(records, f)
		if len(got) != 1 || got[0].ID != "linked" {
			t.Errorf("filter %+v should exclude the issueless record, got %v", f, ids(got))
		}
	}
}

func TestApply_TypeFilter(t *testing.T) {
	records := []approval.Record{
		{ID: "a1", Type: "triage"},
		{ID: "a2", Type: "dispatch"},
	}

	got := Apply(records, FilterState{Type: "dispatch"})
	if len(got) != 1 || got[0].ID != "a2" {
		t.Fatalf("expected only the dispatch record, got %v", ids(got))
	}
	if got := Apply(records, FilterState{Type: "all"}); len(got) != 2 {
		t.Fatalf("type 'all' must not narrow, got %v", ids(got))
	}
}

func TestSort_StableForEqualKeys(t *testing.T) {
	same := []approval.Record{
		rec("first", approval.StatusPending, 0),
		rec("second", approval.StatusPending, 0),
		rec("third", approval.StatusPending, 0),
	}

	for _, key := range []SortKey{SortNewest, SortOldest} {
		got := Sort(same, key)
		if want := []string{"first", "second", "third"}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("sort %q reordered equal keys: %v", key, ids(got))
		}
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	records := []approval.Record{
		rec("a1", approval.StatusPending, 0),
		rec("a2", approval.StatusPending, time.Minute),
	}
	before := ids(records)

	Sort(records, SortNewest)

	if !reflect.DeepEqual(ids(records), before) {
		t.Errorf("input mutated: %v", ids(records))
	}
}

func TestSort_UrgencyOrder(t *testing.T) {
	records := []approval.Record{
		withIssue(rec("low", approval.StatusPending, 0), "b1", "Alder House", approval.UrgencyLow, ""),
		withIssue(rec("high", approval.StatusPending, 0), "b1", "Alder House", approval.UrgencyHigh, ""),
		withIssue(rec("medium", approval.StatusPending, 0), "b1", "Alder House", approval.UrgencyMedium, ""),
	}

	got := Sort(records, SortUrgency)
	if want := []string{"high", "medium", "low"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
}

func TestSort_UrgencyUnknownLast(t *testing.T) {
	records := []approval.Record{
		rec("bare", approval.StatusPending, 0),
		withIssue(rec("odd", approval.StatusPending, 0), "b1", "Alder House", approval.Urgency("critical"), ""),
		withIssue(rec("low", approval.StatusPending, 0), "b1", "Alder House", approval.UrgencyLow, ""),
	}

	got := Sort(records, SortUrgency)
	if got[0].ID != "low" {
		t.Errorf("recognized urgency must sort before unknown, got %v", ids(got))
	}
}

func TestExtractFacets_BuildingCounts(t *testing.T) {
	records := []approval.Record{
		withIssue(rec("a1", approval.StatusPending, 0), "bA", "Alder House", approval.UrgencyHigh, ""),
		withIssue(rec("a2", approval.StatusPending, time.Minute), "bA", "Alder House", approval.UrgencyLow, ""),
		withIssue(rec("a3", approval.StatusPending, 2*time.Minute), "bA", "Alder House", approval.UrgencyLow, ""),
		withIssue(rec("a4", approval.StatusPending, 3*time.Minute), "bB", "Birch Court", approval.UrgencyMedium, ""),
		withIssue(rec("a5", approval.StatusPending, 4*time.Minute), "bB", "Birch Court", approval.UrgencyMedium, ""),
		rec("a6", approval.StatusPending, 5*time.Minute),
	}

	facets := ExtractFacets(records)

	want := []BuildingFacet{
		{ID: "bA", Name: "Alder House", Count: 3},
		{ID: "bB", Name: "Birch Court", Count: 2},
	}
	if !reflect.DeepEqual(facets.Buildings, want) {
		t.Errorf("unexpected building facets: %+v", facets.Buildings)
	}
}

func TestExtractFacets_UrgencyPriorityOrder(t *testing.T) {
	records := []approval.Record{
		withIssue(rec("a1", approval.StatusPending, 0), "b1", "Alder House", approval.UrgencyLow, ""),
		withIssue(rec("a2", approval.StatusPending, time.Minute), "b1", "Alder House", approval.UrgencyHigh, ""),
		withIssue(rec("a3", approval.StatusPending, 2*time.Minute), "b1", "Alder House", approval.Urgency("unset"), ""),
		withIssue(rec("a4", approval.StatusPending, 3*time.Minute), "b1", "Alder House", approval.UrgencyMedium, ""),
	}

	facets := ExtractFacets(records)

	got := make([]approval.Urgency, len(facets.Urgencies))
	for i, f := range facets.Urgencies {
		got[i] = f.Urgency
	}
	want := []approval.Urgency{approval.UrgencyHigh, approval.UrgencyMedium, approval.UrgencyLow, approval.Urgency("unset")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected urgency order %v, got %v", want, got)
	}
}

func TestExtractFacets_TradePrefersAssignedVendor(t *testing.T) {
	assigned := "electrical"
	suggested := "plumbing"
	r := withIssue(rec("a1", approval.StatusPending, 0), "b1", "Alder House", approval.UrgencyHigh, suggested)
	r.Issue.Vendor = &approval.Vendor{ID: "v1", Trade: &assigned}

	facets := ExtractFacets([]approval.Record{r})

	if len(facets.Trades) != 1 || facets.Trades[0].Trade != "electrical" {
		t.Errorf("expected assigned vendor trade to win, got %+v", facets.Trades)
	}
}

func TestProject_EndToEndScenario(t *testing.T) {
	// Four pending records created at the same instant so the urgency
	// sort exercises stability rather than the created_at tie-break.
	records := []approval.Record{
		withIssue(rec("h1", approval.StatusPending, 0), "b1", "Alder House", approval.UrgencyHigh, ""),
		withIssue(rec("l1", approval.StatusPending, 0), "b1", "Alder House", approval.UrgencyLow, ""),
		withIssue(rec("m1", approval.StatusPending, 0), "b1", "Alder House", approval.UrgencyMedium, ""),
		withIssue(rec("h2", approval.StatusPending, 0), "b1", "Alder House", approval.UrgencyHigh, ""),
	}

	view := Project(records, FilterState{
		Status: approval.ScopeOf(approval.StatusPending),
		Sort:   SortUrgency,
	})

	if want := []string{"h1", "h2", "m1", "l1"}; !reflect.DeepEqual(ids(view.Records), want) {
		t.Fatalf("expected %v, got %v", want, ids(view.Records))
	}
}

func TestFilterState_ResetKeepsStatus(t *testing.T) {
	f := FilterState{
		Status:     approval.ScopeOf(approval.StatusPending),
		Type:       "dispatch",
		BuildingID: "b1",
		Urgency:    approval.UrgencyHigh,
		Trade:      "plumbing",
		Sort:       SortUrgency,
	}

	got := f.Reset()
	want := FilterState{Status: approval.ScopeOf(approval.StatusPending), Sort: SortNewest}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
