// Package projection derives filtered, sorted views and faceted counts
// from an in-memory approval list. Everything here is pure: inputs are
// never mutated and no I/O happens, so the engine can be recomputed on
// every source or filter change.
package projection

import (
	"sort"

	"github.com/nicolu0/bedrock-mobile/approval"
)

// SortKey selects the ordering of a projected list.
type SortKey string

const (
	// SortNewest orders by creation time descending. Default.
	SortNewest SortKey = "newest"
	// SortOldest orders by creation time ascending.
	SortOldest SortKey = "oldest"
	// SortUrgency orders high before medium before low, unknown or
	// missing urgency last, ties by creation time descending.
	SortUrgency SortKey = "urgency"
)

// FilterState captures the client-local filter and sort selections for
// one screen session. Zero values disable the corresponding filter.
type FilterState struct {
	Status     approval.StatusScope
	Type       string
	BuildingID string
	Urgency    approval.Urgency
	Trade      string
	Sort       SortKey
}

// Reset restores defaults for everything except the status scope.
func (f FilterState) Reset() FilterState {
	return FilterState{Status: f.Status, Sort: SortNewest}
}

// BuildingFacet counts records whose linked issue sits in one building.
type BuildingFacet struct {
	ID    string
	Name  string
	Count int
}

// UrgencyFacet counts records at one urgency level.
type UrgencyFacet struct {
	Urgency approval.Urgency
	Count   int
}

// TradeFacet counts records by vendor trade, assigned vendor preferred,
// suggested vendor as fallback.
type TradeFacet struct {
	Trade string
	Count int
}

// Facets are the distinct-value breakdowns that populate filter pickers.
type Facets struct {
	Buildings []BuildingFacet
	Urgencies []UrgencyFacet
	Trades    []TradeFacet
}

// View bundles the visible records with the facets of the source list.
type View struct {
	Records []approval.Record
	Facets  Facets
}

// Project applies the filter state and sort to records and extracts
// facets from the full input list.
func Project(records []approval.Record, f FilterState) View {
	return View{
		Records: Sort(Apply(records, f), f.Sort),
		Facets:  ExtractFacets(records),
	}
}

// Apply narrows records through each configured filter in turn. Filters
// are independent equality predicates, so application order does not
// affect the result. Records missing a nested field never match a
// specific filter value.
func Apply(records []approval.Record, f FilterState) []approval.Record {
	out := make([]approval.Record, 0, len(records))
	for _, rec := range records {
		if !matches(rec, f) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matches(rec approval.Record, f FilterState) bool {
	if f.Status != "" && f.Status != approval.ScopeAll && rec.Status != approval.Status(f.Status) {
		return false
	}
	if f.Type != "" && f.Type != "all" && rec.Type != f.Type {
		return false
	}
	if f.BuildingID != "" {
		if rec.Issue == nil || rec.Issue.Unit.BuildingID != f.BuildingID {
			return false
		}
	}
	if f.Urgency != "" {
		if rec.Issue == nil || rec.Issue.Urgency != f.Urgency {
			return false
		}
	}
	if f.Trade != "" && rec.Trade() != f.Trade {
		return false
	}
	return true
}

// Sort returns a new ordering of records under key without mutating the
// input. The sort is stable, so records with equal keys keep their
// relative input order.
func Sort(records []approval.Record, key SortKey) []approval.Record {
	out := make([]approval.Record, len(records))
	copy(out, records)

	switch key {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortUrgency:
		sort.SliceStable(out, func(i, j int) bool {
			ri, rj := urgencyRank(out[i]), urgencyRank(out[j])
			if ri != rj {
				return ri < rj
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default: // SortNewest
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	return out
}

func urgencyRank(rec approval.Record) int {
	if rec.Issue == nil {
		return approval.Urgency("").Rank()
	}
	return rec.Issue.Urgency.Rank()
}

// ExtractFacets derives the distinct buildings, urgencies, and trades
// present in records with their occurrence counts. Records without the
// relevant nested field contribute to no facet.
func ExtractFacets(records []approval.Record) Facets {
	buildingCounts := map[string]*BuildingFacet{}
	urgencyCounts := map[approval.Urgency]int{}
	tradeCounts := map[string]int{}

	for _, rec := range records {
		if rec.Issue != nil {
			b := rec.Issue.Unit.Building
			if b.ID != "" {
				facet, ok := buildingCounts[b.ID]
				if !ok {
					facet = &BuildingFacet{ID: b.ID, Name: b.Name}
					buildingCounts[b.ID] = facet
				}
				facet.Count++
			}
			if rec.Issue.Urgency != "" {
				urgencyCounts[rec.Issue.Urgency]++
			}
		}
		if trade := rec.Trade(); trade != "" {
			tradeCounts[trade]++
		}
	}

	buildings := make([]BuildingFacet, 0, len(buildingCounts))
	for _, facet := range buildingCounts {
		buildings = append(buildings, *facet)
	}
	sort.Slice(buildings, func(i, j int) bool {
		return buildings[i].Name < buildings[j].Name
	})

	urgencies := make([]UrgencyFacet, 0, len(urgencyCounts))
	for u, count := range urgencyCounts {
		urgencies = append(urgencies, UrgencyFacet{Urgency: u, Count: count})
	}
	sort.Slice(urgencies, func(i, j int) bool {
		ri, rj := urgencies[i].Urgency.Rank(), urgencies[j].Urgency.Rank()
		if ri != rj {
			return ri < rj
		}
		return urgencies[i].Urgency < urgencies[j].Urgency
	})

	trades := make([]TradeFacet, 0, len(tradeCounts))
	for trade, count := range tradeCounts {
		trades = append(trades, TradeFacet{Trade: trade, Count: count})
	}
	sort.Slice(trades, func(i, j int) bool {
		return trades[i].Trade < trades[j].Trade
	})

	return Facets{Buildings: buildings, Urgencies: urgencies, Trades: trades}
}
