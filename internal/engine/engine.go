// Package engine holds the pure calculation rules behind the daily
// production summaries, the shift-sheet batch numbering and the
// production dashboard. Nothing in here touches the database.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/techizeBuilder/sunrise-production-api/internal/models"
)

// DayOf truncates a timestamp to its UTC day boundary. Every summary key
// uses this so that time-of-day never fragments a day's aggregate.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// BatchLabel renders the display label for an integer batch sequence
// value, e.g. 1 -> "BATNO01". The label is advisory; the persisted
// identity of a ledger row is the (company, item, batch_no, date) tuple.
func BatchLabel(n int64) string {
	return fmt.Sprintf("BATNO%02d", n)
}

// BatchNumberFromLabel recovers the integer sequence value from a batch
// label ("BATNO07" -> 7). Labels come back from clients on edit calls,
// so only the canonical rendering is accepted: anything that does not
// round-trip through BatchLabel (trailing garbage, extra zero padding)
// is rejected rather than silently aliasing another batch.
func BatchNumberFromLabel(label string) (int64, error) {
	var n int64
	if _, err := fmt.Sscanf(label, "BATNO%d", &n); err != nil || n < 1 || BatchLabel(n) != label {
		return 0, fmt.Errorf("invalid batch label %q", label)
	}
	return n, nil
}

// BatchesRequired converts a total requirement into a whole number of
// production batches, rounding up. A qtyPerBatch of zero or less is
// treated as one so a misconfigured product can never zero out demand.
func BatchesRequired(totalRequirements, qtyPerBatch int64) int64 {
	if totalRequirements <= 0 {
		return 0
	}
	if qtyPerBatch <= 0 {
		qtyPerBatch = 1
	}
	return (totalRequirements + qtyPerBatch - 1) / qtyPerBatch
}

// orderTransitions is the order status state machine. Terminal states
// (rejected, dispatched) have no outgoing edges.
var orderTransitions = map[string][]string{
	models.OrderStatusPending:  {models.OrderStatusApproved, models.OrderStatusRejected},
	models.OrderStatusApproved: {models.OrderStatusRejected, models.OrderStatusDispatched},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TouchesApproved reports whether a status transition changes the set of
// approved orders, i.e. whether summary recompute must run.
func TouchesApproved(prev, next string) bool {
	return prev == models.OrderStatusApproved || next == models.OrderStatusApproved
}

// SheetEntry is one row of a generated shift sheet.
type SheetEntry struct {
	ItemID      int64  `json:"item_id"`
	ItemName    string `json:"item_name"`
	BatchNo     string `json:"batch_no"`
	BatchNumber int64  `json:"batch_number"`
}

// AssignBatchNumbers hands out sequential batch numbers to the given
// items, starting from next. The counter is threaded through explicitly
// so sheet generation stays deterministic; callers resume from the
// highest number already persisted for the day. Returns the entries in
// input order and the next unused counter value.
func AssignBatchNumbers(items []models.Product, next int64) ([]SheetEntry, int64) {
	if next < 1 {
		next = 1
	}
	entries := make([]SheetEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, SheetEntry{
			ItemID:      it.ID,
			ItemName:    it.ProductName,
			BatchNo:     BatchLabel(next),
			BatchNumber: next,
		})
		next++
	}
	return entries, next
}

// BuildSheet merges a day's persisted ledger rows with the catalog's
// ungrouped items into the shift sheet. Persisted rows keep their batch
// numbers; items with no row yet are numbered from the ledger's
// high-water mark. The second return value holds only the newly
// numbered entries, which the caller must persist so the labels survive
// regeneration.
func BuildSheet(items []models.Product, ledger []models.UngroupedItemProduction) ([]SheetEntry, []SheetEntry) {
	var maxBatch int64
	seen := make(map[int64]bool, len(ledger))
	sheet := make([]SheetEntry, 0, len(items)+len(ledger))
	for _, row := range ledger {
		sheet = append(sheet, SheetEntry{
			ItemID:      row.ItemID,
			ItemName:    row.ItemName,
			BatchNo:     row.BatchNo,
			BatchNumber: row.BatchNumber,
		})
		seen[row.ItemID] = true
		if row.BatchNumber > maxBatch {
			maxBatch = row.BatchNumber
		}
	}

	var unnumbered []models.Product
	for _, it := range items {
		if !seen[it.ID] {
			unnumbered = append(unnumbered, it)
		}
	}
	fresh, _ := AssignBatchNumbers(unnumbered, maxBatch+1)
	return append(sheet, fresh...), fresh
}

// BatchStatus derives the ledger state from which time fields are set:
// moulding started -> in-progress, unloading recorded -> completed.
func BatchStatus(mouldingTime, unloadingTime string) string {
	switch {
	case unloadingTime != "":
		return models.BatchStatusCompleted
	case mouldingTime != "":
		return models.BatchStatusInProgress
	default:
		return models.BatchStatusUnscheduled
	}
}

// FoldDashboard sums production_final_batches across each group's item
// set. Every group appears exactly once in the result, in input order;
// groups with no items or no matching summaries report zero rather than
// being dropped.
func FoldDashboard(groups []models.ProductionGroup, summaries []models.ProductDailySummary) []models.GroupBatches {
	batchesByProduct := make(map[int64]int64, len(summaries))
	for _, s := range summaries {
		batchesByProduct[s.ProductID] += s.ProductionFinalBatches
	}

	out := make([]models.GroupBatches, 0, len(groups))
	for _, g := range groups {
		var total int64
		for _, itemID := range g.ItemIDs {
			total += batchesByProduct[itemID]
		}
		out = append(out, models.GroupBatches{
			ProductGroup:             g.Name,
			NoOfBatchesForProduction: total,
		})
	}
	return out
}

// SortBreakdown orders a sales breakdown by quantity descending. Ties
// keep their relative order; no tie-break is defined.
func SortBreakdown(rows []models.SalesBreakdown) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalQuantity > rows[j].TotalQuantity
	})
}
