package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techizeBuilder/sunrise-production-api/internal/models"
)

func TestDayOfTruncatesToUTCDay(t *testing.T) {
	loc := time.FixedZone("BST", 6*60*60)
	in := time.Date(2025, 11, 29, 5, 45, 12, 999, loc)
	got := DayOf(in)

	// 05:45+06:00 is still the previous day in UTC
	assert.Equal(t, time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())

	// two timestamps on the same UTC day collapse to one key
	later := time.Date(2025, 11, 28, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, DayOf(later), DayOf(time.Date(2025, 11, 28, 0, 0, 1, 0, time.UTC)))
}

func TestBatchLabel(t *testing.T) {
	assert.Equal(t, "BATNO01", BatchLabel(1))
	assert.Equal(t, "BATNO09", BatchLabel(9))
	assert.Equal(t, "BATNO10", BatchLabel(10))
	assert.Equal(t, "BATNO123", BatchLabel(123))
}

func TestBatchNumberFromLabel(t *testing.T) {
	n, err := BatchNumberFromLabel("BATNO01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = BatchNumberFromLabel("BATNO42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	for _, bad := range []string{"", "BATNO", "BATNO00", "batch-1", "BATNOxx"} {
		_, err := BatchNumberFromLabel(bad)
		assert.Error(t, err, "label %q should be rejected", bad)
	}

	// only the canonical rendering is a valid label: trailing garbage or
	// non-standard padding must not alias another batch
	for _, bad := range []string{"BATNO1x", "BATNO1", "BATNO007", "BATNO01 "} {
		_, err := BatchNumberFromLabel(bad)
		assert.Error(t, err, "non-canonical label %q should be rejected", bad)
	}
}

func TestBatchLabelRoundTrip(t *testing.T) {
	for _, n := range []int64{1, 9, 10, 99, 123} {
		got, err := BatchNumberFromLabel(BatchLabel(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestBatchesRequired(t *testing.T) {
	tests := []struct {
		name        string
		total       int64
		qtyPerBatch int64
		want        int64
	}{
		{"exact multiple", 100, 25, 4},
		{"rounds up", 101, 25, 5},
		{"batch size one", 482, 1, 482},
		{"zero demand", 0, 25, 0},
		{"negative demand", -5, 25, 0},
		{"zero batch size treated as one", 32, 0, 32},
		{"negative batch size treated as one", 7, -3, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BatchesRequired(tt.total, tt.qtyPerBatch))
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusApproved))
	assert.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusRejected))
	assert.True(t, CanTransition(models.OrderStatusApproved, models.OrderStatusRejected))
	assert.True(t, CanTransition(models.OrderStatusApproved, models.OrderStatusDispatched))

	assert.False(t, CanTransition(models.OrderStatusRejected, models.OrderStatusApproved))
	assert.False(t, CanTransition(models.OrderStatusDispatched, models.OrderStatusApproved))
	assert.False(t, CanTransition(models.OrderStatusPending, models.OrderStatusDispatched))
	assert.False(t, CanTransition(models.OrderStatusPending, models.OrderStatusPending))
	assert.False(t, CanTransition("bogus", models.OrderStatusApproved))
}

func TestTouchesApproved(t *testing.T) {
	assert.True(t, TouchesApproved(models.OrderStatusPending, models.OrderStatusApproved))
	assert.True(t, TouchesApproved(models.OrderStatusApproved, models.OrderStatusRejected))
	assert.True(t, TouchesApproved(models.OrderStatusApproved, models.OrderStatusDispatched))
	assert.False(t, TouchesApproved(models.OrderStatusPending, models.OrderStatusRejected))
}

func TestAssignBatchNumbersThreadsCounter(t *testing.T) {
	items := []models.Product{
		{ID: 11, ProductName: "Cover Slab"},
		{ID: 12, ProductName: "Fence Post"},
		{ID: 13, ProductName: "Kerb Stone"},
	}

	entries, next := AssignBatchNumbers(items, 1)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(4), next)
	assert.Equal(t, "BATNO01", entries[0].BatchNo)
	assert.Equal(t, "BATNO02", entries[1].BatchNo)
	assert.Equal(t, "BATNO03", entries[2].BatchNo)
	assert.Equal(t, int64(11), entries[0].ItemID)

	// resuming from a persisted high-water mark continues the sequence
	more, next := AssignBatchNumbers(items[:1], next)
	require.Len(t, more, 1)
	assert.Equal(t, "BATNO04", more[0].BatchNo)
	assert.Equal(t, int64(5), next)

	// generation is deterministic: same inputs, same labels
	again, _ := AssignBatchNumbers(items, 1)
	assert.Equal(t, entries, again)
}

func TestAssignBatchNumbersClampsCounter(t *testing.T) {
	entries, next := AssignBatchNumbers([]models.Product{{ID: 1, ProductName: "X"}}, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, "BATNO01", entries[0].BatchNo)
	assert.Equal(t, int64(2), next)
}

func TestBuildSheetNumbersNewItemsAndReportsThem(t *testing.T) {
	items := []models.Product{
		{ID: 101, ProductName: "Cover Slab"},
		{ID: 102, ProductName: "Fence Post"},
		{ID: 103, ProductName: "Kerb Stone"},
	}

	sheet, fresh := BuildSheet(items, nil)
	require.Len(t, sheet, 3)
	require.Len(t, fresh, 3)
	assert.Equal(t, sheet, fresh)
	assert.Equal(t, "BATNO01", sheet[0].BatchNo)
	assert.Equal(t, "BATNO02", sheet[1].BatchNo)
	assert.Equal(t, "BATNO03", sheet[2].BatchNo)
}

func TestBuildSheetKeepsPersistedLabelsAcrossRegeneration(t *testing.T) {
	items := []models.Product{
		{ID: 101, ProductName: "Cover Slab"},
		{ID: 102, ProductName: "Fence Post"},
		{ID: 103, ProductName: "Kerb Stone"},
	}

	first, fresh := BuildSheet(items, nil)
	require.Len(t, fresh, 3)

	// persist the fresh entries, then rebuild: nothing is renumbered and
	// nothing new is handed out
	ledger := ledgerFromEntries(fresh)
	second, fresh2 := BuildSheet(items, ledger)
	assert.Empty(t, fresh2)
	assert.Equal(t, first, second)
}

func TestBuildSheetPartialLedgerNeverRenumbersExistingRows(t *testing.T) {
	items := []models.Product{
		{ID: 101, ProductName: "Cover Slab"},
		{ID: 102, ProductName: "Fence Post"},
		{ID: 103, ProductName: "Kerb Stone"},
	}

	// only item 103 has a persisted row, holding the day's high-water
	// mark at 3
	ledger := []models.UngroupedItemProduction{
		{ItemID: 103, ItemName: "Kerb Stone", BatchNo: "BATNO03", BatchNumber: 3},
	}

	sheet, fresh := BuildSheet(items, ledger)
	require.Len(t, sheet, 3)
	require.Len(t, fresh, 2)

	byItem := make(map[int64]SheetEntry, len(sheet))
	for _, e := range sheet {
		byItem[e.ItemID] = e
	}
	// 103 keeps its persisted label; the unseen items continue past the
	// high-water mark instead of reusing 1..2 under it
	assert.Equal(t, "BATNO03", byItem[103].BatchNo)
	assert.Equal(t, "BATNO04", byItem[101].BatchNo)
	assert.Equal(t, "BATNO05", byItem[102].BatchNo)

	// once those are persisted too, regeneration is a fixed point
	ledger = append(ledger, ledgerFromEntries(fresh)...)
	_, fresh2 := BuildSheet(items, ledger)
	assert.Empty(t, fresh2)
	again, _ := BuildSheet(items, ledger)
	for _, e := range again {
		assert.Equal(t, byItem[e.ItemID].BatchNo, e.BatchNo, "item %d changed label", e.ItemID)
	}
}

func TestBuildSheetNumbersLateCatalogAdditionAfterExistingLabels(t *testing.T) {
	items := []models.Product{
		{ID: 101, ProductName: "Cover Slab"},
		{ID: 102, ProductName: "Fence Post"},
	}
	_, fresh := BuildSheet(items, nil)
	ledger := ledgerFromEntries(fresh)

	// a product added to the catalog mid-day gets the next number while
	// every existing label stays put
	items = append(items, models.Product{ID: 104, ProductName: "Paving Block"})
	sheet, fresh2 := BuildSheet(items, ledger)
	require.Len(t, fresh2, 1)
	assert.Equal(t, int64(104), fresh2[0].ItemID)
	assert.Equal(t, "BATNO03", fresh2[0].BatchNo)
	assert.Equal(t, "BATNO01", sheet[0].BatchNo)
	assert.Equal(t, "BATNO02", sheet[1].BatchNo)
}

func ledgerFromEntries(entries []SheetEntry) []models.UngroupedItemProduction {
	rows := make([]models.UngroupedItemProduction, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.UngroupedItemProduction{
			ItemID:      e.ItemID,
			ItemName:    e.ItemName,
			BatchNo:     e.BatchNo,
			BatchNumber: e.BatchNumber,
		})
	}
	return rows
}

func TestBatchStatus(t *testing.T) {
	assert.Equal(t, models.BatchStatusUnscheduled, BatchStatus("", ""))
	assert.Equal(t, models.BatchStatusInProgress, BatchStatus("08:30", ""))
	assert.Equal(t, models.BatchStatusCompleted, BatchStatus("08:30", "14:10"))
	// unloading recorded without moulding still counts as completed
	assert.Equal(t, models.BatchStatusCompleted, BatchStatus("", "14:10"))
}

func TestFoldDashboardEveryGroupAppearsOnce(t *testing.T) {
	day := time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC)
	groups := []models.ProductionGroup{
		{ID: 1, Name: "Slabs", ItemIDs: []int64{101, 102}},
		{ID: 2, Name: "Posts", ItemIDs: []int64{103}},
		{ID: 3, Name: "Empty Group", ItemIDs: nil},
	}
	summaries := []models.ProductDailySummary{
		{ProductID: 101, SummaryDate: day, ProductionFinalBatches: 32},
		{ProductID: 102, SummaryDate: day, ProductionFinalBatches: 450},
		{ProductID: 999, SummaryDate: day, ProductionFinalBatches: 7}, // not in any group
	}

	got := FoldDashboard(groups, summaries)
	require.Len(t, got, 3)
	assert.Equal(t, models.GroupBatches{ProductGroup: "Slabs", NoOfBatchesForProduction: 482}, got[0])
	assert.Equal(t, models.GroupBatches{ProductGroup: "Posts", NoOfBatchesForProduction: 0}, got[1])
	assert.Equal(t, models.GroupBatches{ProductGroup: "Empty Group", NoOfBatchesForProduction: 0}, got[2])
}

func TestFoldDashboardSumsAcrossDays(t *testing.T) {
	groups := []models.ProductionGroup{{ID: 1, Name: "Slabs", ItemIDs: []int64{101}}}
	summaries := []models.ProductDailySummary{
		{ProductID: 101, SummaryDate: time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC), ProductionFinalBatches: 3},
		{ProductID: 101, SummaryDate: time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC), ProductionFinalBatches: 4},
	}
	got := FoldDashboard(groups, summaries)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].NoOfBatchesForProduction)
}

func TestSortBreakdown(t *testing.T) {
	rows := []models.SalesBreakdown{
		{SalespersonID: 1, TotalQuantity: 10},
		{SalespersonID: 2, TotalQuantity: 40},
		{SalespersonID: 3, TotalQuantity: 40},
		{SalespersonID: 4, TotalQuantity: 25},
	}
	SortBreakdown(rows)
	assert.Equal(t, int64(2), rows[0].SalespersonID)
	assert.Equal(t, int64(3), rows[1].SalespersonID) // stable on ties
	assert.Equal(t, int64(4), rows[2].SalespersonID)
	assert.Equal(t, int64(1), rows[3].SalespersonID)
}
