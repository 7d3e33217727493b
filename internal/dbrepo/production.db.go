package dbrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techizeBuilder/sunrise-production-api/internal/engine"
	"github.com/techizeBuilder/sunrise-production-api/internal/models"
)

// ProductionRepo owns the ungrouped_item_production ledger. One row per
// (company_id, item_id, batch_no, production_date); the compound unique
// index is what lets two batches of the same item coexist on one day
// without ever duplicating a single batch.
type ProductionRepo struct {
	db *pgxpool.Pool
}

func NewProductionRepo(db *pgxpool.Pool) *ProductionRepo {
	return &ProductionRepo{db: db}
}

// batchUpdateColumns are the ledger fields an edit call may touch
var batchUpdateColumns = map[string]string{
	"moulding_time":  "moulding_time",
	"unloading_time": "unloading_time",
	"qty_achieved":   "qty_achieved",
}

// UpsertBatchField writes one field of the ledger row for the exact
// (company, item, batch_no, date) tuple, creating the row on first
// write. The ON CONFLICT clause converts a lost create race into an
// update, so concurrent edits to the same batch can never produce a
// second row. The row's status is re-derived from its time fields after
// every write.
func (r *ProductionRepo) UpsertBatchField(ctx context.Context, companyID, itemID int64, batchNo string, productionDate time.Time, field string, value interface{}) (*models.UngroupedItemProduction, error) {
	column, ok := batchUpdateColumns[field]
	if !ok {
		return nil, fmt.Errorf("field %q is not editable", field)
	}

	batchNumber, err := engine.BatchNumberFromLabel(batchNo)
	if err != nil {
		return nil, err
	}
	day := engine.DayOf(productionDate)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`
        INSERT INTO ungrouped_item_production (
            company_id, item_id, batch_no, batch_number, production_date, %s
        ) VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (company_id, item_id, batch_no, production_date) DO UPDATE SET
            %s         = EXCLUDED.%s,
            updated_at = CURRENT_TIMESTAMP
        RETURNING id
    `, column, column, column)

	var rowID int64
	err = tx.QueryRow(ctx, query, companyID, itemID, batchNo, batchNumber, day, value).Scan(&rowID)
	if err != nil {
		return nil, fmt.Errorf("upsert batch row: %w", err)
	}

	// Re-derive the state machine position from the written row
	var mouldingTime, unloadingTime string
	err = tx.QueryRow(ctx, `
        SELECT moulding_time, unloading_time
        FROM ungrouped_item_production WHERE id=$1
    `, rowID).Scan(&mouldingTime, &unloadingTime)
	if err != nil {
		return nil, fmt.Errorf("load batch row: %w", err)
	}

	status := engine.BatchStatus(mouldingTime, unloadingTime)
	_, err = tx.Exec(ctx, `
        UPDATE ungrouped_item_production SET status=$1 WHERE id=$2
    `, status, rowID)
	if err != nil {
		return nil, fmt.Errorf("update batch status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return r.getBatchRow(ctx, rowID)
}

func (r *ProductionRepo) getBatchRow(ctx context.Context, id int64) (*models.UngroupedItemProduction, error) {
	row := &models.UngroupedItemProduction{}
	err := r.db.QueryRow(ctx, `
        SELECT u.id, u.company_id, u.item_id, COALESCE(p.product_name, ''),
               u.batch_no, u.batch_number, u.production_date,
               u.moulding_time, u.unloading_time, u.qty_achieved, u.status,
               u.created_at, u.updated_at
        FROM ungrouped_item_production u
        LEFT JOIN products p ON p.id = u.item_id
        WHERE u.id = $1
    `, id).Scan(
		&row.ID, &row.CompanyID, &row.ItemID, &row.ItemName,
		&row.BatchNo, &row.BatchNumber, &row.ProductionDate,
		&row.MouldingTime, &row.UnloadingTime, &row.QtyAchieved, &row.Status,
		&row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("load batch row: %w", err)
	}
	return row, nil
}

// GetLedgerRows fetches the day's persisted ledger rows in batch order
func (r *ProductionRepo) GetLedgerRows(ctx context.Context, companyID int64, productionDate time.Time) ([]models.UngroupedItemProduction, error) {
	day := engine.DayOf(productionDate)
	rows, err := r.db.Query(ctx, `
        SELECT u.id, u.company_id, u.item_id, COALESCE(p.product_name, ''),
               u.batch_no, u.batch_number, u.production_date,
               u.moulding_time, u.unloading_time, u.qty_achieved, u.status,
               u.created_at, u.updated_at
        FROM ungrouped_item_production u
        LEFT JOIN products p ON p.id = u.item_id
        WHERE u.company_id = $1 AND u.production_date = $2
        ORDER BY u.batch_number;
    `, companyID, day)
	if err != nil {
		return nil, fmt.Errorf("load ledger rows: %w", err)
	}
	defer rows.Close()

	var ledger []models.UngroupedItemProduction
	for rows.Next() {
		var u models.UngroupedItemProduction
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.ItemID, &u.ItemName,
			&u.BatchNo, &u.BatchNumber, &u.ProductionDate,
			&u.MouldingTime, &u.UnloadingTime, &u.QtyAchieved, &u.Status,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		ledger = append(ledger, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ledger, nil
}

// InsertSheetRows persists freshly numbered sheet entries as
// unscheduled ledger rows, making the ledger the single source of batch
// labels: once written, a label survives sheet regeneration. A
// concurrent generation that already inserted the same tuple is a
// no-op, not an error.
func (r *ProductionRepo) InsertSheetRows(ctx context.Context, companyID int64, productionDate time.Time, entries []engine.SheetEntry) error {
	day := engine.DayOf(productionDate)
	for _, e := range entries {
		_, err := r.db.Exec(ctx, `
            INSERT INTO ungrouped_item_production (
                company_id, item_id, batch_no, batch_number, production_date, status
            ) VALUES ($1,$2,$3,$4,$5,$6)
            ON CONFLICT (company_id, item_id, batch_no, production_date) DO NOTHING
        `, companyID, e.ItemID, e.BatchNo, e.BatchNumber, day, models.BatchStatusUnscheduled)
		if err != nil {
			return fmt.Errorf("insert sheet row for item %d: %w", e.ItemID, err)
		}
	}
	return nil
}
