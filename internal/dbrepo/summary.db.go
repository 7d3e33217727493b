package dbrepo

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techizeBuilder/sunrise-production-api/internal/engine"
	"github.com/techizeBuilder/sunrise-production-api/internal/models"
)

// SummaryRepo owns the product_daily_summary aggregate: one row per
// (product_id, summary_date, company_id), recomputed by full re-sum over
// the currently-approved orders for that key. The compound unique index
// plus the upsert make recompute idempotent and safe under races.
type SummaryRepo struct {
	db      *pgxpool.Pool
	catalog *CatalogRepo
}

func NewSummaryRepo(db *pgxpool.Pool, catalog *CatalogRepo) *SummaryRepo {
	return &SummaryRepo{db: db, catalog: catalog}
}

// ============================== RECOMPUTE ==============================

// RecomputeProductDay re-derives the summary row for one
// (company, product, day) key from scratch. Replaying it any number of
// times with no intervening order changes yields the same row. A key
// whose approved total is zero never creates a row; an existing row is
// updated down to zero so a retracted approval is fully reversed.
func (r *SummaryRepo) RecomputeProductDay(ctx context.Context, companyID, productID int64, day time.Time) error {
	day = engine.DayOf(day)
	nextDay := day.AddDate(0, 0, 1)

	var productName string
	err := r.db.QueryRow(ctx, `
        SELECT product_name FROM products WHERE id=$1 AND company_id=$2
    `, productID, companyID).Scan(&productName)
	if err != nil {
		return fmt.Errorf("load product %d: %w", productID, err)
	}

	qtyPerBatch, err := r.catalog.GetQtyPerBatch(ctx, productID)
	if err != nil {
		return fmt.Errorf("load qty per batch: %w", err)
	}

	// Full re-sum over currently-approved orders only. Incremental
	// increment/decrement would drift on missed retraction events.
	var total int64
	err = r.db.QueryRow(ctx, `
        SELECT COALESCE(SUM(oi.quantity), 0)
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        WHERE o.company_id = $1
          AND oi.product_id = $2
          AND o.status = $3
          AND o.order_date >= $4 AND o.order_date < $5
    `, companyID, productID, models.OrderStatusApproved, day, nextDay).Scan(&total)
	if err != nil {
		return fmt.Errorf("sum approved quantities: %w", err)
	}

	batches := engine.BatchesRequired(total, qtyPerBatch)

	if total == 0 {
		// Retraction path: zero out an existing row, never create one
		_, err = r.db.Exec(ctx, `
            UPDATE product_daily_summary
            SET total_requirements = 0, production_final_batches = 0, updated_at = CURRENT_TIMESTAMP
            WHERE product_id = $1 AND summary_date = $2 AND company_id = $3
        `, productID, day, companyID)
		if err != nil {
			return fmt.Errorf("zero summary row: %w", err)
		}
		return nil
	}

	_, err = r.db.Exec(ctx, `
        INSERT INTO product_daily_summary (
            product_id, product_name, company_id, summary_date,
            total_requirements, production_final_batches, qty_per_batch
        ) VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (product_id, summary_date, company_id) DO UPDATE SET
            product_name             = EXCLUDED.product_name,
            total_requirements       = EXCLUDED.total_requirements,
            production_final_batches = EXCLUDED.production_final_batches,
            qty_per_batch            = EXCLUDED.qty_per_batch,
            updated_at               = CURRENT_TIMESTAMP;
    `, productID, productName, companyID, day, total, batches, qtyPerBatch)
	if err != nil {
		return fmt.Errorf("upsert summary row: %w", err)
	}
	return nil
}

// RecomputeKeys recomputes every given (product, day) key. A failure on
// one key is logged and skipped so the remaining keys still refresh; the
// failed key heals on the next status change that touches it.
func (r *SummaryRepo) RecomputeKeys(ctx context.Context, companyID int64, keys []SummaryKey, errorLog *log.Logger) {
	for _, k := range keys {
		if err := r.RecomputeProductDay(ctx, companyID, k.ProductID, k.Day); err != nil {
			errorLog.Printf("recompute summary (company=%d product=%d day=%s): %v",
				companyID, k.ProductID, k.Day.Format("2006-01-02"), err)
		}
	}
}

// ============================== READ SIDE ==============================

// GetProductSummaries returns one row per catalog product for the given
// day, or aggregated across all days when date is nil. Products with no
// summary data come back with zeros so the caller can always render the
// full catalog.
func (r *SummaryRepo) GetProductSummaries(ctx context.Context, companyID int64, date *time.Time) ([]*models.ProductSummary, error) {
	query := `
        SELECT p.id, p.product_name,
               COALESCE(SUM(s.total_requirements), 0),
               COALESCE(SUM(s.production_final_batches), 0)
        FROM products p
        LEFT JOIN product_daily_summary s
               ON s.product_id = p.id
              AND s.company_id = p.company_id
    `
	args := []interface{}{companyID}
	if date != nil {
		day := engine.DayOf(*date)
		query += ` AND s.summary_date = $2`
		args = append(args, day)
	}
	query += `
        WHERE p.company_id = $1
        GROUP BY p.id, p.product_name
        ORDER BY p.id;
    `

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load product summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*models.ProductSummary
	for rows.Next() {
		var s models.ProductSummary
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.TotalRequirements, &s.ProductionFinalBatches); err != nil {
			return nil, fmt.Errorf("scan product summary: %w", err)
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return summaries, nil
}

// GetDailySummaries returns the raw aggregate rows for a company,
// optionally restricted to one day. Used by the dashboard fold.
func (r *SummaryRepo) GetDailySummaries(ctx context.Context, companyID int64, date *time.Time) ([]models.ProductDailySummary, error) {
	query := `
        SELECT id, product_id, product_name, company_id, summary_date,
               total_requirements, production_final_batches, qty_per_batch,
               created_at, updated_at
        FROM product_daily_summary
        WHERE company_id = $1
    `
	args := []interface{}{companyID}
	if date != nil {
		day := engine.DayOf(*date)
		query += ` AND summary_date = $2`
		args = append(args, day)
	}
	query += ` ORDER BY product_id, summary_date;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load daily summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.ProductDailySummary
	for rows.Next() {
		var s models.ProductDailySummary
		if err := rows.Scan(&s.ID, &s.ProductID, &s.ProductName, &s.CompanyID, &s.SummaryDate,
			&s.TotalRequirements, &s.ProductionFinalBatches, &s.QtyPerBatch,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan daily summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return summaries, nil
}

// ============================== SALES BREAKDOWN ==============================

// GetSalesBreakdown computes per-salesperson quantity and order counts
// for one product, approved orders only, optionally restricted to a day.
// Rows come back unordered; callers sort with engine.SortBreakdown.
func (r *SummaryRepo) GetSalesBreakdown(ctx context.Context, companyID, productID int64, date *time.Time) ([]models.SalesBreakdown, error) {
	query := `
        SELECT o.salesperson_id,
               COALESCE(e.fname || ' ' || e.lname, 'Unknown'),
               COALESCE(SUM(oi.quantity), 0),
               COUNT(DISTINCT o.id)
        FROM orders o
        JOIN order_items oi ON oi.order_id = o.id
        LEFT JOIN employees e ON e.id = o.salesperson_id
        WHERE o.company_id = $1
          AND oi.product_id = $2
          AND o.status = $3
    `
	args := []interface{}{companyID, productID, models.OrderStatusApproved}
	if date != nil {
		day := engine.DayOf(*date)
		query += ` AND o.order_date >= $4 AND o.order_date < $5`
		args = append(args, day, day.AddDate(0, 0, 1))
	}
	query += `
        GROUP BY o.salesperson_id, e.fname, e.lname;
    `

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load sales breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := []models.SalesBreakdown{}
	for rows.Next() {
		var b models.SalesBreakdown
		if err := rows.Scan(&b.SalespersonID, &b.SalespersonName, &b.TotalQuantity, &b.OrderCount); err != nil {
			return nil, fmt.Errorf("scan sales breakdown: %w", err)
		}
		breakdown = append(breakdown, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return breakdown, nil
}
