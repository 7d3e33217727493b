package dbrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techizeBuilder/sunrise-production-api/internal/engine"
	"github.com/techizeBuilder/sunrise-production-api/internal/models"
)

type OrderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateOrder inserts an order and its line items. New orders always
// start in pending; only a status transition can make them count toward
// production summaries.
func (r *OrderRepo) CreateOrder(ctx context.Context, newOrder *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	newOrder.Status = models.OrderStatusPending
	if newOrder.OrderDate.IsZero() {
		newOrder.OrderDate = time.Now().UTC()
	}

	// --- Step 1: Insert order ---
	err = tx.QueryRow(ctx, `
        INSERT INTO orders (company_id, salesperson_id, customer_name, order_date, status, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at
    `,
		newOrder.CompanyID, newOrder.SalespersonID, newOrder.CustomerName,
		newOrder.OrderDate, newOrder.Status, newOrder.Notes,
	).Scan(&newOrder.ID, &newOrder.CreatedAt, &newOrder.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	// --- Step 2: Insert order items ---
	for i := range newOrder.Items {
		it := &newOrder.Items[i]
		it.OrderID = newOrder.ID
		err := tx.QueryRow(ctx, `
            INSERT INTO order_items (order_id, product_id, quantity, unit_price)
            VALUES ($1,$2,$3,$4)
            RETURNING id
        `, newOrder.ID, it.ProductID, it.Quantity, it.UnitPrice).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	// --- Step 3: Record the initial status in the history ---
	_, err = tx.Exec(ctx, `
        INSERT INTO order_status_history (order_id, status, changed_by, remarks)
        VALUES ($1,$2,$3,$4)
    `, newOrder.ID, newOrder.Status, newOrder.SalespersonID, "order created")
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}

	return tx.Commit(ctx)
}

// UpdateOrderStatus moves an order through its state machine and appends
// to the status history. Returns the previous status so the caller can
// decide whether a summary recompute is needed. The row is locked for
// the duration of the transition so concurrent transitions serialize.
func (r *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID, companyID int64, newStatus string, actorID int64, remarks string) (string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var prevStatus string
	err = tx.QueryRow(ctx, `
        SELECT status FROM orders
        WHERE id=$1 AND company_id=$2
        FOR UPDATE
    `, orderID, companyID).Scan(&prevStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("order %d not found", orderID)
		}
		return "", fmt.Errorf("load order: %w", err)
	}

	if !engine.CanTransition(prevStatus, newStatus) {
		return "", fmt.Errorf("invalid status transition %s -> %s", prevStatus, newStatus)
	}

	_, err = tx.Exec(ctx, `
        UPDATE orders SET status=$1, updated_at=CURRENT_TIMESTAMP
        WHERE id=$2 AND company_id=$3
    `, newStatus, orderID, companyID)
	if err != nil {
		return "", fmt.Errorf("update order status: %w", err)
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO order_status_history (order_id, status, changed_by, remarks)
        VALUES ($1,$2,$3,$4)
    `, orderID, newStatus, actorID, remarks)
	if err != nil {
		return "", fmt.Errorf("insert status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return prevStatus, nil
}

// SummaryKey identifies one (product, day) aggregate an order touches
type SummaryKey struct {
	ProductID int64
	Day       time.Time
}

// GetSummaryKeys returns the distinct (product, day) pairs an order's
// line items contribute to, with the day truncated to its UTC boundary
func (r *OrderRepo) GetSummaryKeys(ctx context.Context, orderID int64) ([]SummaryKey, error) {
	rows, err := r.db.Query(ctx, `
        SELECT DISTINCT oi.product_id, o.order_date
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        WHERE o.id = $1
        ORDER BY oi.product_id
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("load summary keys: %w", err)
	}
	defer rows.Close()

	var keys []SummaryKey
	for rows.Next() {
		var k SummaryKey
		var orderDate time.Time
		if err := rows.Scan(&k.ProductID, &orderDate); err != nil {
			return nil, fmt.Errorf("scan summary key: %w", err)
		}
		k.Day = engine.DayOf(orderDate)
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return keys, nil
}

// GetOrderDetailsByID fetches an order with its items and status history
func (r *OrderRepo) GetOrderDetailsByID(ctx context.Context, orderID, companyID int64) (*models.Order, error) {
	order := &models.Order{}
	err := r.db.QueryRow(ctx, `
        SELECT id, company_id, salesperson_id, customer_name, order_date, status, notes, created_at, updated_at
        FROM orders
        WHERE id=$1 AND company_id=$2
    `, orderID, companyID).Scan(
		&order.ID, &order.CompanyID, &order.SalespersonID, &order.CustomerName,
		&order.OrderDate, &order.Status, &order.Notes, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	itemRows, err := r.db.Query(ctx, `
        SELECT id, order_id, product_id, quantity, unit_price
        FROM order_items
        WHERE order_id=$1
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it models.OrderItem
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	historyRows, err := r.db.Query(ctx, `
        SELECT id, order_id, status, changed_by, remarks, changed_at
        FROM order_status_history
        WHERE order_id=$1
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("load status history: %w", err)
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var h models.OrderStatusHistory
		if err := historyRows.Scan(&h.ID, &h.OrderID, &h.Status, &h.ChangedBy, &h.Remarks, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		order.StatusHistory = append(order.StatusHistory, h)
	}
	if err := historyRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return order, nil
}

// ListOrdersPaginated lists a company's orders with optional status
// filter, newest first by default
func (r *OrderRepo) ListOrdersPaginated(ctx context.Context, pageNo, pageLength int, status, sortByDate string, companyID int64) ([]*models.Order, error) {
	sortOrder := "DESC"
	if sortByDate == "asc" {
		sortOrder = "ASC"
	}

	query := `
        SELECT id, company_id, salesperson_id, customer_name, order_date, status, notes, created_at, updated_at
        FROM orders
        WHERE company_id = $1
    `
	args := []interface{}{companyID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY order_date %s, id %s LIMIT %d OFFSET %d`,
		sortOrder, sortOrder, pageLength, (pageNo-1)*pageLength)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.SalespersonID, &o.CustomerName,
			&o.OrderDate, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}
