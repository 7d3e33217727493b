package dbrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techizeBuilder/sunrise-production-api/internal/models"
)

// CatalogRepo is the read-only view of products and production groups.
// The engine never mutates catalog data.
type CatalogRepo struct {
	db *pgxpool.Pool
}

func NewCatalogRepo(db *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// ============================== PRODUCT LOOKUPS ==============================

// GetProducts fetches all products for a company
func (s *CatalogRepo) GetProducts(ctx context.Context, companyID int64) ([]*models.Product, error) {
	query := `
        SELECT
            p.id, p.company_id, p.product_name, p.qty_per_batch,
            EXISTS (SELECT 1 FROM production_group_items gi WHERE gi.item_id = p.id) AS grouped,
            p.created_at, p.updated_at
        FROM products p
        WHERE p.company_id = $1
        ORDER BY p.id;
    `
	rows, err := s.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("error fetching products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.ProductName, &p.QtyPerBatch, &p.Grouped, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

// GetUngroupedItems fetches products that belong to no production group,
// in catalog order. These are the items a shift sheet hands batch
// numbers to.
func (s *CatalogRepo) GetUngroupedItems(ctx context.Context, companyID int64) ([]models.Product, error) {
	query := `
        SELECT p.id, p.company_id, p.product_name, p.qty_per_batch, p.created_at, p.updated_at
        FROM products p
        WHERE p.company_id = $1
          AND NOT EXISTS (SELECT 1 FROM production_group_items gi WHERE gi.item_id = p.id)
        ORDER BY p.id;
    `
	rows, err := s.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("error fetching ungrouped items: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.ProductName, &p.QtyPerBatch, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning item: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// GetQtyPerBatch fetches a single product's batch size; defaults to 1
// so a missing configuration can never zero out a batch count
func (s *CatalogRepo) GetQtyPerBatch(ctx context.Context, productID int64) (int64, error) {
	var qty int64
	err := s.db.QueryRow(ctx, `SELECT qty_per_batch FROM products WHERE id=$1`, productID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("product %d not found", productID)
		}
		return 0, err
	}
	if qty <= 0 {
		qty = 1
	}
	return qty, nil
}

// ============================== PRODUCTION GROUPS ==============================

// GetProductionGroups fetches all groups for a company with their item
// sets. Every group is returned even when its item set is empty.
func (s *CatalogRepo) GetProductionGroups(ctx context.Context, companyID int64) ([]models.ProductionGroup, error) {
	query := `
        SELECT g.id, g.company_id, g.name
        FROM production_groups g
        WHERE g.company_id = $1
        ORDER BY g.id;
    `
	rows, err := s.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("error fetching production groups: %w", err)
	}
	defer rows.Close()

	var groups []models.ProductionGroup
	for rows.Next() {
		var g models.ProductionGroup
		if err := rows.Scan(&g.ID, &g.CompanyID, &g.Name); err != nil {
			return nil, fmt.Errorf("error scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	itemRows, err := s.db.Query(ctx, `
        SELECT gi.group_id, gi.item_id
        FROM production_group_items gi
        JOIN production_groups g ON g.id = gi.group_id
        WHERE g.company_id = $1
        ORDER BY gi.group_id, gi.position;
    `, companyID)
	if err != nil {
		return nil, fmt.Errorf("error fetching group items: %w", err)
	}
	defer itemRows.Close()

	itemsByGroup := map[int64][]int64{}
	for itemRows.Next() {
		var groupID, itemID int64
		if err := itemRows.Scan(&groupID, &itemID); err != nil {
			return nil, fmt.Errorf("error scanning group item: %w", err)
		}
		itemsByGroup[groupID] = append(itemsByGroup[groupID], itemID)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range groups {
		groups[i].ItemIDs = itemsByGroup[groups[i].ID]
	}
	return groups, nil
}
