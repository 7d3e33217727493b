package dbrepo

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBRepository contains all individual repositories
type DBRepository struct {
	EmployeeRepo   *EmployeeRepo
	OrderRepo      *OrderRepo
	CatalogRepo    *CatalogRepo
	SummaryRepo    *SummaryRepo
	ProductionRepo *ProductionRepo
}

// NewDBRepository initializes all repositories with a shared connection pool
func NewDBRepository(db *pgxpool.Pool) *DBRepository {
	catalog := NewCatalogRepo(db)
	return &DBRepository{
		EmployeeRepo:   NewEmployeeRepo(db),
		OrderRepo:      NewOrderRepo(db),
		CatalogRepo:    catalog,
		SummaryRepo:    NewSummaryRepo(db, catalog),
		ProductionRepo: NewProductionRepo(db),
	}
}
