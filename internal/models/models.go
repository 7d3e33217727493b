package models

import "time"

const (
	APPName    = "Sunrise Production API"
	APPVersion = "1.0"
)

// Response is the type for response
type Response struct {
	Error   bool   `json:"error"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JWT holds the signed-in user info carried inside a token
type JWT struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CompanyID int64     `json:"company_id"`
	Issuer    string    `json:"iss"`
	Audience  string    `json:"aud"`
	ExpiresAt int64     `json:"exp"`
	IssuedAt  int64     `json:"iat"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  string
	Algorithm string
	Expiry    time.Duration
	Refresh   time.Duration
}

type DBConfig struct {
	DSN    string
	DEVDSN string
}

type Config struct {
	Port int
	Env  string
	JWT  JWTConfig
	DB   DBConfig
}

// Employee model; salespersons and production staff are both employees
type Employee struct {
	ID        int       `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`   //admin //salesperson //production
	Status    string    `json:"status"` //active //inactive
	Email     string    `json:"email"`  //username
	Password  string    `json:"-"`      // don't expose
	Mobile    string    `json:"mobile"`
	CompanyID int64     `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusApproved   = "approved"
	OrderStatusRejected   = "rejected"
	OrderStatusDispatched = "dispatched"
)

// Order model
type Order struct {
	ID            int64                `json:"id"`
	CompanyID     int64                `json:"company_id"`
	SalespersonID int64                `json:"salesperson_id"`
	CustomerName  string               `json:"customer_name"`
	OrderDate     time.Time            `json:"order_date"`
	Status        string               `json:"status"`
	Notes         string               `json:"notes"`
	Items         []OrderItem          `json:"items"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderStatusHistory is append-only; one row per transition
type OrderStatusHistory struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	ChangedBy int64     `json:"changed_by"`
	Remarks   string    `json:"remarks"`
	ChangedAt time.Time `json:"changed_at"`
}

// Product model; QtyPerBatch drives the batches-required derivation
type Product struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	ProductName string    `json:"product_name"`
	QtyPerBatch int64     `json:"qty_per_batch"`
	Grouped     bool      `json:"grouped"` // member of any production group
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductionGroup rolls a set of items up into one dashboard figure
type ProductionGroup struct {
	ID        int64   `json:"id"`
	CompanyID int64   `json:"company_id"`
	Name      string  `json:"name"`
	ItemIDs   []int64 `json:"item_ids"`
}

// ProductDailySummary is the per (product, day, company) aggregate row.
// At most one row may exist per key; summary_date is truncated to a UTC day.
type ProductDailySummary struct {
	ID                     int64     `json:"id"`
	ProductID              int64     `json:"product_id"`
	ProductName            string    `json:"product_name"`
	CompanyID              int64     `json:"company_id"`
	SummaryDate            time.Time `json:"summary_date"`
	TotalRequirements      int64     `json:"total_requirements"`
	ProductionFinalBatches int64     `json:"production_final_batches"`
	QtyPerBatch            int64     `json:"qty_per_batch"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// SalesBreakdown is derived per product, never persisted
type SalesBreakdown struct {
	SalespersonID   int64  `json:"salesperson_id"`
	SalespersonName string `json:"salesperson_name"`
	TotalQuantity   int64  `json:"total_quantity"`
	OrderCount      int64  `json:"order_count"`
}

// ProductSummary is the read-side row for /product-summary
type ProductSummary struct {
	ProductID              int64            `json:"product_id"`
	ProductName            string           `json:"product_name"`
	TotalRequirements      int64            `json:"total_requirements"`
	ProductionFinalBatches int64            `json:"production_final_batches"`
	SalesBreakdown         []SalesBreakdown `json:"sales_breakdown"`
}

// Batch statuses for the production ledger
const (
	BatchStatusUnscheduled = "unscheduled"
	BatchStatusInProgress  = "in-progress"
	BatchStatusCompleted   = "completed"
)

// UngroupedItemProduction is one ledger row per
// (company_id, item_id, batch_no, production_date); the compound unique
// index is what keeps concurrent edits from duplicating a batch.
type UngroupedItemProduction struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"company_id"`
	ItemID         int64     `json:"item_id"`
	ItemName       string    `json:"item_name"`
	BatchNo        string    `json:"batch_no"`     // display label, e.g. BATNO01
	BatchNumber    int64     `json:"batch_number"` // integer sequence value
	ProductionDate time.Time `json:"production_date"`
	MouldingTime   string    `json:"moulding_time"`
	UnloadingTime  string    `json:"unloading_time"`
	QtyAchieved    int64     `json:"qty_achieved"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GroupBatches is one dashboard projection row
type GroupBatches struct {
	ProductGroup             string `json:"product_group"`
	NoOfBatchesForProduction int64  `json:"no_of_batches_for_production"`
}

// DashboardStats accompanies the dashboard projection
type DashboardStats struct {
	TotalGroups int `json:"total_groups"`
	TotalItems  int `json:"total_items"`
}
