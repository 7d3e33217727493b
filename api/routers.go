package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/techizeBuilder/sunrise-production-api/internal/utils"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	// --- Global middlewares ---
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Company-ID", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(app.RequestID)
	mux.Use(app.Logger) // Simple logger

	// --- Health check endpoint ---
	mux.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, 200, "Live")
	})

	mux.Post("/api/v1/login", app.Handlers.Auth.Signin)

	// --- Order Routes ---
	mux.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(app.Authenticate)

		// Add a new order (starts in pending)
		// Example: POST /api/v1/orders
		// Body (JSON): { salesperson_id, order_date, items: [{product_id, quantity, unit_price}] }
		r.Post("/", app.Handlers.Order.AddOrder)

		// Paginated order list with optional status filter
		// Example: GET /api/v1/orders?pageNo=1&pageLength=20&status=approved
		r.Get("/", app.Handlers.Order.ListOrdersPaginatedHandler)

		// Get single order with items and status history
		// Example: GET /api/v1/orders/5
		r.Get("/{id}", app.Handlers.Order.GetOrderDetailsByID)

		// Transition order status; recomputes daily summaries as a side effect
		// Example: PUT /api/v1/orders/5/status
		// Body (JSON): { status, remarks }
		r.Put("/{id}/status", app.Handlers.Order.UpdateOrderStatus)
	})

	// --- Product Summary Routes ---
	mux.Route("/api/v1/product-summary", func(r chi.Router) {
		r.Use(app.Authenticate)

		// Per-product daily requirements with sales breakdown
		// Example: GET /api/v1/product-summary?date=2025-11-29
		// Omitting date aggregates across all recorded dates
		r.Get("/", app.Handlers.Summary.GetProductSummary)
	})

	// --- Production Routes ---
	mux.Route("/api/v1/production", func(r chi.Router) {
		r.Use(app.Authenticate)

		// Shift sheet for ungrouped items with batch numbers
		// Example: GET /api/v1/production/sheet?date=2025-11-29
		r.Get("/sheet", app.Handlers.Production.GetShiftSheet)

		// Upsert one field of a batch ledger row
		// Example: POST /api/v1/production/batch-update
		// Body (JSON): { item_id, batch_no, production_date, field, value }
		r.Post("/batch-update", app.Handlers.Production.BatchUpdate)

		// Batches required per production group
		// Example: GET /api/v1/production/dashboard?date=2025-11-29
		r.Get("/dashboard", app.Handlers.Production.GetDashboard)
	})

	// --- Catalog Routes (read-only) ---
	mux.Route("/api/v1/catalog", func(r chi.Router) {
		r.Use(app.Authenticate)

		// Example: GET /api/v1/catalog/products
		r.Get("/products", app.Handlers.Catalog.ListProducts)

		// Example: GET /api/v1/catalog/groups
		r.Get("/groups", app.Handlers.Catalog.ListProductionGroups)
	})

	return mux
}
