package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/techizeBuilder/sunrise-production-api/internal/dbrepo"
	"github.com/techizeBuilder/sunrise-production-api/internal/engine"
	"github.com/techizeBuilder/sunrise-production-api/internal/models"
	"github.com/techizeBuilder/sunrise-production-api/internal/utils"
)

type SummaryHandler struct {
	DB       *dbrepo.SummaryRepo
	Catalog  *dbrepo.CatalogRepo
	infoLog  *log.Logger
	errorLog *log.Logger
}

func NewSummaryHandler(db *dbrepo.SummaryRepo, catalog *dbrepo.CatalogRepo, infoLog *log.Logger, errorLog *log.Logger) *SummaryHandler {
	return &SummaryHandler{
		DB:       db,
		Catalog:  catalog,
		infoLog:  infoLog,
		errorLog: errorLog,
	}
}

// GetProductSummary returns one row per catalog product with its total
// requirements, derived batch count and per-salesperson breakdown.
// Omitting ?date aggregates across all recorded dates; it never means
// "today only". Products with no demand come back with zeros so the
// client can always render the complete catalog.
func (s *SummaryHandler) GetProductSummary(w http.ResponseWriter, r *http.Request) {
	//read company id
	companyID := utils.GetCompanyID(r)
	if companyID == 0 {
		s.errorLog.Println("ERROR_01_GetProductSummary: Company id not found")
		utils.BadRequest(w, errors.New("Company ID not found. Please include 'X-Company-ID' header, e.g., X-Company-ID: 1"))
		return
	}

	var date *time.Time
	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr != "" {
		d, err := utils.ParseDate(dateStr)
		if err != nil {
			s.errorLog.Println("ERROR_02_GetProductSummary:", err)
			utils.BadRequest(w, err)
			return
		}
		date = &d
	}

	summaries, err := s.DB.GetProductSummaries(r.Context(), companyID, date)
	if err != nil {
		s.errorLog.Println("ERROR_03_GetProductSummary: ", err)
		utils.BadRequest(w, err)
		return
	}

	// A breakdown failure for one product must never drop that product
	// from the response; it just reports an empty breakdown.
	for _, summary := range summaries {
		breakdown, err := s.DB.GetSalesBreakdown(r.Context(), companyID, summary.ProductID, date)
		if err != nil {
			s.errorLog.Printf("ERROR_04_GetProductSummary: breakdown for product %d: %v", summary.ProductID, err)
			breakdown = []models.SalesBreakdown{}
		}
		engine.SortBreakdown(breakdown)
		summary.SalesBreakdown = breakdown
	}

	var resp struct {
		Success  bool                     `json:"success"`
		Date     string                   `json:"date,omitempty"`
		Products []*models.ProductSummary `json:"products"`
	}
	resp.Success = true
	resp.Date = dateStr
	resp.Products = summaries
	if resp.Products == nil {
		resp.Products = []*models.ProductSummary{}
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}
