package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/techizeBuilder/sunrise-production-api/internal/dbrepo"
	"github.com/techizeBuilder/sunrise-production-api/internal/engine"
	"github.com/techizeBuilder/sunrise-production-api/internal/models"
	"github.com/techizeBuilder/sunrise-production-api/internal/utils"
)

type ProductionHandler struct {
	DB       *dbrepo.ProductionRepo
	Catalog  *dbrepo.CatalogRepo
	Summary  *dbrepo.SummaryRepo
	validate *validator.Validate
	infoLog  *log.Logger
	errorLog *log.Logger
}

func NewProductionHandler(db *dbrepo.ProductionRepo, catalog *dbrepo.CatalogRepo, summary *dbrepo.SummaryRepo, validate *validator.Validate, infoLog *log.Logger, errorLog *log.Logger) *ProductionHandler {
	return &ProductionHandler{
		DB:       db,
		Catalog:  catalog,
		Summary:  summary,
		validate: validate,
		infoLog:  infoLog,
		errorLog: errorLog,
	}
}

// GetShiftSheet builds the day's production sheet for ungrouped items.
// Rows already persisted in the ledger keep their batch numbers; items
// with no row yet get the next values of the sequence and are written
// to the ledger before the sheet is returned, so every label is stable
// for the lifetime of the day's sheet.
func (p *ProductionHandler) GetShiftSheet(w http.ResponseWriter, r *http.Request) {
	//read company id
	companyID := utils.GetCompanyID(r)
	if companyID == 0 {
		p.errorLog.Println("ERROR_01_GetShiftSheet: Company id not found")
		utils.BadRequest(w, errors.New("Company ID not found. Please include 'X-Company-ID' header, e.g., X-Company-ID: 1"))
		return
	}

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	day := time.Now().UTC()
	if dateStr != "" {
		d, err := utils.ParseDate(dateStr)
		if err != nil {
			p.errorLog.Println("ERROR_02_GetShiftSheet:", err)
			utils.BadRequest(w, err)
			return
		}
		day = d
	}

	items, err := p.Catalog.GetUngroupedItems(r.Context(), companyID)
	if err != nil {
		p.errorLog.Println("ERROR_03_GetShiftSheet: ", err)
		utils.BadRequest(w, err)
		return
	}

	ledger, err := p.DB.GetLedgerRows(r.Context(), companyID, day)
	if err != nil {
		p.errorLog.Println("ERROR_04_GetShiftSheet: ", err)
		utils.BadRequest(w, err)
		return
	}

	// Persisted rows keep their labels; only items without a row for
	// the day are assigned fresh numbers, and those are persisted
	// immediately so the labels survive regeneration.
	sheet, fresh := engine.BuildSheet(items, ledger)
	if len(fresh) > 0 {
		if err := p.DB.InsertSheetRows(r.Context(), companyID, day, fresh); err != nil {
			p.errorLog.Println("ERROR_05_GetShiftSheet: ", err)
			utils.BadRequest(w, err)
			return
		}
		ledger, err = p.DB.GetLedgerRows(r.Context(), companyID, day)
		if err != nil {
			p.errorLog.Println("ERROR_06_GetShiftSheet: ", err)
			utils.BadRequest(w, err)
			return
		}
	}

	var resp struct {
		Error  bool                             `json:"error"`
		Status string                           `json:"status"`
		Date   string                           `json:"date"`
		Sheet  []engine.SheetEntry              `json:"sheet"`
		Ledger []models.UngroupedItemProduction `json:"ledger"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Date = engine.DayOf(day).Format("2006-01-02")
	resp.Sheet = sheet
	resp.Ledger = ledger
	if resp.Ledger == nil {
		resp.Ledger = []models.UngroupedItemProduction{}
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

type batchUpdateRequest struct {
	ItemID         int64  `json:"item_id" validate:"required"`
	BatchNo        string `json:"batch_no" validate:"required"`
	ProductionDate string `json:"production_date" validate:"required"`
	Field          string `json:"field" validate:"required,oneof=moulding_time unloading_time qty_achieved"`
	Value          string `json:"value"`
}

// BatchUpdate upserts one field of the ledger row identified by the
// exact (company, item, batch_no, date) tuple. Two batches of the same
// item on the same day are distinct rows; an edit can never overwrite a
// sibling batch.
func (p *ProductionHandler) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	//read company id
	companyID := utils.GetCompanyID(r)
	if companyID == 0 {
		p.errorLog.Println("ERROR_01_BatchUpdate: Company id not found")
		utils.BadRequest(w, errors.New("Company ID not found. Please include 'X-Company-ID' header, e.g., X-Company-ID: 1"))
		return
	}

	var req batchUpdateRequest
	err := utils.ReadJSON(w, r, &req)
	if err != nil {
		p.errorLog.Println("ERROR_02_BatchUpdate", err)
		utils.BadRequest(w, err)
		return
	}
	if err := p.validate.Struct(req); err != nil {
		p.errorLog.Println("ERROR_03_BatchUpdate:", err)
		utils.BadRequest(w, err)
		return
	}

	productionDate, err := utils.ParseDate(req.ProductionDate)
	if err != nil {
		p.errorLog.Println("ERROR_04_BatchUpdate:", err)
		utils.BadRequest(w, err)
		return
	}

	row, err := p.DB.UpsertBatchField(r.Context(), companyID, req.ItemID, req.BatchNo, productionDate, req.Field, req.Value)
	if err != nil {
		p.errorLog.Println("ERROR_05_BatchUpdate: ", err)
		utils.BadRequest(w, err)
		return
	}

	var resp struct {
		Error   bool                            `json:"error"`
		Status  string                          `json:"status"`
		Message string                          `json:"message"`
		Batch   *models.UngroupedItemProduction `json:"batch"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Batch updated successfully"
	resp.Batch = row

	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetDashboard projects batches-required per production group. Every
// group known to the catalog appears exactly once, zero-valued when it
// has no matching summary rows.
func (p *ProductionHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	//read company id
	companyID := utils.GetCompanyID(r)
	if companyID == 0 {
		p.errorLog.Println("ERROR_01_GetDashboard: Company id not found")
		utils.BadRequest(w, errors.New("Company ID not found. Please include 'X-Company-ID' header, e.g., X-Company-ID: 1"))
		return
	}

	var date *time.Time
	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr != "" {
		d, err := utils.ParseDate(dateStr)
		if err != nil {
			p.errorLog.Println("ERROR_02_GetDashboard:", err)
			utils.BadRequest(w, err)
			return
		}
		date = &d
	}

	groups, err := p.Catalog.GetProductionGroups(r.Context(), companyID)
	if err != nil {
		p.errorLog.Println("ERROR_03_GetDashboard: ", err)
		utils.BadRequest(w, err)
		return
	}

	summaries, err := p.Summary.GetDailySummaries(r.Context(), companyID, date)
	if err != nil {
		p.errorLog.Println("ERROR_04_GetDashboard: ", err)
		utils.BadRequest(w, err)
		return
	}

	data := engine.FoldDashboard(groups, summaries)

	totalItems := 0
	for _, g := range groups {
		totalItems += len(g.ItemIDs)
	}

	var resp struct {
		Error bool                  `json:"error"`
		Data  []models.GroupBatches `json:"data"`
		Stats models.DashboardStats `json:"stats"`
	}
	resp.Error = false
	resp.Data = data
	resp.Stats = models.DashboardStats{
		TotalGroups: len(groups),
		TotalItems:  totalItems,
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}
