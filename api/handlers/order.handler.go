package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/techizeBuilder/sunrise-production-api/internal/dbrepo"
	"github.com/techizeBuilder/sunrise-production-api/internal/engine"
	"github.com/techizeBuilder/sunrise-production-api/internal/models"
	"github.com/techizeBuilder/sunrise-production-api/internal/utils"
)

type OrderHandler struct {
	DB       *dbrepo.OrderRepo
	Summary  *dbrepo.SummaryRepo
	validate *validator.Validate
	infoLog  *log.Logger
	errorLog *log.Logger
}

func NewOrderHandler(db *dbrepo.OrderRepo, summary *dbrepo.SummaryRepo, validate *validator.Validate, infoLog *log.Logger, errorLog *log.Logger) *OrderHandler {
	return &OrderHandler{
		DB:       db,
		Summary:  summary,
		validate: validate,
		infoLog:  infoLog,
		errorLog: errorLog,
	}
}

type addOrderRequest struct {
	SalespersonID int64  `json:"salesperson_id" validate:"required"`
	CustomerName  string `json:"customer_name"`
	OrderDate     string `json:"order_date"`
	Notes         string `json:"notes"`
	Items         []struct {
		ProductID int64   `json:"product_id" validate:"required"`
		Quantity  int64   `json:"quantity" validate:"required,gt=0"`
		UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	} `json:"items" validate:"required,min=1,dive"`
}

func (o *OrderHandler) AddOrder(w http.ResponseWriter, r *http.Request) {
	var req addOrderRequest
	err := utils.ReadJSON(w, r, &req)
	if err != nil {
		o.errorLog.Println("ERROR_01_AddOrder", err)
		utils.BadRequest(w, err)
		return
	}

	//read company id
	companyID := utils.GetCompanyID(r)
	if companyID == 0 {
		o.errorLog.Println("ERROR_02_AddOrder: Company id not found")
		utils.BadRequest(w, errors.New("Company ID not found. Please include 'X-Company-ID' header, e.g., X-Company-ID: 1"))
		return
	}

	if err := o.validate.Struct(req); err != nil {
		o.errorLog.Println("ERROR_03_AddOrder:", err)
		utils.BadRequest(w, err)
		return
	}

	order := models.Order{
		CompanyID:     companyID,
		SalespersonID: req.SalespersonID,
		CustomerName:  req.CustomerName,
		Notes:         req.Notes,
	}
	if req.OrderDate != "" {
		orderDate, err := utils.ParseDate(req.OrderDate)
		if err != nil {
			o.errorLog.Println("ERROR_04_AddOrder:", err)
			utils.BadRequest(w, err)
			return
		}
		order.OrderDate = orderDate
	}
	for _, it := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	err = o.DB.CreateOrder(r.Context(), &order)
	if err != nil {
		o.errorLog.Println("ERROR_05_AddOrder: ", err)
		utils.BadRequest(w, err)
		return
	}

	var resp struct {
		Error   bool          `json:"error"`
		Status  string        `json:"status"`
		Message string        `json:"message"`
		Order   *models.Order `json:"order"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Order added successfully"
	resp.Order = &order

	utils.WriteJSON(w, http.StatusCreated, resp)
}

type statusUpdateRequest struct {
	Status  string `json:"status" validate:"required,oneof=pending approved rejected dispatched"`
	Remarks string `json:"remarks"`
}

// UpdateOrderStatus transitions an order and, when the transition moves
// it into or out of approved, recomputes the daily summary row for every
// (product, day) the order touches. Recompute failures on one key never
// block the others and never fail the request; they heal on the next
// recompute for that key.
func (o *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderIDStr := chi.URLParam(r, "id")
	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil {
		o.errorLog.Println("ERROR_01_UpdateOrderStatus: invalid order ID", err)
		utils.BadRequest(w, err)
		return
	}

	//read company id
	companyID := utils.GetCompanyID(r)
	if companyID == 0 {
		o.errorLog.Println("ERROR_02_UpdateOrderStatus: Company id not found")
		utils.BadRequest(w, errors.New("Company ID not found. Please include 'X-Company-ID' header, e.g., X-Company-ID: 1"))
		return
	}

	var req statusUpdateRequest
	err = utils.ReadJSON(w, r, &req)
	if err != nil {
		o.errorLog.Println("ERROR_03_UpdateOrderStatus", err)
		utils.BadRequest(w, err)
		return
	}
	if err := o.validate.Struct(req); err != nil {
		o.errorLog.Println("ERROR_04_UpdateOrderStatus:", err)
		utils.BadRequest(w, err)
		return
	}

	actorID := utils.GetActorID(r)

	prevStatus, err := o.DB.UpdateOrderStatus(r.Context(), orderID, companyID, req.Status, actorID, req.Remarks)
	if err != nil {
		o.errorLog.Println("ERROR_05_UpdateOrderStatus: ", err)
		utils.BadRequest(w, err)
		return
	}

	// Only transitions touching approved change the aggregates
	if engine.TouchesApproved(prevStatus, req.Status) {
		keys, err := o.DB.GetSummaryKeys(r.Context(), orderID)
		if err != nil {
			o.errorLog.Println("ERROR_06_UpdateOrderStatus: ", err)
		} else {
			o.Summary.RecomputeKeys(r.Context(), companyID, keys, o.errorLog)
		}
	}

	order, err := o.DB.GetOrderDetailsByID(r.Context(), orderID, companyID)
	if err != nil {
		o.errorLog.Println("ERROR_07_UpdateOrderStatus: ", err)
		utils.BadRequest(w, err)
		return
	}

	var resp struct {
		Error   bool          `json:"error"`
		Status  string        `json:"status"`
		Message string        `json:"message"`
		Order   *models.Order `json:"order"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Order status updated successfully"
	resp.Order = order

	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetOrderDetailsByID
func (o *OrderHandler) GetOrderDetailsByID(w http.ResponseWriter, r *http.Request) {
	orderIDStr := chi.URLParam(r, "id")
	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil {
		o.errorLog.Println("ERROR_01_GetOrderDetailsByID: invalid order ID", err)
		utils.BadRequest(w, err)
		return
	}

	//read company id
	companyID := utils.GetCompanyID(r)
	if companyID == 0 {
		o.errorLog.Println("ERROR_02_GetOrderDetailsByID: Company id not found")
		utils.BadRequest(w, errors.New("Company ID not found. Please include 'X-Company-ID' header, e.g., X-Company-ID: 1"))
		return
	}

	order, err := o.DB.GetOrderDetailsByID(r.Context(), orderID, companyID)
	if err != nil {
		o.errorLog.Println("ERROR_03_GetOrderDetailsByID: ", err)
		utils.BadRequest(w, err)
		return
	}

	var resp struct {
		Error   bool          `json:"error"`
		Status  string        `json:"status"`
		Message string        `json:"message"`
		Order   *models.Order `json:"order"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Order fetched successfully"
	resp.Order = order

	utils.WriteJSON(w, http.StatusOK, resp)
}

// ListOrdersPaginatedHandler
func (o *OrderHandler) ListOrdersPaginatedHandler(w http.ResponseWriter, r *http.Request) {
	pageNoStr := r.URL.Query().Get("pageNo")
	pageLengthStr := r.URL.Query().Get("pageLength")
	status := r.URL.Query().Get("status")
	sortByDate := r.URL.Query().Get("sort_by_date") // "asc" or "desc"

	pageNo, _ := strconv.Atoi(pageNoStr)
	if pageNo <= 0 {
		pageNo = 1
	}
	pageLength, _ := strconv.Atoi(pageLengthStr)
	if pageLength == 0 {
		pageLength = 10
	}
	//read company id
	companyID := utils.GetCompanyID(r)
	if companyID == 0 {
		o.errorLog.Println("ERROR_01_ListOrdersPaginatedHandler: Company id not found")
		utils.BadRequest(w, errors.New("Company ID not found. Please include 'X-Company-ID' header, e.g., X-Company-ID: 1"))
		return
	}
	orders, err := o.DB.ListOrdersPaginated(r.Context(), pageNo, pageLength, status, sortByDate, companyID)
	if err != nil {
		o.errorLog.Println("ERROR_02_ListOrdersPaginated: ", err)
		utils.BadRequest(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"error":  false,
		"status": "success",
		"orders": orders,
	})
}
