package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/techizeBuilder/sunrise-production-api/internal/dbrepo"
	"github.com/techizeBuilder/sunrise-production-api/internal/utils"
)

// CatalogHandler exposes the read-only product and production-group
// lookups the production pages need
type CatalogHandler struct {
	DB       *dbrepo.CatalogRepo
	infoLog  *log.Logger
	errorLog *log.Logger
}

func NewCatalogHandler(db *dbrepo.CatalogRepo, infoLog *log.Logger, errorLog *log.Logger) *CatalogHandler {
	return &CatalogHandler{
		DB:       db,
		infoLog:  infoLog,
		errorLog: errorLog,
	}
}

// ListProducts
func (c *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	//read company id
	companyID := utils.GetCompanyID(r)
	if companyID == 0 {
		c.errorLog.Println("ERROR_01_ListProducts: Company id not found")
		utils.BadRequest(w, errors.New("Company ID not found. Please include 'X-Company-ID' header, e.g., X-Company-ID: 1"))
		return
	}

	products, err := c.DB.GetProducts(r.Context(), companyID)
	if err != nil {
		c.errorLog.Println("ERROR_02_ListProducts: ", err)
		utils.BadRequest(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"error":    false,
		"status":   "success",
		"products": products,
	})
}

// ListProductionGroups
func (c *CatalogHandler) ListProductionGroups(w http.ResponseWriter, r *http.Request) {
	//read company id
	companyID := utils.GetCompanyID(r)
	if companyID == 0 {
		c.errorLog.Println("ERROR_01_ListProductionGroups: Company id not found")
		utils.BadRequest(w, errors.New("Company ID not found. Please include 'X-Company-ID' header, e.g., X-Company-ID: 1"))
		return
	}

	groups, err := c.DB.GetProductionGroups(r.Context(), companyID)
	if err != nil {
		c.errorLog.Println("ERROR_02_ListProductionGroups: ", err)
		utils.BadRequest(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"error":  false,
		"status": "success",
		"groups": groups,
	})
}
