package api

import (
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/techizeBuilder/sunrise-production-api/internal/dbrepo"
	"github.com/techizeBuilder/sunrise-production-api/internal/models"
)

type HandlerRepo struct {
	Auth       AuthHandler
	Order      OrderHandler
	Summary    SummaryHandler
	Production ProductionHandler
	Catalog    CatalogHandler
}

func NewHandlerRepo(db *dbrepo.DBRepository, JWT models.JWTConfig, infoLog *log.Logger, errorLog *log.Logger) *HandlerRepo {
	validate := validator.New()
	return &HandlerRepo{
		Auth:       *NewAuthHandler(db, JWT, infoLog, errorLog),
		Order:      *NewOrderHandler(db.OrderRepo, db.SummaryRepo, validate, infoLog, errorLog),
		Summary:    *NewSummaryHandler(db.SummaryRepo, db.CatalogRepo, infoLog, errorLog),
		Production: *NewProductionHandler(db.ProductionRepo, db.CatalogRepo, db.SummaryRepo, validate, infoLog, errorLog),
		Catalog:    *NewCatalogHandler(db.CatalogRepo, infoLog, errorLog),
	}
}
