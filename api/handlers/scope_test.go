package api

import (
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every company-scoped handler must reject a request with no
// X-Company-ID header outright; a missing scope is never widened to
// "all companies".
func TestCompanyScopeIsMandatory(t *testing.T) {
	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stdout, "ERROR\t", log.Ldate|log.Ltime)

	summary := NewSummaryHandler(nil, nil, infoLog, errorLog)
	production := NewProductionHandler(nil, nil, nil, nil, infoLog, errorLog)
	catalog := NewCatalogHandler(nil, infoLog, errorLog)
	order := NewOrderHandler(nil, nil, nil, infoLog, errorLog)

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		handler http.HandlerFunc
	}{
		{"product summary", "GET", "/api/v1/product-summary", "", summary.GetProductSummary},
		{"shift sheet", "GET", "/api/v1/production/sheet", "", production.GetShiftSheet},
		{"dashboard", "GET", "/api/v1/production/dashboard", "", production.GetDashboard},
		{"batch update", "POST", "/api/v1/production/batch-update",
			`{"item_id":1,"batch_no":"BATNO01","production_date":"2025-11-29","field":"moulding_time","value":"08:30"}`,
			production.BatchUpdate},
		{"list products", "GET", "/api/v1/catalog/products", "", catalog.ListProducts},
		{"list groups", "GET", "/api/v1/catalog/groups", "", catalog.ListProductionGroups},
		{"list orders", "GET", "/api/v1/orders", "", order.ListOrdersPaginatedHandler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}
			r := httptest.NewRequest(tt.method, tt.target, body)
			w := httptest.NewRecorder()

			tt.handler(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "X-Company-ID")
		})
	}
}
