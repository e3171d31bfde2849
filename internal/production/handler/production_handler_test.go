package handler

import (
	"net/http"
	"testing"

	"github.com/abushana-oss/mithran/internal/production/entity"
	"github.com/abushana-oss/mithran/internal/production/repository"
	"github.com/abushana-oss/mithran/internal/production/service"
	"github.com/abushana-oss/mithran/internal/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupProductionRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewDB(t, &entity.ProductionLot{}, &entity.ProductionEntry{})
	svc := service.NewProductionService(
		repository.NewLotRepository(db),
		repository.NewEntryRepository(db),
		zap.NewNop(),
	)
	h := NewProductionHandler(svc)

	return testutil.NewRouter(func(v1 *gin.RouterGroup) {
		production := v1.Group("/production/lots")
		{
			production.GET("", h.ListLots)
			production.GET("/:id", h.GetLot)
			production.POST("", h.CreateLot)
			production.PUT("/:id", h.UpdateLot)
			production.DELETE("/:id", h.DeleteLot)
			production.POST("/:id/entries", h.CreateEntry)
			production.PUT("/:id/entries/:entryId", h.UpdateEntry)
			production.DELETE("/:id/entries/:entryId", h.DeleteEntry)
			production.GET("/:id/weekly-summary", h.GetWeeklySummary)
		}
	})
}

func createLotViaAPI(t *testing.T, r *gin.Engine, token, lotNumber string) string {
	t.Helper()
	w := testutil.DoRequest(t, r, http.MethodPost, "/api/v1/production/lots", token, map[string]interface{}{
		"lot_number": lotNumber,
		"part_name":  "bracket",
		"quantity":   500,
	})
	testutil.RequireStatus(t, w, http.StatusCreated)
	var lot entity.ProductionLot
	testutil.ParseResponse(t, w, &lot)
	return lot.ID
}

func TestCreateLotConflictOnDuplicateNumber(t *testing.T) {
	r := setupProductionRouter(t)
	token := testutil.Token(t, "user-1")

	createLotViaAPI(t, r, token, "LOT-A")
	w := testutil.DoRequest(t, r, http.MethodPost, "/api/v1/production/lots", token, map[string]interface{}{
		"lot_number": "LOT-A",
	})
	testutil.RequireStatus(t, w, http.StatusConflict)
}

func TestEntryConflictReturns409(t *testing.T) {
	r := setupProductionRouter(t)
	token := testutil.Token(t, "user-1")
	lotID := createLotViaAPI(t, r, token, "LOT-B")

	entry := map[string]interface{}{
		"process_id":   "proc-1",
		"entry_date":   "2025-10-06T08:00:00Z",
		"shift":        "morning",
		"target_qty":   100,
		"produced_qty": 95,
	}
	w := testutil.DoRequest(t, r, http.MethodPost, "/api/v1/production/lots/"+lotID+"/entries", token, entry)
	testutil.RequireStatus(t, w, http.StatusCreated)

	w = testutil.DoRequest(t, r, http.MethodPost, "/api/v1/production/lots/"+lotID+"/entries", token, entry)
	testutil.RequireStatus(t, w, http.StatusConflict)
	env := testutil.ParseResponse(t, w, nil)
	if env.Code != 40900 {
		t.Errorf("envelope code = %d, want 40900", env.Code)
	}

	entry["shift"] = "afternoon"
	w = testutil.DoRequest(t, r, http.MethodPost, "/api/v1/production/lots/"+lotID+"/entries", token, entry)
	testutil.RequireStatus(t, w, http.StatusCreated)
}

func TestWeeklySummaryEndpoint(t *testing.T) {
	r := setupProductionRouter(t)
	token := testutil.Token(t, "user-1")
	lotID := createLotViaAPI(t, r, token, "LOT-C")

	for _, e := range []map[string]interface{}{
		{"process_id": "p", "entry_date": "2025-10-08T00:00:00Z", "shift": "morning", "target_qty": 10, "produced_qty": 8},
		{"process_id": "p", "entry_date": "2025-10-09T00:00:00Z", "shift": "morning", "target_qty": 10, "produced_qty": 9},
	} {
		w := testutil.DoRequest(t, r, http.MethodPost, "/api/v1/production/lots/"+lotID+"/entries", token, e)
		testutil.RequireStatus(t, w, http.StatusCreated)
	}

	w := testutil.DoRequest(t, r, http.MethodGet, "/api/v1/production/lots/"+lotID+"/weekly-summary", token, nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	var buckets []struct {
		WeekStart   string  `json:"week_start"`
		TargetQty   float64 `json:"target_qty"`
		ProducedQty float64 `json:"produced_qty"`
		Efficiency  int     `json:"efficiency"`
	}
	testutil.ParseResponse(t, w, &buckets)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].WeekStart != "2025-10-05" || buckets[0].Efficiency != 85 {
		t.Errorf("bucket = %+v, want week 2025-10-05 efficiency 85", buckets[0])
	}
}
