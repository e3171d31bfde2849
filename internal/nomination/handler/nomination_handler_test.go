package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"github.com/abushana-oss/mithran/internal/nomination/repository"
	"github.com/abushana-oss/mithran/internal/nomination/service"
	supentity "github.com/abushana-oss/mithran/internal/supplier/entity"
	suprepo "github.com/abushana-oss/mithran/internal/supplier/repository"
	"github.com/abushana-oss/mithran/internal/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupNominationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewDB(t,
		&supentity.Supplier{},
		&entity.Nomination{},
		&entity.NominationCriterion{},
		&entity.NominationBOMPart{},
		&entity.NominationBOMPartVendor{},
		&entity.VendorEvaluation{},
		&entity.EvaluationScore{},
		&entity.CostComponent{},
		&entity.VendorCostValue{},
		&entity.CapabilityScore{},
		&entity.AssessmentCriterion{},
		&entity.RatingMatrixItem{},
		&entity.SupplierRanking{},
	)
	repos := repository.NewRepositories(db)
	supplierRepo := suprepo.NewSupplierRepository(db)
	logger := zap.NewNop()

	h := NewHandlers(
		service.NewNominationService(repos, supplierRepo, logger),
		service.NewScoringService(repos, supplierRepo, nil, logger),
		service.NewCostService(repos, logger),
		service.NewMatrixService(repos, logger),
	)

	return testutil.NewRouter(func(v1 *gin.RouterGroup) {
		nominations := v1.Group("/nominations")
		{
			nominations.GET("", h.Nomination.ListNominations)
			nominations.GET("/:id", h.Nomination.GetNomination)
			nominations.POST("", h.Nomination.CreateNomination)
			nominations.PUT("/:id", h.Nomination.UpdateNomination)
			nominations.DELETE("/:id", h.Nomination.DeleteNomination)
			nominations.PUT("/:id/criteria", h.Nomination.UpdateCriteria)
			nominations.POST("/:id/vendors", h.Nomination.AddVendors)
			nominations.POST("/:id/complete", h.Nomination.CompleteNomination)

			nominations.GET("/:id/factor-weights", h.Scoring.GetFactorWeights)
			nominations.PUT("/:id/factor-weights", h.Scoring.SetFactorWeights)
			nominations.POST("/:id/rankings/calculate", h.Scoring.CalculateRankings)

			nominations.GET("/:id/cost-analysis", h.Cost.GetCostAnalysis)
			nominations.POST("/:id/cost-analysis/initialize", h.Cost.InitializeCostAnalysis)

			nominations.GET("/:id/capability-scores/:supplierId", h.Matrix.GetCapabilityScores)
			nominations.POST("/:id/capability-scores/initialize", h.Matrix.InitializeCapabilityScores)
			nominations.PUT("/:id/capability-scores/:supplierId/batch", h.Matrix.BatchUpdateCapabilityScores)
		}

		evaluations := v1.Group("/evaluations")
		{
			evaluations.PUT("/:evaluationId", h.Nomination.UpdateEvaluation)
			evaluations.PUT("/:evaluationId/scores", h.Nomination.UpdateEvaluationScores)
		}
	})
}

func createNominationViaAPI(t *testing.T, r *gin.Engine, token string, vendorIDs ...string) string {
	t.Helper()
	w := testutil.DoRequest(t, r, http.MethodPost, "/api/v1/nominations", token, map[string]interface{}{
		"name":       "Q3 nomination",
		"vendor_ids": vendorIDs,
	})
	testutil.RequireStatus(t, w, http.StatusCreated)

	var resp struct {
		Nomination struct {
			ID string `json:"id"`
		} `json:"nomination"`
		Warnings []string `json:"warnings"`
	}
	testutil.ParseResponse(t, w, &resp)
	if resp.Nomination.ID == "" {
		t.Fatal("created nomination has no id")
	}
	if len(resp.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", resp.Warnings)
	}
	return resp.Nomination.ID
}

func TestNominationLifecycle(t *testing.T) {
	r := setupNominationRouter(t)
	token := testutil.Token(t, "user-1")

	id := createNominationViaAPI(t, r, token, "sup-a", "sup-b")

	w := testutil.DoRequest(t, r, http.MethodGet, "/api/v1/nominations/"+id, token, nil)
	testutil.RequireStatus(t, w, http.StatusOK)

	// aggregate view carries the seeded evaluations
	var detail struct {
		Evaluations []struct {
			ID         string `json:"id"`
			SupplierID string `json:"supplier_id"`
		} `json:"evaluations"`
	}
	testutil.ParseResponse(t, w, &detail)
	if len(detail.Evaluations) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(detail.Evaluations))
	}

	w = testutil.DoRequest(t, r, http.MethodPost, "/api/v1/nominations/"+id+"/complete", token, nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	var completed struct {
		Status string `json:"status"`
	}
	testutil.ParseResponse(t, w, &completed)
	if completed.Status != entity.NominationStatusCompleted {
		t.Errorf("status = %q, want completed", completed.Status)
	}

	w = testutil.DoRequest(t, r, http.MethodDelete, "/api/v1/nominations/"+id, token, nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	w = testutil.DoRequest(t, r, http.MethodGet, "/api/v1/nominations/"+id, token, nil)
	testutil.RequireStatus(t, w, http.StatusNotFound)
}

func TestNominationHiddenFromOtherUsers(t *testing.T) {
	r := setupNominationRouter(t)
	owner := testutil.Token(t, "user-1")
	other := testutil.Token(t, "user-2")

	id := createNominationViaAPI(t, r, owner)

	// mutations by a non-owner read as not found, never as forbidden
	w := testutil.DoRequest(t, r, http.MethodPut, "/api/v1/nominations/"+id, other, map[string]interface{}{
		"name": "hijack",
	})
	testutil.RequireStatus(t, w, http.StatusNotFound)
}

func TestSetFactorWeightsRejectsBadSum(t *testing.T) {
	r := setupNominationRouter(t)
	token := testutil.Token(t, "user-1")
	id := createNominationViaAPI(t, r, token)

	w := testutil.DoRequest(t, r, http.MethodPut, "/api/v1/nominations/"+id+"/factor-weights", token, map[string]interface{}{
		"cost_factor": 30, "development_cost_factor": 30, "lead_time_factor": 30,
	})
	testutil.RequireStatus(t, w, http.StatusBadRequest)
	env := testutil.ParseResponse(t, w, nil)
	if env.Code != 40000 {
		t.Errorf("envelope code = %d, want 40000", env.Code)
	}
	if !strings.Contains(env.Message, "90") {
		t.Errorf("message should cite the actual sum: %q", env.Message)
	}

	w = testutil.DoRequest(t, r, http.MethodPut, "/api/v1/nominations/"+id+"/factor-weights", token, map[string]interface{}{
		"cost_factor": 34, "development_cost_factor": 33, "lead_time_factor": 33,
	})
	testutil.RequireStatus(t, w, http.StatusOK)
}

func TestEvaluationScoresEndpoint(t *testing.T) {
	r := setupNominationRouter(t)
	token := testutil.Token(t, "user-1")
	id := createNominationViaAPI(t, r, token, "sup-a")

	w := testutil.DoRequest(t, r, http.MethodPut, "/api/v1/nominations/"+id+"/criteria", token, map[string]interface{}{
		"criteria": []map[string]interface{}{
			{"name": "quality", "weight_pct": 100, "max_score": 10},
		},
	})
	testutil.RequireStatus(t, w, http.StatusOK)
	var criteria []struct {
		ID string `json:"id"`
	}
	testutil.ParseResponse(t, w, &criteria)
	if len(criteria) != 1 {
		t.Fatalf("expected 1 criterion, got %d", len(criteria))
	}

	w = testutil.DoRequest(t, r, http.MethodGet, "/api/v1/nominations/"+id, token, nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	var detail struct {
		Evaluations []struct {
			ID string `json:"id"`
		} `json:"evaluations"`
	}
	testutil.ParseResponse(t, w, &detail)

	w = testutil.DoRequest(t, r, http.MethodPut, "/api/v1/evaluations/"+detail.Evaluations[0].ID+"/scores", token, map[string]interface{}{
		"scores": []map[string]interface{}{
			{"criterion_id": criteria[0].ID, "score": 9},
		},
	})
	testutil.RequireStatus(t, w, http.StatusOK)
	var scores []struct {
		WeightedScore float64 `json:"weighted_score"`
	}
	testutil.ParseResponse(t, w, &scores)
	if len(scores) != 1 || scores[0].WeightedScore != 9 {
		t.Errorf("weighted score = %+v, want 9 at weight 100", scores)
	}
}

func TestCapabilityBatchEndpoint(t *testing.T) {
	r := setupNominationRouter(t)
	token := testutil.Token(t, "user-1")
	id := createNominationViaAPI(t, r, token, "sup-a")

	w := testutil.DoRequest(t, r, http.MethodPost, "/api/v1/nominations/"+id+"/capability-scores/initialize", token, nil)
	testutil.RequireStatus(t, w, http.StatusOK)

	w = testutil.DoRequest(t, r, http.MethodGet, "/api/v1/nominations/"+id+"/capability-scores/sup-a", token, nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	var items []struct {
		ID string `json:"id"`
	}
	testutil.ParseResponse(t, w, &items)
	if len(items) == 0 {
		t.Fatal("initialize seeded no capability rows")
	}

	w = testutil.DoRequest(t, r, http.MethodPut, "/api/v1/nominations/"+id+"/capability-scores/sup-a/batch", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"id": items[0].ID, "score": 7},
			{"id": "missing-row", "score": 7},
		},
	})
	testutil.RequireStatus(t, w, http.StatusOK)
	var outcomes []struct {
		ID      string `json:"id"`
		Success bool   `json:"success"`
	}
	testutil.ParseResponse(t, w, &outcomes)
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if !outcomes[0].Success || outcomes[1].Success {
		t.Errorf("outcomes = %+v, want first success and second failure", outcomes)
	}
}
