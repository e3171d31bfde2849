package service

import (
	"context"
	"math"
	"testing"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"github.com/abushana-oss/mithran/internal/nomination/repository"
	supentity "github.com/abushana-oss/mithran/internal/supplier/entity"
	suprepo "github.com/abushana-oss/mithran/internal/supplier/repository"
	"github.com/abushana-oss/mithran/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testUser = "user-0001"

func nominationModels() []interface{} {
	return []interface{}{
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
	}
}

func setupNominationService(t *testing.T) (*NominationService, *repository.Repositories, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, nominationModels()...)
	repos := repository.NewRepositories(db)
	supplierRepo := suprepo.NewSupplierRepository(db)
	svc := NewNominationService(repos, supplierRepo, zap.NewNop())
	return svc, repos, db
}

func createNomination(t *testing.T, svc *NominationService, vendorIDs ...string) *entity.Nomination {
	t.Helper()
	nom, warnings, err := svc.Create(context.Background(), testUser, &CreateNominationRequest{
		Name:      "Q3 supplier nomination",
		VendorIDs: vendorIDs,
	})
	if err != nil {
		t.Fatalf("create nomination: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	return nom
}

func TestCreateSeedsEvaluationDefaults(t *testing.T) {
	svc, repos, _ := setupNominationService(t)
	ctx := context.Background()

	nom := createNomination(t, svc, "sup-a", "sup-b")

	evals, err := repos.Evaluation.ListByNomination(ctx, nom.ID)
	if err != nil {
		t.Fatalf("list evaluations: %v", err)
	}
	if len(evals) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(evals))
	}
	for _, e := range evals {
		if e.Recommendation != entity.RecommendationPending {
			t.Errorf("recommendation = %q, want pending", e.Recommendation)
		}
		if e.RiskLevel != entity.RiskLevelMedium {
			t.Errorf("risk level = %q, want medium", e.RiskLevel)
		}
	}
}

func TestUpdateEvaluationScoresComputesWeightedAtWrite(t *testing.T) {
	svc, repos, _ := setupNominationService(t)
	ctx := context.Background()

	nom := createNomination(t, svc, "sup-a")
	criteria, err := svc.UpdateCriteria(ctx, nom.ID, testUser, []CriterionInput{
		{Name: "quality", WeightPct: 60, MaxScore: 10},
		{Name: "price", WeightPct: 40, MaxScore: 10},
	})
	if err != nil {
		t.Fatalf("update criteria: %v", err)
	}

	evals, _ := repos.Evaluation.ListByNomination(ctx, nom.ID)
	scores, err := svc.UpdateEvaluationScores(ctx, evals[0].ID, testUser, []ScoreInput{
		{CriterionID: criteria[0].ID, Score: 8},
		{CriterionID: criteria[1].ID, Score: 5},
		{CriterionID: "unknown-criterion", Score: 9},
	})
	if err != nil {
		t.Fatalf("update scores: %v", err)
	}

	want := map[string]float64{
		criteria[0].ID:      8 * 60 / 100.0,
		criteria[1].ID:      5 * 40 / 100.0,
		"unknown-criterion": 0,
	}
	for _, s := range scores {
		if math.Abs(s.WeightedScore-want[s.CriterionID]) > 1e-9 {
			t.Errorf("weighted score for %s = %v, want %v", s.CriterionID, s.WeightedScore, want[s.CriterionID])
		}
	}

	// weighted scores are fixed at write time: changing criteria afterwards
	// must not alter the stored values
	if _, err := svc.UpdateCriteria(ctx, nom.ID, testUser, []CriterionInput{
		{Name: "quality", WeightPct: 10, MaxScore: 10},
	}); err != nil {
		t.Fatalf("replace criteria: %v", err)
	}
	stored, _ := repos.Evaluation.ListScoresByEvaluation(ctx, evals[0].ID)
	for _, s := range stored {
		if math.Abs(s.WeightedScore-want[s.CriterionID]) > 1e-9 {
			t.Errorf("stored weighted score changed after criteria replace: %v", s.WeightedScore)
		}
	}
}

func TestUpdateCriteriaEmptyListClearsAll(t *testing.T) {
	svc, repos, _ := setupNominationService(t)
	ctx := context.Background()

	nom := createNomination(t, svc)
	if _, err := svc.UpdateCriteria(ctx, nom.ID, testUser, []CriterionInput{
		{Name: "quality", WeightPct: 50},
		{Name: "price", WeightPct: 50},
	}); err != nil {
		t.Fatalf("seed criteria: %v", err)
	}

	if _, err := svc.UpdateCriteria(ctx, nom.ID, testUser, nil); err != nil {
		t.Fatalf("clear criteria: %v", err)
	}

	remaining, err := repos.Criterion.ListByNomination(ctx, nom.ID)
	if err != nil {
		t.Fatalf("list criteria: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected no criteria after empty replace, got %d", len(remaining))
	}
}

func TestRemoveDeletesAllChildren(t *testing.T) {
	svc, repos, db := setupNominationService(t)
	ctx := context.Background()

	nom := createNomination(t, svc, "sup-a", "sup-b")
	criteria, err := svc.UpdateCriteria(ctx, nom.ID, testUser, []CriterionInput{
		{Name: "quality", WeightPct: 100},
	})
	if err != nil {
		t.Fatalf("seed criteria: %v", err)
	}
	evals, _ := repos.Evaluation.ListByNomination(ctx, nom.ID)
	if _, err := svc.UpdateEvaluationScores(ctx, evals[0].ID, testUser, []ScoreInput{
		{CriterionID: criteria[0].ID, Score: 7},
	}); err != nil {
		t.Fatalf("seed scores: %v", err)
	}

	if _, err := svc.Remove(ctx, nom.ID, testUser); err != nil {
		t.Fatalf("remove nomination: %v", err)
	}

	if _, err := repos.Nomination.FindByID(ctx, nom.ID); err != repository.ErrNotFound {
		t.Errorf("nomination still present after delete: %v", err)
	}
	var count int64
	for _, model := range []interface{}{
		&entity.NominationCriterion{}, &entity.VendorEvaluation{}, &entity.EvaluationScore{},
	} {
		db.Model(model).Count(&count)
		if count != 0 {
			t.Errorf("orphan rows remain in %T: %d", model, count)
		}
	}
}

func TestOwnershipFailureIsNotFound(t *testing.T) {
	svc, _, _ := setupNominationService(t)
	ctx := context.Background()

	nom := createNomination(t, svc)
	_, err := svc.Update(ctx, nom.ID, "another-user", &UpdateNominationRequest{})
	if err != ErrNotFound {
		t.Errorf("ownership failure = %v, want ErrNotFound", err)
	}
}
