package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"github.com/abushana-oss/mithran/internal/nomination/repository"
	supentity "github.com/abushana-oss/mithran/internal/supplier/entity"
	suprepo "github.com/abushana-oss/mithran/internal/supplier/repository"
	"github.com/abushana-oss/mithran/internal/testutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func setupScoringService(t *testing.T) (*ScoringService, *NominationService, *repository.Repositories, *suprepo.SupplierRepository) {
	t.Helper()
	db := testutil.NewDB(t, nominationModels()...)
	repos := repository.NewRepositories(db)
	supplierRepo := suprepo.NewSupplierRepository(db)
	nomSvc := NewNominationService(repos, supplierRepo, zap.NewNop())
	svc := NewScoringService(repos, supplierRepo, nil, zap.NewNop())
	return svc, nomSvc, repos, supplierRepo
}

func seedCostSums(t *testing.T, repos *repository.Repositories, nominationID, componentType string, sums map[string]float64) {
	t.Helper()
	ctx := context.Background()
	comp := entity.CostComponent{
		ID:           uuid.New().String()[:32],
		NominationID: nominationID,
		Name:         componentType,
		Type:         componentType,
	}
	if err := repos.Cost.CreateComponents(ctx, []entity.CostComponent{comp}); err != nil {
		t.Fatalf("create component: %v", err)
	}
	values := make([]entity.VendorCostValue, 0, len(sums))
	for sid, v := range sums {
		value := v
		values = append(values, entity.VendorCostValue{
			ID:           uuid.New().String()[:32],
			ComponentID:  comp.ID,
			SupplierID:   sid,
			NumericValue: &value,
		})
	}
	if err := repos.Cost.CreateVendorValues(ctx, values); err != nil {
		t.Fatalf("create vendor values: %v", err)
	}
}

func TestSetFactorWeightsValidation(t *testing.T) {
	svc, nomSvc, _, _ := setupScoringService(t)
	ctx := context.Background()

	nom := createNomination(t, nomSvc)

	if err := svc.SetFactorWeights(ctx, nom.ID, testUser, &FactorWeights{
		CostFactor: 34, DevelopmentCostFactor: 33, LeadTimeFactor: 33,
	}); err != nil {
		t.Fatalf("weights summing to 100 rejected: %v", err)
	}

	err := svc.SetFactorWeights(ctx, nom.ID, testUser, &FactorWeights{
		CostFactor: 30, DevelopmentCostFactor: 30, LeadTimeFactor: 30,
	})
	var weightErr *ErrWeightSum
	if !errors.As(err, &weightErr) {
		t.Fatalf("expected ErrWeightSum, got %v", err)
	}
	if weightErr.Sum != 90 {
		t.Errorf("reported sum = %v, want 90", weightErr.Sum)
	}
	if !strings.Contains(weightErr.Error(), "90") {
		t.Errorf("error message should cite the actual sum: %q", weightErr.Error())
	}

	// rejected update must not change the stored weights
	w, err := svc.GetFactorWeights(ctx, nom.ID, testUser)
	if err != nil {
		t.Fatalf("get factor weights: %v", err)
	}
	if w.CostFactor != 34 || w.DevelopmentCostFactor != 33 || w.LeadTimeFactor != 33 {
		t.Errorf("weights changed after rejected update: %+v", w)
	}
}

func TestCalculateRankingsSharesTiedRanks(t *testing.T) {
	svc, nomSvc, repos, _ := setupScoringService(t)
	ctx := context.Background()

	nom := createNomination(t, nomSvc, "sup-a", "sup-b", "sup-c")

	// cost: a and b tie at 100, c trails → ranks 1,1,3
	seedCostSums(t, repos, nom.ID, entity.CostComponentTypeCost,
		map[string]float64{"sup-a": 100, "sup-b": 100, "sup-c": 200})
	seedCostSums(t, repos, nom.ID, entity.CostComponentTypeDevelopmentCost,
		map[string]float64{"sup-a": 50, "sup-b": 60, "sup-c": 70})
	seedCostSums(t, repos, nom.ID, entity.CostComponentTypeLeadTime,
		map[string]float64{"sup-a": 30, "sup-b": 20, "sup-c": 10})

	rankings, err := svc.CalculateRankings(ctx, nom.ID, testUser)
	if err != nil {
		t.Fatalf("calculate rankings: %v", err)
	}
	if len(rankings) != 3 {
		t.Fatalf("expected 3 rankings, got %d", len(rankings))
	}

	byID := map[string]entity.SupplierRanking{}
	for _, r := range rankings {
		byID[r.SupplierID] = r
	}

	if byID["sup-a"].CostRank != 1 || byID["sup-b"].CostRank != 1 || byID["sup-c"].CostRank != 3 {
		t.Errorf("cost ranks = %d,%d,%d, want 1,1,3",
			byID["sup-a"].CostRank, byID["sup-b"].CostRank, byID["sup-c"].CostRank)
	}
	if byID["sup-a"].LeadTimeRank != 3 || byID["sup-b"].LeadTimeRank != 2 || byID["sup-c"].LeadTimeRank != 1 {
		t.Errorf("lead time ranks = %d,%d,%d, want 3,2,1",
			byID["sup-a"].LeadTimeRank, byID["sup-b"].LeadTimeRank, byID["sup-c"].LeadTimeRank)
	}

	// default factors 40/30/30: a and b both total 80, c totals 53.33
	if byID["sup-a"].TotalScore != 80 || byID["sup-b"].TotalScore != 80 {
		t.Errorf("tied totals = %v, %v, want 80, 80", byID["sup-a"].TotalScore, byID["sup-b"].TotalScore)
	}
	if byID["sup-c"].TotalScore != 53.33 {
		t.Errorf("total for sup-c = %v, want 53.33", byID["sup-c"].TotalScore)
	}
	if byID["sup-a"].OverallRank != 1 || byID["sup-b"].OverallRank != 1 || byID["sup-c"].OverallRank != 3 {
		t.Errorf("overall ranks = %d,%d,%d, want 1,1,3",
			byID["sup-a"].OverallRank, byID["sup-b"].OverallRank, byID["sup-c"].OverallRank)
	}
}

func TestCalculateRankingsMissingValuesCountAsZero(t *testing.T) {
	svc, nomSvc, repos, _ := setupScoringService(t)
	ctx := context.Background()

	nom := createNomination(t, nomSvc, "sup-a", "sup-b")

	// sup-b has no quote at all: its sums are 0, the best position everywhere
	seedCostSums(t, repos, nom.ID, entity.CostComponentTypeCost,
		map[string]float64{"sup-a": 100})

	rankings, err := svc.CalculateRankings(ctx, nom.ID, testUser)
	if err != nil {
		t.Fatalf("calculate rankings: %v", err)
	}
	byID := map[string]entity.SupplierRanking{}
	for _, r := range rankings {
		byID[r.SupplierID] = r
	}
	if byID["sup-b"].CostRank != 1 || byID["sup-a"].CostRank != 2 {
		t.Errorf("cost ranks = a:%d b:%d, want a:2 b:1", byID["sup-a"].CostRank, byID["sup-b"].CostRank)
	}
}

func TestCalculateRankingsCarriesSupplierNames(t *testing.T) {
	svc, nomSvc, repos, supplierRepo := setupScoringService(t)
	ctx := context.Background()

	if err := supplierRepo.Create(ctx, &supentity.Supplier{
		ID:   "sup-a",
		Code: "SUP-A",
		Name: "Acme Castings",
	}); err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	// sup-b is evaluated but missing from the supplier master
	nom := createNomination(t, nomSvc, "sup-a", "sup-b")
	seedCostSums(t, repos, nom.ID, entity.CostComponentTypeCost,
		map[string]float64{"sup-a": 10, "sup-b": 20})

	rankings, err := svc.CalculateRankings(ctx, nom.ID, testUser)
	if err != nil {
		t.Fatalf("calculate rankings: %v", err)
	}
	byID := map[string]entity.SupplierRanking{}
	for _, r := range rankings {
		byID[r.SupplierID] = r
	}
	if byID["sup-a"].SupplierName != "Acme Castings" {
		t.Errorf("supplier name = %q, want Acme Castings", byID["sup-a"].SupplierName)
	}
	if byID["sup-b"].SupplierName != "" {
		t.Errorf("unknown supplier should have empty name, got %q", byID["sup-b"].SupplierName)
	}
}

func TestStoreAndGetRankings(t *testing.T) {
	svc, nomSvc, repos, _ := setupScoringService(t)
	ctx := context.Background()

	nom := createNomination(t, nomSvc, "sup-a", "sup-b")
	seedCostSums(t, repos, nom.ID, entity.CostComponentTypeCost,
		map[string]float64{"sup-a": 10, "sup-b": 20})

	stored, err := svc.StoreRankings(ctx, nom.ID, testUser)
	if err != nil {
		t.Fatalf("store rankings: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored rankings, got %d", len(stored))
	}

	// a second store replaces, never accumulates
	if _, err := svc.StoreRankings(ctx, nom.ID, testUser); err != nil {
		t.Fatalf("restore rankings: %v", err)
	}

	got, err := svc.GetStoredRankings(ctx, nom.ID, testUser)
	if err != nil {
		t.Fatalf("get stored rankings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rankings after restore, got %d", len(got))
	}
	if got[0].OverallRank > got[1].OverallRank {
		t.Errorf("rankings not ordered by overall rank: %d before %d", got[0].OverallRank, got[1].OverallRank)
	}
}
