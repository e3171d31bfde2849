package service

import (
	"context"
	"errors"
	"testing"

	"github.com/abushana-oss/mithran/internal/routing/entity"
	"github.com/abushana-oss/mithran/internal/routing/repository"
	"github.com/abushana-oss/mithran/internal/testutil"
	"go.uber.org/zap"
)

const testUser = "user-0001"

func setupRouteService(t *testing.T) (*RouteService, *RateService) {
	t.Helper()
	db := testutil.NewDB(t,
		&entity.ProcessRoute{},
		&entity.ProcessRouteStep{},
		&entity.HourRate{},
	)
	routeRepo := repository.NewRouteRepository(db)
	stepRepo := repository.NewStepRepository(db)
	rateRepo := repository.NewRateRepository(db)
	return NewRouteService(routeRepo, stepRepo, rateRepo, zap.NewNop()),
		NewRateService(rateRepo)
}

func createRoute(t *testing.T, svc *RouteService) *entity.ProcessRoute {
	t.Helper()
	route, err := svc.Create(context.Background(), testUser, &CreateRouteRequest{Name: "machining route"})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	return route
}

func createRate(t *testing.T, svc *RateService, name, rateType string, hourly float64) *entity.HourRate {
	t.Helper()
	rate, err := svc.Create(context.Background(), &CreateRateRequest{
		Name: name, Type: rateType, HourlyRate: hourly,
	})
	if err != nil {
		t.Fatalf("create rate: %v", err)
	}
	return rate
}

func floatPtr(v float64) *float64 { return &v }

func TestRecalculateCostsAndTotals(t *testing.T) {
	routeSvc, rateSvc := setupRouteService(t)
	ctx := context.Background()

	route := createRoute(t, routeSvc)
	labor := createRate(t, rateSvc, "CNC operator", entity.HourRateTypeLabor, 80)
	machine := createRate(t, rateSvc, "3-axis mill", entity.HourRateTypeMachine, 120)

	updated, err := routeSvc.AddStep(ctx, route.ID, &StepInput{
		OperationName:    "rough milling",
		SetupTimeMinutes: 30,
		CycleTimeMinutes: 12,
		LaborHours:       floatPtr(0.5),
		MachineHours:     floatPtr(1.5),
		LaborRateID:      &labor.ID,
		MachineRateID:    &machine.ID,
	})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}

	// 1.5h × 120 + 0.5h × 80 = 220
	if got := updated.Steps[0].CalculatedCost; got != 220 {
		t.Errorf("step cost = %v, want 220", got)
	}
	if updated.TotalCost != 220 {
		t.Errorf("total cost = %v, want 220", updated.TotalCost)
	}
	if updated.TotalSetupTime != 30 || updated.TotalCycleTime != 12 {
		t.Errorf("totals = %v/%v, want 30/12", updated.TotalSetupTime, updated.TotalCycleTime)
	}

	// steps without rate references cost nothing but still count toward times
	updated, err = routeSvc.AddStep(ctx, route.ID, &StepInput{
		OperationName:    "deburring",
		SetupTimeMinutes: 5,
		CycleTimeMinutes: 3,
	})
	if err != nil {
		t.Fatalf("add second step: %v", err)
	}
	if updated.TotalCost != 220 {
		t.Errorf("total cost after rateless step = %v, want 220", updated.TotalCost)
	}
	if updated.TotalSetupTime != 35 || updated.TotalCycleTime != 15 {
		t.Errorf("totals = %v/%v, want 35/15", updated.TotalSetupTime, updated.TotalCycleTime)
	}
}

func TestRecalculateIsIdempotent(t *testing.T) {
	routeSvc, rateSvc := setupRouteService(t)
	ctx := context.Background()

	route := createRoute(t, routeSvc)
	machine := createRate(t, rateSvc, "lathe", entity.HourRateTypeMachine, 95.5)
	if _, err := routeSvc.AddStep(ctx, route.ID, &StepInput{
		OperationName:    "turning",
		SetupTimeMinutes: 10,
		CycleTimeMinutes: 7.5,
		MachineHours:     floatPtr(2.25),
		MachineRateID:    &machine.ID,
	}); err != nil {
		t.Fatalf("add step: %v", err)
	}

	first, err := routeSvc.Recalculate(ctx, route.ID)
	if err != nil {
		t.Fatalf("first recalculate: %v", err)
	}
	second, err := routeSvc.Recalculate(ctx, route.ID)
	if err != nil {
		t.Fatalf("second recalculate: %v", err)
	}

	if first.TotalCost != second.TotalCost {
		t.Errorf("total cost drifted: %v then %v", first.TotalCost, second.TotalCost)
	}
	if first.Steps[0].CalculatedCost != second.Steps[0].CalculatedCost {
		t.Errorf("step cost drifted: %v then %v",
			first.Steps[0].CalculatedCost, second.Steps[0].CalculatedCost)
	}
	if second.Steps[0].CalculatedCost != 214.875 {
		t.Errorf("step cost = %v, want 214.875", second.Steps[0].CalculatedCost)
	}
}

func TestReorderStepsRenumbersSequentially(t *testing.T) {
	routeSvc, _ := setupRouteService(t)
	ctx := context.Background()

	route := createRoute(t, routeSvc)
	for _, name := range []string{"cutting", "drilling", "polishing"} {
		if _, err := routeSvc.AddStep(ctx, route.ID, &StepInput{OperationName: name}); err != nil {
			t.Fatalf("add step %s: %v", name, err)
		}
	}
	current, err := routeSvc.Get(ctx, route.ID)
	if err != nil {
		t.Fatalf("get route: %v", err)
	}

	reordered, err := routeSvc.ReorderSteps(ctx, route.ID, []string{
		current.Steps[1].ID, current.Steps[0].ID, current.Steps[2].ID,
	})
	if err != nil {
		t.Fatalf("reorder steps: %v", err)
	}

	wantNames := []string{"drilling", "cutting", "polishing"}
	for i, st := range reordered.Steps {
		if st.StepNumber != i+1 {
			t.Errorf("step %d number = %d, want %d", i, st.StepNumber, i+1)
		}
		if st.OperationName != wantNames[i] {
			t.Errorf("step %d = %q, want %q", i, st.OperationName, wantNames[i])
		}
	}

	if _, err := routeSvc.ReorderSteps(ctx, route.ID, []string{"not-a-step"}); err == nil {
		t.Error("expected error for unknown step id")
	}
}

func TestTransitionEnforcesWorkflow(t *testing.T) {
	routeSvc, _ := setupRouteService(t)
	ctx := context.Background()

	route := createRoute(t, routeSvc)

	// draft cannot go straight to approved
	_, err := routeSvc.Transition(ctx, route.ID, entity.RouteStateApproved)
	var transErr *ErrInvalidTransition
	if !errors.As(err, &transErr) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if transErr.From != entity.RouteStateDraft || transErr.To != entity.RouteStateApproved {
		t.Errorf("transition error = %s to %s, want draft to approved", transErr.From, transErr.To)
	}

	for _, target := range []string{
		entity.RouteStateInReview,
		entity.RouteStateApproved,
		entity.RouteStateActive,
		entity.RouteStateArchived,
	} {
		updated, err := routeSvc.Transition(ctx, route.ID, target)
		if err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
		if updated.WorkflowState != target {
			t.Errorf("state = %s, want %s", updated.WorkflowState, target)
		}
	}

	// archived is terminal
	if _, err := routeSvc.Transition(ctx, route.ID, entity.RouteStateDraft); err == nil {
		t.Error("expected archived route to reject further transitions")
	}
}
