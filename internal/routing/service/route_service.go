package service

import (
	"context"
	"fmt"

	"github.com/abushana-oss/mithran/internal/routing/entity"
	"github.com/abushana-oss/mithran/internal/routing/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNotFound 路线或步骤不存在
var ErrNotFound = repository.ErrNotFound

// ErrInvalidTransition 非法的状态流转
type ErrInvalidTransition struct {
	From, To string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("工艺路线状态不允许从 %s 流转到 %s", e.From, e.To)
}

// 状态流转表
var allowedTransitions = map[string][]string{
	entity.RouteStateDraft:    {entity.RouteStateInReview},
	entity.RouteStateInReview: {entity.RouteStateApproved, entity.RouteStateDraft},
	entity.RouteStateApproved: {entity.RouteStateActive, entity.RouteStateDraft},
	entity.RouteStateActive:   {entity.RouteStateArchived},
	entity.RouteStateArchived: {},
}

// RouteService 工艺路线服务
type RouteService struct {
	routeRepo *repository.RouteRepository
	stepRepo  *repository.StepRepository
	rateRepo  *repository.RateRepository
	logger    *zap.Logger
}

func NewRouteService(routeRepo *repository.RouteRepository, stepRepo *repository.StepRepository, rateRepo *repository.RateRepository, logger *zap.Logger) *RouteService {
	return &RouteService{
		routeRepo: routeRepo,
		stepRepo:  stepRepo,
		rateRepo:  rateRepo,
		logger:    logger,
	}
}

// CreateRouteRequest 创建工艺路线请求
type CreateRouteRequest struct {
	BOMItemID    string `json:"bom_item_id"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Priority     string `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssignedTo   string `json:"assigned_to"`
	AssignedRole string `json:"assigned_role"`
}

// Create 创建工艺路线（draft状态）
func (s *RouteService) Create(ctx context.Context, userID string, req *CreateRouteRequest) (*entity.ProcessRoute, error) {
	route := &entity.ProcessRoute{
		ID:            uuid.New().String()[:32],
		BOMItemID:     req.BOMItemID,
		Name:          req.Name,
		Description:   req.Description,
		WorkflowState: entity.RouteStateDraft,
		Priority:      req.Priority,
		AssignedTo:    req.AssignedTo,
		AssignedRole:  req.AssignedRole,
		CreatedBy:     userID,
	}
	if route.Priority == "" {
		route.Priority = "medium"
	}
	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, fmt.Errorf("创建工艺路线失败: %w", err)
	}
	return route, nil
}

// List 分页查询工艺路线
func (s *RouteService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProcessRoute, int64, error) {
	return s.routeRepo.FindAll(ctx, page, pageSize, filters)
}

// Get 查询路线详情（含步骤）
func (s *RouteService) Get(ctx context.Context, id string) (*entity.ProcessRoute, error) {
	return s.routeRepo.FindByID(ctx, id)
}

// UpdateRouteRequest 更新工艺路线请求
type UpdateRouteRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Priority     *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssignedTo   *string `json:"assigned_to"`
	AssignedRole *string `json:"assigned_role"`
}

// Update 更新路线基本信息（状态流转走Transition）
func (s *RouteService) Update(ctx context.Context, id string, req *UpdateRouteRequest) (*entity.ProcessRoute, error) {
	route, err := s.routeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		route.Name = *req.Name
	}
	if req.Description != nil {
		route.Description = *req.Description
	}
	if req.Priority != nil {
		route.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		route.AssignedTo = *req.AssignedTo
	}
	if req.AssignedRole != nil {
		route.AssignedRole = *req.AssignedRole
	}

	route.Steps = nil
	if err := s.routeRepo.Update(ctx, route); err != nil {
		return nil, fmt.Errorf("更新工艺路线失败: %w", err)
	}
	return route, nil
}

// Delete 删除路线及其步骤
func (s *RouteService) Delete(ctx context.Context, id string) error {
	if _, err := s.routeRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.routeRepo.Delete(ctx, id)
}

// Transition 工艺路线状态流转
func (s *RouteService) Transition(ctx context.Context, id, target string) (*entity.ProcessRoute, error) {
	route, err := s.routeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, t := range allowedTransitions[route.WorkflowState] {
		if t == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, &ErrInvalidTransition{From: route.WorkflowState, To: target}
	}

	if err := s.routeRepo.UpdateFields(ctx, id, map[string]interface{}{"workflow_state": target}); err != nil {
		return nil, fmt.Errorf("更新路线状态失败: %w", err)
	}
	route.WorkflowState = target
	return route, nil
}

// Recalculate 全量重算路线成本与汇总字段。
// 每个步骤：机时×机器费率 + 工时×人工费率，覆盖写入calculated_cost；
// 路线级汇总为各步骤setup/cycle/cost之和。所有步骤变更与显式算费共用此入口。
func (s *RouteService) Recalculate(ctx context.Context, routeID string) (*entity.ProcessRoute, error) {
	route, err := s.routeRepo.FindByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	steps, err := s.stepRepo.ListByRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("查询路线步骤失败: %w", err)
	}

	rateIDs := make([]string, 0, len(steps)*2)
	for _, st := range steps {
		if st.LaborRateID != nil {
			rateIDs = append(rateIDs, *st.LaborRateID)
		}
		if st.MachineRateID != nil {
			rateIDs = append(rateIDs, *st.MachineRateID)
		}
	}
	rates, err := s.rateRepo.FindByIDs(ctx, rateIDs)
	if err != nil {
		return nil, fmt.Errorf("查询工时费率失败: %w", err)
	}

	totalCost := decimal.Zero
	totalSetup := decimal.Zero
	totalCycle := decimal.Zero

	for i := range steps {
		cost := decimal.Zero
		if steps[i].MachineRateID != nil && steps[i].MachineHours != nil {
			if rate, ok := rates[*steps[i].MachineRateID]; ok {
				cost = cost.Add(decimal.NewFromFloat(*steps[i].MachineHours).
					Mul(decimal.NewFromFloat(rate.HourlyRate)))
			}
		}
		if steps[i].LaborRateID != nil && steps[i].LaborHours != nil {
			if rate, ok := rates[*steps[i].LaborRateID]; ok {
				cost = cost.Add(decimal.NewFromFloat(*steps[i].LaborHours).
					Mul(decimal.NewFromFloat(rate.HourlyRate)))
			}
		}

		stepCost, _ := cost.Round(4).Float64()
		if stepCost != steps[i].CalculatedCost {
			if err := s.stepRepo.UpdateCalculatedCost(ctx, steps[i].ID, stepCost); err != nil {
				return nil, fmt.Errorf("更新步骤成本失败: %w", err)
			}
		}
		steps[i].CalculatedCost = stepCost

		totalCost = totalCost.Add(cost)
		totalSetup = totalSetup.Add(decimal.NewFromFloat(steps[i].SetupTimeMinutes))
		totalCycle = totalCycle.Add(decimal.NewFromFloat(steps[i].CycleTimeMinutes))
	}

	route.TotalCost, _ = totalCost.Round(4).Float64()
	route.TotalSetupTime, _ = totalSetup.Round(2).Float64()
	route.TotalCycleTime, _ = totalCycle.Round(2).Float64()

	fields := map[string]interface{}{
		"total_cost":       route.TotalCost,
		"total_setup_time": route.TotalSetupTime,
		"total_cycle_time": route.TotalCycleTime,
	}
	if err := s.routeRepo.UpdateFields(ctx, routeID, fields); err != nil {
		return nil, fmt.Errorf("更新路线汇总失败: %w", err)
	}

	route.Steps = steps
	return route, nil
}

// StepInput 步骤创建/更新输入
type StepInput struct {
	OperationName    string   `json:"operation_name" binding:"required"`
	WorkCenter       string   `json:"work_center"`
	SetupTimeMinutes float64  `json:"setup_time_minutes"`
	CycleTimeMinutes float64  `json:"cycle_time_minutes"`
	LaborHours       *float64 `json:"labor_hours"`
	MachineHours     *float64 `json:"machine_hours"`
	LaborRateID      *string  `json:"labor_rate_id"`
	MachineRateID    *string  `json:"machine_rate_id"`
	Notes            string   `json:"notes"`
}

// AddStep 添加步骤并重算路线
func (s *RouteService) AddStep(ctx context.Context, routeID string, in *StepInput) (*entity.ProcessRoute, error) {
	if _, err := s.routeRepo.FindByID(ctx, routeID); err != nil {
		return nil, err
	}

	count, err := s.stepRepo.CountByRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("查询步骤数失败: %w", err)
	}

	step := &entity.ProcessRouteStep{
		ID:               uuid.New().String()[:32],
		RouteID:          routeID,
		OperationName:    in.OperationName,
		StepNumber:       int(count) + 1,
		WorkCenter:       in.WorkCenter,
		SetupTimeMinutes: in.SetupTimeMinutes,
		CycleTimeMinutes: in.CycleTimeMinutes,
		LaborHours:       in.LaborHours,
		MachineHours:     in.MachineHours,
		LaborRateID:      in.LaborRateID,
		MachineRateID:    in.MachineRateID,
		Notes:            in.Notes,
	}
	if err := s.stepRepo.Create(ctx, step); err != nil {
		return nil, fmt.Errorf("创建步骤失败: %w", err)
	}
	return s.Recalculate(ctx, routeID)
}

// UpdateStep 更新步骤并重算路线
func (s *RouteService) UpdateStep(ctx context.Context, routeID, stepID string, in *StepInput) (*entity.ProcessRoute, error) {
	step, err := s.stepRepo.FindByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if step.RouteID != routeID {
		return nil, ErrNotFound
	}

	step.OperationName = in.OperationName
	step.WorkCenter = in.WorkCenter
	step.SetupTimeMinutes = in.SetupTimeMinutes
	step.CycleTimeMinutes = in.CycleTimeMinutes
	step.LaborHours = in.LaborHours
	step.MachineHours = in.MachineHours
	step.LaborRateID = in.LaborRateID
	step.MachineRateID = in.MachineRateID
	step.Notes = in.Notes

	if err := s.stepRepo.Update(ctx, step); err != nil {
		return nil, fmt.Errorf("更新步骤失败: %w", err)
	}
	return s.Recalculate(ctx, routeID)
}

// DeleteStep 删除步骤并重算路线
func (s *RouteService) DeleteStep(ctx context.Context, routeID, stepID string) (*entity.ProcessRoute, error) {
	step, err := s.stepRepo.FindByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if step.RouteID != routeID {
		return nil, ErrNotFound
	}
	if err := s.stepRepo.Delete(ctx, stepID); err != nil {
		return nil, fmt.Errorf("删除步骤失败: %w", err)
	}
	return s.Recalculate(ctx, routeID)
}

// ReorderSteps 按给定ID顺序重排步骤序号（1..N），随后重算路线
func (s *RouteService) ReorderSteps(ctx context.Context, routeID string, orderedIDs []string) (*entity.ProcessRoute, error) {
	steps, err := s.stepRepo.ListByRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("查询路线步骤失败: %w", err)
	}
	known := make(map[string]bool, len(steps))
	for _, st := range steps {
		known[st.ID] = true
	}
	for _, id := range orderedIDs {
		if !known[id] {
			return nil, fmt.Errorf("步骤 %s 不属于该路线", id)
		}
	}

	for i, id := range orderedIDs {
		if err := s.stepRepo.UpdateStepNumber(ctx, id, i+1); err != nil {
			return nil, fmt.Errorf("更新步骤序号失败: %w", err)
		}
	}
	return s.Recalculate(ctx, routeID)
}
