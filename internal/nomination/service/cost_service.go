package service

import (
	"context"
	"fmt"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"github.com/abushana-oss/mithran/internal/nomination/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CostService 成本竞争力分析服务
type CostService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewCostService(repos *repository.Repositories, logger *zap.Logger) *CostService {
	return &CostService{repos: repos, logger: logger}
}

// 初始化成本分析时种入的默认成本项
var defaultCostComponents = []struct {
	Name string
	Type string
}{
	{"单价", entity.CostComponentTypeCost},
	{"物流费用", entity.CostComponentTypeCost},
	{"模具费", entity.CostComponentTypeDevelopmentCost},
	{"打样费", entity.CostComponentTypeDevelopmentCost},
	{"量产交期", entity.CostComponentTypeLeadTime},
	{"付款条件", entity.CostComponentTypeOther},
}

func (s *CostService) ownedNomination(ctx context.Context, nominationID, userID string) error {
	nom, err := s.repos.Nomination.FindByID(ctx, nominationID)
	if err != nil {
		return err
	}
	if nom.UserID != userID {
		return ErrNotFound
	}
	return nil
}

// GetCostAnalysis 查询成本分析：成本项及其下每个供应商的报价值
func (s *CostService) GetCostAnalysis(ctx context.Context, nominationID, userID string) ([]entity.CostComponent, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	components, err := s.repos.Cost.ListComponents(ctx, nominationID)
	if err != nil {
		return nil, fmt.Errorf("查询成本分析失败: %w", err)
	}
	return components, nil
}

// InitializeCostAnalysis 初始化成本分析：种入默认成本项，
// 并为每个已评估供应商建空报价行。已初始化过则直接返回现有数据。
func (s *CostService) InitializeCostAnalysis(ctx context.Context, nominationID, userID string) ([]entity.CostComponent, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}

	count, err := s.repos.Cost.CountComponents(ctx, nominationID)
	if err != nil {
		return nil, fmt.Errorf("查询成本项失败: %w", err)
	}
	if count > 0 {
		return s.repos.Cost.ListComponents(ctx, nominationID)
	}

	evals, err := s.repos.Evaluation.ListByNomination(ctx, nominationID)
	if err != nil {
		return nil, fmt.Errorf("查询供应商评估失败: %w", err)
	}

	components := make([]entity.CostComponent, 0, len(defaultCostComponents))
	for i, c := range defaultCostComponents {
		components = append(components, entity.CostComponent{
			ID:           uuid.New().String()[:32],
			NominationID: nominationID,
			Name:         c.Name,
			Type:         c.Type,
			DisplayOrder: i + 1,
		})
	}
	if err := s.repos.Cost.CreateComponents(ctx, components); err != nil {
		return nil, fmt.Errorf("初始化成本项失败: %w", err)
	}

	values := make([]entity.VendorCostValue, 0, len(components)*len(evals))
	for _, c := range components {
		for _, e := range evals {
			values = append(values, entity.VendorCostValue{
				ID:          uuid.New().String()[:32],
				ComponentID: c.ID,
				SupplierID:  e.SupplierID,
			})
		}
	}
	if err := s.repos.Cost.CreateVendorValues(ctx, values); err != nil {
		return nil, fmt.Errorf("初始化供应商报价行失败: %w", err)
	}

	return s.repos.Cost.ListComponents(ctx, nominationID)
}

// UpdateCostComponentRequest 成本项更新请求
type UpdateCostComponentRequest struct {
	Name        *string  `json:"name"`
	Type        *string  `json:"type" binding:"omitempty,oneof=cost development_cost lead_time other"`
	BaseValue   *float64 `json:"base_value"`
	PaymentTerm *string  `json:"payment_term"`
}

// UpdateCostComponent 更新成本项基准值等字段
func (s *CostService) UpdateCostComponent(ctx context.Context, nominationID, userID, componentID string, req *UpdateCostComponentRequest) (*entity.CostComponent, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	comp, err := s.repos.Cost.FindComponentByID(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if comp.NominationID != nominationID {
		return nil, ErrNotFound
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if req.BaseValue != nil {
		fields["base_value"] = *req.BaseValue
	}
	if req.PaymentTerm != nil {
		fields["payment_term"] = *req.PaymentTerm
	}
	if len(fields) > 0 {
		if err := s.repos.Cost.UpdateComponentFields(ctx, componentID, fields); err != nil {
			return nil, fmt.Errorf("更新成本项失败: %w", err)
		}
	}
	return s.repos.Cost.FindComponentByID(ctx, componentID)
}

// UpdateVendorValueRequest 供应商报价值更新请求
type UpdateVendorValueRequest struct {
	NumericValue *float64 `json:"numeric_value"`
	TextValue    *string  `json:"text_value"`
}

// UpdateVendorCostValue 更新某成本项下某供应商的报价值
func (s *CostService) UpdateVendorCostValue(ctx context.Context, nominationID, userID, componentID, supplierID string, req *UpdateVendorValueRequest) (*entity.VendorCostValue, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	comp, err := s.repos.Cost.FindComponentByID(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if comp.NominationID != nominationID {
		return nil, ErrNotFound
	}

	value, err := s.repos.Cost.FindVendorValue(ctx, componentID, supplierID)
	if err != nil {
		return nil, err
	}
	if req.NumericValue != nil {
		value.NumericValue = req.NumericValue
	}
	if req.TextValue != nil {
		value.TextValue = *req.TextValue
	}
	if err := s.repos.Cost.UpdateVendorValue(ctx, value); err != nil {
		return nil, fmt.Errorf("更新供应商报价失败: %w", err)
	}
	return value, nil
}
