package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"github.com/abushana-oss/mithran/internal/nomination/repository"
	supplierrepo "github.com/abushana-oss/mithran/internal/supplier/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound 提名或其子资源不存在（含归属校验失败，不区分以避免泄露存在性）
var ErrNotFound = repository.ErrNotFound

// NominationService 供应商提名服务
type NominationService struct {
	repos        *repository.Repositories
	supplierRepo *supplierrepo.SupplierRepository
	logger       *zap.Logger
}

func NewNominationService(repos *repository.Repositories, supplierRepo *supplierrepo.SupplierRepository, logger *zap.Logger) *NominationService {
	return &NominationService{
		repos:        repos,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// 新建提名时的默认评审指标（权重合计100）
var defaultCriteria = []struct {
	Name      string
	Category  string
	WeightPct float64
	Mandatory bool
}{
	{"质量体系", "quality", 25, true},
	{"价格竞争力", "commercial", 25, true},
	{"交付能力", "delivery", 20, true},
	{"技术能力", "technical", 15, false},
	{"服务响应", "service", 15, false},
}

// CreateNominationRequest 创建提名请求
type CreateNominationRequest struct {
	Name                string               `json:"name" binding:"required"`
	Description         string               `json:"description"`
	Type                string               `json:"type" binding:"omitempty,oneof=oem manufacturer hybrid"`
	ProjectID           string               `json:"project_id"`
	SeedDefaultCriteria bool                 `json:"seed_default_criteria"`
	VendorIDs           []string             `json:"vendor_ids"`
	BOMParts            []CreateBOMPartInput `json:"bom_parts"`
}

// CreateBOMPartInput BOM物料及其候选供应商
type CreateBOMPartInput struct {
	PartNumber  string   `json:"part_number"`
	Name        string   `json:"name" binding:"required"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	TargetPrice *float64 `json:"target_price"`
	Notes       string   `json:"notes"`
	VendorIDs   []string `json:"vendor_ids"`
}

// Create 创建提名。指标种子、BOM物料、供应商评估均为尽力而为：
// 失败不影响主体创建，记录日志并汇入warnings返回。
func (s *NominationService) Create(ctx context.Context, userID string, req *CreateNominationRequest) (*entity.Nomination, []string, error) {
	nom := &entity.Nomination{
		ID:                    uuid.New().String()[:32],
		Name:                  req.Name,
		Description:           req.Description,
		Type:                  req.Type,
		Status:                entity.NominationStatusDraft,
		ProjectID:             req.ProjectID,
		UserID:                userID,
		CostFactor:            40,
		DevelopmentCostFactor: 30,
		LeadTimeFactor:        30,
	}
	if nom.Type == "" {
		nom.Type = entity.NominationTypeManufacturer
	}
	if err := s.repos.Nomination.Create(ctx, nom); err != nil {
		return nil, nil, fmt.Errorf("创建提名失败: %w", err)
	}

	var warnings []string

	if req.SeedDefaultCriteria {
		if err := s.seedDefaultCriteria(ctx, nom.ID); err != nil {
			s.logger.Warn("默认评审指标初始化失败",
				zap.String("nomination_id", nom.ID), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("默认评审指标初始化失败: %v", err))
		}
	}

	for _, p := range req.BOMParts {
		if err := s.createBOMPart(ctx, nom.ID, &p); err != nil {
			s.logger.Warn("BOM物料创建失败",
				zap.String("nomination_id", nom.ID), zap.String("part", p.Name), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("BOM物料 %s 创建失败: %v", p.Name, err))
		}
	}

	if len(req.VendorIDs) > 0 {
		if err := s.createEvaluations(ctx, nom.ID, req.VendorIDs); err != nil {
			s.logger.Warn("供应商评估初始化失败",
				zap.String("nomination_id", nom.ID), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("供应商评估初始化失败: %v", err))
		}
	}

	// 返回主体行本身，嵌套集合由后续查询装配
	return nom, warnings, nil
}

func (s *NominationService) seedDefaultCriteria(ctx context.Context, nominationID string) error {
	items := make([]entity.NominationCriterion, 0, len(defaultCriteria))
	for i, c := range defaultCriteria {
		items = append(items, entity.NominationCriterion{
			ID:           uuid.New().String()[:32],
			NominationID: nominationID,
			Name:         c.Name,
			Category:     c.Category,
			WeightPct:    c.WeightPct,
			MaxScore:     10,
			IsMandatory:  c.Mandatory,
			DisplayOrder: i + 1,
		})
	}
	return s.repos.Criterion.BulkCreate(ctx, items)
}

func (s *NominationService) createBOMPart(ctx context.Context, nominationID string, in *CreateBOMPartInput) error {
	part := &entity.NominationBOMPart{
		ID:           uuid.New().String()[:32],
		NominationID: nominationID,
		PartNumber:   in.PartNumber,
		Name:         in.Name,
		Quantity:     in.Quantity,
		Unit:         in.Unit,
		TargetPrice:  in.TargetPrice,
		Notes:        in.Notes,
	}
	if part.Quantity <= 0 {
		part.Quantity = 1
	}
	if part.Unit == "" {
		part.Unit = "pcs"
	}
	if err := s.repos.BOMPart.Create(ctx, part); err != nil {
		return err
	}
	if len(in.VendorIDs) == 0 {
		return nil
	}
	vendors := make([]entity.NominationBOMPartVendor, 0, len(in.VendorIDs))
	for _, vid := range in.VendorIDs {
		vendors = append(vendors, entity.NominationBOMPartVendor{
			ID:         uuid.New().String()[:32],
			PartID:     part.ID,
			SupplierID: vid,
		})
	}
	return s.repos.BOMPart.CreateVendors(ctx, vendors)
}

func (s *NominationService) createEvaluations(ctx context.Context, nominationID string, vendorIDs []string) error {
	evals := make([]entity.VendorEvaluation, 0, len(vendorIDs))
	for _, vid := range vendorIDs {
		evals = append(evals, entity.VendorEvaluation{
			ID:             uuid.New().String()[:32],
			NominationID:   nominationID,
			SupplierID:     vid,
			Recommendation: entity.RecommendationPending,
			RiskLevel:      entity.RiskLevelMedium,
		})
	}
	return s.repos.Evaluation.BulkCreate(ctx, evals)
}

// FindAll 分页查询提名列表
func (s *NominationService) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Nomination, int64, error) {
	return s.repos.Nomination.FindAll(ctx, page, pageSize, filters)
}

// FindOne 查询提名聚合：主体行 + 评审指标 + 供应商评估（含得分与供应商名称）+ BOM物料
func (s *NominationService) FindOne(ctx context.Context, id string) (*entity.Nomination, error) {
	nom, err := s.repos.Nomination.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	criteria, err := s.repos.Criterion.ListByNomination(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("查询评审指标失败: %w", err)
	}
	nom.Criteria = criteria

	evals, err := s.repos.Evaluation.ListByNomination(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("查询供应商评估失败: %w", err)
	}
	supplierIDs := make([]string, 0, len(evals))
	for _, e := range evals {
		supplierIDs = append(supplierIDs, e.SupplierID)
	}
	names, err := s.supplierNames(ctx, supplierIDs)
	if err != nil {
		return nil, fmt.Errorf("查询供应商名称失败: %w", err)
	}
	for i := range evals {
		scores, err := s.repos.Evaluation.ListScoresByEvaluation(ctx, evals[i].ID)
		if err != nil {
			return nil, fmt.Errorf("查询评估得分失败: %w", err)
		}
		evals[i].Scores = scores
		evals[i].SupplierName = names[evals[i].SupplierID]
	}
	nom.Evaluations = evals

	parts, err := s.repos.BOMPart.ListByNomination(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("查询BOM物料失败: %w", err)
	}
	nom.BOMParts = parts

	return nom, nil
}

func (s *NominationService) supplierNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	suppliers, err := s.supplierRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, sp := range suppliers {
		names[sp.ID] = sp.Name
	}
	return names, nil
}

// checkOwnership 归属校验：非归属人返回ErrNotFound，不泄露存在性
func (s *NominationService) checkOwnership(ctx context.Context, nominationID, userID string) (*entity.Nomination, error) {
	nom, err := s.repos.Nomination.FindByID(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	if nom.UserID != userID {
		return nil, ErrNotFound
	}
	return nom, nil
}

// UpdateNominationRequest 更新提名请求（仅更新提供的字段）
type UpdateNominationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type" binding:"omitempty,oneof=oem manufacturer hybrid"`
	Status      *string `json:"status" binding:"omitempty,oneof=draft in_progress completed approved rejected"`
	ProjectID   *string `json:"project_id"`
}

// Update 更新提名基本信息
func (s *NominationService) Update(ctx context.Context, id, userID string, req *UpdateNominationRequest) (*entity.Nomination, error) {
	nom, err := s.checkOwnership(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		nom.Name = *req.Name
	}
	if req.Description != nil {
		nom.Description = *req.Description
	}
	if req.Type != nil {
		nom.Type = *req.Type
	}
	if req.Status != nil {
		nom.Status = *req.Status
	}
	if req.ProjectID != nil {
		nom.ProjectID = *req.ProjectID
	}

	if err := s.repos.Nomination.Update(ctx, nom); err != nil {
		return nil, fmt.Errorf("更新提名失败: %w", err)
	}
	return nom, nil
}

// Remove 删除提名及全部子资源，子到父逐层删除。
// 子资源删除失败记录日志并汇入warnings，不中断主体删除。
func (s *NominationService) Remove(ctx context.Context, id, userID string) ([]string, error) {
	if _, err := s.checkOwnership(ctx, id, userID); err != nil {
		return nil, err
	}

	var warnings []string
	cleanup := func(name string, fn func(context.Context, string) error) {
		if err := fn(ctx, id); err != nil {
			s.logger.Warn("提名子资源删除失败",
				zap.String("nomination_id", id), zap.String("resource", name), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("%s删除失败: %v", name, err))
		}
	}

	cleanup("评估得分", s.repos.Evaluation.DeleteScoresByNomination)
	cleanup("供应商评估", s.repos.Evaluation.DeleteByNomination)
	cleanup("评审指标", s.repos.Criterion.DeleteByNomination)
	cleanup("BOM物料", s.repos.BOMPart.DeleteByNomination)
	cleanup("成本分析", s.repos.Cost.DeleteByNomination)
	cleanup("供应商排名", s.repos.Ranking.DeleteByNomination)

	if err := s.repos.Nomination.Delete(ctx, id); err != nil {
		return warnings, fmt.Errorf("删除提名失败: %w", err)
	}
	return warnings, nil
}

// CriterionInput 评审指标输入
type CriterionInput struct {
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category"`
	WeightPct    float64 `json:"weight_pct" binding:"min=0,max=100"`
	MaxScore     float64 `json:"max_score"`
	IsMandatory  bool    `json:"is_mandatory"`
	DisplayOrder int     `json:"display_order"`
}

// UpdateCriteria 整体替换提名的评审指标（先删后插，空列表即清空）
func (s *NominationService) UpdateCriteria(ctx context.Context, nominationID, userID string, inputs []CriterionInput) ([]entity.NominationCriterion, error) {
	if _, err := s.checkOwnership(ctx, nominationID, userID); err != nil {
		return nil, err
	}

	if err := s.repos.Criterion.DeleteByNomination(ctx, nominationID); err != nil {
		return nil, fmt.Errorf("清除原有评审指标失败: %w", err)
	}

	items := make([]entity.NominationCriterion, 0, len(inputs))
	for i, in := range inputs {
		maxScore := in.MaxScore
		if maxScore <= 0 {
			maxScore = 10
		}
		order := in.DisplayOrder
		if order == 0 {
			order = i + 1
		}
		items = append(items, entity.NominationCriterion{
			ID:           uuid.New().String()[:32],
			NominationID: nominationID,
			Name:         in.Name,
			Category:     in.Category,
			WeightPct:    in.WeightPct,
			MaxScore:     maxScore,
			IsMandatory:  in.IsMandatory,
			DisplayOrder: order,
		})
	}
	if err := s.repos.Criterion.BulkCreate(ctx, items); err != nil {
		return nil, fmt.Errorf("写入评审指标失败: %w", err)
	}
	return items, nil
}

// resolveEvaluation 由评估ID解析其归属提名并做归属校验
func (s *NominationService) resolveEvaluation(ctx context.Context, evaluationID, userID string) (*entity.VendorEvaluation, error) {
	eval, err := s.repos.Evaluation.FindByID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.checkOwnership(ctx, eval.NominationID, userID); err != nil {
		return nil, err
	}
	return eval, nil
}

// UpdateEvaluationRequest 供应商评估更新请求
type UpdateEvaluationRequest struct {
	VendorType        *string  `json:"vendor_type"`
	Recommendation    *string  `json:"recommendation" binding:"omitempty,oneof=pending recommended conditional rejected"`
	RiskLevel         *string  `json:"risk_level" binding:"omitempty,oneof=low medium high"`
	RiskMitigationPct *float64 `json:"risk_mitigation_pct"`
	MinorNCCount      *int     `json:"minor_nc_count"`
	MajorNCCount      *int     `json:"major_nc_count"`
	CapabilityPct     *float64 `json:"capability_pct"`
}

// UpdateVendorEvaluation 更新供应商评估结论
func (s *NominationService) UpdateVendorEvaluation(ctx context.Context, evaluationID, userID string, req *UpdateEvaluationRequest) (*entity.VendorEvaluation, error) {
	eval, err := s.resolveEvaluation(ctx, evaluationID, userID)
	if err != nil {
		return nil, err
	}

	if req.VendorType != nil {
		eval.VendorType = *req.VendorType
	}
	if req.Recommendation != nil {
		eval.Recommendation = *req.Recommendation
	}
	if req.RiskLevel != nil {
		eval.RiskLevel = *req.RiskLevel
	}
	if req.RiskMitigationPct != nil {
		eval.RiskMitigationPct = req.RiskMitigationPct
	}
	if req.MinorNCCount != nil {
		eval.MinorNCCount = *req.MinorNCCount
	}
	if req.MajorNCCount != nil {
		eval.MajorNCCount = *req.MajorNCCount
	}
	if req.CapabilityPct != nil {
		eval.CapabilityPct = req.CapabilityPct
	}

	if err := s.repos.Evaluation.Update(ctx, eval); err != nil {
		return nil, fmt.Errorf("更新供应商评估失败: %w", err)
	}
	return eval, nil
}

// ScoreInput 单项指标得分输入
type ScoreInput struct {
	CriterionID string  `json:"criterion_id" binding:"required"`
	Score       float64 `json:"score"`
}

// UpdateEvaluationScores 整体替换评估得分。
// 加权得分在写入时按当前指标集计算：score × weight_pct / 100，指标未知时记0。
func (s *NominationService) UpdateEvaluationScores(ctx context.Context, evaluationID, userID string, inputs []ScoreInput) ([]entity.EvaluationScore, error) {
	eval, err := s.resolveEvaluation(ctx, evaluationID, userID)
	if err != nil {
		return nil, err
	}

	criteria, err := s.repos.Criterion.MapByNomination(ctx, eval.NominationID)
	if err != nil {
		return nil, fmt.Errorf("查询评审指标失败: %w", err)
	}

	scores := make([]entity.EvaluationScore, 0, len(inputs))
	for _, in := range inputs {
		var weighted float64
		maxScore := 10.0
		if c, ok := criteria[in.CriterionID]; ok {
			weighted = in.Score * c.WeightPct / 100
			maxScore = c.MaxScore
		}
		scores = append(scores, entity.EvaluationScore{
			ID:            uuid.New().String()[:32],
			EvaluationID:  evaluationID,
			CriterionID:   in.CriterionID,
			Score:         in.Score,
			MaxScore:      maxScore,
			WeightedScore: weighted,
		})
	}

	if err := s.repos.Evaluation.DeleteScoresByEvaluation(ctx, evaluationID); err != nil {
		return nil, fmt.Errorf("清除原有得分失败: %w", err)
	}
	if err := s.repos.Evaluation.BulkCreateScores(ctx, scores); err != nil {
		return nil, fmt.Errorf("写入得分失败: %w", err)
	}
	return scores, nil
}

// AddVendors 向提名追加候选供应商评估
func (s *NominationService) AddVendors(ctx context.Context, nominationID, userID string, vendorIDs []string) error {
	if _, err := s.checkOwnership(ctx, nominationID, userID); err != nil {
		return err
	}
	if len(vendorIDs) == 0 {
		return errors.New("供应商ID列表不能为空")
	}
	if err := s.createEvaluations(ctx, nominationID, vendorIDs); err != nil {
		return fmt.Errorf("追加供应商评估失败: %w", err)
	}
	return nil
}

// Complete 完成提名并返回完整聚合
func (s *NominationService) Complete(ctx context.Context, nominationID, userID string) (*entity.Nomination, error) {
	if _, err := s.checkOwnership(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	now := time.Now()
	fields := map[string]interface{}{
		"status":       entity.NominationStatusCompleted,
		"completed_at": &now,
	}
	if err := s.repos.Nomination.UpdateFields(ctx, nominationID, fields); err != nil {
		return nil, fmt.Errorf("完成提名失败: %w", err)
	}
	return s.FindOne(ctx, nominationID)
}
