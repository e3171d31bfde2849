package service

import (
	"context"
	"fmt"
	"math"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"github.com/abushana-oss/mithran/internal/nomination/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatrixService 能力评分、考核矩阵、评级矩阵服务
type MatrixService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewMatrixService(repos *repository.Repositories, logger *zap.Logger) *MatrixService {
	return &MatrixService{repos: repos, logger: logger}
}

// 矩阵默认行模板（初始化时为每个已评估供应商种入）
var matrixTemplate = []struct {
	Category string
	Aspect   string
}{
	{"quality", "质量管理体系认证与执行情况"},
	{"quality", "来料与过程检验能力"},
	{"technical", "工艺设备与加工精度"},
	{"technical", "研发与打样配合能力"},
	{"delivery", "产能与交付周期保障"},
	{"delivery", "物流与库存管理"},
	{"management", "组织管理与人员稳定性"},
	{"management", "环境与安全合规"},
}

func (s *MatrixService) ownedNomination(ctx context.Context, nominationID, userID string) error {
	nom, err := s.repos.Nomination.FindByID(ctx, nominationID)
	if err != nil {
		return err
	}
	if nom.UserID != userID {
		return ErrNotFound
	}
	return nil
}

// BatchItemOutcome 批量更新的单项结果
type BatchItemOutcome struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// === 能力评分 ===

// GetCapabilityScores 查询供应商能力评分
func (s *MatrixService) GetCapabilityScores(ctx context.Context, nominationID, userID, supplierID string) ([]entity.CapabilityScore, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	return s.repos.Matrix.ListCapabilityScores(ctx, nominationID, supplierID)
}

// InitializeCapabilityScores 为每个已评估供应商种入默认能力评分行（已有则跳过）
func (s *MatrixService) InitializeCapabilityScores(ctx context.Context, nominationID, userID string) error {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return err
	}
	evals, err := s.repos.Evaluation.ListByNomination(ctx, nominationID)
	if err != nil {
		return fmt.Errorf("查询供应商评估失败: %w", err)
	}
	for _, e := range evals {
		count, err := s.repos.Matrix.CountCapabilityScores(ctx, nominationID, e.SupplierID)
		if err != nil {
			return fmt.Errorf("查询能力评分失败: %w", err)
		}
		if count > 0 {
			continue
		}
		items := make([]entity.CapabilityScore, 0, len(matrixTemplate))
		for i, t := range matrixTemplate {
			items = append(items, entity.CapabilityScore{
				ID:           uuid.New().String()[:32],
				NominationID: nominationID,
				SupplierID:   e.SupplierID,
				Category:     t.Category,
				Aspect:       t.Aspect,
				MaxScore:     10,
				SortOrder:    i + 1,
			})
		}
		if err := s.repos.Matrix.CreateCapabilityScores(ctx, items); err != nil {
			return fmt.Errorf("初始化能力评分失败: %w", err)
		}
	}
	return nil
}

// CapabilityScorePatch 能力评分更新输入
type CapabilityScorePatch struct {
	ID     string   `json:"id" binding:"required"`
	Score  *float64 `json:"score"`
	Aspect *string  `json:"aspect"`
}

func capabilityFields(p *CapabilityScorePatch) map[string]interface{} {
	fields := map[string]interface{}{}
	if p.Score != nil {
		fields["score"] = *p.Score
	}
	if p.Aspect != nil {
		fields["aspect"] = *p.Aspect
	}
	return fields
}

// UpdateCapabilityScore 更新单条能力评分
func (s *MatrixService) UpdateCapabilityScore(ctx context.Context, nominationID, userID, supplierID string, patch *CapabilityScorePatch) error {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return err
	}
	fields := capabilityFields(patch)
	if len(fields) == 0 {
		return nil
	}
	return s.repos.Matrix.UpdateCapabilityScore(ctx, nominationID, supplierID, patch.ID, fields)
}

// BatchUpdateCapabilityScores 逐条更新能力评分，返回每项结果
func (s *MatrixService) BatchUpdateCapabilityScores(ctx context.Context, nominationID, userID, supplierID string, patches []CapabilityScorePatch) ([]BatchItemOutcome, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	outcomes := make([]BatchItemOutcome, 0, len(patches))
	for i := range patches {
		outcome := BatchItemOutcome{ID: patches[i].ID, Success: true}
		fields := capabilityFields(&patches[i])
		if len(fields) > 0 {
			if err := s.repos.Matrix.UpdateCapabilityScore(ctx, nominationID, supplierID, patches[i].ID, fields); err != nil {
				outcome.Success = false
				outcome.Error = err.Error()
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// CapabilityMetrics 能力评分汇总指标
type CapabilityMetrics struct {
	ScoredCount   int     `json:"scored_count"`
	TotalCount    int     `json:"total_count"`
	CapabilityPct float64 `json:"capability_pct"`
}

// GetCapabilityMetrics 汇总能力评分达成率（无数据时全零）
func (s *MatrixService) GetCapabilityMetrics(ctx context.Context, nominationID, userID, supplierID string) (*CapabilityMetrics, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	items, err := s.repos.Matrix.ListCapabilityScores(ctx, nominationID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("查询能力评分失败: %w", err)
	}
	metrics := &CapabilityMetrics{TotalCount: len(items)}
	var scoreSum, maxSum float64
	for _, it := range items {
		if it.Score != nil {
			metrics.ScoredCount++
			scoreSum += *it.Score
		}
		maxSum += it.MaxScore
	}
	if maxSum > 0 {
		metrics.CapabilityPct = math.Round(scoreSum/maxSum*100*100) / 100
	}
	return metrics, nil
}

// === 考核矩阵 ===

// GetAssessmentMatrix 查询供应商考核矩阵
func (s *MatrixService) GetAssessmentMatrix(ctx context.Context, nominationID, userID, supplierID string) ([]entity.AssessmentCriterion, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	return s.repos.Matrix.ListAssessmentCriteria(ctx, nominationID, supplierID)
}

// InitializeAssessmentMatrix 为每个已评估供应商种入默认考核矩阵行（已有则跳过）
func (s *MatrixService) InitializeAssessmentMatrix(ctx context.Context, nominationID, userID string) error {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return err
	}
	evals, err := s.repos.Evaluation.ListByNomination(ctx, nominationID)
	if err != nil {
		return fmt.Errorf("查询供应商评估失败: %w", err)
	}
	for _, e := range evals {
		count, err := s.repos.Matrix.CountAssessmentCriteria(ctx, nominationID, e.SupplierID)
		if err != nil {
			return fmt.Errorf("查询考核矩阵失败: %w", err)
		}
		if count > 0 {
			continue
		}
		items := make([]entity.AssessmentCriterion, 0, len(matrixTemplate))
		for i, t := range matrixTemplate {
			items = append(items, entity.AssessmentCriterion{
				ID:           uuid.New().String()[:32],
				NominationID: nominationID,
				SupplierID:   e.SupplierID,
				Category:     t.Category,
				Aspect:       t.Aspect,
				TotalScore:   10,
				SortOrder:    i + 1,
			})
		}
		if err := s.repos.Matrix.CreateAssessmentCriteria(ctx, items); err != nil {
			return fmt.Errorf("初始化考核矩阵失败: %w", err)
		}
	}
	return nil
}

// AssessmentPatch 考核矩阵行更新输入
type AssessmentPatch struct {
	ID          string   `json:"id" binding:"required"`
	ActualScore *float64 `json:"actual_score"`
	RiskScore   *float64 `json:"risk_score"`
	MinorNC     *int     `json:"minor_nc"`
	MajorNC     *int     `json:"major_nc"`
	Aspect      *string  `json:"aspect"`
}

func assessmentFields(p *AssessmentPatch) map[string]interface{} {
	fields := map[string]interface{}{}
	if p.ActualScore != nil {
		fields["actual_score"] = *p.ActualScore
	}
	if p.RiskScore != nil {
		fields["risk_score"] = *p.RiskScore
	}
	if p.MinorNC != nil {
		fields["minor_nc"] = *p.MinorNC
	}
	if p.MajorNC != nil {
		fields["major_nc"] = *p.MajorNC
	}
	if p.Aspect != nil {
		fields["aspect"] = *p.Aspect
	}
	return fields
}

// UpdateAssessmentCriterion 更新单条考核矩阵行
func (s *MatrixService) UpdateAssessmentCriterion(ctx context.Context, nominationID, userID, supplierID string, patch *AssessmentPatch) error {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return err
	}
	fields := assessmentFields(patch)
	if len(fields) == 0 {
		return nil
	}
	return s.repos.Matrix.UpdateAssessmentCriterion(ctx, nominationID, supplierID, patch.ID, fields)
}

// BatchUpdateAssessmentMatrix 逐条更新考核矩阵，返回每项结果
func (s *MatrixService) BatchUpdateAssessmentMatrix(ctx context.Context, nominationID, userID, supplierID string, patches []AssessmentPatch) ([]BatchItemOutcome, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	outcomes := make([]BatchItemOutcome, 0, len(patches))
	for i := range patches {
		outcome := BatchItemOutcome{ID: patches[i].ID, Success: true}
		fields := assessmentFields(&patches[i])
		if len(fields) > 0 {
			if err := s.repos.Matrix.UpdateAssessmentCriterion(ctx, nominationID, supplierID, patches[i].ID, fields); err != nil {
				outcome.Success = false
				outcome.Error = err.Error()
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// MatrixMetrics 考核/评级矩阵汇总指标
type MatrixMetrics struct {
	AchievementPct float64 `json:"achievement_pct"`
	MinorNCTotal   int     `json:"minor_nc_total"`
	MajorNCTotal   int     `json:"major_nc_total"`
}

// GetAssessmentMetrics 汇总考核矩阵达成率与不符合项（无数据时全零）
func (s *MatrixService) GetAssessmentMetrics(ctx context.Context, nominationID, userID, supplierID string) (*MatrixMetrics, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	items, err := s.repos.Matrix.ListAssessmentCriteria(ctx, nominationID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("查询考核矩阵失败: %w", err)
	}
	metrics := &MatrixMetrics{}
	var actualSum, totalSum float64
	for _, it := range items {
		if it.ActualScore != nil {
			actualSum += *it.ActualScore
		}
		totalSum += it.TotalScore
		metrics.MinorNCTotal += it.MinorNC
		metrics.MajorNCTotal += it.MajorNC
	}
	if totalSum > 0 {
		metrics.AchievementPct = math.Round(actualSum/totalSum*100*100) / 100
	}
	return metrics, nil
}

// === 评级矩阵 ===

// GetRatingMatrix 查询供应商评级矩阵
func (s *MatrixService) GetRatingMatrix(ctx context.Context, nominationID, userID, supplierID string) ([]entity.RatingMatrixItem, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	return s.repos.Matrix.ListRatingItems(ctx, nominationID, supplierID)
}

// InitializeRatingMatrix 为每个已评估供应商种入默认评级矩阵行（已有则跳过）
func (s *MatrixService) InitializeRatingMatrix(ctx context.Context, nominationID, userID string) error {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return err
	}
	evals, err := s.repos.Evaluation.ListByNomination(ctx, nominationID)
	if err != nil {
		return fmt.Errorf("查询供应商评估失败: %w", err)
	}
	for _, e := range evals {
		count, err := s.repos.Matrix.CountRatingItems(ctx, nominationID, e.SupplierID)
		if err != nil {
			return fmt.Errorf("查询评级矩阵失败: %w", err)
		}
		if count > 0 {
			continue
		}
		items := make([]entity.RatingMatrixItem, 0, len(matrixTemplate))
		for i, t := range matrixTemplate {
			items = append(items, entity.RatingMatrixItem{
				ID:           uuid.New().String()[:32],
				NominationID: nominationID,
				SupplierID:   e.SupplierID,
				Category:     t.Category,
				Aspect:       t.Aspect,
				TotalScore:   10,
				SortOrder:    i + 1,
			})
		}
		if err := s.repos.Matrix.CreateRatingItems(ctx, items); err != nil {
			return fmt.Errorf("初始化评级矩阵失败: %w", err)
		}
	}
	return nil
}

// RatingPatch 评级矩阵行更新输入
type RatingPatch struct {
	ID          string   `json:"id" binding:"required"`
	ActualScore *float64 `json:"actual_score"`
	MinorNC     *int     `json:"minor_nc"`
	MajorNC     *int     `json:"major_nc"`
	Aspect      *string  `json:"aspect"`
}

func ratingFields(p *RatingPatch) map[string]interface{} {
	fields := map[string]interface{}{}
	if p.ActualScore != nil {
		fields["actual_score"] = *p.ActualScore
	}
	if p.MinorNC != nil {
		fields["minor_nc"] = *p.MinorNC
	}
	if p.MajorNC != nil {
		fields["major_nc"] = *p.MajorNC
	}
	if p.Aspect != nil {
		fields["aspect"] = *p.Aspect
	}
	return fields
}

// UpdateRatingItem 更新单条评级矩阵行
func (s *MatrixService) UpdateRatingItem(ctx context.Context, nominationID, userID, supplierID string, patch *RatingPatch) error {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return err
	}
	fields := ratingFields(patch)
	if len(fields) == 0 {
		return nil
	}
	return s.repos.Matrix.UpdateRatingItem(ctx, nominationID, supplierID, patch.ID, fields)
}

// BatchUpdateRatingMatrix 逐条更新评级矩阵，返回每项结果
func (s *MatrixService) BatchUpdateRatingMatrix(ctx context.Context, nominationID, userID, supplierID string, patches []RatingPatch) ([]BatchItemOutcome, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	outcomes := make([]BatchItemOutcome, 0, len(patches))
	for i := range patches {
		outcome := BatchItemOutcome{ID: patches[i].ID, Success: true}
		fields := ratingFields(&patches[i])
		if len(fields) > 0 {
			if err := s.repos.Matrix.UpdateRatingItem(ctx, nominationID, supplierID, patches[i].ID, fields); err != nil {
				outcome.Success = false
				outcome.Error = err.Error()
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// GetRatingMetrics 汇总评级矩阵达成率与不符合项（无数据时全零）
func (s *MatrixService) GetRatingMetrics(ctx context.Context, nominationID, userID, supplierID string) (*MatrixMetrics, error) {
	if err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}
	items, err := s.repos.Matrix.ListRatingItems(ctx, nominationID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("查询评级矩阵失败: %w", err)
	}
	metrics := &MatrixMetrics{}
	var actualSum, totalSum float64
	for _, it := range items {
		if it.ActualScore != nil {
			actualSum += *it.ActualScore
		}
		totalSum += it.TotalScore
		metrics.MinorNCTotal += it.MinorNC
		metrics.MajorNCTotal += it.MajorNC
	}
	if totalSum > 0 {
		metrics.AchievementPct = math.Round(actualSum/totalSum*100*100) / 100
	}
	return metrics, nil
}
