package repository

import (
	"context"
	"errors"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"gorm.io/gorm"
)

// EvaluationRepository 候选供应商评估仓库
type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// FindByID 根据ID查找评估
func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*entity.VendorEvaluation, error) {
	var eval entity.VendorEvaluation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&eval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &eval, nil
}

// ListByNomination 查询提名下的全部评估
func (r *EvaluationRepository) ListByNomination(ctx context.Context, nominationID string) ([]entity.VendorEvaluation, error) {
	var items []entity.VendorEvaluation
	err := r.db.WithContext(ctx).
		Where("nomination_id = ?", nominationID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// BulkCreate 批量创建评估
func (r *EvaluationRepository) BulkCreate(ctx context.Context, items []entity.VendorEvaluation) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// Update 保存评估
func (r *EvaluationRepository) Update(ctx context.Context, eval *entity.VendorEvaluation) error {
	return r.db.WithContext(ctx).Save(eval).Error
}

// DeleteByNomination 删除提名下的全部评估
func (r *EvaluationRepository) DeleteByNomination(ctx context.Context, nominationID string) error {
	return r.db.WithContext(ctx).
		Where("nomination_id = ?", nominationID).
		Delete(&entity.VendorEvaluation{}).Error
}

// === 单项得分 ===

// ListScoresByEvaluation 查询评估下的全部得分
func (r *EvaluationRepository) ListScoresByEvaluation(ctx context.Context, evaluationID string) ([]entity.EvaluationScore, error) {
	var items []entity.EvaluationScore
	err := r.db.WithContext(ctx).
		Where("evaluation_id = ?", evaluationID).
		Find(&items).Error
	return items, err
}

// BulkCreateScores 批量创建得分
func (r *EvaluationRepository) BulkCreateScores(ctx context.Context, items []entity.EvaluationScore) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// DeleteScoresByEvaluation 删除评估下的全部得分
func (r *EvaluationRepository) DeleteScoresByEvaluation(ctx context.Context, evaluationID string) error {
	return r.db.WithContext(ctx).
		Where("evaluation_id = ?", evaluationID).
		Delete(&entity.EvaluationScore{}).Error
}

// DeleteScoresByNomination 删除提名下全部评估的得分（级联清理用）
func (r *EvaluationRepository) DeleteScoresByNomination(ctx context.Context, nominationID string) error {
	return r.db.WithContext(ctx).
		Where("evaluation_id IN (?)",
			r.db.Model(&entity.VendorEvaluation{}).
				Select("id").
				Where("nomination_id = ?", nominationID),
		).
		Delete(&entity.EvaluationScore{}).Error
}

// CountScoresByNomination 统计提名下剩余的得分行数
func (r *EvaluationRepository) CountScoresByNomination(ctx context.Context, nominationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.EvaluationScore{}).
		Where("evaluation_id IN (?)",
			r.db.Model(&entity.VendorEvaluation{}).
				Select("id").
				Where("nomination_id = ?", nominationID),
		).
		Count(&count).Error
	return count, err
}
