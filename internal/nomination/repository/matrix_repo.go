package repository

import (
	"context"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"gorm.io/gorm"
)

// MatrixRepository 能力评分/考核矩阵/评级矩阵仓库
type MatrixRepository struct {
	db *gorm.DB
}

func NewMatrixRepository(db *gorm.DB) *MatrixRepository {
	return &MatrixRepository{db: db}
}

// === 能力评分 ===

// ListCapabilityScores 查询提名+供应商下的能力评分
func (r *MatrixRepository) ListCapabilityScores(ctx context.Context, nominationID, supplierID string) ([]entity.CapabilityScore, error) {
	var items []entity.CapabilityScore
	err := r.db.WithContext(ctx).
		Where("nomination_id = ? AND supplier_id = ?", nominationID, supplierID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

// CreateCapabilityScores 批量创建能力评分行
func (r *MatrixRepository) CreateCapabilityScores(ctx context.Context, items []entity.CapabilityScore) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// UpdateCapabilityScore 按ID更新能力评分（限定提名+供应商范围）
func (r *MatrixRepository) UpdateCapabilityScore(ctx context.Context, nominationID, supplierID, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&entity.CapabilityScore{}).
		Where("id = ? AND nomination_id = ? AND supplier_id = ?", id, nominationID, supplierID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountCapabilityScores 统计提名+供应商下的能力评分行数
func (r *MatrixRepository) CountCapabilityScores(ctx context.Context, nominationID, supplierID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.CapabilityScore{}).
		Where("nomination_id = ? AND supplier_id = ?", nominationID, supplierID).
		Count(&count).Error
	return count, err
}

// === 考核矩阵 ===

// ListAssessmentCriteria 查询提名+供应商下的考核矩阵行
func (r *MatrixRepository) ListAssessmentCriteria(ctx context.Context, nominationID, supplierID string) ([]entity.AssessmentCriterion, error) {
	var items []entity.AssessmentCriterion
	err := r.db.WithContext(ctx).
		Where("nomination_id = ? AND supplier_id = ?", nominationID, supplierID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

// CreateAssessmentCriteria 批量创建考核矩阵行
func (r *MatrixRepository) CreateAssessmentCriteria(ctx context.Context, items []entity.AssessmentCriterion) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// UpdateAssessmentCriterion 按ID更新考核矩阵行（限定提名+供应商范围）
func (r *MatrixRepository) UpdateAssessmentCriterion(ctx context.Context, nominationID, supplierID, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&entity.AssessmentCriterion{}).
		Where("id = ? AND nomination_id = ? AND supplier_id = ?", id, nominationID, supplierID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAssessmentCriteria 统计提名+供应商下的考核矩阵行数
func (r *MatrixRepository) CountAssessmentCriteria(ctx context.Context, nominationID, supplierID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.AssessmentCriterion{}).
		Where("nomination_id = ? AND supplier_id = ?", nominationID, supplierID).
		Count(&count).Error
	return count, err
}

// === 评级矩阵 ===

// ListRatingItems 查询提名+供应商下的评级矩阵行
func (r *MatrixRepository) ListRatingItems(ctx context.Context, nominationID, supplierID string) ([]entity.RatingMatrixItem, error) {
	var items []entity.RatingMatrixItem
	err := r.db.WithContext(ctx).
		Where("nomination_id = ? AND supplier_id = ?", nominationID, supplierID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

// CreateRatingItems 批量创建评级矩阵行
func (r *MatrixRepository) CreateRatingItems(ctx context.Context, items []entity.RatingMatrixItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// UpdateRatingItem 按ID更新评级矩阵行（限定提名+供应商范围）
func (r *MatrixRepository) UpdateRatingItem(ctx context.Context, nominationID, supplierID, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&entity.RatingMatrixItem{}).
		Where("id = ? AND nomination_id = ? AND supplier_id = ?", id, nominationID, supplierID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountRatingItems 统计提名+供应商下的评级矩阵行数
func (r *MatrixRepository) CountRatingItems(ctx context.Context, nominationID, supplierID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.RatingMatrixItem{}).
		Where("nomination_id = ? AND supplier_id = ?", nominationID, supplierID).
		Count(&count).Error
	return count, err
}
