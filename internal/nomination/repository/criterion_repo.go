package repository

import (
	"context"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"gorm.io/gorm"
)

// CriterionRepository 评审指标仓库
type CriterionRepository struct {
	db *gorm.DB
}

func NewCriterionRepository(db *gorm.DB) *CriterionRepository {
	return &CriterionRepository{db: db}
}

// ListByNomination 查询提名下的全部指标
func (r *CriterionRepository) ListByNomination(ctx context.Context, nominationID string) ([]entity.NominationCriterion, error) {
	var items []entity.NominationCriterion
	err := r.db.WithContext(ctx).
		Where("nomination_id = ?", nominationID).
		Order("display_order ASC").
		Find(&items).Error
	return items, err
}

// MapByNomination 查询指标并按ID建立索引（加权分计算用）
func (r *CriterionRepository) MapByNomination(ctx context.Context, nominationID string) (map[string]entity.NominationCriterion, error) {
	items, err := r.ListByNomination(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]entity.NominationCriterion, len(items))
	for _, c := range items {
		m[c.ID] = c
	}
	return m, nil
}

// BulkCreate 批量创建指标
func (r *CriterionRepository) BulkCreate(ctx context.Context, items []entity.NominationCriterion) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// DeleteByNomination 删除提名下的全部指标
func (r *CriterionRepository) DeleteByNomination(ctx context.Context, nominationID string) error {
	return r.db.WithContext(ctx).
		Where("nomination_id = ?", nominationID).
		Delete(&entity.NominationCriterion{}).Error
}
