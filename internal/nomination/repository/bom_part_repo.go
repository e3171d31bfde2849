package repository

import (
	"context"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"gorm.io/gorm"
)

// BOMPartRepository 提名BOM物料仓库
type BOMPartRepository struct {
	db *gorm.DB
}

func NewBOMPartRepository(db *gorm.DB) *BOMPartRepository {
	return &BOMPartRepository{db: db}
}

// ListByNomination 查询提名下的全部物料（含候选供应商关联）
func (r *BOMPartRepository) ListByNomination(ctx context.Context, nominationID string) ([]entity.NominationBOMPart, error) {
	var items []entity.NominationBOMPart
	err := r.db.WithContext(ctx).
		Preload("Vendors").
		Where("nomination_id = ?", nominationID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// FindByID 根据ID查找物料
func (r *BOMPartRepository) FindByID(ctx context.Context, id string) (*entity.NominationBOMPart, error) {
	var part entity.NominationBOMPart
	err := r.db.WithContext(ctx).
		Preload("Vendors").
		Where("id = ?", id).
		First(&part).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// Create 创建物料行
func (r *BOMPartRepository) Create(ctx context.Context, part *entity.NominationBOMPart) error {
	return r.db.WithContext(ctx).Create(part).Error
}

// CreateVendors 批量创建物料-供应商关联
func (r *BOMPartRepository) CreateVendors(ctx context.Context, vendors []entity.NominationBOMPartVendor) error {
	if len(vendors) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&vendors).Error
}

// DeleteByNomination 删除提名下的全部物料及其供应商关联
func (r *BOMPartRepository) DeleteByNomination(ctx context.Context, nominationID string) error {
	if err := r.db.WithContext(ctx).
		Where("part_id IN (?)",
			r.db.Model(&entity.NominationBOMPart{}).
				Select("id").
				Where("nomination_id = ?", nominationID),
		).
		Delete(&entity.NominationBOMPartVendor{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("nomination_id = ?", nominationID).
		Delete(&entity.NominationBOMPart{}).Error
}
