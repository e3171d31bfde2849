package repository

import (
	"context"
	"errors"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"gorm.io/gorm"
)

// CostRepository 成本竞争力分析仓库
type CostRepository struct {
	db *gorm.DB
}

func NewCostRepository(db *gorm.DB) *CostRepository {
	return &CostRepository{db: db}
}

// ListComponents 查询提名下的全部成本项（含供应商报价值）
func (r *CostRepository) ListComponents(ctx context.Context, nominationID string) ([]entity.CostComponent, error) {
	var items []entity.CostComponent
	err := r.db.WithContext(ctx).
		Preload("VendorValues").
		Where("nomination_id = ?", nominationID).
		Order("display_order ASC").
		Find(&items).Error
	return items, err
}

// FindComponentByID 根据ID查找成本项
func (r *CostRepository) FindComponentByID(ctx context.Context, id string) (*entity.CostComponent, error) {
	var comp entity.CostComponent
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comp, nil
}

// CreateComponents 批量创建成本项
func (r *CostRepository) CreateComponents(ctx context.Context, items []entity.CostComponent) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// CreateVendorValues 批量创建供应商报价值
func (r *CostRepository) CreateVendorValues(ctx context.Context, items []entity.VendorCostValue) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// UpdateComponentFields 按字段更新成本项
func (r *CostRepository) UpdateComponentFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&entity.CostComponent{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// FindVendorValue 查找成本项下某供应商的报价值
func (r *CostRepository) FindVendorValue(ctx context.Context, componentID, supplierID string) (*entity.VendorCostValue, error) {
	var v entity.VendorCostValue
	err := r.db.WithContext(ctx).
		Where("component_id = ? AND supplier_id = ?", componentID, supplierID).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// UpdateVendorValue 保存供应商报价值
func (r *CostRepository) UpdateVendorValue(ctx context.Context, v *entity.VendorCostValue) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// CountComponents 统计提名下的成本项数量
func (r *CostRepository) CountComponents(ctx context.Context, nominationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.CostComponent{}).
		Where("nomination_id = ?", nominationID).
		Count(&count).Error
	return count, err
}

// DeleteByNomination 删除提名下的全部成本项及报价值
func (r *CostRepository) DeleteByNomination(ctx context.Context, nominationID string) error {
	if err := r.db.WithContext(ctx).
		Where("component_id IN (?)",
			r.db.Model(&entity.CostComponent{}).
				Select("id").
				Where("nomination_id = ?", nominationID),
		).
		Delete(&entity.VendorCostValue{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("nomination_id = ?", nominationID).
		Delete(&entity.CostComponent{}).Error
}
