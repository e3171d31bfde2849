package repository

import (
	"context"
	"errors"

	"github.com/abushana-oss/mithran/internal/production/entity"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// LotRepository 生产批次仓库
type LotRepository struct {
	db *gorm.DB
}

func NewLotRepository(db *gorm.DB) *LotRepository {
	return &LotRepository{db: db}
}

// FindAll 分页查询生产批次
func (r *LotRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProductionLot, int64, error) {
	var lots []entity.ProductionLot
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProductionLot{})
	if v := filters["status"]; v != "" {
		query = query.Where("status = ?", v)
	}
	if v := filters["part_number"]; v != "" {
		query = query.Where("part_number = ?", v)
	}
	if v := filters["keyword"]; v != "" {
		query = query.Where("lot_number ILIKE ? OR part_name ILIKE ?", "%"+v+"%", "%"+v+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&lots).Error
	return lots, total, err
}

func (r *LotRepository) FindByID(ctx context.Context, id string) (*entity.ProductionLot, error) {
	var lot entity.ProductionLot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

func (r *LotRepository) Create(ctx context.Context, lot *entity.ProductionLot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

func (r *LotRepository) Update(ctx context.Context, lot *entity.ProductionLot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// Delete 删除批次及其生产记录
func (r *LotRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lot_id = ?", id).Delete(&entity.ProductionEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.ProductionLot{}).Error
	})
}

// LotNumberExists 批次号是否已存在
func (r *LotRepository) LotNumberExists(ctx context.Context, lotNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ProductionLot{}).
		Where("lot_number = ?", lotNumber).
		Count(&count).Error
	return count > 0, err
}
