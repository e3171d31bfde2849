package repository

import (
	"context"
	"errors"

	"github.com/abushana-oss/mithran/internal/routing/entity"
	"gorm.io/gorm"
)

// RateRepository 工时费率仓库
type RateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) *RateRepository {
	return &RateRepository{db: db}
}

// FindAll 查询工时费率，可按类型/启用状态过滤
func (r *RateRepository) FindAll(ctx context.Context, filters map[string]string) ([]entity.HourRate, error) {
	var rates []entity.HourRate
	query := r.db.WithContext(ctx).Model(&entity.HourRate{})
	if v := filters["type"]; v != "" {
		query = query.Where("type = ?", v)
	}
	if v := filters["active"]; v != "" {
		query = query.Where("active = ?", v == "true")
	}
	err := query.Order("created_at DESC").Find(&rates).Error
	return rates, err
}

func (r *RateRepository) FindByID(ctx context.Context, id string) (*entity.HourRate, error) {
	var rate entity.HourRate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// FindByIDs 批量查询费率，返回ID索引映射
func (r *RateRepository) FindByIDs(ctx context.Context, ids []string) (map[string]entity.HourRate, error) {
	result := make(map[string]entity.HourRate, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rates []entity.HourRate
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rates).Error; err != nil {
		return nil, err
	}
	for _, rate := range rates {
		result[rate.ID] = rate
	}
	return result, nil
}

func (r *RateRepository) Create(ctx context.Context, rate *entity.HourRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *RateRepository) Update(ctx context.Context, rate *entity.HourRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

func (r *RateRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.HourRate{}).Error
}
