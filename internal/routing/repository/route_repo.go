package repository

import (
	"context"
	"errors"

	"github.com/abushana-oss/mithran/internal/routing/entity"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// RouteRepository 工艺路线仓库
type RouteRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// FindAll 分页查询工艺路线
func (r *RouteRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProcessRoute, int64, error) {
	var routes []entity.ProcessRoute
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProcessRoute{})
	if v := filters["bom_item_id"]; v != "" {
		query = query.Where("bom_item_id = ?", v)
	}
	if v := filters["workflow_state"]; v != "" {
		query = query.Where("workflow_state = ?", v)
	}
	if v := filters["assigned_to"]; v != "" {
		query = query.Where("assigned_to = ?", v)
	}
	if v := filters["keyword"]; v != "" {
		query = query.Where("name ILIKE ?", "%"+v+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&routes).Error
	return routes, total, err
}

// FindByID 按ID查询路线（含步骤，按step_number升序）
func (r *RouteRepository) FindByID(ctx context.Context, id string) (*entity.ProcessRoute, error) {
	var route entity.ProcessRoute
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		}).
		Where("id = ?", id).
		First(&route).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &route, nil
}

func (r *RouteRepository) Create(ctx context.Context, route *entity.ProcessRoute) error {
	return r.db.WithContext(ctx).Create(route).Error
}

func (r *RouteRepository) Update(ctx context.Context, route *entity.ProcessRoute) error {
	return r.db.WithContext(ctx).Save(route).Error
}

// UpdateFields 按字段更新路线
func (r *RouteRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&entity.ProcessRoute{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除路线及其全部步骤
func (r *RouteRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("route_id = ?", id).Delete(&entity.ProcessRouteStep{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.ProcessRoute{}).Error
	})
}
