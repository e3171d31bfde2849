package repository

import (
	"context"
	"errors"

	"github.com/abushana-oss/mithran/internal/routing/entity"
	"gorm.io/gorm"
)

// StepRepository 工艺路线步骤仓库
type StepRepository struct {
	db *gorm.DB
}

func NewStepRepository(db *gorm.DB) *StepRepository {
	return &StepRepository{db: db}
}

// ListByRoute 查询路线下全部步骤，按step_number升序
func (r *StepRepository) ListByRoute(ctx context.Context, routeID string) ([]entity.ProcessRouteStep, error) {
	var steps []entity.ProcessRouteStep
	err := r.db.WithContext(ctx).
		Where("route_id = ?", routeID).
		Order("step_number ASC").
		Find(&steps).Error
	return steps, err
}

func (r *StepRepository) FindByID(ctx context.Context, id string) (*entity.ProcessRouteStep, error) {
	var step entity.ProcessRouteStep
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&step).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &step, nil
}

func (r *StepRepository) Create(ctx context.Context, step *entity.ProcessRouteStep) error {
	return r.db.WithContext(ctx).Create(step).Error
}

func (r *StepRepository) Update(ctx context.Context, step *entity.ProcessRouteStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}

func (r *StepRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ProcessRouteStep{}).Error
}

// UpdateStepNumber 更新单个步骤的序号
func (r *StepRepository) UpdateStepNumber(ctx context.Context, id string, stepNumber int) error {
	result := r.db.WithContext(ctx).
		Model(&entity.ProcessRouteStep{}).
		Where("id = ?", id).
		Update("step_number", stepNumber)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateCalculatedCost 更新单个步骤的计算成本
func (r *StepRepository) UpdateCalculatedCost(ctx context.Context, id string, cost float64) error {
	return r.db.WithContext(ctx).
		Model(&entity.ProcessRouteStep{}).
		Where("id = ?", id).
		Update("calculated_cost", cost).Error
}

// CountByRoute 统计路线下的步骤数
func (r *StepRepository) CountByRoute(ctx context.Context, routeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ProcessRouteStep{}).
		Where("route_id = ?", routeID).
		Count(&count).Error
	return count, err
}
