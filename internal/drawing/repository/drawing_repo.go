package repository

import (
	"context"
	"errors"

	"github.com/abushana-oss/mithran/internal/drawing/entity"
	"gorm.io/gorm"
)

// ErrNotFound 图纸不存在
var ErrNotFound = errors.New("record not found")

// DrawingRepository 图纸仓库
type DrawingRepository struct {
	db *gorm.DB
}

func NewDrawingRepository(db *gorm.DB) *DrawingRepository {
	return &DrawingRepository{db: db}
}

// ListByPart 查询物料下的全部图纸
func (r *DrawingRepository) ListByPart(ctx context.Context, nominationID, partID string) ([]entity.Drawing, error) {
	var drawings []entity.Drawing
	err := r.db.WithContext(ctx).
		Where("nomination_id = ? AND part_id = ?", nominationID, partID).
		Order("created_at DESC").
		Find(&drawings).Error
	return drawings, err
}

func (r *DrawingRepository) FindByID(ctx context.Context, id string) (*entity.Drawing, error) {
	var drawing entity.Drawing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&drawing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &drawing, nil
}

func (r *DrawingRepository) Create(ctx context.Context, drawing *entity.Drawing) error {
	return r.db.WithContext(ctx).Create(drawing).Error
}

// UpdateSTL 更新STL转换状态与对象键
func (r *DrawingRepository) UpdateSTL(ctx context.Context, id, status, objectKey string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Drawing{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stl_status":     status,
			"stl_object_key": objectKey,
		}).Error
}

func (r *DrawingRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Drawing{}).Error
}
