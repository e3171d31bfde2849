package repository

import (
	"context"
	"errors"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"gorm.io/gorm"
)

// NominationRepository 提名仓库
type NominationRepository struct {
	db *gorm.DB
}

func NewNominationRepository(db *gorm.DB) *NominationRepository {
	return &NominationRepository{db: db}
}

// FindAll 查询提名列表
func (r *NominationRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Nomination, int64, error) {
	var items []entity.Nomination
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Nomination{})

	if userID := filters["user_id"]; userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if nomType := filters["type"]; nomType != "" {
		query = query.Where("type = ?", nomType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找提名（不带子集合，聚合装配由service完成）
func (r *NominationRepository) FindByID(ctx context.Context, id string) (*entity.Nomination, error) {
	var nom entity.Nomination
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&nom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &nom, nil
}

// Create 创建提名
func (r *NominationRepository) Create(ctx context.Context, nom *entity.Nomination) error {
	return r.db.WithContext(ctx).Create(nom).Error
}

// Update 保存提名
func (r *NominationRepository) Update(ctx context.Context, nom *entity.Nomination) error {
	return r.db.WithContext(ctx).Save(nom).Error
}

// UpdateFields 按字段更新提名
func (r *NominationRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&entity.Nomination{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete 删除提名行（子记录由service按序清理）
func (r *NominationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Nomination{}).Error
}
