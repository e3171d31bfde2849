package repository

import (
	"context"
	"errors"
	"time"

	"github.com/abushana-oss/mithran/internal/production/entity"
	"gorm.io/gorm"
)

// EntryRepository 每日生产记录仓库
type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// ListByLot 查询批次下全部记录，按日期升序
func (r *EntryRepository) ListByLot(ctx context.Context, lotID string) ([]entity.ProductionEntry, error) {
	var entries []entity.ProductionEntry
	err := r.db.WithContext(ctx).
		Where("lot_id = ?", lotID).
		Order("entry_date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *EntryRepository) FindByID(ctx context.Context, id string) (*entity.ProductionEntry, error) {
	var entry entity.ProductionEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *EntryRepository) Create(ctx context.Context, entry *entity.ProductionEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *EntryRepository) Update(ctx context.Context, entry *entity.ProductionEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ProductionEntry{}).Error
}

// TupleExists (lot, process, date, shift) 是否已有记录，excludeID用于更新时排除自身
func (r *EntryRepository) TupleExists(ctx context.Context, lotID, processID string, date time.Time, shift, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.ProductionEntry{}).
		Where("lot_id = ? AND process_id = ? AND entry_date = ? AND shift = ?",
			lotID, processID, date, shift)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}
