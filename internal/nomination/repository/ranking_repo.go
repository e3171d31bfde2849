package repository

import (
	"context"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"gorm.io/gorm"
)

// RankingRepository 供应商排名仓库
type RankingRepository struct {
	db *gorm.DB
}

func NewRankingRepository(db *gorm.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

// ReplaceForNomination 整体替换提名下的排名快照
func (r *RankingRepository) ReplaceForNomination(ctx context.Context, nominationID string, rankings []entity.SupplierRanking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("nomination_id = ?", nominationID).
			Delete(&entity.SupplierRanking{}).Error; err != nil {
			return err
		}
		if len(rankings) == 0 {
			return nil
		}
		return tx.Create(&rankings).Error
	})
}

// ListByNomination 查询提名下的排名，按综合名次升序
func (r *RankingRepository) ListByNomination(ctx context.Context, nominationID string) ([]entity.SupplierRanking, error) {
	var rankings []entity.SupplierRanking
	err := r.db.WithContext(ctx).
		Where("nomination_id = ?", nominationID).
		Order("overall_rank ASC").
		Find(&rankings).Error
	return rankings, err
}

// DeleteByNomination 删除提名下的全部排名
func (r *RankingRepository) DeleteByNomination(ctx context.Context, nominationID string) error {
	return r.db.WithContext(ctx).
		Where("nomination_id = ?", nominationID).
		Delete(&entity.SupplierRanking{}).Error
}
