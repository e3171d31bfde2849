package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/abushana-oss/mithran/internal/nomination/entity"
	"github.com/abushana-oss/mithran/internal/nomination/repository"
	supplierrepo "github.com/abushana-oss/mithran/internal/supplier/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	rankingCacheKeyPrefix = "mithran:nomination:rankings:"
	rankingCacheTTL       = 10 * time.Minute
)

// ScoringService 评分与排名服务
type ScoringService struct {
	repos        *repository.Repositories
	supplierRepo *supplierrepo.SupplierRepository
	rdb          *redis.Client
	logger       *zap.Logger
}

func NewScoringService(repos *repository.Repositories, supplierRepo *supplierrepo.SupplierRepository, rdb *redis.Client, logger *zap.Logger) *ScoringService {
	return &ScoringService{
		repos:        repos,
		supplierRepo: supplierRepo,
		rdb:          rdb,
		logger:       logger,
	}
}

// FactorWeights 排名因子权重
type FactorWeights struct {
	CostFactor            float64 `json:"cost_factor"`
	DevelopmentCostFactor float64 `json:"development_cost_factor"`
	LeadTimeFactor        float64 `json:"lead_time_factor"`
}

// ErrWeightSum 因子权重之和不为100
type ErrWeightSum struct {
	Sum float64
}

func (e *ErrWeightSum) Error() string {
	return fmt.Sprintf("因子权重之和必须为100，当前为%.2f", e.Sum)
}

// GetFactorWeights 查询提名的因子权重
func (s *ScoringService) GetFactorWeights(ctx context.Context, nominationID, userID string) (*FactorWeights, error) {
	nom, err := s.ownedNomination(ctx, nominationID, userID)
	if err != nil {
		return nil, err
	}
	return &FactorWeights{
		CostFactor:            nom.CostFactor,
		DevelopmentCostFactor: nom.DevelopmentCostFactor,
		LeadTimeFactor:        nom.LeadTimeFactor,
	}, nil
}

// SetFactorWeights 设置因子权重，三项之和必须为100（容差0.01）
func (s *ScoringService) SetFactorWeights(ctx context.Context, nominationID, userID string, w *FactorWeights) error {
	if _, err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return err
	}
	sum := w.CostFactor + w.DevelopmentCostFactor + w.LeadTimeFactor
	if math.Abs(sum-100) > 0.01 {
		return &ErrWeightSum{Sum: sum}
	}
	fields := map[string]interface{}{
		"cost_factor":             w.CostFactor,
		"development_cost_factor": w.DevelopmentCostFactor,
		"lead_time_factor":        w.LeadTimeFactor,
	}
	if err := s.repos.Nomination.UpdateFields(ctx, nominationID, fields); err != nil {
		return fmt.Errorf("更新因子权重失败: %w", err)
	}
	s.invalidateRankingCache(ctx, nominationID)
	return nil
}

func (s *ScoringService) ownedNomination(ctx context.Context, nominationID, userID string) (*entity.Nomination, error) {
	nom, err := s.repos.Nomination.FindByID(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	if nom.UserID != userID {
		return nil, ErrNotFound
	}
	return nom, nil
}

// CalculateRankings 计算供应商排名。
// 按成本项类型汇总各供应商报价，升序排名（同值同名次），
// 因子得分 = (n-名次+1)/n×100，总分 = Σ 权重/100×因子得分，综合名次按总分降序。
func (s *ScoringService) CalculateRankings(ctx context.Context, nominationID, userID string) ([]entity.SupplierRanking, error) {
	nom, err := s.ownedNomination(ctx, nominationID, userID)
	if err != nil {
		return nil, err
	}

	evals, err := s.repos.Evaluation.ListByNomination(ctx, nominationID)
	if err != nil {
		return nil, fmt.Errorf("查询供应商评估失败: %w", err)
	}
	if len(evals) == 0 {
		return []entity.SupplierRanking{}, nil
	}

	components, err := s.repos.Cost.ListComponents(ctx, nominationID)
	if err != nil {
		return nil, fmt.Errorf("查询成本分析失败: %w", err)
	}

	// 各供应商按成本项类型汇总报价（缺失报价按0计）
	sums := map[string]map[string]float64{
		entity.CostComponentTypeCost:            {},
		entity.CostComponentTypeDevelopmentCost: {},
		entity.CostComponentTypeLeadTime:        {},
	}
	for _, c := range components {
		bucket, ok := sums[c.Type]
		if !ok {
			continue
		}
		for _, v := range c.VendorValues {
			if v.NumericValue != nil {
				bucket[v.SupplierID] += *v.NumericValue
			}
		}
	}

	supplierIDs := make([]string, 0, len(evals))
	for _, e := range evals {
		supplierIDs = append(supplierIDs, e.SupplierID)
	}
	costRanks := rankAscending(supplierIDs, sums[entity.CostComponentTypeCost])
	devRanks := rankAscending(supplierIDs, sums[entity.CostComponentTypeDevelopmentCost])
	leadRanks := rankAscending(supplierIDs, sums[entity.CostComponentTypeLeadTime])

	names := map[string]string{}
	if suppliers, err := s.supplierRepo.FindByIDs(ctx, supplierIDs); err != nil {
		s.logger.Warn("供应商名称查询失败", zap.String("nomination_id", nominationID), zap.Error(err))
	} else {
		for _, sp := range suppliers {
			names[sp.ID] = sp.Name
		}
	}

	n := float64(len(supplierIDs))
	rankings := make([]entity.SupplierRanking, 0, len(supplierIDs))
	for _, sid := range supplierIDs {
		factorScore := func(rank int) float64 {
			return (n - float64(rank) + 1) / n * 100
		}
		total := nom.CostFactor/100*factorScore(costRanks[sid]) +
			nom.DevelopmentCostFactor/100*factorScore(devRanks[sid]) +
			nom.LeadTimeFactor/100*factorScore(leadRanks[sid])
		rankings = append(rankings, entity.SupplierRanking{
			ID:                  uuid.New().String()[:32],
			NominationID:        nominationID,
			SupplierID:          sid,
			SupplierName:        names[sid],
			CostRank:            costRanks[sid],
			DevelopmentCostRank: devRanks[sid],
			LeadTimeRank:        leadRanks[sid],
			TotalScore:          math.Round(total*100) / 100,
		})
	}

	// 综合名次按总分降序，同分同名次
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].TotalScore > rankings[j].TotalScore
	})
	for i := range rankings {
		if i > 0 && rankings[i].TotalScore == rankings[i-1].TotalScore {
			rankings[i].OverallRank = rankings[i-1].OverallRank
		} else {
			rankings[i].OverallRank = i + 1
		}
	}
	return rankings, nil
}

// rankAscending 按汇总值升序排名，同值共享名次（1,2,2,4）
func rankAscending(supplierIDs []string, sums map[string]float64) map[string]int {
	sorted := make([]string, len(supplierIDs))
	copy(sorted, supplierIDs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sums[sorted[i]] < sums[sorted[j]]
	})
	ranks := make(map[string]int, len(sorted))
	for i, sid := range sorted {
		if i > 0 && sums[sid] == sums[sorted[i-1]] {
			ranks[sid] = ranks[sorted[i-1]]
		} else {
			ranks[sid] = i + 1
		}
	}
	return ranks
}

// StoreRankings 计算并落库排名快照
func (s *ScoringService) StoreRankings(ctx context.Context, nominationID, userID string) ([]entity.SupplierRanking, error) {
	rankings, err := s.CalculateRankings(ctx, nominationID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Ranking.ReplaceForNomination(ctx, nominationID, rankings); err != nil {
		return nil, fmt.Errorf("保存排名失败: %w", err)
	}
	s.invalidateRankingCache(ctx, nominationID)
	return rankings, nil
}

// GetStoredRankings 读取已落库的排名（redis短缓存）
func (s *ScoringService) GetStoredRankings(ctx context.Context, nominationID, userID string) ([]entity.SupplierRanking, error) {
	if _, err := s.ownedNomination(ctx, nominationID, userID); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, rankingCacheKeyPrefix+nominationID).Result()
		if err == nil {
			var rankings []entity.SupplierRanking
			if jsonErr := json.Unmarshal([]byte(cached), &rankings); jsonErr == nil {
				return rankings, nil
			}
		}
	}

	rankings, err := s.repos.Ranking.ListByNomination(ctx, nominationID)
	if err != nil {
		return nil, fmt.Errorf("查询排名失败: %w", err)
	}

	if s.rdb != nil {
		if data, err := json.Marshal(rankings); err == nil {
			if err := s.rdb.Set(ctx, rankingCacheKeyPrefix+nominationID, data, rankingCacheTTL).Err(); err != nil {
				s.logger.Warn("排名缓存写入失败", zap.String("nomination_id", nominationID), zap.Error(err))
			}
		}
	}
	return rankings, nil
}

// ExportRankings 导出排名为xlsx
func (s *ScoringService) ExportRankings(ctx context.Context, nominationID, userID string) (*excelize.File, error) {
	nom, err := s.ownedNomination(ctx, nominationID, userID)
	if err != nil {
		return nil, err
	}
	rankings, err := s.GetStoredRankings(ctx, nominationID, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "供应商排名"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"综合名次", "供应商", "成本名次", "开发成本名次", "交期名次", "加权总分"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, r := range rankings {
		values := []interface{}{r.OverallRank, r.SupplierName, r.CostRank, r.DevelopmentCostRank, r.LeadTimeRank, r.TotalScore}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	f.SetCellValue(sheet, "H1", fmt.Sprintf("提名：%s", nom.Name))
	return f, nil
}

func (s *ScoringService) invalidateRankingCache(ctx context.Context, nominationID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, rankingCacheKeyPrefix+nominationID).Err(); err != nil {
		s.logger.Warn("排名缓存失效失败", zap.String("nomination_id", nominationID), zap.Error(err))
	}
}
