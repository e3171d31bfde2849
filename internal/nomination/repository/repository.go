package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 提名模块仓库集合
type Repositories struct {
	Nomination *NominationRepository
	Criterion  *CriterionRepository
	Evaluation *EvaluationRepository
	BOMPart    *BOMPartRepository
	Cost       *CostRepository
	Matrix     *MatrixRepository
	Ranking    *RankingRepository
}

// NewRepositories 创建提名模块仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Nomination: NewNominationRepository(db),
		Criterion:  NewCriterionRepository(db),
		Evaluation: NewEvaluationRepository(db),
		BOMPart:    NewBOMPartRepository(db),
		Cost:       NewCostRepository(db),
		Matrix:     NewMatrixRepository(db),
		Ranking:    NewRankingRepository(db),
	}
}
