package handler

import "github.com/abushana-oss/mithran/internal/nomination/service"

// Handlers 提名模块处理器集合
type Handlers struct {
	Nomination *NominationHandler
	Scoring    *ScoringHandler
	Cost       *CostHandler
	Matrix     *MatrixHandler
}

func NewHandlers(
	nominationSvc *service.NominationService,
	scoringSvc *service.ScoringService,
	costSvc *service.CostService,
	matrixSvc *service.MatrixService,
) *Handlers {
	return &Handlers{
		Nomination: NewNominationHandler(nominationSvc),
		Scoring:    NewScoringHandler(scoringSvc),
		Cost:       NewCostHandler(costSvc),
		Matrix:     NewMatrixHandler(matrixSvc),
	}
}
