package service

import (
	"context"
	"fmt"

	"github.com/abushana-oss/mithran/internal/routing/entity"
	"github.com/abushana-oss/mithran/internal/routing/repository"
	"github.com/google/uuid"
)

// RateService 工时费率服务
type RateService struct {
	rateRepo *repository.RateRepository
}

func NewRateService(rateRepo *repository.RateRepository) *RateService {
	return &RateService{rateRepo: rateRepo}
}

// CreateRateRequest 创建费率请求
type CreateRateRequest struct {
	Name       string  `json:"name" binding:"required"`
	Type       string  `json:"type" binding:"required,oneof=labor machine"`
	HourlyRate float64 `json:"hourly_rate" binding:"required,gt=0"`
	Currency   string  `json:"currency"`
}

func (s *RateService) Create(ctx context.Context, req *CreateRateRequest) (*entity.HourRate, error) {
	rate := &entity.HourRate{
		ID:         uuid.New().String()[:32],
		Name:       req.Name,
		Type:       req.Type,
		HourlyRate: req.HourlyRate,
		Currency:   req.Currency,
		Active:     true,
	}
	if rate.Currency == "" {
		rate.Currency = "CNY"
	}
	if err := s.rateRepo.Create(ctx, rate); err != nil {
		return nil, fmt.Errorf("创建工时费率失败: %w", err)
	}
	return rate, nil
}

func (s *RateService) List(ctx context.Context, filters map[string]string) ([]entity.HourRate, error) {
	return s.rateRepo.FindAll(ctx, filters)
}

func (s *RateService) Get(ctx context.Context, id string) (*entity.HourRate, error) {
	return s.rateRepo.FindByID(ctx, id)
}

// UpdateRateRequest 更新费率请求
type UpdateRateRequest struct {
	Name       *string  `json:"name"`
	HourlyRate *float64 `json:"hourly_rate" binding:"omitempty,gt=0"`
	Currency   *string  `json:"currency"`
	Active     *bool    `json:"active"`
}

func (s *RateService) Update(ctx context.Context, id string, req *UpdateRateRequest) (*entity.HourRate, error) {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rate.Name = *req.Name
	}
	if req.HourlyRate != nil {
		rate.HourlyRate = *req.HourlyRate
	}
	if req.Currency != nil {
		rate.Currency = *req.Currency
	}
	if req.Active != nil {
		rate.Active = *req.Active
	}

	if err := s.rateRepo.Update(ctx, rate); err != nil {
		return nil, fmt.Errorf("更新工时费率失败: %w", err)
	}
	return rate, nil
}

func (s *RateService) Delete(ctx context.Context, id string) error {
	if _, err := s.rateRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.rateRepo.Delete(ctx, id)
}
