package service

import (
	"context"
	"errors"

	"github.com/abushana-oss/mithran/internal/supplier/entity"
	"github.com/abushana-oss/mithran/internal/supplier/repository"
	"github.com/google/uuid"
)

var (
	ErrCodeExists = errors.New("supplier code already exists")
)

// SupplierService 供应商服务
type SupplierService struct {
	repo *repository.SupplierRepository
}

func NewSupplierService(repo *repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

// CreateSupplierRequest 创建供应商请求
type CreateSupplierRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	ShortName    string `json:"short_name"`
	Type         string `json:"type" binding:"omitempty,oneof=oem manufacturer hybrid"`
	Country      string `json:"country"`
	City         string `json:"city"`
	Address      string `json:"address"`
	Website      string `json:"website"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	PaymentTerms string `json:"payment_terms"`
	LeadTimeDays *int   `json:"lead_time_days"`
	Notes        string `json:"notes"`
}

// UpdateSupplierRequest 更新供应商请求
type UpdateSupplierRequest struct {
	Name         *string `json:"name"`
	ShortName    *string `json:"short_name"`
	Type         *string `json:"type" binding:"omitempty,oneof=oem manufacturer hybrid"`
	Status       *string `json:"status" binding:"omitempty,oneof=pending active disabled"`
	Country      *string `json:"country"`
	City         *string `json:"city"`
	Address      *string `json:"address"`
	Website      *string `json:"website"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	PaymentTerms *string `json:"payment_terms"`
	LeadTimeDays *int    `json:"lead_time_days"`
	Notes        *string `json:"notes"`
}

// List 获取供应商列表
func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取供应商详情
func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建供应商
func (s *SupplierService) Create(ctx context.Context, userID string, req *CreateSupplierRequest) (*entity.Supplier, error) {
	exists, err := s.repo.CodeExists(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCodeExists
	}

	supplier := &entity.Supplier{
		ID:           uuid.New().String()[:32],
		Code:         req.Code,
		Name:         req.Name,
		ShortName:    req.ShortName,
		Type:         entity.SupplierTypeManufacturer,
		Status:       entity.SupplierStatusPending,
		Country:      req.Country,
		City:         req.City,
		Address:      req.Address,
		Website:      req.Website,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		PaymentTerms: req.PaymentTerms,
		LeadTimeDays: req.LeadTimeDays,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}
	if req.Type != "" {
		supplier.Type = req.Type
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Update 更新供应商
func (s *SupplierService) Update(ctx context.Context, id string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ShortName != nil {
		supplier.ShortName = *req.ShortName
	}
	if req.Type != nil {
		supplier.Type = *req.Type
	}
	if req.Status != nil {
		supplier.Status = *req.Status
	}
	if req.Country != nil {
		supplier.Country = *req.Country
	}
	if req.City != nil {
		supplier.City = *req.City
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.Website != nil {
		supplier.Website = *req.Website
	}
	if req.ContactName != nil {
		supplier.ContactName = *req.ContactName
	}
	if req.ContactEmail != nil {
		supplier.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		supplier.ContactPhone = *req.ContactPhone
	}
	if req.PaymentTerms != nil {
		supplier.PaymentTerms = *req.PaymentTerms
	}
	if req.LeadTimeDays != nil {
		supplier.LeadTimeDays = req.LeadTimeDays
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Delete 删除供应商
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
