package handler

import (
	"errors"

	"github.com/abushana-oss/mithran/internal/shared/web"
	"github.com/abushana-oss/mithran/internal/supplier/repository"
	"github.com/abushana-oss/mithran/internal/supplier/service"
	"github.com/gin-gonic/gin"
)

// SupplierHandler 供应商处理器
type SupplierHandler struct {
	svc *service.SupplierService
}

func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// ListSuppliers 供应商列表
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	filters := map[string]string{
		"type":    c.Query("type"),
		"status":  c.Query("status"),
		"keyword": c.Query("keyword"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		web.InternalError(c, "获取供应商列表失败: "+err.Error())
		return
	}

	web.Success(c, web.NewListResponse(items, page, pageSize, total))
}

// GetSupplier 供应商详情
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	id := c.Param("id")
	supplier, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		web.NotFound(c, "供应商不存在")
		return
	}
	web.Success(c, supplier)
}

// CreateSupplier 创建供应商
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID := web.GetUserID(c)
	supplier, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrCodeExists) {
			web.Conflict(c, "供应商编码已存在: "+req.Code)
			return
		}
		web.InternalError(c, "创建供应商失败: "+err.Error())
		return
	}

	web.Created(c, supplier)
}

// UpdateSupplier 更新供应商
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	supplier, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			web.NotFound(c, "供应商不存在")
			return
		}
		web.InternalError(c, "更新供应商失败: "+err.Error())
		return
	}

	web.Success(c, supplier)
}

// DeleteSupplier 删除供应商
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			web.NotFound(c, "供应商不存在")
			return
		}
		web.InternalError(c, "删除供应商失败: "+err.Error())
		return
	}
	web.Success(c, gin.H{"deleted": true})
}
