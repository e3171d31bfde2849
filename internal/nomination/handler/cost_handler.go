package handler

import (
	"github.com/abushana-oss/mithran/internal/nomination/service"
	"github.com/abushana-oss/mithran/internal/shared/web"
	"github.com/gin-gonic/gin"
)

// CostHandler 成本竞争力分析处理器
type CostHandler struct {
	svc *service.CostService
}

func NewCostHandler(svc *service.CostService) *CostHandler {
	return &CostHandler{svc: svc}
}

// GetCostAnalysis 查询成本分析
func (h *CostHandler) GetCostAnalysis(c *gin.Context) {
	components, err := h.svc.GetCostAnalysis(c.Request.Context(), c.Param("id"), web.GetUserID(c))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, components)
}

// InitializeCostAnalysis 初始化成本分析
func (h *CostHandler) InitializeCostAnalysis(c *gin.Context) {
	components, err := h.svc.InitializeCostAnalysis(c.Request.Context(), c.Param("id"), web.GetUserID(c))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, components)
}

// UpdateCostComponent 更新成本项
func (h *CostHandler) UpdateCostComponent(c *gin.Context) {
	var req service.UpdateCostComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	comp, err := h.svc.UpdateCostComponent(c.Request.Context(), c.Param("id"), web.GetUserID(c), c.Param("componentId"), &req)
	if err != nil {
		respondError(c, err, "成本项不存在")
		return
	}
	web.Success(c, comp)
}

// UpdateVendorCostValue 更新供应商报价值
func (h *CostHandler) UpdateVendorCostValue(c *gin.Context) {
	var req service.UpdateVendorValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	value, err := h.svc.UpdateVendorCostValue(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("componentId"), c.Param("supplierId"), &req)
	if err != nil {
		respondError(c, err, "供应商报价不存在")
		return
	}
	web.Success(c, value)
}
