package handler

import (
	"github.com/abushana-oss/mithran/internal/routing/service"
	"github.com/abushana-oss/mithran/internal/shared/web"
	"github.com/gin-gonic/gin"
)

// RateHandler 工时费率处理器
type RateHandler struct {
	svc *service.RateService
}

func NewRateHandler(svc *service.RateService) *RateHandler {
	return &RateHandler{svc: svc}
}

// ListRates 费率列表
func (h *RateHandler) ListRates(c *gin.Context) {
	filters := map[string]string{
		"type":   c.Query("type"),
		"active": c.Query("active"),
	}
	rates, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		web.InternalError(c, "获取工时费率失败: "+err.Error())
		return
	}
	web.Success(c, rates)
}

// GetRate 费率详情
func (h *RateHandler) GetRate(c *gin.Context) {
	rate, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "工时费率不存在")
		return
	}
	web.Success(c, rate)
}

// CreateRate 创建费率
func (h *RateHandler) CreateRate(c *gin.Context) {
	var req service.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	rate, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		web.BadRequest(c, "创建工时费率失败: "+err.Error())
		return
	}
	web.Created(c, rate)
}

// UpdateRate 更新费率
func (h *RateHandler) UpdateRate(c *gin.Context) {
	var req service.UpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	rate, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "工时费率不存在")
		return
	}
	web.Success(c, rate)
}

// DeleteRate 删除费率
func (h *RateHandler) DeleteRate(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "工时费率不存在")
		return
	}
	web.Success(c, nil)
}
