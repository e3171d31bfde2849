package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/abushana-oss/mithran/internal/production/service"
	"github.com/abushana-oss/mithran/internal/shared/web"
	"github.com/gin-gonic/gin"
)

// ProductionHandler 生产跟踪处理器
type ProductionHandler struct {
	svc *service.ProductionService
}

func NewProductionHandler(svc *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

func respondError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		web.NotFound(c, notFoundMsg)
	case errors.Is(err, service.ErrEntryConflict), errors.Is(err, service.ErrLotNumberExists):
		web.Conflict(c, err.Error())
	default:
		web.BadRequest(c, err.Error())
	}
}

// ListLots 批次列表
func (h *ProductionHandler) ListLots(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	filters := map[string]string{
		"status":      c.Query("status"),
		"part_number": c.Query("part_number"),
		"keyword":     c.Query("keyword"),
	}

	items, total, err := h.svc.ListLots(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		web.InternalError(c, "获取生产批次列表失败: "+err.Error())
		return
	}
	web.Success(c, web.NewListResponse(items, page, pageSize, total))
}

// GetLot 批次详情
func (h *ProductionHandler) GetLot(c *gin.Context) {
	lot, err := h.svc.GetLot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "生产批次不存在")
		return
	}
	web.Success(c, lot)
}

// CreateLot 创建批次
func (h *ProductionHandler) CreateLot(c *gin.Context) {
	var req service.CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	lot, err := h.svc.CreateLot(c.Request.Context(), web.GetUserID(c), &req)
	if err != nil {
		respondError(c, err, "生产批次不存在")
		return
	}
	web.Created(c, lot)
}

// UpdateLot 更新批次
func (h *ProductionHandler) UpdateLot(c *gin.Context) {
	var req service.UpdateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	lot, err := h.svc.UpdateLot(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "生产批次不存在")
		return
	}
	web.Success(c, lot)
}

// DeleteLot 删除批次
func (h *ProductionHandler) DeleteLot(c *gin.Context) {
	if err := h.svc.DeleteLot(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "生产批次不存在")
		return
	}
	web.Success(c, nil)
}

// CreateEntry 创建生产记录
func (h *ProductionHandler) CreateEntry(c *gin.Context) {
	var req service.EntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	entry, err := h.svc.CreateEntry(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "生产批次不存在")
		return
	}
	web.Created(c, entry)
}

// UpdateEntry 更新生产记录
func (h *ProductionHandler) UpdateEntry(c *gin.Context) {
	var req service.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	entry, err := h.svc.UpdateEntry(c.Request.Context(), c.Param("id"), c.Param("entryId"), &req)
	if err != nil {
		respondError(c, err, "生产记录不存在")
		return
	}
	web.Success(c, entry)
}

// DeleteEntry 删除生产记录
func (h *ProductionHandler) DeleteEntry(c *gin.Context) {
	if err := h.svc.DeleteEntry(c.Request.Context(), c.Param("id"), c.Param("entryId")); err != nil {
		respondError(c, err, "生产记录不存在")
		return
	}
	web.Success(c, nil)
}

// GetWeeklySummary 周汇总
func (h *ProductionHandler) GetWeeklySummary(c *gin.Context) {
	buckets, err := h.svc.GetWeeklySummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "生产批次不存在")
		return
	}
	web.Success(c, buckets)
}

// ExportWeeklyReport 导出周报xlsx
func (h *ProductionHandler) ExportWeeklyReport(c *gin.Context) {
	f, err := h.svc.ExportWeeklyReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "生产批次不存在")
		return
	}

	filename := fmt.Sprintf("weekly_report_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+url.QueryEscape(filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
