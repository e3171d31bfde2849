package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/abushana-oss/mithran/internal/nomination/service"
	"github.com/abushana-oss/mithran/internal/shared/web"
	"github.com/gin-gonic/gin"
)

// ScoringHandler 评分与排名处理器
type ScoringHandler struct {
	svc *service.ScoringService
}

func NewScoringHandler(svc *service.ScoringService) *ScoringHandler {
	return &ScoringHandler{svc: svc}
}

// GetFactorWeights 查询因子权重
func (h *ScoringHandler) GetFactorWeights(c *gin.Context) {
	weights, err := h.svc.GetFactorWeights(c.Request.Context(), c.Param("id"), web.GetUserID(c))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, weights)
}

// SetFactorWeights 设置因子权重
func (h *ScoringHandler) SetFactorWeights(c *gin.Context) {
	var req service.FactorWeights
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	err := h.svc.SetFactorWeights(c.Request.Context(), c.Param("id"), web.GetUserID(c), &req)
	if err != nil {
		var sumErr *service.ErrWeightSum
		if errors.As(err, &sumErr) {
			web.BadRequest(c, sumErr.Error())
			return
		}
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, req)
}

// CalculateRankings 计算供应商排名（不落库）
func (h *ScoringHandler) CalculateRankings(c *gin.Context) {
	rankings, err := h.svc.CalculateRankings(c.Request.Context(), c.Param("id"), web.GetUserID(c))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, rankings)
}

// StoreRankings 计算并保存排名快照
func (h *ScoringHandler) StoreRankings(c *gin.Context) {
	rankings, err := h.svc.StoreRankings(c.Request.Context(), c.Param("id"), web.GetUserID(c))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, rankings)
}

// GetStoredRankings 查询已保存的排名
func (h *ScoringHandler) GetStoredRankings(c *gin.Context) {
	rankings, err := h.svc.GetStoredRankings(c.Request.Context(), c.Param("id"), web.GetUserID(c))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, rankings)
}

// ExportRankings 导出排名xlsx
func (h *ScoringHandler) ExportRankings(c *gin.Context) {
	f, err := h.svc.ExportRankings(c.Request.Context(), c.Param("id"), web.GetUserID(c))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}

	filename := fmt.Sprintf("supplier_rankings_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+url.QueryEscape(filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
