package handler

import (
	"github.com/abushana-oss/mithran/internal/nomination/service"
	"github.com/abushana-oss/mithran/internal/shared/web"
	"github.com/gin-gonic/gin"
)

// MatrixHandler 能力评分与矩阵处理器
type MatrixHandler struct {
	svc *service.MatrixService
}

func NewMatrixHandler(svc *service.MatrixService) *MatrixHandler {
	return &MatrixHandler{svc: svc}
}

// === 能力评分 ===

// GetCapabilityScores 查询能力评分
func (h *MatrixHandler) GetCapabilityScores(c *gin.Context) {
	items, err := h.svc.GetCapabilityScores(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, items)
}

// InitializeCapabilityScores 初始化能力评分
func (h *MatrixHandler) InitializeCapabilityScores(c *gin.Context) {
	if err := h.svc.InitializeCapabilityScores(c.Request.Context(), c.Param("id"), web.GetUserID(c)); err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, nil)
}

// UpdateCapabilityScore 更新单条能力评分
func (h *MatrixHandler) UpdateCapabilityScore(c *gin.Context) {
	var req service.CapabilityScorePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	req.ID = c.Param("itemId")

	err := h.svc.UpdateCapabilityScore(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"), &req)
	if err != nil {
		respondError(c, err, "能力评分不存在")
		return
	}
	web.Success(c, nil)
}

type batchCapabilityRequest struct {
	Items []service.CapabilityScorePatch `json:"items" binding:"required,min=1,dive"`
}

// BatchUpdateCapabilityScores 批量更新能力评分，逐项返回结果
func (h *MatrixHandler) BatchUpdateCapabilityScores(c *gin.Context) {
	var req batchCapabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	outcomes, err := h.svc.BatchUpdateCapabilityScores(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"), req.Items)
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, outcomes)
}

// GetCapabilityMetrics 能力评分汇总指标
func (h *MatrixHandler) GetCapabilityMetrics(c *gin.Context) {
	metrics, err := h.svc.GetCapabilityMetrics(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, metrics)
}

// === 考核矩阵 ===

// GetAssessmentMatrix 查询考核矩阵
func (h *MatrixHandler) GetAssessmentMatrix(c *gin.Context) {
	items, err := h.svc.GetAssessmentMatrix(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, items)
}

// InitializeAssessmentMatrix 初始化考核矩阵
func (h *MatrixHandler) InitializeAssessmentMatrix(c *gin.Context) {
	if err := h.svc.InitializeAssessmentMatrix(c.Request.Context(), c.Param("id"), web.GetUserID(c)); err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, nil)
}

// UpdateAssessmentCriterion 更新单条考核矩阵行
func (h *MatrixHandler) UpdateAssessmentCriterion(c *gin.Context) {
	var req service.AssessmentPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	req.ID = c.Param("itemId")

	err := h.svc.UpdateAssessmentCriterion(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"), &req)
	if err != nil {
		respondError(c, err, "考核矩阵行不存在")
		return
	}
	web.Success(c, nil)
}

type batchAssessmentRequest struct {
	Items []service.AssessmentPatch `json:"items" binding:"required,min=1,dive"`
}

// BatchUpdateAssessmentMatrix 批量更新考核矩阵，逐项返回结果
func (h *MatrixHandler) BatchUpdateAssessmentMatrix(c *gin.Context) {
	var req batchAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	outcomes, err := h.svc.BatchUpdateAssessmentMatrix(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"), req.Items)
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, outcomes)
}

// GetAssessmentMetrics 考核矩阵汇总指标
func (h *MatrixHandler) GetAssessmentMetrics(c *gin.Context) {
	metrics, err := h.svc.GetAssessmentMetrics(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, metrics)
}

// === 评级矩阵 ===

// GetRatingMatrix 查询评级矩阵
func (h *MatrixHandler) GetRatingMatrix(c *gin.Context) {
	items, err := h.svc.GetRatingMatrix(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, items)
}

// InitializeRatingMatrix 初始化评级矩阵
func (h *MatrixHandler) InitializeRatingMatrix(c *gin.Context) {
	if err := h.svc.InitializeRatingMatrix(c.Request.Context(), c.Param("id"), web.GetUserID(c)); err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, nil)
}

// UpdateRatingItem 更新单条评级矩阵行
func (h *MatrixHandler) UpdateRatingItem(c *gin.Context) {
	var req service.RatingPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	req.ID = c.Param("itemId")

	err := h.svc.UpdateRatingItem(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"), &req)
	if err != nil {
		respondError(c, err, "评级矩阵行不存在")
		return
	}
	web.Success(c, nil)
}

type batchRatingRequest struct {
	Items []service.RatingPatch `json:"items" binding:"required,min=1,dive"`
}

// BatchUpdateRatingMatrix 批量更新评级矩阵，逐项返回结果
func (h *MatrixHandler) BatchUpdateRatingMatrix(c *gin.Context) {
	var req batchRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	outcomes, err := h.svc.BatchUpdateRatingMatrix(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"), req.Items)
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, outcomes)
}

// GetRatingMetrics 评级矩阵汇总指标
func (h *MatrixHandler) GetRatingMetrics(c *gin.Context) {
	metrics, err := h.svc.GetRatingMetrics(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("supplierId"))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, metrics)
}
