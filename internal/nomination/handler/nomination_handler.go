package handler

import (
	"errors"

	"github.com/abushana-oss/mithran/internal/nomination/service"
	"github.com/abushana-oss/mithran/internal/shared/web"
	"github.com/gin-gonic/gin"
)

// NominationHandler 供应商提名处理器
type NominationHandler struct {
	svc *service.NominationService
}

func NewNominationHandler(svc *service.NominationService) *NominationHandler {
	return &NominationHandler{svc: svc}
}

// 底层错误按约定映射：不存在（含归属校验失败）→ 40400，其余查询错误 → 40000
func respondError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, service.ErrNotFound) {
		web.NotFound(c, notFoundMsg)
		return
	}
	web.BadRequest(c, err.Error())
}

// createNominationResponse 创建结果：主体行 + 尽力而为子步骤的警告
type createNominationResponse struct {
	Nomination interface{} `json:"nomination"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// ListNominations 提名列表
func (h *NominationHandler) ListNominations(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	filters := map[string]string{
		"user_id":    c.Query("user_id"),
		"project_id": c.Query("project_id"),
		"status":     c.Query("status"),
		"type":       c.Query("type"),
	}

	items, total, err := h.svc.FindAll(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		web.InternalError(c, "获取提名列表失败: "+err.Error())
		return
	}
	web.Success(c, web.NewListResponse(items, page, pageSize, total))
}

// GetNomination 提名聚合详情
func (h *NominationHandler) GetNomination(c *gin.Context) {
	nom, err := h.svc.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, nom)
}

// CreateNomination 创建提名
func (h *NominationHandler) CreateNomination(c *gin.Context) {
	var req service.CreateNominationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	nom, warnings, err := h.svc.Create(c.Request.Context(), web.GetUserID(c), &req)
	if err != nil {
		web.BadRequest(c, "创建提名失败: "+err.Error())
		return
	}
	web.Created(c, createNominationResponse{Nomination: nom, Warnings: warnings})
}

// UpdateNomination 更新提名
func (h *NominationHandler) UpdateNomination(c *gin.Context) {
	var req service.UpdateNominationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	nom, err := h.svc.Update(c.Request.Context(), c.Param("id"), web.GetUserID(c), &req)
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, nom)
}

// DeleteNomination 删除提名及全部子资源
func (h *NominationHandler) DeleteNomination(c *gin.Context) {
	warnings, err := h.svc.Remove(c.Request.Context(), c.Param("id"), web.GetUserID(c))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, gin.H{"warnings": warnings})
}

type updateCriteriaRequest struct {
	Criteria []service.CriterionInput `json:"criteria"`
}

// UpdateCriteria 整体替换评审指标
func (h *NominationHandler) UpdateCriteria(c *gin.Context) {
	var req updateCriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	items, err := h.svc.UpdateCriteria(c.Request.Context(), c.Param("id"), web.GetUserID(c), req.Criteria)
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, items)
}

type addVendorsRequest struct {
	VendorIDs []string `json:"vendor_ids" binding:"required,min=1"`
}

// AddVendors 追加候选供应商
func (h *NominationHandler) AddVendors(c *gin.Context) {
	var req addVendorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := h.svc.AddVendors(c.Request.Context(), c.Param("id"), web.GetUserID(c), req.VendorIDs); err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, nil)
}

// UpdateEvaluation 更新供应商评估结论
func (h *NominationHandler) UpdateEvaluation(c *gin.Context) {
	var req service.UpdateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	eval, err := h.svc.UpdateVendorEvaluation(c.Request.Context(), c.Param("evaluationId"), web.GetUserID(c), &req)
	if err != nil {
		respondError(c, err, "供应商评估不存在")
		return
	}
	web.Success(c, eval)
}

type updateScoresRequest struct {
	Scores []service.ScoreInput `json:"scores"`
}

// UpdateEvaluationScores 整体替换评估得分
func (h *NominationHandler) UpdateEvaluationScores(c *gin.Context) {
	var req updateScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	scores, err := h.svc.UpdateEvaluationScores(c.Request.Context(), c.Param("evaluationId"), web.GetUserID(c), req.Scores)
	if err != nil {
		respondError(c, err, "供应商评估不存在")
		return
	}
	web.Success(c, scores)
}

// CompleteNomination 完成提名
func (h *NominationHandler) CompleteNomination(c *gin.Context) {
	nom, err := h.svc.Complete(c.Request.Context(), c.Param("id"), web.GetUserID(c))
	if err != nil {
		respondError(c, err, "提名不存在")
		return
	}
	web.Success(c, nom)
}
