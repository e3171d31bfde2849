package handler

import (
	"errors"

	"github.com/abushana-oss/mithran/internal/routing/service"
	"github.com/abushana-oss/mithran/internal/shared/web"
	"github.com/gin-gonic/gin"
)

// RouteHandler 工艺路线处理器
type RouteHandler struct {
	svc *service.RouteService
}

func NewRouteHandler(svc *service.RouteService) *RouteHandler {
	return &RouteHandler{svc: svc}
}

func respondError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, service.ErrNotFound) {
		web.NotFound(c, notFoundMsg)
		return
	}
	var transErr *service.ErrInvalidTransition
	if errors.As(err, &transErr) {
		web.Conflict(c, transErr.Error())
		return
	}
	web.BadRequest(c, err.Error())
}

// ListRoutes 工艺路线列表
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	page, pageSize := web.GetPagination(c)
	filters := map[string]string{
		"bom_item_id":    c.Query("bom_item_id"),
		"workflow_state": c.Query("workflow_state"),
		"assigned_to":    c.Query("assigned_to"),
		"keyword":        c.Query("keyword"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		web.InternalError(c, "获取工艺路线列表失败: "+err.Error())
		return
	}
	web.Success(c, web.NewListResponse(items, page, pageSize, total))
}

// GetRoute 工艺路线详情
func (h *RouteHandler) GetRoute(c *gin.Context) {
	route, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "工艺路线不存在")
		return
	}
	web.Success(c, route)
}

// CreateRoute 创建工艺路线
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req service.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	route, err := h.svc.Create(c.Request.Context(), web.GetUserID(c), &req)
	if err != nil {
		web.BadRequest(c, "创建工艺路线失败: "+err.Error())
		return
	}
	web.Created(c, route)
}

// UpdateRoute 更新工艺路线
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	var req service.UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	route, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "工艺路线不存在")
		return
	}
	web.Success(c, route)
}

// DeleteRoute 删除工艺路线
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "工艺路线不存在")
		return
	}
	web.Success(c, nil)
}

type transitionRequest struct {
	State string `json:"state" binding:"required,oneof=draft in_review approved active archived"`
}

// TransitionRoute 路线状态流转
func (h *RouteHandler) TransitionRoute(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	route, err := h.svc.Transition(c.Request.Context(), c.Param("id"), req.State)
	if err != nil {
		respondError(c, err, "工艺路线不存在")
		return
	}
	web.Success(c, route)
}

// CalculateCost 按费率全量重算路线成本
func (h *RouteHandler) CalculateCost(c *gin.Context) {
	route, err := h.svc.Recalculate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "工艺路线不存在")
		return
	}
	web.Success(c, route)
}

// AddStep 添加步骤
func (h *RouteHandler) AddStep(c *gin.Context) {
	var req service.StepInput
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	route, err := h.svc.AddStep(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "工艺路线不存在")
		return
	}
	web.Created(c, route)
}

// UpdateStep 更新步骤
func (h *RouteHandler) UpdateStep(c *gin.Context) {
	var req service.StepInput
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	route, err := h.svc.UpdateStep(c.Request.Context(), c.Param("id"), c.Param("stepId"), &req)
	if err != nil {
		respondError(c, err, "步骤不存在")
		return
	}
	web.Success(c, route)
}

// DeleteStep 删除步骤
func (h *RouteHandler) DeleteStep(c *gin.Context) {
	route, err := h.svc.DeleteStep(c.Request.Context(), c.Param("id"), c.Param("stepId"))
	if err != nil {
		respondError(c, err, "步骤不存在")
		return
	}
	web.Success(c, route)
}

type reorderRequest struct {
	StepIDs []string `json:"step_ids" binding:"required,min=1"`
}

// ReorderSteps 步骤重排
func (h *RouteHandler) ReorderSteps(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	route, err := h.svc.ReorderSteps(c.Request.Context(), c.Param("id"), req.StepIDs)
	if err != nil {
		respondError(c, err, "工艺路线不存在")
		return
	}
	web.Success(c, route)
}
