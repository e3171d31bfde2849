package handler

import (
	"errors"

	"github.com/abushana-oss/mithran/internal/drawing/service"
	"github.com/abushana-oss/mithran/internal/shared/web"
	"github.com/gin-gonic/gin"
)

// DrawingHandler 图纸处理器
type DrawingHandler struct {
	svc *service.DrawingService
}

func NewDrawingHandler(svc *service.DrawingService) *DrawingHandler {
	return &DrawingHandler{svc: svc}
}

func respondError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, service.ErrNotFound) {
		web.NotFound(c, notFoundMsg)
		return
	}
	web.BadRequest(c, err.Error())
}

// UploadDrawing 上传图纸
func (h *DrawingHandler) UploadDrawing(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		web.BadRequest(c, "缺少上传文件")
		return
	}
	defer file.Close()

	drawing, err := h.svc.Upload(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("partId"),
		file, header.Filename, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err, "提名或物料不存在")
		return
	}
	web.Created(c, drawing)
}

// ListDrawings 图纸列表
func (h *DrawingHandler) ListDrawings(c *gin.Context) {
	drawings, err := h.svc.List(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("partId"))
	if err != nil {
		respondError(c, err, "提名或物料不存在")
		return
	}
	web.Success(c, drawings)
}

// GetDownloadURL 获取图纸下载地址，stl=true时返回STL文件地址
func (h *DrawingHandler) GetDownloadURL(c *gin.Context) {
	stl := c.Query("stl") == "true"
	url, err := h.svc.DownloadURL(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("partId"), c.Param("drawingId"), stl)
	if err != nil {
		respondError(c, err, "图纸不存在")
		return
	}
	web.Success(c, gin.H{"url": url})
}

// DeleteDrawing 删除图纸
func (h *DrawingHandler) DeleteDrawing(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(),
		c.Param("id"), web.GetUserID(c), c.Param("partId"), c.Param("drawingId"))
	if err != nil {
		respondError(c, err, "图纸不存在")
		return
	}
	web.Success(c, nil)
}
