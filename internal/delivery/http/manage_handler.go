package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/analoghub/backend/internal/domain"
)

// Status payloads of the tool endpoints
var (
	statusCreated = gin.H{"status": "created"}
	statusUpdated = gin.H{"status": "updated"}
	statusDeleted = gin.H{"status": "deleted"}
)

type listParams struct {
	PageNum  int `form:"page_num,default=0" binding:"gte=0"`
	PageSize int `form:"page_size,default=10" binding:"gte=1"`
}

type toolParams struct {
	Title string `form:"title" binding:"required"`
	Maker string `form:"maker" binding:"required"`
}

type deleteParams struct {
	UUID string `form:"uuid" binding:"required,uuid"`
}

// ListTools handles GET /api/v1/manage/tools
func (h *Handler) ListTools(c *gin.Context) {
	var p listParams
	if err := c.ShouldBindQuery(&p); err != nil {
		writeError(c, bindError(err))
		return
	}

	tools, err := h.tools.List(c.Request.Context(), p.PageNum, p.PageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tools)
}

// GetTool handles GET /api/v1/manage/tool
func (h *Handler) GetTool(c *gin.Context) {
	var p toolParams
	if err := c.ShouldBindQuery(&p); err != nil {
		writeError(c, bindError(err))
		return
	}

	tool, err := h.tools.Get(c.Request.Context(), p.Title, p.Maker)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool)
}

// CreateTool handles POST /api/v1/manage/tool
func (h *Handler) CreateTool(c *gin.Context) {
	var in domain.ToolInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, bindError(err))
		return
	}
	h.respond(c, h.tools.Create(c.Request.Context(), []domain.ToolInput{in}), statusCreated)
}

// UpdateTool handles PUT /api/v1/manage/tool
func (h *Handler) UpdateTool(c *gin.Context) {
	var in domain.ToolInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, bindError(err))
		return
	}
	h.respond(c, h.tools.Update(c.Request.Context(), []domain.ToolInput{in}), statusUpdated)
}

// DeleteTool handles DELETE /api/v1/manage/tool
func (h *Handler) DeleteTool(c *gin.Context) {
	var p deleteParams
	if err := c.ShouldBindQuery(&p); err != nil {
		writeError(c, bindError(err))
		return
	}
	h.respond(c, h.tools.Delete(c.Request.Context(), []string{p.UUID}), statusDeleted)
}

// CreateToolBulk handles POST /api/v1/manage/tool_bulk
func (h *Handler) CreateToolBulk(c *gin.Context) {
	var batch domain.ToolBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		writeError(c, bindError(err))
		return
	}
	h.respond(c, h.tools.Create(c.Request.Context(), batch.Tools), statusCreated)
}

// UpdateToolBulk handles PUT /api/v1/manage/tool_bulk
func (h *Handler) UpdateToolBulk(c *gin.Context) {
	var batch domain.ToolBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		writeError(c, bindError(err))
		return
	}
	h.respond(c, h.tools.Update(c.Request.Context(), batch.Tools), statusUpdated)
}

// DeleteToolBulk handles DELETE /api/v1/manage/tool_bulk
func (h *Handler) DeleteToolBulk(c *gin.Context) {
	var batch domain.ToolIDBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		writeError(c, bindError(err))
		return
	}
	h.respond(c, h.tools.Delete(c.Request.Context(), batch.IDs), statusDeleted)
}

func (h *Handler) respond(c *gin.Context, err error, status gin.H) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
