package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/service"
	"github.com/Aggron2k/nexus-hub-sub001/pkg/response"
)

// ShiftRequestHandler 班次申请模块 HTTP 处理器
type ShiftRequestHandler struct {
	requestSvc service.ShiftRequestService
}

// NewShiftRequestHandler 创建 ShiftRequestHandler
func NewShiftRequestHandler(requestSvc service.ShiftRequestService) *ShiftRequestHandler {
	return &ShiftRequestHandler{requestSvc: requestSvc}
}

// SubmitShiftRequest 员工提交班次申请
// POST /api/v1/shift-requests
func (h *ShiftRequestHandler) SubmitShiftRequest(c *gin.Context) {
	var req dto.SubmitShiftRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	request, err := h.requestSvc.Submit(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.Created(c, request)
}

// ListShiftRequests 查询班次申请列表
// GET /api/v1/shift-requests
func (h *ShiftRequestHandler) ListShiftRequests(c *gin.Context) {
	var req dto.ShiftRequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	requests, total, err := h.requestSvc.List(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OKPage(c, requests, total, req.GetPage(), req.GetPageSize())
}

// ReviewShiftRequest 审批班次申请
// PATCH /api/v1/shift-requests/:id/review
func (h *ShiftRequestHandler) ReviewShiftRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.ReviewShiftRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	request, err := h.requestSvc.Review(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OK(c, request)
}

// ConvertShiftRequest 将申请转换为班次
// POST /api/v1/shift-requests/:id/convert
func (h *ShiftRequestHandler) ConvertShiftRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.ConvertShiftRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	shift, err := h.requestSvc.Convert(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.Created(c, shift)
}

// DeleteShiftRequest 删除班次申请
// DELETE /api/v1/shift-requests/:id
func (h *ShiftRequestHandler) DeleteShiftRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.requestSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleShiftRequestError 统一处理班次申请模块业务错误
func (h *ShiftRequestHandler) handleShiftRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 13001, "班次申请不存在")
	case errors.Is(err, service.ErrEmployeeNotEligible):
		response.Forbidden(c, 13002, "仅在职且已分配岗位的员工可提交申请")
	case errors.Is(err, service.ErrDeadlinePassed):
		response.BadRequest(c, 13003, "该排班周的申请截止时间已过")
	case errors.Is(err, service.ErrDateOutOfSchedule):
		response.BadRequest(c, 13004, "申请日期不在排班周范围内")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 13005, "时间段无效")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13006, "日期格式无效")
	case errors.Is(err, service.ErrRequestConflict):
		response.Conflict(c, 13007, "当日已存在活动申请")
	case errors.Is(err, service.ErrTimeOffConflict):
		response.Conflict(c, 13008, "休假申请与当日其他申请互斥")
	case errors.Is(err, service.ErrInvalidRequestState):
		response.Conflict(c, 13009, "申请当前状态不允许此操作")
	case errors.Is(err, service.ErrRejectionReasonRequired):
		response.BadRequest(c, 13010, "驳回必须填写原因")
	case errors.Is(err, service.ErrTimeOffNotConvertible):
		response.BadRequest(c, 13011, "休假申请不可转换为班次")
	case errors.Is(err, service.ErrPositionNotAssigned):
		response.BadRequest(c, 13012, "该岗位未分配给申请员工")
	case errors.Is(err, service.ErrShiftOverlap):
		response.ErrorWithDetails(c, http.StatusConflict, 13013, "与已有班次时间重叠", err.Error())
	case errors.Is(err, service.ErrNotRequestOwner):
		response.Forbidden(c, 13014, "仅可删除本人的待审批申请")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 12001, "排班周不存在")
	case errors.Is(err, service.ErrPositionNotFound):
		response.NotFound(c, 11005, "岗位不存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11001, "用户不存在")
	case errors.Is(err, service.ErrReviewerForbidden):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/shift_request_handler.go
