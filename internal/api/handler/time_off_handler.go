package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/service"
	"github.com/Aggron2k/nexus-hub-sub001/pkg/response"
)

// TimeOffHandler 休假模块 HTTP 处理器
type TimeOffHandler struct {
	timeOffSvc service.TimeOffService
}

// NewTimeOffHandler 创建 TimeOffHandler
func NewTimeOffHandler(timeOffSvc service.TimeOffService) *TimeOffHandler {
	return &TimeOffHandler{timeOffSvc: timeOffSvc}
}

// GetMyBalance 查询本人休假余额
// GET /api/v1/time-off/balance
func (h *TimeOffHandler) GetMyBalance(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	balance, err := h.timeOffSvc.Balance(c.Request.Context(), callerID)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.OK(c, balance)
}

// GetTeamBalances 查询全体在职用户休假余额
// GET /api/v1/time-off/team
func (h *TimeOffHandler) GetTeamBalances(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	balances, err := h.timeOffSvc.TeamBalances(c.Request.Context(), callerID)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.OK(c, gin.H{"list": balances})
}

// CreateTimeOffRequest 提交休假申请
// POST /api/v1/time-off/requests
func (h *TimeOffHandler) CreateTimeOffRequest(c *gin.Context) {
	var req dto.CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	request, err := h.timeOffSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.Created(c, request)
}

// ListTimeOffRequests 查询休假申请列表
// GET /api/v1/time-off/requests
func (h *TimeOffHandler) ListTimeOffRequests(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	status := c.Query("status")

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	requests, total, err := h.timeOffSvc.List(c.Request.Context(), status, &page, callerID)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.OKPage(c, requests, total, page.GetPage(), page.GetPageSize())
}

// ReviewTimeOffRequest 审批休假申请
// PUT /api/v1/time-off/requests/:id/review
func (h *TimeOffHandler) ReviewTimeOffRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.ReviewTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	request, err := h.timeOffSvc.Review(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.OK(c, request)
}

// handleTimeOffError 统一处理休假模块业务错误
func (h *TimeOffHandler) handleTimeOffError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimeOffNotFound):
		response.NotFound(c, 15001, "休假申请不存在")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 15002, "开始日期不能晚于结束日期")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 15003, "日期格式无效")
	case errors.Is(err, service.ErrInvalidRequestState):
		response.Conflict(c, 15004, "申请当前状态不允许此操作")
	case errors.Is(err, service.ErrRejectionReasonRequired):
		response.BadRequest(c, 15005, "驳回必须填写原因")
	case errors.Is(err, service.ErrEmployeeNotEligible):
		response.Forbidden(c, 15006, "仅在职员工可提交休假申请")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11001, "用户不存在")
	case errors.Is(err, service.ErrReviewerForbidden):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/time_off_handler.go
