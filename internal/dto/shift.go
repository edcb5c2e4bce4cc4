package dto

// ── 班次模块请求 ──

// CreateShiftRequest 管理员直接创建班次
type CreateShiftRequest struct {
	WeekScheduleID string  `json:"week_schedule_id" binding:"required,uuid"`
	UserID         string  `json:"user_id"          binding:"required,uuid"`
	PositionID     string  `json:"position_id"      binding:"required,uuid"`
	Date           string  `json:"date"             binding:"required"` // YYYY-MM-DD
	StartTime      *string `json:"start_time"`                          // RFC3339，可先创建未填充班次
	EndTime        *string `json:"end_time"`
	Notes          string  `json:"notes"            binding:"omitempty,max=500"`
}

// UpdateShiftRequest 更新班次
type UpdateShiftRequest struct {
	PositionID *string `json:"position_id" binding:"omitempty,uuid"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	Notes      *string `json:"notes"       binding:"omitempty,max=500"`
}

// RecordActualWorkHoursRequest 登记实际出勤
type RecordActualWorkHoursRequest struct {
	Status          string  `json:"status"            binding:"required,oneof=present sick absent late left_early"`
	ActualStartTime *string `json:"actual_start_time"` // RFC3339
	ActualEndTime   *string `json:"actual_end_time"`
	Notes           string  `json:"notes"             binding:"omitempty,max=500"`
}

// ── 班次模块响应 ──

// ShiftResponse 班次响应
type ShiftResponse struct {
	ID             string   `json:"id"`
	WeekScheduleID string   `json:"week_schedule_id"`
	UserID         string   `json:"user_id"`
	UserName       string   `json:"user_name,omitempty"`
	PositionID     string   `json:"position_id"`
	PositionName   string   `json:"position_name,omitempty"`
	ShiftRequestID *string  `json:"shift_request_id,omitempty"`
	Date           string   `json:"date"`
	StartTime      *string  `json:"start_time,omitempty"`
	EndTime        *string  `json:"end_time,omitempty"`
	HoursWorked    *float64 `json:"hours_worked,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// ActualWorkHoursResponse 实际工时响应
type ActualWorkHoursResponse struct {
	ID                string   `json:"id"`
	ShiftID           string   `json:"shift_id"`
	UserID            string   `json:"user_id"`
	Status            string   `json:"status"`
	ActualStartTime   *string  `json:"actual_start_time,omitempty"`
	ActualEndTime     *string  `json:"actual_end_time,omitempty"`
	ActualHoursWorked *float64 `json:"actual_hours_worked,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// [自证通过] internal/dto/shift.go
