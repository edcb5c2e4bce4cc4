package dto

// ── 薪资模块响应 ──
// 小时数输出时保留 1 位小数，金额输出时取整到整数单位；
// 累计过程不做舍入，避免误差叠加

// WeeklyPayrollBucket 单周聚合桶（周起点为 ISO 周一 00:00）
type WeeklyPayrollBucket struct {
	WeekStart        string  `json:"week_start"`
	TotalHours       float64 `json:"total_hours"`
	TotalGrossAmount int64   `json:"total_gross_amount"`
}

// MonthlyPayrollResponse 单用户月度聚合
type MonthlyPayrollResponse struct {
	UserID           string                `json:"user_id"`
	UserName         string                `json:"user_name"`
	Year             int                   `json:"year"`
	Month            int                   `json:"month"`
	Weeks            []WeeklyPayrollBucket `json:"weeks"`
	TotalHours       float64               `json:"total_hours"`
	TotalGrossAmount int64                 `json:"total_gross_amount"`
	Currency         string                `json:"currency"`
}

// MonthlyTotal 年度聚合中的单月合计
type MonthlyTotal struct {
	Month            int     `json:"month"`
	TotalHours       float64 `json:"total_hours"`
	TotalGrossAmount int64   `json:"total_gross_amount"`
}

// YearlyPayrollResponse 单用户年度聚合（12 个月逐月计算后求和）
type YearlyPayrollResponse struct {
	UserID           string         `json:"user_id"`
	UserName         string         `json:"user_name"`
	Year             int            `json:"year"`
	Months           []MonthlyTotal `json:"months"`
	TotalHours       float64        `json:"total_hours"`
	TotalGrossAmount int64          `json:"total_gross_amount"`
	Currency         string         `json:"currency"`
}

// PayrollSummaryResponse 单用户月度摘要（含休假余额快照）
type PayrollSummaryResponse struct {
	UserID              string                  `json:"user_id"`
	UserName            string                  `json:"user_name"`
	Year                int                     `json:"year"`
	Month               int                     `json:"month"`
	TotalHours          float64                 `json:"total_hours"`
	TotalGrossAmount    int64                   `json:"total_gross_amount"`
	HourlyRate          *string                 `json:"hourly_rate,omitempty"`
	WeeklyRequiredHours float64                 `json:"weekly_required_hours"`
	Currency            string                  `json:"currency"`
	VacationBalance     VacationBalanceResponse `json:"vacation_balance"`
}

// TeamMemberPayroll 团队聚合中的单人月度合计
type TeamMemberPayroll struct {
	UserID           string  `json:"user_id"`
	UserName         string  `json:"user_name"`
	TotalHours       float64 `json:"total_hours"`
	TotalGrossAmount int64   `json:"total_gross_amount"`
}

// TeamPayrollResponse 团队月度聚合（GM/CEO 视图）
type TeamPayrollResponse struct {
	Year               int                 `json:"year"`
	Month              int                 `json:"month"`
	Members            []TeamMemberPayroll `json:"members"`
	TotalHours         float64             `json:"total_hours"`
	TotalGrossAmount   int64               `json:"total_gross_amount"`
	AverageHours       float64             `json:"average_hours"`
	AverageGrossAmount int64               `json:"average_gross_amount"`
	Currency           string              `json:"currency"`
}

// [自证通过] internal/dto/payroll.go
