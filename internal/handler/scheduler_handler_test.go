package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"github.com/igor325/AGROTASKv2/internal/domain"
	"github.com/igor325/AGROTASKv2/internal/service/dispatch"
	"github.com/igor325/AGROTASKv2/internal/service/engine"
	"github.com/igor325/AGROTASKv2/internal/service/ledger"
	"github.com/igor325/AGROTASKv2/internal/service/recurrence"
	"github.com/igor325/AGROTASKv2/internal/service/timewindow"
)

type stubGateway struct{}

func (stubGateway) Send(_ context.Context, _, _ string) (string, error) {
	return "msg-1", nil
}

func newTestRouter(store domain.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)

	eng := engine.New(
		store,
		ledger.New(store, nil),
		recurrence.NewEvaluator(store),
		dispatch.NewDispatcher(stubGateway{}),
		nil,
		timewindow.NewClock(-180),
		nil,
	)
	h := NewSchedulerHandler(eng)

	r := gin.New()
	r.POST("/api/v1/scheduler/run", h.HandleActivityRun)
	r.POST("/api/v1/scheduler/reminders/run", h.HandleReminderRun)
	return r
}

func TestHandleActivityRunEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	store.EXPECT().ListShiftDefinitions(gomock.Any()).Return(nil, nil)
	store.EXPECT().ListPendingActivities(gomock.Any()).Return(nil, nil)

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/run?at=2026-03-02T09:30:00Z", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body = %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Success   bool   `json:"success"`
		Timestamp string `json:"timestamp"`
		Results   struct {
			Shifts           map[string]json.RawMessage `json:"shifts"`
			IndividualAlerts json.RawMessage            `json:"individualAlerts"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Timestamp == "" {
		t.Error("expected timestamp to be set")
	}
}

func TestHandleActivityRunStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	store.EXPECT().ListShiftDefinitions(gomock.Any()).Return(nil, errors.New("database unavailable"))

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/run", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var resp struct {
		Success   bool   `json:"success"`
		Error     string `json:"error"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Success {
		t.Error("success = true, want false")
	}
	if resp.Error == "" {
		t.Error("expected error message")
	}
	if resp.Timestamp == "" {
		t.Error("expected timestamp")
	}
}

func TestHandleActivityRunInvalidVirtualTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/run?at=yesterday", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleReminderRunEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	store.EXPECT().ListPendingReminders(gomock.Any()).Return(nil, nil)

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/reminders/run?at=2026-03-02T09:30:00Z", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body = %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Results struct {
			RemindersProcessed int      `json:"remindersProcessed"`
			AdminsNotified     int      `json:"adminsNotified"`
			Errors             []string `json:"errors"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Results.RemindersProcessed != 0 {
		t.Errorf("remindersProcessed = %d, want 0", resp.Results.RemindersProcessed)
	}
}

func TestHandleReminderRunStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	store.EXPECT().ListPendingReminders(gomock.Any()).Return(nil, errors.New("database unavailable"))

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/reminders/run", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
