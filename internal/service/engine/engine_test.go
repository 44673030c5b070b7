package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/igor325/AGROTASKv2/internal/domain"
	"github.com/igor325/AGROTASKv2/internal/service/ledger"
	"github.com/igor325/AGROTASKv2/internal/service/recurrence"
	"github.com/igor325/AGROTASKv2/internal/service/timewindow"
)

type sentMessage struct {
	phone string
	text  string
}

type fakeDispatcher struct {
	mu      sync.Mutex
	sent    []sentMessage
	failErr error
}

func (f *fakeDispatcher) Send(_ context.Context, phone, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return "", f.failErr
	}
	f.sent = append(f.sent, sentMessage{phone: phone, text: text})
	return "msg-1", nil
}

func (f *fakeDispatcher) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func newTestEngine(store domain.Store, dispatcher MessageDispatcher) *Engine {
	return New(
		store,
		ledger.New(store, nil),
		recurrence.NewEvaluator(store),
		dispatcher,
		nil,
		timewindow.NewClock(-180),
		nil,
	)
}

// 09:30 UTC is 06:30 in business time.
var testNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func oneShotTask(id, title string, scheduled time.Time) domain.Schedulable {
	return domain.Schedulable{
		ID:            id,
		Title:         title,
		Status:        domain.StatusPending,
		ScheduledDate: scheduled,
	}
}

func TestRunActivitiesShiftDigest(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	dispatcher := &fakeDispatcher{}

	shift := domain.ShiftDefinition{
		ID:                 "shift-1",
		Title:              "Turno Manhã",
		Time:               "07:00",
		AlertMinutesBefore: 30,
		Message:            "Bom dia {{NOME}}! Tarefas de hoje:\n{{TAREFAS}}",
	}
	maria := domain.Recipient{ID: "rec-1", Name: "Maria", Phone: "15991775589", Active: true}
	joao := domain.Recipient{ID: "rec-2", Name: "João", Phone: "15988880000", Active: true}
	task := oneShotTask("task-1", "Irrigar estufa", time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	day := domain.StartOfDay(testNow)
	kind := domain.ShiftAlertKind("Turno Manhã")

	store.EXPECT().ListShiftDefinitions(gomock.Any()).Return([]domain.ShiftDefinition{shift}, nil)
	store.EXPECT().ListPendingActivities(gomock.Any()).Return(nil, nil)
	store.EXPECT().ListActiveRecipients(gomock.Any()).Return([]domain.Recipient{maria, joao}, nil)
	store.EXPECT().
		CountSameDayAttempts(gomock.Any(), domain.LedgerKey{RecipientID: "rec-1", Kind: kind}, day, time.Time{}).
		Return(0, nil)
	store.EXPECT().
		CountSameDayAttempts(gomock.Any(), domain.LedgerKey{RecipientID: "rec-2", Kind: kind}, day, time.Time{}).
		Return(0, nil)
	store.EXPECT().
		ListPendingActivitiesForRecipient(gomock.Any(), "rec-1").
		Return([]domain.Schedulable{task}, nil)
	store.EXPECT().
		ListPendingActivitiesForRecipient(gomock.Any(), "rec-2").
		Return(nil, nil)
	store.EXPECT().
		AppendExecution(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.ExecutionLogEntry) error {
			if entry.RecipientID != "rec-1" || entry.Kind != kind || !entry.Success {
				t.Errorf("unexpected ledger entry: %+v", entry)
			}
			if entry.Metadata["taskCount"] != 1 {
				t.Errorf("entry Metadata = %v", entry.Metadata)
			}
			return nil
		})

	e := newTestEngine(store, dispatcher)
	result, err := e.RunActivities(context.Background(), testNow)
	if err != nil {
		t.Fatalf("RunActivities() error = %v", err)
	}

	shiftResult := result.Results.Shifts["Turno Manhã"]
	if !shiftResult.Executed {
		t.Error("shift result Executed = false, want true")
	}
	if shiftResult.RecipientsNotified != 1 {
		t.Errorf("RecipientsNotified = %d, want 1", shiftResult.RecipientsNotified)
	}
	if shiftResult.EntitiesProcessed != 1 {
		t.Errorf("EntitiesProcessed = %d, want 1", shiftResult.EntitiesProcessed)
	}
	if len(shiftResult.Errors) != 0 {
		t.Errorf("Errors = %v, want none", shiftResult.Errors)
	}

	sent := dispatcher.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if !strings.Contains(sent[0].text, "Bom dia Maria!") {
		t.Errorf("message missing recipient name: %q", sent[0].text)
	}
	if !strings.Contains(sent[0].text, "• Irrigar estufa") {
		t.Errorf("message missing task list: %q", sent[0].text)
	}
}

func TestRunActivitiesShiftOutsideAlertMinute(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	dispatcher := &fakeDispatcher{}

	shift := domain.ShiftDefinition{
		ID:                 "shift-1",
		Title:              "Turno Manhã",
		Time:               "07:00",
		AlertMinutesBefore: 15, // alert at 06:45, now is 06:30
		Message:            "Bom dia!",
	}

	store.EXPECT().ListShiftDefinitions(gomock.Any()).Return([]domain.ShiftDefinition{shift}, nil)
	store.EXPECT().ListPendingActivities(gomock.Any()).Return(nil, nil)

	e := newTestEngine(store, dispatcher)
	result, err := e.RunActivities(context.Background(), testNow)
	if err != nil {
		t.Fatalf("RunActivities() error = %v", err)
	}

	if result.Results.Shifts["Turno Manhã"].Executed {
		t.Error("shift result Executed = true, want false outside alert minute")
	}
	if len(dispatcher.messages()) != 0 {
		t.Error("messages sent outside alert minute")
	}
}

func TestRunActivitiesShiftWithoutMessageSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	dispatcher := &fakeDispatcher{}

	shift := domain.ShiftDefinition{
		ID:                 "shift-1",
		Title:              "Turno Manhã",
		Time:               "07:00",
		AlertMinutesBefore: 30,
	}

	store.EXPECT().ListShiftDefinitions(gomock.Any()).Return([]domain.ShiftDefinition{shift}, nil)
	store.EXPECT().ListPendingActivities(gomock.Any()).Return(nil, nil)

	e := newTestEngine(store, dispatcher)
	result, err := e.RunActivities(context.Background(), testNow)
	if err != nil {
		t.Fatalf("RunActivities() error = %v", err)
	}

	if result.Results.Shifts["Turno Manhã"].Executed {
		t.Error("shift without message should not execute")
	}
}

func TestRunActivitiesShiftAlreadySentToday(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	dispatcher := &fakeDispatcher{}

	shift := domain.ShiftDefinition{
		ID:                 "shift-1",
		Title:              "Turno Manhã",
		Time:               "07:00",
		AlertMinutesBefore: 30,
		Message:            "Bom dia!",
	}
	maria := domain.Recipient{ID: "rec-1", Name: "Maria", Phone: "15991775589", Active: true}
	day := domain.StartOfDay(testNow)

	store.EXPECT().ListShiftDefinitions(gomock.Any()).Return([]domain.ShiftDefinition{shift}, nil)
	store.EXPECT().ListPendingActivities(gomock.Any()).Return(nil, nil)
	store.EXPECT().ListActiveRecipients(gomock.Any()).Return([]domain.Recipient{maria}, nil)
	store.EXPECT().
		CountSameDayAttempts(gomock.Any(), gomock.Any(), day, time.Time{}).
		Return(1, nil)

	e := newTestEngine(store, dispatcher)
	result, err := e.RunActivities(context.Background(), testNow)
	if err != nil {
		t.Fatalf("RunActivities() error = %v", err)
	}

	shiftResult := result.Results.Shifts["Turno Manhã"]
	if !shiftResult.Executed {
		t.Error("shift result Executed = false, want true")
	}
	if shiftResult.RecipientsNotified != 0 {
		t.Errorf("RecipientsNotified = %d, want 0", shiftResult.RecipientsNotified)
	}
	if len(dispatcher.messages()) != 0 {
		t.Error("message sent despite same-day ledger entry")
	}
}

func TestRunActivitiesShiftRecipientWithoutPhone(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	dispatcher := &fakeDispatcher{}

	shift := domain.ShiftDefinition{
		ID:                 "shift-1",
		Title:              "Turno Manhã",
		Time:               "07:00",
		AlertMinutesBefore: 30,
		Message:            "Bom dia!",
	}
	maria := domain.Recipient{ID: "rec-1", Name: "Maria", Active: true}
	task := oneShotTask("task-1", "Irrigar estufa", time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	store.EXPECT().ListShiftDefinitions(gomock.Any()).Return([]domain.ShiftDefinition{shift}, nil)
	store.EXPECT().ListPendingActivities(gomock.Any()).Return(nil, nil)
	store.EXPECT().ListActiveRecipients(gomock.Any()).Return([]domain.Recipient{maria}, nil)
	store.EXPECT().
		CountSameDayAttempts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(0, nil)
	store.EXPECT().
		ListPendingActivitiesForRecipient(gomock.Any(), "rec-1").
		Return([]domain.Schedulable{task}, nil)

	e := newTestEngine(store, dispatcher)
	result, err := e.RunActivities(context.Background(), testNow)
	if err != nil {
		t.Fatalf("RunActivities() error = %v", err)
	}

	shiftResult := result.Results.Shifts["Turno Manhã"]
	if len(shiftResult.Errors) != 1 || !strings.Contains(shiftResult.Errors[0], "Maria") {
		t.Errorf("Errors = %v, want one entry for Maria", shiftResult.Errors)
	}
	if len(dispatcher.messages()) != 0 {
		t.Error("message sent to recipient without phone")
	}
}

func TestRunActivitiesIndividualAlert(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	dispatcher := &fakeDispatcher{}

	// Task at 06:45 business time, 15 minutes ahead of now (06:30).
	task := oneShotTask("task-1", "Vacinar gado", time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC))
	maria := domain.Recipient{ID: "rec-1", Name: "Maria", Phone: "15991775589", Active: true}
	inactive := domain.Recipient{ID: "rec-2", Name: "José", Phone: "15988880000", Active: false}
	activity := domain.ActivityWithRecipients{
		Schedulable: task,
		Recipients:  []domain.Recipient{maria, inactive},
	}
	day := domain.StartOfDay(testNow)
	key := domain.LedgerKey{EntityID: "task-1", RecipientID: "rec-1", Kind: domain.AlertKindIndividual}

	store.EXPECT().ListShiftDefinitions(gomock.Any()).Return(nil, nil)
	store.EXPECT().ListPendingActivities(gomock.Any()).Return([]domain.ActivityWithRecipients{activity}, nil)
	store.EXPECT().
		CountSameDayAttempts(gomock.Any(), key, day, time.Time{}).
		Return(0, nil)
	store.EXPECT().
		AppendExecution(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.ExecutionLogEntry) error {
			if entry.EntityID != "task-1" || !entry.Success {
				t.Errorf("unexpected ledger entry: %+v", entry)
			}
			return nil
		})
	store.EXPECT().MarkActivityCompleted(gomock.Any(), "task-1").Return(nil)

	e := newTestEngine(store, dispatcher)
	result, err := e.RunActivities(context.Background(), testNow)
	if err != nil {
		t.Fatalf("RunActivities() error = %v", err)
	}

	individual := result.Results.IndividualAlerts
	if !individual.Executed {
		t.Error("individual alerts Executed = false, want true")
	}
	if individual.RecipientsNotified != 1 {
		t.Errorf("RecipientsNotified = %d, want 1", individual.RecipientsNotified)
	}
	if individual.EntitiesProcessed != 1 {
		t.Errorf("EntitiesProcessed = %d, want 1", individual.EntitiesProcessed)
	}

	sent := dispatcher.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if !strings.Contains(sent[0].text, "Oi Maria!") {
		t.Errorf("message missing recipient name: %q", sent[0].text)
	}
	if !strings.Contains(sent[0].text, "Lembrete: Vacinar gado") {
		t.Errorf("message missing title: %q", sent[0].text)
	}
	if !strings.Contains(sent[0].text, "Horário: 06:45") {
		t.Errorf("message missing business time: %q", sent[0].text)
	}
}

func TestRunActivitiesIndividualFailureStillCompletes(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	dispatcher := &fakeDispatcher{failErr: errors.New("gateway down")}

	task := oneShotTask("task-1", "Vacinar gado", time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC))
	maria := domain.Recipient{ID: "rec-1", Name: "Maria", Phone: "15991775589", Active: true}
	activity := domain.ActivityWithRecipients{
		Schedulable: task,
		Recipients:  []domain.Recipient{maria},
	}

	store.EXPECT().ListShiftDefinitions(gomock.Any()).Return(nil, nil)
	store.EXPECT().ListPendingActivities(gomock.Any()).Return([]domain.ActivityWithRecipients{activity}, nil)
	store.EXPECT().
		CountSameDayAttempts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(0, nil)
	store.EXPECT().
		AppendExecution(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.ExecutionLogEntry) error {
			if entry.Success {
				t.Error("ledger entry Success = true, want false")
			}
			if entry.ErrorMessage == "" {
				t.Error("ledger entry ErrorMessage empty")
			}
			return nil
		})
	store.EXPECT().MarkActivityCompleted(gomock.Any(), "task-1").Return(nil)

	e := newTestEngine(store, dispatcher)
	result, err := e.RunActivities(context.Background(), testNow)
	if err != nil {
		t.Fatalf("RunActivities() error = %v", err)
	}

	individual := result.Results.IndividualAlerts
	if individual.RecipientsNotified != 0 {
		t.Errorf("RecipientsNotified = %d, want 0", individual.RecipientsNotified)
	}
	if len(individual.Errors) != 1 || !strings.Contains(individual.Errors[0], "gateway down") {
		t.Errorf("Errors = %v, want delivery failure", individual.Errors)
	}
}

func TestRunActivitiesEditedTaskChecksLedgerSinceEdit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	dispatcher := &fakeDispatcher{}

	updatedAt := testNow.Add(-time.Hour)
	task := oneShotTask("task-1", "Vacinar gado", time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC))
	task.UpdatedAt = updatedAt
	activity := domain.ActivityWithRecipients{
		Schedulable: task,
		Recipients:  []domain.Recipient{{ID: "rec-1", Name: "Maria", Phone: "15991775589", Active: true}},
	}
	day := domain.StartOfDay(testNow)
	key := domain.LedgerKey{EntityID: "task-1", RecipientID: "rec-1", Kind: domain.AlertKindIndividual}

	store.EXPECT().ListShiftDefinitions(gomock.Any()).Return(nil, nil)
	store.EXPECT().ListPendingActivities(gomock.Any()).Return([]domain.ActivityWithRecipients{activity}, nil)
	store.EXPECT().
		CountSameDayAttempts(gomock.Any(), key, day, updatedAt).
		Return(0, nil)
	store.EXPECT().AppendExecution(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().MarkActivityCompleted(gomock.Any(), "task-1").Return(nil)

	e := newTestEngine(store, dispatcher)
	result, err := e.RunActivities(context.Background(), testNow)
	if err != nil {
		t.Fatalf("RunActivities() error = %v", err)
	}
	if result.Results.IndividualAlerts.RecipientsNotified != 1 {
		t.Errorf("RecipientsNotified = %d, want 1", result.Results.IndividualAlerts.RecipientsNotified)
	}
}

func TestRunRemindersBroadcast(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	dispatcher := &fakeDispatcher{}

	// 17:30 UTC is 14:30 business; now is 14:28 business, window of 5 min.
	now := time.Date(2026, 3, 2, 17, 28, 0, 0, time.UTC)
	reminder := domain.Schedulable{
		ID:            "rem-1",
		Title:         "Folha de pagamento",
		Description:   "conferir horas",
		Status:        domain.StatusPending,
		ScheduledDate: time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC),
	}
	ana := domain.Recipient{ID: "adm-1", Name: "Ana", Phone: "15991775589", Active: true, Admin: true}
	noPhone := domain.Recipient{ID: "adm-2", Name: "Rui", Active: true, Admin: true}
	day := domain.StartOfDay(now)

	store.EXPECT().ListPendingReminders(gomock.Any()).Return([]domain.Schedulable{reminder}, nil)
	store.EXPECT().ListAdminRecipients(gomock.Any()).Return([]domain.Recipient{ana, noPhone}, nil)
	store.EXPECT().
		CountSameDayAttempts(gomock.Any(),
			domain.LedgerKey{EntityID: "rem-1", RecipientID: "adm-1", Kind: domain.AlertKindAdminReminder},
			day, time.Time{}).
		Return(0, nil)
	store.EXPECT().
		CountSameDayAttempts(gomock.Any(),
			domain.LedgerKey{EntityID: "rem-1", RecipientID: "adm-2", Kind: domain.AlertKindAdminReminder},
			day, time.Time{}).
		Return(0, nil)
	store.EXPECT().AppendExecution(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().MarkReminderCompleted(gomock.Any(), "rem-1").Return(nil)

	e := newTestEngine(store, dispatcher)
	result, err := e.RunReminders(context.Background(), now)
	if err != nil {
		t.Fatalf("RunReminders() error = %v", err)
	}

	if result.Results.RemindersProcessed != 1 {
		t.Errorf("RemindersProcessed = %d, want 1", result.Results.RemindersProcessed)
	}
	if result.Results.AdminsNotified != 1 {
		t.Errorf("AdminsNotified = %d, want 1", result.Results.AdminsNotified)
	}
	if len(result.Results.Errors) != 1 || !strings.Contains(result.Results.Errors[0], "Rui") {
		t.Errorf("Errors = %v, want phone error for Rui", result.Results.Errors)
	}

	sent := dispatcher.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	for _, part := range []string{"🔔 Lembrete Admin", "Folha de pagamento", "Horário: 14:30"} {
		if !strings.Contains(sent[0].text, part) {
			t.Errorf("message missing %q: %q", part, sent[0].text)
		}
	}
}

func TestRunRemindersOccurrenceLimitCompletes(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	dispatcher := &fakeDispatcher{}

	now := time.Date(2026, 3, 2, 17, 28, 0, 0, time.UTC)
	reminder := domain.Schedulable{
		ID:                "rem-1",
		Title:             "Folha de pagamento",
		Status:            domain.StatusPending,
		ScheduledDate:     time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC),
		IsRepeating:       true,
		RepeatUnit:        domain.RepeatUnitDay,
		RepeatInterval:    1,
		RepeatStartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		RepeatEndType:     domain.RepeatEndOccurrences,
		RepeatOccurrences: 1,
	}
	ana := domain.Recipient{ID: "adm-1", Name: "Ana", Phone: "15991775589", Active: true, Admin: true}

	store.EXPECT().ListPendingReminders(gomock.Any()).Return([]domain.Schedulable{reminder}, nil)
	// Occurrence accounting must look at admin reminder rows, not task
	// alert rows; zero before the broadcast, one after it.
	store.EXPECT().
		CountExecutions(gomock.Any(), "rem-1", domain.AlertKindAdminReminder).
		Return(0, nil)
	store.EXPECT().ListAdminRecipients(gomock.Any()).Return([]domain.Recipient{ana}, nil)
	store.EXPECT().
		CountSameDayAttempts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(0, nil)
	store.EXPECT().AppendExecution(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().
		CountExecutions(gomock.Any(), "rem-1", domain.AlertKindAdminReminder).
		Return(1, nil)
	store.EXPECT().MarkReminderCompleted(gomock.Any(), "rem-1").Return(nil)

	e := newTestEngine(store, dispatcher)
	result, err := e.RunReminders(context.Background(), now)
	if err != nil {
		t.Fatalf("RunReminders() error = %v", err)
	}

	if result.Results.AdminsNotified != 1 {
		t.Errorf("AdminsNotified = %d, want 1", result.Results.AdminsNotified)
	}
	if len(result.Results.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Results.Errors)
	}
}

func TestRunRemindersOutsideWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	dispatcher := &fakeDispatcher{}

	now := time.Date(2026, 3, 2, 17, 28, 0, 0, time.UTC)
	reminder := domain.Schedulable{
		ID:            "rem-1",
		Title:         "Folha de pagamento",
		Status:        domain.StatusPending,
		ScheduledDate: time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC), // 15:00 business
	}

	store.EXPECT().ListPendingReminders(gomock.Any()).Return([]domain.Schedulable{reminder}, nil)

	e := newTestEngine(store, dispatcher)
	result, err := e.RunReminders(context.Background(), now)
	if err != nil {
		t.Fatalf("RunReminders() error = %v", err)
	}

	if result.Results.RemindersProcessed != 0 {
		t.Errorf("RemindersProcessed = %d, want 0", result.Results.RemindersProcessed)
	}
	if len(dispatcher.messages()) != 0 {
		t.Error("message sent outside window")
	}
}

func TestRunRemindersStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)

	store.EXPECT().ListPendingReminders(gomock.Any()).Return(nil, errors.New("db down"))

	e := newTestEngine(store, &fakeDispatcher{})
	if _, err := e.RunReminders(context.Background(), testNow); err == nil {
		t.Fatal("RunReminders() error = nil, want error")
	}
}
