package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/igor325/AGROTASKv2/internal/domain"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestAlreadySentIndexHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	index := domain.NewMockSentIndex(ctrl)

	key := domain.LedgerKey{RecipientID: "rec-1", Kind: domain.ShiftAlertKind("Turno Manhã")}
	index.EXPECT().WasSent(gomock.Any(), key, testDay).Return(true, nil)

	l := New(store, index)
	if !l.AlreadySent(context.Background(), key, testDay, time.Time{}) {
		t.Error("AlreadySent() = false, want true on index hit")
	}
}

func TestAlreadySentIndexMissFallsToStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	index := domain.NewMockSentIndex(ctrl)

	key := domain.LedgerKey{RecipientID: "rec-1", Kind: domain.AlertKindAdminReminder, EntityID: "rem-1"}
	index.EXPECT().WasSent(gomock.Any(), key, testDay).Return(false, nil)
	store.EXPECT().CountSameDayAttempts(gomock.Any(), key, testDay, time.Time{}).Return(1, nil)

	l := New(store, index)
	if !l.AlreadySent(context.Background(), key, testDay, time.Time{}) {
		t.Error("AlreadySent() = false, want true from store")
	}
}

func TestAlreadySentEditInvalidationSkipsIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	index := domain.NewMockSentIndex(ctrl)

	key := domain.LedgerKey{EntityID: "task-1", RecipientID: "rec-1", Kind: domain.AlertKindIndividual}
	updatedAt := testDay.Add(10 * time.Hour)

	// Rows older than the edit no longer count.
	store.EXPECT().CountSameDayAttempts(gomock.Any(), key, testDay, updatedAt).Return(0, nil)

	l := New(store, index)
	if l.AlreadySent(context.Background(), key, testDay, updatedAt) {
		t.Error("AlreadySent() = true, want false after edit invalidation")
	}
}

func TestAlreadySentNonIndividualIgnoresUpdatedAt(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)

	key := domain.LedgerKey{EntityID: "rem-1", RecipientID: "rec-1", Kind: domain.AlertKindAdminReminder}
	updatedAt := testDay.Add(10 * time.Hour)

	store.EXPECT().CountSameDayAttempts(gomock.Any(), key, testDay, time.Time{}).Return(1, nil)

	l := New(store, nil)
	if !l.AlreadySent(context.Background(), key, testDay, updatedAt) {
		t.Error("AlreadySent() = false, want true")
	}
}

func TestAlreadySentReadErrorsMeanNotSent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	index := domain.NewMockSentIndex(ctrl)

	key := domain.LedgerKey{RecipientID: "rec-1", Kind: domain.ShiftAlertKind("Turno Manhã")}
	index.EXPECT().WasSent(gomock.Any(), key, testDay).Return(false, errors.New("redis down"))
	store.EXPECT().CountSameDayAttempts(gomock.Any(), key, testDay, time.Time{}).Return(0, errors.New("db down"))

	l := New(store, index)
	if l.AlreadySent(context.Background(), key, testDay, time.Time{}) {
		t.Error("AlreadySent() = true, want false when reads fail")
	}
}

func TestRecordAttemptSuccessMarksIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	index := domain.NewMockSentIndex(ctrl)

	key := domain.LedgerKey{EntityID: "task-1", RecipientID: "rec-1", Kind: domain.AlertKindIndividual}

	var appended *domain.ExecutionLogEntry
	store.EXPECT().
		AppendExecution(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.ExecutionLogEntry) error {
			appended = entry
			return nil
		})
	index.EXPECT().MarkSent(gomock.Any(), key, gomock.Any()).Return(true, nil)

	l := New(store, index)
	metadata := map[string]any{"shiftTime": "07:00"}
	if err := l.RecordAttempt(context.Background(), key, time.Time{}, true, "", metadata); err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}

	if appended == nil {
		t.Fatal("AppendExecution not called")
	}
	if appended.ID == "" {
		t.Error("entry ID not assigned")
	}
	if appended.DedupDay != domain.DayKey(appended.ExecutedAt) {
		t.Errorf("entry DedupDay = %q", appended.DedupDay)
	}
	if appended.EntityID != "task-1" || appended.RecipientID != "rec-1" || appended.Kind != domain.AlertKindIndividual {
		t.Errorf("entry key = %+v", appended)
	}
	if !appended.Success {
		t.Error("entry Success = false, want true")
	}
	if appended.Metadata["shiftTime"] != "07:00" {
		t.Errorf("entry Metadata = %v", appended.Metadata)
	}
}

func TestRecordAttemptFailureSkipsIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)
	index := domain.NewMockSentIndex(ctrl)

	key := domain.LedgerKey{EntityID: "task-1", RecipientID: "rec-1", Kind: domain.AlertKindIndividual}
	store.EXPECT().
		AppendExecution(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.ExecutionLogEntry) error {
			if entry.Success {
				t.Error("entry Success = true, want false")
			}
			if entry.ErrorMessage != "gateway timeout" {
				t.Errorf("entry ErrorMessage = %q", entry.ErrorMessage)
			}
			return nil
		})

	l := New(store, index)
	if err := l.RecordAttempt(context.Background(), key, time.Time{}, false, "gateway timeout", nil); err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}
}

func TestRecordAttemptDuplicatePassthrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)

	key := domain.LedgerKey{EntityID: "task-1", RecipientID: "rec-1", Kind: domain.AlertKindIndividual}
	store.EXPECT().AppendExecution(gomock.Any(), gomock.Any()).Return(domain.ErrDuplicateAttempt)

	l := New(store, nil)
	err := l.RecordAttempt(context.Background(), key, time.Time{}, true, "", nil)
	if !errors.Is(err, domain.ErrDuplicateAttempt) {
		t.Errorf("RecordAttempt() error = %v, want ErrDuplicateAttempt", err)
	}
}

func TestRecordAttemptEditGenerationInDedupDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockStore(ctrl)

	key := domain.LedgerKey{EntityID: "task-1", RecipientID: "rec-1", Kind: domain.AlertKindIndividual}
	updatedAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	store.EXPECT().
		AppendExecution(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.ExecutionLogEntry) error {
			want := domain.DayKey(entry.ExecutedAt) + "@" + "1772445600"
			if entry.DedupDay != want {
				t.Errorf("entry DedupDay = %q, want %q", entry.DedupDay, want)
			}
			return nil
		})

	l := New(store, nil)
	if err := l.RecordAttempt(context.Background(), key, updatedAt, true, "", nil); err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}
}
