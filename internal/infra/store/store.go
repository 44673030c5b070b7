// Package store implements the task database on SQLite through GORM. The
// schema is owned by the external CRUD system; migration here only keeps
// local and test databases usable on their own.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/igor325/AGROTASKv2/internal/domain"
)

type Store struct {
	db *gorm.DB
}

// Open opens the SQLite database at path and returns a ready Store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	return New(db), nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks and shutdown.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&recipientRecord{},
		&activityRecord{},
		&workShiftRecord{},
		&adminReminderRecord{},
		&executionLogRecord{},
	)
}

func (s *Store) ListPendingActivities(ctx context.Context) ([]domain.ActivityWithRecipients, error) {
	var records []activityRecord
	err := s.db.WithContext(ctx).
		Preload("Recipients").
		Where("status = ? AND should_send_notification = ?", domain.StatusPending, true).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing pending activities: %w", err)
	}

	activities := make([]domain.ActivityWithRecipients, len(records))
	for i := range records {
		recipients := make([]domain.Recipient, len(records[i].Recipients))
		for j := range records[i].Recipients {
			recipients[j] = records[i].Recipients[j].toDomain()
		}
		activities[i] = domain.ActivityWithRecipients{
			Schedulable: records[i].toDomain(),
			Recipients:  recipients,
		}
	}
	return activities, nil
}

func (s *Store) ListPendingActivitiesForRecipient(ctx context.Context, recipientID string) ([]domain.Schedulable, error) {
	var records []activityRecord
	err := s.db.WithContext(ctx).
		Joins("JOIN activity_recipients ON activity_recipients.activity_id = activities.id").
		Where("activity_recipients.recipient_id = ? AND activities.status = ?", recipientID, domain.StatusPending).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing activities for recipient %s: %w", recipientID, err)
	}

	activities := make([]domain.Schedulable, len(records))
	for i := range records {
		activities[i] = records[i].toDomain()
	}
	return activities, nil
}

func (s *Store) MarkActivityCompleted(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Model(&activityRecord{}).
		Where("id = ?", id).
		Update("status", domain.StatusCompleted)
	if result.Error != nil {
		return fmt.Errorf("marking activity %s completed: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func (s *Store) ListActiveRecipients(ctx context.Context) ([]domain.Recipient, error) {
	return s.listRecipients(ctx, s.db.Where("status = ?", "active"))
}

func (s *Store) ListAdminRecipients(ctx context.Context) ([]domain.Recipient, error) {
	return s.listRecipients(ctx, s.db.Where("status = ? AND admin = ?", "active", true))
}

func (s *Store) listRecipients(ctx context.Context, query *gorm.DB) ([]domain.Recipient, error) {
	var records []recipientRecord
	if err := query.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing recipients: %w", err)
	}
	recipients := make([]domain.Recipient, len(records))
	for i := range records {
		recipients[i] = records[i].toDomain()
	}
	return recipients, nil
}

func (s *Store) ListShiftDefinitions(ctx context.Context) ([]domain.ShiftDefinition, error) {
	var records []workShiftRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing work shifts: %w", err)
	}
	shifts := make([]domain.ShiftDefinition, len(records))
	for i := range records {
		shifts[i] = records[i].toDomain()
	}
	return shifts, nil
}

func (s *Store) ListPendingReminders(ctx context.Context) ([]domain.Schedulable, error) {
	var records []adminReminderRecord
	err := s.db.WithContext(ctx).
		Where("status = ?", domain.StatusPending).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing pending reminders: %w", err)
	}
	reminders := make([]domain.Schedulable, len(records))
	for i := range records {
		reminders[i] = records[i].toDomain()
	}
	return reminders, nil
}

func (s *Store) MarkReminderCompleted(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Model(&adminReminderRecord{}).
		Where("id = ?", id).
		Update("status", domain.StatusCompleted)
	if result.Error != nil {
		return fmt.Errorf("marking reminder %s completed: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrReminderNotFound
	}
	return nil
}

func (s *Store) CountSameDayAttempts(ctx context.Context, key domain.LedgerKey, day time.Time, notBefore time.Time) (int, error) {
	dayStart := domain.StartOfDay(day)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := s.db.WithContext(ctx).
		Model(&executionLogRecord{}).
		Where("entity_id = ? AND recipient_id = ? AND kind = ?", key.EntityID, key.RecipientID, key.Kind.String()).
		Where("executed_at >= ? AND executed_at < ?", dayStart, dayEnd)
	if !notBefore.IsZero() {
		query = query.Where("executed_at >= ?", notBefore.UTC())
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting same-day attempts: %w", err)
	}
	return int(count), nil
}

func (s *Store) CountExecutions(ctx context.Context, entityID string, kind domain.AlertKind) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&executionLogRecord{}).
		Where("entity_id = ? AND kind = ?", entityID, kind.String()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting executions: %w", err)
	}
	return int(count), nil
}

func (s *Store) AppendExecution(ctx context.Context, entry *domain.ExecutionLogEntry) error {
	record, err := executionLogFromDomain(entry)
	if err != nil {
		return fmt.Errorf("encoding execution log entry: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAttempt
		}
		return fmt.Errorf("appending execution log entry: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
