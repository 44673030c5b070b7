package store

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/igor325/AGROTASKv2/internal/domain"
)

type activityRecord struct {
	ID          string `gorm:"primaryKey"`
	Title       string
	Description string
	Status      string `gorm:"index"`

	ScheduledDate *time.Time

	IsRepeating       bool
	RepeatInterval    int
	RepeatUnit        string
	RepeatStartDate   *time.Time
	RepeatDaysOfWeek  string // CSV of ISO indices, 0=Mon
	RepeatEndType     string
	RepeatEndDate     *time.Time
	RepeatOccurrences int

	ShouldSendNotification bool
	Message                string

	CreatedAt time.Time
	UpdatedAt time.Time

	Recipients []recipientRecord `gorm:"many2many:activity_recipients;joinForeignKey:ActivityID;joinReferences:RecipientID"`
}

func (activityRecord) TableName() string { return "activities" }

type recipientRecord struct {
	ID     string `gorm:"primaryKey"`
	Name   string
	Phone  string
	Status string `gorm:"index"`
	Admin  bool   `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (recipientRecord) TableName() string { return "recipients" }

type workShiftRecord struct {
	ID                 string `gorm:"primaryKey"`
	Title              string
	TimeOfDay          string `gorm:"column:time_of_day"`
	AlertMinutesBefore int
	Message            string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (workShiftRecord) TableName() string { return "work_shifts" }

type adminReminderRecord struct {
	ID          string `gorm:"primaryKey"`
	Title       string
	Description string
	Status      string `gorm:"index"`

	ScheduledDate *time.Time

	IsRepeating       bool
	RepeatInterval    int
	RepeatUnit        string
	RepeatStartDate   *time.Time
	RepeatDaysOfWeek  string
	RepeatEndType     string
	RepeatEndDate     *time.Time
	RepeatOccurrences int

	Message string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (adminReminderRecord) TableName() string { return "admin_reminders" }

type executionLogRecord struct {
	ID           string    `gorm:"primaryKey"`
	EntityID     string    `gorm:"index;uniqueIndex:idx_execution_dedup"`
	RecipientID  string    `gorm:"index;uniqueIndex:idx_execution_dedup"`
	Kind         string    `gorm:"uniqueIndex:idx_execution_dedup"`
	DedupDay     string    `gorm:"uniqueIndex:idx_execution_dedup"`
	ExecutedAt   time.Time `gorm:"index"`
	Success      bool
	ErrorMessage string
	Metadata     string
}

func (executionLogRecord) TableName() string { return "execution_logs" }

func (r *activityRecord) toDomain() domain.Schedulable {
	return domain.Schedulable{
		ID:                     r.ID,
		Title:                  r.Title,
		Description:            r.Description,
		Status:                 domain.Status(r.Status),
		ScheduledDate:          timeValue(r.ScheduledDate),
		IsRepeating:            r.IsRepeating,
		RepeatInterval:         r.RepeatInterval,
		RepeatUnit:             domain.RepeatUnit(r.RepeatUnit),
		RepeatStartDate:        timeValue(r.RepeatStartDate),
		RepeatDaysOfWeek:       parseDaysCSV(r.RepeatDaysOfWeek),
		RepeatEndType:          domain.RepeatEndType(r.RepeatEndType),
		RepeatEndDate:          timeValue(r.RepeatEndDate),
		RepeatOccurrences:      r.RepeatOccurrences,
		ShouldSendNotification: r.ShouldSendNotification,
		Message:                r.Message,
		UpdatedAt:              r.UpdatedAt,
	}
}

func (r *adminReminderRecord) toDomain() domain.Schedulable {
	return domain.Schedulable{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		Status:            domain.Status(r.Status),
		ScheduledDate:     timeValue(r.ScheduledDate),
		IsRepeating:       r.IsRepeating,
		RepeatInterval:    r.RepeatInterval,
		RepeatUnit:        domain.RepeatUnit(r.RepeatUnit),
		RepeatStartDate:   timeValue(r.RepeatStartDate),
		RepeatDaysOfWeek:  parseDaysCSV(r.RepeatDaysOfWeek),
		RepeatEndType:     domain.RepeatEndType(r.RepeatEndType),
		RepeatEndDate:     timeValue(r.RepeatEndDate),
		RepeatOccurrences: r.RepeatOccurrences,
		Message:           r.Message,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (r *recipientRecord) toDomain() domain.Recipient {
	return domain.Recipient{
		ID:     r.ID,
		Name:   r.Name,
		Phone:  r.Phone,
		Active: r.Status == "active",
		Admin:  r.Admin,
	}
}

func (r *workShiftRecord) toDomain() domain.ShiftDefinition {
	return domain.ShiftDefinition{
		ID:                 r.ID,
		Title:              r.Title,
		Time:               r.TimeOfDay,
		AlertMinutesBefore: r.AlertMinutesBefore,
		Message:            r.Message,
	}
}

func executionLogFromDomain(entry *domain.ExecutionLogEntry) (*executionLogRecord, error) {
	metadata := ""
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = string(raw)
	}
	return &executionLogRecord{
		ID:           entry.ID,
		EntityID:     entry.EntityID,
		RecipientID:  entry.RecipientID,
		Kind:         entry.Kind.String(),
		DedupDay:     entry.DedupDay,
		ExecutedAt:   entry.ExecutedAt.UTC(),
		Success:      entry.Success,
		ErrorMessage: entry.ErrorMessage,
		Metadata:     metadata,
	}, nil
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}

func parseDaysCSV(csv string) []int {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	return days
}

func formatDaysCSV(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, day := range days {
		parts[i] = strconv.Itoa(day)
	}
	return strings.Join(parts, ",")
}
