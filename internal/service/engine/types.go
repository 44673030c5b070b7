package engine

import "time"

// AlertResult summarizes one pass over a shift, the individual alerts, or
// the admin reminders.
type AlertResult struct {
	// Executed reports whether the pass actually fired, i.e. the current
	// minute matched and there was something to do.
	Executed           bool     `json:"executed"`
	RecipientsNotified int      `json:"recipientsNotified"`
	EntitiesProcessed  int      `json:"entitiesProcessed"`
	Errors             []string `json:"errors"`
}

func newAlertResult() AlertResult {
	return AlertResult{Errors: []string{}}
}

// ActivityRunResult is the response body of an activity scheduler run.
type ActivityRunResult struct {
	Success   bool            `json:"success"`
	Timestamp time.Time       `json:"timestamp"`
	Results   ActivityResults `json:"results"`
}

type ActivityResults struct {
	Shifts           map[string]AlertResult `json:"shifts"`
	IndividualAlerts AlertResult            `json:"individualAlerts"`
}

// ReminderRunResult is the response body of an admin reminder run.
type ReminderRunResult struct {
	Success   bool            `json:"success"`
	Timestamp time.Time       `json:"timestamp"`
	Results   ReminderResults `json:"results"`
}

type ReminderResults struct {
	RemindersProcessed int      `json:"remindersProcessed"`
	AdminsNotified     int      `json:"adminsNotified"`
	Errors             []string `json:"errors"`
}
