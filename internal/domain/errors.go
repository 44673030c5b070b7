package domain

import "errors"

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrReminderNotFound = errors.New("reminder not found")
	ErrRecipientNoPhone = errors.New("recipient has no phone number")
	ErrDuplicateAttempt = errors.New("dispatch attempt already recorded for this day")
	ErrInvalidTimeOfDay = errors.New("invalid HH:MM time of day")
)
