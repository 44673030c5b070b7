package domain

// Recipient is a person reachable over the messaging gateway. Only active
// recipients are ever notified.
type Recipient struct {
	ID     string
	Name   string
	Phone  string
	Active bool
	Admin  bool
}

// ShiftDefinition configures a bulk work-shift notice: every active
// recipient with at least one task due that day gets a digest message,
// AlertMinutesBefore minutes ahead of the shift time.
type ShiftDefinition struct {
	ID                 string
	Title              string
	Time               string // "HH:MM" in business time
	AlertMinutesBefore int
	Message            string
}
