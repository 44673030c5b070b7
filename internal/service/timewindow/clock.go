package timewindow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/igor325/AGROTASKv2/internal/domain"
)

const minutesPerDay = 24 * 60

// Clock converts absolute UTC instants to the fixed business time-of-day.
// The offset is a constant number of minutes from UTC with no DST rules;
// the farm runs on Brasília wall-clock time year round.
type Clock struct {
	offsetMinutes int
}

// NewClock builds a clock with the given UTC offset in minutes (e.g. -180
// for UTC-3).
func NewClock(offsetMinutes int) *Clock {
	return &Clock{offsetMinutes: offsetMinutes}
}

// MinuteOfDay returns t's business time-of-day in minutes since midnight.
func (c *Clock) MinuteOfDay(t time.Time) int {
	u := t.UTC()
	m := u.Hour()*60 + u.Minute() + c.offsetMinutes
	m %= minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return m
}

// FormatHHMM renders a minute-of-day as "HH:MM".
func FormatHHMM(minute int) string {
	minute %= minutesPerDay
	if minute < 0 {
		minute += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ParseHHMM parses an "HH:MM" time-of-day into minutes since midnight.
func ParseHHMM(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidTimeOfDay, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidTimeOfDay, s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidTimeOfDay, s)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidTimeOfDay, s)
	}

	return hours*60 + minutes, nil
}

// ExactMatch reports whether the current business minute equals the
// target. Shift and individual alerts fire on the exact minute only; the
// invoker cadence must divide one minute into at most one invocation.
func ExactMatch(nowMinute, targetMinute int) bool {
	return normalize(nowMinute) == normalize(targetMinute)
}

// InWindow reports whether candidate falls within the half-open window
// [now, now+width), wrapping across midnight. Tolerant matching for admin
// reminders: small cadence drift is absorbed here and duplicate fires are
// stopped by the execution ledger instead.
func InWindow(candidateMinute, nowMinute, width int) bool {
	candidate := normalize(candidateMinute)
	start := normalize(nowMinute)
	end := start + width

	if end < minutesPerDay {
		return candidate >= start && candidate < end
	}

	// Window crosses midnight, e.g. 23:58 to 00:03.
	return candidate >= start || candidate < end%minutesPerDay
}

func normalize(minute int) int {
	minute %= minutesPerDay
	if minute < 0 {
		minute += minutesPerDay
	}
	return minute
}
