package config

import (
	"os"
	"strconv"
)

const (
	businessUTCOffsetEnv   = "BUSINESS_UTC_OFFSET_MINUTES"
	individualLookaheadEnv = "INDIVIDUAL_LOOKAHEAD_MINUTES"
	invocationPeriodEnv    = "INVOCATION_PERIOD_MINUTES"
	dispatchMaxRetriesEnv  = "DISPATCH_MAX_RETRIES"
	cronSpecEnv            = "SCHEDULER_CRON"

	defaultBusinessUTCOffset   = -180
	defaultIndividualLookahead = 15
	defaultInvocationPeriod    = 5
	defaultDispatchMaxRetries  = 3
)

type SchedulerConfig struct {
	// BusinessUTCOffsetMinutes shifts wall clock time into the business
	// timezone before any time of day comparison.
	BusinessUTCOffsetMinutes int

	// IndividualLookaheadMinutes is how far ahead of a task's time of
	// day its alert fires.
	IndividualLookaheadMinutes int

	// InvocationPeriodMinutes is the expected gap between scheduler
	// invocations. Reminder matching uses it as its window width.
	InvocationPeriodMinutes int

	DispatchMaxRetries int

	// CronSpec enables the in-process invoker when set.
	CronSpec string
}

func LoadSchedulerConfig() (*SchedulerConfig, error) {
	cfg := &SchedulerConfig{
		BusinessUTCOffsetMinutes:   defaultBusinessUTCOffset,
		IndividualLookaheadMinutes: defaultIndividualLookahead,
		InvocationPeriodMinutes:    defaultInvocationPeriod,
		DispatchMaxRetries:         defaultDispatchMaxRetries,
		CronSpec:                   os.Getenv(cronSpecEnv),
	}

	if v := os.Getenv(businessUTCOffsetEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, ErrInvalidUTCOffset
		}
		cfg.BusinessUTCOffsetMinutes = parsed
	}

	if v := os.Getenv(individualLookaheadEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			cfg.IndividualLookaheadMinutes = parsed
		}
	}

	if v := os.Getenv(invocationPeriodEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.InvocationPeriodMinutes = parsed
		}
	}

	if v := os.Getenv(dispatchMaxRetriesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.DispatchMaxRetries = parsed
		}
	}

	return cfg, nil
}
