package config

import "errors"

var (
	ErrRedisAddrMissing       = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB         = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidRedisTLS        = errors.New("REDIS_TLS must be a boolean")
	ErrInvalidUTCOffset       = errors.New("BUSINESS_UTC_OFFSET_MINUTES must be a valid integer")
	ErrWAAPIInstanceIDMissing = errors.New("WAAPI_INSTANCE_ID is required")
	ErrWAAPITokenMissing      = errors.New("WAAPI_TOKEN is required")
)
