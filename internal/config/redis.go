package config

import (
	"os"
	"strconv"
)

const (
	redisAddrEnv     = "REDIS_ADDR"
	redisPasswordEnv = "REDIS_PASSWORD"
	redisDBEnv       = "REDIS_DB"
	redisTLSEnv      = "REDIS_TLS"

	defaultRedisAddr = "localhost:6379"
)

// RedisConfig describes the connection used by the same-day dedup index.
// Redis is an accelerator here, not the source of truth; the execution
// log in the relational store always has the final word.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// LoadRedisConfig reads the REDIS_* environment. REDIS_DB must be an
// integer when set; REDIS_TLS accepts the usual boolean spellings.
func LoadRedisConfig() (*RedisConfig, error) {
	cfg := &RedisConfig{
		Addr:     os.Getenv(redisAddrEnv),
		Password: os.Getenv(redisPasswordEnv),
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultRedisAddr
	}

	if raw := os.Getenv(redisDBEnv); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, ErrInvalidRedisDB
		}
		cfg.DB = db
	}

	if raw := os.Getenv(redisTLSEnv); raw != "" {
		useTLS, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, ErrInvalidRedisTLS
		}
		cfg.TLS = useTLS
	}

	return cfg, nil
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}
