package config

import (
	"os"
)

const (
	waapiURLEnv        = "WAAPI_API_URL"
	waapiInstanceIDEnv = "WAAPI_INSTANCE_ID"
	waapiTokenEnv      = "WAAPI_TOKEN"

	defaultWAAPIURL = "https://waapi.app/api/v1"
)

type WAAPIConfig struct {
	APIURL     string
	InstanceID string
	Token      string
}

func LoadWAAPIConfig() *WAAPIConfig {
	apiURL := os.Getenv(waapiURLEnv)
	if apiURL == "" {
		apiURL = defaultWAAPIURL
	}

	return &WAAPIConfig{
		APIURL:     apiURL,
		InstanceID: os.Getenv(waapiInstanceIDEnv),
		Token:      os.Getenv(waapiTokenEnv),
	}
}

func (c *WAAPIConfig) Validate() error {
	if c == nil || c.InstanceID == "" {
		return ErrWAAPIInstanceIDMissing
	}
	if c.Token == "" {
		return ErrWAAPITokenMissing
	}
	return nil
}
