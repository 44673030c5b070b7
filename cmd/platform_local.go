//go:build !gcloud

package main

import (
	"context"
	"os"

	"github.com/igor325/AGROTASKv2/internal/observability"
	"github.com/igor325/AGROTASKv2/internal/observability/logging"
)

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "agrotask-scheduler"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    serviceName,
			Version: Version,
		},
		Environment:  env,
		SamplingRate: 1.0,
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
