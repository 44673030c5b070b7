// Package invoker triggers scheduler passes from an in-process cron
// schedule, for deployments without an external cron caller.
package invoker

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/igor325/AGROTASKv2/internal/service/engine"
)

type Invoker struct {
	engine *engine.Engine
	cron   *cron.Cron
	spec   string
}

// New builds an invoker that runs both scheduler passes on the given
// cron spec. Standard five-field specs, e.g. "*/5 * * * *".
func New(eng *engine.Engine, spec string) (*Invoker, error) {
	inv := &Invoker{
		engine: eng,
		cron:   cron.New(),
		spec:   spec,
	}

	if _, err := inv.cron.AddFunc(spec, inv.runOnce); err != nil {
		return nil, err
	}

	return inv, nil
}

func (i *Invoker) Start() {
	slog.Info("in-process scheduler invoker started",
		slog.String("spec", i.spec),
	)
	i.cron.Start()
}

// Stop halts the schedule and waits for a running pass to finish.
func (i *Invoker) Stop() {
	ctx := i.cron.Stop()
	<-ctx.Done()
	slog.Info("in-process scheduler invoker stopped")
}

func (i *Invoker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now().UTC()

	if _, err := i.engine.RunActivities(ctx, now); err != nil {
		slog.ErrorContext(ctx, "cron activity pass failed",
			slog.String("error", err.Error()),
		)
	}
	if _, err := i.engine.RunReminders(ctx, now); err != nil {
		slog.ErrorContext(ctx, "cron reminder pass failed",
			slog.String("error", err.Error()),
		)
	}
}
