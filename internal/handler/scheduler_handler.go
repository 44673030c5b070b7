package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/igor325/AGROTASKv2/internal/service/engine"
)

type SchedulerHandler struct {
	engine *engine.Engine
}

func NewSchedulerHandler(eng *engine.Engine) *SchedulerHandler {
	return &SchedulerHandler{engine: eng}
}

// HandleActivityRun executes one scheduler pass over individual alerts
// and shift digests.
func (h *SchedulerHandler) HandleActivityRun(c *gin.Context) {
	ctx := c.Request.Context()

	now, ok := h.resolveNow(c)
	if !ok {
		return
	}

	result, err := h.engine.RunActivities(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "activity scheduler pass failed",
			slog.String("error", err.Error()),
		)
		respondFatal(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleReminderRun executes one scheduler pass over admin reminders.
func (h *SchedulerHandler) HandleReminderRun(c *gin.Context) {
	ctx := c.Request.Context()

	now, ok := h.resolveNow(c)
	if !ok {
		return
	}

	result, err := h.engine.RunReminders(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "reminder scheduler pass failed",
			slog.String("error", err.Error()),
		)
		respondFatal(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// resolveNow reads the optional at query parameter as a virtual clock
// for the pass. Without it the pass runs at wall clock time.
func (h *SchedulerHandler) resolveNow(c *gin.Context) (time.Time, bool) {
	atStr := c.Query("at")
	if atStr == "" {
		return time.Now().UTC(), true
	}

	parsed, err := time.Parse(time.RFC3339, atStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "invalid at time format, expected RFC3339",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return time.Time{}, false
	}

	now := parsed.UTC()
	slog.InfoContext(c.Request.Context(), "using virtual time",
		slog.Time("virtual_now", now),
	)
	return now, true
}

func respondFatal(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success":   false,
		"error":     err.Error(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
