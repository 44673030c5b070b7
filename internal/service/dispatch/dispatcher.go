// Package dispatch delivers WhatsApp messages through a MessageGateway,
// handling Brazilian chat id ambiguity and transient gateway failures.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/igor325/AGROTASKv2/internal/domain"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 1 * time.Second
	maxDelay           = 5 * time.Second
)

// Dispatcher sends a message to every chat id candidate of a phone number
// concurrently and reports success when at least one delivery went
// through.
type Dispatcher struct {
	gateway     domain.MessageGateway
	maxAttempts int
	baseDelay   time.Duration
}

type Option func(*Dispatcher)

// WithMaxAttempts overrides the per-candidate attempt count.
func WithMaxAttempts(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

// WithBaseDelay overrides the first retry delay. Mainly for tests.
func WithBaseDelay(delay time.Duration) Option {
	return func(d *Dispatcher) {
		if delay > 0 {
			d.baseDelay = delay
		}
	}
}

func NewDispatcher(gateway domain.MessageGateway, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		gateway:     gateway,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send delivers text to the given phone. Every candidate chat id is tried
// concurrently; the message id of the first successful delivery is
// returned. When every candidate fails the whole fan-out is retried with
// backoff, and after the last attempt the per-candidate errors are joined
// into one.
func (d *Dispatcher) Send(ctx context.Context, phone, text string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", domain.ErrRecipientNoPhone
	}

	chatIDs := CanonicalChatIDs(phone)

	var lastErrs []string
	delay := d.baseDelay

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		messageID, errs := d.sendToCandidates(ctx, chatIDs, text)
		if errs == nil {
			return messageID, nil
		}
		lastErrs = errs

		if attempt == d.maxAttempts {
			break
		}

		slog.WarnContext(ctx, "send attempt failed, retrying",
			slog.Int("attempt", attempt),
			slog.String("errors", strings.Join(errs, "; ")),
		)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}

	return "", errors.New(strings.Join(lastErrs, "; "))
}

// sendToCandidates fans text out to every chat id once and reports the
// first success, or the per-candidate errors when none succeeded.
func (d *Dispatcher) sendToCandidates(ctx context.Context, chatIDs []string, text string) (string, []string) {
	type outcome struct {
		chatID    string
		messageID string
		err       error
	}

	results := make([]outcome, len(chatIDs))
	var wg sync.WaitGroup
	for i, chatID := range chatIDs {
		wg.Add(1)
		go func(i int, chatID string) {
			defer wg.Done()
			messageID, err := d.gateway.Send(ctx, chatID, text)
			results[i] = outcome{chatID: chatID, messageID: messageID, err: err}
		}(i, chatID)
	}
	wg.Wait()

	errMessages := make([]string, 0, len(results))
	for _, r := range results {
		if r.err == nil {
			slog.InfoContext(ctx, "message delivered",
				slog.String("chat_id", r.chatID),
				slog.String("message_id", r.messageID),
			)
			return r.messageID, nil
		}
		errMessages = append(errMessages, fmt.Sprintf("%s: %v", r.chatID, r.err))
	}

	return "", errMessages
}
