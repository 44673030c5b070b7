// Package ledgerindex keeps the Redis fast path in front of the SQL
// execution ledger. Keys expire on their own; Redis is never the source of
// truth for idempotency.
package ledgerindex

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/igor325/AGROTASKv2/internal/domain"
)

const (
	sentKeyPrefix = "scheduler:sent:"

	// Two days covers clock skew around midnight; same-day checks never
	// look further back.
	sentMarkerTTL = 48 * time.Hour
)

type sentIndex struct {
	client *redis.Client
}

func NewSentIndex(client *redis.Client) domain.SentIndex {
	return &sentIndex{
		client: client,
	}
}

func (i *sentIndex) MarkSent(ctx context.Context, key domain.LedgerKey, day time.Time) (bool, error) {
	return i.client.SetNX(ctx, sentKey(key, day), 1, sentMarkerTTL).Result()
}

func (i *sentIndex) WasSent(ctx context.Context, key domain.LedgerKey, day time.Time) (bool, error) {
	exists, err := i.client.Exists(ctx, sentKey(key, day)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func sentKey(key domain.LedgerKey, day time.Time) string {
	return sentKeyPrefix + strings.Join([]string{
		domain.DayKey(day),
		key.Kind.String(),
		key.EntityID,
		key.RecipientID,
	}, ":")
}
