package item

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

type viewStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	GetDel(ctx context.Context, key string) (string, error)
	ViewCountKey(itemID string) string
}

// ViewCounter buffers per-item view counts in Redis so a burst of detail page
// hits turns into a single UPDATE instead of a write per request. Counts are
// drained on the next detail read and folded into items.views_count.
type ViewCounter struct {
	store viewStore
	ttl   time.Duration
}

// NewViewCounter builds a counter that keeps buffered views alive for ttl.
func NewViewCounter(store viewStore, ttl time.Duration) *ViewCounter {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ViewCounter{store: store, ttl: ttl}
}

// Record buffers one view for the item.
func (v *ViewCounter) Record(ctx context.Context, itemID uuid.UUID) error {
	_, err := v.store.IncrWithTTL(ctx, v.store.ViewCountKey(itemID.String()), v.ttl)
	return err
}

// Flush drains the buffered count for the item, returning zero when nothing
// is pending.
func (v *ViewCounter) Flush(ctx context.Context, itemID uuid.UUID) (int64, error) {
	raw, err := v.store.GetDel(ctx, v.store.ViewCountKey(itemID.String()))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, nil
	}
	return count, nil
}
