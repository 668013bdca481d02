package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const submitTTL = 30 * time.Second

// SubmitGuard marks a booking submission as in flight so a double click or a
// second tab cannot post the same slot twice at once. The mark expires on its
// own if the holder never releases it.
// Key format: portal:submit:<session_id>:<slot_id>
type SubmitGuard struct {
	client *redis.Client
}

// NewSubmitGuard creates a SubmitGuard wrapping the given Redis client.
func NewSubmitGuard(client *redis.Client) *SubmitGuard {
	return &SubmitGuard{client: client}
}

// Acquire reports whether the caller now owns the submission.
func (g *SubmitGuard) Acquire(ctx context.Context, sessionID, slotID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(sessionID, slotID), "1", submitTTL).Result()
	if err != nil {
		return false, fmt.Errorf("submit guard acquire: %w", err)
	}
	return ok, nil
}

// Release clears the in-flight mark.
func (g *SubmitGuard) Release(ctx context.Context, sessionID, slotID string) error {
	return g.client.Del(ctx, g.key(sessionID, slotID)).Err()
}

func (g *SubmitGuard) key(sessionID, slotID string) string {
	return fmt.Sprintf("portal:submit:%s:%s", sessionID, slotID)
}
